package planner

import (
	"context"

	"github.com/sirupsen/logrus"

	"route_planner/internal/models"
)

// dispatch starts a lookup for id unless one is already running and returns a
// channel closed when that lookup has been recorded. The stop is marked
// validating before dispatch returns.
func (p *Planner) dispatch(id string) <-chan struct{} {
	p.inflightMu.Lock()
	defer p.inflightMu.Unlock()

	if done, ok := p.inflight[id]; ok {
		return done
	}
	return p.startLocked(id)
}

// join waits on the lookup for id, starting one only if the stop has not
// reached a final status. A snapshot may still show validating for a lookup
// that has just been recorded.
func (p *Planner) join(id string) <-chan struct{} {
	p.inflightMu.Lock()
	defer p.inflightMu.Unlock()

	if done, ok := p.inflight[id]; ok {
		return done
	}
	if cur, ok := p.store.Get(id); !ok || cur.ValidationStatus.Terminal() {
		done := make(chan struct{})
		close(done)
		return done
	}
	return p.startLocked(id)
}

// startLocked begins a lookup. inflightMu must be held.
func (p *Planner) startLocked(id string) chan struct{} {
	done := make(chan struct{})
	stop, ok := p.workflow.Begin(id)
	if !ok {
		close(done)
		return done
	}
	p.inflight[id] = done

	p.wg.Add(1)
	go p.resolve(stop, done)
	return done
}

func (p *Planner) resolve(stop models.Stop, done chan struct{}) {
	defer p.wg.Done()

	result, ok := p.workflow.Resolve(p.ctx, stop)

	p.inflightMu.Lock()
	delete(p.inflight, stop.ID)
	close(done)
	p.inflightMu.Unlock()

	if !ok {
		logrus.WithField("stop_id", stop.ID).Debug("Stop removed before its lookup finished")
		return
	}
	if p.ctx.Err() != nil {
		// Shutting down: leave the stored copy as it was so the lookup reruns on next load.
		return
	}

	logrus.WithFields(logrus.Fields{
		"stop_id": stop.ID,
		"status":  result.ValidationStatus,
	}).Info("Stop validation finished")

	p.mu.Lock()
	defer p.mu.Unlock()
	p.changed()
}

// awaitValidation makes sure every stop has been through a lookup at least
// once, starting one for pending stops and joining those already in flight.
func (p *Planner) awaitValidation(ctx context.Context, stops []models.Stop) error {
	var waits []<-chan struct{}
	for _, s := range stops {
		switch s.ValidationStatus {
		case models.StatusPending, models.StatusValidating:
			waits = append(waits, p.join(s.ID))
		}
	}

	for _, done := range waits {
		select {
		case <-done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// Pending reports how many lookups are currently in flight.
func (p *Planner) Pending() int {
	p.inflightMu.Lock()
	defer p.inflightMu.Unlock()
	return len(p.inflight)
}
