// Package planner coordinates the stop store, address validation, route
// optimisation, persistence and the map. It is the only entry point the HTTP
// layer talks to.
package planner

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"route_planner/internal/geocoding"
	"route_planner/internal/mapview"
	"route_planner/internal/models"
	"route_planner/internal/persistence"
	"route_planner/internal/store"
	"route_planner/internal/summary"
	"route_planner/internal/validation"
)

var (
	ErrNothingToExport    = errors.New("no stops to export")
	ErrOptimizeInProgress = errors.New("route optimization already running")
)

// Options configures a Planner. Geocoder and Persistence are required.
type Options struct {
	Geocoder      geocoding.Client
	Persistence   persistence.Adapter
	Sink          mapview.Sink
	LookupTimeout time.Duration
	Now           func() time.Time
}

// Planner is the route planning orchestrator.
type Planner struct {
	store    *store.StopStore
	workflow *validation.Workflow
	persist  persistence.Adapter
	sink     mapview.Sink
	now      func() time.Time

	// Serialises planner level mutations so persistence and map output follow
	// the order the operations happened in.
	mu sync.Mutex

	inflightMu sync.Mutex
	inflight   map[string]chan struct{}
	wg         sync.WaitGroup

	optimizing atomic.Bool

	ctx    context.Context
	cancel context.CancelFunc
}

// New wires a planner around an empty store.
func New(opts Options) *Planner {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Sink == nil {
		opts.Sink = discardSink{}
	}
	st := store.New()
	ctx, cancel := context.WithCancel(context.Background())
	return &Planner{
		store:    st,
		workflow: validation.New(st, opts.Geocoder, opts.LookupTimeout),
		persist:  opts.Persistence,
		sink:     opts.Sink,
		now:      opts.Now,
		inflight: make(map[string]chan struct{}),
		ctx:      ctx,
		cancel:   cancel,
	}
}

type discardSink struct{}

func (discardSink) Publish(models.MapView) {}

// Stops returns the current collection in order.
func (p *Planner) Stops() []models.Stop {
	return p.store.List()
}

// Summary computes distance and time over the current order.
func (p *Planner) Summary() models.Summary {
	return summary.Summarize(p.store.List())
}

// MapView projects the current order onto map markers.
func (p *Planner) MapView() models.MapView {
	return p.buildView(p.store.List())
}

func (p *Planner) buildView(stops []models.Stop) models.MapView {
	return mapview.Build(stops, summary.Summarize(stops))
}

// AddStop creates a stop and starts resolving its address in the background.
// The returned stop is already marked validating.
func (p *Planner) AddStop(name, notes string) (models.Stop, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	stop, err := p.store.Add(name, notes)
	if err != nil {
		return models.Stop{}, err
	}
	logrus.WithFields(logrus.Fields{"stop_id": stop.ID, "name": stop.Name}).Info("Stop added")

	p.dispatch(stop.ID)
	if current, ok := p.store.Get(stop.ID); ok {
		stop = current
	}
	p.changed()
	return stop, nil
}

// RemoveStop deletes a stop. Unknown ids are ignored.
func (p *Planner) RemoveStop(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.store.Remove(id) {
		logrus.WithField("stop_id", id).Info("Stop removed")
		p.changed()
	}
}

// MoveStopUp swaps the stop at index with its predecessor.
func (p *Planner) MoveStopUp(index int) error {
	return p.mutate(func() error { return p.store.MoveUp(index) })
}

// MoveStopDown swaps the stop at index with its successor.
func (p *Planner) MoveStopDown(index int) error {
	return p.mutate(func() error { return p.store.MoveDown(index) })
}

// ReorderStops applies an order reported by the UI, e.g. after a drag.
func (p *Planner) ReorderStops(ids []string) error {
	return p.mutate(func() error { return p.store.Reorder(ids) })
}

// ClearAll removes every stop. Lookups still in flight finish without effect.
func (p *Planner) ClearAll() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.store.Clear()
	logrus.Info("All stops cleared")
	p.changed()
}

// RevalidateStop re-submits one stop for address lookup. A lookup already in
// flight for that stop is reused.
func (p *Planner) RevalidateStop(id string) (models.Stop, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.store.Get(id); !ok {
		return models.Stop{}, fmt.Errorf("%w: %s", store.ErrStopNotFound, id)
	}
	p.dispatch(id)
	stop, _ := p.store.Get(id)
	p.changed()
	return stop, nil
}

func (p *Planner) mutate(fn func() error) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := fn(); err != nil {
		return err
	}
	p.changed()
	return nil
}

// changed persists the collection and pushes a new map view.
func (p *Planner) changed() {
	stops := p.store.List()
	p.save(stops)
	p.sink.Publish(p.buildView(stops))
}

func (p *Planner) save(stops []models.Stop) {
	blob, err := persistence.Encode(stops)
	if err != nil {
		logrus.WithError(err).Error("Error encoding stops for storage")
		return
	}
	ctx, cancel := context.WithTimeout(p.ctx, 5*time.Second)
	defer cancel()
	if err := p.persist.Save(ctx, blob); err != nil {
		logrus.WithError(err).Error("Error saving to storage")
	}
}

// Close cancels outstanding lookups and waits for them to finish.
func (p *Planner) Close() {
	p.cancel()
	p.wg.Wait()
}
