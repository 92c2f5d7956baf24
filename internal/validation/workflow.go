package validation

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"route_planner/internal/geocoding"
	"route_planner/internal/models"
)

// ServiceUnavailable is recorded on a stop whose lookup failed outright,
// as opposed to simply finding no match.
const ServiceUnavailable = "service unavailable"

// Recorder is the slice of the stop store the workflow writes through.
type Recorder interface {
	Update(id string, fn func(*models.Stop)) (models.Stop, bool)
}

// Workflow resolves stop names to coordinates and records the outcome.
// It is the only writer of a stop's validation fields after creation.
type Workflow struct {
	recorder Recorder
	geocoder geocoding.Client
	timeout  time.Duration
}

// New builds a workflow. A zero timeout leaves lookups bounded only by ctx.
func New(recorder Recorder, geocoder geocoding.Client, timeout time.Duration) *Workflow {
	return &Workflow{recorder: recorder, geocoder: geocoder, timeout: timeout}
}

// Begin marks the stop as validating and returns the snapshot to resolve.
// Any earlier position is dropped so only valid stops ever carry one.
// It reports false when the stop no longer exists.
func (w *Workflow) Begin(id string) (models.Stop, bool) {
	return w.recorder.Update(id, func(s *models.Stop) {
		s.ValidationStatus = models.StatusValidating
		s.ValidationError = ""
		s.Position = nil
		s.FormattedAddress = ""
	})
}

// Resolve performs the lookup for a stop returned by Begin and records the
// result. Failures are logged and folded into an invalid status; they are never
// returned. The second return value is false if the stop vanished meanwhile.
func (w *Workflow) Resolve(ctx context.Context, stop models.Stop) (models.Stop, bool) {
	if w.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.timeout)
		defer cancel()
	}

	log := logrus.WithFields(logrus.Fields{"stop_id": stop.ID, "query": stop.Name})

	res, err := w.geocoder.Lookup(ctx, stop.Name)
	switch {
	case err != nil:
		log.WithError(err).Warn("Geocoding failed; stop kept without coordinates")
		return w.recorder.Update(stop.ID, func(s *models.Stop) {
			s.ValidationStatus = models.StatusInvalid
			s.ValidationError = ServiceUnavailable
			s.Position = nil
			s.FormattedAddress = ""
		})
	case res == nil:
		log.Info("No geocoding match for stop")
		return w.recorder.Update(stop.ID, func(s *models.Stop) {
			s.ValidationStatus = models.StatusInvalid
			s.ValidationError = ""
			s.Position = nil
			s.FormattedAddress = ""
		})
	}

	label := res.Label
	if label == "" {
		label = stop.Name
	}
	log.WithFields(logrus.Fields{"lat": res.Lat, "lng": res.Lng}).Debug("Stop geocoded")
	return w.recorder.Update(stop.ID, func(s *models.Stop) {
		s.Position = &models.Position{Lat: res.Lat, Lng: res.Lng}
		s.FormattedAddress = label
		s.ValidationStatus = models.StatusValid
		s.ValidationError = ""
	})
}

// Validate runs Begin and Resolve back to back.
func (w *Workflow) Validate(ctx context.Context, id string) (models.Stop, bool) {
	stop, ok := w.Begin(id)
	if !ok {
		return models.Stop{}, false
	}
	return w.Resolve(ctx, stop)
}
