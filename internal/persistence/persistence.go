package persistence

import (
	"context"
	"encoding/json"
	"fmt"

	"route_planner/internal/models"
)

// StorageKey is the fixed logical key the stop collection is saved under.
const StorageKey = "routingGuideStops"

// Adapter is an opaque blob store. Load returns nil, nil when nothing was saved.
type Adapter interface {
	Save(ctx context.Context, blob []byte) error
	Load(ctx context.Context) ([]byte, error)
}

// stopID accepts both string ids and the numeric timestamp ids older saves used.
type stopID string

// UnmarshalJSON implements a lenient id decoder.
func (id *stopID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*id = stopID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid stop id %s: %w", string(data), err)
	}
	*id = stopID(n.String())
	return nil
}

// record is the persisted shape of one stop.
type record struct {
	ID               stopID                  `json:"id"`
	Name             string                  `json:"name"`
	Notes            string                  `json:"notes"`
	Position         *models.Position        `json:"position"`
	IsValidated      bool                    `json:"isValidated"`
	ValidationStatus models.ValidationStatus `json:"validationStatus,omitempty"`
	FormattedAddress string                  `json:"formattedAddress,omitempty"`
	ValidationError  string                  `json:"validationError,omitempty"`
}

// Encode serialises stops as an ordered JSON array.
func Encode(stops []models.Stop) ([]byte, error) {
	records := make([]record, 0, len(stops))
	for _, s := range stops {
		records = append(records, record{
			ID:               stopID(s.ID),
			Name:             s.Name,
			Notes:            s.Notes,
			Position:         s.Position,
			IsValidated:      s.ValidationStatus == models.StatusValid,
			ValidationStatus: s.ValidationStatus,
			FormattedAddress: s.FormattedAddress,
			ValidationError:  s.ValidationError,
		})
	}
	return json.Marshal(records)
}

// Decode parses a blob written by Encode or by the older position-only format.
// Statuses are normalised so that only stops with a position are valid and no
// stop comes back mid-lookup.
func Decode(blob []byte) ([]models.Stop, error) {
	if len(blob) == 0 {
		return nil, nil
	}

	var records []record
	if err := json.Unmarshal(blob, &records); err != nil {
		return nil, fmt.Errorf("failed to decode stops: %w", err)
	}

	stops := make([]models.Stop, 0, len(records))
	seen := make(map[string]bool, len(records))
	for _, r := range records {
		id := string(r.ID)
		if id == "" || seen[id] {
			return nil, fmt.Errorf("failed to decode stops: missing or duplicate id %q", id)
		}
		seen[id] = true

		s := models.Stop{
			ID:               id,
			Name:             r.Name,
			Notes:            r.Notes,
			Position:         r.Position,
			FormattedAddress: r.FormattedAddress,
			ValidationStatus: r.ValidationStatus,
			ValidationError:  r.ValidationError,
		}
		normalize(&s)
		stops = append(stops, s)
	}
	return stops, nil
}

func normalize(s *models.Stop) {
	switch s.ValidationStatus {
	case models.StatusValid:
		if s.Position == nil {
			s.ValidationStatus = models.StatusPending
		}
	case models.StatusInvalid:
		s.Position = nil
	case "":
		// Written before validation statuses existed.
		if s.Position != nil {
			s.ValidationStatus = models.StatusValid
		} else {
			s.ValidationStatus = models.StatusPending
		}
	default:
		s.ValidationStatus = models.StatusPending
		s.Position = nil
	}
	if s.ValidationStatus != models.StatusValid {
		s.FormattedAddress = ""
	}
	if s.ValidationStatus != models.StatusInvalid {
		s.ValidationError = ""
	}
}
