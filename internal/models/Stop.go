package models

// ValidationStatus tracks where a stop is in address resolution.
type ValidationStatus string

const (
	StatusPending    ValidationStatus = "pending"
	StatusValidating ValidationStatus = "validating"
	StatusValid      ValidationStatus = "valid"
	StatusInvalid    ValidationStatus = "invalid"
)

// Terminal reports whether a lookup has already settled the status.
func (s ValidationStatus) Terminal() bool {
	return s == StatusValid || s == StatusInvalid
}

// Position is a resolved WGS84 coordinate.
type Position struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Stop represents one waypoint the user wants to visit.
// Position and FormattedAddress are only set once geocoding succeeded.
type Stop struct {
	ID               string           `json:"id"`
	Name             string           `json:"name"`
	Notes            string           `json:"notes"`
	Position         *Position        `json:"position"`
	FormattedAddress string           `json:"formattedAddress,omitempty"`
	ValidationStatus ValidationStatus `json:"validationStatus"`
	ValidationError  string           `json:"validationError,omitempty"`
}

// HasPosition reports whether the stop can take part in the route.
func (s Stop) HasPosition() bool {
	return s.Position != nil
}

// Clone returns a copy that shares no pointers with s.
func (s Stop) Clone() Stop {
	if s.Position != nil {
		p := *s.Position
		s.Position = &p
	}
	return s
}

// CloneStops copies a slice of stops deeply.
func CloneStops(stops []Stop) []Stop {
	out := make([]Stop, len(stops))
	for i, s := range stops {
		out[i] = s.Clone()
	}
	return out
}
