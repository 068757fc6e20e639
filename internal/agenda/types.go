// Package agenda looks up a barber's open time slots for a date on the
// external agenda endpoint.
package agenda

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

var (
	// ErrConnection covers every transport-level failure: network errors,
	// non-2xx statuses and bodies that are not the expected JSON.
	ErrConnection = errors.New("agenda: connection error")
	// ErrInvalidQuery is returned when the barber or date is malformed.
	ErrInvalidQuery = errors.New("agenda: invalid query")
)

// Query identifies one availability lookup.
type Query struct {
	Barber string
	Date   string // YYYY-MM-DD
}

// Validate checks the query has a barber and an ISO date.
func (q Query) Validate() error {
	if strings.TrimSpace(q.Barber) == "" {
		return fmt.Errorf("%w: barber is required", ErrInvalidQuery)
	}
	if _, err := time.Parse(dateLayout, q.Date); err != nil {
		return fmt.Errorf("%w: date %q must be YYYY-MM-DD", ErrInvalidQuery, q.Date)
	}
	return nil
}

// Payload is the upstream JSON document.
type Payload struct {
	Erro     string   `json:"erro,omitempty"`
	Barbeiro string   `json:"barbeiro,omitempty"`
	Data     string   `json:"data,omitempty"`
	Horarios []string `json:"horarios,omitempty"`

	// Raw holds the body exactly as received so relays pass it through untouched.
	Raw json.RawMessage `json:"-"`
}

// Outcome classifies a lookup for presentation.
type Outcome string

const (
	OutcomeAvailable       Outcome = "available"
	OutcomeNoAvailability  Outcome = "no_availability"
	OutcomeUpstreamError   Outcome = "upstream_error"
	OutcomeConnectionError Outcome = "connection_error"
)

// Result is the AvailabilityResult handed to the presenter. Only one lookup's
// result is meaningful at a time; newer lookups supersede older ones.
type Result struct {
	Outcome Outcome  `json:"outcome"`
	Barber  string   `json:"barber,omitempty"`
	Date    string   `json:"date,omitempty"` // DD/MM/YYYY
	Slots   []string `json:"slots,omitempty"`
	Message string   `json:"message,omitempty"`
}

// IsError reports whether the lookup failed, either upstream or in transport.
func (r Result) IsError() bool {
	return r.Outcome == OutcomeUpstreamError || r.Outcome == OutcomeConnectionError
}

// DisplayDate reorders an ISO date into DD/MM/YYYY. Malformed input is
// returned unchanged.
func DisplayDate(iso string) string {
	parts := strings.Split(iso, "-")
	if len(parts) != 3 {
		return iso
	}
	return parts[2] + "/" + parts[1] + "/" + parts[0]
}
