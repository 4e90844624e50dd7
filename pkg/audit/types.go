// Package audit runs a policy over a stream of records and tallies the results.
package audit

import (
	"time"

	"github.com/segmentio/ksuid"
)

// Outcome classifies a single line
type Outcome string

const (
	OutcomeValid   Outcome = "valid"
	OutcomeInvalid Outcome = "invalid"
	OutcomeError   Outcome = "error"
)

// Result is the outcome of checking one line
type Result struct {
	Line    int     `json:"line"`
	Text    string  `json:"text"`
	Record  string  `json:"record,omitempty"` // rendered record, empty if parsing failed
	Outcome Outcome `json:"outcome"`
	Error   string  `json:"error,omitempty"`

	err error
}

// Err returns the error behind an OutcomeError result
func (r Result) Err() error {
	return r.err
}

// Summary describes a finished (or aborted) run
type Summary struct {
	ID         ksuid.KSUID `json:"id"`
	Policy     string      `json:"policy"`
	Source     string      `json:"source"`
	Total      int         `json:"total"`
	Valid      int         `json:"valid"`
	Invalid    int         `json:"invalid"`
	Errors     int         `json:"errors"`
	Aborted    bool        `json:"aborted,omitempty"`
	StartedAt  time.Time   `json:"started_at"`
	FinishedAt time.Time   `json:"finished_at"`
}

// Duration returns how long the run took
func (s *Summary) Duration() time.Duration {
	return s.FinishedAt.Sub(s.StartedAt)
}

func (s *Summary) add(r Result) {
	s.Total++
	switch r.Outcome {
	case OutcomeValid:
		s.Valid++
	case OutcomeInvalid:
		s.Invalid++
	case OutcomeError:
		s.Errors++
	}
}
