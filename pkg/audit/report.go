package audit

import (
	"encoding/json"
	"fmt"
	"io"
)

// Reporter receives results as they are produced
type Reporter interface {
	Result(r Result) error
	End(s *Summary) error
}

// Report formats
const (
	FormatText = "text"
	FormatJSON = "json"
)

// NewReporter returns the reporter for format
func NewReporter(format string, w io.Writer) (Reporter, error) {
	switch format {
	case FormatText, "":
		return NewTextReporter(w), nil
	case FormatJSON:
		return NewJSONReporter(w), nil
	default:
		return nil, fmt.Errorf("unknown report format %q (expected %s or %s)", format, FormatText, FormatJSON)
	}
}

// TextReporter prints each line, its parsed record and the verdict, followed
// by the number of valid passwords.
type TextReporter struct {
	w io.Writer
}

// NewTextReporter creates a text reporter writing to w
func NewTextReporter(w io.Writer) *TextReporter {
	return &TextReporter{w: w}
}

func (t *TextReporter) Result(r Result) error {
	if _, err := fmt.Fprintln(t.w, r.Text); err != nil {
		return err
	}
	if r.Record != "" {
		if _, err := fmt.Fprintln(t.w, r.Record); err != nil {
			return err
		}
	}

	var err error
	switch r.Outcome {
	case OutcomeValid:
		_, err = fmt.Fprintln(t.w, "Valid")
	case OutcomeInvalid:
		_, err = fmt.Fprintln(t.w, "Invalid")
	default:
		_, err = fmt.Fprintf(t.w, "Error: %s\n", r.Error)
	}
	return err
}

func (t *TextReporter) End(s *Summary) error {
	if _, err := fmt.Fprintf(t.w, "Valid passwords: %d\n", s.Valid); err != nil {
		return err
	}
	if s.Errors > 0 {
		_, err := fmt.Fprintf(t.w, "Errors: %d\n", s.Errors)
		return err
	}
	return nil
}

// Report is the document written by JSONReporter
type Report struct {
	Summary *Summary `json:"summary"`
	Results []Result `json:"results"`
}

// JSONReporter buffers results and writes a single Report when the run ends
type JSONReporter struct {
	w       io.Writer
	results []Result
}

// NewJSONReporter creates a JSON reporter writing to w
func NewJSONReporter(w io.Writer) *JSONReporter {
	return &JSONReporter{w: w, results: []Result{}}
}

func (j *JSONReporter) Result(r Result) error {
	j.results = append(j.results, r)
	return nil
}

func (j *JSONReporter) End(s *Summary) error {
	encoder := json.NewEncoder(j.w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(Report{Summary: s, Results: j.results})
}

// Collector keeps results in memory for callers that build their own response
type Collector struct {
	Results []Result
	Summary *Summary
}

func (c *Collector) Result(r Result) error {
	c.Results = append(c.Results, r)
	return nil
}

func (c *Collector) End(s *Summary) error {
	c.Summary = s
	return nil
}
