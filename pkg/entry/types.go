package entry

import (
	"errors"
	"fmt"
)

// Policy holds the three parameters of a record. A and B are interpreted by
// the policy that validates the record.
type Policy struct {
	A      uint8 // min count or first position
	B      uint8 // max count or second position
	Letter byte  // target character
}

// Record is a parsed line
type Record struct {
	Policy   Policy
	Password []byte // slice of the original line, not a copy
}

// ErrorKind classifies record errors
type ErrorKind int

const (
	MalformedRecord ErrorKind = iota + 1
	IndexOutOfRange
)

func (k ErrorKind) String() string {
	switch k {
	case MalformedRecord:
		return "malformed record"
	case IndexOutOfRange:
		return "index out of range"
	default:
		return "unknown"
	}
}

// Errors
var (
	ErrMalformedRecord = &RecordError{Kind: MalformedRecord}
	ErrIndexOutOfRange = &RecordError{Kind: IndexOutOfRange}
)

// RecordError is returned when a line cannot be parsed or validated
type RecordError struct {
	Kind   ErrorKind
	Line   int // 1-based line number, 0 if unknown
	Reason string
}

func (e *RecordError) Error() string {
	msg := e.Kind.String()
	if e.Line > 0 {
		msg = fmt.Sprintf("line %d: %s", e.Line, msg)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

// Is matches any RecordError of the same kind, so the sentinels work with errors.Is.
func (e *RecordError) Is(target error) bool {
	var re *RecordError
	if !errors.As(target, &re) {
		return false
	}
	return re.Kind == e.Kind
}

// WithLine returns a copy of err annotated with a line number. Errors that are
// not *RecordError are returned unchanged.
func WithLine(err error, line int) error {
	var re *RecordError
	if !errors.As(err, &re) {
		return err
	}
	annotated := *re
	annotated.Line = line
	return &annotated
}

func malformed(format string, args ...interface{}) error {
	return &RecordError{Kind: MalformedRecord, Reason: fmt.Sprintf(format, args...)}
}

// OutOfRange builds an IndexOutOfRange error for a position outside the password.
func OutOfRange(pos uint8, length int) error {
	return &RecordError{
		Kind:   IndexOutOfRange,
		Reason: fmt.Sprintf("position %d outside password of length %d", pos, length),
	}
}
