package policy

import "github.com/ssargent/pwaudit/pkg/entry"

// Count accepts a password when the letter occurs between A (min) and B (max)
// times, inclusive.
type Count struct{}

func (Count) Name() string { return NameCount }

func (Count) FieldNames() entry.FieldNames {
	return entry.FieldNames{A: "min", B: "max"}
}

// Validate never returns an error
func (Count) Validate(rec entry.Record) (bool, error) {
	lo, hi, letter := int(rec.Policy.A), int(rec.Policy.B), rec.Policy.Letter

	n := 0
	for _, c := range rec.Password {
		if c != letter {
			continue
		}
		n++
		if n > hi {
			return false, nil
		}
	}
	return n >= lo, nil
}
