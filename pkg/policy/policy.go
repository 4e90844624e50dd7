// Package policy validates parsed records against a password policy.
package policy

import (
	"errors"
	"fmt"
	"sort"

	"github.com/ssargent/pwaudit/pkg/entry"
)

// Names of the built-in policies
const (
	NameCount    = "count"
	NamePosition = "position"
)

// ErrUnknownPolicy is returned by Lookup for names it does not know
var ErrUnknownPolicy = errors.New("unknown policy")

// Validator applies a policy rule to a record. Implementations are stateless,
// so calling Validate repeatedly on the same record gives the same answer.
type Validator interface {
	Name() string
	// FieldNames labels the record's A and B fields for this policy.
	FieldNames() entry.FieldNames
	// Validate reports whether rec satisfies the policy. A non-nil error means
	// the record could not be evaluated at all.
	Validate(rec entry.Record) (bool, error)
}

var registry = map[string]Validator{
	NameCount:    Count{},
	NamePosition: Position{},
}

// Lookup returns the validator registered under name
func Lookup(name string) (Validator, error) {
	v, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w %q (expected one of %v)", ErrUnknownPolicy, name, Names())
	}
	return v, nil
}

// Names lists the registered policy names in sorted order
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
