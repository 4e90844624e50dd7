package entry

import (
	"fmt"
	"strconv"
	"strings"
)

// FieldNames labels the A and B policy fields in rendered output
type FieldNames struct {
	A string
	B string
}

// GenericFieldNames is used when no policy is known
var GenericFieldNames = FieldNames{A: "a", B: "b"}

// Format renders a record as
//
//	Policy { min: 1, max: 3, letter: 'a' } Password("abcde")
func Format(rec Record, names FieldNames) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Policy { %s: %d, %s: %d, letter: %s } ",
		names.A, rec.Policy.A, names.B, rec.Policy.B, strconv.QuoteRune(rune(rec.Policy.Letter)))
	fmt.Fprintf(&sb, "Password(%s)", strconv.Quote(string(rec.Password)))
	return sb.String()
}

// String implements fmt.Stringer
func (r Record) String() string {
	return Format(r, GenericFieldNames)
}
