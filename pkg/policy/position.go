package policy

import "github.com/ssargent/pwaudit/pkg/entry"

// Position accepts a password when exactly one of the 1-based positions A and
// B holds the letter.
type Position struct{}

func (Position) Name() string { return NamePosition }

func (Position) FieldNames() entry.FieldNames {
	return entry.FieldNames{A: "pos1", B: "pos2"}
}

// Validate returns an entry.ErrIndexOutOfRange error when either position is
// zero or beyond the end of the password.
func (Position) Validate(rec entry.Record) (bool, error) {
	first, err := letterAt(rec.Password, rec.Policy.A, rec.Policy.Letter)
	if err != nil {
		return false, err
	}
	second, err := letterAt(rec.Password, rec.Policy.B, rec.Policy.Letter)
	if err != nil {
		return false, err
	}
	return first != second, nil
}

func letterAt(password []byte, pos uint8, letter byte) (bool, error) {
	if pos == 0 || int(pos) > len(password) {
		return false, entry.OutOfRange(pos, len(password))
	}
	return password[pos-1] == letter, nil
}
