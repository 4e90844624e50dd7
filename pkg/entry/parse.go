package entry

import "bytes"

const maxDigits = 3

// Parse decodes a single line into a Record. The returned Password aliases line.
func Parse(line []byte) (Record, error) {
	dash := bytes.IndexByte(line, '-')
	if dash < 0 {
		return Record{}, malformed("missing '-' separator")
	}
	a, err := parseNumber(line[:dash])
	if err != nil {
		return Record{}, err
	}
	tail := line[dash+1:]

	space := bytes.IndexByte(tail, ' ')
	if space < 0 {
		return Record{}, malformed("missing ' ' after second number")
	}
	b, err := parseNumber(tail[:space])
	if err != nil {
		return Record{}, err
	}
	tail = tail[space+1:]

	// tail[0] is the letter, tail[1:3] is ": "
	if len(tail) < 3 {
		return Record{}, malformed("line ends before password")
	}

	return Record{
		Policy:   Policy{A: a, B: b, Letter: tail[0]},
		Password: tail[3:],
	}, nil
}

// ParseString is Parse for string input. The password is backed by a fresh
// copy of s.
func ParseString(s string) (Record, error) {
	return Parse([]byte(s))
}

func parseNumber(digits []byte) (uint8, error) {
	if len(digits) == 0 {
		return 0, malformed("empty number")
	}
	if len(digits) > maxDigits {
		return 0, malformed("number %q has more than %d digits", digits, maxDigits)
	}

	var n int
	for _, c := range digits {
		if c < '0' || c > '9' {
			return 0, malformed("invalid digit %q in %q", c, digits)
		}
		n = n*10 + int(c-'0')
	}
	if n > 255 {
		return 0, malformed("number %d exceeds 255", n)
	}
	return uint8(n), nil
}
