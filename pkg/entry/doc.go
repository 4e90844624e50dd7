// Package entry parses password-policy records.
//
// Each record is one line of text in the form
//
//	<A>-<B> <letter>: <password>
//
// where A and B are decimal numbers between 0 and 255 and letter is a single
// byte. How A and B are interpreted depends on the policy applied to the record
// (see package policy): a count policy reads them as min/max occurrences, a
// position policy reads them as 1-based indices into the password.
//
// # Parsing
//
// Parse works on the raw bytes of a line and does not copy the password: the
// returned Record's Password is a sub-slice of the input and is only valid for
// as long as the caller keeps that input alive.
//
//	rec, err := entry.Parse([]byte("1-3 a: abcde"))
//	if err != nil {
//	    return err
//	}
//
// The two bytes following the letter (normally ": ") are skipped without being
// inspected.
//
// # Error Handling
//
// Grammar violations and out-of-range numbers are reported as *RecordError with
// Kind MalformedRecord. Policies that index into the password report
// IndexOutOfRange with the same type. Both can be matched with errors.Is against
// ErrMalformedRecord and ErrIndexOutOfRange.
//
// # Formatting
//
// Format renders a record for reports using caller-supplied field names, so the
// output does not depend on how Policy is laid out in memory.
package entry
