package binary

import "fmt"

// DecodeError reports a contract field that could not be decoded.
// Malformed input is never coerced to a default value.
type DecodeError struct {
	Field string
	Input string
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode %s from %q: %v", e.Field, e.Input, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// renamed returns err with its field relabelled, leaving other errors untouched
func renamed(field string, err error) error {
	if de, ok := err.(*DecodeError); ok {
		return &DecodeError{Field: field, Input: de.Input, Err: de.Err}
	}
	return err
}
