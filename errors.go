package urlnormalize

import (
	"errors"
	"fmt"
)

// Errors that might be returned by New and Normalize.
var (
	// ErrInvalidURL indicates the input string could not be parsed as an
	// absolute URL. This is a routine, caller-input-driven failure.
	ErrInvalidURL = errors.New("invalid URL")

	// ErrEncode indicates path re-encoding produced invalid text. It
	// should not occur with a correct encoder.
	ErrEncode = errors.New("path encoding produced invalid text")

	// ErrInternal indicates the path segment bookkeeping became
	// inconsistent. It signals a bug in the normalizer itself, not bad
	// input, and should not be retried.
	ErrInternal = errors.New("segment bookkeeping mismatch")
)

// PatternError is returned when a removal pattern fails to compile as a
// regular expression. It carries the offending pattern text.
type PatternError struct {
	Pattern string
	Err     error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("invalid removal pattern %q: %s", e.Pattern, e.Err)
}

func (e *PatternError) Unwrap() error {
	return e.Err
}
