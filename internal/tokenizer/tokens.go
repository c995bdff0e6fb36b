// Package tokenizer splits one line-protocol line into raw token spans.
//
// The tokenizer is the first stage of parsing: it locates the
// measurement, tag pairs, field pairs, and optional timestamp within a
// single line, honoring backslash escapes so that escaped delimiters do
// not terminate tokens early. Spans are returned still-escaped; escape
// resolution and value typing happen in later stages.
package tokenizer

import (
	"errors"
	"fmt"
)

// Pair is a raw key/value span pair (a tag or a field) with the byte
// offsets of both spans within the line.
type Pair struct {
	Key         []byte
	Value       []byte
	KeyOffset   int
	ValueOffset int
}

// Line holds the raw token spans of one tokenized line. All spans
// alias the buffer passed to Tokenize and still contain their escape
// sequences. A nil Timestamp means the line carried none.
type Line struct {
	Measurement []byte
	Tags        []Pair
	Fields      []Pair

	Timestamp       []byte
	TimestampOffset int
}

// Sentinel error kinds reported by the tokenizer.
var (
	// ErrEmptyMeasurement indicates the measurement span was empty.
	ErrEmptyMeasurement = errors.New("empty measurement name")

	// ErrMissingFieldSet indicates the line ended before any field pair.
	ErrMissingFieldSet = errors.New("missing field set")

	// ErrMalformedTagOrField indicates a tag or field pair without a key,
	// without a value, or without its '=' separator.
	ErrMalformedTagOrField = errors.New("malformed tag or field pair")

	// ErrUnterminatedString indicates a quoted field value whose closing
	// quote was not found before end of line.
	ErrUnterminatedString = errors.New("unterminated quoted field value")

	// ErrInvalidFieldValue indicates stray bytes between a closing quote
	// and the next delimiter.
	ErrInvalidFieldValue = errors.New("invalid field value")

	// ErrInvalidTimestamp indicates an empty timestamp span after a
	// trailing space.
	ErrInvalidTimestamp = errors.New("invalid timestamp")
)

// SyntaxError is a tokenization error carrying the byte offset within
// the line at which it was detected. Err is one of the sentinel kinds
// above; errors.Is sees through the wrapper.
type SyntaxError struct {
	Offset int
	Err    error
}

// Error returns a formatted message with the byte offset.
func (e *SyntaxError) Error() string {
	return fmt.Sprintf("offset %d: %v", e.Offset, e.Err)
}

// Unwrap returns the sentinel error kind.
func (e *SyntaxError) Unwrap() error {
	return e.Err
}
