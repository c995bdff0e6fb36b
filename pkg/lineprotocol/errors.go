package lineprotocol

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/shapestone/shape-lineprotocol/internal/tokenizer"
)

// Sentinel error kinds. Every parse failure wraps exactly one of these;
// match them with errors.Is.
var (
	// ErrEmptyMeasurement indicates the measurement span was empty.
	ErrEmptyMeasurement = tokenizer.ErrEmptyMeasurement

	// ErrMissingFieldSet indicates a line with no fields. It is also
	// returned by the serializer when asked to encode a Point without
	// fields.
	ErrMissingFieldSet = tokenizer.ErrMissingFieldSet

	// ErrMalformedTagOrField indicates a tag or field pair missing its
	// key, its value, or its '=' separator.
	ErrMalformedTagOrField = tokenizer.ErrMalformedTagOrField

	// ErrUnterminatedString indicates a quoted field value whose closing
	// quote was not found before end of line.
	ErrUnterminatedString = tokenizer.ErrUnterminatedString

	// ErrInvalidFieldValue indicates a field value token that matches no
	// recognized literal form, or a numeric literal that overflows its
	// 64-bit target.
	ErrInvalidFieldValue = tokenizer.ErrInvalidFieldValue

	// ErrInvalidTimestamp indicates a timestamp span that is not a valid
	// signed 64-bit integer.
	ErrInvalidTimestamp = tokenizer.ErrInvalidTimestamp
)

// Usage errors returned by the serializer and builder, never by the
// parser.
var (
	// ErrNonFiniteFloat indicates a NaN or infinite float field value,
	// which has no line-protocol literal form.
	ErrNonFiniteFloat = errors.New("non-finite float field value")

	// ErrNewlineInToken indicates a newline inside a measurement, key,
	// tag value, or string field value handed to the builder.
	ErrNewlineInToken = errors.New("newline is not allowed in token text")

	// ErrReservedKeyPrefix indicates a tag or field key starting with
	// '_', which is reserved for system use.
	ErrReservedKeyPrefix = errors.New("keys must not start with '_'")
)

// ParseError is a line-scoped parsing error with position information.
// Err is one of the sentinel kinds above, possibly with additional
// detail wrapped around it.
type ParseError struct {
	// Line is the source line number where the error occurred (1-indexed).
	Line int
	// Offset is the byte offset within that line (0-indexed).
	Offset int
	// Err is the underlying error.
	Err error
}

// Error returns a formatted error message with position information.
func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d, offset %d: %v", e.Line, e.Offset, e.Err)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// BadLineMode specifies how DecodeAll handles malformed lines.
type BadLineMode int

const (
	// BadLineModeError stops at the first malformed line (default).
	BadLineModeError BadLineMode = iota
	// BadLineModeWarn logs a warning and continues with the next line.
	BadLineModeWarn
	// BadLineModeSkip silently skips malformed lines.
	BadLineModeSkip
)

// String returns the string representation of BadLineMode.
func (m BadLineMode) String() string {
	switch m {
	case BadLineModeError:
		return "error"
	case BadLineModeWarn:
		return "warn"
	case BadLineModeSkip:
		return "skip"
	default:
		return fmt.Sprintf("BadLineMode(%d)", m)
	}
}

// BadLineHandler is a callback invoked for each malformed line when
// the mode is not BadLineModeError. It receives the line number, the
// raw line content, and the error. Return true to continue parsing,
// false to stop.
type BadLineHandler func(line int, content string, err error) bool

// DecodeOptions configures DecodeAll.
type DecodeOptions struct {
	// OnBadLine specifies how to handle malformed lines.
	// Default: BadLineModeError
	OnBadLine BadLineMode

	// BadLineCallback is invoked for each malformed line.
	// Only called when OnBadLine is not BadLineModeError.
	BadLineCallback BadLineHandler

	// Logger receives a warning for each malformed line when OnBadLine
	// is BadLineModeWarn. If nil, warnings are silently dropped.
	Logger *zap.Logger
}

// DefaultDecodeOptions returns the default decode configuration.
func DefaultDecodeOptions() DecodeOptions {
	return DecodeOptions{
		OnBadLine:       BadLineModeError,
		BadLineCallback: nil,
		Logger:          nil,
	}
}
