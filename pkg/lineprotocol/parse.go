package lineprotocol

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/shapestone/shape-lineprotocol/internal/escape"
	"github.com/shapestone/shape-lineprotocol/internal/tokenizer"
)

// ParseLine parses a single line into a Point.
//
// The input must be one line, with or without its terminating newline
// characters. Comment and blank lines are not accepted here; use a
// Scanner or Parse for whole buffers. Errors are reported as line 1.
func ParseLine(line []byte) (Point, error) {
	line, _ = splitLine(line)
	return parseLineAt(line, 1)
}

// parseLineAt converts one tokenized line into a Point, resolving
// escapes and typing field values. All text is copied out of the input
// buffer; the returned Point never aliases data.
func parseLineAt(data []byte, lineNum int) (Point, error) {
	// Tolerate a trailing CR from CRLF input.
	if n := len(data); n > 0 && data[n-1] == '\r' {
		data = data[:n-1]
	}

	raw, err := tokenizer.Tokenize(data)
	if err != nil {
		var syn *tokenizer.SyntaxError
		if errors.As(err, &syn) {
			return Point{}, &ParseError{Line: lineNum, Offset: syn.Offset, Err: syn.Err}
		}
		return Point{}, &ParseError{Line: lineNum, Err: err}
	}

	p := Point{
		measurement: escape.Unescape(escape.Measurement, raw.Measurement),
	}

	if len(raw.Tags) > 0 {
		p.tags = make([]Tag, len(raw.Tags))
		for i, t := range raw.Tags {
			p.tags[i] = Tag{
				Key:   escape.Unescape(escape.TagKey, t.Key),
				Value: escape.Unescape(escape.TagValue, t.Value),
			}
		}
	}

	p.fields = make([]Field, len(raw.Fields))
	for i, f := range raw.Fields {
		v, err := ParseValue(f.Value)
		if err != nil {
			return Point{}, &ParseError{Line: lineNum, Offset: f.ValueOffset, Err: err}
		}
		p.fields[i] = Field{
			Key:   escape.Unescape(escape.FieldKey, f.Key),
			Value: v,
		}
	}

	if raw.Timestamp != nil {
		ts, err := parseTimestamp(raw.Timestamp)
		if err != nil {
			return Point{}, &ParseError{Line: lineNum, Offset: raw.TimestampOffset, Err: err}
		}
		p.timestamp = ts
		p.hasTimestamp = true
	}

	return p, nil
}

// parseTimestamp parses a raw timestamp span as a signed 64-bit
// decimal integer. No unit conversion is applied.
func parseTimestamp(raw []byte) (int64, error) {
	if !signedDigits(raw) {
		return 0, invalidTimestampErr(raw)
	}
	ts, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		return 0, invalidTimestampErr(raw)
	}
	return ts, nil
}

func invalidTimestampErr(raw []byte) error {
	return fmt.Errorf("%w: %q", ErrInvalidTimestamp, raw)
}

// splitLine cuts data at the first unescaped newline, returning the
// line (without the newline) and the remainder. A backslash escapes
// the byte after it, so escaped newlines stay inside the line.
func splitLine(data []byte) (line, rest []byte) {
	for i := 0; i < len(data); i++ {
		c := data[i]
		if c == '\\' && i+1 < len(data) {
			i++
			continue
		}
		if c == '\n' {
			return data[:i], data[i+1:]
		}
	}
	return data, nil
}

// skippable reports whether line is a comment ('#' after optional
// horizontal whitespace) or contains nothing but whitespace. Such
// lines produce no Point and no error.
func skippable(line []byte) bool {
	i := 0
	for i < len(line) && (line[i] == ' ' || line[i] == '\t' || line[i] == '\r') {
		i++
	}
	if i == len(line) {
		return true
	}
	return line[i] == '#'
}
