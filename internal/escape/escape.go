// Package escape implements the context-sensitive escaping rules of the
// InfluxDB line protocol.
//
// Each token position on a line has its own set of special characters
// that must be backslash-escaped on write:
//
//	Measurement:               comma, space
//	Tag key/value, field key:  comma, equals sign, space
//	String field value:        double quote, backslash
//
// Unescaping is total and never fails: a backslash followed by one of
// the context's special characters collapses to that character; a
// backslash followed by anything else (including another backslash) is
// kept literally together with the following byte, and a trailing
// backslash is kept as-is. Orphan backslashes are never dropped.
package escape

import (
	"bytes"
	"strings"
)

// Context identifies which token position a piece of text occupies,
// and therefore which characters are special in it.
type Context int

const (
	// Measurement is the measurement name position.
	Measurement Context = iota
	// TagKey is the key position of a tag pair.
	TagKey
	// TagValue is the value position of a tag pair.
	TagValue
	// FieldKey is the key position of a field pair.
	FieldKey
	// StringValue is the inside of a double-quoted string field value.
	StringValue
)

// String returns a human-readable name for the context.
func (c Context) String() string {
	switch c {
	case Measurement:
		return "measurement"
	case TagKey:
		return "tag key"
	case TagValue:
		return "tag value"
	case FieldKey:
		return "field key"
	case StringValue:
		return "string field value"
	default:
		return "unknown"
	}
}

// special reports whether b must be escaped in context c.
func special(c Context, b byte) bool {
	switch c {
	case Measurement:
		return b == ',' || b == ' '
	case TagKey, TagValue, FieldKey:
		return b == ',' || b == '=' || b == ' '
	case StringValue:
		return b == '"' || b == '\\'
	default:
		return false
	}
}

// specials returns the special-character set of c as a string,
// for use with strings.IndexAny.
func specials(c Context) string {
	switch c {
	case Measurement:
		return ", "
	case TagKey, TagValue, FieldKey:
		return ",= "
	case StringValue:
		return `"\`
	default:
		return ""
	}
}

// Escape returns s with every special character of context c prefixed
// by a backslash. Text without special characters is returned
// unchanged without allocation.
func Escape(c Context, s string) string {
	begin := strings.IndexAny(s, specials(c))
	if begin < 0 {
		return s
	}

	// A few spare bytes avoid regrowing for typical inputs.
	var b strings.Builder
	b.Grow(len(s) + 8)
	b.WriteString(s[:begin])
	for i := begin; i < len(s); i++ {
		if special(c, s[i]) {
			b.WriteByte('\\')
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// WriteEscaped writes s to buf, escaping it for context c.
func WriteEscaped(buf *bytes.Buffer, c Context, s string) {
	for i := 0; i < len(s); i++ {
		if special(c, s[i]) {
			buf.WriteByte('\\')
		}
		buf.WriteByte(s[i])
	}
}

// Unescape resolves the escape sequences of context c in raw and
// returns the logical text. The result is always an owned string and
// never aliases raw. Unescape never fails; see the package comment for
// the orphan-backslash rules.
func Unescape(c Context, raw []byte) string {
	if bytes.IndexByte(raw, '\\') < 0 {
		return string(raw)
	}

	out := make([]byte, 0, len(raw))
	for i := 0; i < len(raw); i++ {
		if raw[i] == '\\' && i+1 < len(raw) {
			if special(c, raw[i+1]) {
				out = append(out, raw[i+1])
				i++
				continue
			}
			// Orphan backslash: keep it and the following byte.
			out = append(out, raw[i], raw[i+1])
			i++
			continue
		}
		out = append(out, raw[i])
	}
	return string(out)
}
