package lineprotocol

import (
	"bytes"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/shapestone/shape-lineprotocol/internal/escape"
)

// Encode renders points into canonical line-protocol bytes, one
// newline-terminated line per point.
//
// Canonical form writes tags sorted by key in byte order (duplicate
// keys keep their given order), fields in their given order, and
// floats with the fewest digits that survive a round trip. Reparsing
// the output yields points equal to the inputs up to tag ordering.
//
// Encode fails only on usage errors: a point without fields, an empty
// measurement, a non-finite float value, or a string value containing
// a newline. The protocol has no escape for a newline inside quotes,
// so such a string cannot be written on one line.
func Encode(points ...Point) ([]byte, error) {
	var buf bytes.Buffer
	for i := range points {
		if err := points[i].WriteLine(&buf); err != nil {
			return nil, err
		}
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

// WriteLine writes the point's canonical line-protocol representation
// to buf, without a trailing newline.
func (p *Point) WriteLine(buf *bytes.Buffer) error {
	if p.measurement == "" {
		return ErrEmptyMeasurement
	}
	if len(p.fields) == 0 {
		return ErrMissingFieldSet
	}

	escape.WriteEscaped(buf, escape.Measurement, p.measurement)

	for _, t := range sortedTags(p.tags) {
		buf.WriteByte(',')
		escape.WriteEscaped(buf, escape.TagKey, t.Key)
		buf.WriteByte('=')
		escape.WriteEscaped(buf, escape.TagValue, t.Value)
	}

	for i, f := range p.fields {
		if i == 0 {
			buf.WriteByte(' ')
		} else {
			buf.WriteByte(',')
		}
		escape.WriteEscaped(buf, escape.FieldKey, f.Key)
		buf.WriteByte('=')
		if err := writeValue(buf, f.Value); err != nil {
			return fmt.Errorf("field %q: %w", f.Key, err)
		}
	}

	if p.hasTimestamp {
		buf.WriteByte(' ')
		buf.WriteString(strconv.FormatInt(p.timestamp, 10))
	}

	return nil
}

// String returns the point's canonical line without a trailing
// newline, or a bracketed description if the point cannot be encoded.
func (p *Point) String() string {
	var buf bytes.Buffer
	if err := p.WriteLine(&buf); err != nil {
		return "<invalid point: " + err.Error() + ">"
	}
	return buf.String()
}

// sortedTags returns tags ordered by key in byte-lexicographic order.
// Already-sorted tag sets (the common case for parsed canonical input)
// are returned as-is; otherwise a sorted copy is made, stable so that
// duplicate keys keep their relative order.
func sortedTags(tags []Tag) []Tag {
	if sort.SliceIsSorted(tags, func(i, j int) bool { return tags[i].Key < tags[j].Key }) {
		return tags
	}
	sorted := make([]Tag, len(tags))
	copy(sorted, tags)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Key < sorted[j].Key })
	return sorted
}

// writeValue writes the wire literal of v.
func writeValue(buf *bytes.Buffer, v Value) error {
	switch v.Kind() {
	case KindFloat:
		f := v.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return ErrNonFiniteFloat
		}
		// Shortest representation that round-trips the exact bits.
		buf.WriteString(strconv.FormatFloat(f, 'g', -1, 64))
	case KindInteger:
		buf.WriteString(strconv.FormatInt(v.Int(), 10))
		buf.WriteByte('i')
	case KindUInteger:
		buf.WriteString(strconv.FormatUint(v.Uint(), 10))
		buf.WriteByte('u')
	case KindBoolean:
		if v.Bool() {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case KindString:
		if strings.ContainsRune(v.Text(), '\n') {
			return ErrNewlineInToken
		}
		buf.WriteByte('"')
		escape.WriteEscaped(buf, escape.StringValue, v.Text())
		buf.WriteByte('"')
	default:
		return fmt.Errorf("%w: zero Value", ErrInvalidFieldValue)
	}
	return nil
}

// String returns the value's wire literal form. Non-finite floats,
// which the serializer proper rejects, render as their strconv
// spelling.
func (v Value) String() string {
	var buf bytes.Buffer
	if v.Kind() == KindFloat {
		buf.WriteString(strconv.FormatFloat(v.Float(), 'g', -1, 64))
		return buf.String()
	}
	if err := writeValue(&buf, v); err != nil {
		return "<invalid value>"
	}
	return buf.String()
}
