package lineprotocol

import (
	"math"
	"time"
)

// Tag is one key/value pair of a point's tag set. Tag values are
// always strings.
type Tag struct {
	Key   string
	Value string
}

// Field is one key/value pair of a point's field set.
type Field struct {
	Key   string
	Value Value
}

// ValueKind identifies which variant a Value holds.
type ValueKind uint8

const (
	// KindFloat is a 64-bit floating point field value.
	KindFloat ValueKind = iota + 1
	// KindInteger is a signed 64-bit integer field value ('i' suffix).
	KindInteger
	// KindUInteger is an unsigned 64-bit integer field value ('u' suffix).
	KindUInteger
	// KindBoolean is a boolean field value.
	KindBoolean
	// KindString is a double-quoted string field value.
	KindString
)

// String returns the kind's name.
func (k ValueKind) String() string {
	switch k {
	case KindFloat:
		return "float"
	case KindInteger:
		return "integer"
	case KindUInteger:
		return "uinteger"
	case KindBoolean:
		return "boolean"
	case KindString:
		return "string"
	default:
		return "invalid"
	}
}

// Value is a field value: exactly one of float, integer, unsigned
// integer, boolean, or string. The zero Value is invalid (Kind returns
// 0). Values are comparable with ==; two float Values compare equal
// only when their bit patterns match.
type Value struct {
	kind ValueKind
	num  uint64
	str  string
}

// FloatValue returns a float Value. Non-finite floats are representable
// here but rejected by the serializer, which has no literal form for
// them.
func FloatValue(f float64) Value {
	return Value{kind: KindFloat, num: math.Float64bits(f)}
}

// IntValue returns a signed integer Value.
func IntValue(i int64) Value {
	return Value{kind: KindInteger, num: uint64(i)}
}

// UintValue returns an unsigned integer Value.
func UintValue(u uint64) Value {
	return Value{kind: KindUInteger, num: u}
}

// BoolValue returns a boolean Value.
func BoolValue(b bool) Value {
	var n uint64
	if b {
		n = 1
	}
	return Value{kind: KindBoolean, num: n}
}

// StringValue returns a string Value.
func StringValue(s string) Value {
	return Value{kind: KindString, str: s}
}

// Kind returns the variant held by v.
func (v Value) Kind() ValueKind {
	return v.kind
}

// Float returns the float value. It is meaningful only when Kind is
// KindFloat.
func (v Value) Float() float64 {
	return math.Float64frombits(v.num)
}

// Int returns the signed integer value. It is meaningful only when
// Kind is KindInteger.
func (v Value) Int() int64 {
	return int64(v.num)
}

// Uint returns the unsigned integer value. It is meaningful only when
// Kind is KindUInteger.
func (v Value) Uint() uint64 {
	return v.num
}

// Bool returns the boolean value. It is meaningful only when Kind is
// KindBoolean.
func (v Value) Bool() bool {
	return v.num != 0
}

// Text returns the string value. It is meaningful only when Kind is
// KindString.
func (v Value) Text() string {
	return v.str
}

// Interface returns the value as a plain Go value (float64, int64,
// uint64, bool, or string), or nil for the zero Value.
func (v Value) Interface() interface{} {
	switch v.kind {
	case KindFloat:
		return v.Float()
	case KindInteger:
		return v.Int()
	case KindUInteger:
		return v.Uint()
	case KindBoolean:
		return v.Bool()
	case KindString:
		return v.str
	default:
		return nil
	}
}

// Point is one parsed or built data record: a measurement, an ordered
// tag set, an ordered non-empty field set, and an optional timestamp.
//
// A Point is immutable once constructed. The parser produces Points
// whose text is copied out of the input buffer, so a Point never
// aliases caller memory. New Points are built with NewPoint.
type Point struct {
	measurement  string
	tags         []Tag
	fields       []Field
	timestamp    int64
	hasTimestamp bool
}

// Measurement returns the measurement name.
func (p *Point) Measurement() string {
	return p.measurement
}

// Tags returns the tag set in the order it was given. Duplicate keys
// are preserved as given. The returned slice is shared with the Point
// and must not be modified.
func (p *Point) Tags() []Tag {
	return p.tags
}

// Fields returns the field set in the order it was given. The returned
// slice is shared with the Point and must not be modified.
func (p *Point) Fields() []Field {
	return p.fields
}

// Field returns the value of the first field with the given key.
// The second result is false if no such field exists.
func (p *Point) Field(key string) (Value, bool) {
	for _, f := range p.fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return Value{}, false
}

// Tag returns the value of the first tag with the given key.
// The second result is false if no such tag exists.
func (p *Point) Tag(key string) (string, bool) {
	for _, t := range p.tags {
		if t.Key == key {
			return t.Value, true
		}
	}
	return "", false
}

// Timestamp returns the raw timestamp and whether one is present.
// The unit is whatever the producing side wrote; no conversion is
// applied during parsing.
func (p *Point) Timestamp() (int64, bool) {
	return p.timestamp, p.hasTimestamp
}

// Time interprets the point's timestamp in the given precision and
// returns it as a time.Time. The second result is false when the point
// carries no timestamp.
func (p *Point) Time(prec Precision) (time.Time, bool) {
	if !p.hasTimestamp {
		return time.Time{}, false
	}
	return TimeFromTimestamp(p.timestamp, prec), true
}
