package lineprotocol

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// PointBuilder assembles a Point for serialization. Points coming out
// of the parser are already complete; the builder is the construction
// path for points produced by the caller.
//
// Build enforces the write-path restrictions the parser deliberately
// leaves to the storage layer: no token may contain a newline, and tag
// or field keys must not start with '_' (that namespace is reserved
// for system use).
//
// Example:
//
//	point, err := lineprotocol.NewPoint("weather").
//	    AddTag("location", "us-midwest").
//	    AddFloat("temperature", 82).
//	    TimestampTime(time.Now(), lineprotocol.Nanosecond).
//	    Build()
type PointBuilder struct {
	point Point
}

// NewPoint starts building a point for the given measurement.
func NewPoint(measurement string) *PointBuilder {
	return &PointBuilder{point: Point{measurement: measurement}}
}

// AddTag appends a tag pair. Tags may be added in any order; the
// serializer sorts them by key on write.
func (b *PointBuilder) AddTag(key, value string) *PointBuilder {
	b.point.tags = append(b.point.tags, Tag{Key: key, Value: value})
	return b
}

// AddField appends a field pair.
func (b *PointBuilder) AddField(key string, value Value) *PointBuilder {
	b.point.fields = append(b.point.fields, Field{Key: key, Value: value})
	return b
}

// AddFloat appends a float field.
func (b *PointBuilder) AddFloat(key string, value float64) *PointBuilder {
	return b.AddField(key, FloatValue(value))
}

// AddInt appends a signed integer field.
func (b *PointBuilder) AddInt(key string, value int64) *PointBuilder {
	return b.AddField(key, IntValue(value))
}

// AddUint appends an unsigned integer field.
func (b *PointBuilder) AddUint(key string, value uint64) *PointBuilder {
	return b.AddField(key, UintValue(value))
}

// AddBool appends a boolean field.
func (b *PointBuilder) AddBool(key string, value bool) *PointBuilder {
	return b.AddField(key, BoolValue(value))
}

// AddString appends a string field.
func (b *PointBuilder) AddString(key, value string) *PointBuilder {
	return b.AddField(key, StringValue(value))
}

// Timestamp sets the point's timestamp. The unit is the caller's
// choice; the protocol carries the integer as-is.
func (b *PointBuilder) Timestamp(ts int64) *PointBuilder {
	b.point.timestamp = ts
	b.point.hasTimestamp = true
	return b
}

// TimestampTime sets the point's timestamp from a time.Time expressed
// in the given precision.
func (b *PointBuilder) TimestampTime(t time.Time, p Precision) *PointBuilder {
	return b.Timestamp(TimestampFromTime(t, p))
}

// Build validates the assembled point and returns it.
func (b *PointBuilder) Build() (Point, error) {
	p := b.point

	if p.measurement == "" {
		return Point{}, ErrEmptyMeasurement
	}
	if strings.ContainsRune(p.measurement, '\n') {
		return Point{}, fmt.Errorf("measurement: %w", ErrNewlineInToken)
	}
	if len(p.fields) == 0 {
		return Point{}, ErrMissingFieldSet
	}

	for _, t := range p.tags {
		if err := checkKey("tag key", t.Key); err != nil {
			return Point{}, err
		}
		if strings.ContainsRune(t.Value, '\n') {
			return Point{}, fmt.Errorf("tag %q value: %w", t.Key, ErrNewlineInToken)
		}
	}

	for _, f := range p.fields {
		if err := checkKey("field key", f.Key); err != nil {
			return Point{}, err
		}
		switch f.Value.Kind() {
		case KindString:
			if strings.ContainsRune(f.Value.Text(), '\n') {
				return Point{}, fmt.Errorf("field %q value: %w", f.Key, ErrNewlineInToken)
			}
		case KindFloat:
			if v := f.Value.Float(); math.IsNaN(v) || math.IsInf(v, 0) {
				return Point{}, fmt.Errorf("field %q: %w", f.Key, ErrNonFiniteFloat)
			}
		case 0:
			return Point{}, fmt.Errorf("field %q: %w: zero Value", f.Key, ErrInvalidFieldValue)
		}
	}

	return p, nil
}

// checkKey enforces the shared tag/field key restrictions.
func checkKey(what, key string) error {
	if key == "" {
		return fmt.Errorf("empty %s: %w", what, ErrMalformedTagOrField)
	}
	if key[0] == '_' {
		return fmt.Errorf("%s %q: %w", what, key, ErrReservedKeyPrefix)
	}
	if strings.ContainsRune(key, '\n') {
		return fmt.Errorf("%s %q: %w", what, key, ErrNewlineInToken)
	}
	return nil
}
