package lineprotocol

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/valyala/fastjson"
)

// jsonParsers pools fastjson parser state across conversions.
var jsonParsers fastjson.ParserPool

// PointsFromJSON parses a JSON document into Points. The document is
// either one object or an array of objects of the shape
//
//	{
//	    "measurement": "weather",
//	    "tags": {"location": "us-midwest"},
//	    "fields": {"temperature": 82},
//	    "timestamp": 1465839830100400200
//	}
//
// "tags" and "timestamp" are optional; "measurement" and at least one
// field are required. Field values map by JSON type: strings to string
// values, booleans to boolean values, fractional or exponent-form
// numbers to floats, negative integers to signed integers, and other
// integers to unsigned integers.
//
// Unlike the line parser, this path accepts only well-formed JSON, but
// it applies the same structural rules: no measurement or no fields is
// an error.
func PointsFromJSON(data []byte) ([]Point, error) {
	p := jsonParsers.Get()
	defer jsonParsers.Put(p)

	v, err := p.ParseBytes(data)
	if err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	if v.Type() == fastjson.TypeArray {
		arr, _ := v.Array()
		points := make([]Point, 0, len(arr))
		for i, item := range arr {
			point, err := pointFromJSON(item)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			points = append(points, point)
		}
		return points, nil
	}

	point, err := pointFromJSON(v)
	if err != nil {
		return nil, err
	}
	return []Point{point}, nil
}

// pointFromJSON converts one JSON object into a Point.
func pointFromJSON(v *fastjson.Value) (Point, error) {
	if v.Type() != fastjson.TypeObject {
		return Point{}, fmt.Errorf("expected JSON object, got %s", v.Type())
	}

	p := Point{
		measurement: string(v.GetStringBytes("measurement")),
	}
	if p.measurement == "" {
		return Point{}, ErrEmptyMeasurement
	}

	if tv := v.Get("tags"); tv != nil && tv.Type() != fastjson.TypeNull {
		obj, err := tv.Object()
		if err != nil {
			return Point{}, fmt.Errorf("tags: %w", err)
		}
		var visitErr error
		obj.Visit(func(key []byte, val *fastjson.Value) {
			if visitErr != nil {
				return
			}
			sb, err := val.StringBytes()
			if err != nil {
				visitErr = fmt.Errorf("tag %q: value must be a string", key)
				return
			}
			p.tags = append(p.tags, Tag{Key: string(key), Value: string(sb)})
		})
		if visitErr != nil {
			return Point{}, visitErr
		}
	}

	fv := v.Get("fields")
	if fv == nil || fv.Type() == fastjson.TypeNull {
		return Point{}, ErrMissingFieldSet
	}
	obj, err := fv.Object()
	if err != nil {
		return Point{}, fmt.Errorf("fields: %w", err)
	}
	var visitErr error
	obj.Visit(func(key []byte, val *fastjson.Value) {
		if visitErr != nil {
			return
		}
		value, err := valueFromJSON(val)
		if err != nil {
			visitErr = fmt.Errorf("field %q: %w", key, err)
			return
		}
		p.fields = append(p.fields, Field{Key: string(key), Value: value})
	})
	if visitErr != nil {
		return Point{}, visitErr
	}
	if len(p.fields) == 0 {
		return Point{}, ErrMissingFieldSet
	}

	if tsv := v.Get("timestamp"); tsv != nil && tsv.Type() != fastjson.TypeNull {
		ts, err := tsv.Int64()
		if err != nil {
			return Point{}, fmt.Errorf("%w: %v", ErrInvalidTimestamp, err)
		}
		p.timestamp = ts
		p.hasTimestamp = true
	}

	return p, nil
}

// valueFromJSON maps one JSON field value to a line-protocol Value.
func valueFromJSON(val *fastjson.Value) (Value, error) {
	switch val.Type() {
	case fastjson.TypeString:
		sb, _ := val.StringBytes()
		return StringValue(string(sb)), nil

	case fastjson.TypeTrue:
		return BoolValue(true), nil

	case fastjson.TypeFalse:
		return BoolValue(false), nil

	case fastjson.TypeNumber:
		raw := val.String()
		if strings.ContainsAny(raw, ".eE") {
			f, err := val.Float64()
			if err != nil {
				return Value{}, err
			}
			return FloatValue(f), nil
		}
		if strings.HasPrefix(raw, "-") {
			i, err := val.Int64()
			if err != nil {
				return Value{}, err
			}
			return IntValue(i), nil
		}
		u, err := val.Uint64()
		if err != nil {
			return Value{}, err
		}
		return UintValue(u), nil

	default:
		return Value{}, fmt.Errorf("unsupported JSON type %s", val.Type())
	}
}

// MarshalJSON renders the point as the JSON object shape accepted by
// PointsFromJSON. Non-finite floats cannot be represented and return
// an error.
func (p *Point) MarshalJSON() ([]byte, error) {
	dst := make([]byte, 0, 128)

	dst = append(dst, `{"measurement":`...)
	dst = strconv.AppendQuote(dst, p.measurement)

	if len(p.tags) > 0 {
		dst = append(dst, `,"tags":{`...)
		for i, t := range p.tags {
			if i > 0 {
				dst = append(dst, ',')
			}
			dst = strconv.AppendQuote(dst, t.Key)
			dst = append(dst, ':')
			dst = strconv.AppendQuote(dst, t.Value)
		}
		dst = append(dst, '}')
	}

	dst = append(dst, `,"fields":{`...)
	for i, f := range p.fields {
		if i > 0 {
			dst = append(dst, ',')
		}
		dst = strconv.AppendQuote(dst, f.Key)
		dst = append(dst, ':')
		var err error
		if dst, err = appendJSONValue(dst, f.Value); err != nil {
			return nil, fmt.Errorf("field %q: %w", f.Key, err)
		}
	}
	dst = append(dst, '}')

	if p.hasTimestamp {
		dst = append(dst, `,"timestamp":`...)
		dst = strconv.AppendInt(dst, p.timestamp, 10)
	}

	dst = append(dst, '}')
	return dst, nil
}

// PointsToJSON renders points as a JSON array of the object shape
// accepted by PointsFromJSON.
func PointsToJSON(points []Point) ([]byte, error) {
	dst := make([]byte, 0, 128*len(points))
	dst = append(dst, '[')
	for i := range points {
		if i > 0 {
			dst = append(dst, ',')
		}
		obj, err := points[i].MarshalJSON()
		if err != nil {
			return nil, err
		}
		dst = append(dst, obj...)
	}
	dst = append(dst, ']')
	return dst, nil
}

// appendJSONValue appends the JSON encoding of v.
func appendJSONValue(dst []byte, v Value) ([]byte, error) {
	switch v.Kind() {
	case KindFloat:
		f := v.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, ErrNonFiniteFloat
		}
		return strconv.AppendFloat(dst, f, 'g', -1, 64), nil
	case KindInteger:
		return strconv.AppendInt(dst, v.Int(), 10), nil
	case KindUInteger:
		return strconv.AppendUint(dst, v.Uint(), 10), nil
	case KindBoolean:
		return strconv.AppendBool(dst, v.Bool()), nil
	case KindString:
		return strconv.AppendQuote(dst, v.Text()), nil
	default:
		return nil, fmt.Errorf("%w: zero Value", ErrInvalidFieldValue)
	}
}
