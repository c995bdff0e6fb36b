package lineprotocol

import (
	"fmt"
	"time"
)

// Precision is the unit a line-protocol timestamp is expressed in.
// The protocol itself never converts units; Precision exists so that
// callers can agree on an interpretation at the edges.
type Precision int

const (
	// Nanosecond precision, the protocol default.
	Nanosecond Precision = iota
	// Microsecond precision.
	Microsecond
	// Millisecond precision.
	Millisecond
	// Second precision.
	Second
)

// String returns the wire name of the precision ("ns", "us", "ms", "s").
func (p Precision) String() string {
	switch p {
	case Nanosecond:
		return "ns"
	case Microsecond:
		return "us"
	case Millisecond:
		return "ms"
	case Second:
		return "s"
	default:
		return fmt.Sprintf("Precision(%d)", int(p))
	}
}

// Duration returns one unit of the precision as a time.Duration.
func (p Precision) Duration() time.Duration {
	switch p {
	case Microsecond:
		return time.Microsecond
	case Millisecond:
		return time.Millisecond
	case Second:
		return time.Second
	default:
		return time.Nanosecond
	}
}

// ParsePrecision parses a wire name ("ns", "us", "ms", "s") into a
// Precision.
func ParsePrecision(s string) (Precision, error) {
	switch s {
	case "ns":
		return Nanosecond, nil
	case "us":
		return Microsecond, nil
	case "ms":
		return Millisecond, nil
	case "s":
		return Second, nil
	default:
		return Nanosecond, fmt.Errorf("unknown precision %q", s)
	}
}

// TimestampFromTime converts t to a timestamp in the given precision.
func TimestampFromTime(t time.Time, p Precision) int64 {
	return t.UnixNano() / int64(p.Duration())
}

// TimeFromTimestamp converts a timestamp in the given precision to a
// time.Time.
func TimeFromTimestamp(ts int64, p Precision) time.Time {
	d := int64(p.Duration())
	return time.Unix(0, ts*d)
}
