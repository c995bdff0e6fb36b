// Package lineprotocol parses and serializes the InfluxDB line
// protocol, the compact text format for time-series points:
//
//	measurement,tag_key=tag_value field_key=field_value timestamp
//
// Parsing converts raw byte buffers into structured Points with typed
// field values; serialization renders Points back into canonical
// line-protocol bytes (tags sorted by key, context-correct escaping).
// Malformed input is always rejected with a typed, position-carrying
// error — never guessed at.
//
// # Thread Safety
//
// All functions in this package are safe for concurrent use by
// multiple goroutines. Each call creates its own parser state; nothing
// is shared across calls, so a multi-line buffer may be pre-split on
// unescaped newlines and parsed in parallel shards.
//
// # Parsing APIs
//
// The package provides three parsing surfaces:
//
//   - ParseLine([]byte) - parses a single line into a Point
//   - Parse([]byte) - parses a whole buffer, stopping at the first error
//   - Scanner - lazy per-line iteration that resumes after bad lines
//
// Use Parse when any malformed line should fail the whole batch. Use a
// Scanner (or DecodeAll with a BadLineMode) when bad lines should be
// reported or skipped without losing the rest of the buffer.
//
// # Example usage:
//
//	points, err := lineprotocol.Parse([]byte(
//	    "weather,location=us-midwest temperature=82 1465839830100400200\n"))
//	if err != nil {
//	    // handle error
//	}
//	// points[0].Measurement() == "weather"
//
// # Building and serializing points:
//
//	point, err := lineprotocol.NewPoint("weather").
//	    AddTag("location", "us-midwest").
//	    AddFloat("temperature", 82).
//	    Timestamp(1465839830100400200).
//	    Build()
//	line, err := lineprotocol.Encode(point)
package lineprotocol

// Parse parses a buffer of newline-separated lines into Points.
//
// Comment lines ('#' after optional whitespace) and blank lines are
// skipped. Parsing stops at the first malformed line; the returned
// error is a *ParseError carrying the line number and byte offset.
// Points parsed before the failure are returned alongside the error.
//
// Input bytes need not be valid UTF-8: delimiters are ASCII and other
// bytes pass through untouched. Parsed Points copy their text, so the
// input buffer may be reused once Parse returns.
func Parse(data []byte) ([]Point, error) {
	var points []Point

	sc := NewScanner(data)
	for sc.Scan() {
		point, err := sc.Point()
		if err != nil {
			return points, err
		}
		points = append(points, point)
	}
	return points, nil
}

// Validate checks whether data is well-formed line protocol.
//
// Returns nil if every non-skipped line parses. Returns the first
// *ParseError otherwise. This is the idiomatic Go approach - check the
// error:
//
//	if err := lineprotocol.Validate(data); err != nil {
//	    fmt.Println("invalid line protocol:", err)
//	}
func Validate(data []byte) error {
	sc := NewScanner(data)
	for sc.Scan() {
		if _, err := sc.Point(); err != nil {
			return err
		}
	}
	return nil
}

// Format returns the format identifier for this codec.
func Format() string {
	return "influxdb-line-protocol"
}
