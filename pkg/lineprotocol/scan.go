package lineprotocol

import (
	"bytes"

	"go.uber.org/zap"
)

// Scanner provides a streaming interface for reading line-protocol
// points one line at a time. A malformed line never stops the scan:
// each non-skipped line yields either a Point or a line-scoped
// *ParseError, and the scanner resumes at the next line either way.
//
// Example usage:
//
//	scanner := lineprotocol.NewScanner(data)
//	for scanner.Scan() {
//	    point, err := scanner.Point()
//	    if err != nil {
//	        log.Printf("bad line %d: %v", scanner.Line(), err)
//	        continue
//	    }
//	    // process point
//	}
type Scanner struct {
	rest     []byte
	raw      []byte
	line     int
	nextLine int
	point    Point
	err      error
}

// NewScanner creates a Scanner over an in-memory buffer of
// newline-separated lines. The scanner does not retain references into
// data beyond the next call to Scan; parsed Points own their text.
func NewScanner(data []byte) *Scanner {
	return &Scanner{rest: data, nextLine: 1}
}

// Scan advances the scanner to the next line that is neither blank nor
// a comment. It returns false when the input is exhausted. After Scan
// returns true, Point returns the line's result.
func (s *Scanner) Scan() bool {
	for len(s.rest) > 0 {
		line, rest := splitLine(s.rest)
		lineNum := s.nextLine
		// Escaped newlines keep a line going across physical lines;
		// count them so later line numbers stay accurate.
		s.nextLine += 1 + bytes.Count(line, []byte{'\n'})
		s.rest = rest

		if skippable(line) {
			continue
		}

		s.raw = line
		s.line = lineNum
		s.point, s.err = parseLineAt(line, lineNum)
		return true
	}
	return false
}

// Point returns the current line's Point, or the line-scoped error if
// the line was malformed. It should only be called after Scan returns
// true.
func (s *Scanner) Point() (Point, error) {
	return s.point, s.err
}

// Line returns the source line number (1-indexed) of the current line.
func (s *Scanner) Line() int {
	return s.line
}

// Text returns the raw bytes of the current line, still escaped and
// without the terminating newline. The slice aliases the input buffer.
func (s *Scanner) Text() []byte {
	return s.raw
}

// DecodeAll parses a whole buffer according to the bad-line policy in
// opts and returns the successfully parsed points.
//
// With BadLineModeError (the default) decoding stops at the first
// malformed line and returns the points parsed so far alongside the
// error. With BadLineModeWarn each malformed line is logged to
// opts.Logger (if any) and decoding continues. With BadLineModeSkip
// malformed lines are dropped silently. In the Warn and Skip modes the
// optional BadLineCallback can veto continuation by returning false.
func DecodeAll(data []byte, opts DecodeOptions) ([]Point, error) {
	var points []Point

	sc := NewScanner(data)
	for sc.Scan() {
		point, err := sc.Point()
		if err == nil {
			points = append(points, point)
			continue
		}

		if opts.OnBadLine == BadLineModeError {
			return points, err
		}

		if opts.OnBadLine == BadLineModeWarn && opts.Logger != nil {
			opts.Logger.Warn("skipping malformed line",
				zap.Int("line", sc.Line()),
				zap.ByteString("content", sc.Text()),
				zap.Error(err),
			)
		}

		if opts.BadLineCallback != nil {
			if !opts.BadLineCallback(sc.Line(), string(sc.Text()), err) {
				return points, err
			}
		}
	}

	return points, nil
}
