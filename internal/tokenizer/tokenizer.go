package tokenizer

import "strings"

// state identifies the token currently being scanned. The grammar is a
// strict left-to-right progression: measurement, optional tag pairs,
// field pairs, optional timestamp.
type state int

const (
	stateMeasurement state = iota
	stateTagKey
	stateTagValue
	stateFieldKey
	stateFieldValue
	stateTimestamp
	stateDone
)

// Tokenize scans one line into its raw token spans.
//
// The input must be a single line with the terminating newline already
// removed. Delimiters are recognized only when unescaped: a backslash
// anywhere makes the scanner skip the following byte without
// interpreting it. The returned spans alias data and keep their escape
// sequences; resolving them is the caller's job.
//
// Tokenize never panics on malformed input; every failure is a
// *SyntaxError with the offending byte offset.
func Tokenize(data []byte) (*Line, error) {
	s := &scanner{data: data}

	for st := stateMeasurement; st != stateDone; {
		var err error
		switch st {
		case stateMeasurement:
			st, err = s.scanMeasurement()
		case stateTagKey:
			st, err = s.scanTagKey()
		case stateTagValue:
			st, err = s.scanTagValue()
		case stateFieldKey:
			st, err = s.scanFieldKey()
		case stateFieldValue:
			st, err = s.scanFieldValue()
		case stateTimestamp:
			st, err = s.scanTimestamp()
		}
		if err != nil {
			return nil, err
		}
	}

	return &s.line, nil
}

// scanner is a single-pass cursor over one line.
type scanner struct {
	data []byte
	pos  int
	line Line

	// Key span held between the key state and the value state of the
	// pair being scanned.
	pendingKey    []byte
	pendingKeyOff int
}

// syntaxErr builds a *SyntaxError at the given offset.
func (s *scanner) syntaxErr(offset int, kind error) (state, error) {
	return stateDone, &SyntaxError{Offset: offset, Err: kind}
}

// until advances the cursor to the next unescaped stop byte and returns
// the span covered. A backslash consumes the following byte, so escaped
// stop bytes do not terminate the span. A trailing backslash at end of
// line is consumed literally.
func (s *scanner) until(stops string) []byte {
	start := s.pos
	for s.pos < len(s.data) {
		c := s.data[s.pos]
		if c == '\\' && s.pos+1 < len(s.data) {
			s.pos += 2
			continue
		}
		if strings.IndexByte(stops, c) >= 0 {
			break
		}
		s.pos++
	}
	return s.data[start:s.pos]
}

func (s *scanner) scanMeasurement() (state, error) {
	m := s.until(", ")
	if len(m) == 0 {
		return s.syntaxErr(0, ErrEmptyMeasurement)
	}
	s.line.Measurement = m

	if s.pos >= len(s.data) {
		return s.syntaxErr(s.pos, ErrMissingFieldSet)
	}
	if s.data[s.pos] == ',' {
		s.pos++
		return stateTagKey, nil
	}
	s.pos++ // space
	return stateFieldKey, nil
}

func (s *scanner) scanTagKey() (state, error) {
	keyOff := s.pos
	key := s.until("=, ")
	if len(key) == 0 {
		return s.syntaxErr(keyOff, ErrMalformedTagOrField)
	}
	if s.pos >= len(s.data) || s.data[s.pos] != '=' {
		return s.syntaxErr(keyOff, ErrMalformedTagOrField)
	}
	s.pos++ // '='

	s.pendingKey = key
	s.pendingKeyOff = keyOff
	return stateTagValue, nil
}

func (s *scanner) scanTagValue() (state, error) {
	valOff := s.pos
	val := s.until(", ")
	if len(val) == 0 {
		return s.syntaxErr(valOff, ErrMalformedTagOrField)
	}

	s.line.Tags = append(s.line.Tags, Pair{
		Key:         s.pendingKey,
		Value:       val,
		KeyOffset:   s.pendingKeyOff,
		ValueOffset: valOff,
	})

	if s.pos >= len(s.data) {
		return s.syntaxErr(s.pos, ErrMissingFieldSet)
	}
	if s.data[s.pos] == ',' {
		s.pos++
		return stateTagKey, nil
	}
	s.pos++ // space
	return stateFieldKey, nil
}

func (s *scanner) scanFieldKey() (state, error) {
	keyOff := s.pos
	key := s.until("=, ")
	if len(key) == 0 {
		if s.pos >= len(s.data) && len(s.line.Fields) == 0 {
			// Trailing space after the measurement or tag set with
			// nothing behind it.
			return s.syntaxErr(s.pos, ErrMissingFieldSet)
		}
		return s.syntaxErr(keyOff, ErrMalformedTagOrField)
	}
	if s.pos >= len(s.data) || s.data[s.pos] != '=' {
		return s.syntaxErr(keyOff, ErrMalformedTagOrField)
	}
	s.pos++ // '='

	s.pendingKey = key
	s.pendingKeyOff = keyOff
	return stateFieldValue, nil
}

func (s *scanner) scanFieldValue() (state, error) {
	valOff := s.pos

	var val []byte
	if s.pos < len(s.data) && s.data[s.pos] == '"' {
		var err error
		if val, err = s.scanQuoted(); err != nil {
			return stateDone, err
		}
	} else {
		val = s.until(", ")
	}

	s.line.Fields = append(s.line.Fields, Pair{
		Key:         s.pendingKey,
		Value:       val,
		KeyOffset:   s.pendingKeyOff,
		ValueOffset: valOff,
	})

	if s.pos >= len(s.data) {
		return stateDone, nil
	}
	switch s.data[s.pos] {
	case ',':
		s.pos++
		return stateFieldKey, nil
	case ' ':
		s.pos++
		return stateTimestamp, nil
	}
	// Only reachable after a closing quote: bytes between the quote and
	// the next delimiter.
	_, err := s.syntaxErr(s.pos, ErrInvalidFieldValue)
	return stateDone, err
}

// scanQuoted scans a double-quoted field value. Inside the quotes every
// delimiter is inert; only an unescaped closing quote ends the span.
// The returned span includes both quote characters.
func (s *scanner) scanQuoted() ([]byte, error) {
	start := s.pos
	s.pos++ // opening quote

	for s.pos < len(s.data) {
		c := s.data[s.pos]
		if c == '\\' && s.pos+1 < len(s.data) {
			s.pos += 2
			continue
		}
		if c == '"' {
			s.pos++
			return s.data[start:s.pos], nil
		}
		s.pos++
	}
	return nil, &SyntaxError{Offset: start, Err: ErrUnterminatedString}
}

func (s *scanner) scanTimestamp() (state, error) {
	tsOff := s.pos
	ts := s.data[s.pos:]
	if len(ts) == 0 {
		return s.syntaxErr(tsOff, ErrInvalidTimestamp)
	}
	s.pos = len(s.data)

	s.line.Timestamp = ts
	s.line.TimestampOffset = tsOff
	return stateDone, nil
}
