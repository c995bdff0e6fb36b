package lineprotocol

import (
	"fmt"
	"strconv"

	"github.com/shapestone/shape-lineprotocol/internal/escape"
)

// ParseValue classifies and parses a raw field-value token into a
// Value. The token must be exactly as it appeared on the wire, with
// quotes and escape sequences still present.
//
// Classification is purely lexical, checked in this order:
//
//  1. Double-quoted token: string value (quotes stripped, escapes resolved)
//  2. t, T, true, True, TRUE / f, F, false, False, FALSE: boolean
//  3. 'i' suffix on a signed decimal integer: integer
//  4. 'u' suffix on an unsigned decimal integer: unsigned integer
//  5. Decimal float literal: float
//
// Anything else fails with ErrInvalidFieldValue, including leading '+'
// signs, 64-bit overflow, bare 'i'/'u' suffixes, and NaN/Inf spellings,
// none of which are defined literals.
func ParseValue(token []byte) (Value, error) {
	if len(token) == 0 {
		return Value{}, invalidValueErr(token)
	}

	if token[0] == '"' {
		if !quotedSpan(token) {
			return Value{}, invalidValueErr(token)
		}
		return StringValue(escape.Unescape(escape.StringValue, token[1:len(token)-1])), nil
	}

	switch string(token) {
	case "t", "T", "true", "True", "TRUE":
		return BoolValue(true), nil
	case "f", "F", "false", "False", "FALSE":
		return BoolValue(false), nil
	}

	switch token[len(token)-1] {
	case 'i':
		digits := token[:len(token)-1]
		if !signedDigits(digits) {
			return Value{}, invalidValueErr(token)
		}
		i, err := strconv.ParseInt(string(digits), 10, 64)
		if err != nil {
			// Overflow; the digit check already rejected syntax errors.
			return Value{}, invalidValueErr(token)
		}
		return IntValue(i), nil

	case 'u':
		digits := token[:len(token)-1]
		if !unsignedDigits(digits) {
			return Value{}, invalidValueErr(token)
		}
		u, err := strconv.ParseUint(string(digits), 10, 64)
		if err != nil {
			return Value{}, invalidValueErr(token)
		}
		return UintValue(u), nil
	}

	if !floatCharset(token) {
		return Value{}, invalidValueErr(token)
	}
	f, err := strconv.ParseFloat(string(token), 64)
	if err != nil {
		return Value{}, invalidValueErr(token)
	}
	return FloatValue(f), nil
}

// invalidValueErr wraps ErrInvalidFieldValue with the offending token.
func invalidValueErr(token []byte) error {
	return fmt.Errorf("%w: %q", ErrInvalidFieldValue, token)
}

// quotedSpan reports whether token is a complete double-quoted span:
// an opening quote whose matching unescaped closing quote is the last
// byte of the token.
func quotedSpan(token []byte) bool {
	if len(token) < 2 || token[len(token)-1] != '"' {
		return false
	}
	i := 1
	for i < len(token) {
		if token[i] == '\\' && i+1 < len(token) {
			i += 2
			continue
		}
		if token[i] == '"' {
			return i == len(token)-1
		}
		i++
	}
	return false
}

// signedDigits reports whether b is an optional '-' followed by one or
// more decimal digits. A leading '+' is not part of the protocol.
func signedDigits(b []byte) bool {
	if len(b) > 0 && b[0] == '-' {
		b = b[1:]
	}
	return unsignedDigits(b)
}

// unsignedDigits reports whether b is one or more decimal digits.
func unsignedDigits(b []byte) bool {
	if len(b) == 0 {
		return false
	}
	for _, c := range b {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// floatCharset restricts float tokens to decimal literal bytes before
// handing them to strconv. This shuts out everything ParseFloat would
// otherwise accept that the protocol does not define: leading '+',
// NaN/Inf spellings, hex floats, and underscore separators.
func floatCharset(b []byte) bool {
	if len(b) == 0 || b[0] == '+' {
		return false
	}
	for _, c := range b {
		switch {
		case c >= '0' && c <= '9':
		case c == '.' || c == 'e' || c == 'E' || c == '+' || c == '-':
		default:
			return false
		}
	}
	return true
}
