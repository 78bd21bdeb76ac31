package schema

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Kind is the primitive type of a literal value
type Kind int

const (
	KindString Kind = iota
	KindNumber
	KindBool
	KindNull
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "boolean"
	default:
		return "null"
	}
}

// Value is a primitive literal taken from the schema document (a default
// or an enum member). Text holds the raw string for KindString and the
// canonical literal for the other kinds.
type Value struct {
	Kind Kind
	Text string
}

// StringValue creates a string literal
func StringValue(s string) Value {
	return Value{Kind: KindString, Text: s}
}

// NumberValue creates a number literal
func NumberValue(f float64) Value {
	return Value{Kind: KindNumber, Text: strconv.FormatFloat(f, 'f', -1, 64)}
}

// ParseNumber creates a number literal from its textual form.
// The text is normalized so that 1.50, 1.5 and 15e-1 render alike.
func ParseNumber(text string) (Value, bool) {
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return Value{}, false
	}
	return NumberValue(f), true
}

// BoolValue creates a boolean literal
func BoolValue(b bool) Value {
	return Value{Kind: KindBool, Text: strconv.FormatBool(b)}
}

// NullValue creates the null literal
func NullValue() Value {
	return Value{Kind: KindNull, Text: "null"}
}

// Literal renders the value as a JavaScript literal: strings are quoted,
// numbers and booleans are written as-is.
func (v Value) Literal() string {
	if v.Kind == KindString {
		return QuoteString(v.Text)
	}
	return v.Text
}

// MarshalJSON implements json.Marshaler
func (v Value) MarshalJSON() ([]byte, error) {
	return []byte(v.Literal()), nil
}

// QuoteString quotes s as a JSON string without HTML escaping, which is
// also a valid JavaScript string literal.
func QuoteString(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s)
	return string(bytes.TrimRight(buf.Bytes(), "\n"))
}
