package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// ValueKind tags the variant held by a FieldValue.
type ValueKind int

const (
	KindEmpty ValueKind = iota
	KindString
	KindDate
	KindNumber
	KindCurrency
)

// FieldValue is a tagged variant over the value types a field can
// normalize to: plain string, ISO-8601 date string, number, or a
// currency amount. The zero value is the empty (unfilled) value.
type FieldValue struct {
	kind     ValueKind
	str      string
	num      float64
	currency CurrencyAmount
}

// StringValue wraps a plain string.
func StringValue(s string) FieldValue {
	return FieldValue{kind: KindString, str: s}
}

// DateValue wraps an ISO-8601 date string (YYYY-MM-DD).
func DateValue(iso string) FieldValue {
	return FieldValue{kind: KindDate, str: iso}
}

// NumberValue wraps a numeric value.
func NumberValue(n float64) FieldValue {
	return FieldValue{kind: KindNumber, num: n}
}

// CurrencyValue wraps a currency amount.
func CurrencyValue(c CurrencyAmount) FieldValue {
	return FieldValue{kind: KindCurrency, currency: c}
}

// Kind returns the variant tag.
func (v FieldValue) Kind() ValueKind { return v.kind }

// IsEmpty reports whether the value is unfilled.
func (v FieldValue) IsEmpty() bool { return v.kind == KindEmpty }

// Str returns the string payload for KindString and KindDate values.
func (v FieldValue) Str() string { return v.str }

// Num returns the numeric payload for KindNumber values.
func (v FieldValue) Num() float64 { return v.num }

// Currency returns the currency payload for KindCurrency values.
func (v FieldValue) Currency() CurrencyAmount { return v.currency }

// String renders the value for display and export.
func (v FieldValue) String() string {
	switch v.kind {
	case KindString, KindDate:
		return v.str
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindCurrency:
		return fmt.Sprintf("%s %.2f", v.currency.Currency, v.currency.Value)
	default:
		return ""
	}
}

// MarshalJSON renders the variant as its natural JSON shape: strings and
// dates as JSON strings, numbers as JSON numbers, currency as an object,
// and the empty value as null.
func (v FieldValue) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindString, KindDate:
		return json.Marshal(v.str)
	case KindNumber:
		return json.Marshal(v.num)
	case KindCurrency:
		return json.Marshal(v.currency)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON accepts the shapes produced by MarshalJSON. A JSON object
// with value/currency keys becomes a currency amount; date strings are
// indistinguishable from plain strings on the wire and come back as
// KindString.
func (v *FieldValue) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*v = FieldValue{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*v = StringValue(s)
		return nil
	}
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*v = NumberValue(n)
		return nil
	}
	var c CurrencyAmount
	if err := json.Unmarshal(data, &c); err == nil && c.Currency != "" {
		*v = CurrencyValue(c)
		return nil
	}
	return fmt.Errorf("unsupported field value shape: %s", string(data))
}
