package tabular

import (
	"encoding/json"
	"strconv"
	"strings"
)

// ValueKind identifies the coerced type of a cell
type ValueKind string

const (
	KindInt     ValueKind = "int"
	KindFloat   ValueKind = "float"
	KindString  ValueKind = "string"
	KindList    ValueKind = "list"
	KindMissing ValueKind = "missing"
)

// Value represents a single typed cell value with type information.
// Percentages are stored as floats in [0,1].
type Value struct {
	Kind      ValueKind
	IntVal    *int64
	FloatVal  *float64
	StringVal *string
	ListVal   []string
}

// NewIntValue creates an integer value
func NewIntValue(n int64) Value {
	return Value{Kind: KindInt, IntVal: &n}
}

// NewFloatValue creates a floating-point value
func NewFloatValue(f float64) Value {
	return Value{Kind: KindFloat, FloatVal: &f}
}

// NewStringValue creates a string value
func NewStringValue(s string) Value {
	return Value{Kind: KindString, StringVal: &s}
}

// NewListValue creates an ordered list-of-identifiers value
func NewListValue(elems []string) Value {
	return Value{Kind: KindList, ListVal: elems}
}

// NewMissingValue creates a missing value sentinel
func NewMissingValue() Value {
	return Value{Kind: KindMissing}
}

// IsMissing checks if the value is the missing sentinel
func (v Value) IsMissing() bool {
	return v.Kind == KindMissing
}

// IsNumeric checks if the value carries a number
func (v Value) IsNumeric() bool {
	return v.Kind == KindInt || v.Kind == KindFloat
}

// AsFloat64 returns the numeric value as float64 when one is present
func (v Value) AsFloat64() (float64, bool) {
	switch v.Kind {
	case KindInt:
		if v.IntVal != nil {
			return float64(*v.IntVal), true
		}
	case KindFloat:
		if v.FloatVal != nil {
			return *v.FloatVal, true
		}
	}
	return 0, false
}

// AsString returns the natural string form used by tabular renderings.
// Missing values render as the empty string.
func (v Value) AsString() string {
	switch v.Kind {
	case KindInt:
		if v.IntVal != nil {
			return strconv.FormatInt(*v.IntVal, 10)
		}
	case KindFloat:
		if v.FloatVal != nil {
			return strconv.FormatFloat(*v.FloatVal, 'f', -1, 64)
		}
	case KindString:
		if v.StringVal != nil {
			return *v.StringVal
		}
	case KindList:
		return strings.Join(v.ListVal, ", ")
	}
	return ""
}

// MarshalJSON renders the value in its natural JSON form: ints as integers,
// floats as numbers, lists as arrays, missing as null.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindInt:
		if v.IntVal != nil {
			return json.Marshal(*v.IntVal)
		}
	case KindFloat:
		if v.FloatVal != nil {
			return json.Marshal(*v.FloatVal)
		}
	case KindString:
		if v.StringVal != nil {
			return json.Marshal(*v.StringVal)
		}
	case KindList:
		if v.ListVal == nil {
			return json.Marshal([]string{})
		}
		return json.Marshal(v.ListVal)
	}
	return []byte("null"), nil
}

// String returns a human-readable representation
func (v Value) String() string {
	if v.IsMissing() {
		return "<missing>"
	}
	return v.AsString()
}
