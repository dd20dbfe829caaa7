package query

import "time"

// Kind tags the dynamic type of a predicate Value.
type Kind int

const (
	KindBool Kind = iota
	KindNumber
	KindString
	KindTime
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindTime:
		return "time"
	default:
		return "unknown"
	}
}

// Value is a type-tagged scalar comparable by the database's
// ordering. It is the unit of comparison for Equality, In, and
// Range predicate bounds.
type Value struct {
	Kind Kind
	Bool bool
	Num  float64
	Str  string
	Time time.Time
}

func BoolValue(b bool) Value     { return Value{Kind: KindBool, Bool: b} }
func NumberValue(n float64) Value { return Value{Kind: KindNumber, Num: n} }
func StringValue(s string) Value { return Value{Kind: KindString, Str: s} }
func TimeValue(t time.Time) Value { return Value{Kind: KindTime, Time: t} }

// FromAny converts a loosely-typed Go value (as decoded from BSON)
// into a Value. It returns false if the value's dynamic type is not
// one of the supported scalar kinds.
func FromAny(v any) (Value, bool) {
	switch x := v.(type) {
	case bool:
		return BoolValue(x), true
	case float64:
		return NumberValue(x), true
	case float32:
		return NumberValue(float64(x)), true
	case int:
		return NumberValue(float64(x)), true
	case int32:
		return NumberValue(float64(x)), true
	case int64:
		return NumberValue(float64(x)), true
	case string:
		return StringValue(x), true
	case time.Time:
		return TimeValue(x), true
	default:
		return Value{}, false
	}
}

// Equals reports structural equality between two Values.
func (v Value) Equals(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case KindBool:
		return v.Bool == o.Bool
	case KindNumber:
		return v.Num == o.Num
	case KindString:
		return v.Str == o.Str
	case KindTime:
		return v.Time.Equal(o.Time)
	default:
		return false
	}
}
