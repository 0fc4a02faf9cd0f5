package model

import (
	"encoding/json"
	"strings"
)

// ValueKind identifies the shape of a Value.
type ValueKind int

const (
	KindAbsent ValueKind = iota // no value present (missing key)
	KindNull                    // explicit JSON null
	KindString
	KindBool
	KindNumber
	KindList
)

// Value is a tagged union for answer and clause values. Rule clauses compare
// loosely-typed JSON data, so every comparison goes through explicit per-kind
// checks instead of interface{} equality.
type Value struct {
	Kind ValueKind `json:"-" bson:"-"`
	Str  string    `json:"-" bson:"-"`
	Bool bool      `json:"-" bson:"-"`
	Num  float64   `json:"-" bson:"-"`
	List []Value   `json:"-" bson:"-"`
}

// Constructors.

func StringValue(s string) Value  { return Value{Kind: KindString, Str: s} }
func BoolValue(b bool) Value      { return Value{Kind: KindBool, Bool: b} }
func NumberValue(n float64) Value { return Value{Kind: KindNumber, Num: n} }
func NullValue() Value            { return Value{Kind: KindNull} }

func ListValue(items ...Value) Value {
	return Value{Kind: KindList, List: items}
}

// StringsValue builds a list value from plain strings.
func StringsValue(items ...string) Value {
	list := make([]Value, 0, len(items))
	for _, item := range items {
		list = append(list, StringValue(item))
	}
	return Value{Kind: KindList, List: list}
}

// ValueFromAny converts decoded JSON data into a Value. Shapes the rule
// engine cannot represent (objects) collapse to null.
func ValueFromAny(raw interface{}) Value {
	switch v := raw.(type) {
	case nil:
		return NullValue()
	case string:
		return StringValue(v)
	case bool:
		return BoolValue(v)
	case float64:
		return NumberValue(v)
	case int:
		return NumberValue(float64(v))
	case int64:
		return NumberValue(float64(v))
	case []interface{}:
		items := make([]Value, 0, len(v))
		for _, item := range v {
			items = append(items, ValueFromAny(item))
		}
		return Value{Kind: KindList, List: items}
	case []string:
		return StringsValue(v...)
	case Value:
		return v
	default:
		return NullValue()
	}
}

// Interface converts the value back into plain JSON-compatible data.
func (v Value) Interface() interface{} {
	switch v.Kind {
	case KindString:
		return v.Str
	case KindBool:
		return v.Bool
	case KindNumber:
		return v.Num
	case KindList:
		items := make([]interface{}, 0, len(v.List))
		for _, item := range v.List {
			items = append(items, item.Interface())
		}
		return items
	default:
		return nil
	}
}

// IsNil reports whether the value is absent or null. The evaluator treats a
// missing answer and an explicit null identically.
func (v Value) IsNil() bool {
	return v.Kind == KindAbsent || v.Kind == KindNull
}

// IsList reports whether the value is a non-string sequence.
func (v Value) IsList() bool { return v.Kind == KindList }

// Truthy mirrors loose boolean coercion: null and empty values are false.
func (v Value) Truthy() bool {
	switch v.Kind {
	case KindString:
		return v.Str != ""
	case KindBool:
		return v.Bool
	case KindNumber:
		return v.Num != 0
	case KindList:
		return len(v.List) > 0
	default:
		return false
	}
}

// Equal compares two values with loose-JSON semantics: null equals null,
// booleans compare equal to their numeric form (true == 1), and lists
// compare element-wise.
func (v Value) Equal(other Value) bool {
	if v.IsNil() || other.IsNil() {
		return v.IsNil() && other.IsNil()
	}
	switch v.Kind {
	case KindString:
		return other.Kind == KindString && v.Str == other.Str
	case KindBool:
		if other.Kind == KindBool {
			return v.Bool == other.Bool
		}
		if other.Kind == KindNumber {
			return boolToNum(v.Bool) == other.Num
		}
		return false
	case KindNumber:
		if other.Kind == KindNumber {
			return v.Num == other.Num
		}
		if other.Kind == KindBool {
			return v.Num == boolToNum(other.Bool)
		}
		return false
	case KindList:
		if other.Kind != KindList || len(v.List) != len(other.List) {
			return false
		}
		for i := range v.List {
			if !v.List[i].Equal(other.List[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// Contains reports whether a list value contains item. Non-list values never
// contain anything.
func (v Value) Contains(item Value) bool {
	if v.Kind != KindList {
		return false
	}
	for _, member := range v.List {
		if member.Equal(item) {
			return true
		}
	}
	return false
}

// ContainsSubstring reports whether a string value contains any of the given
// string items as a substring.
func (v Value) ContainsSubstring(item Value) bool {
	if v.Kind != KindString || item.Kind != KindString {
		return false
	}
	return strings.Contains(v.Str, item.Str)
}

// AsList wraps a scalar into a single-item list; list values pass through.
// Absent and null yield an empty list.
func (v Value) AsList() []Value {
	switch v.Kind {
	case KindList:
		return v.List
	case KindAbsent, KindNull:
		return nil
	default:
		return []Value{v}
	}
}

// Clone returns a deep copy of the value.
func (v Value) Clone() Value {
	if v.Kind != KindList {
		return v
	}
	items := make([]Value, len(v.List))
	for i, item := range v.List {
		items[i] = item.Clone()
	}
	return Value{Kind: KindList, List: items}
}

func boolToNum(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// MarshalJSON renders the underlying JSON shape. Absent values render as
// null; callers that need field omission use pointer fields.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Interface())
}

// UnmarshalJSON decodes any JSON value into its tagged form.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*v = ValueFromAny(raw)
	return nil
}

// AnswerMap holds the current answers keyed by question key. The rule engine
// only ever reads it.
type AnswerMap map[string]Value

// Get returns the answer for field, or an absent value when unanswered.
func (m AnswerMap) Get(field string) Value {
	if m == nil {
		return Value{}
	}
	return m[field]
}

// AnswersFromAny converts decoded JSON answers into an AnswerMap.
func AnswersFromAny(raw map[string]interface{}) AnswerMap {
	answers := make(AnswerMap, len(raw))
	for key, value := range raw {
		answers[key] = ValueFromAny(value)
	}
	return answers
}

// Interface converts the answer map back to plain JSON-compatible data, the
// form submissions are stored in.
func (m AnswerMap) Interface() map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for key, value := range m {
		out[key] = value.Interface()
	}
	return out
}
