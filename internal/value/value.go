// Package value models a database document as a tagged-variant value tree,
// so traversal code dispatches on an explicit Kind rather than relying on
// untyped map[string]any assertions scattered through the codebase.
package value

import (
	"fmt"
	"sort"
	"time"
)

// Kind tags the variant a Value holds.
type Kind int

const (
	Null Kind = iota
	Bool
	Int
	Float
	String
	Array
	Object
	DateTime
	Binary
	ObjectID
	Decimal128
)

func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Bool:
		return "bool"
	case Int:
		return "int"
	case Float:
		return "float"
	case String:
		return "string"
	case Array:
		return "array"
	case Object:
		return "object"
	case DateTime:
		return "datetime"
	case Binary:
		return "binary"
	case ObjectID:
		return "objectId"
	case Decimal128:
		return "decimal128"
	default:
		return "unknown"
	}
}

// Value is a single node in a document's value tree.
type Value struct {
	Kind  Kind
	Bool  bool
	Int   int64
	Float float64
	Str   string
	Time  time.Time
	Bin   []byte
	Arr   []Value
	Obj   map[string]Value

	// ObjKeys fixes the field order of Object values (sorted when built by
	// NewObject, as set by the caller otherwise); map iteration order is
	// not stable and callers that need deterministic traversal
	// (inference, generation) must walk ObjKeys, not range over Obj.
	ObjKeys []string
}

// NewNull returns a Null value.
func NewNull() Value { return Value{Kind: Null} }

// NewBool returns a Bool value.
func NewBool(b bool) Value { return Value{Kind: Bool, Bool: b} }

// NewInt returns an Int value.
func NewInt(i int64) Value { return Value{Kind: Int, Int: i} }

// NewFloat returns a Float value.
func NewFloat(f float64) Value { return Value{Kind: Float, Float: f} }

// NewString returns a String value.
func NewString(s string) Value { return Value{Kind: String, Str: s} }

// NewDateTime returns a DateTime value.
func NewDateTime(t time.Time) Value { return Value{Kind: DateTime, Time: t} }

// NewBinary returns a Binary value.
func NewBinary(b []byte) Value { return Value{Kind: Binary, Bin: b} }

// NewObjectID returns an ObjectID value carried as its hex string.
func NewObjectID(hex string) Value { return Value{Kind: ObjectID, Str: hex} }

// NewDecimal128 returns a Decimal128 value carried as its decimal string.
func NewDecimal128(s string) Value { return Value{Kind: Decimal128, Str: s} }

// NewArray returns an Array value.
func NewArray(items []Value) Value { return Value{Kind: Array, Arr: items} }

// NewObject returns an Object value, deriving ObjKeys from m in sorted
// order (callers that need a specific field order should build Obj/ObjKeys
// directly instead of going through this constructor).
func NewObject(m map[string]Value) Value {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return Value{Kind: Object, Obj: m, ObjKeys: keys}
}

// Get returns the child of an Object value by key.
func (v Value) Get(key string) (Value, bool) {
	if v.Kind != Object {
		return Value{}, false
	}
	child, ok := v.Obj[key]
	return child, ok
}

// IsNumeric reports whether v holds an Int or Float.
func (v Value) IsNumeric() bool {
	return v.Kind == Int || v.Kind == Float
}

// NumericString renders an Int or Float as a canonical string, used as the
// key into frequency distributions so numeric ordering and string keys
// agree.
func (v Value) NumericString() string {
	switch v.Kind {
	case Int:
		return fmt.Sprintf("%d", v.Int)
	case Float:
		return fmt.Sprintf("%g", v.Float)
	default:
		return ""
	}
}

// AsFloat64 returns v as a float64, for numeric accumulation.
func (v Value) AsFloat64() (float64, bool) {
	switch v.Kind {
	case Int:
		return float64(v.Int), true
	case Float:
		return v.Float, true
	default:
		return 0, false
	}
}
