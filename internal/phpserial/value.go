// Package phpserial implements the length-prefixed text serialization
// consumed by the legacy quiz store. Values are built explicitly through
// the constructors below; there is no reflection over arbitrary Go values,
// so an unsupported kind is a construction-time impossibility rather than
// an encode-time surprise.
package phpserial

// Kind tags the variants of Value.
type Kind int

const (
	KindInvalid Kind = iota
	KindNull
	KindBool
	KindInt
	KindFloat
	KindString
	KindArray
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	default:
		return "invalid"
	}
}

// Value is one node of a serializable tree. The zero Value is invalid and
// rejected by Encode.
type Value struct {
	kind    Kind
	boolVal bool
	intVal  int64
	f64Val  float64
	strVal  string
	entries []Entry
}

// Entry is one array element. Array order is preserved exactly as given:
// the consumer treats insertion order as meaningful.
type Entry struct {
	Key   Key
	Value Value
}

// Key is an array key, either an integer or a string.
type Key struct {
	isString bool
	intKey   int64
	strKey   string
}

// IntKey builds an integer array key.
func IntKey(i int64) Key { return Key{intKey: i} }

// StringKey builds a string array key.
func StringKey(s string) Key { return Key{isString: true, strKey: s} }

// IsString reports whether the key is a string key.
func (k Key) IsString() bool { return k.isString }

// Int returns the integer key (zero for string keys).
func (k Key) Int() int64 { return k.intKey }

// Str returns the string key (empty for integer keys).
func (k Key) Str() string { return k.strKey }

// Null returns the null value.
func Null() Value { return Value{kind: KindNull} }

// Bool wraps a boolean.
func Bool(b bool) Value { return Value{kind: KindBool, boolVal: b} }

// Int wraps an integer.
func Int(i int64) Value { return Value{kind: KindInt, intVal: i} }

// Float wraps a float.
func Float(f float64) Value { return Value{kind: KindFloat, f64Val: f} }

// String wraps a string.
func String(s string) Value { return Value{kind: KindString, strVal: s} }

// Array wraps an ordered list of key/value entries.
func Array(entries ...Entry) Value {
	return Value{kind: KindArray, entries: entries}
}

// List wraps values as an array keyed 0..n-1, mirroring a sequential list.
func List(values ...Value) Value {
	entries := make([]Entry, 0, len(values))
	for i, v := range values {
		entries = append(entries, Entry{Key: IntKey(int64(i)), Value: v})
	}
	return Array(entries...)
}

// Kind returns the variant tag of v.
func (v Value) Kind() Kind { return v.kind }

// BoolVal returns the wrapped bool (false for other kinds).
func (v Value) BoolVal() bool { return v.boolVal }

// IntVal returns the wrapped integer (zero for other kinds).
func (v Value) IntVal() int64 { return v.intVal }

// FloatVal returns the wrapped float (zero for other kinds).
func (v Value) FloatVal() float64 { return v.f64Val }

// StringVal returns the wrapped string (empty for other kinds).
func (v Value) StringVal() string { return v.strVal }

// Entries returns the array entries in insertion order (nil for other kinds).
func (v Value) Entries() []Entry { return v.entries }

// Equal reports deep equality of two value trees.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.boolVal == other.boolVal
	case KindInt:
		return v.intVal == other.intVal
	case KindFloat:
		return v.f64Val == other.f64Val
	case KindString:
		return v.strVal == other.strVal
	case KindArray:
		if len(v.entries) != len(other.entries) {
			return false
		}
		for i := range v.entries {
			if v.entries[i].Key != other.entries[i].Key {
				return false
			}
			if !v.entries[i].Value.Equal(other.entries[i].Value) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
