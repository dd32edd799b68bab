package pref

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"reflect"
	"strconv"
	"strings"
	"time"
	"unicode/utf16"
	"unicode/utf8"
)

// Kind is the primitive type of a pref value
type Kind int

const (
	KindNull Kind = iota // skip the pref
	KindBool
	KindInt
	KindString
	KindUnsupported // anything prefs.js cannot express
)

// String returns the name used for the kind in messages
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindString:
		return "str"
	default:
		return "unsupported"
	}
}

// Value is one candidate value for a pref
type Value struct {
	kind Kind
	b    bool
	i    int64
	s    string
	raw  any // only set for KindUnsupported
}

// Null returns the "absent" marker
func Null() Value { return Value{kind: KindNull} }

// Bool returns a boolean value
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Int returns an integer value
func Int(i int64) Value { return Value{kind: KindInt, i: i} }

// String returns a string value
func String(s string) Value { return Value{kind: KindString, s: s} }

// FromRaw converts a decoded document scalar into a Value.
// Anything other than nil, bool, integers and strings becomes KindUnsupported
// and keeps the original value so it can be reported.
func FromRaw(v any) Value {
	switch x := v.(type) {
	case nil:
		return Null()
	case bool:
		return Bool(x)
	case int:
		return Int(int64(x))
	case int8:
		return Int(int64(x))
	case int16:
		return Int(int64(x))
	case int32:
		return Int(int64(x))
	case int64:
		return Int(x)
	case uint8:
		return Int(int64(x))
	case uint16:
		return Int(int64(x))
	case uint32:
		return Int(int64(x))
	case uint:
		if uint64(x) <= math.MaxInt64 {
			return Int(int64(x))
		}
	case uint64:
		if x <= math.MaxInt64 {
			return Int(int64(x))
		}
	case string:
		return String(x)
	}
	return Value{kind: KindUnsupported, raw: v}
}

// Kind returns the primitive type of v
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is the "absent" marker
func (v Value) IsNull() bool { return v.kind == KindNull }

// Raw returns v as a plain Go value (nil, bool, int64, string or the
// original unsupported value)
func (v Value) Raw() any {
	switch v.kind {
	case KindNull:
		return nil
	case KindBool:
		return v.b
	case KindInt:
		return v.i
	case KindString:
		return v.s
	default:
		return v.raw
	}
}

// TypeName returns the name of v's type for error messages
func (v Value) TypeName() string {
	if v.kind == KindUnsupported {
		return TypeName(v.raw)
	}
	return v.kind.String()
}

// Equal compares kind and payload; Int(1) and Bool(true) are not equal
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == o.b
	case KindInt:
		return v.i == o.i
	case KindString:
		return v.s == o.s
	default:
		return reflect.DeepEqual(v.raw, o.raw)
	}
}

// Format renders v as a prefs.js literal.
// Strings are wrapped in single quotes without escaping.
// ok is false for null and unsupported values.
func (v Value) Format() (literal string, ok bool) {
	switch v.kind {
	case KindBool:
		if v.b {
			return "true", true
		}
		return "false", true
	case KindInt:
		return strconv.FormatInt(v.i, 10), true
	case KindString:
		return "'" + v.s + "'", true
	default:
		return "", false
	}
}

// JSON renders v as a JSON literal for option listings in comments
func (v Value) JSON() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindString:
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		if err := enc.Encode(v.s); err != nil {
			return strconv.Quote(v.s)
		}
		return escapeNonASCII(string(bytes.TrimRight(buf.Bytes(), "\n")))
	default:
		return fmt.Sprintf("%v", v.raw)
	}
}

// escapeNonASCII rewrites every non-ASCII rune of an encoded JSON string as
// a lowercase \uXXXX escape, using surrogate pairs outside the BMP
func escapeNonASCII(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r < utf8.RuneSelf {
			b.WriteRune(r)
			continue
		}
		if r1, r2 := utf16.EncodeRune(r); r1 != utf8.RuneError {
			fmt.Fprintf(&b, "\\u%04x\\u%04x", r1, r2)
			continue
		}
		fmt.Fprintf(&b, "\\u%04x", r)
	}
	return b.String()
}

// String implements fmt.Stringer
func (v Value) String() string {
	return v.JSON()
}

// typeNamer lets raw document containers name themselves
type typeNamer interface {
	TypeName() string
}

// TypeName names the type of a raw decoded value the way template authors
// think about it (float, list, dict) rather than as a Go type.
func TypeName(raw any) string {
	switch x := raw.(type) {
	case nil:
		return "null"
	case typeNamer:
		return x.TypeName()
	case bool:
		return "bool"
	case string:
		return "str"
	case float32, float64:
		return "float"
	case time.Time:
		return "timestamp"
	case []byte:
		return "bytes"
	case *big.Int:
		// out of int64 range
		return "int"
	}
	if FromRaw(raw).Kind() == KindInt {
		return "int"
	}
	switch reflect.ValueOf(raw).Kind() {
	case reflect.Slice, reflect.Array:
		return "list"
	case reflect.Map:
		return "dict"
	case reflect.Uint, reflect.Uint64:
		// out of int64 range
		return "int"
	}
	return fmt.Sprintf("%T", raw)
}
