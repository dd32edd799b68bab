package pref

import (
	"math"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromRaw(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		kind Kind
	}{
		{"nil is null", nil, KindNull},
		{"true", true, KindBool},
		{"int", 7, KindInt},
		{"int64", int64(-3), KindInt},
		{"uint64 in range", uint64(12), KindInt},
		{"uint64 out of range", uint64(math.MaxUint64), KindUnsupported},
		{"string", "x", KindString},
		{"float", 1.11, KindUnsupported},
		{"list", []any{1}, KindUnsupported},
		{"timestamp", time.Unix(0, 0), KindUnsupported},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, FromRaw(tt.raw).Kind())
		})
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name  string
		value Value
		want  string
		ok    bool
	}{
		{"true is bare", Bool(true), "true", true},
		{"false is bare", Bool(false), "false", true},
		{"int is decimal", Int(-42), "-42", true},
		{"string single quoted", String("test string"), "'test string'", true},
		{"quotes are not escaped", String(`'test' "string"`), `''test' "string"'`, true},
		{"null has no literal", Null(), "", false},
		{"float has no literal", FromRaw(1.01), "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.value.Format()
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestJSON(t *testing.T) {
	assert.Equal(t, "null", Null().JSON())
	assert.Equal(t, "true", Bool(true).JSON())
	assert.Equal(t, "12", Int(12).JSON())
	assert.Equal(t, `"a<b>\"c\""`, String(`a<b>"c"`).JSON())
	assert.Equal(t, `"caf\u00e9"`, String("café").JSON())
	assert.Equal(t, `"\ud83d\ude00 \u2028"`, String("\U0001F600 \u2028").JSON())
	assert.Equal(t, `"\ufffd"`, String("\xff").JSON())
}

func TestEqual(t *testing.T) {
	assert.True(t, Int(1).Equal(Int(1)))
	assert.False(t, Int(1).Equal(Bool(true)), "kinds differ")
	assert.False(t, String("1").Equal(Int(1)))
	assert.True(t, Null().Equal(Null()))
	assert.True(t, FromRaw(1.5).Equal(FromRaw(1.5)))
}

func TestTypeName(t *testing.T) {
	assert.Equal(t, "float", TypeName(1.11))
	assert.Equal(t, "list", TypeName([]any{}))
	assert.Equal(t, "dict", TypeName(map[string]any{}))
	assert.Equal(t, "timestamp", TypeName(time.Now()))
	assert.Equal(t, "int", TypeName(uint64(math.MaxUint64)))
	n, _ := new(big.Int).SetString("18446744073709551616", 10)
	assert.Equal(t, "int", TypeName(n))
	assert.Equal(t, KindUnsupported, FromRaw(n).Kind())
	assert.Equal(t, "float", FromRaw(2.5).TypeName())
	assert.Equal(t, "str", String("x").TypeName())
}

func TestTable(t *testing.T) {
	table := NewTable()
	table.Add("b.pref", "default", []Value{Int(1)})
	table.Add("a.pref", "default", []Value{Bool(true)})
	table.Add("a.pref", "fuzz", []Value{Bool(false), Null()})

	assert.Equal(t, 2, table.Len())
	assert.Equal(t, []string{"a.pref", "b.pref"}, table.Names())

	entry, ok := table.Entry("a.pref")
	require.True(t, ok)
	assert.Equal(t, "a.pref", entry.Name())
	assert.Equal(t, []string{"default", "fuzz"}, entry.Variants())
	assert.True(t, entry.Has("fuzz"))
	assert.False(t, entry.Has("other"))

	values, ok := entry.Values("fuzz")
	require.True(t, ok)
	require.Len(t, values, 2)
	assert.True(t, values[1].IsNull())

	// callers get a copy
	values[0] = Int(99)
	again, _ := entry.Values("fuzz")
	assert.True(t, again[0].Equal(Bool(false)))

	_, ok = table.Entry("missing")
	assert.False(t, ok)
}
