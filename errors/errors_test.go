package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap(t *testing.T) {
	original := New("original")
	wrapped := Wrap(original, "wrapped")

	assert.Contains(t, wrapped.Error(), "wrapped")
	assert.Contains(t, wrapped.Error(), "original")
	assert.True(t, Is(wrapped, original))
}

func TestWithHint(t *testing.T) {
	err := New("error")
	withHint := WithHint(err, "try this fix")

	hints := GetAllHints(withHint)
	require.Len(t, hints, 1)
	assert.Equal(t, "try this fix", hints[0])
}

func TestNewStructuralError(t *testing.T) {
	err := NewStructuralError("'%s' is missing 'default' variant", "a.b")

	// message is the bare reason, no sentinel suffix
	assert.Equal(t, "'a.b' is missing 'default' variant", err.Error())
	assert.True(t, IsStructuralError(err))
	assert.False(t, IsParseError(err))
	assert.True(t, IsStructuralError(Wrap(err, "loading template")))
}

func TestNewParseError(t *testing.T) {
	cause := New("yaml: line 1: did not find expected node content")
	err := NewParseError("YAML", cause)

	assert.Equal(t, "invalid YAML", err.Error())
	assert.True(t, IsParseError(err))
	assert.False(t, IsStructuralError(err))

	details := GetAllDetails(err)
	require.Len(t, details, 1)
	assert.Contains(t, details[0], "did not find expected node content")

	assert.Empty(t, GetAllDetails(NewParseError("JSONC", nil)))
}

func TestNewDatatypeError(t *testing.T) {
	err := NewDatatypeError("Unsupported datatype '%s' (%s)", "float", "boom.")
	assert.Equal(t, "Unsupported datatype 'float' (boom.)", err.Error())
	assert.True(t, Is(err, ErrUnsupportedDatatype))
}

func TestNewUnknownVariantError(t *testing.T) {
	err := NewUnknownVariantError("x")
	assert.Equal(t, "variant 'x' does not exist", err.Error())
	assert.True(t, Is(err, ErrUnknownVariant))
	assert.False(t, Is(err, ErrStructure))
}

func TestNotFound(t *testing.T) {
	err := NewNotFoundError("Cannot find input file '%s'", "missing.yml")
	assert.True(t, IsNotFoundError(err))
	assert.False(t, IsNotFoundError(nil))
	assert.False(t, IsNotFoundError(New("other")))
}

func TestNilHandling(t *testing.T) {
	assert.Nil(t, Wrap(nil, "context"))
	assert.Nil(t, WithHint(nil, "hint"))
	assert.False(t, IsStructuralError(nil))
	assert.False(t, IsParseError(nil))
}

func TestStackTrace(t *testing.T) {
	err := NewStructuralError("with stack")

	detailed := fmt.Sprintf("%+v", err)
	assert.Contains(t, detailed, "errors_test.go")
}

func ExampleNewStructuralError() {
	err := NewStructuralError("Unused variants '%s'", "unused")
	fmt.Println(err)
	// Output: Unused variants 'unused'
}
