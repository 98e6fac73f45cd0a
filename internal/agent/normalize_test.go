package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/analyst-cli/internal/model"
)

func TestExpectedKind(t *testing.T) {
	tests := []struct {
		hint string
		want model.AnswerKind
	}{
		{"int", model.KindInt},
		{"float", model.KindFloat},
		{"{'a': int}", model.KindObject},
		{"{\"month\": \"YYYY-MM\"}", model.KindObject},
		{"list[str]", model.KindList},
		{"list of strings", model.KindList},
		{"", model.KindString},
		{"short text", model.KindString},
		{"integer", model.KindString}, // only the exact spelling counts
		{"  int  ", model.KindInt},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, expectedKind(tt.hint), "hint %q", tt.hint)
	}
}

func TestNormalizeAnswer_Int(t *testing.T) {
	v, ok := NormalizeAnswer(float64(42), "int")
	require.True(t, ok)
	assert.Equal(t, int64(42), v.Value())

	// Numeric string goes through the literal parser.
	v, ok = NormalizeAnswer("42", "int")
	require.True(t, ok)
	assert.Equal(t, int64(42), v.Value())

	// Float coerces by truncation.
	v, ok = NormalizeAnswer(41.9, "int")
	require.True(t, ok)
	assert.Equal(t, int64(41), v.Value())

	v, ok = NormalizeAnswer("not a number", "int")
	assert.False(t, ok)
	assert.Equal(t, int64(0), v.Value())
}

func TestNormalizeAnswer_FloatRounding(t *testing.T) {
	v, ok := NormalizeAnswer(3.14159, "float")
	require.True(t, ok)
	assert.Equal(t, 3.14, v.Value())

	v, ok = NormalizeAnswer("1530.755", "float")
	require.True(t, ok)
	assert.InDelta(t, 1530.76, v.Value().(float64), 0.011)

	v, ok = NormalizeAnswer(int64(7), "float")
	require.True(t, ok)
	assert.Equal(t, 7.0, v.Value())
}

func TestNormalizeAnswer_Rejections(t *testing.T) {
	for _, raw := range []string{"N/A", "na", "NONE", " No Answer ", "This is not applicable here"} {
		v, ok := NormalizeAnswer(raw, "int")
		assert.False(t, ok, "raw %q", raw)
		assert.Equal(t, int64(0), v.Value(), "raw %q", raw)
	}

	// Rejection applies regardless of hint.
	v, ok := NormalizeAnswer("none", "list[str]")
	assert.False(t, ok)
	assert.Equal(t, []any{}, v.Value())
}

func TestNormalizeAnswer_NilDefaults(t *testing.T) {
	tests := []struct {
		hint string
		want any
	}{
		{"int", int64(0)},
		{"float", 0.0},
		{"{'a': 1}", map[string]any{}},
		{"list[str]", []any{}},
		{"", ""},
	}
	for _, tt := range tests {
		v, ok := NormalizeAnswer(nil, tt.hint)
		assert.False(t, ok, "hint %q", tt.hint)
		assert.Equal(t, tt.want, v.Value(), "hint %q", tt.hint)
	}
}

func TestNormalizeAnswer_Object(t *testing.T) {
	v, ok := NormalizeAnswer(map[string]any{"month": "1997-12"}, "{'month': str}")
	require.True(t, ok)
	assert.Equal(t, map[string]any{"month": "1997-12"}, v.Value())

	// Serialized object string parses through the literal grammar.
	v, ok = NormalizeAnswer("{'month': '1997-12'}", "{'month': str}")
	require.True(t, ok)
	assert.Equal(t, map[string]any{"month": "1997-12"}, v.Value())

	_, ok = NormalizeAnswer([]any{"a"}, "{'month': str}")
	assert.False(t, ok)
}

func TestNormalizeAnswer_List(t *testing.T) {
	v, ok := NormalizeAnswer([]any{"a", "b"}, "list[str]")
	require.True(t, ok)
	assert.Equal(t, []any{"a", "b"}, v.Value())

	v, ok = NormalizeAnswer("['a', 'b']", "list[str]")
	require.True(t, ok)
	assert.Equal(t, []any{"a", "b"}, v.Value())

	_, ok = NormalizeAnswer("just text", "list[str]")
	assert.False(t, ok)
}

func TestNormalizeAnswer_String(t *testing.T) {
	v, ok := NormalizeAnswer("Beverages", "short answer")
	require.True(t, ok)
	assert.Equal(t, "Beverages", v.Value())

	// Numbers stringify under a string hint.
	v, ok = NormalizeAnswer(float64(12), "")
	require.True(t, ok)
	assert.Equal(t, "12", v.Value())
}
