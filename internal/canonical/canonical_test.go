package canonical

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalBasic(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected string
	}{
		{"string", "hello", `"hello"`},
		{"int", 42, "42"},
		{"int64", int64(-100), "-100"},
		{"bool", true, "true"},
		{"integral float", 2.0, "2"},
		{"fraction", 0.015, "0.015"},
		{"negative zero", math.Copysign(0, -1), "0"},
		{"small", 1e-7, "1e-7"},
		{"boundary small", 1e-6, "0.000001"},
		{"large", 1e21, "1e+21"},
		{"below large", 1e20, "100000000000000000000"},
		{"avogadro", 6.02214076e23, "6.02214076e+23"},
		{"float slice", []float64{0, 0.5, 1}, "[0,0.5,1]"},
		{"int slice", []int{3, 1}, "[3,1]"},
		{"empty array", []any{}, "[]"},
		{"empty object", map[string]any{}, "{}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Marshal(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(got))
		})
	}
}

func TestMarshalSortedKeys(t *testing.T) {
	got, err := Marshal(map[string]any{
		"zebra": 1,
		"alpha": map[string]any{"b": 1, "a": 2},
		"beta":  3,
	})
	require.NoError(t, err)
	assert.Equal(t, `{"alpha":{"a":2,"b":1},"beta":3,"zebra":1}`, string(got))
}

func TestMarshalUTF16Ordering(t *testing.T) {
	// U+10000 encodes as the surrogate pair 0xD800 0xDC00, which sorts
	// before U+E000 in UTF-16 but after it in UTF-8.
	got, err := Marshal(map[string]any{
		"\uE000":     1,
		"\U00010000": 2,
	})
	require.NoError(t, err)
	assert.Equal(t, "{\"\U00010000\":2,\"\uE000\":1}", string(got))
}

func TestMarshalParamKeyOrder(t *testing.T) {
	// Upper case sorts before lower case.
	got, err := Marshal(map[string]float64{"f_b": 0.015, "TBR": 1.05, "I_miv": 0.3})
	require.NoError(t, err)
	assert.Equal(t, `{"I_miv":0.3,"TBR":1.05,"f_b":0.015}`, string(got))
}

func TestMarshalNoHTMLEscape(t *testing.T) {
	got, err := Marshal("<a & b>")
	require.NoError(t, err)
	assert.Equal(t, `"<a & b>"`, string(got))
}

func TestMarshalNFC(t *testing.T) {
	decomposed := "e\u0301"
	got, err := Marshal(map[string]any{decomposed: decomposed})
	require.NoError(t, err)
	assert.Equal(t, "{\"\u00e9\":\"\u00e9\"}", string(got))
}

func TestMarshalLineSeparators(t *testing.T) {
	got, err := Marshal("a\u2028b\u2029c")
	require.NoError(t, err)
	assert.Equal(t, "\"a\u2028b\u2029c\"", string(got))

	literal, err := Marshal(`x\u2028`)
	require.NoError(t, err)
	assert.Equal(t, `"x\\u2028"`, string(literal))
}

func TestMarshalRejects(t *testing.T) {
	tests := []struct {
		name  string
		input any
	}{
		{"null", nil},
		{"nan", math.NaN()},
		{"inf in slice", []float64{1, math.Inf(1)}},
		{"nested null", map[string]any{"a": nil}},
		{"unsupported", struct{}{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Marshal(tt.input)
			assert.Error(t, err)
		})
	}
}

func TestMarshalIsIdempotent(t *testing.T) {
	v := map[string]any{"b": []any{1, "x", 0.25}, "a": true}
	first, err := Marshal(v)
	require.NoError(t, err)
	for range 10 {
		again, err := Marshal(v)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}
