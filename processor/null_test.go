package processor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nao1215/csvchain"
)

// anonymousContext stands for a cell whose position does not matter
var anonymousContext = csvchain.NewContext(1, 1, "").WithColumn(1)

func TestConvertNullTo(t *testing.T) {
	t.Parallel()

	const converted = "previously null!"
	processors := map[string]csvchain.CellProcessor{
		"standalone": ConvertNullTo(converted),
		"chained":    ConvertNullTo(converted, IdentityTransform()),
	}

	for name, p := range processors {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := p.Execute(nil, anonymousContext)
			require.NoError(t, err)
			assert.Equal(t, converted, got)

			got, err = p.Execute("not null!", anonymousContext)
			require.NoError(t, err)
			assert.Equal(t, "not null!", got)
		})
	}
}

func TestConvertNullTo_ForwardsSubstitute(t *testing.T) {
	t.Parallel()

	got, err := ConvertNullTo("42", ParseInt()).Execute(nil, anonymousContext)
	require.NoError(t, err)
	assert.Equal(t, int64(42), got)
}

func TestOptional(t *testing.T) {
	t.Parallel()

	p := Optional(ParseInt())

	got, err := p.Execute(nil, anonymousContext)
	require.NoError(t, err)
	assert.Nil(t, got, "next must not run for nil")

	got, err = p.Execute("7", anonymousContext)
	require.NoError(t, err)
	assert.Equal(t, int64(7), got)

	got, err = Optional().Execute("", anonymousContext)
	require.NoError(t, err)
	assert.Equal(t, "", got)
}

func TestIdentityTransform(t *testing.T) {
	t.Parallel()

	for _, value := range []any{nil, "", "x", int64(3)} {
		got, err := IdentityTransform().Execute(value, anonymousContext)
		require.NoError(t, err)
		assert.Equal(t, value, got)
	}
}

func TestNotNull(t *testing.T) {
	t.Parallel()

	p := NotNull(Trim())

	got, err := p.Execute(" x ", anonymousContext)
	require.NoError(t, err)
	assert.Equal(t, "x", got)

	got, err = p.Execute("", anonymousContext)
	require.NoError(t, err)
	assert.Equal(t, "", got, "the empty string is a value")

	_, err = p.Execute(nil, anonymousContext)
	var cpe *csvchain.CellProcessorError
	require.ErrorAs(t, err, &cpe)
	assert.ErrorIs(t, err, csvchain.ErrConstraintViolation)
	assert.Same(t, p, cpe.Processor)
	assert.Nil(t, cpe.Value)
}

func TestToken(t *testing.T) {
	t.Parallel()

	p := Token("N/A", nil, Optional(ParseInt()))

	got, err := p.Execute("N/A", anonymousContext)
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = p.Execute("12", anonymousContext)
	require.NoError(t, err)
	assert.Equal(t, int64(12), got)

	_, err = p.Execute(nil, anonymousContext)
	require.ErrorIs(t, err, csvchain.ErrConstraintViolation)
}

func TestToken_Uncomparable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		token    any
		input    any
		expected any
	}{
		{"Byte slice input matches string token", "N/A", []byte("N/A"), "-"},
		{"String input matches byte slice token", []byte("N/A"), "N/A", "-"},
		{"Byte slice input passes through", "N/A", []byte("12"), []byte("12")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Token(tt.token, "-").Execute(tt.input, anonymousContext)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}

	_, err := Token("N/A", "-").Execute([]int{1}, anonymousContext)
	require.ErrorIs(t, err, csvchain.ErrConversion)
}

func TestHashMapper(t *testing.T) {
	t.Parallel()

	p := HashMapper(map[any]any{"1": "Monday", "2": "Tuesday"}, "unknown")

	tests := []struct {
		input    any
		expected any
	}{
		{"1", "Monday"},
		{"2", "Tuesday"},
		{"9", "unknown"},
		{int64(1), "unknown"},
		{[]byte("2"), "Tuesday"},
		{[]byte("9"), "unknown"},
	}
	for _, tt := range tests {
		got, err := p.Execute(tt.input, anonymousContext)
		require.NoError(t, err)
		assert.Equal(t, tt.expected, got, "input %v", tt.input)
	}

	_, err := p.Execute(nil, anonymousContext)
	require.ErrorIs(t, err, csvchain.ErrConstraintViolation)
	_, err = p.Execute(map[string]string{"1": "x"}, anonymousContext)
	require.ErrorIs(t, err, csvchain.ErrConversion)
}
