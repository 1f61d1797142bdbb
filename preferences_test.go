package csvchain

import (
	"regexp"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreferencePresets(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		prefs     Preferences
		delimiter rune
		eol       string
	}{
		{"Standard", StandardPreference(), ',', "\r\n"},
		{"Excel", ExcelPreference(), ',', "\n"},
		{"Excel north Europe", ExcelNorthEuropePreference(), ';', "\n"},
		{"Tab", TabPreference(), '\t', "\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.delimiter, tt.prefs.Delimiter)
			assert.Equal(t, '"', tt.prefs.Quote)
			assert.Equal(t, tt.eol, tt.prefs.EndOfLine)
			assert.True(t, tt.prefs.IgnoreEmptyLines)
			assert.Equal(t, EmptyAsEmptyString, tt.prefs.EmptyPolicy)
			require.NoError(t, tt.prefs.Validate())
		})
	}
}

func TestPreferences_WithReturnsCopy(t *testing.T) {
	t.Parallel()

	base := StandardPreference()
	columns := []int{1, 3}
	derived := base.WithDelimiter('|').WithQuoteColumns(columns...).WithMaxLinesPerRow(4)
	columns[0] = 99

	assert.Equal(t, ',', base.Delimiter)
	assert.Empty(t, base.QuoteColumns)
	assert.Equal(t, '|', derived.Delimiter)
	assert.Equal(t, []int{1, 3}, derived.QuoteColumns)
	assert.Equal(t, 4, derived.MaxLinesPerRow)
	assert.True(t, derived.quotesColumn(3))
	assert.False(t, derived.quotesColumn(2))
}

func TestPreferences_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		prefs Preferences
		valid bool
	}{
		{"Two character end of line", StandardPreference(), true},
		{"Custom delimiter and quote", StandardPreference().WithDelimiter('|').WithQuote('\''), true},
		{"Space delimiter", ExcelPreference().WithDelimiter(' '), true},
		{"Multi-byte delimiter", ExcelPreference().WithDelimiter('、'), true},
		{"Missing delimiter", ExcelPreference().WithDelimiter(0), false},
		{"Missing quote", ExcelPreference().WithQuote(0), false},
		{"Delimiter equals quote", ExcelPreference().WithQuote(','), false},
		{"Line feed delimiter", ExcelPreference().WithDelimiter('\n'), false},
		{"Carriage return quote", ExcelPreference().WithQuote('\r'), false},
		{"Replacement character", ExcelPreference().WithDelimiter(utf8.RuneError), false},
		{"Empty end of line", ExcelPreference().WithEndOfLine(""), false},
		{"End of line containing quote", ExcelPreference().WithEndOfLine("\"\n"), false},
		{"Space delimiter with trimming", ExcelPreference().WithDelimiter(' ').WithSurroundingSpacesNeedQuotes(true), false},
		{"Negative max lines", ExcelPreference().WithMaxLinesPerRow(-1), false},
		{"Negative quote column", ExcelPreference().WithQuoteColumns(-2), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.prefs.Validate()
			if tt.valid {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ErrInvalidPreferences)
		})
	}
}

func TestCommentMatchers(t *testing.T) {
	t.Parallel()

	prefix := CommentStartsWith("//")
	assert.True(t, prefix.IsComment("// note"))
	assert.False(t, prefix.IsComment(" // note"))
	assert.Panics(t, func() { CommentStartsWith("") })

	re := CommentMatches(regexp.MustCompile(`^\s*#`))
	assert.True(t, re.IsComment("   # indented"))
	assert.False(t, re.IsComment("a,#b"))
}

func TestEmptyPolicy_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "empty-string", EmptyAsEmptyString.String())
	assert.Equal(t, "no-value", EmptyAsNoValue.String())
}
