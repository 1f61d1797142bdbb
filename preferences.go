package csvchain

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"
)

// EmptyPolicy decides how an empty, unquoted field is read and how empty
// strings and absent values are written.
type EmptyPolicy int

const (
	// EmptyAsEmptyString reads empty unquoted fields as "" and writes both ""
	// and no-value cells as a bare empty field. A no-value cell therefore
	// reads back as an empty string.
	EmptyAsEmptyString EmptyPolicy = iota
	// EmptyAsNoValue reads empty unquoted fields as no value and a quoted
	// empty field ("") as an empty string. The encoder writes empty strings
	// quoted, so both round-trip distinctly.
	EmptyAsNoValue
)

// String returns the string representation of EmptyPolicy
func (p EmptyPolicy) String() string {
	switch p {
	case EmptyAsEmptyString:
		return "empty-string"
	case EmptyAsNoValue:
		return "no-value"
	default:
		return "empty-string"
	}
}

// CommentMatcher reports whether a physical line is a comment
type CommentMatcher interface {
	IsComment(line string) bool
}

type commentStartsWith string

func (c commentStartsWith) IsComment(line string) bool {
	return strings.HasPrefix(line, string(c))
}

// CommentStartsWith treats lines beginning with prefix as comments
func CommentStartsWith(prefix string) CommentMatcher {
	if prefix == "" {
		panic("csvchain: comment prefix must not be empty")
	}
	return commentStartsWith(prefix)
}

type commentMatches struct {
	re *regexp.Regexp
}

func (c commentMatches) IsComment(line string) bool {
	return c.re.MatchString(line)
}

// CommentMatches treats lines matched by the regular expression as comments
func CommentMatches(re *regexp.Regexp) CommentMatcher {
	return commentMatches{re: re}
}

// Preferences configures the Tokenizer and the Encoder.
//
// Preferences is a value type. The With methods return modified copies, so a
// constructed value never changes and can be shared by any number of readers
// and writers.
//
// Example:
//
//	prefs := csvchain.StandardPreference().
//		WithDelimiter(';').
//		WithEmptyPolicy(csvchain.EmptyAsNoValue)
type Preferences struct {
	// Delimiter separates fields
	Delimiter rune
	// Quote wraps fields containing special characters
	Quote rune
	// EndOfLine terminates written rows. Reading accepts \n, \r\n and \r.
	EndOfLine string
	// SurroundingSpacesNeedQuotes makes spaces outside quotes insignificant:
	// they are trimmed on read, and values with leading or trailing spaces are
	// quoted on write.
	SurroundingSpacesNeedQuotes bool
	// AlwaysQuote quotes every written field
	AlwaysQuote bool
	// QuoteColumns lists 1-based columns that are always quoted on write
	QuoteColumns []int
	// EmptyPolicy decides between empty strings and no value
	EmptyPolicy EmptyPolicy
	// IgnoreEmptyLines skips blank physical lines outside quoted fields
	IgnoreEmptyLines bool
	// Comments, when set, skips matching physical lines outside quoted fields
	Comments CommentMatcher
	// MaxLinesPerRow limits the physical lines one row may span; 0 means unlimited
	MaxLinesPerRow int
}

// StandardPreference is RFC 4180: comma, double quote, CRLF.
func StandardPreference() Preferences {
	return Preferences{
		Delimiter:        ',',
		Quote:            '"',
		EndOfLine:        "\r\n",
		IgnoreEmptyLines: true,
	}
}

// ExcelPreference matches files written by Excel: comma, double quote, LF.
func ExcelPreference() Preferences {
	return StandardPreference().WithEndOfLine("\n")
}

// ExcelNorthEuropePreference matches Excel in locales using a decimal comma.
func ExcelNorthEuropePreference() Preferences {
	return ExcelPreference().WithDelimiter(';')
}

// TabPreference reads and writes tab-separated values.
func TabPreference() Preferences {
	return ExcelPreference().WithDelimiter('\t')
}

// WithDelimiter sets the field delimiter
func (p Preferences) WithDelimiter(delimiter rune) Preferences {
	p.Delimiter = delimiter
	return p
}

// WithQuote sets the quote character
func (p Preferences) WithQuote(quote rune) Preferences {
	p.Quote = quote
	return p
}

// WithEndOfLine sets the end-of-line sequence used for writing
func (p Preferences) WithEndOfLine(eol string) Preferences {
	p.EndOfLine = eol
	return p
}

// WithSurroundingSpacesNeedQuotes sets whether spaces outside quotes are insignificant
func (p Preferences) WithSurroundingSpacesNeedQuotes(need bool) Preferences {
	p.SurroundingSpacesNeedQuotes = need
	return p
}

// WithAlwaysQuote sets whether every written field is quoted
func (p Preferences) WithAlwaysQuote(always bool) Preferences {
	p.AlwaysQuote = always
	return p
}

// WithQuoteColumns sets the 1-based columns that are always quoted
func (p Preferences) WithQuoteColumns(columns ...int) Preferences {
	p.QuoteColumns = slices.Clone(columns)
	return p
}

// WithEmptyPolicy sets the empty-field policy
func (p Preferences) WithEmptyPolicy(policy EmptyPolicy) Preferences {
	p.EmptyPolicy = policy
	return p
}

// WithIgnoreEmptyLines sets whether blank lines are skipped
func (p Preferences) WithIgnoreEmptyLines(ignore bool) Preferences {
	p.IgnoreEmptyLines = ignore
	return p
}

// WithComments sets the comment matcher; nil disables comments
func (p Preferences) WithComments(matcher CommentMatcher) Preferences {
	p.Comments = matcher
	return p
}

// WithMaxLinesPerRow limits the number of physical lines a row may span
func (p Preferences) WithMaxLinesPerRow(lines int) Preferences {
	p.MaxLinesPerRow = lines
	return p
}

// Validate reports settings the Tokenizer and Encoder cannot resolve.
func (p Preferences) Validate() error {
	if p.Delimiter == 0 || p.Quote == 0 {
		return fmt.Errorf("%w: delimiter and quote must be set", ErrInvalidPreferences)
	}
	if p.Delimiter == p.Quote {
		return fmt.Errorf("%w: delimiter and quote are both %q", ErrInvalidPreferences, p.Delimiter)
	}
	if isLineBreak(p.Delimiter) || isLineBreak(p.Quote) {
		return fmt.Errorf("%w: delimiter and quote must not be line breaks", ErrInvalidPreferences)
	}
	if p.Delimiter == utf8.RuneError || p.Quote == utf8.RuneError {
		return fmt.Errorf("%w: delimiter and quote must be valid characters", ErrInvalidPreferences)
	}
	if n := utf8.RuneCountInString(p.EndOfLine); n < 1 || n > 2 {
		return fmt.Errorf("%w: end of line must be 1 or 2 characters, got %q", ErrInvalidPreferences, p.EndOfLine)
	}
	if strings.ContainsRune(p.EndOfLine, p.Delimiter) || strings.ContainsRune(p.EndOfLine, p.Quote) {
		return fmt.Errorf("%w: end of line %q contains the delimiter or quote", ErrInvalidPreferences, p.EndOfLine)
	}
	if p.SurroundingSpacesNeedQuotes && p.Delimiter == ' ' {
		return fmt.Errorf("%w: space delimiter with insignificant surrounding spaces", ErrInvalidPreferences)
	}
	if p.MaxLinesPerRow < 0 {
		return fmt.Errorf("%w: max lines per row must not be negative", ErrInvalidPreferences)
	}
	for _, c := range p.QuoteColumns {
		if c < 1 {
			return fmt.Errorf("%w: quote column %d is not 1-based", ErrInvalidPreferences, c)
		}
	}
	return nil
}

// quotesColumn reports whether column is forced to be quoted
func (p Preferences) quotesColumn(column int) bool {
	return slices.Contains(p.QuoteColumns, column)
}

func isLineBreak(r rune) bool {
	return r == '\r' || r == '\n'
}
