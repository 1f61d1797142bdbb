package processor

import (
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/nao1215/csvchain"
)

// TrimProcessor removes surrounding whitespace
type TrimProcessor struct {
	chain
}

// Trim removes leading and trailing white space. Non-string input is formatted first.
func Trim(next ...csvchain.CellProcessor) *TrimProcessor {
	return &TrimProcessor{chain: newChain(next)}
}

// Execute trims value and forwards the result
func (p *TrimProcessor) Execute(value any, ctx csvchain.Context) (any, error) {
	if err := requireValue(p, value, ctx); err != nil {
		return nil, err
	}
	return p.forward(strings.TrimSpace(stringOf(value)), ctx)
}

// NotBlankProcessor rejects missing and blank values
type NotBlankProcessor struct {
	chain
}

// NotBlank fails for nil, the empty string and strings made only of white space.
func NotBlank(next ...csvchain.CellProcessor) *NotBlankProcessor {
	return &NotBlankProcessor{chain: newChain(next)}
}

// Execute rejects blank input and forwards anything else
func (p *NotBlankProcessor) Execute(value any, ctx csvchain.Context) (any, error) {
	if value == nil {
		return nil, csvchain.NewConstraintViolation(p, value, ctx, "null value encountered")
	}
	if s, ok := value.(string); ok && strings.TrimSpace(s) == "" {
		return nil, csvchain.NewConstraintViolation(p, value, ctx, "blank value encountered")
	}
	return p.forward(value, ctx)
}

// StrMinMaxProcessor checks string length bounds
type StrMinMaxProcessor struct {
	chain
	min int
	max int
}

// StrMinMax requires the character count of the input to lie within [min, max].
func StrMinMax(min, max int, next ...csvchain.CellProcessor) *StrMinMaxProcessor {
	if min < 0 || max < min {
		panic("processor: StrMinMax requires 0 <= min <= max")
	}
	return &StrMinMaxProcessor{chain: newChain(next), min: min, max: max}
}

// Execute checks the length and forwards value unchanged
func (p *StrMinMaxProcessor) Execute(value any, ctx csvchain.Context) (any, error) {
	if err := requireValue(p, value, ctx); err != nil {
		return nil, err
	}
	n := utf8.RuneCountInString(stringOf(value))
	if n < p.min || n > p.max {
		return nil, csvchain.NewConstraintViolation(p, value, ctx,
			"the length (%d) of value does not lie between the min (%d) and max (%d) values (inclusive)", n, p.min, p.max)
	}
	return p.forward(value, ctx)
}

// StrlenProcessor requires one of several exact lengths
type StrlenProcessor struct {
	chain
	lengths []int
}

// Strlen requires the character count of the input to equal one of lengths.
func Strlen(lengths []int, next ...csvchain.CellProcessor) *StrlenProcessor {
	if len(lengths) == 0 {
		panic("processor: Strlen requires at least one length")
	}
	return &StrlenProcessor{chain: newChain(next), lengths: slices.Clone(lengths)}
}

// Execute checks the length and forwards value unchanged
func (p *StrlenProcessor) Execute(value any, ctx csvchain.Context) (any, error) {
	if err := requireValue(p, value, ctx); err != nil {
		return nil, err
	}
	n := utf8.RuneCountInString(stringOf(value))
	if !slices.Contains(p.lengths, n) {
		return nil, csvchain.NewConstraintViolation(p, value, ctx,
			"the length (%d) of value does not match any of the required lengths %v", n, p.lengths)
	}
	return p.forward(value, ctx)
}

// StrRegExProcessor requires a full regular expression match
type StrRegExProcessor struct {
	chain
	re *regexp.Regexp
}

// StrRegEx requires the whole input to match pattern. It panics if pattern
// does not compile.
func StrRegEx(pattern string, next ...csvchain.CellProcessor) *StrRegExProcessor {
	return &StrRegExProcessor{chain: newChain(next), re: regexp.MustCompile(`^(?:` + pattern + `)$`)}
}

// Execute matches value and forwards it unchanged
func (p *StrRegExProcessor) Execute(value any, ctx csvchain.Context) (any, error) {
	s, err := requireString(p, value, ctx)
	if err != nil {
		return nil, err
	}
	if !p.re.MatchString(s) {
		return nil, csvchain.NewConstraintViolation(p, value, ctx, "%q does not match the regular expression %q", s, p.re.String())
	}
	return p.forward(value, ctx)
}

// TruncateProcessor shortens long strings
type TruncateProcessor struct {
	chain
	maxSize int
	suffix  string
}

// Truncate cuts the input to maxSize characters and appends suffix when it
// was longer.
func Truncate(maxSize int, suffix string, next ...csvchain.CellProcessor) *TruncateProcessor {
	if maxSize <= 0 {
		panic("processor: Truncate requires a positive maxSize")
	}
	return &TruncateProcessor{chain: newChain(next), maxSize: maxSize, suffix: suffix}
}

// Execute truncates value and forwards the result
func (p *TruncateProcessor) Execute(value any, ctx csvchain.Context) (any, error) {
	if err := requireValue(p, value, ctx); err != nil {
		return nil, err
	}
	s := stringOf(value)
	if utf8.RuneCountInString(s) <= p.maxSize {
		return p.forward(s, ctx)
	}
	runes := []rune(s)
	return p.forward(string(runes[:p.maxSize])+p.suffix, ctx)
}

// StrReplaceProcessor rewrites matches of a regular expression
type StrReplaceProcessor struct {
	chain
	re          *regexp.Regexp
	replacement string
}

// StrReplace replaces every match of pattern with replacement, which may
// refer to groups as in regexp.Regexp.ReplaceAllString. It panics if pattern
// does not compile.
func StrReplace(pattern, replacement string, next ...csvchain.CellProcessor) *StrReplaceProcessor {
	return &StrReplaceProcessor{chain: newChain(next), re: regexp.MustCompile(pattern), replacement: replacement}
}

// Execute rewrites value and forwards the result
func (p *StrReplaceProcessor) Execute(value any, ctx csvchain.Context) (any, error) {
	if err := requireValue(p, value, ctx); err != nil {
		return nil, err
	}
	return p.forward(p.re.ReplaceAllString(stringOf(value), p.replacement), ctx)
}

// SubStrProcessor checks for required or forbidden substrings
type SubStrProcessor struct {
	chain
	substrings []string
	forbid     bool
}

// RequireSubStr requires the input to contain at least one of substrings.
func RequireSubStr(substrings []string, next ...csvchain.CellProcessor) *SubStrProcessor {
	if len(substrings) == 0 {
		panic("processor: RequireSubStr requires at least one substring")
	}
	return &SubStrProcessor{chain: newChain(next), substrings: slices.Clone(substrings)}
}

// ForbidSubStr rejects input containing any of substrings.
func ForbidSubStr(substrings []string, next ...csvchain.CellProcessor) *SubStrProcessor {
	if len(substrings) == 0 {
		panic("processor: ForbidSubStr requires at least one substring")
	}
	return &SubStrProcessor{chain: newChain(next), substrings: slices.Clone(substrings), forbid: true}
}

// Execute checks value and forwards it unchanged
func (p *SubStrProcessor) Execute(value any, ctx csvchain.Context) (any, error) {
	if err := requireValue(p, value, ctx); err != nil {
		return nil, err
	}
	s := stringOf(value)
	for _, sub := range p.substrings {
		if !strings.Contains(s, sub) {
			continue
		}
		if p.forbid {
			return nil, csvchain.NewConstraintViolation(p, value, ctx, "%q contains the forbidden substring %q", s, sub)
		}
		return p.forward(value, ctx)
	}
	if p.forbid {
		return p.forward(value, ctx)
	}
	return nil, csvchain.NewConstraintViolation(p, value, ctx, "%q does not contain any of the required substrings %q", s, p.substrings)
}
