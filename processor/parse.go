package processor

import (
	"strconv"
	"strings"
	"time"

	"github.com/nao1215/csvchain"
)

// ParseIntProcessor converts strings to int64
type ParseIntProcessor struct {
	chain
}

// ParseInt converts a base-10 string to int64.
func ParseInt(next ...csvchain.CellProcessor) *ParseIntProcessor {
	return &ParseIntProcessor{chain: newChain(next)}
}

// Execute parses value and forwards the int64
func (p *ParseIntProcessor) Execute(value any, ctx csvchain.Context) (any, error) {
	if i, ok := value.(int64); ok {
		return p.forward(i, ctx)
	}
	s, err := requireString(p, value, ctx)
	if err != nil {
		return nil, err
	}
	i, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil, csvchain.NewCellProcessorError(p, value, ctx, "%q could not be parsed as an integer", s)
	}
	return p.forward(i, ctx)
}

// ParseFloatProcessor converts strings to float64
type ParseFloatProcessor struct {
	chain
}

// ParseFloat converts a string to float64.
func ParseFloat(next ...csvchain.CellProcessor) *ParseFloatProcessor {
	return &ParseFloatProcessor{chain: newChain(next)}
}

// Execute parses value and forwards the float64
func (p *ParseFloatProcessor) Execute(value any, ctx csvchain.Context) (any, error) {
	if f, ok := value.(float64); ok {
		return p.forward(f, ctx)
	}
	s, err := requireString(p, value, ctx)
	if err != nil {
		return nil, err
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, csvchain.NewCellProcessorError(p, value, ctx, "%q could not be parsed as a float", s)
	}
	return p.forward(f, ctx)
}

// Default values accepted by ParseBool
var (
	defaultTrueValues  = []string{"true", "1", "y", "t", "yes"}
	defaultFalseValues = []string{"false", "0", "n", "f", "no"}
)

// ParseBoolProcessor converts strings to bool
type ParseBoolProcessor struct {
	chain
	trueValues  []string
	falseValues []string
}

// ParseBool converts "true", "1", "y", "t", "yes" to true and "false", "0",
// "n", "f", "no" to false, ignoring case.
func ParseBool(next ...csvchain.CellProcessor) *ParseBoolProcessor {
	return ParseBoolWith(defaultTrueValues, defaultFalseValues, next...)
}

// ParseBoolWith converts the given true and false values, ignoring case.
func ParseBoolWith(trueValues, falseValues []string, next ...csvchain.CellProcessor) *ParseBoolProcessor {
	return &ParseBoolProcessor{chain: newChain(next), trueValues: trueValues, falseValues: falseValues}
}

// Execute parses value and forwards the bool
func (p *ParseBoolProcessor) Execute(value any, ctx csvchain.Context) (any, error) {
	s, err := requireString(p, value, ctx)
	if err != nil {
		return nil, err
	}
	for _, v := range p.trueValues {
		if strings.EqualFold(s, v) {
			return p.forward(true, ctx)
		}
	}
	for _, v := range p.falseValues {
		if strings.EqualFold(s, v) {
			return p.forward(false, ctx)
		}
	}
	return nil, csvchain.NewCellProcessorError(p, value, ctx, "%q could not be parsed as a boolean", s)
}

// ParseDateProcessor converts strings to time.Time using fixed layouts
type ParseDateProcessor struct {
	chain
	layouts []string
}

// ParseDate parses value with layout, a time package reference layout.
func ParseDate(layout string, next ...csvchain.CellProcessor) *ParseDateProcessor {
	return &ParseDateProcessor{chain: newChain(next), layouts: []string{layout}}
}

// ParseDateAuto parses the ISO 8601, US and European date and time notations
// listed in datetimePatterns.
func ParseDateAuto(next ...csvchain.CellProcessor) *ParseDateProcessor {
	return &ParseDateProcessor{chain: newChain(next)}
}

// Execute parses value and forwards the time.Time
func (p *ParseDateProcessor) Execute(value any, ctx csvchain.Context) (any, error) {
	s, err := requireString(p, value, ctx)
	if err != nil {
		return nil, err
	}

	if len(p.layouts) == 0 {
		if t, ok := parseDatetime(s); ok {
			return p.forward(t, ctx)
		}
		return nil, csvchain.NewCellProcessorError(p, value, ctx, "%q is not a recognized date or time", s)
	}

	for _, layout := range p.layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return p.forward(t, ctx)
		}
	}
	return nil, csvchain.NewCellProcessorError(p, value, ctx, "%q could not be parsed as a date with layout %q", s, p.layouts[0])
}
