package processor

import (
	"strconv"
	"time"

	"github.com/nao1215/csvchain"
)

// FmtDateProcessor formats time.Time values
type FmtDateProcessor struct {
	chain
	layout string
}

// FmtDate formats a time.Time with layout, a time package reference layout.
func FmtDate(layout string, next ...csvchain.CellProcessor) *FmtDateProcessor {
	return &FmtDateProcessor{chain: newChain(next), layout: layout}
}

// Execute formats value and forwards the string
func (p *FmtDateProcessor) Execute(value any, ctx csvchain.Context) (any, error) {
	if err := requireValue(p, value, ctx); err != nil {
		return nil, err
	}
	t, ok := value.(time.Time)
	if !ok {
		return nil, csvchain.NewCellProcessorError(p, value, ctx, "the input value should be of type time.Time but is %T", value)
	}
	return p.forward(t.Format(p.layout), ctx)
}

// FmtFloatProcessor formats numbers with a fixed precision
type FmtFloatProcessor struct {
	chain
	precision int
}

// FmtFloat formats float64, float32 and integer values with precision digits
// after the decimal point; a negative precision uses the fewest digits needed.
func FmtFloat(precision int, next ...csvchain.CellProcessor) *FmtFloatProcessor {
	return &FmtFloatProcessor{chain: newChain(next), precision: precision}
}

// Execute formats value and forwards the string
func (p *FmtFloatProcessor) Execute(value any, ctx csvchain.Context) (any, error) {
	if err := requireValue(p, value, ctx); err != nil {
		return nil, err
	}

	var f float64
	switch v := value.(type) {
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	case int32:
		f = float64(v)
	default:
		return nil, csvchain.NewCellProcessorError(p, value, ctx, "the input value should be a number but is %T", value)
	}
	return p.forward(strconv.FormatFloat(f, 'f', p.precision, 64), ctx)
}

// FmtBoolProcessor formats bool values
type FmtBoolProcessor struct {
	chain
	trueValue  string
	falseValue string
}

// FmtBool formats true as trueValue and false as falseValue.
func FmtBool(trueValue, falseValue string, next ...csvchain.CellProcessor) *FmtBoolProcessor {
	return &FmtBoolProcessor{chain: newChain(next), trueValue: trueValue, falseValue: falseValue}
}

// Execute formats value and forwards the string
func (p *FmtBoolProcessor) Execute(value any, ctx csvchain.Context) (any, error) {
	if err := requireValue(p, value, ctx); err != nil {
		return nil, err
	}
	b, ok := value.(bool)
	if !ok {
		return nil, csvchain.NewCellProcessorError(p, value, ctx, "the input value should be of type bool but is %T", value)
	}
	if b {
		return p.forward(p.trueValue, ctx)
	}
	return p.forward(p.falseValue, ctx)
}
