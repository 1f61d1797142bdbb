package processor

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/nao1215/csvchain"
)

// LMinMaxProcessor checks integer bounds
type LMinMaxProcessor struct {
	chain
	min int64
	max int64
}

// LMinMax requires an int64 or int within [min, max]. String input is
// parsed first, so the processor can be used without ParseInt.
func LMinMax(min, max int64, next ...csvchain.CellProcessor) *LMinMaxProcessor {
	if max < min {
		panic("processor: LMinMax requires min <= max")
	}
	return &LMinMaxProcessor{chain: newChain(next), min: min, max: max}
}

// Execute checks the bounds and forwards the int64
func (p *LMinMaxProcessor) Execute(value any, ctx csvchain.Context) (any, error) {
	var n int64
	switch v := value.(type) {
	case int64:
		n = v
	case int:
		n = int64(v)
	default:
		if err := requireValue(p, value, ctx); err != nil {
			return nil, err
		}
		parsed, err := ParseInt().Execute(value, ctx)
		if err != nil {
			return nil, csvchain.NewCellProcessorError(p, value, ctx, "%v could not be parsed as an integer", value)
		}
		n = parsed.(int64)
	}
	if n < p.min || n > p.max {
		return nil, csvchain.NewConstraintViolation(p, value, ctx, "%d does not lie between the min (%d) and max (%d) values (inclusive)", n, p.min, p.max)
	}
	return p.forward(n, ctx)
}

// DMinMaxProcessor checks floating point bounds
type DMinMaxProcessor struct {
	chain
	min float64
	max float64
}

// DMinMax requires a float64 within [min, max]. String input is parsed first.
func DMinMax(min, max float64, next ...csvchain.CellProcessor) *DMinMaxProcessor {
	if max < min {
		panic("processor: DMinMax requires min <= max")
	}
	return &DMinMaxProcessor{chain: newChain(next), min: min, max: max}
}

// Execute checks the bounds and forwards the float64
func (p *DMinMaxProcessor) Execute(value any, ctx csvchain.Context) (any, error) {
	var f float64
	switch v := value.(type) {
	case float64:
		f = v
	case int64:
		f = float64(v)
	case int:
		f = float64(v)
	default:
		if err := requireValue(p, value, ctx); err != nil {
			return nil, err
		}
		parsed, err := ParseFloat().Execute(value, ctx)
		if err != nil {
			return nil, csvchain.NewCellProcessorError(p, value, ctx, "%v could not be parsed as a float", value)
		}
		f = parsed.(float64)
	}
	if f < p.min || f > p.max {
		return nil, csvchain.NewConstraintViolation(p, value, ctx, "%g does not lie between the min (%g) and max (%g) values (inclusive)", f, p.min, p.max)
	}
	return p.forward(f, ctx)
}

// IsIncludedInProcessor restricts values to a fixed set
type IsIncludedInProcessor struct {
	chain
	allowed map[any]struct{}
}

// IsIncludedIn requires the input to equal one of values.
func IsIncludedIn(values []any, next ...csvchain.CellProcessor) *IsIncludedInProcessor {
	if len(values) == 0 {
		panic("processor: IsIncludedIn requires at least one value")
	}
	allowed := make(map[any]struct{}, len(values))
	for _, v := range values {
		key := bytesAsString(v)
		if !reflect.ValueOf(key).Comparable() {
			panic(fmt.Sprintf("processor: IsIncludedIn value of type %T cannot be compared", v))
		}
		allowed[key] = struct{}{}
	}
	return &IsIncludedInProcessor{chain: newChain(next), allowed: allowed}
}

// Execute checks membership and forwards value unchanged
func (p *IsIncludedInProcessor) Execute(value any, ctx csvchain.Context) (any, error) {
	if err := requireValue(p, value, ctx); err != nil {
		return nil, err
	}
	key, err := lookupKey(p, value, ctx)
	if err != nil {
		return nil, err
	}
	if _, ok := p.allowed[key]; !ok {
		return nil, csvchain.NewConstraintViolation(p, value, ctx, "%v is not included in the allowed set of values", value)
	}
	return p.forward(value, ctx)
}

// UniqueProcessor rejects values already seen in earlier rows
type UniqueProcessor struct {
	chain
	mu   sync.Mutex
	seen map[any]int
}

// Unique requires every value of the column to be distinct across rows. It
// keeps the values seen so far, so one instance should serve one stream.
// A value is only recorded once its successors accept it, so a row rejected
// anywhere in the chain can be retried. Byte slices are compared by content.
func Unique(next ...csvchain.CellProcessor) *UniqueProcessor {
	return &UniqueProcessor{chain: newChain(next), seen: make(map[any]int)}
}

// Execute records value and forwards it unchanged
func (p *UniqueProcessor) Execute(value any, ctx csvchain.Context) (any, error) {
	if err := requireValue(p, value, ctx); err != nil {
		return nil, err
	}

	key, err := lookupKey(p, value, ctx)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	if row, dup := p.seen[key]; dup {
		p.mu.Unlock()
		return nil, csvchain.NewConstraintViolation(p, value, ctx, "duplicate value %v encountered, first seen in row %d", value, row)
	}
	// reserved before forwarding, so a concurrent row with the same value is a duplicate
	p.seen[key] = ctx.RowNumber
	p.mu.Unlock()

	out, err := p.forward(value, ctx)
	if err != nil {
		p.mu.Lock()
		delete(p.seen, key)
		p.mu.Unlock()
		return nil, err
	}
	return out, nil
}
