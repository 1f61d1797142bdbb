// Package processor provides cell processors for csvchain.
//
// Every processor is a link of a chain and takes its successors as trailing
// arguments. Successors run after the link, in order, on the value the link
// produced:
//
//	proc := processor.Optional(
//		processor.Trim(),
//		processor.ParseInt(),
//		processor.LMinMax(1, 120),
//	)
//
// Each link owns its successors, so a link value must not be placed in two
// chains. Chains themselves are stateless unless they contain a stateful link
// such as Unique, and can be reused for every row of a stream.
package processor

import (
	"fmt"
	"reflect"

	"github.com/nao1215/csvchain"
)

// chain is embedded by every link and calls the successor, if any
type chain struct {
	next csvchain.CellProcessor
}

func newChain(next []csvchain.CellProcessor) chain {
	switch len(next) {
	case 0:
		return chain{}
	case 1:
		return chain{next: next[0]}
	default:
		return chain{next: Sequence(next...)}
	}
}

// forward passes value to the successor, or returns it when there is none
func (c chain) forward(value any, ctx csvchain.Context) (any, error) {
	if c.next == nil {
		return value, nil
	}
	return c.next.Execute(value, ctx)
}

// SequenceProcessor runs processors one after another
type SequenceProcessor struct {
	processors []csvchain.CellProcessor
}

// Sequence returns a processor running processors in order, each receiving
// the result of the previous one. Nil entries are skipped.
func Sequence(processors ...csvchain.CellProcessor) *SequenceProcessor {
	return &SequenceProcessor{processors: processors}
}

// Execute runs the processors in order, stopping at the first error
func (s *SequenceProcessor) Execute(value any, ctx csvchain.Context) (any, error) {
	var err error
	for _, p := range s.processors {
		if p == nil {
			continue
		}
		if value, err = p.Execute(value, ctx); err != nil {
			return nil, err
		}
	}
	return value, nil
}

// requireValue fails for nil input
func requireValue(p csvchain.CellProcessor, value any, ctx csvchain.Context) error {
	if value == nil {
		return csvchain.NewConstraintViolation(p, value, ctx, "this processor does not accept null input - if the column is optional then chain an Optional() processor before this one")
	}
	return nil
}

// requireString fails unless value is a string
func requireString(p csvchain.CellProcessor, value any, ctx csvchain.Context) (string, error) {
	if err := requireValue(p, value, ctx); err != nil {
		return "", err
	}
	s, ok := value.(string)
	if !ok {
		return "", csvchain.NewCellProcessorError(p, value, ctx, "the input value should be of type string but is %T", value)
	}
	return s, nil
}

// stringOf formats value for processors that accept any input
func stringOf(value any) string {
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprint(value)
}

// lookupKey returns value in the form used for map lookups and equality.
// Byte slices compare by content; input of any other uncomparable type fails.
func lookupKey(p csvchain.CellProcessor, value any, ctx csvchain.Context) (any, error) {
	key := bytesAsString(value)
	if !reflect.ValueOf(key).Comparable() {
		return nil, csvchain.NewCellProcessorError(p, value, ctx, "the input value of type %T cannot be compared", value)
	}
	return key, nil
}

func bytesAsString(value any) any {
	if b, ok := value.([]byte); ok {
		return string(b)
	}
	return value
}
