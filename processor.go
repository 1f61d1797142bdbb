package csvchain

import "errors"

// CellProcessor is one link of a processing chain. Execute receives the cell
// value, nil meaning no value, and returns the value passed on to the caller,
// possibly converted to another type. A link that owns a successor decides
// itself whether and with what value to invoke it.
//
// Implementations must not modify state shared between rows unless they
// document it, and links that keep state across rows must remain usable after
// an error.
type CellProcessor interface {
	Execute(value any, ctx Context) (any, error)
}

// CellProcessorFunc adapts a function to the CellProcessor interface.
type CellProcessorFunc func(value any, ctx Context) (any, error)

// Execute calls f(value, ctx)
func (f CellProcessorFunc) Execute(value any, ctx Context) (any, error) {
	return f(value, ctx)
}

// ExecuteRow runs processors[i] on cells[i] from left to right and returns the
// results. A nil processor passes its cell through unchanged.
//
// A count mismatch fails with a *ColumnCountMismatchError before any processor
// runs. The first failing cell aborts the row and no partial result is
// returned; failures are always *CellProcessorError carrying the column context.
func ExecuteRow(cells []any, processors []CellProcessor, ctx Context) ([]any, error) {
	if len(cells) != len(processors) {
		return nil, &ColumnCountMismatchError{
			Context:    ctx.WithColumn(0),
			Cells:      len(cells),
			Processors: len(processors),
		}
	}

	result := make([]any, len(cells))
	for i, value := range cells {
		proc := processors[i]
		if proc == nil {
			result[i] = value
			continue
		}

		cellCtx := ctx.WithColumn(i + 1)
		out, err := proc.Execute(value, cellCtx)
		if err != nil {
			return nil, asCellProcessorError(err, proc, value, cellCtx)
		}
		result[i] = out
	}
	return result, nil
}

// asCellProcessorError wraps failures of links that do not report a
// *CellProcessorError themselves.
func asCellProcessorError(err error, proc CellProcessor, value any, ctx Context) error {
	var cpe *CellProcessorError
	if errors.As(err, &cpe) {
		return err
	}
	return &CellProcessorError{
		Context:   ctx,
		Processor: proc,
		Value:     value,
		Message:   err.Error(),
		Err:       err,
	}
}
