package csvchain

import (
	"errors"
	"fmt"
	"strings"
)

// Standard errors. The typed errors below match these with errors.Is.
var (
	// ErrUnterminatedQuote is returned when a quoted field is not closed before the end of the stream
	ErrUnterminatedQuote = errors.New("csvchain: unterminated quoted field")

	// ErrBareQuote is returned when a quote character appears inside an unquoted field
	ErrBareQuote = errors.New("csvchain: bare quote in unquoted field")

	// ErrInvalidEscape is returned when a closing quote is followed by something other than
	// a delimiter, an end of line or another quote
	ErrInvalidEscape = errors.New("csvchain: unexpected character after closing quote")

	// ErrInvalidPreferences indicates delimiter, quote and end-of-line settings that cannot be resolved
	ErrInvalidPreferences = errors.New("csvchain: invalid preferences")

	// ErrTooManyLines indicates a row spanning more physical lines than Preferences.MaxLinesPerRow
	ErrTooManyLines = errors.New("csvchain: row exceeds maximum number of lines")

	// ErrUnrepresentableRow is returned by the Encoder for a row that would read back as a blank line
	ErrUnrepresentableRow = errors.New("csvchain: row cannot be represented")

	// ErrColumnCountMismatch indicates that the number of cells and processors differ
	ErrColumnCountMismatch = errors.New("csvchain: column count mismatch")

	// ErrConversion indicates a cell processor could not convert a value
	ErrConversion = errors.New("csvchain: cell conversion failed")

	// ErrConstraintViolation indicates a cell processor rejected a value
	ErrConstraintViolation = errors.New("csvchain: constraint violated")

	// ErrHeaderNotFirst is returned by Reader.Header when the header must be the first row but is not
	ErrHeaderNotFirst = errors.New("csvchain: header must be the first row")

	// ErrClosed indicates use of a closed Reader or Writer
	ErrClosed = errors.New("csvchain: use of closed reader or writer")
)

// ErrorPosition is implemented by every positional error in this package.
// ColumnNumber is 1-based; 0 means the error concerns the whole row.
type ErrorPosition interface {
	error
	RowNumber() int
	ColumnNumber() int
}

// MalformedRowError is returned by the Tokenizer when a row cannot be split into cells.
type MalformedRowError struct {
	Context Context
	Err     error
}

// Error formats the error with line and column information
func (e *MalformedRowError) Error() string {
	return positionMessage("malformed row", e.Context, e.Err)
}

// Unwrap returns the underlying sentinel error
func (e *MalformedRowError) Unwrap() error { return e.Err }

// RowNumber returns the logical row the error occurred on
func (e *MalformedRowError) RowNumber() int { return e.Context.RowNumber }

// ColumnNumber returns the column being parsed when the error occurred
func (e *MalformedRowError) ColumnNumber() int { return e.Context.ColumnNumber }

// ColumnCountMismatchError is returned by ExecuteRow when the number of cells
// differs from the number of configured processors.
type ColumnCountMismatchError struct {
	Context    Context
	Cells      int
	Processors int
}

// Error formats the error with both counts
func (e *ColumnCountMismatchError) Error() string {
	details := fmt.Sprintf("the number of columns to be processed (%d) must match the number of cell processors (%d)",
		e.Cells, e.Processors)
	return positionMessage("column count mismatch", e.Context, errors.New(details))
}

// Unwrap returns ErrColumnCountMismatch
func (e *ColumnCountMismatchError) Unwrap() error { return ErrColumnCountMismatch }

// RowNumber returns the row that was rejected
func (e *ColumnCountMismatchError) RowNumber() int { return e.Context.RowNumber }

// ColumnNumber always returns 0, the error is row-level
func (e *ColumnCountMismatchError) ColumnNumber() int { return 0 }

// CellProcessorError is returned when a link of a processor chain rejects or
// cannot convert a value.
type CellProcessorError struct {
	Context   Context
	Processor CellProcessor
	Value     any
	Message   string
	// Err classifies the failure, usually ErrConversion or ErrConstraintViolation.
	Err error
}

// NewCellProcessorError creates a conversion failure raised by processor.
func NewCellProcessorError(processor CellProcessor, value any, ctx Context, format string, args ...any) *CellProcessorError {
	return &CellProcessorError{
		Context:   ctx,
		Processor: processor,
		Value:     value,
		Message:   fmt.Sprintf(format, args...),
		Err:       ErrConversion,
	}
}

// NewConstraintViolation creates a validation failure raised by processor.
func NewConstraintViolation(processor CellProcessor, value any, ctx Context, format string, args ...any) *CellProcessorError {
	e := NewCellProcessorError(processor, value, ctx, format, args...)
	e.Err = ErrConstraintViolation
	return e
}

// Error formats the error with row, column and the offending value
func (e *CellProcessorError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	details := fmt.Sprintf("%s (value: %s, processor: %T)", msg, formatValue(e.Value), e.Processor)
	return positionMessage("cell processing failed", e.Context, errors.New(details))
}

// Unwrap returns the classification error
func (e *CellProcessorError) Unwrap() error { return e.Err }

// RowNumber returns the row of the rejected cell
func (e *CellProcessorError) RowNumber() int { return e.Context.RowNumber }

// ColumnNumber returns the column of the rejected cell
func (e *CellProcessorError) ColumnNumber() int { return e.Context.ColumnNumber }

// EncodingError is returned by the Encoder when a row cannot be written
type EncodingError struct {
	Context Context
	Err     error
}

// Error formats the error with row and column information
func (e *EncodingError) Error() string {
	return positionMessage("encoding failed", e.Context, e.Err)
}

// Unwrap returns the underlying error
func (e *EncodingError) Unwrap() error { return e.Err }

// RowNumber returns the row being written
func (e *EncodingError) RowNumber() int { return e.Context.RowNumber }

// ColumnNumber returns the column being written, or 0
func (e *EncodingError) ColumnNumber() int { return e.Context.ColumnNumber }

// positionMessage builds "csvchain: <operation> on line N, row R, column C: <err>"
func positionMessage(operation string, ctx Context, err error) string {
	var parts []string
	if ctx.LineNumber > 0 {
		parts = append(parts, fmt.Sprintf("line %d", ctx.LineNumber))
	}
	parts = append(parts, fmt.Sprintf("row %d", ctx.RowNumber))
	if ctx.ColumnNumber > 0 {
		parts = append(parts, fmt.Sprintf("column %d", ctx.ColumnNumber))
	}

	msg := fmt.Sprintf("csvchain: %s on %s", operation, strings.Join(parts, ", "))
	if err != nil {
		msg += ": " + strings.TrimPrefix(err.Error(), "csvchain: ")
	}
	return msg
}

func formatValue(v any) string {
	if v == nil {
		return "<no value>"
	}
	if s, ok := v.(string); ok {
		return fmt.Sprintf("%q", s)
	}
	return fmt.Sprintf("%v", v)
}
