package csvchain

import (
	"errors"
	"io"
	"log/slog"
)

// Reader reads rows from a delimited text stream and optionally runs them
// through cell processors.
//
// A Reader is not safe for concurrent use. Processing errors do not disturb
// the stream: after a *CellProcessorError or *ColumnCountMismatchError the
// next call reads the following row, so callers can skip bad rows.
type Reader struct {
	tok    *Tokenizer
	logger *slog.Logger
	closer func() error
	ctx    Context
	closed bool
}

// NewReader creates a Reader consuming r. The Reader does not close r; use
// OpenFile for a Reader that owns its stream.
func NewReader(r io.Reader, prefs Preferences, opts ...Option) *Reader {
	o := newOptions(opts)
	return &Reader{
		tok:    NewTokenizer(r, prefs),
		logger: o.logger,
		closer: func() error { return nil },
	}
}

// Context returns the context of the last row read
func (r *Reader) Context() Context {
	return r.ctx
}

// RowNumber returns the number of logical rows read so far
func (r *Reader) RowNumber() int {
	return r.tok.RowNumber()
}

// LineNumber returns the number of physical lines read so far
func (r *Reader) LineNumber() int {
	return r.tok.LineNumber()
}

// Header reads the next row as column names. With firstLineCheck set it fails
// with ErrHeaderNotFirst unless no row has been read yet.
func (r *Reader) Header(firstLineCheck bool) ([]string, error) {
	if firstLineCheck && r.tok.RowNumber() != 0 {
		return nil, ErrHeaderNotFirst
	}
	record, err := r.Read()
	if err != nil {
		return nil, err
	}
	header := record.Strings()
	r.logger.Debug("read header", slog.Int("row", r.ctx.RowNumber), slog.Any("columns", header))
	return header, nil
}

// Read returns the next raw row. It returns io.EOF at the end of the stream.
func (r *Reader) Read() (Record, error) {
	if r.closed {
		return nil, ErrClosed
	}

	record, ctx, err := r.tok.NextRow()
	r.ctx = ctx
	if err != nil {
		if !errors.Is(err, io.EOF) {
			r.logFailure(err)
		}
		return nil, err
	}
	if n := lineCount(ctx.RawLine); n > 1 {
		r.logger.Debug("row spans several lines",
			slog.Int("row", ctx.RowNumber),
			slog.Int("first_line", ctx.LineNumber-n+1),
			slog.Int("last_line", ctx.LineNumber))
	}
	return record, nil
}

// ReadValues reads the next row and runs processors[i] on column i. Without
// processors the raw values are returned, nil standing for no value.
func (r *Reader) ReadValues(processors ...CellProcessor) ([]any, error) {
	record, err := r.Read()
	if err != nil {
		return nil, err
	}
	if len(processors) == 0 {
		return record.Values(), nil
	}

	values, err := ExecuteRow(record.Values(), processors, r.ctx)
	if err != nil {
		r.logFailure(err)
		return nil, err
	}
	return values, nil
}

// ReadMap reads the next row into a map keyed by nameMapping. Columns whose
// name is empty are processed but left out of the map. nameMapping must have
// one entry per column, and processors, if given, one per column as well.
func (r *Reader) ReadMap(nameMapping []string, processors ...CellProcessor) (map[string]any, error) {
	record, err := r.Read()
	if err != nil {
		return nil, err
	}
	if len(nameMapping) != len(record) {
		err := &ColumnCountMismatchError{Context: r.ctx, Cells: len(record), Processors: len(nameMapping)}
		r.logFailure(err)
		return nil, err
	}

	values := record.Values()
	if len(processors) > 0 {
		if values, err = ExecuteRow(values, processors, r.ctx); err != nil {
			r.logFailure(err)
			return nil, err
		}
	}

	m := make(map[string]any, len(nameMapping))
	for i, name := range nameMapping {
		if name == "" {
			continue
		}
		m[name] = values[i]
	}
	return m, nil
}

// Close releases the underlying stream if the Reader owns it. Close is idempotent.
func (r *Reader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	return r.closer()
}

func (r *Reader) logFailure(err error) {
	attrs := []any{slog.String("error", err.Error())}
	var pos ErrorPosition
	if errors.As(err, &pos) {
		attrs = append(attrs, slog.Int("row", pos.RowNumber()), slog.Int("column", pos.ColumnNumber()))
	}
	r.logger.Debug("row rejected", attrs...)
}

// lineCount returns the number of physical lines in raw
func lineCount(raw string) int {
	n := 1
	for i := 0; i < len(raw); i++ {
		switch raw[i] {
		case '\n':
			n++
		case '\r':
			if i+1 < len(raw) && raw[i+1] == '\n' {
				i++
			}
			n++
		}
	}
	return n
}
