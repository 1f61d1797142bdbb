package csvchain

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Writer writes rows of delimited text, optionally running values through
// cell processors first.
//
// Writes are buffered; call Flush or Close. The first write error is sticky.
// A processing error is not a write error: nothing is written for that row
// and the Writer stays usable.
type Writer struct {
	dst     *bufio.Writer
	enc     *Encoder
	prefs   Preferences
	logger  *slog.Logger
	closer  func() error
	lineNum int
	rowNum  int
	err     error
	closed  bool
}

// NewWriter creates a Writer emitting to w. The Writer does not close w; use
// CreateFile for a Writer that owns its stream.
func NewWriter(w io.Writer, prefs Preferences, opts ...Option) *Writer {
	if w == nil {
		panic("csvchain: writer destination cannot be nil")
	}
	o := newOptions(opts)
	return &Writer{
		dst:    bufio.NewWriter(w),
		enc:    NewEncoder(prefs),
		prefs:  prefs,
		logger: o.logger,
		closer: func() error { return nil },
	}
}

// RowNumber returns the number of rows written so far, header included
func (w *Writer) RowNumber() int {
	return w.rowNum
}

// LineNumber returns the number of physical lines written so far, comments included
func (w *Writer) LineNumber() int {
	return w.lineNum
}

// WriteHeader writes column names as a row
func (w *Writer) WriteHeader(names ...string) error {
	if err := w.WriteRecord(NewRecord(names...)); err != nil {
		return err
	}
	w.logger.Debug("wrote header", slog.Int("row", w.rowNum), slog.Any("columns", names))
	return nil
}

// WriteRecord writes one row of raw cells
func (w *Writer) WriteRecord(record Record) error {
	if err := w.usable(); err != nil {
		return err
	}

	text, err := w.enc.EncodeRow(record, w.rowNum+1)
	if err != nil {
		return err
	}
	if _, err := w.dst.WriteString(text); err != nil {
		w.err = err
		return err
	}
	w.rowNum++
	w.lineNum += lineCount(strings.TrimSuffix(text, w.prefs.EndOfLine))
	return nil
}

// Write runs processors[i] on values[i] and writes the results as one row.
// Without processors the values are converted directly: nil becomes no value,
// strings, Cells, byte slices and fmt.Stringers are used as is, anything
// else is formatted with fmt.Sprint.
func (w *Writer) Write(values []any, processors ...CellProcessor) error {
	if err := w.usable(); err != nil {
		return err
	}

	if len(processors) > 0 {
		ctx := Context{RowNumber: w.rowNum + 1}
		processed, err := ExecuteRow(values, processors, ctx)
		if err != nil {
			w.logger.Debug("row rejected", slog.Int("row", ctx.RowNumber), slog.String("error", err.Error()))
			return err
		}
		values = processed
	}

	record := make(Record, len(values))
	for i, v := range values {
		record[i] = cellOf(v)
	}
	return w.WriteRecord(record)
}

// WriteMap writes the values named by nameMapping, in that order. Names
// missing from values, and empty names, produce cells without a value.
func (w *Writer) WriteMap(values map[string]any, nameMapping []string, processors ...CellProcessor) error {
	row := make([]any, len(nameMapping))
	for i, name := range nameMapping {
		if name == "" {
			continue
		}
		row[i] = values[name]
	}
	return w.Write(row, processors...)
}

// WriteComment writes text verbatim as its own line, followed by the end of
// line. The text is expected to carry the comment prefix and must not
// contain line breaks.
func (w *Writer) WriteComment(text string) error {
	if err := w.usable(); err != nil {
		return err
	}
	if strings.ContainsAny(text, "\r\n") {
		return &EncodingError{
			Context: Context{RowNumber: w.rowNum},
			Err:     fmt.Errorf("comment %q contains a line break", text),
		}
	}
	if _, err := w.dst.WriteString(text + w.prefs.EndOfLine); err != nil {
		w.err = err
		return err
	}
	w.lineNum++
	return nil
}

// Flush writes buffered data to the underlying writer
func (w *Writer) Flush() error {
	if w.err != nil {
		return w.err
	}
	if err := w.dst.Flush(); err != nil {
		w.err = err
		return err
	}
	return nil
}

// Close flushes and releases the underlying stream if the Writer owns it.
// The stream is released even when flushing fails. Close is idempotent.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	flushErr := w.Flush()
	closeErr := w.closer()
	return errors.Join(flushErr, closeErr)
}

func (w *Writer) usable() error {
	if w.closed {
		return ErrClosed
	}
	return w.err
}
