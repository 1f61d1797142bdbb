// Package sheet reads spreadsheet worksheets as rows for csvchain processor
// chains, and converts them to delimited text.
//
// A worksheet has no quoting or line structure, so the Tokenizer is not
// involved: every spreadsheet row becomes one csvchain.Record. Blank rows,
// including rows whose cells are all empty, are skipped, and once a header has been read shorter rows are padded to its
// width.
package sheet

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/nao1215/csvchain"
)

// ErrNoSheet is returned when a workbook contains no worksheet
var ErrNoSheet = errors.New("sheet: no sheets found in workbook")

// Reader reads the rows of one worksheet. It is not safe for concurrent use.
type Reader struct {
	file    *excelize.File
	rows    *excelize.Rows
	name    string
	policy  csvchain.EmptyPolicy
	logger  *slog.Logger
	width   int
	rowNum  int
	lineNum int
	ctx     csvchain.Context
	closed  bool
}

// Option configures a Reader
type Option func(*Reader)

// WithSheet selects the worksheet to read. The default is the first one.
func WithSheet(name string) Option {
	return func(r *Reader) {
		r.name = name
	}
}

// WithEmptyPolicy decides whether empty cells read as "" or as no value
func WithEmptyPolicy(policy csvchain.EmptyPolicy) Option {
	return func(r *Reader) {
		r.policy = policy
	}
}

// WithLogger sets the logger receiving debug events
func WithLogger(logger *slog.Logger) Option {
	return func(r *Reader) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// OpenFile opens the workbook at path
func OpenFile(path string, opts ...Option) (*Reader, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	return newReader(f, opts)
}

// NewReader reads a workbook from r. excelize buffers the whole workbook, as
// the format is a ZIP archive.
func NewReader(r io.Reader, opts ...Option) (*Reader, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	return newReader(f, opts)
}

func newReader(f *excelize.File, opts []Option) (*Reader, error) {
	r := &Reader{file: f, logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(r)
	}

	if r.name == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			_ = f.Close()
			return nil, ErrNoSheet
		}
		r.name = sheets[0]
	}

	rows, err := f.Rows(r.name)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to open rows iterator for sheet %s: %w", r.name, err)
	}
	r.rows = rows
	r.logger.Debug("opened sheet", slog.String("sheet", r.name))
	return r, nil
}

// SheetName returns the name of the worksheet being read
func (r *Reader) SheetName() string {
	return r.name
}

// Context returns the context of the last row read. LineNumber is the
// spreadsheet row number.
func (r *Reader) Context() csvchain.Context {
	return r.ctx
}

// RowNumber returns the number of non-blank rows read so far
func (r *Reader) RowNumber() int {
	return r.rowNum
}

// Header reads the next row as column names and fixes the row width. With
// firstLineCheck set it fails unless no row has been read yet.
func (r *Reader) Header(firstLineCheck bool) ([]string, error) {
	if firstLineCheck && r.rowNum != 0 {
		return nil, csvchain.ErrHeaderNotFirst
	}
	record, err := r.Read()
	if err != nil {
		return nil, err
	}
	r.width = len(record)
	header := record.Strings()
	r.logger.Debug("read header", slog.String("sheet", r.name), slog.Any("columns", header))
	return header, nil
}

// Read returns the next non-blank row, or io.EOF after the last one
func (r *Reader) Read() (csvchain.Record, error) {
	if r.closed {
		return nil, csvchain.ErrClosed
	}

	for r.rows.Next() {
		r.lineNum++
		cells, err := r.rows.Columns()
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d in sheet %s: %w", r.lineNum, r.name, err)
		}
		if blank(cells) {
			continue
		}

		r.rowNum++
		r.ctx = csvchain.NewContext(r.rowNum, r.lineNum, strings.Join(cells, ","))
		return r.record(cells), nil
	}
	if err := r.rows.Error(); err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", r.name, err)
	}
	return nil, io.EOF
}

// blank reports whether a row has no non-empty cell. Styled rows without
// values come back as empty strings.
func blank(cells []string) bool {
	return !slices.ContainsFunc(cells, func(c string) bool { return c != "" })
}

// ReadValues reads the next row and runs processors[i] on column i
func (r *Reader) ReadValues(processors ...csvchain.CellProcessor) ([]any, error) {
	record, err := r.Read()
	if err != nil {
		return nil, err
	}
	if len(processors) == 0 {
		return record.Values(), nil
	}

	values, err := csvchain.ExecuteRow(record.Values(), processors, r.ctx)
	if err != nil {
		r.logger.Debug("row rejected", slog.Int("row", r.ctx.RowNumber), slog.String("error", err.Error()))
		return nil, err
	}
	return values, nil
}

// Close releases the workbook. Close is idempotent.
func (r *Reader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	return errors.Join(r.rows.Close(), r.file.Close())
}

// record pads cells to the header width and applies the empty policy
func (r *Reader) record(cells []string) csvchain.Record {
	n := max(len(cells), r.width)
	record := make(csvchain.Record, n)
	for i := range n {
		v := ""
		if i < len(cells) {
			v = cells[i]
		}
		if v == "" && r.policy == csvchain.EmptyAsNoValue {
			record[i] = csvchain.NoValue()
			continue
		}
		record[i] = csvchain.Value(v)
	}
	return record
}
