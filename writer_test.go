package csvchain_test

import (
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nao1215/csvchain"
	"github.com/nao1215/csvchain/processor"
)

// failingWriter fails every write
type failingWriter struct {
	err error
}

func (f *failingWriter) Write([]byte) (int, error) {
	return 0, f.err
}

func TestWriter_Write(t *testing.T) {
	t.Parallel()

	var sb strings.Builder
	w := csvchain.NewWriter(&sb, csvchain.StandardPreference())

	require.NoError(t, w.WriteHeader("id", "day", "active", "note"))
	processors := []csvchain.CellProcessor{
		processor.FmtFloat(0),
		processor.FmtDate("2006-01-02"),
		processor.FmtBool("yes", "no"),
		processor.Optional(processor.Trim()),
	}
	day := time.Date(2024, time.February, 29, 12, 0, 0, 0, time.UTC)
	require.NoError(t, w.Write([]any{int64(1), day, true, "  padded "}, processors...))
	require.NoError(t, w.Write([]any{int64(2), day, false, nil}, processors...))
	require.NoError(t, w.Flush())

	assert.Equal(t, "id,day,active,note\r\n1,2024-02-29,yes,padded\r\n2,2024-02-29,no,\r\n", sb.String())
	assert.Equal(t, 3, w.RowNumber())
	assert.Equal(t, 3, w.LineNumber())
}

func TestWriter_WriteWithoutProcessors(t *testing.T) {
	t.Parallel()

	var sb strings.Builder
	w := csvchain.NewWriter(&sb, csvchain.ExcelPreference())

	require.NoError(t, w.Write([]any{"a,b", 42, nil, []byte("raw"), csvchain.Value("cell"), 1.5}))
	require.NoError(t, w.Close())

	assert.Equal(t, "\"a,b\",42,,raw,cell,1.5\n", sb.String())
}

func TestWriter_ProcessingErrorKeepsWriterUsable(t *testing.T) {
	t.Parallel()

	var sb strings.Builder
	w := csvchain.NewWriter(&sb, csvchain.ExcelPreference())
	processors := []csvchain.CellProcessor{processor.NotNull(), processor.StrMinMax(1, 3)}

	err := w.Write([]any{"a", "toolong"}, processors...)
	var cpe *csvchain.CellProcessorError
	require.ErrorAs(t, err, &cpe)
	assert.Equal(t, 1, cpe.RowNumber())
	assert.Equal(t, 2, cpe.ColumnNumber())
	assert.Equal(t, 0, w.RowNumber())

	err = w.Write([]any{"a"}, processors...)
	require.ErrorIs(t, err, csvchain.ErrColumnCountMismatch)

	require.NoError(t, w.Write([]any{"a", "ok"}, processors...))
	require.NoError(t, w.Close())
	assert.Equal(t, "a,ok\n", sb.String())
}

func TestWriter_UnrepresentableRowKeepsWriterUsable(t *testing.T) {
	t.Parallel()

	var sb strings.Builder
	w := csvchain.NewWriter(&sb, csvchain.ExcelPreference().WithEmptyPolicy(csvchain.EmptyAsNoValue))

	require.NoError(t, w.Write([]any{"a"}))
	err := w.Write([]any{nil})
	var encErr *csvchain.EncodingError
	require.ErrorAs(t, err, &encErr)
	assert.ErrorIs(t, err, csvchain.ErrUnrepresentableRow)
	assert.Equal(t, 2, encErr.RowNumber())

	require.ErrorIs(t, w.WriteRecord(csvchain.Record{}), csvchain.ErrUnrepresentableRow)
	require.NoError(t, w.Write([]any{"b"}))
	require.NoError(t, w.Close())

	assert.Equal(t, "a\nb\n", sb.String())
	assert.Equal(t, 2, w.RowNumber())
}

func TestWriter_ByteSliceThroughLookupProcessors(t *testing.T) {
	t.Parallel()

	var sb strings.Builder
	w := csvchain.NewWriter(&sb, csvchain.ExcelPreference())
	processors := []csvchain.CellProcessor{
		processor.Unique(),
		processor.HashMapper(map[any]any{"y": "yes"}, "no"),
	}

	require.NoError(t, w.Write([]any{[]byte("x"), []byte("y")}, processors...))
	err := w.Write([]any{"x", []byte("n")}, processors...)
	require.ErrorIs(t, err, csvchain.ErrConstraintViolation)
	require.NoError(t, w.Close())

	assert.Equal(t, "x,yes\n", sb.String())
}

func TestWriter_MultiLineFieldCountsLines(t *testing.T) {
	t.Parallel()

	var sb strings.Builder
	w := csvchain.NewWriter(&sb, csvchain.ExcelPreference())

	require.NoError(t, w.WriteRecord(csvchain.NewRecord("one\ntwo\nthree", "x")))
	require.NoError(t, w.Flush())

	assert.Equal(t, "\"one\ntwo\nthree\",x\n", sb.String())
	assert.Equal(t, 1, w.RowNumber())
	assert.Equal(t, 3, w.LineNumber())
}

func TestWriter_WriteMap(t *testing.T) {
	t.Parallel()

	var sb strings.Builder
	w := csvchain.NewWriter(&sb, csvchain.ExcelPreference())
	mapping := []string{"name", "", "age", "missing"}

	err := w.WriteMap(map[string]any{"name": "Alice", "age": 30, "ignored": "x"}, mapping)
	require.NoError(t, err)
	err = w.WriteMap(map[string]any{"name": "Bob", "age": 41}, mapping, nil, nil, processor.LMinMax(0, 40), nil)
	require.ErrorIs(t, err, csvchain.ErrConstraintViolation)
	require.NoError(t, w.Close())

	assert.Equal(t, "Alice,,30,\n", sb.String())
}

func TestWriter_WriteComment(t *testing.T) {
	t.Parallel()

	var sb strings.Builder
	w := csvchain.NewWriter(&sb, csvchain.ExcelPreference())

	require.NoError(t, w.WriteComment("# generated"))
	require.NoError(t, w.WriteHeader("a"))

	err := w.WriteComment("# two\nlines")
	var encErr *csvchain.EncodingError
	require.ErrorAs(t, err, &encErr)
	require.NoError(t, w.Close())

	assert.Equal(t, "# generated\na\n", sb.String())
	assert.Equal(t, 2, w.LineNumber())
	assert.Equal(t, 1, w.RowNumber())

	prefs := csvchain.ExcelPreference().WithComments(csvchain.CommentStartsWith("#"))
	r := csvchain.NewReader(strings.NewReader(sb.String()), prefs)
	header, err := r.Header(true)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, header)
}

func TestWriter_InvalidPreferences(t *testing.T) {
	t.Parallel()

	var sb strings.Builder
	w := csvchain.NewWriter(&sb, csvchain.ExcelPreference().WithQuote(','))

	err := w.WriteRecord(csvchain.NewRecord("a"))
	require.ErrorIs(t, err, csvchain.ErrInvalidPreferences)
	require.NoError(t, w.Close())
	assert.Empty(t, sb.String())
}

func TestWriter_WriteErrorIsSticky(t *testing.T) {
	t.Parallel()

	errDisk := errors.New("disk full")
	w := csvchain.NewWriter(&failingWriter{err: errDisk}, csvchain.ExcelPreference())

	require.NoError(t, w.WriteRecord(csvchain.NewRecord("buffered")))
	require.ErrorIs(t, w.Flush(), errDisk)
	require.ErrorIs(t, w.WriteRecord(csvchain.NewRecord("later")), errDisk)
	require.ErrorIs(t, w.WriteComment("# later"), errDisk)
	require.ErrorIs(t, w.Close(), errDisk)
}

func TestWriter_Close(t *testing.T) {
	t.Parallel()

	w := csvchain.NewWriter(io.Discard, csvchain.ExcelPreference())
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())

	require.ErrorIs(t, w.WriteHeader("a"), csvchain.ErrClosed)
	require.ErrorIs(t, w.Write([]any{"a"}), csvchain.ErrClosed)
	require.ErrorIs(t, w.WriteComment("#"), csvchain.ErrClosed)
}

func TestNewWriter_NilWriter(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { csvchain.NewWriter(nil, csvchain.ExcelPreference()) })
}
