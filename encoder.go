package csvchain

import (
	"strings"
)

// Encoder turns rows of cells into delimited text. It is the inverse of the Tokenizer.
type Encoder struct {
	prefs    Preferences
	prefsErr error
}

// NewEncoder creates an Encoder. Invalid preferences are reported by EncodeRow.
func NewEncoder(prefs Preferences) *Encoder {
	return &Encoder{
		prefs:    prefs,
		prefsErr: prefs.Validate(),
	}
}

// EncodeRow returns the text of one row, terminated by the configured end of
// line. rowNumber is only used for error reporting.
//
// A field is quoted when it contains the delimiter, the quote, a line break
// or the end-of-line sequence; when quoting is forced for all fields or for
// its column; when surrounding spaces are insignificant and the value has
// leading or trailing spaces; and when it is an empty string that is either
// the only cell of its row or written under EmptyAsNoValue. Cells without a
// value are written as a bare empty field.
//
// A row without cells has no textual form and fails with ErrUnrepresentableRow.
// So does a row whose only cell has no value when empty lines are ignored
// under EmptyAsNoValue. Under EmptyAsEmptyString that cell is written as a
// quoted empty string, which reads back as an empty value.
func (e *Encoder) EncodeRow(record Record, rowNumber int) (string, error) {
	if e.prefsErr != nil {
		return "", &EncodingError{Context: Context{RowNumber: rowNumber}, Err: e.prefsErr}
	}
	if !e.representable(record) {
		return "", &EncodingError{Context: Context{RowNumber: rowNumber}, Err: ErrUnrepresentableRow}
	}

	var sb strings.Builder
	for i, cell := range record {
		if i > 0 {
			sb.WriteRune(e.prefs.Delimiter)
		}
		e.writeField(&sb, cell, i+1, len(record) == 1)
	}
	sb.WriteString(e.prefs.EndOfLine)
	return sb.String(), nil
}

// representable reports whether the row survives being read back by a
// Tokenizer with the same preferences.
func (e *Encoder) representable(record Record) bool {
	switch {
	case len(record) == 0:
		return false
	case len(record) == 1 && !record[0].Valid:
		return !e.prefs.IgnoreEmptyLines || e.prefs.EmptyPolicy == EmptyAsEmptyString
	default:
		return true
	}
}

func (e *Encoder) writeField(sb *strings.Builder, cell Cell, column int, only bool) {
	if !cell.Valid {
		if !only || !e.prefs.IgnoreEmptyLines {
			return
		}
		cell = Value("")
	}
	if !e.needsQuote(cell.Value, column, only) {
		sb.WriteString(cell.Value)
		return
	}

	quote := string(e.prefs.Quote)
	sb.WriteString(quote)
	sb.WriteString(strings.ReplaceAll(cell.Value, quote, quote+quote))
	sb.WriteString(quote)
}

// needsQuote reports whether value must be quoted. only marks the single
// cell of a one-column row, where an empty string would otherwise be written
// as a blank line.
func (e *Encoder) needsQuote(value string, column int, only bool) bool {
	if e.prefs.AlwaysQuote || e.prefs.quotesColumn(column) {
		return true
	}
	if value == "" {
		return only || e.prefs.EmptyPolicy == EmptyAsNoValue
	}
	if e.prefs.SurroundingSpacesNeedQuotes && (value[0] == ' ' || value[len(value)-1] == ' ') {
		return true
	}
	return strings.ContainsRune(value, e.prefs.Delimiter) ||
		strings.ContainsRune(value, e.prefs.Quote) ||
		strings.ContainsAny(value, "\r\n") ||
		strings.Contains(value, e.prefs.EndOfLine)
}
