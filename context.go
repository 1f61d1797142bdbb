package csvchain

// Context describes where in a stream an operation takes place.
// It is passed by value, so processors observe a snapshot and cannot
// change what the Reader or Writer sees.
type Context struct {
	// RowNumber is the 1-based logical row, counting the header row if one was read or written
	RowNumber int
	// ColumnNumber is the 1-based column, or 0 for row-level operations
	ColumnNumber int
	// LineNumber is the physical line on which the row ended. Zero on the write path.
	LineNumber int
	// RawLine is the untokenized source text of the row, used for diagnostics only
	RawLine string
}

// NewContext creates a row-level Context
func NewContext(rowNumber, lineNumber int, rawLine string) Context {
	return Context{
		RowNumber:  rowNumber,
		LineNumber: lineNumber,
		RawLine:    rawLine,
	}
}

// WithColumn returns a copy of the context positioned on column
func (c Context) WithColumn(column int) Context {
	c.ColumnNumber = column
	return c
}
