// Package csvchain reads and writes delimited text (CSV, TSV and similar
// formats) and runs every field through a chain of cell processors as it
// crosses the text/value boundary.
//
// csvchain splits the work into two layers. The Tokenizer and the Encoder
// handle the format: delimiters, quoting, doubled-quote escaping and line
// breaks inside quoted fields. ExecuteRow applies one processor chain per
// column and reports failures with the row and column they occurred on.
//
// # Features
//
//   - RFC 4180 quoting with configurable delimiter, quote and end of line
//   - Quoted fields spanning several physical lines
//   - An explicit policy separating empty strings from missing values
//   - Comment and blank line skipping, optional trimming of surrounding spaces
//   - Processor chains for null handling, conversion and validation (see the processor package)
//   - Transparent gzip, bzip2, xz and zstandard files
//   - Spreadsheet worksheets as row sources (see the sheet package)
//
// # Basic Usage
//
//	r := csvchain.NewReader(strings.NewReader(data), csvchain.StandardPreference())
//	header, err := r.Header(true)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	processors := []csvchain.CellProcessor{
//	    processor.NotNull(processor.ParseInt()),
//	    processor.Optional(processor.Trim()),
//	}
//	for {
//	    values, err := r.ReadValues(processors...)
//	    if errors.Is(err, io.EOF) {
//	        break
//	    }
//	    var cpe *csvchain.CellProcessorError
//	    if errors.As(err, &cpe) {
//	        log.Printf("skipping row %d: %v", cpe.RowNumber(), err)
//	        continue
//	    }
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(header, values)
//	}
//
// # Empty Fields
//
// A Cell either holds a string or no value. With EmptyAsEmptyString, the
// default, an empty unquoted field reads as "" and missing values are written
// as empty fields, so they read back as "". With EmptyAsNoValue an empty
// unquoted field reads as no value, a quoted empty field ("") reads as the
// empty string, and the Encoder quotes empty strings, so both survive a round
// trip.
//
// A one-column row without a value would be written as a blank line, which is
// skipped when IgnoreEmptyLines is set. The Encoder writes it as "" under
// EmptyAsEmptyString and rejects it with ErrUnrepresentableRow under
// EmptyAsNoValue. A row without any cells is always rejected.
//
// Fields are byte strings. Bytes that are not valid UTF-8 are kept as read
// and written as given.
//
// # Errors
//
// Tokenizer failures are *MalformedRowError, processor failures are
// *CellProcessorError, a row with the wrong number of columns is a
// *ColumnCountMismatchError and a row that cannot be written is an
// *EncodingError. All of them implement ErrorPosition and match the
// corresponding sentinel errors with errors.Is. Nothing is retried: skipping a
// bad row is up to the caller. After a processing error the next read returns
// the following row; after a malformed row the Tokenizer resumes at the next
// physical line, which may fall inside the broken row.
//
// # Concurrency
//
// Readers, Writers, Tokenizers and Encoders serve one stream and one
// goroutine. Processor chains without state can be shared between streams.
package csvchain
