package csvchain

import (
	"bufio"
	"errors"
	"io"
	"strings"
	"unicode/utf8"
)

// state is a state of the tokenizer's field state machine
type state int

const (
	// stateFieldStart is the position before the first character of a field
	stateFieldStart state = iota
	// stateUnquoted is inside a field that did not start with a quote
	stateUnquoted
	// stateQuoted is inside a quoted field
	stateQuoted
	// stateQuoteInQuoted follows a quote seen inside a quoted field: either an
	// escaped quote or the closing quote
	stateQuoteInQuoted
	// stateQuotedEnd follows a closing quote and insignificant spaces
	stateQuotedEnd
	numStates
)

// String returns the state name
func (s state) String() string {
	switch s {
	case stateFieldStart:
		return "FieldStart"
	case stateUnquoted:
		return "Unquoted"
	case stateQuoted:
		return "Quoted"
	case stateQuoteInQuoted:
		return "QuoteInQuoted"
	case stateQuotedEnd:
		return "QuotedEnd"
	default:
		return "Unknown"
	}
}

// charClass groups the input characters the state machine distinguishes
type charClass int

const (
	classDelimiter charClass = iota
	classQuote
	// classSpace is only produced when surrounding spaces are insignificant
	classSpace
	// classEOL is produced once at the end of every physical line
	classEOL
	classOther
	numClasses
)

// action is the side effect of a transition
type action int

const (
	actionAppend action = iota
	actionSkip
	actionBeginQuoted
	actionEndField
	actionEndRow
	actionAppendLineBreak
	actionBareQuote
	actionInvalidEscape
)

type transition struct {
	next   state
	action action
}

// transitions is indexed by the current state and the class of the next character.
var transitions = [numStates][numClasses]transition{
	stateFieldStart: {
		classDelimiter: {stateFieldStart, actionEndField},
		classQuote:     {stateQuoted, actionBeginQuoted},
		classSpace:     {stateFieldStart, actionSkip},
		classEOL:       {stateFieldStart, actionEndRow},
		classOther:     {stateUnquoted, actionAppend},
	},
	stateUnquoted: {
		classDelimiter: {stateFieldStart, actionEndField},
		classQuote:     {stateUnquoted, actionBareQuote},
		classSpace:     {stateUnquoted, actionAppend},
		classEOL:       {stateFieldStart, actionEndRow},
		classOther:     {stateUnquoted, actionAppend},
	},
	stateQuoted: {
		classDelimiter: {stateQuoted, actionAppend},
		classQuote:     {stateQuoteInQuoted, actionSkip},
		classSpace:     {stateQuoted, actionAppend},
		classEOL:       {stateQuoted, actionAppendLineBreak},
		classOther:     {stateQuoted, actionAppend},
	},
	stateQuoteInQuoted: {
		classDelimiter: {stateFieldStart, actionEndField},
		classQuote:     {stateQuoted, actionAppend},
		classSpace:     {stateQuotedEnd, actionSkip},
		classEOL:       {stateFieldStart, actionEndRow},
		classOther:     {stateQuoteInQuoted, actionInvalidEscape},
	},
	stateQuotedEnd: {
		classDelimiter: {stateFieldStart, actionEndField},
		classQuote:     {stateQuotedEnd, actionInvalidEscape},
		classSpace:     {stateQuotedEnd, actionSkip},
		classEOL:       {stateFieldStart, actionEndRow},
		classOther:     {stateQuotedEnd, actionInvalidEscape},
	},
}

// Tokenizer splits a character stream into rows of raw cells.
//
// A Tokenizer is bound to one stream and is not safe for concurrent use.
// After a MalformedRowError the Tokenizer resumes at the next physical line,
// except for an unterminated quote, which consumes the rest of the stream.
type Tokenizer struct {
	src      *bufio.Reader
	prefs    Preferences
	prefsErr error

	rowNumber  int
	lineNumber int
	eof        bool
}

// NewTokenizer creates a Tokenizer reading from r, panicking if r is nil.
// Invalid preferences are reported by the first call to NextRow.
func NewTokenizer(r io.Reader, prefs Preferences) *Tokenizer {
	if r == nil {
		panic("csvchain: tokenizer source cannot be nil")
	}
	return &Tokenizer{
		src:      bufio.NewReader(r),
		prefs:    prefs,
		prefsErr: prefs.Validate(),
	}
}

// RowNumber returns the number of logical rows read so far
func (t *Tokenizer) RowNumber() int {
	return t.rowNumber
}

// LineNumber returns the number of physical lines read so far
func (t *Tokenizer) LineNumber() int {
	return t.lineNumber
}

// rowParser is the per-row state of the state machine
type rowParser struct {
	state  state
	field  strings.Builder
	quoted bool
	cells  Record
}

// NextRow reads the next logical row. It returns io.EOF when the stream
// holds no more rows.
func (t *Tokenizer) NextRow() (Record, Context, error) {
	if t.prefsErr != nil {
		ctx := Context{RowNumber: t.rowNumber + 1}
		return nil, ctx, &MalformedRowError{Context: ctx, Err: t.prefsErr}
	}

	line, term, err := t.firstLine()
	if err != nil {
		return nil, Context{}, err
	}
	t.rowNumber++

	var raw strings.Builder
	raw.WriteString(line)
	linesInRow := 1

	p := &rowParser{}
	for {
		done, column, err := t.scanLine(p, line, term)
		if err != nil {
			e := t.malformed(column, raw.String(), err)
			return nil, e.Context, e
		}
		if done {
			return p.cells, t.context(0, raw.String()), nil
		}

		// The line ended inside a quoted field, which continues on the next physical line.
		if term == "" {
			t.eof = true
			e := t.malformed(column, raw.String(), ErrUnterminatedQuote)
			return nil, e.Context, e
		}
		if t.prefs.MaxLinesPerRow > 0 && linesInRow >= t.prefs.MaxLinesPerRow {
			e := t.malformed(column, raw.String(), ErrTooManyLines)
			return nil, e.Context, e
		}
		raw.WriteString(term)

		line, term, err = t.readLine()
		if errors.Is(err, io.EOF) {
			t.eof = true
			e := t.malformed(column, raw.String(), ErrUnterminatedQuote)
			return nil, e.Context, e
		}
		if err != nil {
			return nil, t.context(column, raw.String()), err
		}
		t.lineNumber++
		linesInRow++
		raw.WriteString(line)
	}
}

// scanLine feeds one physical line plus its end-of-line event into the state
// machine. It reports whether the row is complete and the column being
// parsed; a false result without error means a quoted field continues.
func (t *Tokenizer) scanLine(p *rowParser, line, term string) (bool, int, error) {
	for i := 0; i < len(line); {
		r, size := utf8.DecodeRuneInString(line[i:])
		chunk := line[i : i+size]
		i += size

		tr := transitions[p.state][t.classify(r)]
		switch tr.action {
		case actionAppend:
			// chunk keeps invalid UTF-8 bytes as read
			p.field.WriteString(chunk)
		case actionSkip:
		case actionBeginQuoted:
			p.quoted = true
		case actionEndField:
			t.endField(p)
		case actionBareQuote:
			return false, len(p.cells) + 1, ErrBareQuote
		case actionInvalidEscape:
			return false, len(p.cells) + 1, ErrInvalidEscape
		}
		p.state = tr.next
	}

	tr := transitions[p.state][classEOL]
	p.state = tr.next
	if tr.action == actionEndRow {
		t.endField(p)
		return true, 0, nil
	}
	// actionAppendLineBreak: quoted fields keep line breaks as they were read
	p.field.WriteString(term)
	return false, len(p.cells) + 1, nil
}

// endField appends the field under construction to the row
func (t *Tokenizer) endField(p *rowParser) {
	v := p.field.String()
	switch {
	case p.quoted:
		p.cells = append(p.cells, Value(v))
	default:
		if t.prefs.SurroundingSpacesNeedQuotes {
			v = strings.TrimRight(v, " ")
		}
		if v == "" && t.prefs.EmptyPolicy == EmptyAsNoValue {
			p.cells = append(p.cells, NoValue())
		} else {
			p.cells = append(p.cells, Value(v))
		}
	}
	p.field.Reset()
	p.quoted = false
}

func (t *Tokenizer) classify(r rune) charClass {
	switch {
	case r == t.prefs.Delimiter:
		return classDelimiter
	case r == t.prefs.Quote:
		return classQuote
	case r == ' ' && t.prefs.SurroundingSpacesNeedQuotes:
		return classSpace
	default:
		return classOther
	}
}

// firstLine returns the first physical line of the next row, skipping
// empty lines and comments as configured.
func (t *Tokenizer) firstLine() (string, string, error) {
	for {
		if t.eof {
			return "", "", io.EOF
		}
		line, term, err := t.readLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				t.eof = true
			}
			return "", "", err
		}
		t.lineNumber++

		if t.prefs.IgnoreEmptyLines && line == "" {
			continue
		}
		if t.prefs.Comments != nil && t.prefs.Comments.IsComment(line) {
			continue
		}
		return line, term, nil
	}
}

// readLine reads one physical line and returns it without its terminator,
// followed by the terminator itself ("" at the end of the stream).
func (t *Tokenizer) readLine() (string, string, error) {
	var sb strings.Builder
	for {
		r, size, err := t.src.ReadRune()
		if err != nil {
			if errors.Is(err, io.EOF) && sb.Len() > 0 {
				return sb.String(), "", nil
			}
			return "", "", err
		}

		switch r {
		case '\n':
			return sb.String(), "\n", nil
		case '\r':
			next, _, err := t.src.ReadRune()
			switch {
			case err == nil && next == '\n':
				return sb.String(), "\r\n", nil
			case err == nil:
				_ = t.src.UnreadRune()
			case !errors.Is(err, io.EOF):
				return "", "", err
			}
			return sb.String(), "\r", nil
		case utf8.RuneError:
			if size == 1 {
				_ = t.src.UnreadRune()
				b, _ := t.src.ReadByte()
				sb.WriteByte(b)
				continue
			}
		}
		sb.WriteRune(r)
	}
}

func (t *Tokenizer) context(column int, raw string) Context {
	return Context{
		RowNumber:    t.rowNumber,
		ColumnNumber: column,
		LineNumber:   t.lineNumber,
		RawLine:      raw,
	}
}

func (t *Tokenizer) malformed(column int, raw string, err error) *MalformedRowError {
	return &MalformedRowError{Context: t.context(column, raw), Err: err}
}
