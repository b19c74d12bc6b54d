package parser

// EOF is returned by CharSource.Peek and CharSource.Read past the end of input.
const EOF rune = -1

// CharSource supplies characters to the Tokenizer and receives its
// diagnostics. Error decides how a diagnostic propagates; the Source
// implementation aborts the parse once its error limit is reached.
type CharSource interface {
	Peek(offset int) rune
	Read() rune
	Skip()
	Position() Position
	Error(pos Position, code Code, args Args)
}

// bailout is raised by Source.Error to unwind the parser. It is recovered by
// the parse entry points and never escapes the package.
type bailout struct{}

// Source is a byte-oriented CharSource over an in-memory buffer. Bytes of
// multi-byte UTF-8 sequences are delivered one at a time; all of them are
// >= 0x80, which the tokenizer treats as identifier characters.
type Source struct {
	input  []byte
	file   string
	pos    int
	line   int
	column int

	limit  int
	errors ErrorList
}

func NewSource(input []byte, file string) *Source {
	return &Source{
		input:  input,
		file:   file,
		line:   1,
		column: 1,
		limit:  1,
	}
}

// SetErrorLimit sets how many diagnostics are collected before the parse is
// abandoned. A limit below 1 means no limit.
func (s *Source) SetErrorLimit(n int) {
	s.limit = n
}

func (s *Source) SetStartLine(line int) {
	s.line = line
}

func (s *Source) Position() Position {
	return Position{
		File:   s.file,
		Offset: s.pos,
		Line:   s.line,
		Column: s.column,
	}
}

func (s *Source) Peek(offset int) rune {
	if s.pos+offset >= len(s.input) {
		return EOF
	}
	return rune(s.input[s.pos+offset])
}

func (s *Source) Read() rune {
	if s.pos >= len(s.input) {
		return EOF
	}
	ch := s.input[s.pos]
	s.pos++
	if ch == '\n' {
		s.line++
		s.column = 1
	} else {
		s.column++
	}
	return rune(ch)
}

func (s *Source) Skip() {
	s.Read()
}

func (s *Source) Error(pos Position, code Code, args Args) {
	if n := len(s.errors); n > 0 && s.limit != 1 && s.errors[n-1].Pos.Line == pos.Line {
		// one diagnostic per line when collecting several
		return
	}
	err := newError(pos, code, args)
	err.AtEOF = pos.Offset >= len(s.input)
	s.errors.Add(err)
	if s.limit > 0 && len(s.errors) >= s.limit {
		panic(bailout{})
	}
}

func (s *Source) Errors() ErrorList {
	return s.errors
}
