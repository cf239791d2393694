package dsl

import "strings"

// reserved reports whether ch separates tokens. Everything else, including
// internal whitespace, belongs to the surrounding literal.
func reserved(ch byte) bool {
	return ch == 0 || ch == ',' || ch == '|' || ch == '\\'
}

// Lexer tokenizes query text.
type Lexer struct {
	input   string
	pos     int  // current position in input
	readPos int  // reading position (after current char)
	ch      byte // current char under examination
	line    int  // current line number (1-based)
	col     int  // current column number (1-based)
}

// NewLexer creates a new Lexer for the given input.
func NewLexer(input string) *Lexer {
	l := &Lexer{
		input: input,
		line:  1,
		col:   0,
	}
	l.readChar()
	return l
}

// readChar advances to the next character.
func (l *Lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.ch = 0 // ASCII NUL = EOF
	} else {
		l.ch = l.input[l.readPos]
	}
	l.pos = l.readPos
	l.readPos++

	if l.ch == '\n' {
		l.line++
		l.col = 0
	} else {
		l.col++
	}
}

// currentPos returns the current position.
func (l *Lexer) currentPos() Position {
	return Position{
		Line:   l.line,
		Column: l.col,
		Offset: l.pos,
	}
}

// NextToken returns the next token.
func (l *Lexer) NextToken() Token {
	l.skipWhitespace()

	pos := l.currentPos()

	switch l.ch {
	case 0:
		return Token{Type: TOKEN_EOF, Pos: pos}
	case ',':
		l.readChar()
		return Token{Type: TOKEN_COMMA, Literal: ",", Pos: pos}
	case '|':
		l.readChar()
		return Token{Type: TOKEN_PIPE, Literal: "|", Pos: pos}
	case '\\':
		return l.readMarker(pos)
	default:
		return l.readLiteral(pos)
	}
}

// readMarker reads a backslash marker token (\select, \columns, \from).
func (l *Lexer) readMarker(pos Position) Token {
	l.readChar() // consume backslash

	start := l.pos
	for isLetter(l.ch) {
		l.readChar()
	}
	word := l.input[start:l.pos]

	switch strings.ToLower(word) {
	case "select":
		return Token{Type: TOKEN_SELECT, Literal: `\` + word, Pos: pos}
	case "columns":
		return Token{Type: TOKEN_COLUMNS, Literal: `\` + word, Pos: pos}
	case "from":
		return Token{Type: TOKEN_FROM, Literal: `\` + word, Pos: pos}
	default:
		return Token{Type: TOKEN_ILLEGAL, Literal: `\` + word, Pos: pos}
	}
}

// readLiteral reads a literal run up to the next separator or marker.
// Surrounding whitespace is insignificant; internal bytes, including
// multibyte runes and spaces, are preserved.
func (l *Lexer) readLiteral(pos Position) Token {
	start := l.pos
	for !reserved(l.ch) {
		l.readChar()
	}
	lit := strings.TrimRight(l.input[start:l.pos], " \t\r\n")
	return Token{Type: TOKEN_LITERAL, Literal: lit, Pos: pos}
}

func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
		l.readChar()
	}
}

func isLetter(ch byte) bool {
	return ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z')
}
