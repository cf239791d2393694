// Package dsl tokenizes and parses the backslash-marker query syntax
// (\select ... \select) into structured query intent.
package dsl

import "fmt"

// TokenType identifies a lexical token class.
type TokenType int

const (
	// Special tokens
	TOKEN_EOF TokenType = iota
	TOKEN_ILLEGAL

	// Literal term or identifier text
	TOKEN_LITERAL

	// Separators
	TOKEN_COMMA // ,
	TOKEN_PIPE  // |

	// Markers
	TOKEN_SELECT  // \select (both open and close)
	TOKEN_COLUMNS // \columns
	TOKEN_FROM    // \from
)

// String returns a readable token class name for diagnostics.
func (t TokenType) String() string {
	switch t {
	case TOKEN_EOF:
		return "EOF"
	case TOKEN_ILLEGAL:
		return "ILLEGAL"
	case TOKEN_LITERAL:
		return "LITERAL"
	case TOKEN_COMMA:
		return ","
	case TOKEN_PIPE:
		return "|"
	case TOKEN_SELECT:
		return `\select`
	case TOKEN_COLUMNS:
		return `\columns`
	case TOKEN_FROM:
		return `\from`
	default:
		return fmt.Sprintf("TokenType(%d)", int(t))
	}
}

// Position is a location in the query text (1-based line and column).
type Position struct {
	Line   int
	Column int
	Offset int
}

// Token is one lexical token with its source position.
type Token struct {
	Type    TokenType
	Literal string
	Pos     Position
}
