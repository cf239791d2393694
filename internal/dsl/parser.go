package dsl

import (
	"fmt"
	"strings"
)

// Parser turns tokens into a Query.
type Parser struct {
	lexer *Lexer
	cur   Token
}

// Parse parses one DSL query string.
//
// Grammar (whitespace between tokens is insignificant):
//
//	query := '\select' groups? columns? from? '\select'
//	groups := group (',' group)*
//	group  := term ('|' term)*
//	columns := '\columns' literal (',' literal)*
//	from    := '\from' literal
//
// The \columns and \from clauses may appear in either order, each at most
// once.
func Parse(input string) (*Query, error) {
	if strings.TrimSpace(input) == "" {
		return nil, &SyntaxError{Pos: Position{Line: 1, Column: 1}, Message: "empty query"}
	}

	p := &Parser{lexer: NewLexer(input)}
	p.next()
	return p.parseQuery()
}

func (p *Parser) next() {
	p.cur = p.lexer.NextToken()
}

func (p *Parser) errorf(format string, args ...any) error {
	return &SyntaxError{Pos: p.cur.Pos, Message: fmt.Sprintf(format, args...)}
}

func (p *Parser) parseQuery() (*Query, error) {
	if p.cur.Type == TOKEN_ILLEGAL {
		return nil, p.errorf("unknown marker %q", p.cur.Literal)
	}
	if p.cur.Type != TOKEN_SELECT {
		return nil, p.errorf(`query must start with \select`)
	}
	p.next()

	q := &Query{}

	// Condition groups, comma-separated.
	for p.cur.Type == TOKEN_LITERAL {
		group, err := p.parseGroup()
		if err != nil {
			return nil, err
		}
		q.Groups = append(q.Groups, group)

		if p.cur.Type != TOKEN_COMMA {
			break
		}
		p.next()
		if p.cur.Type != TOKEN_LITERAL {
			return nil, p.errorf("expected condition group after ','")
		}
	}

	// Optional clauses, each at most once, in either order.
	for p.cur.Type == TOKEN_COLUMNS || p.cur.Type == TOKEN_FROM {
		switch p.cur.Type {
		case TOKEN_COLUMNS:
			if q.Columns != nil {
				return nil, p.errorf(`duplicate \columns clause`)
			}
			cols, err := p.parseColumns()
			if err != nil {
				return nil, err
			}
			q.Columns = cols
		case TOKEN_FROM:
			if q.Table != "" {
				return nil, p.errorf(`duplicate \from clause`)
			}
			table, err := p.parseFrom()
			if err != nil {
				return nil, err
			}
			q.Table = table
		}
	}

	switch p.cur.Type {
	case TOKEN_SELECT:
		p.next()
	case TOKEN_ILLEGAL:
		return nil, p.errorf("unknown marker %q", p.cur.Literal)
	case TOKEN_EOF:
		return nil, p.errorf(`unterminated query: missing closing \select`)
	default:
		return nil, p.errorf("unexpected token %s", p.cur.Type)
	}

	if p.cur.Type != TOKEN_EOF {
		return nil, p.errorf(`unexpected input after closing \select`)
	}

	return q, nil
}

// parseGroup parses pipe-separated candidate terms. The current token is a
// literal when called.
func (p *Parser) parseGroup() (Group, error) {
	group := Group{Terms: []Term{newTerm(p.cur.Literal)}}
	p.next()

	for p.cur.Type == TOKEN_PIPE {
		p.next()
		if p.cur.Type != TOKEN_LITERAL {
			return Group{}, p.errorf("expected candidate term after '|'")
		}
		group.Terms = append(group.Terms, newTerm(p.cur.Literal))
		p.next()
	}

	return group, nil
}

// parseColumns parses the \columns clause value list.
func (p *Parser) parseColumns() ([]string, error) {
	p.next() // consume \columns

	if p.cur.Type != TOKEN_LITERAL {
		return nil, p.errorf(`\columns clause requires at least one column name`)
	}

	cols := []string{p.cur.Literal}
	p.next()

	for p.cur.Type == TOKEN_COMMA {
		p.next()
		if p.cur.Type != TOKEN_LITERAL {
			return nil, p.errorf("expected column name after ','")
		}
		cols = append(cols, p.cur.Literal)
		p.next()
	}

	return cols, nil
}

// parseFrom parses the \from clause.
func (p *Parser) parseFrom() (string, error) {
	p.next() // consume \from

	if p.cur.Type != TOKEN_LITERAL {
		return "", p.errorf(`\from clause requires a table name`)
	}

	table := p.cur.Literal
	p.next()
	return table, nil
}

func newTerm(literal string) Term {
	return Term{
		Literal: literal,
		Fuzzy:   strings.Contains(literal, "?"),
	}
}
