package dsl

import "strings"

// Term is one candidate value within a condition group. Fuzzy terms carry
// the '?' wildcard and are matched as patterns instead of by equality.
type Term struct {
	Literal string
	Fuzzy   bool
}

// Pattern translates a fuzzy term into a LIKE pattern: every '?' becomes
// the multi-character wildcard '%'. '_' already is the single-character
// wildcard in LIKE patterns and passes through, so "ali?" matches "alice"
// and "a_c" matches "abc".
func (t Term) Pattern() string {
	return strings.ReplaceAll(t.Literal, "?", "%")
}

// Group is an ordered sequence of candidate terms evaluated with
// short-circuit OR: the first term with at least one match wins.
type Group struct {
	Terms []Term
}

// Query is the parsed intent of one DSL invocation.
type Query struct {
	// Groups are evaluated strictly in order; each group's contribution is
	// appended to the result.
	Groups []Group

	// Columns are the requested output columns; nil means all columns.
	Columns []string

	// Table is the target table; empty means the configured default.
	Table string
}
