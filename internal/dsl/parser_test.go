package dsl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_FullQuery(t *testing.T) {
	q, err := Parse(`\select 1 | 3, 7 | 2, 4 | 5 \columns name, age, rating \from users \select`)
	require.NoError(t, err)

	require.Len(t, q.Groups, 3)
	assert.Equal(t, []Term{{Literal: "1"}, {Literal: "3"}}, q.Groups[0].Terms)
	assert.Equal(t, []Term{{Literal: "7"}, {Literal: "2"}}, q.Groups[1].Terms)
	assert.Equal(t, []Term{{Literal: "4"}, {Literal: "5"}}, q.Groups[2].Terms)
	assert.Equal(t, []string{"name", "age", "rating"}, q.Columns)
	assert.Equal(t, "users", q.Table)
}

func TestParse_Deterministic(t *testing.T) {
	const input = `\select a|b?, c \columns x \from t \select`

	first, err := Parse(input)
	require.NoError(t, err)
	second, err := Parse(input)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestParse_Defaults(t *testing.T) {
	q, err := Parse(`\select key1 \select`)
	require.NoError(t, err)

	assert.Empty(t, q.Table, "table defaults to the configured default")
	assert.Nil(t, q.Columns, "nil columns means all columns")
}

func TestParse_FuzzyFlag(t *testing.T) {
	q, err := Parse(`\select ali?, bob, ?光 \select`)
	require.NoError(t, err)

	require.Len(t, q.Groups, 3)
	assert.True(t, q.Groups[0].Terms[0].Fuzzy)
	assert.False(t, q.Groups[1].Terms[0].Fuzzy)
	assert.True(t, q.Groups[2].Terms[0].Fuzzy)
}

func TestTerm_Pattern(t *testing.T) {
	assert.Equal(t, "ali%", Term{Literal: "ali?"}.Pattern())
	assert.Equal(t, "%light", Term{Literal: "?light"}.Pattern())
	assert.Equal(t, "a%b", Term{Literal: "a?b"}.Pattern())
	// '_' is LIKE's single-character wildcard and passes through.
	assert.Equal(t, "a_c%", Term{Literal: "a_c?"}.Pattern())
}

func TestParse_ClausesInEitherOrder(t *testing.T) {
	q, err := Parse(`\select k \from users \columns id \select`)
	require.NoError(t, err)
	assert.Equal(t, "users", q.Table)
	assert.Equal(t, []string{"id"}, q.Columns)
}

func TestParse_NoGroups(t *testing.T) {
	q, err := Parse(`\select \from users \select`)
	require.NoError(t, err)
	assert.Empty(t, q.Groups)
	assert.Equal(t, "users", q.Table)
}

func TestParse_Errors(t *testing.T) {
	cases := map[string]string{
		"empty input":         ``,
		"blank input":         `   `,
		"missing open":        `1|2 \select`,
		"missing close":       `\select 1|2`,
		"duplicate columns":   `\select x \columns a \columns b \select`,
		"duplicate from":      `\select x \from t \from u \select`,
		"empty columns":       `\select x \columns \from t \select`,
		"empty from":          `\select x \from \select`,
		"dangling pipe":       `\select a| \select`,
		"dangling comma":      `\select a, \select`,
		"unknown marker":      `\select a \where b \select`,
		"trailing input":      `\select a \select extra`,
		"column list dangles": `\select x \columns a, \from t \select`,
	}

	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(input)
			var synErr *SyntaxError
			require.ErrorAs(t, err, &synErr, "input %q", input)
			assert.NotEmpty(t, synErr.Message)
		})
	}
}

func TestParse_TermOrderPreserved(t *testing.T) {
	q, err := Parse(`\select z|a|m \select`)
	require.NoError(t, err)

	require.Len(t, q.Groups, 1)
	var literals []string
	for _, term := range q.Groups[0].Terms {
		literals = append(literals, term.Literal)
	}
	assert.Equal(t, []string{"z", "a", "m"}, literals)
}
