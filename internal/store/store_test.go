package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slashql/slashql/internal/db"
	"github.com/slashql/slashql/internal/dsl"
	"github.com/slashql/slashql/internal/schema"
	"github.com/slashql/slashql/internal/testutil"
)

func newTestStore(t *testing.T, defaultTable string) *Store {
	t.Helper()
	logger := testutil.NewTestLogger(t)
	client, err := db.Open(filepath.Join(t.TempDir(), "test.db"), db.PoolConfig{
		Size:           2,
		AcquireTimeout: time.Second,
	}, logger)
	require.NoError(t, err)

	st := New(client, Options{DefaultTable: defaultTable, Logger: logger})
	t.Cleanup(func() { st.Close() })
	return st
}

func createUsersTable(t *testing.T, st *Store) {
	t.Helper()
	err := st.CreateTable(context.Background(), "users", []schema.Column{
		{Name: "id", Type: schema.Integer, PrimaryKey: true},
		{Name: "name", Type: schema.Text, Unique: true},
	})
	require.NoError(t, err)
}

func names(rows []db.Row) []string {
	out := make([]string, 0, len(rows))
	for _, row := range rows {
		out = append(out, row["name"].(string))
	}
	return out
}

func TestStore_CreateTableRejectsDuplicate(t *testing.T) {
	st := newTestStore(t, "users")
	createUsersTable(t, st)

	err := st.CreateTable(context.Background(), "users", []schema.Column{
		{Name: "id", Type: schema.Integer, PrimaryKey: true},
	})
	var schemaErr *schema.SchemaError
	require.ErrorAs(t, err, &schemaErr)
}

func TestStore_CreateTableUnwindsOnDDLFailure(t *testing.T) {
	st := newTestStore(t, "")
	ctx := context.Background()

	// An index occupying the name makes the DDL fail even with the
	// IF NOT EXISTS clause.
	_, err := st.Exec(ctx, `CREATE TABLE "other" ("a" TEXT)`)
	require.NoError(t, err)
	_, err = st.Exec(ctx, `CREATE INDEX "taken" ON "other" ("a")`)
	require.NoError(t, err)

	err = st.CreateTable(ctx, "taken", []schema.Column{
		{Name: "id", Type: schema.Integer, PrimaryKey: true},
	})
	require.Error(t, err)

	// The failed registration must not linger in the registry.
	_, err = st.Registry().Resolve("taken")
	var unknownErr *schema.UnknownTableError
	assert.ErrorAs(t, err, &unknownErr)
}

func TestStore_SelectGroupOrdering(t *testing.T) {
	st := newTestStore(t, "users")
	ctx := context.Background()
	createUsersTable(t, st)

	_, err := st.Insert(ctx, []any{
		[]any{1, "alice"},
		[]any{2, "bob"},
	}, "")
	require.NoError(t, err)

	// Group one: 1 matches, so 9 is never tried. Group two matches 2.
	rows, err := st.Select(ctx, `\select 1|9, 2 \select`)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob"}, names(rows))

	// Flipping the groups flips the result order.
	rows, err = st.Select(ctx, `\select 2, 1|9 \select`)
	require.NoError(t, err)
	assert.Equal(t, []string{"bob", "alice"}, names(rows))
}

func TestStore_SelectFallsThroughWithinGroup(t *testing.T) {
	st := newTestStore(t, "users")
	ctx := context.Background()
	createUsersTable(t, st)

	_, err := st.Insert(ctx, []any{[]any{9, "nina"}}, "")
	require.NoError(t, err)

	rows, err := st.Select(ctx, `\select 1|9 \select`)
	require.NoError(t, err)
	assert.Equal(t, []string{"nina"}, names(rows))
}

func TestStore_SelectFuzzy(t *testing.T) {
	st := newTestStore(t, "tags")
	ctx := context.Background()

	err := st.CreateTable(ctx, "tags", []schema.Column{
		{Name: "label", Type: schema.Text, PrimaryKey: true},
	})
	require.NoError(t, err)

	_, err = st.Insert(ctx, []any{
		[]any{"alice"},
		[]any{"alibaba"},
		[]any{"bob"},
	}, "")
	require.NoError(t, err)

	rows, err := st.Select(ctx, `\select ali? \select`)
	require.NoError(t, err)

	var labels []string
	for _, row := range rows {
		labels = append(labels, row["label"].(string))
	}
	assert.ElementsMatch(t, []string{"alice", "alibaba"}, labels)
}

func TestStore_SelectColumnsAndFrom(t *testing.T) {
	st := newTestStore(t, "")
	ctx := context.Background()
	createUsersTable(t, st)

	_, err := st.Insert(ctx, []any{[]any{1, "alice"}}, "users")
	require.NoError(t, err)

	rows, err := st.Select(ctx, `\select 1 \columns name \from users \select`)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "alice", rows[0]["name"])
	assert.NotContains(t, rows[0], "id")
}

func TestStore_SelectNoMatchesIsEmptyNotError(t *testing.T) {
	st := newTestStore(t, "users")
	ctx := context.Background()
	createUsersTable(t, st)

	rows, err := st.Select(ctx, `\select 404|405 \select`)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestStore_SelectSurfacesSyntaxErrors(t *testing.T) {
	st := newTestStore(t, "users")
	createUsersTable(t, st)

	_, err := st.Select(context.Background(), `\select 1|2`)
	var synErr *dsl.SyntaxError
	assert.ErrorAs(t, err, &synErr)
}

func TestStore_SelectUnknownTable(t *testing.T) {
	st := newTestStore(t, "users")
	createUsersTable(t, st)

	_, err := st.Select(context.Background(), `\select 1 \from ghost \select`)
	var unknownErr *schema.UnknownTableError
	assert.ErrorAs(t, err, &unknownErr)
}
