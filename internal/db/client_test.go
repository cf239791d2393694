package db

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slashql/slashql/internal/testutil"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	client, err := Open(filepath.Join(t.TempDir(), "test.db"), PoolConfig{
		Size:           2,
		AcquireTimeout: time.Second,
	}, testutil.NewTestLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return client
}

func createUsers(t *testing.T, client *Client) {
	t.Helper()
	_, err := client.Exec(context.Background(),
		`CREATE TABLE "users" ("id" INTEGER PRIMARY KEY, "name" TEXT UNIQUE)`)
	require.NoError(t, err)
}

func TestClient_ExecAndFetchAll(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()
	createUsers(t, client)

	res, err := client.Exec(ctx, `INSERT INTO "users" ("id", "name") VALUES (?, ?)`, 1, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.RowsAffected)
	assert.Equal(t, int64(1), res.LastInsertID)

	rows, err := client.FetchAll(ctx, `SELECT * FROM "users" WHERE "id" = ?`, 1)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(1), rows[0]["id"])
	assert.Equal(t, "alice", rows[0]["name"])
}

func TestClient_FetchAllEmptyResult(t *testing.T) {
	client := newTestClient(t)
	createUsers(t, client)

	rows, err := client.FetchAll(context.Background(), `SELECT * FROM "users"`)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestClient_ExecError(t *testing.T) {
	client := newTestClient(t)

	_, err := client.Exec(context.Background(), `INSERT INTO "missing" VALUES (1)`)
	var queryErr *QueryError
	require.ErrorAs(t, err, &queryErr)
	assert.Contains(t, queryErr.Stmt, "missing")
}

func TestClient_ExecManyCommitsAllRows(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()
	createUsers(t, client)

	err := client.ExecMany(ctx, `INSERT INTO "users" ("id", "name") VALUES (?, ?)`, [][]any{
		{1, "alice"},
		{2, "bob"},
		{3, "carol"},
	})
	require.NoError(t, err)

	rows, err := client.FetchAll(ctx, `SELECT "id" FROM "users" ORDER BY "id"`)
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}

func TestClient_ExecManyRollsBackOnFailure(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()
	createUsers(t, client)

	err := client.ExecMany(ctx, `INSERT INTO "users" ("id", "name") VALUES (?, ?)`, [][]any{
		{1, "alice"},
		{2, "bob"},
		{2, "dupe"}, // primary key collision
	})
	require.Error(t, err)

	rows, err := client.FetchAll(ctx, `SELECT * FROM "users"`)
	require.NoError(t, err)
	assert.Empty(t, rows, "a failed batch must leave no rows behind")
}

func TestScanRows_CopiesBlobValues(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	_, err := client.Exec(ctx, `CREATE TABLE "files" ("id" INTEGER PRIMARY KEY, "body" BLOB)`)
	require.NoError(t, err)
	_, err = client.Exec(ctx, `INSERT INTO "files" VALUES (1, ?), (2, ?)`,
		[]byte("first"), []byte("second"))
	require.NoError(t, err)

	rows, err := client.FetchAll(ctx, `SELECT "body" FROM "files" ORDER BY "id"`)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []byte("first"), rows[0]["body"])
	assert.Equal(t, []byte("second"), rows[1]["body"])
}
