package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTx_CommitPersists(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()
	createUsers(t, client)

	tx, err := client.Begin(ctx)
	require.NoError(t, err)

	_, err = tx.Exec(ctx, `INSERT INTO "users" ("id", "name") VALUES (?, ?)`, 1, "alice")
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	rows, err := client.FetchAll(ctx, `SELECT * FROM "users"`)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestTx_RollbackDiscards(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()
	createUsers(t, client)

	tx, err := client.Begin(ctx)
	require.NoError(t, err)

	_, err = tx.Exec(ctx, `INSERT INTO "users" ("id", "name") VALUES (?, ?)`, 1, "alice")
	require.NoError(t, err)
	require.NoError(t, tx.Rollback())

	rows, err := client.FetchAll(ctx, `SELECT * FROM "users"`)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestTx_ScopeSeesOwnWrites(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()
	createUsers(t, client)

	tx, err := client.Begin(ctx)
	require.NoError(t, err)
	defer tx.Rollback()

	_, err = tx.Exec(ctx, `INSERT INTO "users" ("id", "name") VALUES (?, ?)`, 1, "alice")
	require.NoError(t, err)

	rows, err := tx.FetchAll(ctx, `SELECT "name" FROM "users"`)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "alice", rows[0]["name"])
}

func TestTx_UseAfterClose(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()
	createUsers(t, client)

	tx, err := client.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	_, err = tx.Exec(ctx, `INSERT INTO "users" ("id") VALUES (1)`)
	assert.ErrorIs(t, err, ErrScopeClosed)

	_, err = tx.FetchAll(ctx, `SELECT * FROM "users"`)
	assert.ErrorIs(t, err, ErrScopeClosed)

	assert.ErrorIs(t, tx.Commit(), ErrScopeClosed)
	// Rollback after close is a no-op so defers stay safe.
	assert.NoError(t, tx.Rollback())
}

func TestTx_CommitReleasesConnection(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()
	createUsers(t, client)

	// Size 2 pool: exhaust it twice over to prove scopes give their
	// connection back on both commit and rollback paths.
	for i := 0; i < 5; i++ {
		tx, err := client.Begin(ctx)
		require.NoError(t, err)
		if i%2 == 0 {
			require.NoError(t, tx.Commit())
		} else {
			require.NoError(t, tx.Rollback())
		}
	}

	conn, err := client.Pool().Acquire(ctx)
	require.NoError(t, err)
	client.Pool().Release(conn)
}

func TestWithTx_CommitsOnNil(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()
	createUsers(t, client)

	err := client.WithTx(ctx, func(ctx context.Context, tx *Tx) error {
		_, err := tx.Exec(ctx, `INSERT INTO "users" ("id", "name") VALUES (1, 'alice')`)
		return err
	})
	require.NoError(t, err)

	rows, err := client.FetchAll(ctx, `SELECT * FROM "users"`)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestWithTx_RollsBackOnError(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()
	createUsers(t, client)

	sentinel := errors.New("abort")
	err := client.WithTx(ctx, func(ctx context.Context, tx *Tx) error {
		if _, err := tx.Exec(ctx, `INSERT INTO "users" ("id", "name") VALUES (1, 'alice')`); err != nil {
			return err
		}
		return sentinel
	})
	assert.ErrorIs(t, err, sentinel)

	rows, err := client.FetchAll(ctx, `SELECT * FROM "users"`)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestWithTx_RejectsNestedScope(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()
	createUsers(t, client)

	err := client.WithTx(ctx, func(ctx context.Context, tx *Tx) error {
		return client.WithTx(ctx, func(ctx context.Context, tx *Tx) error {
			return nil
		})
	})
	assert.ErrorIs(t, err, ErrNestedTransaction)
}

func TestWithTx_RollbackOrdering(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	pool, err := NewPoolFromDB(mockDB, PoolConfig{Size: 1, AcquireTimeout: time.Second})
	require.NoError(t, err)
	defer pool.Close()
	client := NewClient(pool, nil)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO notes").WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err = client.WithTx(context.Background(), func(ctx context.Context, tx *Tx) error {
		_, err := tx.Exec(ctx, `INSERT INTO notes VALUES (1)`)
		return err
	})
	require.Error(t, err)

	var queryErr *QueryError
	require.ErrorAs(t, err, &queryErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}
