package service

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

// fakeTx - транзакция-заглушка: репозитории в тестах замоканы и методов
// querier не вызывают, значимы только Commit/Rollback.
type fakeTx struct {
	pgx.Tx
	committed  *bool
	rolledBack *bool
}

func (t fakeTx) Commit(context.Context) error {
	if t.committed != nil {
		*t.committed = true
	}
	return nil
}

func (t fakeTx) Rollback(context.Context) error {
	if t.rolledBack != nil {
		*t.rolledBack = true
	}
	return nil
}

// fakeDB реализует DB поверх fakeTx.
type fakeDB struct {
	committed  bool
	rolledBack bool
}

func (d *fakeDB) Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func (d *fakeDB) Query(context.Context, string, ...interface{}) (pgx.Rows, error) {
	return nil, nil
}

func (d *fakeDB) QueryRow(context.Context, string, ...interface{}) pgx.Row {
	return nil
}

func (d *fakeDB) Begin(context.Context) (pgx.Tx, error) {
	return fakeTx{committed: &d.committed, rolledBack: &d.rolledBack}, nil
}

func TestSanitizeLimit(t *testing.T) {
	testCases := []struct {
		in       int
		expected int
	}{
		{0, 20},
		{-5, 20},
		{101, 20},
		{1, 1},
		{100, 100},
	}
	for _, tc := range testCases {
		limit := tc.in
		SanitizeLimit(&limit, 20, 100)
		assert.Equal(t, tc.expected, limit, "input %d", tc.in)
	}
}

func TestWithTx_CommitsOnSuccess(t *testing.T) {
	db := &fakeDB{}

	err := WithTx(context.Background(), db, func(pgx.Tx) error { return nil })

	assert.NoError(t, err)
	assert.True(t, db.committed)
	assert.False(t, db.rolledBack)
}

func TestWithTx_RollsBackOnError(t *testing.T) {
	db := &fakeDB{}

	err := WithTx(context.Background(), db, func(pgx.Tx) error { return assert.AnError })

	assert.ErrorIs(t, err, assert.AnError)
	assert.False(t, db.committed)
	assert.True(t, db.rolledBack)
}
