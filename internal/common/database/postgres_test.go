package database

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithTx(t *testing.T) {
	t.Run("commits on success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectExec("UPDATE manager_profiles").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err = WithTx(context.Background(), db, func(tx *sql.Tx) error {
			_, err := tx.Exec("UPDATE manager_profiles SET verification_status = 'pending'")
			return err
		})

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back on error", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectRollback()

		boom := fmt.Errorf("boom")
		err = WithTx(context.Background(), db, func(tx *sql.Tx) error { return boom })

		assert.ErrorIs(t, err, boom)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestIsPQCode(t *testing.T) {
	fk := &pq.Error{Code: CodeForeignKeyViolation}

	assert.True(t, IsPQCode(fk, CodeForeignKeyViolation))
	assert.True(t, IsPQCode(fmt.Errorf("insert: %w", fk), CodeForeignKeyViolation))
	assert.False(t, IsPQCode(fk, CodeUniqueViolation))
	assert.False(t, IsPQCode(fmt.Errorf("plain"), CodeForeignKeyViolation))
}
