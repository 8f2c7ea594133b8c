package payment

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository_GetByOrderID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	t.Run("Found", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{
			"id", "order_id", "amount", "method", "proof_reference", "status",
			"transaction_id", "created_at", "updated_at",
		}).AddRow(1, 5, "272.00", "bank_transfer", "uploads/proof-5.jpg", "pending", nil, time.Now(), time.Now())

		mock.ExpectQuery("FROM payments").
			WithArgs(uint(5)).
			WillReturnRows(rows)

		p, err := repo.GetByOrderID(context.Background(), 5)
		assert.NoError(t, err)
		require.NotNil(t, p)
		assert.Equal(t, StatusPending, p.Status)
		assert.True(t, p.Amount.Equal(decimal.NewFromInt(272)))
	})

	t.Run("Missing returns nil", func(t *testing.T) {
		mock.ExpectQuery("FROM payments").
			WithArgs(uint(99)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		p, err := repo.GetByOrderID(context.Background(), 99)
		assert.NoError(t, err)
		assert.Nil(t, p)
	})
}

func TestInsertTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO payments").
		WithArgs(uint(5), decimal.NewFromInt(272), MethodBankTransfer, nil, StatusPending).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow(1, time.Now(), time.Now()))
	mock.ExpectCommit()

	tx, err := db.Begin()
	require.NoError(t, err)

	p := &Payment{
		OrderID: 5,
		Amount:  decimal.NewFromInt(272),
		Method:  MethodBankTransfer,
		Status:  StatusPending,
	}
	assert.NoError(t, InsertTx(context.Background(), tx, p))
	assert.Equal(t, uint(1), p.ID)
	assert.NoError(t, tx.Commit())
}

func TestUpdateStatusTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE payments").
			WithArgs(StatusCompleted, "TXN-1", uint(5)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		tx, err := db.Begin()
		require.NoError(t, err)

		txn := "TXN-1"
		assert.NoError(t, UpdateStatusTx(context.Background(), tx, 5, StatusCompleted, &txn))
		assert.NoError(t, tx.Commit())
	})

	t.Run("Missing payment", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE payments").
			WithArgs(StatusFailed, nil, uint(99)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		tx, err := db.Begin()
		require.NoError(t, err)

		err = UpdateStatusTx(context.Background(), tx, 99, StatusFailed, nil)
		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.NoError(t, tx.Rollback())
	})
}
