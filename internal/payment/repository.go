package payment

import (
	"context"
	"database/sql"
)

// Execer is the subset of *sql.DB / *sql.Tx the write helpers need, so the
// order checkout and verification transactions can carry payment writes.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Repository interface {
	GetByOrderID(ctx context.Context, orderID uint) (*Payment, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByOrderID(ctx context.Context, orderID uint) (*Payment, error) {
	query := `
	SELECT id, order_id, amount, method, proof_reference, status, transaction_id, created_at, updated_at
	FROM payments
	WHERE order_id = $1
	`

	var p Payment
	err := r.db.QueryRowContext(ctx, query, orderID).Scan(
		&p.ID,
		&p.OrderID,
		&p.Amount,
		&p.Method,
		&p.ProofReference,
		&p.Status,
		&p.TransactionID,
		&p.CreatedAt,
		&p.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &p, nil
}

// InsertTx writes a payment row inside the caller's transaction.
func InsertTx(ctx context.Context, tx Execer, p *Payment) error {
	return tx.QueryRowContext(ctx, `
		INSERT INTO payments (order_id, amount, method, proof_reference, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`, p.OrderID, p.Amount, p.Method, p.ProofReference, p.Status).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

// UpdateStatusTx advances a payment's status inside the caller's transaction.
func UpdateStatusTx(ctx context.Context, tx Execer, orderID uint, status Status, transactionID *string) error {
	res, err := tx.ExecContext(ctx, `
		UPDATE payments
		SET status = $1, transaction_id = COALESCE($2, transaction_id), updated_at = NOW()
		WHERE order_id = $3
	`, status, transactionID, orderID)
	if err != nil {
		return err
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return sql.ErrNoRows
	}

	return nil
}
