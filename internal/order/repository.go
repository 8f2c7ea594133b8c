package order

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"moonstore-be/internal/db"
	"moonstore-be/internal/logger"
	"moonstore-be/internal/payment"

	"go.uber.org/zap"
)

type Repository interface {
	// Checkout persists the order, its items, the payment row, the stock
	// decrements, the cart clear and the discount consumption in a single
	// transaction.
	Checkout(ctx context.Context, o *Order, p *payment.Payment, redemptionID *uint) error
	GetByID(ctx context.Context, orderID uint) (*Order, error)
	List(ctx context.Context, opts ListOptions) ([]*Order, error)
	// UpdateStatus moves an order from a known status to another, failing
	// with ErrInvalidTransition when the row is no longer in `from`.
	UpdateStatus(ctx context.Context, orderID uint, from, to Status) error
	// Finalize advances order and payment status together, optionally
	// restoring stock for every order item, in a single transaction.
	Finalize(ctx context.Context, orderID uint, from, to Status, payStatus payment.Status, txnID *string, restock bool) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(database *sql.DB) Repository {
	return &repository{db: database}
}

func (r *repository) Checkout(ctx context.Context, o *Order, p *payment.Payment, redemptionID *uint) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "Checkout"),
		zap.Uint("user_id", o.UserID),
		zap.String("order_number", o.OrderNumber),
		zap.Int("item_count", len(o.Items)),
	)

	start := time.Now()

	err := db.WithTransaction(ctx, r.db, db.DefaultTxOptions(), func(tx *sql.Tx) error {
		// 1. Insert order
		err := tx.QueryRowContext(ctx, `
			INSERT INTO orders (
				user_id, order_number, status,
				subtotal, tax, shipping_fee, discount, total,
				payment_method,
				shipping_name, shipping_phone, shipping_address, shipping_city, shipping_postal_code
			)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
			RETURNING id, created_at, updated_at
		`,
			o.UserID,
			o.OrderNumber,
			o.Status,
			o.Subtotal,
			o.Tax,
			o.ShippingFee,
			o.Discount,
			o.Total,
			o.PaymentMethod,
			o.Shipping.Name,
			o.Shipping.Phone,
			o.Shipping.Address,
			o.Shipping.City,
			o.Shipping.PostalCode,
		).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
		if err != nil {
			return err
		}

		// 2. Insert items + deduct stock
		for i := range o.Items {
			item := &o.Items[i]
			item.OrderID = o.ID

			err = tx.QueryRowContext(ctx, `
				INSERT INTO order_items (order_id, product_id, product_name, quantity, unit_price, subtotal)
				VALUES ($1,$2,$3,$4,$5,$6)
				RETURNING id
			`,
				item.OrderID,
				item.ProductID,
				item.ProductName,
				item.Quantity,
				item.UnitPrice,
				item.Subtotal,
			).Scan(&item.ID)
			if err != nil {
				return err
			}

			// Conditional decrement guards against concurrent checkouts
			// overselling the same product.
			res, err := tx.ExecContext(ctx, `
				UPDATE products
				SET stock = stock - $1, updated_at = NOW()
				WHERE id = $2 AND stock >= $1
			`, item.Quantity, item.ProductID)
			if err != nil {
				return err
			}

			rowsAffected, err := res.RowsAffected()
			if err != nil {
				return err
			}
			if rowsAffected == 0 {
				return ErrInsufficientStock
			}
		}

		// 3. Insert payment
		p.OrderID = o.ID
		if err := payment.InsertTx(ctx, tx, p); err != nil {
			return err
		}

		// 4. Clear cart
		if _, err := tx.ExecContext(ctx, `DELETE FROM cart_items WHERE user_id = $1`, o.UserID); err != nil {
			return err
		}

		// 5. Consume applied discount
		if redemptionID != nil {
			_, err := tx.ExecContext(ctx, `
				UPDATE coupon_redemptions
				SET status = 'consumed', updated_at = NOW()
				WHERE id = $1 AND status = 'applied'
			`, *redemptionID)
			if err != nil {
				return err
			}
		}

		return nil
	})

	if err != nil {
		log.Error("checkout transaction failed",
			zap.Error(err),
			zap.Duration("duration", time.Since(start)),
		)
		return err
	}

	o.Payment = p

	log.Info("checkout transaction committed",
		zap.Uint("order_id", o.ID),
		zap.Duration("duration", time.Since(start)),
	)

	return nil
}

const orderColumns = `
	id,
	user_id,
	order_number,
	status,
	subtotal,
	tax,
	shipping_fee,
	discount,
	total,
	payment_method,
	shipping_name,
	shipping_phone,
	shipping_address,
	shipping_city,
	shipping_postal_code,
	created_at,
	updated_at`

func scanOrder(row interface{ Scan(...any) error }) (*Order, error) {
	var o Order
	err := row.Scan(
		&o.ID,
		&o.UserID,
		&o.OrderNumber,
		&o.Status,
		&o.Subtotal,
		&o.Tax,
		&o.ShippingFee,
		&o.Discount,
		&o.Total,
		&o.PaymentMethod,
		&o.Shipping.Name,
		&o.Shipping.Phone,
		&o.Shipping.Address,
		&o.Shipping.City,
		&o.Shipping.PostalCode,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *repository) GetByID(ctx context.Context, orderID uint) (*Order, error) {
	o, err := scanOrder(r.db.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1`, orderID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	items, err := r.getItems(ctx, orderID)
	if err != nil {
		return nil, err
	}
	o.Items = items

	return o, nil
}

func (r *repository) getItems(ctx context.Context, orderID uint) ([]OrderItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, order_id, product_id, product_name, quantity, unit_price, subtotal
		FROM order_items
		WHERE order_id = $1
		ORDER BY id
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []OrderItem
	for rows.Next() {
		var item OrderItem
		if err := rows.Scan(
			&item.ID,
			&item.OrderID,
			&item.ProductID,
			&item.ProductName,
			&item.Quantity,
			&item.UnitPrice,
			&item.Subtotal,
		); err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

func (r *repository) List(ctx context.Context, opts ListOptions) ([]*Order, error) {
	finalLimit := int32(20)
	if opts.Limit != nil && *opts.Limit > 0 {
		finalLimit = *opts.Limit
	}
	if finalLimit > 100 {
		finalLimit = 100
	}

	finalPage := int32(1)
	if opts.Page != nil && *opts.Page > 0 {
		finalPage = *opts.Page
	}

	offset := int((finalPage - 1) * finalLimit)

	where := []string{"TRUE"}
	args := []any{}

	if opts.UserID != nil {
		where = append(where, fmt.Sprintf("user_id = $%d", len(args)+1))
		args = append(args, *opts.UserID)
	}
	if opts.Status != nil {
		where = append(where, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, *opts.Status)
	}

	query := `SELECT ` + orderColumns + `
	FROM orders
	WHERE ` + strings.Join(where, " AND ") + `
	ORDER BY created_at DESC
	LIMIT $` + fmt.Sprint(len(args)+1) + `
	OFFSET $` + fmt.Sprint(len(args)+2)

	args = append(args, finalLimit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]*Order, 0, finalLimit)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, o)
	}

	return result, rows.Err()
}

func (r *repository) UpdateStatus(ctx context.Context, orderID uint, from, to Status) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3
	`, to, orderID, from)
	if err != nil {
		return err
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrInvalidTransition
	}

	return nil
}

func (r *repository) Finalize(ctx context.Context, orderID uint, from, to Status, payStatus payment.Status, txnID *string, restock bool) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "Finalize"),
		zap.Uint("order_id", orderID),
		zap.String("to_status", string(to)),
		zap.Bool("restock", restock),
	)

	err := db.WithTransaction(ctx, r.db, db.DefaultTxOptions(), func(tx *sql.Tx) error {
		// The status guard makes concurrent admin actions lose cleanly.
		res, err := tx.ExecContext(ctx, `
			UPDATE orders
			SET status = $1, updated_at = NOW()
			WHERE id = $2 AND status = $3
		`, to, orderID, from)
		if err != nil {
			return err
		}

		rowsAffected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if rowsAffected == 0 {
			return ErrInvalidTransition
		}

		if err := payment.UpdateStatusTx(ctx, tx, orderID, payStatus, txnID); err != nil {
			return err
		}

		if restock {
			_, err := tx.ExecContext(ctx, `
				UPDATE products p
				SET stock = p.stock + oi.quantity, updated_at = NOW()
				FROM order_items oi
				WHERE oi.order_id = $1 AND oi.product_id = p.id
			`, orderID)
			if err != nil {
				return err
			}
		}

		return nil
	})

	if err != nil {
		log.Error("finalize transaction failed", zap.Error(err))
		return err
	}

	log.Info("order finalized")
	return nil
}
