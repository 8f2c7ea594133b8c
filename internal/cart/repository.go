package cart

import (
	"context"
	"database/sql"

	"moonstore-be/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	GetCartItemByUserAndProduct(ctx context.Context, userID, productID uint) (*CartItem, error)
	GetCartItemByID(ctx context.Context, cartItemID uint) (*CartItem, error)
	CreateCartItem(ctx context.Context, params AddToCartParams) (*CartItem, error)
	UpdateCartItemQuantity(ctx context.Context, cartItemID uint, quantity int) (*CartItem, error)
	RemoveFromCart(ctx context.Context, params DeleteFromCartParams) error
	ClearCart(ctx context.Context, userID uint) error
	GetCartLines(ctx context.Context, userID uint) ([]*CartLine, error)
	CountItems(ctx context.Context, userID uint) (int, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetCartItemByUserAndProduct(ctx context.Context, userID, productID uint) (*CartItem, error) {
	query := `
	SELECT id, user_id, product_id, quantity, created_at, updated_at
	FROM cart_items
	WHERE user_id = $1 AND product_id = $2
	`

	var item CartItem
	err := r.db.QueryRowContext(ctx, query, userID, productID).Scan(
		&item.ID,
		&item.UserID,
		&item.ProductID,
		&item.Quantity,
		&item.CreatedAt,
		&item.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &item, nil
}

func (r *repository) GetCartItemByID(ctx context.Context, cartItemID uint) (*CartItem, error) {
	query := `
	SELECT id, user_id, product_id, quantity, created_at, updated_at
	FROM cart_items
	WHERE id = $1
	`

	var item CartItem
	err := r.db.QueryRowContext(ctx, query, cartItemID).Scan(
		&item.ID,
		&item.UserID,
		&item.ProductID,
		&item.Quantity,
		&item.CreatedAt,
		&item.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &item, nil
}

func (r *repository) CreateCartItem(ctx context.Context, params AddToCartParams) (*CartItem, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "CreateCartItem"),
		zap.Uint("user_id", params.UserID),
		zap.Uint("product_id", params.ProductID),
	)

	query := `
	INSERT INTO cart_items (user_id, product_id, quantity)
	VALUES ($1, $2, $3)
	RETURNING id, user_id, product_id, quantity, created_at, updated_at
	`

	var item CartItem
	err := r.db.QueryRowContext(ctx, query, params.UserID, params.ProductID, params.Quantity).Scan(
		&item.ID,
		&item.UserID,
		&item.ProductID,
		&item.Quantity,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to create cart item", zap.Error(err))
		return nil, err
	}

	log.Info("cart item created", zap.Uint("cart_item_id", item.ID))
	return &item, nil
}

func (r *repository) UpdateCartItemQuantity(ctx context.Context, cartItemID uint, quantity int) (*CartItem, error) {
	query := `
	UPDATE cart_items
	SET quantity = $1, updated_at = NOW()
	WHERE id = $2
	RETURNING id, user_id, product_id, quantity, created_at, updated_at
	`

	var item CartItem
	err := r.db.QueryRowContext(ctx, query, quantity, cartItemID).Scan(
		&item.ID,
		&item.UserID,
		&item.ProductID,
		&item.Quantity,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrCartItemNotFound
	}
	if err != nil {
		return nil, err
	}

	return &item, nil
}

func (r *repository) RemoveFromCart(ctx context.Context, params DeleteFromCartParams) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM cart_items
		WHERE id = $1 AND user_id = $2
	`, params.CartItemID, params.UserID)
	if err != nil {
		return err
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrCartItemNotFound
	}

	return nil
}

func (r *repository) ClearCart(ctx context.Context, userID uint) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM cart_items WHERE user_id = $1`, userID)
	return err
}

func (r *repository) GetCartLines(ctx context.Context, userID uint) ([]*CartLine, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "GetCartLines"),
		zap.Uint("user_id", userID),
	)

	query := `
	SELECT
		c.id,
		c.user_id,
		c.product_id,
		c.quantity,
		c.created_at,
		c.updated_at,

		p.name,
		p.slug,
		p.price,
		p.stock,
		p.image_url
	FROM cart_items c
	JOIN products p ON c.product_id = p.id
	WHERE c.user_id = $1
	ORDER BY c.created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		log.Error("query failed", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var result []*CartLine
	for rows.Next() {
		var line CartLine
		if err := rows.Scan(
			&line.ID,
			&line.UserID,
			&line.ProductID,
			&line.Quantity,
			&line.CreatedAt,
			&line.UpdatedAt,
			&line.ProductName,
			&line.ProductSlug,
			&line.UnitPrice,
			&line.Stock,
			&line.ImageURL,
		); err != nil {
			log.Error("row scan failed", zap.Error(err))
			return nil, err
		}

		line.LineSubtotal = line.UnitPrice.Mul(decimalFromInt(line.Quantity))
		result = append(result, &line)
	}

	return result, rows.Err()
}

func (r *repository) CountItems(ctx context.Context, userID uint) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(quantity), 0) FROM cart_items WHERE user_id = $1
	`, userID).Scan(&count)
	return count, err
}
