package coupon

import (
	"context"
	"database/sql"

	"moonstore-be/internal/logger"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Repository interface {
	GetByCode(ctx context.Context, code string) (*Coupon, error)
	IncrementUsage(ctx context.Context, couponID uint) error
	UpsertRedemption(ctx context.Context, userID, couponID uint, amount decimal.Decimal) (*Redemption, error)
	GetAppliedRedemption(ctx context.Context, userID uint) (*Redemption, error)
	Create(ctx context.Context, input NewCouponInput) (*Coupon, error)
	List(ctx context.Context) ([]*Coupon, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const couponColumns = `
	id,
	code,
	discount_type,
	discount_value,
	min_order_amount,
	max_discount,
	valid_from,
	valid_until,
	usage_limit,
	used_count,
	created_at,
	updated_at`

func scanCoupon(row interface{ Scan(...any) error }) (*Coupon, error) {
	var c Coupon
	err := row.Scan(
		&c.ID,
		&c.Code,
		&c.DiscountType,
		&c.DiscountValue,
		&c.MinOrderAmount,
		&c.MaxDiscount,
		&c.ValidFrom,
		&c.ValidUntil,
		&c.UsageLimit,
		&c.UsedCount,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repository) GetByCode(ctx context.Context, code string) (*Coupon, error) {
	query := `SELECT ` + couponColumns + ` FROM coupons WHERE code = $1`

	c, err := scanCoupon(r.db.QueryRowContext(ctx, query, code))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// IncrementUsage bumps used_count while it remains under the usage cap.
func (r *repository) IncrementUsage(ctx context.Context, couponID uint) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE coupons
		SET used_count = used_count + 1, updated_at = NOW()
		WHERE id = $1 AND used_count < usage_limit
	`, couponID)
	if err != nil {
		return err
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrUsageExhausted
	}

	return nil
}

func (r *repository) UpsertRedemption(ctx context.Context, userID, couponID uint, amount decimal.Decimal) (*Redemption, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "UpsertRedemption"),
		zap.Uint("user_id", userID),
		zap.Uint("coupon_id", couponID),
	)

	// One live discount per user; re-applying replaces it.
	query := `
	INSERT INTO coupon_redemptions (user_id, coupon_id, amount, status)
	VALUES ($1, $2, $3, 'applied')
	ON CONFLICT (user_id) WHERE status = 'applied'
	DO UPDATE SET coupon_id = EXCLUDED.coupon_id, amount = EXCLUDED.amount, updated_at = NOW()
	RETURNING id, user_id, coupon_id, amount, status, created_at, updated_at
	`

	var red Redemption
	err := r.db.QueryRowContext(ctx, query, userID, couponID, amount).Scan(
		&red.ID,
		&red.UserID,
		&red.CouponID,
		&red.Amount,
		&red.Status,
		&red.CreatedAt,
		&red.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to upsert redemption", zap.Error(err))
		return nil, err
	}

	log.Info("discount applied", zap.String("amount", red.Amount.String()))
	return &red, nil
}

func (r *repository) GetAppliedRedemption(ctx context.Context, userID uint) (*Redemption, error) {
	query := `
	SELECT id, user_id, coupon_id, amount, status, created_at, updated_at
	FROM coupon_redemptions
	WHERE user_id = $1 AND status = 'applied'
	`

	var red Redemption
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&red.ID,
		&red.UserID,
		&red.CouponID,
		&red.Amount,
		&red.Status,
		&red.CreatedAt,
		&red.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &red, nil
}

func (r *repository) Create(ctx context.Context, input NewCouponInput) (*Coupon, error) {
	query := `
	INSERT INTO coupons (
		code, discount_type, discount_value, min_order_amount,
		max_discount, valid_from, valid_until, usage_limit
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	RETURNING ` + couponColumns

	c, err := scanCoupon(r.db.QueryRowContext(
		ctx,
		query,
		input.Code,
		input.DiscountType,
		input.DiscountValue,
		input.MinOrderAmount,
		input.MaxDiscount,
		input.ValidFrom,
		input.ValidUntil,
		input.UsageLimit,
	))
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *repository) List(ctx context.Context) ([]*Coupon, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+couponColumns+` FROM coupons ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*Coupon
	for rows.Next() {
		c, err := scanCoupon(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, c)
	}

	return result, rows.Err()
}
