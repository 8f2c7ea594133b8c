package coupon

import (
	"context"
	"strings"
	"time"

	"moonstore-be/internal/cart"
	"moonstore-be/internal/logger"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Service defines the business logic for coupons.
type Service interface {
	// Apply validates the coupon against the user's current cart and stores
	// the computed discount for the next checkout.
	Apply(ctx context.Context, userID uint, code string) (*Redemption, error)
	Create(ctx context.Context, input NewCouponInput) (*Coupon, error)
	List(ctx context.Context) ([]*Coupon, error)
}

type service struct {
	repo     Repository
	cartRepo cart.Repository
}

func NewService(repo Repository, cartRepo cart.Repository) Service {
	return &service{repo: repo, cartRepo: cartRepo}
}

func (s *service) Apply(ctx context.Context, userID uint, code string) (*Redemption, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Apply"),
		zap.Uint("user_id", userID),
		zap.String("code", code),
	)

	c, err := s.repo.GetByCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return nil, err
	}
	if c == nil {
		log.Warn("coupon not found")
		return nil, ErrInvalidCoupon
	}

	now := time.Now()
	if now.Before(c.ValidFrom) || now.After(c.ValidUntil) {
		log.Warn("coupon outside validity window")
		return nil, ErrInvalidCoupon
	}
	if c.UsedCount >= c.UsageLimit {
		log.Warn("coupon usage cap reached")
		return nil, ErrInvalidCoupon
	}

	lines, err := s.cartRepo.GetCartLines(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, ErrCartEmpty
	}

	subtotal := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(line.LineSubtotal)
	}

	if subtotal.LessThan(c.MinOrderAmount) {
		log.Warn("subtotal below coupon minimum",
			zap.String("subtotal", subtotal.String()),
			zap.String("min_order_amount", c.MinOrderAmount.String()),
		)
		return nil, ErrBelowMinOrder
	}

	discount := ComputeDiscount(c, subtotal)
	if !discount.IsPositive() {
		return nil, ErrInvalidDiscount
	}

	// The usage slot is consumed at apply time, matching the storefront's
	// observed behavior: abandoning checkout still spends the slot.
	if err := s.repo.IncrementUsage(ctx, c.ID); err != nil {
		return nil, err
	}

	red, err := s.repo.UpsertRedemption(ctx, userID, c.ID, discount)
	if err != nil {
		return nil, err
	}

	log.Info("coupon applied",
		zap.String("discount", discount.String()),
		zap.String("subtotal", subtotal.String()),
	)

	return red, nil
}

// ComputeDiscount returns the discount a coupon grants on a subtotal:
// a percentage capped at max_discount, or a fixed amount capped at the
// subtotal itself.
func ComputeDiscount(c *Coupon, subtotal decimal.Decimal) decimal.Decimal {
	var discount decimal.Decimal

	switch c.DiscountType {
	case DiscountPercentage:
		discount = subtotal.Mul(c.DiscountValue).Div(decimal.NewFromInt(100))
		if c.MaxDiscount != nil && discount.GreaterThan(*c.MaxDiscount) {
			discount = *c.MaxDiscount
		}
	case DiscountFixed:
		discount = c.DiscountValue
	default:
		return decimal.Zero
	}

	if discount.GreaterThan(subtotal) {
		discount = subtotal
	}

	return discount.Round(2)
}

func (s *service) Create(ctx context.Context, input NewCouponInput) (*Coupon, error) {
	if input.DiscountType != DiscountPercentage && input.DiscountType != DiscountFixed {
		return nil, ErrInvalidDiscount
	}
	if !input.DiscountValue.IsPositive() {
		return nil, ErrInvalidDiscount
	}

	input.Code = strings.ToUpper(strings.TrimSpace(input.Code))
	return s.repo.Create(ctx, input)
}

func (s *service) List(ctx context.Context) ([]*Coupon, error) {
	return s.repo.List(ctx)
}
