package coupon

import (
	"time"

	"github.com/shopspring/decimal"
)

type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

type RedemptionStatus string

const (
	RedemptionApplied  RedemptionStatus = "applied"
	RedemptionConsumed RedemptionStatus = "consumed"
)

type Coupon struct {
	ID             uint             `json:"id"`
	Code           string           `json:"code"`
	DiscountType   DiscountType     `json:"discount_type"`
	DiscountValue  decimal.Decimal  `json:"discount_value"`
	MinOrderAmount decimal.Decimal  `json:"min_order_amount"`
	MaxDiscount    *decimal.Decimal `json:"max_discount,omitempty"`
	ValidFrom      time.Time        `json:"valid_from"`
	ValidUntil     time.Time        `json:"valid_until"`
	UsageLimit     int              `json:"usage_limit"`
	UsedCount      int              `json:"used_count"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Redemption holds a user's applied discount between coupon application
// and the checkout that consumes it.
type Redemption struct {
	ID       uint             `json:"id"`
	UserID   uint             `json:"user_id"`
	CouponID uint             `json:"coupon_id"`
	Amount   decimal.Decimal  `json:"amount"`
	Status   RedemptionStatus `json:"status"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type NewCouponInput struct {
	Code           string
	DiscountType   DiscountType
	DiscountValue  decimal.Decimal
	MinOrderAmount decimal.Decimal
	MaxDiscount    *decimal.Decimal
	ValidFrom      time.Time
	ValidUntil     time.Time
	UsageLimit     int
}
