package coupon

import "errors"

var (
	// -- Resource State --
	ErrInvalidCoupon  = errors.New("invalid or expired coupon")
	ErrBelowMinOrder  = errors.New("order subtotal below coupon minimum")
	ErrUsageExhausted = errors.New("coupon usage limit reached")
	ErrCartEmpty      = errors.New("cart is empty")

	// -- Validation & Input --
	ErrInvalidDiscount = errors.New("invalid discount configuration")
)
