package httpx

import (
	"time"

	"github.com/shopspring/decimal"
)

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  any    `json:"user"`
}

type AddToCartRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,gt=0"`
}

type UpdateCartRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}

type ApplyCouponRequest struct {
	Code string `json:"code" binding:"required"`
}

type ShippingRequest struct {
	Name       string `json:"name" binding:"required"`
	Phone      string `json:"phone" binding:"required"`
	Address    string `json:"address" binding:"required"`
	City       string `json:"city" binding:"required"`
	PostalCode string `json:"postal_code" binding:"required"`
}

type CheckoutRequest struct {
	PaymentMethod  string          `json:"payment_method" binding:"required,oneof=bank_transfer e_wallet cash_on_delivery"`
	Shipping       ShippingRequest `json:"shipping" binding:"required"`
	ProofReference *string         `json:"proof_reference,omitempty"`
}

type VerifyPaymentRequest struct {
	Outcome       string  `json:"outcome" binding:"required,oneof=completed failed"`
	TransactionID *string `json:"transaction_id,omitempty"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=processing shipped delivered completed cancelled"`
}

type NewProductRequest struct {
	Name        string          `json:"name" binding:"required"`
	Description *string         `json:"description,omitempty"`
	Brand       string          `json:"brand" binding:"required"`
	CategoryID  uint            `json:"category_id" binding:"required"`
	Price       decimal.Decimal `json:"price" binding:"required"`
	Stock       int             `json:"stock" binding:"gte=0"`
	ImageURL    *string         `json:"image_url,omitempty"`
}

type UpdateProductRequest struct {
	Name        *string          `json:"name,omitempty"`
	Description *string          `json:"description,omitempty"`
	Brand       *string          `json:"brand,omitempty"`
	CategoryID  *uint            `json:"category_id,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Stock       *int             `json:"stock,omitempty"`
	ImageURL    *string          `json:"image_url,omitempty"`
	Active      *bool            `json:"active,omitempty"`
}

type NewCategoryRequest struct {
	Name string `json:"name" binding:"required"`
}

type NewCouponRequest struct {
	Code           string           `json:"code" binding:"required"`
	DiscountType   string           `json:"discount_type" binding:"required,oneof=percentage fixed"`
	DiscountValue  decimal.Decimal  `json:"discount_value" binding:"required"`
	MinOrderAmount decimal.Decimal  `json:"min_order_amount"`
	MaxDiscount    *decimal.Decimal `json:"max_discount,omitempty"`
	ValidFrom      time.Time        `json:"valid_from" binding:"required"`
	ValidUntil     time.Time        `json:"valid_until" binding:"required"`
	UsageLimit     int              `json:"usage_limit" binding:"required,gt=0"`
}
