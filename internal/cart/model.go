package cart

import (
	"time"

	"github.com/shopspring/decimal"
)

type CartItem struct {
	ID        uint `json:"id"`
	UserID    uint `json:"user_id"`
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CartLine is a cart item joined with the live product row.
type CartLine struct {
	CartItem
	ProductName  string          `json:"product_name"`
	ProductSlug  string          `json:"product_slug"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Stock        int             `json:"stock"`
	ImageURL     *string         `json:"image_url,omitempty"`
	LineSubtotal decimal.Decimal `json:"line_subtotal"`
}

type AddToCartParams struct {
	UserID    uint
	ProductID uint
	Quantity  int
}

type UpdateCartParams struct {
	UserID     uint
	CartItemID uint
	Quantity   int
}

type DeleteFromCartParams struct {
	UserID     uint
	CartItemID uint
}
