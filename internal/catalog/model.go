package catalog

import (
	"time"

	"github.com/shopspring/decimal"
)

type Category struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type Product struct {
	ID          uint            `json:"id"`
	Name        string          `json:"name"`
	Slug        string          `json:"slug"`
	Description *string         `json:"description,omitempty"`
	Brand       string          `json:"brand"`
	CategoryID  uint            `json:"category_id"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	ImageURL    *string         `json:"image_url,omitempty"`
	Active      bool            `json:"active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type GetProductOptions struct {
	ProductID  uint
	OnlyActive bool
}

type NewProductInput struct {
	Name        string
	Description *string
	Brand       string
	CategoryID  uint
	Price       decimal.Decimal
	Stock       int
	ImageURL    *string
}

type UpdateProductInput struct {
	Name        *string
	Description *string
	Brand       *string
	CategoryID  *uint
	Price       *decimal.Decimal
	Stock       *int
	ImageURL    *string
	Active      *bool
}

type ProductFilter struct {
	CategoryID *uint
	Brand      *string
	Search     *string
	InStock    *bool
}

type ProductSort struct {
	Field     string // price | name | created_at
	Direction string // asc | desc
}

type ProductQueryOptions struct {
	Filter *ProductFilter
	Sort   *ProductSort
	Limit  *int32
	Page   *int32
}
