package cart

import (
	"context"

	"moonstore-be/internal/catalog"
	"moonstore-be/internal/logger"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func decimalFromInt(n int) decimal.Decimal {
	return decimal.NewFromInt(int64(n))
}

// Service defines the business logic for carts.
type Service interface {
	AddItem(ctx context.Context, params AddToCartParams) (*CartItem, error)
	UpdateQuantity(ctx context.Context, params UpdateCartParams) error
	RemoveItem(ctx context.Context, params DeleteFromCartParams) error
	Clear(ctx context.Context, userID uint) error
	List(ctx context.Context, userID uint) ([]*CartLine, error)
	Count(ctx context.Context, userID uint) (int, error)
}

type service struct {
	repo        Repository
	catalogRepo catalog.Repository
}

func NewService(repo Repository, catalogRepo catalog.Repository) Service {
	return &service{repo: repo, catalogRepo: catalogRepo}
}

// AddItem adds a product to a user's cart, incrementing the quantity of an
// existing line. The combined quantity must fit within current stock.
func (s *service) AddItem(ctx context.Context, params AddToCartParams) (*CartItem, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "AddItem"),
		zap.Uint("user_id", params.UserID),
		zap.Uint("product_id", params.ProductID),
		zap.Int("quantity", params.Quantity),
	)

	if params.Quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	product, err := s.catalogRepo.GetProductByID(ctx, catalog.GetProductOptions{
		ProductID:  params.ProductID,
		OnlyActive: true,
	})
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	existing, err := s.repo.GetCartItemByUserAndProduct(ctx, params.UserID, params.ProductID)
	if err != nil {
		return nil, err
	}

	finalQty := params.Quantity
	if existing != nil {
		finalQty += existing.Quantity
	}

	if finalQty > product.Stock {
		log.Warn("insufficient stock",
			zap.Int("requested", finalQty),
			zap.Int("stock", product.Stock),
		)
		return nil, ErrInsufficientStock
	}

	if existing == nil {
		return s.repo.CreateCartItem(ctx, params)
	}
	return s.repo.UpdateCartItemQuantity(ctx, existing.ID, finalQty)
}

// UpdateQuantity sets the quantity of a cart line the user owns.
// A quantity of zero or less removes the line.
func (s *service) UpdateQuantity(ctx context.Context, params UpdateCartParams) error {
	item, err := s.repo.GetCartItemByID(ctx, params.CartItemID)
	if err != nil {
		return err
	}
	if item == nil {
		return ErrCartItemNotFound
	}
	if item.UserID != params.UserID {
		return ErrUnauthorized
	}

	if params.Quantity <= 0 {
		return s.repo.RemoveFromCart(ctx, DeleteFromCartParams{
			UserID:     params.UserID,
			CartItemID: params.CartItemID,
		})
	}

	product, err := s.catalogRepo.GetProductByID(ctx, catalog.GetProductOptions{
		ProductID:  item.ProductID,
		OnlyActive: true,
	})
	if err != nil {
		return err
	}
	if product == nil {
		return ErrProductNotFound
	}
	if params.Quantity > product.Stock {
		return ErrInsufficientStock
	}

	_, err = s.repo.UpdateCartItemQuantity(ctx, params.CartItemID, params.Quantity)
	return err
}

func (s *service) RemoveItem(ctx context.Context, params DeleteFromCartParams) error {
	item, err := s.repo.GetCartItemByID(ctx, params.CartItemID)
	if err != nil {
		return err
	}
	if item == nil {
		return ErrCartItemNotFound
	}
	if item.UserID != params.UserID {
		return ErrUnauthorized
	}

	return s.repo.RemoveFromCart(ctx, params)
}

func (s *service) Clear(ctx context.Context, userID uint) error {
	return s.repo.ClearCart(ctx, userID)
}

func (s *service) List(ctx context.Context, userID uint) ([]*CartLine, error) {
	return s.repo.GetCartLines(ctx, userID)
}

// Count returns the total quantity across the user's cart for badge display.
func (s *service) Count(ctx context.Context, userID uint) (int, error) {
	return s.repo.CountItems(ctx, userID)
}
