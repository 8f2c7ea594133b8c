package catalog

import (
	"context"

	"moonstore-be/internal/logger"
	"moonstore-be/internal/notify"

	"go.uber.org/zap"
)

// Service defines the business logic for the product catalog.
type Service interface {
	GetProduct(ctx context.Context, productID uint) (*Product, error)
	GetProductBySlug(ctx context.Context, slug string) (*Product, error)
	ListProducts(ctx context.Context, opts ProductQueryOptions) ([]*Product, error)
	CreateProduct(ctx context.Context, input NewProductInput) (*Product, error)
	UpdateProduct(ctx context.Context, productID uint, input UpdateProductInput) (*Product, error)
	DeleteProduct(ctx context.Context, productID uint) error

	ListCategories(ctx context.Context, filter *string) ([]*Category, error)
	AddCategory(ctx context.Context, name string) (*Category, error)
}

type service struct {
	repo     Repository
	notifier notify.Notifier
}

func NewService(repo Repository, notifier notify.Notifier) Service {
	return &service{repo: repo, notifier: notifier}
}

func (s *service) GetProduct(ctx context.Context, productID uint) (*Product, error) {
	p, err := s.repo.GetProductByID(ctx, GetProductOptions{ProductID: productID, OnlyActive: true})
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProductNotFound
	}
	return p, nil
}

func (s *service) GetProductBySlug(ctx context.Context, slug string) (*Product, error) {
	p, err := s.repo.GetProductBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProductNotFound
	}
	return p, nil
}

func (s *service) ListProducts(ctx context.Context, opts ProductQueryOptions) ([]*Product, error) {
	return s.repo.GetProducts(ctx, opts)
}

func (s *service) CreateProduct(ctx context.Context, input NewProductInput) (*Product, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "CreateProduct"),
		zap.String("name", input.Name),
	)

	if input.Price.IsNegative() {
		return nil, ErrInvalidPrice
	}
	if input.Stock < 0 {
		return nil, ErrInvalidStock
	}

	p, err := s.repo.CreateProduct(ctx, input, Slugify(input.Name))
	if err != nil {
		log.Error("failed to create product", zap.Error(err))
		return nil, err
	}

	s.notifier.Notify(notify.Event{
		Kind: notify.EventProductCreated,
		Fields: map[string]any{
			"product_id": p.ID,
			"name":       p.Name,
			"price":      p.Price.String(),
			"stock":      p.Stock,
		},
	})

	return p, nil
}

func (s *service) UpdateProduct(ctx context.Context, productID uint, input UpdateProductInput) (*Product, error) {
	if input.Price != nil && input.Price.IsNegative() {
		return nil, ErrInvalidPrice
	}
	if input.Stock != nil && *input.Stock < 0 {
		return nil, ErrInvalidStock
	}

	p, err := s.repo.UpdateProduct(ctx, productID, input)
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(notify.Event{
		Kind: notify.EventProductUpdated,
		Fields: map[string]any{
			"product_id": p.ID,
			"name":       p.Name,
		},
	})

	return p, nil
}

func (s *service) DeleteProduct(ctx context.Context, productID uint) error {
	if err := s.repo.DeleteProduct(ctx, productID); err != nil {
		return err
	}

	s.notifier.Notify(notify.Event{
		Kind:   notify.EventProductDeleted,
		Fields: map[string]any{"product_id": productID},
	})

	return nil
}

func (s *service) ListCategories(ctx context.Context, filter *string) ([]*Category, error) {
	return s.repo.GetCategories(ctx, filter)
}

func (s *service) AddCategory(ctx context.Context, name string) (*Category, error) {
	return s.repo.AddCategory(ctx, name, Slugify(name))
}
