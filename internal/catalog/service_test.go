package catalog

import (
	"context"
	"errors"
	"sync"
	"testing"

	"moonstore-be/internal/notify"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockRepository is a mock implementation of the Repository interface
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) GetProductByID(ctx context.Context, opts GetProductOptions) (*Product, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Product), args.Error(1)
}

func (m *MockRepository) GetProductBySlug(ctx context.Context, slug string) (*Product, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Product), args.Error(1)
}

func (m *MockRepository) GetProducts(ctx context.Context, opts ProductQueryOptions) ([]*Product, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Product), args.Error(1)
}

func (m *MockRepository) CreateProduct(ctx context.Context, input NewProductInput, slug string) (*Product, error) {
	args := m.Called(ctx, input, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Product), args.Error(1)
}

func (m *MockRepository) UpdateProduct(ctx context.Context, productID uint, input UpdateProductInput) (*Product, error) {
	args := m.Called(ctx, productID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Product), args.Error(1)
}

func (m *MockRepository) DeleteProduct(ctx context.Context, productID uint) error {
	args := m.Called(ctx, productID)
	return args.Error(0)
}

func (m *MockRepository) GetCategories(ctx context.Context, filter *string) ([]*Category, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Category), args.Error(1)
}

func (m *MockRepository) AddCategory(ctx context.Context, name, slug string) (*Category, error) {
	args := m.Called(ctx, name, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Category), args.Error(1)
}

// recorderNotifier captures emitted events for assertions.
type recorderNotifier struct {
	mu     sync.Mutex
	events []notify.Event
}

func (r *recorderNotifier) Notify(e notify.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorderNotifier) kinds() []notify.EventKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]notify.EventKind, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Kind)
	}
	return out
}

func TestGetProduct(t *testing.T) {
	ctx := context.Background()

	t.Run("active product returned", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, notify.Noop{})

		repo.On("GetProductByID", ctx, GetProductOptions{ProductID: 7, OnlyActive: true}).
			Return(&Product{ID: 7, Name: "Mug"}, nil)

		p, err := svc.GetProduct(ctx, 7)
		assert.NoError(t, err)
		assert.Equal(t, "Mug", p.Name)
	})

	t.Run("missing product", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, notify.Noop{})

		repo.On("GetProductByID", ctx, mock.Anything).Return(nil, nil)

		_, err := svc.GetProduct(ctx, 7)
		assert.ErrorIs(t, err, ErrProductNotFound)
	})

	t.Run("repository error propagated", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, notify.Noop{})
		boom := errors.New("boom")

		repo.On("GetProductByID", ctx, mock.Anything).Return(nil, boom)

		_, err := svc.GetProduct(ctx, 7)
		assert.ErrorIs(t, err, boom)
	})
}

func TestCreateProduct(t *testing.T) {
	ctx := context.Background()
	input := NewProductInput{
		Name:       "Ceramic Mug",
		Brand:      "Moon",
		CategoryID: 2,
		Price:      decimal.NewFromInt(100),
		Stock:      5,
	}

	t.Run("slugifies name and emits event", func(t *testing.T) {
		repo := new(MockRepository)
		rec := &recorderNotifier{}
		svc := NewService(repo, rec)

		repo.On("CreateProduct", ctx, input, "ceramic-mug").
			Return(&Product{ID: 7, Name: input.Name, Slug: "ceramic-mug", Price: input.Price, Stock: 5}, nil)

		p, err := svc.CreateProduct(ctx, input)
		assert.NoError(t, err)
		assert.Equal(t, "ceramic-mug", p.Slug)
		assert.Equal(t, []notify.EventKind{notify.EventProductCreated}, rec.kinds())
		repo.AssertExpectations(t)
	})

	t.Run("negative price rejected", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, notify.Noop{})

		bad := input
		bad.Price = decimal.NewFromInt(-1)

		_, err := svc.CreateProduct(ctx, bad)
		assert.ErrorIs(t, err, ErrInvalidPrice)
		repo.AssertNotCalled(t, "CreateProduct")
	})

	t.Run("negative stock rejected", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, notify.Noop{})

		bad := input
		bad.Stock = -1

		_, err := svc.CreateProduct(ctx, bad)
		assert.ErrorIs(t, err, ErrInvalidStock)
	})
}

func TestUpdateProduct(t *testing.T) {
	ctx := context.Background()

	t.Run("partial update emits event", func(t *testing.T) {
		repo := new(MockRepository)
		rec := &recorderNotifier{}
		svc := NewService(repo, rec)

		price := decimal.NewFromInt(120)
		in := UpdateProductInput{Price: &price}

		repo.On("UpdateProduct", ctx, uint(7), in).
			Return(&Product{ID: 7, Name: "Mug", Price: price}, nil)

		p, err := svc.UpdateProduct(ctx, 7, in)
		assert.NoError(t, err)
		assert.True(t, p.Price.Equal(price))
		assert.Equal(t, []notify.EventKind{notify.EventProductUpdated}, rec.kinds())
	})

	t.Run("negative price rejected", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, notify.Noop{})

		price := decimal.NewFromInt(-5)
		_, err := svc.UpdateProduct(ctx, 7, UpdateProductInput{Price: &price})
		assert.ErrorIs(t, err, ErrInvalidPrice)
	})
}

func TestDeleteProduct(t *testing.T) {
	ctx := context.Background()

	t.Run("emits deleted event", func(t *testing.T) {
		repo := new(MockRepository)
		rec := &recorderNotifier{}
		svc := NewService(repo, rec)

		repo.On("DeleteProduct", ctx, uint(7)).Return(nil)

		assert.NoError(t, svc.DeleteProduct(ctx, 7))
		assert.Equal(t, []notify.EventKind{notify.EventProductDeleted}, rec.kinds())
	})

	t.Run("missing product", func(t *testing.T) {
		repo := new(MockRepository)
		rec := &recorderNotifier{}
		svc := NewService(repo, rec)

		repo.On("DeleteProduct", ctx, uint(7)).Return(ErrProductNotFound)

		assert.ErrorIs(t, svc.DeleteProduct(ctx, 7), ErrProductNotFound)
		assert.Empty(t, rec.kinds())
	})
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Ceramic Mug":        "ceramic-mug",
		"  Spaced  Out  ":    "spaced-out",
		"Déjà Vu!":           "d-j-vu",
		"UPPER-case_mixed 9": "upper-case-mixed-9",
	}
	for in, want := range cases {
		assert.Equal(t, want, Slugify(in), "input %q", in)
	}
}
