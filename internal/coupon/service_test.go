package coupon

import (
	"context"
	"testing"
	"time"

	"moonstore-be/internal/cart"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) GetByCode(ctx context.Context, code string) (*Coupon, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Coupon), args.Error(1)
}

func (m *MockRepository) IncrementUsage(ctx context.Context, couponID uint) error {
	args := m.Called(ctx, couponID)
	return args.Error(0)
}

func (m *MockRepository) UpsertRedemption(ctx context.Context, userID, couponID uint, amount decimal.Decimal) (*Redemption, error) {
	args := m.Called(ctx, userID, couponID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Redemption), args.Error(1)
}

func (m *MockRepository) GetAppliedRedemption(ctx context.Context, userID uint) (*Redemption, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Redemption), args.Error(1)
}

func (m *MockRepository) Create(ctx context.Context, input NewCouponInput) (*Coupon, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Coupon), args.Error(1)
}

func (m *MockRepository) List(ctx context.Context) ([]*Coupon, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Coupon), args.Error(1)
}

type MockCartRepository struct {
	mock.Mock
}

func (m *MockCartRepository) GetCartItemByUserAndProduct(ctx context.Context, userID, productID uint) (*cart.CartItem, error) {
	args := m.Called(ctx, userID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.CartItem), args.Error(1)
}

func (m *MockCartRepository) GetCartItemByID(ctx context.Context, cartItemID uint) (*cart.CartItem, error) {
	args := m.Called(ctx, cartItemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.CartItem), args.Error(1)
}

func (m *MockCartRepository) CreateCartItem(ctx context.Context, params cart.AddToCartParams) (*cart.CartItem, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.CartItem), args.Error(1)
}

func (m *MockCartRepository) UpdateCartItemQuantity(ctx context.Context, cartItemID uint, quantity int) (*cart.CartItem, error) {
	args := m.Called(ctx, cartItemID, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.CartItem), args.Error(1)
}

func (m *MockCartRepository) RemoveFromCart(ctx context.Context, params cart.DeleteFromCartParams) error {
	args := m.Called(ctx, params)
	return args.Error(0)
}

func (m *MockCartRepository) ClearCart(ctx context.Context, userID uint) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockCartRepository) GetCartLines(ctx context.Context, userID uint) ([]*cart.CartLine, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*cart.CartLine), args.Error(1)
}

func (m *MockCartRepository) CountItems(ctx context.Context, userID uint) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func save20() *Coupon {
	max := decimal.NewFromInt(200)
	return &Coupon{
		ID:             1,
		Code:           "SAVE20",
		DiscountType:   DiscountPercentage,
		DiscountValue:  decimal.NewFromInt(20),
		MinOrderAmount: decimal.NewFromInt(500),
		MaxDiscount:    &max,
		ValidFrom:      time.Now().Add(-time.Hour),
		ValidUntil:     time.Now().Add(time.Hour),
		UsageLimit:     100,
		UsedCount:      3,
	}
}

func cartLinesWithSubtotal(subtotal int64) []*cart.CartLine {
	return []*cart.CartLine{
		{LineSubtotal: decimal.NewFromInt(subtotal)},
	}
}

func TestService_Apply(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repo := new(MockRepository)
		cartRepo := new(MockCartRepository)

		repo.On("GetByCode", ctx, "SAVE20").Return(save20(), nil)
		cartRepo.On("GetCartLines", ctx, uint(1)).Return(cartLinesWithSubtotal(600), nil)
		repo.On("IncrementUsage", ctx, uint(1)).Return(nil)

		wantDiscount := decimal.NewFromInt(120)
		repo.On("UpsertRedemption", ctx, uint(1), uint(1), mock.MatchedBy(func(d decimal.Decimal) bool {
			return d.Equal(wantDiscount)
		})).Return(&Redemption{ID: 9, UserID: 1, CouponID: 1, Amount: wantDiscount, Status: RedemptionApplied}, nil)

		svc := NewService(repo, cartRepo)
		red, err := svc.Apply(ctx, 1, "save20")

		require.NoError(t, err)
		assert.True(t, red.Amount.Equal(wantDiscount))
		repo.AssertExpectations(t)
	})

	t.Run("Below minimum order is rejected", func(t *testing.T) {
		repo := new(MockRepository)
		cartRepo := new(MockCartRepository)

		repo.On("GetByCode", ctx, "SAVE20").Return(save20(), nil)
		cartRepo.On("GetCartLines", ctx, uint(1)).Return(cartLinesWithSubtotal(400), nil)

		svc := NewService(repo, cartRepo)
		_, err := svc.Apply(ctx, 1, "SAVE20")

		assert.ErrorIs(t, err, ErrBelowMinOrder)
		repo.AssertNotCalled(t, "IncrementUsage", mock.Anything, mock.Anything)
	})

	t.Run("Unknown code", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetByCode", ctx, "NOPE").Return(nil, nil)

		svc := NewService(repo, new(MockCartRepository))
		_, err := svc.Apply(ctx, 1, "NOPE")

		assert.ErrorIs(t, err, ErrInvalidCoupon)
	})

	t.Run("Expired coupon", func(t *testing.T) {
		c := save20()
		c.ValidUntil = time.Now().Add(-time.Minute)

		repo := new(MockRepository)
		repo.On("GetByCode", ctx, "SAVE20").Return(c, nil)

		svc := NewService(repo, new(MockCartRepository))
		_, err := svc.Apply(ctx, 1, "SAVE20")

		assert.ErrorIs(t, err, ErrInvalidCoupon)
	})

	t.Run("Usage cap reached", func(t *testing.T) {
		c := save20()
		c.UsedCount = c.UsageLimit

		repo := new(MockRepository)
		repo.On("GetByCode", ctx, "SAVE20").Return(c, nil)

		svc := NewService(repo, new(MockCartRepository))
		_, err := svc.Apply(ctx, 1, "SAVE20")

		assert.ErrorIs(t, err, ErrInvalidCoupon)
	})

	t.Run("Empty cart", func(t *testing.T) {
		repo := new(MockRepository)
		cartRepo := new(MockCartRepository)

		repo.On("GetByCode", ctx, "SAVE20").Return(save20(), nil)
		cartRepo.On("GetCartLines", ctx, uint(1)).Return([]*cart.CartLine{}, nil)

		svc := NewService(repo, cartRepo)
		_, err := svc.Apply(ctx, 1, "SAVE20")

		assert.ErrorIs(t, err, ErrCartEmpty)
	})
}

func TestComputeDiscount(t *testing.T) {
	t.Run("Percentage capped at max discount", func(t *testing.T) {
		c := save20()
		// 20% of 2000 = 400, capped at 200
		got := ComputeDiscount(c, decimal.NewFromInt(2000))
		assert.True(t, got.Equal(decimal.NewFromInt(200)))
	})

	t.Run("Fixed amount capped at subtotal", func(t *testing.T) {
		c := &Coupon{
			DiscountType:  DiscountFixed,
			DiscountValue: decimal.NewFromInt(50),
		}
		got := ComputeDiscount(c, decimal.NewFromInt(30))
		assert.True(t, got.Equal(decimal.NewFromInt(30)))
	})

	t.Run("Unknown type yields zero", func(t *testing.T) {
		c := &Coupon{DiscountType: "bogus", DiscountValue: decimal.NewFromInt(10)}
		assert.True(t, ComputeDiscount(c, decimal.NewFromInt(100)).IsZero())
	})
}
