package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"moonstore-be/internal/cart"
	"moonstore-be/internal/coupon"
	"moonstore-be/internal/db"
	"moonstore-be/internal/logger"
	"moonstore-be/internal/metrics"
	"moonstore-be/internal/notify"
	"moonstore-be/internal/payment"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// TaxRate is applied to the order subtotal after discount.
var TaxRate = decimal.NewFromFloat(0.18)

// Shipping is a flat fee, waived once the subtotal reaches the free
// shipping threshold.
var (
	ShippingFlatFee       = decimal.NewFromInt(50)
	FreeShippingThreshold = decimal.NewFromInt(1000)
)

const maxOrderNumberAttempts = 3

// Service defines the business logic for orders and their payments.
type Service interface {
	// Checkout converts the user's cart into an order with a pending
	// payment, freezing prices and deducting stock atomically.
	Checkout(ctx context.Context, input CheckoutInput) (*Order, error)
	Get(ctx context.Context, orderID, requesterID uint, isAdmin bool) (*Order, error)
	ListByUser(ctx context.Context, userID uint, opts ListOptions) ([]*Order, error)
	ListAll(ctx context.Context, opts ListOptions) ([]*Order, error)
	Cancel(ctx context.Context, orderID, requesterID uint, isAdmin bool) error
	// VerifyPayment records the admin's manual review of a payment proof.
	// Approval completes the order; rejection cancels it and restores stock.
	VerifyPayment(ctx context.Context, orderID uint, approved bool, transactionID *string) error
	UpdateStatus(ctx context.Context, orderID uint, next Status) error
}

type service struct {
	repo        Repository
	cartRepo    cart.Repository
	couponRepo  coupon.Repository
	paymentRepo payment.Repository
	notifier    notify.Notifier
	stats       *metrics.Store
}

func NewService(
	repo Repository,
	cartRepo cart.Repository,
	couponRepo coupon.Repository,
	paymentRepo payment.Repository,
	notifier notify.Notifier,
	stats *metrics.Store,
) Service {
	return &service{
		repo:        repo,
		cartRepo:    cartRepo,
		couponRepo:  couponRepo,
		paymentRepo: paymentRepo,
		notifier:    notifier,
		stats:       stats,
	}
}

// PriceOrder computes the money columns of an order from its line subtotals.
// The discount is capped at the subtotal so the total can never go negative.
func PriceOrder(subtotal, discount decimal.Decimal) (cappedDiscount, tax, shippingFee, total decimal.Decimal) {
	if discount.GreaterThan(subtotal) {
		discount = subtotal
	}

	tax = subtotal.Mul(TaxRate).Round(2)

	shippingFee = ShippingFlatFee
	if subtotal.GreaterThanOrEqual(FreeShippingThreshold) {
		shippingFee = decimal.Zero
	}

	total = subtotal.Add(tax).Add(shippingFee).Sub(discount)
	return discount, tax, shippingFee, total
}

func (s *service) Checkout(ctx context.Context, input CheckoutInput) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Checkout"),
		zap.Uint("user_id", input.UserID),
		zap.String("payment_method", string(input.PaymentMethod)),
	)

	s.stats.CheckoutAttempts.Inc()

	if !payment.ValidMethod(input.PaymentMethod) {
		return nil, ErrInvalidPaymentMethod
	}

	lines, err := s.cartRepo.GetCartLines(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	subtotal := decimal.Zero
	items := make([]OrderItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, OrderItem{
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			Subtotal:    line.LineSubtotal,
		})
		subtotal = subtotal.Add(line.LineSubtotal)
	}

	discount := decimal.Zero
	var redemptionID *uint
	redemption, err := s.couponRepo.GetAppliedRedemption(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	if redemption != nil {
		discount = redemption.Amount
		redemptionID = &redemption.ID
	}

	discount, tax, shippingFee, total := PriceOrder(subtotal, discount)

	o := &Order{
		UserID:        input.UserID,
		Status:        StatusPending,
		Subtotal:      subtotal,
		Tax:           tax,
		ShippingFee:   shippingFee,
		Discount:      discount,
		Total:         total,
		PaymentMethod: input.PaymentMethod,
		Shipping:      input.Shipping,
		Items:         items,
	}

	p := &payment.Payment{
		Amount:         total,
		Method:         input.PaymentMethod,
		ProofReference: input.ProofReference,
		Status:         payment.StatusPending,
	}

	// A timestamp collision on the order number is survivable: regenerate
	// and retry the whole transaction a couple of times.
	for attempt := 1; ; attempt++ {
		o.OrderNumber = GenerateOrderNumber()

		err = s.repo.Checkout(ctx, o, p, redemptionID)
		if err == nil {
			break
		}
		if db.IsUniqueViolation(err, "orders_order_number_key") {
			if attempt < maxOrderNumberAttempts {
				log.Warn("order number collision, retrying", zap.Int("attempt", attempt))
				continue
			}
			log.Error("order number collisions exhausted retries", zap.Error(err))
			return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
		}
		if errors.Is(err, ErrInsufficientStock) {
			s.stats.CheckoutOversold.Inc()
			log.Warn("stock ran out during checkout")
			return nil, err
		}
		log.Error("checkout failed", zap.Error(err))
		return nil, err
	}

	s.stats.CheckoutSucceeded.Inc()
	log.Info("order placed",
		zap.Uint("order_id", o.ID),
		zap.String("order_number", o.OrderNumber),
		zap.String("total", o.Total.String()),
	)

	s.notifier.Notify(notify.Event{
		Kind: notify.EventOrderCreated,
		At:   time.Now(),
		Fields: map[string]any{
			"order_id":     o.ID,
			"order_number": o.OrderNumber,
			"user_id":      o.UserID,
			"total":        o.Total.String(),
			"items":        len(o.Items),
		},
	})
	s.notifier.Notify(notify.Event{
		Kind: notify.EventPaymentInitiated,
		At:   time.Now(),
		Fields: map[string]any{
			"order_id":     o.ID,
			"order_number": o.OrderNumber,
			"method":       string(p.Method),
			"amount":       p.Amount.String(),
		},
	})

	return o, nil
}

func (s *service) Get(ctx context.Context, orderID, requesterID uint, isAdmin bool) (*Order, error) {
	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, ErrOrderNotFound
	}
	if !isAdmin && o.UserID != requesterID {
		return nil, ErrUnauthorized
	}

	p, err := s.paymentRepo.GetByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	o.Payment = p

	return o, nil
}

func (s *service) ListByUser(ctx context.Context, userID uint, opts ListOptions) ([]*Order, error) {
	opts.UserID = &userID
	return s.repo.List(ctx, opts)
}

func (s *service) ListAll(ctx context.Context, opts ListOptions) ([]*Order, error) {
	return s.repo.List(ctx, opts)
}

func (s *service) Cancel(ctx context.Context, orderID, requesterID uint, isAdmin bool) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Cancel"),
		zap.Uint("order_id", orderID),
		zap.Uint("requester_id", requesterID),
	)

	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	if o == nil {
		return ErrOrderNotFound
	}
	if !isAdmin && o.UserID != requesterID {
		return ErrUnauthorized
	}
	if !o.Status.Cancellable() {
		return ErrInvalidTransition
	}

	err = s.repo.Finalize(ctx, orderID, o.Status, StatusCancelled, payment.StatusFailed, nil, true)
	if err != nil {
		return err
	}

	s.stats.OrdersCancelled.Inc()
	log.Info("order cancelled", zap.String("order_number", o.OrderNumber))

	s.notifier.Notify(notify.Event{
		Kind: notify.EventOrderCancelled,
		At:   time.Now(),
		Fields: map[string]any{
			"order_id":     o.ID,
			"order_number": o.OrderNumber,
			"user_id":      o.UserID,
		},
	})

	return nil
}

func (s *service) VerifyPayment(ctx context.Context, orderID uint, approved bool, transactionID *string) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "VerifyPayment"),
		zap.Uint("order_id", orderID),
		zap.Bool("approved", approved),
	)

	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	if o == nil {
		return ErrOrderNotFound
	}

	p, err := s.paymentRepo.GetByOrderID(ctx, orderID)
	if err != nil {
		return err
	}
	if p == nil || p.Status != payment.StatusPending {
		return ErrPaymentNotPending
	}

	if approved {
		err = s.repo.Finalize(ctx, orderID, o.Status, StatusCompleted, payment.StatusCompleted, transactionID, false)
		if err != nil {
			return err
		}

		s.stats.PaymentsVerified.Inc()
		log.Info("payment approved", zap.String("order_number", o.OrderNumber))

		s.notifier.Notify(notify.Event{
			Kind: notify.EventPaymentCompleted,
			At:   time.Now(),
			Fields: map[string]any{
				"order_id":     o.ID,
				"order_number": o.OrderNumber,
				"amount":       p.Amount.String(),
			},
		})
		s.notifier.Notify(notify.Event{
			Kind: notify.EventOrderCompleted,
			At:   time.Now(),
			Fields: map[string]any{
				"order_id":     o.ID,
				"order_number": o.OrderNumber,
			},
		})
		return nil
	}

	err = s.repo.Finalize(ctx, orderID, o.Status, StatusCancelled, payment.StatusFailed, transactionID, true)
	if err != nil {
		return err
	}

	s.stats.PaymentsRejected.Inc()
	log.Info("payment rejected", zap.String("order_number", o.OrderNumber))

	s.notifier.Notify(notify.Event{
		Kind: notify.EventPaymentFailed,
		At:   time.Now(),
		Fields: map[string]any{
			"order_id":     o.ID,
			"order_number": o.OrderNumber,
		},
	})
	s.notifier.Notify(notify.Event{
		Kind: notify.EventOrderCancelled,
		At:   time.Now(),
		Fields: map[string]any{
			"order_id":     o.ID,
			"order_number": o.OrderNumber,
			"reason":       "payment rejected",
		},
	})

	return nil
}

func (s *service) UpdateStatus(ctx context.Context, orderID uint, next Status) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "UpdateStatus"),
		zap.Uint("order_id", orderID),
		zap.String("next_status", string(next)),
	)

	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	if o == nil {
		return ErrOrderNotFound
	}
	if !o.Status.CanTransitionTo(next) {
		return ErrInvalidTransition
	}

	// Cancellation always goes through the finalize path so stock and the
	// payment row stay consistent.
	if next == StatusCancelled {
		return s.Cancel(ctx, orderID, o.UserID, true)
	}

	if err := s.repo.UpdateStatus(ctx, orderID, o.Status, next); err != nil {
		return err
	}

	log.Info("order status updated", zap.String("from", string(o.Status)))

	kind := notify.EventOrderUpdated
	if next == StatusCompleted {
		kind = notify.EventOrderCompleted
	}
	s.notifier.Notify(notify.Event{
		Kind: kind,
		At:   time.Now(),
		Fields: map[string]any{
			"order_id":     o.ID,
			"order_number": o.OrderNumber,
			"from":         string(o.Status),
			"to":           string(next),
		},
	})

	return nil
}
