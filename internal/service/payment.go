package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/Beka01247/food-ordering/internal/domain"
)

// PaymentGateway is the hosted payment API used for card intents.
type PaymentGateway interface {
	CreatePaymentIntent(ctx context.Context, req domain.PaymentIntentRequest) (*domain.PaymentIntent, error)
	CancelPaymentIntent(ctx context.Context, id string) (*domain.PaymentIntent, error)
}

type cardForm struct {
	CardNumber string `validate:"digits,len=16"`
	CardHolder string `validate:"min=2"`
	Expiry     string `validate:"expiry"`
	CVC        string `validate:"digits,len=3"`
}

type walletForm struct {
	Phone string `validate:"digits,min=10,max=11"`
}

type PaymentService struct {
	orders   *OrderService
	carts    *CartService
	gateway  PaymentGateway
	validate *validator.Validate
	logger   *zap.SugaredLogger
	delay    time.Duration
	now      func() time.Time
}

func NewPaymentService(
	orders *OrderService,
	carts *CartService,
	gateway PaymentGateway,
	delay time.Duration,
	logger *zap.SugaredLogger,
) *PaymentService {
	s := &PaymentService{
		orders:  orders,
		carts:   carts,
		gateway: gateway,
		logger:  logger,
		delay:   delay,
		now:     time.Now,
	}
	s.validate = newValidator(func() time.Time { return s.now() })
	return s
}

// Validate checks the fields the chosen method needs. Cash needs none.
// Failures are returned as *domain.ValidationError.
func (s *PaymentService) Validate(method domain.PaymentMethod, fields domain.PaymentFields) error {
	switch method {
	case domain.PaymentCard:
		return firstValidationError(s.validate.Struct(cardForm{
			CardNumber: stripSeparators(fields.CardNumber),
			CardHolder: strings.TrimSpace(fields.CardHolder),
			Expiry:     strings.TrimSpace(fields.Expiry),
			CVC:        strings.TrimSpace(fields.CVC),
		}), paymentMessages)
	case domain.PaymentMomo, domain.PaymentZalo:
		return firstValidationError(s.validate.Struct(walletForm{
			Phone: stripSeparators(fields.Phone),
		}), paymentMessages)
	case domain.PaymentCash:
		return nil
	}
	return domain.NewValidationError("method", "Payment method must be one of card, momo, zalo, cash")
}

// Submit validates the payment, waits out the processing delay and then
// completes the order. Nothing is written when validation fails or ctx is
// cancelled during the delay.
func (s *PaymentService) Submit(ctx context.Context, orderID string, method domain.PaymentMethod, fields domain.PaymentFields) (*domain.Order, error) {
	if err := s.Validate(method, fields); err != nil {
		return nil, err
	}

	order, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !domain.CanTransition(order.Status, domain.OrderStatusCompleted) {
		return nil, fmt.Errorf("order %s is %s: %w", orderID, order.Status, domain.ErrInvalidTransition)
	}

	if s.delay > 0 {
		timer := time.NewTimer(s.delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	paid, err := s.orders.MarkPaid(ctx, orderID, method, s.now())
	if err != nil {
		return nil, err
	}

	if err := s.carts.Clear(ctx, paid.UserID); err != nil {
		return nil, err
	}
	if err := s.orders.closeCheckout(ctx, paid); err != nil {
		return nil, err
	}

	s.logger.Infow("payment submitted", "order_id", orderID, "method", method)

	return paid, nil
}

// CreateIntent opens a gateway payment intent for the order total. The order
// itself is not modified, whether or not the gateway call succeeds.
func (s *PaymentService) CreateIntent(ctx context.Context, orderID string) (*domain.PaymentIntent, error) {
	order, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status.Terminal() {
		return nil, fmt.Errorf("order %s is %s: %w", orderID, order.Status, domain.ErrInvalidTransition)
	}

	intent, err := s.gateway.CreatePaymentIntent(ctx, domain.PaymentIntentRequest{
		OrderID:       order.ID,
		Amount:        order.Total,
		CustomerEmail: order.UserEmail,
		CustomerName:  order.UserName,
		Description:   fmt.Sprintf("Order %s", order.ID),
	})
	if err != nil {
		s.logger.Errorw("failed to create payment intent", "order_id", orderID, "error", err)
		return nil, fmt.Errorf("%w: %v", domain.ErrGateway, err)
	}

	s.logger.Infow("payment intent created", "order_id", orderID, "intent_id", intent.ID, "amount", order.Total)

	return intent, nil
}

func (s *PaymentService) CancelIntent(ctx context.Context, intentID string) (*domain.PaymentIntent, error) {
	intent, err := s.gateway.CancelPaymentIntent(ctx, intentID)
	if err != nil {
		s.logger.Errorw("failed to cancel payment intent", "intent_id", intentID, "error", err)
		return nil, fmt.Errorf("%w: %v", domain.ErrGateway, err)
	}
	return intent, nil
}

func stripSeparators(s string) string {
	return strings.NewReplacer(" ", "", "-", "").Replace(strings.TrimSpace(s))
}
