package gateway

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"go.uber.org/zap"

	"github.com/Beka01247/food-ordering/internal/domain"
)

type Config struct {
	SecretKey string
	// Currency is a zero-decimal ISO code; order totals are passed through
	// as the smallest unit without scaling.
	Currency string
	// BackendURL overrides the Stripe API host. Empty means api.stripe.com.
	BackendURL string
}

type StripeGateway struct {
	api      *client.API
	currency string
	logger   *zap.SugaredLogger
}

func NewStripeGateway(cfg Config, logger *zap.SugaredLogger) *StripeGateway {
	var backends *stripe.Backends
	if cfg.BackendURL != "" {
		backend := stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{
			URL:               stripe.String(cfg.BackendURL),
			MaxNetworkRetries: stripe.Int64(0),
			LeveledLogger:     &stripe.LeveledLogger{Level: stripe.LevelError},
		})
		backends = &stripe.Backends{API: backend, Connect: backend, Uploads: backend}
	}

	api := &client.API{}
	api.Init(cfg.SecretKey, backends)

	currency := cfg.Currency
	if currency == "" {
		currency = string(stripe.CurrencyVND)
	}

	return &StripeGateway{
		api:      api,
		currency: currency,
		logger:   logger,
	}
}

func (g *StripeGateway) CreatePaymentIntent(ctx context.Context, req domain.PaymentIntentRequest) (*domain.PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:      stripe.Int64(req.Amount),
		Currency:    stripe.String(g.currency),
		Description: stripe.String(req.Description),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	if req.CustomerEmail != "" {
		params.ReceiptEmail = stripe.String(req.CustomerEmail)
	}
	params.Context = ctx
	params.AddMetadata("order_id", req.OrderID)
	params.AddMetadata("customer_name", req.CustomerName)

	pi, err := g.api.PaymentIntents.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}

	g.logger.Infow("stripe payment intent created", "intent_id", pi.ID, "order_id", req.OrderID, "amount", req.Amount, "currency", g.currency)

	return &domain.PaymentIntent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Status:       string(pi.Status),
	}, nil
}

func (g *StripeGateway) CancelPaymentIntent(ctx context.Context, id string) (*domain.PaymentIntent, error) {
	params := &stripe.PaymentIntentCancelParams{}
	params.Context = ctx

	pi, err := g.api.PaymentIntents.Cancel(id, params)
	if err != nil {
		return nil, fmt.Errorf("failed to cancel payment intent: %w", err)
	}

	g.logger.Infow("stripe payment intent cancelled", "intent_id", pi.ID)

	return &domain.PaymentIntent{
		ID:     pi.ID,
		Status: string(pi.Status),
	}, nil
}
