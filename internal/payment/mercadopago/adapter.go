// Package mercadopago implements payment.Gateway with Checkout Pro preferences.
package mercadopago

import (
	"context"
	"errors"
	"fmt"

	"syncfit/connect-api/internal/domain"
	"syncfit/connect-api/internal/payment"

	"github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/preference"
)

// Adapter implements payment.Gateway using the Mercado Pago SDK. A
// preference plays the role of a payment intent: its ID is handed to the
// client, which completes the checkout.
type Adapter struct {
	client   preference.Client
	currency string
}

// NewAdapter creates a new Mercado Pago adapter.
func NewAdapter(accessToken, currency string) (*Adapter, error) {
	if accessToken == "" {
		return nil, errors.New("mercadopago: access token is required")
	}
	cfg, err := config.New(accessToken)
	if err != nil {
		return nil, fmt.Errorf("mercadopago: create config: %w", err)
	}
	return &Adapter{
		client:   preference.NewClient(cfg),
		currency: currency,
	}, nil
}

// CreateIntent creates a checkout preference for a single item.
func (a *Adapter) CreateIntent(ctx context.Context, req payment.IntentRequest) (*domain.PaymentIntent, error) {
	prefRequest := preference.Request{
		Items: []preference.ItemRequest{
			{
				Title:       req.Title,
				Description: req.Description,
				Quantity:    1,
				UnitPrice:   req.Amount,
				CurrencyID:  a.currency,
			},
		},
		ExternalReference: req.Reference,
	}
	if req.PayerEmail != "" {
		prefRequest.Payer = &preference.PayerRequest{Email: req.PayerEmail}
	}

	result, err := a.client.Create(ctx, prefRequest)
	if err != nil {
		return nil, fmt.Errorf("%w: create preference: %v", payment.ErrGateway, err)
	}

	return &domain.PaymentIntent{
		ID:           result.ID,
		ClientSecret: result.ID,
		CheckoutURL:  result.InitPoint,
		SandboxURL:   result.SandboxInitPoint,
	}, nil
}
