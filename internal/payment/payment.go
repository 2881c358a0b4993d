// Package payment defines the port to the external payment processor.
package payment

import (
	"context"
	"errors"

	"syncfit/connect-api/internal/domain"
)

// ErrGateway is returned when the payment processor rejects or fails a request.
var ErrGateway = errors.New("payment gateway error")

// IntentRequest describes a single-item checkout.
type IntentRequest struct {
	Amount      float64
	Title       string
	Description string
	PayerEmail  string
	Reference   string // Echoed back by the processor on notifications
}

// Gateway creates payment intents with the processor.
type Gateway interface {
	CreateIntent(ctx context.Context, req IntentRequest) (*domain.PaymentIntent, error)
}
