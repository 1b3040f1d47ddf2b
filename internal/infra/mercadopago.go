package infra

import (
	"context"
	"errors"
	"strconv"

	mpconfig "github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/payment"
	"github.com/rs/zerolog/log"
)

var ErrPaymentGatewayNotConfigured = errors.New("payment gateway not configured")

// PaymentInfo is the subset of a Mercado Pago payment the billing flow
// cares about. Metadata carries the tenant_id and plan set when the
// subscription checkout was created.
type PaymentInfo struct {
	ID       string
	Status   string
	Metadata map[string]any
}

// PaymentGateway re-fetches payments by id. Webhook bodies are never
// trusted on their own.
type PaymentGateway interface {
	GetPayment(ctx context.Context, paymentID string) (*PaymentInfo, error)
}

type mercadoPagoGateway struct {
	client payment.Client
}

// NewMercadoPagoGateway returns nil (and no error) when the access token
// is empty, which disables billing webhooks for local development.
func NewMercadoPagoGateway(accessToken string) (PaymentGateway, error) {
	if accessToken == "" {
		log.Warn().Msg("billing: MERCADOPAGO_ACCESS_TOKEN not set, webhooks disabled")
		return nil, nil
	}
	cfg, err := mpconfig.New(accessToken)
	if err != nil {
		return nil, err
	}
	return &mercadoPagoGateway{client: payment.NewClient(cfg)}, nil
}

func (g *mercadoPagoGateway) GetPayment(ctx context.Context, paymentID string) (*PaymentInfo, error) {
	id, err := strconv.Atoi(paymentID)
	if err != nil {
		return nil, errors.New("malformed payment id")
	}
	resp, err := g.client.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &PaymentInfo{
		ID:       strconv.Itoa(resp.ID),
		Status:   resp.Status,
		Metadata: resp.Metadata,
	}, nil
}
