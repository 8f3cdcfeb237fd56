package payment

import (
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

// Gateway 支付网关，测试中可替换
type Gateway interface {
	CreateIntent(amountCents int64, currency string, metadata map[string]string) (*stripe.PaymentIntent, error)
	GetIntent(id string) (*stripe.PaymentIntent, error)
}

// StripeGateway Stripe 支付网关
type StripeGateway struct {
	api *client.API
}

func NewStripeGateway(secretKey string) *StripeGateway {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeGateway{api: api}
}

// CreateIntent 创建支付意向
func (g *StripeGateway) CreateIntent(amountCents int64, currency string, metadata map[string]string) (*stripe.PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amountCents),
		Currency: stripe.String(currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}

	intent, err := g.api.PaymentIntents.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}
	return intent, nil
}

// GetIntent 查询支付意向
func (g *StripeGateway) GetIntent(id string) (*stripe.PaymentIntent, error) {
	intent, err := g.api.PaymentIntents.Get(id, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get payment intent: %w", err)
	}
	return intent, nil
}
