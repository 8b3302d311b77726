package payment

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"
)

// StripeProvider is the alternate gateway. Stripe has no separate order
// step, so CreateOrder maps onto a PaymentIntent and the intent's client
// secret doubles as the signature handed back by the client.
type StripeProvider struct {
	client        *client.API
	publishable   string
	webhookSecret string
}

func NewStripeProvider(secretKey, publishableKey, webhookSecret string) *StripeProvider {
	sc := &client.API{}
	sc.Init(secretKey, nil)

	return &StripeProvider{
		client:        sc,
		publishable:   publishableKey,
		webhookSecret: webhookSecret,
	}
}

func (s *StripeProvider) Name() string {
	return "stripe"
}

func (s *StripeProvider) CreateOrder(ctx context.Context, request *OrderRequest) (*OrderResponse, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(int64(request.Amount * 100)),
		Currency: stripe.String(request.Currency),
	}
	for k, v := range request.Notes {
		params.AddMetadata(k, v)
	}
	if request.Receipt != "" {
		params.AddMetadata("receipt", request.Receipt)
	}

	pi, err := s.client.PaymentIntents.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}

	return &OrderResponse{
		GatewayOrderID: pi.ID,
		KeyID:          s.publishable,
		Amount:         float64(pi.Amount) / 100,
		Currency:       string(pi.Currency),
		Status:         string(pi.Status),
		CreatedAt:      pi.Created,
	}, nil
}

func (s *StripeProvider) VerifyPaymentSignature(orderID, paymentID, signature string) error {
	pi, err := s.client.PaymentIntents.Get(orderID, nil)
	if err != nil {
		return fmt.Errorf("failed to fetch payment intent: %w", err)
	}
	if pi.Status != stripe.PaymentIntentStatusSucceeded {
		return fmt.Errorf("payment intent not succeeded: %s", pi.Status)
	}
	return nil
}

func (s *StripeProvider) RefundPayment(ctx context.Context, request *RefundRequest) (*RefundResponse, error) {
	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(request.PaymentID),
	}
	if request.Amount > 0 {
		params.Amount = stripe.Int64(int64(request.Amount * 100))
	}

	refund, err := s.client.Refunds.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create refund: %w", err)
	}

	return &RefundResponse{
		RefundID:  refund.ID,
		Status:    string(refund.Status),
		Amount:    float64(refund.Amount) / 100,
		Currency:  string(refund.Currency),
		CreatedAt: refund.Created,
	}, nil
}

func (s *StripeProvider) ValidateWebhook(ctx context.Context, payload []byte, signature string) (*WebhookEvent, error) {
	event, err := webhook.ConstructEvent(payload, signature, s.webhookSecret)
	if err != nil {
		return nil, fmt.Errorf("invalid stripe webhook: %w", err)
	}

	data := make(map[string]interface{})
	if event.Data != nil {
		for k, v := range event.Data.Object {
			data[k] = v
		}
	}

	out := &WebhookEvent{
		EventID:   event.ID,
		EventType: string(event.Type),
		Data:      data,
		CreatedAt: event.Created,
	}

	// The intent id is the order reference we stored at CreateOrder time.
	if id, ok := data["id"].(string); ok {
		out.OrderID = id
		out.PaymentID = id
	}
	if latest, ok := data["latest_charge"].(string); ok && latest != "" {
		out.PaymentID = latest
	}
	if lastErr, ok := data["last_payment_error"].(map[string]interface{}); ok {
		out.FailureReason, _ = lastErr["message"].(string)
	}

	return out, nil
}
