package payment

import (
	"context"
)

// GatewayProvider abstracts the hosted checkout gateway. The order is
// created server-side, authorized on the client, and confirmed back via
// VerifyPaymentSignature or a webhook.
type GatewayProvider interface {
	CreateOrder(ctx context.Context, request *OrderRequest) (*OrderResponse, error)
	VerifyPaymentSignature(orderID, paymentID, signature string) error
	RefundPayment(ctx context.Context, request *RefundRequest) (*RefundResponse, error)
	ValidateWebhook(ctx context.Context, payload []byte, signature string) (*WebhookEvent, error)
	Name() string
}

type OrderRequest struct {
	Amount   float64           `json:"amount"`
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Notes    map[string]string `json:"notes"`
}

type OrderResponse struct {
	GatewayOrderID string  `json:"gateway_order_id"`
	KeyID          string  `json:"key_id"`
	Amount         float64 `json:"amount"`
	Currency       string  `json:"currency"`
	Status         string  `json:"status"`
	CreatedAt      int64   `json:"created_at"`
}

type RefundRequest struct {
	PaymentID string  `json:"payment_id"`
	Amount    float64 `json:"amount"`
	Reason    string  `json:"reason"`
}

type RefundResponse struct {
	RefundID  string  `json:"refund_id"`
	Status    string  `json:"status"`
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
	CreatedAt int64   `json:"created_at"`
}

// WebhookEvent is the provider-neutral form of a gateway notification.
// Each provider extracts the payment entity from its own payload nesting
// and fills the identifier fields; Data keeps the raw decoded payload.
type WebhookEvent struct {
	EventID       string                 `json:"event_id"`
	EventType     string                 `json:"event_type"`
	OrderID       string                 `json:"order_id"`
	PaymentID     string                 `json:"payment_id"`
	FailureReason string                 `json:"failure_reason,omitempty"`
	Data          map[string]interface{} `json:"data"`
	CreatedAt     int64                  `json:"created_at"`
}
