package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/razorpay/razorpay-go"
)

type RazorpayProvider struct {
	client        *razorpay.Client
	keyID         string
	keySecret     string
	webhookSecret string
}

func NewRazorpayProvider(keyID, keySecret, webhookSecret string) *RazorpayProvider {
	client := razorpay.NewClient(keyID, keySecret)

	return &RazorpayProvider{
		client:        client,
		keyID:         keyID,
		keySecret:     keySecret,
		webhookSecret: webhookSecret,
	}
}

func (r *RazorpayProvider) Name() string {
	return "razorpay"
}

func (r *RazorpayProvider) CreateOrder(ctx context.Context, request *OrderRequest) (*OrderResponse, error) {
	notes := make(map[string]interface{}, len(request.Notes))
	for k, v := range request.Notes {
		notes[k] = v
	}

	orderData := map[string]interface{}{
		"amount":   int(request.Amount * 100), // amount in paise
		"currency": request.Currency,
		"receipt":  request.Receipt,
		"notes":    notes,
	}

	order, err := r.client.Order.Create(orderData, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create razorpay order: %w", err)
	}

	resp := &OrderResponse{
		KeyID: r.keyID,
	}
	if id, ok := order["id"].(string); ok {
		resp.GatewayOrderID = id
	}
	if status, ok := order["status"].(string); ok {
		resp.Status = status
	}
	if currency, ok := order["currency"].(string); ok {
		resp.Currency = currency
	}
	switch amount := order["amount"].(type) {
	case float64:
		resp.Amount = amount / 100
	case int:
		resp.Amount = float64(amount) / 100
	}
	switch created := order["created_at"].(type) {
	case float64:
		resp.CreatedAt = int64(created)
	case int:
		resp.CreatedAt = int64(created)
	default:
		resp.CreatedAt = time.Now().Unix()
	}

	return resp, nil
}

// VerifyPaymentSignature checks the checkout callback signature:
// HMAC-SHA256 of "<order_id>|<payment_id>" keyed by the API secret.
func (r *RazorpayProvider) VerifyPaymentSignature(orderID, paymentID, signature string) error {
	payload := orderID + "|" + paymentID
	expected := r.sign(payload, r.keySecret)
	if !hmac.Equal([]byte(signature), []byte(expected)) {
		return fmt.Errorf("invalid payment signature")
	}
	return nil
}

func (r *RazorpayProvider) RefundPayment(ctx context.Context, request *RefundRequest) (*RefundResponse, error) {
	refundData := map[string]interface{}{
		"notes": map[string]interface{}{
			"reason": request.Reason,
		},
	}

	amount := int(request.Amount * 100)
	refund, err := r.client.Payment.Refund(request.PaymentID, amount, refundData, map[string]string{})
	if err != nil {
		return nil, fmt.Errorf("failed to create razorpay refund: %w", err)
	}

	resp := &RefundResponse{}
	if id, ok := refund["id"].(string); ok {
		resp.RefundID = id
	}
	if status, ok := refund["status"].(string); ok {
		resp.Status = status
	}
	if currency, ok := refund["currency"].(string); ok {
		resp.Currency = currency
	}
	switch amt := refund["amount"].(type) {
	case float64:
		resp.Amount = amt / 100
	case int:
		resp.Amount = float64(amt) / 100
	}
	switch created := refund["created_at"].(type) {
	case float64:
		resp.CreatedAt = int64(created)
	case int:
		resp.CreatedAt = int64(created)
	}

	return resp, nil
}

func (r *RazorpayProvider) ValidateWebhook(ctx context.Context, payload []byte, signature string) (*WebhookEvent, error) {
	expected := r.sign(string(payload), r.webhookSecret)
	if !hmac.Equal([]byte(signature), []byte(expected)) {
		return nil, fmt.Errorf("invalid webhook signature")
	}

	var event map[string]interface{}
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, fmt.Errorf("failed to unmarshal webhook payload: %w", err)
	}

	out := &WebhookEvent{
		Data:      event,
		CreatedAt: time.Now().Unix(),
	}
	if id, ok := event["id"].(string); ok {
		out.EventID = id
	}
	if eventType, ok := event["event"].(string); ok {
		out.EventType = eventType
	}
	if created, ok := event["created_at"].(float64); ok {
		out.CreatedAt = int64(created)
	}

	// Payment events nest the entity under payload.payment.entity.
	if entity, ok := webhookEntity(event, "payment"); ok {
		out.PaymentID, _ = entity["id"].(string)
		out.OrderID, _ = entity["order_id"].(string)
		out.FailureReason, _ = entity["error_description"].(string)
	} else if entity, ok := webhookEntity(event, "order"); ok {
		out.OrderID, _ = entity["id"].(string)
	}

	return out, nil
}

func webhookEntity(event map[string]interface{}, kind string) (map[string]interface{}, bool) {
	payload, ok := event["payload"].(map[string]interface{})
	if !ok {
		return nil, false
	}
	wrapper, ok := payload[kind].(map[string]interface{})
	if !ok {
		return nil, false
	}
	entity, ok := wrapper["entity"].(map[string]interface{})
	return entity, ok
}

func (r *RazorpayProvider) sign(payload, key string) string {
	h := hmac.New(sha256.New, []byte(key))
	h.Write([]byte(payload))
	return hex.EncodeToString(h.Sum(nil))
}
