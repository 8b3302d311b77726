package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusFailed    TransactionStatus = "failed"
	TransactionStatusCancelled TransactionStatus = "cancelled"
)

// IsTerminal reports whether the status can no longer change.
func (s TransactionStatus) IsTerminal() bool {
	return s == TransactionStatusCompleted || s == TransactionStatusFailed || s == TransactionStatusCancelled
}

// SubscriptionTransaction records one payment attempt against the gateway.
// Transitions are one-directional: pending -> completed|failed|cancelled.
type SubscriptionTransaction struct {
	ID               primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	UserID           primitive.ObjectID  `json:"user_id" bson:"user_id" validate:"required"`
	OrderID          primitive.ObjectID  `json:"order_id" bson:"order_id"`
	PlanID           *primitive.ObjectID `json:"plan_id" bson:"plan_id"`
	CourseID         *primitive.ObjectID `json:"course_id" bson:"course_id"`
	Provider         string              `json:"provider" bson:"provider" default:"razorpay"`
	GatewayOrderID   string              `json:"gateway_order_id" bson:"gateway_order_id"`
	GatewayPaymentID string              `json:"gateway_payment_id" bson:"gateway_payment_id"`
	GatewaySignature string              `json:"-" bson:"gateway_signature"`
	Amount           float64             `json:"amount" bson:"amount"`
	Currency         string              `json:"currency" bson:"currency" default:"INR"`
	CouponID         *primitive.ObjectID `json:"coupon_id" bson:"coupon_id"`
	CouponCode       string              `json:"coupon_code" bson:"coupon_code"`
	DiscountAmount   float64             `json:"discount_amount" bson:"discount_amount" default:"0"`
	Status           TransactionStatus   `json:"status" bson:"status" default:"pending"`
	FailureReason    string              `json:"failure_reason" bson:"failure_reason"`
	CompletedAt      *time.Time          `json:"completed_at" bson:"completed_at"`
	FailedAt         *time.Time          `json:"failed_at" bson:"failed_at"`
	CreatedAt        time.Time           `json:"created_at" bson:"created_at"`
	UpdatedAt        time.Time           `json:"updated_at" bson:"updated_at"`
}
