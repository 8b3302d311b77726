package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type SubscriptionStatus string
type PlanPeriod string

const (
	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusExpired   SubscriptionStatus = "expired"
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"

	PlanPeriodMonthly PlanPeriod = "monthly"
	PlanPeriodYearly  PlanPeriod = "yearly"
)

type SubscriptionPlan struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name         string             `json:"name" bson:"name" validate:"required"`
	Description  string             `json:"description" bson:"description"`
	Price        float64            `json:"price" bson:"price"`
	Currency     string             `json:"currency" bson:"currency" default:"INR"`
	Period       PlanPeriod         `json:"period" bson:"period" default:"monthly"`
	Categories   []string           `json:"categories" bson:"categories"`
	IsActive     bool               `json:"is_active" bson:"is_active" default:"true"`
	CreatedAt    time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at" bson:"updated_at"`
}

type Subscription struct {
	ID            primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID        primitive.ObjectID `json:"user_id" bson:"user_id" validate:"required"`
	PlanID        primitive.ObjectID `json:"plan_id" bson:"plan_id" validate:"required"`
	TransactionID primitive.ObjectID `json:"transaction_id" bson:"transaction_id"`
	Status        SubscriptionStatus `json:"status" bson:"status" default:"active"`
	StartsAt      time.Time          `json:"starts_at" bson:"starts_at"`
	ExpiresAt     time.Time          `json:"expires_at" bson:"expires_at"`
	CreatedAt     time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at" bson:"updated_at"`
}

// SubscriptionOrder snapshots the priced order handed to the gateway,
// including any previewed coupon discount.
type SubscriptionOrder struct {
	ID             primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	UserID         primitive.ObjectID  `json:"user_id" bson:"user_id" validate:"required"`
	PlanID         *primitive.ObjectID `json:"plan_id" bson:"plan_id"`
	CourseID       *primitive.ObjectID `json:"course_id" bson:"course_id"`
	BaseAmount     float64             `json:"base_amount" bson:"base_amount"`
	CouponID       *primitive.ObjectID `json:"coupon_id" bson:"coupon_id"`
	CouponCode     string              `json:"coupon_code" bson:"coupon_code"`
	DiscountAmount float64             `json:"discount_amount" bson:"discount_amount" default:"0"`
	FinalAmount    float64             `json:"final_amount" bson:"final_amount"`
	Currency       string              `json:"currency" bson:"currency" default:"INR"`
	Receipt        string              `json:"receipt" bson:"receipt"`
	CreatedAt      time.Time           `json:"created_at" bson:"created_at"`
}
