package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrderContext string

const (
	OrderContextSubscription OrderContext = "subscription"
	OrderContextCourse       OrderContext = "course"
)

// CouponUsage is written once per successful redemption. A unique index on
// (coupon_id, user_id) enforces one use per user per coupon.
type CouponUsage struct {
	ID             primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	CouponID       primitive.ObjectID `json:"coupon_id" bson:"coupon_id" validate:"required"`
	UserID         primitive.ObjectID `json:"user_id" bson:"user_id" validate:"required"`
	OrderContext   OrderContext       `json:"order_context" bson:"order_context"`
	OrderRefID     primitive.ObjectID `json:"order_ref_id" bson:"order_ref_id"`
	OrderAmount    float64            `json:"order_amount" bson:"order_amount"`
	DiscountAmount float64            `json:"discount_amount" bson:"discount_amount"`
	FinalAmount    float64            `json:"final_amount" bson:"final_amount"`
	CreatedAt      time.Time          `json:"created_at" bson:"created_at"`
}
