package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CouponType string

const (
	CouponTypeFree       CouponType = "free"
	CouponTypePercentage CouponType = "percentage"
	CouponTypeFixed      CouponType = "fixed"
)

// CategoryAll in an order's category list bypasses the coupon allow-list.
const CategoryAll = "all"

type Coupon struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Code        string             `json:"code" bson:"code" validate:"required"`
	Title       string             `json:"title" bson:"title"`
	Description string             `json:"description" bson:"description"`
	Type        CouponType         `json:"type" bson:"type" validate:"required"`
	Value       float64            `json:"value" bson:"value"`
	MaxUses     int                `json:"max_uses" bson:"max_uses"`
	UsedCount   int                `json:"used_count" bson:"used_count" default:"0"`
	MinAmount   float64            `json:"min_amount" bson:"min_amount"`
	MaxDiscount float64            `json:"max_discount" bson:"max_discount"`
	Categories  []string           `json:"categories" bson:"categories"`
	ValidFrom   time.Time          `json:"valid_from" bson:"valid_from"`
	ValidUntil  time.Time          `json:"valid_until" bson:"valid_until"`
	IsActive    bool               `json:"is_active" bson:"is_active" default:"true"`
	CreatedBy   primitive.ObjectID `json:"created_by" bson:"created_by"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at" bson:"updated_at"`
}

// HasCapacity reports whether the coupon is still under its usage cap.
// MaxUses <= 0 means unlimited.
func (c *Coupon) HasCapacity() bool {
	return c.MaxUses <= 0 || c.UsedCount < c.MaxUses
}
