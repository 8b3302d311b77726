package interfaces

import (
	"context"

	"learnhub/internal/models"
	"learnhub/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CouponUsageRepository interface {
	// Create inserts a claim record. The unique (coupon_id, user_id)
	// index rejects a second claim for the same pair.
	Create(ctx context.Context, usage *models.CouponUsage) error
	Delete(ctx context.Context, id primitive.ObjectID) error

	// DeleteByCouponAndUser removes a claim and reports whether one existed.
	DeleteByCouponAndUser(ctx context.Context, couponID, userID primitive.ObjectID) (bool, error)

	HasUsed(ctx context.Context, couponID, userID primitive.ObjectID) (bool, error)
	GetByUser(ctx context.Context, userID primitive.ObjectID, params *utils.PaginationParams) ([]*models.CouponUsage, int64, error)
	CountByCoupon(ctx context.Context, couponID primitive.ObjectID) (int64, error)
	TotalDiscountByCoupon(ctx context.Context, couponID primitive.ObjectID) (float64, error)
}
