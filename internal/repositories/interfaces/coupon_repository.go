package interfaces

import (
	"context"
	"time"

	"learnhub/internal/models"
	"learnhub/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CouponRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, coupon *models.Coupon) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Coupon, error)
	GetByCode(ctx context.Context, code string) (*models.Coupon, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error
	SetActive(ctx context.Context, id primitive.ObjectID, active bool) error

	// Listing
	List(ctx context.Context, params *utils.PaginationParams) ([]*models.Coupon, int64, error)
	GetAvailable(ctx context.Context, at time.Time, category string) ([]*models.Coupon, error)

	// Usage tracking. IncrementUsage only matches coupons still under
	// their cap; a non-match reports the cap as exhausted.
	IncrementUsage(ctx context.Context, id primitive.ObjectID) (bool, error)
	DecrementUsage(ctx context.Context, id primitive.ObjectID) error
}
