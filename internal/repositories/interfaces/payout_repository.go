package interfaces

import (
	"context"
	"time"

	"learnhub/internal/models"
	"learnhub/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PayoutTotals is the aggregation result behind an earnings summary.
type PayoutTotals struct {
	TotalEarned  float64
	TotalPending float64
	TotalPaid    float64
	RequestCount int64
}

type PayoutRepository interface {
	Create(ctx context.Context, request *models.PayoutRequest) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.PayoutRequest, error)

	GetByInstructor(ctx context.Context, instructorID primitive.ObjectID, params *utils.PaginationParams) ([]*models.PayoutRequest, int64, error)
	GetByStatus(ctx context.Context, status models.PayoutStatus, params *utils.PaginationParams) ([]*models.PayoutRequest, int64, error)

	// HasOpenRequest reports a pending or approved request for the period.
	HasOpenRequest(ctx context.Context, instructorID primitive.ObjectID, month, year int) (bool, error)

	// UpdateStatus only matches requests still in the from status and
	// reports whether the transition landed.
	UpdateStatus(ctx context.Context, id primitive.ObjectID, from, to models.PayoutStatus, notes string, processedAt *time.Time) (bool, error)

	GetTotals(ctx context.Context, instructorID primitive.ObjectID) (*PayoutTotals, error)
}
