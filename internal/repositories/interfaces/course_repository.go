package interfaces

import (
	"context"

	"learnhub/internal/models"
	"learnhub/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CourseRepository interface {
	Create(ctx context.Context, course *models.Course) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Course, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error
	Delete(ctx context.Context, id primitive.ObjectID) error

	GetByInstructor(ctx context.Context, instructorID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Course, int64, error)
	ListPublished(ctx context.Context, category string, params *utils.PaginationParams) ([]*models.Course, int64, error)
	CountByInstructor(ctx context.Context, instructorID primitive.ObjectID) (int64, error)

	SetPublished(ctx context.Context, id primitive.ObjectID, published bool) error
	IncrementEnrolled(ctx context.Context, id primitive.ObjectID) error
}
