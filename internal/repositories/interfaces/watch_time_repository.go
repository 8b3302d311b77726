package interfaces

import (
	"context"

	"learnhub/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// InstructorWatchTime is the per-period aggregation used for payouts.
type InstructorWatchTime struct {
	TotalMinutes int64
	CourseCount  int
}

type WatchTimeRepository interface {
	// IncrementMinutes upserts the (student, course, month, year) bucket.
	IncrementMinutes(ctx context.Context, studentID, courseID, instructorID primitive.ObjectID, minutes int64, month, year int) error

	GetRecord(ctx context.Context, studentID, courseID primitive.ObjectID, month, year int) (*models.WatchTimeRecord, error)
	SumByInstructor(ctx context.Context, instructorID primitive.ObjectID, month, year int) (*InstructorWatchTime, error)
	SumByCourse(ctx context.Context, courseID primitive.ObjectID, month, year int) (*models.CourseWatchTime, error)
	GetStudentRecords(ctx context.Context, studentID primitive.ObjectID, month, year int) ([]*models.WatchTimeRecord, error)
}
