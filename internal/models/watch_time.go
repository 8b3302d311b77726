package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WatchTimeRecord buckets paid playback minutes per student, course and
// calendar month. Incremented by the playback progress endpoints; read-only
// for payout aggregation.
type WatchTimeRecord struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	StudentID    primitive.ObjectID `json:"student_id" bson:"student_id" validate:"required"`
	CourseID     primitive.ObjectID `json:"course_id" bson:"course_id" validate:"required"`
	InstructorID primitive.ObjectID `json:"instructor_id" bson:"instructor_id"`
	Month        int                `json:"month" bson:"month"`
	Year         int                `json:"year" bson:"year"`
	Minutes      int64              `json:"minutes" bson:"minutes"`
	LastWatchedAt time.Time         `json:"last_watched_at" bson:"last_watched_at"`
	CreatedAt    time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at" bson:"updated_at"`
}

// CourseWatchTime is an aggregation result for dashboards.
type CourseWatchTime struct {
	CourseID     primitive.ObjectID `json:"course_id" bson:"_id"`
	TotalMinutes int64              `json:"total_minutes" bson:"total_minutes"`
	StudentCount int64              `json:"student_count" bson:"student_count"`
}
