package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CourseLevel string

const (
	CourseLevelBeginner     CourseLevel = "beginner"
	CourseLevelIntermediate CourseLevel = "intermediate"
	CourseLevelAdvanced     CourseLevel = "advanced"
)

type Course struct {
	ID            primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	InstructorID  primitive.ObjectID `json:"instructor_id" bson:"instructor_id" validate:"required"`
	Title         string             `json:"title" bson:"title" validate:"required"`
	Description   string             `json:"description" bson:"description"`
	Category      string             `json:"category" bson:"category" validate:"required"`
	Level         CourseLevel        `json:"level" bson:"level" default:"beginner"`
	Price         float64            `json:"price" bson:"price"`
	Currency      string             `json:"currency" bson:"currency" default:"INR"`
	ThumbnailURL  string             `json:"thumbnail_url" bson:"thumbnail_url"`
	DurationMins  int                `json:"duration_mins" bson:"duration_mins"`
	LessonCount   int                `json:"lesson_count" bson:"lesson_count"`
	EnrolledCount int                `json:"enrolled_count" bson:"enrolled_count" default:"0"`
	Rating        float64            `json:"rating" bson:"rating" default:"0"`
	IsPublished   bool               `json:"is_published" bson:"is_published" default:"false"`
	CreatedAt     time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at" bson:"updated_at"`
}
