package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PayoutStatus string

const (
	PayoutStatusPending   PayoutStatus = "pending"
	PayoutStatusApproved  PayoutStatus = "approved"
	PayoutStatusRejected  PayoutStatus = "rejected"
	PayoutStatusProcessed PayoutStatus = "processed"
)

// RevenueBreakdown is the four-way split applied to a base amount.
// InstructorShare + PlatformFee == Gross, Total == Gross + Tax.
type RevenueBreakdown struct {
	Gross           float64 `json:"gross" bson:"gross"`
	Tax             float64 `json:"tax" bson:"tax"`
	PlatformFee     float64 `json:"platform_fee" bson:"platform_fee"`
	InstructorShare float64 `json:"instructor_share" bson:"instructor_share"`
	Total           float64 `json:"total" bson:"total"`
}

type PayoutRequest struct {
	ID               primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	InstructorID     primitive.ObjectID `json:"instructor_id" bson:"instructor_id" validate:"required"`
	Month            int                `json:"month" bson:"month" validate:"required"`
	Year             int                `json:"year" bson:"year" validate:"required"`
	Amount           float64            `json:"amount" bson:"amount"`
	Breakdown        RevenueBreakdown   `json:"breakdown" bson:"breakdown"`
	WatchTimeMinutes int64              `json:"watch_time_minutes" bson:"watch_time_minutes"`
	CourseCount      int                `json:"course_count" bson:"course_count"`
	Status           PayoutStatus       `json:"status" bson:"status" default:"pending"`
	AdminNotes       string             `json:"admin_notes" bson:"admin_notes"`
	ProcessedAt      *time.Time         `json:"processed_at" bson:"processed_at"`
	CreatedAt        time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at" bson:"updated_at"`
}

// EarningsSummary aggregates an instructor's payout history.
type EarningsSummary struct {
	InstructorID  primitive.ObjectID `json:"instructor_id"`
	TotalEarned   float64            `json:"total_earned"`
	TotalPending  float64            `json:"total_pending"`
	TotalPaid     float64            `json:"total_paid"`
	CurrentMonth  float64            `json:"current_month"`
	RequestCount  int64              `json:"request_count"`
}

// MonthlyEarnings is the recomputed earnings for one instructor-month.
type MonthlyEarnings struct {
	InstructorID     primitive.ObjectID `json:"instructor_id"`
	Month            int                `json:"month"`
	Year             int                `json:"year"`
	WatchTimeMinutes int64              `json:"watch_time_minutes"`
	CourseCount      int                `json:"course_count"`
	Breakdown        RevenueBreakdown   `json:"breakdown"`
}
