package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PlatformConfig is the revenue-sharing configuration document. A single
// document per environment; cached with a short TTL by the config service.
type PlatformConfig struct {
	ID               primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	TaxPercent       float64            `json:"tax_percent" bson:"tax_percent"`
	PlatformFeePct   float64            `json:"platform_fee_pct" bson:"platform_fee_pct"`
	PerMinuteRate    float64            `json:"per_minute_rate" bson:"per_minute_rate"`
	MinPayoutAmount  float64            `json:"min_payout_amount" bson:"min_payout_amount"`
	Currency         string             `json:"currency" bson:"currency" default:"INR"`
	UpdatedBy        primitive.ObjectID `json:"updated_by" bson:"updated_by"`
	UpdatedAt        time.Time          `json:"updated_at" bson:"updated_at"`
}
