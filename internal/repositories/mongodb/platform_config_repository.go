package mongodb

import (
	"context"
	"fmt"
	"time"

	"learnhub/internal/models"
	"learnhub/internal/repositories/interfaces"
	"learnhub/internal/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type platformConfigRepository struct {
	collection *mongo.Collection
}

func NewPlatformConfigRepository(db *mongo.Database) interfaces.PlatformConfigRepository {
	return &platformConfigRepository{
		collection: db.Collection("platformConfig"),
	}
}

// Get returns the single config document, falling back to env defaults
// when none has been written yet.
func (r *platformConfigRepository) Get(ctx context.Context) (*models.PlatformConfig, error) {
	var config models.PlatformConfig
	err := r.collection.FindOne(ctx, bson.M{}).Decode(&config)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return &models.PlatformConfig{
				TaxPercent:      utils.DefaultTaxPercent,
				PlatformFeePct:  utils.DefaultPlatformFeePct,
				PerMinuteRate:   utils.DefaultPerMinuteRate,
				MinPayoutAmount: utils.DefaultMinPayoutAmount,
				Currency:        utils.DefaultCurrency,
			}, nil
		}
		return nil, fmt.Errorf("failed to get platform config: %w", err)
	}

	return &config, nil
}

func (r *platformConfigRepository) Upsert(ctx context.Context, config *models.PlatformConfig) error {
	config.UpdatedAt = time.Now()

	update := bson.M{"$set": bson.M{
		"tax_percent":       config.TaxPercent,
		"platform_fee_pct":  config.PlatformFeePct,
		"per_minute_rate":   config.PerMinuteRate,
		"min_payout_amount": config.MinPayoutAmount,
		"currency":          config.Currency,
		"updated_by":        config.UpdatedBy,
		"updated_at":        config.UpdatedAt,
	}}

	_, err := r.collection.UpdateOne(ctx, bson.M{}, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to upsert platform config: %w", err)
	}

	return nil
}
