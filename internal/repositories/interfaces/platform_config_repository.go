package interfaces

import (
	"context"

	"learnhub/internal/models"
)

type PlatformConfigRepository interface {
	Get(ctx context.Context) (*models.PlatformConfig, error)
	Upsert(ctx context.Context, config *models.PlatformConfig) error
}
