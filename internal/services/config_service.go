package services

import (
	"context"
	"sync"
	"time"

	"learnhub/internal/models"
	"learnhub/internal/repositories/interfaces"
	"learnhub/internal/utils"
	"learnhub/pkg/logger"
)

// Clock abstracts time.Now so cache expiry is testable.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func NewRealClock() Clock { return realClock{} }

// PlatformConfigService serves the revenue-sharing configuration with a
// short in-process TTL cache. Rates change rarely; readers tolerate up to
// one TTL of staleness, and Invalidate forces the next read through.
type PlatformConfigService interface {
	Get(ctx context.Context) (*models.PlatformConfig, error)
	Update(ctx context.Context, config *models.PlatformConfig) error
	Invalidate()
}

type platformConfigService struct {
	repo   interfaces.PlatformConfigRepository
	clock  Clock
	ttl    time.Duration
	logger *logger.Logger

	mu        sync.RWMutex
	cached    *models.PlatformConfig
	fetchedAt time.Time
}

func NewPlatformConfigService(repo interfaces.PlatformConfigRepository, clock Clock, logger *logger.Logger) PlatformConfigService {
	return &platformConfigService{
		repo:   repo,
		clock:  clock,
		ttl:    utils.PlatformConfigTTL,
		logger: logger,
	}
}

func (s *platformConfigService) Get(ctx context.Context) (*models.PlatformConfig, error) {
	s.mu.RLock()
	if s.cached != nil && s.clock.Now().Sub(s.fetchedAt) < s.ttl {
		config := *s.cached
		s.mu.RUnlock()
		return &config, nil
	}
	s.mu.RUnlock()

	config, err := s.repo.Get(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.cached = config
	s.fetchedAt = s.clock.Now()
	s.mu.Unlock()

	copied := *config
	return &copied, nil
}

func (s *platformConfigService) Update(ctx context.Context, config *models.PlatformConfig) error {
	if err := s.repo.Upsert(ctx, config); err != nil {
		return err
	}

	s.Invalidate()
	s.logger.WithField("min_payout", config.MinPayoutAmount).Info("Platform config updated")

	return nil
}

func (s *platformConfigService) Invalidate() {
	s.mu.Lock()
	s.cached = nil
	s.mu.Unlock()
}
