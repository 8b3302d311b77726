package services

import (
	"context"
	"testing"
	"time"

	"learnhub/internal/utils"
)

func TestPlatformConfig_CachedWithinTTL(t *testing.T) {
	repo := newMemConfigRepo(defaultTestConfig())
	clock := newFakeClock(testNow)
	service := NewPlatformConfigService(repo, clock, testLogger())

	for i := 0; i < 10; i++ {
		if _, err := service.Get(context.Background()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if repo.readCount() != 1 {
		t.Errorf("repo reads = %d within TTL, want 1", repo.readCount())
	}
}

func TestPlatformConfig_RefetchedAfterTTL(t *testing.T) {
	repo := newMemConfigRepo(defaultTestConfig())
	clock := newFakeClock(testNow)
	service := NewPlatformConfigService(repo, clock, testLogger())

	if _, err := service.Get(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	clock.Advance(utils.PlatformConfigTTL + time.Second)

	if _, err := service.Get(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if repo.readCount() != 2 {
		t.Errorf("repo reads = %d after TTL expiry, want 2", repo.readCount())
	}
}

func TestPlatformConfig_StaleUntilExpiry(t *testing.T) {
	repo := newMemConfigRepo(defaultTestConfig())
	clock := newFakeClock(testNow)
	service := NewPlatformConfigService(repo, clock, testLogger())

	first, _ := service.Get(context.Background())
	if first.PerMinuteRate != utils.DefaultPerMinuteRate {
		t.Fatalf("rate = %v, want default", first.PerMinuteRate)
	}

	// Change the stored rate behind the cache.
	changed := defaultTestConfig()
	changed.PerMinuteRate = 0.75
	repo.Upsert(context.Background(), &changed)

	stale, _ := service.Get(context.Background())
	if stale.PerMinuteRate != utils.DefaultPerMinuteRate {
		t.Errorf("rate = %v before expiry, want stale default", stale.PerMinuteRate)
	}

	clock.Advance(utils.PlatformConfigTTL + time.Second)

	fresh, _ := service.Get(context.Background())
	if fresh.PerMinuteRate != 0.75 {
		t.Errorf("rate = %v after expiry, want 0.75", fresh.PerMinuteRate)
	}
}

func TestPlatformConfig_UpdateInvalidates(t *testing.T) {
	repo := newMemConfigRepo(defaultTestConfig())
	clock := newFakeClock(testNow)
	service := NewPlatformConfigService(repo, clock, testLogger())

	if _, err := service.Get(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	changed := defaultTestConfig()
	changed.MinPayoutAmount = 2000
	if err := service.Update(context.Background(), &changed); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// No clock advance: the update alone must force a fresh read.
	config, _ := service.Get(context.Background())
	if config.MinPayoutAmount != 2000 {
		t.Errorf("min payout = %v right after update, want 2000", config.MinPayoutAmount)
	}
}

func TestPlatformConfig_ReturnsCopies(t *testing.T) {
	repo := newMemConfigRepo(defaultTestConfig())
	service := NewPlatformConfigService(repo, newFakeClock(testNow), testLogger())

	first, _ := service.Get(context.Background())
	first.TaxPercent = 99

	second, _ := service.Get(context.Background())
	if second.TaxPercent == 99 {
		t.Error("mutating a returned config leaked into the cache")
	}
}
