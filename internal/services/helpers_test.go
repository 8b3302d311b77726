package services

import (
	"context"
	"sync"
	"time"

	"learnhub/internal/models"
	"learnhub/internal/repositories/interfaces"
	"learnhub/internal/utils"
	"learnhub/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeClock returns a fixed instant until advanced.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(t time.Time) *fakeClock {
	return &fakeClock{now: t}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func testLogger() *logger.Logger {
	log, err := logger.NewLogger(&logger.Config{Level: "error", Format: "text", Output: "stderr"})
	if err != nil {
		panic(err)
	}
	return log
}

// memCouponRepo is an in-memory CouponRepository with the same capacity
// semantics as the Mongo implementation.
type memCouponRepo struct {
	mu      sync.Mutex
	coupons map[primitive.ObjectID]*models.Coupon
}

func newMemCouponRepo(coupons ...*models.Coupon) *memCouponRepo {
	repo := &memCouponRepo{coupons: make(map[primitive.ObjectID]*models.Coupon)}
	for _, coupon := range coupons {
		if coupon.ID.IsZero() {
			coupon.ID = primitive.NewObjectID()
		}
		repo.coupons[coupon.ID] = coupon
	}
	return repo
}

func (r *memCouponRepo) Create(ctx context.Context, coupon *models.Coupon) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.coupons {
		if existing.Code == coupon.Code {
			return ErrCouponExists
		}
	}
	if coupon.ID.IsZero() {
		coupon.ID = primitive.NewObjectID()
	}
	r.coupons[coupon.ID] = coupon
	return nil
}

func (r *memCouponRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Coupon, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	coupon, ok := r.coupons[id]
	if !ok {
		return nil, ErrCouponNotFound
	}
	copied := *coupon
	return &copied, nil
}

func (r *memCouponRepo) GetByCode(ctx context.Context, code string) (*models.Coupon, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, coupon := range r.coupons {
		if coupon.Code == code {
			copied := *coupon
			return &copied, nil
		}
	}
	return nil, ErrCouponNotFound
}

func (r *memCouponRepo) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	return nil
}

func (r *memCouponRepo) SetActive(ctx context.Context, id primitive.ObjectID, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	coupon, ok := r.coupons[id]
	if !ok {
		return ErrCouponNotFound
	}
	coupon.IsActive = active
	return nil
}

func (r *memCouponRepo) List(ctx context.Context, params *utils.PaginationParams) ([]*models.Coupon, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Coupon, 0, len(r.coupons))
	for _, coupon := range r.coupons {
		copied := *coupon
		out = append(out, &copied)
	}
	return out, int64(len(out)), nil
}

func (r *memCouponRepo) GetAvailable(ctx context.Context, at time.Time, category string) ([]*models.Coupon, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Coupon, 0)
	for _, coupon := range r.coupons {
		if !coupon.IsActive || at.Before(coupon.ValidFrom) || at.After(coupon.ValidUntil) || !coupon.HasCapacity() {
			continue
		}
		copied := *coupon
		out = append(out, &copied)
	}
	return out, nil
}

func (r *memCouponRepo) IncrementUsage(ctx context.Context, id primitive.ObjectID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	coupon, ok := r.coupons[id]
	if !ok {
		return false, nil
	}
	if !coupon.HasCapacity() {
		return false, nil
	}
	coupon.UsedCount++
	return true, nil
}

func (r *memCouponRepo) DecrementUsage(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if coupon, ok := r.coupons[id]; ok && coupon.UsedCount > 0 {
		coupon.UsedCount--
	}
	return nil
}

// memUsageRepo enforces the one-use-per-user rule the unique index provides.
type memUsageRepo struct {
	mu     sync.Mutex
	usages map[primitive.ObjectID]*models.CouponUsage
}

func newMemUsageRepo() *memUsageRepo {
	return &memUsageRepo{usages: make(map[primitive.ObjectID]*models.CouponUsage)}
}

func (r *memUsageRepo) Create(ctx context.Context, usage *models.CouponUsage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.usages {
		if existing.CouponID == usage.CouponID && existing.UserID == usage.UserID {
			return ErrAlreadyUsed
		}
	}
	usage.ID = primitive.NewObjectID()
	r.usages[usage.ID] = usage
	return nil
}

func (r *memUsageRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.usages, id)
	return nil
}

func (r *memUsageRepo) DeleteByCouponAndUser(ctx context.Context, couponID, userID primitive.ObjectID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, usage := range r.usages {
		if usage.CouponID == couponID && usage.UserID == userID {
			delete(r.usages, id)
			return true, nil
		}
	}
	return false, nil
}

func (r *memUsageRepo) HasUsed(ctx context.Context, couponID, userID primitive.ObjectID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, usage := range r.usages {
		if usage.CouponID == couponID && usage.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (r *memUsageRepo) GetByUser(ctx context.Context, userID primitive.ObjectID, params *utils.PaginationParams) ([]*models.CouponUsage, int64, error) {
	return nil, 0, nil
}

func (r *memUsageRepo) CountByCoupon(ctx context.Context, couponID primitive.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, usage := range r.usages {
		if usage.CouponID == couponID {
			count++
		}
	}
	return count, nil
}

func (r *memUsageRepo) TotalDiscountByCoupon(ctx context.Context, couponID primitive.ObjectID) (float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var total float64
	for _, usage := range r.usages {
		if usage.CouponID == couponID {
			total += usage.DiscountAmount
		}
	}
	return total, nil
}

// memConfigRepo serves a fixed platform config and counts reads.
type memConfigRepo struct {
	mu     sync.Mutex
	config models.PlatformConfig
	reads  int
}

func newMemConfigRepo(config models.PlatformConfig) *memConfigRepo {
	return &memConfigRepo{config: config}
}

func (r *memConfigRepo) Get(ctx context.Context) (*models.PlatformConfig, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reads++
	copied := r.config
	return &copied, nil
}

func (r *memConfigRepo) Upsert(ctx context.Context, config *models.PlatformConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.config = *config
	return nil
}

func (r *memConfigRepo) readCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.reads
}

func defaultTestConfig() models.PlatformConfig {
	return models.PlatformConfig{
		TaxPercent:      utils.DefaultTaxPercent,
		PlatformFeePct:  utils.DefaultPlatformFeePct,
		PerMinuteRate:   utils.DefaultPerMinuteRate,
		MinPayoutAmount: utils.DefaultMinPayoutAmount,
		Currency:        utils.DefaultCurrency,
	}
}

// nopNotifier satisfies NotificationService and records calls.
type nopNotifier struct {
	mu            sync.Mutex
	payoutNotices int
	receipts      int
	failures      int
}

func (n *nopNotifier) NotifyPayoutStatus(ctx context.Context, instructorID primitive.ObjectID, request *models.PayoutRequest) {
	n.mu.Lock()
	n.payoutNotices++
	n.mu.Unlock()
}

func (n *nopNotifier) NotifyPaymentReceipt(ctx context.Context, userID primitive.ObjectID, txn *models.SubscriptionTransaction) {
	n.mu.Lock()
	n.receipts++
	n.mu.Unlock()
}

func (n *nopNotifier) NotifyPaymentFailed(ctx context.Context, userID primitive.ObjectID, txn *models.SubscriptionTransaction) {
	n.mu.Lock()
	n.failures++
	n.mu.Unlock()
}

var _ interfaces.CouponRepository = (*memCouponRepo)(nil)
var _ interfaces.CouponUsageRepository = (*memUsageRepo)(nil)
var _ interfaces.PlatformConfigRepository = (*memConfigRepo)(nil)
var _ NotificationService = (*nopNotifier)(nil)
