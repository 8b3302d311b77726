package services

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"learnhub/internal/models"
	"learnhub/internal/repositories/interfaces"
	"learnhub/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// memPayoutRepo mirrors the Mongo repository's pending-on-create and
// open-request semantics.
type memPayoutRepo struct {
	mu       sync.Mutex
	requests map[primitive.ObjectID]*models.PayoutRequest
}

func newMemPayoutRepo() *memPayoutRepo {
	return &memPayoutRepo{requests: make(map[primitive.ObjectID]*models.PayoutRequest)}
}

func (r *memPayoutRepo) Create(ctx context.Context, request *models.PayoutRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	request.ID = primitive.NewObjectID()
	request.Status = models.PayoutStatusPending
	r.requests[request.ID] = request
	return nil
}

func (r *memPayoutRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.PayoutRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	request, ok := r.requests[id]
	if !ok {
		return nil, ErrPayoutNotFound
	}
	copied := *request
	return &copied, nil
}

func (r *memPayoutRepo) GetByInstructor(ctx context.Context, instructorID primitive.ObjectID, params *utils.PaginationParams) ([]*models.PayoutRequest, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.PayoutRequest, 0)
	for _, request := range r.requests {
		if request.InstructorID == instructorID {
			copied := *request
			out = append(out, &copied)
		}
	}
	return out, int64(len(out)), nil
}

func (r *memPayoutRepo) GetByStatus(ctx context.Context, status models.PayoutStatus, params *utils.PaginationParams) ([]*models.PayoutRequest, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.PayoutRequest, 0)
	for _, request := range r.requests {
		if request.Status == status {
			copied := *request
			out = append(out, &copied)
		}
	}
	return out, int64(len(out)), nil
}

func (r *memPayoutRepo) HasOpenRequest(ctx context.Context, instructorID primitive.ObjectID, month, year int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, request := range r.requests {
		if request.InstructorID == instructorID && request.Month == month && request.Year == year &&
			(request.Status == models.PayoutStatusPending || request.Status == models.PayoutStatusApproved) {
			return true, nil
		}
	}
	return false, nil
}

func (r *memPayoutRepo) UpdateStatus(ctx context.Context, id primitive.ObjectID, from, to models.PayoutStatus, notes string, processedAt *time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	request, ok := r.requests[id]
	if !ok || request.Status != from {
		return false, nil
	}
	request.Status = to
	if notes != "" {
		request.AdminNotes = notes
	}
	request.ProcessedAt = processedAt
	return true, nil
}

// setStatus seeds a request into an arbitrary state, bypassing the guard.
func (r *memPayoutRepo) setStatus(id primitive.ObjectID, status models.PayoutStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if request, ok := r.requests[id]; ok {
		request.Status = status
	}
}

func (r *memPayoutRepo) GetTotals(ctx context.Context, instructorID primitive.ObjectID) (*interfaces.PayoutTotals, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	totals := &interfaces.PayoutTotals{}
	for _, request := range r.requests {
		if request.InstructorID != instructorID {
			continue
		}
		totals.RequestCount++
		switch request.Status {
		case models.PayoutStatusPending, models.PayoutStatusApproved:
			totals.TotalEarned += request.Amount
			totals.TotalPending += request.Amount
		case models.PayoutStatusProcessed:
			totals.TotalEarned += request.Amount
			totals.TotalPaid += request.Amount
		}
	}
	return totals, nil
}

// memWatchTimeRepo serves fixed per-instructor minute totals.
type memWatchTimeRepo struct {
	mu      sync.Mutex
	minutes map[string]int64
	courses map[string]int
}

func newMemWatchTimeRepo() *memWatchTimeRepo {
	return &memWatchTimeRepo{
		minutes: make(map[string]int64),
		courses: make(map[string]int),
	}
}

func watchKey(id primitive.ObjectID, month, year int) string {
	return fmt.Sprintf("%s-%d-%d", id.Hex(), month, year)
}

func (r *memWatchTimeRepo) setInstructorMinutes(instructorID primitive.ObjectID, month, year int, minutes int64, courseCount int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := watchKey(instructorID, month, year)
	r.minutes[key] = minutes
	r.courses[key] = courseCount
}

func (r *memWatchTimeRepo) IncrementMinutes(ctx context.Context, studentID, courseID, instructorID primitive.ObjectID, minutes int64, month, year int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.minutes[watchKey(instructorID, month, year)] += minutes
	return nil
}

func (r *memWatchTimeRepo) GetRecord(ctx context.Context, studentID, courseID primitive.ObjectID, month, year int) (*models.WatchTimeRecord, error) {
	return nil, nil
}

func (r *memWatchTimeRepo) SumByInstructor(ctx context.Context, instructorID primitive.ObjectID, month, year int) (*interfaces.InstructorWatchTime, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := watchKey(instructorID, month, year)
	return &interfaces.InstructorWatchTime{
		TotalMinutes: r.minutes[key],
		CourseCount:  r.courses[key],
	}, nil
}

func (r *memWatchTimeRepo) SumByCourse(ctx context.Context, courseID primitive.ObjectID, month, year int) (*models.CourseWatchTime, error) {
	return &models.CourseWatchTime{CourseID: courseID}, nil
}

func (r *memWatchTimeRepo) GetStudentRecords(ctx context.Context, studentID primitive.ObjectID, month, year int) ([]*models.WatchTimeRecord, error) {
	return nil, nil
}

var _ interfaces.PayoutRepository = (*memPayoutRepo)(nil)
var _ interfaces.WatchTimeRepository = (*memWatchTimeRepo)(nil)

func newPayoutServiceForTest() (PayoutService, *memPayoutRepo, *memWatchTimeRepo, *nopNotifier, *fakeClock) {
	payoutRepo := newMemPayoutRepo()
	watchTimeRepo := newMemWatchTimeRepo()
	notifier := &nopNotifier{}
	clock := newFakeClock(testNow)
	configService := NewPlatformConfigService(newMemConfigRepo(defaultTestConfig()), clock, testLogger())
	service := NewPayoutService(payoutRepo, watchTimeRepo, NewRevenueService(), configService, notifier, clock, testLogger())
	return service, payoutRepo, watchTimeRepo, notifier, clock
}

func TestMonthlyEarnings_Math(t *testing.T) {
	service, _, watchTimeRepo, _, _ := newPayoutServiceForTest()
	instructorID := primitive.NewObjectID()

	// 4000 minutes at the default 0.50/min is a 2000 base.
	watchTimeRepo.setInstructorMinutes(instructorID, 5, 2025, 4000, 3)

	earnings, err := service.MonthlyEarnings(context.Background(), instructorID, 5, 2025)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if earnings.WatchTimeMinutes != 4000 {
		t.Errorf("minutes = %d, want 4000", earnings.WatchTimeMinutes)
	}
	if earnings.CourseCount != 3 {
		t.Errorf("course count = %d, want 3", earnings.CourseCount)
	}
	if earnings.Breakdown.Gross != 2000 {
		t.Errorf("gross = %v, want 2000", earnings.Breakdown.Gross)
	}
	if earnings.Breakdown.PlatformFee != 400 {
		t.Errorf("fee = %v, want 400", earnings.Breakdown.PlatformFee)
	}
	if earnings.Breakdown.InstructorShare != 1600 {
		t.Errorf("share = %v, want 1600", earnings.Breakdown.InstructorShare)
	}
	if earnings.Breakdown.Tax != 360 {
		t.Errorf("tax = %v, want 360", earnings.Breakdown.Tax)
	}
}

func TestRequestPayout_BelowMinimum(t *testing.T) {
	service, _, watchTimeRepo, _, _ := newPayoutServiceForTest()
	instructorID := primitive.NewObjectID()

	// 2400 minutes -> 1200 base -> 960 share, under the 1000 floor.
	watchTimeRepo.setInstructorMinutes(instructorID, 5, 2025, 2400, 2)

	_, err := service.RequestPayout(context.Background(), instructorID, 5, 2025)
	if err != ErrBelowMinimumPayout {
		t.Errorf("err = %v, want ErrBelowMinimumPayout", err)
	}
}

func TestRequestPayout_AtFloor(t *testing.T) {
	service, _, watchTimeRepo, _, _ := newPayoutServiceForTest()
	instructorID := primitive.NewObjectID()

	// 2500 minutes -> 1250 base -> exactly 1000 share.
	watchTimeRepo.setInstructorMinutes(instructorID, 5, 2025, 2500, 2)

	request, err := service.RequestPayout(context.Background(), instructorID, 5, 2025)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if request.Amount != 1000 {
		t.Errorf("amount = %v, want 1000", request.Amount)
	}
	if request.Status != models.PayoutStatusPending {
		t.Errorf("status = %q, want pending", request.Status)
	}
}

func TestRequestPayout_DuplicateOpenPeriod(t *testing.T) {
	service, _, watchTimeRepo, _, _ := newPayoutServiceForTest()
	instructorID := primitive.NewObjectID()
	watchTimeRepo.setInstructorMinutes(instructorID, 5, 2025, 10000, 4)

	if _, err := service.RequestPayout(context.Background(), instructorID, 5, 2025); err != nil {
		t.Fatalf("first request failed: %v", err)
	}

	_, err := service.RequestPayout(context.Background(), instructorID, 5, 2025)
	if err != ErrDuplicatePayout {
		t.Errorf("err = %v, want ErrDuplicatePayout", err)
	}

	// A different month is fine.
	watchTimeRepo.setInstructorMinutes(instructorID, 6, 2025, 10000, 4)
	if _, err := service.RequestPayout(context.Background(), instructorID, 6, 2025); err != nil {
		t.Errorf("different period rejected: %v", err)
	}
}

func TestRequestPayout_AllowedAfterRejection(t *testing.T) {
	service, _, watchTimeRepo, _, _ := newPayoutServiceForTest()
	instructorID := primitive.NewObjectID()
	watchTimeRepo.setInstructorMinutes(instructorID, 5, 2025, 10000, 4)

	first, err := service.RequestPayout(context.Background(), instructorID, 5, 2025)
	if err != nil {
		t.Fatalf("first request failed: %v", err)
	}

	if _, err := service.UpdatePayoutStatus(context.Background(), first.ID, models.PayoutStatusRejected, "bad bank details"); err != nil {
		t.Fatalf("rejection failed: %v", err)
	}

	if _, err := service.RequestPayout(context.Background(), instructorID, 5, 2025); err != nil {
		t.Errorf("re-request after rejection failed: %v", err)
	}
}

func TestUpdatePayoutStatus_TransitionMatrix(t *testing.T) {
	cases := []struct {
		from    models.PayoutStatus
		to      models.PayoutStatus
		allowed bool
	}{
		{models.PayoutStatusPending, models.PayoutStatusApproved, true},
		{models.PayoutStatusPending, models.PayoutStatusRejected, true},
		{models.PayoutStatusPending, models.PayoutStatusProcessed, false},
		{models.PayoutStatusApproved, models.PayoutStatusProcessed, true},
		{models.PayoutStatusApproved, models.PayoutStatusRejected, false},
		{models.PayoutStatusApproved, models.PayoutStatusPending, false},
		{models.PayoutStatusRejected, models.PayoutStatusApproved, false},
		{models.PayoutStatusProcessed, models.PayoutStatusPending, false},
		{models.PayoutStatusProcessed, models.PayoutStatusApproved, false},
	}

	for _, tc := range cases {
		t.Run(string(tc.from)+"_to_"+string(tc.to), func(t *testing.T) {
			service, payoutRepo, _, _, _ := newPayoutServiceForTest()

			request := &models.PayoutRequest{InstructorID: primitive.NewObjectID(), Month: 5, Year: 2025, Amount: 1500}
			payoutRepo.Create(context.Background(), request)
			payoutRepo.setStatus(request.ID, tc.from)

			_, err := service.UpdatePayoutStatus(context.Background(), request.ID, tc.to, "")
			if tc.allowed && err != nil {
				t.Errorf("transition rejected: %v", err)
			}
			if !tc.allowed && err != ErrInvalidTransition {
				t.Errorf("err = %v, want ErrInvalidTransition", err)
			}
		})
	}
}

// stalePayoutRepo lets a test change the stored status between the
// service's read and its guarded write, like a second admin landing first.
type stalePayoutRepo struct {
	*memPayoutRepo
	afterRead func()
}

func (r *stalePayoutRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.PayoutRequest, error) {
	request, err := r.memPayoutRepo.GetByID(ctx, id)
	if err == nil && r.afterRead != nil {
		r.afterRead()
	}
	return request, err
}

func TestUpdatePayoutStatus_ConcurrentAdminLosesRace(t *testing.T) {
	inner := newMemPayoutRepo()
	repo := &stalePayoutRepo{memPayoutRepo: inner}
	clock := newFakeClock(testNow)
	notifier := &nopNotifier{}
	configService := NewPlatformConfigService(newMemConfigRepo(defaultTestConfig()), clock, testLogger())
	service := NewPayoutService(repo, newMemWatchTimeRepo(), NewRevenueService(), configService, notifier, clock, testLogger())

	request := &models.PayoutRequest{InstructorID: primitive.NewObjectID(), Month: 5, Year: 2025, Amount: 1500}
	inner.Create(context.Background(), request)

	repo.afterRead = func() {
		inner.setStatus(request.ID, models.PayoutStatusRejected)
	}

	if _, err := service.UpdatePayoutStatus(context.Background(), request.ID, models.PayoutStatusApproved, ""); err != ErrInvalidTransition {
		t.Fatalf("err = %v, want ErrInvalidTransition", err)
	}

	stored, _ := inner.GetByID(context.Background(), request.ID)
	if stored.Status != models.PayoutStatusRejected {
		t.Errorf("status = %q, want the first admin's rejection to stand", stored.Status)
	}
	if notifier.payoutNotices != 0 {
		t.Errorf("payout notifications = %d, want 0 for the losing update", notifier.payoutNotices)
	}
}

func TestUpdatePayoutStatus_ProcessedStampsTime(t *testing.T) {
	service, payoutRepo, _, notifier, _ := newPayoutServiceForTest()

	request := &models.PayoutRequest{InstructorID: primitive.NewObjectID(), Month: 5, Year: 2025, Amount: 1500}
	payoutRepo.Create(context.Background(), request)
	payoutRepo.setStatus(request.ID, models.PayoutStatusApproved)

	updated, err := service.UpdatePayoutStatus(context.Background(), request.ID, models.PayoutStatusProcessed, "paid via NEFT")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.ProcessedAt == nil || !updated.ProcessedAt.Equal(testNow) {
		t.Errorf("processed_at = %v, want %v", updated.ProcessedAt, testNow)
	}
	if updated.AdminNotes != "paid via NEFT" {
		t.Errorf("notes = %q, want recorded", updated.AdminNotes)
	}
	if notifier.payoutNotices != 1 {
		t.Errorf("payout notifications = %d, want 1", notifier.payoutNotices)
	}
}

func TestEarningsSummary_Totals(t *testing.T) {
	service, payoutRepo, watchTimeRepo, _, _ := newPayoutServiceForTest()
	instructorID := primitive.NewObjectID()

	// June (the fake clock's month) has live watch time.
	watchTimeRepo.setInstructorMinutes(instructorID, int(testNow.Month()), testNow.Year(), 1000, 1)

	pending := &models.PayoutRequest{InstructorID: instructorID, Month: 3, Year: 2025, Amount: 1200}
	payoutRepo.Create(context.Background(), pending)

	paid := &models.PayoutRequest{InstructorID: instructorID, Month: 4, Year: 2025, Amount: 1800}
	payoutRepo.Create(context.Background(), paid)
	payoutRepo.setStatus(paid.ID, models.PayoutStatusProcessed)

	summary, err := service.EarningsSummary(context.Background(), instructorID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if summary.TotalEarned != 3000 {
		t.Errorf("total earned = %v, want 3000", summary.TotalEarned)
	}
	if summary.TotalPending != 1200 {
		t.Errorf("total pending = %v, want 1200", summary.TotalPending)
	}
	if summary.TotalPaid != 1800 {
		t.Errorf("total paid = %v, want 1800", summary.TotalPaid)
	}
	// 1000 min * 0.50 = 500 base, share = 400 after the 20% fee.
	if summary.CurrentMonth != 400 {
		t.Errorf("current month = %v, want 400", summary.CurrentMonth)
	}
	if summary.RequestCount != 2 {
		t.Errorf("request count = %d, want 2", summary.RequestCount)
	}
}
