package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
	"testing"
	"time"

	"learnhub/internal/models"
	"learnhub/internal/repositories/interfaces"
	"learnhub/internal/utils"
	"learnhub/pkg/payment"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// memTxnRepo mirrors the Mongo repository's terminal-once transitions.
type memTxnRepo struct {
	mu   sync.Mutex
	txns map[primitive.ObjectID]*models.SubscriptionTransaction
}

func newMemTxnRepo() *memTxnRepo {
	return &memTxnRepo{txns: make(map[primitive.ObjectID]*models.SubscriptionTransaction)}
}

func (r *memTxnRepo) Create(ctx context.Context, txn *models.SubscriptionTransaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	txn.ID = primitive.NewObjectID()
	txn.Status = models.TransactionStatusPending
	r.txns[txn.ID] = txn
	return nil
}

func (r *memTxnRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.SubscriptionTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	txn, ok := r.txns[id]
	if !ok {
		return nil, ErrOrderNotFound
	}
	copied := *txn
	return &copied, nil
}

func (r *memTxnRepo) GetByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*models.SubscriptionTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, txn := range r.txns {
		if txn.GatewayOrderID == gatewayOrderID {
			copied := *txn
			return &copied, nil
		}
	}
	return nil, ErrOrderNotFound
}

func (r *memTxnRepo) transition(id primitive.ObjectID, to models.TransactionStatus) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	txn, ok := r.txns[id]
	if !ok || txn.Status != models.TransactionStatusPending {
		return false
	}
	txn.Status = to
	return true
}

func (r *memTxnRepo) MarkCompleted(ctx context.Context, id primitive.ObjectID, gatewayPaymentID, gatewaySignature string) (bool, error) {
	if !r.transition(id, models.TransactionStatusCompleted) {
		return false, nil
	}
	r.mu.Lock()
	r.txns[id].GatewayPaymentID = gatewayPaymentID
	r.txns[id].GatewaySignature = gatewaySignature
	r.mu.Unlock()
	return true, nil
}

func (r *memTxnRepo) MarkFailed(ctx context.Context, id primitive.ObjectID, reason string) (bool, error) {
	if !r.transition(id, models.TransactionStatusFailed) {
		return false, nil
	}
	r.mu.Lock()
	r.txns[id].FailureReason = reason
	r.mu.Unlock()
	return true, nil
}

func (r *memTxnRepo) MarkCancelled(ctx context.Context, id primitive.ObjectID) (bool, error) {
	return r.transition(id, models.TransactionStatusCancelled), nil
}

func (r *memTxnRepo) GetByUser(ctx context.Context, userID primitive.ObjectID, params *utils.PaginationParams) ([]*models.SubscriptionTransaction, int64, error) {
	return nil, 0, nil
}

func (r *memTxnRepo) GetByStatus(ctx context.Context, status models.TransactionStatus, params *utils.PaginationParams) ([]*models.SubscriptionTransaction, int64, error) {
	return nil, 0, nil
}

// memSubRepo holds plans, orders and subscriptions in maps.
type memSubRepo struct {
	mu            sync.Mutex
	plans         map[primitive.ObjectID]*models.SubscriptionPlan
	orders        map[primitive.ObjectID]*models.SubscriptionOrder
	subscriptions map[primitive.ObjectID]*models.Subscription
}

func newMemSubRepo(plans ...*models.SubscriptionPlan) *memSubRepo {
	repo := &memSubRepo{
		plans:         make(map[primitive.ObjectID]*models.SubscriptionPlan),
		orders:        make(map[primitive.ObjectID]*models.SubscriptionOrder),
		subscriptions: make(map[primitive.ObjectID]*models.Subscription),
	}
	for _, plan := range plans {
		if plan.ID.IsZero() {
			plan.ID = primitive.NewObjectID()
		}
		repo.plans[plan.ID] = plan
	}
	return repo
}

func (r *memSubRepo) CreatePlan(ctx context.Context, plan *models.SubscriptionPlan) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if plan.ID.IsZero() {
		plan.ID = primitive.NewObjectID()
	}
	r.plans[plan.ID] = plan
	return nil
}

func (r *memSubRepo) GetPlanByID(ctx context.Context, id primitive.ObjectID) (*models.SubscriptionPlan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	plan, ok := r.plans[id]
	if !ok {
		return nil, ErrPlanNotFound
	}
	copied := *plan
	return &copied, nil
}

func (r *memSubRepo) ListPlans(ctx context.Context, activeOnly bool) ([]*models.SubscriptionPlan, error) {
	return nil, nil
}

func (r *memSubRepo) UpdatePlan(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	return nil
}

func (r *memSubRepo) CreateOrder(ctx context.Context, order *models.SubscriptionOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	order.ID = primitive.NewObjectID()
	r.orders[order.ID] = order
	return nil
}

func (r *memSubRepo) GetOrderByID(ctx context.Context, id primitive.ObjectID) (*models.SubscriptionOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, ErrOrderNotFound
	}
	copied := *order
	return &copied, nil
}

func (r *memSubRepo) CreateSubscription(ctx context.Context, sub *models.Subscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	sub.ID = primitive.NewObjectID()
	sub.Status = models.SubscriptionStatusActive
	r.subscriptions[sub.ID] = sub
	return nil
}

func (r *memSubRepo) GetActiveByUser(ctx context.Context, userID primitive.ObjectID, at time.Time) (*models.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, sub := range r.subscriptions {
		if sub.UserID == userID && sub.Status == models.SubscriptionStatusActive && at.Before(sub.ExpiresAt) {
			copied := *sub
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *memSubRepo) GetByUser(ctx context.Context, userID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Subscription, int64, error) {
	return nil, 0, nil
}

func (r *memSubRepo) UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.SubscriptionStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if sub, ok := r.subscriptions[id]; ok {
		sub.Status = status
	}
	return nil
}

func (r *memSubRepo) ExpireDue(ctx context.Context, at time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var expired int64
	for _, sub := range r.subscriptions {
		if sub.Status == models.SubscriptionStatusActive && !at.Before(sub.ExpiresAt) {
			sub.Status = models.SubscriptionStatusExpired
			expired++
		}
	}
	return expired, nil
}

func (r *memSubRepo) activeCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, sub := range r.subscriptions {
		if sub.Status == models.SubscriptionStatusActive {
			count++
		}
	}
	return count
}

// fakeGateway accepts only the signature "valid" and hands out sequential
// order IDs.
type fakeGateway struct {
	mu      sync.Mutex
	orders  int
	refunds int
	event   *payment.WebhookEvent
}

func (g *fakeGateway) CreateOrder(ctx context.Context, request *payment.OrderRequest) (*payment.OrderResponse, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.orders++
	return &payment.OrderResponse{
		GatewayOrderID: fmt.Sprintf("order_test_%d", g.orders),
		KeyID:          "rzp_test_key",
		Amount:         request.Amount,
		Currency:       request.Currency,
		Status:         "created",
	}, nil
}

func (g *fakeGateway) VerifyPaymentSignature(orderID, paymentID, signature string) error {
	if signature != "valid" {
		return fmt.Errorf("signature mismatch")
	}
	return nil
}

func (g *fakeGateway) RefundPayment(ctx context.Context, request *payment.RefundRequest) (*payment.RefundResponse, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.refunds++
	return &payment.RefundResponse{RefundID: fmt.Sprintf("rfnd_%d", g.refunds), Status: "processed", Amount: request.Amount}, nil
}

func (g *fakeGateway) ValidateWebhook(ctx context.Context, payload []byte, signature string) (*payment.WebhookEvent, error) {
	if signature != "valid" {
		return nil, fmt.Errorf("webhook signature mismatch")
	}
	return g.event, nil
}

func (g *fakeGateway) Name() string { return "razorpay" }

var _ interfaces.TransactionRepository = (*memTxnRepo)(nil)
var _ interfaces.SubscriptionRepository = (*memSubRepo)(nil)
var _ payment.GatewayProvider = (*fakeGateway)(nil)

type paymentFixture struct {
	service    PaymentService
	txnRepo    *memTxnRepo
	subRepo    *memSubRepo
	courseRepo *memCourseRepo
	couponRepo *memCouponRepo
	gateway    *fakeGateway
	notifier   *nopNotifier
	plan       *models.SubscriptionPlan
	course     *models.Course
}

func newPaymentFixture(coupons ...*models.Coupon) *paymentFixture {
	plan := &models.SubscriptionPlan{
		Name:       "Monthly All Access",
		Price:      1500,
		Currency:   utils.DefaultCurrency,
		Period:     models.PlanPeriodMonthly,
		Categories: []string{"programming"},
		IsActive:   true,
	}
	course := &models.Course{
		InstructorID: primitive.NewObjectID(),
		Title:        "Go Basics",
		Category:     "programming",
		Price:        799,
		IsPublished:  true,
	}

	txnRepo := newMemTxnRepo()
	subRepo := newMemSubRepo(plan)
	courseRepo := newMemCourseRepo(course)
	couponRepo := newMemCouponRepo(coupons...)
	usageRepo := newMemUsageRepo()
	gateway := &fakeGateway{}
	notifier := &nopNotifier{}
	clock := newFakeClock(testNow)

	couponService := NewCouponService(couponRepo, usageRepo, clock, testLogger())
	service := NewPaymentService(txnRepo, subRepo, courseRepo, couponService, gateway, notifier, clock, testLogger())

	return &paymentFixture{
		service:    service,
		txnRepo:    txnRepo,
		subRepo:    subRepo,
		courseRepo: courseRepo,
		couponRepo: couponRepo,
		gateway:    gateway,
		notifier:   notifier,
		plan:       plan,
		course:     course,
	}
}

func TestInitiatePayment_PlanWithCoupon(t *testing.T) {
	f := newPaymentFixture(activeCoupon("SAVE20", models.CouponTypePercentage, 20))
	userID := primitive.NewObjectID()

	payload, err := f.service.InitiatePayment(context.Background(), &InitiatePaymentRequest{
		UserID:     userID,
		PlanID:     &f.plan.ID,
		CouponCode: "SAVE20",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if payload.Amount != 1200 {
		t.Errorf("amount = %v, want 1200", payload.Amount)
	}
	if payload.AmountPaise != 120000 {
		t.Errorf("paise = %d, want 120000", payload.AmountPaise)
	}
	if payload.DiscountAmount != 300 {
		t.Errorf("discount = %v, want 300", payload.DiscountAmount)
	}
	if payload.GatewayOrderID == "" || payload.KeyID == "" {
		t.Error("checkout payload missing gateway identifiers")
	}

	// Initiation previews the coupon only.
	stored, _ := f.couponRepo.GetByCode(context.Background(), "SAVE20")
	if stored.UsedCount != 0 {
		t.Errorf("used_count = %d after initiation, want 0", stored.UsedCount)
	}
}

func TestInitiatePayment_RejectsInvalidCoupon(t *testing.T) {
	expired := activeCoupon("OLD", models.CouponTypePercentage, 20)
	expired.ValidUntil = testNow.Add(-time.Hour)
	f := newPaymentFixture(expired)

	_, err := f.service.InitiatePayment(context.Background(), &InitiatePaymentRequest{
		UserID:     primitive.NewObjectID(),
		PlanID:     &f.plan.ID,
		CouponCode: "OLD",
	})
	if err == nil {
		t.Error("expected error for rejected coupon at initiation")
	}
}

func TestInitiatePayment_RequiresTarget(t *testing.T) {
	f := newPaymentFixture()

	_, err := f.service.InitiatePayment(context.Background(), &InitiatePaymentRequest{UserID: primitive.NewObjectID()})
	if err == nil {
		t.Error("expected error when neither plan nor course is given")
	}
}

func TestVerifyPayment_CompletesAndFulfills(t *testing.T) {
	f := newPaymentFixture(activeCoupon("SAVE20", models.CouponTypePercentage, 20))
	userID := primitive.NewObjectID()

	payload, err := f.service.InitiatePayment(context.Background(), &InitiatePaymentRequest{
		UserID:     userID,
		PlanID:     &f.plan.ID,
		CouponCode: "SAVE20",
	})
	if err != nil {
		t.Fatalf("initiation failed: %v", err)
	}

	txn, err := f.service.VerifyPayment(context.Background(), payload.GatewayOrderID, "pay_123", "valid")
	if err != nil {
		t.Fatalf("verification failed: %v", err)
	}
	if txn.Status != models.TransactionStatusCompleted {
		t.Errorf("status = %q, want completed", txn.Status)
	}

	if f.subRepo.activeCount() != 1 {
		t.Errorf("active subscriptions = %d, want 1", f.subRepo.activeCount())
	}

	// The coupon is consumed exactly at fulfillment.
	stored, _ := f.couponRepo.GetByCode(context.Background(), "SAVE20")
	if stored.UsedCount != 1 {
		t.Errorf("used_count = %d, want 1", stored.UsedCount)
	}

	if f.notifier.receipts != 1 {
		t.Errorf("receipts = %d, want 1", f.notifier.receipts)
	}
}

func TestVerifyPayment_BadSignatureFails(t *testing.T) {
	f := newPaymentFixture(activeCoupon("SAVE20", models.CouponTypePercentage, 20))
	userID := primitive.NewObjectID()

	payload, _ := f.service.InitiatePayment(context.Background(), &InitiatePaymentRequest{
		UserID:     userID,
		PlanID:     &f.plan.ID,
		CouponCode: "SAVE20",
	})

	_, err := f.service.VerifyPayment(context.Background(), payload.GatewayOrderID, "pay_123", "forged")
	if err != ErrSignatureMismatch {
		t.Fatalf("err = %v, want ErrSignatureMismatch", err)
	}

	stored, _ := f.txnRepo.GetByGatewayOrderID(context.Background(), payload.GatewayOrderID)
	if stored.Status != models.TransactionStatusFailed {
		t.Errorf("status = %q, want failed", stored.Status)
	}

	// No entitlement and no coupon burn on a failed payment.
	if f.subRepo.activeCount() != 0 {
		t.Error("subscription created despite failed payment")
	}
	coupon, _ := f.couponRepo.GetByCode(context.Background(), "SAVE20")
	if coupon.UsedCount != 0 {
		t.Errorf("used_count = %d after failure, want 0", coupon.UsedCount)
	}
	if f.notifier.failures != 1 {
		t.Errorf("failure notifications = %d, want 1", f.notifier.failures)
	}
}

func TestVerifyPayment_TerminalStateIsSticky(t *testing.T) {
	f := newPaymentFixture()
	userID := primitive.NewObjectID()

	payload, _ := f.service.InitiatePayment(context.Background(), &InitiatePaymentRequest{
		UserID: userID,
		PlanID: &f.plan.ID,
	})

	if _, err := f.service.VerifyPayment(context.Background(), payload.GatewayOrderID, "pay_123", "valid"); err != nil {
		t.Fatalf("first verification failed: %v", err)
	}

	_, err := f.service.VerifyPayment(context.Background(), payload.GatewayOrderID, "pay_456", "valid")
	if err != ErrTransactionClosed {
		t.Errorf("err = %v, want ErrTransactionClosed", err)
	}

	// Replay must not double-fulfill.
	if f.subRepo.activeCount() != 1 {
		t.Errorf("active subscriptions = %d after replay, want 1", f.subRepo.activeCount())
	}
}

func TestVerifyPayment_CoursePurchaseEnrolls(t *testing.T) {
	f := newPaymentFixture()
	userID := primitive.NewObjectID()

	payload, err := f.service.InitiatePayment(context.Background(), &InitiatePaymentRequest{
		UserID:   userID,
		CourseID: &f.course.ID,
	})
	if err != nil {
		t.Fatalf("initiation failed: %v", err)
	}
	if payload.Amount != 799 {
		t.Errorf("amount = %v, want course price 799", payload.Amount)
	}

	if _, err := f.service.VerifyPayment(context.Background(), payload.GatewayOrderID, "pay_123", "valid"); err != nil {
		t.Fatalf("verification failed: %v", err)
	}

	course, _ := f.courseRepo.GetByID(context.Background(), f.course.ID)
	if course.EnrolledCount != 1 {
		t.Errorf("enrolled = %d, want 1", course.EnrolledCount)
	}
	if f.subRepo.activeCount() != 0 {
		t.Error("course purchase must not create a subscription")
	}
}

func TestCancelPayment_OwnerOnly(t *testing.T) {
	f := newPaymentFixture()
	owner := primitive.NewObjectID()

	payload, _ := f.service.InitiatePayment(context.Background(), &InitiatePaymentRequest{
		UserID: owner,
		PlanID: &f.plan.ID,
	})

	if err := f.service.CancelPayment(context.Background(), payload.GatewayOrderID, primitive.NewObjectID()); err != ErrOrderNotFound {
		t.Errorf("err = %v for stranger, want ErrOrderNotFound", err)
	}

	if err := f.service.CancelPayment(context.Background(), payload.GatewayOrderID, owner); err != nil {
		t.Errorf("owner cancel failed: %v", err)
	}

	stored, _ := f.txnRepo.GetByGatewayOrderID(context.Background(), payload.GatewayOrderID)
	if stored.Status != models.TransactionStatusCancelled {
		t.Errorf("status = %q, want cancelled", stored.Status)
	}
}

func TestHandleWebhook_CapturedCompletes(t *testing.T) {
	f := newPaymentFixture()
	userID := primitive.NewObjectID()

	payload, _ := f.service.InitiatePayment(context.Background(), &InitiatePaymentRequest{
		UserID: userID,
		PlanID: &f.plan.ID,
	})

	f.gateway.event = &payment.WebhookEvent{
		EventType: "payment.captured",
		OrderID:   payload.GatewayOrderID,
		PaymentID: "pay_webhook",
	}

	if err := f.service.HandleWebhook(context.Background(), []byte(`{}`), "valid"); err != nil {
		t.Fatalf("webhook failed: %v", err)
	}

	stored, _ := f.txnRepo.GetByGatewayOrderID(context.Background(), payload.GatewayOrderID)
	if stored.Status != models.TransactionStatusCompleted {
		t.Errorf("status = %q, want completed", stored.Status)
	}
	if stored.GatewayPaymentID != "pay_webhook" {
		t.Errorf("payment id = %q, want pay_webhook", stored.GatewayPaymentID)
	}
	if f.subRepo.activeCount() != 1 {
		t.Errorf("active subscriptions = %d, want 1", f.subRepo.activeCount())
	}
}

func TestHandleWebhook_BadSignature(t *testing.T) {
	f := newPaymentFixture()
	if err := f.service.HandleWebhook(context.Background(), []byte(`{}`), "forged"); err == nil {
		t.Error("expected error for forged webhook signature")
	}
}

// Drives a signed gateway-shaped payload, with the payment entity nested
// under payload.payment.entity, through the real provider into the service.
func TestHandleWebhook_GatewayPayloadShape(t *testing.T) {
	f := newPaymentFixture()
	userID := primitive.NewObjectID()

	payload, err := f.service.InitiatePayment(context.Background(), &InitiatePaymentRequest{
		UserID: userID,
		PlanID: &f.plan.ID,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	const webhookSecret = "whsec_test"
	provider := payment.NewRazorpayProvider("key_test", "secret_test", webhookSecret)
	coupons := NewCouponService(f.couponRepo, newMemUsageRepo(), newFakeClock(testNow), testLogger())
	webhookService := NewPaymentService(f.txnRepo, f.subRepo, f.courseRepo, coupons, provider, f.notifier, newFakeClock(testNow), testLogger())

	body := []byte(fmt.Sprintf(`{
		"entity": "event",
		"event": "payment.captured",
		"payload": {
			"payment": {
				"entity": {
					"id": "pay_live01",
					"order_id": %q,
					"status": "captured",
					"amount": 150000
				}
			}
		}
	}`, payload.GatewayOrderID))

	h := hmac.New(sha256.New, []byte(webhookSecret))
	h.Write(body)
	signature := hex.EncodeToString(h.Sum(nil))

	if err := webhookService.HandleWebhook(context.Background(), body, signature); err != nil {
		t.Fatalf("webhook failed: %v", err)
	}

	stored, _ := f.txnRepo.GetByGatewayOrderID(context.Background(), payload.GatewayOrderID)
	if stored.Status != models.TransactionStatusCompleted {
		t.Errorf("status = %q, want completed", stored.Status)
	}
	if stored.GatewayPaymentID != "pay_live01" {
		t.Errorf("payment id = %q, want pay_live01", stored.GatewayPaymentID)
	}
	if f.subRepo.activeCount() != 1 {
		t.Errorf("active subscriptions = %d, want 1", f.subRepo.activeCount())
	}
}

func TestRefundPayment_CompletedOnly(t *testing.T) {
	f := newPaymentFixture()
	userID := primitive.NewObjectID()

	payload, _ := f.service.InitiatePayment(context.Background(), &InitiatePaymentRequest{
		UserID: userID,
		PlanID: &f.plan.ID,
	})
	txn, _ := f.txnRepo.GetByGatewayOrderID(context.Background(), payload.GatewayOrderID)

	if _, err := f.service.RefundPayment(context.Background(), txn.ID, "requested"); err == nil {
		t.Error("refund of a pending transaction should fail")
	}

	if _, err := f.service.VerifyPayment(context.Background(), payload.GatewayOrderID, "pay_123", "valid"); err != nil {
		t.Fatalf("verification failed: %v", err)
	}

	refund, err := f.service.RefundPayment(context.Background(), txn.ID, "requested")
	if err != nil {
		t.Fatalf("refund failed: %v", err)
	}
	if refund.RefundID == "" {
		t.Error("refund response missing id")
	}
}

func TestRefundPayment_ReleasesCoupon(t *testing.T) {
	f := newPaymentFixture(activeCoupon("SAVE20", models.CouponTypePercentage, 20))
	userID := primitive.NewObjectID()

	payload, _ := f.service.InitiatePayment(context.Background(), &InitiatePaymentRequest{
		UserID:     userID,
		PlanID:     &f.plan.ID,
		CouponCode: "SAVE20",
	})
	if _, err := f.service.VerifyPayment(context.Background(), payload.GatewayOrderID, "pay_123", "valid"); err != nil {
		t.Fatalf("verification failed: %v", err)
	}

	stored, _ := f.couponRepo.GetByCode(context.Background(), "SAVE20")
	if stored.UsedCount != 1 {
		t.Fatalf("used_count = %d before refund, want 1", stored.UsedCount)
	}

	txn, _ := f.txnRepo.GetByGatewayOrderID(context.Background(), payload.GatewayOrderID)
	if _, err := f.service.RefundPayment(context.Background(), txn.ID, "requested"); err != nil {
		t.Fatalf("refund failed: %v", err)
	}

	stored, _ = f.couponRepo.GetByCode(context.Background(), "SAVE20")
	if stored.UsedCount != 0 {
		t.Errorf("used_count = %d after refund, want 0", stored.UsedCount)
	}

	// The refunded user can apply the coupon on a fresh order.
	retry, err := f.service.InitiatePayment(context.Background(), &InitiatePaymentRequest{
		UserID:     userID,
		PlanID:     &f.plan.ID,
		CouponCode: "SAVE20",
	})
	if err != nil {
		t.Fatalf("re-initiation failed: %v", err)
	}
	if retry.DiscountAmount != 300 {
		t.Errorf("discount = %v on retry, want 300", retry.DiscountAmount)
	}
}
