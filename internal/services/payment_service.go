package services

import (
	"context"
	"fmt"

	"learnhub/internal/models"
	"learnhub/internal/repositories/interfaces"
	"learnhub/internal/utils"
	"learnhub/pkg/logger"
	"learnhub/pkg/payment"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CheckoutPayload is what the client hands to the gateway's checkout SDK.
type CheckoutPayload struct {
	TransactionID  string  `json:"transaction_id"`
	GatewayOrderID string  `json:"gateway_order_id"`
	KeyID          string  `json:"key_id"`
	Amount         float64 `json:"amount"`
	AmountPaise    int     `json:"amount_paise"`
	Currency       string  `json:"currency"`
	Provider       string  `json:"provider"`
	DiscountAmount float64 `json:"discount_amount"`
	CouponCode     string  `json:"coupon_code,omitempty"`
}

type InitiatePaymentRequest struct {
	UserID     primitive.ObjectID
	PlanID     *primitive.ObjectID
	CourseID   *primitive.ObjectID
	CouponCode string
}

type PaymentService interface {
	InitiatePayment(ctx context.Context, request *InitiatePaymentRequest) (*CheckoutPayload, error)
	VerifyPayment(ctx context.Context, gatewayOrderID, gatewayPaymentID, signature string) (*models.SubscriptionTransaction, error)
	CancelPayment(ctx context.Context, gatewayOrderID string, userID primitive.ObjectID) error
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
	RefundPayment(ctx context.Context, transactionID primitive.ObjectID, reason string) (*payment.RefundResponse, error)
	GetTransaction(ctx context.Context, id primitive.ObjectID) (*models.SubscriptionTransaction, error)
	ListUserTransactions(ctx context.Context, userID primitive.ObjectID, params *utils.PaginationParams) ([]*models.SubscriptionTransaction, int64, error)
}

type paymentService struct {
	txnRepo       interfaces.TransactionRepository
	subRepo       interfaces.SubscriptionRepository
	courseRepo    interfaces.CourseRepository
	coupons       CouponService
	gateway       payment.GatewayProvider
	notifications NotificationService
	clock         Clock
	logger        *logger.Logger
}

func NewPaymentService(
	txnRepo interfaces.TransactionRepository,
	subRepo interfaces.SubscriptionRepository,
	courseRepo interfaces.CourseRepository,
	coupons CouponService,
	gateway payment.GatewayProvider,
	notifications NotificationService,
	clock Clock,
	logger *logger.Logger,
) PaymentService {
	return &paymentService{
		txnRepo:       txnRepo,
		subRepo:       subRepo,
		courseRepo:    courseRepo,
		coupons:       coupons,
		gateway:       gateway,
		notifications: notifications,
		clock:         clock,
		logger:        logger,
	}
}

// InitiatePayment prices the order, previews any coupon, snapshots both and
// creates the gateway order. Nothing here redeems the coupon; that happens
// only after the payment is verified.
func (s *paymentService) InitiatePayment(ctx context.Context, request *InitiatePaymentRequest) (*CheckoutPayload, error) {
	baseAmount, categories, err := s.priceOrder(ctx, request)
	if err != nil {
		return nil, err
	}

	order := &models.SubscriptionOrder{
		UserID:      request.UserID,
		PlanID:      request.PlanID,
		CourseID:    request.CourseID,
		BaseAmount:  utils.RoundMoney(baseAmount),
		FinalAmount: utils.RoundMoney(baseAmount),
		Currency:    utils.DefaultCurrency,
		Receipt:     "rcpt_" + uuid.NewString(),
	}

	if request.CouponCode != "" {
		result, err := s.coupons.ValidateCoupon(ctx, request.CouponCode, request.UserID, baseAmount, categories)
		if err != nil {
			return nil, err
		}
		if !result.IsValid {
			return nil, fmt.Errorf("coupon rejected: %s", result.Message)
		}

		order.CouponID = &result.Coupon.ID
		order.CouponCode = result.Coupon.Code
		order.DiscountAmount = result.DiscountAmount
		order.FinalAmount = result.FinalAmount
	}

	if order.FinalAmount < utils.MinOrderAmount {
		return nil, fmt.Errorf("order amount below gateway minimum")
	}

	if err := s.subRepo.CreateOrder(ctx, order); err != nil {
		return nil, err
	}

	gatewayOrder, err := s.gateway.CreateOrder(ctx, &payment.OrderRequest{
		Amount:   order.FinalAmount,
		Currency: order.Currency,
		Receipt:  order.Receipt,
		Notes: map[string]string{
			"user_id":  request.UserID.Hex(),
			"order_id": order.ID.Hex(),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gateway order: %w", err)
	}

	txn := &models.SubscriptionTransaction{
		UserID:         request.UserID,
		OrderID:        order.ID,
		PlanID:         request.PlanID,
		CourseID:       request.CourseID,
		Provider:       s.gateway.Name(),
		GatewayOrderID: gatewayOrder.GatewayOrderID,
		Amount:         order.FinalAmount,
		Currency:       order.Currency,
		CouponID:       order.CouponID,
		CouponCode:     order.CouponCode,
		DiscountAmount: order.DiscountAmount,
	}

	if err := s.txnRepo.Create(ctx, txn); err != nil {
		return nil, err
	}

	s.logger.WithUserID(request.UserID).
		WithTransactionID(txn.ID).
		WithField("amount", txn.Amount).
		Info("Payment initiated")

	return &CheckoutPayload{
		TransactionID:  txn.ID.Hex(),
		GatewayOrderID: gatewayOrder.GatewayOrderID,
		KeyID:          gatewayOrder.KeyID,
		Amount:         txn.Amount,
		AmountPaise:    utils.ToPaise(txn.Amount),
		Currency:       txn.Currency,
		Provider:       txn.Provider,
		DiscountAmount: txn.DiscountAmount,
		CouponCode:     txn.CouponCode,
	}, nil
}

// VerifyPayment is the checkout callback. A bad signature fails the
// transaction; a good one completes it, activates the entitlement and
// confirms the coupon. Terminal states are sticky: a second callback for
// the same order is a no-op error.
func (s *paymentService) VerifyPayment(ctx context.Context, gatewayOrderID, gatewayPaymentID, signature string) (*models.SubscriptionTransaction, error) {
	txn, err := s.txnRepo.GetByGatewayOrderID(ctx, gatewayOrderID)
	if err != nil {
		return nil, err
	}
	if txn.Status.IsTerminal() {
		return nil, ErrTransactionClosed
	}

	if err := s.gateway.VerifyPaymentSignature(gatewayOrderID, gatewayPaymentID, signature); err != nil {
		if _, markErr := s.txnRepo.MarkFailed(ctx, txn.ID, "signature verification failed"); markErr != nil {
			s.logger.WithError(markErr).WithTransactionID(txn.ID).Error("Failed to mark transaction failed")
		}
		txn.Status = models.TransactionStatusFailed
		s.notifications.NotifyPaymentFailed(ctx, txn.UserID, txn)
		return nil, ErrSignatureMismatch
	}

	transitioned, err := s.txnRepo.MarkCompleted(ctx, txn.ID, gatewayPaymentID, signature)
	if err != nil {
		return nil, err
	}
	if !transitioned {
		return nil, ErrTransactionClosed
	}
	txn.Status = models.TransactionStatusCompleted
	txn.GatewayPaymentID = gatewayPaymentID

	s.fulfill(ctx, txn)

	s.logger.WithTransactionID(txn.ID).WithUserID(txn.UserID).Info("Payment completed")

	return txn, nil
}

func (s *paymentService) CancelPayment(ctx context.Context, gatewayOrderID string, userID primitive.ObjectID) error {
	txn, err := s.txnRepo.GetByGatewayOrderID(ctx, gatewayOrderID)
	if err != nil {
		return err
	}
	if txn.UserID != userID {
		return ErrOrderNotFound
	}

	transitioned, err := s.txnRepo.MarkCancelled(ctx, txn.ID)
	if err != nil {
		return err
	}
	if !transitioned {
		return ErrTransactionClosed
	}

	s.logger.WithTransactionID(txn.ID).Info("Payment cancelled by user")
	return nil
}

func (s *paymentService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	event, err := s.gateway.ValidateWebhook(ctx, payload, signature)
	if err != nil {
		return fmt.Errorf("webhook validation failed: %w", err)
	}

	if event.OrderID == "" {
		s.logger.WithField("event_type", event.EventType).Debug("Webhook without order id ignored")
		return nil
	}

	txn, err := s.txnRepo.GetByGatewayOrderID(ctx, event.OrderID)
	if err != nil {
		if err == ErrOrderNotFound {
			s.logger.WithField("gateway_order_id", event.OrderID).Warn("Webhook for unknown order")
			return nil
		}
		return err
	}
	if txn.Status.IsTerminal() {
		return nil
	}

	switch event.EventType {
	case "payment.captured", "payment_intent.succeeded":
		transitioned, err := s.txnRepo.MarkCompleted(ctx, txn.ID, event.PaymentID, "")
		if err != nil {
			return err
		}
		if transitioned {
			txn.Status = models.TransactionStatusCompleted
			txn.GatewayPaymentID = event.PaymentID
			s.fulfill(ctx, txn)
		}

	case "payment.failed", "payment_intent.payment_failed":
		if _, err := s.txnRepo.MarkFailed(ctx, txn.ID, event.FailureReason); err != nil {
			return err
		}
		txn.Status = models.TransactionStatusFailed
		s.notifications.NotifyPaymentFailed(ctx, txn.UserID, txn)

	default:
		s.logger.WithField("event_type", event.EventType).Debug("Webhook event ignored")
	}

	return nil
}

func (s *paymentService) RefundPayment(ctx context.Context, transactionID primitive.ObjectID, reason string) (*payment.RefundResponse, error) {
	txn, err := s.txnRepo.GetByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if txn.Status != models.TransactionStatusCompleted {
		return nil, fmt.Errorf("only completed transactions can be refunded")
	}

	refund, err := s.gateway.RefundPayment(ctx, &payment.RefundRequest{
		PaymentID: txn.GatewayPaymentID,
		Amount:    txn.Amount,
		Reason:    reason,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to refund payment: %w", err)
	}

	// The money is back, so the coupon claim is released too. Failing to
	// release is not worth failing the refund over.
	if txn.CouponID != nil {
		if err := s.coupons.ReverseRedemption(ctx, *txn.CouponID, txn.UserID); err != nil {
			s.logger.WithError(err).WithTransactionID(txn.ID).Error("Refund: coupon release failed")
		}
	}

	s.logger.WithTransactionID(txn.ID).WithField("refund_id", refund.RefundID).Info("Payment refunded")

	return refund, nil
}

func (s *paymentService) GetTransaction(ctx context.Context, id primitive.ObjectID) (*models.SubscriptionTransaction, error) {
	return s.txnRepo.GetByID(ctx, id)
}

func (s *paymentService) ListUserTransactions(ctx context.Context, userID primitive.ObjectID, params *utils.PaginationParams) ([]*models.SubscriptionTransaction, int64, error) {
	return s.txnRepo.GetByUser(ctx, userID, params)
}

func (s *paymentService) priceOrder(ctx context.Context, request *InitiatePaymentRequest) (float64, []string, error) {
	switch {
	case request.PlanID != nil:
		plan, err := s.subRepo.GetPlanByID(ctx, *request.PlanID)
		if err != nil {
			return 0, nil, err
		}
		if !plan.IsActive {
			return 0, nil, ErrPlanNotFound
		}
		categories := plan.Categories
		if len(categories) == 0 {
			categories = []string{models.CategoryAll}
		}
		return plan.Price, categories, nil

	case request.CourseID != nil:
		course, err := s.courseRepo.GetByID(ctx, *request.CourseID)
		if err != nil {
			return 0, nil, err
		}
		if !course.IsPublished {
			return 0, nil, ErrCourseNotFound
		}
		return course.Price, []string{course.Category}, nil

	default:
		return 0, nil, fmt.Errorf("either plan_id or course_id is required")
	}
}

// fulfill runs the post-payment steps. The money has already moved, so
// each failure here is logged and the rest continues.
func (s *paymentService) fulfill(ctx context.Context, txn *models.SubscriptionTransaction) {
	if txn.PlanID != nil {
		plan, err := s.subRepo.GetPlanByID(ctx, *txn.PlanID)
		if err != nil {
			s.logger.WithError(err).WithTransactionID(txn.ID).Error("Fulfillment: plan lookup failed")
		} else {
			now := s.clock.Now()
			expires := now.AddDate(0, 1, 0)
			if plan.Period == models.PlanPeriodYearly {
				expires = now.AddDate(1, 0, 0)
			}

			sub := &models.Subscription{
				UserID:        txn.UserID,
				PlanID:        plan.ID,
				TransactionID: txn.ID,
				StartsAt:      now,
				ExpiresAt:     expires,
			}
			if err := s.subRepo.CreateSubscription(ctx, sub); err != nil {
				s.logger.WithError(err).WithTransactionID(txn.ID).Error("Fulfillment: subscription activation failed")
			}
		}
	}

	if txn.CourseID != nil {
		if err := s.courseRepo.IncrementEnrolled(ctx, *txn.CourseID); err != nil {
			s.logger.WithError(err).WithTransactionID(txn.ID).Error("Fulfillment: enrollment count failed")
		}
	}

	if txn.CouponCode != "" {
		orderContext := models.OrderContextSubscription
		if txn.CourseID != nil {
			orderContext = models.OrderContextCourse
		}

		result, err := s.coupons.RedeemCoupon(ctx, txn.CouponCode, txn.UserID, txn.Amount+txn.DiscountAmount, []string{models.CategoryAll}, orderContext, txn.OrderID)
		if err != nil {
			s.logger.WithError(err).WithTransactionID(txn.ID).Error("Fulfillment: coupon redemption failed")
		} else if !result.IsValid {
			s.logger.WithTransactionID(txn.ID).
				WithField("reason", result.Reason).
				Warn("Fulfillment: coupon no longer redeemable")
		}
	}

	s.notifications.NotifyPaymentReceipt(ctx, txn.UserID, txn)
}
