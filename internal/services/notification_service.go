package services

import (
	"context"

	"learnhub/internal/models"
	"learnhub/internal/repositories/interfaces"
	"learnhub/internal/utils"
	"learnhub/pkg/logger"
	"learnhub/pkg/push"
	"learnhub/pkg/sms"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotificationService fans out to SMS and push. Delivery failures are
// logged and swallowed; notifications never fail the primary operation.
type NotificationService interface {
	NotifyPayoutStatus(ctx context.Context, instructorID primitive.ObjectID, request *models.PayoutRequest)
	NotifyPaymentReceipt(ctx context.Context, userID primitive.ObjectID, txn *models.SubscriptionTransaction)
	NotifyPaymentFailed(ctx context.Context, userID primitive.ObjectID, txn *models.SubscriptionTransaction)
}

type notificationService struct {
	userRepo     interfaces.UserRepository
	smsProvider  sms.Provider
	pushProvider push.Provider
	logger       *logger.Logger
}

func NewNotificationService(
	userRepo interfaces.UserRepository,
	smsProvider sms.Provider,
	pushProvider push.Provider,
	logger *logger.Logger,
) NotificationService {
	return &notificationService{
		userRepo:     userRepo,
		smsProvider:  smsProvider,
		pushProvider: pushProvider,
		logger:       logger,
	}
}

func (s *notificationService) NotifyPayoutStatus(ctx context.Context, instructorID primitive.ObjectID, request *models.PayoutRequest) {
	var title, body string
	switch request.Status {
	case models.PayoutStatusApproved:
		title = "Payout approved"
		body = "Your payout of " + utils.FormatCurrency(request.Amount, utils.DefaultCurrency) + " has been approved."
	case models.PayoutStatusProcessed:
		title = "Payout processed"
		body = "Your payout of " + utils.FormatCurrency(request.Amount, utils.DefaultCurrency) + " has been transferred."
	case models.PayoutStatusRejected:
		title = "Payout rejected"
		body = "Your payout request was rejected. " + request.AdminNotes
	default:
		return
	}

	s.send(ctx, instructorID, title, body, map[string]string{
		"type":      utils.EventPayoutProcessed,
		"payout_id": request.ID.Hex(),
		"status":    string(request.Status),
	})
}

func (s *notificationService) NotifyPaymentReceipt(ctx context.Context, userID primitive.ObjectID, txn *models.SubscriptionTransaction) {
	body := "Payment of " + utils.FormatCurrency(txn.Amount, txn.Currency) + " received. Your subscription is active."
	s.send(ctx, userID, "Payment successful", body, map[string]string{
		"type":           utils.EventPaymentCompleted,
		"transaction_id": txn.ID.Hex(),
	})
}

func (s *notificationService) NotifyPaymentFailed(ctx context.Context, userID primitive.ObjectID, txn *models.SubscriptionTransaction) {
	s.send(ctx, userID, "Payment failed", "Your payment could not be completed. No money was deducted, or it will be auto-refunded.", map[string]string{
		"type":           utils.EventPaymentFailed,
		"transaction_id": txn.ID.Hex(),
	})
}

func (s *notificationService) send(ctx context.Context, userID primitive.ObjectID, title, body string, data map[string]string) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		s.logger.WithError(err).WithUserID(userID).Warn("Notification skipped: user lookup failed")
		return
	}

	if s.pushProvider != nil {
		for _, device := range user.DeviceTokens {
			_, err := s.pushProvider.SendNotification(ctx, &push.NotificationRequest{
				Token: device.Token,
				Title: title,
				Body:  body,
				Data:  data,
			})
			if err != nil {
				s.logger.WithError(err).WithUserID(userID).Warn("Push notification failed")
			}
		}
	}

	if s.smsProvider != nil && user.Phone != "" {
		_, err := s.smsProvider.SendSMS(ctx, &sms.Request{
			To:      user.Phone,
			Message: title + ": " + body,
			Type:    "transactional",
		})
		if err != nil {
			s.logger.WithError(err).WithUserID(userID).Warn("SMS notification failed")
		}
	}
}
