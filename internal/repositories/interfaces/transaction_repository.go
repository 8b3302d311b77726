package interfaces

import (
	"context"

	"learnhub/internal/models"
	"learnhub/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TransactionRepository interface {
	Create(ctx context.Context, txn *models.SubscriptionTransaction) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.SubscriptionTransaction, error)
	GetByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*models.SubscriptionTransaction, error)

	// Terminal transitions only match documents still pending; a
	// non-match means the transaction already reached a terminal state.
	MarkCompleted(ctx context.Context, id primitive.ObjectID, gatewayPaymentID, gatewaySignature string) (bool, error)
	MarkFailed(ctx context.Context, id primitive.ObjectID, reason string) (bool, error)
	MarkCancelled(ctx context.Context, id primitive.ObjectID) (bool, error)

	GetByUser(ctx context.Context, userID primitive.ObjectID, params *utils.PaginationParams) ([]*models.SubscriptionTransaction, int64, error)
	GetByStatus(ctx context.Context, status models.TransactionStatus, params *utils.PaginationParams) ([]*models.SubscriptionTransaction, int64, error)
}
