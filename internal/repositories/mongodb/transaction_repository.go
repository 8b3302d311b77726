package mongodb

import (
	"context"
	"fmt"
	"time"

	"learnhub/internal/models"
	"learnhub/internal/repositories/interfaces"
	"learnhub/internal/services"
	"learnhub/internal/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type transactionRepository struct {
	collection *mongo.Collection
}

func NewTransactionRepository(db *mongo.Database) interfaces.TransactionRepository {
	return &transactionRepository{
		collection: db.Collection("paymentTransactions"),
	}
}

func (r *transactionRepository) Create(ctx context.Context, txn *models.SubscriptionTransaction) error {
	txn.ID = primitive.NewObjectID()
	txn.Status = models.TransactionStatusPending
	txn.CreatedAt = time.Now()
	txn.UpdatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, txn)
	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}

	return nil
}

func (r *transactionRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.SubscriptionTransaction, error) {
	var txn models.SubscriptionTransaction
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&txn)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, services.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	return &txn, nil
}

func (r *transactionRepository) GetByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*models.SubscriptionTransaction, error) {
	var txn models.SubscriptionTransaction
	err := r.collection.FindOne(ctx, bson.M{"gateway_order_id": gatewayOrderID}).Decode(&txn)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, services.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get transaction by gateway order: %w", err)
	}

	return &txn, nil
}

func (r *transactionRepository) MarkCompleted(ctx context.Context, id primitive.ObjectID, gatewayPaymentID, gatewaySignature string) (bool, error) {
	now := time.Now()
	return r.transition(ctx, id, bson.M{
		"status":             models.TransactionStatusCompleted,
		"gateway_payment_id": gatewayPaymentID,
		"gateway_signature":  gatewaySignature,
		"completed_at":       now,
		"updated_at":         now,
	})
}

func (r *transactionRepository) MarkFailed(ctx context.Context, id primitive.ObjectID, reason string) (bool, error) {
	now := time.Now()
	return r.transition(ctx, id, bson.M{
		"status":         models.TransactionStatusFailed,
		"failure_reason": reason,
		"failed_at":      now,
		"updated_at":     now,
	})
}

func (r *transactionRepository) MarkCancelled(ctx context.Context, id primitive.ObjectID) (bool, error) {
	return r.transition(ctx, id, bson.M{
		"status":     models.TransactionStatusCancelled,
		"updated_at": time.Now(),
	})
}

// transition only matches pending documents, making terminal states sticky.
func (r *transactionRepository) transition(ctx context.Context, id primitive.ObjectID, updates bson.M) (bool, error) {
	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id, "status": models.TransactionStatusPending},
		bson.M{"$set": updates},
	)
	if err != nil {
		return false, fmt.Errorf("failed to transition transaction: %w", err)
	}

	return result.MatchedCount > 0, nil
}

func (r *transactionRepository) GetByUser(ctx context.Context, userID primitive.ObjectID, params *utils.PaginationParams) ([]*models.SubscriptionTransaction, int64, error) {
	return r.findWithFilter(ctx, bson.M{"user_id": userID}, params)
}

func (r *transactionRepository) GetByStatus(ctx context.Context, status models.TransactionStatus, params *utils.PaginationParams) ([]*models.SubscriptionTransaction, int64, error) {
	return r.findWithFilter(ctx, bson.M{"status": status}, params)
}

func (r *transactionRepository) findWithFilter(ctx context.Context, filter bson.M, params *utils.PaginationParams) ([]*models.SubscriptionTransaction, int64, error) {
	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	cursor, err := r.collection.Find(ctx, filter, params.GetSortOptions())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to find transactions: %w", err)
	}
	defer cursor.Close(ctx)

	var txns []*models.SubscriptionTransaction
	for cursor.Next(ctx) {
		var txn models.SubscriptionTransaction
		if err := cursor.Decode(&txn); err != nil {
			return nil, 0, fmt.Errorf("failed to decode transaction: %w", err)
		}
		txns = append(txns, &txn)
	}

	return txns, total, nil
}
