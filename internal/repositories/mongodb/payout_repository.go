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

type payoutRepository struct {
	collection *mongo.Collection
}

func NewPayoutRepository(db *mongo.Database) interfaces.PayoutRepository {
	return &payoutRepository{
		collection: db.Collection("payoutRequests"),
	}
}

func (r *payoutRepository) Create(ctx context.Context, request *models.PayoutRequest) error {
	request.ID = primitive.NewObjectID()
	request.Status = models.PayoutStatusPending
	request.CreatedAt = time.Now()
	request.UpdatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, request)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return services.ErrDuplicatePayout
		}
		return fmt.Errorf("failed to create payout request: %w", err)
	}

	return nil
}

func (r *payoutRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.PayoutRequest, error) {
	var request models.PayoutRequest
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&request)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, services.ErrPayoutNotFound
		}
		return nil, fmt.Errorf("failed to get payout request: %w", err)
	}

	return &request, nil
}

func (r *payoutRepository) GetByInstructor(ctx context.Context, instructorID primitive.ObjectID, params *utils.PaginationParams) ([]*models.PayoutRequest, int64, error) {
	return r.findWithFilter(ctx, bson.M{"instructor_id": instructorID}, params)
}

func (r *payoutRepository) GetByStatus(ctx context.Context, status models.PayoutStatus, params *utils.PaginationParams) ([]*models.PayoutRequest, int64, error) {
	return r.findWithFilter(ctx, bson.M{"status": status}, params)
}

func (r *payoutRepository) HasOpenRequest(ctx context.Context, instructorID primitive.ObjectID, month, year int) (bool, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{
		"instructor_id": instructorID,
		"month":         month,
		"year":          year,
		"status":        bson.M{"$in": []models.PayoutStatus{models.PayoutStatusPending, models.PayoutStatusApproved}},
	})
	if err != nil {
		return false, fmt.Errorf("failed to check open payout requests: %w", err)
	}

	return count > 0, nil
}

// UpdateStatus filters on the expected from status so two admins racing on
// the same request cannot both land their transition.
func (r *payoutRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, from, to models.PayoutStatus, notes string, processedAt *time.Time) (bool, error) {
	updates := bson.M{
		"status":     to,
		"updated_at": time.Now(),
	}
	if notes != "" {
		updates["admin_notes"] = notes
	}
	if processedAt != nil {
		updates["processed_at"] = processedAt
	}

	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id, "status": from},
		bson.M{"$set": updates},
	)
	if err != nil {
		return false, fmt.Errorf("failed to update payout status: %w", err)
	}

	return result.MatchedCount > 0, nil
}

func (r *payoutRepository) GetTotals(ctx context.Context, instructorID primitive.ObjectID) (*interfaces.PayoutTotals, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"instructor_id": instructorID}}},
		{{Key: "$group", Value: bson.M{
			"_id":    "$status",
			"amount": bson.M{"$sum": "$amount"},
			"count":  bson.M{"$sum": 1},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate payout totals: %w", err)
	}
	defer cursor.Close(ctx)

	totals := &interfaces.PayoutTotals{}
	for cursor.Next(ctx) {
		var result struct {
			Status models.PayoutStatus `bson:"_id"`
			Amount float64             `bson:"amount"`
			Count  int64               `bson:"count"`
		}
		if err := cursor.Decode(&result); err != nil {
			return nil, fmt.Errorf("failed to decode payout totals: %w", err)
		}

		totals.RequestCount += result.Count
		switch result.Status {
		case models.PayoutStatusPending, models.PayoutStatusApproved:
			totals.TotalPending += result.Amount
			totals.TotalEarned += result.Amount
		case models.PayoutStatusProcessed:
			totals.TotalPaid += result.Amount
			totals.TotalEarned += result.Amount
		}
	}

	return totals, nil
}

func (r *payoutRepository) findWithFilter(ctx context.Context, filter bson.M, params *utils.PaginationParams) ([]*models.PayoutRequest, int64, error) {
	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count payout requests: %w", err)
	}

	cursor, err := r.collection.Find(ctx, filter, params.GetSortOptions())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to find payout requests: %w", err)
	}
	defer cursor.Close(ctx)

	var requests []*models.PayoutRequest
	for cursor.Next(ctx) {
		var request models.PayoutRequest
		if err := cursor.Decode(&request); err != nil {
			return nil, 0, fmt.Errorf("failed to decode payout request: %w", err)
		}
		requests = append(requests, &request)
	}

	return requests, total, nil
}
