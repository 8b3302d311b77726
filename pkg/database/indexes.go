package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the indexes the business invariants depend on.
// The unique (coupon_id, user_id) index on couponUsage and the unique
// open-payout index are the write-side guards against double redemption
// and duplicate payout requests.
func (m *MongoDB) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := map[string][]mongo.IndexModel{
		"users": {
			{
				Keys:    bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
		"coupons": {
			{
				Keys:    bson.D{{Key: "code", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
			{Keys: bson.D{{Key: "is_active", Value: 1}, {Key: "valid_until", Value: 1}}},
		},
		"couponUsage": {
			{
				Keys:    bson.D{{Key: "coupon_id", Value: 1}, {Key: "user_id", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
		"payoutRequests": {
			{
				Keys: bson.D{{Key: "instructor_id", Value: 1}, {Key: "year", Value: 1}, {Key: "month", Value: 1}},
				Options: options.Index().
					SetUnique(true).
					SetPartialFilterExpression(bson.M{
						"status": bson.M{"$in": []string{"pending", "approved"}},
					}),
			},
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}}},
		},
		"watchTimeData": {
			{
				Keys: bson.D{
					{Key: "student_id", Value: 1},
					{Key: "course_id", Value: 1},
					{Key: "year", Value: 1},
					{Key: "month", Value: 1},
				},
				Options: options.Index().SetUnique(true),
			},
			{Keys: bson.D{{Key: "instructor_id", Value: 1}, {Key: "year", Value: 1}, {Key: "month", Value: 1}}},
		},
		"paymentTransactions": {
			{
				Keys:    bson.D{{Key: "gateway_order_id", Value: 1}},
				Options: options.Index().SetUnique(true).SetSparse(true),
			},
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
		},
		"subscriptions": {
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "status", Value: 1}}},
			{Keys: bson.D{{Key: "expires_at", Value: 1}}},
		},
		"courses": {
			{Keys: bson.D{{Key: "instructor_id", Value: 1}}},
			{Keys: bson.D{{Key: "category", Value: 1}, {Key: "is_published", Value: 1}}},
		},
	}

	for collection, models := range indexes {
		if _, err := m.Collection(collection).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create indexes for %s: %w", collection, err)
		}
	}

	return nil
}
