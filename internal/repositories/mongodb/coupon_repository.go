package mongodb

import (
	"context"
	"fmt"
	"strings"
	"time"

	"learnhub/internal/models"
	"learnhub/internal/repositories/interfaces"
	"learnhub/internal/services"
	"learnhub/internal/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type couponRepository struct {
	collection *mongo.Collection
	cache      services.CacheService
}

func NewCouponRepository(db *mongo.Database, cache services.CacheService) interfaces.CouponRepository {
	return &couponRepository{
		collection: db.Collection("coupons"),
		cache:      cache,
	}
}

func (r *couponRepository) Create(ctx context.Context, coupon *models.Coupon) error {
	coupon.ID = primitive.NewObjectID()
	coupon.CreatedAt = time.Now()
	coupon.UpdatedAt = time.Now()
	coupon.Code = strings.ToUpper(coupon.Code)

	_, err := r.collection.InsertOne(ctx, coupon)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return services.ErrCouponExists
		}
		return fmt.Errorf("failed to create coupon: %w", err)
	}

	return nil
}

func (r *couponRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Coupon, error) {
	var coupon models.Coupon
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&coupon)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, services.ErrCouponNotFound
		}
		return nil, fmt.Errorf("failed to get coupon: %w", err)
	}

	return &coupon, nil
}

func (r *couponRepository) GetByCode(ctx context.Context, code string) (*models.Coupon, error) {
	code = strings.ToUpper(strings.TrimSpace(code))

	cacheKey := utils.CacheCouponCodePrefix + code
	if r.cache != nil {
		var coupon models.Coupon
		if err := r.cache.Get(ctx, cacheKey, &coupon); err == nil {
			return &coupon, nil
		}
	}

	var coupon models.Coupon
	err := r.collection.FindOne(ctx, bson.M{"code": code}).Decode(&coupon)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, services.ErrCouponNotFound
		}
		return nil, fmt.Errorf("failed to get coupon by code: %w", err)
	}

	if r.cache != nil && coupon.IsActive {
		r.cache.Set(ctx, cacheKey, coupon, utils.CouponCacheTTL)
	}

	return &coupon, nil
}

func (r *couponRepository) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()

	if code, exists := updates["code"]; exists {
		if codeStr, ok := code.(string); ok {
			updates["code"] = strings.ToUpper(codeStr)
		}
	}

	coupon, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}

	_, err = r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": updates},
	)
	if err != nil {
		return fmt.Errorf("failed to update coupon: %w", err)
	}

	r.invalidateCache(ctx, coupon.Code)

	return nil
}

func (r *couponRepository) SetActive(ctx context.Context, id primitive.ObjectID, active bool) error {
	return r.Update(ctx, id, map[string]interface{}{"is_active": active})
}

func (r *couponRepository) List(ctx context.Context, params *utils.PaginationParams) ([]*models.Coupon, int64, error) {
	filter := params.GetSearchFilter([]string{"code", "title"})

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count coupons: %w", err)
	}

	cursor, err := r.collection.Find(ctx, filter, params.GetSortOptions())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to find coupons: %w", err)
	}
	defer cursor.Close(ctx)

	var coupons []*models.Coupon
	for cursor.Next(ctx) {
		var coupon models.Coupon
		if err := cursor.Decode(&coupon); err != nil {
			return nil, 0, fmt.Errorf("failed to decode coupon: %w", err)
		}
		coupons = append(coupons, &coupon)
	}

	return coupons, total, nil
}

func (r *couponRepository) GetAvailable(ctx context.Context, at time.Time, category string) ([]*models.Coupon, error) {
	filter := bson.M{
		"is_active":   true,
		"valid_from":  bson.M{"$lte": at},
		"valid_until": bson.M{"$gte": at},
		"$or": []bson.M{
			{"max_uses": bson.M{"$lte": 0}},
			{"$expr": bson.M{"$lt": []interface{}{"$used_count", "$max_uses"}}},
		},
	}

	if category != "" && category != models.CategoryAll {
		filter["$and"] = []bson.M{
			{"$or": []bson.M{
				{"categories": bson.M{"$size": 0}},
				{"categories": bson.M{"$exists": false}},
				{"categories": bson.M{"$in": []string{strings.ToLower(category), models.CategoryAll}}},
			}},
		}
	}

	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "valid_until", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to find available coupons: %w", err)
	}
	defer cursor.Close(ctx)

	var coupons []*models.Coupon
	for cursor.Next(ctx) {
		var coupon models.Coupon
		if err := cursor.Decode(&coupon); err != nil {
			return nil, fmt.Errorf("failed to decode coupon: %w", err)
		}
		coupons = append(coupons, &coupon)
	}

	return coupons, nil
}

// IncrementUsage bumps used_count only while the coupon is under its cap,
// so concurrent redemptions cannot push it past max_uses.
func (r *couponRepository) IncrementUsage(ctx context.Context, id primitive.ObjectID) (bool, error) {
	filter := bson.M{
		"_id": id,
		"$or": []bson.M{
			{"max_uses": bson.M{"$lte": 0}},
			{"$expr": bson.M{"$lt": []interface{}{"$used_count", "$max_uses"}}},
		},
	}

	result, err := r.collection.UpdateOne(
		ctx,
		filter,
		bson.M{
			"$inc": bson.M{"used_count": 1},
			"$set": bson.M{"updated_at": time.Now()},
		},
	)
	if err != nil {
		return false, fmt.Errorf("failed to increment coupon usage: %w", err)
	}

	if result.MatchedCount > 0 {
		coupon, err := r.GetByID(ctx, id)
		if err == nil {
			r.invalidateCache(ctx, coupon.Code)
		}
	}

	return result.MatchedCount > 0, nil
}

func (r *couponRepository) DecrementUsage(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id, "used_count": bson.M{"$gt": 0}},
		bson.M{
			"$inc": bson.M{"used_count": -1},
			"$set": bson.M{"updated_at": time.Now()},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to decrement coupon usage: %w", err)
	}

	coupon, err := r.GetByID(ctx, id)
	if err == nil {
		r.invalidateCache(ctx, coupon.Code)
	}

	return nil
}

func (r *couponRepository) invalidateCache(ctx context.Context, code string) {
	if r.cache == nil {
		return
	}
	r.cache.Delete(ctx, utils.CacheCouponCodePrefix+strings.ToUpper(code))
}
