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
)

type courseRepository struct {
	collection *mongo.Collection
	cache      services.CacheService
}

func NewCourseRepository(db *mongo.Database, cache services.CacheService) interfaces.CourseRepository {
	return &courseRepository{
		collection: db.Collection("courses"),
		cache:      cache,
	}
}

func (r *courseRepository) Create(ctx context.Context, course *models.Course) error {
	course.ID = primitive.NewObjectID()
	course.Category = strings.ToLower(strings.TrimSpace(course.Category))
	course.CreatedAt = time.Now()
	course.UpdatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, course)
	if err != nil {
		return fmt.Errorf("failed to create course: %w", err)
	}

	return nil
}

func (r *courseRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Course, error) {
	cacheKey := utils.CacheCoursePrefix + id.Hex()
	if r.cache != nil {
		var course models.Course
		if err := r.cache.Get(ctx, cacheKey, &course); err == nil {
			return &course, nil
		}
	}

	var course models.Course
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&course)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, services.ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}

	if r.cache != nil && course.IsPublished {
		r.cache.Set(ctx, cacheKey, course, 10*time.Minute)
	}

	return &course, nil
}

func (r *courseRepository) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()

	if category, exists := updates["category"]; exists {
		if categoryStr, ok := category.(string); ok {
			updates["category"] = strings.ToLower(strings.TrimSpace(categoryStr))
		}
	}

	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": updates})
	if err != nil {
		return fmt.Errorf("failed to update course: %w", err)
	}

	r.invalidateCache(ctx, id)

	return nil
}

func (r *courseRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete course: %w", err)
	}

	r.invalidateCache(ctx, id)

	return nil
}

func (r *courseRepository) GetByInstructor(ctx context.Context, instructorID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Course, int64, error) {
	return r.findWithFilter(ctx, bson.M{"instructor_id": instructorID}, params)
}

func (r *courseRepository) ListPublished(ctx context.Context, category string, params *utils.PaginationParams) ([]*models.Course, int64, error) {
	filter := bson.M{"is_published": true}
	if category != "" {
		filter["category"] = strings.ToLower(strings.TrimSpace(category))
	}

	if search := params.GetSearchFilter([]string{"title", "description"}); len(search) > 0 {
		filter["$and"] = []bson.M{search}
	}

	return r.findWithFilter(ctx, filter, params)
}

func (r *courseRepository) CountByInstructor(ctx context.Context, instructorID primitive.ObjectID) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"instructor_id": instructorID})
	if err != nil {
		return 0, fmt.Errorf("failed to count courses: %w", err)
	}
	return count, nil
}

func (r *courseRepository) SetPublished(ctx context.Context, id primitive.ObjectID, published bool) error {
	return r.Update(ctx, id, map[string]interface{}{"is_published": published})
}

func (r *courseRepository) IncrementEnrolled(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{
			"$inc": bson.M{"enrolled_count": 1},
			"$set": bson.M{"updated_at": time.Now()},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to increment enrolled count: %w", err)
	}

	r.invalidateCache(ctx, id)

	return nil
}

func (r *courseRepository) findWithFilter(ctx context.Context, filter bson.M, params *utils.PaginationParams) ([]*models.Course, int64, error) {
	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count courses: %w", err)
	}

	cursor, err := r.collection.Find(ctx, filter, params.GetSortOptions())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to find courses: %w", err)
	}
	defer cursor.Close(ctx)

	var courses []*models.Course
	for cursor.Next(ctx) {
		var course models.Course
		if err := cursor.Decode(&course); err != nil {
			return nil, 0, fmt.Errorf("failed to decode course: %w", err)
		}
		courses = append(courses, &course)
	}

	return courses, total, nil
}

func (r *courseRepository) invalidateCache(ctx context.Context, id primitive.ObjectID) {
	if r.cache == nil {
		return
	}
	r.cache.Delete(ctx, utils.CacheCoursePrefix+id.Hex())
}
