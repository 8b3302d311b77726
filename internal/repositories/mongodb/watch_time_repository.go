package mongodb

import (
	"context"
	"fmt"
	"time"

	"learnhub/internal/models"
	"learnhub/internal/repositories/interfaces"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type watchTimeRepository struct {
	collection *mongo.Collection
}

func NewWatchTimeRepository(db *mongo.Database) interfaces.WatchTimeRepository {
	return &watchTimeRepository{
		collection: db.Collection("watchTimeData"),
	}
}

func (r *watchTimeRepository) IncrementMinutes(ctx context.Context, studentID, courseID, instructorID primitive.ObjectID, minutes int64, month, year int) error {
	now := time.Now()

	filter := bson.M{
		"student_id": studentID,
		"course_id":  courseID,
		"month":      month,
		"year":       year,
	}
	update := bson.M{
		"$inc": bson.M{"minutes": minutes},
		"$set": bson.M{
			"instructor_id":   instructorID,
			"last_watched_at": now,
			"updated_at":      now,
		},
		"$setOnInsert": bson.M{
			"created_at": now,
		},
	}

	_, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to increment watch time: %w", err)
	}

	return nil
}

func (r *watchTimeRepository) GetRecord(ctx context.Context, studentID, courseID primitive.ObjectID, month, year int) (*models.WatchTimeRecord, error) {
	var record models.WatchTimeRecord
	err := r.collection.FindOne(ctx, bson.M{
		"student_id": studentID,
		"course_id":  courseID,
		"month":      month,
		"year":       year,
	}).Decode(&record)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get watch time record: %w", err)
	}

	return &record, nil
}

func (r *watchTimeRepository) SumByInstructor(ctx context.Context, instructorID primitive.ObjectID, month, year int) (*interfaces.InstructorWatchTime, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"instructor_id": instructorID,
			"month":         month,
			"year":          year,
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":           nil,
			"total_minutes": bson.M{"$sum": "$minutes"},
			"courses":       bson.M{"$addToSet": "$course_id"},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate instructor watch time: %w", err)
	}
	defer cursor.Close(ctx)

	result := &interfaces.InstructorWatchTime{}
	if cursor.Next(ctx) {
		var row struct {
			TotalMinutes int64                `bson:"total_minutes"`
			Courses      []primitive.ObjectID `bson:"courses"`
		}
		if err := cursor.Decode(&row); err != nil {
			return nil, fmt.Errorf("failed to decode instructor watch time: %w", err)
		}
		result.TotalMinutes = row.TotalMinutes
		result.CourseCount = len(row.Courses)
	}

	return result, nil
}

func (r *watchTimeRepository) SumByCourse(ctx context.Context, courseID primitive.ObjectID, month, year int) (*models.CourseWatchTime, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"course_id": courseID,
			"month":     month,
			"year":      year,
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":           "$course_id",
			"total_minutes": bson.M{"$sum": "$minutes"},
			"student_count": bson.M{"$sum": 1},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate course watch time: %w", err)
	}
	defer cursor.Close(ctx)

	result := &models.CourseWatchTime{CourseID: courseID}
	if cursor.Next(ctx) {
		if err := cursor.Decode(result); err != nil {
			return nil, fmt.Errorf("failed to decode course watch time: %w", err)
		}
	}

	return result, nil
}

func (r *watchTimeRepository) GetStudentRecords(ctx context.Context, studentID primitive.ObjectID, month, year int) ([]*models.WatchTimeRecord, error) {
	cursor, err := r.collection.Find(ctx, bson.M{
		"student_id": studentID,
		"month":      month,
		"year":       year,
	}, options.Find().SetSort(bson.D{{Key: "minutes", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to find watch time records: %w", err)
	}
	defer cursor.Close(ctx)

	var records []*models.WatchTimeRecord
	for cursor.Next(ctx) {
		var record models.WatchTimeRecord
		if err := cursor.Decode(&record); err != nil {
			return nil, fmt.Errorf("failed to decode watch time record: %w", err)
		}
		records = append(records, &record)
	}

	return records, nil
}
