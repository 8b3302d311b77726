package services

import (
	"context"
	"fmt"

	"learnhub/internal/models"
	"learnhub/internal/repositories/interfaces"
	"learnhub/internal/utils"
	"learnhub/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type WatchTimeService interface {
	// RecordProgress adds paid playback minutes to the current month's
	// bucket for the student and course.
	RecordProgress(ctx context.Context, studentID, courseID primitive.ObjectID, minutes int64) error
	CourseWatchTime(ctx context.Context, courseID primitive.ObjectID, month, year int) (*models.CourseWatchTime, error)
	StudentMonth(ctx context.Context, studentID primitive.ObjectID, month, year int) ([]*models.WatchTimeRecord, error)
}

type watchTimeService struct {
	watchTimeRepo interfaces.WatchTimeRepository
	courseRepo    interfaces.CourseRepository
	clock         Clock
	logger        *logger.Logger
}

func NewWatchTimeService(
	watchTimeRepo interfaces.WatchTimeRepository,
	courseRepo interfaces.CourseRepository,
	clock Clock,
	logger *logger.Logger,
) WatchTimeService {
	return &watchTimeService{
		watchTimeRepo: watchTimeRepo,
		courseRepo:    courseRepo,
		clock:         clock,
		logger:        logger,
	}
}

func (s *watchTimeService) RecordProgress(ctx context.Context, studentID, courseID primitive.ObjectID, minutes int64) error {
	if minutes <= 0 {
		return fmt.Errorf("minutes must be positive")
	}
	if minutes > utils.MaxProgressTickMinutes {
		minutes = utils.MaxProgressTickMinutes
	}

	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return err
	}

	now := s.clock.Now()
	err = s.watchTimeRepo.IncrementMinutes(ctx, studentID, courseID, course.InstructorID, minutes, int(now.Month()), now.Year())
	if err != nil {
		return err
	}

	s.logger.WithUserID(studentID).
		WithFields(map[string]interface{}{"course_id": courseID.Hex(), "minutes": minutes}).
		Debug("Watch time recorded")

	return nil
}

func (s *watchTimeService) CourseWatchTime(ctx context.Context, courseID primitive.ObjectID, month, year int) (*models.CourseWatchTime, error) {
	return s.watchTimeRepo.SumByCourse(ctx, courseID, month, year)
}

func (s *watchTimeService) StudentMonth(ctx context.Context, studentID primitive.ObjectID, month, year int) ([]*models.WatchTimeRecord, error) {
	return s.watchTimeRepo.GetStudentRecords(ctx, studentID, month, year)
}
