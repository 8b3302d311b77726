package services

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"

	"learnhub/internal/models"
	"learnhub/internal/repositories/interfaces"
	"learnhub/internal/utils"
	"learnhub/pkg/logger"
	"learnhub/pkg/storage"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CourseService interface {
	CreateCourse(ctx context.Context, course *models.Course) error
	GetCourse(ctx context.Context, id primitive.ObjectID) (*models.Course, error)
	UpdateCourse(ctx context.Context, instructorID, id primitive.ObjectID, updates map[string]interface{}) error
	PublishCourse(ctx context.Context, instructorID, id primitive.ObjectID, publish bool) error
	UploadThumbnail(ctx context.Context, instructorID, id primitive.ObjectID, data []byte, filename, contentType string) (string, error)

	ListPublished(ctx context.Context, category string, params *utils.PaginationParams) ([]*models.Course, int64, error)
	ListByInstructor(ctx context.Context, instructorID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Course, int64, error)
}

type courseService struct {
	courseRepo interfaces.CourseRepository
	storage    storage.Provider
	logger     *logger.Logger
}

func NewCourseService(courseRepo interfaces.CourseRepository, storageProvider storage.Provider, logger *logger.Logger) CourseService {
	return &courseService{
		courseRepo: courseRepo,
		storage:    storageProvider,
		logger:     logger,
	}
}

func (s *courseService) CreateCourse(ctx context.Context, course *models.Course) error {
	if course.Title == "" {
		return fmt.Errorf("course title is required")
	}
	if course.Category == "" {
		return fmt.Errorf("course category is required")
	}
	if course.Price < 0 {
		return fmt.Errorf("course price cannot be negative")
	}
	if course.Currency == "" {
		course.Currency = utils.DefaultCurrency
	}

	if err := s.courseRepo.Create(ctx, course); err != nil {
		return err
	}

	s.logger.WithUserID(course.InstructorID).WithField("course_id", course.ID.Hex()).Info("Course created")
	return nil
}

func (s *courseService) GetCourse(ctx context.Context, id primitive.ObjectID) (*models.Course, error) {
	return s.courseRepo.GetByID(ctx, id)
}

func (s *courseService) UpdateCourse(ctx context.Context, instructorID, id primitive.ObjectID, updates map[string]interface{}) error {
	if err := s.checkOwnership(ctx, instructorID, id); err != nil {
		return err
	}
	return s.courseRepo.Update(ctx, id, updates)
}

func (s *courseService) PublishCourse(ctx context.Context, instructorID, id primitive.ObjectID, publish bool) error {
	if err := s.checkOwnership(ctx, instructorID, id); err != nil {
		return err
	}
	return s.courseRepo.SetPublished(ctx, id, publish)
}

func (s *courseService) UploadThumbnail(ctx context.Context, instructorID, id primitive.ObjectID, data []byte, filename, contentType string) (string, error) {
	if err := s.checkOwnership(ctx, instructorID, id); err != nil {
		return "", err
	}
	if len(data) > utils.MaxImageSize {
		return "", fmt.Errorf("thumbnail exceeds maximum size")
	}

	key := fmt.Sprintf("courses/%s/thumbnail-%s%s", id.Hex(), uuid.NewString(), filepath.Ext(filename))
	result, err := s.storage.Upload(ctx, &storage.UploadRequest{
		Key:         key,
		Reader:      bytes.NewReader(data),
		ContentType: contentType,
		Size:        int64(len(data)),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload thumbnail: %w", err)
	}

	if err := s.courseRepo.Update(ctx, id, map[string]interface{}{"thumbnail_url": result.URL}); err != nil {
		return "", err
	}

	return result.URL, nil
}

func (s *courseService) ListPublished(ctx context.Context, category string, params *utils.PaginationParams) ([]*models.Course, int64, error) {
	return s.courseRepo.ListPublished(ctx, category, params)
}

func (s *courseService) ListByInstructor(ctx context.Context, instructorID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Course, int64, error) {
	return s.courseRepo.GetByInstructor(ctx, instructorID, params)
}

func (s *courseService) checkOwnership(ctx context.Context, instructorID, courseID primitive.ObjectID) error {
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return err
	}
	if course.InstructorID != instructorID {
		return ErrNotCourseOwner
	}
	return nil
}
