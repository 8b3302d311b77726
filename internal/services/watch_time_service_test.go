package services

import (
	"context"
	"sync"
	"testing"

	"learnhub/internal/models"
	"learnhub/internal/repositories/interfaces"
	"learnhub/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type memCourseRepo struct {
	mu      sync.Mutex
	courses map[primitive.ObjectID]*models.Course
}

func newMemCourseRepo(courses ...*models.Course) *memCourseRepo {
	repo := &memCourseRepo{courses: make(map[primitive.ObjectID]*models.Course)}
	for _, course := range courses {
		if course.ID.IsZero() {
			course.ID = primitive.NewObjectID()
		}
		repo.courses[course.ID] = course
	}
	return repo
}

func (r *memCourseRepo) Create(ctx context.Context, course *models.Course) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if course.ID.IsZero() {
		course.ID = primitive.NewObjectID()
	}
	r.courses[course.ID] = course
	return nil
}

func (r *memCourseRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	course, ok := r.courses[id]
	if !ok {
		return nil, ErrCourseNotFound
	}
	copied := *course
	return &copied, nil
}

func (r *memCourseRepo) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	return nil
}

func (r *memCourseRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.courses, id)
	return nil
}

func (r *memCourseRepo) GetByInstructor(ctx context.Context, instructorID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Course, int64, error) {
	return nil, 0, nil
}

func (r *memCourseRepo) ListPublished(ctx context.Context, category string, params *utils.PaginationParams) ([]*models.Course, int64, error) {
	return nil, 0, nil
}

func (r *memCourseRepo) CountByInstructor(ctx context.Context, instructorID primitive.ObjectID) (int64, error) {
	return 0, nil
}

func (r *memCourseRepo) SetPublished(ctx context.Context, id primitive.ObjectID, published bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if course, ok := r.courses[id]; ok {
		course.IsPublished = published
	}
	return nil
}

func (r *memCourseRepo) IncrementEnrolled(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if course, ok := r.courses[id]; ok {
		course.EnrolledCount++
	}
	return nil
}

var _ interfaces.CourseRepository = (*memCourseRepo)(nil)

func TestRecordProgress_AttributesToInstructor(t *testing.T) {
	instructorID := primitive.NewObjectID()
	course := &models.Course{InstructorID: instructorID, Title: "Go Basics", Category: "programming", IsPublished: true}
	courseRepo := newMemCourseRepo(course)
	watchTimeRepo := newMemWatchTimeRepo()
	service := NewWatchTimeService(watchTimeRepo, courseRepo, newFakeClock(testNow), testLogger())

	studentID := primitive.NewObjectID()
	if err := service.RecordProgress(context.Background(), studentID, course.ID, 12); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sum, _ := watchTimeRepo.SumByInstructor(context.Background(), instructorID, int(testNow.Month()), testNow.Year())
	if sum.TotalMinutes != 12 {
		t.Errorf("instructor minutes = %d, want 12", sum.TotalMinutes)
	}
}

func TestRecordProgress_RejectsNonPositive(t *testing.T) {
	course := &models.Course{InstructorID: primitive.NewObjectID(), Title: "Go Basics", Category: "programming"}
	courseRepo := newMemCourseRepo(course)
	service := NewWatchTimeService(newMemWatchTimeRepo(), courseRepo, newFakeClock(testNow), testLogger())

	for _, minutes := range []int64{0, -5} {
		if err := service.RecordProgress(context.Background(), primitive.NewObjectID(), course.ID, minutes); err == nil {
			t.Errorf("minutes=%d accepted, want error", minutes)
		}
	}
}

func TestRecordProgress_CapsSingleTick(t *testing.T) {
	instructorID := primitive.NewObjectID()
	course := &models.Course{InstructorID: instructorID, Title: "Go Basics", Category: "programming"}
	courseRepo := newMemCourseRepo(course)
	watchTimeRepo := newMemWatchTimeRepo()
	service := NewWatchTimeService(watchTimeRepo, courseRepo, newFakeClock(testNow), testLogger())

	if err := service.RecordProgress(context.Background(), primitive.NewObjectID(), course.ID, 500); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sum, _ := watchTimeRepo.SumByInstructor(context.Background(), instructorID, int(testNow.Month()), testNow.Year())
	if sum.TotalMinutes != utils.MaxProgressTickMinutes {
		t.Errorf("minutes = %d, want capped at %d", sum.TotalMinutes, utils.MaxProgressTickMinutes)
	}
}

func TestRecordProgress_UnknownCourse(t *testing.T) {
	service := NewWatchTimeService(newMemWatchTimeRepo(), newMemCourseRepo(), newFakeClock(testNow), testLogger())

	err := service.RecordProgress(context.Background(), primitive.NewObjectID(), primitive.NewObjectID(), 10)
	if err != ErrCourseNotFound {
		t.Errorf("err = %v, want ErrCourseNotFound", err)
	}
}
