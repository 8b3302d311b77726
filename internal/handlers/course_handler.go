package handlers

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"learnhub/internal/models"
	"learnhub/internal/services"
	"learnhub/internal/utils"
	"learnhub/pkg/logger"
)

type CourseHandler struct {
	courseService services.CourseService
	logger        *logger.Logger
}

func NewCourseHandler(courseService services.CourseService, logger *logger.Logger) *CourseHandler {
	return &CourseHandler{
		courseService: courseService,
		logger:        logger,
	}
}

// CreateCourse registers a new unpublished course owned by the caller.
func (h *CourseHandler) CreateCourse(c *gin.Context) {
	instructorID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	var req struct {
		Title       string  `json:"title" binding:"required,max=200"`
		Description string  `json:"description" binding:"max=2000"`
		Category    string  `json:"category" binding:"required"`
		Price       float64 `json:"price" binding:"min=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request payload")
		return
	}

	course := &models.Course{
		InstructorID: instructorID,
		Title:        req.Title,
		Description:  req.Description,
		Category:     req.Category,
		Price:        req.Price,
	}

	if err := h.courseService.CreateCourse(c.Request.Context(), course); err != nil {
		h.logger.WithError(err).WithUserID(instructorID).Error("Failed to create course")
		utils.InternalServerErrorResponse(c)
		return
	}

	utils.CreatedResponse(c, "Course created", course)
}

// GetCourse returns a single course.
func (h *CourseHandler) GetCourse(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid course ID")
		return
	}

	course, err := h.courseService.GetCourse(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrCourseNotFound) {
			utils.NotFoundResponse(c, "Course")
			return
		}
		h.logger.WithError(err).Error("Failed to get course")
		utils.InternalServerErrorResponse(c)
		return
	}

	utils.SuccessResponse(c, "Course retrieved", course)
}

// UpdateCourse applies partial updates; only the owner may update.
func (h *CourseHandler) UpdateCourse(c *gin.Context) {
	instructorID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid course ID")
		return
	}

	var updates map[string]interface{}
	if err := c.ShouldBindJSON(&updates); err != nil {
		utils.BadRequestResponse(c, "Invalid request payload")
		return
	}

	if err := h.courseService.UpdateCourse(c.Request.Context(), instructorID, id, updates); err != nil {
		h.respondCourseError(c, err, "Failed to update course")
		return
	}

	utils.SuccessResponse(c, "Course updated", nil)
}

// PublishCourse toggles the published flag; only the owner may publish.
func (h *CourseHandler) PublishCourse(c *gin.Context) {
	instructorID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid course ID")
		return
	}

	var req struct {
		Publish *bool `json:"publish" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request payload")
		return
	}

	if err := h.courseService.PublishCourse(c.Request.Context(), instructorID, id, *req.Publish); err != nil {
		h.respondCourseError(c, err, "Failed to publish course")
		return
	}

	utils.SuccessResponse(c, "Course publish state updated", nil)
}

// UploadThumbnail stores a course thumbnail image and saves its URL.
func (h *CourseHandler) UploadThumbnail(c *gin.Context) {
	instructorID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid course ID")
		return
	}

	fileHeader, err := c.FormFile("thumbnail")
	if err != nil {
		utils.BadRequestResponse(c, "thumbnail file is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		utils.BadRequestResponse(c, "Failed to open uploaded file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, utils.MaxImageSize+1))
	if err != nil {
		utils.BadRequestResponse(c, "Failed to read uploaded file")
		return
	}

	url, err := h.courseService.UploadThumbnail(
		c.Request.Context(), instructorID, id,
		data, fileHeader.Filename, fileHeader.Header.Get("Content-Type"),
	)
	if err != nil {
		h.respondCourseError(c, err, "Failed to upload thumbnail")
		return
	}

	utils.SuccessResponse(c, "Thumbnail uploaded", gin.H{"thumbnail_url": url})
}

// ListPublished lists published courses, optionally filtered by category.
func (h *CourseHandler) ListPublished(c *gin.Context) {
	params := utils.GetPaginationParams(c)
	category := c.Query("category")

	courses, total, err := h.courseService.ListPublished(c.Request.Context(), category, params)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list courses")
		utils.InternalServerErrorResponse(c)
		return
	}

	utils.SuccessResponseWithMeta(c, "Courses retrieved", courses, &utils.Meta{
		Pagination: utils.CreatePaginationMeta(params, total),
	})
}

// MyCourses lists the courses owned by the caller.
func (h *CourseHandler) MyCourses(c *gin.Context) {
	instructorID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	params := utils.GetPaginationParams(c)

	courses, total, err := h.courseService.ListByInstructor(c.Request.Context(), instructorID, params)
	if err != nil {
		h.logger.WithError(err).WithUserID(instructorID).Error("Failed to list instructor courses")
		utils.InternalServerErrorResponse(c)
		return
	}

	utils.SuccessResponseWithMeta(c, "Courses retrieved", courses, &utils.Meta{
		Pagination: utils.CreatePaginationMeta(params, total),
	})
}

func (h *CourseHandler) respondCourseError(c *gin.Context, err error, logMessage string) {
	switch {
	case errors.Is(err, services.ErrCourseNotFound):
		utils.NotFoundResponse(c, "Course")
	case errors.Is(err, services.ErrNotCourseOwner):
		utils.ForbiddenResponse(c)
	default:
		h.logger.WithError(err).Error(logMessage)
		utils.InternalServerErrorResponse(c)
	}
}
