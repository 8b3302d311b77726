package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"learnhub/internal/services"
	"learnhub/internal/utils"
	"learnhub/pkg/logger"
)

type WatchTimeHandler struct {
	watchTimeService services.WatchTimeService
	logger           *logger.Logger
}

func NewWatchTimeHandler(watchTimeService services.WatchTimeService, logger *logger.Logger) *WatchTimeHandler {
	return &WatchTimeHandler{
		watchTimeService: watchTimeService,
		logger:           logger,
	}
}

// RecordProgress accepts a playback progress tick from the student client.
// The websocket path feeds the same service; this is the REST fallback.
func (h *WatchTimeHandler) RecordProgress(c *gin.Context) {
	studentID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	var req struct {
		CourseID string `json:"course_id" binding:"required"`
		Minutes  int64  `json:"minutes" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request payload")
		return
	}

	courseID, err := primitive.ObjectIDFromHex(req.CourseID)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid course ID")
		return
	}

	if err := h.watchTimeService.RecordProgress(c.Request.Context(), studentID, courseID, req.Minutes); err != nil {
		if errors.Is(err, services.ErrCourseNotFound) {
			utils.NotFoundResponse(c, "Course")
			return
		}
		h.logger.WithError(err).WithUserID(studentID).Error("Failed to record watch time")
		utils.InternalServerErrorResponse(c)
		return
	}

	utils.SuccessResponse(c, "Progress recorded", nil)
}

// CourseWatchTime returns aggregated minutes for one course in a month.
// Instructors use this to inspect per-course engagement.
func (h *WatchTimeHandler) CourseWatchTime(c *gin.Context) {
	courseID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid course ID")
		return
	}

	month, year, err := monthYearParams(c)
	if err != nil {
		utils.BadRequestResponse(c, err.Error())
		return
	}

	stats, err := h.watchTimeService.CourseWatchTime(c.Request.Context(), courseID, month, year)
	if err != nil {
		h.logger.WithError(err).Error("Failed to aggregate course watch time")
		utils.InternalServerErrorResponse(c)
		return
	}

	utils.SuccessResponse(c, "Course watch time retrieved", stats)
}

// MyWatchTime lists the caller's per-course watch records for a month.
func (h *WatchTimeHandler) MyWatchTime(c *gin.Context) {
	studentID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	month, year, err := monthYearParams(c)
	if err != nil {
		utils.BadRequestResponse(c, err.Error())
		return
	}

	records, err := h.watchTimeService.StudentMonth(c.Request.Context(), studentID, month, year)
	if err != nil {
		h.logger.WithError(err).WithUserID(studentID).Error("Failed to get watch time records")
		utils.InternalServerErrorResponse(c)
		return
	}

	utils.SuccessResponse(c, "Watch time retrieved", gin.H{
		"records": records,
		"count":   len(records),
	})
}
