package routes

import (
	"github.com/gin-gonic/gin"

	"learnhub/internal/handlers"
	"learnhub/internal/middleware"
)

// SetupCourseRoutes sets up the public catalog and instructor management.
func SetupCourseRoutes(r *gin.RouterGroup, courseHandler *handlers.CourseHandler, watchTimeHandler *handlers.WatchTimeHandler, jwtSecret string) {
	courses := r.Group("/courses")
	{
		courses.GET("/", courseHandler.ListPublished)
		courses.GET("/:id", courseHandler.GetCourse)
	}

	instructor := r.Group("/instructor/courses")
	instructor.Use(middleware.AuthRequired(jwtSecret), middleware.InstructorRequired())
	{
		instructor.POST("/", courseHandler.CreateCourse)
		instructor.GET("/", courseHandler.MyCourses)
		instructor.PUT("/:id", courseHandler.UpdateCourse)
		instructor.PUT("/:id/publish", courseHandler.PublishCourse)
		instructor.POST("/:id/thumbnail", courseHandler.UploadThumbnail)
		instructor.GET("/:id/watch-time", watchTimeHandler.CourseWatchTime)
	}
}
