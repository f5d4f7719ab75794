package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/LMS-F-2025/classroom-service/internal/services"
	"github.com/LMS-F-2025/classroom-service/internal/utils"
	"github.com/LMS-F-2025/classroom-service/internal/validator"
)

type LessonHandler struct {
	BaseHandler
	lessonService services.LessonService
}

func NewLessonHandler(lessonService services.LessonService, logger utils.Logger) *LessonHandler {
	return &LessonHandler{
		BaseHandler:   NewBaseHandler(logger),
		lessonService: lessonService,
	}
}

// CreateLesson appends a lesson to a classroom
// @Summary Create lesson
// @Tags lessons
// @Accept json
// @Produce json
// @Param id path string true "Classroom ID"
// @Param lesson body validator.CreateLessonRequest true "Lesson data"
// @Success 201 {object} models.Lesson
// @Failure 403 {object} ErrorResponse
// @Router /classrooms/{id}/lessons [post]
func (h *LessonHandler) CreateLesson(c *gin.Context) {
	classroomID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req validator.CreateLessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	lesson, err := h.lessonService.Create(c.Request.Context(), classroomID, userID, req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, lesson)
}

// ListLessons lists a classroom's lessons in sort order
// @Summary List lessons
// @Tags lessons
// @Produce json
// @Param id path string true "Classroom ID"
// @Success 200 {array} models.Lesson
// @Failure 403 {object} ErrorResponse
// @Router /classrooms/{id}/lessons [get]
func (h *LessonHandler) ListLessons(c *gin.Context) {
	classroomID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	lessons, err := h.lessonService.ListByClassroom(c.Request.Context(), classroomID, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, lessons)
}

// UpdateLesson updates lesson content or visibility
// @Summary Update lesson
// @Tags lessons
// @Accept json
// @Produce json
// @Param id path string true "Lesson ID"
// @Param lesson body validator.UpdateLessonRequest true "Fields to update"
// @Success 200 {object} models.Lesson
// @Failure 403 {object} ErrorResponse
// @Router /lessons/{id} [put]
func (h *LessonHandler) UpdateLesson(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req validator.UpdateLessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	lesson, err := h.lessonService.Update(c.Request.Context(), id, userID, req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, lesson)
}

// DeleteLesson removes a lesson
// @Summary Delete lesson
// @Tags lessons
// @Param id path string true "Lesson ID"
// @Success 204 "No Content"
// @Failure 403 {object} ErrorResponse
// @Router /lessons/{id} [delete]
func (h *LessonHandler) DeleteLesson(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	if err := h.lessonService.Delete(c.Request.Context(), id, userID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
