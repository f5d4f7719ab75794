package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/LMS-F-2025/classroom-service/internal/repositories"
	"github.com/LMS-F-2025/classroom-service/internal/services"
	"github.com/LMS-F-2025/classroom-service/internal/utils"
	"github.com/LMS-F-2025/classroom-service/internal/validator"
)

type ClassroomHandler struct {
	BaseHandler
	classroomService services.ClassroomService
}

func NewClassroomHandler(classroomService services.ClassroomService, logger utils.Logger) *ClassroomHandler {
	return &ClassroomHandler{
		BaseHandler:      NewBaseHandler(logger),
		classroomService: classroomService,
	}
}

// CreateClassroom creates a new classroom owned by the caller
// @Summary Create classroom
// @Tags classrooms
// @Accept json
// @Produce json
// @Param classroom body validator.CreateClassroomRequest true "Classroom data"
// @Success 201 {object} models.Classroom
// @Failure 400 {object} ErrorResponse
// @Router /classrooms [post]
func (h *ClassroomHandler) CreateClassroom(c *gin.Context) {
	var req validator.CreateClassroomRequest
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

	classroom, err := h.classroomService.Create(c.Request.Context(), userID, req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, classroom)
}

// ListClassrooms lists classrooms visible to the caller
// @Summary List classrooms
// @Tags classrooms
// @Produce json
// @Param scope query string false "owned or joined"
// @Param search query string false "Title search"
// @Success 200 {array} models.Classroom
// @Router /classrooms [get]
func (h *ClassroomHandler) ListClassrooms(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	filters := repositories.ClassroomFilters{
		Limit:     parseIntQuery(c, "limit", 20),
		Offset:    parseIntQuery(c, "offset", 0),
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}
	switch c.Query("scope") {
	case "owned":
		filters.OwnerID = &userID
	case "joined":
		filters.MemberID = &userID
	}
	if search := c.Query("search"); search != "" {
		filters.Search = &search
	}

	classrooms, total, err := h.classroomService.List(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"classrooms": classrooms,
		"total":      total,
	})
}

// GetClassroom retrieves a classroom by ID
// @Summary Get classroom
// @Tags classrooms
// @Produce json
// @Param id path string true "Classroom ID"
// @Success 200 {object} models.Classroom
// @Failure 404 {object} ErrorResponse
// @Router /classrooms/{id} [get]
func (h *ClassroomHandler) GetClassroom(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	classroom, err := h.classroomService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, classroom)
}

// UpdateClassroom updates classroom settings
// @Summary Update classroom
// @Tags classrooms
// @Accept json
// @Produce json
// @Param id path string true "Classroom ID"
// @Param classroom body validator.UpdateClassroomRequest true "Fields to update"
// @Success 200 {object} models.Classroom
// @Failure 403 {object} ErrorResponse
// @Router /classrooms/{id} [put]
func (h *ClassroomHandler) UpdateClassroom(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req validator.UpdateClassroomRequest
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

	classroom, err := h.classroomService.Update(c.Request.Context(), id, userID, req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, classroom)
}

// ArchiveClassroom archives a classroom
// @Summary Archive classroom
// @Tags classrooms
// @Produce json
// @Param id path string true "Classroom ID"
// @Success 204 "No Content"
// @Failure 403 {object} ErrorResponse
// @Router /classrooms/{id}/archive [post]
func (h *ClassroomHandler) ArchiveClassroom(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	if err := h.classroomService.Archive(c.Request.Context(), id, userID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// JoinClassroom enrolls the caller as a student
// @Summary Join classroom
// @Tags classrooms
// @Accept json
// @Produce json
// @Param id path string true "Classroom ID"
// @Param join body validator.JoinClassroomRequest false "Join payload"
// @Success 201 {object} models.ClassroomMember
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /classrooms/{id}/join [post]
func (h *ClassroomHandler) JoinClassroom(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req validator.JoinClassroomRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Message: "Invalid request payload",
				Details: err.Error(),
			})
			return
		}
	}

	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Joining classroom", "classroom_id", id)

	member, err := h.classroomService.Join(c.Request.Context(), userID, id, req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, member)
}

// ListMembers lists classroom members with resolved profiles
// @Summary List members
// @Tags classrooms
// @Produce json
// @Param id path string true "Classroom ID"
// @Success 200 {array} models.ClassroomMember
// @Failure 403 {object} ErrorResponse
// @Router /classrooms/{id}/members [get]
func (h *ClassroomHandler) ListMembers(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	members, err := h.classroomService.ListMembers(c.Request.Context(), id, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, members)
}

func parseIntQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}
