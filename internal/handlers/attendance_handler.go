package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/LMS-F-2025/classroom-service/internal/services"
	"github.com/LMS-F-2025/classroom-service/internal/utils"
	"github.com/LMS-F-2025/classroom-service/internal/validator"
)

type AttendanceHandler struct {
	BaseHandler
	attendanceService services.AttendanceService
}

func NewAttendanceHandler(attendanceService services.AttendanceService, logger utils.Logger) *AttendanceHandler {
	return &AttendanceHandler{
		BaseHandler:       NewBaseHandler(logger),
		attendanceService: attendanceService,
	}
}

// CreateSession opens a check-in window for a classroom
// @Summary Open attendance session
// @Tags attendance
// @Accept json
// @Produce json
// @Param id path string true "Classroom ID"
// @Param session body validator.CreateAttendanceSessionRequest true "Session data"
// @Success 201 {object} models.AttendanceSession
// @Failure 403 {object} ErrorResponse
// @Router /classrooms/{id}/attendance-sessions [post]
func (h *AttendanceHandler) CreateSession(c *gin.Context) {
	classroomID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req validator.CreateAttendanceSessionRequest
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

	session, err := h.attendanceService.CreateSession(c.Request.Context(), classroomID, userID, req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, session)
}

// ListSessions lists a classroom's attendance sessions, newest first
// @Summary List attendance sessions
// @Tags attendance
// @Produce json
// @Param id path string true "Classroom ID"
// @Success 200 {array} models.AttendanceSession
// @Failure 403 {object} ErrorResponse
// @Router /classrooms/{id}/attendance-sessions [get]
func (h *AttendanceHandler) ListSessions(c *gin.Context) {
	classroomID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	sessions, err := h.attendanceService.ListSessions(c.Request.Context(), classroomID, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, sessions)
}

// CheckIn records the caller as present in an open session
// @Summary Check in
// @Tags attendance
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param checkin body validator.CheckInRequest false "Optional location payload"
// @Success 201 {object} models.AttendanceRecord
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 410 {object} ErrorResponse
// @Router /attendance-sessions/{id}/check-in [post]
func (h *AttendanceHandler) CheckIn(c *gin.Context) {
	sessionID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req validator.CheckInRequest
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

	h.LogRequest(c, "Checking in", "session_id", sessionID)

	record, err := h.attendanceService.CheckIn(c.Request.Context(), sessionID, userID, req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, record)
}

// ListRecords lists a session's check-in records with profiles
// @Summary List attendance records
// @Tags attendance
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {array} models.AttendanceRecord
// @Failure 403 {object} ErrorResponse
// @Router /attendance-sessions/{id}/records [get]
func (h *AttendanceHandler) ListRecords(c *gin.Context) {
	sessionID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	records, err := h.attendanceService.ListRecords(c.Request.Context(), sessionID, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, records)
}
