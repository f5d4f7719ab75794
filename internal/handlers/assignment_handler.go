package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/LMS-F-2025/classroom-service/internal/services"
	"github.com/LMS-F-2025/classroom-service/internal/utils"
	"github.com/LMS-F-2025/classroom-service/internal/validator"
)

type AssignmentHandler struct {
	BaseHandler
	assignmentService services.AssignmentService
}

func NewAssignmentHandler(assignmentService services.AssignmentService, logger utils.Logger) *AssignmentHandler {
	return &AssignmentHandler{
		BaseHandler:       NewBaseHandler(logger),
		assignmentService: assignmentService,
	}
}

// CreateAssignment creates an assignment in a classroom
// @Summary Create assignment
// @Tags assignments
// @Accept json
// @Produce json
// @Param id path string true "Classroom ID"
// @Param assignment body validator.CreateAssignmentRequest true "Assignment data"
// @Success 201 {object} models.Assignment
// @Failure 403 {object} ErrorResponse
// @Router /classrooms/{id}/assignments [post]
func (h *AssignmentHandler) CreateAssignment(c *gin.Context) {
	classroomID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req validator.CreateAssignmentRequest
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

	assignment, err := h.assignmentService.Create(c.Request.Context(), classroomID, userID, req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, assignment)
}

// ListAssignments lists a classroom's assignments
// @Summary List assignments
// @Tags assignments
// @Produce json
// @Param id path string true "Classroom ID"
// @Success 200 {array} models.Assignment
// @Failure 403 {object} ErrorResponse
// @Router /classrooms/{id}/assignments [get]
func (h *AssignmentHandler) ListAssignments(c *gin.Context) {
	classroomID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	assignments, err := h.assignmentService.ListByClassroom(c.Request.Context(), classroomID, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, assignments)
}

// SubmitAssignment records a new submission attempt for the caller
// @Summary Submit assignment
// @Tags assignments
// @Accept json
// @Produce json
// @Param id path string true "Assignment ID"
// @Param submission body validator.SubmitAssignmentRequest true "Submission data"
// @Success 201 {object} models.AssignmentSubmission
// @Failure 403 {object} ErrorResponse
// @Router /assignments/{id}/submissions [post]
// UpdateAssignment edits an assignment's metadata
// @Summary Update assignment
// @Tags assignments
// @Accept json
// @Produce json
// @Param id path string true "Assignment ID"
// @Param assignment body validator.UpdateAssignmentRequest true "Updates"
// @Success 200 {object} models.Assignment
// @Failure 403 {object} ErrorResponse
// @Router /assignments/{id} [put]
func (h *AssignmentHandler) UpdateAssignment(c *gin.Context) {
	assignmentID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req validator.UpdateAssignmentRequest
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

	assignment, err := h.assignmentService.Update(c.Request.Context(), assignmentID, userID, req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, assignment)
}

func (h *AssignmentHandler) SubmitAssignment(c *gin.Context) {
	assignmentID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req validator.SubmitAssignmentRequest
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

	h.LogRequest(c, "Submitting assignment", "assignment_id", assignmentID)

	submission, err := h.assignmentService.Submit(c.Request.Context(), assignmentID, userID, req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, submission)
}

// ListSubmissions lists the latest submission per student, for instructors
// @Summary List submissions
// @Tags assignments
// @Produce json
// @Param id path string true "Assignment ID"
// @Success 200 {array} models.AssignmentSubmission
// @Failure 403 {object} ErrorResponse
// @Router /assignments/{id}/submissions [get]
func (h *AssignmentHandler) ListSubmissions(c *gin.Context) {
	assignmentID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	submissions, err := h.assignmentService.ListSubmissions(c.Request.Context(), assignmentID, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, submissions)
}

// SubmissionHistory lists the caller's own attempt chain, oldest first
// @Summary Submission history
// @Tags assignments
// @Produce json
// @Param id path string true "Assignment ID"
// @Success 200 {array} models.AssignmentSubmission
// @Failure 403 {object} ErrorResponse
// @Router /assignments/{id}/submissions/history [get]
func (h *AssignmentHandler) SubmissionHistory(c *gin.Context) {
	assignmentID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	history, err := h.assignmentService.SubmissionHistory(c.Request.Context(), assignmentID, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, history)
}

// GradeSubmission writes a grade and feedback onto a submission
// @Summary Grade submission
// @Tags assignments
// @Accept json
// @Produce json
// @Param id path string true "Submission ID"
// @Param grade body validator.GradeSubmissionRequest true "Grade data"
// @Success 200 {object} models.AssignmentSubmission
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /submissions/{id}/grade [post]
func (h *AssignmentHandler) GradeSubmission(c *gin.Context) {
	submissionID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req validator.GradeSubmissionRequest
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

	submission, err := h.assignmentService.Grade(c.Request.Context(), submissionID, userID, req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, submission)
}
