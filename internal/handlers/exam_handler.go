package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/LMS-F-2025/classroom-service/internal/services"
	"github.com/LMS-F-2025/classroom-service/internal/utils"
	"github.com/LMS-F-2025/classroom-service/internal/validator"
)

type ExamHandler struct {
	BaseHandler
	examService services.ExamService
}

func NewExamHandler(examService services.ExamService, logger utils.Logger) *ExamHandler {
	return &ExamHandler{
		BaseHandler: NewBaseHandler(logger),
		examService: examService,
	}
}

// CreateExam creates a draft exam in a classroom
// @Summary Create exam
// @Tags exams
// @Accept json
// @Produce json
// @Param id path string true "Classroom ID"
// @Param exam body validator.CreateExamRequest true "Exam data"
// @Success 201 {object} models.Exam
// @Failure 403 {object} ErrorResponse
// @Router /classrooms/{id}/exams [post]
func (h *ExamHandler) CreateExam(c *gin.Context) {
	classroomID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req validator.CreateExamRequest
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

	exam, err := h.examService.Create(c.Request.Context(), classroomID, userID, req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, exam)
}

// ListExams lists a classroom's exams; students only see published ones
// @Summary List exams
// @Tags exams
// @Produce json
// @Param id path string true "Classroom ID"
// @Success 200 {array} models.Exam
// @Failure 403 {object} ErrorResponse
// @Router /classrooms/{id}/exams [get]
func (h *ExamHandler) ListExams(c *gin.Context) {
	classroomID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	exams, err := h.examService.ListByClassroom(c.Request.Context(), classroomID, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, exams)
}

// AddQuestion appends a question to an exam
// @Summary Add question
// @Tags exams
// @Accept json
// @Produce json
// @Param id path string true "Exam ID"
// @Param question body validator.AddQuestionRequest true "Question data"
// @Success 201 {object} models.ExamQuestion
// @Failure 403 {object} ErrorResponse
// @Router /exams/{id}/questions [post]
func (h *ExamHandler) AddQuestion(c *gin.Context) {
	examID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req validator.AddQuestionRequest
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

	question, err := h.examService.AddQuestion(c.Request.Context(), examID, userID, req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, question)
}

// GetExamDetail returns the full authoring view including correct options
// @Summary Get exam detail
// @Tags exams
// @Produce json
// @Param id path string true "Exam ID"
// @Success 200 {object} models.Exam
// @Failure 403 {object} ErrorResponse
// @Router /exams/{id} [get]
func (h *ExamHandler) GetExamDetail(c *gin.Context) {
	examID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	exam, err := h.examService.GetDetail(c.Request.Context(), examID, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, exam)
}

// GetExamForStudent returns the redacted test-taking view
// @Summary Get exam for taking
// @Tags exams
// @Produce json
// @Param id path string true "Exam ID"
// @Success 200 {object} services.StudentExamView
// @Failure 403 {object} ErrorResponse
// @Router /exams/{id}/take [get]
func (h *ExamHandler) GetExamForStudent(c *gin.Context) {
	examID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	view, err := h.examService.GetForStudent(c.Request.Context(), examID, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// PublishExam makes an exam visible and submittable for students
// @Summary Publish exam
// @Tags exams
// @Produce json
// @Param id path string true "Exam ID"
// @Success 200 {object} models.Exam
// @Failure 403 {object} ErrorResponse
// @Router /exams/{id}/publish [post]
func (h *ExamHandler) PublishExam(c *gin.Context) {
	examID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Publishing exam", "exam_id", examID)

	exam, err := h.examService.Publish(c.Request.Context(), examID, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, exam)
}

// SubmitAttempt scores and records an exam attempt for the caller
// @Summary Submit attempt
// @Tags exams
// @Accept json
// @Produce json
// @Param id path string true "Exam ID"
// @Param attempt body validator.SubmitAttemptRequest true "Answer list"
// @Success 201 {object} models.ExamAttempt
// @Failure 403 {object} ErrorResponse
// @Router /exams/{id}/attempts [post]
func (h *ExamHandler) SubmitAttempt(c *gin.Context) {
	examID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req validator.SubmitAttemptRequest
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

	h.LogRequest(c, "Submitting exam attempt", "exam_id", examID)

	attempt, err := h.examService.Submit(c.Request.Context(), examID, userID, req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, attempt)
}
