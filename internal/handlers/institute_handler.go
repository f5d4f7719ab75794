package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/LMS-F-2025/classroom-service/internal/services"
	"github.com/LMS-F-2025/classroom-service/internal/utils"
	"github.com/LMS-F-2025/classroom-service/internal/validator"
)

type InstituteHandler struct {
	BaseHandler
	instituteService services.InstituteService
}

func NewInstituteHandler(instituteService services.InstituteService, logger utils.Logger) *InstituteHandler {
	return &InstituteHandler{
		BaseHandler:      NewBaseHandler(logger),
		instituteService: instituteService,
	}
}

// CreateInstitute registers an institute with the caller as owner
// @Summary Create institute
// @Tags institutes
// @Accept json
// @Produce json
// @Param institute body validator.CreateInstituteRequest true "Institute data"
// @Success 201 {object} models.Institute
// @Failure 400 {object} ErrorResponse
// @Router /institutes [post]
func (h *InstituteHandler) CreateInstitute(c *gin.Context) {
	var req validator.CreateInstituteRequest
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

	institute, err := h.instituteService.Create(c.Request.Context(), userID, req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, institute)
}

// GetInstitute returns an institute by ID
// @Summary Get institute
// @Tags institutes
// @Produce json
// @Param id path string true "Institute ID"
// @Success 200 {object} models.Institute
// @Failure 404 {object} ErrorResponse
// @Router /institutes/{id} [get]
func (h *InstituteHandler) GetInstitute(c *gin.Context) {
	instituteID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	institute, err := h.instituteService.GetByID(c.Request.Context(), instituteID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, institute)
}

// AddMember adds a user to the institute roster by email
// @Summary Add institute member
// @Tags institutes
// @Accept json
// @Produce json
// @Param id path string true "Institute ID"
// @Param member body validator.AddInstituteMemberRequest true "Member data"
// @Success 201 {object} models.InstituteMember
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /institutes/{id}/members [post]
func (h *InstituteHandler) AddMember(c *gin.Context) {
	instituteID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req validator.AddInstituteMemberRequest
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

	member, err := h.instituteService.AddMember(c.Request.Context(), instituteID, userID, req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, member)
}

// ListMembers lists the institute roster with profiles
// @Summary List institute members
// @Tags institutes
// @Produce json
// @Param id path string true "Institute ID"
// @Success 200 {array} models.InstituteMember
// @Failure 404 {object} ErrorResponse
// @Router /institutes/{id}/members [get]
func (h *InstituteHandler) ListMembers(c *gin.Context) {
	instituteID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	members, err := h.instituteService.ListMembers(c.Request.Context(), instituteID, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, members)
}

// UpdateMember changes a member's role or student ID code
// @Summary Update institute member
// @Tags institutes
// @Accept json
// @Produce json
// @Param id path string true "Institute ID"
// @Param user_id path string true "User ID"
// @Param member body validator.UpdateInstituteMemberRequest true "Updates"
// @Success 200 {object} models.InstituteMember
// @Failure 403 {object} ErrorResponse
// @Router /institutes/{id}/members/{user_id} [put]
func (h *InstituteHandler) UpdateMember(c *gin.Context) {
	instituteID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}
	targetID := c.Param("user_id")

	var req validator.UpdateInstituteMemberRequest
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

	member, err := h.instituteService.UpdateMember(c.Request.Context(), instituteID, userID, targetID, req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, member)
}

// RemoveMember removes a member from the roster, owners cannot be removed
// @Summary Remove institute member
// @Tags institutes
// @Param id path string true "Institute ID"
// @Param user_id path string true "User ID"
// @Success 204
// @Failure 403 {object} ErrorResponse
// @Router /institutes/{id}/members/{user_id} [delete]
func (h *InstituteHandler) RemoveMember(c *gin.Context) {
	instituteID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}
	targetID := c.Param("user_id")

	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	if err := h.instituteService.RemoveMember(c.Request.Context(), instituteID, userID, targetID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
