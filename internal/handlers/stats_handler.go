package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/LMS-F-2025/classroom-service/internal/services"
	"github.com/LMS-F-2025/classroom-service/internal/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type StatsHandler struct {
	BaseHandler
	statsService  services.StatsService
	exportService services.ExportService
}

func NewStatsHandler(statsService services.StatsService, exportService services.ExportService, logger utils.Logger) *StatsHandler {
	return &StatsHandler{
		BaseHandler:   NewBaseHandler(logger),
		statsService:  statsService,
		exportService: exportService,
	}
}

// Overview returns aggregate counts and average exam score for a classroom
// @Summary Classroom overview
// @Tags stats
// @Produce json
// @Param id path string true "Classroom ID"
// @Success 200 {object} services.ClassroomOverviewResponse
// @Failure 403 {object} ErrorResponse
// @Router /classrooms/{id}/overview [get]
func (h *StatsHandler) Overview(c *gin.Context) {
	classroomID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	overview, err := h.statsService.Overview(c.Request.Context(), classroomID, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, overview)
}

// Leaderboard returns the top students by total exam score
// @Summary Classroom leaderboard
// @Tags stats
// @Produce json
// @Param id path string true "Classroom ID"
// @Success 200 {array} services.LeaderboardEntry
// @Failure 403 {object} ErrorResponse
// @Router /classrooms/{id}/leaderboard [get]
func (h *StatsHandler) Leaderboard(c *gin.Context) {
	classroomID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	entries, err := h.statsService.Leaderboard(c.Request.Context(), classroomID, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"classroom_id": classroomID,
		"leaderboard":  entries,
	})
}

// ExportReport streams an xlsx report with overview, leaderboard and attendance sheets
// @Summary Export classroom report
// @Tags stats
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param id path string true "Classroom ID"
// @Success 200 {file} binary
// @Failure 403 {object} ErrorResponse
// @Router /classrooms/{id}/report [get]
func (h *StatsHandler) ExportReport(c *gin.Context) {
	classroomID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Exporting classroom report", "classroom_id", classroomID)

	report, err := h.exportService.ClassroomReport(c.Request.Context(), classroomID, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("classroom-report-%s.xlsx", time.Now().UTC().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, report)
}
