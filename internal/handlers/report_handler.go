package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"drebuilder/internal/pagination"
	"drebuilder/internal/services"
)

// ReportHandler serves the formatted report and the notice history.
type ReportHandler struct {
	budgetService   services.BudgetServicer
	activityService services.ActivityServicer
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(budgetService services.BudgetServicer, activityService services.ActivityServicer) *ReportHandler {
	return &ReportHandler{budgetService: budgetService, activityService: activityService}
}

// GetReport returns the budget rendered for display.
// @Summary     Get the report
// @Description Items in tree order, visible subtotals and the grand total with currency-formatted cells
// @Tags        reports
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.Report "Report"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Session not found"
// @Router      /budget/report [get]
func (h *ReportHandler) GetReport(c *gin.Context) {
	sessionID, err := getSessionID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	report, err := h.budgetService.GetReport(sessionID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"report": report})
}

// GetActivity returns the session's notices, newest first.
// @Summary     Get activity
// @Tags        reports
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.ActivityLog] "Paginated notices"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budget/activity [get]
func (h *ReportHandler) GetActivity(c *gin.Context) {
	sessionID, err := getSessionID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	result, err := h.activityService.GetSessionActivity(sessionID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
