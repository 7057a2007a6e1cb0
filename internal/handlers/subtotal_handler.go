package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"drebuilder/internal/services"
)

// SubtotalHandler handles subtotal requests.
type SubtotalHandler struct {
	budgetService services.BudgetServicer
}

// NewSubtotalHandler creates a new SubtotalHandler.
func NewSubtotalHandler(budgetService services.BudgetServicer) *SubtotalHandler {
	return &SubtotalHandler{budgetService: budgetService}
}

// CreateSubtotalRequest represents the request payload for creating a subtotal.
type CreateSubtotalRequest struct {
	Name       string   `json:"name" binding:"required,max=255"`
	AccountIDs []string `json:"account_ids" binding:"required,min=1,dive,required"`
}

// SubtotalQuery holds the optional month filter of a subtotal lookup.
type SubtotalQuery struct {
	Month string `form:"month" binding:"omitempty,month_key"`
}

// CreateSubtotal handles the creation of a subtotal.
// @Summary     Create a subtotal
// @Description Create a named, sign-aware sum over any set of items
// @Tags        subtotals
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateSubtotalRequest true "Subtotal details"
// @Success     201 {object} services.SubtotalView "Subtotal created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Item not found"
// @Router      /budget/subtotals [post]
func (h *SubtotalHandler) CreateSubtotal(c *gin.Context) {
	sessionID, err := getSessionID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateSubtotalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	subtotal, err := h.budgetService.CreateSubtotal(sessionID, req.Name, req.AccountIDs)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"subtotal": subtotal})
}

// GetSubtotals handles listing subtotals.
// @Summary     Get subtotals
// @Tags        subtotals
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array}  services.SubtotalView "Subtotals in creation order"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /budget/subtotals [get]
func (h *SubtotalHandler) GetSubtotals(c *gin.Context) {
	sessionID, err := getSessionID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	subtotals, err := h.budgetService.GetSubtotals(sessionID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"subtotals": subtotals})
}

// GetSubtotal handles a single subtotal lookup. With ?month= it returns the
// value for that month only.
// @Summary     Get a subtotal
// @Tags        subtotals
// @Produce     json
// @Security    BearerAuth
// @Param       id    path  string true  "Subtotal ID"
// @Param       month query string false "Month key (Jan..Dec)"
// @Success     200 {object} services.SubtotalView "Subtotal with all values"
// @Success     200 {object} services.SubtotalAmount "Value for the month"
// @Failure     400 {object} ErrorResponse "Invalid month"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Subtotal not found"
// @Router      /budget/subtotals/{id} [get]
func (h *SubtotalHandler) GetSubtotal(c *gin.Context) {
	sessionID, err := getSessionID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var query SubtotalQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	if query.Month != "" {
		amount, err := h.budgetService.CalculateSubtotal(sessionID, c.Param("id"), query.Month)
		if err != nil {
			respondWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"amount": amount})
		return
	}

	subtotal, err := h.budgetService.GetSubtotal(sessionID, c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"subtotal": subtotal})
}

// DeleteSubtotal handles removing a subtotal.
// @Summary     Delete a subtotal
// @Tags        subtotals
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Subtotal ID"
// @Success     200 {object} MessageResponse "Subtotal deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Subtotal not found"
// @Router      /budget/subtotals/{id} [delete]
func (h *SubtotalHandler) DeleteSubtotal(c *gin.Context) {
	sessionID, err := getSessionID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.budgetService.DeleteSubtotal(sessionID, c.Param("id")); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Subtotal deleted"})
}

// ToggleSubtotalVisibility handles showing or hiding a subtotal.
// @Summary     Toggle subtotal visibility
// @Tags        subtotals
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Subtotal ID"
// @Success     200 {object} services.SubtotalView "Subtotal"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Subtotal not found"
// @Router      /budget/subtotals/{id}/toggle-visibility [post]
func (h *SubtotalHandler) ToggleSubtotalVisibility(c *gin.Context) {
	sessionID, err := getSessionID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	subtotal, err := h.budgetService.ToggleSubtotalVisibility(sessionID, c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"subtotal": subtotal})
}
