package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"drebuilder/internal/dre"
	"drebuilder/internal/services"
)

// BudgetHandler handles budget item requests.
type BudgetHandler struct {
	budgetService services.BudgetServicer
}

// NewBudgetHandler creates a new BudgetHandler.
func NewBudgetHandler(budgetService services.BudgetServicer) *BudgetHandler {
	return &BudgetHandler{budgetService: budgetService}
}

// AddItemRequest represents the request payload for adding an item.
type AddItemRequest struct {
	Type dre.ItemType `json:"type" binding:"required,item_type"`
}

// RenameItemRequest represents the request payload for renaming an item.
type RenameItemRequest struct {
	Name string `json:"name" binding:"max=255"`
}

// SetValueRequest represents the request payload for a monthly value. Value
// may be a JSON number or a string; a missing value is ignored like any other
// invalid input.
type SetValueRequest struct {
	Value json.RawMessage `json:"value" swaggertype:"string" example:"1500.00"`
}

// MoveItemRequest represents the request payload for moving an item.
type MoveItemRequest struct {
	TargetID string `json:"target_id" binding:"required"`
}

// rawValue returns the text of a JSON number or string.
func (r SetValueRequest) rawValue() string {
	var s string
	if err := json.Unmarshal(r.Value, &s); err == nil {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(string(r.Value))
}

// GetBudget returns the session's whole budget.
// @Summary     Get the budget
// @Description Get every item, subtotal and the grand total of the session's budget
// @Tags        budget
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.BudgetView "Budget"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Session not found"
// @Router      /budget [get]
func (h *BudgetHandler) GetBudget(c *gin.Context) {
	sessionID, err := getSessionID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	view, err := h.budgetService.GetBudget(sessionID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"budget": view})
}

// AddRootItem handles adding a top-level item.
// @Summary     Add a top-level item
// @Tags        budget
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body AddItemRequest true "Item type"
// @Success     201 {object} dre.Item "Item created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /budget/items [post]
func (h *BudgetHandler) AddRootItem(c *gin.Context) {
	sessionID, err := getSessionID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	item, err := h.budgetService.AddRootItem(sessionID, req.Type)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"item": item})
}

// AddChildItem handles adding an item under a parent.
// @Summary     Add a child item
// @Tags        budget
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string         true "Parent item ID"
// @Param       request body AddItemRequest true "Item type"
// @Success     201 {object} dre.Item "Item created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Parent not found"
// @Router      /budget/items/{id}/children [post]
func (h *BudgetHandler) AddChildItem(c *gin.Context) {
	sessionID, err := getSessionID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	item, err := h.budgetService.AddChildItem(sessionID, c.Param("id"), req.Type)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"item": item})
}

// DeleteItem handles removing an item and its sub-items.
// @Summary     Delete an item
// @Tags        budget
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Item ID"
// @Success     200 {object} MessageResponse "Item deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Item not found"
// @Router      /budget/items/{id} [delete]
func (h *BudgetHandler) DeleteItem(c *gin.Context) {
	sessionID, err := getSessionID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.budgetService.DeleteItem(sessionID, c.Param("id")); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Item deleted"})
}

// RenameItem handles renaming an item.
// @Summary     Rename an item
// @Tags        budget
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string            true "Item ID"
// @Param       request body RenameItemRequest true "New name"
// @Success     200 {object} dre.Item "Item renamed"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Item not found"
// @Router      /budget/items/{id} [patch]
func (h *BudgetHandler) RenameItem(c *gin.Context) {
	sessionID, err := getSessionID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req RenameItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	item, err := h.budgetService.RenameItem(sessionID, c.Param("id"), req.Name)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"item": item})
}

// SetItemValue handles editing one month of a leaf item. Input that is not a
// non-negative number leaves the item unchanged and reports applied=false.
// @Summary     Set a monthly value
// @Tags        budget
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string          true "Item ID"
// @Param       month   path string          true "Month key (Jan..Dec)"
// @Param       request body SetValueRequest true "Value"
// @Success     200 {object} services.ValueUpdate "Outcome of the edit"
// @Failure     400 {object} ErrorResponse "Invalid input or month"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Item not found"
// @Failure     409 {object} ErrorResponse "Item has sub-items"
// @Router      /budget/items/{id}/values/{month} [put]
func (h *BudgetHandler) SetItemValue(c *gin.Context) {
	sessionID, err := getSessionID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req SetValueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	update, err := h.budgetService.SetItemValue(sessionID, c.Param("id"), c.Param("month"), req.rawValue())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, update)
}

// ToggleItemExpanded handles expanding or collapsing an item.
// @Summary     Toggle expanded
// @Tags        budget
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Item ID"
// @Success     200 {object} dre.Item "Item"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Item not found"
// @Router      /budget/items/{id}/toggle-expanded [post]
func (h *BudgetHandler) ToggleItemExpanded(c *gin.Context) {
	h.toggle(c, h.budgetService.ToggleItemExpanded)
}

// ToggleItemSign handles switching an item between revenue and expense.
// @Summary     Toggle sign
// @Tags        budget
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Item ID"
// @Success     200 {object} dre.Item "Item"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Item not found"
// @Router      /budget/items/{id}/toggle-sign [post]
func (h *BudgetHandler) ToggleItemSign(c *gin.Context) {
	h.toggle(c, h.budgetService.ToggleItemSign)
}

func (h *BudgetHandler) toggle(c *gin.Context, fn func(sessionID, itemID string) (*dre.Item, error)) {
	sessionID, err := getSessionID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	item, err := fn(sessionID, c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"item": item})
}

// MoveItem handles re-parenting an item under a target item.
// @Summary     Move an item
// @Description Make the item the last child of the target. The moved subtree is re-coded.
// @Tags        budget
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string          true "Dragged item ID"
// @Param       request body MoveItemRequest true "Target item"
// @Success     200 {object} services.BudgetView "Budget after the move"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Item not found"
// @Failure     409 {object} ErrorResponse "Target is the item or one of its descendants"
// @Router      /budget/items/{id}/move [post]
func (h *BudgetHandler) MoveItem(c *gin.Context) {
	sessionID, err := getSessionID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req MoveItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	view, err := h.budgetService.MoveItem(sessionID, c.Param("id"), req.TargetID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"budget": view})
}

// GetTotals returns the grand total of the budget.
// @Summary     Get totals
// @Tags        budget
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} dre.MonthlyValues "Grand total per month and year"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Session not found"
// @Router      /budget/totals [get]
func (h *BudgetHandler) GetTotals(c *gin.Context) {
	sessionID, err := getSessionID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	totals, err := h.budgetService.GetTotals(sessionID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"totals": totals})
}
