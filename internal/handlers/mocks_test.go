package handlers

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"drebuilder/internal/dre"
	"drebuilder/internal/middleware"
	"drebuilder/internal/models"
	"drebuilder/internal/pagination"
	"drebuilder/internal/services"
	"drebuilder/internal/validator"
)

// --- mock services ---

type mockSessionService struct {
	createSessionFn func() (*services.Session, error)
	getSessionFn    func(sessionID string) (*services.Session, error)
	endSessionFn    func(sessionID string) error
}

func (m *mockSessionService) CreateSession() (*services.Session, error) {
	if m.createSessionFn != nil {
		return m.createSessionFn()
	}
	now := time.Now()
	return &services.Session{ID: "session-1", CreatedAt: now, LastActiveAt: now}, nil
}

func (m *mockSessionService) GetSession(sessionID string) (*services.Session, error) {
	if m.getSessionFn != nil {
		return m.getSessionFn(sessionID)
	}
	return &services.Session{ID: sessionID}, nil
}

func (m *mockSessionService) EndSession(sessionID string) error {
	if m.endSessionFn != nil {
		return m.endSessionFn(sessionID)
	}
	return nil
}

func (m *mockSessionService) WithBudget(_ string, fn func(b *dre.Budget) error) error {
	return fn(dre.New())
}

func (m *mockSessionService) Sweep(time.Time) int { return 0 }

var _ services.SessionServicer = (*mockSessionService)(nil)

type mockBudgetService struct {
	getBudgetFn                func(sessionID string) (*services.BudgetView, error)
	addRootItemFn              func(sessionID string, itemType dre.ItemType) (*dre.Item, error)
	addChildItemFn             func(sessionID, parentID string, itemType dre.ItemType) (*dre.Item, error)
	deleteItemFn               func(sessionID, itemID string) error
	renameItemFn               func(sessionID, itemID, name string) (*dre.Item, error)
	setItemValueFn             func(sessionID, itemID, month, rawValue string) (*services.ValueUpdate, error)
	toggleItemExpandedFn       func(sessionID, itemID string) (*dre.Item, error)
	toggleItemSignFn           func(sessionID, itemID string) (*dre.Item, error)
	moveItemFn                 func(sessionID, draggedID, targetID string) (*services.BudgetView, error)
	getTotalsFn                func(sessionID string) (*dre.MonthlyValues, error)
	createSubtotalFn           func(sessionID, name string, accountIDs []string) (*services.SubtotalView, error)
	getSubtotalsFn             func(sessionID string) ([]services.SubtotalView, error)
	getSubtotalFn              func(sessionID, subtotalID string) (*services.SubtotalView, error)
	calculateSubtotalFn        func(sessionID, subtotalID, month string) (*services.SubtotalAmount, error)
	deleteSubtotalFn           func(sessionID, subtotalID string) error
	toggleSubtotalVisibilityFn func(sessionID, subtotalID string) (*services.SubtotalView, error)
	getReportFn                func(sessionID string) (*services.Report, error)
}

func (m *mockBudgetService) GetBudget(sessionID string) (*services.BudgetView, error) {
	if m.getBudgetFn != nil {
		return m.getBudgetFn(sessionID)
	}
	return &services.BudgetView{Months: dre.MonthKeys(), Items: []*dre.Item{}, Subtotals: []services.SubtotalView{}}, nil
}

func (m *mockBudgetService) AddRootItem(sessionID string, itemType dre.ItemType) (*dre.Item, error) {
	if m.addRootItemFn != nil {
		return m.addRootItemFn(sessionID, itemType)
	}
	return &dre.Item{ID: "item-1", Code: "1", Name: "Item 1", Type: itemType}, nil
}

func (m *mockBudgetService) AddChildItem(sessionID, parentID string, itemType dre.ItemType) (*dre.Item, error) {
	if m.addChildItemFn != nil {
		return m.addChildItemFn(sessionID, parentID, itemType)
	}
	return &dre.Item{ID: "item-2", Code: "1.1", Name: "Item 1.1", Type: itemType}, nil
}

func (m *mockBudgetService) DeleteItem(sessionID, itemID string) error {
	if m.deleteItemFn != nil {
		return m.deleteItemFn(sessionID, itemID)
	}
	return nil
}

func (m *mockBudgetService) RenameItem(sessionID, itemID, name string) (*dre.Item, error) {
	if m.renameItemFn != nil {
		return m.renameItemFn(sessionID, itemID, name)
	}
	return &dre.Item{ID: itemID, Name: name}, nil
}

func (m *mockBudgetService) SetItemValue(sessionID, itemID, month, rawValue string) (*services.ValueUpdate, error) {
	if m.setItemValueFn != nil {
		return m.setItemValueFn(sessionID, itemID, month, rawValue)
	}
	return &services.ValueUpdate{Applied: true, Item: &dre.Item{ID: itemID}}, nil
}

func (m *mockBudgetService) ToggleItemExpanded(sessionID, itemID string) (*dre.Item, error) {
	if m.toggleItemExpandedFn != nil {
		return m.toggleItemExpandedFn(sessionID, itemID)
	}
	return &dre.Item{ID: itemID}, nil
}

func (m *mockBudgetService) ToggleItemSign(sessionID, itemID string) (*dre.Item, error) {
	if m.toggleItemSignFn != nil {
		return m.toggleItemSignFn(sessionID, itemID)
	}
	return &dre.Item{ID: itemID, Type: dre.ItemTypeExpense}, nil
}

func (m *mockBudgetService) MoveItem(sessionID, draggedID, targetID string) (*services.BudgetView, error) {
	if m.moveItemFn != nil {
		return m.moveItemFn(sessionID, draggedID, targetID)
	}
	return &services.BudgetView{Months: dre.MonthKeys()}, nil
}

func (m *mockBudgetService) GetTotals(sessionID string) (*dre.MonthlyValues, error) {
	if m.getTotalsFn != nil {
		return m.getTotalsFn(sessionID)
	}
	return &dre.MonthlyValues{}, nil
}

func (m *mockBudgetService) CreateSubtotal(sessionID, name string, accountIDs []string) (*services.SubtotalView, error) {
	if m.createSubtotalFn != nil {
		return m.createSubtotalFn(sessionID, name, accountIDs)
	}
	return &services.SubtotalView{Subtotal: &dre.Subtotal{ID: "subtotal-1", Name: name, AccountIDs: accountIDs, IsVisible: true}}, nil
}

func (m *mockBudgetService) GetSubtotals(sessionID string) ([]services.SubtotalView, error) {
	if m.getSubtotalsFn != nil {
		return m.getSubtotalsFn(sessionID)
	}
	return []services.SubtotalView{}, nil
}

func (m *mockBudgetService) GetSubtotal(sessionID, subtotalID string) (*services.SubtotalView, error) {
	if m.getSubtotalFn != nil {
		return m.getSubtotalFn(sessionID, subtotalID)
	}
	return &services.SubtotalView{Subtotal: &dre.Subtotal{ID: subtotalID}}, nil
}

func (m *mockBudgetService) CalculateSubtotal(sessionID, subtotalID, month string) (*services.SubtotalAmount, error) {
	if m.calculateSubtotalFn != nil {
		return m.calculateSubtotalFn(sessionID, subtotalID, month)
	}
	return &services.SubtotalAmount{SubtotalID: subtotalID, Month: month}, nil
}

func (m *mockBudgetService) DeleteSubtotal(sessionID, subtotalID string) error {
	if m.deleteSubtotalFn != nil {
		return m.deleteSubtotalFn(sessionID, subtotalID)
	}
	return nil
}

func (m *mockBudgetService) ToggleSubtotalVisibility(sessionID, subtotalID string) (*services.SubtotalView, error) {
	if m.toggleSubtotalVisibilityFn != nil {
		return m.toggleSubtotalVisibilityFn(sessionID, subtotalID)
	}
	return &services.SubtotalView{Subtotal: &dre.Subtotal{ID: subtotalID}}, nil
}

func (m *mockBudgetService) GetReport(sessionID string) (*services.Report, error) {
	if m.getReportFn != nil {
		return m.getReportFn(sessionID)
	}
	return &services.Report{Currency: "BRL", Months: dre.MonthKeys(), Rows: []services.ReportRow{}}, nil
}

var _ services.BudgetServicer = (*mockBudgetService)(nil)

type mockActivityService struct {
	getSessionActivityFn func(sessionID string, page pagination.PageRequest) (*pagination.PageResponse[models.ActivityLog], error)
}

func (m *mockActivityService) Record(string, dre.Notice) {}

func (m *mockActivityService) GetSessionActivity(sessionID string, page pagination.PageRequest) (*pagination.PageResponse[models.ActivityLog], error) {
	if m.getSessionActivityFn != nil {
		return m.getSessionActivityFn(sessionID, page)
	}
	result := pagination.NewPageResponse[models.ActivityLog](nil, 1, pagination.DefaultPageSize, 0)
	return &result, nil
}

var _ services.ActivityServicer = (*mockActivityService)(nil)

// --- test helpers ---

const testSessionID = "0190f3a2-6b1c-7d3e-9f00-123456789abc"

func init() {
	gin.SetMode(gin.TestMode)
	validator.Register()
}

func injectSessionID(sessionID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.SessionIDKey, sessionID)
		c.Next()
	}
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func assertErrorCode(t *testing.T, result map[string]interface{}, code string) {
	t.Helper()
	errObj, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object in response, got: %v", result)
	}
	if errObj["code"] != code {
		t.Errorf("expected error code %q, got %q", code, errObj["code"])
	}
}
