package services

import (
	"time"

	"github.com/shopspring/decimal"

	"drebuilder/internal/dre"
	"drebuilder/internal/models"
	"drebuilder/internal/pagination"
)

// Session describes an in-memory editing session. Each session owns exactly
// one budget.
type Session struct {
	ID           string    `json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	LastActiveAt time.Time `json:"last_active_at"`
}

// SessionServicer defines the contract for session lifecycle and serialized
// access to a session's budget.
type SessionServicer interface {
	CreateSession() (*Session, error)
	GetSession(sessionID string) (*Session, error)
	EndSession(sessionID string) error
	// WithBudget runs fn with exclusive access to the session's budget.
	WithBudget(sessionID string, fn func(b *dre.Budget) error) error
	Sweep(now time.Time) int
}

// SubtotalView is a subtotal together with its computed values.
type SubtotalView struct {
	*dre.Subtotal
	Values dre.MonthlyValues `json:"values"`
}

// BudgetView is a consistent snapshot of a session's budget.
type BudgetView struct {
	Months    []string          `json:"months"`
	Items     []*dre.Item       `json:"items"`
	Subtotals []SubtotalView    `json:"subtotals"`
	Totals    dre.MonthlyValues `json:"totals"`
}

// ValueUpdate reports the outcome of a monthly value edit. When Applied is
// false the input was ignored and Item holds the unchanged values.
type ValueUpdate struct {
	Applied bool      `json:"applied"`
	Item    *dre.Item `json:"item"`
}

// SubtotalAmount is a subtotal's value for one month, or for the year when
// Month is empty.
type SubtotalAmount struct {
	SubtotalID string          `json:"subtotal_id"`
	Month      string          `json:"month,omitempty"`
	Value      decimal.Decimal `json:"value"`
}

// BudgetServicer defines the contract for editing a session's budget.
type BudgetServicer interface {
	GetBudget(sessionID string) (*BudgetView, error)
	AddRootItem(sessionID string, itemType dre.ItemType) (*dre.Item, error)
	AddChildItem(sessionID, parentID string, itemType dre.ItemType) (*dre.Item, error)
	DeleteItem(sessionID, itemID string) error
	RenameItem(sessionID, itemID, name string) (*dre.Item, error)
	SetItemValue(sessionID, itemID, month, rawValue string) (*ValueUpdate, error)
	ToggleItemExpanded(sessionID, itemID string) (*dre.Item, error)
	ToggleItemSign(sessionID, itemID string) (*dre.Item, error)
	MoveItem(sessionID, draggedID, targetID string) (*BudgetView, error)
	GetTotals(sessionID string) (*dre.MonthlyValues, error)

	CreateSubtotal(sessionID, name string, accountIDs []string) (*SubtotalView, error)
	GetSubtotals(sessionID string) ([]SubtotalView, error)
	GetSubtotal(sessionID, subtotalID string) (*SubtotalView, error)
	CalculateSubtotal(sessionID, subtotalID, month string) (*SubtotalAmount, error)
	DeleteSubtotal(sessionID, subtotalID string) error
	ToggleSubtotalVisibility(sessionID, subtotalID string) (*SubtotalView, error)

	GetReport(sessionID string) (*Report, error)
}

// ActivityServicer defines the contract for the advisory notice history.
type ActivityServicer interface {
	Record(sessionID string, notice dre.Notice)
	GetSessionActivity(sessionID string, page pagination.PageRequest) (*pagination.PageResponse[models.ActivityLog], error)
}
