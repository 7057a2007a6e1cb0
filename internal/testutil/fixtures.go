package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"drebuilder/internal/dre"
	"drebuilder/internal/models"
	"drebuilder/internal/uuid"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// SampleBudget is a small statement used across tests:
//
//	1     Receitas (revenue)
//	1.1   Vendas   (revenue)  Jan 1000
//	2     Despesas (expense)  Jan 300
//
// Its January grand total is 700.
type SampleBudget struct {
	Budget   *dre.Budget
	Revenue  *dre.Item
	Sales    *dre.Item
	Expenses *dre.Item
}

// NewSampleBudget builds the sample statement.
func NewSampleBudget(t *testing.T, opts ...dre.Option) *SampleBudget {
	t.Helper()

	b := dre.New(opts...)
	revenue := b.AddRoot(false)
	sales, err := b.AddChild(revenue.ID, false)
	if err != nil {
		t.Fatalf("failed to add child item: %v", err)
	}
	expenses := b.AddRoot(true)

	for id, name := range map[string]string{revenue.ID: "Receitas", sales.ID: "Vendas", expenses.ID: "Despesas"} {
		if err := b.Rename(id, name); err != nil {
			t.Fatalf("failed to rename %s: %v", id, err)
		}
	}
	SetValue(t, b, sales.ID, dre.January, 1000)
	SetValue(t, b, expenses.ID, dre.January, 300)

	return &SampleBudget{Budget: b, Revenue: revenue, Sales: sales, Expenses: expenses}
}

// SetValue stores an integer amount on a leaf item and fails the test if it
// was not applied.
func SetValue(t *testing.T, b *dre.Budget, itemID string, month dre.Month, amount int64) {
	t.Helper()

	applied, err := b.SetMonthValue(itemID, month, decimal.NewFromInt(amount))
	if err != nil {
		t.Fatalf("failed to set %s of %s: %v", month, itemID, err)
	}
	if !applied {
		t.Fatalf("value %d for %s of %s was not applied", amount, month, itemID)
	}
}

// NewSessionID returns a fresh session identifier.
func NewSessionID() string {
	return uuid.New()
}

// CreateTestActivity stores an activity entry for sessionID.
func CreateTestActivity(t *testing.T, db *gorm.DB, sessionID string, kind dre.NoticeKind) *models.ActivityLog {
	t.Helper()

	entry := &models.ActivityLog{
		SessionID:   sessionID,
		Kind:        string(kind),
		Title:       fmt.Sprintf("Notice %d", nextID()),
		Description: "test notice",
	}
	if err := db.Create(entry).Error; err != nil {
		t.Fatalf("failed to create test activity: %v", err)
	}
	return entry
}
