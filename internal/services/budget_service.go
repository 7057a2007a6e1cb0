package services

import (
	"errors"

	"github.com/shopspring/decimal"

	"drebuilder/internal/dre"
	apperrors "drebuilder/internal/errors"
	"drebuilder/internal/format"
)

// budgetService applies edits to the budget owned by a session.
type budgetService struct {
	sessions SessionServicer
	currency *format.Currency
}

// NewBudgetService creates a new BudgetServicer. Reports are rendered in
// currency.
func NewBudgetService(sessions SessionServicer, currency *format.Currency) BudgetServicer {
	return &budgetService{sessions: sessions, currency: currency}
}

// GetBudget returns a snapshot of the whole budget.
func (s *budgetService) GetBudget(sessionID string) (*BudgetView, error) {
	var view *BudgetView
	err := s.sessions.WithBudget(sessionID, func(b *dre.Budget) error {
		view = snapshotBudget(b)
		return nil
	})
	if err != nil {
		return nil, mapBudgetError(err)
	}
	return view, nil
}

// AddRootItem appends a new top-level item.
func (s *budgetService) AddRootItem(sessionID string, itemType dre.ItemType) (*dre.Item, error) {
	if !itemType.Valid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "type must be revenue or expense")
	}

	var item *dre.Item
	err := s.sessions.WithBudget(sessionID, func(b *dre.Budget) error {
		item = b.AddRoot(itemType == dre.ItemTypeExpense).Clone()
		return nil
	})
	if err != nil {
		return nil, mapBudgetError(err)
	}
	return item, nil
}

// AddChildItem appends a new item under parentID.
func (s *budgetService) AddChildItem(sessionID, parentID string, itemType dre.ItemType) (*dre.Item, error) {
	if !itemType.Valid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "type must be revenue or expense")
	}

	var item *dre.Item
	err := s.sessions.WithBudget(sessionID, func(b *dre.Budget) error {
		child, err := b.AddChild(parentID, itemType == dre.ItemTypeExpense)
		if err != nil {
			return err
		}
		item = child.Clone()
		return nil
	})
	if err != nil {
		return nil, mapBudgetError(err)
	}
	return item, nil
}

// DeleteItem removes an item and its subtree.
func (s *budgetService) DeleteItem(sessionID, itemID string) error {
	err := s.sessions.WithBudget(sessionID, func(b *dre.Budget) error {
		_, err := b.Delete(itemID)
		return err
	})
	return mapBudgetError(err)
}

// RenameItem sets an item's name.
func (s *budgetService) RenameItem(sessionID, itemID, name string) (*dre.Item, error) {
	return s.editItem(sessionID, itemID, func(b *dre.Budget) error {
		return b.Rename(itemID, name)
	})
}

// maxValueLength bounds the text of a monthly value before it is parsed.
const maxValueLength = 32

// parseAmount parses a user-entered amount. It reports false for text that
// is not a number or falls outside dre.ValidAmount.
func parseAmount(raw string) (decimal.Decimal, bool) {
	if len(raw) > maxValueLength {
		return decimal.Decimal{}, false
	}
	value, err := decimal.NewFromString(raw)
	if err != nil || !dre.ValidAmount(value) {
		return decimal.Decimal{}, false
	}
	return value, true
}

// SetItemValue stores rawValue for month on a leaf item. Input that is not a
// non-negative number within the amount bounds is ignored and reported with
// Applied set to false.
func (s *budgetService) SetItemValue(sessionID, itemID, month, rawValue string) (*ValueUpdate, error) {
	value, valid := parseAmount(rawValue)

	var update *ValueUpdate
	err := s.sessions.WithBudget(sessionID, func(b *dre.Budget) error {
		item, ok := b.Item(itemID)
		if !ok {
			return dre.ErrItemNotFound
		}
		m, ok := dre.ParseMonth(month)
		if !ok {
			return dre.ErrInvalidMonth
		}
		if !item.IsLeaf() {
			return dre.ErrNotLeaf
		}

		applied := false
		if valid {
			var err error
			applied, err = b.SetMonthValue(itemID, m, value)
			if err != nil {
				return err
			}
		}
		update = &ValueUpdate{Applied: applied, Item: item.Clone()}
		return nil
	})
	if err != nil {
		return nil, mapBudgetError(err)
	}
	return update, nil
}

// ToggleItemExpanded flips an item's expanded flag.
func (s *budgetService) ToggleItemExpanded(sessionID, itemID string) (*dre.Item, error) {
	return s.editItem(sessionID, itemID, func(b *dre.Budget) error {
		return b.ToggleExpanded(itemID)
	})
}

// ToggleItemSign switches an item between revenue and expense.
func (s *budgetService) ToggleItemSign(sessionID, itemID string) (*dre.Item, error) {
	return s.editItem(sessionID, itemID, func(b *dre.Budget) error {
		return b.ToggleSign(itemID)
	})
}

// MoveItem re-parents draggedID under targetID and returns the resulting
// budget, since a move re-codes a whole subtree.
func (s *budgetService) MoveItem(sessionID, draggedID, targetID string) (*BudgetView, error) {
	var view *BudgetView
	err := s.sessions.WithBudget(sessionID, func(b *dre.Budget) error {
		if err := b.Move(draggedID, targetID); err != nil {
			return err
		}
		view = snapshotBudget(b)
		return nil
	})
	if err != nil {
		return nil, mapBudgetError(err)
	}
	return view, nil
}

// GetTotals returns the grand total of the budget.
func (s *budgetService) GetTotals(sessionID string) (*dre.MonthlyValues, error) {
	var totals dre.MonthlyValues
	err := s.sessions.WithBudget(sessionID, func(b *dre.Budget) error {
		totals = b.BudgetTotals()
		return nil
	})
	if err != nil {
		return nil, mapBudgetError(err)
	}
	return &totals, nil
}

// editItem runs edit and returns a copy of the edited item.
func (s *budgetService) editItem(sessionID, itemID string, edit func(b *dre.Budget) error) (*dre.Item, error) {
	var item *dre.Item
	err := s.sessions.WithBudget(sessionID, func(b *dre.Budget) error {
		if err := edit(b); err != nil {
			return err
		}
		found, ok := b.Item(itemID)
		if !ok {
			return dre.ErrItemNotFound
		}
		item = found.Clone()
		return nil
	})
	if err != nil {
		return nil, mapBudgetError(err)
	}
	return item, nil
}

// snapshotBudget copies everything a response needs out of b. It must be
// called with the session lock held.
func snapshotBudget(b *dre.Budget) *BudgetView {
	roots := b.Items()
	items := make([]*dre.Item, len(roots))
	for i, root := range roots {
		items[i] = root.Clone()
	}

	return &BudgetView{
		Months:    dre.MonthKeys(),
		Items:     items,
		Subtotals: snapshotSubtotals(b),
		Totals:    b.BudgetTotals(),
	}
}

// mapBudgetError translates budget errors into application errors. Errors
// that already are application errors pass through unchanged.
func mapBudgetError(err error) error {
	if err == nil {
		return nil
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	switch {
	case errors.Is(err, dre.ErrItemNotFound):
		return apperrors.ErrItemNotFound
	case errors.Is(err, dre.ErrSubtotalNotFound):
		return apperrors.ErrSubtotalNotFound
	case errors.Is(err, dre.ErrCyclicMove):
		return apperrors.ErrInvalidMove
	case errors.Is(err, dre.ErrNotLeaf):
		return apperrors.ErrItemNotEditable
	case errors.Is(err, dre.ErrInvalidMonth):
		return apperrors.ErrInvalidMonth
	case errors.Is(err, dre.ErrInvalidSubtotal):
		return apperrors.ErrInvalidSubtotal
	default:
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
}
