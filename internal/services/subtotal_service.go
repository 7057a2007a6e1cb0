package services

import (
	"drebuilder/internal/dre"
)

// CreateSubtotal adds a subtotal over accountIDs.
func (s *budgetService) CreateSubtotal(sessionID, name string, accountIDs []string) (*SubtotalView, error) {
	var view *SubtotalView
	err := s.sessions.WithBudget(sessionID, func(b *dre.Budget) error {
		st, err := b.AddSubtotal(name, accountIDs)
		if err != nil {
			return err
		}
		view = snapshotSubtotal(b, st)
		return nil
	})
	if err != nil {
		return nil, mapBudgetError(err)
	}
	return view, nil
}

// GetSubtotals returns every subtotal with its values, in creation order.
func (s *budgetService) GetSubtotals(sessionID string) ([]SubtotalView, error) {
	var views []SubtotalView
	err := s.sessions.WithBudget(sessionID, func(b *dre.Budget) error {
		views = snapshotSubtotals(b)
		return nil
	})
	if err != nil {
		return nil, mapBudgetError(err)
	}
	return views, nil
}

// GetSubtotal returns one subtotal with its values.
func (s *budgetService) GetSubtotal(sessionID, subtotalID string) (*SubtotalView, error) {
	var view *SubtotalView
	err := s.sessions.WithBudget(sessionID, func(b *dre.Budget) error {
		st, ok := b.Subtotal(subtotalID)
		if !ok {
			return dre.ErrSubtotalNotFound
		}
		view = snapshotSubtotal(b, st)
		return nil
	})
	if err != nil {
		return nil, mapBudgetError(err)
	}
	return view, nil
}

// CalculateSubtotal returns a subtotal's value for month, or for the whole
// year when month is empty.
func (s *budgetService) CalculateSubtotal(sessionID, subtotalID, month string) (*SubtotalAmount, error) {
	var amount *SubtotalAmount
	err := s.sessions.WithBudget(sessionID, func(b *dre.Budget) error {
		st, ok := b.Subtotal(subtotalID)
		if !ok {
			return dre.ErrSubtotalNotFound
		}

		if month == "" {
			amount = &SubtotalAmount{SubtotalID: st.ID, Value: b.CalculateSubtotalTotal(st)}
			return nil
		}
		m, ok := dre.ParseMonth(month)
		if !ok {
			return dre.ErrInvalidMonth
		}
		amount = &SubtotalAmount{SubtotalID: st.ID, Month: m.String(), Value: b.CalculateSubtotal(st, m)}
		return nil
	})
	if err != nil {
		return nil, mapBudgetError(err)
	}
	return amount, nil
}

// DeleteSubtotal removes a subtotal.
func (s *budgetService) DeleteSubtotal(sessionID, subtotalID string) error {
	err := s.sessions.WithBudget(sessionID, func(b *dre.Budget) error {
		return b.DeleteSubtotal(subtotalID)
	})
	return mapBudgetError(err)
}

// ToggleSubtotalVisibility flips a subtotal's visibility.
func (s *budgetService) ToggleSubtotalVisibility(sessionID, subtotalID string) (*SubtotalView, error) {
	var view *SubtotalView
	err := s.sessions.WithBudget(sessionID, func(b *dre.Budget) error {
		if err := b.ToggleSubtotalVisibility(subtotalID); err != nil {
			return err
		}
		st, _ := b.Subtotal(subtotalID)
		view = snapshotSubtotal(b, st)
		return nil
	})
	if err != nil {
		return nil, mapBudgetError(err)
	}
	return view, nil
}

func snapshotSubtotal(b *dre.Budget, st *dre.Subtotal) *SubtotalView {
	return &SubtotalView{Subtotal: st.Clone(), Values: b.SubtotalValues(st)}
}

func snapshotSubtotals(b *dre.Budget) []SubtotalView {
	subtotals := b.Subtotals()
	views := make([]SubtotalView, len(subtotals))
	for i, st := range subtotals {
		views[i] = *snapshotSubtotal(b, st)
	}
	return views
}
