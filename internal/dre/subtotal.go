package dre

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Subtotal is a named, sign-aware sum over an arbitrary set of items taken
// from anywhere in the forest. It references items by id and does not own
// them.
type Subtotal struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	AccountIDs []string `json:"account_ids"`
	IsVisible  bool     `json:"is_visible"`
}

// Clone returns a copy of the subtotal that shares no memory with s.
func (s *Subtotal) Clone() *Subtotal {
	out := *s
	out.AccountIDs = append([]string(nil), s.AccountIDs...)
	return &out
}

func (s *Subtotal) prune(removed map[string]struct{}) {
	kept := s.AccountIDs[:0]
	for _, id := range s.AccountIDs {
		if _, gone := removed[id]; !gone {
			kept = append(kept, id)
		}
	}
	s.AccountIDs = kept
}

// Subtotals returns the subtotals in creation order.
func (b *Budget) Subtotals() []*Subtotal {
	return b.subtotals
}

// Subtotal returns the subtotal with the given id.
func (b *Budget) Subtotal(id string) (*Subtotal, bool) {
	for _, s := range b.subtotals {
		if s.ID == id {
			return s, true
		}
	}
	return nil, false
}

// AddSubtotal creates a visible subtotal over accountIDs. Duplicate ids are
// collapsed, and every id must name an existing item.
func (b *Budget) AddSubtotal(name string, accountIDs []string) (*Subtotal, error) {
	name = strings.TrimSpace(name)
	if name == "" || len(accountIDs) == 0 {
		return nil, ErrInvalidSubtotal
	}

	seen := make(map[string]struct{}, len(accountIDs))
	ids := make([]string, 0, len(accountIDs))
	for _, id := range accountIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		if _, ok := b.nodes[id]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrItemNotFound, id)
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	s := &Subtotal{
		ID:         fmt.Sprintf("subtotal-%d", b.nextSubtotalID),
		Name:       name,
		AccountIDs: ids,
		IsVisible:  true,
	}
	b.nextSubtotalID++
	b.subtotals = append(b.subtotals, s)

	b.notify(Notice{
		Kind:        NoticeSubtotalAdded,
		Title:       "Subtotal adicionado",
		Description: fmt.Sprintf("Subtotal %q foi criado.", s.Name),
	})
	return s, nil
}

// DeleteSubtotal removes a subtotal. The items it referenced are untouched.
func (b *Budget) DeleteSubtotal(id string) error {
	for i, s := range b.subtotals {
		if s.ID != id {
			continue
		}
		b.subtotals = append(b.subtotals[:i], b.subtotals[i+1:]...)
		b.notify(Notice{
			Kind:        NoticeSubtotalDeleted,
			Title:       "Subtotal removido",
			Description: fmt.Sprintf("Subtotal %q foi removido.", s.Name),
		})
		return nil
	}
	return ErrSubtotalNotFound
}

// ToggleSubtotalVisibility flips the subtotal's display flag. Its value is
// not affected.
func (b *Budget) ToggleSubtotalVisibility(id string) error {
	s, ok := b.Subtotal(id)
	if !ok {
		return ErrSubtotalNotFound
	}
	s.IsVisible = !s.IsVisible
	return nil
}

// CalculateSubtotal returns the subtotal's value for month. Ids that no
// longer resolve to an item contribute zero.
func (b *Budget) CalculateSubtotal(s *Subtotal, month Month) decimal.Decimal {
	sum := decimal.Zero
	for _, id := range s.AccountIDs {
		if item, ok := b.nodes[id]; ok {
			sum = sum.Add(item.signed(month))
		}
	}
	return sum
}

// CalculateSubtotalTotal returns the subtotal's annual value.
func (b *Budget) CalculateSubtotalTotal(s *Subtotal) decimal.Decimal {
	sum := decimal.Zero
	for _, id := range s.AccountIDs {
		if item, ok := b.nodes[id]; ok {
			sum = sum.Add(item.signedTotal())
		}
	}
	return sum
}

// SubtotalValues returns the subtotal for every month and for the year.
func (b *Budget) SubtotalValues(s *Subtotal) MonthlyValues {
	var v MonthlyValues
	for _, m := range Months() {
		v.set(m, b.CalculateSubtotal(s, m))
	}
	v.total = b.CalculateSubtotalTotal(s)
	return v
}
