// Package dre implements the hierarchical income statement (DRE) budget:
// a forest of revenue and expense line items with monthly values, parent
// roll-ups, dotted position codes and user-defined subtotals.
//
// A Budget is not safe for concurrent use. Callers serialize access to it.
package dre

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// ItemType classifies a line item as revenue or expense.
type ItemType string

const (
	ItemTypeRevenue ItemType = "revenue"
	ItemTypeExpense ItemType = "expense"
)

// Valid reports whether t is a known item type.
func (t ItemType) Valid() bool {
	return t == ItemTypeRevenue || t == ItemTypeExpense
}

// Sign returns -1 for expenses and 1 for revenue.
func (t ItemType) Sign() decimal.Decimal {
	if t == ItemTypeExpense {
		return decimal.NewFromInt(-1)
	}
	return decimal.NewFromInt(1)
}

// TypeFor maps the is-negative flag onto an item type.
func TypeFor(isNegative bool) ItemType {
	if isNegative {
		return ItemTypeExpense
	}
	return ItemTypeRevenue
}

// Item is a node of the budget forest. Children are owned exclusively by
// their parent; an item never appears under two parents.
type Item struct {
	ID         string
	Code       string
	Name       string
	Type       ItemType
	IsExpanded bool
	Values     MonthlyValues
	Children   []*Item
}

// IsNegative reports whether the item is an expense.
func (i *Item) IsNegative() bool {
	return i.Type == ItemTypeExpense
}

// IsLeaf reports whether the item has no children.
func (i *Item) IsLeaf() bool {
	return len(i.Children) == 0
}

// Clone returns a deep copy of the item and its subtree.
func (i *Item) Clone() *Item {
	out := *i
	out.Children = make([]*Item, len(i.Children))
	for idx, child := range i.Children {
		out.Children[idx] = child.Clone()
	}
	return &out
}

// signed returns the item's contribution for m to whatever aggregates it.
func (i *Item) signed(m Month) decimal.Decimal {
	v := i.Values.Get(m)
	if i.IsNegative() {
		return v.Neg()
	}
	return v
}

// signedTotal returns the item's annual contribution to whatever aggregates it.
func (i *Item) signedTotal() decimal.Decimal {
	v := i.Values.Total()
	if i.IsNegative() {
		return v.Neg()
	}
	return v
}

// contains reports whether target is i or one of its descendants.
func (i *Item) contains(target *Item) bool {
	if i == target {
		return true
	}
	for _, child := range i.Children {
		if child.contains(target) {
			return true
		}
	}
	return false
}

// walk visits i and its descendants depth-first, parents before children.
func (i *Item) walk(fn func(item, parent *Item)) {
	var visit func(item, parent *Item)
	visit = func(item, parent *Item) {
		fn(item, parent)
		for _, child := range item.Children {
			visit(child, item)
		}
	}
	visit(i, nil)
}

type itemJSON struct {
	ID         string        `json:"id"`
	Code       string        `json:"code"`
	Name       string        `json:"name"`
	Type       ItemType      `json:"type"`
	IsNegative bool          `json:"is_negative"`
	IsExpanded bool          `json:"is_expanded"`
	Values     MonthlyValues `json:"values"`
	Children   []*Item       `json:"children"`
}

// MarshalJSON includes the derived is_negative flag next to the type.
func (i *Item) MarshalJSON() ([]byte, error) {
	children := i.Children
	if children == nil {
		children = []*Item{}
	}
	return json.Marshal(itemJSON{
		ID:         i.ID,
		Code:       i.Code,
		Name:       i.Name,
		Type:       i.Type,
		IsNegative: i.IsNegative(),
		IsExpanded: i.IsExpanded,
		Values:     i.Values,
		Children:   children,
	})
}
