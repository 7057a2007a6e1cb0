package dre

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Budget errors. They are advisory: a failed operation leaves the forest as
// it was.
var (
	ErrItemNotFound     = errors.New("dre: item not found")
	ErrSubtotalNotFound = errors.New("dre: subtotal not found")
	ErrCyclicMove       = errors.New("dre: cannot move an item under itself or one of its descendants")
	ErrNotLeaf          = errors.New("dre: values of an item with children are derived")
	ErrInvalidMonth     = errors.New("dre: invalid month")
	ErrInvalidSubtotal  = errors.New("dre: subtotal needs a name and at least one item")
)

// Budget is the forest of line items of one DRE together with its subtotals.
type Budget struct {
	roots   []*Item
	nodes   map[string]*Item
	parents map[string]*Item

	subtotals []*Subtotal

	nextItemID     int
	nextSubtotalID int

	notifier Notifier
}

// Option configures a Budget.
type Option func(*Budget)

// WithNotifier routes the budget's notices to n.
func WithNotifier(n Notifier) Option {
	return func(b *Budget) {
		if n != nil {
			b.notifier = n
		}
	}
}

// New returns an empty budget.
func New(opts ...Option) *Budget {
	b := &Budget{
		nodes:          make(map[string]*Item),
		parents:        make(map[string]*Item),
		nextItemID:     1,
		nextSubtotalID: 1,
		notifier:       discardNotifier{},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Items returns the top-level items in display order.
func (b *Budget) Items() []*Item {
	return b.roots
}

// Len returns the number of items in the forest.
func (b *Budget) Len() int {
	return len(b.nodes)
}

// Item returns the item with the given id.
func (b *Budget) Item(id string) (*Item, bool) {
	item, ok := b.nodes[id]
	return item, ok
}

// FindItemAndParent returns the item with the given id and its immediate
// parent. A nil parent means the item is at the top level.
func (b *Budget) FindItemAndParent(id string) (item, parent *Item, ok bool) {
	item, ok = b.nodes[id]
	if !ok {
		return nil, nil, false
	}
	return item, b.parents[id], true
}

// Flatten returns every item depth-first, parents before their children.
func (b *Budget) Flatten() []*Item {
	out := make([]*Item, 0, len(b.nodes))
	b.walk(func(item, _ *Item) {
		out = append(out, item)
	})
	return out
}

func (b *Budget) walk(fn func(item, parent *Item)) {
	for _, root := range b.roots {
		root.walk(fn)
	}
}

func (b *Budget) newItem(code string, isNegative bool) *Item {
	item := &Item{
		ID:         fmt.Sprintf("item-%d", b.nextItemID),
		Code:       code,
		Name:       "Item " + code,
		Type:       TypeFor(isNegative),
		IsExpanded: true,
	}
	b.nextItemID++
	return item
}

// AddRoot appends a new top-level item with zeroed values.
func (b *Budget) AddRoot(isNegative bool) *Item {
	item := b.newItem(b.NextCode(""), isNegative)
	b.roots = append(b.roots, item)
	b.nodes[item.ID] = item
	b.parents[item.ID] = nil
	b.Recalculate()

	b.notify(Notice{
		Kind:        NoticeItemAdded,
		Title:       "Item adicionado",
		Description: fmt.Sprintf("Novo item %q foi adicionado.", item.Name),
	})
	return item
}

// AddChild appends a new item as the last child of parentID and expands the
// parent.
func (b *Budget) AddChild(parentID string, isNegative bool) (*Item, error) {
	parent, ok := b.nodes[parentID]
	if !ok {
		return nil, ErrItemNotFound
	}

	item := b.newItem(b.NextCode(parent.Code), isNegative)
	parent.Children = append(parent.Children, item)
	parent.IsExpanded = true
	b.nodes[item.ID] = item
	b.parents[item.ID] = parent
	b.Recalculate()

	b.notify(Notice{
		Kind:        NoticeItemAdded,
		Title:       "Subitem adicionado",
		Description: fmt.Sprintf("Novo subitem %q foi adicionado.", item.Name),
	})
	return item, nil
}

// Delete removes the item and its whole subtree. The removed ids are pruned
// from every subtotal.
func (b *Budget) Delete(id string) (*Item, error) {
	item, parent, ok := b.FindItemAndParent(id)
	if !ok {
		return nil, ErrItemNotFound
	}

	b.detach(item, parent)

	removed := make(map[string]struct{})
	item.walk(func(n, _ *Item) {
		removed[n.ID] = struct{}{}
		delete(b.nodes, n.ID)
		delete(b.parents, n.ID)
	})
	for _, s := range b.subtotals {
		s.prune(removed)
	}
	b.Recalculate()

	b.notify(Notice{
		Kind:        NoticeItemDeleted,
		Title:       "Item removido",
		Description: fmt.Sprintf("%q foi removido do orçamento.", item.Name),
	})
	return item, nil
}

// detach unlinks item from parent, or from the top level when parent is nil.
// The index entries of the subtree are left untouched. A parent left without
// children becomes editable again and keeps its last derived months, except
// that negative ones are reset to zero.
func (b *Budget) detach(item, parent *Item) {
	if parent == nil {
		b.roots = removeItem(b.roots, item)
		return
	}
	parent.Children = removeItem(parent.Children, item)
	if parent.IsLeaf() {
		parent.Values.clearNegatives()
		parent.Values.sumTotal()
	}
}

func removeItem(items []*Item, target *Item) []*Item {
	out := items[:0]
	for _, it := range items {
		if it != target {
			out = append(out, it)
		}
	}
	// Clear the tail so the removed pointer is not retained.
	for i := len(out); i < len(items); i++ {
		items[i] = nil
	}
	return out
}

// Rename sets the item's name, trimmed of surrounding space.
func (b *Budget) Rename(id, name string) error {
	item, ok := b.nodes[id]
	if !ok {
		return ErrItemNotFound
	}
	item.Name = strings.TrimSpace(name)
	return nil
}

// SetMonthValue stores value for month on a leaf item. A negative value, or
// one outside the ValidAmount bounds, is ignored and reported as not
// applied; it is not an error.
func (b *Budget) SetMonthValue(id string, month Month, value decimal.Decimal) (bool, error) {
	item, ok := b.nodes[id]
	if !ok {
		return false, ErrItemNotFound
	}
	if !month.Valid() {
		return false, ErrInvalidMonth
	}
	if !item.IsLeaf() {
		return false, ErrNotLeaf
	}
	if !ValidAmount(value) {
		return false, nil
	}
	if value.IsZero() {
		value = decimal.Zero
	}

	item.Values.set(month, value)
	item.Values.sumTotal()
	b.Recalculate()
	return true, nil
}

// ToggleExpanded flips the item's display flag.
func (b *Budget) ToggleExpanded(id string) error {
	item, ok := b.nodes[id]
	if !ok {
		return ErrItemNotFound
	}
	item.IsExpanded = !item.IsExpanded
	return nil
}

// ToggleSign switches the item between revenue and expense.
func (b *Budget) ToggleSign(id string) error {
	item, ok := b.nodes[id]
	if !ok {
		return ErrItemNotFound
	}
	item.Type = TypeFor(!item.IsNegative())
	b.Recalculate()
	return nil
}

// Move makes draggedID the last child of targetID. The moved subtree is
// re-coded under the target. Moving an item onto itself is a no-op; moving it
// onto one of its descendants fails with ErrCyclicMove.
func (b *Budget) Move(draggedID, targetID string) error {
	if draggedID == targetID {
		return nil
	}

	dragged, draggedParent, ok := b.FindItemAndParent(draggedID)
	if !ok {
		return ErrItemNotFound
	}
	target, ok := b.nodes[targetID]
	if !ok {
		return ErrItemNotFound
	}

	if dragged.contains(target) {
		b.notify(Notice{
			Kind:        NoticeMoveRejected,
			Title:       "Operação inválida",
			Description: "Não é possível mover um item para um de seus descendentes.",
			Destructive: true,
		})
		return ErrCyclicMove
	}

	b.detach(dragged, draggedParent)

	// The subtree is detached here, so its current codes do not take part in
	// the scan.
	dragged.Code = b.NextCode(target.Code)
	renumberChildren(dragged)

	target.Children = append(target.Children, dragged)
	target.IsExpanded = true
	b.parents[dragged.ID] = target
	b.Recalculate()

	b.notify(Notice{
		Kind:        NoticeItemMoved,
		Title:       "Item movido",
		Description: fmt.Sprintf("%q foi movido para %q.", dragged.Name, target.Name),
	})
	return nil
}

func (b *Budget) notify(n Notice) {
	b.notifier.Notify(n)
}
