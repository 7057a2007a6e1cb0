package dre

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func dec(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func assertDecimal(t *testing.T, what string, got decimal.Decimal, want int64) {
	t.Helper()
	if !got.Equal(dec(want)) {
		t.Errorf("%s: expected %d, got %s", what, want, got)
	}
}

func mustAddChild(t *testing.T, b *Budget, parentID string, isNegative bool) *Item {
	t.Helper()
	item, err := b.AddChild(parentID, isNegative)
	if err != nil {
		t.Fatalf("AddChild(%s): %v", parentID, err)
	}
	return item
}

func mustSet(t *testing.T, b *Budget, id string, m Month, v int64) {
	t.Helper()
	applied, err := b.SetMonthValue(id, m, dec(v))
	if err != nil {
		t.Fatalf("SetMonthValue(%s, %s): %v", id, m, err)
	}
	if !applied {
		t.Fatalf("SetMonthValue(%s, %s, %d) was not applied", id, m, v)
	}
}

// checkForest asserts the structural and arithmetic invariants of the
// budget: every node is reachable exactly once and indexed with its real
// parent, codes extend their parent's code, non-leaf months are the signed
// sum of their children and every total is the sum of its months.
func checkForest(t *testing.T, b *Budget) {
	t.Helper()

	seen := make(map[string]bool)
	b.walk(func(item, parent *Item) {
		if seen[item.ID] {
			t.Fatalf("item %s reachable more than once", item.ID)
		}
		seen[item.ID] = true

		indexed, ok := b.nodes[item.ID]
		if !ok || indexed != item {
			t.Errorf("item %s missing from index", item.ID)
		}
		if got := b.parents[item.ID]; got != parent {
			t.Errorf("item %s indexed under the wrong parent", item.ID)
		}
		if parent != nil && !strings.HasPrefix(item.Code, parent.Code+".") {
			t.Errorf("item %s code %q does not extend parent code %q", item.ID, item.Code, parent.Code)
		}
		if item.IsNegative() != (item.Type == ItemTypeExpense) {
			t.Errorf("item %s sign out of lockstep with type", item.ID)
		}

		sum := decimal.Zero
		for _, m := range Months() {
			sum = sum.Add(item.Values.Get(m))
		}
		if !item.Values.Total().Equal(sum) {
			t.Errorf("item %s total %s, months sum to %s", item.ID, item.Values.Total(), sum)
		}

		if item.IsLeaf() {
			return
		}
		for _, m := range Months() {
			want := decimal.Zero
			for _, c := range item.Children {
				if c.IsNegative() {
					want = want.Sub(c.Values.Get(m))
				} else {
					want = want.Add(c.Values.Get(m))
				}
			}
			if !item.Values.Get(m).Equal(want) {
				t.Errorf("item %s %s: expected %s, got %s", item.ID, m, want, item.Values.Get(m))
			}
		}
	})

	if len(seen) != len(b.nodes) {
		t.Errorf("index holds %d items, forest has %d", len(b.nodes), len(seen))
	}
	if len(b.parents) != len(b.nodes) {
		t.Errorf("parent index holds %d items, node index %d", len(b.parents), len(b.nodes))
	}
}

type recorder struct {
	notices []Notice
}

func (r *recorder) Notify(n Notice) {
	r.notices = append(r.notices, n)
}

func (r *recorder) kinds() []NoticeKind {
	out := make([]NoticeKind, len(r.notices))
	for i, n := range r.notices {
		out[i] = n.Kind
	}
	return out
}
