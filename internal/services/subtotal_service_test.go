package services

import (
	"testing"

	"drebuilder/internal/dre"
	"drebuilder/internal/testutil"
)

// seedStatement builds a revenue group whose only child has 1000 in January
// and a top-level expense with 300 in January.
func seedStatement(t *testing.T, svc BudgetServicer, sid string) (revenue, sales, expenses *dre.Item) {
	t.Helper()

	revenue, err := svc.AddRootItem(sid, dre.ItemTypeRevenue)
	testutil.AssertNoError(t, err)
	sales, err = svc.AddChildItem(sid, revenue.ID, dre.ItemTypeRevenue)
	testutil.AssertNoError(t, err)
	expenses, err = svc.AddRootItem(sid, dre.ItemTypeExpense)
	testutil.AssertNoError(t, err)

	if _, err := svc.SetItemValue(sid, sales.ID, "Jan", "1000"); err != nil {
		t.Fatalf("set sales: %v", err)
	}
	if _, err := svc.SetItemValue(sid, expenses.ID, "Jan", "300"); err != nil {
		t.Fatalf("set expenses: %v", err)
	}
	return revenue, sales, expenses
}

func TestCreateSubtotal(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		svc, sid := newBudgetService(t)
		revenue, _, expenses := seedStatement(t, svc, sid)

		st, err := svc.CreateSubtotal(sid, " Lucro ", []string{revenue.ID, expenses.ID})
		testutil.AssertNoError(t, err)

		if st.ID != "subtotal-1" || st.Name != "Lucro" || !st.IsVisible {
			t.Errorf("unexpected subtotal %+v", st.Subtotal)
		}
		testutil.AssertMonth(t, st.Values, dre.January, 700)
		testutil.AssertAmount(t, st.Values.Total(), 700)
	})

	tests := []struct {
		name string
		sub  string
		ids  []string
		code string
	}{
		{name: "empty_name", sub: "  ", ids: []string{"item-1"}, code: "INVALID_SUBTOTAL"},
		{name: "no_items", sub: "X", ids: nil, code: "INVALID_SUBTOTAL"},
		{name: "unknown_item", sub: "X", ids: []string{"item-1", "item-404"}, code: "ITEM_NOT_FOUND"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc, sid := newBudgetService(t)
			seedStatement(t, svc, sid)
			_, err := svc.CreateSubtotal(sid, tc.sub, tc.ids)
			testutil.AssertAppError(t, err, tc.code)

			all, _ := svc.GetSubtotals(sid)
			if len(all) != 0 {
				t.Errorf("expected no subtotal to be created, got %d", len(all))
			}
		})
	}
}

func TestCalculateSubtotal(t *testing.T) {
	svc, sid := newBudgetService(t)
	_, sales, expenses := seedStatement(t, svc, sid)
	st, err := svc.CreateSubtotal(sid, "Margem", []string{sales.ID, expenses.ID})
	testutil.AssertNoError(t, err)

	t.Run("month", func(t *testing.T) {
		amount, err := svc.CalculateSubtotal(sid, st.ID, "Jan")
		testutil.AssertNoError(t, err)
		if amount.Month != "Jan" {
			t.Errorf("expected Jan, got %q", amount.Month)
		}
		testutil.AssertAmount(t, amount.Value, 700)
	})

	t.Run("empty_month", func(t *testing.T) {
		amount, err := svc.CalculateSubtotal(sid, st.ID, "Feb")
		testutil.AssertNoError(t, err)
		testutil.AssertAmount(t, amount.Value, 0)
	})

	t.Run("year", func(t *testing.T) {
		amount, err := svc.CalculateSubtotal(sid, st.ID, "")
		testutil.AssertNoError(t, err)
		if amount.Month != "" {
			t.Errorf("expected no month, got %q", amount.Month)
		}
		testutil.AssertAmount(t, amount.Value, 700)
	})

	t.Run("invalid_month", func(t *testing.T) {
		_, err := svc.CalculateSubtotal(sid, st.ID, "Janeiro")
		testutil.AssertAppError(t, err, "INVALID_MONTH")
	})

	t.Run("unknown_subtotal", func(t *testing.T) {
		_, err := svc.CalculateSubtotal(sid, "subtotal-9", "Jan")
		testutil.AssertAppError(t, err, "SUBTOTAL_NOT_FOUND")
	})
}

func TestSubtotalTracksEdits(t *testing.T) {
	svc, sid := newBudgetService(t)
	revenue, sales, expenses := seedStatement(t, svc, sid)
	st, _ := svc.CreateSubtotal(sid, "Resultado", []string{revenue.ID, expenses.ID})

	if _, err := svc.SetItemValue(sid, sales.ID, "Jan", "1500"); err != nil {
		t.Fatalf("set sales: %v", err)
	}

	got, err := svc.GetSubtotal(sid, st.ID)
	testutil.AssertNoError(t, err)
	testutil.AssertMonth(t, got.Values, dre.January, 1200)

	totals, _ := svc.GetTotals(sid)
	if !got.Values.Equal(*totals) {
		t.Error("a subtotal over every root should equal the grand total")
	}
}

func TestToggleSubtotalVisibility(t *testing.T) {
	svc, sid := newBudgetService(t)
	revenue, _, _ := seedStatement(t, svc, sid)
	st, _ := svc.CreateSubtotal(sid, "Receita", []string{revenue.ID})

	toggled, err := svc.ToggleSubtotalVisibility(sid, st.ID)
	testutil.AssertNoError(t, err)
	if toggled.IsVisible {
		t.Error("expected the subtotal to be hidden")
	}
	testutil.AssertMonth(t, toggled.Values, dre.January, 1000)

	_, err = svc.ToggleSubtotalVisibility(sid, "subtotal-5")
	testutil.AssertAppError(t, err, "SUBTOTAL_NOT_FOUND")
}

func TestDeleteSubtotal(t *testing.T) {
	svc, sid := newBudgetService(t)
	revenue, _, _ := seedStatement(t, svc, sid)
	st, _ := svc.CreateSubtotal(sid, "Receita", []string{revenue.ID})

	testutil.AssertNoError(t, svc.DeleteSubtotal(sid, st.ID))

	_, err := svc.GetSubtotal(sid, st.ID)
	testutil.AssertAppError(t, err, "SUBTOTAL_NOT_FOUND")
	testutil.AssertAppError(t, svc.DeleteSubtotal(sid, st.ID), "SUBTOTAL_NOT_FOUND")

	view, _ := svc.GetBudget(sid)
	if len(view.Items) != 2 {
		t.Errorf("deleting a subtotal must not touch items, got %d roots", len(view.Items))
	}
}
