package services

import (
	"github.com/shopspring/decimal"

	"drebuilder/internal/dre"
)

// Report row kinds.
const (
	ReportRowItem     = "item"
	ReportRowSubtotal = "subtotal"
	ReportRowTotal    = "total"
)

// ReportRow is one formatted line of a budget report. Values is aligned with
// Report.Months.
type ReportRow struct {
	Kind   string       `json:"kind"`
	Level  int          `json:"level"`
	Code   string       `json:"code,omitempty"`
	Name   string       `json:"name"`
	Type   dre.ItemType `json:"type,omitempty"`
	Values []string     `json:"values"`
	Total  string       `json:"total"`
}

// Report is the budget rendered for display: every item in tree order, then
// the visible subtotals, then the grand total.
type Report struct {
	Currency string      `json:"currency"`
	Months   []string    `json:"months"`
	Rows     []ReportRow `json:"rows"`
}

// GetReport renders the session's budget in the configured currency. Item
// rows carry the amounts as entered; subtotal and total rows are signed.
func (s *budgetService) GetReport(sessionID string) (*Report, error) {
	var report *Report
	err := s.sessions.WithBudget(sessionID, func(b *dre.Budget) error {
		report = s.buildReport(b)
		return nil
	})
	if err != nil {
		return nil, mapBudgetError(err)
	}
	return report, nil
}

func (s *budgetService) buildReport(b *dre.Budget) *Report {
	report := &Report{
		Currency: s.currency.Code(),
		Months:   dre.MonthKeys(),
		Rows:     make([]ReportRow, 0, b.Len()+len(b.Subtotals())+1),
	}

	var addItem func(item *dre.Item, level int)
	addItem = func(item *dre.Item, level int) {
		row := s.formatRow(item.Values)
		row.Kind = ReportRowItem
		row.Level = level
		row.Code = item.Code
		row.Name = item.Name
		row.Type = item.Type
		report.Rows = append(report.Rows, row)
		for _, child := range item.Children {
			addItem(child, level+1)
		}
	}
	for _, root := range b.Items() {
		addItem(root, 0)
	}

	for _, st := range b.Subtotals() {
		if !st.IsVisible {
			continue
		}
		row := s.formatRow(b.SubtotalValues(st))
		row.Kind = ReportRowSubtotal
		row.Name = st.Name
		report.Rows = append(report.Rows, row)
	}

	total := s.formatRow(b.BudgetTotals())
	total.Kind = ReportRowTotal
	total.Name = "Total"
	report.Rows = append(report.Rows, total)

	return report
}

func (s *budgetService) formatRow(values dre.MonthlyValues) ReportRow {
	row := ReportRow{Values: make([]string, 0, dre.MonthCount)}
	for _, m := range dre.Months() {
		row.Values = append(row.Values, s.format(values.Get(m)))
	}
	row.Total = s.format(values.Total())
	return row
}

func (s *budgetService) format(amount decimal.Decimal) string {
	return s.currency.Format(amount)
}
