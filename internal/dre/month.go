package dre

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// Month is a calendar month in budget order, January first.
type Month int

const (
	January Month = iota
	February
	March
	April
	May
	June
	July
	August
	September
	October
	November
	December
)

// MonthCount is the number of months in a budget year.
const MonthCount = 12

var monthKeys = [MonthCount]string{
	"Jan", "Feb", "Mar", "Apr", "May", "Jun",
	"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
}

// totalKey is the JSON key carrying the annual total next to the month keys.
const totalKey = "total"

// Months returns the 12 months in budget order.
func Months() []Month {
	out := make([]Month, MonthCount)
	for i := range out {
		out[i] = Month(i)
	}
	return out
}

// MonthKeys returns the 12 month labels in budget order.
func MonthKeys() []string {
	out := make([]string, MonthCount)
	copy(out, monthKeys[:])
	return out
}

// ParseMonth resolves a month label such as "Jan".
func ParseMonth(key string) (Month, bool) {
	for i, k := range monthKeys {
		if k == key {
			return Month(i), true
		}
	}
	return 0, false
}

// Valid reports whether m is one of the 12 months.
func (m Month) Valid() bool {
	return m >= January && m <= December
}

// String returns the month label.
func (m Month) String() string {
	if !m.Valid() {
		return fmt.Sprintf("Month(%d)", int(m))
	}
	return monthKeys[m]
}

// MonthlyValues holds one amount per month plus their sum.
type MonthlyValues struct {
	months [MonthCount]decimal.Decimal
	total  decimal.Decimal
}

// Get returns the amount for m.
func (v MonthlyValues) Get(m Month) decimal.Decimal {
	if !m.Valid() {
		return decimal.Zero
	}
	return v.months[m]
}

// Total returns the annual total.
func (v MonthlyValues) Total() decimal.Decimal {
	return v.total
}

// Bounds on a user-entered amount: at most MaxAmountDigits digits before the
// decimal point and MaxAmountScale after it.
const (
	MaxAmountDigits = 15
	MaxAmountScale  = 6
)

// ValidAmount reports whether v is a non-negative amount within the entry
// bounds. It only inspects the coefficient and exponent, so an input such as
// 1e2000000000 is rejected without being expanded.
func ValidAmount(v decimal.Decimal) bool {
	if v.IsNegative() {
		return false
	}
	if v.IsZero() {
		return true
	}
	exp := v.Exponent()
	if exp < -MaxAmountScale || exp > MaxAmountDigits {
		return false
	}
	return v.NumDigits()+int(exp) <= MaxAmountDigits
}

// set stores the amount for m without touching the total.
func (v *MonthlyValues) set(m Month, amount decimal.Decimal) {
	v.months[m] = amount
}

// sumTotal recomputes the total from the 12 month amounts.
func (v *MonthlyValues) sumTotal() {
	total := decimal.Zero
	for _, amount := range v.months {
		total = total.Add(amount)
	}
	v.total = total
}

// clearNegatives zeroes every month below zero.
func (v *MonthlyValues) clearNegatives() {
	for i, amount := range v.months {
		if amount.IsNegative() {
			v.months[i] = decimal.Zero
		}
	}
}

// Equal reports whether both value sets hold the same amounts.
func (v MonthlyValues) Equal(other MonthlyValues) bool {
	for i := range v.months {
		if !v.months[i].Equal(other.months[i]) {
			return false
		}
	}
	return v.total.Equal(other.total)
}

// MarshalJSON renders the values as an object keyed by month label, in
// calendar order, with the annual total last.
func (v MonthlyValues) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range monthKeys {
		if err := writeEntry(&buf, key, v.months[i]); err != nil {
			return nil, err
		}
		buf.WriteByte(',')
	}
	if err := writeEntry(&buf, totalKey, v.total); err != nil {
		return nil, err
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeEntry(buf *bytes.Buffer, key string, amount decimal.Decimal) error {
	k, err := json.Marshal(key)
	if err != nil {
		return err
	}
	a, err := amount.MarshalJSON()
	if err != nil {
		return err
	}
	buf.Write(k)
	buf.WriteByte(':')
	buf.Write(a)
	return nil
}

// UnmarshalJSON accepts the object written by MarshalJSON. Unknown keys are
// rejected and the total is always recomputed from the months.
func (v *MonthlyValues) UnmarshalJSON(data []byte) error {
	var raw map[string]decimal.Decimal
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	var out MonthlyValues
	for key, amount := range raw {
		if key == totalKey {
			continue
		}
		m, ok := ParseMonth(key)
		if !ok {
			return fmt.Errorf("unknown month key %q", key)
		}
		out.months[m] = amount
	}
	out.sumTotal()
	*v = out
	return nil
}
