package testutil

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"drebuilder/internal/dre"
	apperrors "drebuilder/internal/errors"
)

// AssertAppError checks that err is an *AppError with the expected error code.
func AssertAppError(t *testing.T, err error, expectedCode string) {
	t.Helper()

	if err == nil {
		t.Fatalf("expected AppError with code %q, got nil", expectedCode)
	}

	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *AppError, got %T: %v", err, err)
	}

	if appErr.Code != expectedCode {
		t.Errorf("expected error code %q, got %q (message: %s)", expectedCode, appErr.Code, appErr.Message)
	}
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertAmount checks a decimal against a whole amount. Equality ignores
// scale, so 700 and 700.00 match.
func AssertAmount(t *testing.T, got decimal.Decimal, want int64) {
	t.Helper()

	if !got.Equal(decimal.NewFromInt(want)) {
		t.Errorf("expected %d, got %s", want, got)
	}
}

// AssertMonth checks one month of values and that the annual total still
// equals the sum of the months.
func AssertMonth(t *testing.T, values dre.MonthlyValues, month dre.Month, want int64) {
	t.Helper()

	AssertAmount(t, values.Get(month), want)

	sum := decimal.Zero
	for _, m := range dre.Months() {
		sum = sum.Add(values.Get(m))
	}
	if !values.Total().Equal(sum) {
		t.Errorf("total %s does not match month sum %s", values.Total(), sum)
	}
}
