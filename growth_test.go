package main

import (
	"math"
	"testing"
)

// Growth Model Validation Tests
//
// These tests pin the two growth conventions against standard formulas.
//
// Savings: simple annual interest posted once a year
//   A = P × (1 + r)
// Pensions: daily compounding with a 365-day count
//   daily rate d = (1 + r)^(1/365) - 1, so 365 accruals give A = P × (1 + r)

const growthTolerance = 0.01 // £0.01 tolerance

func assertGrowthEquals(t *testing.T, expected, actual float64, description string) {
	t.Helper()
	if math.Abs(expected-actual) > growthTolerance {
		t.Errorf("%s: expected £%.2f, got £%.2f (diff: £%.2f)",
			description, expected, actual, actual-expected)
	}
}

// =============================================================================
// Savings Interest Tests
// =============================================================================

func TestApplySavingsInterest(t *testing.T) {
	tests := []struct {
		balance          float64
		rate             float64 // percentage
		expectedBalance  float64
		expectedInterest float64
		description      string
	}{
		{1000, 5, 1050, 50, "£1k @ 5%"},
		{100000, 3, 103000, 3000, "£100k @ 3%"},
		{100000, 0, 100000, 0, "£100k @ 0% (no interest)"},
		{50000, 4.5, 52250, 2250, "£50k @ 4.5%"},
		{0, 5, 0, 0, "empty account earns nothing"},
	}

	for _, tc := range tests {
		t.Run(tc.description, func(t *testing.T) {
			newBalance, interest := applySavingsInterest(tc.balance, tc.rate)
			assertGrowthEquals(t, tc.expectedBalance, newBalance, "balance")
			assertGrowthEquals(t, tc.expectedInterest, interest, "interest")
		})
	}
}

// =============================================================================
// Daily Pension Accrual Tests
// =============================================================================

func TestDailyPensionRate_ZeroGrowth(t *testing.T) {
	if rate := dailyPensionRate(0); rate != 0 {
		t.Errorf("0%% annual growth must give a zero daily rate, got %g", rate)
	}
}

// 365 daily accruals must compound back to exactly one year of growth
func TestAccruePensionDay_ConvergesToAnnualRate(t *testing.T) {
	tests := []struct {
		principal   float64
		rate        float64 // percentage
		expected    float64
		description string
	}{
		{10000, 6, 10600, "£10k @ 6%"},
		{100000, 5, 105000, "£100k @ 5%"},
		{250000, 4, 260000, "£250k @ 4%"},
		{100000, 0, 100000, "£100k @ 0%"},
	}

	for _, tc := range tests {
		t.Run(tc.description, func(t *testing.T) {
			pot := tc.principal
			for day := 0; day < 365; day++ {
				pot = accruePensionDay(pot, tc.rate)
			}
			assertGrowthEquals(t, tc.expected, pot, "pot after 365 daily accruals")
		})
	}
}

// Daily compounding over a part year must sit strictly between no growth and
// the full annual rate
func TestAccruePensionDay_PartialYear(t *testing.T) {
	pot := 100000.0
	for day := 0; day < 180; day++ {
		pot = accruePensionDay(pot, 6)
	}
	if pot <= 100000 {
		t.Errorf("180 days of 6%% growth should grow the pot, got £%.2f", pot)
	}
	if pot >= 106000 {
		t.Errorf("180 days of growth must stay below the full annual amount, got £%.2f", pot)
	}
}

// Multi-year daily compounding matches A = P × (1 + r)^n
func TestAccruePensionDay_MultiYear(t *testing.T) {
	pot := 100000.0
	for day := 0; day < 365*10; day++ {
		pot = accruePensionDay(pot, 5)
	}
	expected := 100000 * math.Pow(1.05, 10) // 162889.46
	assertGrowthEquals(t, expected, pot, "£100k @ 5% for 10 years")
}
