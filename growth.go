package main

import "math"

// Growth conventions
//
// Pension pots accrue daily: the scenario's annual growth percentage for the
// current calendar year is converted to a daily rate with a 365-day count
// (leap days use the same rate; the convergence test pins this convention).
// Savings earn interest once per year, posted on 1 January on the closing
// balance of the prior year. Growth is always applied before the same day's
// withdrawals are subtracted: interest is earned on the year's opening
// balance, and a pension keeps growing even while being drawn.

// dailyPensionRate converts an annual percentage to the equivalent
// compounding daily rate: (1 + r)^(1/365) - 1
func dailyPensionRate(annualPercent float64) float64 {
	return math.Pow(1+annualPercent/100, 1.0/365) - 1
}

// accruePensionDay advances a pension pot by one day of growth
func accruePensionDay(pot float64, annualPercent float64) float64 {
	return pot * (1 + dailyPensionRate(annualPercent))
}

// applySavingsInterest posts a full year of interest on the savings balance,
// returning the new balance and the interest earned.
func applySavingsInterest(balance float64, annualPercent float64) (newBalance, interest float64) {
	interest = balance * annualPercent / 100
	return balance + interest, interest
}
