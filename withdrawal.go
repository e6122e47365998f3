package main

// Withdrawal planning
//
// Each month the planner settles the gap between the required budget and the
// income already arriving (fixed other income plus state pensions). A positive
// gap is met by drawing from one pot and overflowing into the other; the
// drawdown start date decides which pot is tried first. A shortfall that
// neither pot can cover is a lost-income event, not a debt: nothing carries to
// future months, but the run is marked funds-exhausted from then on.

// monthWithdrawals is the outcome of settling one month
type monthWithdrawals struct {
	FromSavings float64
	FromPension float64
	Exhausted   bool // Neither pot could fully cover this month's demands
}

// drawFrom takes up to amount from the pot, returning the new pot value and
// the amount actually taken.
func drawFrom(pot, amount float64) (newPot, taken float64) {
	if amount <= 0 || pot <= 0 {
		return pot, 0
	}
	if amount >= pot {
		return 0, pot
	}
	return pot - amount, amount
}

// settleShortfall draws a required amount from two pots in order, overflowing
// into the second when the first is insufficient.
func settleShortfall(required float64, first, second float64) (newFirst, newSecond, fromFirst, fromSecond float64, exhausted bool) {
	newFirst, fromFirst = drawFrom(first, required)
	remainder := required - fromFirst
	newSecond, fromSecond = drawFrom(second, remainder)
	exhausted = fromFirst+fromSecond < required-epsilon
	return
}

// epsilon absorbs float64 noise when comparing drawn amounts against demands
const epsilon = 1e-9

// settleMonth applies one month's ad-hoc withdrawals and shortfall to the
// running savings and pension totals.
//
// Ad-hoc withdrawals happen unconditionally, regardless of any shortfall; an
// ad-hoc amount the pot cannot cover drains the pot and marks the run
// exhausted. requiredIncome at or below zero means other income covers the
// budget and no regular withdrawal occurs.
func settleMonth(savings, pension float64, requiredIncome, adHocSavings, adHocPension float64, pensionFirst bool) (newSavings, newPension float64, w monthWithdrawals) {
	newSavings = savings
	newPension = pension

	if adHocSavings > 0 {
		var taken float64
		newSavings, taken = drawFrom(newSavings, adHocSavings)
		w.FromSavings += taken
		if taken < adHocSavings-epsilon {
			w.Exhausted = true
		}
	}
	if adHocPension > 0 {
		var taken float64
		newPension, taken = drawFrom(newPension, adHocPension)
		w.FromPension += taken
		if taken < adHocPension-epsilon {
			w.Exhausted = true
		}
	}

	if requiredIncome > 0 {
		var fromFirst, fromSecond float64
		var exhausted bool
		if pensionFirst {
			newPension, newSavings, fromFirst, fromSecond, exhausted = settleShortfall(requiredIncome, newPension, newSavings)
			w.FromPension += fromFirst
			w.FromSavings += fromSecond
		} else {
			newSavings, newPension, fromFirst, fromSecond, exhausted = settleShortfall(requiredIncome, newSavings, newPension)
			w.FromSavings += fromFirst
			w.FromPension += fromSecond
		}
		if exhausted {
			w.Exhausted = true
		}
	}

	return newSavings, newPension, w
}
