package main

import "time"

// statePensionEntitlement tracks one owner's state pension through a run.
// The yearly entitlement steps once per financial year: the increase takes
// effect in April, but April is a partial payment month, so the first full
// month paid at the new amount is May. The step is therefore applied to the
// running amount on 1 May, which leaves April's contribution at the old
// amount and May onward at the new one.
type statePensionEntitlement struct {
	owner     Owner
	startDate time.Time
	deathDate time.Time
	yearly    float64
}

// newStatePensionEntitlements resolves each owner's entitlement as of the
// scenario start from the ledger's state pension records.
func newStatePensionEntitlements(ledger *Ledger, scenario *Scenario) []*statePensionEntitlement {
	var entitlements []*statePensionEntitlement
	for _, p := range ledger.StatePensions() {
		bounds := scenario.boundsFor(p.Owner)
		if bounds == nil {
			continue
		}
		entitlements = append(entitlements, &statePensionEntitlement{
			owner:     p.Owner,
			startDate: p.StatePensionStart,
			deathDate: bounds.DeathDate(),
			yearly:    balanceAsOf(p.Observations, scenario.StartDate),
		})
	}
	return entitlements
}

// stepIfDue applies the yearly increase when the day is 1 May. The entitlement
// grows whether or not it is in payment yet. yearOffset is the calendar year
// offset from the scenario start.
func (e *statePensionEntitlement) stepIfDue(day time.Time, increase RateSchedule, yearOffset int) {
	if day.Month() == time.May && day.Day() == 1 {
		e.yearly *= 1 + increase.mustForYear(yearOffset)/100
	}
}

// monthlyIncome returns the contribution for the month beginning monthStart:
// one twelfth of the yearly entitlement, zero before the pension's start date
// and zero once the owner has died.
func (e *statePensionEntitlement) monthlyIncome(monthStart time.Time) float64 {
	if monthStart.Before(e.startDate) {
		return 0
	}
	if monthStart.After(e.deathDate) {
		return 0
	}
	return e.yearly / 12
}

// householdStatePensionIncome sums the month's contributions over all owners;
// deceased owners contribute nothing.
func householdStatePensionIncome(entitlements []*statePensionEntitlement, monthStart time.Time) float64 {
	total := 0.0
	for _, e := range entitlements {
		total += e.monthlyIncome(monthStart)
	}
	return total
}
