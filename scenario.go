package main

import (
	"sort"
	"time"
)

// boundsFor returns the life bounds applying to an owner's accounts, or nil
// when no bounds apply (a partner-owned account without partner bounds, or a
// joint account, which is not tied to a single life).
func (s *Scenario) boundsFor(o Owner) *LifeBounds {
	switch o {
	case OwnerPrimary:
		return &s.Primary
	case OwnerPartner:
		return s.Partner
	default:
		return nil
	}
}

// horizonEnd computes the projection end date: the latest owner death,
// truncated to 31 December of the last plot year.
func (s *Scenario) horizonEnd() time.Time {
	end := s.Primary.DeathDate()
	if s.Partner != nil {
		if d := s.Partner.DeathDate(); d.After(end) {
			end = d
		}
	}
	plotEnd := time.Date(s.LastPlotYear, time.December, 31, 0, 0, 0, 0, time.UTC)
	if plotEnd.Before(end) {
		end = plotEnd
	}
	return end
}

// Validate checks the scenario against the household profile. Every problem
// it can detect is reported before a run produces any output.
func (s *Scenario) Validate(profile HouseholdProfile) error {
	if s.StartDate.IsZero() {
		return invalidScenario("start date", "required")
	}
	if s.Primary.DateOfBirth.IsZero() {
		return invalidScenario("primary date of birth", "required")
	}
	if s.Primary.MaxAge <= 0 {
		return invalidScenario("primary max age", "must be greater than zero")
	}
	if profile.HasPartner() && s.Partner == nil {
		return invalidScenario("partner", "household has a partner but the scenario has no partner bounds")
	}
	if s.Partner != nil {
		if s.Partner.DateOfBirth.IsZero() {
			return invalidScenario("partner date of birth", "required")
		}
		if s.Partner.MaxAge <= 0 {
			return invalidScenario("partner max age", "must be greater than zero")
		}
	}
	if s.DrawdownStart != nil && s.DrawdownStart.Before(s.StartDate) {
		return invalidScenario("drawdown start date", "precedes the scenario start date")
	}
	if s.LastPlotYear < s.StartDate.Year() {
		return invalidScenario("last year to plot", "precedes the scenario start year")
	}
	if s.MonthlyBudget < 0 {
		return invalidScenario("monthly budget", "must not be negative")
	}
	rateLists := []struct {
		name  string
		rates RateSchedule
	}{
		{"budget inflation rates", s.BudgetInflation},
		{"savings interest rates", s.SavingsInterest},
		{"pension growth rates", s.PensionGrowth},
		{"state pension increase rates", s.StatePensionIncrease},
	}
	for _, rl := range rateLists {
		if len(rl.rates) == 0 {
			return invalidScenario(rl.name, "rate list is empty")
		}
	}
	return nil
}

// normalize sorts the ad-hoc withdrawal tables by date. Called once at
// construction so the simulation can rely on ordering.
func (s *Scenario) normalize() {
	sort.Slice(s.SavingsWithdrawals, func(i, j int) bool {
		return s.SavingsWithdrawals[i].Date.Before(s.SavingsWithdrawals[j].Date)
	})
	sort.Slice(s.PensionWithdrawals, func(i, j int) bool {
		return s.PensionWithdrawals[i].Date.Before(s.PensionWithdrawals[j].Date)
	})
}

// pensionFirstAt reports whether the drawdown start date has been reached, at
// which point monthly shortfalls draw from pensions before savings.
func (s *Scenario) pensionFirstAt(date time.Time) bool {
	return s.DrawdownStart != nil && !date.Before(*s.DrawdownStart)
}

// adHocAmountDue sums the withdrawals scheduled within the month of monthStart
func adHocAmountDue(table []Observation, monthStart time.Time) float64 {
	total := 0.0
	for _, row := range table {
		if row.Date.Year() == monthStart.Year() && row.Date.Month() == monthStart.Month() {
			total += row.Amount
		}
	}
	return total
}
