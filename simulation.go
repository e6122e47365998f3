package main

import (
	"time"
)

// The simulation loop steps through calendar days from the scenario start to
// the horizon end (the latest owner death, truncated by the last plot year).
// Days drive growth only; the observable output granularity is monthly: on
// the 1st of each month the withdrawal planner and the state pension model
// run and one sample is appended. The loop is a pure batch computation — the
// same scenario and ledger snapshot always produce an identical sample
// sequence.

// pensionPots tracks the running private pension totals per owner. Indexing
// by Owner keeps iteration deterministic.
type pensionPots [3]float64

func (p *pensionPots) total() float64 {
	return p[OwnerPrimary] + p[OwnerPartner] + p[OwnerJoint]
}

// deduct removes an amount from the pots in fixed owner order
func (p *pensionPots) deduct(amount float64) {
	for _, owner := range []Owner{OwnerPrimary, OwnerPartner, OwnerJoint} {
		if amount <= 0 {
			return
		}
		taken := amount
		if pot := p[owner]; pot < taken {
			taken = pot
		}
		p[owner] -= taken
		amount -= taken
	}
}

// accrue applies one day of growth to every pot
func (p *pensionPots) accrue(annualPercent float64) {
	factor := 1 + dailyPensionRate(annualPercent)
	for i := range p {
		p[i] *= factor
	}
}

// RunForecast validates the inputs and executes one scenario against a ledger
// snapshot, producing the monthly sample series. All validation failures are
// reported before any sample exists; no partial output is ever returned.
func RunForecast(scenario Scenario, ledger *Ledger, profile HouseholdProfile) (ForecastResult, error) {
	scenario.normalize()
	if err := scenario.Validate(profile); err != nil {
		return ForecastResult{}, err
	}
	if err := ledger.Validate(); err != nil {
		return ForecastResult{}, err
	}
	if scenario.Partner == nil {
		for _, p := range ledger.Pensions {
			if p.Owner == OwnerPartner {
				return ForecastResult{}, invalidScenario("partner",
					"ledger has partner-owned pension %q but the scenario has no partner", p.Name)
			}
		}
	}

	result := ForecastResult{
		Scenario:       scenario.Name,
		EmptyHousehold: !ledger.HasIncludedAccounts(),
	}

	start := dateOnly(scenario.StartDate)
	end := dateOnly(scenario.horizonEnd())

	// Running state, seeded from the ledger snapshot at the start date. From
	// here on the model tracks accrued value internally; the ledger only
	// supplies starting values.
	savings := ledger.SavingsTotalAsOf(start, nil)
	var pots pensionPots
	for _, owner := range []Owner{OwnerPrimary, OwnerPartner, OwnerJoint} {
		pots[owner] = ledger.PrivatePensionTotalAsOf(start, owner)
	}
	entitlements := newStatePensionEntitlements(ledger, &scenario)
	currentBudget := scenario.MonthlyBudget
	fundsExhausted := false
	interestThisStep := 0.0
	deathHandled := [2]bool{}

	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		if day.Equal(start) {
			result.Samples = append(result.Samples, SimulationSample{
				Date:               day,
				Savings:            savings,
				Pension:            pots.total(),
				Total:              savings + pots.total(),
				StatePensionIncome: householdStatePensionIncome(entitlements, day),
				Budget:             currentBudget,
			})
			continue
		}

		yearOffset := day.Year() - start.Year()

		// Deaths take effect the day after dateOfBirth + maxAge: the pot
		// stops growing and is transferred or excluded before anything else
		// happens that day.
		for _, owner := range []Owner{OwnerPrimary, OwnerPartner} {
			bounds := scenario.boundsFor(owner)
			if bounds == nil || deathHandled[owner] || !day.After(bounds.DeathDate()) {
				continue
			}
			deathHandled[owner] = true
			switch {
			case scenario.Partner == nil:
				// No heir within this model: the pot is excluded from totals
				pots[owner] = 0
			case bounds.DeathDate().Before(bounds.Age75()):
				// Death before 75: the pot passes to the survivor's savings
				// as a lump sum
				savings += pots[owner]
				pots[owner] = 0
			default:
				// Death at 75 or later: the pot stays invested as the
				// survivor's inherited drawdown fund
				pots[survivorOf(owner)] += pots[owner]
				pots[owner] = 0
			}
		}

		pots.accrue(scenario.PensionGrowth.mustForYear(yearOffset))

		if day.Month() == time.January && day.Day() == 1 {
			// Interest for the completed year, posted on the year's opening
			// balance before any withdrawal this day
			savings, interestThisStep = applySavingsInterest(savings, scenario.SavingsInterest.mustForYear(yearOffset-1))
			currentBudget *= 1 + scenario.BudgetInflation.mustForYear(yearOffset-1)/100
		}

		if day.Day() != 1 {
			continue
		}

		// Month boundary: state pension step and contribution, then the
		// withdrawal planner, then one sample.
		for _, e := range entitlements {
			e.stepIfDue(day, scenario.StatePensionIncrease, yearOffset)
		}
		spIncome := householdStatePensionIncome(entitlements, day)
		required := currentBudget - scenario.OtherMonthlyIncome - spIncome

		adHocSavings := adHocAmountDue(scenario.SavingsWithdrawals, day)
		adHocPension := adHocAmountDue(scenario.PensionWithdrawals, day)

		pensionBefore := pots.total()
		newSavings, newPension, w := settleMonth(savings, pensionBefore, required,
			adHocSavings, adHocPension, scenario.pensionFirstAt(day))
		savings = newSavings
		pots.deduct(pensionBefore - newPension)

		if w.Exhausted && !fundsExhausted {
			fundsExhausted = true
			result.ExhaustedDate = day
		}

		result.Samples = append(result.Samples, SimulationSample{
			Date:               day,
			Savings:            savings,
			Pension:            pots.total(),
			Total:              savings + pots.total(),
			StatePensionIncome: spIncome,
			Budget:             currentBudget,
			SavingsInterest:    interestThisStep,
			SavingsWithdrawal:  w.FromSavings,
			PensionWithdrawal:  w.FromPension,
			FundsExhausted:     fundsExhausted,
		})
		interestThisStep = 0
	}

	result.FundsExhausted = fundsExhausted
	return result, nil
}

// survivorOf returns the other member of the couple
func survivorOf(o Owner) Owner {
	if o == OwnerPrimary {
		return OwnerPartner
	}
	return OwnerPrimary
}

// dateOnly strips any time-of-day component, normalizing to midnight UTC
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
