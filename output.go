package main

import (
	"fmt"
	"strings"
	"time"
)

// FormatMoney formats a float as a currency string
func FormatMoney(amount float64) string {
	if amount >= 1000000 {
		return fmt.Sprintf("£%.2fM", amount/1000000)
	}
	if amount >= 1000 {
		return fmt.Sprintf("£%.0fk", amount/1000)
	}
	return fmt.Sprintf("£%.0f", amount)
}

// FormatMoneyFull formats a float as full currency (no abbreviation)
func FormatMoneyFull(amount float64) string {
	return fmt.Sprintf("£%.0f", amount)
}

// PrintHeader prints the household and scenario summary
func PrintHeader(profile HouseholdProfile, ledger *Ledger, scenario Scenario) {
	fmt.Println("╔══════════════════════════════════════════════════════════════════════════════╗")
	fmt.Println("║                    HOUSEHOLD DRAWDOWN FORECAST                               ║")
	fmt.Println("╚══════════════════════════════════════════════════════════════════════════════╝")
	fmt.Println()
	fmt.Printf("Scenario: %s\n", scenario.Name)
	fmt.Println("──────────────")

	printPerson := func(name string, bounds LifeBounds) {
		fmt.Printf("  %s: Born %s, projected to age %d (%s)\n",
			name, bounds.DateOfBirth.Format("2 Jan 2006"), bounds.MaxAge,
			bounds.DeathDate().Format("2 Jan 2006"))
	}
	printPerson(profile.PrimaryName, scenario.Primary)
	if scenario.Partner != nil && profile.HasPartner() {
		printPerson(profile.PartnerName, *scenario.Partner)
	}

	fmt.Println()
	fmt.Printf("  Savings at start:  %s\n", FormatMoney(ledger.SavingsTotalAsOf(scenario.StartDate, nil)))
	pensionTotal := ledger.PrivatePensionTotalAsOf(scenario.StartDate, OwnerPrimary) +
		ledger.PrivatePensionTotalAsOf(scenario.StartDate, OwnerPartner) +
		ledger.PrivatePensionTotalAsOf(scenario.StartDate, OwnerJoint)
	fmt.Printf("  Pensions at start: %s\n", FormatMoney(pensionTotal))
	fmt.Printf("  Budget: %s/month | Other income: %s/month\n",
		FormatMoneyFull(scenario.MonthlyBudget), FormatMoneyFull(scenario.OtherMonthlyIncome))
	fmt.Printf("  Rates: inflation %s | savings %s | pensions %s | state pension %s\n",
		rateSummary(scenario.BudgetInflation), rateSummary(scenario.SavingsInterest),
		rateSummary(scenario.PensionGrowth), rateSummary(scenario.StatePensionIncrease))
	fmt.Printf("  Projection: %s to end of %d\n",
		scenario.StartDate.Format("2 Jan 2006"), scenario.horizonEnd().Year())
	fmt.Println()
}

func rateSummary(rates RateSchedule) string {
	if len(rates) == 1 {
		return fmt.Sprintf("%.2g%%", rates[0])
	}
	return fmt.Sprintf("%.2g%%..%.2g%%", rates[0], rates[len(rates)-1])
}

// PrintForecast prints the year-by-year projection table
func PrintForecast(result ForecastResult) {
	fmt.Printf("%-8s │ %10s %10s %10s │ %10s %10s │ %10s\n",
		"Year", "Savings", "Pensions", "Total", "Budget", "StatePen", "Withdrawn")
	fmt.Println(strings.Repeat("─", 84))

	yearWithdrawn := 0.0
	var lastPrinted *SimulationSample
	for i := range result.Samples {
		sample := result.Samples[i]
		yearWithdrawn += sample.SavingsWithdrawal + sample.PensionWithdrawal
		if sample.Date.Month() != time.January {
			continue
		}
		marker := ""
		if sample.FundsExhausted && (lastPrinted == nil || !lastPrinted.FundsExhausted) {
			marker = "  ← funds exhausted"
		}
		fmt.Printf("%-8d │ %10s %10s %10s │ %10s %10s │ %10s%s\n",
			sample.Date.Year(),
			FormatMoney(sample.Savings), FormatMoney(sample.Pension), FormatMoney(sample.Total),
			FormatMoneyFull(sample.Budget), FormatMoneyFull(sample.StatePensionIncome),
			FormatMoney(yearWithdrawn), marker)
		yearWithdrawn = 0
		lastPrinted = &result.Samples[i]
	}
	fmt.Println(strings.Repeat("─", 84))

	if result.FundsExhausted {
		fmt.Printf("\n⚠ Funds exhausted in %s\n", result.ExhaustedDate.Format("January 2006"))
	} else if len(result.Samples) > 0 {
		final := result.FinalSample()
		fmt.Printf("\nFunds last the whole projection; final household worth %s on %s\n",
			FormatMoney(final.Total), final.Date.Format("2 Jan 2006"))
	}
	if result.EmptyHousehold {
		fmt.Println("Note: no active accounts are included in this projection")
	}
	fmt.Println()
}

// PrintProgress prints predicted versus recorded balances
func PrintProgress(report ProgressReport) {
	fmt.Printf("Progress against scenario %q\n", report.Scenario)
	fmt.Println(strings.Repeat("─", 62))
	fmt.Printf("%-12s │ %12s %12s %12s\n", "Month", "Predicted", "Actual", "Delta")

	printPoints := func(label string, points []ProgressPoint) {
		fmt.Printf("%s:\n", label)
		shown := 0
		for _, point := range points {
			if !point.Actual.Valid {
				continue
			}
			delta := point.Actual.Value - point.Predicted
			fmt.Printf("%-12s │ %12s %12s %+12.0f\n",
				point.Date.Format("Jan 2006"),
				FormatMoneyFull(point.Predicted), FormatMoneyFull(point.Actual.Value), delta)
			shown++
		}
		if shown == 0 {
			fmt.Println("  (no recorded balances in the projection window)")
		}
	}
	printPoints("Savings", report.Savings)
	printPoints("Pensions", report.Pensions)

	if report.SavingsTracking.Points > 0 {
		fmt.Printf("\nSavings tracking: mean error %+.0f, std dev %.0f over %d months\n",
			report.SavingsTracking.MeanError, report.SavingsTracking.StdDev, report.SavingsTracking.Points)
	}
	if report.PensionTracking.Points > 0 {
		fmt.Printf("Pension tracking: mean error %+.0f, std dev %.0f over %d months\n",
			report.PensionTracking.MeanError, report.PensionTracking.StdDev, report.PensionTracking.Points)
	}
	fmt.Println()
}
