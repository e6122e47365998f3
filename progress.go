package main

import (
	"time"

	"gonum.org/v1/gonum/stat"
)

// Progress comparison
//
// The comparator is a read-only join of the predicted sample series against
// what was actually recorded: ledger observations for savings and pensions,
// and the spending records kept outside the engine. It never fabricates an
// actual value — a month with no recorded observation carries an explicit
// no-data marker, never zero and never an interpolation.

// ActualValue is a recorded value that may be absent for a given month
type ActualValue struct {
	Value float64 `json:"value"`
	Valid bool    `json:"valid"`
}

// ProgressPoint pairs one month's prediction with the recorded reality
type ProgressPoint struct {
	Date      time.Time   `json:"date"`
	Predicted float64     `json:"predicted"`
	Actual    ActualValue `json:"actual"`
}

// TrackingSummary describes how far reality has drifted from the prediction
// over the months that have actual data.
type TrackingSummary struct {
	Points    int     `json:"points"`     // Months with actual data
	MeanError float64 `json:"mean_error"` // Mean of actual - predicted
	StdDev    float64 `json:"std_dev"`    // Spread of the drift
}

// ProgressReport holds the predicted-vs-actual series for each tracked metric
type ProgressReport struct {
	Scenario        string          `json:"scenario"`
	Savings         []ProgressPoint `json:"savings"`
	Pensions        []ProgressPoint `json:"pensions"`
	Spending        []ProgressPoint `json:"spending"`
	SavingsTracking TrackingSummary `json:"savings_tracking"`
	PensionTracking TrackingSummary `json:"pension_tracking"`
}

// BuildProgress joins a forecast's samples with the ledger's recorded
// observations and the household's actual monthly spending records.
//
// now bounds the overlay: months after it cannot have actuals yet and are
// included as predictions only. With thisYearOnly set, the report is
// truncated to the calendar year of now (the original "progress this year"
// view). now is an explicit input so runs stay replayable.
func BuildProgress(result ForecastResult, ledger *Ledger, spending []Observation, now time.Time, thisYearOnly bool) ProgressReport {
	report := ProgressReport{Scenario: result.Scenario}

	savingsTables := make([][]Observation, 0, len(ledger.Savings))
	for _, a := range ledger.Savings {
		if a.Active && a.IncludeInNetWorth {
			savingsTables = append(savingsTables, a.Observations)
		}
	}
	pensionTables := make([][]Observation, 0, len(ledger.Pensions))
	for _, p := range ledger.Pensions {
		if p.Kind == PrivatePension {
			pensionTables = append(pensionTables, p.Observations)
		}
	}

	for _, sample := range result.Samples {
		if thisYearOnly && sample.Date.Year() > now.Year() {
			break
		}

		report.Savings = append(report.Savings, ProgressPoint{
			Date:      sample.Date,
			Predicted: sample.Savings,
			Actual:    actualTotal(savingsTables, sample.Date, now, func(d time.Time) float64 { return ledger.SavingsTotalAsOf(d, nil) }),
		})
		report.Pensions = append(report.Pensions, ProgressPoint{
			Date:      sample.Date,
			Predicted: sample.Pension,
			Actual:    actualTotal(pensionTables, sample.Date, now, func(d time.Time) float64 { return privatePensionTotal(ledger, d) }),
		})
		report.Spending = append(report.Spending, ProgressPoint{
			Date:      sample.Date,
			Predicted: sample.Budget,
			Actual:    actualSpend(spending, sample.Date, now),
		})
	}

	report.SavingsTracking = summarizeTracking(report.Savings)
	report.PensionTracking = summarizeTracking(report.Pensions)
	return report
}

// actualTotal resolves the recorded total for a sample's month. A value
// exists only when at least one account carries an observation dated inside
// that month and the month is not in the future; the total is then taken as
// of the latest such observation date.
func actualTotal(tables [][]Observation, monthStart, now time.Time, totalAsOf func(time.Time) float64) ActualValue {
	if monthStart.After(now) {
		return ActualValue{}
	}
	at, ok := latestObservationInMonth(tables, monthStart.Year(), monthStart.Month())
	if !ok {
		return ActualValue{}
	}
	return ActualValue{Value: totalAsOf(at), Valid: true}
}

// actualSpend sums the spending records dated inside the sample's month
func actualSpend(spending []Observation, monthStart, now time.Time) ActualValue {
	if monthStart.After(now) {
		return ActualValue{}
	}
	total := 0.0
	found := false
	for _, rec := range spending {
		if rec.Date.Year() == monthStart.Year() && rec.Date.Month() == monthStart.Month() {
			total += rec.Amount
			found = true
		}
	}
	if !found {
		return ActualValue{}
	}
	return ActualValue{Value: total, Valid: true}
}

func privatePensionTotal(ledger *Ledger, date time.Time) float64 {
	total := 0.0
	for _, p := range ledger.Pensions {
		if p.Kind == PrivatePension {
			total += balanceAsOf(p.Observations, date)
		}
	}
	return total
}

// summarizeTracking computes the drift statistics over months with actuals
func summarizeTracking(points []ProgressPoint) TrackingSummary {
	var errors []float64
	for _, p := range points {
		if p.Actual.Valid {
			errors = append(errors, p.Actual.Value-p.Predicted)
		}
	}
	summary := TrackingSummary{Points: len(errors)}
	if len(errors) > 0 {
		summary.MeanError = stat.Mean(errors, nil)
	}
	if len(errors) > 1 {
		summary.StdDev = stat.StdDev(errors, nil)
	}
	return summary
}
