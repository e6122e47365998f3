package main

import (
	"time"
)

// Ledger is a read-only snapshot of every account and its recorded
// observations. The engine never mutates it; the data-entry layer owns the
// underlying records.
type Ledger struct {
	Savings  []SavingsAccount
	Pensions []PensionAccount
}

// balanceAsOf returns the value of the latest observation dated at or before
// the query date. With no observation at or before the date the account is
// treated as not yet holding funds and zero is returned; values are never
// extrapolated backward.
func balanceAsOf(observations []Observation, date time.Time) float64 {
	value := 0.0
	for _, obs := range observations {
		if obs.Date.After(date) {
			break
		}
		value = obs.Amount
	}
	return value
}

// includedIn reports whether the account counts toward household totals
func (a SavingsAccount) includedIn(filter *Owner) bool {
	if !a.Active || !a.IncludeInNetWorth {
		return false
	}
	return filter == nil || a.Owner == *filter
}

// SavingsTotalAsOf sums the balances of all active, net-worth-included
// savings accounts as of a date. A non-nil owner filter restricts the total
// to that owner's accounts (used when splitting post-death attribution).
func (l *Ledger) SavingsTotalAsOf(date time.Time, filter *Owner) float64 {
	total := 0.0
	for _, acct := range l.Savings {
		if acct.includedIn(filter) {
			total += balanceAsOf(acct.Observations, date)
		}
	}
	return total
}

// PrivatePensionTotalAsOf sums one owner's private pension pots as of a date
func (l *Ledger) PrivatePensionTotalAsOf(date time.Time, owner Owner) float64 {
	total := 0.0
	for _, p := range l.Pensions {
		if p.Kind == PrivatePension && p.Owner == owner {
			total += balanceAsOf(p.Observations, date)
		}
	}
	return total
}

// StatePensions returns the state pension entitlement records, one per owner
// holding one. The entitlement amount is resolved per owner at the start of a
// run via balanceAsOf.
func (l *Ledger) StatePensions() []PensionAccount {
	var out []PensionAccount
	for _, p := range l.Pensions {
		if p.Kind == StatePension {
			out = append(out, p)
		}
	}
	return out
}

// HasIncludedAccounts reports whether any account counts toward net worth.
// A household with none is simulated as all zeros rather than rejected.
func (l *Ledger) HasIncludedAccounts() bool {
	for _, a := range l.Savings {
		if a.Active && a.IncludeInNetWorth {
			return true
		}
	}
	return len(l.Pensions) > 0
}

// latestObservationInMonth finds the most recent observation date within the
// given month across a set of observation tables, for the progress overlay.
func latestObservationInMonth(tables [][]Observation, year int, month time.Month) (time.Time, bool) {
	var latest time.Time
	found := false
	for _, table := range tables {
		for _, obs := range table {
			if obs.Date.Year() == year && obs.Date.Month() == month {
				if !found || obs.Date.After(latest) {
					latest = obs.Date
					found = true
				}
			}
		}
	}
	return latest, found
}

// Validate checks every account's observation history. Dates must be strictly
// increasing, nothing may precede the open date, and state pensions must carry
// a start date.
func (l *Ledger) Validate() error {
	for _, acct := range l.Savings {
		if err := validateObservations(acct.Name, acct.Observations, acct.OpenDate); err != nil {
			return err
		}
	}
	for _, p := range l.Pensions {
		if err := validateObservations(p.Name, p.Observations, time.Time{}); err != nil {
			return err
		}
		if p.Kind == StatePension && p.StatePensionStart.IsZero() {
			return invalidAccount(p.Name, "state pension has no start date")
		}
		if p.Kind == StatePension && p.Owner == OwnerJoint {
			return invalidAccount(p.Name, "state pension cannot be jointly owned")
		}
	}
	return nil
}

func validateObservations(account string, observations []Observation, openDate time.Time) error {
	var last time.Time
	for i, obs := range observations {
		if !openDate.IsZero() && obs.Date.Before(openDate) {
			return invalidAccount(account, "observation %s precedes open date %s",
				obs.Date.Format("2006-01-02"), openDate.Format("2006-01-02"))
		}
		if i > 0 && !obs.Date.After(last) {
			return invalidAccount(account, "observation dates must be strictly increasing at %s",
				obs.Date.Format("2006-01-02"))
		}
		last = obs.Date
	}
	return nil
}
