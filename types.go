package main

import (
	"fmt"
	"time"
)

// Owner identifies who an account belongs to
type Owner int

const (
	OwnerPrimary Owner = iota
	OwnerPartner
	OwnerJoint // Joint accounts survive either owner's death
)

func (o Owner) String() string {
	switch o {
	case OwnerPrimary:
		return "Primary"
	case OwnerPartner:
		return "Partner"
	case OwnerJoint:
		return "Joint"
	default:
		return "Unknown"
	}
}

// ParseOwner converts a configuration string to an Owner
func ParseOwner(s string) (Owner, error) {
	switch s {
	case "primary", "Primary":
		return OwnerPrimary, nil
	case "partner", "Partner":
		return OwnerPartner, nil
	case "joint", "Joint":
		return OwnerJoint, nil
	default:
		return OwnerPrimary, fmt.Errorf("unknown owner %q (want primary, partner or joint)", s)
	}
}

// PensionKind distinguishes state pensions from private (drawdown) pots
type PensionKind int

const (
	PrivatePension PensionKind = iota
	StatePension
)

func (k PensionKind) String() string {
	switch k {
	case PrivatePension:
		return "Private"
	case StatePension:
		return "State"
	default:
		return "Unknown"
	}
}

// StatePensionProvider is the fixed provider name for state pensions
const StatePensionProvider = "GOV"

// Observation is a dated amount recorded against an account.
// For savings and private pensions the amount is the accumulated balance as of
// that date (not a delta). For state pensions it is the annualized entitlement.
// For ad-hoc withdrawal tables it is the amount withdrawn in that month.
type Observation struct {
	Date   time.Time
	Amount float64
}

// SavingsAccount holds a savings/bank account and its recorded balance history
type SavingsAccount struct {
	ID                string
	Name              string
	Provider          string // Bank or building society name
	Owner             Owner
	OpenDate          time.Time
	Active            bool
	IncludeInNetWorth bool
	Observations      []Observation // Date-ordered, strictly increasing
	Notes             string
}

// PensionAccount holds a private pension pot or a state pension entitlement.
// StatePensionStart is required when Kind is StatePension and unused otherwise.
type PensionAccount struct {
	ID                string
	Name              string
	Kind              PensionKind
	Provider          string // Fixed to "GOV" for state pensions
	Owner             Owner
	StatePensionStart time.Time
	Observations      []Observation
	Notes             string
}

// HouseholdProfile names the people whose accounts are being modelled.
// It is an explicit input to scenario validation, never ambient state.
type HouseholdProfile struct {
	PrimaryName string
	PartnerName string // Empty when there is no partner
}

// HasPartner reports whether the household includes a partner
func (h HouseholdProfile) HasPartner() bool {
	return h.PartnerName != ""
}

// OwnerName returns the configured name for an owner
func (h HouseholdProfile) OwnerName(o Owner) string {
	switch o {
	case OwnerPrimary:
		return h.PrimaryName
	case OwnerPartner:
		return h.PartnerName
	default:
		return "Joint"
	}
}

// LifeBounds bounds one owner's simulated lifetime
type LifeBounds struct {
	DateOfBirth time.Time
	MaxAge      int
}

// DeathDate is the date the owner is assumed to die (birth date + max age)
func (b LifeBounds) DeathDate() time.Time {
	return b.DateOfBirth.AddDate(b.MaxAge, 0, 0)
}

// Age75 is the 75th birthday, the boundary for the pension lump-sum transfer rule
func (b LifeBounds) Age75() time.Time {
	return b.DateOfBirth.AddDate(75, 0, 0)
}

// Scenario is a named, immutable bundle of projection assumptions.
// Rate lists hold yearly percentages indexed by offset year from the start
// date, with the final entry extended indefinitely.
type Scenario struct {
	Name          string
	StartDate     time.Time
	Primary       LifeBounds
	Partner       *LifeBounds // nil when there is no partner
	DrawdownStart *time.Time  // nil = never draw pensions before savings

	MonthlyBudget      float64 // Required household spending per month at the start date
	OtherMonthlyIncome float64 // Fixed income from other sources (e.g. family contributions)

	BudgetInflation      RateSchedule
	SavingsInterest      RateSchedule
	PensionGrowth        RateSchedule
	StatePensionIncrease RateSchedule

	SavingsWithdrawals []Observation // Ad-hoc lump-sum withdrawals (date, amount)
	PensionWithdrawals []Observation

	LastPlotYear int // Truncates the horizon; the run never extends past 31 Dec of this year
}

// SimulationSample is one monthly output row of the projection
type SimulationSample struct {
	Date               time.Time `json:"date"`
	Savings            float64   `json:"savings"`
	Pension            float64   `json:"pension"`
	Total              float64   `json:"total"`
	StatePensionIncome float64   `json:"state_pension_income"` // This month's state pension total
	Budget             float64   `json:"budget"`               // This month's required spending
	SavingsInterest    float64   `json:"savings_interest"`     // Interest posted this step (January samples)
	SavingsWithdrawal  float64   `json:"savings_withdrawal"`
	PensionWithdrawal  float64   `json:"pension_withdrawal"`
	FundsExhausted     bool      `json:"funds_exhausted"`
}

// ForecastResult holds the complete output of one scenario run
type ForecastResult struct {
	Scenario       string             `json:"scenario"`
	Samples        []SimulationSample `json:"samples"`
	FundsExhausted bool               `json:"funds_exhausted"`
	ExhaustedDate  time.Time          `json:"exhausted_date"`
	EmptyHousehold bool               `json:"empty_household"` // No accounts flagged for net-worth inclusion
}

// FinalSample returns the last sample of the run, or a zero sample if empty
func (r ForecastResult) FinalSample() SimulationSample {
	if len(r.Samples) == 0 {
		return SimulationSample{}
	}
	return r.Samples[len(r.Samples)-1]
}
