package main

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed default-household.yaml
var defaultHouseholdYAML string

const dateLayout = "2006-01-02"

// ProfileConfig names the household members
type ProfileConfig struct {
	Primary string `yaml:"primary" json:"primary"`
	Partner string `yaml:"partner,omitempty" json:"partner,omitempty"`
}

// ObservationConfig is one dated amount row from YAML
type ObservationConfig struct {
	Date   string  `yaml:"date" json:"date"`     // YYYY-MM-DD
	Amount float64 `yaml:"amount" json:"amount"` // Accumulated balance (or withdrawal amount in withdrawal tables)
}

// SavingsAccountConfig represents a savings account from YAML
type SavingsAccountConfig struct {
	ID                string              `yaml:"id,omitempty" json:"id,omitempty"`
	Name              string              `yaml:"name" json:"name"`
	Provider          string              `yaml:"provider,omitempty" json:"provider,omitempty"`
	Owner             string              `yaml:"owner" json:"owner"` // primary, partner or joint
	OpenDate          string              `yaml:"open_date,omitempty" json:"open_date,omitempty"`
	Active            bool                `yaml:"active" json:"active"`
	IncludeInNetWorth bool                `yaml:"include_in_net_worth" json:"include_in_net_worth"`
	Observations      []ObservationConfig `yaml:"observations" json:"observations"`
	Notes             string              `yaml:"notes,omitempty" json:"notes,omitempty"`
}

// PensionConfig represents a pension from YAML. A state pension fixes the
// provider to "GOV" and requires a start date; a private pension must not set
// one.
type PensionConfig struct {
	ID                string              `yaml:"id,omitempty" json:"id,omitempty"`
	Name              string              `yaml:"name" json:"name"`
	StatePension      bool                `yaml:"state_pension" json:"state_pension"`
	Provider          string              `yaml:"provider,omitempty" json:"provider,omitempty"`
	Owner             string              `yaml:"owner" json:"owner"`
	StatePensionStart string              `yaml:"state_pension_start,omitempty" json:"state_pension_start,omitempty"`
	Observations      []ObservationConfig `yaml:"observations" json:"observations"`
	Notes             string              `yaml:"notes,omitempty" json:"notes,omitempty"`
}

// LifeBoundsConfig is a (date of birth, max age) pair from YAML
type LifeBoundsConfig struct {
	DateOfBirth string `yaml:"date_of_birth" json:"date_of_birth"`
	MaxAge      int    `yaml:"max_age" json:"max_age"`
}

// ScenarioConfig is a named projection parameter bundle from YAML
type ScenarioConfig struct {
	Name          string            `yaml:"name" json:"name"`
	StartDate     string            `yaml:"start_date" json:"start_date"`
	Primary       LifeBoundsConfig  `yaml:"primary" json:"primary"`
	Partner       *LifeBoundsConfig `yaml:"partner,omitempty" json:"partner,omitempty"`
	DrawdownStart string            `yaml:"drawdown_start,omitempty" json:"drawdown_start,omitempty"`

	MonthlyBudget      float64 `yaml:"monthly_budget" json:"monthly_budget"`
	OtherMonthlyIncome float64 `yaml:"other_monthly_income" json:"other_monthly_income"`

	// Rate lists accept a yaml sequence ([4, 3.5]) or a comma-separated
	// string ("4, 3.5"); percentages either way
	BudgetInflation      RateSchedule `yaml:"budget_inflation" json:"budget_inflation"`
	SavingsInterest      RateSchedule `yaml:"savings_interest" json:"savings_interest"`
	PensionGrowth        RateSchedule `yaml:"pension_growth" json:"pension_growth"`
	StatePensionIncrease RateSchedule `yaml:"state_pension_increase" json:"state_pension_increase"`

	SavingsWithdrawals []ObservationConfig `yaml:"savings_withdrawals,omitempty" json:"savings_withdrawals,omitempty"`
	PensionWithdrawals []ObservationConfig `yaml:"pension_withdrawals,omitempty" json:"pension_withdrawals,omitempty"`

	LastPlotYear int `yaml:"last_plot_year" json:"last_plot_year"`
}

// HouseholdConfig holds the complete household file
type HouseholdConfig struct {
	Profile         ProfileConfig          `yaml:"profile" json:"profile"`
	SavingsAccounts []SavingsAccountConfig `yaml:"savings_accounts" json:"savings_accounts"`
	Pensions        []PensionConfig        `yaml:"pensions" json:"pensions"`
	Scenarios       []ScenarioConfig       `yaml:"scenarios" json:"scenarios"`
}

// LoadHousehold loads a household file from YAML
func LoadHousehold(filename string) (*HouseholdConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	var cfg HouseholdConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filename, err)
	}
	return &cfg, nil
}

// SaveHousehold saves a household file to YAML
func SaveHousehold(cfg *HouseholdConfig, filename string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	header := []byte(`# Household drawdown forecast data
#
# profile:          who the accounts belong to (partner optional)
# savings_accounts: dated balance observations per account
# pensions:         private pots (market value) and state pensions
#                   (annualized entitlement, provider fixed to GOV)
# scenarios:        named projection assumption bundles
#
# Dates are YYYY-MM-DD. Rates are yearly percentages indexed by offset year
# from the scenario start; the last value extends indefinitely.

`)
	return os.WriteFile(filename, append(header, data...), 0644)
}

// LoadDefaultHousehold loads the embedded example household
func LoadDefaultHousehold() (*HouseholdConfig, error) {
	var cfg HouseholdConfig
	if err := yaml.Unmarshal([]byte(defaultHouseholdYAML), &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// FindScenario returns the named scenario config, or nil
func (c *HouseholdConfig) FindScenario(name string) *ScenarioConfig {
	for i := range c.Scenarios {
		if c.Scenarios[i].Name == name {
			return &c.Scenarios[i]
		}
	}
	return nil
}

// BuildProfile converts the profile section to the engine's value type
func (c *HouseholdConfig) BuildProfile() HouseholdProfile {
	return HouseholdProfile{
		PrimaryName: c.Profile.Primary,
		PartnerName: c.Profile.Partner,
	}
}

// BuildLedger converts the account sections into an engine ledger snapshot.
// All string parsing happens here; the engine only sees typed values.
func (c *HouseholdConfig) BuildLedger() (*Ledger, error) {
	ledger := &Ledger{}
	for _, ac := range c.SavingsAccounts {
		owner, err := ParseOwner(ac.Owner)
		if err != nil {
			return nil, invalidAccount(ac.Name, "%v", err)
		}
		openDate, err := parseOptionalDate(ac.OpenDate)
		if err != nil {
			return nil, invalidAccount(ac.Name, "open date: %v", err)
		}
		observations, err := buildObservations(ac.Name, ac.Observations)
		if err != nil {
			return nil, err
		}
		ledger.Savings = append(ledger.Savings, SavingsAccount{
			ID:                ac.ID,
			Name:              ac.Name,
			Provider:          ac.Provider,
			Owner:             owner,
			OpenDate:          openDate,
			Active:            ac.Active,
			IncludeInNetWorth: ac.IncludeInNetWorth,
			Observations:      observations,
			Notes:             ac.Notes,
		})
	}
	for _, pc := range c.Pensions {
		owner, err := ParseOwner(pc.Owner)
		if err != nil {
			return nil, invalidAccount(pc.Name, "%v", err)
		}
		observations, err := buildObservations(pc.Name, pc.Observations)
		if err != nil {
			return nil, err
		}
		pension := PensionAccount{
			ID:           pc.ID,
			Name:         pc.Name,
			Kind:         PrivatePension,
			Provider:     pc.Provider,
			Owner:        owner,
			Observations: observations,
			Notes:        pc.Notes,
		}
		if pc.StatePension {
			pension.Kind = StatePension
			pension.Provider = StatePensionProvider
			start, err := parseOptionalDate(pc.StatePensionStart)
			if err != nil {
				return nil, invalidAccount(pc.Name, "state pension start: %v", err)
			}
			pension.StatePensionStart = start
		} else if pc.StatePensionStart != "" {
			return nil, invalidAccount(pc.Name, "state pension start date set on a private pension")
		}
		ledger.Pensions = append(ledger.Pensions, pension)
	}
	if err := ledger.Validate(); err != nil {
		return nil, err
	}
	return ledger, nil
}

// BuildScenario converts one scenario config into the engine's immutable
// scenario value, validated against the profile.
func (sc *ScenarioConfig) BuildScenario(profile HouseholdProfile) (Scenario, error) {
	start, err := parseOptionalDate(sc.StartDate)
	if err != nil {
		return Scenario{}, invalidScenario("start date", "%v", err)
	}
	primaryDOB, err := parseOptionalDate(sc.Primary.DateOfBirth)
	if err != nil {
		return Scenario{}, invalidScenario("primary date of birth", "%v", err)
	}
	scenario := Scenario{
		Name:                 sc.Name,
		StartDate:            start,
		Primary:              LifeBounds{DateOfBirth: primaryDOB, MaxAge: sc.Primary.MaxAge},
		MonthlyBudget:        sc.MonthlyBudget,
		OtherMonthlyIncome:   sc.OtherMonthlyIncome,
		BudgetInflation:      sc.BudgetInflation,
		SavingsInterest:      sc.SavingsInterest,
		PensionGrowth:        sc.PensionGrowth,
		StatePensionIncrease: sc.StatePensionIncrease,
		LastPlotYear:         sc.LastPlotYear,
	}
	if sc.Partner != nil {
		dob, err := parseOptionalDate(sc.Partner.DateOfBirth)
		if err != nil {
			return Scenario{}, invalidScenario("partner date of birth", "%v", err)
		}
		scenario.Partner = &LifeBounds{DateOfBirth: dob, MaxAge: sc.Partner.MaxAge}
	}
	if sc.DrawdownStart != "" {
		d, err := parseOptionalDate(sc.DrawdownStart)
		if err != nil {
			return Scenario{}, invalidScenario("drawdown start date", "%v", err)
		}
		scenario.DrawdownStart = &d
	}
	if scenario.SavingsWithdrawals, err = buildObservations(sc.Name+" savings withdrawals", sc.SavingsWithdrawals); err != nil {
		return Scenario{}, err
	}
	if scenario.PensionWithdrawals, err = buildObservations(sc.Name+" pension withdrawals", sc.PensionWithdrawals); err != nil {
		return Scenario{}, err
	}
	scenario.normalize()
	if err := scenario.Validate(profile); err != nil {
		return Scenario{}, err
	}
	return scenario, nil
}

func buildObservations(name string, rows []ObservationConfig) ([]Observation, error) {
	observations := make([]Observation, 0, len(rows))
	for _, row := range rows {
		d, err := time.Parse(dateLayout, row.Date)
		if err != nil {
			return nil, invalidAccount(name, "bad date %q (want YYYY-MM-DD)", row.Date)
		}
		observations = append(observations, Observation{Date: d, Amount: row.Amount})
	}
	return observations, nil
}

func parseOptionalDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad date %q (want YYYY-MM-DD)", s)
	}
	return t, nil
}
