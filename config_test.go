package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// =============================================================================
// Embedded Default Household Tests
// =============================================================================

func TestLoadDefaultHousehold(t *testing.T) {
	cfg, err := LoadDefaultHousehold()
	if err != nil {
		t.Fatalf("embedded household must parse: %v", err)
	}
	if cfg.Profile.Primary == "" {
		t.Error("embedded household has no primary name")
	}
	if len(cfg.Scenarios) == 0 {
		t.Fatal("embedded household has no scenarios")
	}

	profile := cfg.BuildProfile()
	ledger, err := cfg.BuildLedger()
	if err != nil {
		t.Fatalf("embedded ledger must build: %v", err)
	}
	for i := range cfg.Scenarios {
		scenario, err := cfg.Scenarios[i].BuildScenario(profile)
		if err != nil {
			t.Fatalf("scenario %q must build: %v", cfg.Scenarios[i].Name, err)
		}
		if _, err := RunForecast(scenario, ledger, profile); err != nil {
			t.Errorf("scenario %q must run: %v", scenario.Name, err)
		}
	}
}

// =============================================================================
// Ledger Construction Tests
// =============================================================================

func TestBuildLedger_StatePensionNormalisation(t *testing.T) {
	cfg := &HouseholdConfig{
		Profile: ProfileConfig{Primary: "Alex"},
		Pensions: []PensionConfig{{
			Name: "State Pension", StatePension: true, Provider: "ignored",
			Owner: "primary", StatePensionStart: "2031-09-14",
			Observations: []ObservationConfig{{Date: "2025-01-01", Amount: 11500}},
		}},
	}
	ledger, err := cfg.BuildLedger()
	if err != nil {
		t.Fatal(err)
	}
	p := ledger.Pensions[0]
	if p.Kind != StatePension {
		t.Error("state_pension flag must set the kind")
	}
	if p.Provider != StatePensionProvider {
		t.Errorf("state pension provider forced to %q, got %q", StatePensionProvider, p.Provider)
	}
	if !p.StatePensionStart.Equal(date(2031, time.September, 14)) {
		t.Errorf("unexpected start date %s", p.StatePensionStart)
	}
}

func TestBuildLedger_Errors(t *testing.T) {
	tests := []struct {
		cfg         HouseholdConfig
		description string
	}{
		{
			HouseholdConfig{SavingsAccounts: []SavingsAccountConfig{{
				Name: "Bad Owner", Owner: "cousin", Active: true,
			}}},
			"unknown owner",
		},
		{
			HouseholdConfig{SavingsAccounts: []SavingsAccountConfig{{
				Name: "Bad Date", Owner: "primary", Active: true,
				Observations: []ObservationConfig{{Date: "01/02/2025", Amount: 1}},
			}}},
			"non ISO date",
		},
		{
			HouseholdConfig{Pensions: []PensionConfig{{
				Name: "Private With Start", Owner: "primary",
				StatePensionStart: "2031-01-01",
			}}},
			"state pension start on a private pension",
		},
		{
			HouseholdConfig{Pensions: []PensionConfig{{
				Name: "No Start", StatePension: true, Owner: "primary",
			}}},
			"state pension without start date",
		},
	}

	for _, tc := range tests {
		t.Run(tc.description, func(t *testing.T) {
			if _, err := tc.cfg.BuildLedger(); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

// =============================================================================
// Scenario Construction Tests
// =============================================================================

func TestBuildScenario_CommaStringRates(t *testing.T) {
	sc := ScenarioConfig{
		Name:      "strings",
		StartDate: "2026-01-01",
		Primary:   LifeBoundsConfig{DateOfBirth: "1964-09-14", MaxAge: 92},
		Partner:   &LifeBoundsConfig{DateOfBirth: "1967-02-06", MaxAge: 90},

		MonthlyBudget:        3000,
		BudgetInflation:      mustParseRates(t, "3, 2.5"),
		SavingsInterest:      mustParseRates(t, "4"),
		PensionGrowth:        mustParseRates(t, "5, 5, 4.5"),
		StatePensionIncrease: mustParseRates(t, "2.5"),
		LastPlotYear:         2060,
	}

	scenario, err := sc.BuildScenario(coupleProfile())
	if err != nil {
		t.Fatal(err)
	}
	if len(scenario.PensionGrowth) != 3 || scenario.PensionGrowth[2] != 4.5 {
		t.Errorf("rate list mangled: %v", scenario.PensionGrowth)
	}
	if !scenario.StartDate.Equal(date(2026, time.January, 1)) {
		t.Errorf("unexpected start date %s", scenario.StartDate)
	}
}

func mustParseRates(t *testing.T, s string) RateSchedule {
	t.Helper()
	rates, err := ParseRateList(s)
	if err != nil {
		t.Fatal(err)
	}
	return rates
}

func TestBuildScenario_SortsWithdrawalTables(t *testing.T) {
	sc := ScenarioConfig{
		Name:      "unsorted",
		StartDate: "2026-01-01",
		Primary:   LifeBoundsConfig{DateOfBirth: "1964-09-14", MaxAge: 92},
		Partner:   &LifeBoundsConfig{DateOfBirth: "1967-02-06", MaxAge: 90},

		BudgetInflation:      RateSchedule{2},
		SavingsInterest:      RateSchedule{3},
		PensionGrowth:        RateSchedule{4},
		StatePensionIncrease: RateSchedule{2},
		SavingsWithdrawals: []ObservationConfig{
			{Date: "2032-06-01", Amount: 2000},
			{Date: "2028-06-01", Amount: 1000},
		},
		LastPlotYear: 2060,
	}
	scenario, err := sc.BuildScenario(coupleProfile())
	if err != nil {
		t.Fatal(err)
	}
	if !scenario.SavingsWithdrawals[0].Date.Before(scenario.SavingsWithdrawals[1].Date) {
		t.Error("withdrawal table must come out sorted")
	}
}

func TestBuildScenario_Errors(t *testing.T) {
	base := func() ScenarioConfig {
		return ScenarioConfig{
			Name:      "broken",
			StartDate: "2026-01-01",
			Primary:   LifeBoundsConfig{DateOfBirth: "1964-09-14", MaxAge: 92},
			Partner:   &LifeBoundsConfig{DateOfBirth: "1967-02-06", MaxAge: 90},

			BudgetInflation:      RateSchedule{2},
			SavingsInterest:      RateSchedule{3},
			PensionGrowth:        RateSchedule{4},
			StatePensionIncrease: RateSchedule{2},
			LastPlotYear:         2060,
		}
	}

	tests := []struct {
		mutate      func(*ScenarioConfig)
		description string
	}{
		{func(c *ScenarioConfig) { c.StartDate = "not-a-date" }, "bad start date"},
		{func(c *ScenarioConfig) { c.Primary.DateOfBirth = "" }, "missing date of birth"},
		{func(c *ScenarioConfig) { c.DrawdownStart = "2020-01-01" }, "drawdown before start"},
		{func(c *ScenarioConfig) { c.SavingsInterest = nil }, "missing rate list"},
		{func(c *ScenarioConfig) { c.LastPlotYear = 0 }, "missing plot horizon"},
	}

	for _, tc := range tests {
		t.Run(tc.description, func(t *testing.T) {
			sc := base()
			tc.mutate(&sc)
			if _, err := sc.BuildScenario(coupleProfile()); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

// =============================================================================
// File Round Trip Tests
// =============================================================================

func TestHouseholdFileRoundTrip(t *testing.T) {
	cfg, err := LoadDefaultHousehold()
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "household.yaml")
	if err := SaveHousehold(cfg, path); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatal(err)
	}

	loaded, err := LoadHousehold(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded.SavingsAccounts) != len(cfg.SavingsAccounts) ||
		len(loaded.Pensions) != len(cfg.Pensions) ||
		len(loaded.Scenarios) != len(cfg.Scenarios) {
		t.Error("round trip lost records")
	}
	if loaded.Scenarios[0].Name != cfg.Scenarios[0].Name {
		t.Errorf("scenario name mangled: %q", loaded.Scenarios[0].Name)
	}
}
