package main

import (
	"testing"

	"gopkg.in/yaml.v3"
)

// =============================================================================
// Rate List Parsing Tests
// =============================================================================

func TestParseRateList(t *testing.T) {
	tests := []struct {
		input       string
		expected    RateSchedule
		description string
	}{
		{"5", RateSchedule{5}, "single value"},
		{"4, 3.5, 3", RateSchedule{4, 3.5, 3}, "descending list"},
		{" 2.5 ,2.5 ", RateSchedule{2.5, 2.5}, "whitespace tolerated"},
		{"0, -1, 3", RateSchedule{0, -1, 3}, "zero and negative rates allowed"},
		{"4,,3", RateSchedule{4, 3}, "empty entries skipped"},
	}

	for _, tc := range tests {
		t.Run(tc.description, func(t *testing.T) {
			rates, err := ParseRateList(tc.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(rates) != len(tc.expected) {
				t.Fatalf("expected %d rates, got %d", len(tc.expected), len(rates))
			}
			for i := range rates {
				if rates[i] != tc.expected[i] {
					t.Errorf("rate[%d]: expected %g, got %g", i, tc.expected[i], rates[i])
				}
			}
		})
	}
}

func TestParseRateList_Errors(t *testing.T) {
	for _, input := range []string{"", "  ", "4, banana", "4; 3"} {
		if _, err := ParseRateList(input); err == nil {
			t.Errorf("ParseRateList(%q) should fail", input)
		}
	}
}

// =============================================================================
// Year Resolution Tests
// =============================================================================

func TestForYear_ExtendsLastValue(t *testing.T) {
	rates := RateSchedule{4, 3.5, 3}

	tests := []struct {
		offset   int
		expected float64
	}{
		{0, 4},
		{1, 3.5},
		{2, 3},
		{3, 3},   // Past the end: last value persists
		{50, 3},  // Far past the end
		{-1, 4},  // Negative offsets clamp to the first year
	}

	for _, tc := range tests {
		got, err := rates.ForYear(tc.offset)
		if err != nil {
			t.Fatalf("ForYear(%d): unexpected error: %v", tc.offset, err)
		}
		if got != tc.expected {
			t.Errorf("ForYear(%d): expected %g, got %g", tc.offset, tc.expected, got)
		}
	}
}

func TestForYear_EmptyListIsAnError(t *testing.T) {
	var rates RateSchedule
	if _, err := rates.ForYear(0); err == nil {
		t.Error("empty rate list should be an error, not a silent zero")
	}
}

// =============================================================================
// YAML Decoding Tests
// =============================================================================

func TestRateScheduleYAML(t *testing.T) {
	tests := []struct {
		input       string
		expected    RateSchedule
		description string
	}{
		{"[4, 3.5, 3]", RateSchedule{4, 3.5, 3}, "sequence form"},
		{`"4, 3.5, 3"`, RateSchedule{4, 3.5, 3}, "comma string form"},
		{`"5"`, RateSchedule{5}, "single value string"},
	}

	for _, tc := range tests {
		t.Run(tc.description, func(t *testing.T) {
			var rates RateSchedule
			if err := yaml.Unmarshal([]byte(tc.input), &rates); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(rates) != len(tc.expected) {
				t.Fatalf("expected %d rates, got %d", len(tc.expected), len(rates))
			}
			for i := range rates {
				if rates[i] != tc.expected[i] {
					t.Errorf("rate[%d]: expected %g, got %g", i, tc.expected[i], rates[i])
				}
			}
		})
	}
}

func TestRateScheduleYAML_BadString(t *testing.T) {
	var rates RateSchedule
	if err := yaml.Unmarshal([]byte(`"not, numbers"`), &rates); err == nil {
		t.Error("non-numeric rate string should fail to decode")
	}
}
