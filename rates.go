package main

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// RateSchedule is a list of guessed yearly percentages indexed by offset year
// from the scenario start (0 = the start year). Once the guesses run out the
// final value is assumed to persist indefinitely.
//
// Values are percentages: 5 means 5% per year.
type RateSchedule []float64

// ParseRateList converts a comma-separated string such as "4, 3.5, 3" into a
// RateSchedule. Parsing happens once, at scenario construction; the engine
// never sees strings.
func ParseRateList(s string) (RateSchedule, error) {
	parts := strings.Split(s, ",")
	rates := make(RateSchedule, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return nil, fmt.Errorf("rate list entry %q is not a number", part)
		}
		rates = append(rates, v)
	}
	if len(rates) == 0 {
		return nil, fmt.Errorf("rate list %q has no entries", s)
	}
	return rates, nil
}

// ForYear resolves the percentage for a simulation year offset. Offsets past
// the end of the list return the last entry; the rates are assumed to persist
// once the guesses run out.
func (r RateSchedule) ForYear(yearOffset int) (float64, error) {
	if len(r) == 0 {
		return 0, invalidScenario("rates", "rate list is empty")
	}
	if yearOffset < 0 {
		yearOffset = 0
	}
	if yearOffset >= len(r) {
		return r[len(r)-1], nil
	}
	return r[yearOffset], nil
}

// mustForYear is ForYear for schedules already checked by scenario validation
func (r RateSchedule) mustForYear(yearOffset int) float64 {
	v, err := r.ForYear(yearOffset)
	if err != nil {
		panic(err) // Unreachable after Scenario validation
	}
	return v
}

// UnmarshalYAML accepts either a yaml sequence of numbers or a single
// comma-separated string ("4, 3.5, 3"), matching how the rates are entered.
func (r *RateSchedule) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		var s string
		if err := value.Decode(&s); err != nil {
			return err
		}
		rates, err := ParseRateList(s)
		if err != nil {
			return err
		}
		*r = rates
		return nil
	}
	var rates []float64
	if err := value.Decode(&rates); err != nil {
		return err
	}
	*r = rates
	return nil
}
