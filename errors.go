package main

import "fmt"

// ScenarioError reports an invalid scenario field. All scenario problems are
// detected before the first sample is produced; a run never returns partial
// output alongside one of these.
type ScenarioError struct {
	Field  string
	Reason string
}

func (e *ScenarioError) Error() string {
	return fmt.Sprintf("invalid scenario: %s: %s", e.Field, e.Reason)
}

// AccountDataError reports inconsistent ledger data for one account
type AccountDataError struct {
	Account string
	Reason  string
}

func (e *AccountDataError) Error() string {
	return fmt.Sprintf("invalid account data: %s: %s", e.Account, e.Reason)
}

func invalidScenario(field, format string, args ...any) error {
	return &ScenarioError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

func invalidAccount(account, format string, args ...any) error {
	return &AccountDataError{Account: account, Reason: fmt.Sprintf(format, args...)}
}
