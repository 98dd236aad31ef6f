package pipeline

import (
	"errors"
	"fmt"
)

// Sentinels for errors.Is checks against the pipeline's typed errors.
var (
	ErrSchema           = errors.New("schema validation failed")
	ErrRuleViolation    = errors.New("business rule violated")
	ErrInsufficientData = errors.New("insufficient data")
)

// SchemaError reports a record set whose shape cannot be trusted: a
// required column is missing, or a typed column holds unreadable values.
// Always fatal for the affected branch.
type SchemaError struct {
	Entity string
	Column string
	Reason string
}

func (e *SchemaError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("%s schema error: column %q: %s", e.Entity, e.Column, e.Reason)
	}
	return fmt.Sprintf("%s schema error: %s", e.Entity, e.Reason)
}

func (e *SchemaError) Unwrap() error { return ErrSchema }

// RuleViolationError reports rows that break a declared business rule.
// Recoverable when the run is configured to skip errors, in which case
// the offending rows are excluded instead.
type RuleViolationError struct {
	Entity string
	Rule   string
	Rows   []int
}

func (e *RuleViolationError) Error() string {
	return fmt.Sprintf("%s rule %s violated by %d row(s) %v", e.Entity, e.Rule, len(e.Rows), e.Rows)
}

func (e *RuleViolationError) Unwrap() error { return ErrRuleViolation }

// InsufficientDataError reports too few usable rows to satisfy a
// structural minimum. Fatal for the affected branch only; the other
// branch still completes.
type InsufficientDataError struct {
	Entity string
	Needed int
	Got    int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("%s: need at least %d usable row(s), got %d", e.Entity, e.Needed, e.Got)
}

func (e *InsufficientDataError) Unwrap() error { return ErrInsufficientData }
