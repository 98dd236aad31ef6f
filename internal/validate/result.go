package validate

import "slices"

// Issue is a fatal schema problem: a required column that is absent or a
// declared-typed column holding values that cannot be read as that type.
// Any issue means the record set must not proceed to cleaning.
type Issue struct {
	Column string
	Reason string
}

// Violation is a business-rule failure on a single row. Violations are not
// fatal by themselves; the pipeline decides whether to abort or to continue
// with the offending rows excluded.
type Violation struct {
	Identity string
	Column   string
	Rule     string
	Detail   string
	Row      int
}

// Result is the outcome of validating one record set.
type Result struct {
	Entity      string
	Issues      []Issue
	Violations  []Violation
	RowsChecked int
}

// SchemaOK reports whether the record set passed the fatal schema checks.
func (r Result) SchemaOK() bool {
	return len(r.Issues) == 0
}

// RulesOK reports whether no row violated a business rule.
func (r Result) RulesOK() bool {
	return len(r.Violations) == 0
}

// OK reports whether the record set passed every check.
func (r Result) OK() bool {
	return r.SchemaOK() && r.RulesOK()
}

// ViolatedRows returns the distinct row positions carrying at least one
// violation, in ascending order.
func (r Result) ViolatedRows() []int {
	seen := make(map[int]bool, len(r.Violations))
	var rows []int
	for _, v := range r.Violations {
		if seen[v.Row] {
			continue
		}
		seen[v.Row] = true
		rows = append(rows, v.Row)
	}
	slices.Sort(rows)
	return rows
}
