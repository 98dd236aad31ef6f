// Package validate checks raw record sets against the declared store
// contract before they are cleaned and typed.
package validate

import (
	"fmt"

	"github.com/Veraticus/spice-harvester/internal/dataset"
	"github.com/Veraticus/spice-harvester/internal/model"
)

// Business rules checked on individual rows.
const (
	RuleNonNegative             = "non_negative"
	RulePositive                = "positive"
	RuleClicksWithinImpressions = "clicks_within_impressions"
	RuleConversionsWithinClicks = "conversions_within_clicks"
)

// columnRule declares the contract for one required column. A column is
// checked only against the constraints its rule switches on.
type columnRule struct {
	name        string
	numeric     bool
	integer     bool
	date        bool
	nonNegative bool
	positive    bool
}

var campaignRules = []columnRule{
	{name: "campaign_name"},
	{name: "channel"},
	{name: "cost", numeric: true, nonNegative: true},
	{name: "impressions", numeric: true, integer: true, nonNegative: true},
	{name: "clicks", numeric: true, integer: true, nonNegative: true},
	{name: "conversions", numeric: true, integer: true, nonNegative: true},
	{name: "revenue", numeric: true, nonNegative: true},
	{name: "date", date: true},
}

var customerRules = []columnRule{
	{name: "age", numeric: true, integer: true, positive: true},
	{name: "gender"},
	{name: "country"},
	{name: "sessions", numeric: true, integer: true, nonNegative: true},
	{name: "avg_session_duration", numeric: true, nonNegative: true},
	{name: "pages_per_session", numeric: true, nonNegative: true},
	{name: "transactions", numeric: true, integer: true, nonNegative: true},
	{name: "revenue", numeric: true, nonNegative: true},
}

// Campaigns validates a raw campaign record set: required columns, value
// types, non-negativity, and the clicks/impressions/conversions ordering.
func Campaigns(table *dataset.Table) Result {
	res := check(model.EntityCampaign, table, campaignRules)
	checkFunnelOrder(table, &res)
	return res
}

// Customers validates a raw customer record set.
func Customers(table *dataset.Table) Result {
	return check(model.EntityCustomer, table, customerRules)
}

func check(entity string, table *dataset.Table, rules []columnRule) Result {
	res := Result{Entity: entity, RowsChecked: table.Len()}

	required := make([]string, len(rules))
	for i, rule := range rules {
		required[i] = rule.name
	}
	for _, col := range table.MissingColumns(required) {
		res.Issues = append(res.Issues, Issue{Column: col, Reason: "required column is missing"})
	}

	for _, rule := range rules {
		if table.HasColumn(rule.name) {
			checkColumn(entity, table, rule, &res)
		}
	}
	return res
}

// checkColumn scans one column. A value that cannot be read as the declared
// type makes the whole column a fatal issue; only the first such value is
// reported. Missing values are skipped: imputation is the cleaner's job.
func checkColumn(entity string, table *dataset.Table, rule columnRule, res *Result) {
	for i, row := range table.Rows {
		v := row[rule.name]
		if dataset.Missing(v) {
			continue
		}
		switch {
		case rule.date:
			if _, err := dataset.Date(v); err != nil {
				res.Issues = append(res.Issues, Issue{
					Column: rule.name,
					Reason: fmt.Sprintf("row %d: %v", i, err),
				})
				return
			}
		case rule.integer:
			n, err := dataset.Int(v)
			if err != nil {
				res.Issues = append(res.Issues, Issue{
					Column: rule.name,
					Reason: fmt.Sprintf("row %d: %v", i, err),
				})
				return
			}
			checkBounds(entity, table, rule, i, float64(n), res)
		case rule.numeric:
			f, err := dataset.Float(v)
			if err != nil {
				res.Issues = append(res.Issues, Issue{
					Column: rule.name,
					Reason: fmt.Sprintf("row %d: %v", i, err),
				})
				return
			}
			checkBounds(entity, table, rule, i, f, res)
		}
	}
}

func checkBounds(entity string, table *dataset.Table, rule columnRule, row int, v float64, res *Result) {
	switch {
	case rule.positive && v <= 0:
		res.Violations = append(res.Violations, Violation{
			Row:      row,
			Identity: rowIdentity(entity, table.Rows[row], row),
			Column:   rule.name,
			Rule:     RulePositive,
			Detail:   fmt.Sprintf("%s=%v must be greater than zero", rule.name, v),
		})
	case rule.nonNegative && v < 0:
		res.Violations = append(res.Violations, Violation{
			Row:      row,
			Identity: rowIdentity(entity, table.Rows[row], row),
			Column:   rule.name,
			Rule:     RuleNonNegative,
			Detail:   fmt.Sprintf("%s=%v must not be negative", rule.name, v),
		})
	}
}

// checkFunnelOrder enforces clicks ≤ impressions and conversions ≤ clicks.
// Rows where either side is missing or unreadable are skipped; the type
// scan already reported unreadable columns.
func checkFunnelOrder(table *dataset.Table, res *Result) {
	for _, col := range []string{"impressions", "clicks", "conversions"} {
		if !table.HasColumn(col) {
			return
		}
	}
	for i, row := range table.Rows {
		impressions, iok := intValue(row["impressions"])
		clicks, cok := intValue(row["clicks"])
		conversions, vok := intValue(row["conversions"])
		if iok && cok && clicks > impressions {
			res.Violations = append(res.Violations, Violation{
				Row:      i,
				Identity: rowIdentity(model.EntityCampaign, row, i),
				Column:   "clicks",
				Rule:     RuleClicksWithinImpressions,
				Detail:   fmt.Sprintf("clicks=%d impressions=%d", clicks, impressions),
			})
		}
		if cok && vok && conversions > clicks {
			res.Violations = append(res.Violations, Violation{
				Row:      i,
				Identity: rowIdentity(model.EntityCampaign, row, i),
				Column:   "conversions",
				Rule:     RuleConversionsWithinClicks,
				Detail:   fmt.Sprintf("conversions=%d clicks=%d", conversions, clicks),
			})
		}
	}
}

func intValue(v any) (int64, bool) {
	if dataset.Missing(v) {
		return 0, false
	}
	n, err := dataset.Int(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

func rowIdentity(entity string, row dataset.Row, position int) string {
	switch entity {
	case model.EntityCampaign:
		name := dataset.String(row["campaign_name"])
		if name == "" {
			break
		}
		if d, err := dataset.Date(row["date"]); err == nil {
			return fmt.Sprintf("%q (%s)", name, d.Format("2006-01-02"))
		}
		return fmt.Sprintf("%q", name)
	case model.EntityCustomer:
		if id, err := dataset.Int(row["customer_id"]); err == nil {
			return fmt.Sprintf("customer %d", id)
		}
	}
	return fmt.Sprintf("row %d", position)
}
