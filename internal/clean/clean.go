// Package clean turns validated raw record sets into typed, deduplicated,
// normalized records, logging every mutation as a cleaning operation.
package clean

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/spice-harvester/internal/dataset"
)

var (
	// ErrMissingRequired marks a row missing a value the pipeline cannot
	// impute. Fatal unless the run is configured to skip bad rows.
	ErrMissingRequired = errors.New("required value missing")
	// ErrMalformedValue marks a value that cannot be read as its declared
	// type. The validator reports these first; cleaning re-checks so it
	// stays safe when called on its own.
	ErrMalformedValue = errors.New("malformed value")
)

// Exclusion names an input row the caller wants dropped before cleaning,
// with the reason recorded in the audit log.
type Exclusion struct {
	Reason string
	Row    int
}

// Options tunes a cleaning pass.
type Options struct {
	// Exclusions are input row positions dropped up front, usually rows
	// that failed validation on a run configured to continue.
	Exclusions []Exclusion
	// OutlierIQRMultiplier widens or narrows the IQR fences used for
	// advisory outlier flagging. Zero means the default of 1.5.
	OutlierIQRMultiplier float64
	// SkipErrors drops rows that hit fatal cleaning problems instead of
	// aborting the pass.
	SkipErrors bool
	// CoerceUnmappedChannels rewrites channel values the synonym table
	// cannot resolve to the catch-all channel instead of passing them
	// through unchanged.
	CoerceUnmappedChannels bool
}

const defaultIQRMultiplier = 1.5

func (o Options) iqrMultiplier() float64 {
	if o.OutlierIQRMultiplier <= 0 {
		return defaultIQRMultiplier
	}
	return o.OutlierIQRMultiplier
}

func exclusionSet(exclusions []Exclusion) map[int]string {
	set := make(map[int]string, len(exclusions))
	for _, e := range exclusions {
		reason := e.Reason
		if reason == "" {
			reason = "excluded by caller"
		}
		set[e.Row] = reason
	}
	return set
}

// modeValue returns the most frequent non-missing value of a column among
// the rows not in skip, trimmed. Ties go to the value seen first.
func modeValue(table *dataset.Table, column string, skip map[int]string) (string, bool) {
	counts := make(map[string]int)
	var order []string
	for i, row := range table.Rows {
		if _, excluded := skip[i]; excluded {
			continue
		}
		v := row[column]
		if dataset.Missing(v) {
			continue
		}
		s := strings.TrimSpace(dataset.String(v))
		if _, seen := counts[s]; !seen {
			order = append(order, s)
		}
		counts[s]++
	}
	best := ""
	bestCount := 0
	for _, s := range order {
		if counts[s] > bestCount {
			best, bestCount = s, counts[s]
		}
	}
	return best, bestCount > 0
}

// missingByColumn counts missing values per declared column in the raw
// input, before any rows are excluded or dropped.
func missingByColumn(table *dataset.Table) map[string]int {
	counts := make(map[string]int, len(table.Columns))
	for _, col := range table.Columns {
		counts[col] = 0
	}
	for _, row := range table.Rows {
		for _, col := range table.Columns {
			if dataset.Missing(row[col]) {
				counts[col]++
			}
		}
	}
	return counts
}

// rawIdentity describes an input row before it has been parsed, for audit
// entries about rows that never become records.
func rawIdentity(table *dataset.Table, position int) string {
	if position < 0 || position >= table.Len() {
		return fmt.Sprintf("row %d", position)
	}
	row := table.Rows[position]
	if name := strings.TrimSpace(dataset.String(row["campaign_name"])); name != "" {
		return fmt.Sprintf("%q (row %d)", name, position)
	}
	if id, err := dataset.Int(row["customer_id"]); err == nil {
		return fmt.Sprintf("customer %d", id)
	}
	return fmt.Sprintf("row %d", position)
}

func formatDate(d time.Time) string {
	return d.Format("2006-01-02")
}
