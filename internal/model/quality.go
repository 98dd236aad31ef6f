package model

// CleaningAction identifies the kind of mutation the cleaner applied.
type CleaningAction string

const (
	// ActionImputeZero filled a missing count field with 0.
	ActionImputeZero CleaningAction = "impute_zero"
	// ActionImputeMode filled a missing categorical with the column mode.
	ActionImputeMode CleaningAction = "impute_mode"
	// ActionDropDuplicate removed a row repeating an earlier logical key.
	ActionDropDuplicate CleaningAction = "drop_duplicate"
	// ActionDropViolation removed a row that failed a business rule.
	ActionDropViolation CleaningAction = "drop_violation"
	// ActionDropInvalid removed a row whose required values were missing
	// or unreadable, on a run configured to continue past them.
	ActionDropInvalid CleaningAction = "drop_invalid"
	// ActionNormalizeChannel rewrote a channel value to its canonical name.
	ActionNormalizeChannel CleaningAction = "normalize_channel"
	// ActionNormalizeName rewrote a campaign name to title case.
	ActionNormalizeName CleaningAction = "normalize_name"
	// ActionNormalizeCase uppercased a categorical value.
	ActionNormalizeCase CleaningAction = "normalize_case"
	// ActionFlagOutlier set the advisory IQR outlier flag on a row.
	ActionFlagOutlier CleaningAction = "flag_outlier"
	// ActionCoerceChannel rewrote an unmapped channel to the catch-all.
	ActionCoerceChannel CleaningAction = "coerce_channel"
)

// CleaningOp records a single mutation applied during cleaning, so every
// change between the raw and cleaned record sets is auditable.
type CleaningOp struct {
	OriginalValue any
	NewValue      any
	Entity        string
	Column        string
	RowIdentity   string
	Action        CleaningAction
	Reason        string
}

// ColumnStats summarizes a numeric column for the quality report.
type ColumnStats struct {
	Column string
	Count  int
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
}

// QualityReport summarizes the state of a record set after cleaning.
type QualityReport struct {
	MissingByColumn map[string]int
	NumericStats    []ColumnStats
	Entity          string
	TotalRecords    int
	DroppedRecords  int
	DuplicatesFound int
	OutliersFlagged int
	UnmappedValues  int
}
