package clean

import (
	"fmt"
	"strings"

	"github.com/Veraticus/spice-harvester/internal/dataset"
	"github.com/Veraticus/spice-harvester/internal/model"
)

// CustomerResult is the output of a customer cleaning pass.
type CustomerResult struct {
	Records []model.CustomerRecord
	Ops     []model.CleaningOp
	Report  model.QualityReport
}

// categoricalMode is a column mode, when one was observable.
type categoricalMode struct {
	value string
	ok    bool
}

// Customers cleans a raw customer record set: drops excluded rows, imputes
// missing categoricals with the column mode, and uppercases gender and
// country. Missing numeric features stay absent; the segmentation engine
// imputes them with feature means when it builds its matrix. Customers
// carry no duplicate key and are not deduplicated.
func Customers(table *dataset.Table, opts Options) (*CustomerResult, error) {
	res := &CustomerResult{
		Report: model.QualityReport{
			Entity:          model.EntityCustomer,
			TotalRecords:    table.Len(),
			MissingByColumn: missingByColumn(table),
		},
	}

	excluded := exclusionSet(opts.Exclusions)
	for _, e := range opts.Exclusions {
		res.Ops = append(res.Ops, model.CleaningOp{
			Entity:      model.EntityCustomer,
			RowIdentity: rawIdentity(table, e.Row),
			Action:      model.ActionDropViolation,
			Reason:      excluded[e.Row],
		})
	}

	gender := newCategoricalMode(table, "gender", excluded)
	country := newCategoricalMode(table, "country", excluded)

	for i, row := range table.Rows {
		if _, drop := excluded[i]; drop {
			continue
		}

		rec, rowOps, err := cleanCustomerRow(row, i, gender, country)
		if err != nil {
			err = fmt.Errorf("customer %s: %w", rawIdentity(table, i), err)
			if !opts.SkipErrors {
				return nil, err
			}
			res.Ops = append(res.Ops, model.CleaningOp{
				Entity:      model.EntityCustomer,
				RowIdentity: rawIdentity(table, i),
				Action:      model.ActionDropInvalid,
				Reason:      err.Error(),
			})
			continue
		}

		res.Records = append(res.Records, rec)
		res.Ops = append(res.Ops, rowOps...)
	}

	res.Report.DroppedRecords = res.Report.TotalRecords - len(res.Records)
	res.Report.NumericStats = customerStats(res.Records)
	return res, nil
}

func newCategoricalMode(table *dataset.Table, column string, skip map[int]string) categoricalMode {
	value, ok := modeValue(table, column, skip)
	return categoricalMode{value: value, ok: ok}
}

func cleanCustomerRow(row dataset.Row, position int, gender, country categoricalMode) (model.CustomerRecord, []model.CleaningOp, error) {
	var rec model.CustomerRecord
	var ops []model.CleaningOp

	identity := fmt.Sprintf("row %d", position)
	if id, err := dataset.Int(row["customer_id"]); err == nil {
		rec.ID = id
		identity = fmt.Sprintf("customer %d", id)
	}

	value, catOps, err := cleanCategorical(row, "gender", gender, identity)
	if err != nil {
		return rec, nil, err
	}
	rec.Gender = value
	ops = append(ops, catOps...)

	value, catOps, err = cleanCategorical(row, "country", country, identity)
	if err != nil {
		return rec, nil, err
	}
	rec.Country = value
	ops = append(ops, catOps...)

	intFields := []struct {
		column string
		dst    **int64
	}{
		{"age", &rec.Age},
		{"sessions", &rec.Sessions},
		{"transactions", &rec.Transactions},
	}
	for _, f := range intFields {
		v := row[f.column]
		if dataset.Missing(v) {
			continue
		}
		n, err := dataset.Int(v)
		if err != nil {
			return rec, nil, fmt.Errorf("%s: %w: %v", f.column, ErrMalformedValue, err)
		}
		*f.dst = &n
	}

	floatFields := []struct {
		column string
		dst    **float64
	}{
		{"avg_session_duration", &rec.AvgSessionDuration},
		{"pages_per_session", &rec.PagesPerSession},
		{"revenue", &rec.Revenue},
	}
	for _, f := range floatFields {
		v := row[f.column]
		if dataset.Missing(v) {
			continue
		}
		x, err := dataset.Float(v)
		if err != nil {
			return rec, nil, fmt.Errorf("%s: %w: %v", f.column, ErrMalformedValue, err)
		}
		*f.dst = &x
	}

	return rec, ops, nil
}

// cleanCategorical imputes a missing categorical with the column mode and
// uppercases the result, auditing both steps.
func cleanCategorical(row dataset.Row, column string, mode categoricalMode, identity string) (string, []model.CleaningOp, error) {
	var value string
	var ops []model.CleaningOp
	if dataset.Missing(row[column]) {
		if !mode.ok {
			return "", nil, fmt.Errorf("%s: %w: no observed values to impute from", column, ErrMissingRequired)
		}
		value = mode.value
		ops = append(ops, model.CleaningOp{
			OriginalValue: row[column],
			NewValue:      mode.value,
			Entity:        model.EntityCustomer,
			Column:        column,
			RowIdentity:   identity,
			Action:        model.ActionImputeMode,
			Reason:        "missing value imputed with the column mode",
		})
	} else {
		value = strings.TrimSpace(dataset.String(row[column]))
	}

	upper := strings.ToUpper(value)
	if upper != value {
		ops = append(ops, model.CleaningOp{
			OriginalValue: value,
			NewValue:      upper,
			Entity:        model.EntityCustomer,
			Column:        column,
			RowIdentity:   identity,
			Action:        model.ActionNormalizeCase,
			Reason:        "uppercased",
		})
	}
	return upper, ops, nil
}
