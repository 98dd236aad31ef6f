package clean

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/spice-harvester/internal/dataset"
	"github.com/Veraticus/spice-harvester/internal/model"
)

func customerTable(rows ...dataset.Row) *dataset.Table {
	table := dataset.New(
		"customer_id", "age", "gender", "country", "sessions",
		"avg_session_duration", "pages_per_session", "transactions", "revenue",
	)
	for _, row := range rows {
		table.Append(row)
	}
	return table
}

func customerRow(id int64) dataset.Row {
	return dataset.Row{
		"customer_id":          id,
		"age":                  int64(34),
		"gender":               "F",
		"country":              "GERMANY",
		"sessions":             int64(12),
		"avg_session_duration": 182.5,
		"pages_per_session":    4.2,
		"transactions":         int64(3),
		"revenue":              240.0,
	}
}

func TestCustomers_Basic(t *testing.T) {
	res, err := Customers(customerTable(customerRow(7)), Options{})
	require.NoError(t, err)

	require.Len(t, res.Records, 1)
	rec := res.Records[0]
	assert.Equal(t, int64(7), rec.ID)
	assert.Equal(t, "F", rec.Gender)
	assert.Equal(t, "GERMANY", rec.Country)
	require.NotNil(t, rec.Age)
	assert.Equal(t, int64(34), *rec.Age)
	require.NotNil(t, rec.Revenue)
	assert.Equal(t, 240.0, *rec.Revenue)
	assert.Empty(t, res.Ops)
}

func TestCustomers_UppercasesCategoricals(t *testing.T) {
	row := customerRow(1)
	row["gender"] = "f"
	row["country"] = "Germany"

	res, err := Customers(customerTable(row), Options{})
	require.NoError(t, err)

	require.Len(t, res.Records, 1)
	assert.Equal(t, "F", res.Records[0].Gender)
	assert.Equal(t, "GERMANY", res.Records[0].Country)
	assert.Len(t, opsByAction(res.Ops, model.ActionNormalizeCase), 2)
}

func TestCustomers_ModeImputation(t *testing.T) {
	first := customerRow(1)
	second := customerRow(2)
	second["gender"] = "M"
	third := customerRow(3)
	third["gender"] = nil

	res, err := Customers(customerTable(first, second, third), Options{})
	require.NoError(t, err)

	require.Len(t, res.Records, 3)
	// "F" and "M" tie at one observation each; the first seen wins.
	assert.Equal(t, "F", res.Records[2].Gender)

	imputes := opsByAction(res.Ops, model.ActionImputeMode)
	require.Len(t, imputes, 1)
	assert.Equal(t, "gender", imputes[0].Column)
	assert.Equal(t, "customer 3", imputes[0].RowIdentity)
}

func TestCustomers_MissingFeaturesStayAbsent(t *testing.T) {
	row := customerRow(4)
	row["age"] = nil
	row["avg_session_duration"] = ""

	res, err := Customers(customerTable(row), Options{})
	require.NoError(t, err)

	require.Len(t, res.Records, 1)
	rec := res.Records[0]
	assert.Nil(t, rec.Age)
	assert.Nil(t, rec.AvgSessionDuration)
	require.NotNil(t, rec.Sessions)
	assert.Empty(t, opsByAction(res.Ops, model.ActionImputeZero))
}

func TestCustomers_NoDeduplication(t *testing.T) {
	res, err := Customers(customerTable(customerRow(5), customerRow(5)), Options{})
	require.NoError(t, err)

	assert.Len(t, res.Records, 2)
	assert.Zero(t, res.Report.DuplicatesFound)
}

func TestCustomers_MalformedValue(t *testing.T) {
	row := customerRow(6)
	row["age"] = "unknown"
	table := customerTable(row)

	_, err := Customers(table, Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedValue)
	assert.Contains(t, err.Error(), "customer 6")

	res, err := Customers(table, Options{SkipErrors: true})
	require.NoError(t, err)
	assert.Empty(t, res.Records)
	require.Len(t, opsByAction(res.Ops, model.ActionDropInvalid), 1)
}

func TestCustomers_Exclusions(t *testing.T) {
	res, err := Customers(customerTable(customerRow(1), customerRow(2)), Options{
		Exclusions: []Exclusion{{Row: 0, Reason: "age must be greater than zero"}},
	})
	require.NoError(t, err)

	require.Len(t, res.Records, 1)
	assert.Equal(t, int64(2), res.Records[0].ID)
	drops := opsByAction(res.Ops, model.ActionDropViolation)
	require.Len(t, drops, 1)
	assert.Equal(t, "customer 1", drops[0].RowIdentity)
}

func TestCustomers_QualityReport(t *testing.T) {
	first := customerRow(1)
	second := customerRow(2)
	second["revenue"] = nil

	res, err := Customers(customerTable(first, second), Options{})
	require.NoError(t, err)

	report := res.Report
	assert.Equal(t, model.EntityCustomer, report.Entity)
	assert.Equal(t, 2, report.TotalRecords)
	assert.Equal(t, 1, report.MissingByColumn["revenue"])

	var revenueStats *model.ColumnStats
	for i := range report.NumericStats {
		if report.NumericStats[i].Column == model.FeatureRevenue {
			revenueStats = &report.NumericStats[i]
		}
	}
	require.NotNil(t, revenueStats)
	assert.Equal(t, 1, revenueStats.Count)
	assert.InDelta(t, 240.0, revenueStats.Mean, 1e-9)
}
