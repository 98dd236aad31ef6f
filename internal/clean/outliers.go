package clean

import (
	"fmt"
	"slices"

	"gonum.org/v1/gonum/stat"

	"github.com/Veraticus/spice-harvester/internal/model"
)

// costFences returns the IQR fences for campaign cost. Values outside
// them are advisory outliers.
func costFences(records []model.CampaignRecord, multiplier float64) (lo, hi float64, ok bool) {
	if len(records) == 0 {
		return 0, 0, false
	}
	costs := make([]float64, len(records))
	for i := range records {
		costs[i] = records[i].Cost
	}
	slices.Sort(costs)

	q1 := stat.Quantile(0.25, stat.LinInterp, costs, nil)
	q3 := stat.Quantile(0.75, stat.LinInterp, costs, nil)
	iqr := q3 - q1
	return q1 - multiplier*iqr, q3 + multiplier*iqr, true
}

// flagCostOutliers marks records whose cost falls outside the IQR fences.
// Flagged records are kept; the flag never gates later stages.
func flagCostOutliers(res *CampaignResult, multiplier float64) {
	lo, hi, ok := costFences(res.Records, multiplier)
	if !ok {
		return
	}
	for i := range res.Records {
		rec := &res.Records[i]
		if rec.Cost >= lo && rec.Cost <= hi {
			continue
		}
		rec.CostOutlier = true
		res.Report.OutliersFlagged++
		res.Ops = append(res.Ops, model.CleaningOp{
			OriginalValue: rec.Cost,
			NewValue:      true,
			Entity:        model.EntityCampaign,
			Column:        "cost",
			RowIdentity:   campaignIdentity(*rec),
			Action:        model.ActionFlagOutlier,
			Reason:        fmt.Sprintf("cost outside [%.2f, %.2f]", lo, hi),
		})
	}
}
