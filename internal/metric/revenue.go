package metric

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/sells-group/winerecon/internal/model"
)

// Options configures Enrich.
type Options struct {
	Mode             StdDevMode
	PremiumThreshold float64
}

// Revenue returns a copy of rows with revenue = price * total_sales. Rows
// without a web match already carry total_sales 0; rows without a price get
// a nil revenue.
func Revenue(rows []model.ReconciledRecord) []model.ReconciledRecord {
	out := make([]model.ReconciledRecord, len(rows))
	for i, r := range rows {
		if r.Price != nil {
			r.Revenue = model.Float64(*r.Price * float64(r.TotalSales))
		} else {
			r.Revenue = nil
		}
		out[i] = r
	}
	return out
}

// Enrich computes revenue and the price z-score of every row, then flags
// rows whose z-score is above the premium threshold. The z-score population
// is the non-null finite prices; rows outside it keep a nil z-score and are
// never flagged.
func Enrich(rows []model.ReconciledRecord, opts Options) ([]model.ReconciledRecord, Stats) {
	out := Revenue(rows)

	idx := make([]int, 0, len(out))
	prices := make([]float64, 0, len(out))
	for i, r := range out {
		if r.Price == nil || math.IsNaN(*r.Price) || math.IsInf(*r.Price, 0) {
			out[i].PriceZScore = nil
			out[i].IsOutlier = false
			continue
		}
		idx = append(idx, i)
		prices = append(prices, *r.Price)
	}

	z, stats := ZScores(prices, opts.Mode)
	for j, i := range idx {
		out[i].PriceZScore = model.Float64(z[j])
		out[i].IsOutlier = z[j] > opts.PremiumThreshold
	}
	return out, stats
}

// TotalRevenue sums the non-null revenues exactly.
func TotalRevenue(rows []model.ReconciledRecord) decimal.Decimal {
	total := decimal.Zero
	for _, r := range rows {
		if r.Revenue != nil {
			total = total.Add(decimal.NewFromFloat(*r.Revenue))
		}
	}
	return total
}
