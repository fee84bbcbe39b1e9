package audit

import (
	"math"
	"sort"

	"github.com/sells-group/winerecon/internal/metric"
	"github.com/sells-group/winerecon/internal/model"
)

// Outlier is a reconciled row whose price z-score magnitude is above the
// audit threshold.
type Outlier struct {
	Record model.ReconciledRecord `json:"record"`
	ZScore float64                `json:"zscore"`
}

// Outliers is the full outlier list, sorted by z-score descending.
type Outliers struct {
	Threshold float64      `json:"threshold"`
	Stats     metric.Stats `json:"stats"`
	All       []Outlier    `json:"all"`
}

// Preview returns at most n outliers for human review.
func (o Outliers) Preview(n int) []Outlier {
	if n < 0 || n >= len(o.All) {
		return o.All
	}
	return o.All[:n]
}

// FindOutliers recomputes z-scores over the non-null finite prices of rows
// and keeps those with |z| > opts.Threshold.
func FindOutliers(rows []model.ReconciledRecord, opts Options) Outliers {
	idx := make([]int, 0, len(rows))
	prices := make([]float64, 0, len(rows))
	for i, r := range rows {
		if r.Price == nil || math.IsNaN(*r.Price) || math.IsInf(*r.Price, 0) {
			continue
		}
		idx = append(idx, i)
		prices = append(prices, *r.Price)
	}

	z, stats := metric.ZScores(prices, opts.Mode)
	out := Outliers{Threshold: opts.Threshold, Stats: stats}
	for j, i := range idx {
		if math.Abs(z[j]) > opts.Threshold {
			out.All = append(out.All, Outlier{Record: rows[i], ZScore: z[j]})
		}
	}
	sort.SliceStable(out.All, func(a, b int) bool { return out.All[a].ZScore > out.All[b].ZScore })
	return out
}
