// Package remediate turns the reconciled set into the migratable set by
// removing the rows the audit flagged.
package remediate

import (
	"github.com/sells-group/winerecon/internal/audit"
	"github.com/sells-group/winerecon/internal/model"
)

// Plan is the precomputed exclusion set.
type Plan struct {
	OrphanWebIDs []string `json:"orphan_web_ids,omitempty"`
}

// PlanFrom builds a plan from an audit report.
func PlanFrom(r audit.Report) Plan {
	return Plan{OrphanWebIDs: r.Orphans.WebIDs}
}

// Summary counts dropped rows per reason.
type Summary struct {
	Input        int `json:"input"`
	Orphans      int `json:"dropped_orphans"`
	MissingWeb   int `json:"dropped_missing_web_id"`
	DuplicateWeb int `json:"dropped_duplicate_web_id"`
	Output       int `json:"output"`
}

// Dropped is the total number of excluded rows.
func (s Summary) Dropped() int {
	return s.Orphans + s.MissingWeb + s.DuplicateWeb
}

// DedupeWeb keeps the first row per sku, in row order. Rows without a sku
// are kept.
func DedupeWeb(web []model.WebRecord) []model.WebRecord {
	seen := make(map[string]bool, len(web))
	out := make([]model.WebRecord, 0, len(web))
	for _, w := range web {
		if w.SKU != nil {
			if seen[*w.SKU] {
				continue
			}
			seen[*w.SKU] = true
		}
		out = append(out, w)
	}
	return out
}

// Apply filters rows in a single pass. It drops rows whose web id is in
// the orphan set, rows without a web id and every repeat of a web id after
// its first occurrence. The input is not modified. Applying the same plan
// to its own output returns it unchanged.
func Apply(rows []model.ReconciledRecord, plan Plan) ([]model.ReconciledRecord, Summary) {
	orphan := make(map[string]bool, len(plan.OrphanWebIDs))
	for _, id := range plan.OrphanWebIDs {
		orphan[id] = true
	}

	sum := Summary{Input: len(rows)}
	seen := make(map[string]bool, len(rows))
	out := make([]model.ReconciledRecord, 0, len(rows))
	for _, r := range rows {
		switch {
		case r.WebID == nil:
			sum.MissingWeb++
		case orphan[*r.WebID]:
			sum.Orphans++
		case seen[*r.WebID]:
			sum.DuplicateWeb++
		default:
			seen[*r.WebID] = true
			out = append(out, r)
		}
	}
	sum.Output = len(out)
	return out, sum
}
