// Package audit runs the soft integrity checks: duplicate keys, orphaned
// identities and price outliers. Findings are warnings and never halt a run.
package audit

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"

	"github.com/sells-group/winerecon/internal/metric"
	"github.com/sells-group/winerecon/internal/model"
)

// Finding names.
const (
	FindingInventoryDuplicates = "duplicates_inventory"
	FindingWebDuplicates       = "duplicates_web"
	FindingInventoryOrphans    = "orphans_inventory_without_web"
	FindingWebOrphans          = "orphans_web_without_inventory"
	FindingPriceOutliers       = "price_outliers"
)

// Input is everything the auditor looks at. Web must hold product rows
// only and Links must be cleaned.
type Input struct {
	Inventory  []model.InventoryRecord
	Web        []model.WebRecord
	Links      []model.LinkRecord
	Reconciled []model.ReconciledRecord
}

// Finding is one soft check result as logged at warn level.
type Finding = model.Warning

// Options configures the outlier check.
type Options struct {
	Threshold float64 // absolute z-score magnitude
	Mode      metric.StdDevMode
}

// Report bundles every soft finding of a run.
type Report struct {
	Duplicates Duplicates `json:"duplicates"`
	Orphans    Orphans    `json:"orphans"`
	Outliers   Outliers   `json:"outliers"`
}

// Run evaluates all soft checks.
func Run(in Input, opts Options) Report {
	return Report{
		Duplicates: FindDuplicates(in.Inventory, in.Web),
		Orphans:    FindOrphans(in.Inventory, in.Web, in.Links),
		Outliers:   FindOutliers(in.Reconciled, opts),
	}
}

// Warnings flattens the report into log-ready findings. Checks with nothing
// to report are omitted.
func (r Report) Warnings() []Finding {
	var out []Finding
	d := r.Duplicates
	if d.InventoryCount > 0 {
		out = append(out, Finding{
			Name:    FindingInventoryDuplicates,
			Count:   d.InventoryCount,
			Keys:    formatIDs(d.InventoryKeys),
			Message: fmt.Sprintf("%d duplicate product_id in inventory", d.InventoryCount),
		})
	}
	if d.WebCount > 0 {
		out = append(out, Finding{
			Name:    FindingWebDuplicates,
			Count:   d.WebCount,
			Keys:    d.WebKeys,
			Message: fmt.Sprintf("%d duplicate sku among web products", d.WebCount),
		})
	}
	o := r.Orphans
	if n := len(o.InventoryWithoutWeb); n > 0 {
		out = append(out, Finding{
			Name:    FindingInventoryOrphans,
			Count:   n,
			Message: fmt.Sprintf("%d inventory products are not in the linkage table", n),
		})
	}
	if n := len(o.WebWithoutInventory); n > 0 {
		out = append(out, Finding{
			Name:    FindingWebOrphans,
			Count:   n,
			Keys:    o.WebIDs,
			Message: fmt.Sprintf("%d web products are not in the linkage table", n),
		})
	}
	if n := len(r.Outliers.All); n > 0 {
		out = append(out, Finding{
			Name:    FindingPriceOutliers,
			Count:   n,
			Message: fmt.Sprintf("%d products have |z-score| > %g on price", n, r.Outliers.Threshold),
		})
	}
	return out
}

func formatIDs(ids []int64) []string {
	if len(ids) == 0 {
		return nil
	}
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = strconv.FormatInt(id, 10)
	}
	return out
}

func sortedInts(set map[int64]bool) []int64 {
	if len(set) == 0 {
		return nil
	}
	out := make([]int64, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

// sortedIDs orders web identities numerically when both are integers,
// integers before text, and text lexically.
func sortedIDs(set map[string]bool) []string {
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	slices.SortFunc(out, compareIDs)
	return out
}

// compareIDs orders two web identities.
func compareIDs(a, b string) int {
	ai, aerr := strconv.ParseInt(a, 10, 64)
	bi, berr := strconv.ParseInt(b, 10, 64)
	switch {
	case aerr == nil && berr == nil:
		return cmp.Compare(ai, bi)
	case aerr == nil:
		return -1
	case berr == nil:
		return 1
	default:
		return cmp.Compare(a, b)
	}
}
