package pipeline

import (
	"fmt"

	"github.com/sells-group/winerecon/internal/model"
)

// CheckReadiness verifies the migratable set can be handed downstream
// together with the deduplicated web catalogue. It returns one message per
// problem; an empty result means ready.
func CheckReadiness(rows []model.ReconciledRecord, catalogue []model.WebRecord, orphanWebIDs []string) []string {
	if len(rows) == 0 {
		return []string{"migratable set is empty"}
	}

	orphan := make(map[string]bool, len(orphanWebIDs))
	for _, id := range orphanWebIDs {
		orphan[id] = true
	}
	listed := make(map[string]bool, len(catalogue))
	for _, w := range catalogue {
		if w.SKU != nil {
			listed[*w.SKU] = true
		}
	}

	var dupProducts, dupWeb, orphans, uncatalogued, missing int
	products := make(map[int64]bool, len(rows))
	web := make(map[string]bool, len(rows))
	for _, r := range rows {
		if r.ProductID == nil || r.WebID == nil || r.Price == nil {
			missing++
		}
		if r.ProductID != nil {
			if products[*r.ProductID] {
				dupProducts++
			}
			products[*r.ProductID] = true
		}
		if r.WebID != nil {
			if web[*r.WebID] {
				dupWeb++
			}
			web[*r.WebID] = true
			if orphan[*r.WebID] {
				orphans++
			}
			if !listed[*r.WebID] {
				uncatalogued++
			}
		}
	}

	var problems []string
	if dupProducts > 0 {
		problems = append(problems, fmt.Sprintf("%d duplicate product_id", dupProducts))
	}
	if dupWeb > 0 {
		problems = append(problems, fmt.Sprintf("%d duplicate id_web", dupWeb))
	}
	if orphans > 0 {
		problems = append(problems, fmt.Sprintf("%d orphaned id_web", orphans))
	}
	if uncatalogued > 0 {
		problems = append(problems, fmt.Sprintf("%d id_web not in web catalogue", uncatalogued))
	}
	if missing > 0 {
		problems = append(problems, fmt.Sprintf("%d rows missing product_id, id_web or price", missing))
	}
	return problems
}
