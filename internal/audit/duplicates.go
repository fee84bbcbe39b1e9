package audit

import "github.com/sells-group/winerecon/internal/model"

// Duplicates counts repeated identities. Counts are extra occurrences: a key
// seen three times contributes two. Null keys are not counted.
type Duplicates struct {
	InventoryCount int      `json:"inventory_count"`
	InventoryKeys  []int64  `json:"inventory_keys,omitempty"`
	WebCount       int      `json:"web_count"`
	WebKeys        []string `json:"web_keys,omitempty"`
}

// FindDuplicates checks product_id in inventory and sku among web products.
func FindDuplicates(inv []model.InventoryRecord, web []model.WebRecord) Duplicates {
	invIDs := make([]*int64, len(inv))
	for i, r := range inv {
		invIDs[i] = r.ProductID
	}
	webIDs := make([]*string, len(web))
	for i, r := range web {
		webIDs[i] = r.SKU
	}

	invCount, invDups := repeated(invIDs)
	webCount, webDups := repeated(webIDs)
	return Duplicates{
		InventoryCount: invCount,
		InventoryKeys:  sortedInts(invDups),
		WebCount:       webCount,
		WebKeys:        sortedIDs(webDups),
	}
}

func repeated[K comparable](ids []*K) (int, map[K]bool) {
	seen := make(map[K]bool, len(ids))
	dups := make(map[K]bool)
	count := 0
	for _, id := range ids {
		if id == nil {
			continue
		}
		if seen[*id] {
			count++
			dups[*id] = true
			continue
		}
		seen[*id] = true
	}
	return count, dups
}
