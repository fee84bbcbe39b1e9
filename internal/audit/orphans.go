package audit

import "github.com/sells-group/winerecon/internal/model"

// Orphans lists identities missing from the cleaned linkage table, in both
// directions. A null identity is always an orphan.
type Orphans struct {
	InventoryWithoutWeb []model.InventoryRecord `json:"-"`
	WebWithoutInventory []model.WebRecord       `json:"-"`
	// WebIDs are the distinct orphaned web identities in order of
	// appearance. They are excluded from the migratable set.
	WebIDs []string `json:"web_ids,omitempty"`
}

// FindOrphans checks inventory against link product ids and web products
// against link web ids. links must be cleaned.
func FindOrphans(inv []model.InventoryRecord, web []model.WebRecord, links []model.LinkRecord) Orphans {
	linkedProducts := make(map[int64]bool, len(links))
	linkedWeb := make(map[string]bool, len(links))
	for _, l := range links {
		if l.ProductID != nil {
			linkedProducts[*l.ProductID] = true
		}
		if l.WebID != nil {
			linkedWeb[*l.WebID] = true
		}
	}

	var o Orphans
	for _, r := range inv {
		if r.ProductID == nil || !linkedProducts[*r.ProductID] {
			o.InventoryWithoutWeb = append(o.InventoryWithoutWeb, r)
		}
	}

	listed := make(map[string]bool)
	for _, w := range web {
		if w.SKU != nil && linkedWeb[*w.SKU] {
			continue
		}
		o.WebWithoutInventory = append(o.WebWithoutInventory, w)
		if w.SKU != nil && !listed[*w.SKU] {
			listed[*w.SKU] = true
			o.WebIDs = append(o.WebIDs, *w.SKU)
		}
	}
	return o
}
