// Package reconcile joins inventory, linkage and web records into the
// reconciled product set.
package reconcile

import (
	"github.com/rotisserie/eris"

	"github.com/sells-group/winerecon/internal/model"
)

// JoinKind selects the semantics of both join steps.
type JoinKind string

const (
	// JoinLeft keeps every inventory row; unmatched rows carry a null web identity.
	JoinLeft JoinKind = "left"
	// JoinInner keeps only rows with a confirmed link and a web product.
	JoinInner JoinKind = "inner"
)

// ParseJoinKind validates a configured join kind.
func ParseJoinKind(s string) (JoinKind, error) {
	switch JoinKind(s) {
	case JoinLeft, JoinInner:
		return JoinKind(s), nil
	default:
		return "", eris.Errorf("reconcile: unknown join kind %q (valid: left, inner)", s)
	}
}

// StepStats counts the outcome of one join step.
type StepStats struct {
	LeftRows  int `json:"left_rows"`
	Matched   int `json:"matched"`   // left rows with at least one match
	Unmatched int `json:"unmatched"` // left rows with no match
	Output    int `json:"output"`
}

// JoinStats summarizes both join steps.
type JoinStats struct {
	Kind  JoinKind  `json:"kind"`
	Links StepStats `json:"links"`
	Web   StepStats `json:"web"`
}

// FilterProducts returns the web rows whose post_type is "product".
func FilterProducts(web []model.WebRecord) []model.WebRecord {
	out := make([]model.WebRecord, 0, len(web))
	for _, w := range web {
		if w.IsProduct() {
			out = append(out, w)
		}
	}
	return out
}

// CleanLinks drops links with a missing product id or web id.
func CleanLinks(links []model.LinkRecord) []model.LinkRecord {
	out := make([]model.LinkRecord, 0, len(links))
	for _, l := range links {
		if l.Valid() {
			out = append(out, l)
		}
	}
	return out
}

// linked is the intermediate row of inventory ⨝ links.
type linked struct {
	inv   model.InventoryRecord
	webID *string
}

// Join reconciles the three sources. links must already be cleaned and web
// already filtered to products; Join applies both again so that callers
// cannot leak non-product rows or broken links into the result.
//
// Keys match by exact equality on their normalized form: product ids as
// integers, web ids as text. Null keys never match. Duplicate keys on
// either side yield every pairing, in left-row order then right-row order.
func Join(inv []model.InventoryRecord, links []model.LinkRecord, web []model.WebRecord, kind JoinKind) ([]model.ReconciledRecord, JoinStats) {
	links = CleanLinks(links)
	web = FilterProducts(web)
	stats := JoinStats{Kind: kind}

	linksByProduct := make(map[int64][]model.LinkRecord, len(links))
	for _, l := range links {
		linksByProduct[*l.ProductID] = append(linksByProduct[*l.ProductID], l)
	}

	var step1 []linked
	stats.Links.LeftRows = len(inv)
	for _, r := range inv {
		var matches []model.LinkRecord
		if r.ProductID != nil {
			matches = linksByProduct[*r.ProductID]
		}
		if len(matches) == 0 {
			stats.Links.Unmatched++
			if kind == JoinLeft {
				step1 = append(step1, linked{inv: r})
			}
			continue
		}
		stats.Links.Matched++
		for _, l := range matches {
			step1 = append(step1, linked{inv: r, webID: l.WebID})
		}
	}
	stats.Links.Output = len(step1)

	webByID := make(map[string][]model.WebRecord, len(web))
	for _, w := range web {
		if w.SKU == nil {
			continue
		}
		webByID[*w.SKU] = append(webByID[*w.SKU], w)
	}

	out := make([]model.ReconciledRecord, 0, len(step1))
	stats.Web.LeftRows = len(step1)
	for _, l := range step1 {
		var matches []model.WebRecord
		if l.webID != nil {
			matches = webByID[*l.webID]
		}
		if len(matches) == 0 {
			stats.Web.Unmatched++
			if kind == JoinLeft {
				out = append(out, newRecord(l, nil))
			}
			continue
		}
		stats.Web.Matched++
		for i := range matches {
			out = append(out, newRecord(l, &matches[i]))
		}
	}
	stats.Web.Output = len(out)

	return out, stats
}

func newRecord(l linked, w *model.WebRecord) model.ReconciledRecord {
	rec := model.ReconciledRecord{
		ProductID:     l.inv.ProductID,
		WebID:         l.webID,
		Price:         l.inv.Price,
		StockQuantity: l.inv.StockQuantity,
		StockStatus:   l.inv.StockStatus,
	}
	if w != nil {
		rec.SKU = w.SKU
		rec.PostTitle = w.PostTitle
		rec.TotalSales = w.TotalSales
	}
	return rec
}
