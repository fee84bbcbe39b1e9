// Package report builds the report tables and writes them as xlsx and csv
// artifacts.
package report

import (
	"sort"
	"strconv"

	"github.com/sells-group/winerecon/internal/model"
)

// Artifact names, without extension.
const (
	RevenuePerProduct = "revenue_per_product"
	PremiumWines      = "premium_wines"
	OrdinaryWines     = "ordinary_wines"
	Migratable        = "migratable_products"
	UnlinkedInventory = "unlinked_inventory"
	SummaryFile       = "summary.json"
)

// fullColumns is the column order of the full reconciled table.
var fullColumns = []string{
	"product_id",
	"id_web",
	"price",
	"stock_quantity",
	"stock_status",
	"total_sales",
	"revenue",
	"price_zscore",
	"is_outlier",
}

// outlierColumns is the column order of the premium and ordinary subsets.
var outlierColumns = []string{
	"product_id",
	"id_web",
	"price",
	"total_sales",
	"revenue",
	"price_zscore",
}

// unlinkedColumns is the column order of the unlinked inventory table.
var unlinkedColumns = []string{
	"product_id",
	"price",
	"stock_quantity",
	"stock_status",
}

type kind int

const (
	kindNull kind = iota
	kindText
	kindInt
	kindMoney
	kindFloat
	kindBool
)

// Value is one typed cell.
type Value struct {
	kind kind
	s    string
	i    int64
	f    float64
	b    bool
}

func text(s string) Value { return Value{kind: kindText, s: s} }
func integer(i int64) Value { return Value{kind: kindInt, i: i} }
func boolean(b bool) Value { return Value{kind: kindBool, b: b} }

func intPtr(p *int64) Value {
	if p == nil {
		return Value{}
	}
	return integer(*p)
}

func textPtr(p *string) Value {
	if p == nil {
		return Value{}
	}
	return text(*p)
}

func money(p *float64) Value {
	if p == nil {
		return Value{}
	}
	return Value{kind: kindMoney, f: *p}
}

func number(p *float64) Value {
	if p == nil {
		return Value{}
	}
	return Value{kind: kindFloat, f: *p}
}

// IsNull reports whether the cell is empty.
func (v Value) IsNull() bool { return v.kind == kindNull }

// String renders the cell for text formats. Money keeps two decimals.
func (v Value) String() string {
	switch v.kind {
	case kindText:
		return v.s
	case kindInt:
		return strconv.FormatInt(v.i, 10)
	case kindMoney:
		return strconv.FormatFloat(v.f, 'f', 2, 64)
	case kindFloat:
		return strconv.FormatFloat(v.f, 'f', -1, 64)
	case kindBool:
		return strconv.FormatBool(v.b)
	default:
		return ""
	}
}

// Table is one report artifact before serialization.
type Table struct {
	Name    string
	Columns []string
	Rows    [][]Value
}

// Len returns the number of data rows.
func (t Table) Len() int { return len(t.Rows) }

// Input holds everything the report set is built from.
type Input struct {
	Reconciled       []model.ReconciledRecord
	Migratable       []model.ReconciledRecord
	Inventory        []model.InventoryRecord
	Links            []model.LinkRecord // cleaned
	PremiumThreshold float64
}

// Build returns every report table in write order.
func Build(in Input) []Table {
	return []Table{
		Full(RevenuePerProduct, in.Reconciled),
		Premium(in.Reconciled),
		Ordinary(in.Reconciled, in.PremiumThreshold),
		Full(Migratable, in.Migratable),
		Unlinked(in.Inventory, in.Links),
	}
}

// Full renders rows in input order with every reconciled column.
func Full(name string, rows []model.ReconciledRecord) Table {
	t := Table{Name: name, Columns: fullColumns, Rows: make([][]Value, 0, len(rows))}
	for _, r := range rows {
		t.Rows = append(t.Rows, []Value{
			intPtr(r.ProductID),
			textPtr(r.WebID),
			money(r.Price),
			integer(r.StockQuantity),
			text(r.StockStatus),
			integer(r.TotalSales),
			money(r.Revenue),
			number(r.PriceZScore),
			boolean(r.IsOutlier),
		})
	}
	return t
}

// Premium renders the flagged rows sorted by z-score descending.
func Premium(rows []model.ReconciledRecord) Table {
	var sel []model.ReconciledRecord
	for _, r := range rows {
		if r.IsOutlier && r.PriceZScore != nil {
			sel = append(sel, r)
		}
	}
	sort.SliceStable(sel, func(i, j int) bool { return *sel[i].PriceZScore > *sel[j].PriceZScore })
	return outlierTable(PremiumWines, sel)
}

// Ordinary renders rows with z <= threshold in input order. Rows without a
// z-score are excluded.
func Ordinary(rows []model.ReconciledRecord, threshold float64) Table {
	var sel []model.ReconciledRecord
	for _, r := range rows {
		if r.PriceZScore != nil && *r.PriceZScore <= threshold {
			sel = append(sel, r)
		}
	}
	return outlierTable(OrdinaryWines, sel)
}

func outlierTable(name string, rows []model.ReconciledRecord) Table {
	t := Table{Name: name, Columns: outlierColumns, Rows: make([][]Value, 0, len(rows))}
	for _, r := range rows {
		t.Rows = append(t.Rows, []Value{
			intPtr(r.ProductID),
			textPtr(r.WebID),
			money(r.Price),
			integer(r.TotalSales),
			money(r.Revenue),
			number(r.PriceZScore),
		})
	}
	return t
}

// Unlinked renders inventory rows without a confirmed link, sorted by
// product id ascending. Rows with a null product id sort last.
func Unlinked(inv []model.InventoryRecord, links []model.LinkRecord) Table {
	linked := make(map[int64]bool, len(links))
	for _, l := range links {
		if l.Valid() {
			linked[*l.ProductID] = true
		}
	}

	var sel []model.InventoryRecord
	for _, r := range inv {
		if r.ProductID == nil || !linked[*r.ProductID] {
			sel = append(sel, r)
		}
	}
	sort.SliceStable(sel, func(i, j int) bool {
		a, b := sel[i].ProductID, sel[j].ProductID
		if a == nil || b == nil {
			return a != nil
		}
		return *a < *b
	})

	t := Table{Name: UnlinkedInventory, Columns: unlinkedColumns, Rows: make([][]Value, 0, len(sel))}
	for _, r := range sel {
		t.Rows = append(t.Rows, []Value{
			intPtr(r.ProductID),
			money(r.Price),
			integer(r.StockQuantity),
			text(r.StockStatus),
		})
	}
	return t
}
