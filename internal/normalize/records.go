package normalize

import (
	"github.com/sells-group/winerecon/internal/model"
	"github.com/sells-group/winerecon/internal/source"
)

// Inventory converts the ERP table into typed records. Unparseable
// product ids and prices become nil; an unparseable stock quantity is 0.
func Inventory(t *source.Table) []model.InventoryRecord {
	out := make([]model.InventoryRecord, 0, t.Len())
	for i := range t.Rows {
		status, _ := Key(t.Get(i, "stock_status"))
		out = append(out, model.InventoryRecord{
			ProductID:     Int(t.Get(i, "product_id")),
			Price:         Decimal(t.Get(i, "price")),
			StockQuantity: IntOr(t.Get(i, "stock_quantity"), 0),
			StockStatus:   status,
			Row:           i,
		})
	}
	return out
}

// Web converts the storefront table into typed records. Missing or
// unparseable total_sales is 0.
func Web(t *source.Table) []model.WebRecord {
	out := make([]model.WebRecord, 0, t.Len())
	for i := range t.Rows {
		postType, _ := Key(t.Get(i, "post_type"))
		title, _ := Key(t.Get(i, "post_title"))
		out = append(out, model.WebRecord{
			SKU:        ID(t.Get(i, "sku")),
			PostType:   postType,
			PostTitle:  title,
			TotalSales: IntOr(t.Get(i, "total_sales"), 0),
			Row:        i,
		})
	}
	return out
}

// Links converts the linkage table into typed records. id_web is a text
// identity, product_id an integer. Invalid links are kept here;
// reconcile.CleanLinks drops them.
func Links(t *source.Table) []model.LinkRecord {
	out := make([]model.LinkRecord, 0, t.Len())
	for i := range t.Rows {
		out = append(out, model.LinkRecord{
			ProductID: Int(t.Get(i, "product_id")),
			WebID:     ID(t.Get(i, "id_web")),
			Row:       i,
		})
	}
	return out
}
