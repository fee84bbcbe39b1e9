// Package model defines the record types that flow through the reconciliation pipeline.
package model

// InventoryRecord is one row of the ERP inventory extract.
type InventoryRecord struct {
	ProductID     *int64   `json:"product_id"`
	Price         *float64 `json:"price"`
	StockQuantity int64    `json:"stock_quantity"`
	StockStatus   string   `json:"stock_status"`
	Row           int      `json:"-"` // 0-based position in the source file
}

// WebRecord is one row of the web storefront extract. SKU is the web
// identity, aliased id_web in the linkage table. Web identities are text
// keys; numeric ones are held in canonical base-10 form.
type WebRecord struct {
	SKU        *string `json:"sku"`
	PostType   string  `json:"post_type"`
	PostTitle  string  `json:"post_title,omitempty"`
	TotalSales int64   `json:"total_sales"`
	Row        int     `json:"-"`
}

// PostTypeProduct is the only web post_type that is in scope.
const PostTypeProduct = "product"

// IsProduct reports whether the web row describes a product.
func (w WebRecord) IsProduct() bool {
	return w.PostType == PostTypeProduct
}

// LinkRecord maps an inventory identity to a web identity.
type LinkRecord struct {
	ProductID *int64  `json:"product_id"`
	WebID     *string `json:"id_web"`
	Row       int     `json:"-"`
}

// Valid reports whether both sides of the link are present.
func (l LinkRecord) Valid() bool {
	return l.ProductID != nil && l.WebID != nil
}

// ReconciledRecord is the joined view of one inventory row, its link and its
// web row, plus the derived metrics.
type ReconciledRecord struct {
	ProductID     *int64   `json:"product_id"`
	WebID         *string  `json:"id_web"`
	SKU           *string  `json:"sku"`
	Price         *float64 `json:"price"`
	StockQuantity int64    `json:"stock_quantity"`
	StockStatus   string   `json:"stock_status"`
	PostTitle     string   `json:"post_title,omitempty"`
	TotalSales    int64    `json:"total_sales"`
	Revenue       *float64 `json:"revenue"`
	PriceZScore   *float64 `json:"price_zscore"`
	IsOutlier     bool     `json:"is_outlier"`
}

// Int64 returns a pointer to v.
func Int64(v int64) *int64 { return &v }

// String returns a pointer to v.
func String(v string) *string { return &v }

// Float64 returns a pointer to v.
func Float64(v float64) *float64 { return &v }
