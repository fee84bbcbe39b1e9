package report

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/winerecon/internal/model"
)

func rec(id int64, price float64, z float64, outlier bool) model.ReconciledRecord {
	return model.ReconciledRecord{
		ProductID:   model.Int64(id),
		WebID:       model.String(strconv.FormatInt(id, 10)),
		Price:       model.Float64(price),
		TotalSales:  2,
		Revenue:     model.Float64(price * 2),
		PriceZScore: model.Float64(z),
		IsOutlier:   outlier,
	}
}

func column(t Table, name string) []string {
	idx := -1
	for i, c := range t.Columns {
		if c == name {
			idx = i
		}
	}
	out := make([]string, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = r[idx].String()
	}
	return out
}

func TestFull_ColumnsAndOrder(t *testing.T) {
	rows := []model.ReconciledRecord{
		rec(3, 10, 0.5, false),
		rec(1, 10.5, -0.25, false),
		{ProductID: model.Int64(2), StockStatus: "outofstock"},
	}
	tbl := Full(RevenuePerProduct, rows)

	assert.Equal(t, []string{"product_id", "id_web", "price", "stock_quantity", "stock_status", "total_sales", "revenue", "price_zscore", "is_outlier"}, tbl.Columns)
	assert.Equal(t, 3, tbl.Len())
	assert.Equal(t, []string{"3", "1", "2"}, column(tbl, "product_id"))
	assert.Equal(t, []string{"3", "1", ""}, column(tbl, "id_web"))
	assert.Equal(t, []string{"20.00", "21.00", ""}, column(tbl, "revenue"))
	assert.Equal(t, []string{"0.5", "-0.25", ""}, column(tbl, "price_zscore"))
	assert.Equal(t, []string{"false", "false", "false"}, column(tbl, "is_outlier"))
	assert.Equal(t, []string{"", "", "outofstock"}, column(tbl, "stock_status"))
}

func TestFull_TextWebID(t *testing.T) {
	r := rec(1, 25, 0, false)
	r.WebID = model.String("bon-cadeau-25-euros")
	tbl := Full(Migratable, []model.ReconciledRecord{r})
	assert.Equal(t, []string{"bon-cadeau-25-euros"}, column(tbl, "id_web"))
}

func TestPremium_SortedByZDescending(t *testing.T) {
	rows := []model.ReconciledRecord{
		rec(1, 100, 2.5, true),
		rec(2, 10, 0, false),
		rec(3, 200, 3.5, true),
		rec(4, 150, 2.1, true),
	}
	tbl := Premium(rows)

	assert.Equal(t, []string{"product_id", "id_web", "price", "total_sales", "revenue", "price_zscore"}, tbl.Columns)
	assert.Equal(t, []string{"3", "1", "4"}, column(tbl, "product_id"))
}

func TestOrdinary_AtOrBelowThreshold(t *testing.T) {
	rows := []model.ReconciledRecord{
		rec(1, 100, 2.5, true),
		rec(2, 10, 2, false),
		rec(3, 10, -1, false),
		{ProductID: model.Int64(4)},
	}
	tbl := Ordinary(rows, 2)
	assert.Equal(t, []string{"2", "3"}, column(tbl, "product_id"))
}

func TestUnlinked_SortedByProductID(t *testing.T) {
	inv := []model.InventoryRecord{
		{ProductID: model.Int64(9), Price: model.Float64(12)},
		{ProductID: model.Int64(1), Price: model.Float64(10)},
		{},
		{ProductID: model.Int64(4), Price: model.Float64(10.5), StockQuantity: 3, StockStatus: "instock"},
	}
	links := []model.LinkRecord{{ProductID: model.Int64(1), WebID: model.String("1")}}

	tbl := Unlinked(inv, links)
	assert.Equal(t, []string{"product_id", "price", "stock_quantity", "stock_status"}, tbl.Columns)
	assert.Equal(t, []string{"4", "9", ""}, column(tbl, "product_id"))
	assert.Equal(t, []string{"10.50", "12.00", ""}, column(tbl, "price"))
}

func TestBuild_AllTables(t *testing.T) {
	tables := Build(Input{PremiumThreshold: 2})
	names := make([]string, len(tables))
	for i, tbl := range tables {
		names[i] = tbl.Name
		assert.Zero(t, tbl.Len())
	}
	assert.Equal(t, []string{RevenuePerProduct, PremiumWines, OrdinaryWines, Migratable, UnlinkedInventory}, names)
}

func TestValue_String(t *testing.T) {
	assert.Equal(t, "", Value{}.String())
	assert.True(t, Value{}.IsNull())
	assert.Equal(t, "abc", text("abc").String())
	assert.Equal(t, "-7", integer(-7).String())
	assert.Equal(t, "true", boolean(true).String())
	assert.Equal(t, "40.00", money(model.Float64(40)).String())
	assert.Equal(t, "2.846", number(model.Float64(2.846)).String())
}
