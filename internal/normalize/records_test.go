package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/winerecon/internal/source"
)

func TestInventory(t *testing.T) {
	tbl := source.NewTable("inventory",
		[]string{"product_id", "price", "stock_quantity", "stock_status"},
		[][]string{
			{"1", "10.00", "5", "instock"},
			{"2", "10,50", "3", "instock"},
			{" ", "abc", "beaucoup", " outofstock "},
		})

	recs := Inventory(tbl)
	require.Len(t, recs, 3)

	require.NotNil(t, recs[0].ProductID)
	assert.Equal(t, int64(1), *recs[0].ProductID)
	assert.InDelta(t, 10.0, *recs[0].Price, 1e-12)
	assert.Equal(t, int64(5), recs[0].StockQuantity)

	assert.InDelta(t, 10.5, *recs[1].Price, 1e-12)
	assert.Equal(t, 1, recs[1].Row)

	assert.Nil(t, recs[2].ProductID)
	assert.Nil(t, recs[2].Price)
	assert.Equal(t, int64(0), recs[2].StockQuantity)
	assert.Equal(t, "outofstock", recs[2].StockStatus)
}

func TestWeb(t *testing.T) {
	tbl := source.NewTable("web",
		[]string{"sku", "post_type", "total_sales", "post_title"},
		[][]string{
			{"1", "product", "4", "Chablis 2019"},
			{"2", "attachment", "", ""},
			{"bon-cadeau-25-euros", "product", "nan", "Bon cadeau"},
			{" 12.0 ", "product", "1", "Margaux"},
			{"nan", "product", "1", ""},
		})

	recs := Web(tbl)
	require.Len(t, recs, 5)
	assert.Equal(t, "1", *recs[0].SKU)
	assert.True(t, recs[0].IsProduct())
	assert.Equal(t, int64(4), recs[0].TotalSales)
	assert.Equal(t, "Chablis 2019", recs[0].PostTitle)

	assert.False(t, recs[1].IsProduct())
	assert.Equal(t, int64(0), recs[1].TotalSales)

	require.NotNil(t, recs[2].SKU)
	assert.Equal(t, "bon-cadeau-25-euros", *recs[2].SKU)
	assert.Equal(t, int64(0), recs[2].TotalSales)

	assert.Equal(t, "12", *recs[3].SKU)
	assert.Nil(t, recs[4].SKU)
}

func TestWeb_NoTitleColumn(t *testing.T) {
	tbl := source.NewTable("web", []string{"sku", "post_type", "total_sales"}, [][]string{{"1", "product", "2"}})
	recs := Web(tbl)
	require.Len(t, recs, 1)
	assert.Equal(t, "", recs[0].PostTitle)
}

func TestLinks(t *testing.T) {
	tbl := source.NewTable("links", []string{"product_id", "id_web"}, [][]string{
		{"1", "1"},
		{"2", ""},
		{"nan", "3"},
		{"4", " bon-cadeau-25-euros "},
	})

	recs := Links(tbl)
	require.Len(t, recs, 4)
	assert.True(t, recs[0].Valid())
	assert.False(t, recs[1].Valid())
	assert.False(t, recs[2].Valid())
	assert.Equal(t, "3", *recs[2].WebID)
	assert.True(t, recs[3].Valid())
	assert.Equal(t, "bon-cadeau-25-euros", *recs[3].WebID)
}

func TestBuildersOnCanonicalTable(t *testing.T) {
	tbl := source.NewTable("web", []string{"sku", "post_type", "total_sales"}, [][]string{
		{" 7.0 ", " product ", "3,0"},
		{"SKU-A", "product", "x"},
	})

	canon := Table(tbl, WebSchema)
	assert.Equal(t, "7", canon.Get(0, "sku"))
	assert.Equal(t, "product", canon.Get(0, "post_type"))
	assert.Equal(t, "3", canon.Get(0, "total_sales"))
	assert.Equal(t, "", canon.Get(1, "total_sales"))

	raw, clean := Web(tbl), Web(canon)
	assert.Equal(t, raw, clean)
	assert.True(t, clean[0].IsProduct())
	assert.Equal(t, "SKU-A", *clean[1].SKU)
}
