package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTable_GetCaseInsensitiveAndBOM(t *testing.T) {
	tbl := NewTable("erp", []string{"\ufeffProduct_ID", " Price "}, [][]string{{"1", "2,5"}})
	assert.True(t, tbl.Has("product_id"))
	assert.Equal(t, "1", tbl.Get(0, "product_id"))
	assert.Equal(t, "2,5", tbl.Get(0, "PRICE"))
}

func TestTable_GetOutOfRange(t *testing.T) {
	tbl := NewTable("erp", []string{"a", "b"}, [][]string{{"1"}})
	assert.Equal(t, "", tbl.Get(0, "b"))
	assert.Equal(t, "", tbl.Get(5, "a"))
	assert.Equal(t, "", tbl.Get(0, "missing"))
}

func TestTable_Require(t *testing.T) {
	tbl := NewTable("web", []string{"sku", "post_type"}, nil)
	require.NoError(t, tbl.Require("sku"))

	err := tbl.Require("sku", "total_sales", "post_title")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "total_sales, post_title")
}

func TestTable_WithColumnCopies(t *testing.T) {
	orig := NewTable("erp", []string{"price", "stock"}, [][]string{{"1,5", "3"}, {"2,0"}})
	out := orig.WithColumn("price", func(s string) string { return s + "!" })

	assert.Equal(t, "1,5!", out.Get(0, "price"))
	assert.Equal(t, "2,0!", out.Get(1, "price"))
	assert.Equal(t, "", out.Get(1, "stock"))
	// Original untouched.
	assert.Equal(t, "1,5", orig.Get(0, "price"))
	assert.Len(t, orig.Rows[1], 1)
}
