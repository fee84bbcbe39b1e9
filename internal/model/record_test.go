package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebRecord_IsProduct(t *testing.T) {
	assert.True(t, WebRecord{PostType: "product"}.IsProduct())
	assert.False(t, WebRecord{PostType: "Product"}.IsProduct())
	assert.False(t, WebRecord{PostType: "attachment"}.IsProduct())
	assert.False(t, WebRecord{}.IsProduct())
}

func TestLinkRecord_Valid(t *testing.T) {
	assert.True(t, LinkRecord{ProductID: Int64(1), WebID: String("2")}.Valid())
	assert.True(t, LinkRecord{ProductID: Int64(1), WebID: String("bon-cadeau-25-euros")}.Valid())
	assert.False(t, LinkRecord{ProductID: Int64(1)}.Valid())
	assert.False(t, LinkRecord{WebID: String("2")}.Valid())
}

func TestReconciledRecord_JSONNulls(t *testing.T) {
	r := ReconciledRecord{ProductID: Int64(3), StockStatus: "instock"}
	data, err := json.Marshal(r)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, float64(3), got["product_id"])
	assert.Nil(t, got["id_web"])
	assert.Nil(t, got["price_zscore"])
	assert.Equal(t, false, got["is_outlier"])

	r.WebID = String("12")
	data, err = json.Marshal(r)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"id_web":"12"`)
	_, hasTitle := got["post_title"]
	assert.False(t, hasTitle)
}
