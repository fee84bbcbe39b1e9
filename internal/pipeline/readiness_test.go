package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/winerecon/internal/model"
)

func ready(id int64, webID string) model.ReconciledRecord {
	return model.ReconciledRecord{ProductID: model.Int64(id), WebID: model.String(webID), Price: model.Float64(10)}
}

func catalogue(skus ...string) []model.WebRecord {
	out := make([]model.WebRecord, len(skus))
	for i, s := range skus {
		out[i] = model.WebRecord{SKU: model.String(s), PostType: model.PostTypeProduct}
	}
	return out
}

func TestCheckReadiness(t *testing.T) {
	tests := []struct {
		name    string
		rows    []model.ReconciledRecord
		web     []model.WebRecord
		orphans []string
		want    []string
	}{
		{name: "ready", rows: []model.ReconciledRecord{ready(1, "1"), ready(2, "bon-cadeau")}, web: catalogue("1", "bon-cadeau")},
		{name: "empty", want: []string{"migratable set is empty"}},
		{
			name: "duplicate ids",
			rows: []model.ReconciledRecord{ready(1, "1"), ready(1, "1")},
			web:  catalogue("1"),
			want: []string{"1 duplicate product_id", "1 duplicate id_web"},
		},
		{
			name:    "orphan",
			rows:    []model.ReconciledRecord{ready(1, "1"), ready(2, "ORPHAN-X")},
			web:     catalogue("1", "ORPHAN-X"),
			orphans: []string{"ORPHAN-X"},
			want:    []string{"1 orphaned id_web"},
		},
		{
			name: "not in catalogue",
			rows: []model.ReconciledRecord{ready(1, "1"), ready(2, "2")},
			web:  catalogue("1"),
			want: []string{"1 id_web not in web catalogue"},
		},
		{
			name: "missing price",
			rows: []model.ReconciledRecord{{ProductID: model.Int64(1), WebID: model.String("1")}},
			web:  catalogue("1"),
			want: []string{"1 rows missing product_id, id_web or price"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CheckReadiness(tt.rows, tt.web, tt.orphans))
		})
	}
}
