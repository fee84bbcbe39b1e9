// Package normalize canonicalizes join keys and locale-formatted numeric
// cells. It never fails on a malformed cell: the value degrades to null and
// the caller decides whether that null matters.
package normalize

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/sells-group/winerecon/internal/source"
)

// nullTokens are the textual spellings of "missing" seen in the extracts.
var nullTokens = map[string]bool{
	"nan":  true,
	"null": true,
	"none": true,
	"<na>": true,
	"na":   true,
	"n/a":  true,
	"#n/a": true,
	"nat":  true,
}

// Key trims s and reports whether anything meaningful is left. Empty strings
// and null tokens return ("", false).
func Key(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || nullTokens[strings.ToLower(s)] {
		return "", false
	}
	return s, true
}

// Int parses an integer identity or count. Integral decimals such as "12.0"
// or "12,0" are accepted; anything else is null.
func Int(s string) *int64 {
	s, ok := Key(s)
	if !ok {
		return nil
	}
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return &v
	}
	f := Decimal(s)
	if f == nil || *f != math.Trunc(*f) || math.Abs(*f) > math.MaxInt64/2 {
		return nil
	}
	v := int64(*f)
	return &v
}

// ID canonicalizes a text identity such as a sku. The trimmed text is the
// key; integral decimals such as "12.0" are rewritten to "12" so that a
// float-typed export agrees with an integer one. Null tokens return nil.
func ID(s string) *string {
	s, ok := Key(s)
	if !ok {
		return nil
	}
	if _, err := strconv.ParseInt(s, 10, 64); err != nil {
		if v := Int(s); v != nil {
			s = strconv.FormatInt(*v, 10)
		}
	}
	return &s
}

// IntOr parses like Int and falls back to def on null.
func IntOr(s string, def int64) int64 {
	if v := Int(s); v != nil {
		return *v
	}
	return def
}

// Decimal parses a decimal that may use a comma as fractional separator.
// NaN and infinities are rejected to null.
func Decimal(s string) *float64 {
	s, ok := Key(s)
	if !ok {
		return nil
	}
	s = strings.ReplaceAll(s, ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// Kind selects how Column canonicalizes a cell.
type Kind int

const (
	KindText    Kind = iota // trim, null tokens to ""
	KindInt                 // canonical base-10 integer or ""
	KindDecimal             // canonical period-separated decimal or ""
	KindID                  // text identity, see ID
)

// Cell canonicalizes one cell to its text form for the given kind. Nulls
// become the empty string.
func Cell(s string, kind Kind) string {
	switch kind {
	case KindInt:
		if v := Int(s); v != nil {
			return strconv.FormatInt(*v, 10)
		}
		return ""
	case KindDecimal:
		if v := Decimal(s); v != nil {
			return strconv.FormatFloat(*v, 'f', -1, 64)
		}
		return ""
	case KindID:
		if v := ID(s); v != nil {
			return *v
		}
		return ""
	default:
		v, _ := Key(s)
		return v
	}
}

// Column returns a copy of t whose named column is canonicalized.
func Column(t *source.Table, col string, kind Kind) *source.Table {
	return t.WithColumn(col, func(s string) string { return Cell(s, kind) })
}

// Schema maps column names to the kind they are canonicalized to.
type Schema map[string]Kind

// Source schemas. Optional columns a table does not carry are skipped.
var (
	InventorySchema = Schema{
		"product_id":     KindInt,
		"price":          KindDecimal,
		"stock_quantity": KindInt,
		"stock_status":   KindText,
	}
	WebSchema = Schema{
		"sku":         KindID,
		"post_type":   KindText,
		"post_title":  KindText,
		"total_sales": KindInt,
	}
	LinkSchema = Schema{
		"product_id": KindInt,
		"id_web":     KindID,
	}
)

// Table returns a copy of t with every schema column canonicalized. t is
// not modified.
func Table(t *source.Table, s Schema) *source.Table {
	cols := make([]string, 0, len(s))
	for c := range s {
		cols = append(cols, c)
	}
	sort.Strings(cols)

	out := t
	for _, c := range cols {
		out = Column(out, c, s[c])
	}
	return out
}
