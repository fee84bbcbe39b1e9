package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Source names.
const (
	Inventory = "inventory"
	Web       = "web"
	Links     = "links"
)

// Required columns per source.
var (
	InventoryColumns = []string{"product_id", "price", "stock_quantity", "stock_status"}
	WebColumns       = []string{"sku", "post_type", "total_sales"}
	LinkColumns      = []string{"product_id", "id_web"}
)

// File names a source, where it lives and which columns it must carry.
type File struct {
	Name     string
	Path     string
	Required []string
}

// LoadError reports that a required source table could not be read. It is
// fatal for the run.
type LoadError struct {
	Source string
	Path   string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("source %s (%s): %v", e.Source, e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Load reads one source. Files ending in .xlsx are read as workbooks, all
// others as delimited text. Every failure is returned as a *LoadError.
func Load(ctx context.Context, src File, opts CSVOptions) (*Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, &LoadError{Source: src.Name, Path: src.Path, Err: eris.Wrap(err, "source: context cancelled")}
	}

	t, err := read(src, opts)
	if err != nil {
		return nil, &LoadError{Source: src.Name, Path: src.Path, Err: err}
	}
	if err := t.Require(src.Required...); err != nil {
		return nil, &LoadError{Source: src.Name, Path: src.Path, Err: err}
	}

	zap.L().Info("source: loaded",
		zap.String("source", src.Name),
		zap.String("path", src.Path),
		zap.Int("rows", t.Len()),
	)
	return t, nil
}

func read(src File, opts CSVOptions) (*Table, error) {
	if strings.EqualFold(filepath.Ext(src.Path), ".xlsx") {
		return ReadXLSX(src.Name, src.Path)
	}

	f, err := os.Open(src.Path)
	if err != nil {
		return nil, eris.Wrap(err, "source: open")
	}
	defer f.Close() //nolint:errcheck

	return ReadCSV(src.Name, f, opts)
}
