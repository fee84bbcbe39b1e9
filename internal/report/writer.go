package report

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"
)

// Formats.
const (
	FormatXLSX = "xlsx"
	FormatCSV  = "csv"
)

// CheckFormat rejects a report format the writer cannot produce.
func CheckFormat(format string) error {
	switch format {
	case FormatXLSX, FormatCSV:
		return nil
	default:
		return eris.Errorf("report: unknown format %q (valid: xlsx, csv)", format)
	}
}

// rename is swapped in tests.
var rename = os.Rename

// Writer publishes a report set into Dir.
type Writer struct {
	Dir     string
	Formats []string
}

// WriteCSV writes t as a ';'-delimited UTF-8 CSV file.
func WriteCSV(t Table, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrap(err, "report: create csv")
	}
	defer f.Close() //nolint:errcheck

	w := csv.NewWriter(f)
	w.Comma = ';'

	if err := w.Write(t.Columns); err != nil {
		return eris.Wrap(err, "report: write csv header")
	}
	rec := make([]string, len(t.Columns))
	for _, row := range t.Rows {
		for i, v := range row {
			rec[i] = v.String()
		}
		if err := w.Write(rec); err != nil {
			return eris.Wrap(err, "report: write csv row")
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return eris.Wrap(err, "report: flush csv")
	}
	return f.Close()
}

// WriteXLSX writes t as a single-sheet workbook. Cells keep their types.
func WriteXLSX(t Table, path string) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet(sheetName(t.Name))
	if err != nil {
		return eris.Wrap(err, "report: add sheet")
	}

	header := sheet.AddRow()
	for _, c := range t.Columns {
		header.AddCell().SetString(c)
	}
	for _, row := range t.Rows {
		r := sheet.AddRow()
		for _, v := range row {
			setCell(r.AddCell(), v)
		}
	}

	if err := f.Save(path); err != nil {
		return eris.Wrap(err, "report: save xlsx")
	}
	return nil
}

func setCell(c *xlsx.Cell, v Value) {
	switch v.kind {
	case kindText:
		c.SetString(v.s)
	case kindInt:
		c.SetInt64(v.i)
	case kindMoney, kindFloat:
		c.SetFloat(v.f)
	case kindBool:
		c.SetBool(v.b)
	}
}

// Excel caps sheet names at 31 characters.
func sheetName(name string) string {
	if len(name) > 31 {
		return name[:31]
	}
	return name
}

// Write renders every table in every configured format plus summary.json.
// Files are staged in a temporary directory inside Dir and moved into
// place only after all of them were written. If publishing fails midway the
// moved files are withdrawn and the ones they replaced restored, so Dir
// holds either the previous report set or the new one. It returns the
// published paths.
func (w *Writer) Write(ctx context.Context, tables []Table, summary any) ([]string, error) {
	log := zap.L().With(zap.String("component", "report"))

	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return nil, eris.Wrap(err, "report: create output dir")
	}
	stage, err := os.MkdirTemp(w.Dir, ".staging-*")
	if err != nil {
		return nil, eris.Wrap(err, "report: create staging dir")
	}
	defer os.RemoveAll(stage) //nolint:errcheck

	var names []string
	for _, t := range tables {
		for _, format := range w.Formats {
			if err := ctx.Err(); err != nil {
				return nil, eris.Wrap(err, "report: write")
			}
			name := t.Name + "." + format
			path := filepath.Join(stage, name)
			switch format {
			case FormatCSV:
				err = WriteCSV(t, path)
			case FormatXLSX:
				err = WriteXLSX(t, path)
			default:
				err = CheckFormat(format)
			}
			if err != nil {
				return nil, eris.Wrapf(err, "report: write %s", name)
			}
			names = append(names, name)
		}
	}

	if summary != nil {
		if err := writeJSON(filepath.Join(stage, SummaryFile), summary); err != nil {
			return nil, err
		}
		names = append(names, SummaryFile)
	}

	paths, err := publish(stage, w.Dir, names)
	if err != nil {
		return nil, err
	}

	log.Info("report: published",
		zap.String("dir", w.Dir),
		zap.Int("tables", len(tables)),
		zap.Int("files", len(paths)),
	)
	return paths, nil
}

// publish moves the staged files into dir. Files they replace are parked
// in a backup directory under stage until every move succeeded.
func publish(stage, dir string, names []string) ([]string, error) {
	backup := filepath.Join(stage, ".previous")
	if err := os.Mkdir(backup, 0o755); err != nil {
		return nil, eris.Wrap(err, "report: create backup dir")
	}

	var moved []string
	rollback := func() {
		for i := len(moved) - 1; i >= 0; i-- {
			dst := filepath.Join(dir, moved[i])
			_ = os.Remove(dst)
			_ = rename(filepath.Join(backup, moved[i]), dst)
		}
	}

	paths := make([]string, 0, len(names))
	for _, name := range names {
		dst := filepath.Join(dir, name)
		if err := rename(dst, filepath.Join(backup, name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			rollback()
			return nil, eris.Wrapf(err, "report: back up %s", name)
		}
		moved = append(moved, name)
		if err := rename(filepath.Join(stage, name), dst); err != nil {
			rollback()
			return nil, eris.Wrapf(err, "report: publish %s", name)
		}
		paths = append(paths, dst)
	}
	return paths, nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return eris.Wrap(err, "report: marshal summary")
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return eris.Wrap(err, "report: write summary")
	}
	return nil
}
