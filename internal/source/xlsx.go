package source

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// ReadXLSX reads the first sheet of a workbook into a Table. The first row
// is the header.
func ReadXLSX(name, path string) (*Table, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "xlsx: open file")
	}
	if len(f.Sheets) == 0 {
		return nil, eris.Errorf("xlsx: %s: workbook has no sheets", name)
	}

	sheet := f.Sheets[0]
	if len(sheet.Rows) == 0 {
		return nil, eris.Errorf("xlsx: %s: empty sheet, header row expected", name)
	}

	header := rowToStrings(sheet.Rows[0])
	var rows [][]string
	for _, row := range sheet.Rows[1:] {
		if row == nil {
			continue
		}
		cells := rowToStrings(row)
		if blankRecord(cells) {
			continue
		}
		rows = append(rows, cells)
	}

	return NewTable(name, header, rows), nil
}

func rowToStrings(row *xlsx.Row) []string {
	cells := make([]string, len(row.Cells))
	for j, cell := range row.Cells {
		cells[j] = cell.String()
	}
	return cells
}
