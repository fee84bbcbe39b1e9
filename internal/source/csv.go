package source

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
)

// CSVOptions configures the delimited-text reader.
type CSVOptions struct {
	Delimiter rune   // default ';'
	Encoding  string // default "latin1"; "utf-8" disables decoding
}

// ReadCSV reads a delimited source with a header row into a Table.
func ReadCSV(name string, r io.Reader, opts CSVOptions) (*Table, error) {
	dec, err := Decoder(opts.Encoding)
	if err != nil {
		return nil, err
	}
	if dec != nil {
		r = dec.NewDecoder().Reader(r)
	}

	reader := csv.NewReader(r)
	reader.Comma = ';'
	if opts.Delimiter != 0 {
		reader.Comma = opts.Delimiter
	}
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1 // allow variable fields

	header, err := reader.Read()
	if err == io.EOF {
		return nil, eris.Errorf("csv: %s: empty file, header row expected", name)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "csv: %s: read header", name)
	}

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrapf(err, "csv: %s: read row %d", name, len(rows)+1)
		}
		if blankRecord(record) {
			continue
		}
		rows = append(rows, record)
	}

	return NewTable(name, header, rows), nil
}

// Decoder resolves a legacy encoding name. It returns nil for UTF-8.
// Latin-1 aliases map to ISO-8859-1 exactly rather than the WHATWG
// windows-1252 superset that htmlindex would pick.
func Decoder(name string) (encoding.Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8":
		return nil, nil
	case "latin1", "latin-1", "iso-8859-1", "iso8859-1", "l1":
		return charmap.ISO8859_1, nil
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, eris.Wrapf(err, "csv: unsupported encoding %q", name)
	}
	return enc, nil
}

func blankRecord(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
