// Package spreadsheet reads import files (.xlsx, .csv) into header-keyed
// rows and writes the export and template workbooks.
package spreadsheet

import (
	"encoding/csv"
	"io"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

var ErrUnsupportedFormat = errors.New("unsupported file format")

// Row maps a normalized header to the cell value.
type Row struct {
	Line   int
	Values map[string]string
}

// Get returns the first non-empty value among the given headers.
func (r Row) Get(keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(r.Values[k]); v != "" {
			return v
		}
	}
	return ""
}

var headerReplacer = strings.NewReplacer(
	"á", "a", "é", "e", "í", "i", "ó", "o", "ú", "u", "ñ", "n",
	" ", "_", "-", "_", ".", "",
)

// NormalizeHeader lowercases, strips accents and joins words with "_",
// so "ITR Asociado" and "itr_asociado" are the same column.
func NormalizeHeader(h string) string {
	return headerReplacer.Replace(strings.ToLower(strings.TrimSpace(h)))
}

// Parse picks the reader by file extension. The whole file is parsed
// before anything is returned, so a broken file yields no rows at all.
func Parse(filename string, r io.Reader) ([]Row, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx":
		return ParseXLSX(r)
	case ".csv":
		return ParseCSV(r)
	default:
		return nil, errors.Wrap(ErrUnsupportedFormat, filepath.Ext(filename))
	}
}

func ParseCSV(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.LazyQuotes = true

	// csv skips blank lines, so keep the physical line of every record
	var records []record
	for {
		cells, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "failed to read csv")
		}
		line, _ := cr.FieldPos(0)
		records = append(records, record{line: line, cells: cells})
	}
	return toRows(records)
}

// ParseXLSX reads the first sheet of the workbook.
func ParseXLSX(r io.Reader) ([]Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open workbook")
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}

	cells, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read sheet %q", sheets[0])
	}

	records := make([]record, len(cells))
	for i, c := range cells {
		records[i] = record{line: i + 1, cells: c}
	}
	return toRows(records)
}

type record struct {
	line  int
	cells []string
}

func toRows(records []record) ([]Row, error) {
	if len(records) == 0 {
		return nil, errors.New("file is empty")
	}

	header := make([]string, len(records[0].cells))
	for i, h := range records[0].cells {
		header[i] = NormalizeHeader(strings.TrimPrefix(h, "\ufeff"))
	}

	var rows []Row
	for _, rec := range records[1:] {
		if blank(rec.cells) {
			continue
		}
		values := make(map[string]string, len(header))
		for j, h := range header {
			if h == "" || j >= len(rec.cells) {
				continue
			}
			values[h] = strings.TrimSpace(rec.cells[j])
		}
		rows = append(rows, Row{Line: rec.line, Values: values})
	}
	return rows, nil
}

func blank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
