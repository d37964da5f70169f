// Package ingest turns uploaded CSV and spreadsheet exports into an ordered
// sequence of header-to-cell-text row mappings for the sales pipeline.
package ingest

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"

	"salesfeed/internal/domain"
)

// Row maps a header name to the display text of one cell.
type Row map[string]string

// utf8BOM is stripped from CSV sources exported by Excel on Windows.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Extract dispatches on file type and returns the data rows of the source,
// header row excluded. Rows with no populated cells are dropped.
func Extract(fileType domain.FileType, data []byte) ([]Row, error) {
	switch fileType {
	case domain.FileTypeCSV:
		return FromCSV(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM)))
	case domain.FileTypeXLSX:
		return FromXLSX(bytes.NewReader(data))
	case domain.FileTypeXLS:
		return FromXLS(bytes.NewReader(data))
	default:
		return nil, fmt.Errorf("extracting rows: %w", domain.ErrUnsupportedFileType)
	}
}

// FromCSV reads a CSV blob into rows keyed by the header line.
func FromCSV(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading csv: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}
	return assemble(records[0], records[1:]), nil
}

// FromXLSX reads the first sheet of an xlsx workbook. Cell text preference:
// the formatted display string, then the raw stored value, then the computed
// formula result. Only display text should reach the numeric parser, since
// the stored value can differ from what the operator saw.
func FromXLSX(r io.Reader) ([]Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}
	sheet := sheets[0]

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("reading xlsx sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	headers := rows[0]
	records := make([][]string, 0, len(rows)-1)
	for i, raw := range rows[1:] {
		rec := make([]string, len(headers))
		for j := range headers {
			var cell string
			if j < len(raw) {
				cell = raw[j]
			}
			if cell == "" {
				cell = fallbackCellText(f, sheet, j+1, i+2)
			}
			rec[j] = cell
		}
		records = append(records, rec)
	}
	return assemble(headers, records), nil
}

// fallbackCellText fetches the raw stored value, then the computed formula
// result, for cells whose formatted display text is empty.
func fallbackCellText(f *excelize.File, sheet string, col, row int) string {
	axis, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return ""
	}
	if raw, err := f.GetCellValue(sheet, axis, excelize.Options{RawCellValue: true}); err == nil && raw != "" {
		return raw
	}
	if calc, err := f.CalcCellValue(sheet, axis); err == nil {
		return calc
	}
	return ""
}

// FromXLS reads the first sheet of a legacy BIFF workbook.
func FromXLS(r io.ReadSeeker) ([]Row, error) {
	wb, err := xls.OpenReader(r, "utf-8")
	if err != nil {
		return nil, fmt.Errorf("opening xls: %w", err)
	}
	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, nil
	}

	var headers []string
	var records [][]string
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			continue
		}
		rec := make([]string, row.LastCol()+1)
		for j := row.FirstCol(); j <= row.LastCol(); j++ {
			rec[j] = row.Col(j)
		}
		if headers == nil {
			headers = rec
			continue
		}
		records = append(records, rec)
	}
	return assemble(headers, records), nil
}

// assemble builds header-keyed rows and drops rows with no populated cells.
func assemble(headers []string, records [][]string) []Row {
	cleaned := make([]string, len(headers))
	for i, h := range headers {
		cleaned[i] = strings.TrimSpace(h)
	}

	rows := make([]Row, 0, len(records))
	for _, rec := range records {
		row := make(Row, len(cleaned))
		populated := false
		for i, h := range cleaned {
			if h == "" {
				continue
			}
			var cell string
			if i < len(rec) {
				cell = strings.TrimSpace(rec[i])
			}
			if cell != "" {
				populated = true
			}
			row[h] = cell
		}
		if populated {
			rows = append(rows, row)
		}
	}
	return rows
}
