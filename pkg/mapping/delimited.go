package mapping

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/matzehuels/slideslot/pkg/errors"
)

// readCSV decodes a CSV mapping with a header row.
func readCSV(r io.Reader) (*Batch, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidMapping, err, "decode CSV mapping")
	}
	return fromTable(rows)
}

// readXLSX decodes the first sheet of a workbook as a table with a header row.
func readXLSX(r io.Reader) (*Batch, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidMapping, err, "open XLSX mapping")
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidMapping, "XLSX mapping has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidMapping, err, "read sheet %q", sheets[0])
	}
	return fromTable(rows)
}

// fromTable normalizes a header row followed by data rows. Rows that are
// entirely blank are skipped.
func fromTable(rows [][]string) (*Batch, error) {
	batch := &Batch{}
	if len(rows) == 0 {
		return batch, nil
	}

	columns := make(map[int]string, len(rows[0]))
	hasImage := false
	for i, name := range rows[0] {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		columns[i] = name
		if name == fieldImage {
			hasImage = true
		}
	}
	if !hasImage {
		return nil, errors.New(errors.ErrCodeInvalidMapping, "header row has no %s column", fieldImage)
	}

	for i, row := range rows[1:] {
		if blankRow(row) {
			continue
		}
		f := make(fields, len(row))
		for j, cell := range row {
			if name, ok := columns[j]; ok {
				f[name] = cell
			}
		}
		req, err := f.request()
		if err != nil {
			// Header is line 1.
			return nil, recordFailure(i+2, strings.Join(row, ","), err)
		}
		batch.Requests = append(batch.Requests, req)
	}
	return batch, nil
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
