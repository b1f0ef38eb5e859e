// Package tabular reads domain lists and reads/writes cookie tables as CSV
// or XLSX.
package tabular

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/use-agent/cookieharvest/models"
	"github.com/xuri/excelize/v2"
)

// Format is an output file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatBoth Format = "both"
)

// SheetName is the worksheet written to XLSX output.
const SheetName = "Sheet1"

// FormatFromPath infers the format from the file extension. Anything that
// is not .xlsx is treated as CSV.
func FormatFromPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return FormatXLSX
	}
	return FormatCSV
}

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCSV, FormatXLSX, FormatBoth:
		return f, nil
	}
	return "", models.NewHarvestError(models.ErrCodeInvalidInput, fmt.Sprintf("unsupported output format %q", s), nil)
}

// Paths returns the files written for path in the given format. The
// extension of path is replaced to match each concrete format.
func Paths(path string, format Format) []string {
	stem := strings.TrimSuffix(path, filepath.Ext(path))
	switch format {
	case FormatCSV:
		return []string{stem + ".csv"}
	case FormatXLSX:
		return []string{stem + ".xlsx"}
	case FormatBoth:
		return []string{stem + ".csv", stem + ".xlsx"}
	}
	return nil
}

// LoadDomains reads the first column of a header-less CSV file or of the
// first sheet of an XLSX workbook. Blank cells are dropped.
func LoadDomains(path string) ([]string, error) {
	rows, err := readRows(path)
	if err != nil {
		return nil, models.NewHarvestError(models.ErrCodeInvalidInput, "failed to read domain list "+path, err)
	}

	domains := make([]string, 0, len(rows))
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		if d := strings.TrimSpace(row[0]); d != "" {
			domains = append(domains, d)
		}
	}
	return domains, nil
}

// LoadExisting reads a cookie table written by Save. A missing file is an
// empty batch. Columns are matched by header name.
func LoadExisting(path string) (models.CookieBatch, error) {
	rows, err := readRows(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, models.NewHarvestError(models.ErrCodeInvalidInput, "failed to read existing output "+path, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	index := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		index[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}
	cell := func(row []string, column string) string {
		i, ok := index[column]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	var batch models.CookieBatch
	for _, row := range rows[1:] {
		batch = append(batch, models.CookieRecord{
			Domain:       cell(row, models.CookieColumns[0]),
			CookieDomain: cell(row, models.CookieColumns[1]),
			Name:         cell(row, models.CookieColumns[2]),
			Value:        cell(row, models.CookieColumns[3]),
		})
	}
	return batch, nil
}

// Save writes batch with a CookieColumns header to path in a single
// concrete format (csv or xlsx).
func Save(path string, format Format, batch models.CookieBatch) error {
	var err error
	switch format {
	case FormatCSV:
		err = saveCSV(path, batch)
	case FormatXLSX:
		err = saveXLSX(path, batch)
	default:
		return models.NewHarvestError(models.ErrCodeInvalidInput, fmt.Sprintf("cannot save format %q", format), nil)
	}
	if err != nil {
		return models.NewHarvestError(models.ErrCodeOutput, "failed to write "+path, err)
	}
	return nil
}

func readRows(path string) ([][]string, error) {
	if FormatFromPath(path) == FormatXLSX {
		return readXLSX(path)
	}
	return readCSV(path)
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var rows [][]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return nil, fmt.Errorf("parse csv: %w", err)
		}
		rows = append(rows, rec)
	}
}

func readXLSX(path string) ([][]string, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}
	return rows, nil
}

func saveCSV(path string, batch models.CookieBatch) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	w := csv.NewWriter(f)
	if err := w.Write(models.CookieColumns); err != nil {
		f.Close()
		return err
	}
	for _, rec := range batch {
		if err := w.Write(rec.Row()); err != nil {
			f.Close()
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func saveXLSX(path string, batch models.CookieBatch) error {
	f := excelize.NewFile()
	defer f.Close()

	sw, err := f.NewStreamWriter(SheetName)
	if err != nil {
		return err
	}
	if err := sw.SetRow("A1", toCells(models.CookieColumns)); err != nil {
		return err
	}
	for i, rec := range batch {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, toCells(rec.Row())); err != nil {
			return err
		}
	}
	if err := sw.Flush(); err != nil {
		return err
	}
	return f.SaveAs(path)
}

func toCells(values []string) []any {
	cells := make([]any, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return cells
}
