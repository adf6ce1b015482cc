// Package importer provides CSV, Excel and DXF import for cut lists, stock
// catalogs and window openings. It supports automatic delimiter detection,
// flexible column mapping, and case-insensitive header recognition.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ColumnMapping maps semantic column roles to their indices in the data.
// A role that was not found maps to -1 (or is absent).
type ColumnMapping map[string]int

// Col returns the index for role, or -1.
func (m ColumnMapping) Col(role string) int {
	if idx, ok := m[role]; ok {
		return idx
	}
	return -1
}

// tableLayout describes one importable table: accepted header aliases per
// role, the positional order used when no header is present, and the roles
// a header must provide.
type tableLayout struct {
	aliases    map[string][]string
	positional []string
	required   []string
}

// DetectCSVDelimiter reads the file content and determines the most likely CSV delimiter.
// It tries comma, semicolon, tab, and pipe. The delimiter that produces the most
// consistent (non-one) column count across lines wins.
func DetectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t', '|'}
	bestDelimiter := ','
	bestScore := 0

	for _, delim := range candidates {
		reader := csv.NewReader(bytes.NewReader(data))
		reader.Comma = delim
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1

		records, err := reader.ReadAll()
		if err != nil || len(records) < 1 {
			continue
		}

		firstCols := len(records[0])
		if firstCols < 2 {
			continue
		}

		score := 0
		for _, row := range records {
			if len(row) == firstCols {
				score++
			}
		}

		weighted := score*10 + firstCols
		if weighted > bestScore {
			bestScore = weighted
			bestDelimiter = delim
		}
	}

	return bestDelimiter
}

// detectColumns examines a header row against the layout aliases. It
// returns the mapping and true if a header was detected, or the positional
// mapping and false if no cell matched a known alias.
func detectColumns(row []string, layout tableLayout) (ColumnMapping, bool) {
	mapping := ColumnMapping{}
	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for role, aliases := range layout.aliases {
			if _, taken := mapping[role]; taken {
				continue
			}
			for _, alias := range aliases {
				if normalized == alias {
					mapping[role] = i
					break
				}
			}
		}
	}

	if len(mapping) == 0 {
		positional := ColumnMapping{}
		for i, role := range layout.positional {
			positional[role] = i
		}
		return positional, false
	}
	return mapping, true
}

// getCell safely retrieves a cell value from a row by column index.
// Returns empty string if the index is out of range or negative.
func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseMillimeters parses a length cell. Fractional values are rounded to
// the nearest millimeter; the second return reports whether rounding
// changed the value.
func parseMillimeters(s string) (int, bool, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false, err
	}
	rounded := math.Round(f)
	return int(rounded), rounded != f, nil
}

// isEmptyRow returns true if the row has no meaningful content.
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// readCSVFile loads all records of a CSV file with delimiter detection.
// Returned warnings note a non-comma delimiter. A non-empty errMsg means
// nothing could be read.
func readCSVFile(path string) (records [][]string, warnings []string, errMsg string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Sprintf("Cannot open file: %v", err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil, "File is empty"
	}

	delimiter := DetectCSVDelimiter(data)
	if delimiter != ',' {
		delimName := map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}[delimiter]
		warnings = append(warnings, fmt.Sprintf("Detected %s delimiter", delimName))
	}

	records, errMsg = readCSV(bytes.NewReader(data), delimiter)
	return records, warnings, errMsg
}

func readCSV(r io.Reader, delimiter rune) ([][]string, string) {
	reader := csv.NewReader(r)
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Sprintf("Cannot read CSV: %v", err)
	}
	if len(records) == 0 {
		return nil, "File is empty"
	}
	return records, ""
}

// readExcelFile returns the rows of the first sheet of an Excel workbook.
func readExcelFile(path string) ([][]string, string) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Sprintf("Cannot open Excel file: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, "Excel file has no sheets"
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Sprintf("Cannot read Excel data: %v", err)
	}
	if len(rows) == 0 {
		return nil, "Sheet is empty"
	}
	return rows, ""
}

// rowParser turns one data row into a record. It returns an error message
// or a warning message, either of which may be empty.
type rowParser func(row []string, mapping ColumnMapping, rowLabel string) (errMsg, warning string)

// walkRows is the shared import loop for CSV and Excel data. It detects
// the header, validates required columns, and feeds each non-empty row to
// parse. numericCol is the positional column expected to hold a number in
// a data row; a first row failing that check is skipped as an unrecognized
// header.
func walkRows(rows [][]string, layout tableLayout, numericCol int, rowPrefix string, parse rowParser) (errs, warnings []string) {
	if len(rows) == 0 {
		return []string{"No data rows found"}, nil
	}

	mapping, hasHeader := detectColumns(rows[0], layout)
	startRow := 0
	if hasHeader {
		startRow = 1
		warnings = append(warnings, "Detected header row, skipping")

		var missing []string
		for _, role := range layout.required {
			if mapping.Col(role) == -1 {
				missing = append(missing, columnTitle(role))
			}
		}
		if len(missing) > 0 {
			errs = append(errs, fmt.Sprintf("Required columns not found in header: %s", strings.Join(missing, ", ")))
			return errs, warnings
		}
	} else if len(rows[0]) > numericCol {
		if _, _, err := parseMillimeters(getCell(rows[0], numericCol)); err != nil {
			startRow = 1
			warnings = append(warnings, "Detected header row, skipping")
		}
	}

	for i := startRow; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}

		rowLabel := fmt.Sprintf("%s %d", rowPrefix, i+1)
		errMsg, warning := parse(row, mapping, rowLabel)
		if errMsg != "" {
			errs = append(errs, errMsg)
			continue
		}
		if warning != "" {
			warnings = append(warnings, warning)
		}
	}
	return errs, warnings
}

// columnTitle turns a role key such as "profile_id" into "Profile Id".
func columnTitle(role string) string {
	words := strings.Split(role, "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
