package importer

import (
	"fmt"
	"io"
	"strconv"

	"github.com/piwi3910/ProfileCut/internal/model"
)

// ImportResult holds the results of a cut list import.
type ImportResult struct {
	Requirements []model.CutRequirement
	Errors       []string
	Warnings     []string
}

var requirementLayout = tableLayout{
	aliases: map[string][]string{
		"length":       {"length", "len", "length mm", "length_mm", "lengthmm", "cut length", "size"},
		"quantity":     {"quantity", "qty", "count", "num", "amount", "pcs", "pieces"},
		"profile_id":   {"profile id", "profile_id", "profileid", "stock id", "bar id"},
		"profile_type": {"profile type", "profile_type", "profiletype", "type", "material", "profile"},
	},
	positional: []string{"length", "quantity", "profile_type", "profile_id"},
	required:   []string{"length"},
}

// ImportCSV imports a cut list from a CSV file.
// It automatically detects the delimiter and maps columns by header names.
// Supports comma, semicolon, tab, and pipe delimiters.
func ImportCSV(path string) ImportResult {
	records, warnings, errMsg := readCSVFile(path)
	if errMsg != "" {
		return ImportResult{Errors: []string{errMsg}, Warnings: warnings}
	}
	return requirementsFromRows(records, "Line", warnings)
}

// ImportCSVFromReader imports a cut list from a CSV reader with a specific delimiter.
// This is useful for testing or when the delimiter is already known.
func ImportCSVFromReader(reader io.Reader, delimiter rune) ImportResult {
	records, errMsg := readCSV(reader, delimiter)
	if errMsg != "" {
		return ImportResult{Errors: []string{errMsg}}
	}
	return requirementsFromRows(records, "Line", nil)
}

// ImportExcel imports a cut list from the first sheet of an Excel file.
func ImportExcel(path string) ImportResult {
	rows, errMsg := readExcelFile(path)
	if errMsg != "" {
		return ImportResult{Errors: []string{errMsg}}
	}
	return requirementsFromRows(rows, "Row", nil)
}

func requirementsFromRows(rows [][]string, rowPrefix string, initialWarnings []string) ImportResult {
	result := ImportResult{}
	errs, warnings := walkRows(rows, requirementLayout, 0, rowPrefix,
		func(row []string, mapping ColumnMapping, rowLabel string) (string, string) {
			req, errMsg, warning := parseRequirementRow(row, mapping, rowLabel)
			if errMsg == "" {
				result.Requirements = append(result.Requirements, req)
			}
			return errMsg, warning
		})
	result.Errors = errs
	result.Warnings = append(initialWarnings, warnings...)
	return result
}

// parseRequirementRow extracts a CutRequirement from a row. A missing
// quantity means one piece.
func parseRequirementRow(row []string, mapping ColumnMapping, rowLabel string) (model.CutRequirement, string, string) {
	lengthStr := getCell(row, mapping.Col("length"))
	if lengthStr == "" {
		return model.CutRequirement{}, fmt.Sprintf("%s: Missing length value", rowLabel), ""
	}
	length, rounded, err := parseMillimeters(lengthStr)
	if err != nil {
		return model.CutRequirement{}, fmt.Sprintf("%s: Invalid length '%s'", rowLabel, lengthStr), ""
	}

	qty := 1
	if qtyStr := getCell(row, mapping.Col("quantity")); qtyStr != "" {
		qty, err = strconv.Atoi(qtyStr)
		if err != nil {
			return model.CutRequirement{}, fmt.Sprintf("%s: Invalid quantity '%s'", rowLabel, qtyStr), ""
		}
	}

	if length <= 0 || qty <= 0 {
		return model.CutRequirement{}, fmt.Sprintf("%s: Length and quantity must be positive", rowLabel), ""
	}

	req := model.CutRequirement{
		LengthMm:    length,
		Quantity:    qty,
		ProfileID:   getCell(row, mapping.Col("profile_id")),
		ProfileType: getCell(row, mapping.Col("profile_type")),
	}

	var warning string
	if rounded {
		warning = fmt.Sprintf("%s: Length '%s' rounded to %dmm", rowLabel, lengthStr, length)
	}
	return req, "", warning
}
