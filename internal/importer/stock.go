package importer

import (
	"fmt"
	"io"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/piwi3910/ProfileCut/internal/model"
)

// StockImportResult holds the results of a stock catalog import.
type StockImportResult struct {
	Profiles []model.InventoryProfile
	Errors   []string
	Warnings []string
}

var stockLayout = tableLayout{
	aliases: map[string][]string{
		"sku":          {"sku", "code", "article", "article no", "part number"},
		"name":         {"name", "description", "desc", "label"},
		"profile_type": {"type", "profile type", "profile_type", "profiletype", "material"},
		"length":       {"length", "len", "length mm", "length_mm", "bar length", "stock length"},
		"quantity":     {"quantity", "qty", "stock", "on hand", "count", "bars"},
		"scrap":        {"scrap", "scrap allowance", "scrap_allowance_mm", "trim", "end trim"},
		"price":        {"price", "price per bar", "price_per_bar", "cost", "unit price"},
	},
	positional: []string{"sku", "name", "profile_type", "length", "quantity", "scrap", "price"},
	required:   []string{"length"},
}

// ImportStockCSV imports stock profiles from a CSV file.
func ImportStockCSV(path string) StockImportResult {
	records, warnings, errMsg := readCSVFile(path)
	if errMsg != "" {
		return StockImportResult{Errors: []string{errMsg}, Warnings: warnings}
	}
	return stockFromRows(records, "Line", warnings)
}

// ImportStockCSVFromReader imports stock profiles from a CSV reader with a
// specific delimiter.
func ImportStockCSVFromReader(reader io.Reader, delimiter rune) StockImportResult {
	records, errMsg := readCSV(reader, delimiter)
	if errMsg != "" {
		return StockImportResult{Errors: []string{errMsg}}
	}
	return stockFromRows(records, "Line", nil)
}

// ImportStockExcel imports stock profiles from the first sheet of an Excel file.
func ImportStockExcel(path string) StockImportResult {
	rows, errMsg := readExcelFile(path)
	if errMsg != "" {
		return StockImportResult{Errors: []string{errMsg}}
	}
	return stockFromRows(rows, "Row", nil)
}

func stockFromRows(rows [][]string, rowPrefix string, initialWarnings []string) StockImportResult {
	result := StockImportResult{}
	errs, warnings := walkRows(rows, stockLayout, 3, rowPrefix,
		func(row []string, mapping ColumnMapping, rowLabel string) (string, string) {
			p, errMsg, warning := parseStockRow(row, mapping, rowLabel, len(result.Profiles))
			if errMsg == "" {
				result.Profiles = append(result.Profiles, p)
			}
			return errMsg, warning
		})
	result.Errors = errs
	result.Warnings = append(initialWarnings, warnings...)
	return result
}

// parseStockRow extracts an InventoryProfile from a row. An empty quantity
// leaves the profile untracked; an empty scrap allowance means none.
func parseStockRow(row []string, mapping ColumnMapping, rowLabel string, count int) (model.InventoryProfile, string, string) {
	lengthStr := getCell(row, mapping.Col("length"))
	if lengthStr == "" {
		return model.InventoryProfile{}, fmt.Sprintf("%s: Missing length value", rowLabel), ""
	}
	length, _, err := parseMillimeters(lengthStr)
	if err != nil {
		return model.InventoryProfile{}, fmt.Sprintf("%s: Invalid length '%s'", rowLabel, lengthStr), ""
	}
	if length <= 0 {
		return model.InventoryProfile{}, fmt.Sprintf("%s: Length must be positive", rowLabel), ""
	}

	scrap := 0
	if scrapStr := getCell(row, mapping.Col("scrap")); scrapStr != "" {
		scrap, _, err = parseMillimeters(scrapStr)
		if err != nil || scrap < 0 {
			return model.InventoryProfile{}, fmt.Sprintf("%s: Invalid scrap allowance '%s'", rowLabel, scrapStr), ""
		}
	}

	sku := getCell(row, mapping.Col("sku"))
	name := getCell(row, mapping.Col("name"))
	if name == "" {
		name = sku
	}
	if name == "" {
		name = fmt.Sprintf("Profile %d", count+1)
	}

	p := model.NewInventoryProfile(sku, name, getCell(row, mapping.Col("profile_type")), length, 0, scrap)
	p.StockQuantity = nil
	if qtyStr := getCell(row, mapping.Col("quantity")); qtyStr != "" {
		qty, err := strconv.Atoi(qtyStr)
		if err != nil || qty < 0 {
			return model.InventoryProfile{}, fmt.Sprintf("%s: Invalid quantity '%s'", rowLabel, qtyStr), ""
		}
		p.StockQuantity = &qty
	}

	var warning string
	if priceStr := getCell(row, mapping.Col("price")); priceStr != "" {
		price, err := decimal.NewFromString(priceStr)
		if err != nil || price.IsNegative() {
			warning = fmt.Sprintf("%s: Invalid price '%s', defaulting to 0", rowLabel, priceStr)
		} else {
			p.PricePerBar = price
		}
	}
	return p, "", warning
}
