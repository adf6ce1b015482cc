package export

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/ProfileCut/internal/model"
)

// Sheet names of the Excel workbook.
const (
	barsSheet    = "Bars"
	summarySheet = "Summary"
)

// ExportExcel writes a cut plan to an Excel workbook with a "Bars" sheet
// (one row per bar, each cut length also in its own column) and a
// "Summary" sheet.
func ExportExcel(path string, plan model.CutPlanComputation) error {
	if len(plan.Items) == 0 {
		return fmt.Errorf("no bars to export")
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), barsSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	if err := writeBarsSheet(f, plan, bold); err != nil {
		return err
	}
	if err := writeSummarySheet(f, plan.Summary, bold); err != nil {
		return err
	}

	return f.SaveAs(path)
}

func writeBarsSheet(f *excelize.File, plan model.CutPlanComputation, headerStyle int) error {
	maxSegments := 0
	for _, it := range plan.Items {
		if len(it.Segments) > maxSegments {
			maxSegments = len(it.Segments)
		}
	}

	header := []interface{}{"Bar", "Profile", "Source (mm)", "Used (mm)", "Waste (mm)", "Efficiency", "Cut List"}
	for i := 1; i <= maxSegments; i++ {
		header = append(header, "Cut "+strconv.Itoa(i))
	}
	if err := f.SetSheetRow(barsSheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	lastCol, err := excelize.ColumnNumberToName(len(header))
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(barsSheet, "A1", lastCol+"1", headerStyle); err != nil {
		return err
	}

	for i, it := range plan.Items {
		row := []interface{}{
			i + 1,
			it.ProfileID,
			it.SourceLengthMm,
			it.UsedLengthMm,
			it.WasteLengthMm,
			roundTo(it.Efficiency(), 4),
			segmentList(it.Segments),
		}
		for _, seg := range it.Segments {
			row = append(row, seg)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(barsSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write bar %d: %w", i+1, err)
		}
	}
	return nil
}

func writeSummarySheet(f *excelize.File, s model.CutPlanSummary, headerStyle int) error {
	rows := [][]interface{}{
		{"Metric", "Value"},
		{"Strategy Requested", string(s.StrategyRequested)},
		{"Strategy Used", string(s.StrategyUsed)},
		{"Bars Used", s.StocksUsed},
		{"Pieces Cut", s.RequirementCount},
		{"Total Source Length (mm)", s.TotalSourceLengthMm},
		{"Total Used Length (mm)", s.TotalUsedLengthMm},
		{"Total Waste Length (mm)", s.TotalWasteLengthMm},
		{"Yield", s.Yield},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write summary: %w", err)
		}
	}
	return f.SetCellStyle(summarySheet, "A1", "B1", headerStyle)
}

func roundTo(v float64, places int) float64 {
	f, _ := strconv.ParseFloat(strconv.FormatFloat(v, 'f', places, 64), 64)
	return f
}

// segmentList formats cut lengths as "a + b + c".
func segmentList(segments []int) string {
	parts := make([]string, len(segments))
	for i, s := range segments {
		parts[i] = strconv.Itoa(s)
	}
	return strings.Join(parts, " + ")
}
