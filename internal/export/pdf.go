// Package export provides functionality for exporting cut plans to various
// file formats.
package export

import (
	"fmt"
	"math"
	"sort"

	"github.com/go-pdf/fpdf"

	"github.com/piwi3910/ProfileCut/internal/model"
)

// segmentColor represents an RGB color for a cut segment.
type segmentColor struct {
	R, G, B int
}

var segmentColors = []segmentColor{
	{R: 76, G: 175, B: 80},  // green
	{R: 33, G: 150, B: 243}, // blue
	{R: 255, G: 152, B: 0},  // orange
	{R: 156, G: 39, B: 176}, // purple
	{R: 0, G: 188, B: 212},  // cyan
	{R: 244, G: 67, B: 54},  // red
	{R: 255, G: 235, B: 59}, // yellow
	{R: 121, G: 85, B: 72},  // brown
}

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	drawAreaTop  = marginTop + headerHeight + 5.0
	infoWidth    = 55.0 // text column right of each bar
	barHeight    = 9.0
	barSpacing   = 6.5
	barsPerPage  = 10
)

// ExportPDF generates a PDF document for a cut plan. Bars are drawn to a
// common scale, barsPerPage per page, followed by a summary page with
// totals and a per-profile breakdown priced from inv.
func ExportPDF(path string, plan model.CutPlanComputation, inv model.Inventory) error {
	if len(plan.Items) == 0 {
		return fmt.Errorf("no bars to export")
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	maxLen := 0
	for _, it := range plan.Items {
		if it.SourceLengthMm > maxLen {
			maxLen = it.SourceLengthMm
		}
	}
	scale := (pageWidth - marginLeft - marginRight - infoWidth) / float64(maxLen)

	pages := (len(plan.Items) + barsPerPage - 1) / barsPerPage
	for page := 0; page < pages; page++ {
		pdf.AddPage()
		start := page * barsPerPage
		end := start + barsPerPage
		if end > len(plan.Items) {
			end = len(plan.Items)
		}
		renderBarPage(pdf, plan.Items[start:end], start, inv, scale, page+1, pages)
	}

	pdf.AddPage()
	renderSummaryPage(pdf, plan, inv)

	return pdf.OutputFileAndClose(path)
}

// renderBarPage draws a run of bars on the current page. first is the plan
// index of items[0].
func renderBarPage(pdf *fpdf.Fpdf, items []model.CutPlanItem, first int, inv model.Inventory, scale float64, page, pages int) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("Cut Plan - Bars %d to %d (page %d of %d)", first+1, first+len(items), page, pages)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	y := drawAreaTop
	for i, it := range items {
		renderBar(pdf, it, first+i+1, inv, scale, y)
		y += barHeight + barSpacing
	}
}

// renderBar draws one bar with its segments left to right and the scrap
// allowance hatched at the far end.
func renderBar(pdf *fpdf.Fpdf, it model.CutPlanItem, barNum int, inv model.Inventory, scale, y float64) {
	x := marginLeft
	w := float64(it.SourceLengthMm) * scale

	// Bar caption above the strip
	name := it.ProfileID
	scrap := 0
	if p := inv.FindByID(it.ProfileID); p != nil {
		name = p.Name
		scrap = p.ScrapAllowanceMm
	}
	pdf.SetFont("Helvetica", "B", 7)
	pdf.SetTextColor(60, 60, 60)
	pdf.SetXY(x, y-3.5)
	pdf.CellFormat(w, 3.5, fmt.Sprintf("#%d  %s  (%d mm)", barNum, name, it.SourceLengthMm), "", 0, "L", false, 0, "")

	// Bar background
	pdf.SetFillColor(235, 235, 235)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.3)
	pdf.Rect(x, y, w, barHeight, "FD")

	// Segments
	pos := x
	for i, seg := range it.Segments {
		col := segmentColors[i%len(segmentColors)]
		sw := float64(seg) * scale

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.SetDrawColor(30, 30, 30)
		pdf.SetLineWidth(0.2)
		pdf.Rect(pos, y, sw, barHeight, "FD")

		label := fmt.Sprintf("%d", seg)
		pdf.SetFont("Helvetica", "", labelFontSize(sw, barHeight))
		pdf.SetTextColor(0, 0, 0)
		if lw := pdf.GetStringWidth(label); lw < sw-1 {
			pdf.SetXY(pos+(sw-lw)/2, y+barHeight/2-2)
			pdf.CellFormat(lw, 4, label, "", 0, "C", false, 0, "")
		}
		pos += sw
	}

	// Scrap allowance
	if scrap > 0 && scrap <= it.SourceLengthMm {
		zw := float64(scrap) * scale
		zx := x + w - zw
		pdf.SetFillColor(255, 200, 200)
		pdf.SetDrawColor(200, 0, 0)
		pdf.SetLineWidth(0.2)
		pdf.Rect(zx, y, zw, barHeight, "FD")
		drawHatchPattern(pdf, zx, y, zw, barHeight)
	}

	// Info column
	pdf.SetFont("Helvetica", "", 7)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(pageWidth-marginRight-infoWidth+3, y)
	pdf.CellFormat(infoWidth-3, 4, fmt.Sprintf("Used %d / %d mm", it.UsedLengthMm, it.SourceLengthMm), "", 0, "L", false, 0, "")
	pdf.SetXY(pageWidth-marginRight-infoWidth+3, y+4)
	pdf.CellFormat(infoWidth-3, 4, fmt.Sprintf("Waste %d mm | %.1f%%", it.WasteLengthMm, it.Efficiency()*100), "", 0, "L", false, 0, "")
}

// drawHatchPattern draws diagonal lines inside a rectangle to mark scrap.
func drawHatchPattern(pdf *fpdf.Fpdf, x, y, w, h float64) {
	pdf.SetDrawColor(200, 0, 0)
	pdf.SetLineWidth(0.15)

	spacing := 2.0
	maxDist := w + h

	for d := spacing; d < maxDist; d += spacing {
		x1 := x + math.Max(0, d-h)
		y1 := y + math.Min(h, d)
		x2 := x + math.Min(w, d)
		y2 := y + math.Max(0, d-w)

		pdf.Line(x1, y1, x2, y2)
	}
}

// profileBreakdown aggregates the bars of one profile for the summary table.
type profileBreakdown struct {
	ProfileID string
	Name      string
	Bars      int
	SourceMm  int
	UsedMm    int
	WasteMm   int
}

// breakdownByProfile groups plan items by profile in first-seen order.
func breakdownByProfile(plan model.CutPlanComputation, inv model.Inventory) []profileBreakdown {
	index := map[string]int{}
	var rows []profileBreakdown
	for _, it := range plan.Items {
		i, ok := index[it.ProfileID]
		if !ok {
			name := it.ProfileID
			if p := inv.FindByID(it.ProfileID); p != nil {
				name = p.Name
			}
			i = len(rows)
			index[it.ProfileID] = i
			rows = append(rows, profileBreakdown{ProfileID: it.ProfileID, Name: name})
		}
		rows[i].Bars++
		rows[i].SourceMm += it.SourceLengthMm
		rows[i].UsedMm += it.UsedLengthMm
		rows[i].WasteMm += it.WasteLengthMm
	}
	return rows
}

// renderSummaryPage draws the final summary page with overall statistics.
func renderSummaryPage(pdf *fpdf.Fpdf, plan model.CutPlanComputation, inv model.Inventory) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Cut Plan Summary", "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Overall Statistics", "", 0, "L", false, 0, "")
	y += 9

	s := plan.Summary
	strategy := string(s.StrategyUsed)
	if s.Substituted() {
		strategy = fmt.Sprintf("%s (requested %s)", s.StrategyUsed, s.StrategyRequested)
	}
	summaryItems := []struct {
		label string
		value string
	}{
		{"Strategy", strategy},
		{"Bars Used", fmt.Sprintf("%d", s.StocksUsed)},
		{"Pieces Cut", fmt.Sprintf("%d", s.RequirementCount)},
		{"Yield", fmt.Sprintf("%.2f%%", s.Yield*100)},
		{"Total Length", fmt.Sprintf("%d mm", s.TotalSourceLengthMm)},
		{"Used / Waste", fmt.Sprintf("%d / %d mm", s.TotalUsedLengthMm, s.TotalWasteLengthMm)},
		{"Material Cost", model.PlanCost(plan, inv).StringFixed(2)},
	}

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range summaryItems {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(60, 6, item.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(80, 6, item.value, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		y += 7
	}

	y += 5

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Profile Breakdown", "", 0, "L", false, 0, "")
	y += 9

	colWidths := []float64{70, 25, 45, 45, 45, 30}
	headers := []string{"Profile", "Bars", "Total Length", "Used", "Waste", "Yield"}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	xPos := marginLeft
	for i, header := range headers {
		pdf.SetXY(xPos, y)
		pdf.CellFormat(colWidths[i], 6, header, "1", 0, "C", true, 0, "")
		xPos += colWidths[i]
	}
	y += 6

	pdf.SetFont("Helvetica", "", 9)
	rows := breakdownByProfile(plan, inv)
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Bars > rows[j].Bars })
	for i, r := range rows {
		xPos = marginLeft
		yield := 0.0
		if r.SourceMm > 0 {
			yield = float64(r.UsedMm) / float64(r.SourceMm) * 100
		}
		rowData := []string{
			r.Name,
			fmt.Sprintf("%d", r.Bars),
			fmt.Sprintf("%d mm", r.SourceMm),
			fmt.Sprintf("%d mm", r.UsedMm),
			fmt.Sprintf("%d mm", r.WasteMm),
			fmt.Sprintf("%.1f%%", yield),
		}

		if i%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}

		for j, cell := range rowData {
			pdf.SetXY(xPos, y)
			pdf.CellFormat(colWidths[j], 6, cell, "1", 0, "C", true, 0, "")
			xPos += colWidths[j]
		}
		y += 6
	}

	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "Generated by ProfileCut - uPVC Cut Planner", "", 0, "C", false, 0, "")
}

// labelFontSize returns an appropriate font size based on the rectangle dimensions.
func labelFontSize(w, h float64) float64 {
	minDim := math.Min(w, h)
	switch {
	case minDim > 40:
		return 8
	case minDim > 8:
		return 7
	default:
		return 6
	}
}
