package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/piwi3910/ProfileCut/internal/model"
)

// LabelInfo holds the data encoded into each segment label's QR code.
type LabelInfo struct {
	ProfileID    string `json:"profile"`
	LengthMm     int    `json:"length_mm"`
	BarIndex     int    `json:"bar"`       // 1-based bar number in the plan
	SegmentIndex int    `json:"segment"`   // 1-based cut number on the bar
	OffsetMm     int    `json:"offset_mm"` // Distance from the bar start to the cut
	BarLengthMm  int    `json:"bar_length_mm"`
}

// Label layout constants for Avery 5160-compatible labels (3 columns, 10 rows per page).
// Each label cell is approximately 66.7mm x 25.4mm on US Letter paper.
const (
	labelMarginTop  = 12.7 // mm
	labelMarginLeft = 4.8  // mm
	labelWidth      = 66.7 // mm per label
	labelHeight     = 25.4 // mm per label
	labelCols       = 3
	labelRows       = 10
	labelsPerPage   = labelCols * labelRows
	qrSize          = 20.0 // QR code size in mm
	labelPadding    = 2.0  // mm internal padding
)

// ExportLabels generates a PDF of QR-coded labels, one per cut segment.
// Each label shows the cut length and its bar position, with a QR code
// encoding the same data as JSON. Labels are laid out on a standard label
// sheet format (Avery 5160 / 3 columns x 10 rows on US Letter).
func ExportLabels(path string, plan model.CutPlanComputation) error {
	labels := CollectLabelInfos(plan)
	if len(labels) == 0 {
		return fmt.Errorf("no segments to generate labels for")
	}

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)

	for i, label := range labels {
		if i%labelsPerPage == 0 {
			pdf.AddPage()
		}

		posOnPage := i % labelsPerPage
		col := posOnPage % labelCols
		row := posOnPage / labelCols

		x := labelMarginLeft + float64(col)*labelWidth
		y := labelMarginTop + float64(row)*labelHeight

		if err := renderLabel(pdf, x, y, label); err != nil {
			return fmt.Errorf("failed to render label for bar %d cut %d: %w", label.BarIndex, label.SegmentIndex, err)
		}
	}

	return pdf.OutputFileAndClose(path)
}

// renderLabel draws a single label at the given position.
func renderLabel(pdf *fpdf.Fpdf, x, y float64, info LabelInfo) error {
	// Light border as cutting guide
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.1)
	pdf.Rect(x, y, labelWidth, labelHeight, "D")

	qrData, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to marshal label info: %w", err)
	}

	qrPNG, err := qrcode.Encode(string(qrData), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}

	imgName := fmt.Sprintf("qr_%d_%d", info.BarIndex, info.SegmentIndex)
	pdf.RegisterImageOptionsReader(imgName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))

	qrX := x + labelWidth - qrSize - labelPadding
	qrY := y + (labelHeight-qrSize)/2
	pdf.ImageOptions(imgName, qrX, qrY, qrSize, qrSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	textX := x + labelPadding
	textW := labelWidth - qrSize - 3*labelPadding

	// Cut length (bold, larger)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(textX, y+labelPadding)
	pdf.CellFormat(textW, 5, fmt.Sprintf("%d mm", info.LengthMm), "", 1, "L", false, 0, "")

	// Profile, truncated to fit
	pdf.SetFont("Helvetica", "", 7)
	pdf.SetXY(textX, y+labelPadding+6)
	profile := info.ProfileID
	if pdf.GetStringWidth(profile) > textW {
		for len(profile) > 0 && pdf.GetStringWidth(profile+"...") > textW {
			profile = profile[:len(profile)-1]
		}
		profile += "..."
	}
	pdf.CellFormat(textW, 3.5, profile, "", 1, "L", false, 0, "")

	// Bar and position
	pdf.SetFont("Helvetica", "", 6)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetXY(textX, y+labelPadding+10)
	pdf.CellFormat(textW, 3, fmt.Sprintf("Bar %d cut %d @ %d mm", info.BarIndex, info.SegmentIndex, info.OffsetMm), "", 1, "L", false, 0, "")

	pdf.SetTextColor(0, 0, 0)
	return nil
}

// CollectLabelInfos lists every cut segment of a plan in bar order.
func CollectLabelInfos(plan model.CutPlanComputation) []LabelInfo {
	var labels []LabelInfo
	for barIdx, it := range plan.Items {
		offset := 0
		for segIdx, seg := range it.Segments {
			labels = append(labels, LabelInfo{
				ProfileID:    it.ProfileID,
				LengthMm:     seg,
				BarIndex:     barIdx + 1,
				SegmentIndex: segIdx + 1,
				OffsetMm:     offset,
				BarLengthMm:  it.SourceLengthMm,
			})
			offset += seg
		}
	}
	return labels
}
