package model

import "math"

// GasketSummary holds the seal length needed to glaze a set of windows.
type GasketSummary struct {
	TotalLinearMM    float64 `json:"total_linear_mm"`     // Perimeter total in mm (no waste)
	TotalLinearM     float64 `json:"total_linear_m"`      // Perimeter total in meters (no waste)
	WastePercent     float64 `json:"waste_percent"`       // Waste percentage applied
	TotalWithWasteMM float64 `json:"total_with_waste_mm"` // Total with waste in mm
	TotalWithWasteM  float64 `json:"total_with_waste_m"`  // Total with waste in meters
	WindowCount      int     `json:"window_count"`
}

// CalculateGasket sums the perimeter of every window with positive
// dimensions. Each opening takes an inner and an outer seal run.
// wastePercent is the additional percentage to add (e.g., 10 for 10%).
func CalculateGasket(instances []WindowInstance, wastePercent float64) GasketSummary {
	var totalMM float64
	count := 0
	for _, w := range instances {
		width, height := w.Dimensions()
		if width <= 0 || height <= 0 {
			continue
		}
		totalMM += 2 * float64(2*(width+height))
		count++
	}

	wasteFactor := 1.0 + (wastePercent / 100.0)
	totalWithWaste := math.Ceil(totalMM * wasteFactor)

	return GasketSummary{
		TotalLinearMM:    totalMM,
		TotalLinearM:     totalMM / 1000.0,
		WastePercent:     wastePercent,
		TotalWithWasteMM: totalWithWaste,
		TotalWithWasteM:  totalWithWaste / 1000.0,
		WindowCount:      count,
	}
}
