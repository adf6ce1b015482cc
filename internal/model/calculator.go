package model

import (
	"math"

	"github.com/shopspring/decimal"
)

// PurchaseEstimate holds the results of a bar purchasing calculation.
type PurchaseEstimate struct {
	TotalCutLength  int             `json:"total_cut_length"`  // Total length of all cuts (mm)
	UsableBarLength int             `json:"usable_bar_length"` // Bar length minus scrap allowance (mm)
	BarsNeededExact float64         `json:"bars_needed_exact"` // Exact fractional number of bars
	BarsNeededMin   int             `json:"bars_needed_min"`   // Ceiling of exact, at least one bar per cut longer than half a bar
	BarsWithWaste   int             `json:"bars_with_waste"`   // Recommended bars including waste factor
	WastePercent    float64         `json:"waste_percent"`     // Waste factor applied (e.g., 10 for 10%)
	PricePerBar     decimal.Decimal `json:"price_per_bar"`
	EstimatedCost   decimal.Decimal `json:"estimated_cost"`
	Oversize        []int           `json:"oversize,omitempty"` // Requested lengths that do not fit the usable bar
}

// CalculatePurchaseEstimate estimates how many bars of one length to buy
// for a cut list, before running the planner. Each bar loses scrapMm once.
func CalculatePurchaseEstimate(reqs []CutRequirement, barLengthMm, scrapMm int, wastePercent float64, pricePerBar decimal.Decimal) PurchaseEstimate {
	usable := barLengthMm - scrapMm
	est := PurchaseEstimate{
		UsableBarLength: usable,
		WastePercent:    wastePercent,
		PricePerBar:     pricePerBar,
		EstimatedCost:   decimal.Zero,
	}

	longCuts := 0
	for _, r := range reqs {
		qty := r.Quantity
		if qty <= 0 {
			qty = 1
		}
		est.TotalCutLength += r.LengthMm * qty
		if usable > 0 && r.LengthMm > usable {
			est.Oversize = append(est.Oversize, r.LengthMm)
		}
		// Two cuts longer than half a bar never share one.
		if usable > 0 && r.LengthMm*2 > usable {
			longCuts += qty
		}
	}

	if usable <= 0 {
		return est
	}

	est.BarsNeededExact = float64(est.TotalCutLength) / float64(usable)
	est.BarsNeededMin = int(math.Ceil(est.BarsNeededExact))
	if longCuts > est.BarsNeededMin {
		est.BarsNeededMin = longCuts
	}

	wasteFactor := 1.0 + (wastePercent / 100.0)
	est.BarsWithWaste = int(math.Ceil(est.BarsNeededExact * wasteFactor))
	if est.BarsWithWaste < est.BarsNeededMin {
		est.BarsWithWaste = est.BarsNeededMin
	}

	est.EstimatedCost = pricePerBar.Mul(decimal.NewFromInt(int64(est.BarsWithWaste)))
	return est
}

// PlanCost prices a computed plan against the catalog. Bars from profiles
// missing in the catalog cost nothing.
func PlanCost(plan CutPlanComputation, inv Inventory) decimal.Decimal {
	total := decimal.Zero
	for id, n := range plan.BarsByProfile() {
		p := inv.FindByID(id)
		if p == nil {
			continue
		}
		total = total.Add(p.PricePerBar.Mul(decimal.NewFromInt(int64(n))))
	}
	return total
}
