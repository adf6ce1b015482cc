package model

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Offcut is a reusable remnant left on a bar after cutting.
type Offcut struct {
	ID          string          `json:"id"`
	ProfileID   string          `json:"profile_id"`   // Profile the bar came from
	ProfileType string          `json:"profile_type"` // Inherited type tag
	BarIndex    int             `json:"bar_index"`    // Index of the source bar in the plan
	LengthMm    int             `json:"length_mm"`    // Usable length
	PricePerBar decimal.Decimal `json:"price_per_bar"`
}

// ToInventoryProfile converts an offcut into a single-bar catalog record for
// reuse in future plans. The remnant has already lost its end cut, so it
// carries no scrap allowance of its own.
func (o Offcut) ToInventoryProfile() InventoryProfile {
	short := o.ID
	if len(short) > 8 {
		short = short[:8]
	}
	sku := fmt.Sprintf("OFFCUT-%s", short)
	name := fmt.Sprintf("Offcut %dmm", o.LengthMm)
	p := NewInventoryProfile(sku, name, o.ProfileType, o.LengthMm, 1, 0)
	p.PricePerBar = o.PricePerBar
	p.Metadata = map[string]string{"source_profile": o.ProfileID}
	return p
}

// DefaultMinOffcutLengthMm is the shortest remnant worth keeping.
const DefaultMinOffcutLengthMm = 500

// DetectOffcuts finds remnants of at least minLengthMm across the plan. The
// usable length of a bar is its waste minus the scrap allowance of its
// profile. Remnant prices are prorated from the catalog bar price.
// Results are sorted longest first; ties keep bar order.
func DetectOffcuts(plan CutPlanComputation, inv Inventory, minLengthMm int) []Offcut {
	var offcuts []Offcut
	for i, item := range plan.Items {
		p := inv.FindByID(item.ProfileID)
		scrap := 0
		if p != nil {
			scrap = p.ScrapAllowanceMm
		}

		usable := item.SourceLengthMm - item.UsedLengthMm - scrap
		if usable <= 0 || usable < minLengthMm {
			continue
		}

		price := decimal.Zero
		profileType := ""
		if p != nil {
			price = p.PricePerMm().Mul(decimal.NewFromInt(int64(usable)))
			profileType = p.ProfileType
		}

		offcuts = append(offcuts, Offcut{
			ID:          uuid.New().String(),
			ProfileID:   item.ProfileID,
			ProfileType: profileType,
			BarIndex:    i,
			LengthMm:    usable,
			PricePerBar: price.Round(2),
		})
	}

	sort.SliceStable(offcuts, func(i, j int) bool {
		return offcuts[i].LengthMm > offcuts[j].LengthMm
	})
	return offcuts
}

// TotalOffcutLength returns the combined length of all offcuts in mm.
func TotalOffcutLength(offcuts []Offcut) int {
	total := 0
	for _, o := range offcuts {
		total += o.LengthMm
	}
	return total
}
