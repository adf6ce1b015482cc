package model

import (
	"testing"

	"github.com/shopspring/decimal"
)

func offcutInventory() Inventory {
	p := NewInventoryProfile("PVC-6400-A", "Frame 6.4m", "Frame-A", 6400, 10, 35)
	p.ID = "frame-a"
	p.PricePerBar = decimal.RequireFromString("64.00")
	return Inventory{Profiles: []InventoryProfile{p}}
}

func TestDetectOffcuts(t *testing.T) {
	plan := CutPlanComputation{Items: []CutPlanItem{
		{ProfileID: "frame-a", SourceLengthMm: 6400, UsedLengthMm: 6000, WasteLengthMm: 400, Segments: []int{3000, 3000}},
		{ProfileID: "frame-a", SourceLengthMm: 6400, UsedLengthMm: 2400, WasteLengthMm: 4000, Segments: []int{2400}},
		{ProfileID: "frame-a", SourceLengthMm: 6400, UsedLengthMm: 5000, WasteLengthMm: 1400, Segments: []int{5000}},
	}}

	offcuts := DetectOffcuts(plan, offcutInventory(), 500)
	if len(offcuts) != 2 {
		t.Fatalf("expected 2 offcuts, got %d", len(offcuts))
	}

	// Longest first; scrap allowance is not reusable.
	if offcuts[0].LengthMm != 3965 || offcuts[0].BarIndex != 1 {
		t.Errorf("expected 3965mm from bar 1, got %dmm from bar %d", offcuts[0].LengthMm, offcuts[0].BarIndex)
	}
	if offcuts[1].LengthMm != 1365 || offcuts[1].BarIndex != 2 {
		t.Errorf("expected 1365mm from bar 2, got %dmm from bar %d", offcuts[1].LengthMm, offcuts[1].BarIndex)
	}
	if offcuts[0].ProfileType != "Frame-A" {
		t.Errorf("expected inherited type Frame-A, got %q", offcuts[0].ProfileType)
	}
	// 64.00 / 6400 * 3965 = 39.65
	if !offcuts[0].PricePerBar.Equal(decimal.RequireFromString("39.65")) {
		t.Errorf("expected prorated price 39.65, got %s", offcuts[0].PricePerBar)
	}
	if TotalOffcutLength(offcuts) != 5330 {
		t.Errorf("expected total 5330, got %d", TotalOffcutLength(offcuts))
	}
}

func TestDetectOffcutsUnknownProfile(t *testing.T) {
	plan := CutPlanComputation{Items: []CutPlanItem{
		{ProfileID: "ghost", SourceLengthMm: 3000, UsedLengthMm: 1000, WasteLengthMm: 2000, Segments: []int{1000}},
	}}
	offcuts := DetectOffcuts(plan, Inventory{}, 500)
	if len(offcuts) != 1 {
		t.Fatalf("expected 1 offcut, got %d", len(offcuts))
	}
	if offcuts[0].LengthMm != 2000 {
		t.Errorf("expected full waste as offcut, got %d", offcuts[0].LengthMm)
	}
	if !offcuts[0].PricePerBar.IsZero() {
		t.Errorf("expected zero price, got %s", offcuts[0].PricePerBar)
	}
}

func TestDetectOffcutsNoneAboveMinimum(t *testing.T) {
	plan := CutPlanComputation{Items: []CutPlanItem{
		{ProfileID: "frame-a", SourceLengthMm: 6400, UsedLengthMm: 6300, WasteLengthMm: 100, Segments: []int{6300}},
	}}
	if offcuts := DetectOffcuts(plan, offcutInventory(), 500); len(offcuts) != 0 {
		t.Errorf("expected no offcuts, got %d", len(offcuts))
	}
}

func TestOffcutToInventoryProfile(t *testing.T) {
	o := Offcut{
		ID:          "0123456789abcdef",
		ProfileID:   "frame-a",
		ProfileType: "Frame-A",
		LengthMm:    1800,
		PricePerBar: decimal.RequireFromString("18.00"),
	}
	p := o.ToInventoryProfile()

	if p.SKU != "OFFCUT-01234567" {
		t.Errorf("unexpected SKU %q", p.SKU)
	}
	if p.LengthMm != 1800 || p.ScrapAllowanceMm != 0 {
		t.Errorf("unexpected length/scrap %d/%d", p.LengthMm, p.ScrapAllowanceMm)
	}
	if n, tracked := p.OnHand(); !tracked || n != 1 {
		t.Errorf("expected one tracked bar, got %d (tracked=%v)", n, tracked)
	}
	if p.Metadata["source_profile"] != "frame-a" {
		t.Errorf("expected source profile metadata, got %v", p.Metadata)
	}
	if p.ProfileType != "Frame-A" {
		t.Errorf("expected type Frame-A, got %q", p.ProfileType)
	}
}

func TestOffcutToInventoryProfileShortID(t *testing.T) {
	p := Offcut{ID: "abc", ProfileID: "frame-a", LengthMm: 900}.ToInventoryProfile()
	if p.SKU != "OFFCUT-abc" {
		t.Errorf("unexpected SKU %q", p.SKU)
	}

	p = Offcut{LengthMm: 900}.ToInventoryProfile()
	if p.SKU != "OFFCUT-" {
		t.Errorf("unexpected SKU %q", p.SKU)
	}
}
