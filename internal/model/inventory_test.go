package model

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestDefaultInventory(t *testing.T) {
	inv := DefaultInventory()
	if len(inv.Profiles) != 3 {
		t.Fatalf("expected 3 default profiles, got %d", len(inv.Profiles))
	}
	if err := inv.Validate(); err != nil {
		t.Errorf("default inventory should validate, got %v", err)
	}
	first := inv.Profiles[0]
	if first.SKU != "PVC-6400-A" || first.LengthMm != 6400 || first.ProfileType != "Frame-A" {
		t.Errorf("unexpected first profile %+v", first)
	}
	if !first.PricePerBar.Equal(decimal.RequireFromString("48.50")) {
		t.Errorf("expected price 48.50, got %s", first.PricePerBar)
	}
}

func TestInventoryProfileToStockProfile(t *testing.T) {
	p := NewInventoryProfile("SKU", "Name", "Frame-A", 6400, 12, 35)
	sp := p.ToStockProfile()
	if sp.ID != p.ID || sp.LengthMm != 6400 || sp.ScrapAllowanceMm != 35 || sp.ProfileType != "Frame-A" {
		t.Errorf("unexpected stock profile %+v", sp)
	}
	if sp.Available() != 12 {
		t.Errorf("expected 12 available, got %d", sp.Available())
	}

	p.StockQuantity = nil
	if !p.ToStockProfile().Unlimited() {
		t.Error("untracked profile should be unlimited")
	}
}

func TestInventoryStockProfilesSkipsEmpty(t *testing.T) {
	inv := DefaultInventory()
	zero := 0
	inv.Profiles[1].StockQuantity = &zero

	profiles := inv.StockProfiles()
	if len(profiles) != 2 {
		t.Fatalf("expected 2 profiles, got %d", len(profiles))
	}
	for _, p := range profiles {
		if p.ID == inv.Profiles[1].ID {
			t.Error("out of stock profile should not reach the planner")
		}
	}
}

func TestInventoryAddRemove(t *testing.T) {
	inv := Inventory{}
	p := NewInventoryProfile("SKU-1", "One", "", 3000, 1, 0)
	if err := inv.Add(p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := inv.Add(p); err == nil {
		t.Error("expected duplicate id to be rejected")
	}
	dupSKU := NewInventoryProfile("SKU-1", "Other", "", 3000, 1, 0)
	if err := inv.Add(dupSKU); err == nil {
		t.Error("expected duplicate sku to be rejected")
	}
	if inv.FindBySKU("SKU-1") == nil {
		t.Error("expected to find by sku")
	}
	if names := inv.Names(); len(names) != 1 || names[0] != "One" {
		t.Errorf("unexpected names %v", names)
	}
	if !inv.Remove(p.ID) {
		t.Error("expected remove to succeed")
	}
	if len(inv.Profiles) != 0 {
		t.Errorf("expected empty inventory, got %d", len(inv.Profiles))
	}
}

func TestInventoryValidateNegativeStock(t *testing.T) {
	inv := DefaultInventory()
	neg := -1
	inv.Profiles[0].StockQuantity = &neg
	if err := inv.Validate(); !errors.Is(err, ErrInvalidConfiguration) {
		t.Errorf("expected invalid configuration, got %v", err)
	}
}

func TestInventoryConsume(t *testing.T) {
	inv := DefaultInventory()
	frameID := inv.Profiles[0].ID
	reinfID := inv.Profiles[2].ID
	inv.Profiles[2].StockQuantity = nil

	plan := CutPlanComputation{Items: []CutPlanItem{
		{ProfileID: frameID}, {ProfileID: frameID}, {ProfileID: reinfID},
	}}

	out, err := inv.Consume(plan)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n, _ := out.FindByID(frameID).OnHand(); n != 22 {
		t.Errorf("expected 22 bars left, got %d", n)
	}
	if _, tracked := out.FindByID(reinfID).OnHand(); tracked {
		t.Error("untracked profile should stay untracked")
	}
	if n, _ := inv.FindByID(frameID).OnHand(); n != 24 {
		t.Errorf("original inventory should be unchanged, got %d", n)
	}
}

func TestInventoryConsumeOverdraw(t *testing.T) {
	inv := DefaultInventory()
	one := 1
	inv.Profiles[0].StockQuantity = &one
	id := inv.Profiles[0].ID

	_, err := inv.Consume(CutPlanComputation{Items: []CutPlanItem{{ProfileID: id}, {ProfileID: id}}})
	var insufficient *InsufficientInventoryError
	if !errors.As(err, &insufficient) {
		t.Fatalf("expected insufficient inventory, got %v", err)
	}
	if insufficient.Preference != id {
		t.Errorf("expected preference %s, got %s", id, insufficient.Preference)
	}
}

func TestInventoryConsumeUnknownProfile(t *testing.T) {
	inv := DefaultInventory()
	if _, err := inv.Consume(CutPlanComputation{Items: []CutPlanItem{{ProfileID: "ghost"}}}); err == nil {
		t.Error("expected error for unknown profile")
	}
}

func TestPricePerMm(t *testing.T) {
	p := NewInventoryProfile("S", "N", "", 5000, 1, 0)
	p.PricePerBar = decimal.NewFromInt(50)
	if !p.PricePerMm().Equal(decimal.RequireFromString("0.01")) {
		t.Errorf("expected 0.01, got %s", p.PricePerMm())
	}
	p.LengthMm = 0
	if !p.PricePerMm().IsZero() {
		t.Error("zero length should price at zero")
	}
}
