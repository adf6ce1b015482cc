package model

import (
	"errors"
	"fmt"
	"math"
	"testing"
)

func TestParseStrategy(t *testing.T) {
	tests := []struct {
		in   string
		want Strategy
	}{
		{"", StrategyGreedy},
		{"greedy", StrategyGreedy},
		{"  ILP ", StrategyILP},
		{"Ilp", StrategyILP},
	}
	for _, tt := range tests {
		got, err := ParseStrategy(tt.in)
		if err != nil {
			t.Errorf("ParseStrategy(%q) returned error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseStrategy(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}

	_, err := ParseStrategy("simplex")
	if !errors.Is(err, ErrInvalidConfiguration) {
		t.Errorf("expected invalid configuration for unknown strategy, got %v", err)
	}
}

func TestStockProfileAvailability(t *testing.T) {
	capped := NewStockProfile("a", 6000, 10, 3)
	if capped.Unlimited() || capped.Available() != 3 {
		t.Errorf("expected 3 capped bars, got %d", capped.Available())
	}

	for _, q := range []int{0, -2} {
		p := NewStockProfile("b", 6000, 10, q)
		if !p.Unlimited() || p.Available() != math.MaxInt {
			t.Errorf("quantity %d should be unlimited", q)
		}
	}

	zero := 0
	explicit := StockProfile{ID: "c", LengthMm: 100, StockQuantity: &zero}
	if !explicit.Unlimited() {
		t.Error("explicit zero quantity should be unlimited")
	}
}

func TestCutRequirementPreference(t *testing.T) {
	if p := (CutRequirement{ProfileID: "x", ProfileType: "t"}).Preference(); p != "x" {
		t.Errorf("expected id preference, got %s", p)
	}
	if p := (CutRequirement{ProfileType: "t"}).Preference(); p != "t" {
		t.Errorf("expected type preference, got %s", p)
	}
	if p := NewCutRequirement(100, 1).Preference(); p != "any" {
		t.Errorf("expected any, got %s", p)
	}
}

func TestTotalQuantity(t *testing.T) {
	reqs := []CutRequirement{{Quantity: 3}, {Quantity: 0}, {Quantity: -4}, {Quantity: 2}}
	if got := TotalQuantity(reqs); got != 7 {
		t.Errorf("expected 7, got %d", got)
	}
}

func TestComputationHelpers(t *testing.T) {
	plan := CutPlanComputation{
		Items: []CutPlanItem{
			{ProfileID: "a", SourceLengthMm: 1000, UsedLengthMm: 800, WasteLengthMm: 200, Segments: []int{500, 300}},
			{ProfileID: "a", SourceLengthMm: 1000, UsedLengthMm: 400, WasteLengthMm: 600, Segments: []int{400}},
			{ProfileID: "b", SourceLengthMm: 2000, UsedLengthMm: 2000, Segments: []int{2000}},
		},
		Summary: CutPlanSummary{TotalSourceLengthMm: 4000, TotalWasteLengthMm: 800},
	}

	if plan.SegmentCount() != 4 {
		t.Errorf("expected 4 segments, got %d", plan.SegmentCount())
	}
	bars := plan.BarsByProfile()
	if bars["a"] != 2 || bars["b"] != 1 {
		t.Errorf("unexpected bar counts %v", bars)
	}
	if math.Abs(plan.WastePercent()-20) > 1e-9 {
		t.Errorf("expected 20%% waste, got %f", plan.WastePercent())
	}
	if plan.Items[0].Efficiency() != 0.8 {
		t.Errorf("expected efficiency 0.8, got %f", plan.Items[0].Efficiency())
	}
	if (CutPlanItem{}).Efficiency() != 0 {
		t.Error("empty bar should have zero efficiency")
	}
	if (CutPlanComputation{}).WastePercent() != 0 {
		t.Error("empty plan should have zero waste")
	}
}

func TestSummarySubstituted(t *testing.T) {
	s := CutPlanSummary{StrategyRequested: StrategyILP, StrategyUsed: StrategyGreedy}
	if !s.Substituted() {
		t.Error("expected substitution")
	}
	s.StrategyRequested = StrategyGreedy
	if s.Substituted() {
		t.Error("expected no substitution")
	}
}

func TestInsufficientInventoryErrorMessage(t *testing.T) {
	err := error(&InsufficientInventoryError{LengthMm: 3000, Preference: "any"})
	want := "insufficient inventory to allocate length 3000mm (profile preference: any)"
	if err.Error() != want {
		t.Errorf("got %q, want %q", err.Error(), want)
	}

	wrapped := fmt.Errorf("generate: %w", err)
	if !errors.Is(wrapped, ErrInsufficientInventory) {
		t.Error("wrapped error should match ErrInsufficientInventory")
	}
	if errors.Is(wrapped, ErrInvalidConfiguration) {
		t.Error("wrapped error should not match ErrInvalidConfiguration")
	}
}

func TestValidatePlanInput(t *testing.T) {
	ok := []StockProfile{NewStockProfile("a", 6000, 10, 0)}
	tests := []struct {
		name     string
		profiles []StockProfile
		reqs     []CutRequirement
		wantErr  bool
	}{
		{"valid", ok, []CutRequirement{NewCutRequirement(500, 1)}, false},
		{"unknown pinned id passes", ok, []CutRequirement{{LengthMm: 500, Quantity: 1, ProfileID: "zzz"}}, false},
		{"empty catalog", nil, []CutRequirement{NewCutRequirement(500, 1)}, true},
		{"missing id", []StockProfile{NewStockProfile("", 6000, 0, 0)}, nil, true},
		{"duplicate id", []StockProfile{ok[0], ok[0]}, nil, true},
		{"zero length", []StockProfile{NewStockProfile("a", 0, 0, 0)}, nil, true},
		{"negative scrap", []StockProfile{NewStockProfile("a", 6000, -1, 0)}, nil, true},
		{"zero requirement length", ok, []CutRequirement{NewCutRequirement(0, 1)}, true},
		{"zero quantity", ok, []CutRequirement{NewCutRequirement(100, 0)}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePlanInput(tt.profiles, tt.reqs)
			if tt.wantErr && !errors.Is(err, ErrInvalidConfiguration) {
				t.Errorf("expected invalid configuration, got %v", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
