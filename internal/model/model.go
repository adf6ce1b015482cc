package model

import (
	"fmt"
	"math"
	"strings"
)

// Strategy selects the cut planning algorithm.
type Strategy string

const (
	StrategyGreedy Strategy = "GREEDY" // Largest-first greedy placement
	StrategyILP    Strategy = "ILP"    // Exact solver; currently resolved to greedy
)

// Strategies lists every strategy a caller may request.
var Strategies = []Strategy{StrategyGreedy, StrategyILP}

func (s Strategy) String() string {
	return string(s)
}

// Valid reports whether s is one of the known strategies.
func (s Strategy) Valid() bool {
	for _, known := range Strategies {
		if s == known {
			return true
		}
	}
	return false
}

// ParseStrategy converts user input into a Strategy. Matching is
// case-insensitive and an empty string selects GREEDY.
func ParseStrategy(s string) (Strategy, error) {
	normalized := Strategy(strings.ToUpper(strings.TrimSpace(s)))
	if normalized == "" {
		return StrategyGreedy, nil
	}
	if !normalized.Valid() {
		return "", &InvalidConfigurationError{Field: "strategy", Reason: fmt.Sprintf("unknown strategy %q", s)}
	}
	return normalized, nil
}

// StockProfile is a planner-facing snapshot of a stockable bar type.
type StockProfile struct {
	ID               string `json:"id"`
	LengthMm         int    `json:"lengthMm"`
	ScrapAllowanceMm int    `json:"scrapAllowanceMm"`
	StockQuantity    *int   `json:"stockQuantity"`         // nil, zero or negative = unlimited
	ProfileType      string `json:"profileType,omitempty"` // Free-text tag for preference matching
}

// NewStockProfile builds a StockProfile. A quantity of zero or less means
// the profile is not capped.
func NewStockProfile(id string, lengthMm, scrapAllowanceMm, quantity int) StockProfile {
	p := StockProfile{
		ID:               id,
		LengthMm:         lengthMm,
		ScrapAllowanceMm: scrapAllowanceMm,
	}
	if quantity > 0 {
		q := quantity
		p.StockQuantity = &q
	}
	return p
}

// Unlimited reports whether the profile has no bar cap.
func (p StockProfile) Unlimited() bool {
	return p.StockQuantity == nil || *p.StockQuantity <= 0
}

// Available returns the number of bars that may be opened for this profile.
func (p StockProfile) Available() int {
	if p.Unlimited() {
		return math.MaxInt
	}
	return *p.StockQuantity
}

// CutRequirement is a demand for Quantity segments of LengthMm.
type CutRequirement struct {
	LengthMm    int    `json:"lengthMm"`
	Quantity    int    `json:"quantity"`
	ProfileID   string `json:"profileId,omitempty"`   // Pin to one profile
	ProfileType string `json:"profileType,omitempty"` // Preferred profile type
}

func NewCutRequirement(lengthMm, quantity int) CutRequirement {
	return CutRequirement{
		LengthMm: lengthMm,
		Quantity: quantity,
	}
}

// Preference describes the profile constraint of the requirement: the
// profile id, else the profile type, else "any".
func (r CutRequirement) Preference() string {
	if r.ProfileID != "" {
		return r.ProfileID
	}
	if r.ProfileType != "" {
		return r.ProfileType
	}
	return "any"
}

// TotalQuantity returns the number of unit segments the requirements expand to.
// Non-positive quantities count as one.
func TotalQuantity(requirements []CutRequirement) int {
	total := 0
	for _, r := range requirements {
		if r.Quantity > 0 {
			total += r.Quantity
		} else {
			total++
		}
	}
	return total
}

// CutPlanItem is the allocation of one physical bar.
type CutPlanItem struct {
	ProfileID      string `json:"profileId"`
	SourceLengthMm int    `json:"sourceLengthMm"` // Nominal profile length
	UsedLengthMm   int    `json:"usedLengthMm"`   // Sum of segments
	WasteLengthMm  int    `json:"wasteLengthMm"`  // Source minus used, scrap allowance included
	Segments       []int  `json:"segments"`       // Cut lengths in placement order
}

// Efficiency returns the usage ratio of the bar in the 0..1 range.
func (it CutPlanItem) Efficiency() float64 {
	if it.SourceLengthMm == 0 {
		return 0
	}
	return float64(it.UsedLengthMm) / float64(it.SourceLengthMm)
}

// CutPlanSummary aggregates a plan.
type CutPlanSummary struct {
	StrategyRequested   Strategy `json:"strategyRequested"`
	StrategyUsed        Strategy `json:"strategyUsed"`
	TotalSourceLengthMm int      `json:"totalSourceLengthMm"`
	TotalUsedLengthMm   int      `json:"totalUsedLengthMm"`
	TotalWasteLengthMm  int      `json:"totalWasteLengthMm"`
	Yield               float64  `json:"yield"`            // used/source, 4 decimals, 1 when nothing was opened
	StocksUsed          int      `json:"stocksUsed"`       // Bars opened
	RequirementCount    int      `json:"requirementCount"` // Expanded unit count
}

// Substituted reports whether the planner ran a different strategy than requested.
func (s CutPlanSummary) Substituted() bool {
	return s.StrategyRequested != s.StrategyUsed
}

// CutPlanComputation is the full planner output.
type CutPlanComputation struct {
	Items   []CutPlanItem  `json:"items"`
	Summary CutPlanSummary `json:"summary"`
}

// SegmentCount returns the number of segments placed across all bars.
func (c CutPlanComputation) SegmentCount() int {
	n := 0
	for _, it := range c.Items {
		n += len(it.Segments)
	}
	return n
}

// BarsByProfile returns how many bars were opened per profile id.
func (c CutPlanComputation) BarsByProfile() map[string]int {
	counts := make(map[string]int)
	for _, it := range c.Items {
		counts[it.ProfileID]++
	}
	return counts
}

// WastePercent returns the share of opened material that is waste, 0..100.
func (c CutPlanComputation) WastePercent() float64 {
	if c.Summary.TotalSourceLengthMm == 0 {
		return 0
	}
	return float64(c.Summary.TotalWasteLengthMm) / float64(c.Summary.TotalSourceLengthMm) * 100.0
}
