package engine

import (
	"math"
	"sort"

	"github.com/piwi3910/ProfileCut/internal/model"
)

// GreedySolver places demands largest-first. Within a profile it uses
// first-fit over already-open bars, in the order they were opened, before
// opening a new bar. Profiles are tried longest first.
type GreedySolver struct{}

func (GreedySolver) Strategy() model.Strategy {
	return model.StrategyGreedy
}

// demand is one unit of an expanded requirement.
type demand struct {
	lengthMm    int
	profileID   string
	profileType string
}

func (d demand) preference() string {
	return model.CutRequirement{ProfileID: d.profileID, ProfileType: d.profileType}.Preference()
}

// workingStock is one physical bar opened during planning.
type workingStock struct {
	segments   []int
	usedLength int
	remaining  int // Free capacity after the scrap allowance was reserved
}

// workingProfile tracks the bars opened for one stock profile.
type workingProfile struct {
	profile         model.StockProfile
	stocks          []*workingStock
	stocksAvailable int
}

// Solve computes the plan. Working state is rebuilt on every call.
func (GreedySolver) Solve(profiles []model.StockProfile, requirements []model.CutRequirement) (model.CutPlanComputation, error) {
	demands := expandRequirements(requirements)
	sorted := sortProfiles(profiles)

	// A repeated id keeps the position of its first occurrence but takes
	// the length, scrap and quantity of its last one.
	working := make(map[string]*workingProfile, len(sorted))
	order := make([]*workingProfile, 0, len(sorted))
	for _, p := range sorted {
		if entry, exists := working[p.ID]; exists {
			entry.profile = p
			entry.stocksAvailable = p.Available()
			continue
		}
		entry := &workingProfile{
			profile:         p,
			stocksAvailable: p.Available(),
		}
		working[p.ID] = entry
		order = append(order, entry)
	}

	for _, d := range demands {
		placed := false
		for _, candidate := range pickProfiles(d, sorted) {
			entry, ok := working[candidate.ID]
			if !ok {
				continue
			}
			if entry.allocate(d.lengthMm) {
				placed = true
				break
			}
		}
		if !placed {
			return model.CutPlanComputation{}, &model.InsufficientInventoryError{
				LengthMm:   d.lengthMm,
				Preference: d.preference(),
			}
		}
	}

	plan := assemble(order, len(demands))
	plan.Summary.StrategyRequested = model.StrategyGreedy
	plan.Summary.StrategyUsed = model.StrategyGreedy
	return plan, nil
}

// expandRequirements flattens requirements into unit demands sorted by
// length descending. The sort is stable so equal lengths keep input order.
func expandRequirements(requirements []model.CutRequirement) []demand {
	expanded := make([]demand, 0, model.TotalQuantity(requirements))
	for _, r := range requirements {
		qty := r.Quantity
		if qty <= 0 {
			qty = 1
		}
		for i := 0; i < qty; i++ {
			expanded = append(expanded, demand{
				lengthMm:    r.LengthMm,
				profileID:   r.ProfileID,
				profileType: r.ProfileType,
			})
		}
	}

	sort.SliceStable(expanded, func(i, j int) bool {
		return expanded[i].lengthMm > expanded[j].lengthMm
	})
	return expanded
}

// sortProfiles returns a copy of the catalog sorted by length descending.
func sortProfiles(profiles []model.StockProfile) []model.StockProfile {
	sorted := make([]model.StockProfile, len(profiles))
	copy(sorted, profiles)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].LengthMm > sorted[j].LengthMm
	})
	return sorted
}

// pickProfiles selects the candidate pool for a demand. A profile id pins
// the demand; a profile type narrows the pool only when something matches.
func pickProfiles(d demand, sorted []model.StockProfile) []model.StockProfile {
	if d.profileID != "" {
		var pinned []model.StockProfile
		for _, p := range sorted {
			if p.ID == d.profileID {
				pinned = append(pinned, p)
			}
		}
		return pinned
	}

	if d.profileType != "" {
		var matching []model.StockProfile
		for _, p := range sorted {
			if p.ProfileType == d.profileType {
				matching = append(matching, p)
			}
		}
		if len(matching) > 0 {
			return matching
		}
	}

	return sorted
}

// allocate places a segment on the first open bar with room, or opens a new
// bar when the quantity cap and the profile length allow it. The scrap
// allowance is reserved once, when the bar is opened.
func (wp *workingProfile) allocate(lengthMm int) bool {
	for _, stock := range wp.stocks {
		if stock.remaining >= lengthMm {
			stock.segments = append(stock.segments, lengthMm)
			stock.usedLength += lengthMm
			stock.remaining -= lengthMm
			return true
		}
	}

	if wp.stocksAvailable <= len(wp.stocks) {
		return false
	}
	if wp.profile.LengthMm < lengthMm {
		return false
	}

	remaining := wp.profile.LengthMm - lengthMm - wp.profile.ScrapAllowanceMm
	if remaining < 0 {
		remaining = 0
	}
	wp.stocks = append(wp.stocks, &workingStock{
		segments:   []int{lengthMm},
		usedLength: lengthMm,
		remaining:  remaining,
	})
	return true
}

// assemble converts the working bars into plan items and the summary.
func assemble(order []*workingProfile, requirementCount int) model.CutPlanComputation {
	items := make([]model.CutPlanItem, 0)
	var totalSource, totalUsed int

	for _, entry := range order {
		for _, stock := range entry.stocks {
			source := entry.profile.LengthMm
			waste := source - stock.usedLength
			if waste < 0 {
				waste = 0
			}
			totalSource += source
			totalUsed += stock.usedLength

			segments := make([]int, len(stock.segments))
			copy(segments, stock.segments)
			items = append(items, model.CutPlanItem{
				ProfileID:      entry.profile.ID,
				SourceLengthMm: source,
				UsedLengthMm:   stock.usedLength,
				WasteLengthMm:  waste,
				Segments:       segments,
			})
		}
	}

	totalWaste := totalSource - totalUsed
	if totalWaste < 0 {
		totalWaste = 0
	}

	return model.CutPlanComputation{
		Items: items,
		Summary: model.CutPlanSummary{
			TotalSourceLengthMm: totalSource,
			TotalUsedLengthMm:   totalUsed,
			TotalWasteLengthMm:  totalWaste,
			Yield:               planYield(totalSource, totalWaste),
			StocksUsed:          len(items),
			RequirementCount:    requirementCount,
		},
	}
}

// planYield returns (source-waste)/source rounded to 4 decimals, or 1 when
// no material was opened.
func planYield(source, waste int) float64 {
	if source == 0 {
		return 1
	}
	y := float64(source-waste) / float64(source)
	if math.IsNaN(y) || math.IsInf(y, 0) {
		return 1
	}
	return math.Round(y*10000) / 10000
}
