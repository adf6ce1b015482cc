package engine

import (
	"github.com/piwi3910/ProfileCut/internal/model"
)

// ComparisonScenario defines a named variation of a planning run.
type ComparisonScenario struct {
	Name              string
	Strategy          model.Strategy
	IgnorePreferences bool // Drop profile type preferences (pinned ids are kept)
	IgnoreScrap       bool // Plan as if no scrap allowance were needed
}

// ComparisonResult holds the plan and headline statistics for one scenario.
// Err is set when the scenario could not be planned.
type ComparisonResult struct {
	Scenario     ComparisonScenario
	Plan         model.CutPlanComputation
	Err          error
	StocksUsed   int
	WastePercent float64
}

// CompareScenarios plans every scenario against the same inputs and
// returns the results in scenario order. A failing scenario does not stop
// the others.
func CompareScenarios(scenarios []ComparisonScenario, profiles []model.StockProfile, requirements []model.CutRequirement) []ComparisonResult {
	planner := New()
	results := make([]ComparisonResult, 0, len(scenarios))

	for _, scenario := range scenarios {
		p := profiles
		if scenario.IgnoreScrap {
			p = withoutScrap(profiles)
		}
		r := requirements
		if scenario.IgnorePreferences {
			r = withoutTypePreferences(requirements)
		}

		plan, err := planner.Plan(scenario.Strategy, p, r)
		result := ComparisonResult{Scenario: scenario, Err: err}
		if err == nil {
			result.Plan = plan
			result.StocksUsed = plan.Summary.StocksUsed
			result.WastePercent = plan.WastePercent()
		}
		results = append(results, result)
	}

	return results
}

// BuildDefaultScenarios returns what-if variations of the requested strategy.
func BuildDefaultScenarios(strategy model.Strategy) []ComparisonScenario {
	if strategy == "" {
		strategy = model.StrategyGreedy
	}
	scenarios := []ComparisonScenario{
		{Name: "Current Settings", Strategy: strategy},
	}

	alt := model.StrategyILP
	if strategy == model.StrategyILP {
		alt = model.StrategyGreedy
	}
	scenarios = append(scenarios,
		ComparisonScenario{Name: "Strategy " + alt.String(), Strategy: alt},
		ComparisonScenario{Name: "Ignore Type Preferences", Strategy: strategy, IgnorePreferences: true},
		ComparisonScenario{Name: "No Scrap Allowance", Strategy: strategy, IgnoreScrap: true},
	)
	return scenarios
}

func withoutScrap(profiles []model.StockProfile) []model.StockProfile {
	out := make([]model.StockProfile, len(profiles))
	for i, p := range profiles {
		p.ScrapAllowanceMm = 0
		out[i] = p
	}
	return out
}

func withoutTypePreferences(requirements []model.CutRequirement) []model.CutRequirement {
	out := make([]model.CutRequirement, len(requirements))
	for i, r := range requirements {
		r.ProfileType = ""
		out[i] = r
	}
	return out
}
