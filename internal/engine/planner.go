package engine

import (
	"fmt"

	"github.com/piwi3910/ProfileCut/internal/model"
)

// Solver computes a cut plan with one algorithm.
type Solver interface {
	// Strategy is the strategy this solver actually implements.
	Strategy() model.Strategy
	Solve(profiles []model.StockProfile, requirements []model.CutRequirement) (model.CutPlanComputation, error)
}

// Planner maps requested strategies onto registered solvers. Strategies
// without a registered solver run on the fallback solver, and the summary
// records both the requested and the used strategy so callers can detect
// the substitution.
//
// A Planner holds no per-call state; once solvers are registered it is safe
// for concurrent use.
type Planner struct {
	solvers  map[model.Strategy]Solver
	fallback Solver
}

// New returns a Planner with the greedy solver registered as both the
// GREEDY solver and the fallback.
func New() *Planner {
	greedy := GreedySolver{}
	return &Planner{
		solvers:  map[model.Strategy]Solver{model.StrategyGreedy: greedy},
		fallback: greedy,
	}
}

// Register installs a solver for the strategy it reports. Registering an
// exact solver for ILP removes the greedy substitution.
func (p *Planner) Register(s Solver) {
	p.solvers[s.Strategy()] = s
}

// Resolve returns the solver that will run for the requested strategy.
func (p *Planner) Resolve(strategy model.Strategy) (Solver, error) {
	if strategy == "" {
		strategy = model.StrategyGreedy
	}
	if !strategy.Valid() {
		return nil, &model.InvalidConfigurationError{Field: "strategy", Reason: fmt.Sprintf("unknown strategy %q", strategy)}
	}
	if s, ok := p.solvers[strategy]; ok {
		return s, nil
	}
	return p.fallback, nil
}

// Plan computes a cut plan. Any placement failure aborts the whole call and
// no partial plan is returned.
func (p *Planner) Plan(strategy model.Strategy, profiles []model.StockProfile, requirements []model.CutRequirement) (model.CutPlanComputation, error) {
	if strategy == "" {
		strategy = model.StrategyGreedy
	}
	solver, err := p.Resolve(strategy)
	if err != nil {
		return model.CutPlanComputation{}, err
	}

	plan, err := solver.Solve(profiles, requirements)
	if err != nil {
		return model.CutPlanComputation{}, err
	}
	plan.Summary.StrategyRequested = strategy
	plan.Summary.StrategyUsed = solver.Strategy()
	return plan, nil
}

// GenerateCutPlan runs a default Planner. It is pure and deterministic:
// identical inputs in identical order give identical plans.
func GenerateCutPlan(strategy model.Strategy, profiles []model.StockProfile, requirements []model.CutRequirement) (model.CutPlanComputation, error) {
	return New().Plan(strategy, profiles, requirements)
}
