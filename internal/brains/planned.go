package brains

import (
	"errors"
	"log/slog"

	"github.com/talgya/wildmind/internal/actions"
	"github.com/talgya/wildmind/internal/body"
	"github.com/talgya/wildmind/internal/knowledge"
	"github.com/talgya/wildmind/internal/planner"
)

// exploreUrgency is the fallback bid when planning fails: go look for
// something to plan with.
const exploreUrgency = 20.0

// Planned is the deliberative brain. It holds the current plan across
// ticks, verifies the active step's preconditions every time it is asked,
// and replans when the goal changes, a precondition breaks, or the plan
// runs out. It is the only brain that touches the planner.
type Planned struct {
	planner *planner.Planner
	log     *slog.Logger

	goal        actions.Goal
	hasGoal     bool
	plan        *planner.Plan
	step        int
	everPlanned bool
	replans     uint64
}

func NewPlanned(p *planner.Planner, log *slog.Logger) *Planned {
	if log == nil {
		log = slog.Default()
	}
	return &Planned{planner: p, log: log}
}

// Replans returns how many times this brain has discarded a plan, the
// core telemetry signal for thrash.
func (p *Planned) Replans() uint64 { return p.replans }

// CurrentPlan exposes the live plan for introspection; nil when idle.
func (p *Planned) CurrentPlan() *planner.Plan { return p.plan }

// Propose returns the current plan step as a bid, replanning first if
// anything invalidated the plan. Below the alertness gate the brain is
// silent: a groggy creature runs on reflexes and gut alone.
func (p *Planned) Propose(bs *knowledge.BeliefState, b body.Snapshot, goal actions.Goal) []Proposal {
	if b.Alertness < AlertnessGate {
		return nil
	}

	if !p.hasGoal || !p.goal.Equal(goal) {
		p.adopt(goal)
	} else {
		p.goal = goal // same goal, refreshed priority
	}

	if p.plan != nil {
		p.advanceCompleted(bs)
	}
	if p.plan != nil && p.step < len(p.plan.Steps) {
		if violated := p.violatedPrecondition(bs); violated != nil {
			p.log.Debug("plan invalidated",
				"goal", p.goal.Name, "step", p.plan.Steps[p.step].String(),
				"condition", violated.String())
			p.plan = nil
		}
	}

	// An empty plan means the goal held at planning time. While it keeps
	// holding there is nothing to redo; replanning here would count a
	// phantom replan every tick.
	if p.plan != nil && p.plan.Empty() {
		if p.goalHolds(bs) {
			return nil
		}
		p.plan = nil
	}

	if p.plan == nil || p.step >= len(p.plan.Steps) {
		if !p.replan(bs) {
			return []Proposal{{
				Action:  actions.Template{Kind: knowledge.ActionExplore, Cost: actions.CostExplore},
				Urgency: exploreUrgency,
				Source:  SourcePlanned,
				Reason:  "no viable plan, exploring for options",
			}}
		}
	}

	if p.plan.Empty() || p.step >= len(p.plan.Steps) {
		return nil // goal already holds; nothing to bid for
	}

	step := p.plan.Steps[p.step]
	return []Proposal{{
		Action:  step,
		Urgency: p.goal.Priority,
		Source:  SourcePlanned,
		Reason:  "plan step toward " + p.goal.Name,
	}}
}

func (p *Planned) goalHolds(bs *knowledge.BeliefState) bool {
	for _, c := range p.goal.Conditions {
		if !bs.Satisfied(c) {
			return false
		}
	}
	return true
}

func (p *Planned) adopt(goal actions.Goal) {
	p.goal = goal
	p.hasGoal = true
	p.plan = nil
	p.step = 0
	p.everPlanned = false
}

// advanceCompleted walks past steps whose effects already hold, so an
// action finished by the world moves the plan along without an explicit
// completion callback.
func (p *Planned) advanceCompleted(bs *knowledge.BeliefState) {
	for p.step < len(p.plan.Steps) {
		step := p.plan.Steps[p.step]
		if len(step.Effects) == 0 {
			return
		}
		done := true
		for _, e := range step.Effects {
			if !bs.Satisfied(e) {
				done = false
				break
			}
		}
		if !done {
			return
		}
		p.step++
	}
}

// violatedPrecondition returns the first broken precondition of the active
// step, nil when the step is still executable.
func (p *Planned) violatedPrecondition(bs *knowledge.BeliefState) *knowledge.Pattern {
	step := p.plan.Steps[p.step]
	for i := range step.Preconditions {
		if !bs.Satisfied(step.Preconditions[i]) {
			return &step.Preconditions[i]
		}
	}
	return nil
}

func (p *Planned) replan(bs *knowledge.BeliefState) bool {
	if p.everPlanned {
		p.replans++
	}
	p.everPlanned = true
	plan, err := p.planner.Plan(bs, p.goal)
	if err != nil {
		if errors.Is(err, planner.ErrBudgetExhausted) {
			p.log.Warn("planning budget exhausted", "goal", p.goal.Name)
		} else {
			p.log.Debug("planning failed", "goal", p.goal.Name, "err", err)
		}
		p.plan = nil
		p.step = 0
		return false
	}
	p.plan = plan
	p.step = 0
	p.log.Debug("adopted plan",
		"goal", p.goal.Name, "steps", len(plan.Steps),
		"cost", plan.Cost, "success_prob", plan.SuccessProb)
	return true
}
