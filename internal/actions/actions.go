// Package actions defines the ground currency of decision making: action
// templates with preconditions and effects, goals, and the per-kind catalog
// the planner regresses over.
package actions

import (
	"fmt"

	"github.com/talgya/wildmind/internal/knowledge"
)

// Base action costs in planner units. MoveTo is priced per cell moved, the
// rest are flat.
const (
	CostEat     = 1.0
	CostHarvest = 2.0
	CostWander  = 2.0
	CostFlee    = 3.0
	CostAttack  = 4.0
	CostExplore = 5.0
	CostSleep   = 8.0
	CostPerCell = 1.0
)

// Template is one executable, fully-ground action: what to do, to whom,
// what must hold first and what holds after.
type Template struct {
	Kind          knowledge.ActionKind
	Target        knowledge.Node // zero Node (Self) when the action has no target
	Preconditions []knowledge.Pattern
	Effects       []knowledge.Pattern
	Cost          float64
}

func (t Template) String() string {
	if t.Target == (knowledge.Node{}) {
		return t.Kind.String()
	}
	return fmt.Sprintf("%s(%s)", t.Kind, t.Target)
}

// Idle is the do-nothing template, the arbitration floor.
func Idle() Template {
	return Template{Kind: knowledge.ActionIdle}
}

// MoveTo builds a movement template toward a cell. Cost scales with
// Manhattan distance from the given start.
func MoveTo(from, to knowledge.Cell) Template {
	return Template{
		Kind:   knowledge.ActionMoveTo,
		Target: knowledge.CellNode(to),
		Effects: []knowledge.Pattern{
			knowledge.Exact(knowledge.Self, knowledge.PredLocatedAt, knowledge.CellVal(to)),
		},
		Cost: CostPerCell * float64(Distance(from, to)),
	}
}

// Distance is grid Manhattan distance.
func Distance(a, b knowledge.Cell) int {
	dx, dy := a.X-b.X, a.Y-b.Y
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

// Goal is a desired world state: a conjunction of patterns plus how much
// the creature currently cares. Two goals are the same goal when their
// conditions match; priority drift alone never invalidates a plan.
type Goal struct {
	Name       string
	Conditions []knowledge.Pattern
	Priority   float64
}

// Equal compares goals by their conditions only.
func (g Goal) Equal(other Goal) bool {
	if len(g.Conditions) != len(other.Conditions) {
		return false
	}
	for i := range g.Conditions {
		if g.Conditions[i].Key() != other.Conditions[i].Key() {
			return false
		}
	}
	return true
}

// Satiated is the hunger goal: hunger driven to zero.
func Satiated(priority float64) Goal {
	return Goal{
		Name: "satiated",
		Conditions: []knowledge.Pattern{
			knowledge.Exact(knowledge.Self, knowledge.PredHunger, knowledge.FloatVal(0)),
		},
		Priority: priority,
	}
}

// Rested is the energy goal: energy restored to full.
func Rested(priority float64) Goal {
	return Goal{
		Name: "rested",
		Conditions: []knowledge.Pattern{
			knowledge.Exact(knowledge.Self, knowledge.PredEnergy, knowledge.FloatVal(100)),
		},
		Priority: priority,
	}
}

// Stocked is the foraging goal: hold at least n of the concept.
func Stocked(c knowledge.Concept, n int, priority float64) Goal {
	return Goal{
		Name: "stocked-" + c.String(),
		Conditions: []knowledge.Pattern{
			knowledge.Exact(knowledge.Self, knowledge.PredContains, knowledge.ItemVal(c, n)),
		},
		Priority: priority,
	}
}
