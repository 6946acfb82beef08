// Package planner implements regressive goal-oriented action planning:
// A* search backward from a goal's unmet conditions to the present, priced
// by belief rather than ground truth. See design doc Section 4.4.
package planner

import (
	"container/heap"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/talgya/wildmind/internal/actions"
	"github.com/talgya/wildmind/internal/knowledge"
)

var (
	// ErrNoPlan means the search space was exhausted without reaching a
	// state the creature believes it is already in.
	ErrNoPlan = errors.New("no plan reaches the goal")

	// ErrBudgetExhausted means the node budget ran out first. The caller
	// treats this like ErrNoPlan but it is reported distinctly because it
	// usually signals an over-ambitious goal, not an impossible one.
	ErrBudgetExhausted = errors.New("planning budget exhausted")
)

// Config tunes the search.
type Config struct {
	// NodeBudget caps expansions per planning call so a degenerate goal
	// degrades to a failed plan instead of a stalled tick.
	NodeBudget int `yaml:"node_budget"`

	// MinBranchProb prunes branches resting on assumptions this unlikely.
	MinBranchProb float64 `yaml:"min_branch_prob"`

	// ProbFloor bounds the cost inflation of shaky assumptions:
	// effective = base / max(ProbFloor, p).
	ProbFloor float64 `yaml:"prob_floor"`

	// HeuristicWeight scales the unmet-condition heuristic.
	HeuristicWeight float64 `yaml:"heuristic_weight"`
}

func DefaultConfig() Config {
	return Config{
		NodeBudget:      200,
		MinBranchProb:   0.05,
		ProbFloor:       0.01,
		HeuristicWeight: 5,
	}
}

// Plan is an ordered recipe toward a goal. An empty Steps slice means the
// goal already holds; that is a success, not a failure.
type Plan struct {
	Goal        actions.Goal
	Steps       []actions.Template
	Cost        float64
	SuccessProb float64
}

// Empty reports whether the goal was already satisfied at planning time.
func (p *Plan) Empty() bool { return len(p.Steps) == 0 }

type node struct {
	frontier []knowledge.Pattern // unmet conditions, sorted by key
	steps    []actions.Template  // regression order: last action first
	cost     float64
	prob     float64
	f        float64
	seq      int // tiebreaker for deterministic ordering
}

type openHeap []*node

func (h openHeap) Len() int { return len(h) }
func (h openHeap) Less(i, j int) bool {
	if h[i].f != h[j].f {
		return h[i].f < h[j].f
	}
	return h[i].seq < h[j].seq
}
func (h openHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *openHeap) Push(x any)        { *h = append(*h, x.(*node)) }
func (h *openHeap) Pop() any {
	old := *h
	n := len(old)
	it := old[n-1]
	*h = old[:n-1]
	return it
}

// Planner holds search configuration; it is stateless between calls and
// shared freely.
type Planner struct {
	cfg Config
}

func New(cfg Config) *Planner {
	return &Planner{cfg: cfg}
}

// Plan searches backward from the goal. All probabilities come from the
// belief state, never from ground truth.
func (pl *Planner) Plan(bs *knowledge.BeliefState, goal actions.Goal) (*Plan, error) {
	start := unmet(bs, goal.Conditions)
	if len(start) == 0 {
		return &Plan{Goal: goal, SuccessProb: 1}, nil
	}

	seq := 0
	open := openHeap{{
		frontier: start,
		prob:     1,
		f:        pl.heuristic(bs, start),
	}}
	heap.Init(&open)
	visited := map[string]bool{frontierKey(start): true}

	expanded := 0
	for open.Len() > 0 {
		cur := heap.Pop(&open).(*node)

		if len(cur.frontier) == 0 {
			return &Plan{
				Goal:        goal,
				Steps:       reverse(cur.steps),
				Cost:        cur.cost,
				SuccessProb: cur.prob,
			}, nil
		}

		expanded++
		if expanded > pl.cfg.NodeBudget {
			return nil, fmt.Errorf("%w after %d nodes (goal %s)", ErrBudgetExhausted, expanded-1, goal.Name)
		}

		cond := cur.frontier[0]
		for _, t := range pl.achievers(bs, cond) {
			succ, ok := pl.regress(bs, cur, t)
			if !ok {
				continue
			}
			// Solved successors all share the empty frontier key; they
			// must compete on the heap by cost, not deduplicate each
			// other.
			if len(succ.frontier) > 0 {
				key := frontierKey(succ.frontier)
				if visited[key] {
					continue
				}
				visited[key] = true
			}
			seq++
			succ.seq = seq
			succ.f = succ.cost + pl.heuristic(bs, succ.frontier)
			heap.Push(&open, succ)
		}
	}
	return nil, fmt.Errorf("%w (goal %s)", ErrNoPlan, goal.Name)
}

// achievers is the catalog's successor set plus synthesized movement for
// location conditions.
func (pl *Planner) achievers(bs *knowledge.BeliefState, cond knowledge.Pattern) []actions.Template {
	out := actions.Candidates(bs, cond)
	if mv, ok := pl.synthesizeMove(bs, cond); ok {
		out = append(out, mv)
	}
	return out
}

// synthesizeMove builds an implicit MoveTo for a self-location condition.
// There is no catalog entry per destination cell; movement is derived from
// the condition itself. The origin is always the currently believed cell:
// regression does not track a hypothetical mid-plan position, so every
// movement leg is priced from the same start. Catalog actions carry at
// most one location precondition, which keeps plans single-leg; a second
// leg would need a frontier-aware origin here.
func (pl *Planner) synthesizeMove(bs *knowledge.BeliefState, cond knowledge.Pattern) (actions.Template, bool) {
	if cond.Subject == nil || *cond.Subject != knowledge.Self {
		return actions.Template{}, false
	}
	if cond.Predicate == nil || *cond.Predicate != knowledge.PredLocatedAt {
		return actions.Template{}, false
	}
	if cond.Object == nil || cond.Object.Kind != knowledge.ValueCell {
		return actions.Template{}, false
	}
	from, ok := bs.Store().Get(knowledge.Self, knowledge.PredLocatedAt)
	if !ok || from.Kind != knowledge.ValueCell {
		return actions.Template{}, false
	}
	return actions.MoveTo(from.Cell, cond.Object.Cell), true
}

// regress applies a template backward: its effects discharge frontier
// conditions, its self-preconditions join the frontier, and its world
// preconditions become priced assumptions.
func (pl *Planner) regress(bs *knowledge.BeliefState, cur *node, t actions.Template) (*node, bool) {
	assumed := 1.0
	var plannable []knowledge.Pattern
	for _, pre := range t.Preconditions {
		if pre.Subject != nil && *pre.Subject == knowledge.Self {
			plannable = append(plannable, pre)
			continue
		}
		p := bs.Probability(pre)
		if p < pl.cfg.MinBranchProb {
			return nil, false
		}
		assumed *= p
	}

	next := make([]knowledge.Pattern, 0, len(cur.frontier)+len(plannable))
	for _, c := range cur.frontier {
		if !discharges(t.Effects, c) {
			next = append(next, c)
		}
	}
	for _, pre := range plannable {
		if bs.Satisfied(pre) || containsKey(next, pre) {
			continue
		}
		next = append(next, pre)
	}
	sortPatterns(next)

	eff := t.Cost / max(pl.cfg.ProbFloor, assumed)
	steps := make([]actions.Template, len(cur.steps)+1)
	copy(steps, cur.steps)
	steps[len(cur.steps)] = t

	return &node{
		frontier: next,
		steps:    steps,
		cost:     cur.cost + eff,
		prob:     cur.prob * assumed,
	}, true
}

// heuristic is optimistic remaining effort: each unmet condition counts in
// proportion to how unlikely the creature believes it already is.
func (pl *Planner) heuristic(bs *knowledge.BeliefState, frontier []knowledge.Pattern) float64 {
	h := 0.0
	for _, c := range frontier {
		h += 1 - bs.Probability(c)
	}
	return h * pl.cfg.HeuristicWeight
}

func unmet(bs *knowledge.BeliefState, conds []knowledge.Pattern) []knowledge.Pattern {
	var out []knowledge.Pattern
	for _, c := range conds {
		if !bs.Satisfied(c) {
			out = append(out, c)
		}
	}
	sortPatterns(out)
	return out
}

func discharges(effects []knowledge.Pattern, cond knowledge.Pattern) bool {
	for _, e := range effects {
		if e.Key() == cond.Key() {
			return true
		}
	}
	return false
}

func containsKey(ps []knowledge.Pattern, p knowledge.Pattern) bool {
	for _, q := range ps {
		if q.Key() == p.Key() {
			return true
		}
	}
	return false
}

func sortPatterns(ps []knowledge.Pattern) {
	sort.Slice(ps, func(i, j int) bool { return ps[i].Key() < ps[j].Key() })
}

func frontierKey(ps []knowledge.Pattern) string {
	keys := make([]string, len(ps))
	for i, p := range ps {
		keys[i] = p.Key()
	}
	return strings.Join(keys, ";")
}

func reverse(steps []actions.Template) []actions.Template {
	out := make([]actions.Template, len(steps))
	for i, s := range steps {
		out[len(steps)-1-i] = s
	}
	return out
}
