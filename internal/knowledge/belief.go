package knowledge

import "math"

// DefaultRegenEstimate is the assumed resource regeneration time constant
// (seconds) when no RegenRate fact is known for a depleted source.
const DefaultRegenEstimate = 300.0

// BeliefState is a lazy probabilistic view over a store at one instant.
// Built per planning call; probabilities are computed on demand and cached
// by pattern, so the planner pays only for the conditions it actually
// evaluates. See design doc Section 4.3.
type BeliefState struct {
	store *FactStore
	now   float64
	cache map[string]float64
}

// NewBeliefState snapshots the evaluation instant. The store is read, never
// written.
func NewBeliefState(store *FactStore, now float64) *BeliefState {
	return &BeliefState{store: store, now: now, cache: make(map[string]float64)}
}

// Now returns the instant the beliefs are evaluated at.
func (b *BeliefState) Now() float64 { return b.now }

// Store exposes the underlying facts for target resolution.
func (b *BeliefState) Store() *FactStore { return b.store }

// Probability estimates how likely the pattern holds in the world right
// now, in [0,1]. Ontology truths are certain; personal facts weaken with
// decay; a remembered-empty resource yields a regrowth estimate instead of
// a flat zero.
func (b *BeliefState) Probability(p Pattern) float64 {
	key := p.Key()
	if v, ok := b.cache[key]; ok {
		return v
	}
	v := b.probability(p)
	b.cache[key] = v
	return v
}

func (b *BeliefState) probability(p Pattern) float64 {
	if len(b.store.ont.Query(p)) > 0 {
		return 1
	}

	best := 0.0
	for _, t := range b.store.QueryPersonal(p) {
		if isEmptyStack(t) {
			continue
		}
		pr := t.Meta.Confidence * b.store.decay.Strength(t.Meta, b.now)
		if pr > best {
			best = pr
		}
	}
	if best > 0 {
		return best
	}

	// No live match. If we remember the subject being out of stock, guess
	// at regrowth: p = 1 - e^(-age/regen).
	if p.Subject != nil && p.Predicate != nil && *p.Predicate == PredContains {
		for _, t := range b.store.QueryPersonal(SubjectPred(*p.Subject, PredContains)) {
			if !isEmptyStack(t) {
				continue
			}
			if p.Object != nil && p.Object.Kind == ValueItem && t.Object.Concept != p.Object.Concept {
				continue
			}
			age := b.now - t.Meta.Timestamp
			if age < 0 {
				age = 0
			}
			regen := DefaultRegenEstimate
			if v, ok := b.store.Get(*p.Subject, PredRegenRate); ok && v.Kind == ValueFloat && v.Float > 0 {
				regen = v.Float
			}
			return 1 - math.Exp(-age/regen)
		}
	}
	return 0
}

// Satisfied reports whether the pattern already holds, for plan-step
// precondition checks. Empty stacks never satisfy.
func (b *BeliefState) Satisfied(p Pattern) bool {
	if len(b.store.ont.Query(p)) > 0 {
		return true
	}
	for _, t := range b.store.QueryPersonal(p) {
		if !isEmptyStack(t) {
			return true
		}
	}
	return false
}

func isEmptyStack(t Triple) bool {
	return t.Predicate == PredContains && t.Object.Kind == ValueItem && t.Object.Qty == 0
}
