package actions

import (
	"sort"

	"github.com/talgya/wildmind/internal/knowledge"
)

// Candidates enumerates the ground templates that could achieve one unmet
// condition, given current beliefs. This is the regressive planner's
// successor function: it answers "what could make this true", not "what
// should I do". MoveTo is not enumerated here; the planner synthesizes it
// for location conditions directly.
func Candidates(bs *knowledge.BeliefState, cond knowledge.Pattern) []Template {
	if cond.Subject == nil || cond.Predicate == nil || cond.Object == nil {
		return nil
	}
	if *cond.Subject != knowledge.Self {
		// Conditions about the rest of the world cannot be acted into
		// existence; the planner prices them as assumptions.
		return nil
	}

	switch *cond.Predicate {
	case knowledge.PredHunger:
		if cond.Object.Kind == knowledge.ValueFloat && cond.Object.Float == 0 {
			return eatCandidates(bs, cond)
		}
	case knowledge.PredEnergy:
		if cond.Object.Kind == knowledge.ValueFloat && cond.Object.Float >= 100 {
			return []Template{{
				Kind:    knowledge.ActionSleep,
				Effects: []knowledge.Pattern{cond},
				Cost:    CostSleep,
			}}
		}
	case knowledge.PredContains:
		if cond.Object.Kind == knowledge.ValueItem {
			return harvestCandidates(bs, cond)
		}
	}
	return nil
}

// eatCandidates proposes eating each concrete food kind; the held-item
// precondition regresses into foraging when the pouch is empty.
func eatCandidates(bs *knowledge.BeliefState, cond knowledge.Pattern) []Template {
	var out []Template
	for _, c := range bs.Store().Ontology().Kinds(knowledge.ConceptFood) {
		out = append(out, Template{
			Kind:   knowledge.ActionEat,
			Target: knowledge.ConceptNode(c),
			Preconditions: []knowledge.Pattern{
				knowledge.Exact(knowledge.Self, knowledge.PredContains, knowledge.ItemVal(c, 1)),
			},
			Effects: []knowledge.Pattern{cond},
			Cost:    CostEat,
		})
	}
	return out
}

// harvestCandidates proposes harvesting from every remembered source of
// the item, including ones last seen empty: the belief state prices those
// by regrowth probability rather than ruling them out.
func harvestCandidates(bs *knowledge.BeliefState, cond knowledge.Pattern) []Template {
	store := bs.Store()
	item := *cond.Object

	sources := make(map[knowledge.EntityID]knowledge.Cell)
	pred := knowledge.PredContains
	for _, t := range store.QueryPersonal(knowledge.Pattern{Predicate: &pred}) {
		if t.Subject.Kind != knowledge.NodeEntity {
			continue
		}
		if t.Object.Kind != knowledge.ValueItem || t.Object.Concept != item.Concept {
			continue
		}
		loc, ok := store.Get(t.Subject, knowledge.PredLocatedAt)
		if !ok || loc.Kind != knowledge.ValueCell {
			continue // a source we cannot find is not a candidate
		}
		sources[t.Subject.Entity] = loc.Cell
	}

	ids := make([]knowledge.EntityID, 0, len(sources))
	for id := range sources {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]Template, 0, len(ids))
	for _, id := range ids {
		src := knowledge.EntityNode(id)
		out = append(out, Template{
			Kind:   knowledge.ActionHarvest,
			Target: src,
			Preconditions: []knowledge.Pattern{
				knowledge.Exact(knowledge.Self, knowledge.PredLocatedAt, knowledge.CellVal(sources[id])),
				knowledge.Exact(src, knowledge.PredContains, knowledge.ItemVal(item.Concept, 1)),
			},
			Effects: []knowledge.Pattern{cond},
			Cost:    CostHarvest,
		})
	}
	return out
}
