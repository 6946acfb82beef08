package knowledge

import "sort"

// Ontology is the shared, immutable cultural substrate: concept taxonomy,
// inherited traits, and action categories. Built once at startup and shared
// by pointer across every agent; queries union it with personal facts.
type Ontology struct {
	triples   []Triple
	ancestors map[Concept]map[Concept]bool
	traits    map[Concept]map[Concept]bool
}

// NewOntology precomputes the IsA and HasTrait closures from a seed triple
// set. Traits inherit downward through the taxonomy.
func NewOntology(seed []Triple) *Ontology {
	o := &Ontology{
		triples:   seed,
		ancestors: make(map[Concept]map[Concept]bool),
		traits:    make(map[Concept]map[Concept]bool),
	}

	parents := make(map[Concept][]Concept)
	direct := make(map[Concept][]Concept)
	for _, t := range seed {
		if t.Subject.Kind != NodeConcept {
			continue
		}
		c := t.Subject.Concept
		switch t.Predicate {
		case PredIsA:
			if t.Object.Kind == ValueConcept {
				parents[c] = append(parents[c], t.Object.Concept)
			}
		case PredHasTrait:
			if t.Object.Kind == ValueConcept {
				direct[c] = append(direct[c], t.Object.Concept)
			}
		}
	}

	var ancestorsOf func(c Concept) map[Concept]bool
	ancestorsOf = func(c Concept) map[Concept]bool {
		if cached, ok := o.ancestors[c]; ok {
			return cached
		}
		set := map[Concept]bool{c: true}
		o.ancestors[c] = set // break cycles
		for _, p := range parents[c] {
			for a := range ancestorsOf(p) {
				set[a] = true
			}
		}
		return set
	}

	for c := range parents {
		ancestorsOf(c)
	}
	for c := range direct {
		ancestorsOf(c)
	}

	// A concept carries its own traits plus every ancestor's.
	for c, anc := range o.ancestors {
		set := make(map[Concept]bool)
		for a := range anc {
			for _, tr := range direct[a] {
				set[tr] = true
			}
		}
		o.traits[c] = set
	}

	return o
}

// DefaultOntology is the creature-world taxonomy every agent is raised with.
func DefaultOntology() *Ontology {
	isa := func(c, parent Concept) Triple {
		return NewTriple(ConceptNode(c), PredIsA, ConceptVal(parent))
	}
	trait := func(c, tr Concept) Triple {
		return NewTriple(ConceptNode(c), PredHasTrait, ConceptVal(tr))
	}
	category := func(a ActionKind, c Concept) Triple {
		return NewTriple(ActionNode(a), PredCategoryOf, ConceptVal(c))
	}
	return NewOntology([]Triple{
		isa(ConceptPhysical, ConceptThing),
		isa(ConceptCreature, ConceptPhysical),
		isa(ConceptAnimal, ConceptCreature),
		isa(ConceptDeer, ConceptAnimal),
		isa(ConceptPlant, ConceptPhysical),
		isa(ConceptResource, ConceptPhysical),
		isa(ConceptFood, ConceptResource),
		isa(ConceptApple, ConceptFood),
		isa(ConceptBerry, ConceptFood),
		isa(ConceptWater, ConceptResource),
		isa(ConceptAppleTree, ConceptPlant),
		isa(ConceptBerryBush, ConceptPlant),

		trait(ConceptFood, ConceptEdible),
		trait(ConceptAppleTree, ConceptHarvestable),
		trait(ConceptBerryBush, ConceptHarvestable),
		trait(ConceptAnimal, ConceptSentient),

		category(ActionAttack, ConceptViolentAction),
		category(ActionFlee, ConceptSurvivalAction),
		category(ActionEat, ConceptSurvivalAction),
		category(ActionSleep, ConceptSurvivalAction),
		category(ActionHarvest, ConceptSurvivalAction),
		category(ActionMoveTo, ConceptMovementAction),
		category(ActionWander, ConceptMovementAction),
		category(ActionExplore, ConceptMovementAction),
	})
}

// IsA reports whether concept c is (transitively) a kind of parent.
func (o *Ontology) IsA(c, parent Concept) bool {
	if c == parent {
		return true
	}
	return o.ancestors[c][parent]
}

// HasTrait reports whether c carries the trait directly or by inheritance.
func (o *Ontology) HasTrait(c, tr Concept) bool {
	return o.traits[c][tr]
}

// Ancestors returns every concept c is a kind of, including itself.
func (o *Ontology) Ancestors(c Concept) []Concept {
	out := make([]Concept, 0, len(o.ancestors[c])+1)
	if len(o.ancestors[c]) == 0 {
		return append(out, c)
	}
	for a := range o.ancestors[c] {
		out = append(out, a)
	}
	return out
}

// Kinds returns every concept that is (transitively) a kind of parent,
// sorted for deterministic iteration. The parent itself is excluded.
func (o *Ontology) Kinds(parent Concept) []Concept {
	var out []Concept
	for c, anc := range o.ancestors {
		if c != parent && anc[parent] {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Query returns the seed triples matched by the pattern.
func (o *Ontology) Query(p Pattern) []Triple {
	var out []Triple
	for _, t := range o.triples {
		if p.Matches(t) {
			out = append(out, t)
		}
	}
	return out
}
