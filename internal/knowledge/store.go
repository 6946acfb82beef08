package knowledge

// FactStore is one creature's personal knowledge: a slot arena of triples
// with secondary indices for the access patterns the planner and brains
// need. Not safe for concurrent use; each agent owns exactly one store and
// the engine never shares it across goroutines. See design doc Section 4.1.
//
// Index entries carry the slot generation so retired slots can be reused
// without an immediate index rebuild; stale entries are skipped on read and
// swept out after decay removals.
type FactStore struct {
	ont   *Ontology
	decay DecayConfig

	slots []slot
	free  []int
	live  int

	bySubject   map[Node][]entry
	byPredicate map[Predicate][]entry
	byType      map[MemoryType][]entry
	functional  map[subjectPred]entry
}

type slot struct {
	t    Triple
	gen  uint32
	dead bool
}

type entry struct {
	idx int
	gen uint32
}

type subjectPred struct {
	s Node
	p Predicate
}

// NewFactStore builds an empty store backed by the shared ontology.
func NewFactStore(ont *Ontology, decay DecayConfig) *FactStore {
	return &FactStore{
		ont:         ont,
		decay:       decay,
		bySubject:   make(map[Node][]entry),
		byPredicate: make(map[Predicate][]entry),
		byType:      make(map[MemoryType][]entry),
		functional:  make(map[subjectPred]entry),
	}
}

// Len returns the number of live personal triples.
func (s *FactStore) Len() int { return s.live }

// Ontology returns the shared cultural substrate the store was built on.
func (s *FactStore) Ontology() *Ontology { return s.ont }

// DecayConfig returns the decay constants the store sweeps with.
func (s *FactStore) DecayConfig() DecayConfig { return s.decay }

// Assert inserts a triple, enforcing the replacement rules: functional
// predicates hold one value per subject, Contains holds one stack per item
// concept, and duplicate non-functional triples refresh in place rather
// than accumulate.
func (s *FactStore) Assert(t Triple) error {
	if err := t.validate(); err != nil {
		return err
	}

	if t.Predicate == PredContains && t.Object.Kind == ValueItem {
		for _, e := range s.bySubject[t.Subject] {
			old, ok := s.slotAt(e)
			if !ok || old.Predicate != PredContains {
				continue
			}
			if old.Object.Kind == ValueItem && old.Object.Concept == t.Object.Concept {
				s.retire(e.idx)
				break
			}
		}
		s.insert(t)
		return nil
	}

	if t.Predicate.IsFunctional() {
		key := subjectPred{t.Subject, t.Predicate}
		if e, ok := s.functional[key]; ok {
			if _, live := s.slotAt(e); live {
				s.retire(e.idx)
			}
		}
		s.insert(t)
		return nil
	}

	// Re-learning the same fact refreshes its envelope instead of
	// duplicating it.
	for _, e := range s.bySubject[t.Subject] {
		old, ok := s.slotAt(e)
		if !ok {
			continue
		}
		if old.Predicate == t.Predicate && old.Object == t.Object {
			if old.Meta.Type == t.Meta.Type {
				s.slots[e.idx].t.Meta = t.Meta
			} else {
				// Memory type changed, so the by-type index entry
				// must move with it.
				s.retire(e.idx)
				s.insert(t)
			}
			return nil
		}
	}

	s.insert(t)
	return nil
}

// Remove drops the exact triple if present. Explicit invalidation, e.g.
// when perception contradicts a stored location.
func (s *FactStore) Remove(sub Node, p Predicate, o Value) bool {
	for _, e := range s.bySubject[sub] {
		t, ok := s.slotAt(e)
		if !ok {
			continue
		}
		if t.Predicate == p && t.Object == o {
			s.retire(e.idx)
			return true
		}
	}
	return false
}

// Query returns every triple matching the pattern: ontology matches first,
// then personal facts. Personal matches are live slots only.
func (s *FactStore) Query(p Pattern) []Triple {
	out := s.ont.Query(p)
	return append(out, s.QueryPersonal(p)...)
}

// QueryPersonal is Query restricted to this creature's own facts.
func (s *FactStore) QueryPersonal(p Pattern) []Triple {
	var out []Triple
	for _, e := range s.candidates(p) {
		t, ok := s.slotAt(e)
		if !ok {
			continue
		}
		if p.Matches(t) {
			out = append(out, t)
		}
	}
	return out
}

// candidates picks the narrowest index for a pattern.
func (s *FactStore) candidates(p Pattern) []entry {
	switch {
	case p.Subject != nil:
		return s.bySubject[*p.Subject]
	case p.Predicate != nil:
		return s.byPredicate[*p.Predicate]
	}
	all := make([]entry, 0, s.live)
	for i := range s.slots {
		if !s.slots[i].dead {
			all = append(all, entry{i, s.slots[i].gen})
		}
	}
	return all
}

// Get is the O(1) functional lookup: the single value of (subject,
// predicate), falling back to the ontology.
func (s *FactStore) Get(sub Node, p Predicate) (Value, bool) {
	if e, ok := s.functional[subjectPred{sub, p}]; ok {
		if t, live := s.slotAt(e); live {
			return t.Object, true
		}
	}
	for _, t := range s.ont.Query(SubjectPred(sub, p)) {
		return t.Object, true
	}
	return Value{}, false
}

// GetTriple is Get with the full envelope.
func (s *FactStore) GetTriple(sub Node, p Predicate) (Triple, bool) {
	if e, ok := s.functional[subjectPred{sub, p}]; ok {
		if t, live := s.slotAt(e); live {
			return t, true
		}
	}
	return Triple{}, false
}

// IsA reports whether the node is (transitively) a kind of the concept,
// consulting the ontology closure and then personal IsA facts.
func (s *FactStore) IsA(n Node, c Concept) bool {
	if n.Kind == NodeConcept && s.ont.IsA(n.Concept, c) {
		return true
	}
	for _, t := range s.QueryPersonal(SubjectPred(n, PredIsA)) {
		if t.Object.Kind == ValueConcept && s.ont.IsA(t.Object.Concept, c) {
			return true
		}
	}
	return false
}

// HasTrait reports whether the node carries the trait, directly or through
// its concept memberships.
func (s *FactStore) HasTrait(n Node, tr Concept) bool {
	if n.Kind == NodeConcept && s.ont.HasTrait(n.Concept, tr) {
		return true
	}
	for _, t := range s.QueryPersonal(SubjectPred(n, PredHasTrait)) {
		if t.Object.Kind == ValueConcept && t.Object.Concept == tr {
			return true
		}
	}
	for _, t := range s.QueryPersonal(SubjectPred(n, PredIsA)) {
		if t.Object.Kind == ValueConcept && s.ont.HasTrait(t.Object.Concept, tr) {
			return true
		}
	}
	return false
}

// CountOf sums the held quantity of everything under the concept, e.g.
// CountOf(Self, Food) counts berries and apples together.
func (s *FactStore) CountOf(sub Node, c Concept) int {
	total := 0
	for _, t := range s.QueryPersonal(SubjectPred(sub, PredContains)) {
		if t.Object.Kind == ValueItem && s.ont.IsA(t.Object.Concept, c) {
			total += t.Object.Qty
		}
	}
	return total
}

// HasAny reports whether the subject holds at least one of the concept.
func (s *FactStore) HasAny(sub Node, c Concept) bool {
	return s.CountOf(sub, c) > 0
}

// ByType returns the live triples of one memory type, the scan the
// consolidation engine runs over episodic memory.
func (s *FactStore) ByType(m MemoryType) []Triple {
	var out []Triple
	for _, e := range s.byType[m] {
		if t, ok := s.slotAt(e); ok {
			out = append(out, t)
		}
	}
	return out
}

// All returns a snapshot of every live personal triple.
func (s *FactStore) All() []Triple {
	out := make([]Triple, 0, s.live)
	for i := range s.slots {
		if !s.slots[i].dead {
			out = append(out, s.slots[i].t)
		}
	}
	return out
}

// Decay sweeps the store at the given sim time, dropping triples whose
// strength fell below the forget threshold and expiring stale zero-stock
// observations. Returns the number removed; indices are rebuilt only when
// something was actually removed.
func (s *FactStore) Decay(now float64) int {
	removed := 0
	for i := range s.slots {
		if s.slots[i].dead {
			continue
		}
		t := s.slots[i].t
		if s.decay.Forgotten(t.Meta, now) {
			s.retire(i)
			removed++
			continue
		}
		if t.Predicate == PredContains && t.Object.Kind == ValueItem && t.Object.Qty == 0 {
			age := now - t.Meta.Timestamp
			if age > s.decay.EmptyContainerTTL {
				s.retire(i)
				removed++
			}
		}
	}
	if removed > 0 {
		s.rebuild()
	}
	return removed
}

func (s *FactStore) slotAt(e entry) (Triple, bool) {
	sl := &s.slots[e.idx]
	if sl.dead || sl.gen != e.gen {
		return Triple{}, false
	}
	return sl.t, true
}

func (s *FactStore) insert(t Triple) {
	var idx int
	if n := len(s.free); n > 0 {
		idx = s.free[n-1]
		s.free = s.free[:n-1]
		s.slots[idx].t = t
		s.slots[idx].gen++
		s.slots[idx].dead = false
	} else {
		idx = len(s.slots)
		s.slots = append(s.slots, slot{t: t})
	}
	e := entry{idx, s.slots[idx].gen}
	s.bySubject[t.Subject] = append(s.bySubject[t.Subject], e)
	s.byPredicate[t.Predicate] = append(s.byPredicate[t.Predicate], e)
	s.byType[t.Meta.Type] = append(s.byType[t.Meta.Type], e)
	if t.Predicate.IsFunctional() {
		s.functional[subjectPred{t.Subject, t.Predicate}] = e
	}
	s.live++
}

func (s *FactStore) retire(idx int) {
	if s.slots[idx].dead {
		return
	}
	s.slots[idx].dead = true
	s.free = append(s.free, idx)
	s.live--
}

// rebuild drops stale index entries after a bulk removal. The arena itself
// is not compacted; freed slots stay on the free list for reuse.
func (s *FactStore) rebuild() {
	s.bySubject = make(map[Node][]entry, len(s.bySubject))
	s.byPredicate = make(map[Predicate][]entry, len(s.byPredicate))
	s.byType = make(map[MemoryType][]entry, len(s.byType))
	s.functional = make(map[subjectPred]entry, len(s.functional))
	for i := range s.slots {
		if s.slots[i].dead {
			continue
		}
		t := s.slots[i].t
		e := entry{i, s.slots[i].gen}
		s.bySubject[t.Subject] = append(s.bySubject[t.Subject], e)
		s.byPredicate[t.Predicate] = append(s.byPredicate[t.Predicate], e)
		s.byType[t.Meta.Type] = append(s.byType[t.Meta.Type], e)
		if t.Predicate.IsFunctional() {
			s.functional[subjectPred{t.Subject, t.Predicate}] = e
		}
	}
}
