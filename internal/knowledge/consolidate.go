package knowledge

import (
	"math"
	"sort"
)

// EpisodicEvent is the structured form of one remembered happening. It is
// stored as a cluster of triples on an event node and reconstructed for
// consolidation scans.
type EpisodicEvent struct {
	ID        EventID
	Actor     Node
	Action    ActionKind
	Target    Node
	Result    Concept // ConceptSucceeded or ConceptFailed
	Emotion   EmotionType
	Intensity float64
	Time      float64
}

// RecordEvent writes the event's field triples as episodic memory. The
// emotional intensity doubles as salience, so vivid events outlive dull
// ones.
func RecordEvent(s *FactStore, ev EpisodicEvent) error {
	n := EventNode(ev.ID)
	meta := Experienced(ev.Time, clamp01(ev.Intensity))
	fields := []Triple{
		{Subject: n, Predicate: PredActor, Object: nodeVal(ev.Actor), Meta: meta},
		{Subject: n, Predicate: PredAction, Object: ActionVal(ev.Action), Meta: meta},
		{Subject: n, Predicate: PredResult, Object: ConceptVal(ev.Result), Meta: meta},
		{Subject: n, Predicate: PredFeltEmotion, Object: EmotionVal(ev.Emotion, clamp01(ev.Intensity)), Meta: meta},
		{Subject: n, Predicate: PredHappenedAt, Object: FloatVal(ev.Time), Meta: meta},
	}
	if ev.Target != (Node{}) {
		fields = append(fields, Triple{Subject: n, Predicate: PredTarget, Object: nodeVal(ev.Target), Meta: meta})
	}
	for _, t := range fields {
		if err := s.Assert(t); err != nil {
			return err
		}
	}
	return nil
}

func nodeVal(n Node) Value {
	switch n.Kind {
	case NodeEntity:
		return EntityVal(n.Entity)
	case NodeConcept:
		return ConceptVal(n.Concept)
	case NodeCell:
		return CellVal(n.Cell)
	case NodeAction:
		return ActionVal(n.Action)
	default:
		return EntityVal(0) // Self
	}
}

// Events reconstructs every live episodic event, oldest first.
func Events(s *FactStore) []EpisodicEvent {
	byID := make(map[EventID]*EpisodicEvent)
	for _, t := range s.ByType(MemoryEpisodic) {
		if t.Subject.Kind != NodeEvent {
			continue
		}
		ev, ok := byID[t.Subject.Event]
		if !ok {
			ev = &EpisodicEvent{ID: t.Subject.Event}
			byID[t.Subject.Event] = ev
		}
		switch t.Predicate {
		case PredActor:
			ev.Actor = valNode(t.Object)
		case PredAction:
			ev.Action = t.Object.Action
		case PredTarget:
			ev.Target = valNode(t.Object)
		case PredResult:
			ev.Result = t.Object.Concept
		case PredFeltEmotion:
			ev.Emotion = t.Object.Emotion
			ev.Intensity = t.Object.Intensity
		case PredHappenedAt:
			ev.Time = t.Object.Float
		}
	}
	out := make([]EpisodicEvent, 0, len(byID))
	for _, ev := range byID {
		out = append(out, *ev)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Time != out[j].Time {
			return out[i].Time < out[j].Time
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func valNode(v Value) Node {
	switch v.Kind {
	case ValueEntity:
		if v.Entity == 0 {
			return Self
		}
		return EntityNode(v.Entity)
	case ValueConcept:
		return ConceptNode(v.Concept)
	case ValueCell:
		return CellNode(v.Cell)
	case ValueAction:
		return ActionNode(v.Action)
	}
	return Self
}

// ConsolidationConfig tunes the episodic-to-semantic pipeline.
type ConsolidationConfig struct {
	RecencyHalfLife  float64 `yaml:"recency_half_life"`
	MinConfidence    float64 `yaml:"min_confidence"`
	MinValence       float64 `yaml:"min_valence"`
	OneShotIntensity float64 `yaml:"one_shot_intensity"`
	MinEvents        int     `yaml:"min_events"`
	MinAssociation   float64 `yaml:"min_association"`
}

func DefaultConsolidationConfig() ConsolidationConfig {
	return ConsolidationConfig{
		RecencyHalfLife:  EpisodicHalfLife,
		MinConfidence:    0.4,
		MinValence:       0.3,
		OneShotIntensity: 0.8,
		MinEvents:        2,
		MinAssociation:   0.3,
	}
}

// eventWeight scores how much one episode counts toward a belief. Intense
// and recent events dominate; even a faded, mild memory keeps a floor
// weight so repeated dull patterns can still add up.
func eventWeight(ev EpisodicEvent, now, recencyHalfLife float64) float64 {
	age := now - ev.Time
	if age < 0 {
		age = 0
	}
	recency := math.Pow(0.5, age/recencyHalfLife)
	return (0.2 + clamp01(ev.Intensity)*0.8) * (0.3 + recency*0.7)
}

// Consolidate scans episodic memory for repeated patterns and writes the
// derived semantic beliefs: social judgements about other creatures,
// affordance beliefs about action outcomes, and emotional associations.
// Returns the number of beliefs written. See design doc Section 4.2.
func Consolidate(s *FactStore, now float64, cfg ConsolidationConfig) int {
	events := Events(s)
	written := 0
	written += consolidateSocial(s, events, now, cfg)
	written += consolidateAffordances(s, events, now, cfg)
	written += consolidateAssociations(s, events, now, cfg)
	return written
}

// consolidateSocial turns repeated emotional episodes involving another
// creature into a Hostile or Friendly trait belief. Supporting and
// contradicting evidence accumulate separately:
//
//	confidence = support/(support+contra) * min(1, (support+contra)/2)
//
// A single event never clears the bar unless it was overwhelming
// (intensity above the one-shot threshold). Each trait belief carries a
// companion AttitudeToward scalar in [-1,1], negative toward hostiles,
// so reactive brains can grade their response without re-reading the
// episodic record.
func consolidateSocial(s *FactStore, events []EpisodicEvent, now float64, cfg ConsolidationConfig) int {
	type tally struct {
		neg, pos float64
		count    int
		oneShot  float64 // strongest qualifying single event, signed by valence
		evidence []EventID
	}
	byActor := make(map[Node]*tally)
	for _, ev := range events {
		if ev.Actor.Kind != NodeEntity {
			continue
		}
		t, ok := byActor[ev.Actor]
		if !ok {
			t = &tally{}
			byActor[ev.Actor] = t
		}
		w := eventWeight(ev, now, cfg.RecencyHalfLife)
		v := ev.Emotion.Valence()
		switch {
		case v < 0:
			t.neg += w * -v
		case v > 0:
			t.pos += w * v
		}
		if ev.Intensity > cfg.OneShotIntensity && v != 0 {
			if math.Abs(ev.Intensity) > math.Abs(t.oneShot) {
				t.oneShot = math.Copysign(ev.Intensity, v)
			}
		}
		t.count++
		t.evidence = append(t.evidence, ev.ID)
	}

	written := 0
	for actor, t := range byActor {
		total := t.neg + t.pos
		if total == 0 {
			continue
		}
		net := (t.pos - t.neg) / total

		trait, support := ConceptHostile, t.neg
		if net > 0 {
			trait, support = ConceptFriendly, t.pos
		}
		conf := (support / total) * math.Min(1, total/2)

		eligible := t.count >= cfg.MinEvents &&
			conf > cfg.MinConfidence && math.Abs(net) > cfg.MinValence

		if !eligible && t.oneShot != 0 {
			// One terrifying or wonderful encounter is enough.
			conf = math.Abs(t.oneShot)
			if t.oneShot < 0 {
				trait = ConceptHostile
			} else {
				trait = ConceptFriendly
			}
			eligible = true
		}
		if !eligible {
			continue
		}

		belief := Triple{
			Subject:   actor,
			Predicate: PredHasTrait,
			Object:    ConceptVal(trait),
			Meta:      Inferred(now, conf, t.evidence),
		}
		if s.Assert(belief) == nil {
			written++
		}

		attitude := conf
		if trait == ConceptHostile {
			attitude = -conf
		}
		scalar := Triple{
			Subject:   actor,
			Predicate: PredAttitudeToward,
			Object:    FloatVal(attitude),
			Meta:      Inferred(now, conf, t.evidence),
		}
		if s.Assert(scalar) == nil {
			written++
		}
	}
	return written
}

// affordanceTraits maps an action that succeeded on some concept to the
// trait belief it justifies.
var affordanceTraits = map[ActionKind]Concept{
	ActionHarvest: ConceptHarvestable,
	ActionEat:     ConceptEdible,
}

// consolidateAffordances learns "this kind of thing works for that" from
// the agent's own action outcomes, grouped by (action, target concept).
func consolidateAffordances(s *FactStore, events []EpisodicEvent, now float64, cfg ConsolidationConfig) int {
	type key struct {
		action ActionKind
		target Concept
	}
	type tally struct {
		success, failure float64
		count            int
		evidence         []EventID
	}
	tallies := make(map[key]*tally)
	for _, ev := range events {
		if ev.Actor != Self {
			continue
		}
		if _, ok := affordanceTraits[ev.Action]; !ok {
			continue
		}
		tc, ok := targetConcept(s, ev.Target)
		if !ok {
			continue
		}
		k := key{ev.Action, tc}
		t, found := tallies[k]
		if !found {
			t = &tally{}
			tallies[k] = t
		}
		w := eventWeight(ev, now, cfg.RecencyHalfLife)
		if ev.Result == ConceptSucceeded {
			t.success += w
		} else {
			t.failure += w
		}
		t.count++
		t.evidence = append(t.evidence, ev.ID)
	}

	written := 0
	for k, t := range tallies {
		total := t.success + t.failure
		if total == 0 || t.count < cfg.MinEvents {
			continue
		}
		conf := (t.success / total) * math.Min(1, total/2)
		if conf <= cfg.MinConfidence {
			continue
		}
		belief := Triple{
			Subject:   ConceptNode(k.target),
			Predicate: PredHasTrait,
			Object:    ConceptVal(affordanceTraits[k.action]),
			Meta:      Inferred(now, conf, t.evidence),
		}
		if s.Assert(belief) == nil {
			written++
		}
	}
	return written
}

// consolidateAssociations distills the dominant emotion felt around each
// entity or concept into a TriggersEmotion fact, the raw material of the
// associative brain.
func consolidateAssociations(s *FactStore, events []EpisodicEvent, now float64, cfg ConsolidationConfig) int {
	type tally struct {
		weight   map[EmotionType]float64
		sum      map[EmotionType]float64 // weighted intensity
		evidence []EventID
	}
	bySubject := make(map[Node]*tally)
	note := func(n Node, ev EpisodicEvent, w float64) {
		if n == Self || n == (Node{}) {
			return
		}
		t, ok := bySubject[n]
		if !ok {
			t = &tally{weight: make(map[EmotionType]float64), sum: make(map[EmotionType]float64)}
			bySubject[n] = t
		}
		t.weight[ev.Emotion] += w
		t.sum[ev.Emotion] += w * clamp01(ev.Intensity)
		t.evidence = append(t.evidence, ev.ID)
	}
	for _, ev := range events {
		w := eventWeight(ev, now, cfg.RecencyHalfLife)
		note(ev.Actor, ev, w)
		note(ev.Target, ev, w)
	}

	written := 0
	for subject, t := range bySubject {
		var dominant EmotionType
		best := 0.0
		for e, w := range t.weight {
			if w > best {
				best, dominant = w, e
			}
		}
		if best == 0 {
			continue
		}
		intensity := clamp01(t.sum[dominant] / t.weight[dominant])
		if intensity < cfg.MinAssociation {
			continue
		}
		belief := Triple{
			Subject:   subject,
			Predicate: PredTriggersEmotion,
			Object:    EmotionVal(dominant, intensity),
			Meta:      Inferred(now, intensity, t.evidence),
		}
		if s.Assert(belief) == nil {
			written++
		}
	}
	return written
}

// targetConcept resolves an event target to the concept it is an instance
// of: concept nodes directly, entity nodes through their IsA fact.
func targetConcept(s *FactStore, n Node) (Concept, bool) {
	switch n.Kind {
	case NodeConcept:
		return n.Concept, true
	case NodeEntity:
		for _, t := range s.QueryPersonal(SubjectPred(n, PredIsA)) {
			if t.Object.Kind == ValueConcept {
				return t.Object.Concept, true
			}
		}
	}
	return 0, false
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
