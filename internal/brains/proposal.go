// Package brains holds the three proposal sources (reflexive, associative,
// planned) and the arbitrator that lets exactly one act per decision tick.
// Each source is deliberately ignorant of the others; all coupling happens
// through arbitration scores. See design doc Section 4.5.
package brains

import (
	"github.com/talgya/wildmind/internal/actions"
	"github.com/talgya/wildmind/internal/body"
)

// SourceKind identifies which brain produced a proposal.
type SourceKind uint8

const (
	SourceReflex SourceKind = iota
	SourceAssociative
	SourcePlanned
)

var sourceKindNames = [...]string{"reflex", "associative", "planned"}

func (s SourceKind) String() string {
	if int(s) < len(sourceKindNames) {
		return sourceKindNames[s]
	}
	return "unknown"
}

// Proposal is one brain's bid for the body: an action, how badly it wants
// it (0..100), and a human-readable reason for the journal.
type Proposal struct {
	Action  actions.Template
	Urgency float64
	Source  SourceKind
	Reason  string
}

// Powers are the per-source multipliers arbitration applies to urgency.
// They shift with body state: a calm, rested creature is run by its plans,
// a hurting one by its gut.
type Powers struct {
	Reflex      float64
	Associative float64
	Planned     float64
}

// AlertnessGate is the alertness below which deliberate planning switches
// off entirely.
const AlertnessGate = 0.3

// ComputePowers derives the source multipliers from the body snapshot.
// Reflex is pinned at full power: no mood makes a creature ignore fire.
func ComputePowers(b body.Snapshot) Powers {
	distress := b.Pain
	if b.Stress > distress {
		distress = b.Stress
	}
	assoc := 0.4 + 0.4*b.MoodSwing + 0.2*distress/100
	if assoc > 1 {
		assoc = 1
	}

	planned := (b.Energy / 100) * b.Alertness
	if b.Alertness < AlertnessGate {
		planned = 0
	}

	return Powers{Reflex: 1, Associative: assoc, Planned: planned}
}

// For returns the multiplier for a source.
func (p Powers) For(s SourceKind) float64 {
	switch s {
	case SourceReflex:
		return p.Reflex
	case SourceAssociative:
		return p.Associative
	case SourcePlanned:
		return p.Planned
	}
	return 0
}
