package brains

import (
	"github.com/talgya/wildmind/internal/actions"
)

// DefaultHysteresisBonus is the fixed score bonus granted to the source
// that won the previous tick, so control does not chatter between brains
// whose scores hover near each other.
const DefaultHysteresisBonus = 10.0

// Decision is the arbitration outcome kept for the journal.
type Decision struct {
	Winner Proposal
	Score  float64
	Bids   int
}

// Arbiter picks one proposal per tick by weighted urgency, with source
// hysteresis. See design doc Section 4.6.
type Arbiter struct {
	bonus   float64
	prev    SourceKind
	hasPrev bool
}

func NewArbiter(bonus float64) *Arbiter {
	return &Arbiter{bonus: bonus}
}

// PreviousWinner reports which source last held the body.
func (a *Arbiter) PreviousWinner() (SourceKind, bool) {
	return a.prev, a.hasPrev
}

// Choose scores every proposal as urgency x source power, plus the
// hysteresis bonus for the incumbent source, and returns the maximum.
// Ties break toward the more primitive source: reflex over associative
// over planned. With no proposals at all the creature idles.
func (a *Arbiter) Choose(proposals []Proposal, pw Powers) Decision {
	if len(proposals) == 0 {
		a.hasPrev = false
		return Decision{Winner: Proposal{Action: actions.Idle(), Reason: "nothing to do"}}
	}

	best := -1
	bestScore := 0.0
	for i, p := range proposals {
		score := p.Urgency * pw.For(p.Source)
		if a.hasPrev && p.Source == a.prev {
			score += a.bonus
		}
		if best == -1 || score > bestScore ||
			(score == bestScore && p.Source < proposals[best].Source) {
			best, bestScore = i, score
		}
	}

	winner := proposals[best]
	a.prev = winner.Source
	a.hasPrev = true
	return Decision{Winner: winner, Score: bestScore, Bids: len(proposals)}
}
