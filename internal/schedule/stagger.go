// Package schedule provides staggered work scheduling so per-agent
// maintenance (decay sweeps, consolidation) spreads evenly across ticks
// instead of spiking the frame the whole population comes due.
package schedule

// Stagger runs a job once every Interval ticks, offset by agent id:
// agent a is due when (a + tick) % Interval == 0. With n agents and
// interval i, roughly n/i agents are due per tick.
type Stagger struct {
	Interval uint64
}

// NewStagger panics on a zero interval; a zero interval is a config bug,
// not a runtime condition.
func NewStagger(interval uint64) Stagger {
	if interval == 0 {
		panic("schedule: zero stagger interval")
	}
	return Stagger{Interval: interval}
}

// Due reports whether the agent's job runs this tick.
func (s Stagger) Due(agentID, tick uint64) bool {
	return (agentID+tick)%s.Interval == 0
}
