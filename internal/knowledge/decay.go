package knowledge

import "math"

// Memory half-lives in simulation seconds. Semantic knowledge is sticky,
// raw perception evaporates in under a minute.
const (
	PerceptionHalfLife = 30.0
	EpisodicHalfLife   = 300.0
	SemanticHalfLife   = 36000.0
	CulturalHalfLife   = 2 * SemanticHalfLife

	// ForgetThreshold is the strength below which a triple is dropped.
	ForgetThreshold = 0.1

	// SalienceSlowdown stretches the half-life of vivid memories:
	// adjusted = base * (1 + salience*SalienceSlowdown).
	SalienceSlowdown = 2.0

	// EmptyContainerTTL bounds how long a zero-stock observation is trusted
	// before the creature falls back to optimism about regrowth.
	EmptyContainerTTL = 12.0
)

// DecayConfig carries the tunable decay constants. The zero value is not
// usable; start from DefaultDecayConfig.
type DecayConfig struct {
	PerceptionHalfLife float64 `yaml:"perception_half_life"`
	EpisodicHalfLife   float64 `yaml:"episodic_half_life"`
	SemanticHalfLife   float64 `yaml:"semantic_half_life"`
	CulturalHalfLife   float64 `yaml:"cultural_half_life"`
	ForgetThreshold    float64 `yaml:"forget_threshold"`
	SalienceSlowdown   float64 `yaml:"salience_slowdown"`
	EmptyContainerTTL  float64 `yaml:"empty_container_ttl"`
}

func DefaultDecayConfig() DecayConfig {
	return DecayConfig{
		PerceptionHalfLife: PerceptionHalfLife,
		EpisodicHalfLife:   EpisodicHalfLife,
		SemanticHalfLife:   SemanticHalfLife,
		CulturalHalfLife:   CulturalHalfLife,
		ForgetThreshold:    ForgetThreshold,
		SalienceSlowdown:   SalienceSlowdown,
		EmptyContainerTTL:  EmptyContainerTTL,
	}
}

// HalfLife returns the base half-life for a memory type, +Inf for memory
// that never decays.
func (c DecayConfig) HalfLife(m MemoryType) float64 {
	switch m {
	case MemoryPerception:
		return c.PerceptionHalfLife
	case MemoryEpisodic:
		return c.EpisodicHalfLife
	case MemorySemantic:
		return c.SemanticHalfLife
	case MemoryCultural:
		return c.CulturalHalfLife
	}
	return math.Inf(1)
}

// Strength returns the retained fraction of a memory after age seconds.
// Negative ages (clock skew between collaborators) clamp to zero, never
// amplify.
func (c DecayConfig) Strength(m Metadata, now float64) float64 {
	if !m.Type.Decays() {
		return 1
	}
	age := now - m.Timestamp
	if age < 0 {
		age = 0
	}
	half := c.HalfLife(m.Type) * (1 + m.Salience*c.SalienceSlowdown)
	return math.Pow(0.5, age/half)
}

// Forgotten reports whether the memory has decayed past the retention
// threshold.
func (c DecayConfig) Forgotten(m Metadata, now float64) bool {
	return c.Strength(m, now) < c.ForgetThreshold
}
