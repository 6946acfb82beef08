// Package body defines the read-only physiological and emotional snapshot
// the cognition layer consumes each tick. The mind never mutates a body;
// simulation of the body itself lives with the world, outside this module's
// concern.
package body

import "github.com/talgya/wildmind/internal/knowledge"

// Snapshot is one creature's felt state at a tick. Scalars are 0..100
// unless noted; emotion intensities are 0..1.
type Snapshot struct {
	Hunger    float64 // 100 = starving
	Energy    float64 // 0 = collapsed
	Pain      float64
	Stress    float64
	Health    float64
	Alertness float64 // 0..1, gates deliberation
	MoodSwing float64 // 0..1, emotional volatility
	Asleep    bool

	Fear    float64 // 0..1
	Joy     float64
	Anger   float64
	Sadness float64
}

// EmotionIntensity returns the felt intensity of one emotion.
func (s Snapshot) EmotionIntensity(e knowledge.EmotionType) float64 {
	switch e {
	case knowledge.EmotionFear:
		return s.Fear
	case knowledge.EmotionJoy:
		return s.Joy
	case knowledge.EmotionAnger:
		return s.Anger
	case knowledge.EmotionSadness:
		return s.Sadness
	}
	return 0
}

// Dominant returns the strongest felt emotion and its intensity.
func (s Snapshot) Dominant() (knowledge.EmotionType, float64) {
	best, intensity := knowledge.EmotionJoy, s.Joy
	for _, e := range []knowledge.EmotionType{knowledge.EmotionFear, knowledge.EmotionAnger, knowledge.EmotionSadness} {
		if v := s.EmotionIntensity(e); v > intensity {
			best, intensity = e, v
		}
	}
	return best, intensity
}
