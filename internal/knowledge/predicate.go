package knowledge

import "fmt"

// Predicate is the closed set of relation kinds a triple can carry.
type Predicate uint8

const (
	// Taxonomy and traits.
	PredIsA Predicate = iota
	PredHasTrait

	// Spatial.
	PredLocatedAt

	// Possession and stock.
	PredContains
	PredRegenRate

	// Physiology (functional scalars on Self).
	PredHunger
	PredEnergy
	PredPain
	PredStress

	// Perception bookkeeping.
	PredLastObserved

	// Episodic event fields.
	PredActor
	PredAction
	PredTarget
	PredResult
	PredFeltEmotion
	PredHappenedAt

	// Social and affective.
	PredAttitudeToward
	PredTriggersEmotion
	PredCategoryOf
)

var predicateNames = [...]string{
	"IsA", "HasTrait",
	"LocatedAt",
	"Contains", "RegenRate",
	"Hunger", "Energy", "Pain", "Stress",
	"LastObserved",
	"Actor", "Action", "Target", "Result", "FeltEmotion", "HappenedAt",
	"AttitudeToward", "TriggersEmotion", "CategoryOf",
}

func (p Predicate) String() string {
	if int(p) < len(predicateNames) {
		return predicateNames[p]
	}
	return fmt.Sprintf("Predicate(%d)", uint8(p))
}

// IsFunctional reports whether a subject can hold at most one triple with
// this predicate. Asserting a functional triple replaces the previous one.
func (p Predicate) IsFunctional() bool {
	switch p {
	case PredLocatedAt, PredRegenRate,
		PredHunger, PredEnergy, PredPain, PredStress,
		PredLastObserved,
		PredActor, PredAction, PredTarget, PredResult, PredFeltEmotion, PredHappenedAt,
		PredAttitudeToward:
		return true
	}
	return false
}
