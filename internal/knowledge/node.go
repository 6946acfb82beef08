// Package knowledge provides the per-creature fact store: provenance-tagged
// triples with type-dependent decay, the shared ontology, episodic
// consolidation, and the belief-state builder used by the planner.
// See design doc Sections 4.1–4.3.
package knowledge

import "fmt"

// EntityID identifies a world object (creature, bush, tree) known to an agent.
// Zero means "no entity".
type EntityID uint64

// EventID identifies a remembered episodic event.
type EventID uint64

// Cell is a map-grid coordinate.
type Cell struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Concept is an abstract category a creature can reason about.
type Concept uint8

const (
	ConceptThing Concept = iota
	ConceptPhysical
	ConceptCreature
	ConceptAnimal
	ConceptPlant
	ConceptFood
	ConceptResource
	ConceptApple
	ConceptAppleTree
	ConceptBerry
	ConceptBerryBush
	ConceptWater
	ConceptDeer

	// Traits.
	ConceptEdible
	ConceptHarvestable
	ConceptDangerous
	ConceptSafe
	ConceptFriendly
	ConceptHostile
	ConceptSentient

	// Action categories.
	ConceptSocialAction
	ConceptViolentAction
	ConceptSurvivalAction
	ConceptMovementAction

	// Outcome results.
	ConceptSucceeded
	ConceptFailed
)

var conceptNames = [...]string{
	"Thing", "Physical", "Creature", "Animal", "Plant", "Food", "Resource",
	"Apple", "AppleTree", "Berry", "BerryBush", "Water", "Deer",
	"Edible", "Harvestable", "Dangerous", "Safe", "Friendly", "Hostile", "Sentient",
	"SocialAction", "ViolentAction", "SurvivalAction", "MovementAction",
	"Succeeded", "Failed",
}

func (c Concept) String() string {
	if int(c) < len(conceptNames) {
		return conceptNames[c]
	}
	return fmt.Sprintf("Concept(%d)", uint8(c))
}

// ActionKind enumerates the closed set of things a creature can do.
// It lives here (not in the actions package) because action kinds appear as
// nodes and values inside triples: the ontology categorizes them, and
// episodic events record which one happened.
type ActionKind uint8

const (
	ActionIdle ActionKind = iota
	ActionMoveTo
	ActionHarvest
	ActionEat
	ActionSleep
	ActionWakeUp
	ActionWander
	ActionExplore
	ActionFlee
	ActionAttack
)

var actionNames = [...]string{
	"Idle", "MoveTo", "Harvest", "Eat", "Sleep", "WakeUp",
	"Wander", "Explore", "Flee", "Attack",
}

func (k ActionKind) String() string {
	if int(k) < len(actionNames) {
		return actionNames[k]
	}
	return fmt.Sprintf("ActionKind(%d)", uint8(k))
}

// EmotionType enumerates the basic felt emotions recorded in memories and
// associations.
type EmotionType uint8

const (
	EmotionJoy EmotionType = iota
	EmotionFear
	EmotionAnger
	EmotionSadness
	EmotionSurprise
	EmotionDisgust
)

var emotionNames = [...]string{"Joy", "Fear", "Anger", "Sadness", "Surprise", "Disgust"}

func (e EmotionType) String() string {
	if int(e) < len(emotionNames) {
		return emotionNames[e]
	}
	return fmt.Sprintf("EmotionType(%d)", uint8(e))
}

// Valence maps an emotion to a signed goodness scalar, used when
// consolidating episodic memories into social judgements.
func (e EmotionType) Valence() float64 {
	switch e {
	case EmotionJoy:
		return 1.0
	case EmotionSurprise:
		return 0.2
	case EmotionSadness:
		return -0.5
	case EmotionFear:
		return -1.0
	case EmotionAnger:
		return -0.8
	case EmotionDisgust:
		return -0.7
	}
	return 0
}

// NodeKind discriminates the Node tagged union.
type NodeKind uint8

const (
	// NodeSelf is the zero kind: the zero Node refers to the owning agent.
	NodeSelf NodeKind = iota
	NodeEntity
	NodeConcept
	NodeCell
	NodeEvent
	NodeAction
)

// Node is a subject or object in the knowledge graph. It is a comparable
// tagged union: exactly the field selected by Kind is meaningful. Nodes are
// used as map keys in the store indices, so all fields are comparable types.
type Node struct {
	Kind    NodeKind
	Entity  EntityID
	Concept Concept
	Cell    Cell
	Event   EventID
	Action  ActionKind
}

// Self is the node referring to the agent that owns the store.
var Self = Node{Kind: NodeSelf}

func EntityNode(id EntityID) Node  { return Node{Kind: NodeEntity, Entity: id} }
func ConceptNode(c Concept) Node   { return Node{Kind: NodeConcept, Concept: c} }
func CellNode(c Cell) Node         { return Node{Kind: NodeCell, Cell: c} }
func EventNode(id EventID) Node    { return Node{Kind: NodeEvent, Event: id} }
func ActionNode(k ActionKind) Node { return Node{Kind: NodeAction, Action: k} }

func (n Node) String() string {
	switch n.Kind {
	case NodeSelf:
		return "Self"
	case NodeEntity:
		return fmt.Sprintf("Entity(%d)", n.Entity)
	case NodeConcept:
		return n.Concept.String()
	case NodeCell:
		return fmt.Sprintf("Cell(%d,%d)", n.Cell.X, n.Cell.Y)
	case NodeEvent:
		return fmt.Sprintf("Event(%d)", n.Event)
	case NodeAction:
		return n.Action.String()
	}
	return "Node(?)"
}
