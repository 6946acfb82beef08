package knowledge

import "fmt"

// ValueKind discriminates the Value tagged union. The zero kind is invalid
// so that a zero Value is distinguishable from a real one.
type ValueKind uint8

const (
	ValueNone ValueKind = iota
	ValueBool
	ValueInt
	ValueFloat
	ValueConcept
	ValueEntity
	ValueCell
	ValueAction
	ValueEmotion
	ValueItem
)

// Value is the object slot of a triple. Comparable struct union: only the
// fields implied by Kind are meaningful. Emotion values carry an intensity;
// item values carry a quantity.
type Value struct {
	Kind      ValueKind
	Bool      bool
	Int       int
	Float     float64
	Concept   Concept
	Entity    EntityID
	Cell      Cell
	Action    ActionKind
	Emotion   EmotionType
	Intensity float64
	Qty       int
}

func BoolVal(b bool) Value       { return Value{Kind: ValueBool, Bool: b} }
func IntVal(i int) Value         { return Value{Kind: ValueInt, Int: i} }
func FloatVal(f float64) Value   { return Value{Kind: ValueFloat, Float: f} }
func ConceptVal(c Concept) Value { return Value{Kind: ValueConcept, Concept: c} }
func EntityVal(e EntityID) Value { return Value{Kind: ValueEntity, Entity: e} }
func CellVal(c Cell) Value       { return Value{Kind: ValueCell, Cell: c} }
func ActionVal(k ActionKind) Value {
	return Value{Kind: ValueAction, Action: k}
}

// EmotionVal pairs an emotion with how strongly it was (or would be) felt,
// intensity in [0,1].
func EmotionVal(e EmotionType, intensity float64) Value {
	return Value{Kind: ValueEmotion, Emotion: e, Intensity: intensity}
}

// ItemVal is a counted stack of some concept, the object of Contains triples.
func ItemVal(c Concept, qty int) Value {
	return Value{Kind: ValueItem, Concept: c, Qty: qty}
}

func (v Value) String() string {
	switch v.Kind {
	case ValueBool:
		return fmt.Sprintf("%t", v.Bool)
	case ValueInt:
		return fmt.Sprintf("%d", v.Int)
	case ValueFloat:
		return fmt.Sprintf("%.3f", v.Float)
	case ValueConcept:
		return v.Concept.String()
	case ValueEntity:
		return fmt.Sprintf("Entity(%d)", v.Entity)
	case ValueCell:
		return fmt.Sprintf("Cell(%d,%d)", v.Cell.X, v.Cell.Y)
	case ValueAction:
		return v.Action.String()
	case ValueEmotion:
		return fmt.Sprintf("%s(%.2f)", v.Emotion, v.Intensity)
	case ValueItem:
		return fmt.Sprintf("%s x%d", v.Concept, v.Qty)
	}
	return "Value(none)"
}
