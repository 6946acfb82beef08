package knowledge

import (
	"errors"
	"fmt"
)

// Source records how a fact entered the store.
type Source uint8

const (
	SourceIntrinsic Source = iota
	SourceCultural
	SourcePerception
	SourceExperienced
	SourceCommunicated
	SourceHearsay
	SourceInferred
)

var sourceNames = [...]string{
	"Intrinsic", "Cultural", "Perception", "Experienced",
	"Communicated", "Hearsay", "Inferred",
}

func (s Source) String() string {
	if int(s) < len(sourceNames) {
		return sourceNames[s]
	}
	return fmt.Sprintf("Source(%d)", uint8(s))
}

// MemoryType selects the decay regime of a triple.
type MemoryType uint8

const (
	MemoryIntrinsic MemoryType = iota
	MemoryProcedural
	MemoryCultural
	MemorySemantic
	MemoryEpisodic
	MemoryPerception
)

var memoryTypeNames = [...]string{
	"Intrinsic", "Procedural", "Cultural", "Semantic", "Episodic", "Perception",
}

func (m MemoryType) String() string {
	if int(m) < len(memoryTypeNames) {
		return memoryTypeNames[m]
	}
	return fmt.Sprintf("MemoryType(%d)", uint8(m))
}

// Decays reports whether triples of this memory type lose strength over time.
func (m MemoryType) Decays() bool {
	return m != MemoryIntrinsic && m != MemoryProcedural
}

// Metadata is the provenance and strength envelope attached to every triple.
// Timestamp is simulation seconds. Salience in [0,1] slows decay.
type Metadata struct {
	Source     Source
	Type       MemoryType
	Timestamp  float64
	Confidence float64
	Informant  EntityID // nonzero only for communicated/hearsay facts
	Evidence   []EventID
	Salience   float64
}

// Intrinsic marks a fact the creature is born knowing. Never decays.
func Intrinsic() Metadata {
	return Metadata{Source: SourceIntrinsic, Type: MemoryIntrinsic, Confidence: 1}
}

// Perceived marks a fresh sensory fact at full confidence.
func Perceived(now float64) Metadata {
	return Metadata{Source: SourcePerception, Type: MemoryPerception, Timestamp: now, Confidence: 1}
}

// Experienced marks a fact the creature lived through, kept as episodic memory.
func Experienced(now, salience float64) Metadata {
	return Metadata{Source: SourceExperienced, Type: MemoryEpisodic, Timestamp: now, Confidence: 1, Salience: salience}
}

// Inferred marks a consolidated belief derived from episodic evidence.
func Inferred(now, confidence float64, evidence []EventID) Metadata {
	return Metadata{Source: SourceInferred, Type: MemorySemantic, Timestamp: now, Confidence: confidence, Evidence: evidence}
}

// Hearsay marks second-hand knowledge. Trusted less than direct perception.
func Hearsay(now float64, informant EntityID) Metadata {
	return Metadata{Source: SourceHearsay, Type: MemorySemantic, Timestamp: now, Confidence: 0.7, Informant: informant}
}

// ErrMalformedTriple is returned by FactStore.Assert for triples that violate
// the metadata or value contracts.
var ErrMalformedTriple = errors.New("malformed triple")

// Triple is one atom of knowledge: subject, predicate, object plus provenance.
type Triple struct {
	Subject   Node
	Predicate Predicate
	Object    Value
	Meta      Metadata
}

// NewTriple builds an intrinsic triple, the form used by ontology and
// innate knowledge seeding.
func NewTriple(s Node, p Predicate, o Value) Triple {
	return Triple{Subject: s, Predicate: p, Object: o, Meta: Intrinsic()}
}

// WithMeta attaches metadata to a triple.
func (t Triple) WithMeta(m Metadata) Triple {
	t.Meta = m
	return t
}

func (t Triple) validate() error {
	if t.Object.Kind == ValueNone {
		return fmt.Errorf("%w: object has no value", ErrMalformedTriple)
	}
	if t.Meta.Confidence < 0 || t.Meta.Confidence > 1 {
		return fmt.Errorf("%w: confidence %.3f outside [0,1]", ErrMalformedTriple, t.Meta.Confidence)
	}
	if t.Meta.Salience < 0 || t.Meta.Salience > 1 {
		return fmt.Errorf("%w: salience %.3f outside [0,1]", ErrMalformedTriple, t.Meta.Salience)
	}
	if t.Meta.Timestamp < 0 {
		return fmt.Errorf("%w: negative timestamp %.3f", ErrMalformedTriple, t.Meta.Timestamp)
	}
	return nil
}

func (t Triple) String() string {
	return fmt.Sprintf("(%s %s %s)", t.Subject, t.Predicate, t.Object)
}

// Pattern is a triple query with optional wildcards. A nil field matches
// anything. Object matching is semantic for counted and scaled values: an
// Item object matches stored items of the same concept with at least the
// requested quantity, and an Emotion object matches the same emotion at or
// above the requested intensity.
type Pattern struct {
	Subject   *Node
	Predicate *Predicate
	Object    *Value
}

// Exact builds a fully-ground pattern.
func Exact(s Node, p Predicate, o Value) Pattern {
	return Pattern{Subject: &s, Predicate: &p, Object: &o}
}

// About matches every triple with the given subject.
func About(s Node) Pattern {
	return Pattern{Subject: &s}
}

// SubjectPred matches every triple with the given subject and predicate.
func SubjectPred(s Node, p Predicate) Pattern {
	return Pattern{Subject: &s, Predicate: &p}
}

// Matches reports whether the pattern covers the triple.
func (p Pattern) Matches(t Triple) bool {
	if p.Subject != nil && *p.Subject != t.Subject {
		return false
	}
	if p.Predicate != nil && *p.Predicate != t.Predicate {
		return false
	}
	if p.Object == nil {
		return true
	}
	return valueMatches(*p.Object, t.Object)
}

func valueMatches(want, got Value) bool {
	switch want.Kind {
	case ValueItem:
		return got.Kind == ValueItem && got.Concept == want.Concept && got.Qty >= want.Qty
	case ValueEmotion:
		return got.Kind == ValueEmotion && got.Emotion == want.Emotion && got.Intensity >= want.Intensity
	default:
		return want == got
	}
}

// Key is a canonical string form, used for belief caching and for the
// planner's visited-state identity.
func (p Pattern) Key() string {
	s, pr, o := "*", "*", "*"
	if p.Subject != nil {
		s = p.Subject.String()
	}
	if p.Predicate != nil {
		pr = p.Predicate.String()
	}
	if p.Object != nil {
		o = p.Object.String()
	}
	return s + "|" + pr + "|" + o
}

func (p Pattern) String() string {
	return "(" + p.Key() + ")"
}
