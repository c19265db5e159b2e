package domain

// DescriptionType classifies what a visual description depicts.
type DescriptionType string

// Available description types.
const (
	// TypeLocation is a place or setting (a castle hall, a forest road).
	TypeLocation DescriptionType = "location"

	// TypeCharacter is a person or creature's appearance.
	TypeCharacter DescriptionType = "character"

	// TypeAtmosphere is mood, weather or lighting.
	TypeAtmosphere DescriptionType = "atmosphere"

	// TypeObject is a notable physical item.
	TypeObject DescriptionType = "object"

	// TypeAction is a depicted event or movement.
	TypeAction DescriptionType = "action"
)

// IsValid returns true if the description type is recognised.
func (t DescriptionType) IsValid() bool {
	switch t {
	case TypeLocation, TypeCharacter, TypeAtmosphere, TypeObject, TypeAction:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (t DescriptionType) String() string {
	return string(t)
}

// VotePriority orders types for tie-breaking during consensus voting.
// Lower values win. Locations beat characters beat atmosphere and so on,
// mirroring how useful each type is to an illustrator.
func (t DescriptionType) VotePriority() int {
	switch t {
	case TypeLocation:
		return 0
	case TypeCharacter:
		return 1
	case TypeAtmosphere:
		return 2
	case TypeObject:
		return 3
	case TypeAction:
		return 4
	default:
		return 5
	}
}

// PriorityFactor weights the final priority score of a description by type.
func (t DescriptionType) PriorityFactor() float64 {
	switch t {
	case TypeLocation:
		return 1.0
	case TypeCharacter:
		return 0.9
	case TypeAtmosphere:
		return 0.75
	case TypeObject:
		return 0.6
	case TypeAction:
		return 0.5
	default:
		return 0.0
	}
}

// Candidate is a single processor's proposed span before reconciliation.
// Candidates live only for the duration of one extraction request.
type Candidate struct {
	// Start is the byte offset of the span start in the chapter text.
	Start int

	// End is the byte offset one past the span end.
	End int

	// Text is the exact substring chapter[Start:End].
	Text string

	// Type classifies the proposed description.
	Type DescriptionType

	// Confidence is the processor's self-reported confidence in [0,1].
	Confidence float64

	// ProcessorID identifies the originating processor.
	ProcessorID string
}

// Valid reports whether the candidate's offsets and confidence are
// consistent with the source text it was extracted from.
func (c Candidate) Valid(source string) bool {
	if c.Start < 0 || c.End <= c.Start || c.End > len(source) {
		return false
	}
	if c.Confidence < 0 || c.Confidence > 1 {
		return false
	}
	return c.Text == source[c.Start:c.End] && c.Type.IsValid()
}

// Length returns the span length in bytes.
func (c Candidate) Length() int {
	return c.End - c.Start
}

// Description is a reconciled visual description, the final output record.
// Descriptions are immutable once constructed.
type Description struct {
	// ID uniquely identifies the description.
	ID string

	// ChapterID identifies the source chapter, when known.
	ChapterID string

	// Start and End are byte offsets of the merged span.
	Start int
	End   int

	// Text is the span content.
	Text string

	// Type classifies the description.
	Type DescriptionType

	// Confidence is the weighted aggregate confidence in [0,1].
	Confidence float64

	// Processors lists the IDs of processors that agreed on this
	// description, sorted ascending. Never empty.
	Processors []string

	// Context is the surrounding-sentence snippet, empty when no
	// context could be attached.
	Context string

	// Priority ranks descriptions for downstream generation order.
	Priority float64
}

// PriorityScore derives the ranking score from type and confidence.
func PriorityScore(t DescriptionType, confidence float64) float64 {
	return t.PriorityFactor() * confidence
}

// Overlap returns the intersection-over-union of two byte ranges.
// Ranges that do not intersect score 0.
func Overlap(aStart, aEnd, bStart, bEnd int) float64 {
	interStart := max(aStart, bStart)
	interEnd := min(aEnd, bEnd)
	if interEnd <= interStart {
		return 0
	}
	unionStart := min(aStart, bStart)
	unionEnd := max(aEnd, bEnd)
	if unionEnd == unionStart {
		return 0
	}
	return float64(interEnd-interStart) / float64(unionEnd-unionStart)
}
