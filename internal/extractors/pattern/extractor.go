// Package pattern provides a regexp-based extraction engine. Where the
// lexicon engine looks at vocabulary, this one looks at structure:
// dialogue attribution, titled names, prepositional place phrases and
// present-participle action clauses.
package pattern

import (
	"context"
	"regexp"

	"github.com/fabulist-labs/descry/internal/core/domain"
	"github.com/fabulist-labs/descry/internal/core/ports/driven"
	"github.com/fabulist-labs/descry/internal/segmenter"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// DefaultID is the registry ID of the pattern engine.
const DefaultID = "pattern"

// rule pairs a compiled pattern with the type and confidence it votes
// for when it matches inside a sentence.
type rule struct {
	re         *regexp.Regexp
	descType   domain.DescriptionType
	confidence float64
}

// Extractor matches sentences against structural patterns.
type Extractor struct {
	id       string
	splitter driven.SentenceSplitter
	rules    []rule
}

// Option configures the extractor.
type Option func(*Extractor)

// WithID overrides the registry ID.
func WithID(id string) Option {
	return func(e *Extractor) {
		if id != "" {
			e.id = id
		}
	}
}

// New creates a pattern extractor with the built-in rules.
func New(opts ...Option) *Extractor {
	e := &Extractor{
		id:       DefaultID,
		splitter: segmenter.New(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ID returns the processor's unique identifier.
func (e *Extractor) ID() string {
	return e.id
}

// Load compiles the rule set.
func (e *Extractor) Load(_ context.Context) error {
	e.rules = []rule{
		// Dialogue attribution: "said Tom", "Anna whispered".
		{
			re:         regexp.MustCompile(`\b(?:said|asked|replied|whispered|shouted|cried|muttered|answered)\s+[A-Z][a-z]+`),
			descType:   domain.TypeCharacter,
			confidence: 0.75,
		},
		{
			re:         regexp.MustCompile(`\b[A-Z][a-z]+\s+(?:said|asked|replied|whispered|shouted|cried|muttered|answered)\b`),
			descType:   domain.TypeCharacter,
			confidence: 0.75,
		},
		// Titled names: "Mr. Darcy", "Lady Catherine", "Captain Brown".
		{
			re:         regexp.MustCompile(`\b(?:Mr|Mrs|Ms|Dr|Lord|Lady|Sir|Captain|Professor|Count|Baron|Duke|Duchess)\.?\s+[A-Z][a-z]+`),
			descType:   domain.TypeCharacter,
			confidence: 0.8,
		},
		// Place phrases: "in the valley", "across the courtyard".
		{
			re:         regexp.MustCompile(`\b(?:in|at|near|beyond|across|beneath|through|inside|outside)\s+the\s+[a-z]+`),
			descType:   domain.TypeLocation,
			confidence: 0.6,
		},
		// Named places: "the village of Hammel", "the River Dour".
		{
			re:         regexp.MustCompile(`\bthe\s+(?:village|town|city|castle|river|forest|mountain|isle|valley)\s+of\s+[A-Z][a-z]+`),
			descType:   domain.TypeLocation,
			confidence: 0.85,
		},
		// Participle action clauses: "running down the stairs".
		{
			re:         regexp.MustCompile(`\b[a-z]+ing\s+(?:down|up|across|through|into|over|towards?|after)\s+the\b`),
			descType:   domain.TypeAction,
			confidence: 0.6,
		},
		// Weather and light openings: "The fog rolled", "A pale light".
		{
			re:         regexp.MustCompile(`\b(?:The|A)\s+(?:fog|mist|rain|snow|wind|storm|light|darkness|moon|sun)\b`),
			descType:   domain.TypeAtmosphere,
			confidence: 0.65,
		},
	}
	return nil
}

// Extract proposes each sentence matched by a rule as a candidate of the
// rule's type. Multiple rules of the same type in one sentence keep the
// highest confidence.
func (e *Extractor) Extract(ctx context.Context, req driven.ExtractionRequest) ([]domain.Candidate, error) {
	var cands []domain.Candidate

	for _, sentence := range e.splitter.Split(req.Text) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		best := make(map[domain.DescriptionType]float64)
		for _, r := range e.rules {
			if r.re.MatchString(sentence.Text) && r.confidence > best[r.descType] {
				best[r.descType] = r.confidence
			}
		}

		for t, confidence := range best {
			cands = append(cands, domain.Candidate{
				Start:       sentence.Start,
				End:         sentence.End,
				Text:        req.Text[sentence.Start:sentence.End],
				Type:        t,
				Confidence:  confidence,
				ProcessorID: e.id,
			})
		}
	}
	return cands, nil
}
