// Package lexicon provides a gazetteer-based extraction engine. It scores
// each sentence by how many type-specific vocabulary words it contains
// and proposes the sentence as a candidate span for its strongest types.
package lexicon

import (
	"context"
	"strings"
	"unicode"

	"github.com/fabulist-labs/descry/internal/core/domain"
	"github.com/fabulist-labs/descry/internal/core/ports/driven"
	"github.com/fabulist-labs/descry/internal/segmenter"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// DefaultID is the registry ID of the lexicon engine.
const DefaultID = "lexicon"

// baseConfidence is the confidence of a single-hit sentence; every
// additional hit adds hitBonus up to maxConfidence.
const (
	baseConfidence = 0.5
	hitBonus       = 0.12
	maxConfidence  = 0.95
)

// Extractor matches sentences against per-type vocabularies.
type Extractor struct {
	id       string
	splitter driven.SentenceSplitter
	terms    map[domain.DescriptionType]map[string]bool
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

// WithTerms replaces the vocabulary for one type.
func WithTerms(t domain.DescriptionType, words []string) Option {
	return func(e *Extractor) {
		set := make(map[string]bool, len(words))
		for _, w := range words {
			set[strings.ToLower(w)] = true
		}
		e.terms[t] = set
	}
}

// New creates a lexicon extractor with the built-in vocabularies.
func New(opts ...Option) *Extractor {
	e := &Extractor{
		id:       DefaultID,
		splitter: segmenter.New(),
		terms:    defaultTerms(),
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

// Load is a no-op: the vocabularies are compiled in.
func (e *Extractor) Load(_ context.Context) error {
	return nil
}

// Extract proposes each sentence containing vocabulary hits as a
// candidate for the types it hit, confidence scaled by hit count.
func (e *Extractor) Extract(ctx context.Context, req driven.ExtractionRequest) ([]domain.Candidate, error) {
	var cands []domain.Candidate

	for _, sentence := range e.splitter.Split(req.Text) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		hits := e.countHits(sentence.Text)
		for t, n := range hits {
			if n == 0 {
				continue
			}
			confidence := baseConfidence + float64(n-1)*hitBonus
			if confidence > maxConfidence {
				confidence = maxConfidence
			}
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

// countHits counts vocabulary words per type in one sentence.
func (e *Extractor) countHits(sentence string) map[domain.DescriptionType]int {
	hits := make(map[domain.DescriptionType]int)
	for _, word := range tokenise(sentence) {
		for t, set := range e.terms {
			if set[word] {
				hits[t]++
			}
		}
	}
	return hits
}

// tokenise lower-cases and splits on non-letter runes.
func tokenise(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r)
	})
}
