// Package enrich attaches surrounding-sentence context to descriptions.
package enrich

import (
	"context"
	"strings"

	"github.com/fabulist-labs/descry/internal/core/domain"
	"github.com/fabulist-labs/descry/internal/core/ports/driven"
)

// Processor attaches the sentences surrounding each description's span
// as its context snippet. It implements the PostProcessor interface.
type Processor struct {
	splitter driven.SentenceSplitter
}

// New creates a new enrichment processor using the given splitter.
func New(splitter driven.SentenceSplitter) *Processor {
	return &Processor{splitter: splitter}
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "enrich"
}

// Process fills in each description's Context with the sentences covering
// its span plus one neighbour on each side. Enrichment is purely
// additive: it never rejects a description, and a span with no findable
// context (e.g., at a document edge) simply keeps an empty Context.
func (p *Processor) Process(_ context.Context, text string, descs []domain.Description) ([]domain.Description, error) {
	if p.splitter == nil || len(descs) == 0 {
		return descs, nil
	}

	sentences := p.splitter.Split(text)
	if len(sentences) == 0 {
		return descs, nil
	}

	out := make([]domain.Description, len(descs))
	copy(out, descs)
	for i := range out {
		out[i].Context = surrounding(sentences, out[i].Start, out[i].End)
	}
	return out, nil
}

// surrounding returns the sentences intersecting [start,end) expanded by
// one sentence on each side, joined with single spaces.
func surrounding(sentences []driven.Sentence, start, end int) string {
	first, last := -1, -1
	for i, s := range sentences {
		if s.End <= start {
			continue
		}
		if s.Start >= end {
			break
		}
		if first == -1 {
			first = i
		}
		last = i
	}
	if first == -1 {
		return ""
	}

	if first > 0 {
		first--
	}
	if last < len(sentences)-1 {
		last++
	}

	parts := make([]string, 0, last-first+1)
	for _, s := range sentences[first : last+1] {
		if t := strings.TrimSpace(s.Text); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}
