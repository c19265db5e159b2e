package lexicon

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fabulist-labs/descry/internal/core/domain"
	"github.com/fabulist-labs/descry/internal/core/ports/driven"
)

func extract(t *testing.T, e *Extractor, text string) []domain.Candidate {
	t.Helper()
	cands, err := e.Extract(context.Background(), driven.ExtractionRequest{Text: text})
	require.NoError(t, err)
	return cands
}

func TestExtractor_ID(t *testing.T) {
	assert.Equal(t, "lexicon", New().ID())
	assert.Equal(t, "custom", New(WithID("custom")).ID())
}

func TestExtractor_LoadIsNoOp(t *testing.T) {
	assert.NoError(t, New().Load(context.Background()))
}

func TestExtract_FindsVocabularySentences(t *testing.T) {
	e := New()
	text := "The castle rose above the valley. Nothing else happened here at all."

	cands := extract(t, e, text)

	require.NotEmpty(t, cands)
	var location *domain.Candidate
	for i := range cands {
		if cands[i].Type == domain.TypeLocation {
			location = &cands[i]
		}
	}
	require.NotNil(t, location, "castle and valley should trigger a location candidate")
	assert.Equal(t, "The castle rose above the valley.", location.Text)
	assert.Equal(t, "lexicon", location.ProcessorID)
	// Two hits: base 0.5 plus one bonus
	assert.InDelta(t, 0.62, location.Confidence, 1e-9)
}

func TestExtract_SingleHitBaseConfidence(t *testing.T) {
	e := New()

	cands := extract(t, e, "The sword gleamed brightly there.")

	var object *domain.Candidate
	for i := range cands {
		if cands[i].Type == domain.TypeObject {
			object = &cands[i]
		}
	}
	require.NotNil(t, object)
	assert.InDelta(t, baseConfidence, object.Confidence, 1e-9)
}

func TestExtract_ConfidenceCapped(t *testing.T) {
	e := New(WithTerms(domain.TypeAtmosphere, []string{
		"dark", "mist", "fog", "rain", "storm", "wind", "cold", "grim",
	}))

	cands := extract(t, e, "Dark mist and fog and rain and storm and wind and cold and grim.")

	var atmosphere *domain.Candidate
	for i := range cands {
		if cands[i].Type == domain.TypeAtmosphere {
			atmosphere = &cands[i]
		}
	}
	require.NotNil(t, atmosphere)
	assert.InDelta(t, maxConfidence, atmosphere.Confidence, 1e-9)
}

func TestExtract_NoHitsNoCandidates(t *testing.T) {
	e := New()

	cands := extract(t, e, "It was what it was, nothing more.")

	assert.Empty(t, cands)
}

func TestExtract_SpansAreValid(t *testing.T) {
	e := New()
	text := "The tower loomed. A knight rode past. Shadows gathered slowly."

	for _, cand := range extract(t, e, text) {
		assert.True(t, cand.Valid(text), "candidate %q", cand.Text)
	}
}

func TestExtract_CancelledContext(t *testing.T) {
	e := New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.Extract(ctx, driven.ExtractionRequest{Text: "The castle stood."})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTokenise(t *testing.T) {
	assert.Equal(t, []string{"the", "old", "mill"}, tokenise("The old-mill!"))
}
