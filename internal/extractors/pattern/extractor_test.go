package pattern

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fabulist-labs/descry/internal/core/domain"
	"github.com/fabulist-labs/descry/internal/core/ports/driven"
)

func loaded(t *testing.T) *Extractor {
	t.Helper()
	e := New()
	require.NoError(t, e.Load(context.Background()))
	return e
}

func extract(t *testing.T, e *Extractor, text string) []domain.Candidate {
	t.Helper()
	cands, err := e.Extract(context.Background(), driven.ExtractionRequest{Text: text})
	require.NoError(t, err)
	return cands
}

func byType(cands []domain.Candidate, typ domain.DescriptionType) *domain.Candidate {
	for i := range cands {
		if cands[i].Type == typ {
			return &cands[i]
		}
	}
	return nil
}

func TestExtractor_ID(t *testing.T) {
	assert.Equal(t, "pattern", New().ID())
	assert.Equal(t, "custom", New(WithID("custom")).ID())
}

func TestExtract_DialogueAttribution(t *testing.T) {
	e := loaded(t)

	cands := extract(t, e, `Nothing moved, whispered Elena quietly.`)

	character := byType(cands, domain.TypeCharacter)
	require.NotNil(t, character)
	assert.InDelta(t, 0.75, character.Confidence, 1e-9)
}

func TestExtract_TitledNameOutranksAttribution(t *testing.T) {
	e := loaded(t)

	cands := extract(t, e, "Captain Weir said nothing for a long while.")

	// Both character rules match; the titled-name confidence wins
	character := byType(cands, domain.TypeCharacter)
	require.NotNil(t, character)
	assert.InDelta(t, 0.8, character.Confidence, 1e-9)
}

func TestExtract_NamedPlace(t *testing.T) {
	e := loaded(t)

	cands := extract(t, e, "They reached the village of Hammel before nightfall.")

	location := byType(cands, domain.TypeLocation)
	require.NotNil(t, location)
	assert.InDelta(t, 0.85, location.Confidence, 1e-9)
}

func TestExtract_PlacePhrase(t *testing.T) {
	e := loaded(t)

	cands := extract(t, e, "Something stirred beneath the floorboards.")

	location := byType(cands, domain.TypeLocation)
	require.NotNil(t, location)
	assert.InDelta(t, 0.6, location.Confidence, 1e-9)
}

func TestExtract_ParticipleAction(t *testing.T) {
	e := loaded(t)

	cands := extract(t, e, "She went sprinting down the corridor without a word.")

	action := byType(cands, domain.TypeAction)
	require.NotNil(t, action)
	assert.InDelta(t, 0.6, action.Confidence, 1e-9)
}

func TestExtract_WeatherOpening(t *testing.T) {
	e := loaded(t)

	cands := extract(t, e, "The fog crept over the rooftops.")

	atmosphere := byType(cands, domain.TypeAtmosphere)
	require.NotNil(t, atmosphere)
	assert.InDelta(t, 0.65, atmosphere.Confidence, 1e-9)
}

func TestExtract_NoMatchesNoCandidates(t *testing.T) {
	e := loaded(t)

	cands := extract(t, e, "it was late and everyone had gone home already")

	assert.Empty(t, cands)
}

func TestExtract_SpansAreValid(t *testing.T) {
	e := loaded(t)
	text := `The fog thickened. Hold on, shouted Bram. They ran through the gates.`

	for _, cand := range extract(t, e, text) {
		assert.True(t, cand.Valid(text), "candidate %q", cand.Text)
	}
}

func TestExtract_BeforeLoadProducesNothing(t *testing.T) {
	e := New()

	cands := extract(t, e, "Captain Weir said nothing.")

	assert.Empty(t, cands)
}
