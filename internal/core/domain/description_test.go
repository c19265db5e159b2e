package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDescriptionType_IsValid(t *testing.T) {
	for _, typ := range []DescriptionType{
		TypeLocation, TypeCharacter, TypeAtmosphere, TypeObject, TypeAction,
	} {
		assert.True(t, typ.IsValid(), typ)
	}
	assert.False(t, DescriptionType("scenery").IsValid())
	assert.False(t, DescriptionType("").IsValid())
}

func TestDescriptionType_VotePriorityOrder(t *testing.T) {
	// Locations beat characters beat atmosphere beat objects beat actions
	assert.Less(t, TypeLocation.VotePriority(), TypeCharacter.VotePriority())
	assert.Less(t, TypeCharacter.VotePriority(), TypeAtmosphere.VotePriority())
	assert.Less(t, TypeAtmosphere.VotePriority(), TypeObject.VotePriority())
	assert.Less(t, TypeObject.VotePriority(), TypeAction.VotePriority())
}

func TestDescriptionType_PriorityFactor(t *testing.T) {
	assert.Equal(t, 1.0, TypeLocation.PriorityFactor())
	assert.Equal(t, 0.9, TypeCharacter.PriorityFactor())
	assert.Equal(t, 0.75, TypeAtmosphere.PriorityFactor())
	assert.Equal(t, 0.6, TypeObject.PriorityFactor())
	assert.Equal(t, 0.5, TypeAction.PriorityFactor())
	assert.Equal(t, 0.0, DescriptionType("bogus").PriorityFactor())
}

func TestPriorityScore(t *testing.T) {
	assert.InDelta(t, 0.8, PriorityScore(TypeLocation, 0.8), 1e-9)
	assert.InDelta(t, 0.72, PriorityScore(TypeCharacter, 0.8), 1e-9)
	assert.InDelta(t, 0.4, PriorityScore(TypeAction, 0.8), 1e-9)
}

func TestCandidate_Valid(t *testing.T) {
	source := "The old mill stood by the river."

	good := Candidate{
		Start:       4,
		End:         12,
		Text:        "old mill",
		Type:        TypeLocation,
		Confidence:  0.7,
		ProcessorID: "lexicon",
	}
	assert.True(t, good.Valid(source))

	tests := []struct {
		name   string
		mutate func(*Candidate)
	}{
		{"negative start", func(c *Candidate) { c.Start = -1 }},
		{"end before start", func(c *Candidate) { c.End = c.Start }},
		{"end past source", func(c *Candidate) { c.End = len(source) + 1 }},
		{"confidence above one", func(c *Candidate) { c.Confidence = 1.1 }},
		{"confidence negative", func(c *Candidate) { c.Confidence = -0.1 }},
		{"text mismatch", func(c *Candidate) { c.Text = "new mill" }},
		{"unknown type", func(c *Candidate) { c.Type = "scenery" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := good
			tt.mutate(&c)
			assert.False(t, c.Valid(source))
		})
	}
}

func TestCandidate_Length(t *testing.T) {
	c := Candidate{Start: 10, End: 25}
	assert.Equal(t, 15, c.Length())
}

func TestOverlap(t *testing.T) {
	tests := []struct {
		name                       string
		aStart, aEnd, bStart, bEnd int
		want                       float64
	}{
		{"identical", 0, 10, 0, 10, 1.0},
		{"disjoint", 0, 10, 20, 30, 0.0},
		{"touching", 0, 10, 10, 20, 0.0},
		{"half", 0, 10, 5, 15, 1.0 / 3.0},
		{"contained", 0, 20, 5, 15, 0.5},
		{"order independent", 5, 15, 0, 10, 1.0 / 3.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Overlap(tt.aStart, tt.aEnd, tt.bStart, tt.bEnd)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}
