package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fabulist-labs/descry/internal/core/domain"
	"github.com/fabulist-labs/descry/internal/core/ports/driven"
)

// newTestServer fakes the two Ollama endpoints the extractor touches.
// modelJSON is returned as the model's completion.
func newTestServer(t *testing.T, modelJSON string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/tags", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/api/generate", func(w http.ResponseWriter, r *http.Request) {
		var req generateRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.False(t, req.Stream)
		assert.Equal(t, "json", req.Format)

		resp := generateResponse{Response: modelJSON, Done: true}
		w.Header().Set("Content-Type", "application/json")
		assert.NoError(t, json.NewEncoder(w).Encode(resp))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestExtractor_ID(t *testing.T) {
	assert.Equal(t, DefaultID, New(Config{}).ID())
	assert.Equal(t, "llm-alt", New(Config{ID: "llm-alt"}).ID())
}

func TestLoad_Reachable(t *testing.T) {
	server := newTestServer(t, "{}")
	e := New(Config{BaseURL: server.URL})

	assert.NoError(t, e.Load(context.Background()))
}

func TestLoad_Unreachable(t *testing.T) {
	server := newTestServer(t, "{}")
	server.Close()
	e := New(Config{BaseURL: server.URL})

	assert.Error(t, e.Load(context.Background()))
}

func TestLoad_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()
	e := New(Config{BaseURL: server.URL})

	assert.Error(t, e.Load(context.Background()))
}

func TestExtract_MapsQuotesToOffsets(t *testing.T) {
	text := "The ruined tower above the marsh loomed in the fog."
	server := newTestServer(t, `{"descriptions":[
		{"quote":"ruined tower above the marsh","type":"location","confidence":0.85},
		{"quote":"fog","type":"atmosphere","confidence":0.6}
	]}`)
	e := New(Config{BaseURL: server.URL})

	cands, err := e.Extract(context.Background(), driven.ExtractionRequest{Text: text})

	require.NoError(t, err)
	require.Len(t, cands, 2)
	assert.Equal(t, 4, cands[0].Start)
	assert.Equal(t, "ruined tower above the marsh", cands[0].Text)
	assert.Equal(t, domain.TypeLocation, cands[0].Type)
	assert.InDelta(t, 0.85, cands[0].Confidence, 1e-9)
	assert.True(t, cands[0].Valid(text))
	assert.True(t, cands[1].Valid(text))
}

func TestExtract_DropsInventedQuotes(t *testing.T) {
	server := newTestServer(t, `{"descriptions":[
		{"quote":"a golden palace","type":"location","confidence":0.9}
	]}`)
	e := New(Config{BaseURL: server.URL})

	cands, err := e.Extract(context.Background(), driven.ExtractionRequest{Text: "There was no palace here."})

	require.NoError(t, err)
	assert.Empty(t, cands)
}

func TestExtract_DropsUnknownTypes(t *testing.T) {
	text := "The rain fell without pause."
	server := newTestServer(t, `{"descriptions":[
		{"quote":"rain fell","type":"weather","confidence":0.8},
		{"quote":"rain fell","type":"atmosphere","confidence":0.8}
	]}`)
	e := New(Config{BaseURL: server.URL})

	cands, err := e.Extract(context.Background(), driven.ExtractionRequest{Text: text})

	require.NoError(t, err)
	require.Len(t, cands, 1)
	assert.Equal(t, domain.TypeAtmosphere, cands[0].Type)
}

func TestExtract_DefaultsBadConfidence(t *testing.T) {
	text := "The rain fell without pause."
	server := newTestServer(t, `{"descriptions":[
		{"quote":"rain fell","type":"atmosphere","confidence":7.5}
	]}`)
	e := New(Config{BaseURL: server.URL})

	cands, err := e.Extract(context.Background(), driven.ExtractionRequest{Text: text})

	require.NoError(t, err)
	require.Len(t, cands, 1)
	assert.InDelta(t, 0.5, cands[0].Confidence, 1e-9)
}

func TestExtract_MalformedModelOutput(t *testing.T) {
	server := newTestServer(t, "this is not json")
	e := New(Config{BaseURL: server.URL})

	_, err := e.Extract(context.Background(), driven.ExtractionRequest{Text: "Some text."})

	assert.Error(t, err)
}

func TestExtract_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()
	e := New(Config{BaseURL: server.URL})

	_, err := e.Extract(context.Background(), driven.ExtractionRequest{Text: "Some text."})

	assert.Error(t, err)
}
