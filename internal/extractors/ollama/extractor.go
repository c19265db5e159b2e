// Package ollama provides an extraction engine backed by a local Ollama
// instance. The model is prompted to return JSON; returned quotes are
// located in the chapter text to recover byte offsets.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/fabulist-labs/descry/internal/core/domain"
	"github.com/fabulist-labs/descry/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Default configuration values.
const (
	DefaultID      = "ollama"
	DefaultBaseURL = "http://localhost:11434"
	DefaultModel   = "llama3.2"
	DefaultTimeout = 120 * time.Second

	// Conservative request rate against a local single-GPU instance.
	defaultRequestsPerSecond = 1.0
	defaultBurstSize         = 2
)

// Config holds configuration for the Ollama extraction engine.
type Config struct {
	// ID is the registry ID (default: ollama).
	ID string

	// BaseURL is the Ollama API base URL (default: http://localhost:11434).
	BaseURL string

	// Model is the model to use (default: llama3.2).
	Model string

	// Timeout is the request timeout (default: 120s).
	Timeout time.Duration
}

// Extractor proposes candidate spans by prompting an Ollama model.
type Extractor struct {
	id      string
	client  *http.Client
	baseURL string
	model   string
	limiter *rate.Limiter
}

// generateRequest is the Ollama /api/generate request format.
type generateRequest struct {
	Model   string   `json:"model"`
	Prompt  string   `json:"prompt"`
	Stream  bool     `json:"stream"`
	Format  string   `json:"format,omitempty"`
	Options *options `json:"options,omitempty"`
}

// options holds generation parameters.
type options struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

// generateResponse is the Ollama /api/generate response format.
type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// modelSpan is one finding in the model's JSON output.
type modelSpan struct {
	Quote      string  `json:"quote"`
	Type       string  `json:"type"`
	Confidence float64 `json:"confidence"`
}

// modelOutput is the JSON document the model is prompted to return.
type modelOutput struct {
	Descriptions []modelSpan `json:"descriptions"`
}

// New creates an Ollama extraction engine.
func New(cfg Config) *Extractor {
	if cfg.ID == "" {
		cfg.ID = DefaultID
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Extractor{
		id:      cfg.ID,
		client:  &http.Client{Timeout: cfg.Timeout},
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		model:   cfg.Model,
		limiter: rate.NewLimiter(rate.Limit(defaultRequestsPerSecond), defaultBurstSize),
	}
}

// ID returns the processor's unique identifier.
func (e *Extractor) ID() string {
	return e.id
}

// Load verifies the Ollama instance is reachable.
func (e *Extractor) Load(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.baseURL+"/api/tags", nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return fmt.Errorf("ollama unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ollama error (status %d)", resp.StatusCode)
	}
	return nil
}

// Extract prompts the model for visual descriptions and maps the quoted
// passages back to byte offsets. Quotes the model invented (not found in
// the text) are dropped.
func (e *Extractor) Extract(ctx context.Context, req driven.ExtractionRequest) ([]domain.Candidate, error) {
	if err := e.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	raw, err := e.generate(ctx, buildPrompt(req.Text))
	if err != nil {
		return nil, err
	}

	var out modelOutput
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("parse model output: %w", err)
	}

	cands := make([]domain.Candidate, 0, len(out.Descriptions))
	for _, span := range out.Descriptions {
		quote := strings.TrimSpace(span.Quote)
		if quote == "" {
			continue
		}
		t := domain.DescriptionType(strings.ToLower(span.Type))
		if !t.IsValid() {
			continue
		}
		start := strings.Index(req.Text, quote)
		if start < 0 {
			continue
		}
		confidence := span.Confidence
		if confidence <= 0 || confidence > 1 {
			confidence = 0.5
		}
		cands = append(cands, domain.Candidate{
			Start:       start,
			End:         start + len(quote),
			Text:        quote,
			Type:        t,
			Confidence:  confidence,
			ProcessorID: e.id,
		})
	}
	return cands, nil
}

// generate calls /api/generate and returns the raw completion.
func (e *Extractor) generate(ctx context.Context, prompt string) (string, error) {
	reqBody := generateRequest{
		Model:   e.model,
		Prompt:  prompt,
		Stream:  false,
		Format:  "json",
		Options: &options{Temperature: 0},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		e.baseURL+"/api/generate",
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return "", fmt.Errorf("ollama error (status %d): failed to read response", resp.StatusCode)
		}
		return "", fmt.Errorf("ollama error (status %d): %s", resp.StatusCode, string(body))
	}

	var genResp generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	return genResp.Response, nil
}

// buildPrompt asks the model for verbatim quotes so offsets can be
// recovered by substring search.
func buildPrompt(text string) string {
	var b strings.Builder
	b.WriteString("You extract visual descriptions from narrative text.\n")
	b.WriteString("Find passages describing a location, character, atmosphere, object or action.\n")
	b.WriteString("Return JSON: {\"descriptions\":[{\"quote\":\"<verbatim passage>\",")
	b.WriteString("\"type\":\"location|character|atmosphere|object|action\",\"confidence\":0.0}]}\n")
	b.WriteString("Quotes must appear verbatim in the text. Text:\n\n")
	b.WriteString(text)
	return b.String()
}
