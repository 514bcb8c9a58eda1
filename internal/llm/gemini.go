package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/spec-kit/ticket-triage/pkg/apperrors"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com"

// Gemini implements Provider against the Gemini generateContent REST API.
type Gemini struct {
	client  *http.Client
	baseURL string
	apiKey  string
	model   string
}

// GeminiOption configures a Gemini provider.
type GeminiOption func(*Gemini)

// WithBaseURL sets a custom API base URL.
func WithBaseURL(url string) GeminiOption {
	return func(g *Gemini) { g.baseURL = strings.TrimRight(url, "/") }
}

// WithModel sets the model identifier.
func WithModel(model string) GeminiOption {
	return func(g *Gemini) { g.model = model }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) GeminiOption {
	return func(g *Gemini) { g.client = c }
}

// NewGemini creates a Gemini provider.
func NewGemini(apiKey string, opts ...GeminiOption) *Gemini {
	g := &Gemini{
		client:  &http.Client{Timeout: 60 * time.Second},
		baseURL: defaultBaseURL,
		apiKey:  apiKey,
		model:   "gemini-2.5-flash-lite",
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Gemini) Name() string { return "gemini" }

func (g *Gemini) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	if g.apiKey == "" {
		return nil, apperrors.NewConfigurationMissing("GOOGLE_API_KEY")
	}

	body := geminiRequest{
		Contents: toGeminiContents(req.Messages),
	}
	if req.SystemInstruction != "" {
		body.SystemInstruction = &geminiContent{
			Parts: []geminiPart{{Text: req.SystemInstruction}},
		}
	}
	if req.Temperature > 0 {
		body.GenerationConfig.Temperature = &req.Temperature
	}
	if req.JSONOutput {
		body.GenerationConfig.ResponseMIMEType = "application/json"
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", g.baseURL, g.model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", g.apiKey)

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return nil, apperrors.NewTransportFailure("model request failed", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.NewTransportFailure("read model response", err)
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, apperrors.NewRateLimited("model provider rate limit exceeded")
	case resp.StatusCode != http.StatusOK:
		return nil, apperrors.NewTransportFailure(
			fmt.Sprintf("model api error (status %d): %s", resp.StatusCode, truncate(string(respBody), 200)), nil)
	}

	var gemResp geminiResponse
	if err := json.Unmarshal(respBody, &gemResp); err != nil {
		return nil, apperrors.NewTransportFailure("unmarshal model response", err)
	}
	if len(gemResp.Candidates) == 0 {
		return nil, apperrors.NewTransportFailure("model returned no candidates", nil)
	}

	var text strings.Builder
	for _, part := range gemResp.Candidates[0].Content.Parts {
		text.WriteString(part.Text)
	}
	return &GenerateResponse{
		Text:         text.String(),
		PromptTokens: gemResp.UsageMetadata.PromptTokenCount,
		OutputTokens: gemResp.UsageMetadata.CandidatesTokenCount,
	}, nil
}

// --- Gemini wire format types ---

type geminiRequest struct {
	Contents          []geminiContent        `json:"contents"`
	SystemInstruction *geminiContent         `json:"systemInstruction,omitempty"`
	GenerationConfig  geminiGenerationConfig `json:"generationConfig"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenerationConfig struct {
	Temperature      *float64 `json:"temperature,omitempty"`
	ResponseMIMEType string   `json:"responseMimeType,omitempty"`
}

type geminiResponse struct {
	Candidates    []geminiCandidate   `json:"candidates"`
	UsageMetadata geminiUsageMetadata `json:"usageMetadata"`
}

type geminiCandidate struct {
	Content geminiContent `json:"content"`
}

type geminiUsageMetadata struct {
	PromptTokenCount     int `json:"promptTokenCount"`
	CandidatesTokenCount int `json:"candidatesTokenCount"`
}

func toGeminiContents(msgs []Message) []geminiContent {
	out := make([]geminiContent, len(msgs))
	for i, m := range msgs {
		out[i] = geminiContent{
			Role:  string(m.Role),
			Parts: []geminiPart{{Text: m.Text}},
		}
	}
	return out
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	// never split a multi-byte rune
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max] + "..."
}
