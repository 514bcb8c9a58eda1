package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/ticket-triage/internal/api/http"
	"github.com/spec-kit/ticket-triage/internal/api/http/handlers"
	"github.com/spec-kit/ticket-triage/internal/events"
	"github.com/spec-kit/ticket-triage/internal/llm"
	"github.com/spec-kit/ticket-triage/internal/observability"
	"github.com/spec-kit/ticket-triage/internal/prompt"
	"github.com/spec-kit/ticket-triage/internal/service"
	"github.com/spec-kit/ticket-triage/internal/sla"
)

type scriptedProvider struct {
	responses []string
	errs      []error
	calls     int
}

func (p *scriptedProvider) Generate(context.Context, llm.GenerateRequest) (*llm.GenerateResponse, error) {
	idx := p.calls
	p.calls++
	if idx < len(p.errs) && p.errs[idx] != nil {
		return nil, p.errs[idx]
	}
	if idx >= len(p.responses) {
		idx = len(p.responses) - 1
	}
	return &llm.GenerateResponse{Text: p.responses[idx]}, nil
}

func (p *scriptedProvider) Name() string { return "scripted" }

const classificationJSON = `{"category":"Authentication","urgency":"Critical","customer_name":"Sarah Chen","issue_summary":"Customer cannot log in."}`

func newTestApp(t *testing.T, provider llm.Provider) *fiber.App {
	t.Helper()

	logger := zap.NewNop()
	metrics := observability.NewMetrics()
	prompts := prompt.NewLoader()
	hours, err := sla.NewBusinessHours(9, 17)
	require.NoError(t, err)

	dispatcher := events.NewInMemoryDispatcher()
	events.RegisterAuditSubscribers(dispatcher, logger, metrics)

	ticketService := service.NewTicketService(service.TicketDependencies{
		AI:         service.NewAIService(provider, prompts, nil),
		Calculator: sla.NewCalculator(),
		Hours:      hours,
		Store:      service.NewSessionStore(),
		Dispatcher: dispatcher,
	})

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, 5*time.Second)
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:  handlers.NewHealthHandler("ticket-triage", "test", provider.Name(), true, prompts, metrics),
		Tickets: handlers.NewTicketsHandler(ticketService),
		Meta:    handlers.NewMetaHandler(ticketService),
	})
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, payload any) (*http.Response, map[string]any) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var decoded map[string]any
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return resp, decoded
}

func TestAnalyzeEndpoint(t *testing.T) {
	provider := &scriptedProvider{responses: []string{classificationJSON, "Dear Sarah, we are on it."}}
	app := newTestApp(t, provider)

	resp, body := doJSON(t, app, http.MethodPost, "/api/tickets/analyze", map[string]string{
		"text": "I can't log into my account... urgent!",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	data := body["data"].(map[string]any)
	assert.NotEmpty(t, data["id"])
	classification := data["classification"].(map[string]any)
	assert.Equal(t, "Authentication", classification["category"])
	assert.Equal(t, "Critical", classification["urgency"])
	routing := data["routing"].(map[string]any)
	assert.Equal(t, "Auth Team", routing["team"])
	assert.NotEmpty(t, data["sla_deadline"])
	assert.Contains(t, data["suggested_response"], "Dear Sarah")
}

func TestAnalyzeEndpoint_PipelineFailureReturnsPartial(t *testing.T) {
	provider := &scriptedProvider{responses: []string{"this is not json"}}
	app := newTestApp(t, provider)

	resp, body := doJSON(t, app, http.MethodPost, "/api/tickets/analyze", map[string]string{
		"text": "broken ticket",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	errBody := body["error"].(map[string]any)
	assert.Equal(t, "classify", errBody["stage"])
	assert.Equal(t, "SCHEMA_VALIDATION", errBody["code"])

	data := body["data"].(map[string]any)
	assert.NotEmpty(t, data["id"])
	assert.Nil(t, data["classification"])
}

func TestAnalyzeEndpoint_EmptyText(t *testing.T) {
	app := newTestApp(t, &scriptedProvider{responses: []string{"unused"}})

	resp, body := doJSON(t, app, http.MethodPost, "/api/tickets/analyze", map[string]string{"text": ""})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	errBody := body["error"].(map[string]any)
	assert.Equal(t, "VALIDATION_FAILED", errBody["code"])
}

func TestAskEndpoint(t *testing.T) {
	provider := &scriptedProvider{responses: []string{classificationJSON, "Draft.", "The Auth Team handles it."}}
	app := newTestApp(t, provider)

	_, analyzeBody := doJSON(t, app, http.MethodPost, "/api/tickets/analyze", map[string]string{
		"text": "login broken",
	})
	recordID := analyzeBody["data"].(map[string]any)["id"].(string)

	resp, body := doJSON(t, app, http.MethodPost, "/api/tickets/"+recordID+"/questions", map[string]string{
		"question": "Who handles this?",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	data := body["data"].(map[string]any)
	assert.Equal(t, "The Auth Team handles it.", data["answer"])
	conversation := data["conversation"].([]any)
	require.Len(t, conversation, 1)
}

func TestAskEndpoint_UnknownRecord(t *testing.T) {
	app := newTestApp(t, &scriptedProvider{responses: []string{"unused"}})

	resp, body := doJSON(t, app, http.MethodPost, "/api/tickets/nope/questions", map[string]string{
		"question": "anyone there?",
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	errBody := body["error"].(map[string]any)
	assert.Equal(t, "NOT_FOUND", errBody["code"])
}

func TestGetTicketEndpoint(t *testing.T) {
	provider := &scriptedProvider{responses: []string{classificationJSON, "Draft."}}
	app := newTestApp(t, provider)

	_, analyzeBody := doJSON(t, app, http.MethodPost, "/api/tickets/analyze", map[string]string{
		"text": "login broken",
	})
	recordID := analyzeBody["data"].(map[string]any)["id"].(string)

	resp, body := doJSON(t, app, http.MethodGet, "/api/tickets/"+recordID, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, recordID, body["data"].(map[string]any)["id"])
}

func TestMetaEndpoint(t *testing.T) {
	app := newTestApp(t, &scriptedProvider{responses: []string{"unused"}})

	resp, body := doJSON(t, app, http.MethodGet, "/api/meta", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	data := body["data"].(map[string]any)
	assert.Len(t, data["categories"].([]any), 7)
	assert.NotEmpty(t, data["teams"])
	assert.Equal(t, "9:00 - 17:00", data["business_hours_window"])
}

func TestSamplesEndpoint(t *testing.T) {
	app := newTestApp(t, &scriptedProvider{responses: []string{"unused"}})

	resp, body := doJSON(t, app, http.MethodGet, "/api/samples", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, body["data"].([]any))
}

func TestHealthEndpoints(t *testing.T) {
	app := newTestApp(t, &scriptedProvider{responses: []string{"unused"}})

	resp, body := doJSON(t, app, http.MethodGet, "/health/live", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "alive", body["status"])

	resp, body = doJSON(t, app, http.MethodGet, "/health/ready", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ready", body["status"])
}

func TestReadyReportsMissingAPIKey(t *testing.T) {
	logger := zap.NewNop()
	metrics := observability.NewMetrics()
	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, 0)
	app.Get("/health/ready", handlers.NewHealthHandler("ticket-triage", "test", "gemini", false, prompt.NewLoader(), metrics).Ready)

	resp, body := doJSON(t, app, http.MethodGet, "/health/ready", nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	details := body["error"].(map[string]any)["details"].(map[string]any)
	assert.Equal(t, "api key not configured", details["gemini"])
}
