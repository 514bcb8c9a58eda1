package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/spec-kit/ticket-triage/internal/domain"
	"github.com/spec-kit/ticket-triage/internal/llm"
	"github.com/spec-kit/ticket-triage/internal/observability"
	"github.com/spec-kit/ticket-triage/internal/prompt"
	"github.com/spec-kit/ticket-triage/pkg/apperrors"
)

// Temperatures per operation: classification wants determinism, drafts
// want a natural register.
const (
	classifyTemperature = 0.1
	suggestTemperature  = 0.7
	answerTemperature   = 0.3
)

// classificationSchema describes the JSON document the model must
// return for the classify operation.
const classificationSchema = `{
  "category": "string - one of: Authentication, Billing, Technical, Account Management, Sales, Data Recovery, General Support",
  "urgency": "string - one of: Critical, High, Medium, Low",
  "customer_name": "string - customer name if mentioned, otherwise 'Not specified'",
  "issue_summary": "string - one sentence summary of the issue"
}`

// AIService wraps all model-backed operations: structured ticket
// classification, response drafting and grounded Q&A.
type AIService struct {
	provider llm.Provider
	prompts  *prompt.Loader
	observer observability.Observer
}

// NewAIService constructs the service.
func NewAIService(provider llm.Provider, prompts *prompt.Loader, observer observability.Observer) *AIService {
	if observer == nil {
		observer = observability.NoopObserver{}
	}
	return &AIService{provider: provider, prompts: prompts, observer: observer}
}

// ClassifyTicket extracts structured information from raw ticket text.
// A response that is not valid JSON, misses a required field or
// carries an enum value outside the fixed sets is a SCHEMA_VALIDATION
// error.
func (s *AIService) ClassifyTicket(ctx context.Context, ticketText string) (cls *domain.Classification, err error) {
	start := time.Now()
	defer func() {
		outputs := map[string]any{}
		if cls != nil {
			outputs["category"] = cls.Category
			outputs["urgency"] = cls.Urgency
		}
		s.observer.Observe(observability.Observation{
			Operation: "ai.classify_ticket",
			TraceID:   observability.NewTraceID(),
			Inputs:    map[string]any{"ticket_text": preview(ticketText, 120)},
			Outputs:   outputs,
			Duration:  time.Since(start),
			Err:       err,
		})
	}()

	promptText, err := s.prompts.Format("classify_ticket", map[string]string{
		"ticket_text": ticketText,
		"schema":      classificationSchema,
	})
	if err != nil {
		return nil, err
	}

	resp, err := s.provider.Generate(ctx, llm.GenerateRequest{
		Messages:    []llm.Message{{Role: llm.RoleUser, Text: promptText}},
		Temperature: classifyTemperature,
		JSONOutput:  true,
	})
	if err != nil {
		return nil, err
	}

	return parseClassification(resp.Text)
}

// SuggestResponse drafts a reply email for an assembled ticket record.
func (s *AIService) SuggestResponse(ctx context.Context, record *domain.TicketRecord) (text string, err error) {
	start := time.Now()
	defer func() {
		s.observer.Observe(observability.Observation{
			Operation: "ai.suggest_response",
			TraceID:   observability.NewTraceID(),
			Inputs:    map[string]any{"record_id": record.ID},
			Outputs:   map[string]any{"response": preview(text, 120)},
			Duration:  time.Since(start),
			Err:       err,
		})
	}()

	if record.Classification == nil {
		return "", apperrors.NewValidationError("record has no classification", nil)
	}

	system, err := s.prompts.Load("suggest_response_system")
	if err != nil {
		return "", err
	}
	userPrompt, err := s.prompts.Format("suggest_response_user", map[string]string{
		"category":      string(record.Classification.Category),
		"urgency":       string(record.Classification.Urgency),
		"customer_name": customerNameOrDefault(record.Classification, "valued customer"),
		"issue_summary": record.Classification.IssueSummary,
		"sla_deadline":  deadlineOrDefault(record, "Standard response time"),
		"route_to":      teamOrDefault(record, "Support Team"),
		"original_text": record.RawText,
		"context":       "",
	})
	if err != nil {
		return "", err
	}

	resp, err := s.provider.Generate(ctx, llm.GenerateRequest{
		Messages:          []llm.Message{{Role: llm.RoleUser, Text: userPrompt}},
		SystemInstruction: system,
		Temperature:       suggestTemperature,
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(resp.Text), nil
}

// AnswerQuestion answers a free-form question about a ticket, grounded
// on the assembled record and the prior conversation turns.
func (s *AIService) AnswerQuestion(ctx context.Context, record *domain.TicketRecord, question string, history []domain.Turn) (answer string, err error) {
	start := time.Now()
	defer func() {
		s.observer.Observe(observability.Observation{
			Operation: "ai.answer_question",
			TraceID:   observability.NewTraceID(),
			Inputs:    map[string]any{"record_id": record.ID, "question": preview(question, 120)},
			Outputs:   map[string]any{"answer": preview(answer, 120)},
			Duration:  time.Since(start),
			Err:       err,
		})
	}()

	if record.Classification == nil {
		return "", apperrors.NewValidationError("record has no classification", nil)
	}

	system, err := s.prompts.Format("answer_question_system", map[string]string{
		"category":      string(record.Classification.Category),
		"urgency":       string(record.Classification.Urgency),
		"customer_name": customerNameOrDefault(record.Classification, "Not specified"),
		"issue_summary": record.Classification.IssueSummary,
		"sla_deadline":  deadlineOrDefault(record, "Not calculated"),
		"route_to":      teamOrDefault(record, "Not determined"),
	})
	if err != nil {
		return "", err
	}

	messages := make([]llm.Message, 0, len(history)*2+1)
	for _, turn := range history {
		messages = append(messages,
			llm.Message{Role: llm.RoleUser, Text: turn.Question},
			llm.Message{Role: llm.RoleModel, Text: turn.Answer},
		)
	}
	messages = append(messages, llm.Message{Role: llm.RoleUser, Text: question})

	resp, err := s.provider.Generate(ctx, llm.GenerateRequest{
		Messages:          messages,
		SystemInstruction: system,
		Temperature:       answerTemperature,
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(resp.Text), nil
}

// rawClassification mirrors the JSON document the model returns.
type rawClassification struct {
	Category     string `json:"category"`
	Urgency      string `json:"urgency"`
	CustomerName string `json:"customer_name"`
	IssueSummary string `json:"issue_summary"`
}

func parseClassification(responseText string) (*domain.Classification, error) {
	cleaned := stripCodeFence(responseText)

	var raw rawClassification
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		return nil, apperrors.NewSchemaValidation("classification response is not valid JSON", map[string]any{"response": preview(cleaned, 200)})
	}

	if strings.TrimSpace(raw.Category) == "" {
		return nil, apperrors.NewSchemaValidation("classification missing required field", map[string]any{"field": "category"})
	}
	if strings.TrimSpace(raw.Urgency) == "" {
		return nil, apperrors.NewSchemaValidation("classification missing required field", map[string]any{"field": "urgency"})
	}
	if strings.TrimSpace(raw.IssueSummary) == "" {
		return nil, apperrors.NewSchemaValidation("classification missing required field", map[string]any{"field": "issue_summary"})
	}

	category, ok := domain.ParseCategory(raw.Category)
	if !ok {
		return nil, apperrors.NewSchemaValidation("category outside the fixed set", map[string]any{"field": "category", "value": raw.Category})
	}
	urgency, ok := domain.ParseUrgency(raw.Urgency)
	if !ok {
		return nil, apperrors.NewSchemaValidation("urgency outside the fixed set", map[string]any{"field": "urgency", "value": raw.Urgency})
	}

	customerName := strings.TrimSpace(raw.CustomerName)
	if customerName == "" {
		customerName = "Not specified"
	}

	return &domain.Classification{
		Category:     category,
		Urgency:      urgency,
		CustomerName: customerName,
		IssueSummary: strings.TrimSpace(raw.IssueSummary),
	}, nil
}

// stripCodeFence unwraps a ```json fenced block if the model added one
// despite the JSON output constraint.
func stripCodeFence(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}

func customerNameOrDefault(cls *domain.Classification, fallback string) string {
	if cls.CustomerName == "" || cls.CustomerName == "Not specified" {
		return fallback
	}
	return cls.CustomerName
}

func deadlineOrDefault(record *domain.TicketRecord, fallback string) string {
	if record.SLADeadline == nil {
		return fallback
	}
	return record.SLADeadline.Format(time.RFC3339)
}

func teamOrDefault(record *domain.TicketRecord, fallback string) string {
	if record.Routing == nil || record.Routing.Team == "" {
		return fallback
	}
	return record.Routing.Team
}

func preview(body string, max int) string {
	body = strings.TrimSpace(body)
	if len(body) <= max {
		return body
	}
	cut := max
	ellipsis := ""
	if max > 3 {
		cut = max - 3
		ellipsis = "..."
	}
	// never split a multi-byte rune
	for cut > 0 && !utf8.RuneStart(body[cut]) {
		cut--
	}
	return body[:cut] + ellipsis
}
