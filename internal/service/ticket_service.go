package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/ticket-triage/internal/domain"
	"github.com/spec-kit/ticket-triage/internal/events"
	"github.com/spec-kit/ticket-triage/internal/observability"
	"github.com/spec-kit/ticket-triage/internal/sla"
	"github.com/spec-kit/ticket-triage/pkg/apperrors"
)

// Routing rules: category -> team. Routing is a pure lookup, never
// decided by the model.
var routingRules = map[domain.Category]string{
	domain.CategoryAuthentication:    "Auth Team",
	domain.CategoryBilling:           "Billing Team",
	domain.CategoryTechnical:         "Technical Team",
	domain.CategoryAccountManagement: "Account Team",
	domain.CategorySales:             "Sales Team",
	domain.CategoryDataRecovery:      "Technical Team",
	domain.CategoryGeneralSupport:    "General Support",
}

// DefaultTeam receives tickets whose category has no routing entry.
const DefaultTeam = "General Support"

// RouteCategory resolves the responsible team for a category.
func RouteCategory(category domain.Category) string {
	if team, ok := routingRules[category]; ok {
		return team
	}
	return DefaultTeam
}

// TicketService orchestrates the analysis pipeline:
// Classify -> ComputeSLA -> Route -> Draft. Stages run sequentially;
// the first failure aborts the pipeline and the partial record is
// returned tagged with the failing stage. Q&A operates independently
// on already-assembled records.
type TicketService struct {
	ai         *AIService
	calculator *sla.Calculator
	hours      sla.BusinessHours
	store      *SessionStore
	dispatcher events.Dispatcher
	observer   observability.Observer
	clock      func() time.Time
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	AI         *AIService
	Calculator *sla.Calculator
	Hours      sla.BusinessHours
	Store      *SessionStore
	Dispatcher events.Dispatcher
	Observer   observability.Observer
	Clock      func() time.Time
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	observer := deps.Observer
	if observer == nil {
		observer = observability.NoopObserver{}
	}
	return &TicketService{
		ai:         deps.AI,
		calculator: deps.Calculator,
		hours:      deps.Hours,
		store:      deps.Store,
		dispatcher: deps.Dispatcher,
		observer:   observer,
		clock:      clock,
	}
}

// AnalyzeTicket runs the full pipeline over raw ticket text. On
// success the assembled record is stored for Q&A. On a stage failure
// the partial record is returned together with a PipelineError.
func (s *TicketService) AnalyzeTicket(ctx context.Context, text string) (record *domain.TicketRecord, err error) {
	start := time.Now()
	defer func() {
		s.observer.Observe(observability.Observation{
			Operation: "ticket.analyze",
			TraceID:   observability.NewTraceID(),
			Inputs:    map[string]any{"ticket_text": preview(text, 120)},
			Outputs:   analyzeOutputs(record),
			Duration:  time.Since(start),
			Err:       err,
		})
	}()

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperrors.NewValidationError("ticket text required", nil)
	}

	record = &domain.TicketRecord{
		ID:        uuid.NewString(),
		RawText:   text,
		CreatedAt: s.clock(),
	}

	// Stage 1: classify.
	classification, err := s.ai.ClassifyTicket(ctx, text)
	if err != nil {
		return record, s.failStage(ctx, record, domain.StageClassify, err)
	}
	record.Classification = classification

	// Stage 2: SLA deadline and business-hours status. Critical
	// tickets get a 24/7 deadline; everything else is advanced to the
	// next business-hours open when the raw deadline lands outside the
	// window.
	deadline := s.calculator.Deadline(classification.Urgency, record.CreatedAt)
	if classification.Urgency != domain.UrgencyCritical {
		deadline = s.hours.NextOpen(deadline)
	}
	status := s.hours.Status(record.CreatedAt)
	record.SLADeadline = &deadline
	record.BusinessHours = &status

	// Stage 3: route.
	record.Routing = &domain.RoutingDecision{Team: RouteCategory(classification.Category)}

	// Stage 4: draft a suggested response.
	response, err := s.ai.SuggestResponse(ctx, record)
	if err != nil {
		return record, s.failStage(ctx, record, domain.StageDraft, err)
	}
	record.SuggestedResponse = response

	s.store.Put(record)
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketAnalyzed,
		RecordID: record.ID,
		Payload: events.TicketAnalyzedPayload{
			Category:    classification.Category,
			Urgency:     classification.Urgency,
			Team:        record.Routing.Team,
			SLADeadline: deadline,
		},
	})
	s.publishEvent(ctx, events.Event{
		Type:     events.EventResponseDrafted,
		RecordID: record.ID,
		Payload: events.ResponseDraftedPayload{
			ResponsePreview: preview(response, 120),
		},
	})
	return record, nil
}

// GetRecord returns a previously analyzed record.
func (s *TicketService) GetRecord(_ context.Context, id string) (*domain.TicketRecord, error) {
	return s.store.Get(id)
}

// AskAboutTicket answers a question about an analyzed ticket and
// appends the turn to its conversation. May be invoked repeatedly.
func (s *TicketService) AskAboutTicket(ctx context.Context, recordID, question string) (*domain.TicketRecord, string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, "", apperrors.NewValidationError("question required", nil)
	}

	record, err := s.store.Get(recordID)
	if err != nil {
		return nil, "", err
	}

	answer, err := s.ai.AnswerQuestion(ctx, record, question, record.Conversation)
	if err != nil {
		return record, "", err
	}

	record, err = s.store.AppendTurn(recordID, domain.Turn{
		Question: question,
		Answer:   answer,
		AskedAt:  s.clock(),
	})
	if err != nil {
		return nil, "", err
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventQuestionAnswered,
		RecordID: record.ID,
		Payload: events.QuestionAnsweredPayload{
			QuestionPreview: preview(question, 120),
			TurnCount:       len(record.Conversation),
		},
	})
	return record, answer, nil
}

// SLATable exposes the per-urgency response windows in hours.
func (s *TicketService) SLATable() map[domain.Urgency]float64 {
	return s.calculator.OffsetTable()
}

// BusinessHoursWindow renders the configured response window.
func (s *TicketService) BusinessHoursWindow() string {
	return s.hours.Window()
}

// RoutingOptions returns the distinct team names, sorted.
func (s *TicketService) RoutingOptions() []string {
	seen := make(map[string]struct{}, len(routingRules))
	teams := make([]string, 0, len(routingRules))
	for _, team := range routingRules {
		if _, ok := seen[team]; ok {
			continue
		}
		seen[team] = struct{}{}
		teams = append(teams, team)
	}
	sort.Strings(teams)
	return teams
}

// CategoryOptions returns the supported categories.
func (s *TicketService) CategoryOptions() []domain.Category {
	return domain.Categories()
}

func (s *TicketService) failStage(ctx context.Context, record *domain.TicketRecord, stage domain.PipelineStage, cause error) error {
	s.publishEvent(ctx, events.Event{
		Type:     events.EventAnalysisFailed,
		RecordID: record.ID,
		Payload: events.AnalysisFailedPayload{
			Stage: stage,
			Kind:  string(apperrors.KindOf(cause)),
		},
	})
	return &domain.PipelineError{Stage: stage, Err: cause}
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.clock()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func analyzeOutputs(record *domain.TicketRecord) map[string]any {
	outputs := map[string]any{}
	if record == nil || record.Classification == nil {
		return outputs
	}
	outputs["category"] = record.Classification.Category
	outputs["urgency"] = record.Classification.Urgency
	if record.Routing != nil {
		outputs["team"] = record.Routing.Team
	}
	return outputs
}
