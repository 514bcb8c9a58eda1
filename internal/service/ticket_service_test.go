package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/ticket-triage/internal/domain"
	"github.com/spec-kit/ticket-triage/internal/events"
	"github.com/spec-kit/ticket-triage/internal/llm"
	"github.com/spec-kit/ticket-triage/internal/prompt"
	"github.com/spec-kit/ticket-triage/internal/sla"
	"github.com/spec-kit/ticket-triage/pkg/apperrors"
)

func newTicketService(t *testing.T, provider llm.Provider, now time.Time) (*TicketService, *SessionStore) {
	t.Helper()
	hours, err := sla.NewBusinessHours(9, 17)
	require.NoError(t, err)
	store := NewSessionStore()
	svc := NewTicketService(TicketDependencies{
		AI:         NewAIService(provider, prompt.NewLoader(), nil),
		Calculator: sla.NewCalculator(),
		Hours:      hours,
		Store:      store,
		Dispatcher: events.NewInMemoryDispatcher(),
		Clock:      func() time.Time { return now },
	})
	return svc, store
}

func TestRouteCategory(t *testing.T) {
	t.Run("total over the category set", func(t *testing.T) {
		for _, category := range domain.Categories() {
			assert.NotEmpty(t, RouteCategory(category), "no team for %s", category)
		}
	})

	t.Run("known mappings", func(t *testing.T) {
		assert.Equal(t, "Auth Team", RouteCategory(domain.CategoryAuthentication))
		assert.Equal(t, "Technical Team", RouteCategory(domain.CategoryDataRecovery))
	})

	t.Run("unknown category falls back to default team", func(t *testing.T) {
		assert.Equal(t, DefaultTeam, RouteCategory(domain.Category("Gardening")))
	})
}

func TestAnalyzeTicket_CriticalAuthentication(t *testing.T) {
	// Wednesday 14:00 UTC, inside business hours.
	now := time.Date(2024, 11, 20, 14, 0, 0, 0, time.UTC)
	provider := &stubProvider{results: []stubResult{
		{text: validClassificationJSON},
		{text: "Dear Sarah, we are looking into your login issue."},
	}}
	svc, store := newTicketService(t, provider, now)

	record, err := svc.AnalyzeTicket(context.Background(), "I can't log into my account... urgent!")
	require.NoError(t, err)

	require.NotNil(t, record.Classification)
	assert.Equal(t, domain.CategoryAuthentication, record.Classification.Category)
	assert.Equal(t, domain.UrgencyCritical, record.Classification.Urgency)

	// Critical deadline is exactly created_at + 1h, never adjusted.
	require.NotNil(t, record.SLADeadline)
	assert.Equal(t, now.Add(1*time.Hour), *record.SLADeadline)

	require.NotNil(t, record.Routing)
	assert.Equal(t, RouteCategory(domain.CategoryAuthentication), record.Routing.Team)

	require.NotNil(t, record.BusinessHours)
	assert.True(t, record.BusinessHours.IsBusinessHours)

	assert.Contains(t, record.SuggestedResponse, "Dear Sarah")
	assert.Empty(t, record.Conversation)

	stored, err := store.Get(record.ID)
	require.NoError(t, err)
	assert.Equal(t, record.ID, stored.ID)
}

func TestAnalyzeTicket_MediumAdjustedToBusinessHours(t *testing.T) {
	// Friday 16:00 UTC; +24h lands on Saturday, adjusted to Monday 09:00.
	now := time.Date(2024, 11, 22, 16, 0, 0, 0, time.UTC)
	provider := &stubProvider{results: []stubResult{
		{text: `{"category":"Technical","urgency":"Medium","issue_summary":"Dashboard loads slowly."}`},
		{text: "Thanks for the report, we will investigate."},
	}}
	svc, _ := newTicketService(t, provider, now)

	record, err := svc.AnalyzeTicket(context.Background(), "dashboard loading slowly")
	require.NoError(t, err)

	require.NotNil(t, record.SLADeadline)
	assert.Equal(t, time.Date(2024, 11, 25, 9, 0, 0, 0, time.UTC), *record.SLADeadline)
	assert.Equal(t, "Technical Team", record.Routing.Team)
}

func TestAnalyzeTicket_MediumInsideBusinessHoursUnadjusted(t *testing.T) {
	// Tuesday 10:00 UTC; +24h is Wednesday 10:00, already inside the window.
	now := time.Date(2024, 11, 19, 10, 0, 0, 0, time.UTC)
	provider := &stubProvider{results: []stubResult{
		{text: `{"category":"Technical","urgency":"Medium","issue_summary":"Dashboard loads slowly."}`},
		{text: "On it."},
	}}
	svc, _ := newTicketService(t, provider, now)

	record, err := svc.AnalyzeTicket(context.Background(), "dashboard loading slowly")
	require.NoError(t, err)
	assert.Equal(t, now.Add(24*time.Hour), *record.SLADeadline)
}

func TestAnalyzeTicket_EmptyText(t *testing.T) {
	svc, _ := newTicketService(t, &stubProvider{results: []stubResult{{text: "unused"}}}, time.Now())

	_, err := svc.AnalyzeTicket(context.Background(), "   ")
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidationFailed))
}

func TestAnalyzeTicket_HaltsAtClassify(t *testing.T) {
	now := time.Date(2024, 11, 20, 14, 0, 0, 0, time.UTC)
	provider := &stubProvider{results: []stubResult{
		{text: `{"category":"Billing","urgency":"Extreme","issue_summary":"x"}`},
	}}
	svc, store := newTicketService(t, provider, now)

	record, err := svc.AnalyzeTicket(context.Background(), "billing issue")
	require.Error(t, err)

	var pipelineErr *domain.PipelineError
	require.ErrorAs(t, err, &pipelineErr)
	assert.Equal(t, domain.StageClassify, pipelineErr.Stage)
	assert.True(t, apperrors.IsKind(err, apperrors.KindSchemaValidation))

	// partial record: nothing beyond the raw text was produced
	require.NotNil(t, record)
	assert.Nil(t, record.Classification)
	assert.Nil(t, record.Routing)
	assert.Nil(t, record.SLADeadline)

	// only one model call was made, and the record was not stored
	assert.Equal(t, 1, provider.calls)
	assert.Equal(t, 0, store.Len())
}

func TestAnalyzeTicket_HaltsAtDraft(t *testing.T) {
	now := time.Date(2024, 11, 20, 14, 0, 0, 0, time.UTC)
	provider := &stubProvider{results: []stubResult{
		{text: validClassificationJSON},
		{err: apperrors.NewTransportFailure("model unreachable", errors.New("dial tcp"))},
	}}
	svc, store := newTicketService(t, provider, now)

	record, err := svc.AnalyzeTicket(context.Background(), "login issue")
	require.Error(t, err)

	var pipelineErr *domain.PipelineError
	require.ErrorAs(t, err, &pipelineErr)
	assert.Equal(t, domain.StageDraft, pipelineErr.Stage)
	assert.True(t, apperrors.IsKind(err, apperrors.KindTransportFailure))

	// earlier stages survive in the partial record
	require.NotNil(t, record.Classification)
	require.NotNil(t, record.Routing)
	require.NotNil(t, record.SLADeadline)
	assert.Empty(t, record.SuggestedResponse)

	assert.Equal(t, 0, store.Len())
}

func TestAnalyzeTicket_PublishesEvents(t *testing.T) {
	now := time.Date(2024, 11, 20, 14, 0, 0, 0, time.UTC)
	provider := &stubProvider{results: []stubResult{
		{text: validClassificationJSON},
		{text: "Draft reply."},
	}}

	hours, err := sla.NewBusinessHours(9, 17)
	require.NoError(t, err)
	dispatcher := events.NewInMemoryDispatcher()
	var seen []events.EventType
	for _, eventType := range []events.EventType{events.EventTicketAnalyzed, events.EventResponseDrafted, events.EventAnalysisFailed} {
		et := eventType
		dispatcher.Subscribe(et, func(_ context.Context, event events.Event) error {
			seen = append(seen, event.Type)
			return nil
		})
	}

	svc := NewTicketService(TicketDependencies{
		AI:         NewAIService(provider, prompt.NewLoader(), nil),
		Calculator: sla.NewCalculator(),
		Hours:      hours,
		Store:      NewSessionStore(),
		Dispatcher: dispatcher,
		Clock:      func() time.Time { return now },
	})

	_, err = svc.AnalyzeTicket(context.Background(), "login issue")
	require.NoError(t, err)
	assert.Equal(t, []events.EventType{events.EventTicketAnalyzed, events.EventResponseDrafted}, seen)
}

func TestAskAboutTicket(t *testing.T) {
	now := time.Date(2024, 11, 20, 14, 0, 0, 0, time.UTC)
	provider := &stubProvider{results: []stubResult{
		{text: validClassificationJSON},
		{text: "Draft reply."},
		{text: "It routes to the Auth Team."},
		{text: "One hour from creation."},
	}}
	svc, _ := newTicketService(t, provider, now)

	record, err := svc.AnalyzeTicket(context.Background(), "login issue")
	require.NoError(t, err)

	record, answer, err := svc.AskAboutTicket(context.Background(), record.ID, "Who handles this?")
	require.NoError(t, err)
	assert.Equal(t, "It routes to the Auth Team.", answer)
	require.Len(t, record.Conversation, 1)
	assert.Equal(t, "Who handles this?", record.Conversation[0].Question)

	record, _, err = svc.AskAboutTicket(context.Background(), record.ID, "When is the deadline?")
	require.NoError(t, err)
	require.Len(t, record.Conversation, 2)

	// second question carries the first turn as grounding history
	lastReq := provider.requests[len(provider.requests)-1]
	require.Len(t, lastReq.Messages, 3)
	assert.Equal(t, "Who handles this?", lastReq.Messages[0].Text)
	assert.Equal(t, "It routes to the Auth Team.", lastReq.Messages[1].Text)
}

func TestAskAboutTicket_ConcurrentQuestions(t *testing.T) {
	now := time.Date(2024, 11, 20, 14, 0, 0, 0, time.UTC)
	provider := &stubProvider{results: []stubResult{
		{text: validClassificationJSON},
		{text: "Draft reply."},
		{text: "An answer."},
	}}
	svc, _ := newTicketService(t, provider, now)

	record, err := svc.AnalyzeTicket(context.Background(), "login issue")
	require.NoError(t, err)

	const questions = 20
	var wg sync.WaitGroup
	for i := 0; i < questions; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _, err := svc.AskAboutTicket(context.Background(), record.ID, "Who handles this?")
			assert.NoError(t, err)
		}()
		go func() {
			defer wg.Done()
			_, err := svc.GetRecord(context.Background(), record.ID)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	final, err := svc.GetRecord(context.Background(), record.ID)
	require.NoError(t, err)
	assert.Len(t, final.Conversation, questions)
}

func TestAskAboutTicket_UnknownRecord(t *testing.T) {
	svc, _ := newTicketService(t, &stubProvider{results: []stubResult{{text: "x"}}}, time.Now())

	_, _, err := svc.AskAboutTicket(context.Background(), "missing-id", "hello?")
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestAskAboutTicket_EmptyQuestion(t *testing.T) {
	svc, _ := newTicketService(t, &stubProvider{results: []stubResult{{text: "x"}}}, time.Now())

	_, _, err := svc.AskAboutTicket(context.Background(), "any", "  ")
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidationFailed))
}

func TestRoutingOptions(t *testing.T) {
	svc, _ := newTicketService(t, &stubProvider{results: []stubResult{{text: "x"}}}, time.Now())

	teams := svc.RoutingOptions()
	assert.Contains(t, teams, "Auth Team")
	assert.Contains(t, teams, DefaultTeam)
	// distinct teams only, sorted
	for i := 1; i < len(teams); i++ {
		assert.Less(t, teams[i-1], teams[i])
	}
}

func TestCategoryOptions(t *testing.T) {
	svc, _ := newTicketService(t, &stubProvider{results: []stubResult{{text: "x"}}}, time.Now())

	assert.Equal(t, domain.Categories(), svc.CategoryOptions())
}
