package events

import (
	"time"

	"github.com/spec-kit/ticket-triage/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketAnalyzed   EventType = "ticket_analyzed"
	EventAnalysisFailed   EventType = "analysis_failed"
	EventResponseDrafted  EventType = "response_drafted"
	EventQuestionAnswered EventType = "question_answered"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	RecordID  string      `json:"record_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketAnalyzedPayload payload.
type TicketAnalyzedPayload struct {
	Category    domain.Category `json:"category"`
	Urgency     domain.Urgency  `json:"urgency"`
	Team        string          `json:"team"`
	SLADeadline time.Time       `json:"sla_deadline"`
}

// AnalysisFailedPayload payload.
type AnalysisFailedPayload struct {
	Stage domain.PipelineStage `json:"stage"`
	Kind  string               `json:"kind"`
}

// ResponseDraftedPayload payload.
type ResponseDraftedPayload struct {
	ResponsePreview string `json:"response_preview"`
}

// QuestionAnsweredPayload payload.
type QuestionAnsweredPayload struct {
	QuestionPreview string `json:"question_preview"`
	TurnCount       int    `json:"turn_count"`
}
