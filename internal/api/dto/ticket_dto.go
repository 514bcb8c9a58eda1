package dto

import (
	"time"

	"github.com/spec-kit/ticket-triage/internal/domain"
)

// AnalyzeTicketRequest payload.
type AnalyzeTicketRequest struct {
	Text string `json:"text"`
}

// AskQuestionRequest payload.
type AskQuestionRequest struct {
	Question string `json:"question"`
}

// ClassificationResponse mirrors the classification fields.
type ClassificationResponse struct {
	Category     domain.Category `json:"category"`
	Urgency      domain.Urgency  `json:"urgency"`
	CustomerName string          `json:"customer_name"`
	IssueSummary string          `json:"issue_summary"`
}

// RoutingResponse carries the team assignment.
type RoutingResponse struct {
	Team string `json:"team"`
}

// BusinessHoursResponse reports the window status at creation time.
type BusinessHoursResponse struct {
	IsBusinessHours bool   `json:"is_business_hours"`
	IsBusinessDay   bool   `json:"is_business_day"`
	DayOfWeek       string `json:"day_of_week"`
	Window          string `json:"window"`
	Message         string `json:"message"`
}

// TurnResponse is one conversation exchange.
type TurnResponse struct {
	Question string    `json:"question"`
	Answer   string    `json:"answer"`
	AskedAt  time.Time `json:"asked_at"`
}

// TicketRecordResponse is the full (possibly partial) analysis result.
type TicketRecordResponse struct {
	ID                string                  `json:"id"`
	Text              string                  `json:"text"`
	CreatedAt         time.Time               `json:"created_at"`
	Classification    *ClassificationResponse `json:"classification,omitempty"`
	Routing           *RoutingResponse        `json:"routing,omitempty"`
	SLADeadline       *time.Time              `json:"sla_deadline,omitempty"`
	HoursRemaining    *float64                `json:"hours_remaining,omitempty"`
	BusinessHours     *BusinessHoursResponse  `json:"business_hours,omitempty"`
	SuggestedResponse string                  `json:"suggested_response,omitempty"`
	Conversation      []TurnResponse          `json:"conversation,omitempty"`
}

// AnalyzeFailure annotates a partial result with the failing stage.
type AnalyzeFailure struct {
	Stage   string `json:"stage"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// AnswerResponse is the Q&A result.
type AnswerResponse struct {
	RecordID     string         `json:"record_id"`
	Question     string         `json:"question"`
	Answer       string         `json:"answer"`
	Conversation []TurnResponse `json:"conversation"`
}

// MetaResponse lists the static vocabulary of the service.
type MetaResponse struct {
	Categories          []domain.Category          `json:"categories"`
	Teams               []string                   `json:"teams"`
	SLAHours            map[domain.Urgency]float64 `json:"sla_hours"`
	BusinessHoursWindow string                     `json:"business_hours_window"`
}
