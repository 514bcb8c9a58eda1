package domain

import (
	"fmt"
	"strings"
	"time"
)

// Category enumerates the fixed set of support categories the
// classifier may produce.
type Category string

const (
	CategoryAuthentication    Category = "Authentication"
	CategoryBilling           Category = "Billing"
	CategoryTechnical         Category = "Technical"
	CategoryAccountManagement Category = "Account Management"
	CategorySales             Category = "Sales"
	CategoryDataRecovery      Category = "Data Recovery"
	CategoryGeneralSupport    Category = "General Support"
)

// Categories returns all valid categories in display order.
func Categories() []Category {
	return []Category{
		CategoryAuthentication,
		CategoryBilling,
		CategoryTechnical,
		CategoryAccountManagement,
		CategorySales,
		CategoryDataRecovery,
		CategoryGeneralSupport,
	}
}

// ParseCategory matches a raw string against the category set,
// ignoring case and surrounding whitespace.
func ParseCategory(raw string) (Category, bool) {
	trimmed := strings.TrimSpace(raw)
	for _, c := range Categories() {
		if strings.EqualFold(trimmed, string(c)) {
			return c, true
		}
	}
	return "", false
}

// Urgency enumerates SLA priority levels.
type Urgency string

const (
	UrgencyCritical Urgency = "Critical"
	UrgencyHigh     Urgency = "High"
	UrgencyMedium   Urgency = "Medium"
	UrgencyLow      Urgency = "Low"
)

// Urgencies returns all urgency levels from most to least urgent.
func Urgencies() []Urgency {
	return []Urgency{UrgencyCritical, UrgencyHigh, UrgencyMedium, UrgencyLow}
}

// ParseUrgency matches a raw string against the urgency set, ignoring
// case and surrounding whitespace. Models frequently return lowercase
// values; those normalize cleanly.
func ParseUrgency(raw string) (Urgency, bool) {
	trimmed := strings.TrimSpace(raw)
	for _, u := range Urgencies() {
		if strings.EqualFold(trimmed, string(u)) {
			return u, true
		}
	}
	return "", false
}

// Classification is the structured result of the classify stage.
type Classification struct {
	Category     Category `json:"category"`
	Urgency      Urgency  `json:"urgency"`
	CustomerName string   `json:"customer_name"`
	IssueSummary string   `json:"issue_summary"`
}

// RoutingDecision assigns a ticket to a responsible team. Derived from
// the category by a static lookup, never by the model.
type RoutingDecision struct {
	Team string `json:"team"`
}

// BusinessHoursStatus reports whether a moment falls inside the
// configured response window.
type BusinessHoursStatus struct {
	IsBusinessHours bool   `json:"is_business_hours"`
	IsBusinessDay   bool   `json:"is_business_day"`
	DayOfWeek       string `json:"day_of_week"`
	Window          string `json:"window"`
	Message         string `json:"message"`
}

// Turn is one question/answer exchange in a ticket conversation.
type Turn struct {
	Question string    `json:"question"`
	Answer   string    `json:"answer"`
	AskedAt  time.Time `json:"asked_at"`
}

// TicketRecord aggregates everything produced for one analyzed ticket.
// Immutable after assembly except for Conversation appends.
type TicketRecord struct {
	ID                string               `json:"id"`
	RawText           string               `json:"raw_text"`
	CreatedAt         time.Time            `json:"created_at"`
	Classification    *Classification      `json:"classification,omitempty"`
	Routing           *RoutingDecision     `json:"routing,omitempty"`
	SLADeadline       *time.Time           `json:"sla_deadline,omitempty"`
	BusinessHours     *BusinessHoursStatus `json:"business_hours,omitempty"`
	SuggestedResponse string               `json:"suggested_response,omitempty"`
	Conversation      []Turn               `json:"conversation,omitempty"`
}

// PipelineStage identifies a step of the ticket analysis pipeline.
type PipelineStage string

const (
	StageClassify PipelineStage = "classify"
	StageSLA      PipelineStage = "sla"
	StageRoute    PipelineStage = "route"
	StageDraft    PipelineStage = "draft"
)

// PipelineError tags a failure with the pipeline stage it occurred in.
// The accompanying TicketRecord carries whatever earlier stages
// produced.
type PipelineError struct {
	Stage PipelineStage
	Err   error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("pipeline stage %s failed: %v", e.Stage, e.Err)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}
