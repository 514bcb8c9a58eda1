package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-triage/internal/api/dto"
	"github.com/spec-kit/ticket-triage/internal/domain"
	"github.com/spec-kit/ticket-triage/internal/service"
	"github.com/spec-kit/ticket-triage/pkg/apperrors"
)

// TicketsHandler exposes ticket analysis and Q&A endpoints.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// Analyze POST /api/tickets/analyze.
func (h *TicketsHandler) Analyze(c *fiber.Ctx) error {
	var req dto.AnalyzeTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	record, err := h.service.AnalyzeTicket(c.UserContext(), req.Text)
	if err != nil {
		var pipelineErr *domain.PipelineError
		if errors.As(err, &pipelineErr) && record != nil {
			// Pipeline failures return the partial record annotated
			// with the failing stage so the UI can offer a retry.
			domainErr := apperrors.ToDomainError(err)
			return c.Status(domainErr.HTTPStatus).JSON(fiber.Map{
				"error": dto.AnalyzeFailure{
					Stage:   string(pipelineErr.Stage),
					Code:    string(domainErr.Code),
					Message: domainErr.Message,
				},
				"data": ticketRecordResponse(record),
			})
		}
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": ticketRecordResponse(record)})
}

// Get GET /api/tickets/:id.
func (h *TicketsHandler) Get(c *fiber.Ctx) error {
	record, err := h.service.GetRecord(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketRecordResponse(record)})
}

// Ask POST /api/tickets/:id/questions.
func (h *TicketsHandler) Ask(c *fiber.Ctx) error {
	var req dto.AskQuestionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	record, answer, err := h.service.AskAboutTicket(c.UserContext(), c.Params("id"), req.Question)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.AnswerResponse{
		RecordID:     record.ID,
		Question:     req.Question,
		Answer:       answer,
		Conversation: turnResponses(record.Conversation),
	}})
}

func ticketRecordResponse(record *domain.TicketRecord) dto.TicketRecordResponse {
	resp := dto.TicketRecordResponse{
		ID:                record.ID,
		Text:              record.RawText,
		CreatedAt:         record.CreatedAt,
		SLADeadline:       record.SLADeadline,
		SuggestedResponse: record.SuggestedResponse,
		Conversation:      turnResponses(record.Conversation),
	}
	if record.Classification != nil {
		resp.Classification = &dto.ClassificationResponse{
			Category:     record.Classification.Category,
			Urgency:      record.Classification.Urgency,
			CustomerName: record.Classification.CustomerName,
			IssueSummary: record.Classification.IssueSummary,
		}
	}
	if record.Routing != nil {
		resp.Routing = &dto.RoutingResponse{Team: record.Routing.Team}
	}
	if record.SLADeadline != nil {
		remaining := time.Until(*record.SLADeadline).Hours()
		resp.HoursRemaining = &remaining
	}
	if record.BusinessHours != nil {
		resp.BusinessHours = &dto.BusinessHoursResponse{
			IsBusinessHours: record.BusinessHours.IsBusinessHours,
			IsBusinessDay:   record.BusinessHours.IsBusinessDay,
			DayOfWeek:       record.BusinessHours.DayOfWeek,
			Window:          record.BusinessHours.Window,
			Message:         record.BusinessHours.Message,
		}
	}
	return resp
}

func turnResponses(turns []domain.Turn) []dto.TurnResponse {
	resp := make([]dto.TurnResponse, 0, len(turns))
	for _, turn := range turns {
		resp = append(resp, dto.TurnResponse{
			Question: turn.Question,
			Answer:   turn.Answer,
			AskedAt:  turn.AskedAt,
		})
	}
	return resp
}
