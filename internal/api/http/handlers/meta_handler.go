package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-triage/internal/api/dto"
	"github.com/spec-kit/ticket-triage/internal/sampledata"
	"github.com/spec-kit/ticket-triage/internal/service"
)

// MetaHandler serves static vocabulary and sample tickets.
type MetaHandler struct {
	service *service.TicketService
}

// NewMetaHandler constructs handler.
func NewMetaHandler(ticketService *service.TicketService) *MetaHandler {
	return &MetaHandler{service: ticketService}
}

// Meta GET /api/meta.
func (h *MetaHandler) Meta(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": dto.MetaResponse{
		Categories:          h.service.CategoryOptions(),
		Teams:               h.service.RoutingOptions(),
		SLAHours:            h.service.SLATable(),
		BusinessHoursWindow: h.service.BusinessHoursWindow(),
	}})
}

// Samples GET /api/samples.
func (h *MetaHandler) Samples(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": sampledata.Tickets()})
}
