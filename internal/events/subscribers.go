package events

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-triage/internal/observability"
)

// RegisterAuditSubscribers attaches the synchronous audit logger and
// metrics recorder to every domain event.
func RegisterAuditSubscribers(dispatcher Dispatcher, logger *zap.Logger, metrics *observability.Metrics) {
	if dispatcher == nil {
		return
	}
	for _, eventType := range []EventType{
		EventTicketAnalyzed,
		EventAnalysisFailed,
		EventResponseDrafted,
		EventQuestionAnswered,
	} {
		dispatcher.Subscribe(eventType, auditHandler(logger, metrics))
	}
}

func auditHandler(logger *zap.Logger, metrics *observability.Metrics) EventHandler {
	return func(_ context.Context, event Event) error {
		logger.Info("event",
			zap.String("event_id", event.ID),
			zap.String("type", string(event.Type)),
			zap.String("record_id", event.RecordID),
			zap.Any("payload", event.Payload),
		)
		if event.Type == EventAnalysisFailed {
			if payload, ok := event.Payload.(AnalysisFailedPayload); ok {
				metrics.RecordFailure(fmt.Sprintf("pipeline.%s", payload.Stage), payload.Kind)
			}
			return nil
		}
		metrics.RecordOperation("event." + string(event.Type))
		return nil
	}
}
