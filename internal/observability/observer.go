package observability

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-triage/internal/config"
)

// Observation captures one completed service operation for tracing.
// The collector's wire schema is not part of this contract; observers
// receive the hook and decide what to do with it.
type Observation struct {
	Operation string
	TraceID   string
	Inputs    map[string]any
	Outputs   map[string]any
	Duration  time.Duration
	Err       error
}

// Observer receives observations around each service operation.
type Observer interface {
	Observe(obs Observation)
}

// NoopObserver discards all observations.
type NoopObserver struct{}

func (NoopObserver) Observe(Observation) {}

// LoggingObserver emits observations as structured log entries tagged
// with the collector host they would be shipped to.
type LoggingObserver struct {
	logger *zap.Logger
	host   string
}

// NewLoggingObserver constructs an observer backed by zap.
func NewLoggingObserver(logger *zap.Logger, host string) *LoggingObserver {
	return &LoggingObserver{logger: logger, host: host}
}

func (o *LoggingObserver) Observe(obs Observation) {
	fields := []zap.Field{
		zap.String("operation", obs.Operation),
		zap.String("trace_id", obs.TraceID),
		zap.Duration("duration", obs.Duration),
		zap.Any("inputs", obs.Inputs),
		zap.Any("outputs", obs.Outputs),
	}
	if o.host != "" {
		fields = append(fields, zap.String("collector", o.host))
	}
	if obs.Err != nil {
		fields = append(fields, zap.Error(obs.Err))
		o.logger.Warn("trace", fields...)
		return
	}
	o.logger.Info("trace", fields...)
}

// MultiObserver fans observations out to several observers.
type MultiObserver []Observer

func (m MultiObserver) Observe(obs Observation) {
	for _, o := range m {
		o.Observe(obs)
	}
}

// NewObserver builds the tracing observer from config. Missing
// credentials disable tracing rather than failing startup, matching
// the behavior users expect from optional collectors.
func NewObserver(cfg config.TracingConfig, logger *zap.Logger) Observer {
	if !cfg.Enabled() {
		logger.Info("tracing not configured, running without trace export")
		return NoopObserver{}
	}
	logger.Info("tracing enabled", zap.String("host", cfg.Host))
	return NewLoggingObserver(logger, cfg.Host)
}

// NewTraceID returns a fresh trace identifier.
func NewTraceID() string {
	return uuid.NewString()
}
