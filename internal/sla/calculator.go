// Package sla implements deadline arithmetic and business-hours checks.
// Everything here is pure and deterministic; no I/O.
package sla

import (
	"time"

	"github.com/spec-kit/ticket-triage/internal/domain"
)

// Response-time offsets per urgency. Offsets grow monotonically as
// urgency decreases.
var offsets = map[domain.Urgency]time.Duration{
	domain.UrgencyCritical: 1 * time.Hour,
	domain.UrgencyHigh:     4 * time.Hour,
	domain.UrgencyMedium:   24 * time.Hour,
	domain.UrgencyLow:      72 * time.Hour,
}

// Calculator computes SLA deadlines for tickets.
type Calculator struct{}

// NewCalculator returns a Calculator.
func NewCalculator() *Calculator {
	return &Calculator{}
}

// Offset returns the response-time window for an urgency. Unknown
// urgencies fall back to the medium window.
func (Calculator) Offset(urgency domain.Urgency) time.Duration {
	if d, ok := offsets[urgency]; ok {
		return d
	}
	return offsets[domain.UrgencyMedium]
}

// Deadline returns createdAt plus the urgency's offset.
func (c Calculator) Deadline(urgency domain.Urgency, createdAt time.Time) time.Time {
	return createdAt.Add(c.Offset(urgency))
}

// HoursRemaining returns the hours between now and the deadline,
// negative once the deadline has passed.
func (Calculator) HoursRemaining(deadline, now time.Time) float64 {
	return deadline.Sub(now).Hours()
}

// OffsetTable exposes the per-urgency windows in hours, for display.
func (c Calculator) OffsetTable() map[domain.Urgency]float64 {
	table := make(map[domain.Urgency]float64, len(offsets))
	for u, d := range offsets {
		table[u] = d.Hours()
	}
	return table
}
