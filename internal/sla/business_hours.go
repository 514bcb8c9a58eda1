package sla

import (
	"fmt"
	"time"

	"github.com/spec-kit/ticket-triage/internal/domain"
)

// BusinessHours defines the weekday response window. Business days are
// Monday through Friday; hours are [StartHour, EndHour) in the
// timestamp's own location.
type BusinessHours struct {
	StartHour int
	EndHour   int
}

// NewBusinessHours validates and constructs a window.
func NewBusinessHours(startHour, endHour int) (BusinessHours, error) {
	if startHour < 0 || endHour > 24 || startHour >= endHour {
		return BusinessHours{}, fmt.Errorf("invalid business hours window %d-%d", startHour, endHour)
	}
	return BusinessHours{StartHour: startHour, EndHour: endHour}, nil
}

// Contains reports whether t falls within business hours.
func (b BusinessHours) Contains(t time.Time) bool {
	if !isBusinessDay(t.Weekday()) {
		return false
	}
	minute := t.Hour()*60 + t.Minute()
	return minute >= b.StartHour*60 && minute < b.EndHour*60
}

// NextOpen advances t to the next business-hours start if it falls
// outside the window; timestamps already inside are returned unchanged,
// which makes the operation idempotent.
func (b BusinessHours) NextOpen(t time.Time) time.Time {
	if b.Contains(t) {
		return t
	}
	dayStart := time.Date(t.Year(), t.Month(), t.Day(), b.StartHour, 0, 0, 0, t.Location())
	if isBusinessDay(t.Weekday()) && t.Before(dayStart) {
		return dayStart
	}
	next := dayStart.AddDate(0, 0, 1)
	for !isBusinessDay(next.Weekday()) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// Status builds a detailed business-hours report for a timestamp.
func (b BusinessHours) Status(t time.Time) domain.BusinessHoursStatus {
	businessDay := isBusinessDay(t.Weekday())
	businessHours := b.Contains(t)

	status := domain.BusinessHoursStatus{
		IsBusinessHours: businessHours,
		IsBusinessDay:   businessDay,
		DayOfWeek:       t.Weekday().String(),
		Window:          b.Window(),
	}
	switch {
	case businessHours:
		status.Message = "Within business hours - standard response time"
	case businessDay:
		status.Message = "Outside business hours - response may be delayed"
	default:
		status.Message = "Weekend - response on next business day"
	}
	return status
}

// Window renders the configured hours for display.
func (b BusinessHours) Window() string {
	return fmt.Sprintf("%d:00 - %d:00", b.StartHour, b.EndHour)
}

func isBusinessDay(day time.Weekday) bool {
	return day >= time.Monday && day <= time.Friday
}
