package service

import (
	"sync"

	"github.com/spec-kit/ticket-triage/internal/domain"
	"github.com/spec-kit/ticket-triage/pkg/apperrors"
)

// SessionStore holds analyzed ticket records for the lifetime of the
// process. Records are never persisted; restarting the service forgets
// them.
type SessionStore struct {
	mu      sync.RWMutex
	records map[string]*domain.TicketRecord
}

// NewSessionStore creates an empty store.
func NewSessionStore() *SessionStore {
	return &SessionStore{records: make(map[string]*domain.TicketRecord)}
}

// Put stores a copy of the record under its ID.
func (s *SessionStore) Put(record *domain.TicketRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[record.ID] = snapshot(record)
}

// Get returns a snapshot of the record for an ID. Callers never see the
// stored record itself, so concurrent conversation appends cannot race
// with readers.
func (s *SessionStore) Get(id string) (*domain.TicketRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[id]
	if !ok {
		return nil, apperrors.NewNotFound("ticket record", map[string]any{"id": id})
	}
	return snapshot(record), nil
}

// AppendTurn adds a question/answer pair to a record's conversation and
// returns a snapshot of the updated record.
func (s *SessionStore) AppendTurn(id string, turn domain.Turn) (*domain.TicketRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.records[id]
	if !ok {
		return nil, apperrors.NewNotFound("ticket record", map[string]any{"id": id})
	}
	record.Conversation = append(record.Conversation, turn)
	return snapshot(record), nil
}

// Len reports the number of stored records.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// snapshot copies a record with its conversation slice. The pointer
// fields (Classification, Routing, ...) are immutable after assembly
// and stay shared; Conversation is the only field mutated after Put.
func snapshot(record *domain.TicketRecord) *domain.TicketRecord {
	copied := *record
	if len(record.Conversation) > 0 {
		copied.Conversation = append([]domain.Turn(nil), record.Conversation...)
	}
	return &copied
}
