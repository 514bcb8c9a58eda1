package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcherPublishInvokesSubscribers(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()

	var calls []string
	dispatcher.Subscribe(EventTicketAnalyzed, func(_ context.Context, event Event) error {
		calls = append(calls, "first:"+event.RecordID)
		return nil
	})
	dispatcher.Subscribe(EventTicketAnalyzed, func(_ context.Context, event Event) error {
		calls = append(calls, "second:"+event.RecordID)
		return nil
	})

	err := dispatcher.Publish(context.Background(), Event{Type: EventTicketAnalyzed, RecordID: "rec-1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"first:rec-1", "second:rec-1"}, calls)
}

func TestDispatcherHandlerErrorDoesNotStopOthers(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()

	var reached bool
	dispatcher.Subscribe(EventAnalysisFailed, func(context.Context, Event) error {
		return errors.New("boom")
	})
	dispatcher.Subscribe(EventAnalysisFailed, func(context.Context, Event) error {
		reached = true
		return nil
	})

	err := dispatcher.Publish(context.Background(), Event{Type: EventAnalysisFailed})
	require.NoError(t, err)
	assert.True(t, reached)
}

func TestDispatcherIgnoresUnsubscribedTypes(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()

	var called bool
	dispatcher.Subscribe(EventQuestionAnswered, func(context.Context, Event) error {
		called = true
		return nil
	})

	err := dispatcher.Publish(context.Background(), Event{Type: EventTicketAnalyzed})
	require.NoError(t, err)
	assert.False(t, called)
}
