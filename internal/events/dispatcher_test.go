package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishInvokesSubscribers(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()

	var received []Event
	dispatcher.Subscribe(EventTicketCreated, func(_ context.Context, e Event) error {
		received = append(received, e)
		return nil
	})

	err := dispatcher.Publish(context.Background(), Event{Type: EventTicketCreated, TicketID: "t-1"})
	require.NoError(t, err)
	require.Len(t, received, 1)
	assert.Equal(t, "t-1", received[0].TicketID)
}

func TestPublishOnlyMatchingType(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()

	calls := 0
	dispatcher.Subscribe(EventTicketDeleted, func(_ context.Context, _ Event) error {
		calls++
		return nil
	})

	require.NoError(t, dispatcher.Publish(context.Background(), Event{Type: EventTicketCreated}))
	assert.Zero(t, calls)
}

func TestPublishWithNoSubscribers(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()
	assert.NoError(t, dispatcher.Publish(context.Background(), Event{Type: EventTicketStatusChanged}))
}

func TestFailingHandlerDoesNotStopOthers(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()

	dispatcher.Subscribe(EventTicketCommentAdded, func(_ context.Context, _ Event) error {
		return errors.New("handler exploded")
	})
	secondCalled := false
	dispatcher.Subscribe(EventTicketCommentAdded, func(_ context.Context, _ Event) error {
		secondCalled = true
		return nil
	})

	require.NoError(t, dispatcher.Publish(context.Background(), Event{Type: EventTicketCommentAdded}))
	assert.True(t, secondCalled)
}

func TestPublishStopsOnCancelledContext(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()

	calls := 0
	dispatcher.Subscribe(EventTicketCreated, func(_ context.Context, _ Event) error {
		calls++
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := dispatcher.Publish(ctx, Event{Type: EventTicketCreated})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, calls)
}

func TestMultipleSubscribersRunInOrder(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()

	var order []int
	for i := 1; i <= 3; i++ {
		i := i
		dispatcher.Subscribe(EventTicketStatusChanged, func(_ context.Context, _ Event) error {
			order = append(order, i)
			return nil
		})
	}

	require.NoError(t, dispatcher.Publish(context.Background(), Event{Type: EventTicketStatusChanged}))
	assert.Equal(t, []int{1, 2, 3}, order)
}
