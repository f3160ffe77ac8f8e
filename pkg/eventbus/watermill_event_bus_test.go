package eventbus_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/dukex/flowcanvas/pkg/channels/gochannel"
	"github.com/dukex/flowcanvas/pkg/eventbus"
	"github.com/dukex/flowcanvas/pkg/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBus(t *testing.T) *eventbus.WatermillEventBus {
	t.Helper()

	pub, sub, err := gochannel.CreateChannel(watermill.NopLogger{})
	require.NoError(t, err)

	bus := eventbus.NewWatermillEventBus(pub, sub)
	t.Cleanup(func() { _ = bus.Close() })

	return bus
}

func TestWatermillEventBus_PublishAndHandle(t *testing.T) {
	bus := newTestBus(t)

	received := make(chan *events.EdgeRejected, 1)

	require.NoError(t, bus.Handle(events.EdgeRejectedEvent, func(_ context.Context, event any) error {
		received <- event.(*events.EdgeRejected)

		return nil
	}))
	require.NoError(t, bus.Subscribe(t.Context()))

	published := events.EdgeRejected{
		BaseEvent:    events.NewBaseEvent(events.EdgeRejectedEvent, "wf-1"),
		SourceNodeID: "a",
		TargetNodeID: "a",
		Reason:       "self_loop",
		Message:      "a node cannot connect to itself",
	}
	require.NoError(t, bus.Publish(t.Context(), "wf-1", published))

	select {
	case event := <-received:
		assert.Equal(t, published.ID, event.ID)
		assert.Equal(t, "self_loop", event.Reason)
		assert.Equal(t, "wf-1", event.WorkflowID)
	case <-time.After(5 * time.Second):
		t.Fatal("event was not delivered")
	}
}

func TestWatermillEventBus_IgnoresUnhandledTypes(t *testing.T) {
	bus := newTestBus(t)

	received := make(chan events.EventType, 2)

	require.NoError(t, bus.Handle(events.NodeAddedEvent, func(_ context.Context, event any) error {
		received <- event.(*events.NodeAdded).GetType()

		return nil
	}))
	require.NoError(t, bus.Subscribe(t.Context()))

	require.NoError(t, bus.Publish(t.Context(), "wf-1", events.EdgeRemoved{
		BaseEvent: events.NewBaseEvent(events.EdgeRemovedEvent, "wf-1"),
		EdgeID:    "e-1",
	}))
	require.NoError(t, bus.Publish(t.Context(), "wf-1", events.NodeAdded{
		BaseEvent: events.NewBaseEvent(events.NodeAddedEvent, "wf-1"),
		NodeID:    "n-1",
	}))

	select {
	case eventType := <-received:
		assert.Equal(t, events.NodeAddedEvent, eventType)
	case <-time.After(5 * time.Second):
		t.Fatal("event was not delivered")
	}

	assert.Empty(t, received)
}

func TestWatermillEventBus_HandlerErrorRedelivers(t *testing.T) {
	bus := newTestBus(t)

	var calls atomic.Int32

	attempts := make(chan int32, 4)

	require.NoError(t, bus.Handle(events.WorkflowSavedEvent, func(_ context.Context, _ any) error {
		attempt := calls.Add(1)
		attempts <- attempt

		if attempt == 1 {
			return errors.New("temporary failure")
		}

		return nil
	}))
	require.NoError(t, bus.Subscribe(t.Context()))

	require.NoError(t, bus.Publish(t.Context(), "wf-1", events.WorkflowSaved{
		BaseEvent: events.NewBaseEvent(events.WorkflowSavedEvent, "wf-1"),
	}))

	for expected := int32(1); expected <= 2; expected++ {
		select {
		case attempt := <-attempts:
			assert.Equal(t, expected, attempt)
		case <-time.After(5 * time.Second):
			t.Fatal("event was not redelivered after a nack")
		}
	}
}

func TestWatermillEventBus_GenerateID(t *testing.T) {
	bus := newTestBus(t)

	assert.NotEqual(t, bus.GenerateID(), bus.GenerateID())
}
