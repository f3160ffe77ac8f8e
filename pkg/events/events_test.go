package events

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type typedEvent interface {
	GetType() EventType
}

func TestEvents_GetType(t *testing.T) {
	tests := []struct {
		event    typedEvent
		expected EventType
	}{
		{NodeAdded{}, NodeAddedEvent},
		{NodeRemoved{}, NodeRemovedEvent},
		{NodeUpdated{}, NodeUpdatedEvent},
		{EdgeAdded{}, EdgeAddedEvent},
		{EdgeRemoved{}, EdgeRemovedEvent},
		{EdgeRejected{}, EdgeRejectedEvent},
		{SelectionChanged{}, SelectionChangedEvent},
		{WorkflowValidated{}, WorkflowValidatedEvent},
		{WorkflowSaved{}, WorkflowSavedEvent},
		{WorkflowRunRequested{}, WorkflowRunRequestedEvent},
	}

	for _, tt := range tests {
		t.Run(string(tt.expected), func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.event.GetType())

			decoded, ok := New(tt.expected)
			require.True(t, ok)
			assert.Equal(t, tt.expected, decoded.(typedEvent).GetType())
		})
	}
}

func TestNew_UnknownType(t *testing.T) {
	_, ok := New("workflow.triggered")
	assert.False(t, ok)
}

func TestNewBaseEvent(t *testing.T) {
	base := NewBaseEvent(NodeAddedEvent, "wf-1")

	assert.NotEmpty(t, base.ID)
	assert.Equal(t, NodeAddedEvent, base.Type)
	assert.Equal(t, "wf-1", base.WorkflowID)
	assert.False(t, base.Timestamp.IsZero())
	assert.NotNil(t, base.Metadata)
}

func TestEdgeRejected_JSON(t *testing.T) {
	event := EdgeRejected{
		BaseEvent:    NewBaseEvent(EdgeRejectedEvent, "wf-1"),
		SourceNodeID: "a",
		SourcePortID: "output",
		TargetNodeID: "b",
		TargetPortID: "in",
		Reason:       "kind_mismatch",
		Message:      "cannot connect",
	}

	data, err := json.Marshal(event)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"type":"edge.rejected"`)
	assert.Contains(t, string(data), `"reason":"kind_mismatch"`)

	var decoded EdgeRejected
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, event.Reason, decoded.Reason)
	assert.Equal(t, event.WorkflowID, decoded.WorkflowID)
}
