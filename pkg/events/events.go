// Package events defines the notifications a workflow canvas subscribes to.
package events

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

// Topic carries every canvas event.
const Topic = "flowcanvas.events"

const EventMetadataKey = "key"
const EventTypeMetadataKey = "event_type"

const (
	// Graph mutations.
	NodeAddedEvent        EventType = "node.added"
	NodeRemovedEvent      EventType = "node.removed"
	NodeUpdatedEvent      EventType = "node.updated"
	EdgeAddedEvent        EventType = "edge.added"
	EdgeRemovedEvent      EventType = "edge.removed"
	EdgeRejectedEvent     EventType = "edge.rejected"
	SelectionChangedEvent EventType = "selection.changed"

	// Workflow lifecycle.
	WorkflowValidatedEvent    EventType = "workflow.validated"
	WorkflowSavedEvent        EventType = "workflow.saved"
	WorkflowRunRequestedEvent EventType = "workflow.run_requested"
)

// NodeChange names the part of a node an update touched.
type NodeChange string

const (
	NodeMoved         NodeChange = "moved"
	NodeRenamed       NodeChange = "renamed"
	NodeConfigUpdated NodeChange = "config"
)

type BaseEvent struct {
	ID         string         `json:"id"`
	Type       EventType      `json:"type"`
	Timestamp  time.Time      `json:"timestamp"`
	WorkflowID string         `json:"workflow_id"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

type NodeAdded struct {
	BaseEvent

	NodeID   string `json:"node_id"`
	Category string `json:"category"`
	Subtype  string `json:"subtype"`
	Label    string `json:"label"`
}

func (n NodeAdded) GetType() EventType {
	return NodeAddedEvent
}

// NodeRemoved lists the edges that went with the node.
type NodeRemoved struct {
	BaseEvent

	NodeID         string   `json:"node_id"`
	RemovedEdgeIDs []string `json:"removed_edge_ids,omitempty"`
}

func (n NodeRemoved) GetType() EventType {
	return NodeRemovedEvent
}

type NodeUpdated struct {
	BaseEvent

	NodeID string     `json:"node_id"`
	Change NodeChange `json:"change"`
}

func (n NodeUpdated) GetType() EventType {
	return NodeUpdatedEvent
}

type EdgeAdded struct {
	BaseEvent

	EdgeID       string `json:"edge_id"`
	SourceNodeID string `json:"source_node_id"`
	SourcePortID string `json:"source_port_id"`
	TargetNodeID string `json:"target_node_id"`
	TargetPortID string `json:"target_port_id"`
}

func (e EdgeAdded) GetType() EventType {
	return EdgeAddedEvent
}

type EdgeRemoved struct {
	BaseEvent

	EdgeID string `json:"edge_id"`
}

func (e EdgeRemoved) GetType() EventType {
	return EdgeRemovedEvent
}

// EdgeRejected lets the canvas explain why a drag did not produce an edge.
type EdgeRejected struct {
	BaseEvent

	SourceNodeID string `json:"source_node_id"`
	SourcePortID string `json:"source_port_id"`
	TargetNodeID string `json:"target_node_id"`
	TargetPortID string `json:"target_port_id"`
	Reason       string `json:"reason"`
	Message      string `json:"message"`
}

func (e EdgeRejected) GetType() EventType {
	return EdgeRejectedEvent
}

type SelectionChanged struct {
	BaseEvent

	NodeID string `json:"node_id,omitempty"`
	EdgeID string `json:"edge_id,omitempty"`
}

func (s SelectionChanged) GetType() EventType {
	return SelectionChangedEvent
}

type WorkflowValidated struct {
	BaseEvent

	ProblemCount int      `json:"problem_count"`
	Codes        []string `json:"codes,omitempty"`
	Blocking     bool     `json:"blocking"`
}

func (w WorkflowValidated) GetType() EventType {
	return WorkflowValidatedEvent
}

type WorkflowSaved struct {
	BaseEvent

	NodeCount    int `json:"node_count"`
	EdgeCount    int `json:"edge_count"`
	ProblemCount int `json:"problem_count"`
}

func (w WorkflowSaved) GetType() EventType {
	return WorkflowSavedEvent
}

// WorkflowRunRequested records that a valid workflow was handed off for
// execution. Nothing in this module executes it.
type WorkflowRunRequested struct {
	BaseEvent

	RunID     string `json:"run_id"`
	NodeCount int    `json:"node_count"`
	EdgeCount int    `json:"edge_count"`
}

func (w WorkflowRunRequested) GetType() EventType {
	return WorkflowRunRequestedEvent
}

// New returns an empty event of the given type for decoding, or false when
// the type is unknown.
func New(eventType EventType) (any, bool) {
	switch eventType {
	case NodeAddedEvent:
		return &NodeAdded{}, true
	case NodeRemovedEvent:
		return &NodeRemoved{}, true
	case NodeUpdatedEvent:
		return &NodeUpdated{}, true
	case EdgeAddedEvent:
		return &EdgeAdded{}, true
	case EdgeRemovedEvent:
		return &EdgeRemoved{}, true
	case EdgeRejectedEvent:
		return &EdgeRejected{}, true
	case SelectionChangedEvent:
		return &SelectionChanged{}, true
	case WorkflowValidatedEvent:
		return &WorkflowValidated{}, true
	case WorkflowSavedEvent:
		return &WorkflowSaved{}, true
	case WorkflowRunRequestedEvent:
		return &WorkflowRunRequested{}, true
	default:
		return nil, false
	}
}

func NewBaseEvent(eventType EventType, workflowID string) BaseEvent {
	return BaseEvent{
		ID:         uuid.New().String(),
		Type:       eventType,
		Timestamp:  time.Now().UTC(),
		WorkflowID: workflowID,
		Metadata:   make(map[string]any),
	}
}
