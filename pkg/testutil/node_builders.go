// Package testutil provides test data builders and utilities for testing.
package testutil

import (
	"fmt"
	"sync/atomic"

	"github.com/dukex/flowcanvas/pkg/catalog"
	"github.com/dukex/flowcanvas/pkg/models"
	"github.com/google/uuid"
)

// CreateTestNode creates a NodeInstance of the given kind with catalog ports,
// metadata and default config that can be overridden.
func CreateTestNode(kind models.Kind, overrides ...func(*models.NodeInstance)) *models.NodeInstance {
	meta := catalog.MetadataFor(kind)
	inputs, outputs := catalog.PortsFor(kind)

	node := &models.NodeInstance{
		ID:          uuid.New().String(),
		Kind:        kind,
		Label:       meta.Label,
		Description: meta.Description,
		Icon:        meta.Icon,
		Inputs:      inputs,
		Outputs:     outputs,
		Position:    models.Position{X: 100, Y: 200},
		Config:      catalog.DefaultConfig(kind),
	}

	for _, override := range overrides {
		override(node)
	}

	return node
}

// WithID sets the node ID.
func WithID(id string) func(*models.NodeInstance) {
	return func(n *models.NodeInstance) {
		n.ID = id
	}
}

// WithLabel sets the node label.
func WithLabel(label string) func(*models.NodeInstance) {
	return func(n *models.NodeInstance) {
		n.Label = label
	}
}

// WithConfig sets the node configuration.
func WithConfig(config models.NodeConfig) func(*models.NodeInstance) {
	return func(n *models.NodeInstance) {
		n.Config = config
	}
}

// WithPosition sets the canvas position.
func WithPosition(x, y float64) func(*models.NodeInstance) {
	return func(n *models.NodeInstance) {
		n.Position = models.Position{X: x, Y: y}
	}
}

// CreateTestEdge creates an edge between two node ports.
func CreateTestEdge(source *models.NodeInstance, sourcePort string, target *models.NodeInstance, targetPort string) *models.Edge {
	return &models.Edge{
		ID:             uuid.New().String(),
		SourceNodeID:   source.ID,
		SourcePortID:   sourcePort,
		TargetNodeID:   target.ID,
		TargetPortID:   targetPort,
		ConnectionType: models.ConnectionDefault,
	}
}

// SequentialIDs returns an ID generator producing prefix-1, prefix-2, ...
// It is safe for concurrent use.
func SequentialIDs(prefix string) func() string {
	var n atomic.Int64

	return func() string {
		return fmt.Sprintf("%s-%d", prefix, n.Add(1))
	}
}

// Common kinds used across tests.
var (
	ManualTrigger   models.Kind = models.TriggerKind{Type: models.TriggerManual}
	ScheduleTrigger models.Kind = models.TriggerKind{Type: models.TriggerSchedule}
	WebhookTrigger  models.Kind = models.TriggerKind{Type: models.TriggerWebhook}
	Researcher      models.Kind = models.AgentKind{Type: models.AgentResearcher}
	Writer          models.Kind = models.AgentKind{Type: models.AgentWriter}
	Condition       models.Kind = models.LogicKind{Type: models.LogicCondition}
	Parallel        models.Kind = models.LogicKind{Type: models.LogicParallel}
	Transform       models.Kind = models.DataKind{Type: models.DataTransform}
	HTTPRequest     models.Kind = models.IntegrationKind{Type: models.IntegrationHTTP}
	Response        models.Kind = models.OutputKind{Type: models.OutputResponse}
)
