// Package web provides HTTP request and response types for the workflow API.
package web

import (
	"github.com/dukex/flowcanvas/pkg/models"
	"github.com/dukex/flowcanvas/pkg/validation"
)

// CreateWorkflowRequest represents the request body for creating a new workflow.
type CreateWorkflowRequest struct {
	Name string `json:"name" validate:"required,min=1,max=200"`
}

// AddNodeRequest represents the request body for dropping a palette entry on the canvas.
type AddNodeRequest struct {
	Category    string          `json:"category"              validate:"required"`
	Subtype     string          `json:"subtype"               validate:"required"`
	Cases       int             `json:"cases,omitempty"       validate:"omitempty,min=2,max=32"`
	Label       string          `json:"label,omitempty"       validate:"omitempty,max=120"`
	Description string          `json:"description,omitempty" validate:"omitempty,max=500"`
	Icon        string          `json:"icon,omitempty"        validate:"omitempty,max=64"`
	Position    models.Position `json:"position"`
	Config      map[string]any  `json:"config,omitempty"`
}

// UpdateNodeRequest represents the request body for updating a node.
// All fields are optional to support partial updates.
type UpdateNodeRequest struct {
	Position *models.Position `json:"position,omitempty"`
	Label    *string          `json:"label,omitempty"    validate:"omitempty,max=120"`
	Config   map[string]any   `json:"config,omitempty"`
}

// AddEdgeRequest represents the request body for connecting two ports.
type AddEdgeRequest struct {
	SourceNodeID   string `json:"source_node_id"            validate:"required"`
	SourcePortID   string `json:"source_port_id"            validate:"required"`
	TargetNodeID   string `json:"target_node_id"            validate:"required"`
	TargetPortID   string `json:"target_port_id"            validate:"required"`
	ConnectionType string `json:"connection_type,omitempty"`
}

// SelectRequest represents the request body for changing the selection.
// An empty body clears it.
type SelectRequest struct {
	NodeID string `json:"node_id,omitempty" validate:"excluded_with=EdgeID"`
	EdgeID string `json:"edge_id,omitempty"`
}

// NodeResponse wraps a node together with the edges removed alongside it.
type NodeResponse struct {
	Node           *models.NodeRecord `json:"node,omitempty"`
	RemovedEdgeIDs []string           `json:"removed_edge_ids,omitempty"`
}

// ValidationResponse reports the outcome of a validation pass.
type ValidationResponse struct {
	Valid    bool                 `json:"valid"`
	Problems []validation.Problem `json:"problems"`
}
