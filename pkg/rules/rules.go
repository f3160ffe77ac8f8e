// Package rules decides whether two ports may be joined by an edge.
package rules

import (
	"errors"
	"fmt"

	"github.com/dukex/flowcanvas/pkg/models"
)

// ErrConnectionRejected matches every *Rejection through errors.Is.
var ErrConnectionRejected = errors.New("connection rejected")

// Reason classifies why a connection was refused.
type Reason string

const (
	ReasonSelfLoop          Reason = "self_loop"
	ReasonUnknownSourcePort Reason = "unknown_source_port"
	ReasonUnknownTargetPort Reason = "unknown_target_port"
	ReasonKindMismatch      Reason = "kind_mismatch"
	ReasonNodeNotFound      Reason = "node_not_found"
	ReasonDuplicateEdge     Reason = "duplicate_edge"
)

// Rejection explains a refused connection in terms the user can act on.
type Rejection struct {
	Reason       Reason `json:"reason"`
	Message      string `json:"message"`
	SourceNodeID string `json:"source_node_id"`
	SourcePortID string `json:"source_port_id"`
	TargetNodeID string `json:"target_node_id"`
	TargetPortID string `json:"target_port_id"`
}

func (r *Rejection) Error() string {
	return r.Message
}

func (r *Rejection) Is(target error) bool {
	return target == ErrConnectionRejected
}

// IsRejection checks if an error is a refused connection and returns it.
func IsRejection(err error) (*Rejection, bool) {
	var rejection *Rejection
	if errors.As(err, &rejection) {
		return rejection, true
	}

	return nil, false
}

// Endpoint is one side of a candidate edge.
type Endpoint struct {
	Node   *models.NodeInstance
	PortID string
}

// KindsCompatible reports whether a source port of kind source may feed a
// target port of kind target. Equal kinds match and Control matches anything.
func KindsCompatible(source, target models.PortKind) bool {
	if source == target {
		return true
	}

	return source == models.PortKindControl || target == models.PortKindControl
}

// Check runs the connection rules in order and returns the first rule that
// refuses the connection, or nil when it is legal. The source must be an
// output port and the target an input port, so swapping the two sides can
// change the outcome.
func Check(source, target Endpoint) *Rejection {
	rejection := func(reason Reason, format string, args ...any) *Rejection {
		return &Rejection{
			Reason:       reason,
			Message:      fmt.Sprintf(format, args...),
			SourceNodeID: source.Node.ID,
			SourcePortID: source.PortID,
			TargetNodeID: target.Node.ID,
			TargetPortID: target.PortID,
		}
	}

	if source.Node.ID == target.Node.ID {
		return rejection(ReasonSelfLoop, "cannot connect %q to itself", source.Node.Label)
	}

	sourcePort, ok := source.Node.OutputPort(source.PortID)
	if !ok {
		return rejection(ReasonUnknownSourcePort,
			"%q has no output port %q", source.Node.Label, source.PortID)
	}

	targetPort, ok := target.Node.InputPort(target.PortID)
	if !ok {
		return rejection(ReasonUnknownTargetPort,
			"%q has no input port %q", target.Node.Label, target.PortID)
	}

	if !KindsCompatible(sourcePort.Kind, targetPort.Kind) {
		return rejection(ReasonKindMismatch,
			"cannot connect %s output %q of %q to %s input %q of %q",
			sourcePort.Kind, portName(sourcePort), source.Node.Label,
			targetPort.Kind, portName(targetPort), target.Node.Label)
	}

	return nil
}

// IsCompatible reports whether an edge from source to target is legal.
func IsCompatible(source, target Endpoint) bool {
	return Check(source, target) == nil
}

func portName(port models.Port) string {
	if port.Label != "" {
		return port.Label
	}

	return port.ID
}
