// Package validation checks a whole workflow graph before it is saved or run.
package validation

import "fmt"

// Severity tells whether a problem is a hard error or advice.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Code identifies the check that produced a problem.
type Code string

const (
	CodeEmptyWorkflow     Code = "empty_workflow"
	CodeNoTrigger         Code = "no_trigger"
	CodeMultipleTriggers  Code = "multiple_triggers"
	CodeNoOutput          Code = "no_output"
	CodeDisconnectedNode  Code = "disconnected_node"
	CodeIncompatibleEdge  Code = "incompatible_edge"
	CodeDanglingEdge      Code = "dangling_edge"
	CodeInvalidNodeConfig Code = "invalid_node_config"
	CodeInvalidNode       Code = "invalid_node"
)

// Problem is one finding of a validation pass.
type Problem struct {
	Code     Code     `json:"code"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	NodeID   string   `json:"node_id,omitempty"`
	EdgeID   string   `json:"edge_id,omitempty"`
}

func (p Problem) String() string {
	return fmt.Sprintf("[%s] %s: %s", p.Severity, p.Code, p.Message)
}

// Blocking reports whether a run must be refused. Any problem blocks a run;
// saving a draft is allowed regardless.
func Blocking(problems []Problem) bool {
	return len(problems) > 0
}

// HasErrors reports whether any problem has error severity.
func HasErrors(problems []Problem) bool {
	for _, problem := range problems {
		if problem.Severity == SeverityError {
			return true
		}
	}

	return false
}

// Messages returns the human-readable text of every problem.
func Messages(problems []Problem) []string {
	messages := make([]string, 0, len(problems))
	for _, problem := range problems {
		messages = append(messages, problem.Message)
	}

	return messages
}
