package validation

import (
	"fmt"

	"github.com/dukex/flowcanvas/pkg/models"
	"github.com/dukex/flowcanvas/pkg/rules"
	"github.com/go-playground/validator/v10"
	"github.com/robfig/cron/v3"
)

// Graph is the read-only view of a workflow the validator needs.
type Graph interface {
	Nodes() []*models.NodeInstance
	Edges() []*models.Edge
}

// Policy switches individual checks on and off.
type Policy struct {
	// AllowMultipleTriggers accepts workflows with several independent entry points.
	AllowMultipleTriggers bool
	// RequireOutput reports workflows without an output node.
	RequireOutput bool
	// CheckConfig validates node configuration values.
	CheckConfig bool
}

// DefaultPolicy allows a single trigger and runs every check.
func DefaultPolicy() Policy {
	return Policy{
		AllowMultipleTriggers: false,
		RequireOutput:         true,
		CheckConfig:           true,
	}
}

// Validator runs the structural checks over a graph.
type Validator struct {
	policy   Policy
	validate *validator.Validate
	cron     cron.Parser
}

// New creates a validator with the given policy.
func New(policy Policy) *Validator {
	return &Validator{
		policy:   policy,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		cron:     cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor),
	}
}

// Policy returns the policy the validator was built with.
func (v *Validator) Policy() Policy {
	return v.policy
}

// Validate returns every problem found in the graph, or nil when the graph
// is ready to run. All checks run on every call; only an empty graph stops
// early because nothing else is meaningful then.
func (v *Validator) Validate(graph Graph) []Problem {
	nodes := graph.Nodes()
	edges := graph.Edges()

	if len(nodes) == 0 {
		return []Problem{{
			Code:     CodeEmptyWorkflow,
			Severity: SeverityError,
			Message:  "workflow is empty",
		}}
	}

	nodes, invalid, problems := checkNodes(nodes)

	index := make(map[string]*models.NodeInstance, len(nodes))
	for _, node := range nodes {
		index[node.ID] = node
	}

	problems = append(problems, v.checkTriggers(nodes)...)

	if v.policy.RequireOutput {
		problems = append(problems, checkOutput(nodes)...)
	}

	problems = append(problems, checkConnectivity(nodes, edges)...)
	problems = append(problems, checkEdges(index, edges, invalid)...)

	if v.policy.CheckConfig {
		problems = append(problems, v.checkConfig(nodes)...)
	}

	return problems
}

// checkNodes reports nodes without a kind and returns the nodes the other
// checks can work on, plus the IDs of the ones left out.
func checkNodes(nodes []*models.NodeInstance) ([]*models.NodeInstance, map[string]bool, []Problem) {
	valid := make([]*models.NodeInstance, 0, len(nodes))
	invalid := make(map[string]bool)

	var problems []Problem

	for i, node := range nodes {
		switch {
		case node == nil:
			problems = append(problems, Problem{
				Code:     CodeInvalidNode,
				Severity: SeverityError,
				Message:  fmt.Sprintf("node #%d is empty", i),
			})
		case node.Kind == nil:
			invalid[node.ID] = true
			problems = append(problems, Problem{
				Code:     CodeInvalidNode,
				Severity: SeverityError,
				Message:  fmt.Sprintf("node %q has no kind", node.Label),
				NodeID:   node.ID,
			})
		default:
			valid = append(valid, node)
		}
	}

	return valid, invalid, problems
}

func (v *Validator) checkTriggers(nodes []*models.NodeInstance) []Problem {
	triggers := 0

	for _, node := range nodes {
		if node.IsTrigger() {
			triggers++
		}
	}

	switch {
	case triggers == 0:
		return []Problem{{
			Code:     CodeNoTrigger,
			Severity: SeverityError,
			Message:  "workflow must have at least one trigger",
		}}
	case triggers > 1 && !v.policy.AllowMultipleTriggers:
		return []Problem{{
			Code:     CodeMultipleTriggers,
			Severity: SeverityError,
			Message:  fmt.Sprintf("workflow should have only one trigger node, found %d", triggers),
		}}
	default:
		return nil
	}
}

func checkOutput(nodes []*models.NodeInstance) []Problem {
	for _, node := range nodes {
		if node.IsOutput() {
			return nil
		}
	}

	return []Problem{{
		Code:     CodeNoOutput,
		Severity: SeverityWarning,
		Message:  "workflow has no output node, so it produces nothing observable",
	}}
}

// checkConnectivity reports every node no edge touches. Triggers have no
// inputs, so for them this is the same as having no outbound edge.
func checkConnectivity(nodes []*models.NodeInstance, edges []*models.Edge) []Problem {
	touched := make(map[string]bool, len(nodes))

	for _, edge := range edges {
		if edge == nil {
			continue
		}

		touched[edge.SourceNodeID] = true
		touched[edge.TargetNodeID] = true
	}

	var problems []Problem

	for _, node := range nodes {
		if touched[node.ID] {
			continue
		}

		message := fmt.Sprintf("node %q is not connected to the workflow", node.Label)
		if node.IsTrigger() {
			message = fmt.Sprintf("trigger %q is not connected to any node", node.Label)
		}

		problems = append(problems, Problem{
			Code:     CodeDisconnectedNode,
			Severity: SeverityError,
			Message:  message,
			NodeID:   node.ID,
		})
	}

	return problems
}

// checkEdges applies the connection rules again to every stored edge.
// Edges touching a node already reported as invalid are skipped.
func checkEdges(index map[string]*models.NodeInstance, edges []*models.Edge, invalid map[string]bool) []Problem {
	var problems []Problem

	for _, edge := range edges {
		if edge == nil || invalid[edge.SourceNodeID] || invalid[edge.TargetNodeID] {
			continue
		}

		source, sourceOK := index[edge.SourceNodeID]
		target, targetOK := index[edge.TargetNodeID]

		if !sourceOK || !targetOK {
			missing := edge.SourceNodeID
			if sourceOK {
				missing = edge.TargetNodeID
			}

			problems = append(problems, Problem{
				Code:     CodeDanglingEdge,
				Severity: SeverityError,
				Message:  fmt.Sprintf("connection %q references missing node %q", edge.ID, missing),
				EdgeID:   edge.ID,
			})

			continue
		}

		rejection := rules.Check(
			rules.Endpoint{Node: source, PortID: edge.SourcePortID},
			rules.Endpoint{Node: target, PortID: edge.TargetPortID},
		)
		if rejection == nil {
			continue
		}

		problems = append(problems, Problem{
			Code:     CodeIncompatibleEdge,
			Severity: SeverityError,
			Message: fmt.Sprintf("connection from %q to %q is invalid: %s",
				source.Label, target.Label, rejection.Message),
			EdgeID: edge.ID,
		})
	}

	return problems
}

func (v *Validator) checkConfig(nodes []*models.NodeInstance) []Problem {
	var problems []Problem

	report := func(node *models.NodeInstance, detail string) {
		problems = append(problems, Problem{
			Code:     CodeInvalidNodeConfig,
			Severity: SeverityError,
			Message:  fmt.Sprintf("node %q has invalid configuration: %s", node.Label, detail),
			NodeID:   node.ID,
		})
	}

	for _, node := range nodes {
		if node.Config == nil {
			report(node, "configuration is missing")

			continue
		}

		if node.Config.Category() != node.Category() {
			report(node, fmt.Sprintf("%s configuration on a %s node", node.Config.Category(), node.Category()))

			continue
		}

		if err := v.validate.Struct(node.Config); err != nil {
			report(node, err.Error())

			continue
		}

		if kind, ok := node.Kind.(models.TriggerKind); ok && kind.Type == models.TriggerSchedule {
			config, _ := node.Config.(*models.TriggerConfig)
			if _, err := v.cron.Parse(config.Cron); err != nil {
				report(node, fmt.Sprintf("schedule %q is not a valid cron expression: %v", config.Cron, err))
			}
		}
	}

	return problems
}
