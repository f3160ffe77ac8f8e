package catalog

import (
	"strconv"

	"github.com/dukex/flowcanvas/pkg/models"
)

// DefaultLoopIterations bounds a loop node unless the user overrides it.
const DefaultLoopIterations = 100

func logicPorts(kind models.LogicKind) ([]models.Port, []models.Port) {
	switch kind.Type {
	case models.LogicCondition:
		return []models.Port{
				in("in", models.PortKindTrigger, "In"),
				in("value", models.PortKindData, "Value"),
			}, []models.Port{
				out("true", models.PortKindTrigger, "True"),
				out("false", models.PortKindTrigger, "False"),
			}

	case models.LogicSwitch:
		cases := kind.SwitchCases()

		outputs := make([]models.Port, 0, cases+1)
		for i := 1; i <= cases; i++ {
			n := strconv.Itoa(i)
			outputs = append(outputs, out("case-"+n, models.PortKindTrigger, "Case "+n))
		}

		outputs = append(outputs, out("default", models.PortKindTrigger, "Default"))

		return []models.Port{
			in("in", models.PortKindTrigger, "In"),
			in("value", models.PortKindData, "Value"),
		}, outputs

	case models.LogicDelay:
		return []models.Port{
				in("in", models.PortKindTrigger, "In"),
				in("data", models.PortKindData, "Data"),
			}, []models.Port{
				out("out", models.PortKindTrigger, "Out"),
				out("data", models.PortKindData, "Data"),
			}

	case models.LogicLoop:
		return []models.Port{
				in("in", models.PortKindTrigger, "In"),
				in("items", models.PortKindData, "Items"),
			}, []models.Port{
				out("item", models.PortKindTrigger, "Each Item"),
				out("complete", models.PortKindTrigger, "Complete"),
			}

	case models.LogicParallel:
		return []models.Port{
				in("in", models.PortKindControl, "In"),
			}, []models.Port{
				out("branch-1", models.PortKindControl, "Branch 1"),
				out("branch-2", models.PortKindControl, "Branch 2"),
			}

	default:
		panic(misuse(kind))
	}
}

func logicMetadata(kind models.LogicKind) Metadata {
	switch kind.Type {
	case models.LogicCondition:
		return Metadata{Label: "Condition", Description: "Branch on a true/false expression", Icon: "git-branch"}
	case models.LogicSwitch:
		return Metadata{Label: "Switch", Description: "Route to one of several cases", Icon: "split"}
	case models.LogicDelay:
		return Metadata{Label: "Delay", Description: "Wait before continuing", Icon: "hourglass"}
	case models.LogicLoop:
		return Metadata{Label: "Loop", Description: "Repeat for every item of a list", Icon: "repeat"}
	case models.LogicParallel:
		return Metadata{Label: "Parallel", Description: "Run branches at the same time", Icon: "columns"}
	default:
		panic(misuse(kind))
	}
}

func logicConfig(kind models.LogicKind) models.NodeConfig {
	switch kind.Type {
	case models.LogicCondition, models.LogicSwitch, models.LogicParallel:
		return &models.LogicConfig{}
	case models.LogicDelay:
		return &models.LogicConfig{DelaySeconds: 60}
	case models.LogicLoop:
		return &models.LogicConfig{MaxIterations: DefaultLoopIterations}
	default:
		panic(misuse(kind))
	}
}
