package catalog

import "github.com/dukex/flowcanvas/pkg/models"

// Agents all share one shape; the handoff port lets an agent pass control
// to a collaborator regardless of what that collaborator expects.
func agentPorts(kind models.AgentKind) ([]models.Port, []models.Port) {
	switch kind.Type {
	case models.AgentResearcher, models.AgentWriter, models.AgentAnalyst,
		models.AgentCoder, models.AgentReviewer, models.AgentCustom:
	default:
		panic(misuse(kind))
	}

	return []models.Port{
			in("in", models.PortKindTrigger, "In"),
			in("context", models.PortKindData, "Context"),
		}, []models.Port{
			out("done", models.PortKindTrigger, "Done"),
			out("output", models.PortKindData, "Output"),
			out("handoff", models.PortKindControl, "Handoff"),
		}
}

func agentMetadata(kind models.AgentKind) Metadata {
	switch kind.Type {
	case models.AgentResearcher:
		return Metadata{Label: "Researcher", Description: "Gathers and summarizes information", Icon: "search"}
	case models.AgentWriter:
		return Metadata{Label: "Writer", Description: "Drafts text from the provided context", Icon: "pen"}
	case models.AgentAnalyst:
		return Metadata{Label: "Analyst", Description: "Analyzes data and reports findings", Icon: "chart"}
	case models.AgentCoder:
		return Metadata{Label: "Coder", Description: "Writes and reviews code", Icon: "code"}
	case models.AgentReviewer:
		return Metadata{Label: "Reviewer", Description: "Reviews work and approves or requests changes", Icon: "check"}
	case models.AgentCustom:
		return Metadata{Label: "Custom Agent", Description: "Agent with user-defined instructions", Icon: "robot"}
	default:
		panic(misuse(kind))
	}
}

func agentConfig(kind models.AgentKind) models.NodeConfig {
	meta := agentMetadata(kind)

	return &models.AgentConfig{Instructions: meta.Description}
}
