package catalog

import "github.com/dukex/flowcanvas/pkg/models"

func outputPorts(kind models.OutputKind) ([]models.Port, []models.Port) {
	inputs, outputs := standardPorts()

	switch kind.Type {
	case models.OutputResponse, models.OutputNotification, models.OutputLog:
	case models.OutputReport:
		outputs = append(outputs, out("document", models.PortKindData, "Document"))
	case models.OutputExport:
		outputs = append(outputs, out("location", models.PortKindData, "Location"))
	default:
		panic(misuse(kind))
	}

	return inputs, outputs
}

func outputMetadata(kind models.OutputKind) Metadata {
	switch kind.Type {
	case models.OutputResponse:
		return Metadata{Label: "Response", Description: "Return the result to the caller", Icon: "reply"}
	case models.OutputNotification:
		return Metadata{Label: "Notification", Description: "Notify a user with the result", Icon: "bell"}
	case models.OutputReport:
		return Metadata{Label: "Report", Description: "Render the result as a report", Icon: "file-text"}
	case models.OutputExport:
		return Metadata{Label: "Export", Description: "Export the result to a file", Icon: "download"}
	case models.OutputLog:
		return Metadata{Label: "Log", Description: "Write the result to the workflow log", Icon: "list"}
	default:
		panic(misuse(kind))
	}
}

func outputConfig(kind models.OutputKind) models.NodeConfig {
	switch kind.Type {
	case models.OutputResponse, models.OutputNotification, models.OutputLog:
		return &models.OutputConfig{Format: "json"}
	case models.OutputReport:
		return &models.OutputConfig{Format: "markdown"}
	case models.OutputExport:
		return &models.OutputConfig{Format: "csv"}
	default:
		panic(misuse(kind))
	}
}
