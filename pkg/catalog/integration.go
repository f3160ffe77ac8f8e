package catalog

import "github.com/dukex/flowcanvas/pkg/models"

func integrationPorts(kind models.IntegrationKind) ([]models.Port, []models.Port) {
	inputs, outputs := standardPorts()

	switch kind.Type {
	case models.IntegrationHTTP:
		outputs = append(outputs, out("status", models.PortKindData, "Status"))
	case models.IntegrationEmail:
		inputs = append(inputs, in("recipients", models.PortKindData, "Recipients"))
	case models.IntegrationDatabase:
		inputs = append(inputs, in("query", models.PortKindData, "Query"))
	case models.IntegrationSlack, models.IntegrationStorage:
	default:
		panic(misuse(kind))
	}

	// Every integration can fail on the remote side.
	outputs = append(outputs, out("error", models.PortKindTrigger, "Error"))

	return inputs, outputs
}

func integrationMetadata(kind models.IntegrationKind) Metadata {
	switch kind.Type {
	case models.IntegrationHTTP:
		return Metadata{Label: "HTTP Request", Description: "Call an HTTP API", Icon: "globe"}
	case models.IntegrationEmail:
		return Metadata{Label: "Email", Description: "Send an email", Icon: "mail"}
	case models.IntegrationSlack:
		return Metadata{Label: "Slack", Description: "Post a message to a Slack channel", Icon: "slack"}
	case models.IntegrationDatabase:
		return Metadata{Label: "Database", Description: "Run a database query", Icon: "database"}
	case models.IntegrationStorage:
		return Metadata{Label: "Storage", Description: "Read or write a file in object storage", Icon: "folder"}
	default:
		panic(misuse(kind))
	}
}

func integrationConfig(kind models.IntegrationKind) models.NodeConfig {
	switch kind.Type {
	case models.IntegrationHTTP:
		return &models.IntegrationConfig{Platform: "http", Operation: "GET"}
	case models.IntegrationEmail:
		return &models.IntegrationConfig{Platform: "smtp", Operation: "send"}
	case models.IntegrationSlack:
		return &models.IntegrationConfig{Platform: "slack", Operation: "post_message"}
	case models.IntegrationDatabase:
		return &models.IntegrationConfig{Platform: "postgres", Operation: "query"}
	case models.IntegrationStorage:
		return &models.IntegrationConfig{Platform: "s3", Operation: "put"}
	default:
		panic(misuse(kind))
	}
}
