package catalog

import "github.com/dukex/flowcanvas/pkg/models"

// DefaultScheduleCron fires at the top of every hour.
const DefaultScheduleCron = "0 * * * *"

func triggerPorts(kind models.TriggerKind) ([]models.Port, []models.Port) {
	outputs := []models.Port{
		out("trigger", models.PortKindTrigger, "Trigger"),
		out("data", models.PortKindData, "Data"),
	}

	switch kind.Type {
	case models.TriggerSchedule:
		outputs = append(outputs, out("timestamp", models.PortKindData, "Timestamp"))
	case models.TriggerWebhook:
		outputs = append(outputs,
			out("payload", models.PortKindData, "Payload"),
			out("headers", models.PortKindData, "Headers"),
		)
	case models.TriggerForm:
		outputs = append(outputs, out("fields", models.PortKindData, "Fields"))
	case models.TriggerEvent:
		outputs = append(outputs, out("event", models.PortKindData, "Event"))
	case models.TriggerManual:
	default:
		panic(misuse(kind))
	}

	return []models.Port{}, outputs
}

func triggerMetadata(kind models.TriggerKind) Metadata {
	switch kind.Type {
	case models.TriggerSchedule:
		return Metadata{Label: "Schedule", Description: "Start the workflow on a cron schedule", Icon: "clock"}
	case models.TriggerWebhook:
		return Metadata{Label: "Webhook", Description: "Start the workflow when an HTTP request arrives", Icon: "webhook"}
	case models.TriggerForm:
		return Metadata{Label: "Form Submission", Description: "Start the workflow when a form is submitted", Icon: "form"}
	case models.TriggerEvent:
		return Metadata{Label: "Event", Description: "Start the workflow when a named event is emitted", Icon: "bolt"}
	case models.TriggerManual:
		return Metadata{Label: "Manual", Description: "Start the workflow by hand", Icon: "play"}
	default:
		panic(misuse(kind))
	}
}

func triggerConfig(kind models.TriggerKind) models.NodeConfig {
	switch kind.Type {
	case models.TriggerSchedule:
		return &models.TriggerConfig{Cron: DefaultScheduleCron}
	case models.TriggerWebhook:
		return &models.TriggerConfig{Path: "/hooks/incoming", Method: "POST"}
	case models.TriggerForm, models.TriggerEvent, models.TriggerManual:
		return &models.TriggerConfig{}
	default:
		panic(misuse(kind))
	}
}
