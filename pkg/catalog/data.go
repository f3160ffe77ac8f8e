package catalog

import "github.com/dukex/flowcanvas/pkg/models"

func dataPorts(kind models.DataKind) ([]models.Port, []models.Port) {
	inputs, outputs := standardPorts()

	switch kind.Type {
	case models.DataTransform, models.DataAggregate:
	case models.DataFilter:
		outputs = []models.Port{
			out("out", models.PortKindTrigger, "Out"),
			out("match", models.PortKindData, "Match"),
			out("no-match", models.PortKindData, "No Match"),
		}
	case models.DataMerge:
		inputs = append(inputs, in("other", models.PortKindData, "Other"))
	case models.DataSplit:
		outputs = []models.Port{
			out("out", models.PortKindTrigger, "Out"),
			out("items", models.PortKindData, "Items"),
		}
	default:
		panic(misuse(kind))
	}

	return inputs, outputs
}

func dataMetadata(kind models.DataKind) Metadata {
	switch kind.Type {
	case models.DataTransform:
		return Metadata{Label: "Transform", Description: "Reshape data with an expression", Icon: "shuffle"}
	case models.DataFilter:
		return Metadata{Label: "Filter", Description: "Split records into matches and non-matches", Icon: "filter"}
	case models.DataMerge:
		return Metadata{Label: "Merge", Description: "Combine two data streams", Icon: "merge"}
	case models.DataSplit:
		return Metadata{Label: "Split", Description: "Break a list into items", Icon: "scissors"}
	case models.DataAggregate:
		return Metadata{Label: "Aggregate", Description: "Summarize many records into one", Icon: "sigma"}
	default:
		panic(misuse(kind))
	}
}

func dataConfig(kind models.DataKind) models.NodeConfig {
	switch kind.Type {
	case models.DataTransform, models.DataFilter, models.DataSplit:
		return &models.DataConfig{}
	case models.DataMerge, models.DataAggregate:
		return &models.DataConfig{Key: "id"}
	default:
		panic(misuse(kind))
	}
}
