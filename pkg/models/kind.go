package models

import (
	"errors"
	"fmt"
)

// ErrUnknownNodeKind is returned when a category/subtype pair is not part of the catalog.
var ErrUnknownNodeKind = errors.New("unknown node kind")

// Category represents the family a node belongs to.
type Category string

const (
	CategoryAgent       Category = "agent"
	CategoryTrigger     Category = "trigger"
	CategoryLogic       Category = "logic"
	CategoryData        Category = "data"
	CategoryIntegration Category = "integration"
	CategoryOutput      Category = "output"
)

// Categories lists every category in palette order.
func Categories() []Category {
	return []Category{
		CategoryTrigger,
		CategoryAgent,
		CategoryLogic,
		CategoryData,
		CategoryIntegration,
		CategoryOutput,
	}
}

type AgentSubtype string

const (
	AgentResearcher AgentSubtype = "researcher"
	AgentWriter     AgentSubtype = "writer"
	AgentAnalyst    AgentSubtype = "analyst"
	AgentCoder      AgentSubtype = "coder"
	AgentReviewer   AgentSubtype = "reviewer"
	AgentCustom     AgentSubtype = "custom"
)

type TriggerSubtype string

const (
	TriggerSchedule TriggerSubtype = "schedule"
	TriggerWebhook  TriggerSubtype = "webhook"
	TriggerForm     TriggerSubtype = "form"
	TriggerEvent    TriggerSubtype = "event"
	TriggerManual   TriggerSubtype = "manual"
)

type LogicSubtype string

const (
	LogicCondition LogicSubtype = "condition"
	LogicSwitch    LogicSubtype = "switch"
	LogicDelay     LogicSubtype = "delay"
	LogicLoop      LogicSubtype = "loop"
	LogicParallel  LogicSubtype = "parallel"
)

type DataSubtype string

const (
	DataTransform DataSubtype = "transform"
	DataFilter    DataSubtype = "filter"
	DataMerge     DataSubtype = "merge"
	DataSplit     DataSubtype = "split"
	DataAggregate DataSubtype = "aggregate"
)

type IntegrationSubtype string

const (
	IntegrationHTTP     IntegrationSubtype = "http"
	IntegrationEmail    IntegrationSubtype = "email"
	IntegrationSlack    IntegrationSubtype = "slack"
	IntegrationDatabase IntegrationSubtype = "database"
	IntegrationStorage  IntegrationSubtype = "storage"
)

type OutputSubtype string

const (
	OutputResponse     OutputSubtype = "response"
	OutputNotification OutputSubtype = "notification"
	OutputReport       OutputSubtype = "report"
	OutputExport       OutputSubtype = "export"
	OutputLog          OutputSubtype = "log"
)

// MinSwitchCases is the smallest number of case outputs a switch node carries.
const MinSwitchCases = 2

// Kind is the closed set of node kinds. Every implementation lives in this
// file; code that switches on a Kind handles exactly these six variants.
type Kind interface {
	Category() Category
	Subtype() string
	isKind()
}

type AgentKind struct{ Type AgentSubtype }

type TriggerKind struct{ Type TriggerSubtype }

// LogicKind carries the case count used by switch nodes; other logic
// subtypes ignore it.
type LogicKind struct {
	Type  LogicSubtype
	Cases int
}

type DataKind struct{ Type DataSubtype }

type IntegrationKind struct{ Type IntegrationSubtype }

type OutputKind struct{ Type OutputSubtype }

func (AgentKind) Category() Category       { return CategoryAgent }
func (TriggerKind) Category() Category     { return CategoryTrigger }
func (LogicKind) Category() Category       { return CategoryLogic }
func (DataKind) Category() Category        { return CategoryData }
func (IntegrationKind) Category() Category { return CategoryIntegration }
func (OutputKind) Category() Category      { return CategoryOutput }

func (k AgentKind) Subtype() string       { return string(k.Type) }
func (k TriggerKind) Subtype() string     { return string(k.Type) }
func (k LogicKind) Subtype() string       { return string(k.Type) }
func (k DataKind) Subtype() string        { return string(k.Type) }
func (k IntegrationKind) Subtype() string { return string(k.Type) }
func (k OutputKind) Subtype() string      { return string(k.Type) }

func (AgentKind) isKind()       {}
func (TriggerKind) isKind()     {}
func (LogicKind) isKind()       {}
func (DataKind) isKind()        {}
func (IntegrationKind) isKind() {}
func (OutputKind) isKind()      {}

// SwitchCases returns the effective case count of a switch node.
func (k LogicKind) SwitchCases() int {
	if k.Cases < MinSwitchCases {
		return MinSwitchCases
	}

	return k.Cases
}

var subtypes = map[Category][]string{
	CategoryAgent: {
		string(AgentResearcher), string(AgentWriter), string(AgentAnalyst),
		string(AgentCoder), string(AgentReviewer), string(AgentCustom),
	},
	CategoryTrigger: {
		string(TriggerSchedule), string(TriggerWebhook), string(TriggerForm),
		string(TriggerEvent), string(TriggerManual),
	},
	CategoryLogic: {
		string(LogicCondition), string(LogicSwitch), string(LogicDelay),
		string(LogicLoop), string(LogicParallel),
	},
	CategoryData: {
		string(DataTransform), string(DataFilter), string(DataMerge),
		string(DataSplit), string(DataAggregate),
	},
	CategoryIntegration: {
		string(IntegrationHTTP), string(IntegrationEmail), string(IntegrationSlack),
		string(IntegrationDatabase), string(IntegrationStorage),
	},
	CategoryOutput: {
		string(OutputResponse), string(OutputNotification), string(OutputReport),
		string(OutputExport), string(OutputLog),
	},
}

// Subtypes returns the subtypes known for a category, in palette order.
func Subtypes(category Category) []string {
	return append([]string(nil), subtypes[category]...)
}

// ParseKind converts a category/subtype pair coming from outside the
// process into a Kind. It is the only place where strings become kinds.
func ParseKind(category, subtype string) (Kind, error) {
	known := false

	for _, s := range subtypes[Category(category)] {
		if s == subtype {
			known = true

			break
		}
	}

	if !known {
		return nil, fmt.Errorf("%w: %s/%s", ErrUnknownNodeKind, category, subtype)
	}

	switch Category(category) {
	case CategoryAgent:
		return AgentKind{Type: AgentSubtype(subtype)}, nil
	case CategoryTrigger:
		return TriggerKind{Type: TriggerSubtype(subtype)}, nil
	case CategoryLogic:
		kind := LogicKind{Type: LogicSubtype(subtype)}
		if kind.Type == LogicSwitch {
			kind.Cases = MinSwitchCases
		}

		return kind, nil
	case CategoryData:
		return DataKind{Type: DataSubtype(subtype)}, nil
	case CategoryIntegration:
		return IntegrationKind{Type: IntegrationSubtype(subtype)}, nil
	case CategoryOutput:
		return OutputKind{Type: OutputSubtype(subtype)}, nil
	}

	return nil, fmt.Errorf("%w: %s/%s", ErrUnknownNodeKind, category, subtype)
}

// KindString renders a kind as "category/subtype".
func KindString(kind Kind) string {
	return string(kind.Category()) + "/" + kind.Subtype()
}
