package models_test

import (
	"testing"

	"github.com/dukex/flowcanvas/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func switchNode() *models.NodeInstance {
	return &models.NodeInstance{
		ID:      "n-1",
		Kind:    models.LogicKind{Type: models.LogicSwitch, Cases: 3},
		Label:   "Route",
		Inputs:  []models.Port{models.NewInputPort("in", models.PortKindTrigger, "In")},
		Outputs: []models.Port{models.NewOutputPort("case-1", models.PortKindTrigger, "Case 1")},
		Config:  &models.LogicConfig{Expression: "x"},
	}
}

func TestNodeRecord_RoundTrip(t *testing.T) {
	node := switchNode()

	record, err := models.NewNodeRecord(node)
	require.NoError(t, err)
	assert.Equal(t, "logic", record.Category)
	assert.Equal(t, "switch", record.Subtype)
	assert.Equal(t, 3, record.Cases)
	assert.Equal(t, map[string]any{"expression": "x"}, record.Config)

	restored, err := record.Instance()
	require.NoError(t, err)
	assert.Equal(t, node, restored)
}

func TestNodeRecord_Instance_UnknownKind(t *testing.T) {
	record := &models.NodeRecord{ID: "n-1", Category: "agent", Subtype: "painter", Label: "x"}

	_, err := record.Instance()
	require.ErrorIs(t, err, models.ErrUnknownNodeKind)
}

func TestDecodeSnapshot(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr bool
	}{
		{
			name: "minimal",
			data: `{"id": "wf-1", "name": "Digest", "nodes": [], "edges": []}`,
		},
		{
			name: "null lists",
			data: `{"id": "wf-1", "name": "Digest", "nodes": null, "edges": null}`,
		},
		{
			name:    "missing name",
			data:    `{"id": "wf-1", "nodes": [], "edges": []}`,
			wantErr: true,
		},
		{
			name:    "bad port kind",
			data:    `{"id": "wf-1", "name": "x", "edges": [], "nodes": [{"id": "n", "category": "agent", "subtype": "coder", "label": "c", "inputs": [{"id": "in", "kind": "audio", "direction": "input"}]}]}`,
			wantErr: true,
		},
		{
			name:    "not json",
			data:    `nodes: []`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snapshot, err := models.DecodeSnapshot([]byte(tt.data))
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, models.IsInvalidSnapshot(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, "wf-1", snapshot.ID)
		})
	}
}

func TestSnapshot_Encode(t *testing.T) {
	record, err := models.NewNodeRecord(switchNode())
	require.NoError(t, err)

	snapshot := &models.Snapshot{ID: "wf-1", Name: "Digest", Nodes: []*models.NodeRecord{record}, Edges: []*models.Edge{}}

	data, err := snapshot.EncodeJSON()
	require.NoError(t, err)

	decoded, err := models.DecodeSnapshot(data)
	require.NoError(t, err)
	assert.Equal(t, snapshot.Nodes, decoded.Nodes)

	yamlData, err := snapshot.EncodeYAML()
	require.NoError(t, err)
	assert.Contains(t, string(yamlData), "subtype: switch")
}
