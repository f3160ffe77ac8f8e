package testutil

import (
	"github.com/dukex/flowcanvas/pkg/graph"
	"github.com/dukex/flowcanvas/pkg/models"
	"github.com/stretchr/testify/require"
)

// LinearCanvas is a ready-to-run store: manual trigger -> researcher -> response.
type LinearCanvas struct {
	Store   *graph.Store
	Trigger *models.NodeInstance
	Agent   *models.NodeInstance
	Output  *models.NodeInstance
}

// NewLinearCanvas builds a valid three-node workflow with sequential IDs.
func NewLinearCanvas(t require.TestingT) *LinearCanvas {
	store := graph.NewStore(graph.WithIDGenerator(SequentialIDs("id")))

	trigger, err := store.AddNode(graph.Template{Kind: ManualTrigger, Label: "Start"})
	require.NoError(t, err)

	agent, err := store.AddNode(graph.Template{Kind: Researcher, Label: "Research"})
	require.NoError(t, err)

	output, err := store.AddNode(graph.Template{Kind: Response, Label: "Reply"})
	require.NoError(t, err)

	_, err = store.AddEdge(graph.Candidate{
		SourceNodeID: trigger.ID, SourcePortID: "trigger",
		TargetNodeID: agent.ID, TargetPortID: "in",
	})
	require.NoError(t, err)

	_, err = store.AddEdge(graph.Candidate{
		SourceNodeID: agent.ID, SourcePortID: "done",
		TargetNodeID: output.ID, TargetPortID: "in",
	})
	require.NoError(t, err)

	return &LinearCanvas{Store: store, Trigger: trigger, Agent: agent, Output: output}
}

// StaticGraph is a fixed node/edge list for feeding the validator graphs the
// store would never produce.
type StaticGraph struct {
	NodeList []*models.NodeInstance
	EdgeList []*models.Edge
}

func (g StaticGraph) Nodes() []*models.NodeInstance { return g.NodeList }
func (g StaticGraph) Edges() []*models.Edge         { return g.EdgeList }
