package roadnet

import (
	"testing"

	"github.com/stretchr/testify/require"
)

//              2           6
//              |           |
//        1 --- 5 --------- 4 --- 7
//              |           |
//              3           8
//
var testVertices = []struct {
	id   VertexID
	x, y float64
}{
	{"1", 0, 100},
	{"2", 100, 200},
	{"3", 100, 0},
	{"4", 200, 100},
	{"5", 100, 100},
	{"6", 200, 200},
	{"7", 300, 100},
	{"8", 200, 0},
}

var testEdges = []struct {
	start, end VertexID
	lanes      int
}{
	{"1", "5", 3},
	{"5", "1", 3},
	{"3", "5", 3},
	{"5", "3", 3},
	{"4", "5", 2},
	{"5", "4", 2},
	{"5", "2", 1},
	{"2", "5", 2},
	{"4", "8", 1},
	{"8", "4", 1},
	{"7", "4", 2},
	{"4", "7", 2},
	{"4", "6", 3},
	{"6", "4", 2},
}

// newTestGraph returns two intersections (5 and 4) joined by bidirectional edges, without movements
func newTestGraph(t *testing.T) *Graph {
	t.Helper()
	graph, err := NewGraph("test", 0, 60, 5)
	require.NoError(t, err)
	for _, v := range testVertices {
		require.NoError(t, graph.AddVertex(NewVertex(v.id, v.x, v.y)))
	}
	for _, e := range testEdges {
		start, err := graph.Vertex(e.start)
		require.NoError(t, err)
		end, err := graph.Vertex(e.end)
		require.NoError(t, err)
		edge, err := NewEdge(start, end, e.lanes)
		require.NoError(t, err)
		require.NoError(t, graph.AddEdge(edge))
	}
	return graph
}

// newTestNetwork returns test graph with every movement except U-turns at vertices 5 and 4
func newTestNetwork(t *testing.T) *Graph {
	t.Helper()
	graph := newTestGraph(t)
	for _, through := range []VertexID{"5", "4"} {
		vertex, err := graph.Vertex(through)
		require.NoError(t, err)
		for _, inEdge := range vertex.InEdges() {
			for _, outEdge := range vertex.OutEdges() {
				if inEdge.ID.Start == outEdge.ID.End {
					continue
				}
				_, err := graph.AddMovement(inEdge.ID.Start, through, outEdge.ID.End, 1)
				require.NoError(t, err)
			}
		}
	}
	return graph
}

// newTestIntersection returns single intersection at vertex 5: emanating edges added west, north, south, east
// and incident edges added from vertices 1, 2, 3, 4
func newTestIntersection(t *testing.T) *Graph {
	t.Helper()
	graph, err := NewGraph("intersection", 0, 60, 5)
	require.NoError(t, err)
	for _, v := range testVertices[:5] {
		require.NoError(t, graph.AddVertex(NewVertex(v.id, v.x, v.y)))
	}
	pairs := [][2]VertexID{
		{"5", "1"}, {"5", "2"}, {"5", "3"}, {"5", "4"},
		{"1", "5"}, {"2", "5"}, {"3", "5"}, {"4", "5"},
	}
	for _, pair := range pairs {
		edge, err := NewEdge(mustVertex(t, graph, pair[0]), mustVertex(t, graph, pair[1]), 1)
		require.NoError(t, err)
		require.NoError(t, graph.AddEdge(edge))
	}
	return graph
}

func mustVertex(t *testing.T, graph *Graph, id VertexID) *Vertex {
	t.Helper()
	vertex, err := graph.Vertex(id)
	require.NoError(t, err)
	return vertex
}

func mustEdge(t *testing.T, graph *Graph, start, end VertexID) *Edge {
	t.Helper()
	edge, err := graph.Edge(start, end)
	require.NoError(t, err)
	return edge
}

func mustMovement(t *testing.T, graph *Graph, up, through, down VertexID) *Movement {
	t.Helper()
	movement, err := graph.Movement(up, through, down)
	require.NoError(t, err)
	return movement
}

func edgeIDs(edges []*Edge) []string {
	ids := make([]string, 0, len(edges))
	for _, edge := range edges {
		ids = append(ids, edge.ID.String())
	}
	return ids
}

func movementIDs(movements []*Movement) []string {
	ids := make([]string, 0, len(movements))
	for _, movement := range movements {
		ids = append(ids, movement.ID.String())
	}
	return ids
}
