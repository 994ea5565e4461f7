package roadnet

import (
	"github.com/pkg/errors"
)

// CostMode selects edge weight for shortest path search
type CostMode uint16

const (
	COST_LENGTH = CostMode(iota + 1)
	COST_FREE_FLOW_TIME
)

func (iotaIdx CostMode) String() string {
	return [...]string{"undefined", "length", "free_flow_time"}[iotaIdx]
}

// cost returns weight of the edge for given mode
func (mode CostMode) cost(edge *Edge) float64 {
	if mode == COST_FREE_FLOW_TIME {
		return edge.FreeFlowTTInMin()
	}
	return edge.lengthInFeet
}

// ShortestPathOracle answers shortest path queries over the graph
type ShortestPathOracle interface {
	// InitializeCosts assigns edge costs and prepares the oracle for queries
	InitializeCosts(graph *Graph, mode CostMode) error
	// EdgePath returns edges from source edge to target edge (both included) following permitted movements
	EdgePath(source, target *Edge) ([]*Edge, error)
	// VertexPath returns edges from source vertex to target vertex
	VertexPath(source, target *Vertex) ([]*Edge, error)
}

// ShortestPathBetweenEdges returns shortest (by length) path visiting given edges in order
func ShortestPathBetweenEdges(graph *Graph, oracle ShortestPathOracle, name string, edgeIDs []EdgeID) (*Path, error) {
	if len(edgeIDs) < 2 {
		return nil, structureErrorf("path '%s' must visit at least two edges", name)
	}
	edges := make([]*Edge, 0, len(edgeIDs))
	for _, id := range edgeIDs {
		edge, err := graph.Edge(id.Start, id.End)
		if err != nil {
			return nil, errors.Wrapf(err, "path '%s'", name)
		}
		edges = append(edges, edge)
	}
	if err := oracle.InitializeCosts(graph, COST_LENGTH); err != nil {
		return nil, errors.Wrapf(err, "path '%s'", name)
	}
	pathEdges := make([]*Edge, 0)
	for i := 1; i < len(edges); i++ {
		subPath, err := oracle.EdgePath(edges[i-1], edges[i])
		if err != nil {
			return nil, errors.Wrapf(err, "path '%s'", name)
		}
		if i > 1 {
			// First edge is the last edge of previous sub-path
			subPath = subPath[1:]
		}
		pathEdges = append(pathEdges, subPath...)
	}
	return NewPath(name, pathEdges)
}

// ShortestPathBetweenVertices returns fastest (by free flow travel time) path from source vertex to target vertex
func ShortestPathBetweenVertices(graph *Graph, oracle ShortestPathOracle, name string, sourceID, targetID VertexID) (*Path, error) {
	source, err := graph.Vertex(sourceID)
	if err != nil {
		return nil, errors.Wrapf(err, "path '%s'", name)
	}
	target, err := graph.Vertex(targetID)
	if err != nil {
		return nil, errors.Wrapf(err, "path '%s'", name)
	}
	if err := oracle.InitializeCosts(graph, COST_FREE_FLOW_TIME); err != nil {
		return nil, errors.Wrapf(err, "path '%s'", name)
	}
	edges, err := oracle.VertexPath(source, target)
	if err != nil {
		return nil, errors.Wrapf(err, "path '%s'", name)
	}
	return NewPath(name, edges)
}
