package roadnet

import (
	"fmt"
	"time"

	"github.com/LdDl/ch"
	"github.com/pkg/errors"
)

// expandedEdge is an arc of the edge-expanded graph: either a movement between two edges
// or a virtual arc from a source vertex to its emanating edge (or from an incident edge to a target vertex)
type expandedEdge struct {
	Source int64
	Target int64
	Cost   float64
}

// CHOracle answers shortest path queries with contraction hierarchies built over the edge-expanded graph.
// Every road edge is a vertex of the expanded graph and every movement is an arc, so paths respect permitted turns
type CHOracle struct {
	graph       *Graph
	chGraph     *ch.Graph
	edgeLabels  map[EdgeID]int64
	edgeByLabel []*Edge
	numEdges    int64
	mode        CostMode
	verbose     bool
}

// NewCHOracle returns oracle which has to be initialized with InitializeCosts before queries
func NewCHOracle(verbose bool) *CHOracle {
	return &CHOracle{
		verbose: verbose,
	}
}

func (oracle *CHOracle) sourceLabel(vertexIdx int) int64 {
	return oracle.numEdges + int64(2*vertexIdx)
}

func (oracle *CHOracle) targetLabel(vertexIdx int) int64 {
	return oracle.numEdges + int64(2*vertexIdx+1)
}

// expandedEdges returns arcs of the edge-expanded graph
func (oracle *CHOracle) expandedEdges(graph *Graph, mode CostMode) []expandedEdge {
	result := make([]expandedEdge, 0)
	for _, edge := range oracle.edgeByLabel {
		source := oracle.edgeLabels[edge.ID]
		for _, movement := range edge.outMovements {
			result = append(result, expandedEdge{
				Source: source,
				Target: oracle.edgeLabels[movement.outEdge.ID],
				Cost:   mode.cost(movement.outEdge),
			})
		}
	}
	for i, vertex := range graph.Vertices() {
		for _, edge := range vertex.emanatingEdges {
			result = append(result, expandedEdge{
				Source: oracle.sourceLabel(i),
				Target: oracle.edgeLabels[edge.ID],
				Cost:   mode.cost(edge),
			})
		}
		for _, edge := range vertex.incidentEdges {
			result = append(result, expandedEdge{
				Source: oracle.edgeLabels[edge.ID],
				Target: oracle.targetLabel(i),
				Cost:   0,
			})
		}
	}
	return result
}

// InitializeCosts builds the edge-expanded graph weighted by given mode and contracts it
func (oracle *CHOracle) InitializeCosts(graph *Graph, mode CostMode) error {
	if graph.NumEdges() == 0 {
		return structureErrorf("graph %s does not have any edges", graph.name)
	}
	st := time.Now()
	oracle.graph = graph
	oracle.mode = mode
	oracle.edgeByLabel = graph.Edges()
	oracle.numEdges = int64(len(oracle.edgeByLabel))
	oracle.edgeLabels = make(map[EdgeID]int64, len(oracle.edgeByLabel))
	for i, edge := range oracle.edgeByLabel {
		oracle.edgeLabels[edge.ID] = int64(i)
	}
	chGraph := ch.Graph{}
	for _, arc := range oracle.expandedEdges(graph, mode) {
		err := chGraph.CreateVertex(arc.Source)
		if err != nil {
			return errors.Wrap(err, "Can not create source vertex")
		}
		err = chGraph.CreateVertex(arc.Target)
		if err != nil {
			return errors.Wrap(err, "Can not create target vertex")
		}
		err = chGraph.AddEdge(arc.Source, arc.Target, arc.Cost)
		if err != nil {
			return errors.Wrap(err, "Can not wrap Source and Target vertices as Edge")
		}
	}
	chGraph.PrepareContractionHierarchies()
	oracle.chGraph = &chGraph
	if oracle.verbose {
		fmt.Printf("Done contraction process (%s) in %v\n", mode, time.Since(st))
	}
	return nil
}

func (oracle *CHOracle) checkInitialized() error {
	if oracle.chGraph == nil {
		return structureErrorf("shortest path oracle is not initialized")
	}
	return nil
}

// EdgePath returns edges from source edge to target edge (both included)
func (oracle *CHOracle) EdgePath(source, target *Edge) ([]*Edge, error) {
	if err := oracle.checkInitialized(); err != nil {
		return nil, err
	}
	sourceLabel, ok := oracle.edgeLabels[source.ID]
	if !ok {
		return nil, structureErrorf("edge %s is not known to shortest path oracle", source.ID)
	}
	targetLabel, ok := oracle.edgeLabels[target.ID]
	if !ok {
		return nil, structureErrorf("edge %s is not known to shortest path oracle", target.ID)
	}
	if sourceLabel == targetLabel {
		return []*Edge{source}, nil
	}
	labels, err := oracle.query(sourceLabel, targetLabel)
	if err != nil {
		return nil, errors.Wrapf(err, "no path from edge %s to edge %s", source.ID, target.ID)
	}
	return oracle.labelsToEdges(labels), nil
}

// VertexPath returns edges from source vertex to target vertex
func (oracle *CHOracle) VertexPath(source, target *Vertex) ([]*Edge, error) {
	if err := oracle.checkInitialized(); err != nil {
		return nil, err
	}
	if source.ID == target.ID {
		return nil, structureErrorf("path from vertex %s to itself is empty", source.ID)
	}
	sourceIdx, targetIdx := -1, -1
	for i, id := range oracle.graph.verticesOrder {
		if id == source.ID {
			sourceIdx = i
		}
		if id == target.ID {
			targetIdx = i
		}
	}
	if sourceIdx < 0 || targetIdx < 0 {
		return nil, structureErrorf("vertices %s and %s are not known to shortest path oracle", source.ID, target.ID)
	}
	labels, err := oracle.query(oracle.sourceLabel(sourceIdx), oracle.targetLabel(targetIdx))
	if err != nil {
		return nil, errors.Wrapf(err, "no path from vertex %s to vertex %s", source.ID, target.ID)
	}
	if len(labels) < 3 {
		return nil, structureErrorf("no path from vertex %s to vertex %s", source.ID, target.ID)
	}
	// Drop virtual source and target
	return oracle.labelsToEdges(labels[1 : len(labels)-1]), nil
}

func (oracle *CHOracle) query(sourceLabel, targetLabel int64) ([]int64, error) {
	cost, labels := oracle.chGraph.ShortestPath(sourceLabel, targetLabel)
	if cost < 0 || len(labels) == 0 {
		return nil, structureErrorf("target is not reachable")
	}
	return labels, nil
}

func (oracle *CHOracle) labelsToEdges(labels []int64) []*Edge {
	edges := make([]*Edge, 0, len(labels))
	for _, label := range labels {
		edges = append(edges, oracle.edgeByLabel[label])
	}
	return edges
}
