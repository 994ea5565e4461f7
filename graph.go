package roadnet

import (
	"fmt"
	"strconv"

	"github.com/pkg/errors"
)

// Graph is a road network: vertices, directed edges and movements sharing single simulation window
type Graph struct {
	name               string
	vertices           map[VertexID]*Vertex
	verticesOrder      []VertexID
	edges              map[EdgeID]*Edge
	edgesOrder         []EdgeID
	edgeAttributes     map[string]map[EdgeID]TimeSeries
	movementAttributes map[string]map[MovementID]TimeSeries
	freeFlowSpeedInMPH float64
	maxVertexID        int
	sim                SimulationWindow
	verbose            bool
}

// NewGraph returns empty graph with given simulation window (minutes)
func NewGraph(name string, simStartInMin, simEndInMin, simStepInMin int, options ...func(*Graph)) (*Graph, error) {
	sim, err := NewSimulationWindow(simStartInMin, simEndInMin, simStepInMin)
	if err != nil {
		return nil, errors.Wrapf(err, "graph %s", name)
	}
	graph := &Graph{
		name:               name,
		vertices:           make(map[VertexID]*Vertex),
		verticesOrder:      make([]VertexID, 0),
		edges:              make(map[EdgeID]*Edge),
		edgesOrder:         make([]EdgeID, 0),
		edgeAttributes:     make(map[string]map[EdgeID]TimeSeries),
		movementAttributes: make(map[string]map[MovementID]TimeSeries),
		freeFlowSpeedInMPH: DEFAULT_FREE_FLOW_SPEED_MPH,
		maxVertexID:        0,
		sim:                sim,
	}
	for _, option := range options {
		option(graph)
	}
	return graph, nil
}

func (graph *Graph) String() string {
	return fmt.Sprintf(`
Road network parameters:
	name: '%s'
	simulation window: %s
	free flow speed (mph): %f
	vertices: %d
	edges: %d
	edge attributes: %d
	movement attributes: %d
	verbose: %t
	`,
		graph.name,
		graph.sim,
		graph.freeFlowSpeedInMPH,
		len(graph.vertices),
		len(graph.edges),
		len(graph.edgeAttributes),
		len(graph.movementAttributes),
		graph.verbose,
	)
}

func (graph *Graph) Name() string {
	return graph.name
}

func (graph *Graph) SimulationWindow() SimulationWindow {
	return graph.sim
}

func (graph *Graph) NumVertices() int {
	return len(graph.vertices)
}

func (graph *Graph) NumEdges() int {
	return len(graph.edges)
}

// Vertices returns vertices in insertion order
func (graph *Graph) Vertices() []*Vertex {
	vertices := make([]*Vertex, 0, len(graph.verticesOrder))
	for _, id := range graph.verticesOrder {
		vertices = append(vertices, graph.vertices[id])
	}
	return vertices
}

// Edges returns edges in insertion order
func (graph *Graph) Edges() []*Edge {
	edges := make([]*Edge, 0, len(graph.edgesOrder))
	for _, id := range graph.edgesOrder {
		edges = append(edges, graph.edges[id])
	}
	return edges
}

func (graph *Graph) HasVertex(id VertexID) bool {
	_, ok := graph.vertices[id]
	return ok
}

func (graph *Graph) HasEdge(startVertexID, endVertexID VertexID) bool {
	_, ok := graph.edges[EdgeID{Start: startVertexID, End: endVertexID}]
	return ok
}

func (graph *Graph) Vertex(id VertexID) (*Vertex, error) {
	vertex, ok := graph.vertices[id]
	if !ok {
		return nil, structureErrorf("vertex %s does not exist in graph %s", id, graph.name)
	}
	return vertex, nil
}

func (graph *Graph) Edge(startVertexID, endVertexID VertexID) (*Edge, error) {
	edge, ok := graph.edges[EdgeID{Start: startVertexID, End: endVertexID}]
	if !ok {
		return nil, structureErrorf("edge %s %s does not exist in graph %s", startVertexID, endVertexID, graph.name)
	}
	return edge, nil
}

func (graph *Graph) Movement(upVertexID, throughVertexID, downVertexID VertexID) (*Movement, error) {
	edge, err := graph.Edge(upVertexID, throughVertexID)
	if err != nil {
		return nil, err
	}
	return edge.OutMovement(downVertexID)
}

// NewVertexID returns identifier greater than any numeric identifier added so far
func (graph *Graph) NewVertexID() VertexID {
	return VertexID(strconv.Itoa(graph.maxVertexID + 1))
}

// AddVertex adds vertex to the graph. Identifiers must be unique
func (graph *Graph) AddVertex(vertex *Vertex) error {
	if vertex == nil {
		return structureErrorf("graph %s: nil vertex", graph.name)
	}
	if _, ok := graph.vertices[vertex.ID]; ok {
		return structureErrorf("vertex %s is already present in graph %s", vertex.ID, graph.name)
	}
	graph.vertices[vertex.ID] = vertex
	graph.verticesOrder = append(graph.verticesOrder, vertex.ID)
	if n, err := strconv.Atoi(string(vertex.ID)); err == nil && n > graph.maxVertexID {
		graph.maxVertexID = n
	}
	return nil
}

// AddEdge adds edge between vertices of the graph and attaches it to both of them.
// Edge and movements already attached to it take simulation window of the graph.
// Free flow speed of the graph is applied only if the edge still has the default one
func (graph *Graph) AddEdge(edge *Edge) error {
	if edge == nil {
		return structureErrorf("graph %s: nil edge", graph.name)
	}
	if _, ok := graph.edges[edge.ID]; ok {
		return structureErrorf("edge %s is already present in graph %s", edge.ID, graph.name)
	}
	startVertex, ok := graph.vertices[edge.ID.Start]
	if !ok || startVertex != edge.startVertex {
		return structureErrorf("start vertex %s of edge %s does not belong to graph %s", edge.ID.Start, edge.ID, graph.name)
	}
	endVertex, ok := graph.vertices[edge.ID.End]
	if !ok || endVertex != edge.endVertex {
		return structureErrorf("end vertex %s of edge %s does not belong to graph %s", edge.ID.End, edge.ID, graph.name)
	}
	if err := startVertex.AddOutEdge(edge); err != nil {
		return errors.Wrapf(err, "graph %s", graph.name)
	}
	if err := endVertex.AddInEdge(edge); err != nil {
		// Keep vertices consistent
		_ = startVertex.deleteOutEdge(edge)
		return errors.Wrapf(err, "graph %s", graph.name)
	}
	edge.sim = graph.sim
	for _, movement := range edge.outMovements {
		movement.sim = graph.sim
	}
	for _, movement := range edge.inMovements {
		movement.sim = graph.sim
	}
	if edge.freeFlowSpeedInMPH == DEFAULT_FREE_FLOW_SPEED_MPH {
		edge.freeFlowSpeedInMPH = graph.freeFlowSpeedInMPH
	}
	graph.edges[edge.ID] = edge
	graph.edgesOrder = append(graph.edgesOrder, edge.ID)
	return nil
}

// AddMovement creates movement upstream -> through -> downstream between existing edges and attaches it
func (graph *Graph) AddMovement(upVertexID, throughVertexID, downVertexID VertexID, numLanes int) (*Movement, error) {
	inEdge, err := graph.Edge(upVertexID, throughVertexID)
	if err != nil {
		return nil, err
	}
	outEdge, err := graph.Edge(throughVertexID, downVertexID)
	if err != nil {
		return nil, err
	}
	movement, err := NewMovement(inEdge, outEdge, numLanes)
	if err != nil {
		return nil, err
	}
	if err := inEdge.AddOutMovement(movement); err != nil {
		return nil, err
	}
	return movement, nil
}

// DeleteEdge removes edge together with every movement using it
func (graph *Graph) DeleteEdge(edge *Edge) error {
	if edge == nil {
		return structureErrorf("graph %s: nil edge", graph.name)
	}
	if existing, ok := graph.edges[edge.ID]; !ok || existing != edge {
		return structureErrorf("edge %s does not exist in graph %s", edge.ID, graph.name)
	}
	for _, movement := range edge.OutMovements() {
		if err := edge.DeleteOutMovement(movement); err != nil {
			return errors.Wrapf(err, "graph %s", graph.name)
		}
		graph.dropMovementAttributes(movement.ID)
	}
	for _, movement := range edge.InMovements() {
		if err := movement.inEdge.DeleteOutMovement(movement); err != nil {
			return errors.Wrapf(err, "graph %s", graph.name)
		}
		graph.dropMovementAttributes(movement.ID)
	}
	if err := edge.startVertex.deleteOutEdge(edge); err != nil {
		return errors.Wrapf(err, "graph %s", graph.name)
	}
	if err := edge.endVertex.deleteInEdge(edge); err != nil {
		return errors.Wrapf(err, "graph %s", graph.name)
	}
	delete(graph.edges, edge.ID)
	for i, id := range graph.edgesOrder {
		if id == edge.ID {
			graph.edgesOrder = append(graph.edgesOrder[:i], graph.edgesOrder[i+1:]...)
			break
		}
	}
	graph.dropEdgeAttributes(edge.ID)
	return nil
}

// DeleteVertex removes vertex together with every adjacent edge
func (graph *Graph) DeleteVertex(vertex *Vertex) error {
	if vertex == nil {
		return structureErrorf("graph %s: nil vertex", graph.name)
	}
	if existing, ok := graph.vertices[vertex.ID]; !ok || existing != vertex {
		return structureErrorf("vertex %s does not exist in graph %s", vertex.ID, graph.name)
	}
	for _, edge := range vertex.Edges() {
		if err := graph.DeleteEdge(edge); err != nil {
			return err
		}
	}
	delete(graph.vertices, vertex.ID)
	for i, id := range graph.verticesOrder {
		if id == vertex.ID {
			graph.verticesOrder = append(graph.verticesOrder[:i], graph.verticesOrder[i+1:]...)
			break
		}
	}
	return nil
}

type movementTemplate struct {
	edge     *Edge
	numLanes int
}

// SplitEdge replaces edge with two edges joined at a new vertex placed in its middle.
// Movements into and out of the edge are recreated on the new edges, and a through movement joins them
func (graph *Graph) SplitEdge(edge *Edge) (*Edge, *Edge, error) {
	if edge == nil {
		return nil, nil, structureErrorf("graph %s: nil edge", graph.name)
	}
	if existing, ok := graph.edges[edge.ID]; !ok || existing != edge {
		return nil, nil, structureErrorf("edge %s does not exist in graph %s", edge.ID, graph.name)
	}
	upVertex, downVertex := edge.startVertex, edge.endVertex
	midpoint := edge.Midpoint()
	midVertex := NewVertex(graph.NewVertexID(), midpoint.X(), midpoint.Y())

	inTemplates := make([]movementTemplate, 0, len(edge.inMovements))
	for _, movement := range edge.inMovements {
		inTemplates = append(inTemplates, movementTemplate{edge: movement.inEdge, numLanes: movement.numLanes})
	}
	outTemplates := make([]movementTemplate, 0, len(edge.outMovements))
	for _, movement := range edge.outMovements {
		outTemplates = append(outTemplates, movementTemplate{edge: movement.outEdge, numLanes: movement.numLanes})
	}
	numLanes := edge.numLanes
	name := edge.name
	freeFlowSpeed := edge.freeFlowSpeedInMPH

	if err := graph.DeleteEdge(edge); err != nil {
		return nil, nil, errors.Wrapf(err, "can't split edge %s", edge.ID)
	}
	if err := graph.AddVertex(midVertex); err != nil {
		return nil, nil, errors.Wrapf(err, "can't split edge %s", edge.ID)
	}
	firstEdge, err := graph.addSplitPart(upVertex, midVertex, numLanes, name, freeFlowSpeed)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "can't split edge %s", edge.ID)
	}
	secondEdge, err := graph.addSplitPart(midVertex, downVertex, numLanes, name, freeFlowSpeed)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "can't split edge %s", edge.ID)
	}
	for _, tpl := range inTemplates {
		if err := attachMovement(tpl.edge, firstEdge, tpl.numLanes); err != nil {
			return nil, nil, errors.Wrapf(err, "can't split edge %s", edge.ID)
		}
	}
	for _, tpl := range outTemplates {
		if err := attachMovement(secondEdge, tpl.edge, tpl.numLanes); err != nil {
			return nil, nil, errors.Wrapf(err, "can't split edge %s", edge.ID)
		}
	}
	if err := attachMovement(firstEdge, secondEdge, numLanes); err != nil {
		return nil, nil, errors.Wrapf(err, "can't split edge %s", edge.ID)
	}
	if graph.verbose {
		fmt.Printf("Edge %s has been split at vertex %s\n", edge.ID, midVertex.ID)
	}
	return firstEdge, secondEdge, nil
}

func (graph *Graph) addSplitPart(startVertex, endVertex *Vertex, numLanes int, name string, freeFlowSpeed float64) (*Edge, error) {
	part, err := NewEdge(startVertex, endVertex, numLanes)
	if err != nil {
		return nil, err
	}
	if err := graph.AddEdge(part); err != nil {
		return nil, err
	}
	part.name = name
	part.freeFlowSpeedInMPH = freeFlowSpeed
	return part, nil
}

func attachMovement(inEdge, outEdge *Edge, numLanes int) error {
	movement, err := NewMovement(inEdge, outEdge, numLanes)
	if err != nil {
		return err
	}
	return inEdge.AddOutMovement(movement)
}
