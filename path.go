package roadnet

import (
	"strings"

	"github.com/pkg/errors"
)

// Path is a sequence of edges where every consecutive pair is joined by a movement
type Path struct {
	name          string
	edges         []*Edge
	obsTTInMin    TimeSeries
	lengthInMiles float64
}

// NewPath returns path over given edges
func NewPath(name string, edges []*Edge) (*Path, error) {
	if len(edges) == 0 {
		return nil, structureErrorf("path '%s' must contain at least one edge", name)
	}
	lengthInMiles := 0.0
	for i, edge := range edges {
		if edge == nil {
			return nil, structureErrorf("path '%s': nil edge at position %d", name, i)
		}
		if i > 0 {
			prev := edges[i-1]
			if prev.ID.End != edge.ID.Start || !prev.HasOutMovement(edge.ID.End) {
				return nil, structureErrorf("path '%s': edges %s and %s are not connected by a movement", name, prev.ID, edge.ID)
			}
		}
		lengthInMiles += edge.lengthInMiles
	}
	return &Path{
		name:          name,
		edges:         append([]*Edge(nil), edges...),
		obsTTInMin:    make(TimeSeries),
		lengthInMiles: lengthInMiles,
	}, nil
}

// NewPathFromVertices returns path passing through given vertices of the graph
func NewPathFromVertices(name string, graph *Graph, vertexIDs []VertexID) (*Path, error) {
	if len(vertexIDs) < 2 {
		return nil, structureErrorf("path '%s' must contain at least two vertices", name)
	}
	edges := make([]*Edge, 0, len(vertexIDs)-1)
	for i := 1; i < len(vertexIDs); i++ {
		edge, err := graph.Edge(vertexIDs[i-1], vertexIDs[i])
		if err != nil {
			return nil, errors.Wrapf(err, "path '%s'", name)
		}
		edges = append(edges, edge)
	}
	return NewPath(name, edges)
}

// String returns identifiers of vertices along the path separated by space
func (path *Path) String() string {
	ids := make([]string, 0, len(path.edges)+1)
	ids = append(ids, string(path.edges[0].ID.Start))
	for _, edge := range path.edges {
		ids = append(ids, string(edge.ID.End))
	}
	return strings.Join(ids, " ")
}

func (path *Path) Name() string {
	return path.name
}

func (path *Path) Edges() []*Edge {
	return append([]*Edge(nil), path.edges...)
}

// Vertices returns vertices along the path
func (path *Path) Vertices() []*Vertex {
	vertices := make([]*Vertex, 0, len(path.edges)+1)
	vertices = append(vertices, path.edges[0].startVertex)
	for _, edge := range path.edges {
		vertices = append(vertices, edge.endVertex)
	}
	return vertices
}

func (path *Path) NumEdges() int {
	return len(path.edges)
}

func (path *Path) FirstEdge() *Edge {
	return path.edges[0]
}

func (path *Path) LastEdge() *Edge {
	return path.edges[len(path.edges)-1]
}

func (path *Path) FirstVertex() *Vertex {
	return path.edges[0].startVertex
}

func (path *Path) LastVertex() *Vertex {
	return path.edges[len(path.edges)-1].endVertex
}

func (path *Path) LengthInMiles() float64 {
	return path.lengthInMiles
}

// AverageSimTTInMin returns simulated travel time along the path: movements joining consecutive edges
// and the through movement of the last edge (or the last edge itself when there is none)
func (path *Path) AverageSimTTInMin(startInMin, endInMin int) (float64, error) {
	result := 0.0
	for i := 0; i < len(path.edges)-1; i++ {
		movement, err := path.edges[i].OutMovement(path.edges[i+1].ID.End)
		if err != nil {
			return 0, errors.Wrapf(err, "path '%s'", path.name)
		}
		tt, err := movement.SimTTInMin(startInMin, endInMin)
		if err != nil {
			return 0, errors.Wrapf(err, "path '%s'", path.name)
		}
		result += tt
	}
	lastEdge := path.LastEdge()
	var tt float64
	var err error
	if thru, thruErr := lastEdge.ThruTurn(); thruErr == nil {
		tt, err = thru.SimTTInMin(startInMin, endInMin)
	} else {
		tt, err = lastEdge.SimTTInMin(startInMin, endInMin)
	}
	if err != nil {
		return 0, errors.Wrapf(err, "path '%s'", path.name)
	}
	return result + tt, nil
}

// AverageSimSpeedInMPH returns speed implied by simulated travel time along the path
func (path *Path) AverageSimSpeedInMPH(startInMin, endInMin int) (float64, error) {
	tt, err := path.AverageSimTTInMin(startInMin, endInMin)
	if err != nil {
		return 0, err
	}
	return path.lengthInMiles / (tt / 60.0), nil
}

// SetObsTTInMin stores observed travel time along the path
func (path *Path) SetObsTTInMin(startInMin, endInMin int, tt float64) error {
	if err := path.edges[0].sim.validateOutput(startInMin, endInMin); err != nil {
		return errors.Wrapf(err, "path '%s'", path.name)
	}
	if tt <= 0 {
		return temporalErrorf("path '%s': observed travel time %f must be positive", path.name, tt)
	}
	path.obsTTInMin[TimeWindow{startInMin, endInMin}] = tt
	return nil
}

// ObsTTInMin returns observed travel time stored for exactly this window
func (path *Path) ObsTTInMin(startInMin, endInMin int) (float64, error) {
	tt, ok := path.obsTTInMin[TimeWindow{startInMin, endInMin}]
	if !ok {
		return 0, temporalErrorf("path '%s' does not have observed travel time for time period from %d to %d", path.name, startInMin, endInMin)
	}
	return tt, nil
}

// AverageObsSpeedInMPH returns speed implied by observed travel time along the path
func (path *Path) AverageObsSpeedInMPH(startInMin, endInMin int) (float64, error) {
	tt, err := path.ObsTTInMin(startInMin, endInMin)
	if err != nil {
		return 0, err
	}
	return path.lengthInMiles / (tt / 60.0), nil
}
