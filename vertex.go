package roadnet

import (
	"fmt"
	"sort"

	"github.com/paulmach/orb"
)

/* Vertices stuff */

// VertexID is identifier of a vertex. Numeric identifiers are used to generate new ones
type VertexID string

// Vertex is a network node. It keeps emanating edges sorted clockwise and incident edges sorted counter-clockwise
type Vertex struct {
	emanatingEdges []*Edge
	incidentEdges  []*Edge
	edgesClockwise []*Edge
	ID             VertexID
	geom           orb.Point
}

// NewVertex returns vertex with given identifier located at (x, y)
func NewVertex(id VertexID, x, y float64) *Vertex {
	return &Vertex{
		emanatingEdges: make([]*Edge, 0),
		incidentEdges:  make([]*Edge, 0),
		edgesClockwise: make([]*Edge, 0),
		ID:             id,
		geom:           orb.Point{x, y},
	}
}

// NewVertexFromLonLat returns vertex for WGS84 point projected to Web Mercator (feet)
func NewVertexFromLonLat(id VertexID, lon, lat float64) *Vertex {
	pt := lonLatToFeet(orb.Point{lon, lat})
	return NewVertex(id, pt.X(), pt.Y())
}

func (vertex *Vertex) String() string {
	return fmt.Sprintf("%s\t%f\t%f", vertex.ID, vertex.geom.X(), vertex.geom.Y())
}

// X returns x-coordinate
func (vertex *Vertex) X() float64 {
	return vertex.geom.X()
}

// Y returns y-coordinate
func (vertex *Vertex) Y() float64 {
	return vertex.geom.Y()
}

// Point returns location of the vertex
func (vertex *Vertex) Point() orb.Point {
	return vertex.geom
}

// AddOutEdge adds emanating edge keeping emanating edges in clockwise order
func (vertex *Vertex) AddOutEdge(edge *Edge) error {
	if edge == nil {
		return structureErrorf("nil edge can't emanate from vertex %s", vertex.ID)
	}
	if edge.ID.Start != vertex.ID {
		return structureErrorf("edge %s does not start from vertex %s", edge.ID, vertex.ID)
	}
	if indexOfEdge(vertex.emanatingEdges, edge.ID) >= 0 {
		return structureErrorf("edge %s already emanates from the vertex %s", edge.ID, vertex.ID)
	}
	position := edgePosition(vertex.emanatingEdges, edge, vertex.clockwiseKey)
	vertex.emanatingEdges = insertEdge(vertex.emanatingEdges, position, edge)
	vertex.sortEdges()
	return nil
}

// AddInEdge adds incident edge keeping incident edges in counter-clockwise order
func (vertex *Vertex) AddInEdge(edge *Edge) error {
	if edge == nil {
		return structureErrorf("nil edge can't be incident to vertex %s", vertex.ID)
	}
	if edge.ID.End != vertex.ID {
		return structureErrorf("edge %s does not end to vertex %s", edge.ID, vertex.ID)
	}
	if indexOfEdge(vertex.incidentEdges, edge.ID) >= 0 {
		return structureErrorf("edge %s is already incident to vertex %s", edge.ID, vertex.ID)
	}
	position := edgePosition(vertex.incidentEdges, edge, vertex.counterClockwiseKey)
	vertex.incidentEdges = insertEdge(vertex.incidentEdges, position, edge)
	vertex.sortEdges()
	return nil
}

// clockwiseKey is bearing to the edge midpoint measured clockwise from the north
func (vertex *Vertex) clockwiseKey(edge *Edge) float64 {
	return vertex.Orientation(edge.Midpoint())
}

// counterClockwiseKey is bearing to the edge midpoint measured counter-clockwise from the north
func (vertex *Vertex) counterClockwiseKey(edge *Edge) float64 {
	orientation := vertex.Orientation(edge.Midpoint())
	if orientation == 0 {
		return 0
	}
	return 360 - orientation
}

// edgePosition returns index keeping edges sorted by key. Equal keys are ordered by edge identifier,
// so position depends on the set of edges only and not on the order they were added in
func edgePosition(edges []*Edge, edge *Edge, key func(*Edge) float64) int {
	edgeKey := key(edge)
	return sort.Search(len(edges), func(i int) bool {
		if k := key(edges[i]); k != edgeKey {
			return k > edgeKey
		}
		return edges[i].ID.String() > edge.ID.String()
	})
}

// sortEdges rebuilds list of all adjacent edges sorted by bearing to their midpoints.
// Incident edges go before emanating ones when bearings are equal
func (vertex *Vertex) sortEdges() {
	all := make([]*Edge, 0, len(vertex.incidentEdges)+len(vertex.emanatingEdges))
	all = append(all, vertex.incidentEdges...)
	all = append(all, vertex.emanatingEdges...)
	sort.SliceStable(all, func(i, j int) bool {
		return vertex.Orientation(all[i].Midpoint()) < vertex.Orientation(all[j].Midpoint())
	})
	vertex.edgesClockwise = all
}

func (vertex *Vertex) deleteOutEdge(edge *Edge) error {
	idx := indexOfEdge(vertex.emanatingEdges, edge.ID)
	if idx < 0 {
		return structureErrorf("edge %s does not emanate from vertex %s", edge.ID, vertex.ID)
	}
	vertex.emanatingEdges = append(vertex.emanatingEdges[:idx], vertex.emanatingEdges[idx+1:]...)
	vertex.sortEdges()
	return nil
}

func (vertex *Vertex) deleteInEdge(edge *Edge) error {
	idx := indexOfEdge(vertex.incidentEdges, edge.ID)
	if idx < 0 {
		return structureErrorf("edge %s is not incident to vertex %s", edge.ID, vertex.ID)
	}
	vertex.incidentEdges = append(vertex.incidentEdges[:idx], vertex.incidentEdges[idx+1:]...)
	vertex.sortEdges()
	return nil
}

// Cardinality returns number of emanating and incident edges
func (vertex *Vertex) Cardinality() (int, int) {
	return vertex.NumOutEdges(), vertex.NumInEdges()
}

func (vertex *Vertex) NumOutEdges() int {
	return len(vertex.emanatingEdges)
}

func (vertex *Vertex) NumInEdges() int {
	return len(vertex.incidentEdges)
}

func (vertex *Vertex) NumAdjacentEdges() int {
	return len(vertex.emanatingEdges) + len(vertex.incidentEdges)
}

func (vertex *Vertex) NumAdjacentVertices() int {
	return len(vertex.AdjacentVertices())
}

// OutEdgeClockwise returns next emanating edge when rotating clockwise
func (vertex *Vertex) OutEdgeClockwise(edge *Edge) (*Edge, error) {
	if err := vertex.checkRotation(vertex.emanatingEdges, "emanating"); err != nil {
		return nil, err
	}
	idx := indexOfEdge(vertex.emanatingEdges, edge.ID)
	if idx < 0 {
		return nil, structureErrorf("edge %s does not emanate from vertex %s", edge.ID, vertex.ID)
	}
	return vertex.emanatingEdges[(idx+1)%len(vertex.emanatingEdges)], nil
}

// InEdgeClockwise returns next incident edge when rotating clockwise
func (vertex *Vertex) InEdgeClockwise(edge *Edge) (*Edge, error) {
	if err := vertex.checkRotation(vertex.incidentEdges, "incident"); err != nil {
		return nil, err
	}
	idx := indexOfEdge(vertex.incidentEdges, edge.ID)
	if idx < 0 {
		return nil, structureErrorf("edge %s is not incident to vertex %s", edge.ID, vertex.ID)
	}
	n := len(vertex.incidentEdges)
	return vertex.incidentEdges[(idx-1+n)%n], nil
}

// InEdgeCounterClockwise returns next incident edge when rotating counter-clockwise
func (vertex *Vertex) InEdgeCounterClockwise(edge *Edge) (*Edge, error) {
	if err := vertex.checkRotation(vertex.incidentEdges, "incident"); err != nil {
		return nil, err
	}
	idx := indexOfEdge(vertex.incidentEdges, edge.ID)
	if idx < 0 {
		return nil, structureErrorf("edge %s is not incident to vertex %s", edge.ID, vertex.ID)
	}
	return vertex.incidentEdges[(idx+1)%len(vertex.incidentEdges)], nil
}

func (vertex *Vertex) checkRotation(edges []*Edge, kind string) error {
	switch len(edges) {
	case 0:
		return structureErrorf("vertex %s does not have any %s edges associated with it", vertex.ID, kind)
	case 1:
		return structureErrorf("vertex %s has only one %s edge associated with it", vertex.ID, kind)
	}
	return nil
}

// EdgeClockwise returns the first edge (either incident or emanating) met when walking clockwise from the given one
func (vertex *Vertex) EdgeClockwise(edge *Edge) (*Edge, error) {
	idx := indexOfEdge(vertex.edgesClockwise, edge.ID)
	if idx < 0 {
		return nil, structureErrorf("edge %s is not adjacent to vertex %s", edge.ID, vertex.ID)
	}
	return vertex.edgesClockwise[(idx+1)%len(vertex.edgesClockwise)], nil
}

// EdgesClockwise returns all adjacent edges sorted clockwise by bearing to their midpoints
func (vertex *Vertex) EdgesClockwise() []*Edge {
	return append([]*Edge(nil), vertex.edgesClockwise...)
}

// EdgePairs returns pairs of neighbouring edges in clockwise order, wrapping around at the end.
// Two adjacent edges give single pair
func (vertex *Vertex) EdgePairs() ([][2]*Edge, error) {
	n := len(vertex.edgesClockwise)
	if n < 2 {
		return nil, structureErrorf("number of adjacent edges of vertex %s is less than 2", vertex.ID)
	}
	if n == 2 {
		return [][2]*Edge{{vertex.edgesClockwise[0], vertex.edgesClockwise[1]}}, nil
	}
	pairs := make([][2]*Edge, 0, n)
	for i := 0; i < n; i++ {
		pairs = append(pairs, [2]*Edge{vertex.edgesClockwise[i], vertex.edgesClockwise[(i+1)%n]})
	}
	return pairs, nil
}

// OutEdge returns emanating edge towards given vertex
func (vertex *Vertex) OutEdge(vertexID VertexID) (*Edge, error) {
	for _, edge := range vertex.emanatingEdges {
		if edge.ID.End == vertexID {
			return edge, nil
		}
	}
	return nil, structureErrorf("vertex %s is not connected to vertex %s", vertex.ID, vertexID)
}

// InEdge returns incident edge coming from given vertex
func (vertex *Vertex) InEdge(vertexID VertexID) (*Edge, error) {
	for _, edge := range vertex.incidentEdges {
		if edge.ID.Start == vertexID {
			return edge, nil
		}
	}
	return nil, structureErrorf("vertex %s is not connected to vertex %s", vertexID, vertex.ID)
}

func (vertex *Vertex) HasOutEdge(vertexID VertexID) bool {
	_, err := vertex.OutEdge(vertexID)
	return err == nil
}

func (vertex *Vertex) HasInEdge(vertexID VertexID) bool {
	_, err := vertex.InEdge(vertexID)
	return err == nil
}

// Movement returns movement through the vertex from upstream vertex to downstream one
func (vertex *Vertex) Movement(upVertexID, downVertexID VertexID) (*Movement, error) {
	inEdge, err := vertex.InEdge(upVertexID)
	if err != nil {
		return nil, err
	}
	return inEdge.OutMovement(downVertexID)
}

func (vertex *Vertex) HasMovement(upVertexID, downVertexID VertexID) bool {
	_, err := vertex.Movement(upVertexID, downVertexID)
	return err == nil
}

// Movements returns all permitted movements through the vertex
func (vertex *Vertex) Movements() []*Movement {
	movements := make([]*Movement, 0)
	for _, inEdge := range vertex.incidentEdges {
		movements = append(movements, inEdge.outMovements...)
	}
	return movements
}

// NumMovements returns number of permitted movements through the vertex
func (vertex *Vertex) NumMovements() int {
	n := 0
	for _, inEdge := range vertex.incidentEdges {
		n += len(inEdge.outMovements)
	}
	return n
}

// OutEdges returns emanating edges in clockwise order
func (vertex *Vertex) OutEdges() []*Edge {
	return append([]*Edge(nil), vertex.emanatingEdges...)
}

// InEdges returns incident edges in counter-clockwise order
func (vertex *Vertex) InEdges() []*Edge {
	return append([]*Edge(nil), vertex.incidentEdges...)
}

// Edges returns emanating edges followed by incident ones
func (vertex *Vertex) Edges() []*Edge {
	edges := make([]*Edge, 0, vertex.NumAdjacentEdges())
	edges = append(edges, vertex.emanatingEdges...)
	return append(edges, vertex.incidentEdges...)
}

// SuccVertices returns vertices reachable by emanating edges
func (vertex *Vertex) SuccVertices() []*Vertex {
	vertices := make([]*Vertex, 0, len(vertex.emanatingEdges))
	for _, edge := range vertex.emanatingEdges {
		vertices = append(vertices, edge.endVertex)
	}
	return vertices
}

// PredVertices returns vertices having edges incident to this one
func (vertex *Vertex) PredVertices() []*Vertex {
	vertices := make([]*Vertex, 0, len(vertex.incidentEdges))
	for _, edge := range vertex.incidentEdges {
		vertices = append(vertices, edge.startVertex)
	}
	return vertices
}

// AdjacentVertices returns distinct successors and predecessors
func (vertex *Vertex) AdjacentVertices() []*Vertex {
	seen := make(map[VertexID]struct{})
	vertices := make([]*Vertex, 0)
	for _, v := range append(vertex.SuccVertices(), vertex.PredVertices()...) {
		if _, ok := seen[v.ID]; ok {
			continue
		}
		seen[v.ID] = struct{}{}
		vertices = append(vertices, v)
	}
	return vertices
}

func (vertex *Vertex) NumPredecessorVertices() int {
	return vertex.NumInEdges()
}

func (vertex *Vertex) NumSuccessorVertices() int {
	return vertex.NumOutEdges()
}

// IsJunction returns true if the vertex has exactly one emanating or exactly one incident edge
func (vertex *Vertex) IsJunction() bool {
	return vertex.NumOutEdges() == 1 || vertex.NumInEdges() == 1
}

// IsShapePoint returns true for pass-through vertices: 4 edges or 2 edges shared with exactly 2 vertices
func (vertex *Vertex) IsShapePoint() bool {
	adjacentEdges := vertex.NumAdjacentEdges()
	if adjacentEdges != 4 && adjacentEdges != 2 {
		return false
	}
	return vertex.NumAdjacentVertices() == 2
}

func (vertex *Vertex) IsIntersection() bool {
	return !vertex.IsJunction()
}

func (vertex *Vertex) IsIncoming(edge *Edge) bool {
	return indexOfEdge(vertex.incidentEdges, edge.ID) >= 0
}

func (vertex *Vertex) IsOutgoing(edge *Edge) bool {
	return indexOfEdge(vertex.emanatingEdges, edge.ID) >= 0
}

// Orientation returns bearing of the point as seen from the vertex: degrees clockwise from the north
func (vertex *Vertex) Orientation(point orb.Point) float64 {
	return bearing(vertex.geom, point)
}

func indexOfEdge(edges []*Edge, id EdgeID) int {
	for i, edge := range edges {
		if edge.ID == id {
			return i
		}
	}
	return -1
}

func insertEdge(edges []*Edge, position int, edge *Edge) []*Edge {
	edges = append(edges, nil)
	copy(edges[position+1:], edges[position:])
	edges[position] = edge
	return edges
}
