package roadnet

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/pkg/errors"
)

/* Edges stuff */

// EdgeID is identifier of a directed edge: pair of its endpoints
type EdgeID struct {
	Start VertexID
	End   VertexID
}

func (id EdgeID) String() string {
	return fmt.Sprintf("%s %s", id.Start, id.End)
}

const (
	DEFAULT_FREE_FLOW_SPEED_MPH = 50.0
)

// EdgeDataMode tells where volume and travel time of an edge live
type EdgeDataMode uint16

const (
	// EDGE_DATA_UNATTACHED - no outbound movements, edge stores its own volume and travel time (boundary edge)
	EDGE_DATA_UNATTACHED = EdgeDataMode(iota + 1)
	// EDGE_DATA_HAS_MOVEMENTS - volume and travel time are aggregated from outbound movements
	EDGE_DATA_HAS_MOVEMENTS
)

func (iotaIdx EdgeDataMode) String() string {
	return [...]string{"undefined", "unattached", "has_movements"}[iotaIdx]
}

// Edge is a directed road link between two vertices
type Edge struct {
	name               string
	startVertex        *Vertex
	endVertex          *Vertex
	outMovements       []*Movement
	inMovements        []*Movement
	lengthInFeet       float64
	lengthInMiles      float64
	freeFlowSpeedInMPH float64
	numLanes           int
	ID                 EdgeID
	dataMode           EdgeDataMode
	sim                SimulationWindow
	obsCount           TimeSeries
	obsMeanTT          TimeSeries
	simVolume          TimeSeries
	simMeanTT          TimeSeries
}

// NewEdge returns edge from start vertex to end vertex. Length is the Euclidean distance between vertices (feet)
func NewEdge(startVertex, endVertex *Vertex, numLanes int) (*Edge, error) {
	if startVertex == nil || endVertex == nil {
		return nil, structureErrorf("edge can't be created for nil vertex")
	}
	if startVertex.ID == endVertex.ID {
		return nil, structureErrorf("edge can't start and end at the same vertex %s", startVertex.ID)
	}
	if numLanes <= 0 {
		return nil, structureErrorf("edge %s %s has invalid number of lanes %d", startVertex.ID, endVertex.ID, numLanes)
	}
	lengthInFeet := findDistance(startVertex.geom, endVertex.geom)
	return &Edge{
		startVertex:        startVertex,
		endVertex:          endVertex,
		outMovements:       make([]*Movement, 0),
		inMovements:        make([]*Movement, 0),
		lengthInFeet:       lengthInFeet,
		lengthInMiles:      lengthInFeet / feetInMile,
		freeFlowSpeedInMPH: DEFAULT_FREE_FLOW_SPEED_MPH,
		numLanes:           numLanes,
		ID:                 EdgeID{Start: startVertex.ID, End: endVertex.ID},
		dataMode:           EDGE_DATA_UNATTACHED,
		obsCount:           make(TimeSeries),
		obsMeanTT:          make(TimeSeries),
		simVolume:          make(TimeSeries),
		simMeanTT:          make(TimeSeries),
	}, nil
}

func (edge *Edge) String() string {
	return edge.ID.String()
}

func (edge *Edge) StartVertex() *Vertex {
	return edge.startVertex
}

func (edge *Edge) EndVertex() *Vertex {
	return edge.endVertex
}

func (edge *Edge) NumLanes() int {
	return edge.numLanes
}

func (edge *Edge) LengthInFeet() float64 {
	return edge.lengthInFeet
}

func (edge *Edge) LengthInMiles() float64 {
	return edge.lengthInMiles
}

func (edge *Edge) Name() string {
	return edge.name
}

func (edge *Edge) SetName(name string) {
	edge.name = name
}

func (edge *Edge) DataMode() EdgeDataMode {
	return edge.dataMode
}

// SimulationWindow returns simulation window the edge was attached with (zero value for edges out of any graph)
func (edge *Edge) SimulationWindow() SimulationWindow {
	return edge.sim
}

func (edge *Edge) FreeFlowSpeedInMPH() float64 {
	return edge.freeFlowSpeedInMPH
}

func (edge *Edge) SetFreeFlowSpeedInMPH(speed float64) error {
	if speed <= 0 {
		return structureErrorf("edge %s: free flow speed %f must be positive", edge.ID, speed)
	}
	edge.freeFlowSpeedInMPH = speed
	return nil
}

// FreeFlowTTInMin returns travel time at free flow speed
func (edge *Edge) FreeFlowTTInMin() float64 {
	return edge.lengthInMiles / edge.freeFlowSpeedInMPH * 60.0
}

// Geometry returns straight line from start vertex to end vertex
func (edge *Edge) Geometry() orb.LineString {
	return orb.LineString{edge.startVertex.geom, edge.endVertex.geom}
}

func (edge *Edge) Midpoint() orb.Point {
	return middlePointSegment(edge.startVertex.geom, edge.endVertex.geom)
}

// Orientation returns bearing of the edge (start -> end)
func (edge *Edge) Orientation() float64 {
	return bearing(edge.startVertex.geom, edge.endVertex.geom)
}

// CrossStreetNameAtStart returns name of the first other named edge adjacent to the start vertex
func (edge *Edge) CrossStreetNameAtStart() string {
	return edge.crossStreetName(edge.startVertex)
}

// CrossStreetNameAtEnd returns name of the first other named edge adjacent to the end vertex
func (edge *Edge) CrossStreetNameAtEnd() string {
	return edge.crossStreetName(edge.endVertex)
}

func (edge *Edge) crossStreetName(vertex *Vertex) string {
	for _, other := range vertex.edgesClockwise {
		if other.name != "" && other.name != edge.name {
			return other.name
		}
	}
	return ""
}

/* Geometric relations between edges sharing a vertex */

// configuration returns three points describing how two edges are connected: p1 is the shared vertex
func (edge *Edge) configuration(other *Edge) (orb.Point, orb.Point, orb.Point, error) {
	switch {
	case edge.startVertex == other.startVertex:
		return edge.endVertex.geom, edge.startVertex.geom, other.endVertex.geom, nil
	case edge.endVertex == other.endVertex:
		return edge.startVertex.geom, edge.endVertex.geom, other.startVertex.geom, nil
	case edge.endVertex == other.startVertex:
		return edge.startVertex.geom, edge.endVertex.geom, other.endVertex.geom, nil
	case edge.startVertex == other.endVertex:
		return edge.endVertex.geom, edge.startVertex.geom, other.startVertex.geom, nil
	}
	return orb.Point{}, orb.Point{}, orb.Point{}, structureErrorf("edges %s and %s do not share a vertex", edge.ID, other.ID)
}

// IsClockwise returns true if the edge is clockwise relative to the other one. Both edges must share a vertex
func (edge *Edge) IsClockwise(other *Edge) (bool, error) {
	if edge.ID == other.ID {
		return false, structureErrorf("edge %s can't be compared with itself", edge.ID)
	}
	p0, p1, p2, err := edge.configuration(other)
	if err != nil {
		return false, err
	}
	return turnDirection(p0, p1, p2) == TURN_CLOCKWISE, nil
}

func (edge *Edge) IsCounterClockwise(other *Edge) (bool, error) {
	clockwise, err := edge.IsClockwise(other)
	if err != nil {
		return false, err
	}
	return !clockwise, nil
}

// AcuteAngle returns angle in degrees [0; 180] between two edges at the shared vertex
func (edge *Edge) AcuteAngle(other *Edge) (float64, error) {
	p0, p1, p2, err := edge.configuration(other)
	if err != nil {
		return 0, err
	}
	angle, err := acuteAngle(p0, p1, p2)
	if err != nil {
		return 0, errors.Wrapf(ErrStructure, "edges %s and %s: %s", edge.ID, other.ID, err.Error())
	}
	return angle, nil
}

// AngleClockwise returns angle in degrees [0; 360) the direction of the other edge is rotated counter-clockwise from this one
func (edge *Edge) AngleClockwise(other *Edge) float64 {
	return angleClockwise(edge.Geometry(), other.Geometry())
}

/* Movements attached to edge */

// AddOutMovement attaches movement starting on this edge.
// Outbound movements are kept in clockwise order of their outbound edges starting from the reverse of this edge,
// inbound movements of the outbound edge are kept in counter-clockwise order of their inbound edges starting from it
func (edge *Edge) AddOutMovement(movement *Movement) error {
	if movement == nil {
		return structureErrorf("edge %s: nil movement", edge.ID)
	}
	if movement.inEdge != edge || movement.ID.Through != edge.ID.End {
		return structureErrorf("movement %s does not start on edge %s", movement.ID, edge.ID)
	}
	if edge.HasOutMovement(movement.ID.Downstream) {
		return structureErrorf("movement %s is already attached to edge %s", movement.ID, edge.ID)
	}
	if movement.numLanes <= 0 {
		return structureErrorf("movement %s has invalid number of lanes %d", movement.ID, movement.numLanes)
	}
	if edge.hasOwnSimData() {
		return structureErrorf("edge %s stores its own volume or travel time, movement %s can't be attached", edge.ID, movement.ID)
	}

	offset := movement.clockwiseOffset()
	outPosition := 0
	for _, existing := range edge.outMovements {
		if existing.clockwiseOffset() <= offset {
			outPosition++
		}
	}
	outEdge := movement.outEdge
	inPosition := 0
	for _, existing := range outEdge.inMovements {
		if existing.clockwiseOffset() <= offset {
			inPosition++
		}
	}

	edge.outMovements = insertMovement(edge.outMovements, outPosition, movement)
	outEdge.inMovements = insertMovement(outEdge.inMovements, inPosition, movement)
	edge.dataMode = EDGE_DATA_HAS_MOVEMENTS
	movement.sim = edge.sim
	return nil
}

// DeleteOutMovement detaches movement from this edge and from inbound list of its outbound edge
func (edge *Edge) DeleteOutMovement(movement *Movement) error {
	if movement == nil || movement.inEdge != edge {
		return structureErrorf("movement does not start on edge %s", edge.ID)
	}
	outIdx := indexOfMovement(edge.outMovements, movement.ID)
	if outIdx < 0 {
		return structureErrorf("movement %s is not attached to edge %s", movement.ID, edge.ID)
	}
	edge.outMovements = append(edge.outMovements[:outIdx], edge.outMovements[outIdx+1:]...)
	outEdge := movement.outEdge
	if inIdx := indexOfMovement(outEdge.inMovements, movement.ID); inIdx >= 0 {
		outEdge.inMovements = append(outEdge.inMovements[:inIdx], outEdge.inMovements[inIdx+1:]...)
	}
	if len(edge.outMovements) == 0 {
		edge.dataMode = EDGE_DATA_UNATTACHED
	}
	return nil
}

// OutMovement returns outbound movement heading to given vertex
func (edge *Edge) OutMovement(downVertexID VertexID) (*Movement, error) {
	for _, movement := range edge.outMovements {
		if movement.ID.Downstream == downVertexID {
			return movement, nil
		}
	}
	return nil, structureErrorf("edge %s does not have movement to vertex %s", edge.ID, downVertexID)
}

// InMovement returns inbound movement coming from given vertex
func (edge *Edge) InMovement(upVertexID VertexID) (*Movement, error) {
	for _, movement := range edge.inMovements {
		if movement.ID.Upstream == upVertexID {
			return movement, nil
		}
	}
	return nil, structureErrorf("edge %s does not have movement from vertex %s", edge.ID, upVertexID)
}

func (edge *Edge) HasOutMovement(downVertexID VertexID) bool {
	_, err := edge.OutMovement(downVertexID)
	return err == nil
}

func (edge *Edge) HasInMovement(upVertexID VertexID) bool {
	_, err := edge.InMovement(upVertexID)
	return err == nil
}

// OutMovements returns outbound movements in clockwise order of their outbound edges
func (edge *Edge) OutMovements() []*Movement {
	return append([]*Movement(nil), edge.outMovements...)
}

// InMovements returns inbound movements in counter-clockwise order of their inbound edges
func (edge *Edge) InMovements() []*Movement {
	return append([]*Movement(nil), edge.inMovements...)
}

func (edge *Edge) NumOutMovements() int {
	return len(edge.outMovements)
}

func (edge *Edge) NumInMovements() int {
	return len(edge.inMovements)
}

func (edge *Edge) turn(check func(*Movement) bool, name string) (*Movement, error) {
	for _, movement := range edge.outMovements {
		if check(movement) {
			return movement, nil
		}
	}
	return nil, structureErrorf("edge %s does not have a %s movement", edge.ID, name)
}

// LeftTurn returns the first left (or sharp left) movement
func (edge *Edge) LeftTurn() (*Movement, error) {
	return edge.turn((*Movement).IsLeftTurn, "left turn")
}

// ThruTurn returns the through movement
func (edge *Edge) ThruTurn() (*Movement, error) {
	return edge.turn((*Movement).IsThruTurn, "through")
}

// RightTurn returns the first right (or sharp right) movement
func (edge *Edge) RightTurn() (*Movement, error) {
	return edge.turn((*Movement).IsRightTurn, "right turn")
}

func (edge *Edge) HasLeftTurn() bool {
	_, err := edge.LeftTurn()
	return err == nil
}

func (edge *Edge) HasThruTurn() bool {
	_, err := edge.ThruTurn()
	return err == nil
}

func (edge *Edge) HasRightTurn() bool {
	_, err := edge.RightTurn()
	return err == nil
}

func (edge *Edge) hasOwnSimData() bool {
	return len(edge.simVolume) > 0 || len(edge.simMeanTT) > 0
}

func indexOfMovement(movements []*Movement, id MovementID) int {
	for i, movement := range movements {
		if movement.ID == id {
			return i
		}
	}
	return -1
}

func insertMovement(movements []*Movement, position int, movement *Movement) []*Movement {
	movements = append(movements, nil)
	copy(movements[position+1:], movements[position:])
	movements[position] = movement
	return movements
}
