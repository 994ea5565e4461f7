package roadnet

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
)

// MovementID is identifier of a turning movement: upstream vertex, vertex the movement passes through and downstream vertex
type MovementID struct {
	Upstream   VertexID
	Through    VertexID
	Downstream VertexID
}

func (id MovementID) String() string {
	return fmt.Sprintf("%s %s %s", id.Upstream, id.Through, id.Downstream)
}

// Movement is a permitted transition from an inbound edge to an outbound edge through their shared vertex
type Movement struct {
	inEdge                *Edge
	outEdge               *Edge
	timeVaryingCosts      []float64
	timeVaryingStepInMin  int
	penalty               float64
	numLanes              int
	ID                    MovementID
	movementType          MovementType
	movementCompositeType MovementCompositeType
	sim                   SimulationWindow
	obsCount              TimeSeries
	simVolume             TimeSeries
	simMeanTT             TimeSeries
}

// NewMovement returns movement from inbound edge to outbound edge. Edges must share a vertex: inEdge end is outEdge start
func NewMovement(inEdge, outEdge *Edge, numLanes int) (*Movement, error) {
	if inEdge == nil || outEdge == nil {
		return nil, structureErrorf("movement can't be created for nil edge")
	}
	if inEdge.endVertex != outEdge.startVertex {
		return nil, structureErrorf("edges %s and %s are not connected", inEdge.ID, outEdge.ID)
	}
	if numLanes <= 0 {
		return nil, structureErrorf("movement %s %s %s has invalid number of lanes %d", inEdge.ID.Start, inEdge.ID.End, outEdge.ID.End, numLanes)
	}
	id := MovementID{Upstream: inEdge.ID.Start, Through: inEdge.ID.End, Downstream: outEdge.ID.End}
	movementType := movementTypeByAngle(inEdge.AngleClockwise(outEdge), id.Upstream == id.Downstream)
	return &Movement{
		inEdge:                inEdge,
		outEdge:               outEdge,
		numLanes:              numLanes,
		ID:                    id,
		movementType:          movementType,
		movementCompositeType: movementCompositeTypeOf(inEdge.Geometry(), movementType),
		sim:                   inEdge.sim,
		obsCount:              make(TimeSeries),
		simVolume:             make(TimeSeries),
		simMeanTT:             make(TimeSeries),
	}, nil
}

func (movement *Movement) String() string {
	return movement.ID.String()
}

func (movement *Movement) InEdge() *Edge {
	return movement.inEdge
}

func (movement *Movement) OutEdge() *Edge {
	return movement.outEdge
}

// Vertex returns vertex the movement passes through
func (movement *Movement) Vertex() *Vertex {
	return movement.inEdge.endVertex
}

func (movement *Movement) NumLanes() int {
	return movement.numLanes
}

func (movement *Movement) TurnType() MovementType {
	return movement.movementType
}

func (movement *Movement) CompositeType() MovementCompositeType {
	return movement.movementCompositeType
}

func (movement *Movement) IsUTurn() bool {
	return movement.movementType == MOVEMENT_U_TURN
}

// IsLeftTurn returns true for both left and sharp left movements
func (movement *Movement) IsLeftTurn() bool {
	return movement.movementType == MOVEMENT_LEFT || movement.movementType == MOVEMENT_SHARP_LEFT
}

// IsRightTurn returns true for both right and sharp right movements
func (movement *Movement) IsRightTurn() bool {
	return movement.movementType == MOVEMENT_RIGHT || movement.movementType == MOVEMENT_SHARP_RIGHT
}

func (movement *Movement) IsThruTurn() bool {
	return movement.movementType == MOVEMENT_THRU
}

// Geometry returns short segment connecting inbound edge (indented from its end) and outbound edge (indented from its start)
func (movement *Movement) Geometry() orb.LineString {
	return movementGeomBetweenLines(movement.inEdge.Geometry(), movement.outEdge.Geometry())
}

// clockwiseOffset returns angle in degrees [0; 360) measured clockwise from the inbound edge (as seen from the vertex)
// to the outbound edge. U-turn gives 0
func (movement *Movement) clockwiseOffset() float64 {
	vertex := movement.Vertex()
	offset := vertex.Orientation(movement.outEdge.endVertex.geom) - vertex.Orientation(movement.inEdge.startVertex.geom)
	if offset < 0 {
		offset += 360
	}
	return offset
}

// IsConflicting returns true if paths of two movements through the same vertex cross or merge
func (movement *Movement) IsConflicting(other *Movement) (bool, error) {
	if other == nil || movement.ID.Through != other.ID.Through {
		return false, structureErrorf("movements %s and %v do not pass through the same vertex", movement.ID, other)
	}
	if movement.inEdge == other.inEdge {
		return false, nil
	}
	if movement.outEdge == other.outEdge {
		return true, nil
	}
	edges := movement.Vertex().edgesClockwise
	a1, a2 := indexOfEdge(edges, movement.inEdge.ID), indexOfEdge(edges, movement.outEdge.ID)
	b1, b2 := indexOfEdge(edges, other.inEdge.ID), indexOfEdge(edges, other.outEdge.ID)
	if a1 < 0 || a2 < 0 || b1 < 0 || b2 < 0 {
		return false, structureErrorf("movements %s and %s are not attached to vertex %s", movement.ID, other.ID, movement.ID.Through)
	}
	return chordsInterleave(a1, a2, b1, b2), nil
}

// chordsInterleave returns true if exactly one end of chord (b1, b2) lies strictly between ends of chord (a1, a2)
func chordsInterleave(a1, a2, b1, b2 int) bool {
	lo, hi := a1, a2
	if lo > hi {
		lo, hi = hi, lo
	}
	inside := func(x int) bool {
		return lo < x && x < hi
	}
	return inside(b1) != inside(b2)
}

// movementTypeByAngle classifies movement by angle [0; 360) between directions of inbound and outbound edges
func movementTypeByAngle(angle float64, isUTurn bool) MovementType {
	switch {
	case isUTurn:
		return MOVEMENT_U_TURN
	case angle >= 135 && angle < 180:
		return MOVEMENT_SHARP_LEFT
	case angle >= 45 && angle < 135:
		return MOVEMENT_LEFT
	case (angle >= 0 && angle < 45) || (angle >= 315 && angle < 360):
		return MOVEMENT_THRU
	case angle >= 225 && angle < 315:
		return MOVEMENT_RIGHT
	default:
		return MOVEMENT_SHARP_RIGHT
	}
}

// movementCompositeTypeOf returns approach direction of inbound line combined with the turn
//
// Note: panics if number of points in line is less than 2
//
func movementCompositeTypeOf(l1 orb.LineString, movementType MovementType) MovementCompositeType {
	startL1, endL1 := l1[0], l1[len(l1)-1]
	var direction string
	angle1 := math.Atan2(endL1.Y()-startL1.Y(), endL1.X()-startL1.X())
	if -0.75*math.Pi <= angle1 && angle1 < -0.25*math.Pi {
		direction = "SB"
	} else if -0.25*math.Pi <= angle1 && angle1 < 0.25*math.Pi {
		direction = "EB"
	} else if 0.25*math.Pi <= angle1 && angle1 < 0.75*math.Pi {
		direction = "NB"
	} else {
		direction = "WB"
	}
	var movement string
	switch movementType {
	case MOVEMENT_THRU:
		movement = "T"
	case MOVEMENT_RIGHT, MOVEMENT_SHARP_RIGHT:
		movement = "R"
	case MOVEMENT_LEFT, MOVEMENT_SHARP_LEFT:
		movement = "L"
	case MOVEMENT_U_TURN:
		movement = "U"
	default:
		return MOVEMENT_NONE
	}
	return movementTxt[direction+movement]
}

// movementGeomBetweenLines returns movement geometry for given lines pair
//
// Note: panics if number of points in any line is less than 2
//
func movementGeomBetweenLines(l1 orb.LineString, l2 orb.LineString) orb.LineString {
	start1, end1 := l1[0], l1[len(l1)-1]
	indent1 := indentationThreshold
	length1 := findDistance(start1, end1)
	if length1 <= indent1 {
		indent1 = length1 / 2.0
	}
	point1 := pointOnSegment(start1, end1, length1-indent1) // Indent from link end

	start2, end2 := l2[0], l2[len(l2)-1]
	indent2 := indentationThreshold
	length2 := findDistance(start2, end2)
	if length2 <= indent2 {
		indent2 = length2 / 2.0
	}
	point2 := pointOnSegment(start2, end2, indent2)
	return orb.LineString{point1, point2}
}

const (
	// feet
	indentationThreshold = 25.0
)

type MovementType uint16

const (
	MOVEMENT_THRU = MovementType(iota + 1)
	MOVEMENT_RIGHT
	MOVEMENT_LEFT
	MOVEMENT_U_TURN
	MOVEMENT_SHARP_RIGHT
	MOVEMENT_SHARP_LEFT

	MOVEMENT_UNDEFINED = MovementType(0)
)

func (iotaIdx MovementType) String() string {
	return [...]string{"undefined", "thru", "right", "left", "uturn", "sharp_right", "sharp_left"}[iotaIdx]
}

type MovementCompositeType uint16

const (
	MOVEMENT_SBT = MovementCompositeType(iota + 1)
	MOVEMENT_SBR
	MOVEMENT_SBL
	MOVEMENT_SBU
	MOVEMENT_EBT
	MOVEMENT_EBR
	MOVEMENT_EBL
	MOVEMENT_EBU
	MOVEMENT_NBT
	MOVEMENT_NBR
	MOVEMENT_NBL
	MOVEMENT_NBU
	MOVEMENT_WBT
	MOVEMENT_WBR
	MOVEMENT_WBL
	MOVEMENT_WBU
	MOVEMENT_NONE = MovementCompositeType(0)
)

var (
	movementTxt = map[string]MovementCompositeType{
		"SBT": MOVEMENT_SBT,
		"SBR": MOVEMENT_SBR,
		"SBL": MOVEMENT_SBL,
		"SBU": MOVEMENT_SBU,
		"EBT": MOVEMENT_EBT,
		"EBR": MOVEMENT_EBR,
		"EBL": MOVEMENT_EBL,
		"EBU": MOVEMENT_EBU,
		"NBT": MOVEMENT_NBT,
		"NBR": MOVEMENT_NBR,
		"NBL": MOVEMENT_NBL,
		"NBU": MOVEMENT_NBU,
		"WBT": MOVEMENT_WBT,
		"WBR": MOVEMENT_WBR,
		"WBL": MOVEMENT_WBL,
		"WBU": MOVEMENT_WBU,
	}
)

func (iotaIdx MovementCompositeType) String() string {
	return [...]string{"undefined", "SBT", "SBR", "SBL", "SBU", "EBT", "EBR", "EBL", "EBU", "NBT", "NBR", "NBL", "NBU", "WBT", "WBR", "WBL", "WBU"}[iotaIdx]
}
