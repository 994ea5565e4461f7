package roadnet

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMovementTurnTypes(t *testing.T) {
	graph := newTestNetwork(t)
	tests := []struct {
		up, through, down VertexID
		movementType      MovementType
		compositeType     MovementCompositeType
	}{
		{"1", "5", "4", MOVEMENT_THRU, MOVEMENT_EBT},
		{"1", "5", "2", MOVEMENT_LEFT, MOVEMENT_EBL},
		{"1", "5", "3", MOVEMENT_RIGHT, MOVEMENT_EBR},
		{"2", "5", "3", MOVEMENT_THRU, MOVEMENT_SBT},
		{"2", "5", "4", MOVEMENT_LEFT, MOVEMENT_SBL},
		{"4", "5", "2", MOVEMENT_RIGHT, MOVEMENT_WBR},
		{"3", "5", "1", MOVEMENT_LEFT, MOVEMENT_NBL},
	}
	for _, test := range tests {
		movement := mustMovement(t, graph, test.up, test.through, test.down)
		assert.Equal(t, test.movementType, movement.TurnType(), movement.ID.String())
		assert.Equal(t, test.compositeType, movement.CompositeType(), movement.ID.String())
	}

	thru := mustMovement(t, graph, "1", "5", "4")
	assert.True(t, thru.IsThruTurn())
	assert.False(t, thru.IsLeftTurn())
	assert.Equal(t, "thru", thru.TurnType().String())
	assert.Equal(t, "EBT", thru.CompositeType().String())
	assert.Equal(t, mustVertex(t, graph, "5"), thru.Vertex())
	assert.Equal(t, 1, thru.NumLanes())
}

func TestMovementTypeByAngle(t *testing.T) {
	tests := []struct {
		angle    float64
		uTurn    bool
		expected MovementType
	}{
		{0, false, MOVEMENT_THRU},
		{44.9, false, MOVEMENT_THRU},
		{45, false, MOVEMENT_LEFT},
		{134.9, false, MOVEMENT_LEFT},
		{135, false, MOVEMENT_SHARP_LEFT},
		{179.9, false, MOVEMENT_SHARP_LEFT},
		{180, false, MOVEMENT_SHARP_RIGHT},
		{224.9, false, MOVEMENT_SHARP_RIGHT},
		{225, false, MOVEMENT_RIGHT},
		{314.9, false, MOVEMENT_RIGHT},
		{315, false, MOVEMENT_THRU},
		{90, true, MOVEMENT_U_TURN},
	}
	for _, test := range tests {
		assert.Equal(t, test.expected, movementTypeByAngle(test.angle, test.uTurn), "angle %f", test.angle)
	}

	nearlyStraight := angleClockwise(orb.LineString{{0, 0}, {1e6, 1e-10}}, orb.LineString{{1e6, 1e-10}, {2e6, 1e-10}})
	assert.Equal(t, MOVEMENT_THRU, movementTypeByAngle(nearlyStraight, false))
}

func TestMovementNearlyStraight(t *testing.T) {
	graph, err := NewGraph("straight", 0, 60, 5)
	require.NoError(t, err)
	require.NoError(t, graph.AddVertex(NewVertex("1", 0, 0)))
	require.NoError(t, graph.AddVertex(NewVertex("2", 1e6, 1e-10)))
	require.NoError(t, graph.AddVertex(NewVertex("3", 2e6, 1e-10)))
	for _, pair := range [][2]VertexID{{"1", "2"}, {"2", "3"}} {
		edge, err := NewEdge(mustVertex(t, graph, pair[0]), mustVertex(t, graph, pair[1]), 1)
		require.NoError(t, err)
		require.NoError(t, graph.AddEdge(edge))
	}
	movement, err := graph.AddMovement("1", "2", "3", 1)
	require.NoError(t, err)
	assert.Less(t, mustEdge(t, graph, "1", "2").AngleClockwise(mustEdge(t, graph, "2", "3")), 360.0)
	assert.Equal(t, MOVEMENT_THRU, movement.TurnType())
}

func TestMovementUTurn(t *testing.T) {
	graph := newTestGraph(t)
	movement, err := graph.AddMovement("1", "5", "1", 1)
	require.NoError(t, err)
	assert.True(t, movement.IsUTurn())
	assert.Equal(t, MOVEMENT_EBU, movement.CompositeType())
	assert.Equal(t, "1 5 1", movement.ID.String())
}

func TestMovementSimulation(t *testing.T) {
	graph := newTestNetwork(t)
	movement := mustMovement(t, graph, "1", "5", "4")
	for i, volume := range []float64{1, 2, 3, 4} {
		require.NoError(t, movement.SetSimVolume(i*5, i*5+5, volume))
	}
	for i, tt := range []float64{1, 2, 3} {
		require.NoError(t, movement.SetSimTTInMin(i*5, i*5+5, tt))
	}

	flow, err := movement.SimFlow(0, 5)
	require.NoError(t, err)
	assert.InDelta(t, 12.0, flow, 1e-9)
	flow, err = movement.SimFlow(0, 10)
	require.NoError(t, err)
	assert.InDelta(t, 18.0, flow, 1e-9)
	flow, err = movement.SimFlow(0, 20)
	require.NoError(t, err)
	assert.InDelta(t, 30.0, flow, 1e-9)

	volume, err := movement.SimVolume(5, 10)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, volume, 1e-9)

	tt, err := movement.SimTTInMin(0, 10)
	require.NoError(t, err)
	assert.InDelta(t, 5.0/3.0, tt, 1e-9)

	_, err = movement.SimTTInMin(0, 30)
	assert.True(t, errors.Is(err, ErrTemporal))

	require.NoError(t, movement.SetSimTTInMin(15, 20, 4))
	tt, err = movement.SimTTInMin(0, 30)
	require.NoError(t, err)
	assert.InDelta(t, 3.0, tt, 1e-9)

	tt, err = movement.SimTTInMin(30, 60)
	require.NoError(t, err)
	assert.InDelta(t, movement.FreeFlowTTInMin(), tt, 1e-12)

	speed, err := movement.SimSpeedInMPH(0, 5)
	require.NoError(t, err)
	assert.InDelta(t, movement.InEdge().LengthInMiles()/(1.0/60.0), speed, 1e-9)
}

func TestMovementZeroVolumeDropsTT(t *testing.T) {
	graph := newTestNetwork(t)
	movement := mustMovement(t, graph, "1", "5", "4")
	require.NoError(t, movement.SetPenalty(0.5))
	require.NoError(t, movement.SetSimVolume(0, 5, 5))
	require.NoError(t, movement.SetSimTTInMin(0, 5, 2))
	require.NoError(t, movement.SetSimVolume(0, 5, 0))

	for _, window := range [][2]int{{0, 5}, {0, 10}} {
		tt, err := movement.SimTTInMin(window[0], window[1])
		require.NoError(t, err, "window %v", window)
		assert.InDelta(t, movement.FreeFlowTTInMin()+0.5, tt, 1e-12, "window %v", window)
	}

	// Volume is back but travel time has to be set again
	require.NoError(t, movement.SetSimVolume(0, 5, 5))
	_, err := movement.SimTTInMin(0, 5)
	assert.True(t, errors.Is(err, ErrTemporal))
	require.NoError(t, movement.SetSimTTInMin(0, 5, 3))
	tt, err := movement.SimTTInMin(0, 10)
	require.NoError(t, err)
	assert.InDelta(t, 3.5, tt, 1e-9)
}

func TestMovementSetSimTTRules(t *testing.T) {
	graph := newTestNetwork(t)
	movement := mustMovement(t, graph, "2", "5", "3")

	assert.True(t, errors.Is(movement.SetSimTTInMin(0, 5, 2), ErrTemporal), "travel time without flow")
	require.NoError(t, movement.SetSimTTInMin(0, 5, 0), "zero travel time without flow is ignored")
	assert.True(t, errors.Is(movement.SetSimTTInMin(0, 5, -1), ErrTemporal))

	require.NoError(t, movement.SetSimVolume(0, 5, 3))
	assert.True(t, errors.Is(movement.SetSimTTInMin(0, 5, 0), ErrTemporal), "zero travel time with flow")
	assert.True(t, errors.Is(movement.SetSimVolume(0, 5, -3), ErrTemporal))
	assert.True(t, errors.Is(movement.SetSimVolume(0, 10, 3), ErrTemporal))
	assert.True(t, errors.Is(movement.SetSimVolume(-5, 0, 3), ErrTemporal))
}

func TestMovementPenalty(t *testing.T) {
	graph := newTestNetwork(t)
	movement := mustMovement(t, graph, "1", "5", "2")
	require.NoError(t, movement.SetPenalty(0.5))
	assert.Equal(t, 0.5, movement.Penalty())
	assert.True(t, errors.Is(movement.SetPenalty(-1), ErrStructure))

	tt, err := movement.SimTTInMin(0, 60)
	require.NoError(t, err)
	assert.InDelta(t, movement.FreeFlowTTInMin()+0.5, tt, 1e-12)

	require.NoError(t, movement.SetSimVolume(0, 5, 10))
	require.NoError(t, movement.SetSimTTInMin(0, 5, 2))
	tt, err = movement.SimTTInMin(0, 5)
	require.NoError(t, err)
	assert.InDelta(t, 2.5, tt, 1e-12)
	tt, err = movement.SimTTInMin(0, 10)
	require.NoError(t, err)
	assert.InDelta(t, 2.5, tt, 1e-12)
}

func TestMovementTimeVaryingCosts(t *testing.T) {
	graph := newTestNetwork(t)
	movement := mustMovement(t, graph, "1", "5", "2")
	_, err := movement.TimeVaryingCostAt(0)
	assert.True(t, errors.Is(err, ErrTemporal))

	assert.True(t, errors.Is(movement.SetTimeVaryingCosts([]float64{1, 0}, 15), ErrStructure))
	assert.True(t, errors.Is(movement.SetTimeVaryingCosts([]float64{1, 2}, 0), ErrTemporal))

	require.NoError(t, movement.SetTimeVaryingCosts([]float64{1, 2, 3, 4}, 15))
	assert.Equal(t, 15, movement.TimeVaryingCostTimeStep())
	cost, err := movement.TimeVaryingCostAt(0)
	require.NoError(t, err)
	assert.Equal(t, 1.0, cost)
	cost, err = movement.TimeVaryingCostAt(29)
	require.NoError(t, err)
	assert.Equal(t, 2.0, cost)
	cost, err = movement.TimeVaryingCostAt(59)
	require.NoError(t, err)
	assert.Equal(t, 4.0, cost)
	_, err = movement.TimeVaryingCostAt(60)
	assert.True(t, errors.Is(err, ErrTemporal))
}

func TestMovementObsCount(t *testing.T) {
	graph := newTestNetwork(t)
	movement := mustMovement(t, graph, "1", "5", "4")
	assert.False(t, movement.HasCountInfo())

	require.NoError(t, movement.SetObsCount(0, 15, 30))
	require.NoError(t, movement.SetObsCount(15, 30, 40))
	count, ok, err := movement.ObsCount(0, 30)
	require.NoError(t, err)
	require.True(t, ok)
	assert.InDelta(t, 70.0, count, 1e-9)

	has, err := movement.HasObsCount(0, 5)
	require.NoError(t, err)
	assert.False(t, has)
	assert.True(t, movement.HasCountInfo())
	assert.Equal(t, []TimeWindow{{0, 15}, {15, 30}}, movement.CountPeriods(0))
	assert.Len(t, movement.CountPeriods(5), 6)
	assert.Equal(t, TimeSeries{{0, 15}: 30, {15, 30}: 40}, movement.Counts())
	assert.True(t, errors.Is(movement.SetObsCount(0, 5, -2), ErrTemporal))
}

func TestMovementConflicts(t *testing.T) {
	graph := newTestNetwork(t)
	tests := []struct {
		a, b     [3]VertexID
		conflict bool
	}{
		{[3]VertexID{"1", "5", "4"}, [3]VertexID{"4", "5", "1"}, false},
		{[3]VertexID{"1", "5", "4"}, [3]VertexID{"2", "5", "3"}, true},
		{[3]VertexID{"1", "5", "2"}, [3]VertexID{"4", "5", "1"}, true},
		{[3]VertexID{"1", "5", "3"}, [3]VertexID{"4", "5", "1"}, false},
		{[3]VertexID{"1", "5", "3"}, [3]VertexID{"2", "5", "3"}, true},
		{[3]VertexID{"1", "5", "3"}, [3]VertexID{"1", "5", "2"}, false},
	}
	for _, test := range tests {
		a := mustMovement(t, graph, test.a[0], test.a[1], test.a[2])
		b := mustMovement(t, graph, test.b[0], test.b[1], test.b[2])
		conflict, err := a.IsConflicting(b)
		require.NoError(t, err)
		assert.Equal(t, test.conflict, conflict, "%s vs %s", a.ID, b.ID)
		conflict, err = b.IsConflicting(a)
		require.NoError(t, err)
		assert.Equal(t, test.conflict, conflict, "%s vs %s", b.ID, a.ID)
	}

	_, err := mustMovement(t, graph, "1", "5", "4").IsConflicting(mustMovement(t, graph, "5", "4", "7"))
	assert.True(t, errors.Is(err, ErrStructure))
}

func TestMovementGeometry(t *testing.T) {
	graph := newTestNetwork(t)
	geom := mustMovement(t, graph, "1", "5", "2").Geometry()
	require.Len(t, geom, 2)
	assert.InDelta(t, 75.0, geom[0].X(), 1e-9)
	assert.InDelta(t, 100.0, geom[0].Y(), 1e-9)
	assert.InDelta(t, 100.0, geom[1].X(), 1e-9)
	assert.InDelta(t, 125.0, geom[1].Y(), 1e-9)
}
