package roadnet

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPath(t *testing.T) {
	graph := newTestNetwork(t)
	path, err := NewPathFromVertices("east", graph, []VertexID{"1", "5", "4", "7"})
	require.NoError(t, err)
	assert.Equal(t, "1 5 4 7", path.String())
	assert.Equal(t, "east", path.Name())
	assert.Equal(t, 3, path.NumEdges())
	assert.InDelta(t, 300.0/5280.0, path.LengthInMiles(), 1e-12)
	assert.Equal(t, "1 5", path.FirstEdge().ID.String())
	assert.Equal(t, "4 7", path.LastEdge().ID.String())
	assert.Equal(t, VertexID("1"), path.FirstVertex().ID)
	assert.Equal(t, VertexID("7"), path.LastVertex().ID)
	assert.Len(t, path.Vertices(), 4)
	assert.Len(t, path.Edges(), 3)

	_, err = NewPath("empty", nil)
	assert.True(t, errors.Is(err, ErrStructure))
	_, err = NewPath("gap", []*Edge{mustEdge(t, graph, "1", "5"), mustEdge(t, graph, "4", "7")})
	assert.True(t, errors.Is(err, ErrStructure))
	_, err = NewPath("uturn", []*Edge{mustEdge(t, graph, "1", "5"), mustEdge(t, graph, "5", "1")})
	assert.True(t, errors.Is(err, ErrStructure), "no movement between edges")
	_, err = NewPathFromVertices("missing", graph, []VertexID{"1", "4"})
	assert.True(t, errors.Is(err, ErrStructure))
}

func TestPathSimTT(t *testing.T) {
	graph := newTestNetwork(t)
	path, err := NewPathFromVertices("east", graph, []VertexID{"1", "5", "4", "7"})
	require.NoError(t, err)
	freeFlow := 100.0 / 5280.0 / 50.0 * 60.0

	tt, err := path.AverageSimTTInMin(0, 5)
	require.NoError(t, err)
	assert.InDelta(t, 3*freeFlow, tt, 1e-12)

	movement := mustMovement(t, graph, "1", "5", "4")
	require.NoError(t, movement.SetSimVolume(0, 5, 10))
	require.NoError(t, movement.SetSimTTInMin(0, 5, 2))
	tt, err = path.AverageSimTTInMin(0, 5)
	require.NoError(t, err)
	assert.InDelta(t, 2+2*freeFlow, tt, 1e-12)

	speed, err := path.AverageSimSpeedInMPH(0, 5)
	require.NoError(t, err)
	assert.InDelta(t, path.LengthInMiles()/((2+2*freeFlow)/60.0), speed, 1e-9)

	// Last edge with a through movement uses its travel time
	single, err := NewPath("single", []*Edge{mustEdge(t, graph, "1", "5")})
	require.NoError(t, err)
	tt, err = single.AverageSimTTInMin(0, 5)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, tt, 1e-12)

	_, err = path.AverageSimTTInMin(0, 7)
	assert.True(t, errors.Is(err, ErrTemporal))
}

func TestPathObsTT(t *testing.T) {
	graph := newTestNetwork(t)
	path, err := NewPathFromVertices("east", graph, []VertexID{"1", "5", "4", "7"})
	require.NoError(t, err)

	_, err = path.ObsTTInMin(0, 15)
	assert.True(t, errors.Is(err, ErrTemporal))
	require.NoError(t, path.SetObsTTInMin(0, 15, 1.5))
	tt, err := path.ObsTTInMin(0, 15)
	require.NoError(t, err)
	assert.Equal(t, 1.5, tt)
	speed, err := path.AverageObsSpeedInMPH(0, 15)
	require.NoError(t, err)
	assert.InDelta(t, path.LengthInMiles()/(1.5/60.0), speed, 1e-12)

	assert.True(t, errors.Is(path.SetObsTTInMin(0, 15, 0), ErrTemporal))
	assert.True(t, errors.Is(path.SetObsTTInMin(0, 65, 1), ErrTemporal))
}
