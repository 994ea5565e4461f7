package roadnet

import (
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadTimeVaryingEdgeAttribute(t *testing.T) {
	graph := newTestNetwork(t)
	data := `start,end,v0,v1,v2,v3
1,5,10,20,30,40
5,4,1,2,3,4
1,7,1,1,1,1
`
	report, err := graph.ReadTimeVaryingEdgeAttribute(strings.NewReader(data), "capacity", 0, 60, 15, WithHeader(true))
	require.NoError(t, err)
	assert.Equal(t, 3, report.RowsRead)
	assert.Equal(t, 2, report.RowsApplied)
	require.Len(t, report.Skipped, 1)
	assert.Equal(t, "1 7", report.Skipped[0].Key)

	values, ok := graph.EdgeAttribute("capacity", EdgeID{Start: "1", End: "5"})
	require.True(t, ok)
	assert.Equal(t, TimeSeries{{0, 15}: 10, {15, 30}: 20, {30, 45}: 30, {45, 60}: 40}, values)

	_, err = graph.ReadTimeVaryingEdgeAttribute(strings.NewReader(data), "capacity", 0, 60, 15, WithHeader(true))
	assert.True(t, errors.Is(err, ErrStructure), "attribute already exists")
}

func TestReadTimeVaryingEdgeAttributeErrors(t *testing.T) {
	graph := newTestNetwork(t)
	_, err := graph.ReadTimeVaryingEdgeAttribute(strings.NewReader("1,5,1,2,3\n"), "short", 0, 60, 15)
	assert.True(t, errors.Is(err, ErrStructure), "wrong number of values")

	_, err = graph.ReadTimeVaryingEdgeAttribute(strings.NewReader(""), "step", 0, 60, 7)
	assert.True(t, errors.Is(err, ErrTemporal), "step is not a multiple of simulation step")
	_, err = graph.ReadTimeVaryingEdgeAttribute(strings.NewReader(""), "end", 0, 90, 15)
	assert.True(t, errors.Is(err, ErrTemporal), "end is out of simulation")

	_, err = graph.ReadTimeVaryingEdgeAttribute(strings.NewReader("1,5,a,2,3,4\n"), "parse", 0, 60, 15)
	assert.Error(t, err)
}

func TestReadTimeVaryingMovementAttribute(t *testing.T) {
	graph := newTestNetwork(t)
	_, err := graph.AddMovement("1", "5", "1", 1)
	require.NoError(t, err)
	data := `"1 5 4",5,6
"1 5 2",0,0
"1 5 1",3,3
"4 5 4",1,1
"1 5 7",1,1
"2 5 3",7,8
`
	report, err := graph.ReadTimeVaryingMovementAttribute(strings.NewReader(data), "green", 0, 60, 30, WithImportVerbose(true))
	require.NoError(t, err)
	assert.Equal(t, 6, report.RowsRead)
	assert.Equal(t, 2, report.RowsApplied)
	require.Len(t, report.Skipped, 4)
	reasons := make(map[string]string)
	for _, row := range report.Skipped {
		reasons[row.Key] = row.Reason
	}
	assert.Equal(t, "all values are zero", reasons["1 5 2"])
	assert.Equal(t, "U-turn", reasons["1 5 1"])
	assert.Equal(t, "self-referential movement does not exist", reasons["4 5 4"])
	assert.Equal(t, "movement does not exist", reasons["1 5 7"])

	values, ok := graph.MovementAttribute("green", MovementID{Upstream: "2", Through: "5", Downstream: "3"})
	require.True(t, ok)
	assert.Equal(t, TimeSeries{{0, 30}: 7, {30, 60}: 8}, values)

	_, err = graph.ReadTimeVaryingMovementAttribute(strings.NewReader(`"1 5",1,1`+"\n"), "bad", 0, 60, 30)
	assert.True(t, errors.Is(err, ErrStructure))
}

func TestReadMovementVolumesAndTTs(t *testing.T) {
	graph := newTestNetwork(t)
	flows := `1 5 4 12 0 6 24
2 5 3 3
9 9 9 1
`
	times := `1 5 4 1.5 0 2 0
2 5 3 0.5
9 9 9 1
`
	report, err := graph.ReadMovementVolumesAndTTs(strings.NewReader(flows), strings.NewReader(times), WithMinimalTravelTime(0.05))
	require.NoError(t, err)
	assert.Equal(t, 3, report.RowsRead)
	assert.Equal(t, 2, report.RowsApplied)
	require.Len(t, report.Skipped, 1)

	movement := mustMovement(t, graph, "1", "5", "4")
	volume, err := movement.SimVolume(0, 20)
	require.NoError(t, err)
	assert.InDelta(t, 42.0, volume, 1e-9)

	tt, err := movement.SimTTInMin(0, 5)
	require.NoError(t, err)
	assert.InDelta(t, 1.5, tt, 1e-9)
	tt, err = movement.SimTTInMin(15, 20)
	require.NoError(t, err)
	assert.InDelta(t, 0.05, tt, 1e-9)
	tt, err = movement.SimTTInMin(0, 20)
	require.NoError(t, err)
	assert.InDelta(t, (12*1.5+6*2+24*0.05)/42.0, tt, 1e-9)

	tt, err = mustMovement(t, graph, "2", "5", "3").SimTTInMin(0, 5)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, tt, 1e-9)
}

func TestReadMovementVolumesAndTTsErrors(t *testing.T) {
	graph := newTestNetwork(t)
	_, err := graph.ReadMovementVolumesAndTTs(strings.NewReader("1 5 4 0 3\n"), strings.NewReader("1 5 4 2 3\n"))
	assert.True(t, errors.Is(err, ErrTemporal), "travel time without flow")

	_, err = graph.ReadMovementVolumesAndTTs(strings.NewReader("1 5 4 1\n"), strings.NewReader("1 5 2 1\n"))
	assert.True(t, errors.Is(err, ErrTemporal), "streams are not in sync")
}
