package roadnet

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulationWindowValidation(t *testing.T) {
	sim, err := NewSimulationWindow(0, 60, 5)
	require.NoError(t, err)

	tests := []struct {
		name       string
		start, end int
		inputOK    bool
		outputOK   bool
	}{
		{"one step", 0, 5, true, true},
		{"several steps", 10, 30, false, true},
		{"not aligned length", 0, 7, false, false},
		{"empty", 5, 5, false, false},
		{"reversed", 10, 5, false, false},
		{"before start", -5, 0, false, false},
		{"after end", 55, 65, false, false},
		{"whole period", 0, 60, false, true},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			errInput := sim.validateInput(test.start, test.end)
			errOutput := sim.validateOutput(test.start, test.end)
			assert.Equal(t, test.inputOK, errInput == nil)
			assert.Equal(t, test.outputOK, errOutput == nil)
			if errInput != nil {
				assert.True(t, errors.Is(errInput, ErrTemporal))
			}
			if errOutput != nil {
				assert.True(t, errors.Is(errOutput, ErrTemporal))
			}
		})
	}

	assert.True(t, errors.Is(SimulationWindow{}.validate(0, 5), ErrTemporal), "window is not set")
}

func TestBins(t *testing.T) {
	assert.Equal(t, []TimeWindow{{0, 5}, {5, 10}, {10, 15}}, bins(0, 15, 5))
	assert.Equal(t, []TimeWindow{{0, 5}}, bins(0, 7, 5))
	assert.Empty(t, bins(0, 3, 5))
	assert.Nil(t, bins(0, 10, 0))
}

func TestTimeSeries(t *testing.T) {
	ts := TimeSeries{
		{5, 10}:  2,
		{0, 5}:   1,
		{0, 10}:  7,
		{10, 15}: 4,
	}
	assert.Equal(t, []TimeWindow{{0, 5}, {0, 10}, {5, 10}, {10, 15}}, ts.Windows())
	assert.InDelta(t, 7.0, ts.sumBins(0, 15, 5), 1e-9)
	assert.InDelta(t, 0.0, ts.sumBins(20, 30, 5), 1e-9)

	value, ok := ts.partitionSum(0, 10, 5)
	require.True(t, ok)
	assert.InDelta(t, 3.0, value, 1e-9)
	_, ok = ts.partitionSum(0, 20, 5)
	assert.False(t, ok)

	cp := ts.Clone()
	cp[TimeWindow{0, 5}] = 100
	assert.Equal(t, 1.0, ts[TimeWindow{0, 5}])

	assert.Equal(t, "0-5", TimeWindow{0, 5}.String())
	assert.Equal(t, 5, TimeWindow{0, 5}.Duration())
	assert.True(t, TimeWindow{0, 10}.Contains(TimeWindow{5, 10}))
	assert.False(t, TimeWindow{0, 10}.Contains(TimeWindow{5, 15}))
}

func TestAggregateTravelTime(t *testing.T) {
	volume := TimeSeries{{0, 5}: 1, {5, 10}: 2, {10, 15}: 0}
	meanTT := TimeSeries{{0, 5}: 1, {5, 10}: 2}
	totalTime, totalFlow, err := aggregateTravelTime("test", volume, meanTT, TimeWindow{0, 15})
	require.NoError(t, err)
	assert.InDelta(t, 5.0, totalTime, 1e-9)
	assert.InDelta(t, 3.0, totalFlow, 1e-9)

	volume[TimeWindow{15, 20}] = 4
	_, _, err = aggregateTravelTime("test", volume, meanTT, TimeWindow{0, 20})
	assert.True(t, errors.Is(err, ErrTemporal))
}
