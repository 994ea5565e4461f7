package roadnet

import (
	"fmt"
	"sort"
)

// TimeWindow is a period of time [Start; End) in minutes relative to the simulation clock
type TimeWindow struct {
	Start int
	End   int
}

func (tw TimeWindow) String() string {
	return fmt.Sprintf("%d-%d", tw.Start, tw.End)
}

// Duration returns length of the window in minutes
func (tw TimeWindow) Duration() int {
	return tw.End - tw.Start
}

// Contains returns true if other window lies fully inside this one
func (tw TimeWindow) Contains(other TimeWindow) bool {
	return other.Start >= tw.Start && other.End <= tw.End
}

// TimeSeries maps time windows to measured values
type TimeSeries map[TimeWindow]float64

// Windows returns windows of the series sorted by start (and then by end)
func (ts TimeSeries) Windows() []TimeWindow {
	windows := make([]TimeWindow, 0, len(ts))
	for tw := range ts {
		windows = append(windows, tw)
	}
	sortWindows(windows)
	return windows
}

// Clone returns copy of the series
func (ts TimeSeries) Clone() TimeSeries {
	cp := make(TimeSeries, len(ts))
	for tw, value := range ts {
		cp[tw] = value
	}
	return cp
}

// partitionSum reconstructs value for the window from equal sub-windows.
// Sub-window length grows by the step; first partition where every sub-window is recorded wins
func (ts TimeSeries) partitionSum(start, end, step int) (float64, bool) {
	if step <= 0 {
		return 0, false
	}
	for width := step; width <= end-start; width += step {
		if (end-start)%width != 0 {
			continue
		}
		result := 0.0
		complete := true
		for t := start; t < end; t += width {
			value, ok := ts[TimeWindow{t, t + width}]
			if !ok {
				complete = false
				break
			}
			result += value
		}
		if complete {
			return result, true
		}
	}
	return 0, false
}

func sortWindows(windows []TimeWindow) {
	sort.Slice(windows, func(i, j int) bool {
		if windows[i].Start == windows[j].Start {
			return windows[i].End < windows[j].End
		}
		return windows[i].Start < windows[j].Start
	})
}

// SimulationWindow is the simulation period and its native time step (minutes)
type SimulationWindow struct {
	StartInMin int
	EndInMin   int
	StepInMin  int
}

// NewSimulationWindow returns validated simulation window
func NewSimulationWindow(startInMin, endInMin, stepInMin int) (SimulationWindow, error) {
	if stepInMin <= 0 {
		return SimulationWindow{}, temporalErrorf("simulation time step %d must be positive", stepInMin)
	}
	if startInMin >= endInMin {
		return SimulationWindow{}, temporalErrorf("simulation start time %d must be less than end time %d", startInMin, endInMin)
	}
	return SimulationWindow{StartInMin: startInMin, EndInMin: endInMin, StepInMin: stepInMin}, nil
}

func (sw SimulationWindow) String() string {
	return fmt.Sprintf("%d-%d (step %d)", sw.StartInMin, sw.EndInMin, sw.StepInMin)
}

func (sw SimulationWindow) isSet() bool {
	return sw.StepInMin > 0
}

// validate checks that the window is not empty and belongs to the simulation period
func (sw SimulationWindow) validate(startInMin, endInMin int) error {
	if !sw.isSet() {
		return temporalErrorf("simulation time window is not set")
	}
	if startInMin >= endInMin {
		return temporalErrorf("invalid time bin (%d %d): the end time cannot be equal or less than the start time", startInMin, endInMin)
	}
	if startInMin < sw.StartInMin || endInMin > sw.EndInMin {
		return temporalErrorf("time period from %d to %d is out of simulation time %s", startInMin, endInMin, sw)
	}
	return nil
}

// checkInputStep checks that the window is exactly one native time step. Used by setters
func (sw SimulationWindow) checkInputStep(startInMin, endInMin int) error {
	if endInMin-startInMin != sw.StepInMin {
		return temporalErrorf("time period from %d to %d is not equal to the simulation time step %d", startInMin, endInMin, sw.StepInMin)
	}
	return nil
}

// checkOutputStep checks that the window is a multiple of native time step. Used by getters
func (sw SimulationWindow) checkOutputStep(startInMin, endInMin int) error {
	if (endInMin-startInMin)%sw.StepInMin != 0 {
		return temporalErrorf("time period from %d to %d is not a multiple of the simulation time step %d", startInMin, endInMin, sw.StepInMin)
	}
	return nil
}

func (sw SimulationWindow) validateInput(startInMin, endInMin int) error {
	if err := sw.validate(startInMin, endInMin); err != nil {
		return err
	}
	return sw.checkInputStep(startInMin, endInMin)
}

func (sw SimulationWindow) validateOutput(startInMin, endInMin int) error {
	if err := sw.validate(startInMin, endInMin); err != nil {
		return err
	}
	return sw.checkOutputStep(startInMin, endInMin)
}

// bins returns consecutive windows of given width covering [startInMin; endInMin).
// Trailing remainder shorter than width is not included
func bins(startInMin, endInMin, width int) []TimeWindow {
	if width <= 0 {
		return nil
	}
	result := make([]TimeWindow, 0, (endInMin-startInMin)/width)
	for t := startInMin; t+width <= endInMin; t += width {
		result = append(result, TimeWindow{t, t + width})
	}
	return result
}

// sumBins sums native step values covering the window. Missing bins count as zero
func (ts TimeSeries) sumBins(startInMin, endInMin, step int) float64 {
	result := 0.0
	for _, tw := range bins(startInMin, endInMin, step) {
		result += ts[tw]
	}
	return result
}

// aggregateTravelTime sums flow weighted travel time over stored bins lying inside the window.
// Positive flow must come with positive travel time and vice versa
func aggregateTravelTime(owner string, volume, meanTT TimeSeries, window TimeWindow) (totalTime float64, totalFlow float64, err error) {
	for _, tw := range volume.Windows() {
		if !window.Contains(tw) {
			continue
		}
		flow := volume[tw]
		binTT := meanTT[tw]
		switch {
		case flow > 0 && binTT > 0:
			totalFlow += flow
			totalTime += binTT * flow
		case flow == 0 && binTT == 0:
			continue
		default:
			return 0, 0, temporalErrorf("%s has flow: %f and TT: %f for time period from %d to %d", owner, flow, binTT, tw.Start, tw.End)
		}
	}
	return totalTime, totalFlow, nil
}
