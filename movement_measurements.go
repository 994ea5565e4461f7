package roadnet

import (
	"github.com/pkg/errors"
)

// FreeFlowTTInMin returns free flow travel time of the inbound edge
func (movement *Movement) FreeFlowTTInMin() float64 {
	return movement.inEdge.FreeFlowTTInMin()
}

// SimVolume returns simulated volume (vehicles) over the window: sum of native step bins, missing bins count as zero
func (movement *Movement) SimVolume(startInMin, endInMin int) (float64, error) {
	if err := movement.sim.validateOutput(startInMin, endInMin); err != nil {
		return 0, errors.Wrapf(err, "movement %s", movement.ID)
	}
	return movement.simVolume.sumBins(startInMin, endInMin, movement.sim.StepInMin), nil
}

// SimFlow returns simulated hourly flow rate over the window
func (movement *Movement) SimFlow(startInMin, endInMin int) (float64, error) {
	volume, err := movement.SimVolume(startInMin, endInMin)
	if err != nil {
		return 0, err
	}
	return volume * 60.0 / float64(endInMin-startInMin), nil
}

// SimTTInMin returns flow weighted mean travel time over the window plus the penalty.
// Free flow travel time of the inbound edge is used when there is no flow
func (movement *Movement) SimTTInMin(startInMin, endInMin int) (float64, error) {
	volume, err := movement.SimVolume(startInMin, endInMin)
	if err != nil {
		return 0, err
	}
	if volume == 0 {
		return movement.FreeFlowTTInMin() + movement.penalty, nil
	}
	if tt, ok := movement.simMeanTT[TimeWindow{startInMin, endInMin}]; ok {
		return tt + movement.penalty, nil
	}
	totalTime, totalFlow, err := aggregateTravelTime("movement "+movement.ID.String(), movement.simVolume, movement.simMeanTT, TimeWindow{startInMin, endInMin})
	if err != nil {
		return 0, err
	}
	if totalFlow > 0 {
		return totalTime/totalFlow + movement.penalty, nil
	}
	return movement.FreeFlowTTInMin() + movement.penalty, nil
}

// SimSpeedInMPH returns average speed over the inbound edge implied by simulated travel time
func (movement *Movement) SimSpeedInMPH(startInMin, endInMin int) (float64, error) {
	tt, err := movement.SimTTInMin(startInMin, endInMin)
	if err != nil {
		return 0, err
	}
	return movement.inEdge.lengthInMiles / (tt / 60.0), nil
}

// SetSimVolume stores simulated volume for exactly one native time step
func (movement *Movement) SetSimVolume(startInMin, endInMin int, volume float64) error {
	if err := movement.sim.validateInput(startInMin, endInMin); err != nil {
		return errors.Wrapf(err, "movement %s", movement.ID)
	}
	if volume < 0 {
		return temporalErrorf("movement %s: negative volume %f for time period from %d to %d", movement.ID, volume, startInMin, endInMin)
	}
	window := TimeWindow{startInMin, endInMin}
	movement.simVolume[window] = volume
	if volume == 0 {
		// Zero volume bin keeps no travel time
		delete(movement.simMeanTT, window)
	}
	return nil
}

// SetSimTTInMin stores simulated mean travel time for exactly one native time step.
// Travel time must agree with the stored flow: zero time is accepted (and ignored) only with zero flow
func (movement *Movement) SetSimTTInMin(startInMin, endInMin int, tt float64) error {
	if err := movement.sim.validateInput(startInMin, endInMin); err != nil {
		return errors.Wrapf(err, "movement %s", movement.ID)
	}
	if tt < 0 {
		return temporalErrorf("movement %s: negative travel time %f for time period from %d to %d", movement.ID, tt, startInMin, endInMin)
	}
	flow, err := movement.SimFlow(startInMin, endInMin)
	if err != nil {
		return err
	}
	if tt == 0 {
		if flow > 0 {
			return temporalErrorf("movement %s has zero travel time and positive flow %f for time period from %d to %d", movement.ID, flow, startInMin, endInMin)
		}
		return nil
	}
	if flow == 0 {
		return temporalErrorf("movement %s has positive travel time %f and zero flow for time period from %d to %d", movement.ID, tt, startInMin, endInMin)
	}
	movement.simMeanTT[TimeWindow{startInMin, endInMin}] = tt
	return nil
}

// ObsCount returns observed count for the window. Stored window is used as is,
// otherwise the window is rebuilt from equal sub-windows. Second value is false when there is no data
func (movement *Movement) ObsCount(startInMin, endInMin int) (float64, bool, error) {
	if err := movement.sim.validateOutput(startInMin, endInMin); err != nil {
		return 0, false, errors.Wrapf(err, "movement %s", movement.ID)
	}
	if count, ok := movement.obsCount[TimeWindow{startInMin, endInMin}]; ok {
		return count, true, nil
	}
	count, ok := movement.obsCount.partitionSum(startInMin, endInMin, movement.sim.StepInMin)
	return count, ok, nil
}

func (movement *Movement) HasObsCount(startInMin, endInMin int) (bool, error) {
	_, ok, err := movement.ObsCount(startInMin, endInMin)
	return ok, err
}

// HasCountInfo returns true if any observed count is recorded
func (movement *Movement) HasCountInfo() bool {
	return len(movement.obsCount) > 0
}

// SetObsCount stores observed count. Window may span any multiple of native time step
func (movement *Movement) SetObsCount(startInMin, endInMin int, count float64) error {
	if err := movement.sim.validateOutput(startInMin, endInMin); err != nil {
		return errors.Wrapf(err, "movement %s", movement.ID)
	}
	if count < 0 {
		return temporalErrorf("movement %s: negative count %f for time period from %d to %d", movement.ID, count, startInMin, endInMin)
	}
	movement.obsCount[TimeWindow{startInMin, endInMin}] = count
	return nil
}

// CountPeriods returns periods having observed counts. When step is positive,
// the span of recorded periods is divided into consecutive windows of that step instead
func (movement *Movement) CountPeriods(stepInMin int) []TimeWindow {
	return countPeriods(movement.obsCount.Windows(), stepInMin)
}

// Counts returns copy of observed counts
func (movement *Movement) Counts() TimeSeries {
	return movement.obsCount.Clone()
}

func (movement *Movement) Penalty() float64 {
	return movement.penalty
}

// SetPenalty sets extra time (minutes) added to simulated travel time of the movement
func (movement *Movement) SetPenalty(penalty float64) error {
	if penalty < 0 {
		return structureErrorf("movement %s: negative penalty %f", movement.ID, penalty)
	}
	movement.penalty = penalty
	return nil
}

// SetTimeVaryingCosts sets costs of the movement for consecutive periods of given step starting at simulation start
func (movement *Movement) SetTimeVaryingCosts(costs []float64, stepInMin int) error {
	if stepInMin <= 0 {
		return temporalErrorf("movement %s: time step %d of time varying costs must be positive", movement.ID, stepInMin)
	}
	for i, cost := range costs {
		if cost <= 0 {
			return structureErrorf("movement %s: time varying cost %f at position %d must be positive", movement.ID, cost, i)
		}
	}
	movement.timeVaryingCosts = append([]float64(nil), costs...)
	movement.timeVaryingStepInMin = stepInMin
	return nil
}

// TimeVaryingCostAt returns cost of the movement for the period containing given time
func (movement *Movement) TimeVaryingCostAt(timeInMin int) (float64, error) {
	if movement.timeVaryingStepInMin <= 0 || len(movement.timeVaryingCosts) == 0 {
		return 0, temporalErrorf("movement %s does not have time varying costs", movement.ID)
	}
	if timeInMin < movement.sim.StartInMin {
		return 0, temporalErrorf("movement %s: time %d is before simulation start %d", movement.ID, timeInMin, movement.sim.StartInMin)
	}
	period := (timeInMin - movement.sim.StartInMin) / movement.timeVaryingStepInMin
	if period >= len(movement.timeVaryingCosts) {
		return 0, temporalErrorf("movement %s: time %d is out of time varying costs", movement.ID, timeInMin)
	}
	return movement.timeVaryingCosts[period], nil
}

func (movement *Movement) TimeVaryingCostTimeStep() int {
	return movement.timeVaryingStepInMin
}

// countPeriods returns sorted distinct windows or, for positive step, step-wide bins spanning them
func countPeriods(windows []TimeWindow, stepInMin int) []TimeWindow {
	if len(windows) == 0 {
		return []TimeWindow{}
	}
	sortWindows(windows)
	if stepInMin <= 0 {
		result := make([]TimeWindow, 0, len(windows))
		for i, tw := range windows {
			if i > 0 && tw == windows[i-1] {
				continue
			}
			result = append(result, tw)
		}
		return result
	}
	start, end := windows[0].Start, windows[0].End
	for _, tw := range windows {
		if tw.End > end {
			end = tw.End
		}
	}
	return bins(start, end, stepInMin)
}
