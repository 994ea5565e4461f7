package roadnet

import (
	"github.com/pkg/errors"
)

// SimVolume returns simulated volume over the window: sum over outbound movements or own bins for boundary edge
func (edge *Edge) SimVolume(startInMin, endInMin int) (float64, error) {
	if err := edge.sim.validateOutput(startInMin, endInMin); err != nil {
		return 0, errors.Wrapf(err, "edge %s", edge.ID)
	}
	if edge.dataMode != EDGE_DATA_HAS_MOVEMENTS {
		return edge.simVolume.sumBins(startInMin, endInMin, edge.sim.StepInMin), nil
	}
	result := 0.0
	for _, movement := range edge.outMovements {
		volume, err := movement.SimVolume(startInMin, endInMin)
		if err != nil {
			return 0, err
		}
		result += volume
	}
	return result, nil
}

// SimFlow returns simulated hourly flow rate over the window
func (edge *Edge) SimFlow(startInMin, endInMin int) (float64, error) {
	volume, err := edge.SimVolume(startInMin, endInMin)
	if err != nil {
		return 0, err
	}
	return volume * 60.0 / float64(endInMin-startInMin), nil
}

// SimTTInMin returns volume weighted mean travel time over the window. Free flow travel time is used when there is no volume
func (edge *Edge) SimTTInMin(startInMin, endInMin int) (float64, error) {
	totalVolume, err := edge.SimVolume(startInMin, endInMin)
	if err != nil {
		return 0, err
	}
	if totalVolume == 0 {
		return edge.FreeFlowTTInMin(), nil
	}
	if edge.dataMode == EDGE_DATA_HAS_MOVEMENTS {
		result := 0.0
		for _, movement := range edge.outMovements {
			volume, err := movement.SimVolume(startInMin, endInMin)
			if err != nil {
				return 0, err
			}
			if volume == 0 {
				continue
			}
			tt, err := movement.SimTTInMin(startInMin, endInMin)
			if err != nil {
				return 0, err
			}
			result += tt * volume / totalVolume
		}
		return result, nil
	}
	if len(edge.simMeanTT) == 0 {
		return edge.FreeFlowTTInMin(), nil
	}
	totalTime, totalFlow, err := aggregateTravelTime("edge "+edge.ID.String(), edge.simVolume, edge.simMeanTT, TimeWindow{startInMin, endInMin})
	if err != nil {
		return 0, err
	}
	if totalFlow == 0 {
		return edge.FreeFlowTTInMin(), nil
	}
	return totalTime / totalFlow, nil
}

// SimSpeedInMPH returns average speed implied by simulated travel time
func (edge *Edge) SimSpeedInMPH(startInMin, endInMin int) (float64, error) {
	tt, err := edge.SimTTInMin(startInMin, endInMin)
	if err != nil {
		return 0, err
	}
	return edge.lengthInMiles / (tt / 60.0), nil
}

// SetSimVolume stores simulated volume for exactly one native time step.
// Edge with single outbound movement passes the value to it
func (edge *Edge) SetSimVolume(startInMin, endInMin int, volume float64) error {
	if err := edge.sim.validateInput(startInMin, endInMin); err != nil {
		return errors.Wrapf(err, "edge %s", edge.ID)
	}
	switch len(edge.outMovements) {
	case 0:
	case 1:
		return edge.outMovements[0].SetSimVolume(startInMin, endInMin, volume)
	default:
		return temporalErrorf("edge %s has %d movements: volume can't be assigned to the edge", edge.ID, len(edge.outMovements))
	}
	if volume < 0 {
		return temporalErrorf("edge %s: negative volume %f for time period from %d to %d", edge.ID, volume, startInMin, endInMin)
	}
	window := TimeWindow{startInMin, endInMin}
	edge.simVolume[window] = volume
	if volume == 0 {
		delete(edge.simMeanTT, window)
	}
	return nil
}

// SetSimTTInMin stores simulated mean travel time for exactly one native time step.
// Edge with single outbound movement passes the value to it
func (edge *Edge) SetSimTTInMin(startInMin, endInMin int, tt float64) error {
	if err := edge.sim.validateInput(startInMin, endInMin); err != nil {
		return errors.Wrapf(err, "edge %s", edge.ID)
	}
	switch len(edge.outMovements) {
	case 0:
	case 1:
		return edge.outMovements[0].SetSimTTInMin(startInMin, endInMin, tt)
	default:
		return temporalErrorf("edge %s has %d movements: travel time can't be assigned to the edge", edge.ID, len(edge.outMovements))
	}
	if tt < 0 {
		return temporalErrorf("edge %s: negative travel time %f for time period from %d to %d", edge.ID, tt, startInMin, endInMin)
	}
	volume := edge.simVolume[TimeWindow{startInMin, endInMin}]
	if tt == 0 {
		if volume > 0 {
			return temporalErrorf("edge %s has zero travel time and positive volume %f for time period from %d to %d", edge.ID, volume, startInMin, endInMin)
		}
		return nil
	}
	if volume == 0 {
		return temporalErrorf("edge %s has positive travel time %f and zero volume for time period from %d to %d", edge.ID, tt, startInMin, endInMin)
	}
	edge.simMeanTT[TimeWindow{startInMin, endInMin}] = tt
	return nil
}

// aggregatedCount sums observed counts of non U-turn movements. Second value is false unless
// there is at least one such movement and all of them have count for the window
func (edge *Edge) aggregatedCount(startInMin, endInMin int) (float64, bool, error) {
	result := 0.0
	found := false
	for _, movement := range edge.outMovements {
		if movement.IsUTurn() {
			continue
		}
		count, ok, err := movement.ObsCount(startInMin, endInMin)
		if err != nil {
			return 0, false, err
		}
		if !ok {
			return 0, false, nil
		}
		result += count
		found = true
	}
	return result, found, nil
}

// ObsCount returns observed count for the window. Counts of movements take precedence over the own ones.
// Second value is false when there is no data
func (edge *Edge) ObsCount(startInMin, endInMin int) (float64, bool, error) {
	if err := edge.sim.validateOutput(startInMin, endInMin); err != nil {
		return 0, false, errors.Wrapf(err, "edge %s", edge.ID)
	}
	count, ok, err := edge.aggregatedCount(startInMin, endInMin)
	if err != nil || ok {
		return count, ok, err
	}
	if count, ok := edge.obsCount[TimeWindow{startInMin, endInMin}]; ok {
		return count, true, nil
	}
	count, ok = edge.obsCount.partitionSum(startInMin, endInMin, edge.sim.StepInMin)
	return count, ok, nil
}

func (edge *Edge) HasObsCount(startInMin, endInMin int) (bool, error) {
	_, ok, err := edge.ObsCount(startInMin, endInMin)
	return ok, err
}

// SetObsCount stores observed count. Rejected when count is already derivable from movements
func (edge *Edge) SetObsCount(startInMin, endInMin int, count float64) error {
	if err := edge.sim.validateOutput(startInMin, endInMin); err != nil {
		return errors.Wrapf(err, "edge %s", edge.ID)
	}
	if count < 0 {
		return temporalErrorf("edge %s: negative count %f for time period from %d to %d", edge.ID, count, startInMin, endInMin)
	}
	_, ok, err := edge.aggregatedCount(startInMin, endInMin)
	if err != nil {
		return err
	}
	if ok {
		return temporalErrorf("edge %s: count for time period from %d to %d is already defined by its movements", edge.ID, startInMin, endInMin)
	}
	edge.obsCount[TimeWindow{startInMin, endInMin}] = count
	return nil
}

// HasCountInfo returns true if the edge has own counts or every non U-turn movement has counts
func (edge *Edge) HasCountInfo() bool {
	if len(edge.obsCount) > 0 {
		return true
	}
	found := false
	for _, movement := range edge.outMovements {
		if movement.IsUTurn() {
			continue
		}
		if !movement.HasCountInfo() {
			return false
		}
		found = true
	}
	return found
}

// HasMovementCountInfo returns true if any outbound movement has counts
func (edge *Edge) HasMovementCountInfo() bool {
	for _, movement := range edge.outMovements {
		if movement.HasCountInfo() {
			return true
		}
	}
	return false
}

// CountPeriods returns periods having observed counts: own ones if present, otherwise periods of movements.
// When step is positive, the span is divided into consecutive windows of that step instead
func (edge *Edge) CountPeriods(stepInMin int) []TimeWindow {
	if len(edge.obsCount) > 0 {
		return countPeriods(edge.obsCount.Windows(), stepInMin)
	}
	windows := make([]TimeWindow, 0)
	for _, movement := range edge.outMovements {
		if movement.IsUTurn() {
			continue
		}
		windows = append(windows, movement.obsCount.Windows()...)
	}
	return countPeriods(windows, stepInMin)
}

// Counts returns observed counts resolvable for every count period
func (edge *Edge) Counts() (TimeSeries, error) {
	result := make(TimeSeries)
	for _, tw := range edge.CountPeriods(0) {
		count, ok, err := edge.ObsCount(tw.Start, tw.End)
		if err != nil {
			return nil, err
		}
		if ok {
			result[tw] = count
		}
	}
	return result, nil
}

// ObsMeanTTInMin returns observed mean travel time stored for exactly this window
func (edge *Edge) ObsMeanTTInMin(startInMin, endInMin int) (float64, error) {
	if err := edge.sim.validateOutput(startInMin, endInMin); err != nil {
		return 0, errors.Wrapf(err, "edge %s", edge.ID)
	}
	tt, ok := edge.obsMeanTT[TimeWindow{startInMin, endInMin}]
	if !ok {
		return 0, temporalErrorf("edge %s does not have observed travel time for time period from %d to %d", edge.ID, startInMin, endInMin)
	}
	return tt, nil
}

func (edge *Edge) SetObsMeanTTInMin(startInMin, endInMin int, tt float64) error {
	if err := edge.sim.validateOutput(startInMin, endInMin); err != nil {
		return errors.Wrapf(err, "edge %s", edge.ID)
	}
	if tt <= 0 {
		return temporalErrorf("edge %s: observed travel time %f must be positive", edge.ID, tt)
	}
	edge.obsMeanTT[TimeWindow{startInMin, endInMin}] = tt
	return nil
}

// ObsSpeedInMPH returns speed implied by observed travel time
func (edge *Edge) ObsSpeedInMPH(startInMin, endInMin int) (float64, error) {
	tt, err := edge.ObsMeanTTInMin(startInMin, endInMin)
	if err != nil {
		return 0, err
	}
	return edge.lengthInMiles / (tt / 60.0), nil
}
