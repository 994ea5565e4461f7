package roadnet

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const (
	// Travel time (minutes) substituted for positive flow reported with zero travel time
	DEFAULT_MINIMAL_TT_IN_MIN = 0.01
)

// SkippedRow describes row ignored by importer
type SkippedRow struct {
	Line   int
	Key    string
	Reason string
}

// ImportReport summarizes bulk import
type ImportReport struct {
	Skipped     []SkippedRow
	RowsRead    int
	RowsApplied int
}

func (report *ImportReport) skip(line int, key, reason string, verbose bool) {
	report.Skipped = append(report.Skipped, SkippedRow{Line: line, Key: key, Reason: reason})
	if verbose {
		fmt.Printf("\n\t[WARNING]: line %d ('%s') skipped: %s\n", line, key, reason)
	}
}

// attributeWindows checks import period against simulation window and returns its intervals
func (graph *Graph) attributeWindows(startInMin, endInMin, stepInMin int) ([]TimeWindow, error) {
	if stepInMin <= 0 || stepInMin%graph.sim.StepInMin != 0 {
		return nil, temporalErrorf("attribute time step %d is not a multiple of the simulation time step %d", stepInMin, graph.sim.StepInMin)
	}
	if startInMin < graph.sim.StartInMin || startInMin >= graph.sim.EndInMin {
		return nil, temporalErrorf("attribute start time %d is out of simulation time %s", startInMin, graph.sim)
	}
	if endInMin <= graph.sim.StartInMin || endInMin > graph.sim.EndInMin || endInMin <= startInMin {
		return nil, temporalErrorf("attribute end time %d is out of simulation time %s", endInMin, graph.sim)
	}
	if (endInMin-startInMin)%stepInMin != 0 {
		return nil, temporalErrorf("attribute period from %d to %d is not a multiple of the attribute time step %d", startInMin, endInMin, stepInMin)
	}
	return bins(startInMin, endInMin, stepInMin), nil
}

func parseValues(fields []string) ([]float64, error) {
	values := make([]float64, 0, len(fields))
	for _, field := range fields {
		value, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return nil, err
		}
		values = append(values, value)
	}
	return values, nil
}

func newAttributeReader(r io.Reader) *csv.Reader {
	reader := csv.NewReader(r)
	reader.Comma = ','
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	return reader
}

// ReadTimeVaryingEdgeAttribute creates edge attribute and fills it from rows 'startVertexID,endVertexID,v0,...,vN':
// one value per interval of given step between start and end. Rows of missing edges are skipped
func (graph *Graph) ReadTimeVaryingEdgeAttribute(r io.Reader, attrName string, startInMin, endInMin, stepInMin int, options ...func(*ImportOptions)) (*ImportReport, error) {
	opts := defaultImportOptions()
	for _, option := range options {
		option(opts)
	}
	windows, err := graph.attributeWindows(startInMin, endInMin, stepInMin)
	if err != nil {
		return nil, err
	}
	if err := graph.CreateEdgeAttribute(attrName); err != nil {
		return nil, err
	}
	if opts.verbose {
		fmt.Printf("Reading edge attribute '%s'...", attrName)
	}
	st := time.Now()
	report := &ImportReport{Skipped: make([]SkippedRow, 0)}
	reader := newAttributeReader(r)
	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return report, errors.Wrapf(err, "can't read edge attribute '%s'", attrName)
		}
		line++
		if line == 1 && opts.hasHeader {
			continue
		}
		report.RowsRead++
		if len(record) < 2 {
			return report, structureErrorf("line %d of edge attribute '%s': expected vertex identifiers", line, attrName)
		}
		id := EdgeID{Start: VertexID(strings.TrimSpace(record[0])), End: VertexID(strings.TrimSpace(record[1]))}
		if !graph.HasEdge(id.Start, id.End) {
			report.skip(line, id.String(), "edge does not exist", opts.verbose)
			continue
		}
		if len(record)-2 != len(windows) {
			return report, structureErrorf("line %d of edge attribute '%s': expected %d values, got %d", line, attrName, len(windows), len(record)-2)
		}
		values, err := parseValues(record[2:])
		if err != nil {
			return report, errors.Wrapf(err, "line %d of edge attribute '%s'", line, attrName)
		}
		series := make(TimeSeries, len(values))
		for i, tw := range windows {
			series[tw] = values[i]
		}
		if err := graph.SetEdgeAttribute(attrName, id, series); err != nil {
			return report, err
		}
		report.RowsApplied++
	}
	if opts.verbose {
		fmt.Printf("Done in %v\n\tRows applied: %d\n\tRows skipped: %d\n", time.Since(st), report.RowsApplied, len(report.Skipped))
	}
	return report, nil
}

// ReadTimeVaryingMovementAttribute creates movement attribute and fills it from rows '"upID throughID downID",v0,...,vN'.
// Rows with zero values only, rows of missing movements and U-turns are skipped
func (graph *Graph) ReadTimeVaryingMovementAttribute(r io.Reader, attrName string, startInMin, endInMin, stepInMin int, options ...func(*ImportOptions)) (*ImportReport, error) {
	opts := defaultImportOptions()
	for _, option := range options {
		option(opts)
	}
	windows, err := graph.attributeWindows(startInMin, endInMin, stepInMin)
	if err != nil {
		return nil, err
	}
	if err := graph.CreateMovementAttribute(attrName); err != nil {
		return nil, err
	}
	if opts.verbose {
		fmt.Printf("Reading movement attribute '%s'...", attrName)
	}
	st := time.Now()
	report := &ImportReport{Skipped: make([]SkippedRow, 0)}
	reader := newAttributeReader(r)
	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return report, errors.Wrapf(err, "can't read movement attribute '%s'", attrName)
		}
		line++
		if line == 1 && opts.hasHeader {
			continue
		}
		report.RowsRead++
		key := strings.TrimSpace(record[0])
		ids := strings.Fields(key)
		if len(ids) != 3 {
			return report, structureErrorf("line %d of movement attribute '%s': expected three vertex identifiers, got '%s'", line, attrName, key)
		}
		if len(record)-1 != len(windows) {
			return report, structureErrorf("line %d of movement attribute '%s': expected %d values, got %d", line, attrName, len(windows), len(record)-1)
		}
		values, err := parseValues(record[1:])
		if err != nil {
			return report, errors.Wrapf(err, "line %d of movement attribute '%s'", line, attrName)
		}
		if allZero(values) {
			report.skip(line, key, "all values are zero", false)
			continue
		}
		id := MovementID{Upstream: VertexID(ids[0]), Through: VertexID(ids[1]), Downstream: VertexID(ids[2])}
		movement, err := graph.Movement(id.Upstream, id.Through, id.Downstream)
		if err != nil {
			if id.Upstream == id.Downstream {
				report.skip(line, key, "self-referential movement does not exist", false)
			} else {
				report.skip(line, key, "movement does not exist", opts.verbose)
			}
			continue
		}
		if movement.IsUTurn() {
			report.skip(line, key, "U-turn", false)
			continue
		}
		series := make(TimeSeries, len(values))
		for i, tw := range windows {
			series[tw] = values[i]
		}
		if err := graph.SetMovementAttribute(attrName, id, series); err != nil {
			return report, err
		}
		report.RowsApplied++
	}
	if opts.verbose {
		fmt.Printf("Done in %v\n\tRows applied: %d\n\tRows skipped: %d\n", time.Since(st), report.RowsApplied, len(report.Skipped))
	}
	return report, nil
}

func allZero(values []float64) bool {
	for _, value := range values {
		if value != 0 {
			return false
		}
	}
	return true
}

// ReadMovementVolumesAndTTs reads two line-synchronized streams of rows 'upID throughID downID v0 v1 ...':
// simulated flows and simulated travel times per native time step starting at simulation start
func (graph *Graph) ReadMovementVolumesAndTTs(flows, times io.Reader, options ...func(*ImportOptions)) (*ImportReport, error) {
	opts := defaultImportOptions()
	for _, option := range options {
		option(opts)
	}
	if opts.verbose {
		fmt.Print("Reading movement volumes and travel times...")
	}
	st := time.Now()
	report := &ImportReport{Skipped: make([]SkippedRow, 0)}
	flowScanner := bufio.NewScanner(flows)
	timeScanner := bufio.NewScanner(times)
	line := 0
	for flowScanner.Scan() && timeScanner.Scan() {
		line++
		flowFields := strings.Fields(flowScanner.Text())
		timeFields := strings.Fields(timeScanner.Text())
		if len(flowFields) == 0 && len(timeFields) == 0 {
			continue
		}
		if line == 1 && opts.hasHeader {
			continue
		}
		report.RowsRead++
		if len(flowFields) < 3 || len(timeFields) < 3 {
			return report, structureErrorf("line %d: expected three vertex identifiers", line)
		}
		key := strings.Join(flowFields[:3], " ")
		if key != strings.Join(timeFields[:3], " ") {
			return report, temporalErrorf("line %d: flows ('%s') and travel times ('%s') are not in sync", line, key, strings.Join(timeFields[:3], " "))
		}
		movement, err := graph.Movement(VertexID(flowFields[0]), VertexID(flowFields[1]), VertexID(flowFields[2]))
		if err != nil {
			if flowFields[0] == flowFields[2] {
				report.skip(line, key, "self-referential movement does not exist", false)
			} else {
				report.skip(line, key, "movement does not exist", opts.verbose)
			}
			continue
		}
		simFlows, err := parseValues(flowFields[3:])
		if err != nil {
			return report, errors.Wrapf(err, "line %d of flows", line)
		}
		simTTs, err := parseValues(timeFields[3:])
		if err != nil {
			return report, errors.Wrapf(err, "line %d of travel times", line)
		}
		if err := graph.applyVolumesAndTTs(movement, simFlows, simTTs, opts); err != nil {
			return report, errors.Wrapf(err, "line %d", line)
		}
		report.RowsApplied++
	}
	if err := flowScanner.Err(); err != nil {
		return report, errors.Wrap(err, "can't read flows")
	}
	if err := timeScanner.Err(); err != nil {
		return report, errors.Wrap(err, "can't read travel times")
	}
	if opts.verbose {
		fmt.Printf("Done in %v\n\tRows applied: %d\n\tRows skipped: %d\n", time.Since(st), report.RowsApplied, len(report.Skipped))
	}
	return report, nil
}

func (graph *Graph) applyVolumesAndTTs(movement *Movement, simFlows, simTTs []float64, opts *ImportOptions) error {
	n := len(simFlows)
	if len(simTTs) < n {
		n = len(simTTs)
	}
	step := graph.sim.StepInMin
	t := graph.sim.StartInMin
	for i := 0; i < n && t+step <= graph.sim.EndInMin; i++ {
		flow, tt := simFlows[i], simTTs[i]
		switch {
		case flow == 0 && tt > 0:
			return temporalErrorf("movement %s has zero flow and positive travel time %f for time period from %d to %d", movement.ID, tt, t, t+step)
		case flow == 0 && tt == 0:
			t += step
			continue
		case flow > 0 && tt == 0:
			if opts.verbose {
				fmt.Printf("\n\t[WARNING]: movement %s has positive flow %f and zero travel time for time period from %d to %d, travel time %f is used\n", movement.ID, flow, t, t+step, opts.minimalTTInMin)
			}
			tt = opts.minimalTTInMin
		}
		if err := movement.SetSimVolume(t, t+step, flow); err != nil {
			return err
		}
		if err := movement.SetSimTTInMin(t, t+step, tt); err != nil {
			return err
		}
		t += step
	}
	return nil
}
