package roadnet

// WithFreeFlowSpeed sets free flow speed (miles per hour) applied to edges added to the graph with the default speed
func WithFreeFlowSpeed(speedInMPH float64) func(*Graph) {
	return func(graph *Graph) {
		if speedInMPH > 0 {
			graph.freeFlowSpeedInMPH = speedInMPH
		}
	}
}

// WithVerbose enables printing of warnings and progress
func WithVerbose(verbose bool) func(*Graph) {
	return func(graph *Graph) {
		graph.verbose = verbose
	}
}

// ImportOptions tunes bulk importers
type ImportOptions struct {
	hasHeader      bool
	verbose        bool
	minimalTTInMin float64
}

func defaultImportOptions() *ImportOptions {
	return &ImportOptions{
		hasHeader:      false,
		verbose:        false,
		minimalTTInMin: DEFAULT_MINIMAL_TT_IN_MIN,
	}
}

// WithHeader tells importer to skip the first row
func WithHeader(hasHeader bool) func(*ImportOptions) {
	return func(opts *ImportOptions) {
		opts.hasHeader = hasHeader
	}
}

// WithImportVerbose enables printing of skipped rows and substitutions
func WithImportVerbose(verbose bool) func(*ImportOptions) {
	return func(opts *ImportOptions) {
		opts.verbose = verbose
	}
}

// WithMinimalTravelTime sets travel time (minutes) substituted for positive flow reported with zero travel time
func WithMinimalTravelTime(ttInMin float64) func(*ImportOptions) {
	return func(opts *ImportOptions) {
		if ttInMin > 0 {
			opts.minimalTTInMin = ttInMin
		}
	}
}
