package pointer

import "github.com/VictoriaMetrics/metrics"

// stats are the counters of one analysis run. They live in their own
// metrics.Set so that repeated runs never share counters.
type stats struct {
	set *metrics.Set

	worklistEntries *metrics.Counter
	propagations    *metrics.Counter
	pfgEdges        *metrics.Counter
	callEdges       *metrics.Counter
	reachable       *metrics.Counter
	dropped         *metrics.Counter
}

func newStats() *stats {
	set := metrics.NewSet()
	return &stats{
		set:             set,
		worklistEntries: set.NewCounter("pta_worklist_entries_total"),
		propagations:    set.NewCounter("pta_propagations_total"),
		pfgEdges:        set.NewCounter("pta_pfg_edges_total"),
		callEdges:       set.NewCounter("pta_call_edges_total"),
		reachable:       set.NewCounter("pta_reachable_methods_total"),
		dropped:         set.NewCounter("pta_dropped_dispatches_total"),
	}
}
