package transition

import (
	"errors"
	"sort"
	"strconv"

	"gonum.org/v1/gonum/stat"
)

// ErrZeroMeanDuration is returned by BuildSummary when the mean dwell
// of an edge is zero and its rate would be undefined. Callers should
// filter zero-length dwells out with Options.MinDuration.
var ErrZeroMeanDuration = errors.New("transition rate undefined: mean dwell duration is zero")

// Node is a graph node: a state category with the total time spent in
// it before transitioning away.
type Node struct {
	Category string  `json:"category"`
	Duration float64 `json:"duration"`
}

// Edge is a directed graph edge between two categories. Rate is the
// inverse of the mean dwell preceding the transition; Count is the
// number of observed occurrences.
type Edge struct {
	From  string  `json:"from"`
	To    string  `json:"to"`
	Rate  float64 `json:"rate"`
	Count int     `json:"count"`
}

// GraphSummary is the weighted transition graph derived from a set of
// transition records. It is recomputed from scratch on every build and
// never updated incrementally.
type GraphSummary struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

type categoryPair struct {
	from, to string
}

// BuildSummary folds transition records into a transition graph.
//
// Codes are coarsened through the supplied category mapping before
// aggregation; distinct code pairs that collapse onto the same
// category pair are merged, and the merged duration list drives both
// the count and the rate. Dwell time accrues to the category being
// exited. Codes missing from the mapping are labeled with their
// decimal value.
func BuildSummary(records map[Pair][]float64, categories map[int]string) (*GraphSummary, error) {
	label := func(code int) string {
		if name, ok := categories[code]; ok {
			return name
		}
		return strconv.Itoa(code)
	}

	merged := make(map[categoryPair][]float64)
	nodes := make(map[string]float64)
	for pair, durations := range records {
		if len(durations) == 0 {
			continue
		}
		from, to := label(pair.From), label(pair.To)
		merged[categoryPair{from, to}] = append(merged[categoryPair{from, to}], durations...)

		var total float64
		for _, d := range durations {
			total += d
		}
		nodes[from] += total
	}

	summary := &GraphSummary{}
	for cp, durations := range merged {
		mean := stat.Mean(durations, nil)
		if mean == 0 {
			return nil, ErrZeroMeanDuration
		}
		summary.Edges = append(summary.Edges, Edge{
			From:  cp.from,
			To:    cp.to,
			Rate:  1 / mean,
			Count: len(durations),
		})
	}
	for category, duration := range nodes {
		summary.Nodes = append(summary.Nodes, Node{Category: category, Duration: duration})
	}

	// Map iteration order is random; fix the output order.
	sort.Slice(summary.Nodes, func(i, j int) bool {
		return summary.Nodes[i].Category < summary.Nodes[j].Category
	})
	sort.Slice(summary.Edges, func(i, j int) bool {
		if summary.Edges[i].From != summary.Edges[j].From {
			return summary.Edges[i].From < summary.Edges[j].From
		}
		return summary.Edges[i].To < summary.Edges[j].To
	})

	return summary, nil
}
