// Package transition detects state-change boundaries in a per-frame
// state sequence and aggregates the dwell durations between them.
//
// The package depends only on the integer code domain of
// internal/state, not on its encode/decode logic; any integer sequence
// with a time scale can be analyzed.
package transition

import "errors"

// ErrStatesNotComputed signals that the per-frame state sequence for a
// session has not been produced by the upstream pipeline yet. It is
// distinct from an empty sequence, which is valid and simply yields no
// transitions.
var ErrStatesNotComputed = errors.New("per-frame states have not been computed for this session")

// Pair identifies a transition by the state being left and the state
// being entered.
type Pair struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// Event is a single observed transition. FrameIndex is the index of
// the first frame spent in the new state; Duration is the dwell length
// of the state that just ended, in time units (frames * time scale).
type Event struct {
	Pair
	FrameIndex int     `json:"frame_index"`
	Duration   float64 `json:"duration"`
}

// Options filter which transitions are recorded.
type Options struct {
	// Allowed restricts records to transitions whose from and to codes
	// are both members. nil means no filtering.
	Allowed []int
	// MinDuration excludes records whose dwell is not strictly greater
	// than this threshold. The default of zero still drops
	// exactly-zero dwells produced by duplicate change detection.
	MinDuration float64
}

// Events scans states for change points and returns one Event per
// recorded transition, in frame order.
//
// A change point is an index k with states[k] != states[k+1]; the
// dwell ending there spans from the previous change point to k
// inclusive. The end of the sequence is never an implicit change
// point, so a trailing dwell contributes nothing.
func Events(states []int, timeScale float64, opts Options) []Event {
	var allowed map[int]struct{}
	if opts.Allowed != nil {
		allowed = make(map[int]struct{}, len(opts.Allowed))
		for _, s := range opts.Allowed {
			allowed[s] = struct{}{}
		}
	}
	permitted := func(code int) bool {
		if allowed == nil {
			return true
		}
		_, ok := allowed[code]
		return ok
	}

	var events []Event
	lastChange := 0
	for k := 0; k+1 < len(states); k++ {
		if states[k] == states[k+1] {
			continue
		}
		boundary := k + 1
		duration := float64(boundary-lastChange) * timeScale
		if permitted(states[k]) && permitted(states[k+1]) && duration > opts.MinDuration {
			events = append(events, Event{
				Pair:       Pair{From: states[k], To: states[k+1]},
				FrameIndex: boundary,
				Duration:   duration,
			})
		}
		lastChange = boundary
	}
	return events
}

// Extract aggregates the recorded transitions of a sequence into a
// mapping from (from, to) pair to the dwell durations observed before
// each occurrence, in frame order. An empty sequence yields an empty
// map.
func Extract(states []int, timeScale float64, opts Options) map[Pair][]float64 {
	records := make(map[Pair][]float64)
	for _, ev := range Events(states, timeScale, opts) {
		records[ev.Pair] = append(records[ev.Pair], ev.Duration)
	}
	return records
}
