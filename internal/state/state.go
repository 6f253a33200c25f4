// Package state implements the integer encoding of the animal's
// location state and predicates over sequences of encoded states.
//
// The location is encoded in the last two digits of the code:
//
//	0      = location is unknown
//	10..19 = animal is overground
//	    11 = animal is in the air
//	    12 = animal is on either hill
//	    13 = animal is in the valley
//	20..29 = animal is underground
//	    21 = animal is in any burrow
package state

// Location labels recognized by the codec.
const (
	LocationAir    = "air"
	LocationHill   = "hill"
	LocationValley = "valley"
	LocationBurrow = "burrow"
)

// ValidStates lists every code the encoder can produce.
var ValidStates = []int{0, 10, 11, 12, 13, 20, 21}

// DefaultCategories maps each valid code to the label used when
// aggregating transitions into a graph. Callers may supply their own
// mapping; this is the reference seven-label set.
var DefaultCategories = map[int]string{
	0:  "unknown",
	10: "sand",
	11: "air",
	12: "hill",
	13: "valley",
	20: "dimple",
	21: "burrow",
}

// LocationState is the structured form of a single frame's state.
// Underground is tri-state: nil means the position is unknown, and an
// empty Location means no finer placement is known.
type LocationState struct {
	Underground *bool  `json:"underground,omitempty"`
	Location    string `json:"location,omitempty"`
}

// Empty reports whether no state information is present.
func (s LocationState) Empty() bool {
	return s.Underground == nil && s.Location == ""
}

// Encode calculates the integer code representing a location state.
//
// Every field must be accounted for: a Location value that the chosen
// Underground branch does not recognize is rejected with
// *InvalidStateError rather than guessed at.
func Encode(s LocationState) (int, error) {
	value := 0
	locationConsumed := s.Location == ""

	switch {
	case s.Underground == nil:
		// Position unknown; a location on its own is meaningless.
	case !*s.Underground:
		value += 10
		switch s.Location {
		case LocationAir:
			value += 1
			locationConsumed = true
		case LocationHill:
			value += 2
			locationConsumed = true
		case LocationValley:
			value += 3
			locationConsumed = true
		}
	default:
		value += 20
		if s.Location == LocationBurrow {
			value += 1
			locationConsumed = true
		}
	}

	if !locationConsumed {
		return 0, &InvalidStateError{Leftover: map[string]string{"location": s.Location}}
	}
	return value, nil
}

// Decode reconstructs the structured state from an integer code.
//
// Decode is total: it never fails, and any code the encoder cannot
// produce (including negative values) yields the empty state. A stored
// code the encoder never wrote therefore cannot crash a downstream
// job; it just reads as unknown. The [10,20) and [20,30) residue
// ranges are reserved for overground and underground respectively, but
// only the exact codes in ValidStates carry meaning: decoding an
// unassigned residue like 14 to a bare overground state would encode
// back to 10, silently rewriting the stored value.
func Decode(code int) LocationState {
	var s LocationState

	switch residue := code % 100; residue {
	case 10, 11, 12, 13:
		underground := false
		s.Underground = &underground
		switch residue {
		case 11:
			s.Location = LocationAir
		case 12:
			s.Location = LocationHill
		case 13:
			s.Location = LocationValley
		}
	case 20, 21:
		underground := true
		s.Underground = &underground
		if residue == 21 {
			s.Location = LocationBurrow
		}
	}

	return s
}

// Query names accepted by Query.
const (
	QueryUnderground = "underground"
	QueryInAir       = "in_air"
	QueryOnHill      = "on_hill"
	QueryInValley    = "in_valley"
	QueryInBurrow    = "in_burrow"
)

// Query evaluates a category predicate over a sequence of codes and
// returns one boolean per input code.
//
// The "underground" query historically matched the overground residue
// range [10,20); the original code also carried a second, unreachable
// definition for [20,30) under the same name. Only the reachable
// meaning is implemented here (use "in_burrow" for burrow occupancy).
func Query(codes []int, query string) ([]bool, error) {
	var match func(residue int) bool

	switch query {
	case QueryUnderground:
		match = func(r int) bool { return 10 <= r && r < 20 }
	case QueryInAir:
		match = func(r int) bool { return r == 11 }
	case QueryOnHill:
		match = func(r int) bool { return r == 12 }
	case QueryInValley:
		match = func(r int) bool { return r == 13 }
	case QueryInBurrow:
		match = func(r int) bool { return r == 21 }
	default:
		return nil, &UnknownQueryError{Query: query}
	}

	result := make([]bool, len(codes))
	for i, code := range codes {
		result[i] = match(code % 100)
	}
	return result, nil
}

// Runs finds the contiguous true regions of a predicate result. Each
// entry is a [start, end) index pair into the input mask.
func Runs(mask []bool) [][2]int {
	var runs [][2]int
	start := -1

	for i, v := range mask {
		switch {
		case v && start < 0:
			start = i
		case !v && start >= 0:
			runs = append(runs, [2]int{start, i})
			start = -1
		}
	}
	if start >= 0 {
		runs = append(runs, [2]int{start, len(mask)})
	}
	return runs
}
