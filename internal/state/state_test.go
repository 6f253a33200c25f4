package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(v bool) *bool { return &v }

func TestEncode(t *testing.T) {
	underground := true
	overground := false

	cases := []struct {
		name  string
		state LocationState
		want  int
	}{
		{"unknown", LocationState{}, 0},
		{"overground", LocationState{Underground: &overground}, 10},
		{"in air", LocationState{Underground: &overground, Location: LocationAir}, 11},
		{"on hill", LocationState{Underground: &overground, Location: LocationHill}, 12},
		{"in valley", LocationState{Underground: &overground, Location: LocationValley}, 13},
		{"underground", LocationState{Underground: &underground}, 20},
		{"in burrow", LocationState{Underground: &underground, Location: LocationBurrow}, 21},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, err := Encode(tc.state)
			require.NoError(t, err)
			assert.Equal(t, tc.want, code)
		})
	}
}

func TestEncode_RejectsLeftoverFields(t *testing.T) {
	cases := []struct {
		name  string
		state LocationState
	}{
		{"unrecognized overground location", LocationState{Underground: boolPtr(false), Location: "nonexistent"}},
		{"overground burrow", LocationState{Underground: boolPtr(false), Location: LocationBurrow}},
		{"underground hill", LocationState{Underground: boolPtr(true), Location: LocationHill}},
		{"location without underground", LocationState{Location: LocationAir}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Encode(tc.state)
			require.Error(t, err)

			var invalid *InvalidStateError
			require.ErrorAs(t, err, &invalid)
			assert.Contains(t, invalid.Leftover, "location")
			assert.Contains(t, invalid.Error(), "location")
		})
	}
}

func TestDecode_RoundTrip(t *testing.T) {
	// Every code that decodes to a non-empty state must encode back to
	// itself. Codes decoding to the empty state are collapsed by design
	// and cannot round-trip.
	for code := 0; code < 100; code++ {
		decoded := Decode(code)
		if decoded.Empty() {
			continue
		}
		encoded, err := Encode(decoded)
		require.NoError(t, err, "code %d", code)
		assert.Equal(t, code, encoded, "code %d did not round-trip", code)
	}
}

func TestDecode_ValidDomain(t *testing.T) {
	for _, code := range ValidStates {
		if code == 0 {
			assert.True(t, Decode(code).Empty())
			continue
		}
		encoded, err := Encode(Decode(code))
		require.NoError(t, err)
		assert.Equal(t, code, encoded)
	}
}

func TestDecode_Totality(t *testing.T) {
	// Decode never fails; unknown codes read as the empty state.
	for _, code := range []int{-1, -21, -100, 1, 5, 9, 30, 35, 99, 100000} {
		assert.True(t, Decode(code).Empty(), "code %d should decode to the empty state", code)
	}

	// Codes above 99 wrap on the last two digits.
	decoded := Decode(111)
	require.NotNil(t, decoded.Underground)
	assert.False(t, *decoded.Underground)
	assert.Equal(t, LocationAir, decoded.Location)
}

func TestDecode_UnassignedResiduesAreEmpty(t *testing.T) {
	// Residues inside the reserved overground/underground ranges that
	// the encoder never produces must decode to the empty state; a
	// partial decode would re-encode to 10 or 20 and rewrite the
	// stored value.
	for code := 14; code <= 19; code++ {
		assert.True(t, Decode(code).Empty(), "code %d should decode to the empty state", code)
	}
	for code := 22; code <= 29; code++ {
		assert.True(t, Decode(code).Empty(), "code %d should decode to the empty state", code)
	}
}

func TestQuery(t *testing.T) {
	seq := []int{0, 10, 11, 12, 13, 20, 21}

	cases := []struct {
		query string
		want  []bool
	}{
		{QueryUnderground, []bool{false, true, true, true, true, false, false}},
		{QueryInAir, []bool{false, false, true, false, false, false, false}},
		{QueryOnHill, []bool{false, false, false, true, false, false, false}},
		{QueryInValley, []bool{false, false, false, false, true, false, false}},
		{QueryInBurrow, []bool{false, false, false, false, false, false, true}},
	}

	for _, tc := range cases {
		t.Run(tc.query, func(t *testing.T) {
			got, err := Query(seq, tc.query)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestQuery_Unknown(t *testing.T) {
	_, err := Query([]int{10, 11}, "flying")
	require.Error(t, err)

	var unknown *UnknownQueryError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "flying", unknown.Query)
}

func TestQuery_EmptySequence(t *testing.T) {
	got, err := Query(nil, QueryInBurrow)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRuns(t *testing.T) {
	cases := []struct {
		name string
		mask []bool
		want [][2]int
	}{
		{"empty", nil, nil},
		{"all false", []bool{false, false}, nil},
		{"all true", []bool{true, true, true}, [][2]int{{0, 3}}},
		{"interior run", []bool{false, true, true, false}, [][2]int{{1, 3}}},
		{"multiple runs", []bool{true, false, true, true, false, true}, [][2]int{{0, 1}, {2, 4}, {5, 6}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Runs(tc.mask))
		})
	}
}
