package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Expected values match the classic Ratcliff/Obershelp ratio without junk
// heuristics; scores are compared against a threshold so they are pinned.
func TestRatio_PinnedValues(t *testing.T) {
	cases := []struct {
		a, b string
		want float64
	}{
		{"abcd", "bcde", 0.75},
		{"tiger", "tigress", 2.0 * 4 / 12},
		{"Kantara", "kantara", 1.0},
		{"Jawan", "Jawan: Director's Cut", 2.0 * 5 / 26},
		{"The Family Man", "Family Man", 2.0 * 10 / 24},
		{"Stree 2", "Stree", 2.0 * 5 / 12},
		{"Panchayat", "Panchayat Season 3", 2.0 * 9 / 27},
		{"ababab", "bababa", 2.0 * 5 / 12},
		{"Fighter", "Fighterr", 2.0 * 7 / 15},
		{"abc", "", 0},
		{"", "", 1.0},
	}
	for _, tc := range cases {
		assert.InDelta(t, tc.want, Ratio(tc.a, tc.b), 1e-12, "%q vs %q", tc.a, tc.b)
	}
}

func TestRatio_Symmetric(t *testing.T) {
	pairs := [][2]string{{"Heeramandi", "Heeramandi: The Diamond Bazaar"}, {"tiger", "tigress"}, {"Kota Factory", "Kota"}}
	for _, p := range pairs {
		assert.InDelta(t, Ratio(p[0], p[1]), Ratio(p[1], p[0]), 1e-12)
	}
}

func TestRatio_CountsRunesNotBytes(t *testing.T) {
	// Two of the three runes match: 2*2/6.
	assert.InDelta(t, 2.0*2/6, Ratio("ಕಾಂ", "ಕಾx"), 1e-12)
}
