package consensus

import (
	"testing"

	"github.com/grailbio/testutil/expect"
)

func profileOf(counts map[byte]int) *Profile {
	var p Profile
	for b, c := range counts {
		p[b] = c
	}
	return &p
}

// The counts in a profile need not add up to nrow, which lets the three- and
// four-way ties be exercised in isolation.
func TestCall(t *testing.T) {
	tests := []struct {
		counts map[byte]int
		nrow   int
		want   byte
	}{
		{map[byte]int{'A': 6, '-': 4}, 10, 'A'},
		{map[byte]int{'C': 6, 'A': 4}, 10, 'C'},
		{map[byte]int{'G': 5, 'T': 4, '-': 1}, 10, 'G'},
		{map[byte]int{'T': 7, 'n': 3}, 10, 'T'},
		{map[byte]int{'A': 5, 'G': 5}, 10, 'R'},
		{map[byte]int{'G': 5, 'T': 5}, 10, 'K'},
		{map[byte]int{'G': 5, 'C': 5}, 10, 'S'},
		{map[byte]int{'A': 5, 'C': 5}, 10, 'M'},
		{map[byte]int{'A': 5, 'T': 5}, 10, 'W'},
		{map[byte]int{'C': 5, 'T': 5}, 10, 'Y'},
		{map[byte]int{'A': 5, 'C': 5, 'G': 5}, 12, 'V'},
		{map[byte]int{'A': 5, 'C': 5, 'T': 5}, 12, 'H'},
		{map[byte]int{'A': 5, 'G': 5, 'T': 5}, 12, 'D'},
		{map[byte]int{'C': 5, 'G': 5, 'T': 5}, 12, 'B'},
		{map[byte]int{'A': 5, 'C': 5, 'G': 5, 'T': 5}, 12, 'N'},
		{map[byte]int{'A': 3, 'C': 3, 'G': 2, 'T': 2}, 10, '?'},
		// The '?' band includes its lower bound.
		{map[byte]int{'A': 3, '-': 7}, 10, '?'},
		{map[byte]int{'A': 3, 'C': 1, '-': 6}, 10, '?'},
		{map[byte]int{'A': 2, '-': 8}, 10, '-'},
		{map[byte]int{'-': 10}, 10, '-'},
		{map[byte]int{'N': 10}, 10, '-'},
		// A count equal to minority*nrow is neither called nor weak.
		{map[byte]int{'A': 4, 'C': 2, 'G': 2, 'T': 2}, 10, '-'},
		{map[byte]int{'A': 4, 'C': 3, 'G': 2, 'T': 1}, 10, '?'},
		// Case is folded before counting.
		{map[byte]int{'a': 3, 'A': 3, 'c': 4}, 10, 'A'},
		{map[byte]int{'g': 5, 'a': 5}, 10, 'R'},
	}
	for _, tt := range tests {
		got := Call(profileOf(tt.counts), tt.nrow, nil)
		expect.EQ(t, string(got), string(tt.want), "counts %v nrow %d", tt.counts, tt.nrow)
	}
}

func TestCallOpts(t *testing.T) {
	p := profileOf(map[byte]int{'A': 6, '-': 4})
	expect.EQ(t, Call(p, 10, &Opts{Minority: 0.7, Uncertain: 0.5}), byte('?'))
	expect.EQ(t, Call(p, 10, &Opts{Minority: 0.7, Uncertain: 0.65}), byte('-'))
	expect.EQ(t, Call(p, 10, &Opts{Minority: 0.5, Uncertain: 0.3}), byte('A'))
}

func TestRuleOrder(t *testing.T) {
	var names []string
	var outs []byte
	for _, r := range rules {
		names = append(names, r.name)
		outs = append(outs, r.out)
	}
	expect.EQ(t, string(outs), "GCATKSRMWYVHDBN?")
	expect.EQ(t, names[4:10], []string{"G=T", "G=C", "G=A", "A=C", "A=T", "C=T"})
}

func TestRulesExclusiveForCalls(t *testing.T) {
	// For every column of a ten-row alignment, at most one of the base and
	// ambiguity rules can fire, so the table order only matters for '?'.
	for a := 0; a <= 10; a++ {
		for c := 0; a+c <= 10; c++ {
			for g := 0; a+c+g <= 10; g++ {
				t4 := 10 - a - c - g
				k := fold(profileOf(map[byte]int{'A': a, 'C': c, 'G': g, 'T': t4}), 10, &DefaultOpts)
				n := 0
				for _, r := range rules[:len(rules)-1] {
					if r.pred(&k) {
						n++
					}
				}
				if n > 1 {
					t.Errorf("A%d C%d G%d T%d: %d rules match", a, c, g, t4, n)
				}
			}
		}
	}
}

func TestMode(t *testing.T) {
	p := profileOf(map[byte]int{'A': 2, '-': 2, 'C': 1})
	sym, n := p.Mode()
	expect.EQ(t, sym, byte('-'))
	expect.EQ(t, n, 2)

	var empty Profile
	sym, n = empty.Mode()
	expect.EQ(t, sym, byte(0))
	expect.EQ(t, n, 0)
}
