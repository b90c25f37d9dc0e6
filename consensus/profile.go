// Package consensus derives a consensus sequence from a multiple alignment.
//
// The caller first builds one Profile per column (raw symbol counts) and then
// calls one symbol per column with a fixed priority table tuned for
// transposable-element families: clear majorities become a base, ties become
// IUPAC ambiguity codes, weak signals become '?', and everything else becomes
// a gap.
package consensus

import (
	"runtime"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/traverse"
	"github.com/grailbio/msa/alignment"
)

// Profile holds the number of occurrences of every byte value in one
// alignment column.  Counting is case-sensitive; Call folds case itself.
type Profile [256]int

// Count returns the number of occurrences of b.
func (p *Profile) Count(b byte) int { return p[b] }

// Mode returns the most frequent symbol and its count.  Ties are broken in
// favor of the smallest byte value, so the result does not depend on
// iteration order.  An empty profile returns (0, 0).
func (p *Profile) Mode() (sym byte, count int) {
	for b, c := range p {
		if c > count {
			sym, count = byte(b), c
		}
	}
	return
}

// columnsPerJob is the minimum number of columns handed to one traverse job.
const columnsPerJob = 4096

// NewProfiles counts the symbols of every column of a, gaps included.
// Column shards are counted in parallel; parallelism <= 0 means
// runtime.NumCPU().  Empty and ragged alignments are rejected.
func NewProfiles(a *alignment.Alignment, parallelism int) ([]Profile, error) {
	cols, err := a.Transpose()
	if err != nil {
		return nil, errors.E(err, "consensus")
	}
	nCol := len(cols)
	profiles := make([]Profile, nCol)
	if parallelism <= 0 {
		parallelism = runtime.NumCPU()
	}
	nJob := (nCol + columnsPerJob - 1) / columnsPerJob
	if nJob > parallelism {
		nJob = parallelism
	}
	if nJob == 0 {
		return profiles, nil
	}
	err = traverse.Each(nJob, func(jobIdx int) error {
		startCol := (jobIdx * nCol) / nJob
		endCol := ((jobIdx + 1) * nCol) / nJob
		for c := startCol; c < endCol; c++ {
			p := &profiles[c]
			for _, b := range cols[c] {
				p[b]++
			}
		}
		return nil
	})
	return profiles, err
}
