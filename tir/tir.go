// Package tir looks for evidence of terminal inverted repeats by aligning the
// consensus of a transposable-element family against its own reverse
// complement.
//
// The alignment is first trimmed to its conserved core, the consensus is
// called on the trimmed rows, gaps are removed, and the result x is aligned
// semi-globally against y = reverse-complement(x).  Long Match runs at the
// ends of the alignment suggest inverted repeats.
package tir

import (
	"bytes"

	"github.com/grailbio/base/log"
	"github.com/grailbio/msa/alignment"
	"github.com/grailbio/msa/blocks"
	"github.com/grailbio/msa/consensus"
)

// Opts controls the self-alignment pipeline.
type Opts struct {
	Miss     float64 `yaml:"miss"`
	Identity float64 `yaml:"identity"`
	Extend   int     `yaml:"extend"`
	NextHit  int     `yaml:"next_hit"`
	Scoring  Scoring `yaml:"scoring"`
	// Parallelism is passed to the block finder and the consensus caller.
	Parallelism int `yaml:"parallelism"`
}

// DefaultOpts is the default value for Opts.
var DefaultOpts = Opts{
	Miss:     0.1,
	Identity: 0.8,
	Extend:   15,
	NextHit:  1,
	Scoring:  DefaultScoring,
}

// Result holds the sequences that were aligned and their alignment.
type Result struct {
	// Forward is the gap-free consensus of the trimmed alignment.
	Forward []byte
	// Reverse is the reverse complement of Forward.
	Reverse   []byte
	Alignment Alignment
}

// Runs returns the runs of identical operations of the self-alignment.
func (r *Result) Runs() []Run { return Runs(r.Alignment.Ops) }

// Pretty renders the self-alignment; see Pretty.
func (r *Result) Pretty(width int) string {
	return Pretty(r.Forward, r.Reverse, r.Alignment, width)
}

// SelfAlign trims a, calls its consensus, and aligns the consensus against its
// reverse complement.
func SelfAlign(a *alignment.Alignment, opts Opts) (*Result, error) {
	recs, err := blocks.FindBlocks(a, opts.Miss, opts.Identity, opts.Parallelism)
	if err != nil {
		return nil, err
	}
	trimmed, err := blocks.Trim(recs, a, opts.Extend, opts.NextHit)
	if err != nil {
		return nil, err
	}
	consOpts := consensus.DefaultOpts
	consOpts.Parallelism = opts.Parallelism
	cons, err := consensus.Build(trimmed, &consOpts)
	if err != nil {
		return nil, err
	}
	forward := bytes.Replace(cons, []byte{alignment.Gap}, nil, -1)
	reverse := ReverseComplement(forward)
	log.Debug.Printf("tir: %d conserved columns, trimmed to %d columns, consensus length %d without gaps",
		len(recs), trimmed.Len(), len(forward))
	return &Result{
		Forward:   forward,
		Reverse:   reverse,
		Alignment: opts.Scoring.Semiglobal(forward, reverse),
	}, nil
}
