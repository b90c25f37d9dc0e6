// Package diversity computes nucleotide diversity (π) along a multiple
// alignment.
package diversity

import (
	"fmt"
	"io"
	"math"
	"runtime"
	"strconv"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/traverse"
	"github.com/grailbio/base/tsv"
	"github.com/grailbio/msa/alignment"
)

// Opts controls the sliding window.
type Opts struct {
	// Window is the number of columns in each window.
	Window int `yaml:"window"`
	// Step is the distance between the starts of consecutive windows.
	Step int `yaml:"step"`
	// Parallelism bounds the number of windows computed concurrently.  Zero
	// means runtime.NumCPU().
	Parallelism int `yaml:"parallelism"`
}

// DefaultOpts is the default value for Opts.
var DefaultOpts = Opts{
	Window: 25,
	Step:   25,
}

// Window is π over the alignment columns [Start, End).
type Window struct {
	Start, End int
	Pi         float32
}

func masked(b byte) bool { return b == alignment.Gap || b == 'N' || b == 'n' }

// Hamming returns the number of positions at which x and y hold different
// symbols, ignoring positions where either symbol is a gap or N.  Only the
// first min(len(x), len(y)) positions are compared.
func Hamming(x, y []byte) int {
	if len(y) < len(x) {
		x = x[:len(y)]
	}
	d := 0
	for i, b := range x {
		c := y[i]
		if b != c && !masked(b) && !masked(c) {
			d++
		}
	}
	return d
}

// Pi returns the mean pairwise Hamming distance over all pairs of rows of a.
// It returns NaN when a has fewer than two rows.
func Pi(a *alignment.Alignment) float32 {
	return pi(a.Rows, 0, a.Len())
}

func pi(rows []alignment.Sequence, start, end int) float32 {
	n := len(rows)
	if n < 2 {
		return float32(math.NaN())
	}
	sum := 0
	for i := 0; i < n; i++ {
		x := rows[i].Seq[start:end]
		for j := i + 1; j < n; j++ {
			sum += Hamming(x, rows[j].Seq[start:end])
		}
	}
	pairs := float32(n*(n-1)) / 2
	return float32(sum) / pairs
}

// Windows computes π over windows of size columns, starting at column 0 and
// advancing by step, for as long as the window fits in the alignment.
// Windows are computed in parallel; parallelism <= 0 means runtime.NumCPU().
func Windows(a *alignment.Alignment, size, step, parallelism int) ([]Window, error) {
	if size <= 0 || step <= 0 {
		return nil, errors.E(errors.Invalid, fmt.Sprintf("diversity: window size and step must be positive, got %d and %d", size, step))
	}
	if a.NRow() == 0 {
		return nil, errors.E(errors.Invalid, "diversity: empty alignment")
	}
	if err := a.Check(); err != nil {
		return nil, err
	}
	length := a.Len()
	var windows []Window
	for start := 0; start+size <= length; start += step {
		windows = append(windows, Window{Start: start, End: start + size})
	}
	if parallelism <= 0 {
		parallelism = runtime.NumCPU()
	}
	nJob := len(windows)
	if nJob > parallelism {
		nJob = parallelism
	}
	err := traverse.Each(nJob, func(jobIdx int) error {
		for i := jobIdx; i < len(windows); i += nJob {
			w := &windows[i]
			w.Pi = pi(a.Rows, w.Start, w.End)
		}
		return nil
	})
	return windows, err
}

// WriteTSV writes one "start\tend\tpi" line per window, with π rounded to
// three decimals.
func WriteTSV(w io.Writer, windows []Window) error {
	out := tsv.NewWriter(w)
	for _, win := range windows {
		out.WriteUint32(uint32(win.Start))
		out.WriteUint32(uint32(win.End))
		out.WriteString(strconv.FormatFloat(float64(win.Pi), 'f', 3, 32))
		if err := out.EndLine(); err != nil {
			return err
		}
	}
	return out.Flush()
}
