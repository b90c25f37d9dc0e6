// Package dot computes self dot plots: for one sequence, the matrix of window
// pairs that are nearly identical.
package dot

import (
	"bytes"
	"fmt"
	"io"
	"runtime"
	"sort"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/traverse"
	"github.com/grailbio/base/tsv"
	"github.com/grailbio/msa/alignment"
)

// Opts controls dot plot construction.
type Opts struct {
	// Window is the number of symbols in each window.
	Window int `yaml:"window"`
	// Step is the distance between the starts of consecutive windows.
	Step int `yaml:"step"`
	// Mismatches is the largest number of differing positions for two windows
	// to count as a hit.
	Mismatches int `yaml:"mismatches"`
	// Parallelism bounds the number of matrix rows computed concurrently.
	// Zero means runtime.NumCPU().
	Parallelism int `yaml:"parallelism"`
}

// DefaultOpts is the default value for Opts.
var DefaultOpts = Opts{
	Window:     10,
	Step:       1,
	Mismatches: 1,
}

// Windows returns the windows of seq of the given size, starting at 0 and
// advancing by step while the window fits.  The windows share memory with seq.
func Windows(seq []byte, size, step int) [][]byte {
	var w [][]byte
	for start := 0; start+size <= len(seq); start += step {
		w = append(w, seq[start:start+size])
	}
	return w
}

const masked = "-Nn"

// Match reports whether two windows hold no gap or N and differ at no more
// than maxMismatch positions.
func Match(k1, k2 []byte, maxMismatch int) bool {
	if bytes.ContainsAny(k1, masked) || bytes.ContainsAny(k2, masked) {
		return false
	}
	if len(k2) < len(k1) {
		k1 = k1[:len(k2)]
	}
	d := 0
	for i, b := range k1 {
		if b != k2[i] {
			d++
			if d > maxMismatch {
				return false
			}
		}
	}
	return true
}

// Matrix is the N x N hit matrix of one sequence, stored as one sorted list
// of matching columns per row.
type Matrix struct {
	Name string
	N    int
	rows [][]int32
}

// At reports whether windows i and j match.
func (m *Matrix) At(i, j int) bool {
	row := m.rows[i]
	k := sort.Search(len(row), func(k int) bool { return int(row[k]) >= j })
	return k < len(row) && int(row[k]) == j
}

// Row returns the windows that match window i, in increasing order.  The
// caller must not modify the result.
func (m *Matrix) Row(i int) []int32 { return m.rows[i] }

// NHit returns the number of hits.
func (m *Matrix) NHit() int {
	n := 0
	for _, row := range m.rows {
		n += len(row)
	}
	return n
}

// Plot computes the self dot plot of seq.
func Plot(seq alignment.Sequence, opts Opts) (*Matrix, error) {
	if opts.Window <= 0 || opts.Step <= 0 || opts.Mismatches < 0 {
		return nil, errors.E(errors.Invalid, fmt.Sprintf(
			"dot: invalid window %d, step %d or mismatches %d", opts.Window, opts.Step, opts.Mismatches))
	}
	windows := Windows(seq.Seq, opts.Window, opts.Step)
	n := len(windows)
	m := &Matrix{Name: seq.Name, N: n, rows: make([][]int32, n)}
	parallelism := opts.Parallelism
	if parallelism <= 0 {
		parallelism = runtime.NumCPU()
	}
	nJob := n
	if nJob > parallelism {
		nJob = parallelism
	}
	err := traverse.Each(nJob, func(jobIdx int) error {
		for i := jobIdx; i < n; i += nJob {
			var row []int32
			for j := range windows {
				if Match(windows[i], windows[j], opts.Mismatches) {
					row = append(row, int32(j))
				}
			}
			m.rows[i] = row
		}
		return nil
	})
	return m, err
}

// HitWriter writes dot plot hits as "name\ti\tj" lines.
type HitWriter struct {
	out *tsv.Writer
}

// NewHitWriter creates a HitWriter that writes to w.
func NewHitWriter(w io.Writer) *HitWriter {
	return &HitWriter{out: tsv.NewWriter(w)}
}

// Write writes the hits of m in row-major order.
func (hw *HitWriter) Write(m *Matrix) error {
	for i, row := range m.rows {
		for _, j := range row {
			hw.out.WriteString(m.Name)
			hw.out.WriteUint32(uint32(i))
			hw.out.WriteUint32(uint32(j))
			if err := hw.out.EndLine(); err != nil {
				return err
			}
		}
	}
	return nil
}

// Flush writes any buffered output.
func (hw *HitWriter) Flush() error { return hw.out.Flush() }
