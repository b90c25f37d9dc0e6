package dot_test

import (
	"bytes"
	"math/rand"
	"runtime"
	"testing"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/msa/alignment"
	"github.com/grailbio/msa/dot"
	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
)

func TestWindows(t *testing.T) {
	tostr := func(w [][]byte) []string {
		s := []string{}
		for _, b := range w {
			s = append(s, string(b))
		}
		return s
	}
	expect.EQ(t, tostr(dot.Windows([]byte("ACGTAC"), 3, 1)), []string{"ACG", "CGT", "GTA", "TAC"})
	expect.EQ(t, tostr(dot.Windows([]byte("ACGTAC"), 3, 2)), []string{"ACG", "GTA"})
	expect.EQ(t, tostr(dot.Windows([]byte("ACGTAC"), 3, 3)), []string{"ACG", "TAC"})
	expect.EQ(t, tostr(dot.Windows([]byte("AC"), 3, 1)), []string{})
}

func TestMatch(t *testing.T) {
	tests := []struct {
		k1, k2 string
		n      int
		want   bool
	}{
		{"ACGT", "ACGT", 0, true},
		{"ACGT", "ACGA", 0, false},
		{"ACGT", "ACGA", 1, true},
		{"ACGT", "TCGA", 1, false},
		{"AC-T", "AC-T", 2, false},
		{"ACNT", "ACGT", 2, false},
		{"ACGT", "AnGT", 2, false},
	}
	for _, tt := range tests {
		expect.EQ(t, dot.Match([]byte(tt.k1), []byte(tt.k2), tt.n), tt.want, "%s %s %d", tt.k1, tt.k2, tt.n)
	}
}

func hits(m *dot.Matrix) [][2]int {
	var h [][2]int
	for i := 0; i < m.N; i++ {
		for _, j := range m.Row(i) {
			h = append(h, [2]int{i, int(j)})
		}
	}
	return h
}

func TestPlot(t *testing.T) {
	seq := alignment.Sequence{Name: "te", Seq: []byte("AAAC-AAA")}
	m, err := dot.Plot(seq, dot.Opts{Window: 3, Step: 1, Mismatches: 0, Parallelism: 3})
	assert.NoError(t, err)
	// Windows: AAA AAC AC- C-A -AA AAA.
	assert.EQ(t, m.N, 6)
	expect.EQ(t, hits(m), [][2]int{{0, 0}, {0, 5}, {1, 1}, {5, 0}, {5, 5}})
	for i := 0; i < m.N; i++ {
		for j := 0; j < m.N; j++ {
			expect.EQ(t, m.At(i, j), m.At(j, i))
		}
	}

	m, err = dot.Plot(seq, dot.Opts{Window: 3, Step: 1, Mismatches: 1})
	assert.NoError(t, err)
	expect.EQ(t, hits(m), [][2]int{{0, 0}, {0, 1}, {0, 5}, {1, 0}, {1, 1}, {1, 5}, {5, 0}, {5, 1}, {5, 5}})
	expect.EQ(t, m.NHit(), 9)
	expect.True(t, m.At(1, 5))
	expect.False(t, m.At(2, 3))
}

func randomSeq(r *rand.Rand, n int) []byte {
	s := make([]byte, n)
	for i := range s {
		s[i] = "ACGT"[r.Intn(4)]
	}
	return s
}

// Memory held by a plot grows with its number of hits, not with the square
// of its number of windows.
func TestPlotMemory(t *testing.T) {
	r := rand.New(rand.NewSource(0))
	var before, after runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&before)
	var matrices []*dot.Matrix
	for i := 0; i < 4; i++ {
		m, err := dot.Plot(alignment.Sequence{Name: "te", Seq: randomSeq(r, 3000)}, dot.DefaultOpts)
		assert.NoError(t, err)
		for j := 0; j < m.N; j++ {
			assert.True(t, m.At(j, j))
		}
		expect.True(t, m.NHit() < 2*m.N, "%d hits", m.NHit())
		matrices = append(matrices, m)
	}
	runtime.GC()
	runtime.ReadMemStats(&after)
	expect.True(t, after.HeapInuse < before.HeapInuse+8<<20,
		"heap grew from %d to %d bytes", before.HeapInuse, after.HeapInuse)
	runtime.KeepAlive(matrices)
}

func TestPlotInvalid(t *testing.T) {
	seq := alignment.Sequence{Name: "te", Seq: []byte("ACGT")}
	for _, o := range []dot.Opts{{Window: 0, Step: 1}, {Window: 2, Step: 0}, {Window: 2, Step: 1, Mismatches: -1}} {
		_, err := dot.Plot(seq, o)
		expect.True(t, errors.Is(errors.Invalid, err), "%+v", o)
	}
}

func TestHitWriter(t *testing.T) {
	a, err := dot.Plot(alignment.Sequence{Name: "a", Seq: []byte("ACAC")}, dot.Opts{Window: 2, Step: 2})
	assert.NoError(t, err)
	b, err := dot.Plot(alignment.Sequence{Name: "b", Seq: []byte("A")}, dot.Opts{Window: 2, Step: 2})
	assert.NoError(t, err)
	var buf bytes.Buffer
	hw := dot.NewHitWriter(&buf)
	assert.NoError(t, hw.Write(a))
	assert.NoError(t, hw.Write(b))
	assert.NoError(t, hw.Flush())
	expect.EQ(t, buf.String(), "a\t0\t0\na\t0\t1\na\t1\t0\na\t1\t1\n")
}
