package tsd_test

import (
	"bytes"
	"math/rand"
	"strings"
	"testing"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/msa/alignment"
	"github.com/grailbio/msa/tsd"
	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
)

func newAlignment(t *testing.T, rows ...string) *alignment.Alignment {
	seqs := make([]alignment.Sequence, len(rows))
	for i, r := range rows {
		seqs[i] = alignment.Sequence{Name: "te" + string(rune('0'+i)), Seq: []byte(r)}
	}
	a, err := alignment.New(seqs)
	assert.NoError(t, err)
	return a
}

func TestNewHash(t *testing.T) {
	a := newAlignment(t, "ACGTTTTTTTACGT", "acgaaaaaaaaacg")
	h, err := tsd.NewHash(a, 4, 2, 4)
	assert.NoError(t, err)
	assert.EQ(t, len(h), 6)

	e := h[0]
	expect.EQ(t, e.Name, "te0")
	expect.EQ(t, e.Window, 2)
	expect.EQ(t, e.Left, tsd.Kmers{"AC": 1, "CG": 1, "GT": 1})
	expect.EQ(t, e.Right, tsd.Kmers{"AC": 1, "CG": 1, "GT": 1})
	expect.EQ(t, e.Shared(), tsd.Kmers{"AC": 2, "CG": 2, "GT": 2})

	// Second row, window 3: rows are upper-cased and the right region is the
	// last four symbols.
	e = h[4]
	expect.EQ(t, e.Name, "te1")
	expect.EQ(t, e.Window, 3)
	expect.EQ(t, e.Left, tsd.Kmers{"ACG": 1, "CGA": 1})
	expect.EQ(t, e.Right, tsd.Kmers{"AAC": 1, "ACG": 1})
	expect.EQ(t, e.Shared(), tsd.Kmers{"ACG": 2})
}

func TestNewHashSkipsGaps(t *testing.T) {
	a := newAlignment(t, "A-GTCCCCCCA-GT")
	h, err := tsd.NewHash(a, 4, 2, 3)
	assert.NoError(t, err)
	expect.EQ(t, h[0].Left, tsd.Kmers{"GT": 1})
	expect.EQ(t, len(h[1].Left), 0)
}

func TestNewHashInvalid(t *testing.T) {
	a := newAlignment(t, "ACGTACGT")
	for _, p := range [][3]int{
		{0, 1, 2},
		{9, 1, 2},
		{4, 0, 2},
		{4, 3, 2},
	} {
		_, err := tsd.NewHash(a, p[0], p[1], p[2])
		expect.True(t, errors.Is(errors.Invalid, err), "params %v", p)
	}
	_, err := tsd.NewHash(&alignment.Alignment{}, 1, 1, 1)
	expect.True(t, errors.Is(errors.Invalid, err))
}

func TestMerge(t *testing.T) {
	a := newAlignment(t,
		"ACGTTTTTTTACGT",
		"acgaaaaaaaaacg",
		"A-GTCCCCCCA-GT",
		"AAAACCCCCCGGGG",
		"AACCTTTTTTCCAA",
	)
	h, err := tsd.NewHash(a, 4, 2, 4)
	assert.NoError(t, err)
	c := tsd.Merge(h)
	expect.EQ(t, len(c), 5)
	expect.EQ(t, c["te0"], []string{"ACGT"})
	expect.EQ(t, c["te1"], []string{"ACG"})
	expect.EQ(t, c["te2"], []string{"GT"})
	expect.EQ(t, len(c["te3"]), 0)
	expect.EQ(t, c["te4"], []string{"AA", "CC"})
}

func TestMergeGroupsByName(t *testing.T) {
	a, err := alignment.New([]alignment.Sequence{
		{Name: "x", Seq: []byte("GGTTCCCCCCGGTT")},
		{Name: "x", Seq: []byte("CATTCCCCCCCCAT")},
	})
	assert.NoError(t, err)
	h, err := tsd.NewHash(a, 4, 2, 2)
	assert.NoError(t, err)
	c := tsd.Merge(h)
	expect.EQ(t, c["x"], []string{"AT", "CA", "GG", "GT", "TT"})
}

func TestMergeNoRedundantCandidates(t *testing.T) {
	r := rand.New(rand.NewSource(0))
	rows := make([]string, 20)
	for i := range rows {
		b := make([]byte, 60)
		for j := range b {
			b[j] = "ACGT-"[r.Intn(5)]
		}
		rows[i] = string(b)
	}
	h, err := tsd.NewHash(newAlignment(t, rows...), 25, 2, 8)
	assert.NoError(t, err)
	for name, cands := range tsd.Merge(h) {
		for i, s := range cands {
			if i > 0 && len(s) > len(cands[i-1]) {
				t.Errorf("%s: candidates out of order: %v", name, cands)
			}
			for j, o := range cands {
				if i != j && strings.Contains(o, s) {
					t.Errorf("%s: %s is contained in %s", name, s, o)
				}
			}
		}
	}
}

func TestWriteTable(t *testing.T) {
	c := tsd.Candidates{
		"te0": {"ACGT", "TTA"},
		"te1": nil,
		"te2": {"GT"},
	}
	var buf bytes.Buffer
	assert.NoError(t, tsd.WriteTable(&buf, []string{"te2", "te1", "te0", "te2"}, c))
	expect.EQ(t, buf.String(), "ID\tLength\tTSDs\nte2\t2\tGT\nte0\t4\tACGT\tTTA\n")
}
