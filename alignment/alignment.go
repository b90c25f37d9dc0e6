// Package alignment holds a multiple alignment in memory: an ordered list of
// named rows of nucleotide symbols that all share the same length.
//
// Symbols are 8-bit ASCII: 'A' 'C' 'G' 'T' in either case, the gap '-',
// 'N'/'n', and the uncertain marker '?'.  An Alignment is read-only once the
// analysis starts; operations that need a sub-alignment (trimming, windowing)
// build a new Alignment instead of modifying the source.
package alignment

import (
	"fmt"
	"hash"

	"blainsmith.com/go/seahash"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/msa/encoding/fasta"
)

// Symbols with special meaning in an alignment.
const (
	Gap       byte = '-'
	Uncertain byte = '?'
)

// Sequence is one row of an alignment.
type Sequence struct {
	Name string
	Seq  []byte
}

// Len returns the number of symbols in the row.
func (s Sequence) Len() int { return len(s.Seq) }

// Alignment is an ordered collection of equal-length Sequences.
type Alignment struct {
	Rows []Sequence
}

// New creates an Alignment from seqs.  It fails if the rows do not all have
// the same length.  seqs is retained, not copied.
func New(seqs []Sequence) (*Alignment, error) {
	if err := checkLengths(seqs); err != nil {
		return nil, err
	}
	return &Alignment{Rows: seqs}, nil
}

// FromFasta creates an Alignment holding every record of fa, in file order.
func FromFasta(fa fasta.Fasta) (*Alignment, error) {
	return New(sequences(fa))
}

func sequences(fa fasta.Fasta) []Sequence {
	recs := fa.Records()
	seqs := make([]Sequence, len(recs))
	for i, r := range recs {
		seqs[i] = Sequence{Name: r.Name, Seq: r.Seq}
	}
	return seqs
}

func checkLengths(seqs []Sequence) error {
	if len(seqs) == 0 {
		return nil
	}
	want := len(seqs[0].Seq)
	for _, s := range seqs[1:] {
		if len(s.Seq) != want {
			return errors.E(errors.Invalid, fmt.Sprintf(
				"all sequences in the alignment must have the same length: %s has %d, %s has %d",
				seqs[0].Name, want, s.Name, len(s.Seq)))
		}
	}
	return nil
}

// Add appends seq to the alignment.  Add does not check the row length; use
// New or Check when the rows come from untrusted input.
func (a *Alignment) Add(seq Sequence) {
	a.Rows = append(a.Rows, seq)
}

// Check verifies that every row has the same length.
func (a *Alignment) Check() error {
	return checkLengths(a.Rows)
}

// NRow returns the number of rows.
func (a *Alignment) NRow() int { return len(a.Rows) }

// Len returns the number of columns, i.e. the length of the first row.
func (a *Alignment) Len() int {
	if len(a.Rows) == 0 {
		return 0
	}
	return len(a.Rows[0].Seq)
}

// Names returns the row names, in row order.
func (a *Alignment) Names() []string {
	names := make([]string, len(a.Rows))
	for i, r := range a.Rows {
		names[i] = r.Name
	}
	return names
}

// Transpose returns, for each column, the symbols of that column across the
// rows, in row order.  It fails on an empty alignment or on ragged rows.
func (a *Alignment) Transpose() ([][]byte, error) {
	if len(a.Rows) == 0 {
		return nil, errors.E(errors.Invalid, "cannot transpose an empty alignment")
	}
	if err := a.Check(); err != nil {
		return nil, err
	}
	nCol, nRow := a.Len(), a.NRow()
	// One backing array for all columns.
	data := make([]byte, nCol*nRow)
	cols := make([][]byte, nCol)
	for c := range cols {
		cols[c] = data[c*nRow : (c+1)*nRow : (c+1)*nRow]
	}
	for r, row := range a.Rows {
		for c, b := range row.Seq {
			cols[c][r] = b
		}
	}
	return cols, nil
}

// Slice returns a new alignment whose rows are copies of the [start, end)
// columns of a.  It panics if the range is out of bounds; see blocks.Trim for
// a row-tolerant variant.
func (a *Alignment) Slice(start, end int) *Alignment {
	out := &Alignment{Rows: make([]Sequence, len(a.Rows))}
	for i, r := range a.Rows {
		out.Rows[i] = Sequence{Name: r.Name, Seq: append([]byte(nil), r.Seq[start:end]...)}
	}
	return out
}

// Checksum returns a seahash digest of the row names and symbols.  It is used
// to tie reports back to the exact input they were computed from.
func (a *Alignment) Checksum() uint64 {
	var h hash.Hash64 = seahash.New()
	for _, r := range a.Rows {
		h.Write([]byte(r.Name)) // nolint: errcheck
		h.Write([]byte{0})      // nolint: errcheck
		h.Write(r.Seq)          // nolint: errcheck
		h.Write([]byte{'\n'})   // nolint: errcheck
	}
	return h.Sum64()
}
