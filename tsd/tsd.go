// Package tsd looks for target site duplication candidates: short k-mers that
// occur both near the start and near the end of an aligned sequence.
package tsd

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/biogo/store/llrb"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/tsv"
	"github.com/grailbio/base/unsafe"
	"github.com/grailbio/msa/alignment"
)

// Opts controls the k-mer scan.
type Opts struct {
	// KmerLength is the size of the terminal region scanned at each end of a
	// row.
	KmerLength int `yaml:"kmer_length"`
	// MinWindow and MaxWindow bound the k-mer sizes, inclusive.
	MinWindow int `yaml:"min_window"`
	MaxWindow int `yaml:"max_window"`
}

// DefaultOpts is the default value for Opts.
var DefaultOpts = Opts{
	KmerLength: 30,
	MinWindow:  4,
	MaxWindow:  12,
}

// Kmers maps a k-mer to its number of occurrences.
type Kmers map[string]int

// Entry holds the k-mers of one window size found in the two terminal regions
// of one row.
type Entry struct {
	Name   string
	Window int
	Left   Kmers
	Right  Kmers
}

// Shared returns the k-mers present in both Left and Right, with their
// occurrence counts summed.
func (e *Entry) Shared() Kmers {
	shared := Kmers{}
	for k, n := range e.Left {
		if m, ok := e.Right[k]; ok {
			shared[k] = n + m
		}
	}
	return shared
}

// Hash is the list of Entries for an alignment, in row order and then in
// increasing window size.
type Hash []Entry

// NewHash scans the first and the last kmerLength symbols of every row of a
// for gap-free k-mers of each size in [minWindow, maxWindow].  Rows are
// upper-cased first.
func NewHash(a *alignment.Alignment, kmerLength, minWindow, maxWindow int) (Hash, error) {
	if a.NRow() == 0 {
		return nil, errors.E(errors.Invalid, "tsd: empty alignment")
	}
	if err := a.Check(); err != nil {
		return nil, err
	}
	if kmerLength < 1 || kmerLength > a.Len() {
		return nil, errors.E(errors.Invalid, fmt.Sprintf("tsd: terminal region length %d out of range [1, %d]", kmerLength, a.Len()))
	}
	if minWindow < 1 || minWindow > maxWindow {
		return nil, errors.E(errors.Invalid, fmt.Sprintf("tsd: invalid k-mer size range [%d, %d]", minWindow, maxWindow))
	}
	length := a.Len()
	h := make(Hash, 0, a.NRow()*(maxWindow-minWindow+1))
	for _, r := range a.Rows {
		// upper is never modified, so its windows can back map keys
		// without copying.
		upper := bytes.ToUpper(r.Seq)
		left := upper[:kmerLength]
		right := upper[length-kmerLength:]
		for w := minWindow; w <= maxWindow; w++ {
			h = append(h, Entry{
				Name:   r.Name,
				Window: w,
				Left:   countKmers(left, w),
				Right:  countKmers(right, w),
			})
		}
	}
	return h, nil
}

func countKmers(region []byte, w int) Kmers {
	m := Kmers{}
	for i := 0; i+w <= len(region); i++ {
		kmer := region[i : i+w]
		if bytes.IndexByte(kmer, alignment.Gap) >= 0 {
			continue
		}
		m[unsafe.BytesToString(kmer)]++
	}
	return m
}

// Candidates maps a row name to its non-redundant candidates, longest first
// and then in lexicographic order.
type Candidates map[string][]string

// candidate orders k-mers in an llrb.Tree: longer first, then bytewise.
type candidate string

// Compare implements llrb.Comparable.
func (c candidate) Compare(c2 llrb.Comparable) int {
	o := c2.(candidate)
	if d := len(o) - len(c); d != 0 {
		return d
	}
	return strings.Compare(string(c), string(o))
}

// Merge collects, for every row name, the k-mers shared by both terminal
// regions across all window sizes, and drops every k-mer contained in a
// different candidate of the same row.  Every name in h appears in the
// result, possibly with no candidates.
func Merge(h Hash) Candidates {
	sets := map[string]*llrb.Tree{}
	for i := range h {
		e := &h[i]
		t, ok := sets[e.Name]
		if !ok {
			t = &llrb.Tree{}
			sets[e.Name] = t
		}
		for k := range e.Shared() {
			t.Insert(candidate(k))
		}
	}
	c := make(Candidates, len(sets))
	for name, t := range sets {
		var kept []string
		t.Do(func(item llrb.Comparable) bool {
			s := string(item.(candidate))
			for _, longer := range kept {
				if strings.Contains(longer, s) {
					return false
				}
			}
			kept = append(kept, s)
			return false
		})
		c[name] = kept
	}
	return c
}

// WriteTable writes a tab-separated table with one row per name that has at
// least one candidate, in the order of names.  The Length column holds the
// length of the longest candidate.
func WriteTable(w io.Writer, names []string, c Candidates) error {
	out := tsv.NewWriter(w)
	out.WriteString("ID\tLength\tTSDs")
	if err := out.EndLine(); err != nil {
		return err
	}
	seen := map[string]bool{}
	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true
		tsds := c[name]
		if len(tsds) == 0 {
			continue
		}
		out.WriteString(name)
		out.WriteUint32(uint32(len(tsds[0])))
		for _, s := range tsds {
			out.WriteString(s)
		}
		if err := out.EndLine(); err != nil {
			return err
		}
	}
	return out.Flush()
}
