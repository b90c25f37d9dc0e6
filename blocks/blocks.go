// Package blocks finds the conserved columns of a multiple alignment and trims
// the alignment down to the region they span.
package blocks

import (
	"fmt"
	"strings"

	"github.com/grailbio/msa/alignment"
	"github.com/grailbio/msa/consensus"
)

// Opts controls block detection and trimming.
type Opts struct {
	// Miss is the exclusive upper bound on the fraction of gaps in a
	// conserved column.
	Miss float64 `yaml:"miss"`
	// Identity is the exclusive lower bound on the fraction of rows sharing
	// the modal symbol of a conserved column.
	Identity float64 `yaml:"identity"`
	// Extend is the number of columns kept on each side of the outermost
	// conserved columns.
	Extend int `yaml:"extend"`
	// NextHit is the maximum distance, in columns, between a conserved column
	// and its nearest neighbour for the column not to be considered isolated.
	NextHit int `yaml:"next_hit"`
	// Parallelism is passed to consensus.NewProfiles.
	Parallelism int `yaml:"parallelism"`
}

// DefaultOpts is the default value for Opts.
var DefaultOpts = Opts{
	Miss:     0.1,
	Identity: 0.8,
	Extend:   15,
	NextHit:  10,
}

// Record describes one conserved column.  Position is 0-based.
type Record struct {
	Position int
	Identity float64
	Missing  float64
}

// Records is a list of Records in increasing Position order.
type Records []Record

// String returns one line per record, with 1-based positions.
func (r Records) String() string {
	var b strings.Builder
	for _, rec := range r {
		fmt.Fprintf(&b, "Position: %d -- %%ID: %v -- %%Miss: %v\n", rec.Position+1, rec.Identity, rec.Missing)
	}
	return b.String()
}

// FindBlocks returns a Record for every column whose gap fraction is below
// miss and whose identity is above iden.  The identity of a column is the
// fraction of rows holding its modal symbol, or zero when the modal symbol is
// a gap.  Symbols are compared case-sensitively; ties for the modal symbol go
// to the smallest byte value.
func FindBlocks(a *alignment.Alignment, miss, iden float64, parallelism int) (Records, error) {
	profiles, err := consensus.NewProfiles(a, parallelism)
	if err != nil {
		return nil, err
	}
	n := float64(a.NRow())
	var recs Records
	for pos := range profiles {
		p := &profiles[pos]
		sym, count := p.Mode()
		identity := 0.0
		if sym != alignment.Gap {
			identity = float64(count) / n
		}
		missing := float64(p.Count(alignment.Gap)) / n
		if missing < miss && identity > iden {
			recs = append(recs, Record{Position: pos, Identity: identity, Missing: missing})
		}
	}
	return recs, nil
}

// RemoveIsolates returns the records that have a neighbour within nextHit
// columns.  The first and last records only have one neighbour to check, and
// a list with a single record is returned unchanged.
func RemoveIsolates(recs Records, nextHit int) Records {
	if len(recs) <= 1 {
		return append(Records(nil), recs...)
	}
	near := func(i, j int) bool {
		d := recs[j].Position - recs[i].Position
		if d < 0 {
			d = -d
		}
		return d <= nextHit
	}
	var out Records
	for i, rec := range recs {
		keep := (i > 0 && near(i, i-1)) || (i < len(recs)-1 && near(i, i+1))
		if keep {
			out = append(out, rec)
		}
	}
	return out
}
