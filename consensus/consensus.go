package consensus

import (
	"github.com/grailbio/msa/alignment"
)

// Opts controls consensus calling.
type Opts struct {
	// Minority is the fraction of rows a base (or a tied group of bases) must
	// exceed to be called.
	Minority float64 `yaml:"minority"`
	// Uncertain is the lower bound of the low-confidence band
	// [Uncertain, Minority) that yields '?'.
	Uncertain float64 `yaml:"uncertain"`
	// Parallelism bounds the number of column shards profiled concurrently.
	// Zero means runtime.NumCPU().
	Parallelism int `yaml:"parallelism"`
}

// DefaultOpts is the default value for Opts.
var DefaultOpts = Opts{
	Minority:  0.4,
	Uncertain: 0.3,
}

// baseCounts holds the case-folded counts of the four bases in a column and
// the two thresholds derived from the row count.
type baseCounts struct {
	a, c, g, t int
	hi, lo     float64
}

func (k *baseCounts) above(n int) bool { return float64(n) > k.hi }

// weak reports whether lo <= n < hi.  The lower bound is inclusive, so a base
// present in exactly Uncertain*nrow rows, such as {A:3, -:7}, is called '?'
// rather than '-', and {A:3,C:3,G:2,T:2} yields '?'.
func (k *baseCounts) weak(n int) bool {
	f := float64(n)
	return f >= k.lo && f < k.hi
}

type rule struct {
	name string
	pred func(k *baseCounts) bool
	out  byte
}

// rules is evaluated top to bottom; the first matching rule produces the
// symbol.  Only the listed tie combinations are recognized, and the order
// matters for columns where several predicates hold.
var rules = []rule{
	{"G", func(k *baseCounts) bool { return k.g > k.c && k.g > k.a && k.g > k.t && k.above(k.g) }, 'G'},
	{"C", func(k *baseCounts) bool { return k.c > k.g && k.c > k.a && k.c > k.t && k.above(k.c) }, 'C'},
	{"A", func(k *baseCounts) bool { return k.a > k.g && k.a > k.c && k.a > k.t && k.above(k.a) }, 'A'},
	{"T", func(k *baseCounts) bool { return k.t > k.g && k.t > k.c && k.t > k.a && k.above(k.t) }, 'T'},

	{"G=T", func(k *baseCounts) bool { return k.g > k.c && k.g > k.a && k.g == k.t && k.above(k.g) }, 'K'},
	{"G=C", func(k *baseCounts) bool { return k.g > k.a && k.g > k.t && k.g == k.c && k.above(k.g) }, 'S'},
	{"G=A", func(k *baseCounts) bool { return k.g > k.c && k.g > k.t && k.g == k.a && k.above(k.g) }, 'R'},
	{"A=C", func(k *baseCounts) bool { return k.a > k.g && k.a > k.t && k.a == k.c && k.above(k.a) }, 'M'},
	{"A=T", func(k *baseCounts) bool { return k.a > k.g && k.a > k.c && k.a == k.t && k.above(k.a) }, 'W'},
	{"C=T", func(k *baseCounts) bool { return k.c > k.g && k.c > k.a && k.c == k.t && k.above(k.c) }, 'Y'},

	{"A=C=G", func(k *baseCounts) bool { return k.a > k.t && k.a == k.c && k.a == k.g && k.above(k.a) }, 'V'},
	{"A=C=T", func(k *baseCounts) bool { return k.a > k.g && k.a == k.c && k.a == k.t && k.above(k.a) }, 'H'},
	{"A=G=T", func(k *baseCounts) bool { return k.a > k.c && k.a == k.g && k.a == k.t && k.above(k.a) }, 'D'},
	{"C=G=T", func(k *baseCounts) bool { return k.c > k.a && k.c == k.g && k.c == k.t && k.above(k.c) }, 'B'},

	{"A=C=G=T", func(k *baseCounts) bool { return k.a == k.c && k.a == k.g && k.a == k.t && k.above(k.a) }, 'N'},

	// A base count in [Uncertain*nrow, Minority*nrow), lower bound included.
	{"weak", func(k *baseCounts) bool { return k.weak(k.a) || k.weak(k.c) || k.weak(k.g) || k.weak(k.t) }, alignment.Uncertain},
}

func fold(p *Profile, nrow int, opts *Opts) baseCounts {
	return baseCounts{
		a:  p['A'] + p['a'],
		c:  p['C'] + p['c'],
		g:  p['G'] + p['g'],
		t:  p['T'] + p['t'],
		hi: opts.Minority * float64(nrow),
		lo: opts.Uncertain * float64(nrow),
	}
}

// Call returns the consensus symbol for one column profile of an alignment
// with nrow rows.  If opts is nil, DefaultOpts is used.
func Call(p *Profile, nrow int, opts *Opts) byte {
	if opts == nil {
		opts = &DefaultOpts
	}
	k := fold(p, nrow, opts)
	for i := range rules {
		if rules[i].pred(&k) {
			return rules[i].out
		}
	}
	return alignment.Gap
}

// Consensus calls one symbol per profile.
func Consensus(profiles []Profile, nrow int, opts *Opts) []byte {
	cons := make([]byte, len(profiles))
	for i := range profiles {
		cons[i] = Call(&profiles[i], nrow, opts)
	}
	return cons
}

// Build profiles a and returns its consensus sequence.
func Build(a *alignment.Alignment, opts *Opts) ([]byte, error) {
	if opts == nil {
		opts = &DefaultOpts
	}
	profiles, err := NewProfiles(a, opts.Parallelism)
	if err != nil {
		return nil, err
	}
	return Consensus(profiles, a.NRow(), opts), nil
}
