package tir

import (
	"fmt"
	"math"
)

// Op is one column of a pairwise alignment between x and y.
type Op uint8

const (
	// Match consumes one symbol of x and one equal symbol of y.
	Match Op = iota
	// Subst consumes one symbol of x and one different symbol of y.
	Subst
	// Del consumes one symbol of y only.
	Del
	// Ins consumes one symbol of x only.
	Ins
	// Yclip skips one symbol at either end of y.
	Yclip
)

var opNames = [...]string{"Match", "Subst", "Del", "Ins", "Yclip"}

func (o Op) String() string {
	if int(o) < len(opNames) {
		return opNames[o]
	}
	return fmt.Sprintf("Op(%d)", o)
}

// Scoring holds the parameters of an affine-gap alignment.  A gap of length k
// scores GapOpen + k*GapExtend.
type Scoring struct {
	Match     int `yaml:"match"`
	Mismatch  int `yaml:"mismatch"`
	GapOpen   int `yaml:"gap_open"`
	GapExtend int `yaml:"gap_extend"`
}

// DefaultScoring is the default value for Scoring.
var DefaultScoring = Scoring{
	Match:     1,
	Mismatch:  -1,
	GapOpen:   -5,
	GapExtend: -1,
}

// Alignment is the result of aligning x against y.
type Alignment struct {
	Score int
	// Ops lists the alignment columns from left to right.
	Ops []Op
}

// matrix is a row-major nRow x nCol score matrix.
type matrix struct {
	nRow, nCol int
	data       []int32
}

func newMatrix(n, m int) matrix {
	return matrix{nRow: n, nCol: m, data: make([]int32, n*m)}
}

func (m matrix) at(i, j int) int32     { return m.data[i*m.nCol+j] }
func (m matrix) set(i, j int, v int32) { m.data[i*m.nCol+j] = v }

// minScore stands for an impossible cell.  It is far enough from MinInt32 that
// adding gap penalties does not overflow.
const minScore = math.MinInt32 / 2

func max32(a, b int32) int32 {
	if a > b {
		return a
	}
	return b
}

// Semiglobal aligns all of x against a substring of y: leading and trailing
// symbols of y may be skipped for free, while every symbol of x is aligned.
// It uses Gotoh's three-matrix recurrence and takes O(len(x)*len(y)) time and
// memory.
func (s Scoring) Semiglobal(x, y []byte) Alignment {
	m, n := len(x), len(y)
	open, ext := int32(s.GapOpen), int32(s.GapExtend)
	// best: best score of any alignment of x[:i] ending at y[:j].
	// ins: same, ending with x[i-1] aligned to a gap.
	// del: same, ending with y[j-1] aligned to a gap.
	best := newMatrix(m+1, n+1)
	ins := newMatrix(m+1, n+1)
	del := newMatrix(m+1, n+1)
	for j := 0; j <= n; j++ {
		best.set(0, j, 0)
		ins.set(0, j, minScore)
		del.set(0, j, minScore)
	}
	for i := 1; i <= m; i++ {
		v := max32(best.at(i-1, 0)+open+ext, ins.at(i-1, 0)+ext)
		ins.set(i, 0, v)
		del.set(i, 0, minScore)
		best.set(i, 0, v)
		for j := 1; j <= n; j++ {
			iv := max32(best.at(i-1, j)+open+ext, ins.at(i-1, j)+ext)
			dv := max32(best.at(i, j-1)+open+ext, del.at(i, j-1)+ext)
			mv := best.at(i-1, j-1) + s.score(x[i-1], y[j-1])
			ins.set(i, j, iv)
			del.set(i, j, dv)
			best.set(i, j, max32(mv, max32(iv, dv)))
		}
	}

	// Trailing symbols of y are free; prefer the alignment that uses most of y.
	endJ := n
	for j := n - 1; j >= 0; j-- {
		if best.at(m, j) > best.at(m, endJ) {
			endJ = j
		}
	}
	aln := Alignment{Score: int(best.at(m, endJ))}

	// Traceback, collecting ops in reverse.
	ops := make([]Op, 0, m+n)
	for k := n; k > endJ; k-- {
		ops = append(ops, Yclip)
	}
	const (
		inBest = iota
		inIns
		inDel
	)
	state := inBest
	i, j := m, endJ
	for i > 0 {
		switch state {
		case inBest:
			v := best.at(i, j)
			switch {
			case j > 0 && v == best.at(i-1, j-1)+s.score(x[i-1], y[j-1]):
				if x[i-1] == y[j-1] {
					ops = append(ops, Match)
				} else {
					ops = append(ops, Subst)
				}
				i, j = i-1, j-1
			case v == ins.at(i, j):
				state = inIns
			default:
				state = inDel
			}
		case inIns:
			ops = append(ops, Ins)
			if i > 1 && ins.at(i, j) == ins.at(i-1, j)+ext && ins.at(i-1, j) > minScore {
				state = inIns
			} else {
				state = inBest
			}
			i--
		case inDel:
			ops = append(ops, Del)
			if j > 1 && del.at(i, j) == del.at(i, j-1)+ext && del.at(i, j-1) > minScore {
				state = inDel
			} else {
				state = inBest
			}
			j--
		}
	}
	for ; j > 0; j-- {
		ops = append(ops, Yclip)
	}
	for l, r := 0, len(ops)-1; l < r; l, r = l+1, r-1 {
		ops[l], ops[r] = ops[r], ops[l]
	}
	aln.Ops = ops
	return aln
}

func (s Scoring) score(a, b byte) int32 {
	if a == b {
		return int32(s.Match)
	}
	return int32(s.Mismatch)
}
