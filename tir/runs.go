package tir

import (
	"bufio"
	"fmt"
	"io"
)

// Run is a maximal stretch of identical consecutive alignment columns
// [Start, End).
type Run struct {
	Op         Op
	Start, End int
}

// Len returns the number of columns in the run.
func (r Run) Len() int { return r.End - r.Start }

// Runs groups ops into runs of identical consecutive operations.
func Runs(ops []Op) []Run {
	var runs []Run
	for i := 0; i < len(ops); {
		j := i + 1
		for j < len(ops) && ops[j] == ops[i] {
			j++
		}
		runs = append(runs, Run{Op: ops[i], Start: i, End: j})
		i = j
	}
	return runs
}

// WriteRuns writes up to limit runs, one "start - end: Op occurs n times" line
// each.  limit <= 0 writes every run.
func WriteRuns(w io.Writer, runs []Run, limit int) error {
	if limit > 0 && len(runs) > limit {
		runs = runs[:limit]
	}
	out := bufio.NewWriter(w)
	for _, r := range runs {
		fmt.Fprintf(out, "%d - %d: %v occurs %d times\n", r.Start, r.End, r.Op, r.Len()) // nolint: errcheck
	}
	return out.Flush()
}
