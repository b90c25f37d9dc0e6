package tir

import (
	"strings"

	"github.com/fatih/color"
)

var (
	matchColor = color.New(color.FgGreen)
	substColor = color.New(color.FgRed)
)

// Pretty renders aln as three text lines (x, match markers, y) wrapped every
// width columns.  Markers are '|' for a match, '\' for a substitution, '+' for
// an insertion, 'x' for a deletion and ' ' for a clipped symbol of y.  Matches
// and substitutions are colored unless color.NoColor is set.
func Pretty(x, y []byte, aln Alignment, width int) string {
	if width <= 0 {
		width = 100
	}
	var xl, ml, yl []string
	i, j := 0, 0
	for _, op := range aln.Ops {
		switch op {
		case Match:
			xl, ml, yl = append(xl, string(x[i])), append(ml, matchColor.Sprint("|")), append(yl, string(y[j]))
			i, j = i+1, j+1
		case Subst:
			xl, ml, yl = append(xl, string(x[i])), append(ml, substColor.Sprint(`\`)), append(yl, string(y[j]))
			i, j = i+1, j+1
		case Ins:
			xl, ml, yl = append(xl, string(x[i])), append(ml, "+"), append(yl, "-")
			i++
		case Del:
			xl, ml, yl = append(xl, "-"), append(ml, "x"), append(yl, string(y[j]))
			j++
		case Yclip:
			xl, ml, yl = append(xl, " "), append(ml, " "), append(yl, string(y[j]))
			j++
		}
	}
	var b strings.Builder
	for start := 0; start < len(xl); start += width {
		end := start + width
		if end > len(xl) {
			end = len(xl)
		}
		if start > 0 {
			b.WriteByte('\n')
		}
		for _, line := range [][]string{xl, ml, yl} {
			b.WriteString(strings.Join(line[start:end], ""))
			b.WriteByte('\n')
		}
	}
	return b.String()
}
