package consensus

import (
	"io"

	"github.com/grailbio/msa/alignment"
	"github.com/grailbio/msa/encoding/fasta"
)

// Write writes cons as a FASTA record named name.  If a is non-nil, the rows
// of a are written first, so the consensus appears at the bottom of the
// alignment it was computed from.
func Write(w io.Writer, name string, cons []byte, a *alignment.Alignment) error {
	fw := fasta.NewWriter(w)
	if a != nil {
		for _, r := range a.Rows {
			fw.Write(r.Name, r.Seq)
		}
	}
	fw.Write(name, cons)
	return fw.Flush()
}
