package blocks

import (
	"io"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/msa/alignment"
	"github.com/grailbio/msa/encoding/fasta"
)

// TrimBounds returns the half-open column range kept by Trim for an alignment
// of the given length: from extend columns before the first non-isolated
// record to extend columns after the last one, clamped to [0, length].  When
// no record survives, the whole alignment is kept.
func TrimBounds(recs Records, length, extend, nextHit int) (start, end int) {
	kept := RemoveIsolates(recs, nextHit)
	if len(kept) == 0 {
		return 0, length
	}
	start = kept[0].Position - extend
	end = kept[len(kept)-1].Position + extend
	if start < 0 {
		start = 0
	}
	if end > length {
		end = length
	}
	if end < start {
		end = start
	}
	return start, end
}

// Trim returns a new alignment holding columns [start, end) of every row of
// a, where the bounds come from TrimBounds on the first row's length.  A row
// too short for the range is logged and left out of the result.
func Trim(recs Records, a *alignment.Alignment, extend, nextHit int) (*alignment.Alignment, error) {
	if a.NRow() == 0 {
		return nil, errors.E(errors.Invalid, "trim: empty alignment")
	}
	start, end := TrimBounds(recs, a.Len(), extend, nextHit)
	out := &alignment.Alignment{}
	for _, r := range a.Rows {
		if end > len(r.Seq) {
			log.Error.Printf("trim: %s: range %d-%d out of bounds for length %d; use a smaller extend", r.Name, start, end, len(r.Seq))
			continue
		}
		out.Add(alignment.Sequence{Name: r.Name, Seq: append([]byte(nil), r.Seq[start:end]...)})
	}
	log.Debug.Printf("trim: kept columns %d-%d of %d, %d of %d rows", start, end, a.Len(), out.NRow(), a.NRow())
	return out, nil
}

// WriteTrimmed trims a and writes the result as FASTA records.
func WriteTrimmed(w io.Writer, recs Records, a *alignment.Alignment, extend, nextHit int) error {
	t, err := Trim(recs, a, extend, nextHit)
	if err != nil {
		return err
	}
	fw := fasta.NewWriter(w)
	for _, r := range t.Rows {
		fw.Write(r.Name, r.Seq)
	}
	return fw.Flush()
}
