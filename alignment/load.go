package alignment

import (
	"context"

	"github.com/grailbio/base/compress"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	"github.com/grailbio/msa/encoding/fasta"
)

// readFasta parses the FASTA file at path.  Compressed input is detected from
// the file contents.
func readFasta(ctx context.Context, path string) (fa fasta.Fasta, err error) {
	var infile file.File
	if infile, err = file.Open(ctx, path); err != nil {
		return
	}
	defer func() {
		if e := infile.Close(ctx); e != nil && err == nil {
			err = e
		}
	}()
	reader, _ := compress.NewReader(infile.Reader(ctx))
	defer func() {
		if e := reader.Close(); e != nil && err == nil {
			err = e
		}
	}()
	if fa, err = fasta.New(reader); err != nil {
		return nil, errors.E(err, "reading", path)
	}
	return fa, nil
}

// LoadSequences reads every record of the FASTA file at path, in file order.
// The records may have different lengths.
func LoadSequences(ctx context.Context, path string) ([]Sequence, error) {
	fa, err := readFasta(ctx, path)
	if err != nil {
		return nil, err
	}
	return sequences(fa), nil
}

// Load reads a FASTA multiple alignment from path.  All rows must have the
// same length.
func Load(ctx context.Context, path string) (*Alignment, error) {
	fa, err := readFasta(ctx, path)
	if err != nil {
		return nil, err
	}
	a, err := FromFasta(fa)
	if err != nil {
		return nil, errors.E(err, path)
	}
	log.Debug.Printf("alignment.Load: %s: %d rows, %d columns", path, a.NRow(), a.Len())
	return a, nil
}
