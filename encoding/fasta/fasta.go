// Package fasta contains code for parsing and writing the FASTA files that
// carry multiple alignments.  Briefly, FASTA files consist of a number of
// named sequences that may be interrupted by newlines.  For example:
//
// >te1
// ACGTAC
// GA--AC
// GCG
// >te2
// ACGT
//
// Note: Sequence names are defined to be the stretch of characters excluding
// spaces immediately after '>'.  Any text appear after a space are ignored.
// For example, '>te1 A helitron copy' becomes 'te1'.
//
// Unlike a reference FASTA, an alignment may legitimately repeat a sequence
// name, so the parser keeps every record in file order.
package fasta

import (
	"bufio"
	"io"
	"strings"

	"github.com/pkg/errors"
)

const (
	bufferInitSize = 1024 * 1024 * 300 // 300 MB
)

// Record is one named sequence of a FASTA file.
type Record struct {
	Name string
	Seq  []byte
}

// Fasta represents FASTA-formatted data, consisting of an ordered list of
// named sequences.
type Fasta interface {
	// Records returns all records in the order of appearance in the FASTA file.
	// The caller must not modify the returned slices.
	Records() []Record
}

type fasta struct {
	records []Record
}

// New creates a new Fasta that holds all the FASTA data from the given reader
// in memory.
func New(r io.Reader) (Fasta, error) {
	f := &fasta{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(nil, bufferInitSize)
	var (
		seqName   string
		inRecord  bool
		seq       strings.Builder
		lineCount int
	)
	flush := func() {
		f.records = append(f.records, Record{Name: seqName, Seq: []byte(seq.String())})
		seq.Reset()
	}
	for scanner.Scan() {
		lineCount++
		line := strings.TrimRight(scanner.Text(), "\r")
		if len(line) == 0 {
			continue
		}
		if line[0] == '>' { // Start a new sequence.
			if inRecord { // We need to store the previous sequence first.
				flush()
			}
			seqName = strings.Split(line[1:], " ")[0]
			if seqName == "" {
				return nil, errors.Errorf("malformed FASTA file: empty sequence name at line %d", lineCount)
			}
			inRecord = true
			continue
		}
		if !inRecord {
			return nil, errors.Errorf("malformed FASTA file: sequence data before first header at line %d", lineCount)
		}
		seq.WriteString(strings.TrimSpace(line))
	}
	if scanner.Err() != nil {
		return nil, errors.Wrap(scanner.Err(), "couldn't read FASTA data")
	}
	if inRecord {
		flush()
	}
	return f, nil
}

// Records implements Fasta.Records().
func (f *fasta) Records() []Record {
	return f.records
}
