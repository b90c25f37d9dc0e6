package fasta

import (
	"bufio"
	"io"
)

// Writer writes FASTA records.  Each sequence is written on a single line.
type Writer struct {
	w *bufio.Writer
}

// NewWriter creates a Writer that writes to w.  Flush must be called once all
// records have been written.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// Write appends ">name\nseq\n" to the output.  bufio errors are sticky, so
// they are reported by Flush.
func (w *Writer) Write(name string, seq []byte) {
	w.w.WriteByte('>')    // nolint: errcheck
	w.w.WriteString(name) // nolint: errcheck
	w.w.WriteByte('\n')   // nolint: errcheck
	w.w.Write(seq)        // nolint: errcheck
	w.w.WriteByte('\n')   // nolint: errcheck
}

// Flush writes any buffered data and returns the first error encountered.
func (w *Writer) Flush() error {
	return w.w.Flush()
}
