package cmd

import (
	"context"
	"io"
	"strings"

	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	"github.com/klauspost/compress/gzip"
)

// output is the destination of a subcommand's results: stdout, a file, or a
// gzip-compressed file when the path ends in ".gz".
type output struct {
	io.Writer
	path string
	f    file.File
	gz   *gzip.Writer
}

func createOutput(ctx context.Context, path string, stdout io.Writer) (*output, error) {
	if path == "" || path == "-" {
		return &output{Writer: stdout}, nil
	}
	f, err := file.Create(ctx, path)
	if err != nil {
		return nil, err
	}
	o := &output{Writer: f.Writer(ctx), path: path, f: f}
	if strings.HasSuffix(path, ".gz") {
		o.gz = gzip.NewWriter(o.Writer)
		o.Writer = o.gz
	}
	return o, nil
}

// Close flushes and closes the output, and stores the first error in *err.
func (o *output) Close(ctx context.Context, err *error) {
	if o.gz != nil {
		if e := o.gz.Close(); e != nil && *err == nil {
			*err = e
		}
	}
	if o.f != nil {
		file.CloseAndReport(ctx, o.f, err)
		if *err == nil {
			log.Debug.Printf("wrote %s", o.path)
		}
	}
}
