package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/msa/alignment"
	"github.com/grailbio/msa/blocks"
	"github.com/grailbio/msa/consensus"
	"github.com/grailbio/msa/diversity"
	"github.com/grailbio/msa/dot"
	"github.com/grailbio/msa/tir"
	"github.com/grailbio/msa/tsd"
)

func load(ctx context.Context, path string) (*alignment.Alignment, error) {
	a, err := alignment.Load(ctx, path)
	if err != nil {
		return nil, err
	}
	log.Printf("%s: %d sequences, %d columns, checksum %016x", path, a.NRow(), a.Len(), a.Checksum())
	return a, nil
}

func runCon(ctx context.Context, stdout io.Writer, in, outPath, name string, appendInput bool, opts consensus.Opts) (err error) {
	a, err := load(ctx, in)
	if err != nil {
		return err
	}
	cons, err := consensus.Build(a, &opts)
	if err != nil {
		return err
	}
	out, err := createOutput(ctx, outPath, stdout)
	if err != nil {
		return err
	}
	defer out.Close(ctx, &err)
	if !appendInput {
		a = nil
	}
	return consensus.Write(out, name, cons, a)
}

func runBlocks(ctx context.Context, stdout io.Writer, in, outPath string, opts blocks.Opts) (err error) {
	a, err := load(ctx, in)
	if err != nil {
		return err
	}
	recs, err := blocks.FindBlocks(a, opts.Miss, opts.Identity, opts.Parallelism)
	if err != nil {
		return err
	}
	log.Printf("%s: %d conserved columns", in, len(recs))
	out, err := createOutput(ctx, outPath, stdout)
	if err != nil {
		return err
	}
	defer out.Close(ctx, &err)
	_, err = io.WriteString(out, recs.String())
	return err
}

func runTrim(ctx context.Context, stdout io.Writer, in, outPath string, opts blocks.Opts) (err error) {
	a, err := load(ctx, in)
	if err != nil {
		return err
	}
	recs, err := blocks.FindBlocks(a, opts.Miss, opts.Identity, opts.Parallelism)
	if err != nil {
		return err
	}
	out, err := createOutput(ctx, outPath, stdout)
	if err != nil {
		return err
	}
	defer out.Close(ctx, &err)
	return blocks.WriteTrimmed(out, recs, a, opts.Extend, opts.NextHit)
}

func runDiv(ctx context.Context, stdout io.Writer, in, outPath string, opts diversity.Opts) (err error) {
	a, err := load(ctx, in)
	if err != nil {
		return err
	}
	if a.NRow() < 2 {
		return errors.E(errors.Invalid, fmt.Sprintf("div: %s: need at least two sequences, got %d", in, a.NRow()))
	}
	windows, err := diversity.Windows(a, opts.Window, opts.Step, opts.Parallelism)
	if err != nil {
		return err
	}
	out, err := createOutput(ctx, outPath, stdout)
	if err != nil {
		return err
	}
	defer out.Close(ctx, &err)
	return diversity.WriteTSV(out, windows)
}

func runTSD(ctx context.Context, stdout io.Writer, in, outPath string, opts tsd.Opts) (err error) {
	a, err := load(ctx, in)
	if err != nil {
		return err
	}
	h, err := tsd.NewHash(a, opts.KmerLength, opts.MinWindow, opts.MaxWindow)
	if err != nil {
		return err
	}
	c := tsd.Merge(h)
	log.Printf("%s: %d sequences with candidates", in, len(c))
	out, err := createOutput(ctx, outPath, stdout)
	if err != nil {
		return err
	}
	defer out.Close(ctx, &err)
	return tsd.WriteTable(out, a.Names(), c)
}

func runTIR(ctx context.Context, stdout io.Writer, in, outPath string, limit int, show bool, width int, opts tir.Opts) (err error) {
	a, err := load(ctx, in)
	if err != nil {
		return err
	}
	res, err := tir.SelfAlign(a, opts)
	if err != nil {
		return err
	}
	log.Printf("%s: self-alignment of %d bases, score %d", in, len(res.Forward), res.Alignment.Score)
	out, err := createOutput(ctx, outPath, stdout)
	if err != nil {
		return err
	}
	defer out.Close(ctx, &err)
	if err = tir.WriteRuns(out, res.Runs(), limit); err != nil {
		return err
	}
	if show {
		_, err = fmt.Fprintf(out, "\n%s", res.Pretty(width))
	}
	return err
}

func runDot(ctx context.Context, stdout io.Writer, in, outPath string, opts dot.Opts) (err error) {
	seqs, err := alignment.LoadSequences(ctx, in)
	if err != nil {
		return err
	}
	out, err := createOutput(ctx, outPath, stdout)
	if err != nil {
		return err
	}
	defer out.Close(ctx, &err)
	hw := dot.NewHitWriter(out)
	for _, s := range seqs {
		m, err := dot.Plot(s, opts)
		if err != nil {
			return errors.E(err, "dot", s.Name)
		}
		if err := hw.Write(m); err != nil {
			return err
		}
		log.Debug.Printf("dot: %s: %d windows, %d hits", s.Name, m.N, m.NHit())
	}
	return hw.Flush()
}
