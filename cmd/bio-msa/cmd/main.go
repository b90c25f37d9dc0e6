package cmd

import (
	"fmt"

	"github.com/grailbio/base/cmdutil"
	"github.com/grailbio/base/vcontext"
	"v.io/x/lib/cmdline"
)

type commonFlags struct {
	config *string
	out    *string
}

func addCommonFlags(cmd *cmdline.Command) commonFlags {
	return commonFlags{
		config: cmd.Flags.String("config", "", "YAML file overriding the default options; flags given on the command line take precedence"),
		out:    cmd.Flags.String("out", "", "Output path; empty or '-' means stdout, a '.gz' suffix compresses the output"),
	}
}

func oneArg(name string, argv []string) error {
	if len(argv) != 1 {
		return fmt.Errorf("%s takes one alignment path, but got %v", name, argv)
	}
	return nil
}

func newCmdCon(cfg *Config) *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "con",
		Short:    "Call the consensus sequence of an alignment",
		ArgsName: "alignment",
	}
	c := &cfg.Consensus
	name := cmd.Flags.String("name", "CONS", "Name of the consensus record")
	appendInput := cmd.Flags.Bool("append", true, "Write the input records before the consensus")
	cmd.Flags.Float64Var(&c.Minority, "minority", c.Minority, "Fraction of rows a base, or a tied group of bases, must exceed to be called")
	cmd.Flags.Float64Var(&c.Uncertain, "uncertain", c.Uncertain, "Lower bound of the count fraction that yields '?'")
	cmd.Flags.IntVar(&c.Parallelism, "parallelism", c.Parallelism, "Maximum number of column shards counted concurrently; 0 = runtime.NumCPU()")
	common := addCommonFlags(cmd)
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if err := oneArg("con", argv); err != nil {
			return err
		}
		ctx := vcontext.Background()
		if err := applyConfig(ctx, *common.config, &cmd.Flags, cfg); err != nil {
			return err
		}
		return runCon(ctx, env.Stdout, argv[0], *common.out, *name, *appendInput, cfg.Consensus)
	})
	return cmd
}

func addBlockFlags(cmd *cmdline.Command, miss, identity *float64) {
	cmd.Flags.Float64Var(miss, "miss", *miss, "Conserved columns have a gap fraction below this value")
	cmd.Flags.Float64Var(identity, "identity", *identity, "Conserved columns have an identity above this value")
}

func newCmdBlocks(cfg *Config) *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "blocks",
		Short:    "List the conserved columns of an alignment",
		ArgsName: "alignment",
	}
	b := &cfg.Blocks
	addBlockFlags(cmd, &b.Miss, &b.Identity)
	cmd.Flags.IntVar(&b.Parallelism, "parallelism", b.Parallelism, "Maximum number of column shards counted concurrently; 0 = runtime.NumCPU()")
	common := addCommonFlags(cmd)
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if err := oneArg("blocks", argv); err != nil {
			return err
		}
		ctx := vcontext.Background()
		if err := applyConfig(ctx, *common.config, &cmd.Flags, cfg); err != nil {
			return err
		}
		return runBlocks(ctx, env.Stdout, argv[0], *common.out, cfg.Blocks)
	})
	return cmd
}

func newCmdTrim(cfg *Config) *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "trim",
		Short:    "Trim an alignment to the region spanned by its conserved columns",
		ArgsName: "alignment",
	}
	b := &cfg.Blocks
	addBlockFlags(cmd, &b.Miss, &b.Identity)
	cmd.Flags.IntVar(&b.Extend, "extend", b.Extend, "Number of columns kept on each side of the outermost conserved columns")
	cmd.Flags.IntVar(&b.NextHit, "next-hit", b.NextHit, "Conserved columns with no other conserved column within this distance are ignored")
	cmd.Flags.IntVar(&b.Parallelism, "parallelism", b.Parallelism, "Maximum number of column shards counted concurrently; 0 = runtime.NumCPU()")
	common := addCommonFlags(cmd)
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if err := oneArg("trim", argv); err != nil {
			return err
		}
		ctx := vcontext.Background()
		if err := applyConfig(ctx, *common.config, &cmd.Flags, cfg); err != nil {
			return err
		}
		return runTrim(ctx, env.Stdout, argv[0], *common.out, cfg.Blocks)
	})
	return cmd
}

func newCmdDiv(cfg *Config) *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "div",
		Short:    "Compute nucleotide diversity along an alignment",
		ArgsName: "alignment",
	}
	d := &cfg.Diversity
	cmd.Flags.IntVar(&d.Window, "window", d.Window, "Window size, in columns")
	cmd.Flags.IntVar(&d.Step, "step", d.Step, "Distance between the starts of consecutive windows")
	cmd.Flags.IntVar(&d.Parallelism, "parallelism", d.Parallelism, "Maximum number of windows computed concurrently; 0 = runtime.NumCPU()")
	common := addCommonFlags(cmd)
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if err := oneArg("div", argv); err != nil {
			return err
		}
		ctx := vcontext.Background()
		if err := applyConfig(ctx, *common.config, &cmd.Flags, cfg); err != nil {
			return err
		}
		return runDiv(ctx, env.Stdout, argv[0], *common.out, cfg.Diversity)
	})
	return cmd
}

func newCmdTSD(cfg *Config) *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "tsd",
		Short:    "List target site duplication candidates of every sequence",
		ArgsName: "alignment",
	}
	o := &cfg.TSD
	cmd.Flags.IntVar(&o.KmerLength, "kmer-length", o.KmerLength, "Length of the terminal region scanned at each end of a sequence")
	cmd.Flags.IntVar(&o.MinWindow, "min-window", o.MinWindow, "Smallest candidate length")
	cmd.Flags.IntVar(&o.MaxWindow, "max-window", o.MaxWindow, "Largest candidate length")
	common := addCommonFlags(cmd)
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if err := oneArg("tsd", argv); err != nil {
			return err
		}
		ctx := vcontext.Background()
		if err := applyConfig(ctx, *common.config, &cmd.Flags, cfg); err != nil {
			return err
		}
		return runTSD(ctx, env.Stdout, argv[0], *common.out, cfg.TSD)
	})
	return cmd
}

func newCmdTIR(cfg *Config) *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "tir",
		Short:    "Align the consensus against its reverse complement to look for terminal inverted repeats",
		ArgsName: "alignment",
	}
	o := &cfg.TIR
	show := cmd.Flags.Bool("show", false, "Print the alignment after the run summary")
	limit := cmd.Flags.Int("limit", 10, "Number of operation runs to print; 0 prints all of them")
	width := cmd.Flags.Int("width", 100, "Line width of the printed alignment")
	addBlockFlags(cmd, &o.Miss, &o.Identity)
	cmd.Flags.IntVar(&o.Extend, "extend", o.Extend, "Number of columns kept on each side of the outermost conserved columns")
	cmd.Flags.IntVar(&o.NextHit, "next-hit", o.NextHit, "Conserved columns with no other conserved column within this distance are ignored")
	cmd.Flags.IntVar(&o.Scoring.Match, "match", o.Scoring.Match, "Match score")
	cmd.Flags.IntVar(&o.Scoring.Mismatch, "mismatch", o.Scoring.Mismatch, "Mismatch score")
	cmd.Flags.IntVar(&o.Scoring.GapOpen, "gap-open", o.Scoring.GapOpen, "Gap open score")
	cmd.Flags.IntVar(&o.Scoring.GapExtend, "gap-extend", o.Scoring.GapExtend, "Gap extension score")
	cmd.Flags.IntVar(&o.Parallelism, "parallelism", o.Parallelism, "Maximum number of column shards counted concurrently; 0 = runtime.NumCPU()")
	common := addCommonFlags(cmd)
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if err := oneArg("tir", argv); err != nil {
			return err
		}
		ctx := vcontext.Background()
		if err := applyConfig(ctx, *common.config, &cmd.Flags, cfg); err != nil {
			return err
		}
		return runTIR(ctx, env.Stdout, argv[0], *common.out, *limit, *show, *width, cfg.TIR)
	})
	return cmd
}

func newCmdDot(cfg *Config) *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "dot",
		Short:    "List the self dot plot hits of every sequence",
		ArgsName: "fasta",
	}
	o := &cfg.Dot
	cmd.Flags.IntVar(&o.Window, "wsize", o.Window, "Window size")
	cmd.Flags.IntVar(&o.Step, "wstep", o.Step, "Distance between the starts of consecutive windows")
	cmd.Flags.IntVar(&o.Mismatches, "nmatches", o.Mismatches, "Largest number of mismatches between two windows for a hit")
	cmd.Flags.IntVar(&o.Parallelism, "parallelism", o.Parallelism, "Maximum number of matrix rows computed concurrently; 0 = runtime.NumCPU()")
	common := addCommonFlags(cmd)
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if err := oneArg("dot", argv); err != nil {
			return err
		}
		ctx := vcontext.Background()
		if err := applyConfig(ctx, *common.config, &cmd.Flags, cfg); err != nil {
			return err
		}
		return runDot(ctx, env.Stdout, argv[0], *common.out, cfg.Dot)
	})
	return cmd
}

func newRoot() *cmdline.Command {
	cfg := DefaultConfig()
	return &cmdline.Command{
		Name:     "bio-msa",
		Short:    "Tools for summarizing multiple alignments of transposable elements",
		Children: []*cmdline.Command{
			newCmdCon(&cfg),
			newCmdBlocks(&cfg),
			newCmdTrim(&cfg),
			newCmdDiv(&cfg),
			newCmdTSD(&cfg),
			newCmdTIR(&cfg),
			newCmdDot(&cfg),
		},
	}
}

// Run runs the subcommand named by args and returns the process exit code.
func Run(args []string) int {
	cmdline.HideGlobalFlagsExcept()
	env := cmdline.EnvFromOS()
	return cmdline.ExitCode(cmdline.ParseAndRun(newRoot(), env, args), env.Stderr)
}
