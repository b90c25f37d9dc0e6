package cmd

import (
	"context"
	"flag"
	"io/ioutil"

	"github.com/goccy/go-yaml"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/msa/blocks"
	"github.com/grailbio/msa/consensus"
	"github.com/grailbio/msa/diversity"
	"github.com/grailbio/msa/dot"
	"github.com/grailbio/msa/tir"
	"github.com/grailbio/msa/tsd"
)

// Config holds the options of every subcommand.  A YAML file passed with
// -config overrides the defaults, and flags given on the command line
// override the file.
type Config struct {
	Consensus consensus.Opts `yaml:"consensus"`
	Blocks    blocks.Opts    `yaml:"blocks"`
	Diversity diversity.Opts `yaml:"diversity"`
	TSD       tsd.Opts       `yaml:"tsd"`
	TIR       tir.Opts       `yaml:"tir"`
	Dot       dot.Opts       `yaml:"dot"`
}

// DefaultConfig returns the package defaults.
func DefaultConfig() Config {
	return Config{
		Consensus: consensus.DefaultOpts,
		Blocks:    blocks.DefaultOpts,
		Diversity: diversity.DefaultOpts,
		TSD:       tsd.DefaultOpts,
		TIR:       tir.DefaultOpts,
		Dot:       dot.DefaultOpts,
	}
}

func readConfig(ctx context.Context, path string, cfg *Config) (err error) {
	var in file.File
	if in, err = file.Open(ctx, path); err != nil {
		return err
	}
	defer func() {
		if e := in.Close(ctx); e != nil && err == nil {
			err = e
		}
	}()
	data, err := ioutil.ReadAll(in.Reader(ctx))
	if err != nil {
		return err
	}
	if err = yaml.Unmarshal(data, cfg); err != nil {
		return errors.E(errors.Invalid, err, "parsing config", path)
	}
	return nil
}

// applyConfig loads path into cfg, then restores the flags of fs that were
// set explicitly so that they take precedence over the file.  The flags of
// fs must be bound to fields of cfg.
func applyConfig(ctx context.Context, path string, fs *flag.FlagSet, cfg *Config) error {
	if path == "" {
		return nil
	}
	set := map[string]string{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = f.Value.String() })
	if err := readConfig(ctx, path, cfg); err != nil {
		return err
	}
	for name, value := range set {
		if err := fs.Set(name, value); err != nil {
			return err
		}
	}
	return nil
}
