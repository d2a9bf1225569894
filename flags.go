package main

import (
	"errors"
	"flag"
	"fmt"
	"io"

	"braces.dev/errtrace"
	"github.com/peterbourgon/ff/v3"

	"github.com/tokenprep/fencesplit/internal/flagvalue"
)

var errInvalidArguments = errors.New("invalid arguments")

// Output formats supported by -format.
const (
	formatText = "text"
	formatJSON = "json"
)

// params holds all arguments for fencesplit.
type params struct {
	version bool

	Languages  []lang
	ConfigFile string
	Format     string
	Debug      flagvalue.FileSwitch

	Files []string
}

// cliParser parses the command line arguments for fencesplit.
type cliParser struct {
	Stdout io.Writer
	Stderr io.Writer
}

const _usage = `USAGE: fencesplit [OPTIONS] [FILE ...]

Splits each FILE (or stdin if none is given, or FILE is '-') around
fenced code blocks and prints the resulting byte-range spans, one
list per input. Blocks tagged with a recognized language are refined
into token-level spans; other blocks stay opaque.

OPTIONS

  -lang LANG
	refine blocks tagged LANG; repeatable (default: python, py)
  -config FILE
	read the language list from a JSON file: {"languages": [...]}
  -format FORMAT
	output format, text or json (default: text)
  -debug[=FILE]
	write diagnostics to stderr, or to FILE if given
  -version
	print the version and exit

Flags may also be set with FENCESPLIT_* environment variables.
`

func (cmd *cliParser) newFlagSet() (*params, *flag.FlagSet) {
	fset := flag.NewFlagSet("fencesplit", flag.ContinueOnError)
	fset.SetOutput(cmd.Stderr)
	fset.Usage = func() {
		fmt.Fprint(cmd.Stderr, _usage)
	}

	var p params

	// Splitting:
	fset.Var(flagvalue.ListOf(&p.Languages), "lang", "")
	fset.StringVar(&p.ConfigFile, "config", "", "")

	// Output:
	fset.StringVar(&p.Format, "format", formatText, "")

	// Program-level:
	fset.Var(&p.Debug, "debug", "")
	fset.BoolVar(&p.version, "version", false, "")

	return &p, fset
}

func (cmd *cliParser) Parse(args []string) (*params, error) {
	p, fset := cmd.newFlagSet()
	if err := ff.Parse(fset, args, ff.WithEnvVarPrefix("FENCESPLIT")); err != nil {
		return nil, errtrace.Wrap(err)
	}

	if p.version {
		fmt.Fprintln(cmd.Stdout, "fencesplit", _version)
		return nil, flag.ErrHelp
	}

	switch p.Format {
	case formatText, formatJSON:
		// proceed as usual
	default:
		fmt.Fprintf(cmd.Stderr, "unknown format %q: expected %q or %q\n",
			p.Format, formatText, formatJSON)
		return nil, errInvalidArguments
	}

	p.Files = fset.Args()
	if len(p.Files) == 0 {
		p.Files = []string{"-"}
	}
	return p, nil
}

// lang is a single -lang flag argument.
type lang string

var _ flag.Getter = (*lang)(nil)

func (l *lang) Get() any { return string(*l) }

func (l *lang) String() string { return string(*l) }

func (l *lang) Set(s string) error {
	if s == "" {
		return errtrace.New("language must not be empty")
	}
	*l = lang(s)
	return nil
}

func languageStrings(langs []lang) []string {
	out := make([]string, len(langs))
	for i, l := range langs {
		out[i] = string(l)
	}
	return out
}
