// fencesplit splits documents around fenced code blocks
// (```lang ... ```) and prints the resulting byte-range spans.
// Bodies of blocks tagged with a recognized language are refined
// into token-level spans; everything else passes through unchanged.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"braces.dev/errtrace"

	"github.com/tokenprep/fencesplit/internal/errdefer"
	"github.com/tokenprep/fencesplit/internal/span"
	"github.com/tokenprep/fencesplit/internal/splitter"
)

var _version = "dev"

func main() {
	cmd := mainCmd{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
	os.Exit(cmd.Run(os.Args[1:]))
}

// mainCmd is the actual entry point to the program.
type mainCmd struct {
	Stdin  io.Reader // == os.Stdin
	Stdout io.Writer // == os.Stdout
	Stderr io.Writer // == os.Stderr

	log *log.Logger
}

func (cmd *mainCmd) Run(args []string) (exitCode int) {
	cmd.log = log.New(cmd.Stderr, "", 0)

	opts, err := (&cliParser{
		Stdout: cmd.Stdout,
		Stderr: cmd.Stderr,
	}).Parse(args)
	if err != nil {
		// '$cmd -h' should exit with zero.
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		// No need to print anything.
		// Parse prints messages.
		return 1
	}

	if err := cmd.run(opts); err != nil {
		cmd.log.Printf("fencesplit: %v", err)
		return 1
	}
	return 0
}

func (cmd *mainCmd) run(opts *params) (err error) {
	debugw, closeDebug, err := opts.Debug.Create(cmd.Stderr)
	if err != nil {
		return errtrace.Wrap(err)
	}
	defer errdefer.Run(&err, closeDebug)

	cfg := splitter.Config{
		Log: log.New(debugw, "", 0),
	}
	if opts.ConfigFile != "" {
		cfg.Languages, err = loadLanguages(opts.ConfigFile)
		if err != nil {
			return err
		}
	}
	if len(opts.Languages) > 0 {
		// Explicit -lang flags replace the configured list.
		cfg.Languages = languageStrings(opts.Languages)
	}

	split, err := splitter.New(cfg)
	if err != nil {
		return errtrace.Wrap(err)
	}

	for _, file := range opts.Files {
		text, err := cmd.readInput(file)
		if err != nil {
			return err
		}
		if err := cmd.writeSpans(opts.Format, text, split.Split(text)); err != nil {
			return err
		}
	}
	return nil
}

// loadLanguages reads the language list from a JSON configuration
// file of the form {"languages": ["python", "py"]}.
func loadLanguages(path string) ([]string, error) {
	bs, err := os.ReadFile(path)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}

	var cfg splitter.Config
	if err := json.Unmarshal(bs, &cfg); err != nil {
		return nil, errtrace.Errorf("parse config %v: %w", path, err)
	}
	return cfg.Languages, nil
}

func (cmd *mainCmd) readInput(file string) (string, error) {
	if file == "-" {
		bs, err := io.ReadAll(cmd.Stdin)
		return string(bs), errtrace.Wrap(err)
	}
	bs, err := os.ReadFile(file)
	return string(bs), errtrace.Wrap(err)
}

func (cmd *mainCmd) writeSpans(format, text string, spans []span.Span) error {
	switch format {
	case formatText:
		for _, sp := range spans {
			fmt.Fprintf(cmd.Stdout, "%d\t%d\t%q\n", sp.Start, sp.End, sp.Text(text))
		}
		return nil

	case formatJSON:
		out := make([]jsonSpan, len(spans))
		for i, sp := range spans {
			out[i] = jsonSpan{Start: sp.Start, End: sp.End, Text: sp.Text(text)}
		}
		return errtrace.Wrap(json.NewEncoder(cmd.Stdout).Encode(out))

	default:
		// Parse validates the format; this is a defect.
		return errtrace.Errorf("unknown format %q", format)
	}
}

// jsonSpan is one output span in '-format json' mode.
type jsonSpan struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Text  string `json:"text"`
}
