package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/dd0wney/cluso-textnet/pkg/config"
	"github.com/dd0wney/cluso-textnet/pkg/export"
	"github.com/dd0wney/cluso-textnet/pkg/logging"
	"github.com/dd0wney/cluso-textnet/pkg/metrics"
	"github.com/dd0wney/cluso-textnet/pkg/network"
)

type options struct {
	configPath     string
	inputPath      string
	dictionaryPath string
	exportKind     string
	exportPath     string
	topEdges       int
	layoutMethod   string
	seed           int64
	logLevel       string
}

func parseFlags(args []string, stderr io.Writer) (*options, *flag.FlagSet, error) {
	fs := flag.NewFlagSet("textnet", flag.ContinueOnError)
	fs.SetOutput(stderr)

	opts := &options{}
	fs.StringVar(&opts.configPath, "config", "", "YAML configuration file")
	fs.StringVar(&opts.inputPath, "input", "-", "JSON Lines records file (- for stdin)")
	fs.StringVar(&opts.dictionaryPath, "dictionary", "", "JSON object mapping words to display labels")
	fs.StringVar(&opts.exportKind, "export", "", "Export sink: stdout, file, s3, postgres, pubsub")
	fs.StringVar(&opts.exportPath, "out", "", "Output directory for the file sink")
	fs.IntVar(&opts.topEdges, "top-edges", 0, "Number of heaviest edges to keep")
	fs.StringVar(&opts.layoutMethod, "layout", "", "Layout: kamada_kawai, spring, circular")
	fs.Int64Var(&opts.seed, "seed", 0, "Layout seed")
	fs.StringVar(&opts.logLevel, "log-level", "", "debug, info, warn, error")

	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: textnet [flags] < records.jsonl")
		fmt.Fprintln(stderr)
		fmt.Fprintln(stderr, `Each line: {"category": "A", "words": ["猫", "好き"]}`)
		fmt.Fprintln(stderr, `       or: {"category": "A", "tokens": [{"surface": "猫", "base_form": "猫", "pos": "名詞,一般"}]}`)
		fmt.Fprintln(stderr)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return opts, fs, nil
}

// applyFlags overrides cfg with the flags that were set explicitly.
func applyFlags(cfg *config.Config, opts *options, fs *flag.FlagSet) {
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "export":
			cfg.Export.Kind = opts.exportKind
		case "out":
			cfg.Export.Path = opts.exportPath
		case "top-edges":
			cfg.Pipeline.TopEdges = opts.topEdges
		case "layout":
			cfg.Pipeline.LayoutMethod = opts.layoutMethod
		case "seed":
			cfg.Pipeline.Seed = opts.seed
		case "log-level":
			cfg.Logging.Level = opts.logLevel
		}
	})
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	opts, fs, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	applyFlags(cfg, opts, fs)
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := logging.NewJSONLogger(stderr, cfg.LogLevel()).With(logging.Component("cli"))
	registry := metrics.NewRegistry()

	in := stdin
	if opts.inputPath != "-" && opts.inputPath != "" {
		f, err := os.Open(opts.inputPath)
		if err != nil {
			return fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		in = f
	}

	records, err := readRecords(in)
	if err != nil {
		return err
	}

	dictionary, err := readDictionary(opts.dictionaryPath)
	if err != nil {
		return err
	}

	pipeline, err := network.New(cfg.Pipeline, network.WithLogger(logger), network.WithMetrics(registry))
	if err != nil {
		return err
	}

	timer := logging.StartTimer(logger, "records analysed", logging.Count(len(records)))
	results, err := pipeline.RunCategories(ctx, records, dictionary)
	if err != nil {
		timer.EndError(err)
		return err
	}
	timer.End(logging.Int("networks", len(results)))

	sink, err := export.New(ctx, cfg.Export, stdout, logger)
	if err != nil {
		return fmt.Errorf("open %s sink: %w", cfg.Export.Kind, err)
	}
	sink = export.Instrument(sink, registry)
	defer sink.Close()

	n, err := sink.Write(ctx, results)
	if err != nil {
		return fmt.Errorf("export to %s after %d bytes: %w", sink.Name(), n, err)
	}

	logger.Info("export complete",
		logging.String("sink", sink.Name()),
		logging.Count(len(results)),
		logging.Int("bytes", n),
		logging.Documents(len(records)))
	return nil
}

func readDictionary(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dictionary: %w", err)
	}
	var dict map[string]string
	if err := json.Unmarshal(data, &dict); err != nil {
		return nil, fmt.Errorf("parse dictionary %s: %w", path, err)
	}
	return dict, nil
}
