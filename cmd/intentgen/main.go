// Command intentgen assigns a unique intent to every question of one or more
// CSV question/answer sheets and optionally exports a Rasa project per sheet.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/yanqian/faq-intents/internal/bootstrap"
	"github.com/yanqian/faq-intents/internal/infra/config"
	"github.com/yanqian/faq-intents/pkg/logger"
)

var defaultInput = filepath.Join("data", "input", "Chat.csv")

type cliArgs struct {
	configPath string
	outDir     string
	rasaDir    string
	mode       string
	corpus     string
	jobs       int
	inputs     []string
}

func parseFlags(fs *flag.FlagSet, argv []string) (cliArgs, error) {
	var args cliArgs
	fs.StringVar(&args.configPath, "config", "", "Path to config.yaml (defaults to CONFIG_PATH or configs/config.yaml)")
	fs.StringVar(&args.outDir, "out-dir", "", "Directory for <name>_intent.csv files (defaults to each input's directory)")
	fs.StringVar(&args.rasaDir, "rasa-dir", "", "Write a Rasa project per corpus below this directory")
	fs.StringVar(&args.mode, "mode", "", "Collision resolution mode: sweep, stable or counter")
	fs.StringVar(&args.corpus, "corpus", "", "Corpus name for a single input (defaults to the file name)")
	fs.IntVar(&args.jobs, "jobs", 4, "Maximum number of files processed concurrently")
	if err := fs.Parse(argv); err != nil {
		return cliArgs{}, err
	}
	args.inputs = fs.Args()
	if len(args.inputs) == 0 {
		args.inputs = []string{defaultInput}
	}
	if args.corpus != "" && len(args.inputs) > 1 {
		return cliArgs{}, fmt.Errorf("-corpus can only be used with a single input file")
	}
	if args.jobs < 1 {
		args.jobs = 1
	}
	return args, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "intentgen:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, argv []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("intentgen", flag.ContinueOnError)
	fs.SetOutput(stderr)
	args, err := parseFlags(fs, argv)
	if err != nil {
		return err
	}

	var cfg *config.Config
	if args.configPath != "" {
		cfg, err = config.LoadFile(args.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}
	if args.mode != "" {
		cfg.Intent.Mode = args.mode
	}

	engine, intentCfg, err := bootstrap.Engine(cfg)
	if err != nil {
		return err
	}

	p := &processor{
		engine:   engine,
		mode:     intentCfg.Mode,
		exporter: bootstrap.RasaExporter(cfg),
		outDir:   args.outDir,
		rasaDir:  args.rasaDir,
		logger:   logger.NewWithWriter(stderr, os.Getenv("LOG_LEVEL")).With("component", "intentgen"),
	}
	results, err := p.processAll(ctx, args.inputs, args.corpus, args.jobs)
	for _, r := range results {
		if r.Output == "" {
			continue
		}
		fmt.Fprintf(stdout, "%s -> %s (%d rows, %d collisions, %d passes)\n", r.Input, r.Output, r.Stats.Rows, r.Stats.Collisions, r.Stats.Passes)
	}
	return err
}
