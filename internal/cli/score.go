package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/datar-psa/goifd"
	"github.com/datar-psa/goifd/api"
	"github.com/datar-psa/goifd/dataset"
	"github.com/datar-psa/goifd/ifd"
)

const (
	modeBatch  = "batch"
	modeSingle = "single"
)

const (
	batchSizeFlag   = "batch-size"
	modeFlag        = "mode"
	scoreFormatFlag = "format"
	outDirFlag      = "out-dir"
	parallelFlag    = "parallel"
	retriesFlag     = "retries"
)

func scoreCommand() *cli.Command {
	return &cli.Command{
		Name:      "score",
		Usage:     "Score Q&A files and write <name>_scored.<format> for each",
		ArgsUsage: "FILE...",
		UsageText: `goifd score pairs.json                              # batch scoring, CSV output
   goifd score --mode single --format json a.csv b.csv  # one pair per call
   goifd score --parallel 4 --out-dir scored data/*.json`,
		Action: cmdScore,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  batchSizeFlag,
				Usage: "Pairs rated per scorer call in batch mode",
				Value: ifd.DefaultBatchSize,
			},
			&cli.StringFlag{
				Name:  modeFlag,
				Usage: "Scoring path [batch, single]",
				Value: modeBatch,
			},
			&cli.StringFlag{
				Name:  scoreFormatFlag,
				Usage: "Scored file format [json, yaml, csv]",
				Value: string(dataset.FormatCSV),
			},
			&cli.StringFlag{
				Name:  outDirFlag,
				Usage: "Directory for scored files",
				Value: ".",
			},
			&cli.IntFlag{
				Name:  parallelFlag,
				Usage: "Number of input files scored at the same time",
				Value: 1,
			},
			&cli.IntFlag{
				Name:  retriesFlag,
				Usage: "Retries for a rate-limited scorer call before it degrades",
			},
		},
	}
}

type scoreOptions struct {
	mode      string
	batchSize int
	format    dataset.Format
	outDir    string
}

func cmdScore(ctx context.Context, cmd *cli.Command) error {
	files := cmd.Args().Slice()
	if len(files) == 0 {
		return errors.New("score expects at least one FILE argument")
	}

	format, err := dataset.ParseFormat(cmd.String(scoreFormatFlag))
	if err != nil {
		return err
	}
	opts := scoreOptions{
		mode:      cmd.String(modeFlag),
		batchSize: cmd.Int(batchSizeFlag),
		format:    format,
		outDir:    cmd.String(outDirFlag),
	}
	if opts.mode != modeBatch && opts.mode != modeSingle {
		return fmt.Errorf("unsupported mode %q", opts.mode)
	}
	if err := os.MkdirAll(opts.outDir, 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}

	s, err := newScorer(ctx, cmd, ifd.Options{
		BatchSize:        opts.batchSize,
		RateLimitRetries: cmd.Int(retriesFlag),
	})
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(cmd.Int(parallelFlag), 1))
	for _, file := range files {
		g.Go(func() error {
			return scoreFile(gctx, s, file, opts)
		})
	}
	return g.Wait()
}

// newScorer builds an IFD over the configured backend and fails when
// credentials are missing.
func newScorer(ctx context.Context, cmd *cli.Command, engine ifd.Options) (*goifd.IFD, error) {
	cfg := getConfig(cmd).Config
	if !cfg.IsConfigured() {
		return nil, missingSettings(cfg)
	}
	completer, err := goifd.NewBackend(ctx, cfg, nil)
	if err != nil {
		return nil, fmt.Errorf("creating %s backend: %w", cfg.Backend, err)
	}
	return goifd.NewIFD(
		goifd.WithConfig(cfg),
		goifd.WithCompleter(completer),
		goifd.WithEngineOptions(engine),
	), nil
}

func scoreFile(ctx context.Context, s *goifd.IFD, path string, opts scoreOptions) error {
	log := slog.With("file", filepath.Base(path))

	pairs, err := dataset.Load(path)
	if err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	log.Info("loaded pairs", "count", len(pairs), "mode", opts.mode)

	runOpts := []ifd.RunOption{
		ifd.WithReporter(progressLogger(log)),
	}

	start := time.Now()
	var scored []api.ScoredPair
	if opts.mode == modeSingle {
		scored, err = s.ScorePairs(ctx, pairs, runOpts...)
	} else {
		scored, err = s.ScoreBatch(ctx, pairs, runOpts...)
	}
	if err != nil {
		return fmt.Errorf("scoring %s: %w", path, err)
	}
	elapsed := time.Since(start)

	out := filepath.Join(opts.outDir, dataset.ScoredFileName(path, opts.format))
	if err := dataset.Save(out, opts.format, scored); err != nil {
		return fmt.Errorf("saving %s: %w", out, err)
	}

	log.Info("scored pairs",
		"count", len(scored),
		"total", elapsed.Round(time.Millisecond),
		"per_pair", perPair(elapsed, len(scored)),
		"output", out,
	)
	return nil
}

func progressLogger(log *slog.Logger) api.ProgressReporter {
	return api.ProgressFunc(func(ev api.ProgressEvent) {
		attrs := []any{
			"phase", ev.Phase,
			"done", ev.PairsDone,
			"total", ev.TotalPairs,
			"elapsed", ev.Elapsed.Round(time.Second),
		}
		if eta, ok := estimateRemaining(ev); ok {
			attrs = append(attrs, "eta", eta.Round(time.Second))
		}
		log.Info(ev.Status, attrs...)
	})
}

// estimateRemaining extrapolates the time per finished pair over the pairs left
func estimateRemaining(ev api.ProgressEvent) (time.Duration, bool) {
	if ev.PairsDone <= 0 || ev.PairsDone >= ev.TotalPairs {
		return 0, false
	}
	remaining := ev.TotalPairs - ev.PairsDone
	return ev.Elapsed / time.Duration(ev.PairsDone) * time.Duration(remaining), true
}

func perPair(elapsed time.Duration, n int) time.Duration {
	if n == 0 {
		return 0
	}
	return (elapsed / time.Duration(n)).Round(time.Millisecond)
}
