package cli

import (
	"context"
	"fmt"
	"log/slog"

	language "cloud.google.com/go/language/apiv1"
	"github.com/urfave/cli/v3"
	"google.golang.org/api/option"

	"github.com/datar-psa/goifd"
	"github.com/datar-psa/goifd/api"
	"github.com/datar-psa/goifd/config"
	"github.com/datar-psa/goifd/curate"
	"github.com/datar-psa/goifd/dataset"
	"github.com/datar-psa/goifd/gemini"
)

const (
	defaultEmbeddingModel = "text-embedding-005"

	minIFDFlag         = "min-ifd"
	maxIFDFlag         = "max-ifd"
	tierFlag           = "tier"
	categoryFlag       = "category"
	highValueFlag      = "high-value"
	outFlag            = "out"
	ascendingFlag      = "ascending"
	thresholdFlag      = "threshold"
	exactFlag          = "exact"
	embeddingModelFlag = "embedding-model"
)

func outFileFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  outFlag,
		Usage: "Write kept pairs to this file (format from extension) instead of stdout",
	}
}

func filterCommand() *cli.Command {
	return &cli.Command{
		Name:      "filter",
		Usage:     "Select scored pairs by IFD range, tier and value category",
		ArgsUsage: "FILE",
		UsageText: `goifd filter --min-ifd 0.4 --max-ifd 0.8 scored.csv
   goifd filter --tier hard --category high --out hard.json scored.json
   goifd filter --high-value scored.csv`,
		Action: cmdFilter,
		Flags: []cli.Flag{
			&cli.FloatFlag{
				Name:  minIFDFlag,
				Usage: "Lowest IFD score kept (inclusive)",
				Value: 0,
			},
			&cli.FloatFlag{
				Name:  maxIFDFlag,
				Usage: "Highest IFD score kept (inclusive)",
				Value: 1,
			},
			&cli.StringSliceFlag{
				Name:  tierFlag,
				Usage: "Difficulty tier to keep [easy, medium, hard] (can be specified multiple times)",
			},
			&cli.StringSliceFlag{
				Name:  categoryFlag,
				Usage: "Value category to keep [low, medium, high] (can be specified multiple times)",
			},
			&cli.BoolFlag{
				Name:  highValueFlag,
				Usage: fmt.Sprintf("Keep only pairs with IFD of at least %.1f", curate.DefaultHighValueMin),
			},
			outFileFlag(),
		},
	}
}

func rankCommand() *cli.Command {
	return &cli.Command{
		Name:      "rank",
		Usage:     "Sort scored pairs by IFD score, highest first",
		ArgsUsage: "FILE",
		Action:    cmdRank,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  ascendingFlag,
				Usage: "Lowest IFD first",
			},
			outFileFlag(),
		},
	}
}

func statsCommand() *cli.Command {
	return &cli.Command{
		Name:      "stats",
		Usage:     "Summarize a scored file: averages, distributions and insights",
		ArgsUsage: "FILE",
		Action:    cmdStats,
	}
}

func screenCommand() *cli.Command {
	return &cli.Command{
		Name:      "screen",
		Usage:     "Flag unsafe answers with the Cloud Natural Language moderation API",
		ArgsUsage: "FILE",
		Action:    cmdScreen,
		Flags: []cli.Flag{
			&cli.FloatFlag{
				Name:  thresholdFlag,
				Usage: "Category confidence above which an answer is flagged",
				Value: curate.DefaultScreenThreshold,
			},
			&cli.StringSliceFlag{
				Name:  categoryFlag,
				Usage: "Moderation category to check, e.g. Toxic (can be specified multiple times; default: all)",
			},
			outFileFlag(),
		},
	}
}

func dedupeCommand() *cli.Command {
	return &cli.Command{
		Name:      "dedupe",
		Usage:     "Drop pairs whose answers duplicate an earlier pair",
		ArgsUsage: "FILE",
		Action:    cmdDedupe,
		Flags: []cli.Flag{
			&cli.FloatFlag{
				Name:  thresholdFlag,
				Usage: "Answer embedding similarity at which a later pair is dropped",
				Value: curate.DefaultDedupeThreshold,
			},
			&cli.BoolFlag{
				Name:  exactFlag,
				Usage: "Compare trimmed, lower-cased answers instead of embeddings",
			},
			&cli.StringFlag{
				Name:  embeddingModelFlag,
				Usage: "Embedding model for the gemini and vertex backends",
				Value: defaultEmbeddingModel,
			},
			outFileFlag(),
		},
	}
}

func cmdFilter(ctx context.Context, cmd *cli.Command) error {
	pairs, err := loadScored(cmd)
	if err != nil {
		return err
	}

	c := curate.Criteria{
		MinIFD: cmd.Float(minIFDFlag),
		MaxIFD: cmd.Float(maxIFDFlag),
	}
	if c.MinIFD > c.MaxIFD {
		return fmt.Errorf("min-ifd %v is above max-ifd %v", c.MinIFD, c.MaxIFD)
	}
	if cmd.Bool(highValueFlag) {
		c.MinIFD = max(c.MinIFD, curate.DefaultHighValueMin)
	}
	for _, t := range cmd.StringSlice(tierFlag) {
		c.Tiers = append(c.Tiers, api.Tier(t))
	}
	for _, v := range cmd.StringSlice(categoryFlag) {
		c.Categories = append(c.Categories, api.ValueCategory(v))
	}

	kept := curate.Filter(pairs, c)
	slog.Info("filtered pairs", "kept", len(kept), "total", len(pairs))
	return writePairs(cmd, kept)
}

func cmdRank(ctx context.Context, cmd *cli.Command) error {
	pairs, err := loadScored(cmd)
	if err != nil {
		return err
	}
	return writePairs(cmd, curate.Rank(pairs, !cmd.Bool(ascendingFlag)))
}

func cmdStats(ctx context.Context, cmd *cli.Command) error {
	pairs, err := loadScored(cmd)
	if err != nil {
		return err
	}
	return encode(cmd, curate.Summarize(pairs))
}

type screenReport struct {
	Safe    int              `json:"safe" yaml:"safe"`
	Flagged []curate.Flagged `json:"flagged" yaml:"flagged"`
}

func cmdScreen(ctx context.Context, cmd *cli.Command) error {
	pairs, err := loadScored(cmd)
	if err != nil {
		return err
	}

	cfg := getConfig(cmd).Config
	var opts []option.ClientOption
	if cfg.Project != "" {
		opts = append(opts, option.WithQuotaProject(cfg.Project))
	}
	langClient, err := language.NewRESTClient(ctx, opts...)
	if err != nil {
		return fmt.Errorf("failed to create language client: %w", err)
	}
	defer langClient.Close()

	s := goifd.NewGeminiIFD(cfg, goifd.WithLanguageClient(langClient))
	safe, flagged, err := s.Screen(ctx, pairs, goifd.ScreenOptions{
		Threshold:  cmd.Float(thresholdFlag),
		Categories: cmd.StringSlice(categoryFlag),
	})
	if err != nil {
		return err
	}
	slog.Info("screened pairs", "safe", len(safe), "flagged", len(flagged))

	if out := cmd.String(outFlag); out != "" {
		if err := savePairs(out, safe); err != nil {
			return err
		}
	}
	if flagged == nil {
		flagged = []curate.Flagged{}
	}
	return encode(cmd, screenReport{Safe: len(safe), Flagged: flagged})
}

type dedupeReport struct {
	Kept       int                `json:"kept" yaml:"kept"`
	Duplicates []curate.Duplicate `json:"duplicates" yaml:"duplicates"`
}

func cmdDedupe(ctx context.Context, cmd *cli.Command) error {
	pairs, err := loadScored(cmd)
	if err != nil {
		return err
	}

	cfg := getConfig(cmd).Config
	exact := cmd.Bool(exactFlag)
	var ifdOpts []func(*goifd.IFDOptions)
	if !exact {
		embedder, err := newEmbedder(ctx, cfg, cmd.String(embeddingModelFlag))
		if err != nil {
			return err
		}
		if embedder == nil {
			slog.Warn("no embedding backend configured, falling back to exact matching", "backend", cfg.Backend)
			exact = true
		} else {
			ifdOpts = append(ifdOpts, goifd.WithEmbedder(embedder))
		}
	}

	s := goifd.NewIFD(append(ifdOpts, goifd.WithConfig(cfg))...)
	kept, dropped, err := s.Dedupe(ctx, pairs, goifd.DedupeOptions{
		Threshold: cmd.Float(thresholdFlag),
		Exact:     exact,
	})
	if err != nil {
		return err
	}
	slog.Info("deduplicated pairs", "kept", len(kept), "dropped", len(dropped), "exact", exact)

	if out := cmd.String(outFlag); out != "" {
		if err := savePairs(out, kept); err != nil {
			return err
		}
	}
	if dropped == nil {
		dropped = []curate.Duplicate{}
	}
	return encode(cmd, dedupeReport{Kept: len(kept), Duplicates: dropped})
}

// newEmbedder returns a Gemini embedder for the gemini and vertex backends,
// or nil when the backend has no embedding support or no credentials.
func newEmbedder(ctx context.Context, cfg config.Config, model string) (api.Embedder, error) {
	if cfg.Backend != config.BackendGemini && cfg.Backend != config.BackendVertex {
		return nil, nil
	}
	if !cfg.IsConfigured() {
		return nil, nil
	}
	client, err := gemini.NewClient(ctx, cfg, nil)
	if err != nil {
		return nil, err
	}
	return gemini.NewEmbedder(client, model), nil
}

func loadScored(cmd *cli.Command) ([]api.ScoredPair, error) {
	path, err := requireFile(cmd)
	if err != nil {
		return nil, err
	}
	pairs, err := dataset.LoadScored(path)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return pairs, nil
}

// writePairs saves to --out when given, otherwise encodes to stdout
func writePairs(cmd *cli.Command, pairs []api.ScoredPair) error {
	if out := cmd.String(outFlag); out != "" {
		return savePairs(out, pairs)
	}
	if pairs == nil {
		pairs = []api.ScoredPair{}
	}
	return encode(cmd, pairs)
}

func savePairs(path string, pairs []api.ScoredPair) error {
	format, err := dataset.FormatOf(path)
	if err != nil {
		return err
	}
	if err := dataset.Save(path, format, pairs); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	slog.Info("wrote pairs", "count", len(pairs), "output", path)
	return nil
}
