package cli

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/datar-psa/goifd"
	"github.com/datar-psa/goifd/ifd"
)

func healthCommand() *cli.Command {
	return &cli.Command{
		Name:   "health",
		Usage:  "Report whether the scorer is configured, without calling it",
		Action: cmdHealth,
	}
}

func verifyCommand() *cli.Command {
	return &cli.Command{
		Name:   "verify",
		Usage:  "Send a test prompt to the scoring model",
		Action: cmdVerify,
	}
}

func cmdHealth(ctx context.Context, cmd *cli.Command) error {
	return encode(cmd, goifd.ConfigHealth(getConfig(cmd).Config))
}

type verifyReport struct {
	Status  string `json:"status" yaml:"status"`
	Model   string `json:"model" yaml:"model"`
	Backend string `json:"backend" yaml:"backend"`
	Latency string `json:"latency" yaml:"latency"`
}

func cmdVerify(ctx context.Context, cmd *cli.Command) error {
	s, err := newScorer(ctx, cmd, ifd.Options{})
	if err != nil {
		return err
	}

	cfg := getConfig(cmd).Config
	start := time.Now()
	if err := s.Verify(ctx); err != nil {
		return fmt.Errorf("verifying %s: %w", cfg.Model, err)
	}
	latency := time.Since(start).Round(time.Millisecond)
	slog.Info("scorer connection verified", "model", cfg.Model, "latency", latency)

	return encode(cmd, verifyReport{
		Status:  "ok",
		Model:   cfg.Model,
		Backend: string(cfg.Backend),
		Latency: latency.String(),
	})
}
