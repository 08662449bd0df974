package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/datar-psa/goifd"
	"github.com/datar-psa/goifd/config"
	"github.com/datar-psa/goifd/internal/logging"
)

const (
	appConfigKey = "app-config"

	formatJSON = "json"
	formatYAML = "yaml"
)

const (
	configFlag   = "config"
	backendFlag  = "backend"
	modelFlag    = "model"
	baseURLFlag  = "base-url"
	apiKeyFlag   = "api-key"
	projectFlag  = "project"
	locationFlag = "location"
	rpmFlag      = "rpm"
	logLevelFlag = "log-level"
	outputFlag   = "output"
)

var (
	version = "v0.0.1-default"
	commit  = ""
	date    = ""
)

// globalFlags are built per app; urfave flags keep parse state
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    configFlag,
			Usage:   "Path to a YAML config file; flags and environment override it",
			Sources: cli.EnvVars("IFD_CONFIG"),
		},
		&cli.StringFlag{
			Name:    backendFlag,
			Usage:   "Scorer backend [openai, gemini, vertex]",
			Sources: cli.EnvVars("IFD_BACKEND"),
		},
		&cli.StringFlag{
			Name:    modelFlag,
			Usage:   fmt.Sprintf("Scoring model (default: %s)", config.DefaultModel),
			Sources: cli.EnvVars("QWEN_SCORER_MODEL"),
		},
		&cli.StringFlag{
			Name:    baseURLFlag,
			Usage:   "Base URL of the OpenAI-compatible endpoint, or a Gemini API override",
			Sources: cli.EnvVars("OPENAI_BASE_URL"),
		},
		&cli.StringFlag{
			Name:    apiKeyFlag,
			Usage:   "API key for the openai or gemini backend",
			Sources: cli.EnvVars("OPENAI_API_KEY", "GEMINI_API_KEY"),
		},
		&cli.StringFlag{
			Name:    projectFlag,
			Usage:   "Google Cloud project for the vertex backend and moderation",
			Sources: cli.EnvVars("GOOGLE_PROJECT_ID"),
		},
		&cli.StringFlag{
			Name:    locationFlag,
			Usage:   "Google Cloud region for the vertex backend",
			Sources: cli.EnvVars("GOOGLE_REGION"),
		},
		&cli.IntFlag{
			Name:    rpmFlag,
			Usage:   "Maximum scorer requests per minute (0: unlimited)",
			Sources: cli.EnvVars("IFD_REQUESTS_PER_MINUTE"),
		},
		&cli.StringFlag{
			Name:    logLevelFlag,
			Usage:   "Log level [debug, info, warn, error]",
			Value:   "info",
			Sources: cli.EnvVars("IFD_LOG_LEVEL"),
		},
		&cli.StringFlag{
			Name:    outputFlag,
			Aliases: []string{"o"},
			Usage:   "Output format for reports [json, yaml]",
			Value:   formatJSON,
		},
	}
}

// Execute creates and runs the CLI application.
func Execute() {
	logging.SetDefaultCLILogger("info")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().Run(ctx, os.Args); err != nil {
		slog.Error("fatal error", "error", err)
		stop()
		os.Exit(1)
	}
}

type appConfig struct {
	Config config.Config
	Output string
}

func getConfig(cmd *cli.Command) *appConfig {
	return cmd.Root().Metadata[appConfigKey].(*appConfig)
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:            "goifd",
		Version:         fmt.Sprintf("%s (%s - %s)", version, commit, date),
		HideHelpCommand: true,
		Usage:           "Score Q&A training pairs for Instruction Following Difficulty",
		Metadata:        map[string]any{},
		Flags:           globalFlags(),
		Commands: []*cli.Command{
			scoreCommand(),
			filterCommand(),
			rankCommand(),
			statsCommand(),
			screenCommand(),
			dedupeCommand(),
			healthCommand(),
			verifyCommand(),
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			logging.SetDefaultCLILogger(cmd.String(logLevelFlag))

			output := formatJSON
			switch strings.ToLower(cmd.String(outputFlag)) {
			case formatJSON:
			case formatYAML, "yml":
				output = formatYAML
			default:
				return ctx, fmt.Errorf("unsupported output format %q", cmd.String(outputFlag))
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return ctx, fmt.Errorf("loading config: %w", err)
			}

			cmd.Root().Metadata[appConfigKey] = &appConfig{
				Config: cfg,
				Output: output,
			}
			return ctx, nil
		},
	}
}

// loadConfig layers flags and their environment sources over the config file
func loadConfig(cmd *cli.Command) (config.Config, error) {
	cfg := config.Default()
	if path := cmd.String(configFlag); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}

	if cmd.IsSet(backendFlag) {
		cfg.Backend = config.Backend(strings.ToLower(strings.TrimSpace(cmd.String(backendFlag))))
	}
	if cmd.IsSet(modelFlag) {
		cfg.Model = cmd.String(modelFlag)
	}
	if cmd.IsSet(baseURLFlag) {
		cfg.BaseURL = cmd.String(baseURLFlag)
	}
	if cmd.IsSet(apiKeyFlag) {
		cfg.APIKey = cmd.String(apiKeyFlag)
	}
	if cmd.IsSet(projectFlag) {
		cfg.Project = cmd.String(projectFlag)
	}
	if cmd.IsSet(locationFlag) {
		cfg.Location = cmd.String(locationFlag)
	}
	if cmd.IsSet(rpmFlag) {
		cfg.RequestsPerMinute = cmd.Int(rpmFlag)
	}
	return cfg, cfg.Validate()
}

// requireFile returns the single FILE argument
func requireFile(cmd *cli.Command) (string, error) {
	if cmd.Args().Len() != 1 {
		return "", fmt.Errorf("%s expects exactly one FILE argument, got %d", cmd.Name, cmd.Args().Len())
	}
	return cmd.Args().First(), nil
}

func encode(cmd *cli.Command, v any) error {
	w := cmd.Root().Writer
	if getConfig(cmd).Output == formatYAML {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	e := json.NewEncoder(w)
	e.SetIndent("", "  ")
	return e.Encode(v)
}

func missingSettings(cfg config.Config) error {
	return fmt.Errorf("%w: backend %s is missing %s", goifd.ErrNotConfigured, cfg.Backend, strings.Join(cfg.Missing(), ", "))
}
