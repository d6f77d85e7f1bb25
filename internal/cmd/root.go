package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/strrl/chatpulse/internal/config"
	"github.com/strrl/chatpulse/internal/pipeline"
)

var (
	configPath string
	logLevel   string

	cfg    config.Config
	logger zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "chatpulse",
	Short: "Analyze exported chat logs",
	Long: `chatpulse reads a plain-text chat export and reports message statistics,
activity timelines, word and emoji usage, and an emotion intensity series
with detected emotional events, for the whole chat or one participant.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.CompletionOptions.HiddenDefaultCmd = false

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", os.Getenv("CHATPULSE_CONFIG"), "Path to a YAML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level override (debug, info, warn, error)")
}

func setup(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if logLevel != "" {
		loaded.Log.Level = logLevel
		if err := loaded.Validate(); err != nil {
			return err
		}
	}
	cfg = loaded
	logger = newLogger(cfg.Log, cmd.ErrOrStderr())
	return nil
}

func newLogger(c config.LogConfig, w io.Writer) zerolog.Logger {
	switch c.Level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	if c.Pretty {
		w = zerolog.ConsoleWriter{Out: w}
	}
	return zerolog.New(w).With().Timestamp().Logger()
}

func newAnalyzer() (*pipeline.Analyzer, error) {
	pc, err := cfg.Pipeline()
	if err != nil {
		return nil, err
	}
	return pipeline.New(pc, logger), nil
}

// readExport reads the export at path, or stdin when path is "-".
func readExport(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read chat file: %w", err)
	}
	return data, nil
}

// loadExport reads and parses path into a chat table.
func loadExport(cmd *cobra.Command, path string) (*pipeline.Analyzer, *pipeline.Loaded, error) {
	raw, err := readExport(cmd, path)
	if err != nil {
		return nil, nil, err
	}
	analyzer, err := newAnalyzer()
	if err != nil {
		return nil, nil, err
	}
	loaded, err := analyzer.Load(raw)
	if err != nil {
		return nil, nil, err
	}
	logger.Debug().Str("file", path).Int("rows", loaded.Table.Len()).Str("encoding", string(loaded.Encoding)).Msg("chat loaded")
	return analyzer, loaded, nil
}
