// Package cli provides the commands of the mailkit binary.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/mailkit/pkg/logger"
	"github.com/dmitrymomot/mailkit/pkg/settings"
)

// sentrySection is the settings section holding logger.SentryConfig.
const sentrySection = "sentry"

type globalFlags struct {
	config   string
	logLevel string
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	g := &globalFlags{}

	root := &cobra.Command{
		Use:   "mailkit",
		Short: "Compose and send email from the command line",
		Long: `mailkit composes a message, renders its template and hands it to the
transport configured in the "mail" settings section.

Example:
  mailkit send --config mailkit.yaml --to ann@example.com --template welcome --data '{"Name":"Ann"}'
  mailkit send --to ann@example.com --text "hello" --test`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVarP(&g.config, "config", "c", "", "settings file (yaml, json or toml)")
	root.PersistentFlags().StringVar(&g.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	root.AddCommand(newSendCmd(g))
	return root
}

// Execute runs the root command with the given arguments.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	root := NewRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return root.ExecuteContext(ctx)
}

// loadSettings reads the settings file, or returns an empty source.
func (g *globalFlags) loadSettings() (settings.Source, error) {
	if g.config == "" {
		return settings.Map{}, nil
	}
	src, err := settings.NewViper(g.config)
	if err != nil {
		return nil, err
	}
	return src, nil
}

// newLogger writes text logs to w and forwards errors to Sentry when the
// "sentry" section has a DSN.
func (g *globalFlags) newLogger(w io.Writer, src settings.Source) (*slog.Logger, error) {
	opts := []logger.Option{
		logger.WithWriter(w),
		logger.WithText(),
		logger.WithLevel(logger.ParseLevel(g.logLevel)),
	}

	if section, ok := src.Section(sentrySection); ok {
		var cfg logger.SentryConfig
		if err := mapstructure.Decode(section, &cfg); err != nil {
			return nil, fmt.Errorf("decode %s settings: %w", sentrySection, err)
		}
		cfg.MinLevel = slog.LevelError
		opts = append(opts, logger.WithSentry(cfg))
	}

	return logger.New(opts...), nil
}
