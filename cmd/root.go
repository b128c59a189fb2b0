// Package cmd implements the CLI commands for PostPipe using Cobra.
package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/postpipe/core/config"
)

// Persistent flag variables.
var (
	flagConfig  string
	flagVerbose bool
)

// Loaded once per invocation by the root command's PersistentPreRunE.
var (
	cfg    = config.Default()
	logger = slog.Default()
)

var rootCmd = &cobra.Command{
	Use:   "postpipe",
	Short: "PostPipe: render CMS rich-text articles into safe, structured outputs",
	Long: `PostPipe fetches articles from a headless CMS, renders their rich-text
block documents through a single sanitization boundary, and writes them as
HTML, Markdown, JSON, or PDF.

Usage:
  postpipe render <slug> [flags]
  postpipe validate <file>`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file (default: ./"+config.DefaultConfigFile+" or "+config.XDGConfigFile()+")")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable debug logging")
}

// Execute runs the root command.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// loadConfig resolves the configuration (file, then environment, then flags)
// and installs the logger.
func loadConfig(cmd *cobra.Command, _ []string) error {
	c := config.Default()
	path := config.FindConfigFile(flagConfig)
	switch {
	case path != "":
		if err := c.LoadFile(path); err != nil {
			return fmt.Errorf("loading config %s: %w", path, err)
		}
	case flagConfig != "":
		return fmt.Errorf("%w: %s", config.ErrConfigNotFound, flagConfig)
	}
	c.ApplyEnv()
	if flagVerbose {
		c.Verbose = true
	}

	cfg = c
	logger = newLogger(cmd.ErrOrStderr(), c.Verbose)
	slog.SetDefault(logger)
	logger.Debug("configuration loaded", "file", path, "api_url", c.APIURL)
	return nil
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
