// Package cli implements the idpc command line.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

// Log levels accepted by New and SetLogLevel.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds state shared by all commands.
type CLI struct {
	logger *log.Logger
}

// New returns a CLI that writes log output to w at the given level.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		logger: log.NewWithOptions(w, log.Options{
			Level:           level,
			ReportTimestamp: true,
			TimeFormat:      time.TimeOnly,
		}),
	}
}

// SetLogLevel changes the minimum level of emitted log records.
func (c *CLI) SetLogLevel(level log.Level) {
	c.logger.SetLevel(level)
}

// setLogFormat switches the log encoding.
func (c *CLI) setLogFormat(format string) error {
	switch strings.ToLower(format) {
	case "text", "":
		c.logger.SetFormatter(log.TextFormatter)
	case "json":
		c.logger.SetFormatter(log.JSONFormatter)
	case "logfmt":
		c.logger.SetFormatter(log.LogfmtFormatter)
	default:
		return fmt.Errorf("unknown log format %q (want text, json or logfmt)", format)
	}
	return nil
}

// slogger exposes the CLI logger to packages that log through log/slog.
func (c *CLI) slogger() *slog.Logger {
	return slog.New(c.logger)
}

// RootCommand builds the idpc command tree.
func (c *CLI) RootCommand() *cobra.Command {
	var logFormat string

	root := &cobra.Command{
		Use:   "idpc",
		Short: "Iterative density peak clustering",
		Long: `idpc clusters points around automatically selected density peaks.

Point files are delimited text with one point per line. The first two
columns are used as coordinates unless --columns says otherwise.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setLogFormat(logFormat)
		},
	}
	root.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log encoding: text, json or logfmt")

	root.AddCommand(c.runCommand(), c.batchCommand())
	return root
}
