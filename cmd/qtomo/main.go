// Command qtomo generates quantum-state tomography data sets.
package main

import (
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger := newLogger(false)
	if err := newRootCmd(logger).ExecuteContext(ctx); err != nil {
		logger.Error(errorStyle.Render(err.Error()))
		stop()
		os.Exit(1)
	}
}

type rootOptions struct {
	configPath string
	verbose    bool
}

func newLogger(verbose bool) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		Prefix:          "qtomo",
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
	})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

func newRootCmd(logger *log.Logger) *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "qtomo",
		Short:         "Generate measurement data for quantum-state tomography",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.verbose {
				logger.SetLevel(log.DebugLevel)
			}
		},
	}
	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "config.yaml", "experiment configuration file")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log debug output")

	cmd.AddCommand(newRunCmd(opts, logger), newCircuitCmd(opts, logger))
	return cmd
}
