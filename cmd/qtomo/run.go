package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/hershlalwani/qtomo/config"
	"github.com/hershlalwani/qtomo/experiment"
	"github.com/hershlalwani/qtomo/store"
)

type runOptions struct {
	*rootOptions
	root       string
	workers    int
	noProgress bool
}

func newRunCmd(root *rootOptions, logger *log.Logger) *cobra.Command {
	opts := &runOptions{rootOptions: root}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Prepare the state, measure it and save the experiment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExperiment(cmd.Context(), opts, logger)
		},
	}
	cmd.Flags().StringVar(&opts.root, "root", ".", "directory that holds the experiments folder")
	cmd.Flags().IntVarP(&opts.workers, "workers", "w", 0, "parallel measurement workers, 0 keeps the configured value")
	cmd.Flags().BoolVar(&opts.noProgress, "no-progress", false, "disable the progress bar")
	return cmd
}

func runExperiment(ctx context.Context, opts *runOptions, logger *log.Logger) error {
	settings, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	cfg := settings.Experiment
	if opts.workers > 0 {
		cfg.Workers = opts.workers
	}
	logger.Info("loaded configuration", "path", settings.Path, "name", cfg.Name)

	st, err := store.Open(opts.root, cfg.Name)
	if err != nil {
		return err
	}
	manifest := store.NewManifest(cfg)
	if err := st.SaveConfig(settings.Raw); err != nil {
		return err
	}

	runnerOpts := []experiment.Option{experiment.WithLogger(logger)}
	if settings.Circuit != nil {
		runnerOpts = append(runnerOpts, experiment.WithCircuit(settings.Circuit))
	}

	// prog is created once the round count is known and before any round
	// reports progress.
	var prog *tea.Program
	showProgress := !opts.noProgress && isatty.IsTerminal(os.Stderr.Fd())
	if showProgress {
		runnerOpts = append(runnerOpts, experiment.WithProgress(func(r experiment.Result) {
			prog.Send(roundMsg{index: r.Index})
		}))
	}

	runner, err := experiment.New(cfg, runnerOpts...)
	if err != nil {
		return err
	}
	if showProgress {
		model := newProgressModel(cfg.Name, len(runner.Bases()))
		prog = tea.NewProgram(model, tea.WithOutput(os.Stderr), tea.WithContext(ctx))
	}
	if err := st.SaveCircuit(runner.Circuit()); err != nil {
		return err
	}

	results, err := measure(ctx, runner, prog, logger)
	if err != nil {
		return err
	}

	if err := st.SaveResults(results); err != nil {
		return err
	}
	for _, r := range results {
		if err := st.SaveMeasurement(r); err != nil {
			return err
		}
	}
	manifest.Finish(len(results))
	if err := st.SaveManifest(manifest); err != nil {
		return err
	}
	logger.Info("saved experiment", "dir", st.Dir(), "run", manifest.RunID)

	fmt.Println(renderSummary(runner, results, manifest))
	return nil
}

// measure runs every default round, behind a progress program when one is
// given. Cancelling the program cancels the run.
func measure(ctx context.Context, runner *experiment.Runner, prog *tea.Program, logger *log.Logger) (experiment.Results, error) {
	if prog == nil {
		return runner.Run(ctx, nil)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		final, err := prog.Run()
		if m, ok := final.(progressModel); ok && m.interrupted {
			cancel()
		}
		if errors.Is(err, tea.ErrProgramKilled) {
			err = nil
		}
		done <- err
	}()

	logger.SetOutput(teaWriter{p: prog})
	results, err := runner.Run(ctx, nil)
	prog.Send(finishedMsg{err: err})
	progErr := <-done
	logger.SetOutput(os.Stderr)

	if err != nil {
		return nil, err
	}
	if progErr != nil {
		logger.Warn("progress display failed", "err", progErr)
	}
	return results, nil
}
