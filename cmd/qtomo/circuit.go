package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/hershlalwani/qtomo/config"
	"github.com/hershlalwani/qtomo/experiment"
)

func newCircuitCmd(root *rootOptions, logger *log.Logger) *cobra.Command {
	var qasmOnly bool
	cmd := &cobra.Command{
		Use:   "circuit",
		Short: "Show the state-preparation circuit of a configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := config.Load(root.configPath)
			if err != nil {
				return err
			}
			var opts []experiment.Option
			if settings.Circuit != nil {
				opts = append(opts, experiment.WithCircuit(settings.Circuit))
			}
			runner, err := experiment.New(settings.Experiment, append(opts, experiment.WithLogger(logger))...)
			if err != nil {
				return err
			}

			c := runner.Circuit()
			if qasmOnly {
				fmt.Print(c.QASM())
				return nil
			}
			fmt.Println(titleStyle.Render(settings.Experiment.Name))
			fmt.Println(lipgloss.JoinHorizontal(lipgloss.Top,
				circuitStyle.Render(gateStyle.Render(c.Draw())),
				qasmStyle.Render(c.QASM()),
			))
			fmt.Println(marginalsTable(runner.State()))
			return nil
		},
	}
	cmd.Flags().BoolVar(&qasmOnly, "qasm", false, "print only the OpenQASM text")
	return cmd
}
