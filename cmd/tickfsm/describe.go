package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/tickfsm/internal/config"
	"github.com/aretw0/tickfsm/internal/presentation/tui"
	"github.com/spf13/cobra"
)

func newDescribeCmd(a *app) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "describe <path>",
		Short: "Describe machines as Markdown",
		Long: `Prints the states and transitions of each machine in path, in evaluation
order. On a terminal the Markdown is rendered.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			graphs, err := a.loadGraphs(cmd, args[0], name)
			if err != nil {
				return err
			}

			docs := make([]string, len(graphs))
			for i, g := range graphs {
				docs[i] = tui.Describe(g)
			}
			md := strings.Join(docs, "\n")

			if tui.IsTerminal(a.stdout) {
				render, err := tui.NewRenderer(a.cfg.Color != config.ColorNever)
				if err != nil {
					return &ExitError{Code: exitFatal, Message: err.Error()}
				}
				if md, err = render(md); err != nil {
					return &ExitError{Code: exitFatal, Message: err.Error()}
				}
			}
			fmt.Fprint(a.stdout, md)
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "machine", "m", "", "Only describe the named machine")
	return cmd
}
