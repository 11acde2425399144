package main

import (
	"fmt"

	"github.com/aretw0/tickfsm/internal/presentation/graph"
	"github.com/aretw0/tickfsm/pkg/machine"
	"github.com/spf13/cobra"
)

func newGraphCmd(a *app) *cobra.Command {
	var name, highlight string

	cmd := &cobra.Command{
		Use:   "graph <path>",
		Short: "Export machines as Mermaid state diagrams",
		Long:  `Validates the machines in path and prints a Mermaid stateDiagram-v2 for each.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			graphs, err := a.loadGraphs(cmd, args[0], name)
			if err != nil {
				return err
			}

			var overlay *graph.Overlay
			if highlight != "" {
				overlay = &graph.Overlay{Current: highlight}
			}
			for i, g := range graphs {
				if len(graphs) > 1 {
					if i > 0 {
						fmt.Fprintln(a.stdout)
					}
					fmt.Fprintf(a.stdout, "%%%% %s\n", g.Name)
				}
				fmt.Fprint(a.stdout, graph.GenerateMermaid(g, overlay))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "machine", "m", "", "Only print the named machine")
	cmd.Flags().StringVar(&highlight, "highlight", "", "Highlight the named state")
	return cmd
}

// loadGraphs validates path and returns its graphs, optionally only the one
// called name.
func (a *app) loadGraphs(cmd *cobra.Command, path, name string) ([]*machine.Graph, error) {
	res, err := a.compiler().Load(cmd.Context(), path)
	if err := a.report(res.Diagnostics, err); err != nil {
		return nil, err
	}

	graphs := res.Graphs()
	if name != "" {
		for _, g := range graphs {
			if g.Name == name {
				return []*machine.Graph{g}, nil
			}
		}
		return nil, &ExitError{Code: exitFatal, Message: fmt.Sprintf("no machine named %s in %s", name, path)}
	}
	if len(graphs) == 0 {
		return nil, &ExitError{Code: exitFatal, Message: "no machines found in " + path}
	}
	return graphs, nil
}
