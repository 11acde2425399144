package main

import (
	"github.com/spf13/cobra"
)

func newValidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [paths...]",
		Short: "Check every machine without generating code",
		Long: `Extracts, builds and validates every machine under the given paths and
reports all problems found: unreachable states, ambiguous transitions,
missing initial states and the like.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.compiler().Load(cmd.Context(), pathsOrCwd(args)...)
			if err := a.report(res.Diagnostics, err); err != nil {
				a.printer().Summary(res.Diagnostics, 0)
				return err
			}
			a.printer().Summary(res.Diagnostics, len(res.Graphs()))
			return nil
		},
	}
}
