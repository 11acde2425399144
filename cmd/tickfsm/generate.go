package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newGenerateCmd(a *app) *cobra.Command {
	var check, dryRun bool

	cmd := &cobra.Command{
		Use:   "generate [paths...]",
		Short: "Generate Go code for every machine found",
		Long: `Reads every Go, YAML and HCL file under the given paths (default: the
current directory), validates each machine and writes <name>_fsm.go next to
its input. Nothing is written when any input fails.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := a.compiler()
			res, err := c.Compile(cmd.Context(), pathsOrCwd(args)...)
			if err := a.report(res.Diagnostics, err); err != nil {
				return err
			}

			if check || dryRun {
				stale, err := c.Stale(res)
				if err != nil {
					return &ExitError{Code: exitFatal, Message: err.Error()}
				}
				for _, path := range stale {
					fmt.Fprintln(a.stdout, path)
				}
				if check && len(stale) > 0 {
					return &ExitError{Code: exitFatal, Message: fmt.Sprintf("%d generated file(s) out of date", len(stale))}
				}
				return nil
			}

			written, err := c.Write(res)
			if err != nil {
				return &ExitError{Code: exitFatal, Message: err.Error()}
			}
			a.printer().Summary(res.Diagnostics, len(res.Graphs()))
			a.logger.Debug("Generate finished", "written", len(written), "units", len(res.Units))
			return nil
		},
	}

	cmd.Flags().StringP("output", "o", "", "Write generated files to this directory instead of next to their input")
	cmd.Flags().BoolVar(&check, "check", false, "Fail if any generated file is missing or out of date; write nothing")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "List the files that would be written; write nothing")
	cmd.MarkFlagsMutuallyExclusive("check", "dry-run")
	return cmd
}
