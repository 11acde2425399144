package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/tickfsm"
	"github.com/aretw0/tickfsm/internal/presentation/tui"
	"github.com/spf13/cobra"
)

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of tickfsm",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			if tui.IsTerminal(a.stdout) {
				tui.PrintBanner(a.stdout, tui.Profile(a.stdout, a.cfg.Color))
			}
			fmt.Fprintf(a.stdout, "tickfsm version %s\n", strings.TrimSpace(tickfsm.Version))
		},
	}
}
