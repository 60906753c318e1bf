/*
Copyright © 2026 James Lawson (jpl-au) <hello@caelisco.net>
*/

// version.go implements the "gres version" command.

package cmd

import (
	"fmt"

	"github.com/jpl-au/gres/internal/version"
	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show build version information",
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			if short {
				fmt.Fprintln(out, version.Short())
				return
			}
			fmt.Fprint(out, version.Get().String())
		},
	}

	cmd.Flags().BoolVar(&short, "short", false, "Print only the version tag")
	return cmd
}

func init() {
	rootCmd.AddCommand(newVersionCmd())
}
