/*
Copyright © 2026 James Lawson (jpl-au) <hello@caelisco.net>
*/

// history.go implements the "gres history" command over the rewrite
// journal.

package cmd

import (
	"fmt"
	"time"

	"github.com/jpl-au/gres/internal/config"
	"github.com/jpl-au/gres/internal/journal"
	"github.com/spf13/cobra"
)

func newHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history [path]",
		Short: "List recent rewrites recorded in the journal",
		Long: `Lists rewrites gres has applied in this directory, newest first.
With a path argument, only entries for that file are shown.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if limit <= 0 {
				return fmt.Errorf("limit (-l) must be > 0")
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := journal.Open(cfg.JournalPath()); err != nil {
				return fmt.Errorf("opening journal: %w", err)
			}
			defer journal.Close()

			path := ""
			if len(args) > 0 {
				path = args[0]
			}
			entries, err := journal.Recent(limit, path)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintln(out, "no recorded rewrites")
				return nil
			}

			for _, e := range entries {
				at := time.Unix(e.At, 0).Format("2006-01-02 15:04")
				fmt.Fprintf(out, "%s  %-8s  %s  s/%s/%s/  (%d replaced, %d deleted)\n",
					at, e.Outcome, e.Path, e.Pattern, e.Template, e.Replaced, e.Deleted)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", 20, "Maximum entries to show")
	return cmd
}

func init() {
	rootCmd.AddCommand(newHistoryCmd())
}
