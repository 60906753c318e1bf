/*
Copyright © 2026 James Lawson (jpl-au) <hello@caelisco.net>
*/

// config.go implements the "gres config" command for configuration
// management.
//
// Design: Config follows a cascade model similar to git: local config
// (.gres/config.yaml) takes precedence over global (~/.gres/config.yaml).
// The --local flag forces use of local config even if it doesn't exist
// yet. Writes go to the same place reads come from.

package cmd

import (
	"fmt"
	"sort"

	"github.com/jpl-au/gres/internal/config"
	"github.com/spf13/cobra"
)

func newConfigCmd() *cobra.Command {
	var local bool

	c := &cobra.Command{
		Use:   "config [key] [value]",
		Short: "View or set config values",
		Long: `View or set config values.

  gres config                      # show config
  gres config colour               # show colour value
  gres config colour never         # set colour

Configuration locations:
  Global: ~/.gres/config.yaml
  Local:  .gres/config.yaml

Uses local config if it exists, otherwise global.
Use --local to use local config instead.`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			var cfg *config.Config
			var err error
			if local {
				cfg, err = config.LoadScope(config.ScopeLocal)
			} else {
				cfg, err = config.Load()
			}
			if err != nil {
				return fmt.Errorf("config load: %w", err)
			}

			scopeName := "global"
			if cfg.Scope() == config.ScopeLocal {
				scopeName = "local"
			}

			switch len(args) {
			case 0:
				all := cfg.All()
				keys := make([]string, 0, len(all))
				for k := range all {
					keys = append(keys, k)
				}
				sort.Strings(keys)
				for _, k := range keys {
					fmt.Fprintf(out, "%s: %s\n", k, all[k])
				}

			case 1:
				v, err := cfg.Get(args[0])
				if err != nil {
					return fmt.Errorf("config get %q: %w", args[0], err)
				}
				fmt.Fprintln(out, v)

			case 2:
				if err := cfg.Set(args[0], args[1]); err != nil {
					return fmt.Errorf("config set %q: %w", args[0], err)
				}
				if err := cfg.Save(); err != nil {
					return fmt.Errorf("config save: %w", err)
				}
				fmt.Fprintf(out, "%s = %s (%s)\n", args[0], args[1], scopeName)
			}
			return nil
		},
	}

	c.Flags().BoolVar(&local, "local", false, "Use local config (.gres/config.yaml)")
	return c
}

func init() {
	rootCmd.AddCommand(newConfigCmd())
}
