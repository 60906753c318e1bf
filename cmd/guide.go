/*
Copyright © 2026 James Lawson (jpl-au) <hello@caelisco.net>
*/

// guide.go implements the "gres guide" command for documentation access.
//
// Design: Guides are embedded in the binary via the guide package, so
// documentation is always available without external files. Terminal
// output gets glamour rendering for readability; pipe/redirect gets raw
// markdown for machine consumption and LLM context loading.

package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/jpl-au/gres/guide"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newGuideCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "guide [page]",
		Short: "Show the gres usage guide",
		Long: `Outputs the gres guide for LLMs and humans.

  gres guide              # main guide
  gres guide templates    # replacement templates and expressions
  gres guide interactive  # the prompt commands
  gres guide history      # the change journal`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			name := ""
			if len(args) > 0 {
				name = args[0]
			}

			content, err := guide.Get(name)
			if err != nil {
				available, listErr := guide.List()
				if listErr != nil {
					return listErr
				}
				return fmt.Errorf("guide %q not found. Available: %s", name, strings.Join(available, ", "))
			}

			if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
				rendered, err := glamour.Render(content, "dark")
				if err == nil {
					fmt.Fprint(out, rendered)
					return nil
				}
			}

			fmt.Fprint(out, content)
			return nil
		},
	}
}

func init() {
	rootCmd.AddCommand(newGuideCmd())
}
