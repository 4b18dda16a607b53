package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"reelcheck/internal/config"
	"reelcheck/internal/logging"
	"reelcheck/internal/overrides"
)

func newOverridesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "overrides [path]",
		Short: "List the manual digital release dates",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.configCopy()
			if err != nil {
				return err
			}
			path := cfg.Overrides.Path
			if len(args) == 1 {
				if path, err = config.ExpandPath(strings.TrimSpace(args[0])); err != nil {
					return fmt.Errorf("resolve override path: %w", err)
				}
			}

			catalog := overrides.NewCatalog(afero.NewOsFs(), path, overrideYear(&cfg), logging.NewNop())
			table, err := catalog.Table()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Override file: %s\n", catalog.Path())
			entries := table.Entries()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No override entries")
			} else {
				rows := make([][]string, 0, len(entries))
				for _, entry := range entries {
					rows = append(rows, []string{strconv.Itoa(entry.Line), entry.Title, entry.Date.String()})
				}
				fmt.Fprintln(out, renderTable([]string{"Line", "Title", "Digital"}, rows, []columnAlignment{alignRight, alignLeft, alignLeft}))
			}
			for _, skipped := range table.Skipped() {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: line %d skipped (%s): %q\n", skipped.Line, skipped.Reason, skipped.Text)
			}
			return nil
		},
	}
}
