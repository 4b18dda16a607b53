package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"reelcheck/internal/dates"
)

func newNormalizeCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "normalize <text>...",
		Short:       "Show how date text is normalized",
		Args:        cobra.MinimumNArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			rows := make([][]string, 0, len(args))
			for _, arg := range args {
				canonical := "-"
				if d, ok := dates.Normalize(arg); ok {
					canonical = d.String()
				}
				rows = append(rows, []string{strings.TrimSpace(arg), canonical})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Input", "Date"}, rows, nil))
			return nil
		},
	}
}
