package main

import (
	"fmt"
	"strings"

	"github.com/rpgo/valuation-simulator/internal/output"
	"github.com/spf13/cobra"
)

func newFormatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List report formats and aliases",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "Formats: %s\n", strings.Join(output.AvailableFormatterNames(), ", "))
			fmt.Fprintf(cmd.OutOrStdout(), "Aliases: %s\n", strings.Join(output.AvailableFormatAliases(), ", "))
		},
	}
}
