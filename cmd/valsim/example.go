package main

import (
	"fmt"

	"github.com/rpgo/valuation-simulator/internal/config"
	"github.com/rpgo/valuation-simulator/internal/output"
	"github.com/spf13/cobra"
)

func newExampleCmd(a *app) *cobra.Command {
	var outFile string
	cmd := &cobra.Command{
		Use:   "example",
		Short: "Write the reference configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			fc := config.CreateExampleConfiguration()
			if outFile == "" || outFile == "-" {
				data, err := config.Encode(fc, config.FormatYAML)
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := output.SaveConfiguration(fc, outFile); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Example configuration written to %s\n", outFile)
			return nil
		},
	}
	cmd.Flags().StringVar(&outFile, "out", "-", "destination file; the extension selects the format")
	return cmd
}
