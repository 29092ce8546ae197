package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newValidateCmd(a *app) *cobra.Command {
	var (
		configFile string
		strict     bool
	)
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a configuration file without running the projection",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := a.configPath(configFile)
			if err != nil {
				return err
			}
			assumptions, err := a.loadAssumptions(path, strict)
			if err != nil {
				return err
			}
			overrideYear := "none"
			if y, ok := assumptions.OverrideYear(); ok && assumptions.Overrides != nil && len(assumptions.Overrides.Values) > 0 {
				overrideYear = fmt.Sprint(y)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Configuration valid: %d segments, %d scenarios, years %d-%d, override year %s\n",
				len(assumptions.Segments), len(assumptions.PEScenarios),
				assumptions.Years[0], assumptions.Years[len(assumptions.Years)-1], overrideYear)
			return nil
		},
	}
	cmd.Flags().StringVarP(&configFile, "config", "c", "", "configuration file")
	cmd.Flags().BoolVar(&strict, "strict", false, "treat out-of-bounds values as errors")
	return cmd
}
