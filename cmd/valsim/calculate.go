package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rpgo/valuation-simulator/internal/output"
	"github.com/spf13/cobra"
)

func newCalculateCmd(a *app) *cobra.Command {
	var (
		configFile string
		format     string
		years      []int
		allYears   bool
		workers    int
		strict     bool
		outFile    string
	)
	cmd := &cobra.Command{
		Use:   "calculate",
		Short: "Run the valuation projection and render a report",
		Long: `Projects every configured year and renders the selected years with the chosen formatter.
Use --format all to write the verbose report, the detailed CSV and the JSON export into the --output directory.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := a.configPath(configFile)
			if err != nil {
				return err
			}
			assumptions, err := a.loadAssumptions(path, strict)
			if err != nil {
				return err
			}
			show := years
			if allYears {
				show = assumptions.Years
			}

			start := time.Now()
			report, err := a.engine(workers).BuildReport(cmd.Context(), assumptions, show)
			if err != nil {
				a.log.Run("", len(assumptions.Years), len(assumptions.Segments), time.Since(start), err)
				return err
			}
			a.log.Run(report.RunID, len(report.Results), len(assumptions.Segments), time.Since(start), nil)

			if output.NormalizeFormatName(format) == "all" {
				dir := outFile
				if dir == "" || dir == "-" {
					dir = "."
				}
				files, err := output.GenerateReport(report, format, dir)
				if err != nil {
					return err
				}
				for _, f := range files {
					fmt.Fprintln(cmd.OutOrStdout(), f)
				}
				return nil
			}

			data, err := output.Render(report, format)
			if err != nil {
				return err
			}
			if outFile == "" || outFile == "-" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(outFile, data, 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", outFile, err)
			}
			a.log.Infof("report written to %s", outFile)
			return nil
		},
	}
	cmd.Flags().StringVarP(&configFile, "config", "c", "", "configuration file (yaml, toml, json, hjson)")
	cmd.Flags().StringVarP(&format, "format", "f", "console", "output format (see 'valsim formats'), or 'all'")
	cmd.Flags().IntSliceVar(&years, "years", nil, "years to show (default first and last)")
	cmd.Flags().BoolVar(&allYears, "all-years", false, "show every projected year")
	cmd.Flags().IntVar(&workers, "workers", 1, "number of years projected concurrently")
	cmd.Flags().BoolVar(&strict, "strict", false, "reject configurations with out-of-bounds values")
	cmd.Flags().StringVarP(&outFile, "output", "o", "-", "output file, '-' for stdout (directory for --format all)")
	return cmd
}
