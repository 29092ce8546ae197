package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/rpgo/valuation-simulator/internal/calculation"
	"github.com/rpgo/valuation-simulator/internal/domain"
	"github.com/rpgo/valuation-simulator/internal/output"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func newSensitivityCmd(a *app) *cobra.Command {
	var (
		configFile string
		param      string
		minValue   float64
		maxValue   float64
		steps      int
		year       int
	)
	cmd := &cobra.Command{
		Use:   "sensitivity",
		Short: "Sweep one assumption and report its effect on the valuation",
		Long: fmt.Sprintf(`Reruns the projection for evenly spaced values of one assumption.
Parameters: %s, or segment.<name>.<growth_rate|gross_margin|op_expense_ratio>.`, strings.Join(calculation.SensitivityParameterNames, ", ")),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := a.configPath(configFile)
			if err != nil {
				return err
			}
			assumptions, err := a.loadAssumptions(path, false)
			if err != nil {
				return err
			}
			sa, err := a.engine(1).RunSensitivity(cmd.Context(), assumptions, domain.SensitivityParameter{
				Name:       param,
				MinValue:   decimal.NewFromFloat(minValue),
				MaxValue:   decimal.NewFromFloat(maxValue),
				Steps:      steps,
				TargetYear: year,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Sensitivity of %s in %d\n\n", sa.Parameter.Name, sa.TargetYear)
			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
			header := []string{"Value", "Revenue", "Net Income"}
			for _, sc := range sa.Scenarios {
				header = append(header, sc)
			}
			fmt.Fprintln(tw, strings.Join(header, "\t")+"\t")
			for _, p := range sa.Points {
				row := []string{p.Value.String(), output.HumanDollars(p.TotalRevenue), output.HumanDollars(p.NetIncome)}
				for _, sc := range sa.Scenarios {
					row = append(row, output.FormatCurrency(p.StockPrices[sc]))
				}
				fmt.Fprintln(tw, strings.Join(row, "\t")+"\t")
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(out, "\nSensitivity score: %s (%s)\n", output.FormatPercentage(sa.SensitivityScore), sa.RiskLevel)
			return nil
		},
	}
	cmd.Flags().StringVarP(&configFile, "config", "c", "", "configuration file")
	cmd.Flags().StringVar(&param, "param", "", "assumption to sweep")
	cmd.Flags().Float64Var(&minValue, "min", 0, "first value of the sweep")
	cmd.Flags().Float64Var(&maxValue, "max", 0, "last value of the sweep")
	cmd.Flags().IntVar(&steps, "steps", 5, "number of values (at least 2)")
	cmd.Flags().IntVar(&year, "year", 0, "year to report (default last projected year)")
	_ = cmd.MarkFlagRequired("param")
	return cmd
}
