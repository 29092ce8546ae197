package main

import (
	"fmt"

	"github.com/rpgo/valuation-simulator/internal/calculation"
	"github.com/rpgo/valuation-simulator/internal/output"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func newTargetCmd(a *app) *cobra.Command {
	var (
		configFile string
		scenario   string
		price      float64
	)
	cmd := &cobra.Command{
		Use:   "target",
		Short: "Find the year a scenario's implied stock price reaches a target",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := a.configPath(configFile)
			if err != nil {
				return err
			}
			assumptions, err := a.loadAssumptions(path, false)
			if err != nil {
				return err
			}
			results, err := a.engine(1).Run(cmd.Context(), assumptions)
			if err != nil {
				return err
			}
			target := decimal.NewFromFloat(price)
			crossing, err := calculation.FindPriceTargetCrossing(results, scenario, target)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if crossing == nil {
				last := results[len(results)-1]
				v, _ := last.Valuation(scenario)
				fmt.Fprintf(out, "%s does not reach %s by %d (%s)\n", scenario, output.FormatCurrency(target), last.Year, output.FormatCurrency(v.StockPrice))
				return nil
			}
			fmt.Fprintf(out, "%s reaches %s in %d at %s (interpolated %s)\n",
				crossing.Scenario, output.FormatCurrency(crossing.Target), crossing.Year,
				output.FormatCurrency(crossing.StockPrice), crossing.FractionalYear.StringFixed(2))
			return nil
		},
	}
	cmd.Flags().StringVarP(&configFile, "config", "c", "", "configuration file")
	cmd.Flags().StringVar(&scenario, "scenario", "", "P/E scenario label")
	cmd.Flags().Float64Var(&price, "price", 0, "target stock price")
	_ = cmd.MarkFlagRequired("scenario")
	_ = cmd.MarkFlagRequired("price")
	return cmd
}
