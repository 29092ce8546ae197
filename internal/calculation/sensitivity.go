package calculation

import (
	"context"
	"fmt"
	"strings"

	"github.com/rpgo/valuation-simulator/internal/domain"
	"github.com/shopspring/decimal"
)

// SensitivityParameterNames lists the fixed parameter names accepted by
// RunSensitivity. Segment parameters use "segment.<name>.<field>".
var SensitivityParameterNames = []string{
	"net_profit_margin",
	"shares_growth_rate",
	"network.vehicle_growth_rate",
	"network.cost_reduction_rate",
	"network.utilization_growth_rate",
	"network.operator_cut_per_mile",
	"segment.<name>.growth_rate",
	"segment.<name>.gross_margin",
	"segment.<name>.op_expense_ratio",
}

// applyParameter sets the named scalar on a (which must be a private copy).
func applyParameter(a *domain.Assumptions, name string, v decimal.Decimal) error {
	switch name {
	case "net_profit_margin":
		a.NetProfitMargin = v
		return nil
	case "shares_growth_rate":
		a.SharesGrowthRate = v
		return nil
	case "network.vehicle_growth_rate":
		a.Network.VehicleGrowthRate = v
		return nil
	case "network.cost_reduction_rate":
		a.Network.CostReductionRate = v
		return nil
	case "network.utilization_growth_rate":
		a.Network.UtilizationGrowthRate = v
		return nil
	case "network.operator_cut_per_mile":
		a.Network.OperatorCutPerMile = v
		return nil
	}

	if rest, ok := strings.CutPrefix(name, "segment."); ok {
		dot := strings.LastIndex(rest, ".")
		if dot > 0 {
			segName, field := rest[:dot], rest[dot+1:]
			for i := range a.Segments {
				if a.Segments[i].Name != segName {
					continue
				}
				p := &a.Segments[i].Params
				switch field {
				case "growth_rate":
					if p.Units != nil {
						p.Units.UnitGrowthRate = v
					} else if p.Revenue != nil {
						p.Revenue.RevenueGrowthRate = v
					}
					return nil
				case "gross_margin":
					p.GrossMargin = v
					return nil
				case "op_expense_ratio":
					p.OpExpenseRatio = v
					return nil
				}
			}
		}
	}
	return fmt.Errorf("%w: %q", domain.ErrUnknownParameter, name)
}

// RunSensitivity sweeps one assumption across its range and records the
// target year's outcome at each step. a itself is never modified.
func (ve *ValuationEngine) RunSensitivity(ctx context.Context, a *domain.Assumptions, param domain.SensitivityParameter) (*domain.SensitivityAnalysis, error) {
	if a == nil {
		return nil, fmt.Errorf("%w: assumptions are required", domain.ErrInvalidAssumptions)
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	if param.Steps < 2 {
		return nil, fmt.Errorf("%w: sensitivity sweep needs at least 2 steps, got %d", domain.ErrInvalidAssumptions, param.Steps)
	}
	// Probe the name once so an unknown parameter fails before any run.
	if err := applyParameter(a.Clone(), param.Name, param.MinValue); err != nil {
		return nil, err
	}

	targetYear := param.TargetYear
	if targetYear == 0 {
		targetYear = a.Years[len(a.Years)-1]
	}
	targetIndex := -1
	for i, y := range a.Years {
		if y == targetYear {
			targetIndex = i
			break
		}
	}
	if targetIndex < 0 {
		return nil, fmt.Errorf("%w: target year %d is not projected", domain.ErrInvalidAssumptions, targetYear)
	}

	analysis := &domain.SensitivityAnalysis{
		Parameter:  param,
		TargetYear: targetYear,
		Scenarios:  make([]string, 0, len(a.PEScenarios)),
	}
	for _, sc := range a.PEScenarios {
		analysis.Scenarios = append(analysis.Scenarios, sc.Label)
	}

	for _, value := range param.StepValues() {
		variant := a.Clone()
		if err := applyParameter(variant, param.Name, value); err != nil {
			return nil, err
		}
		results, err := ve.Run(ctx, variant)
		if err != nil {
			return nil, fmt.Errorf("sensitivity %s=%s: %w", param.Name, value.String(), err)
		}
		r := results[targetIndex]
		point := domain.SensitivityPoint{
			Value:        value,
			TotalRevenue: r.TotalRevenue,
			NetIncome:    r.NetIncome,
			StockPrices:  make(map[string]decimal.Decimal, len(r.Valuations)),
		}
		for _, v := range r.Valuations {
			point.StockPrices[v.Scenario] = v.StockPrice
		}
		analysis.Points = append(analysis.Points, point)
	}

	first := analysis.Points[0].StockPrices[analysis.Scenarios[0]]
	last := analysis.Points[len(analysis.Points)-1].StockPrices[analysis.Scenarios[0]]
	if !first.IsZero() {
		analysis.SensitivityScore = last.Sub(first).Div(first.Abs()).Mul(hundred).Abs()
	}
	analysis.RiskLevel = analysis.DetermineRiskLevel()

	ve.logger().Infof("sensitivity %s: %d points, score %s%% (%s)",
		param.Name, len(analysis.Points), analysis.SensitivityScore.StringFixed(2), analysis.RiskLevel)
	return analysis, nil
}
