package calculation

import (
	"context"
	"errors"
	"testing"

	"github.com/rpgo/valuation-simulator/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunSensitivity_NetProfitMargin(t *testing.T) {
	a := referenceAssumptions()
	param := domain.SensitivityParameter{Name: "net_profit_margin", MinValue: d(0.04), MaxValue: d(0.08), Steps: 5}

	analysis, err := NewValuationEngine().RunSensitivity(context.Background(), a, param)
	require.NoError(t, err)

	assert.Equal(t, 2035, analysis.TargetYear)
	assert.Equal(t, []string{"Conservative", "Current", "Optimistic", "Bullish"}, analysis.Scenarios)
	require.Len(t, analysis.Points, 5)
	assert.True(t, analysis.Points[0].Value.Equal(d(0.04)))
	assert.True(t, analysis.Points[4].Value.Equal(d(0.08)))
	for i := 1; i < len(analysis.Points); i++ {
		assert.True(t, analysis.Points[i].NetIncome.GreaterThan(analysis.Points[i-1].NetIncome))
		assert.True(t, analysis.Points[i].TotalRevenue.Equal(analysis.Points[0].TotalRevenue))
	}
	// Doubling the margin doubles every price.
	assert.InDelta(t, 100.0, analysis.SensitivityScore.InexactFloat64(), 1e-6)
	assert.Equal(t, "CRITICAL", analysis.RiskLevel)

	// The caller's assumptions are untouched.
	assert.True(t, a.NetProfitMargin.Equal(d(0.08)))
}

func TestRunSensitivity_SegmentParameter(t *testing.T) {
	a := referenceAssumptions()
	param := domain.SensitivityParameter{Name: "segment.Cars.growth_rate", MinValue: d(0), MaxValue: d(0.10), Steps: 3, TargetYear: 2026}

	analysis, err := NewValuationEngine().RunSensitivity(context.Background(), a, param)
	require.NoError(t, err)
	require.Len(t, analysis.Points, 3)
	assert.Equal(t, 2026, analysis.TargetYear)

	// Cars revenue moves by 1.8M units * 5% * 45000 per step.
	step := analysis.Points[1].TotalRevenue.Sub(analysis.Points[0].TotalRevenue)
	assert.True(t, step.Equal(d(4050000000)), "step: %s", step)
	assert.True(t, a.Segments[0].Params.Units.UnitGrowthRate.Equal(d(0.05)))
}

func TestRunSensitivity_Errors(t *testing.T) {
	engine := NewValuationEngine()
	tests := []struct {
		name  string
		param domain.SensitivityParameter
		want  error
	}{
		{"unknown name", domain.SensitivityParameter{Name: "dividend_yield", MinValue: d(0), MaxValue: d(1), Steps: 3}, domain.ErrUnknownParameter},
		{"unknown segment", domain.SensitivityParameter{Name: "segment.Boats.growth_rate", MinValue: d(0), MaxValue: d(1), Steps: 3}, domain.ErrUnknownParameter},
		{"unknown segment field", domain.SensitivityParameter{Name: "segment.Cars.unit_price", MinValue: d(0), MaxValue: d(1), Steps: 3}, domain.ErrUnknownParameter},
		{"too few steps", domain.SensitivityParameter{Name: "net_profit_margin", MinValue: d(0), MaxValue: d(1), Steps: 1}, domain.ErrInvalidAssumptions},
		{"year not projected", domain.SensitivityParameter{Name: "net_profit_margin", MinValue: d(0), MaxValue: d(1), Steps: 2, TargetYear: 2040}, domain.ErrInvalidAssumptions},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := engine.RunSensitivity(context.Background(), referenceAssumptions(), tt.param)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), err.Error())
		})
	}
}

func TestApplyParameter_AllNames(t *testing.T) {
	names := []string{
		"net_profit_margin",
		"shares_growth_rate",
		"network.vehicle_growth_rate",
		"network.cost_reduction_rate",
		"network.utilization_growth_rate",
		"network.operator_cut_per_mile",
		"segment.Energy.growth_rate",
		"segment.Energy.gross_margin",
		"segment.Energy.op_expense_ratio",
	}
	for _, name := range names {
		a := referenceAssumptions()
		assert.NoError(t, applyParameter(a, name, d(0.123)), name)
	}

	a := referenceAssumptions()
	require.NoError(t, applyParameter(a, "segment.Energy.growth_rate", d(0.5)))
	assert.True(t, a.Segments[3].Params.Revenue.RevenueGrowthRate.Equal(d(0.5)))
}
