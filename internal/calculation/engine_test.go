package calculation

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rpgo/valuation-simulator/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

// referenceAssumptions mirrors the default model: three unit segments, two
// revenue segments, the network on the advanced path, 2025..2035.
func referenceAssumptions() *domain.Assumptions {
	years := make([]int, 0, 11)
	for y := 2025; y <= 2035; y++ {
		years = append(years, y)
	}
	return &domain.Assumptions{
		Segments: []domain.Segment{
			domain.NewUnitSegment("Cars", domain.UnitEconomics{UnitsSoldBase: d(1800000), UnitPrice: d(45000), UnitGrowthRate: d(0.05)}, domain.Margins{GrossMargin: d(0.18), OpExpenseRatio: d(0.80)}),
			domain.NewUnitSegment("Robotaxi", domain.UnitEconomics{UnitsSoldBase: d(10000), UnitPrice: d(30000), UnitGrowthRate: d(0.50)}, domain.Margins{GrossMargin: d(0.25), OpExpenseRatio: d(0.70)}),
			domain.NewUnitSegment("Optimus", domain.UnitEconomics{UnitsSoldBase: d(1000), UnitPrice: d(20000), UnitGrowthRate: d(1.00)}, domain.Margins{GrossMargin: d(0.30), OpExpenseRatio: d(0.70)}),
			domain.NewRevenueSegment("Energy", domain.RevenueEconomics{RevenueBase: d(15000), RevenueGrowthRate: d(0.20)}, domain.Margins{GrossMargin: d(0.30), OpExpenseRatio: d(0.20)}),
			domain.NewRevenueSegment("Services", domain.RevenueEconomics{RevenueBase: d(10000), RevenueGrowthRate: d(0.10)}, domain.Margins{GrossMargin: d(0.15), OpExpenseRatio: d(0.30)}),
		},
		Network: domain.NetworkParams{
			VehicleCountBase:         d(8000),
			VehicleGrowthRate:        d(1.00),
			MilesPerVehicleBase:      d(50000),
			UtilizationRateBase:      d(0.50),
			UtilizationGrowthRate:    d(0.0234),
			UtilizationCap:           d(0.70),
			RiderRatePerMile:         d(1.00),
			OwnerCutPerMile:          d(0.60),
			OperatorCutPerMile:       d(0.40),
			OperatingCostPerMileBase: d(0.42),
			CostReductionRate:        d(0.05),
		},
		AdvancedToggles:  map[string]bool{domain.NetworkToggleKey: true},
		NetProfitMargin:  d(0.08),
		SharesBase:       d(3220000000),
		SharesGrowthRate: d(0.01),
		PEScenarios: []domain.PEScenario{
			{Label: "Conservative", Ratio: d(100)},
			{Label: "Current", Ratio: d(191.60)},
			{Label: "Optimistic", Ratio: d(250)},
			{Label: "Bullish", Ratio: d(350)},
		},
		Years: years,
	}
}

func runEngine(t *testing.T, a *domain.Assumptions) []domain.YearlyResult {
	t.Helper()
	results, err := NewValuationEngine().Run(context.Background(), a)
	require.NoError(t, err)
	require.Len(t, results, len(a.Years))
	return results
}

func segmentRow(t *testing.T, r domain.YearlyResult, name string) domain.SegmentRow {
	t.Helper()
	row, ok := r.SegmentByName(name)
	require.True(t, ok, "segment %s missing in %d", name, r.Year)
	return row
}

func TestRun_UnitSegmentEndToEnd(t *testing.T) {
	a := referenceAssumptions()
	results := runEngine(t, a)

	cars := segmentRow(t, results[1], "Cars")
	assert.Equal(t, 2026, results[1].Year)
	assert.True(t, cars.UnitsSold.Equal(d(1890000)), "units: %s", cars.UnitsSold)
	assert.True(t, cars.Revenue.Equal(d(85050000000)), "revenue: %s", cars.Revenue)
	assert.True(t, cars.NetRevenue.Equal(cars.Revenue))
	assert.True(t, cars.GrossProfit.Equal(d(15309000000)), "gross profit: %s", cars.GrossProfit)
	assert.Nil(t, cars.OpExpenses)
}

func TestRun_NetworkSimpleEndToEnd(t *testing.T) {
	a := referenceAssumptions()
	a.AdvancedToggles[domain.NetworkToggleKey] = false
	results := runEngine(t, a)

	n := results[1].Network
	assert.Equal(t, domain.PathGross, n.Path)
	require.NotNil(t, n.Simple)
	assert.Nil(t, n.Advanced)
	assert.True(t, n.Vehicles.Equal(d(16000)))
	assert.True(t, n.Simple.TotalMiles.Equal(d(800000000)))
	assert.True(t, n.CompanyEarnings.Equal(d(320000000)))
}

func TestRun_NetworkAdvancedPath(t *testing.T) {
	results := runEngine(t, referenceAssumptions())

	n := results[0].Network
	require.NotNil(t, n.Advanced)
	assert.Nil(t, n.Simple)
	// 8000 vehicles * 50000 miles * 0.5 utilization
	assert.True(t, n.Advanced.TotalMiles.Equal(d(200000000)))
	assert.True(t, n.Advanced.GrossRevenue.Equal(d(200000000)))
	assert.True(t, n.Advanced.OwnerEarnings.Equal(d(120000000)))
	assert.True(t, n.Advanced.CompanyGross.Equal(d(80000000)))
	assert.True(t, n.Advanced.OperatingCosts.Equal(d(84000000)))
	assert.True(t, n.Advanced.CompanyNet.Equal(d(-4000000)))
	assert.True(t, n.CompanyEarnings.Equal(n.Advanced.CompanyNet))
}

func TestRun_BaseYearIdentity(t *testing.T) {
	a := referenceAssumptions()
	results := runEngine(t, a)
	base := results[0]

	assert.Equal(t, 0, base.Elapsed)
	for _, seg := range a.Segments {
		row := segmentRow(t, base, seg.Name)
		switch seg.Params.Kind {
		case domain.KindUnits:
			assert.True(t, row.UnitsSold.Equal(seg.Params.Units.UnitsSoldBase), seg.Name)
		case domain.KindRevenue:
			assert.True(t, row.Revenue.Equal(seg.Params.Revenue.RevenueBase.Mul(domain.RevenueUnit)), seg.Name)
		}
	}
	assert.True(t, base.Network.Vehicles.Equal(a.Network.VehicleCountBase))
	assert.True(t, base.Network.OperatingCostPerMile.Equal(a.Network.OperatingCostPerMileBase))
	assert.True(t, base.Network.UtilizationRate.Equal(a.Network.UtilizationRateBase))
	assert.True(t, base.SharesOutstanding.Equal(a.SharesBase))
}

func TestRun_RevenueSegmentUsesMillions(t *testing.T) {
	results := runEngine(t, referenceAssumptions())

	energy := segmentRow(t, results[0], "Energy")
	assert.Nil(t, energy.UnitsSold)
	assert.Nil(t, energy.UnitPrice)
	assert.True(t, energy.Revenue.Equal(d(15000000000)), "revenue: %s", energy.Revenue)

	services := segmentRow(t, results[1], "Services")
	assert.True(t, services.Revenue.Equal(d(11000000000)), "revenue: %s", services.Revenue)
}

func TestRun_MonotonicGrowth(t *testing.T) {
	results := runEngine(t, referenceAssumptions())

	for i := 1; i < len(results); i++ {
		prev, curr := results[i-1], results[i]
		for _, name := range []string{"Cars", "Robotaxi", "Optimus", "Energy", "Services"} {
			p := segmentRow(t, prev, name)
			c := segmentRow(t, curr, name)
			assert.True(t, c.Revenue.GreaterThanOrEqual(p.Revenue), "%s %d", name, curr.Year)
		}
		assert.True(t, curr.Network.Vehicles.GreaterThan(prev.Network.Vehicles))
		assert.True(t, curr.Network.OperatingCostPerMile.LessThan(prev.Network.OperatingCostPerMile))
	}
}

func TestRun_UtilizationNeverExceedsCap(t *testing.T) {
	a := referenceAssumptions()
	a.Network.UtilizationGrowthRate = d(0.5)
	results := runEngine(t, a)

	assert.True(t, results[0].Network.UtilizationRate.Equal(d(0.5)))
	for _, r := range results[1:] {
		assert.True(t, r.Network.UtilizationRate.Equal(d(0.70)), "year %d: %s", r.Year, r.Network.UtilizationRate)
	}
}

func TestRun_UtilizationCapDefaultsWhenUnset(t *testing.T) {
	a := referenceAssumptions()
	a.Network.UtilizationCap = decimal.Zero
	a.Network.UtilizationGrowthRate = d(1)
	results := runEngine(t, a)

	assert.True(t, results[2].Network.UtilizationRate.Equal(domain.DefaultUtilizationCap))
}

func TestRun_ToggleConsistency(t *testing.T) {
	a := referenceAssumptions()
	a.AdvancedToggles["Cars"] = true
	a.AdvancedToggles["Energy"] = true
	results := runEngine(t, a)

	for _, r := range results {
		for _, row := range r.Segments {
			assert.Equal(t, a.Advanced(row.Name), row.Advanced)
			if row.Advanced {
				require.NotNil(t, row.OpExpenses)
				assert.True(t, row.NetRevenue.Equal(row.Revenue.Sub(*row.OpExpenses)))
				assert.True(t, row.GrossProfit.Equal(row.NetRevenue.Mul(a.Segments[indexOf(a, row.Name)].Params.GrossMargin)))
			} else {
				assert.Nil(t, row.OpExpenses)
				assert.True(t, row.NetRevenue.Equal(row.Revenue))
			}
		}
	}

	cars := segmentRow(t, results[0], "Cars")
	// 81e9 revenue, 80% op-ex, 18% margin on the remainder
	assert.True(t, cars.OpExpenses.Equal(d(64800000000)))
	assert.True(t, cars.NetRevenue.Equal(d(16200000000)))
	assert.True(t, cars.GrossProfit.Equal(d(2916000000)))
}

func indexOf(a *domain.Assumptions, name string) int {
	for i, s := range a.Segments {
		if s.Name == name {
			return i
		}
	}
	return -1
}

func TestRun_RevenueConservation(t *testing.T) {
	results := runEngine(t, referenceAssumptions())

	for _, r := range results {
		assert.True(t, r.TotalRevenue.Equal(r.BreakdownTotal()), "year %d", r.Year)
		require.Len(t, r.RevenueBreakdown, 6)
		assert.Equal(t, "Cars", r.RevenueBreakdown[0].Category)
		assert.Equal(t, domain.NetworkToggleKey, r.RevenueBreakdown[5].Category)
		assert.True(t, r.NetIncome.Equal(r.TotalRevenue.Mul(d(0.08))))
	}
}

func TestRun_ScenarioOrderAndMonotonicPrice(t *testing.T) {
	a := referenceAssumptions()
	results := runEngine(t, a)

	for _, r := range results {
		require.Len(t, r.Valuations, len(a.PEScenarios))
		for i, v := range r.Valuations {
			assert.Equal(t, a.PEScenarios[i].Label, v.Scenario)
			assert.True(t, v.MarketCap.Equal(r.NetIncome.Mul(v.PERatio)))
			if i > 0 {
				assert.True(t, v.StockPrice.GreaterThan(r.Valuations[i-1].StockPrice))
			}
		}
	}
}

func TestRun_OverrideIsolation(t *testing.T) {
	a := referenceAssumptions()
	baseline := runEngine(t, a)

	a.Overrides = &domain.Override{Values: map[string]decimal.Decimal{
		"Cars":   d(2500000),
		"Energy": d(40000),
	}}
	overridden := runEngine(t, a)

	for i := range baseline {
		b, o := baseline[i], overridden[i]
		if o.Year == 2029 {
			assert.True(t, o.OverrideApplied)
			cars := segmentRow(t, o, "Cars")
			assert.True(t, cars.Overridden)
			assert.True(t, cars.UnitsSold.Equal(d(2500000)))
			assert.True(t, cars.Revenue.Equal(d(2500000).Mul(d(45000))))
			energy := segmentRow(t, o, "Energy")
			assert.True(t, energy.Revenue.Equal(d(40000000000)))
			assert.True(t, segmentRow(t, o, "Robotaxi").Revenue.Equal(segmentRow(t, b, "Robotaxi").Revenue))
			assert.True(t, o.Network.CompanyEarnings.Equal(b.Network.CompanyEarnings))
			continue
		}
		assert.False(t, o.OverrideApplied, "year %d", o.Year)
		assert.True(t, o.TotalRevenue.Equal(b.TotalRevenue), "year %d", o.Year)
	}
}

func TestRun_NonPositiveShares(t *testing.T) {
	a := referenceAssumptions()
	a.SharesGrowthRate = d(-1)

	results, err := NewValuationEngine().Run(context.Background(), a)
	require.Error(t, err)
	assert.Nil(t, results)
	assert.True(t, errors.Is(err, domain.ErrNonPositiveShares))
	var yearErr *domain.YearError
	require.True(t, errors.As(err, &yearErr))
	assert.Equal(t, 2026, yearErr.Year)
}

func TestRun_RejectsInvalidAssumptions(t *testing.T) {
	engine := NewValuationEngine()

	_, err := engine.Run(context.Background(), nil)
	assert.True(t, errors.Is(err, domain.ErrInvalidAssumptions))

	a := referenceAssumptions()
	a.PEScenarios = nil
	_, err = engine.Run(context.Background(), a)
	assert.True(t, errors.Is(err, domain.ErrInvalidAssumptions))
}

func TestRun_ParallelMatchesSequential(t *testing.T) {
	a := referenceAssumptions()
	sequential := runEngine(t, a)

	engine := NewValuationEngine()
	engine.Workers = 4
	parallel, err := engine.Run(context.Background(), a)
	require.NoError(t, err)
	require.Len(t, parallel, len(sequential))

	for i := range sequential {
		assert.Equal(t, sequential[i].Year, parallel[i].Year)
		assert.True(t, sequential[i].TotalRevenue.Equal(parallel[i].TotalRevenue))
		for j := range sequential[i].Valuations {
			assert.True(t, sequential[i].Valuations[j].StockPrice.Equal(parallel[i].Valuations[j].StockPrice))
		}
	}
}

func TestRun_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewValuationEngine().Run(ctx, referenceAssumptions())
	assert.True(t, errors.Is(err, context.Canceled))
}

type recordingLogger struct {
	NopLogger
	warnings []string
}

func (l *recordingLogger) Warnf(format string, args ...any) {
	l.warnings = append(l.warnings, fmt.Sprintf(format, args...))
}

func TestRun_WarnsWhenCostPerMileReachesZero(t *testing.T) {
	a := referenceAssumptions()
	a.Network.CostReductionRate = d(1)
	log := &recordingLogger{}
	engine := NewValuationEngine()
	engine.SetLogger(log)

	results, err := engine.Run(context.Background(), a)
	require.NoError(t, err)
	assert.True(t, results[1].Network.OperatingCostPerMile.IsZero())
	assert.Len(t, log.warnings, len(a.Years)-1)
	assert.Contains(t, log.warnings[0], "year 2026")
}

func TestSetLogger_NilFallsBackToNop(t *testing.T) {
	engine := NewValuationEngine()
	engine.SetLogger(nil)
	assert.IsType(t, NopLogger{}, engine.Logger)
}

func TestBuildReport(t *testing.T) {
	old := runIDFunc
	SetRunIDFunc(func() string { return "run-1" })
	defer SetRunIDFunc(old)

	report, err := NewValuationEngine().BuildReport(context.Background(), referenceAssumptions(), []int{2030})
	require.NoError(t, err)
	assert.Equal(t, "run-1", report.RunID)
	assert.Len(t, report.Results, 11)
	sel := report.SelectedResults()
	require.Len(t, sel, 1)
	assert.Equal(t, 2030, sel[0].Year)
}
