package output

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rpgo/valuation-simulator/internal/domain"
	"github.com/rpgo/valuation-simulator/pkg/decimal"
)

// GenerateAssumptions lists the key modeling assumptions of a run for detailed outputs.
func GenerateAssumptions(a *domain.Assumptions) []string {
	if a == nil || len(a.Years) == 0 {
		return nil
	}
	lines := []string{
		fmt.Sprintf("Projection years: %d-%d (%d years, base %d)", a.Years[0], a.Years[len(a.Years)-1], len(a.Years), a.BaseYear()),
		fmt.Sprintf("Net profit margin: %s", FormatRate(a.NetProfitMargin)),
		fmt.Sprintf("Shares outstanding: %sM growing %s annually", decimal.NewMoneyFromDecimal(a.SharesBase).Millions().StringFixed(0), FormatRate(a.SharesGrowthRate)),
	}
	for _, s := range a.Segments {
		p := s.Params
		switch p.Kind {
		case domain.KindUnits:
			lines = append(lines, fmt.Sprintf("%s: %s units at %s, %s growth, %s gross margin",
				s.Name, FormatCount(p.Units.UnitsSoldBase), HumanDollars(p.Units.UnitPrice), FormatRate(p.Units.UnitGrowthRate), FormatRate(p.GrossMargin)))
		case domain.KindRevenue:
			lines = append(lines, fmt.Sprintf("%s: %s revenue, %s growth, %s gross margin",
				s.Name, HumanDollars(decimal.FromMillions(p.Revenue.RevenueBase).Decimal), FormatRate(p.Revenue.RevenueGrowthRate), FormatRate(p.GrossMargin)))
		}
	}
	n := a.Network
	lines = append(lines, fmt.Sprintf("Network: %s vehicles growing %s, %s utilization growing %s",
		FormatCount(n.VehicleCountBase), FormatRate(n.VehicleGrowthRate), FormatRate(n.UtilizationRateBase), FormatRate(n.UtilizationGrowthRate)))

	var advanced []string
	for k, on := range a.AdvancedToggles {
		if on {
			advanced = append(advanced, k)
		}
	}
	sort.Strings(advanced)
	if len(advanced) == 0 {
		advanced = []string{"none"}
	}
	lines = append(lines, "Operating expenses deducted for: "+strings.Join(advanced, ", "))

	scenarios := make([]string, 0, len(a.PEScenarios))
	for _, sc := range a.PEScenarios {
		scenarios = append(scenarios, fmt.Sprintf("%s %s", sc.Label, sc.Ratio.String()))
	}
	lines = append(lines, "P/E scenarios: "+strings.Join(scenarios, ", "))
	if y, ok := a.OverrideYear(); ok && a.Overrides != nil && len(a.Overrides.Values) > 0 {
		names := make([]string, 0, len(a.Overrides.Values))
		for k := range a.Overrides.Values {
			names = append(names, k)
		}
		sort.Strings(names)
		lines = append(lines, fmt.Sprintf("Overrides in %d: %s", y, strings.Join(names, ", ")))
	}
	return lines
}
