package config

import (
	"fmt"

	"github.com/rpgo/valuation-simulator/internal/domain"
	"github.com/shopspring/decimal"
)

// FileConfig is the on-disk shape of the valuation assumptions. The same
// schema is read from YAML, TOML, JSON and HJSON. Segments and scenarios are
// lists so that their order survives every format.
type FileConfig struct {
	StartYear int   `yaml:"start_year,omitempty" toml:"start_year,omitempty" json:"start_year,omitempty"`
	EndYear   int   `yaml:"end_year,omitempty" toml:"end_year,omitempty" json:"end_year,omitempty"`
	Years     []int `yaml:"years,omitempty" toml:"years,omitempty" json:"years,omitempty"`

	Segments        []SegmentConfig `yaml:"segments" toml:"segments" json:"segments" validate:"dive"`
	Network         NetworkConfig   `yaml:"network" toml:"network" json:"network"`
	AdvancedToggles map[string]bool `yaml:"advanced_toggles" toml:"advanced_toggles" json:"advanced_toggles"`

	NetProfitMargin    float64 `yaml:"net_profit_margin" toml:"net_profit_margin" json:"net_profit_margin" validate:"gte=0,lte=0.5"`
	SharesBaseMillions float64 `yaml:"shares_base_millions" toml:"shares_base_millions" json:"shares_base_millions" validate:"gt=0"`
	SharesGrowthRate   float64 `yaml:"shares_growth_rate" toml:"shares_growth_rate" json:"shares_growth_rate" validate:"gte=0,lte=0.05"`

	PEScenarios []ScenarioConfig `yaml:"pe_scenarios" toml:"pe_scenarios" json:"pe_scenarios" validate:"dive"`

	// Overrides replace the projection of the named segments in the fifth
	// projected year: units for unit segments, millions for revenue segments.
	Overrides map[string]float64 `yaml:"overrides,omitempty" toml:"overrides,omitempty" json:"overrides,omitempty"`
}

// SegmentConfig is one line of business. Unit fields apply to kind "units",
// revenue fields to kind "revenue".
type SegmentConfig struct {
	Name string `yaml:"name" toml:"name" json:"name"`
	Kind string `yaml:"kind" toml:"kind" json:"kind"`

	UnitsSoldBase  float64 `yaml:"units_sold_base,omitempty" toml:"units_sold_base,omitempty" json:"units_sold_base,omitempty" validate:"gte=0"`
	UnitPrice      float64 `yaml:"unit_price,omitempty" toml:"unit_price,omitempty" json:"unit_price,omitempty" validate:"gte=0"`
	UnitGrowthRate float64 `yaml:"unit_growth_rate,omitempty" toml:"unit_growth_rate,omitempty" json:"unit_growth_rate,omitempty" validate:"gte=0,lte=2"`

	RevenueBaseMillions float64 `yaml:"revenue_base_millions,omitempty" toml:"revenue_base_millions,omitempty" json:"revenue_base_millions,omitempty" validate:"gte=0"`
	RevenueGrowthRate   float64 `yaml:"revenue_growth_rate,omitempty" toml:"revenue_growth_rate,omitempty" json:"revenue_growth_rate,omitempty" validate:"gte=0,lte=2"`

	GrossMargin    float64 `yaml:"gross_margin" toml:"gross_margin" json:"gross_margin" validate:"gte=0,lte=1"`
	OpExpenseRatio float64 `yaml:"op_expense_ratio" toml:"op_expense_ratio" json:"op_expense_ratio" validate:"gte=0,lte=1"`
}

// NetworkConfig holds the mobility network inputs.
type NetworkConfig struct {
	VehicleCountBase         float64 `yaml:"vehicle_count_base" toml:"vehicle_count_base" json:"vehicle_count_base" validate:"gte=0"`
	VehicleGrowthRate        float64 `yaml:"vehicle_growth_rate" toml:"vehicle_growth_rate" json:"vehicle_growth_rate" validate:"gte=0,lte=2"`
	MilesPerVehicleBase      float64 `yaml:"miles_per_vehicle_base" toml:"miles_per_vehicle_base" json:"miles_per_vehicle_base" validate:"gte=0"`
	UtilizationRateBase      float64 `yaml:"utilization_rate_base" toml:"utilization_rate_base" json:"utilization_rate_base" validate:"gte=0,lte=1"`
	UtilizationGrowthRate    float64 `yaml:"utilization_growth_rate" toml:"utilization_growth_rate" json:"utilization_growth_rate" validate:"gte=0,lte=0.1"`
	UtilizationCap           float64 `yaml:"utilization_cap,omitempty" toml:"utilization_cap,omitempty" json:"utilization_cap,omitempty" validate:"gte=0,lte=1"`
	RiderRatePerMile         float64 `yaml:"rider_rate_per_mile" toml:"rider_rate_per_mile" json:"rider_rate_per_mile" validate:"gte=0"`
	OwnerCutPerMile          float64 `yaml:"owner_cut_per_mile" toml:"owner_cut_per_mile" json:"owner_cut_per_mile" validate:"gte=0"`
	OperatorCutPerMile       float64 `yaml:"operator_cut_per_mile" toml:"operator_cut_per_mile" json:"operator_cut_per_mile" validate:"gte=0"`
	OperatingCostPerMileBase float64 `yaml:"operating_cost_per_mile_base" toml:"operating_cost_per_mile_base" json:"operating_cost_per_mile_base" validate:"gte=0"`
	CostReductionRate        float64 `yaml:"cost_reduction_rate" toml:"cost_reduction_rate" json:"cost_reduction_rate" validate:"gte=0,lte=0.2"`
}

// ScenarioConfig is a labelled P/E multiple.
type ScenarioConfig struct {
	Label   string  `yaml:"label" toml:"label" json:"label"`
	PERatio float64 `yaml:"pe_ratio" toml:"pe_ratio" json:"pe_ratio" validate:"gte=1"`
}

// YearList resolves the projection years. An explicit list wins over the
// start/end range.
func (fc *FileConfig) YearList() ([]int, error) {
	if len(fc.Years) > 0 {
		return append([]int(nil), fc.Years...), nil
	}
	if fc.StartYear == 0 && fc.EndYear == 0 {
		return nil, nil
	}
	if fc.EndYear < fc.StartYear {
		return nil, fmt.Errorf("%w: end_year %d precedes start_year %d", domain.ErrInvalidAssumptions, fc.EndYear, fc.StartYear)
	}
	years := make([]int, 0, fc.EndYear-fc.StartYear+1)
	for y := fc.StartYear; y <= fc.EndYear; y++ {
		years = append(years, y)
	}
	return years, nil
}

// ToAssumptions converts the file schema into domain assumptions. It does not
// validate the result; see InputParser.ValidateConfiguration.
func (fc *FileConfig) ToAssumptions() (*domain.Assumptions, error) {
	years, err := fc.YearList()
	if err != nil {
		return nil, err
	}

	a := &domain.Assumptions{
		Segments:         make([]domain.Segment, 0, len(fc.Segments)),
		Network:          fc.Network.toDomain(),
		AdvancedToggles:  make(map[string]bool, len(fc.AdvancedToggles)),
		NetProfitMargin:  decimal.NewFromFloat(fc.NetProfitMargin),
		SharesBase:       decimal.NewFromFloat(fc.SharesBaseMillions).Mul(decimal.NewFromInt(1_000_000)),
		SharesGrowthRate: decimal.NewFromFloat(fc.SharesGrowthRate),
		PEScenarios:      make([]domain.PEScenario, 0, len(fc.PEScenarios)),
		Years:            years,
	}
	for _, s := range fc.Segments {
		a.Segments = append(a.Segments, s.toDomain())
	}
	for k, v := range fc.AdvancedToggles {
		a.AdvancedToggles[k] = v
	}
	for _, sc := range fc.PEScenarios {
		a.PEScenarios = append(a.PEScenarios, domain.PEScenario{Label: sc.Label, Ratio: decimal.NewFromFloat(sc.PERatio)})
	}
	if len(fc.Overrides) > 0 {
		o := &domain.Override{Values: make(map[string]decimal.Decimal, len(fc.Overrides))}
		for k, v := range fc.Overrides {
			o.Values[k] = decimal.NewFromFloat(v)
		}
		a.Overrides = o
	}
	return a, nil
}

func (s SegmentConfig) toDomain() domain.Segment {
	margins := domain.Margins{
		GrossMargin:    decimal.NewFromFloat(s.GrossMargin),
		OpExpenseRatio: decimal.NewFromFloat(s.OpExpenseRatio),
	}
	switch domain.SegmentKind(s.Kind) {
	case domain.KindUnits:
		return domain.NewUnitSegment(s.Name, domain.UnitEconomics{
			UnitsSoldBase:  decimal.NewFromFloat(s.UnitsSoldBase),
			UnitPrice:      decimal.NewFromFloat(s.UnitPrice),
			UnitGrowthRate: decimal.NewFromFloat(s.UnitGrowthRate),
		}, margins)
	case domain.KindRevenue:
		return domain.NewRevenueSegment(s.Name, domain.RevenueEconomics{
			RevenueBase:       decimal.NewFromFloat(s.RevenueBaseMillions),
			RevenueGrowthRate: decimal.NewFromFloat(s.RevenueGrowthRate),
		}, margins)
	}
	// Unknown kinds carry no payload and are rejected by validation.
	return domain.Segment{Name: s.Name, Params: domain.SegmentParams{Kind: domain.SegmentKind(s.Kind), Margins: margins}}
}

func (n NetworkConfig) toDomain() domain.NetworkParams {
	return domain.NetworkParams{
		VehicleCountBase:         decimal.NewFromFloat(n.VehicleCountBase),
		VehicleGrowthRate:        decimal.NewFromFloat(n.VehicleGrowthRate),
		MilesPerVehicleBase:      decimal.NewFromFloat(n.MilesPerVehicleBase),
		UtilizationRateBase:      decimal.NewFromFloat(n.UtilizationRateBase),
		UtilizationGrowthRate:    decimal.NewFromFloat(n.UtilizationGrowthRate),
		UtilizationCap:           decimal.NewFromFloat(n.UtilizationCap),
		RiderRatePerMile:         decimal.NewFromFloat(n.RiderRatePerMile),
		OwnerCutPerMile:          decimal.NewFromFloat(n.OwnerCutPerMile),
		OperatorCutPerMile:       decimal.NewFromFloat(n.OperatorCutPerMile),
		OperatingCostPerMileBase: decimal.NewFromFloat(n.OperatingCostPerMileBase),
		CostReductionRate:        decimal.NewFromFloat(n.CostReductionRate),
	}
}
