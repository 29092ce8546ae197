package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// RevenueUnit is the scale of revenue-kind inputs (RevenueBase and revenue
// overrides are stated in millions; the engine works in dollars).
var RevenueUnit = decimal.NewFromInt(1_000_000)

// DefaultUtilizationCap is the hard ceiling applied to network utilization.
var DefaultUtilizationCap = decimal.NewFromFloat(0.70)

// NetworkToggleKey is the AdvancedToggles entry for the mobility network.
const NetworkToggleKey = "network"

// OverrideYearIndex is the position in Years at which overrides apply (the 5th year).
const OverrideYearIndex = 4

// SegmentKind tags the shape of a segment's growth inputs.
type SegmentKind string

const (
	KindUnits   SegmentKind = "units"
	KindRevenue SegmentKind = "revenue"
)

// Valid reports whether k is a known segment kind.
func (k SegmentKind) Valid() bool {
	return k == KindUnits || k == KindRevenue
}

// Margins is the payload shared by both segment kinds.
type Margins struct {
	GrossMargin    decimal.Decimal `json:"gross_margin"`
	OpExpenseRatio decimal.Decimal `json:"op_expense_ratio"`
}

// UnitEconomics describes a segment projected from unit sales.
type UnitEconomics struct {
	UnitsSoldBase  decimal.Decimal `json:"units_sold_base"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	UnitGrowthRate decimal.Decimal `json:"unit_growth_rate"`
}

// RevenueEconomics describes a segment projected directly from revenue.
// RevenueBase is expressed in millions (see RevenueUnit).
type RevenueEconomics struct {
	RevenueBase       decimal.Decimal `json:"revenue_base"`
	RevenueGrowthRate decimal.Decimal `json:"revenue_growth_rate"`
}

// SegmentParams is a tagged variant: exactly one of Units or Revenue is set,
// matching Kind.
type SegmentParams struct {
	Kind    SegmentKind       `json:"kind"`
	Units   *UnitEconomics    `json:"units,omitempty"`
	Revenue *RevenueEconomics `json:"revenue,omitempty"`
	Margins
}

// NewUnitSegment builds a units-kind segment.
func NewUnitSegment(name string, units UnitEconomics, margins Margins) Segment {
	return Segment{Name: name, Params: SegmentParams{Kind: KindUnits, Units: &units, Margins: margins}}
}

// NewRevenueSegment builds a revenue-kind segment.
func NewRevenueSegment(name string, revenue RevenueEconomics, margins Margins) Segment {
	return Segment{Name: name, Params: SegmentParams{Kind: KindRevenue, Revenue: &revenue, Margins: margins}}
}

// Validate checks the tag and payload agree.
func (p SegmentParams) Validate() error {
	switch p.Kind {
	case KindUnits:
		if p.Units == nil || p.Revenue != nil {
			return fmt.Errorf("units segment must carry unit economics only")
		}
	case KindRevenue:
		if p.Revenue == nil || p.Units != nil {
			return fmt.Errorf("revenue segment must carry revenue economics only")
		}
	default:
		return fmt.Errorf("unknown segment kind %q", p.Kind)
	}
	return nil
}

// Segment is one named line of business.
type Segment struct {
	Name   string        `json:"name"`
	Params SegmentParams `json:"params"`
}

// NetworkParams holds the peer-to-peer mobility network inputs.
type NetworkParams struct {
	VehicleCountBase         decimal.Decimal `json:"vehicle_count_base"`
	VehicleGrowthRate        decimal.Decimal `json:"vehicle_growth_rate"`
	MilesPerVehicleBase      decimal.Decimal `json:"miles_per_vehicle_base"`
	UtilizationRateBase      decimal.Decimal `json:"utilization_rate_base"`
	UtilizationGrowthRate    decimal.Decimal `json:"utilization_growth_rate"`
	UtilizationCap           decimal.Decimal `json:"utilization_cap"`
	RiderRatePerMile         decimal.Decimal `json:"rider_rate_per_mile"`
	OwnerCutPerMile          decimal.Decimal `json:"owner_cut_per_mile"`
	OperatorCutPerMile       decimal.Decimal `json:"operator_cut_per_mile"`
	OperatingCostPerMileBase decimal.Decimal `json:"operating_cost_per_mile_base"`
	CostReductionRate        decimal.Decimal `json:"cost_reduction_rate"`
}

// PEScenario is a named price/earnings multiple.
type PEScenario struct {
	Label string          `json:"label"`
	Ratio decimal.Decimal `json:"pe_ratio"`
}

// Override replaces the growth-projected value of selected segments in the
// override year. Unit segments take units; revenue segments take millions.
type Override struct {
	Values map[string]decimal.Decimal `json:"values"`
}

// Value returns the override for segment name, if any.
func (o *Override) Value(name string) (decimal.Decimal, bool) {
	if o == nil || o.Values == nil {
		return decimal.Zero, false
	}
	v, ok := o.Values[name]
	return v, ok
}

// Assumptions is the immutable input of a valuation run.
type Assumptions struct {
	Segments         []Segment       `json:"segments"`
	Network          NetworkParams   `json:"network"`
	AdvancedToggles  map[string]bool `json:"advanced_toggles"`
	NetProfitMargin  decimal.Decimal `json:"net_profit_margin"`
	SharesBase       decimal.Decimal `json:"shares_base"`
	SharesGrowthRate decimal.Decimal `json:"shares_growth_rate"`
	PEScenarios      []PEScenario    `json:"pe_scenarios"`
	Years            []int           `json:"years"`
	Overrides        *Override       `json:"overrides,omitempty"`
}

// BaseYear returns Years[0]. Callers must validate first.
func (a *Assumptions) BaseYear() int {
	return a.Years[0]
}

// Advanced reports whether the advanced accounting path is selected for key.
func (a *Assumptions) Advanced(key string) bool {
	return a.AdvancedToggles[key]
}

// OverrideYear returns the designated override year and whether one exists.
func (a *Assumptions) OverrideYear() (int, bool) {
	if len(a.Years) <= OverrideYearIndex {
		return 0, false
	}
	return a.Years[OverrideYearIndex], true
}

// Segment looks up a segment by name.
func (a *Assumptions) Segment(name string) (Segment, bool) {
	for _, s := range a.Segments {
		if s.Name == name {
			return s, true
		}
	}
	return Segment{}, false
}

// Clone returns a deep copy of a.
func (a *Assumptions) Clone() *Assumptions {
	c := *a
	c.Segments = make([]Segment, len(a.Segments))
	for i, s := range a.Segments {
		cp := s
		if s.Params.Units != nil {
			u := *s.Params.Units
			cp.Params.Units = &u
		}
		if s.Params.Revenue != nil {
			r := *s.Params.Revenue
			cp.Params.Revenue = &r
		}
		c.Segments[i] = cp
	}
	c.AdvancedToggles = make(map[string]bool, len(a.AdvancedToggles))
	for k, v := range a.AdvancedToggles {
		c.AdvancedToggles[k] = v
	}
	c.PEScenarios = append([]PEScenario(nil), a.PEScenarios...)
	c.Years = append([]int(nil), a.Years...)
	if a.Overrides != nil {
		vals := make(map[string]decimal.Decimal, len(a.Overrides.Values))
		for k, v := range a.Overrides.Values {
			vals[k] = v
		}
		c.Overrides = &Override{Values: vals}
	}
	return &c
}

// Validate rejects malformed assumptions before any per-year computation.
func (a *Assumptions) Validate() error {
	if len(a.Years) == 0 {
		return fmt.Errorf("%w: years must not be empty", ErrInvalidAssumptions)
	}
	for i := 1; i < len(a.Years); i++ {
		if a.Years[i] <= a.Years[i-1] {
			return fmt.Errorf("%w: years must be strictly increasing (%d follows %d)", ErrInvalidAssumptions, a.Years[i], a.Years[i-1])
		}
	}
	seen := make(map[string]bool, len(a.Segments))
	for _, s := range a.Segments {
		if s.Name == "" {
			return fmt.Errorf("%w: segment name is required", ErrInvalidAssumptions)
		}
		if s.Name == NetworkToggleKey {
			return fmt.Errorf("%w: segment name %q is reserved for the network", ErrInvalidAssumptions, s.Name)
		}
		if seen[s.Name] {
			return fmt.Errorf("%w: duplicate segment %q", ErrInvalidAssumptions, s.Name)
		}
		seen[s.Name] = true
		if err := s.Params.Validate(); err != nil {
			return fmt.Errorf("%w: segment %q: %v", ErrInvalidAssumptions, s.Name, err)
		}
	}
	if len(a.PEScenarios) == 0 {
		return fmt.Errorf("%w: at least one P/E scenario is required", ErrInvalidAssumptions)
	}
	labels := make(map[string]bool, len(a.PEScenarios))
	for _, sc := range a.PEScenarios {
		if sc.Label == "" {
			return fmt.Errorf("%w: scenario label is required", ErrInvalidAssumptions)
		}
		if labels[sc.Label] {
			return fmt.Errorf("%w: duplicate scenario %q", ErrInvalidAssumptions, sc.Label)
		}
		labels[sc.Label] = true
	}
	if a.Overrides != nil && len(a.Overrides.Values) > 0 {
		if _, ok := a.OverrideYear(); !ok {
			return fmt.Errorf("%w: overrides need at least %d years, got %d", ErrInvalidAssumptions, OverrideYearIndex+1, len(a.Years))
		}
		for name := range a.Overrides.Values {
			if !seen[name] {
				return fmt.Errorf("%w: override for unknown segment %q", ErrInvalidAssumptions, name)
			}
		}
	}
	return nil
}
