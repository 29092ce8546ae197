package calculation

import (
	"github.com/rpgo/valuation-simulator/internal/domain"
	"github.com/shopspring/decimal"
)

// utilizationCap returns the configured cap, falling back to the default when unset.
func utilizationCap(p domain.NetworkParams) decimal.Decimal {
	if p.UtilizationCap.IsZero() {
		return domain.DefaultUtilizationCap
	}
	return p.UtilizationCap
}

// ProjectNetwork computes the mobility network economics for one year.
// On the advanced path the company's earnings are its per-mile cut net of
// operating costs at the projected utilization; on the simple path every
// vehicle drives the full base mileage and no costs are subtracted.
func ProjectNetwork(p domain.NetworkParams, year, baseYear int, advanced bool) domain.NetworkRow {
	elapsed := year - baseYear

	vehicles := p.VehicleCountBase.Mul(growthFactor(p.VehicleGrowthRate, elapsed))
	costPerMile := p.OperatingCostPerMileBase.Mul(decayFactor(p.CostReductionRate, elapsed))
	utilization := decimal.Min(utilizationCap(p), p.UtilizationRateBase.Mul(growthFactor(p.UtilizationGrowthRate, elapsed)))

	row := domain.NetworkRow{
		Path:                 domain.PathFor(advanced),
		Vehicles:             vehicles,
		UtilizationRate:      utilization,
		OperatingCostPerMile: costPerMile,
		RiderRatePerMile:     p.RiderRatePerMile,
		OwnerCutPerMile:      p.OwnerCutPerMile,
		OperatorCutPerMile:   p.OperatorCutPerMile,
	}

	if advanced {
		utilizedMiles := p.MilesPerVehicleBase.Mul(utilization)
		totalMiles := vehicles.Mul(utilizedMiles)
		companyGross := totalMiles.Mul(p.OperatorCutPerMile)
		operatingCosts := totalMiles.Mul(costPerMile)
		row.Advanced = &domain.AdvancedNetworkEconomics{
			UtilizedMilesPerVehicle: utilizedMiles,
			TotalMiles:              totalMiles,
			GrossRevenue:            totalMiles.Mul(p.RiderRatePerMile),
			OwnerEarnings:           totalMiles.Mul(p.OwnerCutPerMile),
			CompanyGross:            companyGross,
			OperatingCosts:          operatingCosts,
			CompanyNet:              companyGross.Sub(operatingCosts),
		}
		row.CompanyEarnings = row.Advanced.CompanyNet
		return row
	}

	totalMiles := vehicles.Mul(p.MilesPerVehicleBase)
	row.Simple = &domain.SimpleNetworkEconomics{
		MilesPerVehicle: p.MilesPerVehicleBase,
		TotalMiles:      totalMiles,
		CompanyEarnings: totalMiles.Mul(p.OperatorCutPerMile),
	}
	row.CompanyEarnings = row.Simple.CompanyEarnings
	return row
}
