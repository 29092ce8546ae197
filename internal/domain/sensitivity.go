package domain

import (
	"github.com/shopspring/decimal"
)

// SensitivityParameter describes a single assumption to sweep.
type SensitivityParameter struct {
	Name     string          `yaml:"name" json:"name"`
	MinValue decimal.Decimal `yaml:"min_value" json:"min_value"`
	MaxValue decimal.Decimal `yaml:"max_value" json:"max_value"`
	Steps    int             `yaml:"steps" json:"steps"`
	// TargetYear is the year whose metrics are recorded; zero means the last year.
	TargetYear int `yaml:"target_year" json:"target_year"`
}

// StepValues returns Steps evenly spaced values from MinValue to MaxValue inclusive.
func (p SensitivityParameter) StepValues() []decimal.Decimal {
	if p.Steps < 2 {
		return []decimal.Decimal{p.MinValue}
	}
	span := p.MaxValue.Sub(p.MinValue)
	increment := span.Div(decimal.NewFromInt(int64(p.Steps - 1)))
	values := make([]decimal.Decimal, p.Steps)
	for i := 0; i < p.Steps; i++ {
		values[i] = p.MinValue.Add(increment.Mul(decimal.NewFromInt(int64(i))))
	}
	values[p.Steps-1] = p.MaxValue
	return values
}

// SensitivityPoint is the outcome of one step of a sweep.
type SensitivityPoint struct {
	Value        decimal.Decimal            `json:"value"`
	TotalRevenue decimal.Decimal            `json:"total_revenue"`
	NetIncome    decimal.Decimal            `json:"net_income"`
	StockPrices  map[string]decimal.Decimal `json:"stock_prices"`
}

// SensitivityAnalysis is the complete sweep of one parameter.
type SensitivityAnalysis struct {
	Parameter  SensitivityParameter `json:"parameter"`
	TargetYear int                  `json:"target_year"`
	Scenarios  []string             `json:"scenarios"`
	Points     []SensitivityPoint   `json:"points"`
	// SensitivityScore is the absolute percentage change of the first
	// scenario's stock price between the first and last point.
	SensitivityScore decimal.Decimal `json:"sensitivity_score"`
	RiskLevel        string          `json:"risk_level"` // "LOW", "MEDIUM", "HIGH", "CRITICAL"
}

// DetermineRiskLevel buckets the sensitivity score.
func (sa *SensitivityAnalysis) DetermineRiskLevel() string {
	score := sa.SensitivityScore
	if score.LessThan(decimal.NewFromFloat(5.0)) {
		return "LOW"
	} else if score.LessThan(decimal.NewFromFloat(15.0)) {
		return "MEDIUM"
	} else if score.LessThan(decimal.NewFromFloat(30.0)) {
		return "HIGH"
	}
	return "CRITICAL"
}

// PriceTargetCrossing reports when a scenario's stock price first reaches a target.
type PriceTargetCrossing struct {
	Scenario   string          `json:"scenario"`
	Target     decimal.Decimal `json:"target"`
	Year       int             `json:"year"`
	YearIndex  int             `json:"year_index"`
	StockPrice decimal.Decimal `json:"stock_price"`
	// FractionalYear interpolates linearly between the previous and crossing year.
	FractionalYear decimal.Decimal `json:"fractional_year"`
}
