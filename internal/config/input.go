package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	"github.com/hjson/hjson-go/v4"
	"github.com/pelletier/go-toml/v2"
	"github.com/rpgo/valuation-simulator/internal/domain"
	"gopkg.in/yaml.v3"
)

// Supported configuration formats.
const (
	FormatYAML  = "yaml"
	FormatTOML  = "toml"
	FormatJSON  = "json"
	FormatHJSON = "hjson"
)

// ErrUnsupportedConfigFormat is returned for unknown file extensions or format names.
var ErrUnsupportedConfigFormat = errors.New("unsupported configuration format")

// InputParser handles parsing of input configuration files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// FormatFromPath maps a file extension to a configuration format.
func FormatFromPath(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	case ".json":
		return FormatJSON, nil
	case ".hjson":
		return FormatHJSON, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedConfigFormat, filepath.Ext(path))
}

// LoadFileConfig reads and decodes a configuration file without converting it.
func (ip *InputParser) LoadFileConfig(filename string) (*FileConfig, error) {
	format, err := FormatFromPath(filename)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.Parse(data, format)
}

// LoadFromFile loads, converts and validates a configuration file.
func (ip *InputParser) LoadFromFile(filename string) (*domain.Assumptions, error) {
	fc, err := ip.LoadFileConfig(filename)
	if err != nil {
		return nil, err
	}
	return ip.Build(fc)
}

// Build converts a decoded configuration and validates the result.
func (ip *InputParser) Build(fc *FileConfig) (*domain.Assumptions, error) {
	a, err := fc.ToAssumptions()
	if err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	if err := ip.ValidateConfiguration(a); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return a, nil
}

// Parse decodes an in-memory configuration body in the given format.
// Malformed JSON is passed through a repair step before giving up.
func (ip *InputParser) Parse(data []byte, format string) (*FileConfig, error) {
	var fc FileConfig
	switch strings.ToLower(format) {
	case FormatYAML, "yml":
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	case FormatTOML:
		if err := toml.Unmarshal(data, &fc); err != nil {
			return nil, fmt.Errorf("failed to parse TOML: %w", err)
		}
	case FormatJSON:
		if err := json.Unmarshal(data, &fc); err != nil {
			repaired, rerr := jsonrepair.RepairJSON(string(data))
			if rerr != nil {
				return nil, fmt.Errorf("failed to parse JSON: %w", err)
			}
			fc = FileConfig{}
			if err2 := json.Unmarshal([]byte(repaired), &fc); err2 != nil {
				return nil, fmt.Errorf("failed to parse JSON: %w", err)
			}
		}
	case FormatHJSON:
		if err := hjson.Unmarshal(data, &fc); err != nil {
			return nil, fmt.Errorf("failed to parse HJSON: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedConfigFormat, format)
	}
	return &fc, nil
}

// Encode renders a configuration in the given format.
func Encode(fc *FileConfig, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case FormatYAML, "yml":
		return yaml.Marshal(fc)
	case FormatTOML:
		return toml.Marshal(fc)
	case FormatJSON:
		return json.MarshalIndent(fc, "", "  ")
	case FormatHJSON:
		return hjson.Marshal(fc)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedConfigFormat, format)
}

// ValidateConfiguration rejects structurally invalid assumptions. Bounds on
// individual values are reported separately by CheckBounds.
func (ip *InputParser) ValidateConfiguration(a *domain.Assumptions) error {
	if a == nil {
		return fmt.Errorf("%w: no assumptions provided", domain.ErrInvalidAssumptions)
	}
	for name := range a.AdvancedToggles {
		if name == domain.NetworkToggleKey {
			continue
		}
		if _, ok := a.Segment(name); !ok {
			return fmt.Errorf("%w: advanced toggle for unknown segment %q", domain.ErrInvalidAssumptions, name)
		}
	}
	return a.Validate()
}

// CreateExampleConfiguration returns the reference assumptions.
func (ip *InputParser) CreateExampleConfiguration() *FileConfig {
	return CreateExampleConfiguration()
}

// CreateExampleConfiguration returns the reference assumptions: three unit
// segments, two revenue segments, the network on the advanced path and four
// P/E scenarios over 2025..2035.
func CreateExampleConfiguration() *FileConfig {
	return &FileConfig{
		StartYear: 2025,
		EndYear:   2035,
		Segments: []SegmentConfig{
			{Name: "Cars", Kind: string(domain.KindUnits), UnitsSoldBase: 1800000, UnitPrice: 45000, UnitGrowthRate: 0.05, GrossMargin: 0.18, OpExpenseRatio: 0.80},
			{Name: "Robotaxi", Kind: string(domain.KindUnits), UnitsSoldBase: 10000, UnitPrice: 30000, UnitGrowthRate: 0.50, GrossMargin: 0.25, OpExpenseRatio: 0.70},
			{Name: "Optimus", Kind: string(domain.KindUnits), UnitsSoldBase: 1000, UnitPrice: 20000, UnitGrowthRate: 1.00, GrossMargin: 0.30, OpExpenseRatio: 0.70},
			{Name: "Energy", Kind: string(domain.KindRevenue), RevenueBaseMillions: 15000, RevenueGrowthRate: 0.20, GrossMargin: 0.30, OpExpenseRatio: 0.20},
			{Name: "Services", Kind: string(domain.KindRevenue), RevenueBaseMillions: 10000, RevenueGrowthRate: 0.10, GrossMargin: 0.15, OpExpenseRatio: 0.30},
		},
		Network: NetworkConfig{
			VehicleCountBase:         8000,
			VehicleGrowthRate:        1.00,
			MilesPerVehicleBase:      50000,
			UtilizationRateBase:      0.50,
			UtilizationGrowthRate:    0.0234,
			UtilizationCap:           0.70,
			RiderRatePerMile:         1.00,
			OwnerCutPerMile:          0.60,
			OperatorCutPerMile:       0.40,
			OperatingCostPerMileBase: 0.42,
			CostReductionRate:        0.05,
		},
		AdvancedToggles: map[string]bool{
			"Cars":                  false,
			"Robotaxi":              false,
			"Optimus":               false,
			"Energy":                false,
			"Services":              false,
			domain.NetworkToggleKey: true,
		},
		NetProfitMargin:    0.08,
		SharesBaseMillions: 3220,
		SharesGrowthRate:   0.01,
		PEScenarios: []ScenarioConfig{
			{Label: "Conservative", PERatio: 100},
			{Label: "Current", PERatio: 191.60},
			{Label: "Optimistic", PERatio: 250},
			{Label: "Bullish", PERatio: 350},
		},
	}
}

// DefaultAssumptions returns the reference assumptions in domain form.
func DefaultAssumptions() *domain.Assumptions {
	a, err := CreateExampleConfiguration().ToAssumptions()
	if err != nil {
		panic(err)
	}
	return a
}
