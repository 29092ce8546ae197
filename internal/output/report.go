package output

import (
	"fmt"
	"os"
	"strings"

	"github.com/rpgo/valuation-simulator/internal/config"
	"github.com/rpgo/valuation-simulator/internal/domain"
)

// Render formats report with the named formatter (aliases accepted).
func Render(report *domain.ValuationReport, format string) ([]byte, error) {
	f := GetFormatterByName(format)
	if f == nil {
		return nil, unsupported(format)
	}
	return f.Format(report)
}

// GenerateReport writes report to a timestamped file in dir. The format "all"
// writes the verbose console report, the detailed CSV and the JSON export.
func GenerateReport(report *domain.ValuationReport, format, dir string) ([]string, error) {
	if f := GetFormatterByName(format); f != nil {
		name, err := WriteFormatted(f, report, dir)
		if err != nil {
			return nil, err
		}
		return []string{name}, nil
	}
	if NormalizeFormatName(format) != "all" {
		return nil, unsupported(format)
	}
	var written []string
	for _, f := range []Formatter{ConsoleVerboseFormatter{}, CSVDetailedExporter{}, JSONFormatter{}} {
		name, err := WriteFormatted(f, report, dir)
		if err != nil {
			return written, err
		}
		written = append(written, name)
	}
	return written, nil
}

func unsupported(format string) error {
	return fmt.Errorf("%w: %q. Try one of: %s (aliases: %s)", ErrUnsupportedFormat, format, strings.Join(AvailableFormatterNames(), ", "), strings.Join(AvailableFormatAliases(), ", "))
}

// SaveConfiguration writes fc to filename in the format implied by its extension.
func SaveConfiguration(fc *config.FileConfig, filename string) error {
	format, err := config.FormatFromPath(filename)
	if err != nil {
		return err
	}
	b, err := config.Encode(fc, format)
	if err != nil {
		return err
	}
	return os.WriteFile(filename, b, 0644)
}
