package calculation

import (
	"context"
	"fmt"

	"github.com/rpgo/valuation-simulator/internal/domain"
	"golang.org/x/sync/errgroup"
)

// ValuationEngine orchestrates the per-year valuation projection.
type ValuationEngine struct {
	// Workers > 1 projects years concurrently. Results are identical to the
	// sequential path.
	Workers int
	Logger  Logger
}

// NewValuationEngine creates a sequential engine with a no-op logger.
func NewValuationEngine() *ValuationEngine {
	return &ValuationEngine{Workers: 1, Logger: NopLogger{}}
}

// SetLogger sets the logger for the engine. If nil is provided, a no-op logger is used.
func (ve *ValuationEngine) SetLogger(l Logger) {
	if l == nil {
		ve.Logger = NopLogger{}
		return
	}
	ve.Logger = l
}

func (ve *ValuationEngine) logger() Logger {
	if ve.Logger == nil {
		return NopLogger{}
	}
	return ve.Logger
}

// Run validates a and projects every year in a.Years, returning results in
// the same order. A configuration error rejects the run before any year is
// computed; an arithmetic error in any year aborts it.
func (ve *ValuationEngine) Run(ctx context.Context, a *domain.Assumptions) ([]domain.YearlyResult, error) {
	if a == nil {
		return nil, fmt.Errorf("%w: assumptions are required", domain.ErrInvalidAssumptions)
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}

	log := ve.logger()
	log.Debugf("valuation run: %d segments, %d years (%d..%d), %d scenarios",
		len(a.Segments), len(a.Years), a.Years[0], a.Years[len(a.Years)-1], len(a.PEScenarios))

	var (
		results []domain.YearlyResult
		err     error
	)
	if ve.Workers > 1 && len(a.Years) > 1 {
		results, err = ve.runParallel(ctx, a)
	} else {
		results, err = ve.runSequential(ctx, a)
	}
	if err != nil {
		log.Errorf("valuation run failed: %v", err)
		return nil, err
	}

	ve.warnOnCostCurve(results)
	return results, nil
}

func (ve *ValuationEngine) runSequential(ctx context.Context, a *domain.Assumptions) ([]domain.YearlyResult, error) {
	results := make([]domain.YearlyResult, 0, len(a.Years))
	for _, year := range a.Years {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		r, err := ProjectYear(a, year)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, nil
}

func (ve *ValuationEngine) runParallel(ctx context.Context, a *domain.Assumptions) ([]domain.YearlyResult, error) {
	results := make([]domain.YearlyResult, len(a.Years))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(ve.Workers)
	for i, year := range a.Years {
		i, year := i, year
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r, err := ProjectYear(a, year)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// warnOnCostCurve reports years in which the operating cost per mile has
// decayed to zero or below. The projection itself is left untouched.
func (ve *ValuationEngine) warnOnCostCurve(results []domain.YearlyResult) {
	for _, r := range results {
		if !r.Network.OperatingCostPerMile.IsPositive() {
			ve.logger().Warnf("year %d: operating cost per mile is %s (cost reduction rate has no floor)",
				r.Year, r.Network.OperatingCostPerMile.String())
		}
	}
}

// ProjectYear computes one year from the common base. It does not consult
// any other year's result.
func ProjectYear(a *domain.Assumptions, year int) (domain.YearlyResult, error) {
	baseYear := a.BaseYear()
	overrideYear, hasOverrideYear := a.OverrideYear()
	applyOverrides := hasOverrideYear && year == overrideYear

	res := domain.YearlyResult{
		Year:     year,
		Elapsed:  year - baseYear,
		Segments: make([]domain.SegmentRow, 0, len(a.Segments)),
	}

	for _, seg := range a.Segments {
		in := SegmentInput{
			Segment:  seg,
			Year:     year,
			BaseYear: baseYear,
			Advanced: a.Advanced(seg.Name),
		}
		if applyOverrides {
			if v, ok := a.Overrides.Value(seg.Name); ok {
				in.Override = &v
				res.OverrideApplied = true
			}
		}
		res.Segments = append(res.Segments, ProjectSegment(in))
	}

	res.Network = ProjectNetwork(a.Network, year, baseYear, a.Advanced(domain.NetworkToggleKey))

	c, err := Consolidate(a, year, res.Segments, res.Network)
	if err != nil {
		return domain.YearlyResult{}, err
	}
	res.RevenueBreakdown = c.RevenueBreakdown
	res.TotalRevenue = c.TotalRevenue
	res.NetIncome = c.NetIncome
	res.SharesOutstanding = c.SharesOutstanding
	res.Valuations = c.Valuations
	return res, nil
}

// BuildReport runs the projection and bundles it for presenters.
func (ve *ValuationEngine) BuildReport(ctx context.Context, a *domain.Assumptions, showYears []int) (*domain.ValuationReport, error) {
	results, err := ve.Run(ctx, a)
	if err != nil {
		return nil, err
	}
	report := &domain.ValuationReport{
		RunID:       runIDFunc(),
		GeneratedAt: nowFunc(),
		Assumptions: a,
		Results:     results,
		ShowYears:   showYears,
	}
	ve.logger().Infof("valuation report %s: %d years projected", report.RunID, len(results))
	return report, nil
}
