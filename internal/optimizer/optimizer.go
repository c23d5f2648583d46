package optimizer

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"ZoneDCA/internal/backtest"
	"ZoneDCA/internal/calculator"
	"ZoneDCA/internal/model"
)

// ErrNoResult is returned when every degree in the sweep failed.
var ErrNoResult = errors.New("no degree produced a result")

// Options bounds the degree sweep. Zero values take the defaults below.
type Options struct {
	MinDegree int
	MaxDegree int
	Step      int
	Bands     int
	Method    calculator.Method
	Workers   int
}

func (o Options) withDefaults() Options {
	if o.MinDegree <= 0 {
		o.MinDegree = 1
	}
	if o.MaxDegree <= 0 {
		o.MaxDegree = 20
	}
	if o.Step <= 0 {
		o.Step = 2
	}
	if o.Workers <= 0 {
		o.Workers = runtime.NumCPU()
	}
	return o
}

// Degrees lists the degrees the sweep will evaluate.
func (o Options) Degrees() []int {
	o = o.withDefaults()
	var out []int
	for d := o.MinDegree; d <= o.MaxDegree; d += o.Step {
		out = append(out, d)
	}
	return out
}

// DegreeResult is the outcome of one simulated degree.
type DegreeResult struct {
	Degree       int     `json:"degree"`
	UsedDegree   int     `json:"used_degree"`
	ROIPct       float64 `json:"roi_pct"`
	TotalReturn  float64 `json:"total_return"`
	CashInvested float64 `json:"cash_invested"`
	DailyBuys    int     `json:"daily_buys"`
	ZoneBuys     int     `json:"zone_buys"`
	Sells        int     `json:"sells"`
}

// Skipped records a degree whose curve or run failed.
type Skipped struct {
	Degree int    `json:"degree"`
	Reason string `json:"reason"`
}

// Report is the outcome of a sweep, sorted by degree.
type Report struct {
	Symbol     string         `json:"symbol"`
	BestDegree int            `json:"best_degree"`
	BestROIPct float64        `json:"best_roi_pct"`
	Results    []DegreeResult `json:"results"`
	Skipped    []Skipped      `json:"skipped,omitempty"`
}

type outcome struct {
	result *DegreeResult
	err    error
}

// Optimize fits a curve per degree over the full history, simulates the last
// params.Years of it and reports the degree with the best ROI.
// Runs are independent and execute concurrently; ctx is checked before each run.
func Optimize(ctx context.Context, days []model.MarketDay, asset model.AssetProfile, params backtest.Params, opts Options) (*Report, error) {
	opts = opts.withDefaults()
	degrees := opts.Degrees()
	if len(degrees) == 0 {
		return nil, fmt.Errorf("empty degree range %d..%d", opts.MinDegree, opts.MaxDegree)
	}

	outcomes := make([]outcome, len(degrees))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for i, degree := range degrees {
		i, degree := i, degree
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r, err := evaluate(days, asset, params, degree, opts)
			outcomes[i] = outcome{result: r, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report := &Report{Symbol: asset.Symbol}
	for i, o := range outcomes {
		if o.err != nil {
			report.Skipped = append(report.Skipped, Skipped{Degree: degrees[i], Reason: o.err.Error()})
			continue
		}
		if len(report.Results) == 0 || o.result.ROIPct > report.BestROIPct {
			report.BestDegree = o.result.Degree
			report.BestROIPct = o.result.ROIPct
		}
		report.Results = append(report.Results, *o.result)
	}
	if len(report.Results) == 0 {
		return report, ErrNoResult
	}
	return report, nil
}

func evaluate(days []model.MarketDay, asset model.AssetProfile, params backtest.Params, degree int, opts Options) (*DegreeResult, error) {
	curve, err := calculator.BuildCurve(days, degree, opts.Bands, opts.Method)
	if err != nil {
		return nil, err
	}
	simDays, simCurve := backtest.Horizon(days, curve, params.Years)
	res, err := backtest.Run(backtest.Input{
		Symbol: asset.Symbol,
		Days:   simDays,
		Curve:  simCurve,
		Asset:  asset,
		Params: params,
	})
	if err != nil {
		return nil, err
	}
	m := res.Metrics
	return &DegreeResult{
		Degree:       degree,
		UsedDegree:   curve.Degree,
		ROIPct:       m.ROIPct,
		TotalReturn:  m.TotalReturn,
		CashInvested: m.CashInvested,
		DailyBuys:    m.DailyBuyCount,
		ZoneBuys:     m.ZoneBuyCount,
		Sells:        m.SellCount,
	}, nil
}
