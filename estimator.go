// Package casetrend estimates the trajectory of a daily infectious-disease
// case count series. It smooths the raw counts, derives a reproduction-ratio
// proxy from consecutive smoothed levels, and projects the current state
// forward with a fixed exponential model, either across a date range or until
// a target level is crossed.
package casetrend

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/casetrend/casetrend/growth"
	"github.com/casetrend/casetrend/smooth"
	"github.com/casetrend/casetrend/timeseries"
)

var (
	ErrDateOutOfRange      = errors.New("date is before the last observation")
	ErrEmptyRange          = errors.New("forecast range ends before it starts")
	ErrThresholdNotReached = errors.New("threshold not reached within horizon")
	ErrUndefinedRatio      = growth.ErrUndefinedRatio
	ErrNoModelOptions      = errors.New("no options set in model")
)

// Estimator holds an immutable case series together with the smoothed state
// derived from it. The smoothed series are computed once at construction and
// every forecast is anchored on their most recent values; all methods are
// read-only and safe to call concurrently.
type Estimator struct {
	opt    *Options
	series *timeseries.CaseSeries

	avg   *smooth.Series
	std   *smooth.Series
	ratio *smooth.Series

	// anchor is the date of the last raw observation. Projections count
	// days forward from here.
	anchor     time.Time
	state      growth.State
	currentStd float64
}

// New computes the smoothed state for the given series. It fails with
// smooth.ErrInsufficientData when the series cannot fill the configured
// windows; an undefined ratio (moving average through zero) is not an error
// here and surfaces as NaN forecasts instead.
func New(series *timeseries.CaseSeries, opt *Options) (*Estimator, error) {
	if opt == nil {
		opt = NewDefaultOptions()
	}
	if err := opt.valid(); err != nil {
		return nil, err
	}

	avg, err := smooth.MovingAverage(series, opt.AverageWindow, opt.RegionalOffset)
	if err != nil {
		return nil, fmt.Errorf("unable to compute moving average, %w", err)
	}
	std, err := smooth.MovingStd(series, opt.AverageWindow, opt.StdWindow, opt.RegionalOffset)
	if err != nil {
		return nil, fmt.Errorf("unable to compute moving std, %w", err)
	}
	ratio, err := smooth.SmoothedReproductionRatio(smooth.ReproductionRatio(avg), opt.RatioWindow)
	if err != nil {
		return nil, fmt.Errorf("unable to compute reproduction ratio, %w", err)
	}

	_, level := avg.Last()
	_, rrp := ratio.Last()
	_, currentStd := std.Last()

	return &Estimator{
		opt:        opt,
		series:     series.Copy(),
		avg:        avg,
		std:        std,
		ratio:      ratio,
		anchor:     series.EndDate(),
		state:      growth.State{Level: level, Ratio: rrp},
		currentStd: currentStd,
	}, nil
}

// CurrentState returns the level and ratio anchoring all forecasts.
func (e *Estimator) CurrentState() growth.State {
	return e.state
}

// CurrentStd returns the most recent rolling residual standard deviation.
func (e *Estimator) CurrentStd() float64 {
	return e.currentStd
}

// Anchor returns the date projections count forward from, the date of the
// most recent observation.
func (e *Estimator) Anchor() time.Time {
	return e.anchor
}

// MovingAverage returns the smoothed case level series for the plotting
// collaborator, or nil when restored from a model.
func (e *Estimator) MovingAverage() *smooth.Series {
	if e.avg == nil {
		return nil
	}
	return e.avg.Copy()
}

// MovingStd returns the rolling residual standard deviation series, or nil
// when restored from a model.
func (e *Estimator) MovingStd() *smooth.Series {
	if e.std == nil {
		return nil
	}
	return e.std.Copy()
}

// ReproductionRatio returns the smoothed reproduction ratio series, or nil
// when restored from a model.
func (e *Estimator) ReproductionRatio() *smooth.Series {
	if e.ratio == nil {
		return nil
	}
	return e.ratio.Copy()
}

// Series returns a copy of the observed case series, or nil when restored
// from a model.
func (e *Estimator) Series() *timeseries.CaseSeries {
	if e.series == nil {
		return nil
	}
	return e.series.Copy()
}

// Predict projects the smoothed state onto a single future date. The date
// must not precede the anchor. An undefined ratio yields NaN values in the
// returned point rather than an error, since forecasting is best-effort.
func (e *Estimator) Predict(date time.Time) (ForecastPoint, error) {
	t := int(date.Sub(e.anchor) / timeseries.Day)
	if t < 0 {
		return ForecastPoint{}, fmt.Errorf("%s precedes anchor %s, %w",
			date.Format(time.DateOnly), e.anchor.Format(time.DateOnly), ErrDateOutOfRange)
	}
	return e.predictAt(t), nil
}

func (e *Estimator) predictAt(t int) ForecastPoint {
	p := growth.Project(e.state, e.currentStd, t)
	band := e.opt.ConfidenceZ * p.Spread
	return ForecastPoint{
		Date:          e.anchor.AddDate(0, 0, t),
		MovingAverage: p.Level,
		MovingStd:     p.Spread,
		Lower:         p.Level - band,
		Upper:         p.Level + band,
	}
}

// ForecastRange produces one forecast row per calendar day in
// (start, end], so the first projected day is the day after start. The range
// must contain at least one day and must not precede the anchor.
func (e *Estimator) ForecastRange(start, end time.Time) (*Results, error) {
	first := start.AddDate(0, 0, 1)
	if end.Before(first) {
		return nil, fmt.Errorf("%s to %s, %w",
			start.Format(time.DateOnly), end.Format(time.DateOnly), ErrEmptyRange)
	}

	res := &Results{}
	for d := first; !d.After(end); d = d.AddDate(0, 0, 1) {
		p, err := e.Predict(d)
		if err != nil {
			return nil, err
		}
		res.append(p)
	}
	return res, nil
}

// DateToThreshold searches forward one day at a time for the first date on
// which the projected moving average crosses threshold. A zero or NaN
// threshold falls back to the configured ThresholdLevel. A declining state
// (ratio < 1) is searched down toward the threshold, answering on the first
// projected day when the level is already at or below it; a growing state
// (ratio > 1) up toward a threshold at or above the current level. A growing
// or flat state asked for a decline can never cross, and the search reports
// ErrThresholdNotReached rather than iterating; reachable searches are still
// capped at MaxHorizonDays.
func (e *Estimator) DateToThreshold(threshold float64) (*ThresholdResult, error) {
	if !e.state.Defined() {
		return nil, fmt.Errorf("cannot search on undefined state, %w", ErrUndefinedRatio)
	}
	if threshold == 0 || math.IsNaN(threshold) {
		threshold = e.opt.ThresholdLevel
	}

	var crossed func(level float64) bool
	switch {
	case e.state.Ratio < 1:
		crossed = func(level float64) bool { return level < threshold }
	case e.state.Ratio > 1 && threshold >= e.state.Level:
		crossed = func(level float64) bool { return level > threshold }
	default:
		return nil, fmt.Errorf("level %.2f cannot reach %.2f at ratio %.4f, %w",
			e.state.Level, threshold, e.state.Ratio, ErrThresholdNotReached)
	}

	for t := 1; t <= e.opt.MaxHorizonDays; t++ {
		p := growth.Project(e.state, e.currentStd, t)
		if crossed(p.Level) {
			return &ThresholdResult{
				Date:          e.anchor.AddDate(0, 0, t),
				MovingAverage: p.Level,
			}, nil
		}
	}
	return nil, fmt.Errorf("no crossing of %.2f within %d days, %w",
		threshold, e.opt.MaxHorizonDays, ErrThresholdNotReached)
}
