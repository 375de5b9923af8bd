package casetrend

import "errors"

// Options is the full configuration surface of the estimator. Zero-valued
// windows are rejected rather than defaulted so a partially filled struct is
// caught at construction instead of producing misaligned series.
type Options struct {
	// RegionalOffset is subtracted from every moving average value to net
	// out a background regional trend before estimating the ratio.
	RegionalOffset float64 `json:"regional_offset"`

	// AverageWindow is the moving average window in days. Must be even so
	// the smoothed series stays centered on the calendar.
	AverageWindow int `json:"average_window"`

	// StdWindow is the rolling window for the residual standard deviation.
	StdWindow int `json:"std_window"`

	// RatioWindow smooths the day-over-day reproduction ratio.
	RatioWindow int `json:"ratio_window"`

	// ConfidenceZ scales the forecast spread into the confidence band.
	// The default 1.645 is the two-sided 90% normal quantile.
	ConfidenceZ float64 `json:"confidence_z"`

	// ThresholdLevel is the target used by DateToThreshold when the
	// caller passes a zero or NaN threshold.
	ThresholdLevel float64 `json:"threshold_level"`

	// MaxHorizonDays caps the threshold search.
	MaxHorizonDays int `json:"max_horizon_days"`
}

func NewDefaultOptions() *Options {
	return &Options{
		RegionalOffset: 0,
		AverageWindow:  14,
		StdWindow:      7,
		RatioWindow:    14,
		ConfidenceZ:    1.645,
		ThresholdLevel: 30,
		MaxHorizonDays: 3650,
	}
}

func (o *Options) valid() error {
	if o.AverageWindow <= 0 || o.AverageWindow%2 != 0 {
		return errors.New("average window must be positive and even")
	}
	if o.StdWindow <= 0 {
		return errors.New("std window must be positive")
	}
	if o.RatioWindow <= 0 {
		return errors.New("ratio window must be positive")
	}
	if o.ConfidenceZ < 0 {
		return errors.New("confidence z must be non-negative")
	}
	if o.MaxHorizonDays <= 0 {
		return errors.New("max horizon must be positive")
	}
	return nil
}
