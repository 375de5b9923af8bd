// Package growth implements the two-parameter exponential projection model.
// The model assumes the current reproduction ratio holds constant over the
// whole forecast horizon; that is an explicit simplifying assumption of this
// estimator, not an approximation to be corrected here.
package growth

import (
	"errors"
	"math"
)

var ErrUndefinedRatio = errors.New("reproduction ratio is undefined")

// State anchors a forecast: the current smoothed case level and the current
// smoothed day-over-day reproduction ratio.
type State struct {
	Level float64 `json:"level"`
	Ratio float64 `json:"ratio"`
}

// Defined reports whether the state can drive a meaningful projection. A
// ratio that is NaN or non-positive arises when a moving average crosses
// zero; projections from such a state are NaN results, not errors.
func (s State) Defined() bool {
	return !math.IsNaN(s.Level) && !math.IsNaN(s.Ratio) && s.Ratio > 0
}

// Projection is the forecast level and spread t days past the anchor.
type Projection struct {
	Level  float64 `json:"level"`
	Spread float64 `json:"spread"`
}

// Project extrapolates the state t days forward, scaling both the level and
// the current standard deviation std by ratio^t. At t=0 the projection is the
// state itself. Undefined states propagate NaN rather than failing, since
// forecasting is best-effort.
func Project(s State, std float64, t int) Projection {
	if !s.Defined() {
		if t == 0 {
			return Projection{Level: s.Level, Spread: std}
		}
		return Projection{Level: math.NaN(), Spread: math.NaN()}
	}
	factor := math.Pow(s.Ratio, float64(t))
	return Projection{
		Level:  s.Level * factor,
		Spread: std * factor,
	}
}
