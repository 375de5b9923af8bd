// Package smooth computes the rolling trend statistics the growth model is
// anchored on: centered moving averages, rolling residual standard
// deviations, and the reproduction ratio series derived from consecutive
// smoothed levels.
//
// The trim arithmetic is deliberate and load-bearing. Downstream callers
// anchor on the most recent element of each output, so every function
// documents exactly how many elements are dropped from the head and tail of
// its input.
package smooth

import (
	"errors"
	"math"
	"time"

	"github.com/casetrend/casetrend/timeseries"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

var (
	ErrInsufficientData = errors.New("series is shorter than the smoothing window")
	ErrOddWindow        = errors.New("moving average window must be a positive even length")
	ErrBadWindow        = errors.New("window must be a positive length")
)

// Series is a date-indexed smoothed value series. Unlike raw case counts,
// values may be fractional, negative (after a regional offset), or NaN where
// a ratio was undefined.
type Series struct {
	T []time.Time
	V []float64
}

func (s *Series) Len() int {
	return len(s.V)
}

// Last returns the most recent date and value, the pair the growth model
// treats as the current state.
func (s *Series) Last() (time.Time, float64) {
	if len(s.V) == 0 {
		return time.Time{}, math.NaN()
	}
	return s.T[len(s.T)-1], s.V[len(s.V)-1]
}

func (s *Series) Copy() *Series {
	t := make([]time.Time, len(s.T))
	v := make([]float64, len(s.V))
	copy(t, s.T)
	copy(v, s.V)
	return &Series{T: t, V: v}
}

// MovingAverage computes the rolling mean of the daily counts over windows of
// the given length, less offset. The window must be even so the output can be
// indexed by the center of each window: for an input of length L the output
// has length L-window and is dated input.T[window/2 : L-window/2].
func MovingAverage(cs *timeseries.CaseSeries, window int, offset float64) (*Series, error) {
	if window <= 0 || window%2 != 0 {
		return nil, ErrOddWindow
	}
	n := cs.Len()
	if n <= window {
		return nil, ErrInsufficientData
	}

	half := window / 2
	out := make([]float64, 0, n-window)
	for i := 0; i < n-window; i++ {
		out = append(out, stat.Mean(cs.Cases[i:i+window], nil)-offset)
	}

	t := make([]time.Time, n-window)
	copy(t, cs.T[half:n-half])
	return &Series{T: t, V: out}, nil
}

// MovingStd computes the rolling population standard deviation of the
// residual between the counts and their moving average. The residual is taken
// over the moving average's date range (the input trimmed by maWindow/2 on
// each side); the output is aligned to the moving average's dates from the
// start and is stdWindow shorter.
func MovingStd(cs *timeseries.CaseSeries, maWindow, stdWindow int, offset float64) (*Series, error) {
	if stdWindow <= 0 {
		return nil, ErrBadWindow
	}

	ma, err := MovingAverage(cs, maWindow, offset)
	if err != nil {
		return nil, err
	}
	m := ma.Len()
	if m <= stdWindow {
		return nil, ErrInsufficientData
	}

	half := maWindow / 2
	residual := make([]float64, m)
	floats.SubTo(residual, cs.Cases[half:half+m], ma.V)

	out := make([]float64, 0, m-stdWindow)
	for i := 0; i < m-stdWindow; i++ {
		out = append(out, stat.PopStdDev(residual[i:i+stdWindow], nil))
	}

	t := make([]time.Time, m-stdWindow)
	copy(t, ma.T[:m-stdWindow])
	return &Series{T: t, V: out}, nil
}

// ReproductionRatio derives the day-over-day growth factor of a smoothed
// series: each value divided by its predecessor, indexed from the second date
// onward, so the output is one shorter than the input. A value above 1 means
// the smoothed level is growing. Where the predecessor is zero the ratio is
// undefined and reported as NaN.
func ReproductionRatio(s *Series) *Series {
	n := s.Len()
	if n < 2 {
		return &Series{}
	}

	out := make([]float64, 0, n-1)
	for i := 0; i < n-1; i++ {
		if s.V[i] == 0 {
			out = append(out, math.NaN())
			continue
		}
		out = append(out, s.V[i+1]/s.V[i])
	}

	t := make([]time.Time, n-1)
	copy(t, s.T[1:])
	return &Series{T: t, V: out}
}

// SmoothedReproductionRatio computes the rolling mean of a reproduction ratio
// series, aligned to the ratio's dates from the start and trimmed by window,
// so the output has length len(ratio)-window. NaN ratios poison the windows
// containing them, which keeps undefined stretches visible to the caller.
func SmoothedReproductionRatio(ratio *Series, window int) (*Series, error) {
	if window <= 0 {
		return nil, ErrBadWindow
	}
	n := ratio.Len()
	if n <= window {
		return nil, ErrInsufficientData
	}

	out := make([]float64, 0, n-window)
	for i := 0; i < n-window; i++ {
		out = append(out, stat.Mean(ratio.V[i:i+window], nil))
	}

	t := make([]time.Time, n-window)
	copy(t, ratio.T[:n-window])
	return &Series{T: t, V: out}, nil
}
