package casetrend

import (
	"math"
	"testing"
	"time"

	"github.com/casetrend/casetrend/smooth"
	"github.com/casetrend/casetrend/timeseries"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var startDate = time.Date(2020, 3, 1, 0, 0, 0, 0, time.UTC)

func newEstimator(t *testing.T, cases []float64, opt *Options) *Estimator {
	t.Helper()
	cs, err := timeseries.NewCaseSeries(timeseries.GenerateT(len(cases), startDate), cases)
	require.NoError(t, err)
	est, err := New(cs, opt)
	require.NoError(t, err)
	return est
}

func decliningEstimator(t *testing.T) *Estimator {
	t.Helper()
	return newEstimator(t, timeseries.GenerateExponential(60, 400, 0.95), nil)
}

func TestNew(t *testing.T) {
	t.Run("declining exponential series", func(t *testing.T) {
		est := decliningEstimator(t)

		state := est.CurrentState()
		assert.InDelta(t, 0.95, state.Ratio, 1e-9)
		assert.Greater(t, state.Level, 0.0)
		assert.Equal(t, startDate.AddDate(0, 0, 59), est.Anchor())

		avg := est.MovingAverage()
		require.NotNil(t, avg)
		assert.Equal(t, 60-14, avg.Len())

		std := est.MovingStd()
		require.NotNil(t, std)
		assert.Equal(t, avg.Len()-7, std.Len())
	})

	t.Run("insufficient data", func(t *testing.T) {
		cs, err := timeseries.NewCaseSeries(
			timeseries.GenerateT(15, startDate),
			timeseries.GenerateConst(15, 100),
		)
		require.NoError(t, err)

		_, err = New(cs, nil)
		assert.ErrorIs(t, err, smooth.ErrInsufficientData)
	})

	t.Run("invalid options", func(t *testing.T) {
		cs, err := timeseries.NewCaseSeries(
			timeseries.GenerateT(60, startDate),
			timeseries.GenerateConst(60, 100),
		)
		require.NoError(t, err)

		opt := NewDefaultOptions()
		opt.AverageWindow = 13
		_, err = New(cs, opt)
		assert.Error(t, err)
	})
}

func TestPredict(t *testing.T) {
	est := decliningEstimator(t)
	state := est.CurrentState()

	t.Run("anchor date is identity", func(t *testing.T) {
		p, err := est.Predict(est.Anchor())
		require.NoError(t, err)
		assert.Equal(t, state.Level, p.MovingAverage)
		assert.Equal(t, est.CurrentStd(), p.MovingStd)
	})

	t.Run("projection decays", func(t *testing.T) {
		p, err := est.Predict(est.Anchor().AddDate(0, 0, 10))
		require.NoError(t, err)
		assert.InDelta(t, state.Level*math.Pow(state.Ratio, 10), p.MovingAverage, 1e-9)
	})

	t.Run("confidence band is symmetric", func(t *testing.T) {
		p, err := est.Predict(est.Anchor().AddDate(0, 0, 5))
		require.NoError(t, err)
		assert.InDelta(t, p.Upper-p.MovingAverage, p.MovingAverage-p.Lower, 1e-9)
		assert.InDelta(t, 1.645*p.MovingStd, p.Upper-p.MovingAverage, 1e-9)
	})

	t.Run("date before anchor", func(t *testing.T) {
		_, err := est.Predict(est.Anchor().AddDate(0, 0, -1))
		assert.ErrorIs(t, err, ErrDateOutOfRange)
	})
}

func TestForecastRange(t *testing.T) {
	est := decliningEstimator(t)

	t.Run("one row per day", func(t *testing.T) {
		end := est.Anchor().AddDate(0, 0, 10)
		res, err := est.ForecastRange(est.Anchor(), end)
		require.NoError(t, err)

		require.Equal(t, 10, res.Len())
		assert.Equal(t, est.Anchor().AddDate(0, 0, 1), res.T[0])
		assert.Equal(t, end, res.T[9])
		for i := 1; i < res.Len(); i++ {
			assert.Equal(t, timeseries.Day, res.T[i].Sub(res.T[i-1]), "row %d", i)
		}
	})

	t.Run("rows match single predictions", func(t *testing.T) {
		res, err := est.ForecastRange(est.Anchor(), est.Anchor().AddDate(0, 0, 3))
		require.NoError(t, err)

		for i := 0; i < res.Len(); i++ {
			p, err := est.Predict(res.T[i])
			require.NoError(t, err)
			assert.Equal(t, p.MovingAverage, res.MovingAverage[i])
			assert.Equal(t, p.MovingStd, res.MovingStd[i])
			assert.Equal(t, p.Lower, res.Lower[i])
			assert.Equal(t, p.Upper, res.Upper[i])
		}
	})

	t.Run("empty range", func(t *testing.T) {
		_, err := est.ForecastRange(est.Anchor(), est.Anchor())
		assert.ErrorIs(t, err, ErrEmptyRange)
	})
}

func TestDateToThreshold(t *testing.T) {
	t.Run("declining to lower threshold", func(t *testing.T) {
		est := decliningEstimator(t)
		state := est.CurrentState()
		threshold := state.Level / 2

		res, err := est.DateToThreshold(threshold)
		require.NoError(t, err)

		tGot := int(res.Date.Sub(est.Anchor()) / timeseries.Day)
		tWant := int(math.Ceil(math.Log(threshold/state.Level) / math.Log(state.Ratio)))
		assert.Equal(t, tWant, tGot)

		// first projected day under the threshold
		assert.Less(t, res.MovingAverage, threshold)
		prev := state.Level * math.Pow(state.Ratio, float64(tGot-1))
		assert.GreaterOrEqual(t, prev, threshold)
	})

	t.Run("declining level already below threshold", func(t *testing.T) {
		est := decliningEstimator(t)
		state := est.CurrentState()

		// the target is already crossed, so the first projected day is
		// the answer rather than an unreachable-threshold error
		res, err := est.DateToThreshold(state.Level * 2)
		require.NoError(t, err)
		assert.Equal(t, est.Anchor().AddDate(0, 0, 1), res.Date)
		assert.InDelta(t, state.Level*state.Ratio, res.MovingAverage, 1e-9)
	})

	t.Run("growing level already at threshold", func(t *testing.T) {
		est := newEstimator(t, timeseries.GenerateExponential(60, 50, 1.03), nil)
		state := est.CurrentState()

		res, err := est.DateToThreshold(state.Level)
		require.NoError(t, err)
		assert.Equal(t, est.Anchor().AddDate(0, 0, 1), res.Date)
		assert.Greater(t, res.MovingAverage, state.Level)
	})

	t.Run("zero and NaN fall back to configured threshold", func(t *testing.T) {
		opt := NewDefaultOptions()
		opt.ThresholdLevel = 20
		est := newEstimator(t, timeseries.GenerateExponential(60, 400, 0.95), opt)
		require.Greater(t, est.CurrentState().Level, 20.0)

		want, err := est.DateToThreshold(20)
		require.NoError(t, err)

		got, err := est.DateToThreshold(0)
		require.NoError(t, err)
		assert.Equal(t, want, got)

		got, err = est.DateToThreshold(math.NaN())
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("growing to higher threshold", func(t *testing.T) {
		est := newEstimator(t, timeseries.GenerateExponential(60, 50, 1.03), nil)
		state := est.CurrentState()
		require.Greater(t, state.Ratio, 1.0)

		res, err := est.DateToThreshold(state.Level * 2)
		require.NoError(t, err)
		assert.Greater(t, res.MovingAverage, state.Level*2)
	})

	t.Run("growing series never reaches lower threshold", func(t *testing.T) {
		est := newEstimator(t, timeseries.GenerateExponential(60, 50, 1.03), nil)

		_, err := est.DateToThreshold(est.CurrentState().Level / 2)
		assert.ErrorIs(t, err, ErrThresholdNotReached)
	})

	t.Run("flat series never crosses", func(t *testing.T) {
		est := newEstimator(t, timeseries.GenerateConst(60, 100), nil)
		require.InDelta(t, 1.0, est.CurrentState().Ratio, 1e-12)

		_, err := est.DateToThreshold(30)
		assert.ErrorIs(t, err, ErrThresholdNotReached)
	})

	t.Run("horizon cap", func(t *testing.T) {
		opt := NewDefaultOptions()
		opt.MaxHorizonDays = 5
		est := newEstimator(t, timeseries.GenerateExponential(60, 400, 0.95), opt)

		// needs roughly 14 days at ratio 0.95, more than the cap allows
		_, err := est.DateToThreshold(est.CurrentState().Level / 2)
		assert.ErrorIs(t, err, ErrThresholdNotReached)
	})
}

func TestUndefinedRatio(t *testing.T) {
	est := newEstimator(t, timeseries.GenerateConst(60, 0), nil)
	require.False(t, est.CurrentState().Defined())

	p, err := est.Predict(est.Anchor().AddDate(0, 0, 5))
	require.NoError(t, err)
	assert.True(t, math.IsNaN(p.MovingAverage))
	assert.True(t, math.IsNaN(p.MovingStd))

	_, err = est.DateToThreshold(30)
	assert.ErrorIs(t, err, ErrUndefinedRatio)
}
