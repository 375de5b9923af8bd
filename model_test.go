package casetrend

import (
	"bytes"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModelRoundTrip(t *testing.T) {
	est := decliningEstimator(t)

	var buf bytes.Buffer
	require.NoError(t, est.Model().WriteJSON(&buf))

	m, err := ReadModelJSON(&buf)
	require.NoError(t, err)

	restored, err := NewFromModel(m)
	require.NoError(t, err)

	assert.Equal(t, est.CurrentState(), restored.CurrentState())
	assert.Equal(t, est.Anchor(), restored.Anchor())

	date := est.Anchor().AddDate(0, 0, 7)
	want, err := est.Predict(date)
	require.NoError(t, err)
	got, err := restored.Predict(date)
	require.NoError(t, err)
	assert.InDelta(t, want.MovingAverage, got.MovingAverage, 1e-9)
	assert.InDelta(t, want.Upper, got.Upper, 1e-9)
}

func TestModelJSONShape(t *testing.T) {
	est := decliningEstimator(t)

	raw, err := json.Marshal(est.Model())
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	for _, key := range []string{"options", "state", "current_std", "first_date", "anchor"} {
		assert.Contains(t, decoded, key)
	}
}

func TestNewFromModel(t *testing.T) {
	t.Run("missing options", func(t *testing.T) {
		_, err := NewFromModel(Model{})
		assert.ErrorIs(t, err, ErrNoModelOptions)
	})

	t.Run("invalid options", func(t *testing.T) {
		opt := NewDefaultOptions()
		opt.AverageWindow = 13
		_, err := NewFromModel(Model{Options: opt})
		assert.Error(t, err)
	})

	t.Run("restored estimator holds no series", func(t *testing.T) {
		est := decliningEstimator(t)
		restored, err := NewFromModel(est.Model())
		require.NoError(t, err)

		assert.Nil(t, restored.Series())
		assert.Nil(t, restored.MovingAverage())
		assert.Nil(t, restored.MovingStd())
		assert.Nil(t, restored.ReproductionRatio())
		assert.ErrorIs(t, restored.PlotForecast("unused.html", est.Anchor().AddDate(0, 0, 5)), ErrNoSeries)
	})
}
