package casetrend

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResultsWriteCSV(t *testing.T) {
	est := decliningEstimator(t)

	res, err := est.ForecastRange(est.Anchor(), est.Anchor().AddDate(0, 0, 3))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, res.WriteCSV(&buf))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)

	require.Len(t, rows, 4)
	assert.Equal(t, []string{"date", "moving_average", "moving_std", "lower", "upper"}, rows[0])
	assert.Equal(t, est.Anchor().AddDate(0, 0, 1).Format(time.DateOnly), rows[1][0])
}

func TestThresholdResultWriteCSV(t *testing.T) {
	est := decliningEstimator(t)

	res, err := est.DateToThreshold(est.CurrentState().Level / 2)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, res.WriteCSV(&buf))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)

	require.Len(t, rows, 2)
	assert.Equal(t, "moving_average", rows[0][0])
	assert.Equal(t, "date", rows[1][0])
	assert.Equal(t, res.Date.Format(time.DateOnly), rows[1][1])
}
