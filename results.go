package casetrend

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"
)

// ForecastPoint is a single projected day: the forecast moving average, its
// spread, and the confidence band around it.
type ForecastPoint struct {
	Date          time.Time `json:"date"`
	MovingAverage float64   `json:"moving_average"`
	MovingStd     float64   `json:"moving_std"`
	Lower         float64   `json:"lower"`
	Upper         float64   `json:"upper"`
}

// Results is a date-ordered forecast table, one row per projected day.
type Results struct {
	T             []time.Time `json:"time"`
	MovingAverage []float64   `json:"moving_average"`
	MovingStd     []float64   `json:"moving_std"`
	Lower         []float64   `json:"lower"`
	Upper         []float64   `json:"upper"`
}

func (r *Results) Len() int {
	return len(r.T)
}

func (r *Results) append(p ForecastPoint) {
	r.T = append(r.T, p.Date)
	r.MovingAverage = append(r.MovingAverage, p.MovingAverage)
	r.MovingStd = append(r.MovingStd, p.MovingStd)
	r.Lower = append(r.Lower, p.Lower)
	r.Upper = append(r.Upper, p.Upper)
}

// WriteCSV serializes the forecast table as a date-indexed CSV for the
// persistence collaborator.
func (r *Results) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"date", "moving_average", "moving_std", "lower", "upper"}); err != nil {
		return err
	}
	for i := range r.T {
		row := []string{
			r.T[i].Format(time.DateOnly),
			formatFloat(r.MovingAverage[i]),
			formatFloat(r.MovingStd[i]),
			formatFloat(r.Lower[i]),
			formatFloat(r.Upper[i]),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ThresholdResult is the projected crossing of a target moving average level.
type ThresholdResult struct {
	Date          time.Time `json:"date"`
	MovingAverage float64   `json:"moving_average"`
}

// WriteCSV serializes the threshold result as a two-row key/value table.
func (tr *ThresholdResult) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	rows := [][]string{
		{"moving_average", formatFloat(tr.MovingAverage)},
		{"date", tr.Date.Format(time.DateOnly)},
	}
	for _, row := range rows {
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
