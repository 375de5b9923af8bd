package casetrend

import (
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/casetrend/casetrend/smooth"
	"github.com/casetrend/casetrend/timeseries"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

var ErrNoSeries = errors.New("estimator was restored from a model and holds no series")

// LineTSeries generates an echart multi-line chart for some arbitrary
// date/value combination. Each y series must have the same length as its
// time slice; NaN values are skipped.
func LineTSeries(title string, seriesName []string, t [][]time.Time, y [][]float64) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(
			opts.Title{
				Title: title,
			},
		),
	)

	var xAxis []time.Time
	for _, ts := range t {
		if len(ts) > len(xAxis) {
			xAxis = ts
		}
	}
	line = line.SetXAxis(xAxis)

	for i, name := range seriesName {
		lineData := make([]opts.LineData, 0, len(y[i]))
		// align each series to the axis by its start date, since the
		// smoothed series are trimmed relative to the raw counts
		offset := 0
		if len(t[i]) > 0 && len(xAxis) > 0 {
			offset = int(t[i][0].Sub(xAxis[0]) / timeseries.Day)
			if offset < 0 {
				offset = 0
			}
		}
		for j := 0; j < offset; j++ {
			lineData = append(lineData, opts.LineData{Value: nil})
		}
		for j := 0; j < len(y[i]); j++ {
			if math.IsNaN(y[i][j]) {
				lineData = append(lineData, opts.LineData{Value: nil})
				continue
			}
			lineData = append(lineData, opts.LineData{Value: y[i][j]})
		}
		line = line.AddSeries(name, lineData)
	}

	return line
}

// LineCaseTrend plots the observed daily counts against their moving average.
func LineCaseTrend(series *timeseries.CaseSeries, avg *smooth.Series) *charts.Line {
	return LineTSeries(
		"Daily Cases",
		[]string{"Observed", "Moving Average"},
		[][]time.Time{series.T, avg.T},
		[][]float64{series.Cases, avg.V},
	)
}

// LineForecast plots a forecast table with its confidence band.
func LineForecast(res *Results) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(
			opts.Title{
				Title: "Forecast",
			},
		),
	)

	forecast := make([]opts.LineData, 0, res.Len())
	upper := make([]opts.LineData, 0, res.Len())
	lower := make([]opts.LineData, 0, res.Len())
	for i := 0; i < res.Len(); i++ {
		forecast = append(forecast, opts.LineData{Value: res.MovingAverage[i]})
		upper = append(upper, opts.LineData{Value: res.Upper[i]})
		lower = append(lower, opts.LineData{Value: res.Lower[i]})
	}

	line.SetXAxis(res.T).
		AddSeries("Forecast", forecast).
		AddSeries("Upper", upper).
		AddSeries("Lower", lower)
	return line
}

// PlotForecast renders the observed trend and a forecast out to end as an
// HTML page at path. This is the plotting collaborator; the numeric series it
// consumes are all available separately.
func (e *Estimator) PlotForecast(path string, end time.Time) error {
	if e.series == nil {
		return ErrNoSeries
	}

	res, err := e.ForecastRange(e.anchor, end)
	if err != nil {
		return fmt.Errorf("unable to forecast to %s, %w", end.Format(time.DateOnly), err)
	}

	page := components.NewPage()
	page.AddCharts(
		LineCaseTrend(e.series, e.avg),
		LineForecast(res),
	)

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return page.Render(file)
}
