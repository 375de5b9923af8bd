// Command casetrend forecasts a daily case count series from a CSV export.
//
// Usage:
//
//	casetrend -csv net_cases.csv
//	casetrend -csv net_cases.csv -offset 0.1 -threshold 30
//	casetrend -csv net_cases.csv -until 2020-10-26 -out forecast.csv -plot forecast.html
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/casetrend/casetrend"
	"github.com/casetrend/casetrend/event"
	"github.com/casetrend/casetrend/timeseries"
	"github.com/goccy/go-json"
)

func main() {
	csvPath := flag.String("csv", "", "daily case CSV with Date (M/D) and Cases columns")
	year := flag.Int("year", 2020, "year to append to the CSV's M/D dates")
	offset := flag.Float64("offset", 0, "regional moving average offset to subtract")
	window := flag.Int("window", 14, "moving average window in days (even)")
	stdWindow := flag.Int("std-window", 7, "rolling residual std window in days")
	ratioWindow := flag.Int("ratio-window", 14, "reproduction ratio smoothing window in days")
	z := flag.Float64("z", 1.645, "confidence band z score")
	threshold := flag.Float64("threshold", 30, "target moving average for the crossing search")
	horizon := flag.Int("horizon", 3650, "max days to search for the threshold crossing")
	until := flag.String("until", "", "forecast table end date (YYYY-MM-DD)")
	outPath := flag.String("out", "", "write the forecast table as CSV to this path")
	plotPath := flag.String("plot", "", "render an HTML plot to this path")
	modelPath := flag.String("model-out", "", "write the fitted model as JSON to this path")
	asJSON := flag.Bool("json", false, "print results as JSON instead of text")
	flag.Parse()

	if *csvPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(*csvPath, *year, *until, *outPath, *plotPath, *modelPath, *asJSON, *threshold, &casetrend.Options{
		RegionalOffset: *offset,
		AverageWindow:  *window,
		StdWindow:      *stdWindow,
		RatioWindow:    *ratioWindow,
		ConfidenceZ:    *z,
		ThresholdLevel: *threshold,
		MaxHorizonDays: *horizon,
	}); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(csvPath string, year int, until, outPath, plotPath, modelPath string, asJSON bool, threshold float64, opt *casetrend.Options) error {
	csvOpt := timeseries.DefaultCSVOptions()
	csvOpt.Year = year

	series, err := timeseries.LoadCSV(csvPath, csvOpt)
	if err != nil {
		return fmt.Errorf("unable to load %s, %w", csvPath, err)
	}

	est, err := casetrend.New(series, opt)
	if err != nil {
		return err
	}

	state := est.CurrentState()
	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(est.Model()); err != nil {
			return err
		}
	} else {
		fmt.Printf("Observations: %d (%s to %s)\n",
			series.Len(),
			series.StartDate().Format(time.DateOnly),
			series.EndDate().Format(time.DateOnly))
		fmt.Printf("Moving average: %.2f\n", state.Level)
		fmt.Printf("Reproduction ratio: %.4f\n", state.Ratio)
	}

	if err := reportThreshold(est, threshold, asJSON); err != nil {
		return err
	}

	if until != "" {
		end, err := time.Parse(time.DateOnly, until)
		if err != nil {
			return fmt.Errorf("unable to parse -until date, %w", err)
		}
		if err := reportForecast(est, end, outPath, asJSON); err != nil {
			return err
		}
		if plotPath != "" {
			if err := est.PlotForecast(plotPath, end); err != nil {
				return err
			}
		}
	}

	if modelPath != "" {
		file, err := os.Create(modelPath)
		if err != nil {
			return err
		}
		defer file.Close()
		if err := est.Model().WriteJSON(file); err != nil {
			return err
		}
	}

	return nil
}

func reportThreshold(est *casetrend.Estimator, threshold float64, asJSON bool) error {
	res, err := est.DateToThreshold(threshold)
	if err != nil {
		// an unreachable threshold is a result, not a failure
		fmt.Fprintf(os.Stderr, "threshold search: %v\n", err)
		return nil
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			return err
		}
	} else {
		fmt.Printf("Crosses %.2f on %s (projected average %.2f)\n",
			threshold, res.Date.Format(time.DateOnly), res.MovingAverage)
	}

	// flag holidays around the crossing since reporting dips can move it
	holidays := event.AustralianHolidays(res.Date.AddDate(0, 0, -3), res.Date.AddDate(0, 0, 3), 1, 1)
	for _, hol := range event.Overlapping(holidays, res.Date) {
		fmt.Fprintf(os.Stderr, "note: crossing date falls within %s reporting window\n", hol.Name)
	}
	return nil
}

func reportForecast(est *casetrend.Estimator, end time.Time, outPath string, asJSON bool) error {
	res, err := est.ForecastRange(est.Anchor(), end)
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			return err
		}
	} else {
		for i := 0; i < res.Len(); i++ {
			fmt.Printf("%s  avg %8.2f  std %7.2f  [%8.2f, %8.2f]\n",
				res.T[i].Format(time.DateOnly),
				res.MovingAverage[i], res.MovingStd[i], res.Lower[i], res.Upper[i])
		}
	}

	if outPath != "" {
		file, err := os.Create(outPath)
		if err != nil {
			return err
		}
		defer file.Close()
		return res.WriteCSV(file)
	}
	return nil
}
