package timeseries

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

var (
	ErrMissingColumn = errors.New("missing required column")
	ErrBadDate       = errors.New("unparseable date")
)

// CSVOptions controls how a daily case file is read. The expected layout is
// the one the public health feed publishes: a Date column in M/D form with
// the year omitted, and an integer Cases column.
type CSVOptions struct {
	DateColumn string // default "Date"
	CaseColumn string // default "Cases"
	Year       int    // year appended to every M/D date, default 2020
}

func DefaultCSVOptions() *CSVOptions {
	return &CSVOptions{
		DateColumn: "Date",
		CaseColumn: "Cases",
		Year:       2020,
	}
}

// LoadCSV reads a daily case file from disk.
func LoadCSV(filename string, opt *CSVOptions) (*CaseSeries, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return ReadCSV(file, opt)
}

// ReadCSV reads a daily case table from r and returns a validated CaseSeries.
// Counts must be non-negative integers; the gap/order invariant is enforced
// by the CaseSeries constructor.
func ReadCSV(r io.Reader, opt *CSVOptions) (*CaseSeries, error) {
	if opt == nil {
		opt = DefaultCSVOptions()
	}

	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, err
	}

	dateIdx, caseIdx := -1, -1
	for i, h := range header {
		switch strings.TrimSpace(h) {
		case opt.DateColumn:
			dateIdx = i
		case opt.CaseColumn:
			caseIdx = i
		}
	}
	if dateIdx == -1 {
		return nil, fmt.Errorf("%q, %w", opt.DateColumn, ErrMissingColumn)
	}
	if caseIdx == -1 {
		return nil, fmt.Errorf("%q, %w", opt.CaseColumn, ErrMissingColumn)
	}

	var t []time.Time
	var cases []float64
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		date, err := parseMonthDay(record[dateIdx], opt.Year)
		if err != nil {
			return nil, err
		}

		count, err := strconv.Atoi(strings.TrimSpace(record[caseIdx]))
		if err != nil {
			return nil, fmt.Errorf("row %s: %w", record[dateIdx], err)
		}
		if count < 0 {
			return nil, fmt.Errorf("row %s: %d, %w", record[dateIdx], count, ErrNegativeCount)
		}

		t = append(t, date)
		cases = append(cases, float64(count))
	}

	return NewCaseSeries(t, cases)
}

// parseMonthDay parses the feed's "M/D" dates, injecting the year the caller
// configured since the feed omits it.
func parseMonthDay(s string, year int) (time.Time, error) {
	parts := strings.Split(strings.TrimSpace(s), "/")
	if len(parts) != 2 {
		return time.Time{}, fmt.Errorf("%q, %w", s, ErrBadDate)
	}
	month, err := strconv.Atoi(parts[0])
	if err != nil {
		return time.Time{}, fmt.Errorf("%q, %w", s, ErrBadDate)
	}
	day, err := strconv.Atoi(parts[1])
	if err != nil {
		return time.Time{}, fmt.Errorf("%q, %w", s, ErrBadDate)
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, fmt.Errorf("%q, %w", s, ErrBadDate)
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), nil
}
