// Package timeseries provides the daily case count series consumed by the
// rest of the library along with the CSV collaborator that produces it.
package timeseries

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrNoObservations = errors.New("no observations")
	ErrLenMismatch    = errors.New("dates have a different length than counts")
	ErrNotDaily       = errors.New("dates are not strictly increasing by one day")
	ErrNegativeCount  = errors.New("negative case count")
)

// Day is the fixed spacing between consecutive observations.
const Day = 24 * time.Hour

// CaseSeries is an ordered daily case count series. Dates are strictly
// increasing with no gaps, one observation per calendar day. Instances are
// read-only to the packages consuming them.
type CaseSeries struct {
	T     []time.Time
	Cases []float64
}

// NewCaseSeries returns a CaseSeries after validating the date index. The
// input slices are copied so the caller retains ownership of its buffers.
func NewCaseSeries(t []time.Time, cases []float64) (*CaseSeries, error) {
	if len(cases) == 0 {
		return nil, ErrNoObservations
	}
	if len(t) != len(cases) {
		return nil, fmt.Errorf(
			"dates have length of %d, but counts has a length of %d, %w",
			len(t), len(cases), ErrLenMismatch,
		)
	}

	for i := 1; i < len(t); i++ {
		if t[i].Sub(t[i-1]) != Day {
			return nil, fmt.Errorf("gap or disorder at %d, %w", i, ErrNotDaily)
		}
	}

	tSeries := make([]time.Time, len(t))
	cSeries := make([]float64, len(t))
	copy(tSeries, t)
	copy(cSeries, cases)
	return &CaseSeries{T: tSeries, Cases: cSeries}, nil
}

func (cs *CaseSeries) Copy() *CaseSeries {
	tSeries := make([]time.Time, len(cs.T))
	cSeries := make([]float64, len(cs.Cases))
	copy(tSeries, cs.T)
	copy(cSeries, cs.Cases)
	return &CaseSeries{T: tSeries, Cases: cSeries}
}

func (cs *CaseSeries) Len() int {
	return len(cs.Cases)
}

// StartDate returns the date of the first observation.
func (cs *CaseSeries) StartDate() time.Time {
	if len(cs.T) == 0 {
		return time.Time{}
	}
	return cs.T[0]
}

// EndDate returns the date of the last observation.
func (cs *CaseSeries) EndDate() time.Time {
	if len(cs.T) == 0 {
		return time.Time{}
	}
	return cs.T[len(cs.T)-1]
}
