package timeseries

import (
	"math"
	"math/rand/v2"
	"time"

	"gonum.org/v1/gonum/floats"
)

// GenerateT returns n consecutive daily dates starting at start.
func GenerateT(n int, start time.Time) []time.Time {
	t := make([]time.Time, 0, n)
	for i := 0; i < n; i++ {
		t = append(t, start.AddDate(0, 0, i))
	}
	return t
}

type Counts []float64

func (c Counts) Add(src Counts) Counts {
	floats.Add(c, src)
	return c
}

func GenerateConst(n int, val float64) Counts {
	y := make([]float64, n)
	floats.AddConst(val, y)
	return Counts(y)
}

// GenerateExponential produces n days of level*ratio^i, the shape the growth
// model assumes, for seeding estimator tests.
func GenerateExponential(n int, level, ratio float64) Counts {
	y := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		y = append(y, level*math.Pow(ratio, float64(i)))
	}
	return Counts(y)
}

// GenerateNoise adds gaussian noise scaled by scale.
func GenerateNoise(n int, scale float64) Counts {
	y := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		y = append(y, rand.NormFloat64()*scale)
	}
	return Counts(y)
}

// GenerateStep is zero before day chpt and bias afterwards, approximating a
// reporting regime change.
func GenerateStep(n, chpt int, bias float64) Counts {
	y := make([]float64, n)
	for i := chpt; i < n; i++ {
		y[i] = bias
	}
	return Counts(y)
}
