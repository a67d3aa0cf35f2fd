package indicator

import (
	"math"

	"github.com/moznion/go-optional"
)

// Rolling windows accept partial windows: a point is computed as soon as one
// non-missing sample is available. Missing samples are represented as NaN.

func rollingMean(values []float64, window int) []float64 {
	out := make([]float64, len(values))

	for i := range values {
		sum, count := 0.0, 0

		for j := windowStart(i, window); j <= i; j++ {
			if math.IsNaN(values[j]) {
				continue
			}

			sum += values[j]
			count++
		}

		if count == 0 {
			out[i] = math.NaN()

			continue
		}

		out[i] = sum / float64(count)
	}

	return out
}

// rollingStd is the sample standard deviation (n-1 denominator); fewer than two samples is NaN.
func rollingStd(values []float64, window int) []float64 {
	out := make([]float64, len(values))

	for i := range values {
		sum, count := 0.0, 0

		for j := windowStart(i, window); j <= i; j++ {
			if math.IsNaN(values[j]) {
				continue
			}

			sum += values[j]
			count++
		}

		if count < 2 {
			out[i] = math.NaN()

			continue
		}

		mean := sum / float64(count)
		squares := 0.0

		for j := windowStart(i, window); j <= i; j++ {
			if math.IsNaN(values[j]) {
				continue
			}

			squares += (values[j] - mean) * (values[j] - mean)
		}

		out[i] = math.Sqrt(squares / float64(count-1))
	}

	return out
}

func rollingMin(values []float64, window int) []float64 {
	return rollingExtreme(values, window, math.Min)
}

func rollingMax(values []float64, window int) []float64 {
	return rollingExtreme(values, window, math.Max)
}

func rollingExtreme(values []float64, window int, pick func(a, b float64) float64) []float64 {
	out := make([]float64, len(values))

	for i := range values {
		result := math.NaN()

		for j := windowStart(i, window); j <= i; j++ {
			if math.IsNaN(values[j]) {
				continue
			}

			if math.IsNaN(result) {
				result = values[j]

				continue
			}

			result = pick(result, values[j])
		}

		out[i] = result
	}

	return out
}

// ewm is the recursive exponential mean with alpha = 2/(span+1), seeded by the first sample.
func ewm(values []float64, span int) []float64 {
	out := make([]float64, len(values))
	alpha := 2.0 / float64(span+1)
	prev := math.NaN()

	for i, v := range values {
		switch {
		case math.IsNaN(v):
			out[i] = prev

			continue
		case math.IsNaN(prev):
			prev = v
		default:
			prev = alpha*v + (1-alpha)*prev
		}

		out[i] = prev
	}

	return out
}

// diff returns the change from the previous sample; the first value is NaN.
func diff(values []float64) []float64 {
	out := make([]float64, len(values))

	for i := range values {
		if i == 0 {
			out[i] = math.NaN()

			continue
		}

		out[i] = values[i] - values[i-1]
	}

	return out
}

func windowStart(i int, window int) int {
	start := i - window + 1
	if start < 0 {
		return 0
	}

	return start
}

func countValid(values []float64) int {
	count := 0

	for _, v := range values {
		if !math.IsNaN(v) {
			count++
		}
	}

	return count
}

func fillNaN(values []float64, fill float64) []float64 {
	out := make([]float64, len(values))

	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			out[i] = fill

			continue
		}

		out[i] = v
	}

	return out
}

func constant(n int, value float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = value
	}

	return out
}

// toOptions converts NaN and infinities to the missing-value marker.
func toOptions(values []float64) []optional.Option[float64] {
	out := make([]optional.Option[float64], len(values))

	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			out[i] = optional.None[float64]()

			continue
		}

		out[i] = optional.Some(v)
	}

	return out
}

func missing(n int) []optional.Option[float64] {
	out := make([]optional.Option[float64], n)
	for i := range out {
		out[i] = optional.None[float64]()
	}

	return out
}
