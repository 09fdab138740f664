package analysis

import "math"

// EquilibrationTime returns the first timestep t such that every value from
// t on lies within tol of the average of the last quarter of the series.
// It returns len(series) when the series never settles and 0 for an empty
// series.
func EquilibrationTime(series []float64, tol float64) int {
	n := len(series)
	if n == 0 {
		return 0
	}

	tail := n / 4
	if tail == 0 {
		tail = 1
	}
	avg := 0.0
	for _, v := range series[n-tail:] {
		avg += v
	}
	avg /= float64(tail)

	t := n
	for i := n - 1; i >= 0; i-- {
		if math.Abs(series[i]-avg) > tol {
			break
		}
		t = i
	}
	return t
}

// Autocorrelation returns the normalized autocorrelation of series for
// lags 0..maxLag. A constant series has no defined correlation and yields
// zeros beyond lag 0.
func Autocorrelation(series []float64, maxLag int) []float64 {
	n := len(series)
	if maxLag >= n {
		maxLag = n - 1
	}
	if maxLag < 0 {
		return []float64{}
	}

	mean := 0.0
	for _, v := range series {
		mean += v
	}
	mean /= float64(n)

	variance := 0.0
	for _, v := range series {
		variance += (v - mean) * (v - mean)
	}

	acf := make([]float64, maxLag+1)
	acf[0] = 1
	if variance == 0 {
		return acf
	}
	for lag := 1; lag <= maxLag; lag++ {
		sum := 0.0
		for i := 0; i+lag < n; i++ {
			sum += (series[i] - mean) * (series[i+lag] - mean)
		}
		acf[lag] = sum / variance
	}
	return acf
}

// IntegratedAutocorrelationTime sums the autocorrelation up to its first
// non-positive value.
func IntegratedAutocorrelationTime(series []float64) float64 {
	acf := Autocorrelation(series, len(series)/2)
	tau := 0.5
	for lag := 1; lag < len(acf); lag++ {
		if acf[lag] <= 0 {
			break
		}
		tau += acf[lag]
	}
	return tau
}
