package indicator

import "math"

// Bollinger — скользящее среднее ± k популяционных стандартных отклонений.
// Прогрев (period-1 баров) — NaN.
func Bollinger(src []float64, period int, k float64) (middle, upper, lower []float64) {
	middle = SMA(src, period)
	upper = nans(len(src))
	lower = nans(len(src))
	if period < 1 || len(src) < period {
		return middle, upper, lower
	}

	for i := period - 1; i < len(src); i++ {
		mean := middle[i]
		var ss float64
		for j := i - period + 1; j <= i; j++ {
			d := src[j] - mean
			ss += d * d
		}
		sd := math.Sqrt(ss / float64(period))
		upper[i] = mean + k*sd
		lower[i] = mean - k*sd
	}
	return middle, upper, lower
}
