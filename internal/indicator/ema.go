package indicator

import "math"

// EMA — классическая рекурсия со сглаживанием 2/(period+1), засев первым
// значением ряда (без bias-correction). Определена с нулевого индекса.
func EMA(src []float64, period int) []float64 {
	out := make([]float64, len(src))
	if len(src) == 0 {
		return out
	}
	if period < 1 {
		period = 1
	}
	alpha := 2.0 / (float64(period) + 1)
	out[0] = src[0]
	for i := 1; i < len(src); i++ {
		out[i] = alpha*src[i] + (1-alpha)*out[i-1]
	}
	return out
}

// SMA — простое скользящее среднее; первые period-1 значений NaN.
func SMA(src []float64, period int) []float64 {
	out := nans(len(src))
	if period < 1 || len(src) < period {
		return out
	}
	sum := 0.0
	for i, v := range src {
		sum += v
		if i >= period {
			sum -= src[i-period]
		}
		if i >= period-1 {
			out[i] = sum / float64(period)
		}
	}
	return out
}

func nans(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}
