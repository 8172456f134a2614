package service

import (
	"math"

	"signal_bot/internal/models"
)

// ClassifyTrend смотрит на взаимное расположение трёх EMA на последнем баре.
// Бычий строй: короткая выше средней выше длинной, медвежий — зеркально.
func ClassifyTrend(short, mid, long float64) models.TrendState {
	if math.IsNaN(short) || math.IsNaN(mid) || math.IsNaN(long) {
		return models.TrendNeutral
	}
	switch {
	case short > mid && mid > long:
		return models.TrendBullish
	case short < mid && mid < long:
		return models.TrendBearish
	default:
		return models.TrendNeutral
	}
}
