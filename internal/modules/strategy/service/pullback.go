package service

import (
	"fmt"
	"math"
	"time"

	"signal_bot/internal/models"
)

// pullbacks ищет откат к одной из EMA внутри сложившегося тренда:
// цена рядом с линией и объём выше среднего по окну. Без тренда
// откатываться не от чего.
func (d *Detector) pullbacks(series models.Series, emas emaSet, trend models.TrendState, barDur time.Duration) []models.Signal {
	if trend == models.TrendNeutral {
		return nil
	}

	last := series.Len() - 1
	closePx := series.Candles[last].Close
	if !d.volumeConfirmed(series) {
		return nil
	}

	dir := models.DirectionLong
	if trend == models.TrendBearish {
		dir = models.DirectionShort
	}

	var out []models.Signal
	emas.each(d.params, func(period int, values []float64) {
		ema := values[last]
		if math.IsNaN(ema) || ema == 0 {
			return
		}
		if math.Abs(closePx-ema)/ema > d.params.PullbackTolerance {
			return
		}
		key := UsageKey(series.Symbol, series.Timeframe, period)
		if !d.usage.Allow(key, series.Candles[last].Time, barDur) {
			return
		}
		out = append(out, models.Signal{
			Symbol:       series.Symbol,
			Timeframe:    series.Timeframe,
			Kind:         models.SignalPullback,
			Direction:    dir,
			EntryPrice:   closePx,
			TriggerLevel: models.Float64Ptr(ema),
			Strength:     "normal",
			EMAPeriod:    period,
			Time:         series.Candles[last].Time,
			Reason:       fmt.Sprintf("откат к EMA%d при объёме выше среднего", period),
		})
	})
	return out
}

func (d *Detector) volumeConfirmed(series models.Series) bool {
	n := series.Len()
	w := d.params.VolumeWindow
	if n < w+1 {
		return false
	}
	var sum float64
	for _, c := range series.Candles[n-1-w : n-1] {
		sum += c.Volume
	}
	avg := sum / float64(w)
	return series.Candles[n-1].Volume > avg
}
