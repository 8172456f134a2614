package service

import (
	"fmt"
	"math"
	"time"

	"signal_bot/internal/models"
)

// crossover ловит смену знака разницы короткой и длинной EMA на последнем
// баре. Насколько уверенно линии разошлись после пересечения, решает
// strength: разрыв больше порога — strong, иначе weak.
func (d *Detector) crossover(series models.Series, emas emaSet, barDur time.Duration) *models.Signal {
	last := series.Len() - 1
	prevGap := emas.short[last-1] - emas.long[last-1]
	curGap := emas.short[last] - emas.long[last]
	if math.IsNaN(prevGap) || math.IsNaN(curGap) {
		return nil
	}
	// строгая смена знака, касание нулём не считается
	if !(prevGap < 0 && curGap > 0) && !(prevGap > 0 && curGap < 0) {
		return nil
	}

	key := UsageKey(series.Symbol, series.Timeframe, d.params.EMAShort)
	if !d.usage.Allow(key, series.Candles[last].Time, barDur) {
		return nil
	}

	dir := models.DirectionLong
	if curGap < 0 {
		dir = models.DirectionShort
	}
	strength := "weak"
	if emas.long[last] != 0 && math.Abs(curGap)/emas.long[last] >= d.params.CrossoverStrongGap {
		strength = "strong"
	}

	return &models.Signal{
		Symbol:       series.Symbol,
		Timeframe:    series.Timeframe,
		Kind:         models.SignalCrossover,
		Direction:    dir,
		EntryPrice:   series.Candles[last].Close,
		TriggerLevel: models.Float64Ptr(emas.long[last]),
		Strength:     strength,
		EMAPeriod:    d.params.EMAShort,
		Time:         series.Candles[last].Time,
		Reason:       fmt.Sprintf("пересечение EMA%d и EMA%d", d.params.EMAShort, d.params.EMALong),
	}
}
