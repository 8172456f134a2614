package service

import (
	"fmt"
	"math"

	"signal_bot/internal/models"
)

// breakout: предыдущий бар оседлал длинную EMA, текущий закрылся уже по
// одну сторону от неё. Такой выход из линии считаем пробоем.
func (d *Detector) breakout(series models.Series, emas emaSet) *models.Signal {
	last := series.Len() - 1
	prev := series.Candles[last-1]
	cur := series.Candles[last]
	prevEMA := emas.long[last-1]
	curEMA := emas.long[last]
	if math.IsNaN(prevEMA) || math.IsNaN(curEMA) {
		return nil
	}
	if prev.Low > prevEMA || prev.High < prevEMA {
		return nil
	}

	var dir models.Direction
	switch {
	case cur.Close > curEMA && cur.Low > curEMA:
		dir = models.DirectionLong
	case cur.Close < curEMA && cur.High < curEMA:
		dir = models.DirectionShort
	default:
		return nil
	}

	return &models.Signal{
		Symbol:       series.Symbol,
		Timeframe:    series.Timeframe,
		Kind:         models.SignalBreakout,
		Direction:    dir,
		EntryPrice:   cur.Close,
		TriggerLevel: models.Float64Ptr(curEMA),
		Strength:     "normal",
		EMAPeriod:    d.params.EMALong,
		Time:         cur.Time,
		Reason:       fmt.Sprintf("пробой EMA%d", d.params.EMALong),
	}
}
