package service

import (
	"fmt"
	"math"

	"signal_bot/internal/models"
)

// levels ищет ближайшие уровни по строгим локальным экстремумам в хвосте
// серии: минимум ниже соседей — поддержка, максимум выше соседей —
// сопротивление. Сигналим когда цена подошла к уровню вплотную.
func (d *Detector) levels(series models.Series) []models.Signal {
	n := series.Len()
	w := d.params.SRWindow
	if n < w+2 {
		return nil
	}

	last := n - 1
	closePx := series.Candles[last].Close
	start := n - w
	if start < 1 {
		start = 1
	}

	support := math.NaN()
	resistance := math.NaN()
	for i := start; i < last; i++ {
		lo := series.Candles[i].Low
		if lo < series.Candles[i-1].Low && lo < series.Candles[i+1].Low {
			if math.IsNaN(support) || lo < support {
				support = lo
			}
		}
		hi := series.Candles[i].High
		if hi > series.Candles[i-1].High && hi > series.Candles[i+1].High {
			if math.IsNaN(resistance) || hi > resistance {
				resistance = hi
			}
		}
	}

	var out []models.Signal
	if !math.IsNaN(support) && support > 0 && math.Abs(closePx-support)/support <= d.params.SRTolerance {
		out = append(out, models.Signal{
			Symbol:       series.Symbol,
			Timeframe:    series.Timeframe,
			Kind:         models.SignalSupport,
			Direction:    models.DirectionLong,
			EntryPrice:   closePx,
			TriggerLevel: models.Float64Ptr(support),
			Strength:     "normal",
			Time:         series.Candles[last].Time,
			Reason:       fmt.Sprintf("цена у поддержки %.6g", support),
		})
	}
	if !math.IsNaN(resistance) && resistance > 0 && math.Abs(closePx-resistance)/resistance <= d.params.SRTolerance {
		out = append(out, models.Signal{
			Symbol:       series.Symbol,
			Timeframe:    series.Timeframe,
			Kind:         models.SignalResistance,
			Direction:    models.DirectionShort,
			EntryPrice:   closePx,
			TriggerLevel: models.Float64Ptr(resistance),
			Strength:     "normal",
			Time:         series.Candles[last].Time,
			Reason:       fmt.Sprintf("цена у сопротивления %.6g", resistance),
		})
	}
	return out
}
