package service

import (
	"signal_bot/internal/helper"
	"signal_bot/internal/indicator"
	"signal_bot/internal/models"
)

// Detector прогоняет одну серию свечей через все трендовые проверки.
// Потокобезопасен: весь мутируемый стейт живёт в UsageTracker.
type Detector struct {
	params Params
	usage  *UsageTracker
}

func NewDetector(params Params, usage *UsageTracker) *Detector {
	if usage == nil {
		usage = NewUsageTracker(params.LimiterWindowBars, params.LimiterMaxFires)
	}
	return &Detector{params: params, usage: usage}
}

func (d *Detector) Params() Params { return d.params }

// emaSet — заранее посчитанные EMA для серии. Extra остаётся nil, когда
// истории меньше её периода.
type emaSet struct {
	short []float64
	mid   []float64
	long  []float64
	extra []float64
}

func (e emaSet) each(p Params, fn func(period int, values []float64)) {
	fn(p.EMAShort, e.short)
	fn(p.EMAMid, e.mid)
	fn(p.EMALong, e.long)
	if e.extra != nil {
		fn(p.EMAExtra, e.extra)
	}
}

// Evaluate возвращает сигналы с последнего бара серии и статус обработки.
func (d *Detector) Evaluate(series models.Series) ([]models.Signal, models.TimeframeStatus) {
	n := series.Len()
	if n < d.params.EMALong+1 {
		return nil, models.StatusInsufficientData
	}

	closes := series.Closes()
	emas := emaSet{
		short: indicator.EMA(closes, d.params.EMAShort),
		mid:   indicator.EMA(closes, d.params.EMAMid),
		long:  indicator.EMA(closes, d.params.EMALong),
	}
	if n >= d.params.EMAExtra {
		emas.extra = indicator.EMA(closes, d.params.EMAExtra)
	}

	last := n - 1
	trend := ClassifyTrend(emas.short[last], emas.mid[last], emas.long[last])
	barDur := helper.TFDuration(series.Timeframe)

	var signals []models.Signal
	signals = append(signals, d.pullbacks(series, emas, trend, barDur)...)
	if sig := d.crossover(series, emas, barDur); sig != nil {
		signals = append(signals, *sig)
	}
	if sig := d.breakout(series, emas); sig != nil {
		signals = append(signals, *sig)
	}
	signals = append(signals, d.levels(series)...)
	if trend == models.TrendNeutral && len(signals) == 0 {
		return nil, models.StatusNoClearTrend
	}
	return signals, models.StatusSuccess
}
