package service

import (
	"context"
	"log"
	"math"

	"signal_bot/internal/indicator"
	"signal_bot/internal/models"
)

const takeProfitLimit = 100

// takeProfitTF — младший таймфрейм, на котором считается цель по
// средней линии Боллинджера для сигнала со старшего.
var takeProfitTF = map[string]string{
	"4h":  "3m",
	"8h":  "5m",
	"12h": "10m",
	"1d":  "15m",
	"3d":  "30m",
	"1w":  "1h",
}

func takeProfitTimeframe(tf string) string {
	if lower, ok := takeProfitTF[tf]; ok {
		return lower
	}
	return "3m"
}

func wantsTakeProfit(kind models.SignalKind) bool {
	return kind == models.SignalPullback || kind == models.SignalBreakout
}

// enrichTakeProfit дотягивает к входным сигналам цель по Боллинджеру
// младшего таймфрейма. Ошибка добычи свечей не валит скан: сигнал
// просто уходит без цели.
func (s *Scanner) enrichTakeProfit(ctx context.Context, symbol, timeframe, preferred string, signals []models.Signal) {
	needed := false
	for i := range signals {
		if wantsTakeProfit(signals[i].Kind) {
			needed = true
			break
		}
	}
	if !needed {
		return
	}

	res, err := s.source.Resolve(ctx, symbol, takeProfitTimeframe(timeframe), takeProfitLimit, preferred)
	if err != nil {
		log.Printf("[SCAN] %s %s: цель не посчитали: %v", symbol, timeframe, err)
		return
	}

	middle, _, _ := indicator.Bollinger(res.Series.Closes(), s.params.BBPeriod, s.params.BBStd)
	if len(middle) == 0 {
		return
	}
	target := middle[len(middle)-1]
	if math.IsNaN(target) || target <= 0 {
		return
	}

	for i := range signals {
		sig := &signals[i]
		if !wantsTakeProfit(sig.Kind) || sig.EntryPrice <= 0 {
			continue
		}
		profit := target - sig.EntryPrice
		if sig.Direction == models.DirectionShort {
			profit = sig.EntryPrice - target
		}
		sig.TakeProfit = models.Float64Ptr(target)
		sig.ProfitPct = models.Float64Ptr(profit / sig.EntryPrice * 100)
	}
}
