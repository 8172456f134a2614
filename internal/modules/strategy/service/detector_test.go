package service

import (
	"math"
	"testing"
	"time"

	"signal_bot/internal/models"
)

func mkSeries(symbol, tf string, start time.Time, n int, price func(i int) float64, vol func(i int) float64) models.Series {
	s := models.Series{Symbol: symbol, Timeframe: tf, Candles: make([]models.Candle, n)}
	for i := 0; i < n; i++ {
		p := price(i)
		s.Candles[i] = models.Candle{
			Time: start.Add(time.Duration(i) * time.Hour),
			Open: p, High: p + 1, Low: p - 1, Close: p, Volume: vol(i),
		}
	}
	return s
}

func TestClassifyTrend(t *testing.T) {
	cases := []struct {
		short, mid, long float64
		want             models.TrendState
	}{
		{3, 2, 1, models.TrendBullish},
		{1, 2, 3, models.TrendBearish},
		{2, 1, 3, models.TrendNeutral},
		{2, 2, 1, models.TrendNeutral},
		{math.NaN(), 2, 1, models.TrendNeutral},
	}
	for _, tc := range cases {
		if got := ClassifyTrend(tc.short, tc.mid, tc.long); got != tc.want {
			t.Fatalf("ClassifyTrend(%v, %v, %v) = %s, want %s", tc.short, tc.mid, tc.long, got, tc.want)
		}
	}
}

func TestEvaluateInsufficientData(t *testing.T) {
	d := NewDetector(DefaultParams(), nil)
	s := mkSeries("BTCUSDT", "1h", time.Now().UTC(), 100,
		func(i int) float64 { return 100 + float64(i) },
		func(int) float64 { return 10 })

	sigs, status := d.Evaluate(s)
	if status != models.StatusInsufficientData {
		t.Fatalf("status = %s, want insufficient_data", status)
	}
	if sigs != nil {
		t.Fatalf("signals = %v, want none", sigs)
	}
}

func TestEvaluateNoClearTrend(t *testing.T) {
	d := NewDetector(DefaultParams(), nil)
	s := mkSeries("BTCUSDT", "1h", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 300,
		func(int) float64 { return 100 },
		func(int) float64 { return 10 })

	sigs, status := d.Evaluate(s)
	if status != models.StatusNoClearTrend {
		t.Fatalf("status = %s, want no_clear_trend", status)
	}
	if sigs != nil {
		t.Fatalf("signals = %v, want none", sigs)
	}
}

func TestEvaluateDeterministic(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := mkSeries("BTCUSDT", "1h", start, 300,
		func(i int) float64 { return 100 + float64(i) + 5*math.Sin(float64(i)/9) },
		func(i int) float64 { return 10 + float64(i%7) })

	a, stA := NewDetector(DefaultParams(), nil).Evaluate(s)
	b, stB := NewDetector(DefaultParams(), nil).Evaluate(s)
	if stA != models.StatusSuccess || stB != models.StatusSuccess {
		t.Fatalf("statuses: %s, %s", stA, stB)
	}
	if len(a) != len(b) {
		t.Fatalf("runs disagree: %d vs %d signals", len(a), len(b))
	}
	for i := range a {
		if a[i].Fingerprint() != b[i].Fingerprint() {
			t.Fatalf("signal %d differs: %s vs %s", i, a[i].Fingerprint(), b[i].Fingerprint())
		}
	}
}

func TestUsageTrackerLimit(t *testing.T) {
	u := NewUsageTracker(10, 2)
	key := UsageKey("BTCUSDT", "1h", 89)
	bar := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	if !u.Allow(key, bar, time.Hour) {
		t.Fatal("first fire must pass")
	}
	if !u.Allow(key, bar.Add(time.Hour), time.Hour) {
		t.Fatal("second fire must pass")
	}
	if u.Allow(key, bar.Add(2*time.Hour), time.Hour) {
		t.Fatal("third fire within the window must be blocked")
	}
	// другой ключ живёт своей жизнью
	if !u.Allow(UsageKey("ETHUSDT", "1h", 89), bar.Add(2*time.Hour), time.Hour) {
		t.Fatal("different key must not be affected")
	}
	// окно уехало, снова можно
	if !u.Allow(key, bar.Add(12*time.Hour), time.Hour) {
		t.Fatal("fire after the window must pass")
	}
}

func TestCrossoverStrictSignChange(t *testing.T) {
	d := NewDetector(DefaultParams(), nil)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := mkSeries("BTCUSDT", "1h", start, 3,
		func(i int) float64 { return 100 }, func(int) float64 { return 10 })

	n := 3
	flat := func(v float64) []float64 {
		out := make([]float64, n)
		for i := range out {
			out[i] = v
		}
		return out
	}

	// короткая снизу вверх пересекла длинную с разрывом больше процента
	emas := emaSet{short: []float64{90, 95, 102}, mid: flat(98), long: flat(100)}
	sig := d.crossover(s, emas, time.Hour)
	if sig == nil {
		t.Fatal("want a crossover signal")
	}
	if sig.Direction != models.DirectionLong || sig.Strength != "strong" {
		t.Fatalf("got %s/%s, want long/strong", sig.Direction, sig.Strength)
	}

	// касание без смены знака не сигнал
	emas = emaSet{short: []float64{99, 100, 99.5}, mid: flat(98), long: flat(100)}
	if sig := d.crossover(s, emas, time.Hour); sig != nil {
		t.Fatalf("touch without sign change produced %v", sig)
	}

	// маленький разрыв после пересечения — weak
	d2 := NewDetector(DefaultParams(), nil)
	emas = emaSet{short: []float64{99, 99.5, 100.5}, mid: flat(98), long: flat(100)}
	sig = d2.crossover(s, emas, time.Hour)
	if sig == nil || sig.Strength != "weak" {
		t.Fatalf("got %v, want weak crossover", sig)
	}
}

func TestBreakoutNeedsStraddleThenClear(t *testing.T) {
	d := NewDetector(DefaultParams(), nil)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	s := models.Series{Symbol: "BTCUSDT", Timeframe: "1h", Candles: []models.Candle{
		{Time: start, Open: 100, High: 101, Low: 99, Close: 100, Volume: 10},
		{Time: start.Add(time.Hour), Open: 99, High: 101, Low: 98, Close: 100, Volume: 10},
		{Time: start.Add(2 * time.Hour), Open: 101, High: 104, Low: 100.5, Close: 103, Volume: 10},
	}}
	long := []float64{100, 100, 100}
	sig := d.breakout(s, emaSet{short: long, mid: long, long: long})
	if sig == nil || sig.Direction != models.DirectionLong {
		t.Fatalf("got %v, want long breakout", sig)
	}

	// предыдущий бар целиком выше линии: пробоя не было
	s.Candles[1].Low = 100.5
	if sig := d.breakout(s, emaSet{short: long, mid: long, long: long}); sig != nil {
		t.Fatalf("no straddle, but got %v", sig)
	}
}

func TestPullbackNeedsVolume(t *testing.T) {
	p := DefaultParams()
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	n := 25

	mk := func(lastVol float64) models.Series {
		return mkSeries("BTCUSDT", "1h", start, n,
			func(i int) float64 { return 100 },
			func(i int) float64 {
				if i == n-1 {
					return lastVol
				}
				return 10
			})
	}
	flat := func(v float64) []float64 {
		out := make([]float64, n)
		for i := range out {
			out[i] = v
		}
		return out
	}
	emas := emaSet{short: flat(101), mid: flat(100.5), long: flat(100)}

	d := NewDetector(p, nil)
	sigs := d.pullbacks(mk(50), emas, models.TrendBullish, time.Hour)
	if len(sigs) == 0 {
		t.Fatal("want pullback signals on a volume spike near EMAs")
	}
	for _, s := range sigs {
		if s.Direction != models.DirectionLong {
			t.Fatalf("direction = %s, want long in bullish trend", s.Direction)
		}
	}

	d = NewDetector(p, nil)
	if sigs := d.pullbacks(mk(5), emas, models.TrendBullish, time.Hour); len(sigs) != 0 {
		t.Fatalf("low volume produced %v", sigs)
	}

	d = NewDetector(p, nil)
	if sigs := d.pullbacks(mk(50), emas, models.TrendNeutral, time.Hour); len(sigs) != 0 {
		t.Fatalf("neutral trend produced %v", sigs)
	}
}
