package service

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"

	"signal_bot/internal/exchange"
	"signal_bot/internal/models"
	strategy "signal_bot/internal/modules/strategy/service"
)

type fakeSource struct {
	series map[string]models.Series // ключ "SYMBOL|tf"
	errs   map[string]error
}

func (f *fakeSource) Resolve(_ context.Context, symbol, timeframe string, _ int, _ string) (exchange.ResolveResult, error) {
	key := symbol + "|" + timeframe
	if err, ok := f.errs[key]; ok {
		return exchange.ResolveResult{}, err
	}
	s, ok := f.series[key]
	if !ok {
		return exchange.ResolveResult{}, errors.Wrap(exchange.ErrNoData, key)
	}
	return exchange.ResolveResult{Series: s, Source: "fake"}, nil
}

func longSeries(symbol, tf string, n int) models.Series {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := models.Series{Symbol: symbol, Timeframe: tf, Candles: make([]models.Candle, n)}
	for i := 0; i < n; i++ {
		p := 100 + float64(i)*0.1
		s.Candles[i] = models.Candle{
			Time: start.Add(time.Duration(i) * time.Hour),
			Open: p, High: p + 1, Low: p - 1, Close: p, Volume: 10,
		}
	}
	return s
}

func newTestScanner(src CandleSource, workers int) *Scanner {
	return NewScanner(src, strategy.DefaultParams(), strategy.DefaultSwingConfig(), Options{Workers: workers})
}

func TestScanIsolatesFailures(t *testing.T) {
	src := &fakeSource{
		series: map[string]models.Series{
			"BTCUSDT|1h": longSeries("BTCUSDT", "1h", 300),
			"ETHUSDT|1h": longSeries("ETHUSDT", "1h", 50),
		},
		errs: map[string]error{
			"SOLUSDT|1h": errors.New("dial tcp: timeout"),
		},
	}
	sc := newTestScanner(src, 4)

	resp, err := sc.Scan(context.Background(), models.ScanRequest{
		Symbols:    []string{"BTC", "ETH", "SOL"},
		Timeframes: []string{"1h"},
	})
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if got := resp.Statuses["BTCUSDT"]["1h"]; got != models.StatusSuccess {
		t.Fatalf("BTC status = %s, want success", got)
	}
	if got := resp.Statuses["ETHUSDT"]["1h"]; got != models.StatusInsufficientData {
		t.Fatalf("ETH status = %s, want insufficient_data", got)
	}
	if got := resp.Statuses["SOLUSDT"]["1h"]; got != models.StatusFetchError {
		t.Fatalf("SOL status = %s, want fetch_error", got)
	}
	if resp.ScanID == "" {
		t.Fatal("scan id must be set")
	}
}

func TestScanSerialMatchesPool(t *testing.T) {
	src := &fakeSource{series: map[string]models.Series{
		"BTCUSDT|1h": longSeries("BTCUSDT", "1h", 300),
		"BTCUSDT|4h": longSeries("BTCUSDT", "4h", 300),
		"ETHUSDT|1h": longSeries("ETHUSDT", "1h", 300),
		"ETHUSDT|4h": longSeries("ETHUSDT", "4h", 300),
	}}
	req := models.ScanRequest{
		Symbols:    []string{"BTCUSDT", "ETHUSDT"},
		Timeframes: []string{"1h", "4h"},
		PageSize:   100,
	}

	serial, err := newTestScanner(src, 1).Scan(context.Background(), req)
	if err != nil {
		t.Fatalf("serial Scan: %v", err)
	}
	pooled, err := newTestScanner(src, 8).Scan(context.Background(), req)
	if err != nil {
		t.Fatalf("pooled Scan: %v", err)
	}

	if len(serial.Signals) != len(pooled.Signals) {
		t.Fatalf("serial %d signals, pool %d", len(serial.Signals), len(pooled.Signals))
	}
	for i := range serial.Signals {
		if serial.Signals[i].Fingerprint() != pooled.Signals[i].Fingerprint() {
			t.Fatalf("signal %d differs between serial and pool", i)
		}
	}
}

func TestScanCancelled(t *testing.T) {
	src := &fakeSource{series: map[string]models.Series{
		"BTCUSDT|1h": longSeries("BTCUSDT", "1h", 300),
	}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestScanner(src, 4).Scan(ctx, models.ScanRequest{
		Symbols:    []string{"BTCUSDT"},
		Timeframes: []string{"1h"},
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func flatSeries(symbol, tf string, n int, price float64) models.Series {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := models.Series{Symbol: symbol, Timeframe: tf, Candles: make([]models.Candle, n)}
	for i := 0; i < n; i++ {
		s.Candles[i] = models.Candle{
			Time: start.Add(time.Duration(i) * time.Hour),
			Open: price, High: price + 1, Low: price - 1, Close: price, Volume: 10,
		}
	}
	return s
}

func TestTakeProfitTimeframe(t *testing.T) {
	cases := map[string]string{"4h": "3m", "8h": "5m", "12h": "10m", "1d": "15m", "3d": "30m", "1w": "1h", "2h": "3m"}
	for tf, want := range cases {
		if got := takeProfitTimeframe(tf); got != want {
			t.Fatalf("takeProfitTimeframe(%s) = %s, want %s", tf, got, want)
		}
	}
}

func TestEnrichTakeProfit(t *testing.T) {
	src := &fakeSource{series: map[string]models.Series{
		"BTCUSDT|3m": flatSeries("BTCUSDT", "3m", 25, 50),
	}}
	sc := newTestScanner(src, 1)

	signals := []models.Signal{
		{Symbol: "BTCUSDT", Timeframe: "4h", Kind: models.SignalPullback, Direction: models.DirectionLong, EntryPrice: 40},
		{Symbol: "BTCUSDT", Timeframe: "4h", Kind: models.SignalBreakout, Direction: models.DirectionShort, EntryPrice: 60},
		{Symbol: "BTCUSDT", Timeframe: "4h", Kind: models.SignalSwingBuy, Direction: models.DirectionLong, EntryPrice: 40},
	}
	sc.enrichTakeProfit(context.Background(), "BTCUSDT", "4h", "", signals)

	// плоские 25 свечей по 50: средняя линия Боллинджера ровно 50
	if signals[0].TakeProfit == nil || *signals[0].TakeProfit != 50 {
		t.Fatalf("pullback take profit = %v, want 50", signals[0].TakeProfit)
	}
	if signals[0].ProfitPct == nil || *signals[0].ProfitPct != 25 {
		t.Fatalf("pullback profit pct = %v, want 25", signals[0].ProfitPct)
	}
	if signals[1].TakeProfit == nil || *signals[1].TakeProfit != 50 {
		t.Fatalf("breakout take profit = %v, want 50", signals[1].TakeProfit)
	}
	wantShort := (60.0 - 50.0) / 60.0 * 100
	if signals[1].ProfitPct == nil || *signals[1].ProfitPct != wantShort {
		t.Fatalf("breakout profit pct = %v, want %v", signals[1].ProfitPct, wantShort)
	}
	if signals[2].TakeProfit != nil || signals[2].ProfitPct != nil {
		t.Fatalf("swing signal must stay without a target: %+v", signals[2])
	}
}

func TestEnrichTakeProfitFetchFailure(t *testing.T) {
	sc := newTestScanner(&fakeSource{}, 1)
	signals := []models.Signal{
		{Symbol: "BTCUSDT", Timeframe: "4h", Kind: models.SignalPullback, Direction: models.DirectionLong, EntryPrice: 40},
	}
	sc.enrichTakeProfit(context.Background(), "BTCUSDT", "4h", "", signals)
	if signals[0].TakeProfit != nil || signals[0].ProfitPct != nil {
		t.Fatalf("fetch failure must leave the signal without a target: %+v", signals[0])
	}
}

func TestScanPairNoClearTrend(t *testing.T) {
	src := &fakeSource{series: map[string]models.Series{
		"BTCUSDT|1h": flatSeries("BTCUSDT", "1h", 300, 100),
	}}
	sc := newTestScanner(src, 1)
	det := strategy.NewDetector(strategy.DefaultParams(), nil)

	sigs, status := sc.ScanPair(context.Background(), "BTCUSDT", "1h", 300, "", det)
	if status != models.StatusNoClearTrend {
		t.Fatalf("status = %s, want no_clear_trend", status)
	}
	if sigs != nil {
		t.Fatalf("signals = %v, want none", sigs)
	}
}

func TestDedupIdempotent(t *testing.T) {
	mk := func(sym string, price float64) models.Signal {
		return models.Signal{Symbol: sym, Timeframe: "1h", Kind: models.SignalPullback, Direction: models.DirectionLong, EntryPrice: price}
	}
	in := []models.Signal{mk("BTCUSDT", 100), mk("BTCUSDT", 100), mk("ETHUSDT", 2000)}

	once := Dedup(in)
	if len(once) != 2 {
		t.Fatalf("dedup = %d, want 2", len(once))
	}
	twice := Dedup(once)
	if len(twice) != len(once) {
		t.Fatal("dedup must be idempotent")
	}
	doubled := Dedup(append(append([]models.Signal{}, in...), in...))
	if len(doubled) != len(once) {
		t.Fatalf("dedup over doubled input = %d, want %d", len(doubled), len(once))
	}
	// первый экземпляр выигрывает
	if once[0].Symbol != "BTCUSDT" || once[1].Symbol != "ETHUSDT" {
		t.Fatalf("order broken: %v", once)
	}
}

func TestPaginate(t *testing.T) {
	signals := make([]models.Signal, 45)
	for i := range signals {
		signals[i] = models.Signal{Symbol: "BTCUSDT", EntryPrice: float64(i)}
	}

	page, p := Paginate(signals, 1, 20)
	if len(page) != 20 || p.TotalPages != 3 || p.TotalSignals != 45 {
		t.Fatalf("page 1: len=%d meta=%+v", len(page), p)
	}
	page, _ = Paginate(signals, 3, 20)
	if len(page) != 5 {
		t.Fatalf("page 3: len=%d, want 5", len(page))
	}
	page, _ = Paginate(signals, 9, 20)
	if len(page) != 0 {
		t.Fatalf("page beyond the end: len=%d, want 0", len(page))
	}
	// дефолты
	page, p = Paginate(signals, 0, 0)
	if p.Page != 1 || p.PageSize != 20 || len(page) != 20 {
		t.Fatalf("defaults: len=%d meta=%+v", len(page), p)
	}
	// пустой вход
	page, p = Paginate(nil, 1, 20)
	if len(page) != 0 || p.TotalPages != 1 {
		t.Fatalf("empty input: len=%d meta=%+v", len(page), p)
	}
}
