package models

import (
	"math"
	"testing"
	"time"

	"github.com/pkg/errors"
)

func series(candles ...Candle) Series {
	return Series{Symbol: "BTCUSDT", Timeframe: "1h", Candles: candles}
}

func bar(t time.Time, o, h, l, c float64) Candle {
	return Candle{Time: t, Open: o, High: h, Low: l, Close: c, Volume: 10}
}

func TestNormalizeDedupKeepsFirst(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := series(
		bar(start, 100, 101, 99, 100),
		bar(start, 200, 201, 199, 200), // дубль таймстемпа, должен уйти
		bar(start.Add(time.Hour), 100, 102, 99, 101),
	)
	if err := s.Normalize(); err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if s.Len() != 2 {
		t.Fatalf("len = %d, want 2", s.Len())
	}
	if s.Candles[0].Open != 100 {
		t.Fatalf("first bar replaced: %+v", s.Candles[0])
	}
}

func TestNormalizeRejectsBrokenOHLC(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := series(
		bar(start, 100, 101, 99, 100),
		bar(start.Add(time.Hour), 100, 102, 150, 101), // low выше open
	)
	if err := s.Normalize(); !errors.Is(err, ErrMalformedSeries) {
		t.Fatalf("err = %v, want ErrMalformedSeries", err)
	}
}

func TestNormalizeRejectsNonFinite(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := series(bar(start, 100, 101, 99, math.NaN()))
	if err := s.Normalize(); !errors.Is(err, ErrMalformedSeries) {
		t.Fatalf("err = %v, want ErrMalformedSeries", err)
	}
}

func TestNormalizeRejectsTimeGoingBack(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := series(
		bar(start.Add(time.Hour), 100, 101, 99, 100),
		bar(start, 100, 101, 99, 100),
	)
	if err := s.Normalize(); !errors.Is(err, ErrMalformedSeries) {
		t.Fatalf("err = %v, want ErrMalformedSeries", err)
	}
}

func TestFingerprintStableUnderTinyNoise(t *testing.T) {
	a := Signal{Symbol: "BTCUSDT", Timeframe: "1h", Kind: SignalPullback, Direction: DirectionLong, EntryPrice: 100.0000001}
	b := Signal{Symbol: "BTCUSDT", Timeframe: "1h", Kind: SignalPullback, Direction: DirectionLong, EntryPrice: 100.0000004}
	if a.Fingerprint() != b.Fingerprint() {
		t.Fatalf("fingerprints differ below rounding precision:\n%s\n%s", a.Fingerprint(), b.Fingerprint())
	}

	c := Signal{Symbol: "BTCUSDT", Timeframe: "1h", Kind: SignalPullback, Direction: DirectionLong, EntryPrice: 100.1}
	if a.Fingerprint() == c.Fingerprint() {
		t.Fatal("different prices must give different fingerprints")
	}

	d := a
	d.TriggerLevel = Float64Ptr(99.5)
	if a.Fingerprint() == d.Fingerprint() {
		t.Fatal("trigger level must be part of the fingerprint")
	}
}
