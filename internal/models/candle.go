package models

import (
	"math"
	"time"

	"github.com/pkg/errors"
)

// ErrMalformedSeries — серию не чиним частично: битое время или цены
// отбраковывают её целиком.
var ErrMalformedSeries = errors.New("malformed candle series")

type Candle struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Series — свечи одной пары на одном таймфрейме, от старых к новым.
// После Normalize серия считается иммутабельной.
type Series struct {
	Symbol    string
	Timeframe string
	Candles   []Candle
}

func (s *Series) Len() int { return len(s.Candles) }

func (s *Series) Last() Candle {
	if len(s.Candles) == 0 {
		return Candle{}
	}
	return s.Candles[len(s.Candles)-1]
}

// Normalize дедуплицирует строки по таймстемпу (оставляем первую) и
// проверяет строго возрастающее время и валидный OHLC.
func (s *Series) Normalize() error {
	if len(s.Candles) == 0 {
		return nil
	}

	seen := make(map[int64]struct{}, len(s.Candles))
	out := make([]Candle, 0, len(s.Candles))
	for _, c := range s.Candles {
		ts := c.Time.UnixMilli()
		if _, dup := seen[ts]; dup {
			continue
		}
		seen[ts] = struct{}{}
		out = append(out, c)
	}

	for i, c := range out {
		if i > 0 && !out[i-1].Time.Before(c.Time) {
			return errors.Wrapf(ErrMalformedSeries, "%s %s: non-increasing timestamp at row %d", s.Symbol, s.Timeframe, i)
		}
		for _, v := range [...]float64{c.Open, c.High, c.Low, c.Close, c.Volume} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return errors.Wrapf(ErrMalformedSeries, "%s %s: non-finite value at row %d", s.Symbol, s.Timeframe, i)
			}
		}
		if c.Low > math.Min(c.Open, c.Close) || c.High < math.Max(c.Open, c.Close) {
			return errors.Wrapf(ErrMalformedSeries, "%s %s: broken OHLC ordering at row %d", s.Symbol, s.Timeframe, i)
		}
	}

	s.Candles = out
	return nil
}

func (s *Series) Closes() []float64 {
	out := make([]float64, len(s.Candles))
	for i, c := range s.Candles {
		out[i] = c.Close
	}
	return out
}

func (s *Series) Highs() []float64 {
	out := make([]float64, len(s.Candles))
	for i, c := range s.Candles {
		out[i] = c.High
	}
	return out
}

func (s *Series) Lows() []float64 {
	out := make([]float64, len(s.Candles))
	for i, c := range s.Candles {
		out[i] = c.Low
	}
	return out
}

func (s *Series) Volumes() []float64 {
	out := make([]float64, len(s.Candles))
	for i, c := range s.Candles {
		out[i] = c.Volume
	}
	return out
}

// CandleTick — закрытая свеча из WS-стрима.
type CandleTick struct {
	Symbol    string
	Timeframe string
	Candle    Candle
}
