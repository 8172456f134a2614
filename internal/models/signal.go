package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type TrendState string

const (
	TrendBullish TrendState = "bullish"
	TrendBearish TrendState = "bearish"
	TrendNeutral TrendState = "neutral"
)

type SignalKind string

const (
	SignalPullback   SignalKind = "pullback"
	SignalCrossover  SignalKind = "crossover"
	SignalBreakout   SignalKind = "breakout"
	SignalSupport    SignalKind = "support"
	SignalResistance SignalKind = "resistance"
	SignalSwingBuy   SignalKind = "swing_buy"
	SignalSwingSell  SignalKind = "swing_sell"
)

type Direction string

const (
	DirectionLong  Direction = "long"
	DirectionShort Direction = "short"
)

type Signal struct {
	Symbol       string     `json:"symbol"`
	Timeframe    string     `json:"timeframe"`
	Kind         SignalKind `json:"kind"`
	Direction    Direction  `json:"direction"`
	EntryPrice   float64    `json:"entry_price"`
	TriggerLevel *float64   `json:"trigger_level,omitempty"`
	Strength     string     `json:"strength,omitempty"` // strong/weak у кроссоверов
	EMAPeriod    int        `json:"ema_period,omitempty"`
	TakeProfit   *float64   `json:"take_profit,omitempty"`
	ProfitPct    *float64   `json:"profit_pct,omitempty"`
	Time         time.Time  `json:"time"`
	Reason       string     `json:"reason"`
}

// Fingerprint — составной ключ дедупликации. Цены округляем до 6 знаков
// через decimal, чтобы два прохода детектора не разошлись на плавающей точке.
func (s Signal) Fingerprint() string {
	trigger := ""
	if s.TriggerLevel != nil {
		trigger = decimal.NewFromFloat(*s.TriggerLevel).Round(6).String()
	}
	return fmt.Sprintf("%s|%s|%s|%s|%s|%s",
		s.Symbol, s.Timeframe, s.Kind, s.Direction,
		decimal.NewFromFloat(s.EntryPrice).Round(6).String(), trigger)
}

// Float64Ptr — для TriggerLevel в литералах.
func Float64Ptr(v float64) *float64 { return &v }
