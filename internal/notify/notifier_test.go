package notify

import (
	"strings"
	"testing"
	"time"

	"signal_bot/internal/models"
)

func TestFormatSignalWithTarget(t *testing.T) {
	sig := models.Signal{
		Symbol:     "BTCUSDT",
		Timeframe:  "4h",
		Kind:       models.SignalPullback,
		Direction:  models.DirectionLong,
		EntryPrice: 40,
		TakeProfit: models.Float64Ptr(50),
		ProfitPct:  models.Float64Ptr(25),
		EMAPeriod:  144,
		Time:       time.Date(2024, 1, 2, 3, 4, 0, 0, time.UTC),
	}

	msg := FormatSignal(sig)
	if !strings.Contains(msg, "🟢") {
		t.Fatalf("long signal must carry the green marker: %q", msg)
	}
	if !strings.Contains(msg, "цель: 50.0000") {
		t.Fatalf("message must carry the target: %q", msg)
	}
	if !strings.Contains(msg, "(25.00%)") {
		t.Fatalf("message must carry the profit percent: %q", msg)
	}

	sig.TakeProfit = nil
	sig.ProfitPct = nil
	sig.Direction = models.DirectionShort
	msg = FormatSignal(sig)
	if strings.Contains(msg, "цель") {
		t.Fatalf("no target must mean no target line: %q", msg)
	}
	if !strings.Contains(msg, "🔴") {
		t.Fatalf("short signal must carry the red marker: %q", msg)
	}
}
