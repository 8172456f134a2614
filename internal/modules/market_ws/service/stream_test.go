package service

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestParseKlineFrameClosedOnly(t *testing.T) {
	closed := []byte(`{"stream":"btcusdt@kline_1h","data":{"e":"kline","s":"BTCUSDT","k":{"t":1704067200000,"i":"1h","o":"100.5","h":"101.0","l":"99.5","c":"100.8","v":"1234.5","x":true}}}`)
	tick, ok := parseKlineFrame(closed)
	if !ok {
		t.Fatal("closed kline must parse")
	}
	if tick.Symbol != "BTCUSDT" || tick.Timeframe != "1h" {
		t.Fatalf("got %s %s", tick.Symbol, tick.Timeframe)
	}
	if tick.Candle.Close != 100.8 || tick.Candle.Volume != 1234.5 {
		t.Fatalf("candle = %+v", tick.Candle)
	}

	open := []byte(strings.Replace(string(closed), `"x":true`, `"x":false`, 1))
	if _, ok := parseKlineFrame(open); ok {
		t.Fatal("open kline must be skipped")
	}

	if _, ok := parseKlineFrame([]byte(`{"data":{"e":"trade"}}`)); ok {
		t.Fatal("non-kline frame must be skipped")
	}
	if _, ok := parseKlineFrame([]byte(`not json`)); ok {
		t.Fatal("garbage must be skipped")
	}
}

func TestKeepAliveStopsOnSignal(t *testing.T) {
	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		keepAlive(context.Background(), nil, stop)
		close(done)
	}()

	close(stop)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("keepAlive must return once stop is closed")
	}
}

func TestKeepAliveStopsOnContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		keepAlive(ctx, nil, make(chan struct{}))
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("keepAlive must return once the context is cancelled")
	}
}

func TestStreamURL(t *testing.T) {
	url := streamURL([]string{"BTCUSDT", "ETHUSDT"}, "4h")
	want := wsBase + "btcusdt@kline_4h/ethusdt@kline_4h"
	if url != want {
		t.Fatalf("url = %s, want %s", url, want)
	}
}
