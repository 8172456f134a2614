package service

import "testing"

func TestRankByTurnover(t *testing.T) {
	tickers := []futuresTicker{
		{Symbol: "BTCUSDT", QuoteVolume: "900000"},
		{Symbol: "ETHUSDT", QuoteVolume: "500000"},
		{Symbol: "SOLUSDT", QuoteVolume: "700000"},
		{Symbol: "BTCBUSD", QuoteVolume: "999999"}, // не USDT, мимо
		{Symbol: "XRPUSDT", QuoteVolume: "oops"},   // битый объём, мимо
		{Symbol: "DOGEUSDT", QuoteVolume: "0"},     // нулевой оборот, мимо
	}

	got := rankByTurnover(tickers, 2)
	if len(got) != 2 || got[0] != "BTCUSDT" || got[1] != "SOLUSDT" {
		t.Fatalf("got %v, want [BTCUSDT SOLUSDT]", got)
	}

	all := rankByTurnover(tickers, 10)
	if len(all) != 3 {
		t.Fatalf("got %d symbols, want 3", len(all))
	}
	if rankByTurnover(tickers, 0) != nil {
		t.Fatal("n=0 must give nil")
	}
}
