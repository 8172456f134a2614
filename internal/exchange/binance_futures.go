package exchange

import (
	"context"
	"net/http"

	"signal_bot/internal/models"
)

type BinanceFuturesAdapter struct {
	http *http.Client
}

func NewBinanceFutures() *BinanceFuturesAdapter {
	return &BinanceFuturesAdapter{http: &http.Client{Timeout: requestTimeout}}
}

func (b *BinanceFuturesAdapter) Name() string { return "binance-futures" }

func (b *BinanceFuturesAdapter) Fetch(ctx context.Context, symbol, timeframe string, limit int) (models.Series, error) {
	return binanceKlines(ctx, b.http, "https://fapi.binance.com/fapi/v1/klines", b.Name(), symbol, timeframe, limit)
}
