package exchange

import (
	"context"
	"net/http"

	"signal_bot/internal/models"
)

type BinanceSpotAdapter struct {
	http *http.Client
}

func NewBinanceSpot() *BinanceSpotAdapter {
	return &BinanceSpotAdapter{http: &http.Client{Timeout: requestTimeout}}
}

func (b *BinanceSpotAdapter) Name() string { return "binance-spot" }

func (b *BinanceSpotAdapter) Fetch(ctx context.Context, symbol, timeframe string, limit int) (models.Series, error) {
	return binanceKlines(ctx, b.http, "https://api.binance.com/api/v3/klines", b.Name(), symbol, timeframe, limit)
}
