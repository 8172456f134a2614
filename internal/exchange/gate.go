package exchange

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"

	"signal_bot/internal/models"
)

var gateIntervals = map[string]string{
	"1m": "1m", "3m": "3m", "5m": "5m", "15m": "15m", "30m": "30m",
	"1h": "1h", "4h": "4h", "8h": "8h", "12h": "12h",
	"1d": "1d", "3d": "3d", "1w": "1w",
}

type GateAdapter struct {
	http *http.Client
}

func NewGate() *GateAdapter {
	return &GateAdapter{http: &http.Client{Timeout: requestTimeout}}
}

func (g *GateAdapter) Name() string { return "gate" }

func gateSymbol(symbol string) string {
	sym := CanonicalSymbol(symbol)
	return strings.TrimSuffix(sym, "USDT") + "_USDT"
}

// Fetch дергает spot candlesticks. Формат строки у Gate:
// [t, quoteVolume, close, high, low, open, baseVolume, ...].
func (g *GateAdapter) Fetch(ctx context.Context, symbol, timeframe string, limit int) (models.Series, error) {
	iv, ok := gateIntervals[timeframe]
	if !ok {
		return models.Series{}, errors.Wrapf(ErrUnsupportedTimeframe, "gate: %s", timeframe)
	}
	if limit > 1000 {
		limit = 1000
	}

	url := fmt.Sprintf(
		"https://api.gateio.ws/api/v4/spot/candlesticks?currency_pair=%s&interval=%s&limit=%d",
		gateSymbol(symbol), iv, limit,
	)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return models.Series{}, errors.Wrap(err, "gate: new request")
	}

	resp, err := g.http.Do(req)
	if err != nil {
		return models.Series{}, errors.Wrap(err, "gate: do")
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)
	switch {
	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusNotFound:
		// у Gate несуществующая пара — это 4xx с INVALID_CURRENCY_PAIR
		return models.Series{}, errors.Wrapf(ErrSymbolNotFound, "gate %s: %s", gateSymbol(symbol), strings.TrimSpace(string(data)))
	case resp.StatusCode/100 != 2:
		return models.Series{}, errors.Errorf("gate http %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	var rows [][]string
	if err := sonic.Unmarshal(data, &rows); err != nil {
		return models.Series{}, errors.Wrap(err, "gate: decode")
	}

	series := models.Series{Symbol: CanonicalSymbol(symbol), Timeframe: timeframe, Candles: make([]models.Candle, 0, len(rows))}
	for _, row := range rows {
		if len(row) < 6 {
			continue
		}
		ts, err := strconv.ParseInt(row[0], 10, 64)
		if err != nil {
			continue
		}
		c := models.Candle{Time: time.Unix(ts, 0).UTC()}
		if c.Close, err = strconv.ParseFloat(row[2], 64); err != nil {
			continue
		}
		if c.High, err = strconv.ParseFloat(row[3], 64); err != nil {
			continue
		}
		if c.Low, err = strconv.ParseFloat(row[4], 64); err != nil {
			continue
		}
		if c.Open, err = strconv.ParseFloat(row[5], 64); err != nil {
			continue
		}
		// объём в базовой валюте идёт седьмой колонкой в новых ответах
		volIdx := 1
		if len(row) >= 7 {
			volIdx = 6
		}
		if c.Volume, err = strconv.ParseFloat(row[volIdx], 64); err != nil {
			continue
		}
		series.Candles = append(series.Candles, c)
	}

	// канонический порядок — от старых к новым
	sort.Slice(series.Candles, func(i, j int) bool {
		return series.Candles[i].Time.Before(series.Candles[j].Time)
	})
	return series, nil
}
