package exchange

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"

	"signal_bot/internal/models"
)

var binanceIntervals = map[string]string{
	"1m": "1m", "3m": "3m", "5m": "5m", "15m": "15m", "30m": "30m",
	"1h": "1h", "2h": "2h", "4h": "4h", "6h": "6h", "8h": "8h", "12h": "12h",
	"1d": "1d", "3d": "3d", "1w": "1w", "1M": "1M",
}

// binanceKlines — общий fetch для spot и futures, у них одинаковый формат klines:
// [openTime(ms), open, high, low, close, volume, closeTime, ...] где цены строками.
func binanceKlines(ctx context.Context, cli *http.Client, baseURL, name, symbol, timeframe string, limit int) (models.Series, error) {
	iv, ok := binanceIntervals[timeframe]
	if !ok {
		return models.Series{}, errors.Wrapf(ErrUnsupportedTimeframe, "%s: %s", name, timeframe)
	}
	if limit > 1500 {
		limit = 1500
	}

	url := fmt.Sprintf("%s?symbol=%s&interval=%s&limit=%d", baseURL, CanonicalSymbol(symbol), iv, limit)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return models.Series{}, errors.Wrapf(err, "%s: new request", name)
	}

	resp, err := cli.Do(req)
	if err != nil {
		return models.Series{}, errors.Wrapf(err, "%s: do", name)
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)
	if resp.StatusCode/100 != 2 {
		// -1121 Invalid symbol приходит с кодом 400
		if resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusNotFound || strings.Contains(string(data), "-1121") {
			return models.Series{}, errors.Wrapf(ErrSymbolNotFound, "%s %s: %s", name, CanonicalSymbol(symbol), strings.TrimSpace(string(data)))
		}
		return models.Series{}, errors.Errorf("%s http %d: %s", name, resp.StatusCode, strings.TrimSpace(string(data)))
	}

	var rows [][]any
	if err := sonic.Unmarshal(data, &rows); err != nil {
		return models.Series{}, errors.Wrapf(err, "%s: decode", name)
	}

	series := models.Series{Symbol: CanonicalSymbol(symbol), Timeframe: timeframe, Candles: make([]models.Candle, 0, len(rows))}
	for _, row := range rows {
		if len(row) < 6 {
			continue
		}
		c, err := parseBinanceRow(row)
		if err != nil {
			continue
		}
		series.Candles = append(series.Candles, c)
	}
	return series, nil
}

func parseBinanceRow(row []any) (models.Candle, error) {
	ms, err := anyInt64(row[0])
	if err != nil {
		return models.Candle{}, err
	}
	c := models.Candle{Time: time.UnixMilli(ms).UTC()}
	if c.Open, err = anyFloat(row[1]); err != nil {
		return models.Candle{}, err
	}
	if c.High, err = anyFloat(row[2]); err != nil {
		return models.Candle{}, err
	}
	if c.Low, err = anyFloat(row[3]); err != nil {
		return models.Candle{}, err
	}
	if c.Close, err = anyFloat(row[4]); err != nil {
		return models.Candle{}, err
	}
	if c.Volume, err = anyFloat(row[5]); err != nil {
		return models.Candle{}, err
	}
	return c, nil
}

func anyFloat(v any) (float64, error) {
	switch t := v.(type) {
	case string:
		return strconv.ParseFloat(t, 64)
	case float64:
		return t, nil
	default:
		return 0, errors.Errorf("unexpected kline value %T", v)
	}
}

func anyInt64(v any) (int64, error) {
	switch t := v.(type) {
	case float64:
		return int64(t), nil
	case string:
		return strconv.ParseInt(t, 10, 64)
	default:
		return 0, errors.Errorf("unexpected kline time %T", v)
	}
}
