package service

import (
	"context"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"
)

// Watchlist добирает список символов из топа фьючерсов Binance по
// обороту за сутки, когда конфиг не принёс свой список.
type Watchlist struct {
	http *http.Client
}

func NewWatchlist() *Watchlist {
	return &Watchlist{http: &http.Client{Timeout: 15 * time.Second}}
}

type futuresTicker struct {
	Symbol      string `json:"symbol"`
	QuoteVolume string `json:"quoteVolume"`
}

// TopByTurnover отдаёт n USDT-пар с самым большим quote-объёмом.
func (w *Watchlist) TopByTurnover(ctx context.Context, n int) ([]string, error) {
	if n <= 0 {
		return nil, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "https://fapi.binance.com/fapi/v1/ticker/24hr", nil)
	if err != nil {
		return nil, errors.Wrap(err, "watchlist: new request")
	}
	resp, err := w.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "watchlist: do")
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return nil, errors.Errorf("watchlist: http %d", resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "watchlist: read body")
	}

	var tickers []futuresTicker
	if err := sonic.Unmarshal(data, &tickers); err != nil {
		return nil, errors.Wrap(err, "watchlist: decode")
	}

	return rankByTurnover(tickers, n), nil
}

func rankByTurnover(tickers []futuresTicker, n int) []string {
	if n <= 0 {
		return nil
	}
	type rec struct {
		sym   string
		score float64
	}
	arr := make([]rec, 0, len(tickers))
	for _, t := range tickers {
		if !strings.HasSuffix(t.Symbol, "USDT") {
			continue
		}
		v, err := strconv.ParseFloat(t.QuoteVolume, 64)
		if err != nil || v <= 0 {
			continue
		}
		arr = append(arr, rec{sym: t.Symbol, score: v})
	}
	sort.Slice(arr, func(i, j int) bool { return arr[i].score > arr[j].score })

	if n > len(arr) {
		n = len(arr)
	}
	out := make([]string, 0, n)
	for _, r := range arr[:n] {
		out = append(out, r.sym)
	}
	return out
}
