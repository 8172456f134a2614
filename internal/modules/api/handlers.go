package api

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"math"
	"net/http"
	"time"

	"github.com/bytedance/sonic"

	"signal_bot/internal/helper"
	"signal_bot/internal/indicator"
	"signal_bot/internal/models"
	strategy "signal_bot/internal/modules/strategy/service"
	"signal_bot/internal/notify"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	data, err := sonic.Marshal(v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(data)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"success": false, "error": msg})
}

// handleSignals — разовый скан по запросу. Пустые поля добираем из
// конфига, результат пишем в историю и анонсируем новые сигналы.
func (s *Server) handleSignals(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST only")
		return
	}

	var req models.ScanRequest
	body, _ := io.ReadAll(r.Body)
	if len(body) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			writeError(w, http.StatusBadRequest, "bad request body")
			return
		}
	}
	if len(req.Symbols) == 0 {
		req.Symbols = s.cfg.Symbols
	}
	if len(req.Timeframes) == 0 {
		req.Timeframes = s.cfg.Timeframes
	}
	if req.Exchange == "" {
		req.Exchange = s.cfg.PreferredExchange
	}
	if len(req.Symbols) == 0 || len(req.Timeframes) == 0 {
		writeError(w, http.StatusBadRequest, "symbols and timeframes are empty")
		return
	}

	resp, err := s.scanner.Scan(r.Context(), req)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.state.TouchScan(time.Now())

	if s.store != nil {
		if err := s.store.Save(r.Context(), resp.ScanID, resp.Signals); err != nil {
			log.Printf("[API] история не записалась: %v", err)
		}
	}
	s.announce(r.Context(), resp.Signals)

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSymbols(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "GET only")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "symbols": s.cfg.Symbols})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "GET only")
		return
	}
	symbol := r.URL.Query().Get("symbol")
	if symbol == "" {
		writeError(w, http.StatusBadRequest, "symbol is required")
		return
	}
	signals, err := s.store.Recent(r.Context(), symbol, 50)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "signals": signals})
}

type chartRequest struct {
	Symbol       string `json:"symbol"`
	Timeframe    string `json:"timeframe"`
	Limit        int    `json:"limit"`
	DisplayLimit int    `json:"display_limit"`
}

type chartCandle struct {
	Time  int64   `json:"time"`
	Open  float64 `json:"open"`
	High  float64 `json:"high"`
	Low   float64 `json:"low"`
	Close float64 `json:"close"`
}

// chartOverlays — индикаторные ряды для фронта, NaN превращаем в null.
type chartOverlays struct {
	RSI       []*float64 `json:"rsi"`
	BollMid   []*float64 `json:"boll_mid"`
	BollUpper []*float64 `json:"boll_upper"`
	BollLower []*float64 `json:"boll_lower"`
}

func jsonSeries(src []float64, from int) []*float64 {
	out := make([]*float64, 0, len(src)-from)
	for _, v := range src[from:] {
		if math.IsNaN(v) {
			out = append(out, nil)
			continue
		}
		v := v
		out = append(out, &v)
	}
	return out
}

type chartSignal struct {
	Time   int64  `json:"time"`
	Signal string `json:"signal"`
}

// handleChart — свечи плюс разворотные метки для фронта. Отдаём хвост
// серии по display_limit, сигналы фильтруем по видимым барам.
func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST only")
		return
	}

	var req chartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad request body")
		return
	}
	if req.Symbol == "" {
		writeError(w, http.StatusBadRequest, "symbol is required")
		return
	}
	tf := helper.NormTF(req.Timeframe)
	if tf == "" {
		tf = "1h"
	}
	if req.Limit <= 0 {
		req.Limit = 200
	}
	displayLimit := req.DisplayLimit
	if displayLimit <= 0 {
		displayLimit = 90
	}
	if displayLimit < 30 {
		displayLimit = 30
	}
	if displayLimit > 300 {
		displayLimit = 300
	}

	res, err := s.resolver.Resolve(r.Context(), req.Symbol, tf, req.Limit, s.cfg.PreferredExchange)
	if err != nil {
		writeError(w, http.StatusBadGateway, "no kline data")
		return
	}

	swing, status := strategy.ComputeSwing(res.Series, s.cfg.SwingParams())
	if status != models.StatusSuccess {
		writeError(w, http.StatusUnprocessableEntity, string(status))
		return
	}

	n := res.Series.Len()
	from := n - displayLimit
	if from < 0 {
		from = 0
	}
	visible := res.Series.Candles[from:]

	candles := make([]chartCandle, 0, len(visible))
	shown := make(map[int64]struct{}, len(visible))
	for _, c := range visible {
		ts := c.Time.Unix()
		shown[ts] = struct{}{}
		candles = append(candles, chartCandle{Time: ts, Open: c.Open, High: c.High, Low: c.Low, Close: c.Close})
	}

	signals := make([]chartSignal, 0, len(swing.Events))
	for _, ev := range swing.Events {
		if _, ok := shown[ev.Time.Unix()]; !ok {
			continue
		}
		signals = append(signals, chartSignal{Time: ev.Time.Unix(), Signal: string(ev.Kind)})
	}
	latest := make([]chartSignal, 0, len(swing.Latest))
	for _, ev := range swing.Latest {
		latest = append(latest, chartSignal{Time: ev.Time.Unix(), Signal: string(ev.Kind)})
	}

	closes := res.Series.Closes()
	params := s.cfg.TrendParams()
	mid, up, low := indicator.Bollinger(closes, params.BBPeriod, params.BBStd)
	overlays := chartOverlays{
		RSI:       jsonSeries(indicator.RSI(closes, 14), from),
		BollMid:   jsonSeries(mid, from),
		BollUpper: jsonSeries(up, from),
		BollLower: jsonSeries(low, from),
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":        true,
		"symbol":         res.Series.Symbol,
		"timeframe":      tf,
		"candles":        candles,
		"signals":        signals,
		"latest_signals": latest,
		"overlays":       overlays,
	})
}

// announce шлёт уведомления про сигналы, которые ещё не анонсировали.
// Гард в редисе переживает рестарты, чат не получает повторов.
func (s *Server) announce(ctx context.Context, signals []models.Signal) {
	if s.guard == nil || s.notifier == nil {
		return
	}
	for _, sig := range signals {
		fresh, err := s.guard.Claim(ctx, sig)
		if err != nil {
			log.Printf("[API] notify guard: %v", err)
			return
		}
		if !fresh {
			continue
		}
		s.notifier.Send(notify.FormatSignal(sig))
	}
}
