package service

import (
	"context"
	"encoding/json"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"signal_bot/internal/helper"
	"signal_bot/internal/models"
)

const wsBase = "wss://fstream.binance.com/stream?streams="

// Stream — живой поток закрытых свечей с фьючерсов Binance.
// Одно соединение на таймфрейм, пачка символов в combined stream.
type Stream struct {
	wsDialer *websocket.Dialer
}

func NewStream() *Stream {
	return &Stream{wsDialer: &websocket.Dialer{}}
}

// Start поднимает по горутине на таймфрейм и льёт тики в out.
func (s *Stream) Start(ctx context.Context, symbols, timeframes []string, out chan<- models.CandleTick) {
	if len(symbols) == 0 {
		log.Println("[WS] пустой watchlist, стример не запущен")
		return
	}
	for _, tf := range timeframes {
		go s.runTimeframe(ctx, symbols, helper.NormTF(tf), out)
	}
}

func streamURL(symbols []string, timeframe string) string {
	parts := make([]string, 0, len(symbols))
	for _, sym := range symbols {
		parts = append(parts, strings.ToLower(sym)+"@kline_"+timeframe)
	}
	return wsBase + strings.Join(parts, "/")
}

func (s *Stream) runTimeframe(ctx context.Context, symbols []string, timeframe string, out chan<- models.CandleTick) {
	url := streamURL(symbols, timeframe)

	for {
		log.Printf("[WS] connect kline_%s, %d symbols", timeframe, len(symbols))
		conn, _, err := s.wsDialer.Dial(url, nil)
		if err != nil {
			log.Printf("[WS] dial error kline_%s: %v", timeframe, err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Second):
			}
			continue
		}

		// keepalive ping, иначе Binance рвёт соединение; read-loop
		// гасит пингер перед переподключением
		stopPing := make(chan struct{})
		go keepAlive(ctx, conn, stopPing)

		// основной read-loop
		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				log.Printf("[WS] read error kline_%s: %v", timeframe, err)
				_ = conn.Close()
				close(stopPing)
				break
			}

			tick, ok := parseKlineFrame(msg)
			if !ok {
				continue
			}

			select {
			case out <- tick:
			case <-ctx.Done():
				_ = conn.Close()
				close(stopPing)
				return
			}
		}

		select {
		case <-ctx.Done():
			return
		default:
			time.Sleep(time.Second)
		}
	}
}

func keepAlive(ctx context.Context, conn *websocket.Conn, stop <-chan struct{}) {
	t := time.NewTicker(3 * time.Minute)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-stop:
			return
		case <-t.C:
			_ = conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second))
		}
	}
}

// parseKlineFrame разбирает combined-фрейм Binance. Нужны только
// закрытые свечи, промежуточные обновления бара пропускаем.
func parseKlineFrame(msg []byte) (models.CandleTick, bool) {
	var frame struct {
		Data struct {
			Event  string `json:"e"`
			Symbol string `json:"s"`
			Kline  struct {
				OpenTime int64  `json:"t"`
				Interval string `json:"i"`
				Open     string `json:"o"`
				High     string `json:"h"`
				Low      string `json:"l"`
				Close    string `json:"c"`
				Volume   string `json:"v"`
				Closed   bool   `json:"x"`
			} `json:"k"`
		} `json:"data"`
	}
	if err := json.Unmarshal(msg, &frame); err != nil {
		return models.CandleTick{}, false
	}
	k := frame.Data.Kline
	if frame.Data.Event != "kline" || !k.Closed {
		return models.CandleTick{}, false
	}

	open, err1 := strconv.ParseFloat(k.Open, 64)
	high, err2 := strconv.ParseFloat(k.High, 64)
	low, err3 := strconv.ParseFloat(k.Low, 64)
	closep, err4 := strconv.ParseFloat(k.Close, 64)
	vol, err5 := strconv.ParseFloat(k.Volume, 64)
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil || err5 != nil {
		return models.CandleTick{}, false
	}
	if closep <= 0 {
		return models.CandleTick{}, false
	}

	return models.CandleTick{
		Symbol:    frame.Data.Symbol,
		Timeframe: k.Interval,
		Candle: models.Candle{
			Time:   time.UnixMilli(k.OpenTime).UTC(),
			Open:   open,
			High:   high,
			Low:    low,
			Close:  closep,
			Volume: vol,
		},
	}, true
}
