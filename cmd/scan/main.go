package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"signal_bot/internal/exchange"
	"signal_bot/internal/helper"
	"signal_bot/internal/models"
	scanner "signal_bot/internal/modules/scanner/service"
	strategy "signal_bot/internal/modules/strategy/service"
	"signal_bot/internal/notify"
)

// Разовый скан из консоли: без конфига, без базы, сигналы в stdout.
//
//	scan -symbols BTC,ETH -timeframes 1h,4h -limit 500
func main() {
	symbols := flag.String("symbols", "BTCUSDT", "символы через запятую")
	timeframes := flag.String("timeframes", "1h", "таймфреймы через запятую")
	limit := flag.Int("limit", 500, "сколько свечей тянуть")
	workers := flag.Int("workers", scanner.DefaultWorkers, "размер пула")
	preferred := flag.String("exchange", "", "какую биржу пробовать первой")
	delay := flag.Duration("delay", 100*time.Millisecond, "пауза между запросами к биржам")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	resolver := exchange.NewResolver([]exchange.Adapter{
		exchange.NewGate(),
		exchange.NewBinanceFutures(),
		exchange.NewBinanceSpot(),
	}, *delay)

	sc := scanner.NewScanner(resolver, strategy.DefaultParams(), strategy.DefaultSwingConfig(), scanner.Options{
		Workers:    *workers,
		FetchLimit: *limit,
	})

	req := models.ScanRequest{
		Symbols:    splitList(*symbols),
		Timeframes: splitList(*timeframes),
		Limit:      *limit,
		PageSize:   100,
		Exchange:   *preferred,
	}

	resp, err := sc.Scan(ctx, req)
	if err != nil {
		log.Fatalf("scan failed: %v", err)
	}

	for sym, tfs := range resp.Statuses {
		for tf, status := range tfs {
			if status != models.StatusSuccess {
				fmt.Printf("%-12s %-4s %s\n", sym, tf, status)
			}
		}
	}
	if len(resp.Signals) == 0 {
		fmt.Println("сигналов нет")
		return
	}
	for _, sig := range resp.Signals {
		fmt.Printf("%-12s %-4s %-11s %-5s @ %s\n", sig.Symbol, sig.Timeframe, sig.Kind, sig.Direction, helper.FormatPrice(sig.EntryPrice))
		fmt.Println(notify.FormatSignal(sig))
		fmt.Println("---")
	}
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
