package main

import (
	"context"
	"log"
	"os"
	"strconv"

	"signal_bot/internal/modules/api"
	"signal_bot/internal/modules/bootstrap"
	"signal_bot/internal/modules/config"
	"signal_bot/internal/modules/health"
	"signal_bot/internal/modules/history"
	"signal_bot/internal/modules/market"
	"signal_bot/internal/modules/market_ws"
	notifymod "signal_bot/internal/modules/notify"
	"signal_bot/internal/modules/postgres"
	"signal_bot/internal/modules/scanner"
	"signal_bot/internal/modules/strategy"
	"signal_bot/internal/runner"
	"signal_bot/pkg/logger"
	"signal_bot/pkg/tracing"

	"go.uber.org/fx"
)

func main() {
	if err := logger.Init(); err != nil {
		log.Fatal(err)
	}
	logger.SetServiceName("signal_bot")

	if host := os.Getenv("JAEGER_HOST"); host != "" {
		port, _ := strconv.Atoi(os.Getenv("JAEGER_PORT"))
		if port == 0 {
			port = 6831
		}
		tracing.SetServiceName("signal_bot")
		_, closeTracer, err := tracing.InitTracer(tracing.Config{Host: host, Port: port})
		if err != nil {
			log.Fatal(err)
		}
		defer closeTracer()
	}

	app := fx.New(
		fx.Provide(
			func() context.Context {
				return context.Background()
			},
		),
		config.Module(),
		postgres.Module(),
		history.Module(),
		market.Module(),
		market_ws.Module(),
		strategy.Module(),
		scanner.Module(),
		notifymod.Module(),
		bootstrap.Module(),
		health.Module(),
		api.Module(),
		runner.Module(),
	)
	app.Run()
}
