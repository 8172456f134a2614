package market

import (
	"go.uber.org/fx"

	"signal_bot/internal/exchange"
	"signal_bot/internal/modules/config"
)

// Module собирает каскад источников свечей. Порядок адаптеров и есть
// порядок фолбэка: Gate, фьючерсы Binance, спот Binance.
func Module() fx.Option {
	return fx.Module("market",
		fx.Provide(
			func(cfg *config.Config) *exchange.Resolver {
				adapters := []exchange.Adapter{
					exchange.NewGate(),
					exchange.NewBinanceFutures(),
					exchange.NewBinanceSpot(),
				}
				return exchange.NewResolver(adapters, cfg.ScanCallDelay)
			},
		),
	)
}
