package scanner

import (
	"go.uber.org/fx"

	"signal_bot/internal/exchange"
	"signal_bot/internal/modules/config"
	"signal_bot/internal/modules/scanner/service"
)

func Module() fx.Option {
	return fx.Module("scanner",
		fx.Provide(
			func(cfg *config.Config, resolver *exchange.Resolver) *service.Scanner {
				return service.NewScanner(resolver, cfg.TrendParams(), cfg.SwingParams(), service.Options{
					Workers:    cfg.ScanWorkers,
					FetchLimit: cfg.ScanFetchLimit,
				})
			},
		),
	)
}
