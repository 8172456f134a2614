package bootstrap

import (
	"context"
	"log"

	"go.uber.org/fx"

	bootstrap "signal_bot/internal/modules/bootstrap/service"
	"signal_bot/internal/modules/config"
)

// Module на старте достраивает watchlist из топа по обороту,
// если в конфиге не задан явный список символов.
func Module() fx.Option {
	return fx.Module("bootstrap",
		fx.Provide(
			bootstrap.NewWatchlist,
		),
		fx.Invoke(func(lc fx.Lifecycle, cfg *config.Config, wl *bootstrap.Watchlist) {
			lc.Append(fx.Hook{
				OnStart: func(ctx context.Context) error {
					if len(cfg.Symbols) > 0 {
						log.Printf("[BOOT] watchlist из конфига: %d symbols", len(cfg.Symbols))
						return nil
					}
					syms, err := wl.TopByTurnover(ctx, cfg.WatchTopN)
					if err != nil {
						log.Printf("[BOOT] watchlist error: %v", err)
						return err
					}
					cfg.Symbols = syms
					log.Printf("[BOOT] watchlist по обороту: %d symbols", len(syms))
					return nil
				},
			})
		}),
	)
}
