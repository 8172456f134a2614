package history

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"signal_bot/internal/modules/config"
	"signal_bot/internal/modules/history/service"
	"signal_bot/pkg/db"
)

func Module() fx.Option {
	return fx.Module("history",
		fx.Provide(
			func(tx *db.PgTxManager) *service.SignalStore {
				return service.NewSignalStore(tx)
			},
			func(lc fx.Lifecycle, cfg *config.Config) *redis.Client {
				rdb := redis.NewClient(&redis.Options{
					Addr:     cfg.Redis.Addr,
					Password: cfg.Redis.Password,
					DB:       cfg.Redis.DB,
				})
				lc.Append(fx.Hook{
					OnStart: func(ctx context.Context) error {
						return rdb.Ping(ctx).Err()
					},
					OnStop: func(context.Context) error {
						return rdb.Close()
					},
				})
				return rdb
			},
			func(rdb *redis.Client) *service.NotifyGuard {
				return service.NewNotifyGuard(rdb, 24*time.Hour)
			},
		),
		fx.Invoke(func(lc fx.Lifecycle, store *service.SignalStore) {
			lc.Append(fx.Hook{
				OnStart: func(ctx context.Context) error {
					return store.EnsureSchema(ctx)
				},
			})
		}),
	)
}
