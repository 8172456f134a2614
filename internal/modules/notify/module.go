package notify

import (
	"go.uber.org/fx"

	"signal_bot/internal/modules/config"
	"signal_bot/internal/notify"
	"signal_bot/pkg/logger"
)

func Module() fx.Option {
	return fx.Module("notify",
		fx.Provide(
			func(cfg *config.Config) notify.Notifier {
				if cfg.Telegram.Token == "" || cfg.Telegram.ChatID == 0 {
					logger.Info("телеграм не настроен, уведомления в stdout")
					return notify.Stdout{}
				}
				t, err := notify.NewTelegram(cfg.Telegram.Token, cfg.Telegram.ChatID)
				if err != nil {
					logger.Error("телеграм не поднялся, уведомления в stdout: %v", err)
					return notify.Stdout{}
				}
				return t
			},
		),
	)
}
