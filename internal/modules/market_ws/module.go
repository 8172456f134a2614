package market_ws

import (
	"go.uber.org/fx"

	"signal_bot/internal/models"
	"signal_bot/internal/modules/market_ws/service"
)

// Module поднимает стример закрытых свечей Binance.
// Сам запуск живёт в runner: ему нужен watchlist, который
// bootstrap собирает уже на старте приложения.
func Module() fx.Option {
	return fx.Module("market_ws",
		fx.Provide(
			service.NewStream,
			func() chan models.CandleTick {
				// общий буфер для свечей
				return make(chan models.CandleTick, 1024)
			},
		),
	)
}
