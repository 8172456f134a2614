package strategy

import (
	"go.uber.org/fx"

	"signal_bot/internal/modules/config"
	"signal_bot/internal/modules/strategy/service"
)

// Module отдаёт долгоживущий детектор для живого потока: его частотный
// лимитер должен переживать отдельные пересчёты, иначе одна EMA
// зальёт чат. Разовые сканы собирают себе детектор сами.
func Module() fx.Option {
	return fx.Module("strategy",
		fx.Provide(
			func(cfg *config.Config) *service.Detector {
				return service.NewDetector(cfg.TrendParams(), nil)
			},
		),
	)
}
