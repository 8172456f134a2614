package exchange

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"signal_bot/internal/models"
)

// Типизация отказов: "пары нет" — постоянная ошибка, этот адаптер для
// этого символа ретраить бессмысленно; остальное — транспорт, уходим на
// следующий источник.
var (
	ErrSymbolNotFound       = errors.New("symbol not found")
	ErrUnsupportedTimeframe = errors.New("unsupported timeframe")
	ErrNoData               = errors.New("no candle data from any source")
)

const requestTimeout = 15 * time.Second

type Adapter interface {
	Name() string
	// Fetch возвращает серию от старых к новым. Пустая серия без ошибки —
	// биржа ответила корректно, но данных нет.
	Fetch(ctx context.Context, symbol, timeframe string, limit int) (models.Series, error)
}
