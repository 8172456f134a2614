package exchange

import (
	"context"
	"log"
	"time"

	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"

	"signal_bot/internal/models"
)

// ResolveResult — удачно найденная серия плюс откуда она пришла.
type ResolveResult struct {
	Series models.Series
	Source string   // имя адаптера, отдавшего данные
	Tried  []string // весь пройденный каскад, для диагностики
}

// Resolver ходит по цепочке бирж пока кто-то не отдаст свечи.
// Пустой ответ трактуем как "символа может не быть в таком написании"
// и пробуем альтернативные написания, транспортная ошибка — идём
// к следующей бирже.
type Resolver struct {
	adapters  []Adapter
	callDelay time.Duration
}

func NewResolver(adapters []Adapter, callDelay time.Duration) *Resolver {
	return &Resolver{adapters: adapters, callDelay: callDelay}
}

func (r *Resolver) Resolve(ctx context.Context, symbol, timeframe string, limit int, preferred string) (ResolveResult, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "exchange.Resolve")
	defer span.Finish()
	span.SetTag("symbol", symbol)
	span.SetTag("timeframe", timeframe)

	canonical := CanonicalSymbol(symbol)
	spellings := CandidateSpellings(symbol)

	res := ResolveResult{}
	var lastErr error
	for _, ad := range r.orderFor(preferred) {
	spellingLoop:
		for _, sp := range spellings {
			series, err := r.fetchOne(ctx, ad, sp, timeframe, limit)
			switch {
			case err == nil && series.Len() > 0:
				series.Symbol = canonical
				if err := series.Normalize(); err != nil {
					log.Printf("[RESOLVE] %s %s: отбраковали серию от %s: %v", canonical, timeframe, ad.Name(), err)
					lastErr = err
					continue
				}
				res.Series = series
				res.Source = ad.Name()
				res.Tried = append(res.Tried, ad.Name())
				return res, nil
			case err == nil:
				// пустой ответ: пробуем другое написание символа
				continue
			case errors.Is(err, ErrSymbolNotFound):
				continue
			case ctx.Err() != nil:
				return res, ctx.Err()
			default:
				// транспортная ошибка, биржа нам сейчас не поможет
				log.Printf("[RESOLVE] %s %s: %s недоступен: %v", canonical, timeframe, ad.Name(), err)
				lastErr = err
				break spellingLoop
			}
		}
		res.Tried = append(res.Tried, ad.Name())
	}

	if lastErr != nil {
		return res, errors.Wrapf(lastErr, "resolve %s %s", canonical, timeframe)
	}
	return res, errors.Wrapf(ErrNoData, "resolve %s %s: tried %v", canonical, timeframe, res.Tried)
}

func (r *Resolver) fetchOne(ctx context.Context, ad Adapter, symbol, timeframe string, limit int) (models.Series, error) {
	if r.callDelay > 0 {
		select {
		case <-ctx.Done():
			return models.Series{}, ctx.Err()
		case <-time.After(r.callDelay):
		}
	}
	return ad.Fetch(ctx, symbol, timeframe, limit)
}

// orderFor ставит предпочитаемую биржу первой, остальные в штатном порядке каскада.
func (r *Resolver) orderFor(preferred string) []Adapter {
	if preferred == "" {
		return r.adapters
	}
	ordered := make([]Adapter, 0, len(r.adapters))
	for _, ad := range r.adapters {
		if ad.Name() == preferred {
			ordered = append(ordered, ad)
		}
	}
	for _, ad := range r.adapters {
		if ad.Name() != preferred {
			ordered = append(ordered, ad)
		}
	}
	return ordered
}
