package runner

import (
	"context"
	"log"
	"time"

	"go.uber.org/fx"

	"signal_bot/internal/models"
	"signal_bot/internal/modules/config"
	healthsvc "signal_bot/internal/modules/health/service"
	history "signal_bot/internal/modules/history/service"
	ws "signal_bot/internal/modules/market_ws/service"
	scanner "signal_bot/internal/modules/scanner/service"
	strategy "signal_bot/internal/modules/strategy/service"
	"signal_bot/internal/notify"
)

// Runner связывает живой поток и сканер: закрылась свеча — пересчитали
// пару, новые сигналы застолбили в гарде и отправили в чат. Поверх
// этого периодический полный скан по всем парам.
type Runner struct {
	cfg      *config.Config
	stream   *ws.Stream
	ticks    chan models.CandleTick
	scanner  *scanner.Scanner
	detector *strategy.Detector
	store    *history.SignalStore
	guard    *history.NotifyGuard
	notifier notify.Notifier
	state    *healthsvc.State

	stop context.CancelFunc
}

func New(cfg *config.Config, stream *ws.Stream, ticks chan models.CandleTick, sc *scanner.Scanner, det *strategy.Detector, store *history.SignalStore, guard *history.NotifyGuard, n notify.Notifier, state *healthsvc.State) *Runner {
	return &Runner{
		cfg:      cfg,
		stream:   stream,
		ticks:    ticks,
		scanner:  sc,
		detector: det,
		store:    store,
		guard:    guard,
		notifier: n,
		state:    state,
	}
}

func (r *Runner) Start(ctx context.Context) {
	if r.cfg.StreamEnabled {
		r.state.SetWSConnected(true)
		r.stream.Start(ctx, r.cfg.Symbols, r.cfg.Timeframes, r.ticks)
		go r.consumeTicks(ctx)
	}
	go r.periodicScan(ctx)
	r.state.SetReady(true)
}

func (r *Runner) consumeTicks(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case tick, ok := <-r.ticks:
			if !ok {
				return
			}
			r.rescanPair(ctx, tick.Symbol, tick.Timeframe)
		}
	}
}

// rescanPair пересчитывает одну пару по свежим свечам. Детектор
// долгоживущий: лимитер частоты помнит прошлые срабатывания.
func (r *Runner) rescanPair(ctx context.Context, symbol, timeframe string) {
	signals, status := r.scanner.ScanPair(ctx, symbol, timeframe, r.cfg.ScanFetchLimit, r.cfg.PreferredExchange, r.detector)
	if status != models.StatusSuccess {
		if status != models.StatusSkipped {
			log.Printf("[RUN] %s %s: %s", symbol, timeframe, status)
		}
		return
	}
	r.state.TouchScan(time.Now())
	r.publish(ctx, "live", signals)
}

func (r *Runner) periodicScan(ctx context.Context) {
	if r.cfg.ScanInterval <= 0 {
		return
	}
	t := time.NewTicker(r.cfg.ScanInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			resp, err := r.scanner.Scan(ctx, models.ScanRequest{
				Symbols:    r.cfg.Symbols,
				Timeframes: r.cfg.Timeframes,
				Exchange:   r.cfg.PreferredExchange,
				PageSize:   100,
			})
			if err != nil {
				log.Printf("[RUN] полный скан не прошёл: %v", err)
				continue
			}
			r.state.TouchScan(time.Now())
			r.publish(ctx, resp.ScanID, resp.Signals)
		}
	}
}

func (r *Runner) publish(ctx context.Context, scanID string, signals []models.Signal) {
	if len(signals) == 0 {
		return
	}
	if err := r.store.Save(ctx, scanID, signals); err != nil {
		log.Printf("[RUN] история не записалась: %v", err)
	}
	for _, sig := range signals {
		fresh, err := r.guard.Claim(ctx, sig)
		if err != nil {
			log.Printf("[RUN] notify guard: %v", err)
			return
		}
		if !fresh {
			continue
		}
		r.notifier.Send(notify.FormatSignal(sig))
	}
}

func Module() fx.Option {
	return fx.Module("runner",
		fx.Provide(
			New,
		),
		fx.Invoke(func(lc fx.Lifecycle, r *Runner) {
			lc.Append(fx.Hook{
				OnStart: func(ctx context.Context) error {
					// контекст хука живёт только на время старта,
					// рабочим горутинам нужен свой
					runCtx, cancel := context.WithCancel(context.Background())
					r.stop = cancel
					r.Start(runCtx)
					return nil
				},
				OnStop: func(context.Context) error {
					if r.stop != nil {
						r.stop()
					}
					return nil
				},
			})
		}),
	)
}
