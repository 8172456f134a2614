package service

import (
	"context"
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"

	"signal_bot/internal/exchange"
	"signal_bot/internal/helper"
	"signal_bot/internal/models"
	strategy "signal_bot/internal/modules/strategy/service"
)

const (
	DefaultWorkers    = 8
	defaultFetchLimit = 500
)

// CandleSource — то, что умеет резолвер. Интерфейс нужен тестам.
type CandleSource interface {
	Resolve(ctx context.Context, symbol, timeframe string, limit int, preferred string) (exchange.ResolveResult, error)
}

type Options struct {
	Workers    int
	FetchLimit int
}

// Scanner раздаёт пары символ-таймфрейм пулу воркеров, собирает
// сигналы и статусы. Падение одной пары не трогает остальные.
type Scanner struct {
	source CandleSource
	params strategy.Params
	swing  strategy.SwingConfig
	opts   Options
}

func NewScanner(source CandleSource, params strategy.Params, swing strategy.SwingConfig, opts Options) *Scanner {
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}
	if opts.FetchLimit <= 0 {
		opts.FetchLimit = defaultFetchLimit
	}
	return &Scanner{source: source, params: params, swing: swing, opts: opts}
}

type task struct {
	idx       int
	symbol    string
	timeframe string
}

type taskResult struct {
	signals []models.Signal
	status  models.TimeframeStatus
}

// Scan обрабатывает запрос целиком: пул воркеров по парам, дедуп,
// пагинация. Результат детерминирован порядком запроса, не порядком
// завершения воркеров.
func (s *Scanner) Scan(ctx context.Context, req models.ScanRequest) (models.ScanResponse, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "scanner.Scan")
	defer span.Finish()

	scanID := uuid.NewString()
	span.SetTag("scan_id", scanID)

	timeframes := make([]string, 0, len(req.Timeframes))
	for _, tf := range req.Timeframes {
		timeframes = append(timeframes, helper.NormTF(tf))
	}

	tasks := make([]task, 0, len(req.Symbols)*len(timeframes))
	for _, sym := range req.Symbols {
		for _, tf := range timeframes {
			tasks = append(tasks, task{idx: len(tasks), symbol: exchange.CanonicalSymbol(sym), timeframe: tf})
		}
	}

	limit := req.Limit
	if limit <= 0 {
		limit = s.opts.FetchLimit
	}

	// каждому скану свой детектор: частотный лимитер не должен
	// протекать между независимыми запросами
	det := strategy.NewDetector(s.params, nil)

	results := make([]taskResult, len(tasks))
	if s.opts.Workers <= 1 || len(tasks) <= 1 {
		for _, t := range tasks {
			if ctx.Err() != nil {
				return models.ScanResponse{}, ctx.Err()
			}
			results[t.idx].signals, results[t.idx].status = s.ScanPair(ctx, t.symbol, t.timeframe, limit, req.Exchange, det)
		}
	} else {
		s.runPool(ctx, tasks, results, limit, req.Exchange, det)
		if ctx.Err() != nil {
			return models.ScanResponse{}, ctx.Err()
		}
	}

	statuses := make(map[string]map[string]models.TimeframeStatus)
	var all []models.Signal
	for i, t := range tasks {
		if statuses[t.symbol] == nil {
			statuses[t.symbol] = make(map[string]models.TimeframeStatus)
		}
		statuses[t.symbol][t.timeframe] = results[i].status
		all = append(all, results[i].signals...)
	}

	deduped := Dedup(all)
	pageSignals, pagination := Paginate(deduped, req.Page, req.PageSize)

	return models.ScanResponse{
		ScanID:     scanID,
		Signals:    pageSignals,
		Pagination: pagination,
		Statuses:   statuses,
	}, nil
}

func (s *Scanner) runPool(ctx context.Context, tasks []task, results []taskResult, limit int, preferred string, det *strategy.Detector) {
	workers := s.opts.Workers
	if workers > len(tasks) {
		workers = len(tasks)
	}

	queue := make(chan task)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for t := range queue {
				results[t.idx].signals, results[t.idx].status = s.ScanPair(ctx, t.symbol, t.timeframe, limit, preferred, det)
			}
		}()
	}

feed:
	for _, t := range tasks {
		select {
		case <-ctx.Done():
			break feed
		case queue <- t:
		}
	}
	close(queue)
	wg.Wait()
}

// ScanPair обрабатывает одну пару: свечи, трендовый детектор,
// разворотная машина. Статус описывает что случилось именно с ней.
func (s *Scanner) ScanPair(ctx context.Context, symbol, timeframe string, limit int, preferred string, det *strategy.Detector) ([]models.Signal, models.TimeframeStatus) {
	if ctx.Err() != nil {
		return nil, models.StatusSkipped
	}

	res, err := s.source.Resolve(ctx, symbol, timeframe, limit, preferred)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrMalformedSeries):
			log.Printf("[SCAN] %s %s: кривая серия: %v", symbol, timeframe, err)
			return nil, models.StatusMalformedSeries
		case ctx.Err() != nil:
			return nil, models.StatusSkipped
		default:
			log.Printf("[SCAN] %s %s: свечи не добыли: %v", symbol, timeframe, err)
			return nil, models.StatusFetchError
		}
	}

	signals, status := det.Evaluate(res.Series)
	if status != models.StatusSuccess && status != models.StatusNoClearTrend {
		return nil, status
	}

	swing, swStatus := strategy.ComputeSwing(res.Series, s.swing)
	if swStatus == models.StatusSuccess {
		signals = append(signals, swingToSignals(res.Series, swing.Latest)...)
	}
	if len(signals) == 0 && status == models.StatusNoClearTrend {
		return nil, models.StatusNoClearTrend
	}
	s.enrichTakeProfit(ctx, symbol, timeframe, preferred, signals)
	return signals, models.StatusSuccess
}

func swingToSignals(series models.Series, events []strategy.SwingEvent) []models.Signal {
	if series.Len() == 0 {
		return nil
	}
	last := series.Last()
	out := make([]models.Signal, 0, len(events))
	for _, ev := range events {
		kind := models.SignalSwingBuy
		dir := models.DirectionLong
		if ev.Kind == strategy.SwingSell {
			kind = models.SignalSwingSell
			dir = models.DirectionShort
		}
		out = append(out, models.Signal{
			Symbol:     series.Symbol,
			Timeframe:  series.Timeframe,
			Kind:       kind,
			Direction:  dir,
			EntryPrice: last.Close,
			Strength:   "normal",
			Time:       ev.Time,
			Reason:     "разворот по дивергенции MACD",
		})
	}
	return out
}
