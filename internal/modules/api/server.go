package api

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/fx"

	"signal_bot/internal/exchange"
	"signal_bot/internal/modules/config"
	"signal_bot/internal/modules/health/service"
	history "signal_bot/internal/modules/history/service"
	scanner "signal_bot/internal/modules/scanner/service"
	"signal_bot/internal/notify"
)

// Server — публичное HTTP API: сканы по запросу, список символов,
// данные для графика. Админские ручки живут отдельно в health.
type Server struct {
	cfg      *config.Config
	scanner  *scanner.Scanner
	resolver *exchange.Resolver
	store    *history.SignalStore
	guard    *history.NotifyGuard
	notifier notify.Notifier
	state    *service.State
}

func NewServer(cfg *config.Config, sc *scanner.Scanner, resolver *exchange.Resolver, store *history.SignalStore, guard *history.NotifyGuard, n notify.Notifier, state *service.State) *Server {
	return &Server{
		cfg:      cfg,
		scanner:  sc,
		resolver: resolver,
		store:    store,
		guard:    guard,
		notifier: n,
		state:    state,
	}
}

func (s *Server) Mux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/signals", s.handleSignals)
	mux.HandleFunc("/api/symbols", s.handleSymbols)
	mux.HandleFunc("/api/history", s.handleHistory)
	mux.HandleFunc("/yoyo/api/chart", s.handleChart)
	return mux
}

func RunHTTP(lc fx.Lifecycle, cfg *config.Config, s *Server) {
	addr := fmt.Sprintf("%s:%d", cfg.Service.Host, cfg.Service.PublicPort)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Mux(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", addr)
			if err != nil {
				return err
			}
			go func() { _ = srv.Serve(ln) }()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}

func Module() fx.Option {
	return fx.Module("api",
		fx.Provide(
			NewServer,
		),
		fx.Invoke(RunHTTP),
	)
}
