package service

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"

	"signal_bot/internal/models"
	"signal_bot/pkg/db"
)

const signalsSchema = `
CREATE TABLE IF NOT EXISTS signals (
    id            BIGSERIAL PRIMARY KEY,
    scan_id       TEXT        NOT NULL,
    symbol        TEXT        NOT NULL,
    timeframe     TEXT        NOT NULL,
    kind          TEXT        NOT NULL,
    direction     TEXT        NOT NULL,
    entry_price   DOUBLE PRECISION NOT NULL,
    trigger_level DOUBLE PRECISION,
    take_profit   DOUBLE PRECISION,
    profit_pct    DOUBLE PRECISION,
    strength      TEXT        NOT NULL DEFAULT 'normal',
    ema_period    INT         NOT NULL DEFAULT 0,
    reason        TEXT        NOT NULL DEFAULT '',
    bar_time      TIMESTAMPTZ NOT NULL,
    created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
    fingerprint   TEXT        NOT NULL,
    UNIQUE (scan_id, fingerprint)
);
CREATE INDEX IF NOT EXISTS signals_symbol_idx ON signals (symbol, bar_time DESC);
`

// SignalStore пишет историю сигналов в постгрес поверх транзакционного менеджера.
type SignalStore struct {
	tx db.TxManager
}

func NewSignalStore(tx db.TxManager) *SignalStore {
	return &SignalStore{tx: tx}
}

func (s *SignalStore) EnsureSchema(ctx context.Context) error {
	return s.tx.RunMaster(ctx, func(ctxTx context.Context, tx pgx.Tx) error {
		_, err := tx.Exec(ctxTx, signalsSchema)
		return errors.Wrap(err, "ensure signals schema")
	})
}

// Save кладёт пачку сигналов одного скана одной транзакцией.
// Повтор того же отпечатка внутри скана тихо пропускаем.
func (s *SignalStore) Save(ctx context.Context, scanID string, signals []models.Signal) error {
	if len(signals) == 0 {
		return nil
	}
	return s.tx.RunMaster(ctx, func(ctxTx context.Context, tx pgx.Tx) error {
		for _, sig := range signals {
			_, err := tx.Exec(ctxTx, `
				INSERT INTO signals (scan_id, symbol, timeframe, kind, direction, entry_price, trigger_level, take_profit, profit_pct, strength, ema_period, reason, bar_time, fingerprint)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
				ON CONFLICT (scan_id, fingerprint) DO NOTHING`,
				scanID, sig.Symbol, sig.Timeframe, string(sig.Kind), string(sig.Direction),
				sig.EntryPrice, sig.TriggerLevel, sig.TakeProfit, sig.ProfitPct,
				sig.Strength, sig.EMAPeriod, sig.Reason, sig.Time, sig.Fingerprint(),
			)
			if err != nil {
				return errors.Wrapf(err, "insert signal %s", sig.Fingerprint())
			}
		}
		return nil
	})
}

// Recent отдаёт последние сигналы по символу, свежие первыми.
func (s *SignalStore) Recent(ctx context.Context, symbol string, limit int) ([]models.Signal, error) {
	if limit <= 0 {
		limit = 50
	}
	var out []models.Signal
	err := s.tx.RunMaster(ctx, func(ctxTx context.Context, tx pgx.Tx) error {
		rows, err := tx.Query(ctxTx, `
			SELECT symbol, timeframe, kind, direction, entry_price, trigger_level, take_profit, profit_pct, strength, ema_period, reason, bar_time
			FROM signals
			WHERE symbol = $1
			ORDER BY bar_time DESC
			LIMIT $2`, symbol, limit)
		if err != nil {
			return errors.Wrap(err, "select recent signals")
		}
		defer rows.Close()

		for rows.Next() {
			var sig models.Signal
			var kind, dir string
			if err := rows.Scan(&sig.Symbol, &sig.Timeframe, &kind, &dir, &sig.EntryPrice, &sig.TriggerLevel, &sig.TakeProfit, &sig.ProfitPct, &sig.Strength, &sig.EMAPeriod, &sig.Reason, &sig.Time); err != nil {
				return errors.Wrap(err, "scan signal row")
			}
			sig.Kind = models.SignalKind(kind)
			sig.Direction = models.Direction(dir)
			out = append(out, sig)
		}
		return rows.Err()
	})
	return out, err
}
