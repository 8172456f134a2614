package service

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"signal_bot/internal/models"
)

// NotifyGuard помнит в редисе, про какие сигналы мы уже писали в чат.
// Claim атомарен через SET NX: кто первым застолбил отпечаток, тот и шлёт.
type NotifyGuard struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewNotifyGuard(rdb *redis.Client, ttl time.Duration) *NotifyGuard {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &NotifyGuard{rdb: rdb, ttl: ttl}
}

func guardKey(s models.Signal) string {
	return "notified:" + s.Fingerprint()
}

// Claim возвращает true, если сигнал ещё не анонсировали.
func (g *NotifyGuard) Claim(ctx context.Context, s models.Signal) (bool, error) {
	ok, err := g.rdb.SetNX(ctx, guardKey(s), time.Now().UTC().Format(time.RFC3339), g.ttl).Result()
	if err != nil {
		return false, errors.Wrap(err, "notify guard claim")
	}
	return ok, nil
}

// Release отпускает отпечаток, нужен если отправка не удалась.
func (g *NotifyGuard) Release(ctx context.Context, s models.Signal) error {
	return errors.Wrap(g.rdb.Del(ctx, guardKey(s)).Err(), "notify guard release")
}
