package service

import (
	"fmt"
	"sync"
	"time"
)

// UsageTracker ограничивает частоту срабатываний по одной EMA: не больше
// max сигналов за скользящее окно из window баров. Ключ включает символ,
// таймфрейм и период, чтобы разные пары друг другу не мешали.
type UsageTracker struct {
	mu     sync.Mutex
	window int
	max    int
	fires  map[string][]time.Time
}

func NewUsageTracker(windowBars, maxFires int) *UsageTracker {
	return &UsageTracker{
		window: windowBars,
		max:    maxFires,
		fires:  make(map[string][]time.Time),
	}
}

func UsageKey(symbol, timeframe string, emaPeriod int) string {
	return fmt.Sprintf("%s:%s:%d", symbol, timeframe, emaPeriod)
}

// Allow регистрирует попытку срабатывания на баре barTime и говорит,
// можно ли стрелять. Старые записи за пределами окна вычищаются.
func (u *UsageTracker) Allow(key string, barTime time.Time, barDur time.Duration) bool {
	u.mu.Lock()
	defer u.mu.Unlock()

	cutoff := barTime.Add(-time.Duration(u.window) * barDur)
	kept := u.fires[key][:0]
	for _, t := range u.fires[key] {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	u.fires[key] = kept

	if len(kept) >= u.max {
		return false
	}
	u.fires[key] = append(kept, barTime)
	return true
}

// Reset сбрасывает счётчики, нужен между независимыми сканами.
func (u *UsageTracker) Reset() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.fires = make(map[string][]time.Time)
}
