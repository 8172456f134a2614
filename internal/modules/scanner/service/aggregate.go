package service

import (
	"signal_bot/internal/models"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Dedup убирает повторы сигналов по отпечатку, первый выигрывает.
// Порядок остальных сохраняется.
func Dedup(signals []models.Signal) []models.Signal {
	seen := make(map[string]struct{}, len(signals))
	out := make([]models.Signal, 0, len(signals))
	for _, s := range signals {
		fp := s.Fingerprint()
		if _, ok := seen[fp]; ok {
			continue
		}
		seen[fp] = struct{}{}
		out = append(out, s)
	}
	return out
}

// Paginate режет плоский список на страницы. Страницы с единицы,
// выход за последнюю страницу — пустой срез, не ошибка.
func Paginate(signals []models.Signal, page, pageSize int) ([]models.Signal, models.Pagination) {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	if page <= 0 {
		page = 1
	}

	total := len(signals)
	totalPages := (total + pageSize - 1) / pageSize
	if totalPages == 0 {
		totalPages = 1
	}

	p := models.Pagination{
		Page:         page,
		PageSize:     pageSize,
		TotalPages:   totalPages,
		TotalSignals: total,
	}

	from := (page - 1) * pageSize
	if from >= total {
		return []models.Signal{}, p
	}
	to := from + pageSize
	if to > total {
		to = total
	}
	return signals[from:to], p
}
