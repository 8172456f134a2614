package models

// TimeframeStatus — итог обработки одной пары (symbol, timeframe).
// Отказ по одному таймфрейму никогда не валит остальные.
type TimeframeStatus string

const (
	StatusSuccess          TimeframeStatus = "success"
	StatusInsufficientData TimeframeStatus = "insufficient_data"
	StatusNoClearTrend     TimeframeStatus = "no_clear_trend"
	StatusFetchError       TimeframeStatus = "fetch_error"
	StatusMalformedSeries  TimeframeStatus = "malformed_series"
	StatusSkipped          TimeframeStatus = "skipped"
)

type ScanRequest struct {
	Symbols    []string `json:"symbols"`
	Timeframes []string `json:"timeframes,omitempty"`
	Limit      int      `json:"limit,omitempty"`
	Page       int      `json:"page,omitempty"`
	PageSize   int      `json:"page_size,omitempty"`
	// Предпочтительная биржа: резолвер попробует её первой.
	Exchange string `json:"exchange,omitempty"`
}

type Pagination struct {
	Page         int `json:"page"`
	PageSize     int `json:"page_size"`
	TotalPages   int `json:"total_pages"`
	TotalSignals int `json:"total_signals"`
}

type ScanResponse struct {
	ScanID     string                                `json:"scan_id"`
	Signals    []Signal                              `json:"signals"`
	Pagination Pagination                            `json:"pagination"`
	Statuses   map[string]map[string]TimeframeStatus `json:"per_symbol_status"`
}
