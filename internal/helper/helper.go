package helper

import (
	"fmt"
	"strings"
	"time"
)

// NormTF приводит сырой токен таймфрейма к каноническому виду
// (1m,3m,5m,15m,1h,4h,8h,12h,1d,3d,1w).
func NormTF(raw string) string {
	s := strings.TrimSpace(strings.ToLower(raw))
	s = strings.TrimPrefix(s, "kline_")
	switch s {
	case "60m", "1h":
		return "1h"
	case "24h", "1d":
		return "1d"
	case "7d", "1w":
		return "1w"
	default:
		return s
	}
}

func TFDuration(tf string) time.Duration {
	switch NormTF(tf) {
	case "1m":
		return time.Minute
	case "3m":
		return 3 * time.Minute
	case "5m":
		return 5 * time.Minute
	case "15m":
		return 15 * time.Minute
	case "30m":
		return 30 * time.Minute
	case "1h":
		return time.Hour
	case "4h":
		return 4 * time.Hour
	case "8h":
		return 8 * time.Hour
	case "12h":
		return 12 * time.Hour
	case "1d":
		return 24 * time.Hour
	case "3d":
		return 72 * time.Hour
	case "1w":
		return 7 * 24 * time.Hour
	default:
		return 0 // неизвестный токен
	}
}

// FormatPrice — человекочитаемая цена: чем дешевле монета, тем больше знаков.
func FormatPrice(price float64) string {
	switch {
	case price == 0:
		return "0"
	case price >= 1:
		return fmt.Sprintf("%.4f", price)
	case price >= 0.01:
		return fmt.Sprintf("%.6f", price)
	case price >= 0.0001:
		return fmt.Sprintf("%.8f", price)
	default:
		return fmt.Sprintf("%.10f", price)
	}
}
