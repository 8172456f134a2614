package indicator

// MACDDiff — разница быстрой и медленной EMA (линия DIFF).
func MACDDiff(src []float64, fast, slow int) []float64 {
	emaFast := EMA(src, fast)
	emaSlow := EMA(src, slow)
	out := make([]float64, len(src))
	for i := range out {
		out[i] = emaFast[i] - emaSlow[i]
	}
	return out
}

// MACD — тройка DIFF / DEA / гистограмма. Гистограмма удвоенная,
// как в классической китайской нотации: (DIFF-DEA)*2.
func MACD(src []float64, fast, slow, smooth int) (diff, dea, hist []float64) {
	diff = MACDDiff(src, fast, slow)
	dea = EMA(diff, smooth)
	hist = make([]float64, len(src))
	for i := range hist {
		hist[i] = (diff[i] - dea[i]) * 2
	}
	return diff, dea, hist
}
