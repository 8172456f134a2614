package service

import (
	"math"
	"time"

	"signal_bot/internal/indicator"
	"signal_bot/internal/models"
)

// SwingConfig — пороги разворотного детектора на дивергенциях MACD.
type SwingConfig struct {
	Fast   int
	Slow   int
	Smooth int

	BarsCap  int // потолок счётчика баров с последнего пересечения гистограммы
	ShiftCap int // потолок окна сдвига при сравнении волн

	WeakenFactor float64 // насколько DIFF должен ослабнуть между барами

	SetupCountWindow int // окно подсчёта ослаблений на покупку
	BreakCountWindow int // окно подсчёта ослаблений на продажу
	RecentWindow     int // свежесть пробоя: подавляем повтор в ближних барах
}

func DefaultSwingConfig() SwingConfig {
	return SwingConfig{
		Fast:             12,
		Slow:             26,
		Smooth:           9,
		BarsCap:          50,
		ShiftCap:         55,
		WeakenFactor:     1.01,
		SetupCountWindow: 24,
		BreakCountWindow: 23,
		RecentWindow:     2,
	}
}

type SwingKind string

const (
	SwingBuy  SwingKind = "buy"
	SwingSell SwingKind = "sell"
)

type SwingEvent struct {
	Index int
	Time  time.Time
	Kind  SwingKind
}

// SwingResult — все события по серии плюс срез последнего бара.
// Breaks — подтверждения пробоем экстремума волны, для разметки графика.
type SwingResult struct {
	Events []SwingEvent
	Latest []SwingEvent
	Breaks []SwingEvent
}

// ComputeSwing считает MACD по закрытиям и прогоняет разворотную машину.
func ComputeSwing(series models.Series, cfg SwingConfig) (SwingResult, models.TimeframeStatus) {
	n := series.Len()
	if n < cfg.Slow+cfg.Smooth {
		return SwingResult{}, models.StatusInsufficientData
	}

	closes := series.Closes()
	diff, dea, hist := indicator.MACD(closes, cfg.Fast, cfg.Slow, cfg.Smooth)
	times := make([]time.Time, n)
	for i, c := range series.Candles {
		times[i] = c.Time
	}
	return computeSwing(closes, diff, dea, hist, times, cfg), models.StatusSuccess
}

// computeSwing — один проход вперёд по уже посчитанным рядам.
//
// Машина сравнивает соседние волны гистограммы MACD: цена обновляет
// экстремум, а DIFF нет — дивергенция; затем ждём ослабления DIFF на
// weakenFactor и стреляем на фронте этого ослабления. Покупка и продажа
// зеркальны, у продажи дополнительный фильтр diff > dea.
func computeSwing(closes, diff, dea, hist []float64, times []time.Time, cfg SwingConfig) SwingResult {
	n := len(closes)
	res := SwingResult{}
	if n == 0 {
		return res
	}

	condDown := make([]bool, n)
	condUp := make([]bool, n)
	for i := 1; i < n; i++ {
		if math.IsNaN(hist[i-1]) || math.IsNaN(hist[i]) {
			continue
		}
		condDown[i] = hist[i-1] >= 0 && hist[i] < 0
		condUp[i] = hist[i-1] <= 0 && hist[i] > 0
	}

	downAge := barsSinceAdjusted(condDown, cfg.BarsCap)
	upAge := barsSinceAdjusted(condUp, cfg.BarsCap)
	downWin := plusOneCapped(downAge, cfg.ShiftCap)
	upWin := plusOneCapped(upAge, cfg.ShiftCap)

	// экстремумы текущей волны: минимумы в нисходящем окне, максимумы в восходящем
	loClose := rollingMin(closes, downWin)
	loDiff := rollingMin(diff, downWin)
	hiClose := rollingMax(closes, upWin)
	hiDiff := rollingMax(diff, upWin)

	// сдвиги на ширину противоположной волны дают экстремумы прошлых волн
	loClose2 := shiftBy(loClose, upWin, cfg.ShiftCap)
	loClose3 := shiftBy(loClose2, upWin, cfg.ShiftCap)
	loDiff2 := shiftBy(loDiff, upWin, cfg.ShiftCap)
	loDiff3 := shiftBy(loDiff2, upWin, cfg.ShiftCap)
	hiClose2 := shiftBy(hiClose, downWin, cfg.ShiftCap)
	hiClose3 := shiftBy(hiClose2, downWin, cfg.ShiftCap)
	hiDiff2 := shiftBy(hiDiff, downWin, cfg.ShiftCap)
	hiDiff3 := shiftBy(hiDiff2, downWin, cfg.ShiftCap)

	divTwo := make([]bool, n)     // бычья дивергенция по двум точкам
	divThree := make([]bool, n)   // по трём точкам, средний минимум пропущен
	setup := make([]bool, n)      // активный сетап на покупку
	setupStart := make([]bool, n) // его фронт
	weakening := make([]bool, n)  // DIFF начал ослабевать
	buyEdge := make([]bool, n)

	bearDivTwo := make([]bool, n)
	bearDivThree := make([]bool, n)
	bearSetup := make([]bool, n)
	bearArmed := make([]bool, n) // фронт сетапа с фильтром diff > dea
	bearWeakening := make([]bool, n)
	sellEdge := make([]bool, n)

	buyBreak := make([]bool, n)
	buyBreakFresh := make([]bool, n)
	sellBreak := make([]bool, n)
	sellBreakFresh := make([]bool, n)

	for i := 0; i < n; i++ {
		histPrev, diffPrev := math.NaN(), math.NaN()
		if i >= 1 {
			histPrev = hist[i-1]
			diffPrev = diff[i-1]
		}

		divTwo[i] = loClose[i] < loClose2[i] &&
			loDiff[i] > loDiff2[i] &&
			histPrev < 0 && diff[i] < 0
		divThree[i] = loClose[i] < loClose3[i] &&
			loDiff[i] < loDiff2[i] &&
			loDiff[i] > loDiff3[i] &&
			histPrev < 0 && diff[i] < 0
		setup[i] = (divTwo[i] || divThree[i]) && diff[i] < 0
		if i >= 1 {
			setupStart[i] = !setup[i-1] && setup[i]
		} else {
			setupStart[i] = setup[i]
		}

		setupPrev := i >= 1 && setup[i-1]
		weakening[i] = setupPrev &&
			math.Abs(diffPrev) >= math.Abs(diff[i])*cfg.WeakenFactor
		weakeningPrev := i >= 1 && weakening[i-1]
		buyEdge[i] = !weakeningPrev && weakening[i]

		// пробой вниз: закрытие ушло под минимум волны после недавнего ослабления
		buyBreak[i] = (closes[i] < loClose2[i] || closes[i] < loClose[i]) &&
			recentAt(weakening, i, upWin[i], upAge[i]) &&
			!(i >= 1 && setupStart[i-1]) &&
			countRecent(weakening, i, cfg.SetupCountWindow) >= 1
		buyBreakFresh[i] = countWindow(buyBreak, i-cfg.RecentWindow, i-1) < 1 && buyBreak[i]

		histPos := histPrev > 0
		diffPos := diff[i] > 0
		bearDivTwo[i] = hiClose[i] > hiClose2[i] &&
			hiDiff[i] < hiDiff2[i] &&
			histPos && diffPos
		bearDivThree[i] = hiClose[i] > hiClose3[i] &&
			hiDiff[i] > hiDiff2[i] &&
			hiDiff[i] < hiDiff3[i] &&
			histPos && diffPos
		bearSetup[i] = (bearDivTwo[i] || bearDivThree[i]) && diffPos
		bearSetupPrev := i >= 1 && bearSetup[i-1]
		diffAboveDea := diff[i] > dea[i]
		bearArmed[i] = !bearSetupPrev && bearSetup[i] && diffAboveDea

		bearWeakening[i] = bearSetupPrev && diffPrev >= diff[i]*cfg.WeakenFactor
		bearWeakeningPrev := i >= 1 && bearWeakening[i-1]
		sellEdge[i] = !bearWeakeningPrev && bearWeakening[i]

		sellBreak[i] = (closes[i] > hiClose2[i] || closes[i] > hiClose[i]) &&
			recentAt(bearWeakening, i, downWin[i], downAge[i]) &&
			!(i >= 1 && bearArmed[i-1]) &&
			countRecent(bearWeakening, i, cfg.BreakCountWindow) >= 1
		sellBreakFresh[i] = countWindow(sellBreak, i-cfg.RecentWindow, i-1) < 1 && sellBreak[i]

		if buyEdge[i] {
			res.Events = append(res.Events, SwingEvent{Index: i, Time: times[i], Kind: SwingBuy})
		}
		if sellEdge[i] {
			res.Events = append(res.Events, SwingEvent{Index: i, Time: times[i], Kind: SwingSell})
		}
		if buyBreakFresh[i] {
			res.Breaks = append(res.Breaks, SwingEvent{Index: i, Time: times[i], Kind: SwingBuy})
		}
		if sellBreakFresh[i] {
			res.Breaks = append(res.Breaks, SwingEvent{Index: i, Time: times[i], Kind: SwingSell})
		}
	}

	last := n - 1
	if buyEdge[last] {
		res.Latest = append(res.Latest, SwingEvent{Index: last, Time: times[last], Kind: SwingBuy})
	}
	if sellEdge[last] {
		res.Latest = append(res.Latest, SwingEvent{Index: last, Time: times[last], Kind: SwingSell})
	}
	return res
}

// barsSinceAdjusted — бары с последнего события минус один, не меньше нуля,
// с потолком. До первого события ноль.
func barsSinceAdjusted(cond []bool, cap int) []int {
	out := make([]int, len(cond))
	last := -1
	for i := range cond {
		if cond[i] {
			last = i
		}
		v := 0
		if last >= 0 {
			v = i - last - 1
			if v < 0 {
				v = 0
			}
		}
		if v > cap {
			v = cap
		}
		out[i] = v
	}
	return out
}

func plusOneCapped(vals []int, cap int) []int {
	out := make([]int, len(vals))
	for i, v := range vals {
		if v+1 > cap {
			out[i] = cap
		} else {
			out[i] = v + 1
		}
	}
	return out
}

func rollingMin(src []float64, win []int) []float64 {
	out := make([]float64, len(src))
	for i := range src {
		s := i - win[i] + 1
		if s < 0 {
			s = 0
		}
		m := math.NaN()
		for j := s; j <= i; j++ {
			if math.IsNaN(src[j]) {
				continue
			}
			if math.IsNaN(m) || src[j] < m {
				m = src[j]
			}
		}
		out[i] = m
	}
	return out
}

func rollingMax(src []float64, win []int) []float64 {
	out := make([]float64, len(src))
	for i := range src {
		s := i - win[i] + 1
		if s < 0 {
			s = 0
		}
		m := math.NaN()
		for j := s; j <= i; j++ {
			if math.IsNaN(src[j]) {
				continue
			}
			if math.IsNaN(m) || src[j] > m {
				m = src[j]
			}
		}
		out[i] = m
	}
	return out
}

// shiftBy сдвигает ряд назад на переменное смещение, за пределами NaN.
func shiftBy(src []float64, offs []int, cap int) []float64 {
	out := make([]float64, len(src))
	for i := range src {
		out[i] = math.NaN()
		idx := offs[i]
		if idx >= 0 && idx <= cap && i-idx >= 0 {
			out[i] = src[i-idx]
		}
	}
	return out
}

// recentAt: было ли событие ровно на ширине окна или возрасте волны назад.
func recentAt(ev []bool, i, winOff, ageOff int) bool {
	if i-winOff >= 0 && ev[i-winOff] {
		return true
	}
	return i-ageOff >= 0 && ev[i-ageOff]
}

// countRecent считает события в окне из window баров, включая текущий.
func countRecent(ev []bool, i, window int) int {
	return countWindow(ev, i-window+1, i)
}

func countWindow(ev []bool, from, to int) int {
	if from < 0 {
		from = 0
	}
	cnt := 0
	for k := from; k <= to && k < len(ev); k++ {
		if ev[k] {
			cnt++
		}
	}
	return cnt
}
