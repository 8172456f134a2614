package service

import (
	"testing"
	"time"
)

// Синтетика: десять баров роста, потом слом с двумя волнами гистограммы
// вниз. Цена обновляет минимум, DIFF нет, затем DIFF ослабевает — на
// фронте ослабления ждём ровно одну покупку на последнем баре.
func swingScenario() (closes, diff, dea, hist []float64, times []time.Time) {
	closes = []float64{110, 109, 108, 107, 106, 105, 104, 103, 102, 101, 100, 99, 98, 98.5, 97.5, 97.0, 97.2}
	hist = []float64{0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5, -0.3, -0.25, -0.15, 0.05, -0.08, -0.06, -0.04}
	diff = []float64{1, 1, 1, 1, 1, 1, 1, 1, 1, 1, -1, -1.2, -1.3, -0.9, -0.5, -0.45, -0.44}
	dea = make([]float64, len(diff))
	for i := range diff {
		dea[i] = diff[i] - hist[i]/2
	}
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	times = make([]time.Time, len(closes))
	for i := range times {
		times[i] = start.Add(time.Duration(i) * time.Hour)
	}
	return
}

func TestSwingBuyEdge(t *testing.T) {
	closes, diff, dea, hist, times := swingScenario()
	res := computeSwing(closes, diff, dea, hist, times, DefaultSwingConfig())

	if len(res.Events) != 1 {
		t.Fatalf("events = %d (%v), want exactly 1", len(res.Events), res.Events)
	}
	ev := res.Events[0]
	if ev.Kind != SwingBuy {
		t.Fatalf("kind = %s, want buy", ev.Kind)
	}
	if ev.Index != len(closes)-1 {
		t.Fatalf("index = %d, want last bar %d", ev.Index, len(closes)-1)
	}
	if len(res.Latest) != 1 || res.Latest[0].Kind != SwingBuy {
		t.Fatalf("latest = %v, want the same buy", res.Latest)
	}
}

func TestSwingSellEdgeMirror(t *testing.T) {
	closes, diff, dea, hist, times := swingScenario()
	for i := range closes {
		closes[i] = -closes[i]
		diff[i] = -diff[i]
		dea[i] = -dea[i]
		hist[i] = -hist[i]
	}
	res := computeSwing(closes, diff, dea, hist, times, DefaultSwingConfig())

	if len(res.Events) != 1 {
		t.Fatalf("events = %d (%v), want exactly 1", len(res.Events), res.Events)
	}
	if res.Events[0].Kind != SwingSell {
		t.Fatalf("kind = %s, want sell", res.Events[0].Kind)
	}
	if res.Events[0].Index != len(closes)-1 {
		t.Fatalf("index = %d, want last bar", res.Events[0].Index)
	}
}

func TestSwingFlatSeriesNoEvents(t *testing.T) {
	n := 60
	closes := make([]float64, n)
	diff := make([]float64, n)
	dea := make([]float64, n)
	hist := make([]float64, n)
	times := make([]time.Time, n)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		closes[i] = 100
		times[i] = start.Add(time.Duration(i) * time.Hour)
	}
	res := computeSwing(closes, diff, dea, hist, times, DefaultSwingConfig())
	if len(res.Events) != 0 {
		t.Fatalf("events = %v, want none on flat series", res.Events)
	}
}

func TestSwingDeterministic(t *testing.T) {
	closes, diff, dea, hist, times := swingScenario()
	a := computeSwing(closes, diff, dea, hist, times, DefaultSwingConfig())
	b := computeSwing(closes, diff, dea, hist, times, DefaultSwingConfig())
	if len(a.Events) != len(b.Events) {
		t.Fatal("two runs over the same input disagree")
	}
	for i := range a.Events {
		if a.Events[i] != b.Events[i] {
			t.Fatalf("event %d differs: %v vs %v", i, a.Events[i], b.Events[i])
		}
	}
}

func TestBarsSinceAdjusted(t *testing.T) {
	cond := []bool{false, false, true, false, false, false, true, false}
	got := barsSinceAdjusted(cond, 50)
	want := []int{0, 0, 0, 0, 1, 2, 0, 0}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got[%d] = %d, want %d (full %v)", i, got[i], want[i], got)
		}
	}
}

func TestBarsSinceCap(t *testing.T) {
	cond := make([]bool, 100)
	cond[0] = true
	got := barsSinceAdjusted(cond, 50)
	if got[99] != 50 {
		t.Fatalf("got[99] = %d, want cap 50", got[99])
	}
}
