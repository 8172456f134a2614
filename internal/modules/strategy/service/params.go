package service

// Params — настройки трендового детектора. Периоды EMA из ряда Фибоначчи,
// 377 считаем только когда истории точно хватает.
type Params struct {
	EMAShort int
	EMAMid   int
	EMALong  int
	EMAExtra int

	PullbackTolerance float64 // близость цены к EMA для отката
	VolumeWindow      int     // окно среднего объёма
	SRWindow          int     // окно поиска локальных экстремумов
	SRTolerance       float64 // близость к уровню поддержки/сопротивления

	CrossoverStrongGap float64 // разрыв EMA после пересечения, с которого сигнал strong

	LimiterWindowBars int // окно частотного лимитера в барах
	LimiterMaxFires   int // сколько раз одна EMA может стрельнуть за окно

	BBPeriod int
	BBStd    float64
}

func DefaultParams() Params {
	return Params{
		EMAShort:           89,
		EMAMid:             144,
		EMALong:            233,
		EMAExtra:           377,
		PullbackTolerance:  0.10,
		VolumeWindow:       20,
		SRWindow:           20,
		SRTolerance:        0.03,
		CrossoverStrongGap: 0.01,
		LimiterWindowBars:  10,
		LimiterMaxFires:    2,
		BBPeriod:           20,
		BBStd:              2,
	}
}
