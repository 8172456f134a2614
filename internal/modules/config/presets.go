package config

import (
	"log"
	"os"

	"github.com/spf13/viper"

	strategy "signal_bot/internal/modules/strategy/service"
)

// Пресеты тюнинга детектора живут отдельно от основного конфига:
// configs/presets.yaml, секция на пресет, выбор через env PRESET.
// Файл опционален, без него работаем на дефолтах из Config.

const presetENV = "PRESET"

func (c *Config) loadPreset(v *viper.Viper) {
	name := os.Getenv(presetENV)
	if name == "" {
		return
	}
	v.SetConfigName("presets")
	v.SetConfigType("yaml")
	v.AddConfigPath("configs")
	if err := v.ReadInConfig(); err != nil {
		log.Printf("[CONFIG] presets.yaml не прочитали: %v", err)
		return
	}
	sub := v.Sub(name)
	if sub == nil {
		log.Printf("[CONFIG] пресет %q не найден", name)
		return
	}

	sub.SetDefault("ema_short", c.EMAShort)
	sub.SetDefault("ema_mid", c.EMAMid)
	sub.SetDefault("ema_long", c.EMALong)
	sub.SetDefault("ema_extra", c.EMAExtra)
	sub.SetDefault("pullback_tolerance", c.PullbackTolerance)
	sub.SetDefault("sr_tolerance", c.SRTolerance)
	sub.SetDefault("crossover_strong_gap", c.CrossoverStrongGap)
	sub.SetDefault("limiter_window_bars", c.LimiterWindowBars)
	sub.SetDefault("limiter_max_fires", c.LimiterMaxFires)
	sub.SetDefault("swing_weaken_factor", c.SwingWeakenFactor)

	c.EMAShort = sub.GetInt("ema_short")
	c.EMAMid = sub.GetInt("ema_mid")
	c.EMALong = sub.GetInt("ema_long")
	c.EMAExtra = sub.GetInt("ema_extra")
	c.PullbackTolerance = sub.GetFloat64("pullback_tolerance")
	c.SRTolerance = sub.GetFloat64("sr_tolerance")
	c.CrossoverStrongGap = sub.GetFloat64("crossover_strong_gap")
	c.LimiterWindowBars = sub.GetInt("limiter_window_bars")
	c.LimiterMaxFires = sub.GetInt("limiter_max_fires")
	c.SwingWeakenFactor = sub.GetFloat64("swing_weaken_factor")
	log.Printf("[CONFIG] применили пресет %q", name)
}

// TrendParams собирает параметры трендового детектора поверх дефолтов.
func (c *Config) TrendParams() strategy.Params {
	p := strategy.DefaultParams()
	if c.EMAShort > 0 {
		p.EMAShort = c.EMAShort
	}
	if c.EMAMid > 0 {
		p.EMAMid = c.EMAMid
	}
	if c.EMALong > 0 {
		p.EMALong = c.EMALong
	}
	if c.EMAExtra > 0 {
		p.EMAExtra = c.EMAExtra
	}
	if c.PullbackTolerance > 0 {
		p.PullbackTolerance = c.PullbackTolerance
	}
	if c.VolumeWindow > 0 {
		p.VolumeWindow = c.VolumeWindow
	}
	if c.SRWindow > 0 {
		p.SRWindow = c.SRWindow
	}
	if c.SRTolerance > 0 {
		p.SRTolerance = c.SRTolerance
	}
	if c.CrossoverStrongGap > 0 {
		p.CrossoverStrongGap = c.CrossoverStrongGap
	}
	if c.LimiterWindowBars > 0 {
		p.LimiterWindowBars = c.LimiterWindowBars
	}
	if c.LimiterMaxFires > 0 {
		p.LimiterMaxFires = c.LimiterMaxFires
	}
	return p
}

func (c *Config) SwingParams() strategy.SwingConfig {
	s := strategy.DefaultSwingConfig()
	if c.SwingFast > 0 {
		s.Fast = c.SwingFast
	}
	if c.SwingSlow > 0 {
		s.Slow = c.SwingSlow
	}
	if c.SwingSmooth > 0 {
		s.Smooth = c.SwingSmooth
	}
	if c.SwingWeakenFactor > 1 {
		s.WeakenFactor = c.SwingWeakenFactor
	}
	return s
}
