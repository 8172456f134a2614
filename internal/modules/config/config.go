package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v2"
)

const (
	configFilePathENV = "CONFIG_FILE"
	tokenTelegramENV  = "TELEGRAM_TOKEN"
	chatTelegramENV   = "TELEGRAM_CHAT_ID"
	databaseDSN       = "DATABASE_DSN"
	redisAddrENV      = "REDIS_ADDR"
)

// Config ...
type Config struct {
	Telegram struct {
		Token  string `yaml:"token"`
		ChatID int64  `yaml:"chat_id"`
	} `yaml:"telegram"`
	DB    string `yaml:"db_dsn"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
	Service struct {
		Host       string `yaml:"host"`
		PublicPort int    `yaml:"public_port"`
		AdminPort  int    `yaml:"admin_port"`
	} `yaml:"service"`

	// Что сканируем по умолчанию, когда запрос не принёс свой список
	Symbols    []string `yaml:"symbols"`
	Timeframes []string `yaml:"timeframes"`

	// Watchlist: добираем топ по обороту, когда symbols пуст
	WatchTopN int `yaml:"watch_top_n"`

	// Сканер
	ScanWorkers       int
	ScanFetchLimit    int
	ScanCallDelay     time.Duration
	ScanInterval      time.Duration
	PreferredExchange string

	// Трендовый детектор
	EMAShort           int
	EMAMid             int
	EMALong            int
	EMAExtra           int
	PullbackTolerance  float64
	VolumeWindow       int
	SRWindow           int
	SRTolerance        float64
	CrossoverStrongGap float64
	LimiterWindowBars  int
	LimiterMaxFires    int

	// Разворотная машина
	SwingFast         int
	SwingSlow         int
	SwingSmooth       int
	SwingWeakenFactor float64

	// Живой поток
	StreamEnabled bool
}

func NewConfig() (*Config, error) {

	configFileName := os.Getenv(configFilePathENV)
	if configFileName == "" {
		configFileName = "values_local.yaml"
	}
	file, err := os.Open("configs/" + configFileName)
	if err != nil {
		log.Fatalf("Failed to open config file: %v", err)
	}

	defer func() {
		_ = file.Close()
	}()

	decoder := yaml.NewDecoder(file)
	config := Config{
		WatchTopN: intFromEnv("WATCH_TOP_N", 50),

		ScanWorkers:       intFromEnv("SCAN_WORKERS", 8),
		ScanFetchLimit:    intFromEnv("SCAN_FETCH_LIMIT", 500),
		ScanCallDelay:     durationFromEnv("SCAN_CALL_DELAY", "100ms"),
		ScanInterval:      durationFromEnv("SCAN_INTERVAL", "5m"),
		PreferredExchange: getenvDefault("PREFERRED_EXCHANGE", ""),

		EMAShort:           intFromEnv("EMA_SHORT", 89),
		EMAMid:             intFromEnv("EMA_MID", 144),
		EMALong:            intFromEnv("EMA_LONG", 233),
		EMAExtra:           intFromEnv("EMA_EXTRA", 377),
		PullbackTolerance:  floatFromEnv("PULLBACK_TOLERANCE", 0.10),
		VolumeWindow:       intFromEnv("VOLUME_WINDOW", 20),
		SRWindow:           intFromEnv("SR_WINDOW", 20),
		SRTolerance:        floatFromEnv("SR_TOLERANCE", 0.03),
		CrossoverStrongGap: floatFromEnv("CROSSOVER_STRONG_GAP", 0.01),
		LimiterWindowBars:  intFromEnv("LIMITER_WINDOW_BARS", 10),
		LimiterMaxFires:    intFromEnv("LIMITER_MAX_FIRES", 2),

		SwingFast:         intFromEnv("SWING_FAST", 12),
		SwingSlow:         intFromEnv("SWING_SLOW", 26),
		SwingSmooth:       intFromEnv("SWING_SMOOTH", 9),
		SwingWeakenFactor: floatFromEnv("SWING_WEAKEN_FACTOR", 1.01),

		StreamEnabled: boolFromEnv("STREAM_ENABLED", true),
	}
	err = decoder.Decode(&config)
	if err != nil {
		log.Fatalf("Failed to decode config file: %v", err)
	}

	token := os.Getenv(tokenTelegramENV)
	if token != "" {
		config.Telegram.Token = token
	}
	if chat := os.Getenv(chatTelegramENV); chat != "" {
		if id, err := strconv.ParseInt(chat, 10, 64); err == nil {
			config.Telegram.ChatID = id
		}
	}

	dsn := os.Getenv(databaseDSN)
	if dsn != "" {
		config.DB = dsn
	}
	if addr := os.Getenv(redisAddrENV); addr != "" {
		config.Redis.Addr = addr
	}
	if syms := os.Getenv("SYMBOLS"); syms != "" {
		config.Symbols = splitCSV(syms)
	}
	if tfs := os.Getenv("TIMEFRAMES"); tfs != "" {
		config.Timeframes = splitCSV(tfs)
	}

	config.loadPreset(viper.New())

	return &config, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getenvRequired(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("env %s is required", key))
	}
	return v
}

func intFromEnv(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func floatFromEnv(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func boolFromEnv(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if v == "1" || v == "true" || v == "TRUE" {
			return true
		}
		if v == "0" || v == "false" || v == "FALSE" {
			return false
		}
	}
	return def
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func durationFromEnv(key, def string) time.Duration {
	val := getenvDefault(key, def)
	d, err := time.ParseDuration(val)
	if err != nil {
		d, _ = time.ParseDuration(def)
	}
	return d
}
