package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"dough-vision/internal/domain/entity"
)

type Config struct {
	TelegramToken string

	RulesPath   string // файл выученных правил
	SessionPath string // файл калибровки и режима
	HistoryDB   string // база истории проверок, пусто — в памяти

	// FastMode переопределяет режим из файла сессии, если задан.
	FastMode *bool

	Kernels       entity.KernelSizes
	FastKernels   entity.KernelSizes
	ExpectedCount int
}

func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	cfg := &Config{
		TelegramToken: os.Getenv("TELEGRAM_TOKEN"),
		RulesPath:     getEnv("RULES_PATH", "learned_rules.json"),
		SessionPath:   getEnv("SESSION_PATH", "session_config.json"),
		HistoryDB:     os.Getenv("HISTORY_DB"),
		Kernels:       entity.DefaultKernels(),
		FastKernels:   entity.FastKernels(),
	}

	if v, ok := os.LookupEnv("FAST_MODE"); ok && v != "" {
		fast, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("FAST_MODE: %w", err)
		}
		cfg.FastMode = &fast
	}

	ints := []struct {
		name string
		dst  *int
		min  int
	}{
		{"CLOSE_KERNEL", &cfg.Kernels.Close, 1},
		{"OPEN_KERNEL", &cfg.Kernels.Open, 1},
		{"FAST_CLOSE_KERNEL", &cfg.FastKernels.Close, 1},
		{"FAST_OPEN_KERNEL", &cfg.FastKernels.Open, 1},
		{"EXPECTED_COUNT", &cfg.ExpectedCount, 0},
	}
	for _, item := range ints {
		if err := loadInt(item.name, item.dst, item.min); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// InferenceOptions собирает параметры распознавания из конфигурации
func (c *Config) InferenceOptions() entity.InferenceOptions {
	opts := entity.DefaultInferenceOptions()
	opts.Kernels = c.Kernels
	opts.FastKernels = c.FastKernels
	opts.ExpectedCount = c.ExpectedCount
	return opts
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

func loadInt(name string, dst *int, minValue int) error {
	v := os.Getenv(name)
	if v == "" {
		return nil
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	if n < minValue {
		return fmt.Errorf("%s: must be at least %d, got %d", name, minValue, n)
	}

	*dst = n
	return nil
}
