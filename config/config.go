package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// Config — настройки сервиса из окружения и необязательного TOML-файла.
// Приоритет: переменные окружения поверх файла поверх умолчаний.
type Config struct {
	InputDir  string `toml:"input_dir"`
	OutputDir string `toml:"output_dir"`

	RefMM float64 `toml:"ref_mm"`
	RefPx float64 `toml:"ref_px"`

	StableChecks     int `toml:"stable_checks"`
	StableIntervalMS int `toml:"stable_interval_ms"`

	PotracePath string `toml:"potrace_path"`

	TelegramToken  string `toml:"-"` // только из окружения
	TelegramChatID int64  `toml:"telegram_chat_id"`
}

const defaultConfigFile = "sketch2cad.toml"

// Load читает .env (если есть), TOML-файл и переменные окружения.
// Путь файла настроек переопределяется через SKETCH2CAD_CONFIG.
func Load() (*Config, error) {
	// Игнорируем ошибку: .env необязателен.
	_ = godotenv.Load()

	cfg := &Config{
		InputDir:         "./examples/input",
		OutputDir:        "./examples/output",
		StableChecks:     3,
		StableIntervalMS: 250,
		PotracePath:      "potrace",
	}

	path := os.Getenv("SKETCH2CAD_CONFIG")
	if path == "" {
		path = defaultConfigFile
	}
	if data, err := os.ReadFile(path); err == nil {
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	} else if os.Getenv("SKETCH2CAD_CONFIG") != "" {
		// Явно указанный файл обязан существовать.
		return nil, fmt.Errorf("read config: %w", err)
	}

	applyEnv(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("SKETCH2CAD_INPUT_DIR"); v != "" {
		cfg.InputDir = v
	}
	if v := os.Getenv("SKETCH2CAD_OUTPUT_DIR"); v != "" {
		cfg.OutputDir = v
	}
	if v, ok := envFloat("SKETCH2CAD_REF_MM"); ok {
		cfg.RefMM = v
	}
	if v, ok := envFloat("SKETCH2CAD_REF_PX"); ok {
		cfg.RefPx = v
	}
	if v, ok := envInt("SKETCH2CAD_STABLE_CHECKS"); ok {
		cfg.StableChecks = v
	}
	if v, ok := envInt("SKETCH2CAD_STABLE_INTERVAL_MS"); ok {
		cfg.StableIntervalMS = v
	}
	if v := os.Getenv("SKETCH2CAD_POTRACE"); v != "" {
		cfg.PotracePath = v
	}
	if v := os.Getenv("TELEGRAM_TOKEN"); v != "" {
		cfg.TelegramToken = v
	}
	if v, ok := envInt("TELEGRAM_CHAT_ID"); ok {
		cfg.TelegramChatID = int64(v)
	}
}

func envFloat(name string) (float64, bool) {
	s := os.Getenv(name)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func envInt(name string) (int, bool) {
	s := os.Getenv(name)
	if s == "" {
		return 0, false
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return v, true
}
