package shared

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

type Config struct {
	AppEnv      string `yaml:"app_env"`
	LogLevel    string `yaml:"log_level"`
	HTTPAddr    string `yaml:"http_addr"`
	MetricsAddr string `yaml:"metrics_addr"`

	// artifacts
	RawPath     string `yaml:"raw_path"`
	ReviewsPath string `yaml:"reviews_path"`
	ResultsPath string `yaml:"results_path"`

	StoreDriver string `yaml:"store_driver"`
	StoreDSN    string `yaml:"store_dsn"`

	RedisAddr string `yaml:"redis_addr"`
	RedisPass string `yaml:"redis_password"`
	RedisDB   int    `yaml:"redis_db"`

	JudgeProvider string `yaml:"judge_provider"`
	OpenAIKey     string `yaml:"-"`
	OpenAIBase    string `yaml:"openai_base_url"`
	OpenAIModel   string `yaml:"openai_model"`
	GeminiKey     string `yaml:"-"`
	GeminiModel   string `yaml:"gemini_model"`
	OllamaHost    string `yaml:"ollama_host"`
	OllamaModel   string `yaml:"ollama_model"`
	JudgeRPS      int    `yaml:"judge_rps"`

	Workers int           `yaml:"workers"`
	Pace    time.Duration `yaml:"pace"`
	Product string        `yaml:"product"`

	CacheTTL time.Duration `yaml:"cache_ttl"`
	LockTTL  time.Duration `yaml:"lock_ttl"`
}

func defaults() Config {
	return Config{
		AppEnv:        "prod",
		LogLevel:      "info",
		HTTPAddr:      ":8080",
		RawPath:       "data/amazon-reviews.txt",
		ReviewsPath:   "data/amazon-reviews.json",
		ResultsPath:   "data/sentiment-results.json",
		StoreDriver:   "mysql",
		JudgeProvider: "openai",
		OpenAIBase:    "https://api.openai.com/v1",
		OllamaHost:    "http://localhost:11434",
		JudgeRPS:      2,
		Workers:       1,
		Pace:          500 * time.Millisecond,
		Product:       "Waterloo sparkling water",
		CacheTTL:      15 * time.Minute,
		LockTTL:       30 * time.Minute,
	}
}

// Load builds the config from defaults, then the YAML file named by
// PIPELINE_CONFIG, then the environment. A .env file in the working
// directory is loaded first; it never overrides variables already set.
// API keys come from the environment only.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	c := defaults()
	if path := os.Getenv("PIPELINE_CONFIG"); path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(b, &c); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	c.AppEnv = env("APP_ENV", c.AppEnv)
	c.LogLevel = env("LOG_LEVEL", c.LogLevel)
	c.HTTPAddr = env("HTTP_ADDR", c.HTTPAddr)
	c.MetricsAddr = env("METRICS_ADDR", c.MetricsAddr)
	c.RawPath = env("RAW_REVIEWS_PATH", c.RawPath)
	c.ReviewsPath = env("REVIEWS_PATH", c.ReviewsPath)
	c.ResultsPath = env("RESULTS_PATH", c.ResultsPath)
	c.StoreDriver = env("STORE_DRIVER", c.StoreDriver)
	c.StoreDSN = env("STORE_DSN", c.StoreDSN)
	c.RedisAddr = env("REDIS_ADDR", c.RedisAddr)
	c.RedisPass = env("REDIS_PASSWORD", c.RedisPass)
	c.RedisDB = atoi("REDIS_DB", c.RedisDB)
	c.JudgeProvider = env("JUDGE_PROVIDER", c.JudgeProvider)
	c.OpenAIKey = env("OPENAI_API_KEY", "")
	c.OpenAIBase = env("OPENAI_BASE_URL", c.OpenAIBase)
	c.OpenAIModel = env("OPENAI_MODEL", c.OpenAIModel)
	c.GeminiKey = env("GEMINI_API_KEY", "")
	c.GeminiModel = env("GEMINI_MODEL", c.GeminiModel)
	c.OllamaHost = env("OLLAMA_HOST", c.OllamaHost)
	c.OllamaModel = env("OLLAMA_MODEL", c.OllamaModel)
	c.JudgeRPS = atoi("JUDGE_RPS", c.JudgeRPS)
	c.Workers = atoi("ANALYZE_WORKERS", c.Workers)
	c.Pace = dur("ANALYZE_PACE", c.Pace)
	c.Product = env("PRODUCT_NAME", c.Product)
	if v := atoi("CACHE_TTL_SECONDS", -1); v >= 0 {
		c.CacheTTL = time.Duration(v) * time.Second
	}
	c.LockTTL = dur("LOCK_TTL", c.LockTTL)

	if c.Workers < 1 {
		c.Workers = 1
	}
	return c, nil
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func atoi(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		log.Warn().Str("key", k).Str("value", v).Msg("ignoring non-integer env value")
	}
	return def
}

func dur(k string, def time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		log.Warn().Str("key", k).Str("value", v).Msg("ignoring invalid duration env value")
	}
	return def
}
