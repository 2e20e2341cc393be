package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Config holds all runtime configuration for the dashboard backend.
type Config struct {
	Port            int           `toml:"port"`
	LogLevel        string        `toml:"log_level"`
	ReadTimeout     time.Duration `toml:"read_timeout"`
	WriteTimeout    time.Duration `toml:"write_timeout"`
	IdleTimeout     time.Duration `toml:"idle_timeout"`
	ShutdownTimeout time.Duration `toml:"shutdown_timeout"`
	CORSOrigins     []string      `toml:"cors_origins"`

	// Seed drives the synthesizer. Zero seeds from the clock.
	Seed         int64         `toml:"seed"`
	TickInterval time.Duration `toml:"tick_interval"`
	SessionTTL   time.Duration `toml:"session_ttl"`

	QuoteBalance      float64 `toml:"quote_balance"`
	InstrumentBalance float64 `toml:"instrument_balance"`

	Latency  LatencyConfig  `toml:"latency"`
	Redis    RedisConfig    `toml:"redis"`
	Postgres PostgresConfig `toml:"postgres"`
	S3       S3Config       `toml:"s3"`
}

// LatencyConfig holds the simulated backend delays.
type LatencyConfig struct {
	Instruments time.Duration `toml:"instruments"`
	Candles     time.Duration `toml:"candles"`
	Portfolio   time.Duration `toml:"portfolio"`
	Orders      time.Duration `toml:"orders"`
	Submit      time.Duration `toml:"submit"`
	Auth        time.Duration `toml:"auth"`
	Signup      time.Duration `toml:"signup"`
}

// RedisConfig enables the redis session store when Addr is set.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// PostgresConfig enables durable order history when DSN is set.
type PostgresConfig struct {
	DSN      string `toml:"dsn"`
	MaxConns int    `toml:"max_conns"`
}

// S3Config enables the candle archive when Bucket is set.
type S3Config struct {
	Bucket    string `toml:"bucket"`
	Region    string `toml:"region"`
	Endpoint  string `toml:"endpoint"`
	AccessKey string `toml:"access_key"`
	SecretKey string `toml:"secret_key"`
}

// Defaults returns the configuration used when nothing overrides it.
func Defaults() Config {
	return Config{
		Port:            8080,
		LogLevel:        "info",
		ReadTimeout:     5 * time.Second,
		WriteTimeout:    10 * time.Second,
		IdleTimeout:     60 * time.Second,
		ShutdownTimeout: 10 * time.Second,
		CORSOrigins:     []string{"*"},

		TickInterval: 2 * time.Second,
		SessionTTL:   24 * time.Hour,

		QuoteBalance:      50000,
		InstrumentBalance: 2.5,

		Latency: LatencyConfig{
			Instruments: 500 * time.Millisecond,
			Candles:     700 * time.Millisecond,
			Portfolio:   600 * time.Millisecond,
			Orders:      600 * time.Millisecond,
			Submit:      800 * time.Millisecond,
			Auth:        1 * time.Second,
			Signup:      1500 * time.Millisecond,
		},
		Redis:    RedisConfig{},
		Postgres: PostgresConfig{MaxConns: 4},
		S3:       S3Config{Region: "us-east-1"},
	}
}

// Load builds the configuration from defaults, an optional TOML file at
// path, an optional .env file, and environment variables, in that order.
// It returns an error for any invalid value.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: decode %s: %w", path, err)
		}
	}

	// A missing .env is normal.
	_ = godotenv.Load()

	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyEnv(cfg *Config) error {
	var err error

	if cfg.Port, err = getInt("PORT", cfg.Port); err != nil {
		return fmt.Errorf("invalid PORT: %w", err)
	}
	cfg.LogLevel = getStr("LOG_LEVEL", cfg.LogLevel)

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"READ_TIMEOUT", &cfg.ReadTimeout},
		{"WRITE_TIMEOUT", &cfg.WriteTimeout},
		{"IDLE_TIMEOUT", &cfg.IdleTimeout},
		{"SHUTDOWN_TIMEOUT", &cfg.ShutdownTimeout},
		{"TICK_INTERVAL", &cfg.TickInterval},
		{"SESSION_TTL", &cfg.SessionTTL},
		{"LATENCY_INSTRUMENTS", &cfg.Latency.Instruments},
		{"LATENCY_CANDLES", &cfg.Latency.Candles},
		{"LATENCY_PORTFOLIO", &cfg.Latency.Portfolio},
		{"LATENCY_ORDERS", &cfg.Latency.Orders},
		{"LATENCY_SUBMIT", &cfg.Latency.Submit},
		{"LATENCY_AUTH", &cfg.Latency.Auth},
		{"LATENCY_SIGNUP", &cfg.Latency.Signup},
	}
	for _, d := range durations {
		if *d.dst, err = getDuration(d.key, *d.dst); err != nil {
			return fmt.Errorf("invalid %s: %w", d.key, err)
		}
	}

	if cfg.Seed, err = getInt64("SEED", cfg.Seed); err != nil {
		return fmt.Errorf("invalid SEED: %w", err)
	}
	if cfg.QuoteBalance, err = getFloat("QUOTE_BALANCE", cfg.QuoteBalance); err != nil {
		return fmt.Errorf("invalid QUOTE_BALANCE: %w", err)
	}
	if cfg.InstrumentBalance, err = getFloat("INSTRUMENT_BALANCE", cfg.InstrumentBalance); err != nil {
		return fmt.Errorf("invalid INSTRUMENT_BALANCE: %w", err)
	}
	cfg.CORSOrigins = getList("CORS_ORIGINS", cfg.CORSOrigins)

	cfg.Redis.Addr = getStr("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = getStr("REDIS_PASSWORD", cfg.Redis.Password)
	if cfg.Redis.DB, err = getInt("REDIS_DB", cfg.Redis.DB); err != nil {
		return fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg.Postgres.DSN = getStr("POSTGRES_DSN", cfg.Postgres.DSN)

	cfg.S3.Bucket = getStr("S3_BUCKET", cfg.S3.Bucket)
	cfg.S3.Region = getStr("S3_REGION", cfg.S3.Region)
	cfg.S3.Endpoint = getStr("S3_ENDPOINT", cfg.S3.Endpoint)
	cfg.S3.AccessKey = getStr("S3_ACCESS_KEY", cfg.S3.AccessKey)
	cfg.S3.SecretKey = getStr("S3_SECRET_KEY", cfg.S3.SecretKey)
	return nil
}

func validate(cfg *Config) error {
	if cfg.Port < 1 || cfg.Port > 65535 {
		return fmt.Errorf("invalid PORT: %d out of range", cfg.Port)
	}
	if !isValidLogLevel(cfg.LogLevel) {
		return fmt.Errorf("invalid LOG_LEVEL: %q, must be one of: debug, info, warn, error", cfg.LogLevel)
	}
	if cfg.TickInterval <= 0 {
		return fmt.Errorf("invalid TICK_INTERVAL: must be positive")
	}
	if cfg.SessionTTL <= 0 {
		return fmt.Errorf("invalid SESSION_TTL: must be positive")
	}
	if cfg.QuoteBalance < 0 || cfg.InstrumentBalance < 0 {
		return fmt.Errorf("invalid balances: must not be negative")
	}
	l := cfg.Latency
	for _, d := range []time.Duration{l.Instruments, l.Candles, l.Portfolio, l.Orders, l.Submit, l.Auth, l.Signup} {
		if d < 0 {
			return fmt.Errorf("invalid latency %v: must not be negative", d)
		}
	}
	return nil
}

func getStr(key, defaultVal string) string {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	return v
}

func getInt(key string, defaultVal int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	return strconv.Atoi(v)
}

func getInt64(key string, defaultVal int64) (int64, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	return strconv.ParseInt(v, 10, 64)
}

func getFloat(key string, defaultVal float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	return strconv.ParseFloat(v, 64)
}

func getDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	return time.ParseDuration(v)
}

// getList splits a comma-separated value, dropping empty entries.
func getList(key string, defaultVal []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func isValidLogLevel(level string) bool {
	switch level {
	case "debug", "info", "warn", "error":
		return true
	}
	return false
}
