package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP    HTTPConfig    `yaml:"http"`
	Intent  IntentConfig  `yaml:"intent"`
	Lexicon LexiconConfig `yaml:"lexicon"`
	Storage StorageConfig `yaml:"storage"`
	Rasa    RasaConfig    `yaml:"rasa"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address      string          `yaml:"address"`
	ReadTimeout  time.Duration   `yaml:"readTimeout"`
	WriteTimeout time.Duration   `yaml:"writeTimeout"`
	RateLimit    RateLimitConfig `yaml:"rateLimit"`
	Auth         AuthConfig      `yaml:"auth"`
	CORSOrigins  []string        `yaml:"corsOrigins"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// AuthConfig enables bearer token checks on the API group when Secret is set.
type AuthConfig struct {
	Secret string `yaml:"secret"`
	Issuer string `yaml:"issuer"`
}

// IntentConfig tunes derivation and collision resolution.
type IntentConfig struct {
	MinN        int           `yaml:"minN"`
	InitialMaxN int           `yaml:"initialMaxN"`
	WideMaxN    int           `yaml:"wideMaxN"`
	Mode        string        `yaml:"mode"`
	MaxPasses   int           `yaml:"maxPasses"`
	CacheSize   int           `yaml:"cacheSize"`
	RunTTL      time.Duration `yaml:"runTtl"`
}

// LexiconConfig selects the language resources used by normalization. Only
// english ships a filler list; other languages take theirs from ExtraFiller.
type LexiconConfig struct {
	Language    string   `yaml:"language"`
	Lemmatizer  string   `yaml:"lemmatizer"`
	ExtraFiller []string `yaml:"extraFiller"`
	KeepWords   []string `yaml:"keepWords"`
}

// StorageConfig groups the persistence backends.
type StorageConfig struct {
	Postgres  PostgresConfig  `yaml:"postgres"`
	Valkey    ValkeyConfig    `yaml:"valkey"`
	Artifacts ArtifactsConfig `yaml:"artifacts"`
}

// PostgresConfig contains DSN and pooling settings.
type PostgresConfig struct {
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"maxConns"`
	MinConns int32  `yaml:"minConns"`
}

// ValkeyConfig contains connection information for the run cache.
type ValkeyConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
	Prefix  string `yaml:"prefix"`
}

// ArtifactsConfig selects where exported chatbot files are stored.
type ArtifactsConfig struct {
	Backend   string   `yaml:"backend"`
	Directory string   `yaml:"directory"`
	R2        R2Config `yaml:"r2"`
}

// R2Config holds Cloudflare R2 / S3 settings.
type R2Config struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
}

// RasaConfig controls the exported chatbot project.
type RasaConfig struct {
	Version                  string `yaml:"version"`
	SessionExpirationMinutes int    `yaml:"sessionExpirationMinutes"`
	CarryOverSlots           bool   `yaml:"carryOverSlots"`
}

// Load reads configuration from a YAML file and environment variables.
func Load() (*Config, error) {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		if _, err := os.Stat("configs/config.yaml"); err == nil {
			path = "configs/config.yaml"
		}
	}
	return LoadFile(path)
}

// LoadFile is Load with an explicit file path; an empty path uses defaults only.
func LoadFile(path string) (*Config, error) {
	cfg := defaultConfig()

	if path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_ENABLED"); v != "" {
		cfg.HTTP.RateLimit.Enabled = parseBool(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_RPM"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.RequestsPerMinute = parsed
		}
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_BURST"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.Burst = parsed
		}
	}
	if v := os.Getenv("HTTP_AUTH_SECRET"); v != "" {
		cfg.HTTP.Auth.Secret = v
	}
	if v := os.Getenv("HTTP_AUTH_ISSUER"); v != "" {
		cfg.HTTP.Auth.Issuer = v
	}
	if v := os.Getenv("HTTP_CORS_ORIGINS"); v != "" {
		cfg.HTTP.CORSOrigins = splitList(v)
	}
	if v := os.Getenv("INTENT_MODE"); v != "" {
		cfg.Intent.Mode = v
	}
	if v := os.Getenv("INTENT_MAX_PASSES"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Intent.MaxPasses = parsed
		}
	}
	if v := os.Getenv("INTENT_CACHE_SIZE"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Intent.CacheSize = parsed
		}
	}
	if v := os.Getenv("INTENT_RUN_TTL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Intent.RunTTL = parsed
		}
	}
	if v := os.Getenv("LEXICON_LEMMATIZER"); v != "" {
		cfg.Lexicon.Lemmatizer = v
	}
	if v := os.Getenv("LEXICON_EXTRA_FILLER"); v != "" {
		cfg.Lexicon.ExtraFiller = splitList(v)
	}
	if v := os.Getenv("POSTGRES_DSN"); v != "" {
		cfg.Storage.Postgres.DSN = v
	}
	if v := os.Getenv("POSTGRES_MAX_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Storage.Postgres.MaxConns = int32(parsed)
		}
	}
	if v := os.Getenv("VALKEY_ENABLED"); v != "" {
		cfg.Storage.Valkey.Enabled = parseBool(v)
	}
	if v := os.Getenv("VALKEY_ADDR"); v != "" {
		cfg.Storage.Valkey.Addr = v
	}
	if v := os.Getenv("ARTIFACTS_BACKEND"); v != "" {
		cfg.Storage.Artifacts.Backend = v
	}
	if v := os.Getenv("ARTIFACTS_DIR"); v != "" {
		cfg.Storage.Artifacts.Directory = v
	}
	if v := os.Getenv("R2_ENDPOINT"); v != "" {
		cfg.Storage.Artifacts.R2.Endpoint = v
	}
	if v := os.Getenv("R2_ACCESS_KEY"); v != "" {
		cfg.Storage.Artifacts.R2.AccessKey = v
	}
	if v := os.Getenv("R2_SECRET_KEY"); v != "" {
		cfg.Storage.Artifacts.R2.SecretKey = v
	}
	if v := os.Getenv("R2_BUCKET"); v != "" {
		cfg.Storage.Artifacts.R2.Bucket = v
	}
	if v := os.Getenv("RASA_VERSION"); v != "" {
		cfg.Rasa.Version = v
	}
}

func parseBool(v string) bool {
	return v == "1" || strings.EqualFold(v, "true")
}

func splitList(v string) []string {
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:      ":8080",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 60,
				Burst:             20,
			},
		},
		Intent: IntentConfig{
			MinN:        2,
			InitialMaxN: 4,
			WideMaxN:    5,
			Mode:        "stable",
			MaxPasses:   8,
			CacheSize:   4096,
			RunTTL:      24 * time.Hour,
		},
		Lexicon: LexiconConfig{
			Language:   "english",
			Lemmatizer: "table",
		},
		Storage: StorageConfig{
			Postgres: PostgresConfig{MaxConns: 4},
			Valkey:   ValkeyConfig{Prefix: "intents"},
			Artifacts: ArtifactsConfig{
				Backend:   "memory",
				Directory: "data/chatbot",
			},
		},
		Rasa: RasaConfig{
			Version:                  "3.1",
			SessionExpirationMinutes: 60,
			CarryOverSlots:           true,
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}
	if c.Intent.MinN < 2 {
		return errors.New("intent.minN must be at least 2")
	}
	if c.Intent.InitialMaxN < c.Intent.MinN {
		return errors.New("intent.initialMaxN must not be below intent.minN")
	}
	if c.Intent.WideMaxN < c.Intent.InitialMaxN {
		return errors.New("intent.wideMaxN must not be below intent.initialMaxN")
	}
	switch strings.ToLower(strings.TrimSpace(c.Intent.Mode)) {
	case "", "sweep", "stable", "counter":
	default:
		return fmt.Errorf("intent.mode %q must be sweep, stable or counter", c.Intent.Mode)
	}
	if c.Intent.MaxPasses <= 0 {
		return errors.New("intent.maxPasses must be positive")
	}
	if c.Intent.CacheSize < 0 {
		return errors.New("intent.cacheSize cannot be negative")
	}
	if c.Intent.RunTTL < 0 {
		return errors.New("intent.runTtl cannot be negative")
	}
	switch c.Lexicon.Lemmatizer {
	case "table", "snowball":
	default:
		return fmt.Errorf("lexicon.lemmatizer %q must be table or snowball", c.Lexicon.Lemmatizer)
	}
	language := strings.ToLower(strings.TrimSpace(c.Lexicon.Language))
	if language == "" {
		return errors.New("lexicon.language cannot be empty")
	}
	if language != "english" && len(c.Lexicon.ExtraFiller) == 0 {
		return fmt.Errorf("lexicon.extraFiller is required for language %q", language)
	}
	if c.Storage.Valkey.Enabled && strings.TrimSpace(c.Storage.Valkey.Addr) == "" {
		return errors.New("storage.valkey.addr cannot be empty when valkey cache is enabled")
	}
	switch c.Storage.Artifacts.Backend {
	case "memory":
	case "filesystem":
		if strings.TrimSpace(c.Storage.Artifacts.Directory) == "" {
			return errors.New("storage.artifacts.directory cannot be empty for the filesystem backend")
		}
	case "r2":
		if c.Storage.Artifacts.R2.Endpoint == "" || c.Storage.Artifacts.R2.Bucket == "" {
			return errors.New("storage.artifacts.r2 endpoint and bucket are required for the r2 backend")
		}
	default:
		return fmt.Errorf("storage.artifacts.backend %q must be memory, filesystem or r2", c.Storage.Artifacts.Backend)
	}
	if c.Rasa.Version == "" {
		return errors.New("rasa.version cannot be empty")
	}
	if c.Rasa.SessionExpirationMinutes <= 0 {
		return errors.New("rasa.sessionExpirationMinutes must be positive")
	}
	return nil
}
