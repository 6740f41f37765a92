package config

import (
	"errors"
	"io/fs"
	"math"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sells-group/leadscore-cli/internal/model"
)

// Config holds the full application configuration.
type Config struct {
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	Fetch     FetchConfig     `yaml:"fetch" mapstructure:"fetch"`
	Enrich    EnrichConfig    `yaml:"enrich" mapstructure:"enrich"`
	Scorer    ScorerConfig    `yaml:"scorer" mapstructure:"scorer"`
	Batch     BatchConfig     `yaml:"batch" mapstructure:"batch"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the run history backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	MaxConns    int32  `yaml:"max_conns" mapstructure:"max_conns"`
}

// AnthropicConfig holds completion-service settings.
type AnthropicConfig struct {
	Key         string  `yaml:"key" mapstructure:"key"`
	Model       string  `yaml:"model" mapstructure:"model"`
	MaxTokens   int64   `yaml:"max_tokens" mapstructure:"max_tokens"`
	Temperature float64 `yaml:"temperature" mapstructure:"temperature"`
}

// FetchConfig configures page retrieval.
type FetchConfig struct {
	UserAgent        string `yaml:"user_agent" mapstructure:"user_agent"`
	TimeoutSecs      int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	AboutTimeoutSecs int    `yaml:"about_timeout_secs" mapstructure:"about_timeout_secs"`
	MaxAttempts      int    `yaml:"max_attempts" mapstructure:"max_attempts"`
	BackoffMs        int    `yaml:"backoff_ms" mapstructure:"backoff_ms"`
	AboutPages       bool   `yaml:"about_pages" mapstructure:"about_pages"`
}

// EnrichConfig configures completion-service enrichment.
type EnrichConfig struct {
	ConfidenceThreshold float64  `yaml:"confidence_threshold" mapstructure:"confidence_threshold"`
	Fields              []string `yaml:"fields" mapstructure:"fields"`
	MaxContentChars     int      `yaml:"max_content_chars" mapstructure:"max_content_chars"`
}

// ScorerConfig holds the lead score component weights. Weights sum to 1.
type ScorerConfig struct {
	RevenueWeight   float64 `yaml:"revenue_weight" mapstructure:"revenue_weight"`
	SizeWeight      float64 `yaml:"size_weight" mapstructure:"size_weight"`
	TechWeight      float64 `yaml:"tech_weight" mapstructure:"tech_weight"`
	MarketFitWeight float64 `yaml:"market_fit_weight" mapstructure:"market_fit_weight"`
	GrowthWeight    float64 `yaml:"growth_weight" mapstructure:"growth_weight"`
}

// Weights converts the configured weights into the scorer's form.
func (s ScorerConfig) Weights() model.ScoreWeights {
	return model.ScoreWeights{
		Revenue:   s.RevenueWeight,
		Size:      s.SizeWeight,
		Tech:      s.TechWeight,
		MarketFit: s.MarketFitWeight,
		Growth:    s.GrowthWeight,
	}
}

// BatchConfig configures batch processing.
type BatchConfig struct {
	MaxConcurrentCompanies int     `yaml:"max_concurrent_companies" mapstructure:"max_concurrent_companies"`
	RequestsPerSecond      float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from .env, config file and environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, eris.Wrap(err, "config: load .env")
	}

	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("LEADSCORE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "leadscore.db")
	v.SetDefault("store.max_conns", 10)
	v.SetDefault("anthropic.key", "")
	v.SetDefault("anthropic.model", "claude-haiku-4-5-20251001")
	v.SetDefault("anthropic.max_tokens", 1024)
	v.SetDefault("anthropic.temperature", 0.0)
	v.SetDefault("fetch.user_agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	v.SetDefault("fetch.timeout_secs", 10)
	v.SetDefault("fetch.about_timeout_secs", 5)
	v.SetDefault("fetch.max_attempts", 3)
	v.SetDefault("fetch.backoff_ms", 1000)
	v.SetDefault("fetch.about_pages", true)
	v.SetDefault("enrich.confidence_threshold", 70)
	v.SetDefault("enrich.fields", []string{"industry", "business_type", "company_size", "company_stage"})
	v.SetDefault("enrich.max_content_chars", 3000)
	v.SetDefault("scorer.revenue_weight", 0.30)
	v.SetDefault("scorer.size_weight", 0.20)
	v.SetDefault("scorer.tech_weight", 0.20)
	v.SetDefault("scorer.market_fit_weight", 0.15)
	v.SetDefault("scorer.growth_weight", 0.15)
	v.SetDefault("batch.max_concurrent_companies", 4)
	v.SetDefault("batch.requests_per_second", 2.0)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the settings required by the given command mode:
// "research" (single/batch research), "serve", or "store" (history only).
func (c *Config) Validate(mode string) error {
	var errs []string

	switch mode {
	case "research":
		if c.Anthropic.Key == "" {
			errs = append(errs, "anthropic.key is required")
		}
		if c.Anthropic.Model == "" {
			errs = append(errs, "anthropic.model is required")
		}
	case "serve":
		if c.Anthropic.Key == "" {
			errs = append(errs, "anthropic.key is required")
		}
		if c.Server.Port <= 0 {
			errs = append(errs, "server.port must be > 0")
		}
	case "store":
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	switch c.Store.Driver {
	case "sqlite", "postgres":
	default:
		errs = append(errs, "store.driver must be sqlite or postgres")
	}
	if c.Store.Driver == "postgres" && c.Store.DatabaseURL == "" {
		errs = append(errs, "store.database_url is required for postgres")
	}

	if c.Batch.MaxConcurrentCompanies < 1 || c.Batch.MaxConcurrentCompanies > 50 {
		errs = append(errs, "batch.max_concurrent_companies must be between 1 and 50")
	}
	if c.Enrich.ConfidenceThreshold < 0 || c.Enrich.ConfidenceThreshold > 100 {
		errs = append(errs, "enrich.confidence_threshold must be between 0 and 100")
	}
	if c.Fetch.MaxAttempts < 1 {
		errs = append(errs, "fetch.max_attempts must be >= 1")
	}

	w := c.Scorer.Weights()
	for _, v := range []float64{w.Revenue, w.Size, w.Tech, w.MarketFit, w.Growth} {
		if v < 0 {
			errs = append(errs, "scorer weights must be >= 0")
			break
		}
	}
	if math.Abs(w.Sum()-1) > 0.01 {
		errs = append(errs, "scorer weights must sum to 1.0")
	}

	if len(errs) > 0 {
		return eris.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
