package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	Warehouse WarehouseConfig `yaml:"warehouse" mapstructure:"warehouse"`
	Docs      DocsConfig      `yaml:"docs" mapstructure:"docs"`
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Batch     BatchConfig     `yaml:"batch" mapstructure:"batch"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// AnthropicConfig holds text-generation backend settings.
type AnthropicConfig struct {
	Key               string  `yaml:"key" mapstructure:"key"`
	RouterModel       string  `yaml:"router_model" mapstructure:"router_model"`
	GeneratorModel    string  `yaml:"generator_model" mapstructure:"generator_model"`
	SynthesizerModel  string  `yaml:"synthesizer_model" mapstructure:"synthesizer_model"`
	MaxTokens         int64   `yaml:"max_tokens" mapstructure:"max_tokens"`
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int     `yaml:"burst" mapstructure:"burst"`
}

// WarehouseConfig configures the relational query executor.
type WarehouseConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// DocsConfig configures the document corpus and retrieval behavior.
type DocsConfig struct {
	Dir        string `yaml:"dir" mapstructure:"dir"`
	Manifest   string `yaml:"manifest" mapstructure:"manifest"`
	TopK       int    `yaml:"top_k" mapstructure:"top_k"`
	ChunkChars int    `yaml:"chunk_chars" mapstructure:"chunk_chars"`
}

// StoreConfig configures the run-history backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	Path        string `yaml:"path" mapstructure:"path"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// BatchConfig configures batch processing.
type BatchConfig struct {
	Concurrency int `yaml:"concurrency" mapstructure:"concurrency"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("ANALYST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("anthropic.router_model", "claude-haiku-4-5-20251001")
	v.SetDefault("anthropic.generator_model", "claude-sonnet-4-5-20250929")
	v.SetDefault("anthropic.synthesizer_model", "claude-sonnet-4-5-20250929")
	v.SetDefault("anthropic.max_tokens", 1024)
	v.SetDefault("anthropic.requests_per_second", 5.0)
	v.SetDefault("anthropic.burst", 5)
	v.SetDefault("warehouse.path", "northwind.sqlite")
	v.SetDefault("docs.dir", "docs")
	v.SetDefault("docs.top_k", 3)
	v.SetDefault("docs.chunk_chars", 1200)
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.path", "analyst.sqlite")
	v.SetDefault("batch.concurrency", 4)
	v.SetDefault("server.port", 8080)
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

// Validate checks that required settings are present for agent commands.
func (c *Config) Validate() error {
	if c.Anthropic.Key == "" {
		return eris.New("config: anthropic.key is required (ANALYST_ANTHROPIC_KEY)")
	}
	if c.Warehouse.Path == "" {
		return eris.New("config: warehouse.path is required")
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
