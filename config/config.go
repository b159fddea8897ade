package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the research pipeline
type Config struct {
	General GeneralConfig `mapstructure:"general"`
	Server  ServerConfig  `mapstructure:"server"`
	LLM     LLMConfig     `mapstructure:"llm"`
	Search  SearchConfig  `mapstructure:"search"`
	Storage StorageConfig `mapstructure:"storage"`
}

// GeneralConfig contains general application settings
type GeneralConfig struct {
	Debug    bool   `mapstructure:"debug"`
	LogLevel string `mapstructure:"log_level"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Address string `mapstructure:"address"`
}

// LLMConfig contains LLM provider configurations
type LLMConfig struct {
	Providers map[string]LLMProvider `mapstructure:"providers"`
	Routing   LLMRoutingConfig       `mapstructure:"routing"`
}

// LLMProvider represents a single LLM provider configuration
type LLMProvider struct {
	Type        string        `mapstructure:"type"` // openai, groq
	APIKey      string        `mapstructure:"api_key"`
	BaseURL     string        `mapstructure:"base_url"`
	Model       string        `mapstructure:"model"`
	Temperature float64       `mapstructure:"temperature"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// LLMRoutingConfig names the provider each pipeline stage talks to.
// The finalize stage makes no model call and has no entry.
type LLMRoutingConfig struct {
	Research string `mapstructure:"research"`
	Format   string `mapstructure:"format"`
	Validate string `mapstructure:"validate"`
}

// SearchConfig contains web lookup settings
type SearchConfig struct {
	Provider   string        `mapstructure:"provider"` // serper, brave
	APIKey     string        `mapstructure:"api_key"`
	MaxResults int           `mapstructure:"max_results"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// StorageConfig contains checkpoint storage settings
type StorageConfig struct {
	Store string      `mapstructure:"store"` // inmemory, redis
	Redis RedisConfig `mapstructure:"redis"`
}

// RedisConfig contains redis connection settings
type RedisConfig struct {
	Host     string        `mapstructure:"host"`
	Port     string        `mapstructure:"port"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	Timeout  time.Duration `mapstructure:"timeout"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// Load reads configuration from an optional config file and RESEARCHER_*
// environment variables. A missing config file is fine when everything is
// supplied through the environment; a missing credential is not (Validate).
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("json")

	setDefaults(v)

	if path == "" {
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	} else {
		v.SetConfigFile(path)
	}

	v.SetEnvPrefix("RESEARCHER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("general.debug", false)
	v.SetDefault("general.log_level", "info")
	v.SetDefault("server.address", ":10010")

	v.SetDefault("llm.providers.openai.type", "openai")
	v.SetDefault("llm.providers.openai.api_key", "")
	v.SetDefault("llm.providers.openai.base_url", "")
	v.SetDefault("llm.providers.openai.model", "gpt-4o-mini")
	v.SetDefault("llm.providers.openai.temperature", 0.3)
	v.SetDefault("llm.providers.openai.max_tokens", 4096)
	v.SetDefault("llm.providers.openai.timeout", 60*time.Second)

	v.SetDefault("llm.providers.groq.type", "groq")
	v.SetDefault("llm.providers.groq.api_key", "")
	v.SetDefault("llm.providers.groq.base_url", "")
	v.SetDefault("llm.providers.groq.model", "llama-3.1-8b-instant")
	v.SetDefault("llm.providers.groq.temperature", 0.2)
	v.SetDefault("llm.providers.groq.max_tokens", 4096)
	v.SetDefault("llm.providers.groq.timeout", 60*time.Second)

	v.SetDefault("llm.routing.research", "openai")
	v.SetDefault("llm.routing.format", "groq")
	v.SetDefault("llm.routing.validate", "groq")

	v.SetDefault("search.provider", "serper")
	v.SetDefault("search.api_key", "")
	v.SetDefault("search.max_results", 5)
	v.SetDefault("search.timeout", 15*time.Second)

	v.SetDefault("storage.store", "inmemory")
	v.SetDefault("storage.redis.host", "localhost")
	v.SetDefault("storage.redis.port", "6379")
	v.SetDefault("storage.redis.password", "")
	v.SetDefault("storage.redis.db", 0)
	v.SetDefault("storage.redis.timeout", 5*time.Second)
	v.SetDefault("storage.redis.ttl", 24*time.Hour)
}

// Validate checks that every routed LLM provider is configured with a key
// and that the web lookup credential is present. Missing credentials are a
// startup failure, never a mid-run one.
func (c *Config) Validate() error {
	routes := map[string]string{
		"research": c.LLM.Routing.Research,
		"format":   c.LLM.Routing.Format,
		"validate": c.LLM.Routing.Validate,
	}
	for stage, name := range routes {
		if name == "" {
			return fmt.Errorf("llm.routing.%s is required", stage)
		}
		p, ok := c.LLM.Providers[name]
		if !ok {
			return fmt.Errorf("llm.routing.%s references unknown provider %q", stage, name)
		}
		if strings.TrimSpace(p.APIKey) == "" {
			return fmt.Errorf("llm.providers.%s.api_key is required (routed for %s)", name, stage)
		}
	}
	if strings.TrimSpace(c.Search.APIKey) == "" {
		return fmt.Errorf("search.api_key is required")
	}
	if c.Search.MaxResults <= 0 {
		return fmt.Errorf("search.max_results must be > 0")
	}
	return nil
}

// Route returns the provider configuration routed for a stage name.
func (c *Config) Route(stage string) (LLMProvider, error) {
	var name string
	switch stage {
	case "research":
		name = c.LLM.Routing.Research
	case "format":
		name = c.LLM.Routing.Format
	case "validate":
		name = c.LLM.Routing.Validate
	default:
		return LLMProvider{}, fmt.Errorf("no llm routing for stage %q", stage)
	}
	p, ok := c.LLM.Providers[name]
	if !ok {
		return LLMProvider{}, fmt.Errorf("llm provider %q not configured", name)
	}
	return p, nil
}
