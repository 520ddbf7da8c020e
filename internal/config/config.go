package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dazhuang0717-violet/aiscore/internal/domain"
)

const (
	configPathEnv  = "AISCORE_CONFIG"
	databaseDSNEnv = "DATABASE_DSN"
	aiAPIKeyEnv    = "AISCORE_AI_API_KEY"
	aiModelEnv     = "AISCORE_AI_MODEL"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging  LoggingConfig         `yaml:"logging"`
	Database DatabaseConfig        `yaml:"database"`
	AI       AIConfig              `yaml:"ai"`
	Proxy    ProxyConfig           `yaml:"proxy"`
	Pipeline PipelineConfig        `yaml:"pipeline"`
	Tiers    domain.TierConfig     `yaml:"tiers"`
	Audience string                `yaml:"audience"`
	Project  domain.ProjectContext `yaml:"project"`
}

// LoggingConfig controls slog verbosity.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DatabaseConfig describes Postgres connection details; empty DSN disables
// result persistence.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// AIConfig defines how to contact the scoring endpoint.
type AIConfig struct {
	Endpoint string `yaml:"endpoint"`
	Model    string `yaml:"model"`
	APIKey   string `yaml:"apiKey"`
}

// ProxyConfig points at the content proxy used for remote fetches.
type ProxyConfig struct {
	Endpoint string `yaml:"endpoint"`
}

// PipelineConfig tunes batch behavior.
type PipelineConfig struct {
	PaceMillis   int     `yaml:"paceMillis"`
	VolumeOffset float64 `yaml:"volumeOffset"`
	SortLocale   string  `yaml:"sortLocale"`
}

// Pace is the inter-call delay between successive row scorings.
func (p PipelineConfig) Pace() time.Duration {
	return time.Duration(p.PaceMillis) * time.Millisecond
}

// AudienceMode maps the configured audience string onto the fixed enumeration.
func (c Config) AudienceMode() domain.Audience {
	switch c.Audience {
	case "patient":
		return domain.AudiencePatient
	case "hcp":
		return domain.AudienceHCP
	default:
		return domain.AudienceGeneral
	}
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Database.DSN = v
	}

	if v := os.Getenv(aiAPIKeyEnv); v != "" {
		c.AI.APIKey = v
	}

	if v := os.Getenv(aiModelEnv); v != "" {
		c.AI.Model = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging = override.Logging
	}

	if override.Database.DSN != "" {
		base.Database = override.Database
	}

	if override.AI.Endpoint != "" {
		base.AI.Endpoint = override.AI.Endpoint
	}
	if override.AI.Model != "" {
		base.AI.Model = override.AI.Model
	}
	if override.AI.APIKey != "" {
		base.AI.APIKey = override.AI.APIKey
	}

	if override.Proxy.Endpoint != "" {
		base.Proxy = override.Proxy
	}

	if override.Pipeline.PaceMillis > 0 {
		base.Pipeline.PaceMillis = override.Pipeline.PaceMillis
	}
	if override.Pipeline.VolumeOffset > 0 {
		base.Pipeline.VolumeOffset = override.Pipeline.VolumeOffset
	}
	if override.Pipeline.SortLocale != "" {
		base.Pipeline.SortLocale = override.Pipeline.SortLocale
	}

	if override.Tiers.Tier1 != "" || override.Tiers.Tier2 != "" || override.Tiers.Tier3 != "" {
		base.Tiers = override.Tiers
	}

	if override.Audience != "" {
		base.Audience = override.Audience
	}

	if override.Project.KeyMessage != "" {
		base.Project.KeyMessage = override.Project.KeyMessage
	}
	if override.Project.Description != "" {
		base.Project.Description = override.Project.Description
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Logging:  LoggingConfig{Level: "info"},
		Database: DatabaseConfig{DSN: ""},
		AI: AIConfig{
			Endpoint: "https://api.openai.com/v1/chat/completions",
			Model:    "gpt-4o-mini",
			APIKey:   "",
		},
		Proxy: ProxyConfig{Endpoint: "https://proxy.example.org/fetch?url="},
		Pipeline: PipelineConfig{
			PaceMillis:   800,
			VolumeOffset: 10,
			SortLocale:   "zh",
		},
		Audience: "general",
	}
}
