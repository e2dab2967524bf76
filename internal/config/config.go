// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type ServerConfig struct {
	Port         int           `yaml:"port"`
	AdminPort    int           `yaml:"admin_port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type DatabaseConfig struct {
	URL      string `yaml:"url"`
	MaxConns int    `yaml:"max_conns"`
}

type RedisConfig struct {
	URL      string        `yaml:"url"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

type AuthConfig struct {
	JWTSecret string        `yaml:"jwt_secret"`
	TokenTTL  time.Duration `yaml:"token_ttl"`
	// AdminAPIKey protects the back-office API.
	AdminAPIKey string `yaml:"admin_api_key"`
	// Graders are the identities allowed to review submissions in addition
	// to users holding the grader/admin role.
	Graders []string `yaml:"graders"`
}

type PaymentConfig struct {
	Midtrans struct {
		ServerKey  string `yaml:"server_key"`
		ClientKey  string `yaml:"client_key"`
		Production bool   `yaml:"production"`
	} `yaml:"midtrans"`
	SubscriptionDays int `yaml:"subscription_days"`
}

type RewardsConfig struct {
	BasePoints     int `yaml:"base_points"`
	StreakBonusCap int `yaml:"streak_bonus_cap"`
}

type AIConfig struct {
	OpenAIKey    string `yaml:"openai_key"`
	GeminiKey    string `yaml:"gemini_key"`
	DefaultModel string `yaml:"default_model"`
	SystemPrompt string `yaml:"system_prompt"`
}

type CertificateConfig struct {
	SignerName string `yaml:"signer_name"`
	SignerRole string `yaml:"signer_role"`
}

type WorkerConfig struct {
	ExpiryInterval time.Duration `yaml:"expiry_interval"`
	SeasonInterval time.Duration `yaml:"season_interval"`
}

type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Log         LogConfig         `yaml:"log"`
	Database    DatabaseConfig    `yaml:"database"`
	Redis       RedisConfig       `yaml:"redis"`
	Auth        AuthConfig        `yaml:"auth"`
	Payment     PaymentConfig     `yaml:"payment"`
	Rewards     RewardsConfig     `yaml:"rewards"`
	AI          AIConfig          `yaml:"ai"`
	Certificate CertificateConfig `yaml:"certificate"`
	Worker      WorkerConfig      `yaml:"worker"`

	Runtime RuntimeConfig `yaml:"-"`
}

func LoadConfig(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// defaults
	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.AdminPort <= 0 {
		cfg.Server.AdminPort = 8081
	}
	if cfg.Server.ReadTimeout <= 0 {
		cfg.Server.ReadTimeout = 15 * time.Second
	}
	if cfg.Server.WriteTimeout <= 0 {
		cfg.Server.WriteTimeout = 30 * time.Second
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Database.MaxConns <= 0 {
		cfg.Database.MaxConns = 10
	}
	cfg.Redis.TTL = normalizeTTL(cfg.Redis.TTL)
	if cfg.Auth.TokenTTL <= 0 {
		cfg.Auth.TokenTTL = 24 * time.Hour
	}
	if cfg.Payment.SubscriptionDays <= 0 {
		cfg.Payment.SubscriptionDays = 30
	}
	if cfg.Rewards.BasePoints <= 0 {
		cfg.Rewards.BasePoints = 5
	}
	if cfg.Rewards.StreakBonusCap <= 0 {
		cfg.Rewards.StreakBonusCap = 10
	}
	if cfg.AI.DefaultModel == "" {
		cfg.AI.DefaultModel = "gpt-4o-mini"
	}
	if cfg.Worker.ExpiryInterval <= 0 {
		cfg.Worker.ExpiryInterval = time.Hour
	}
	if cfg.Worker.SeasonInterval <= 0 {
		cfg.Worker.SeasonInterval = 6 * time.Hour
	}

	// Minimal validation
	if cfg.Database.URL == "" {
		return nil, errors.New("database.url is required")
	}
	if cfg.Redis.URL == "" {
		return nil, errors.New("redis.url is required")
	}
	if cfg.Auth.JWTSecret == "" {
		return nil, errors.New("auth.jwt_secret is required")
	}
	if cfg.Payment.Midtrans.ServerKey == "" && !dev {
		return nil, errors.New("payment.midtrans.server_key is required")
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}

func normalizeTTL(d time.Duration) time.Duration {
	if d <= 0 {
		return time.Hour
	}
	return d
}
