// Package config loads the server configuration from defaults, an optional
// YAML file and BLOG_* environment variables, in increasing priority.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/minhchau-creator/blogger.com/internal/mail"
)

const (
	// EnvPrefix prefixes every environment variable read by Load
	EnvPrefix = "BLOG_"

	// FileEnvVar names the optional YAML config file
	FileEnvVar = "CONFIG_FILE"

	minJWTSecretLength = 32
)

// Config is the full server configuration
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Auth      AuthConfig      `koanf:"auth"`
	RateLimit RateLimitConfig `koanf:"ratelimit"`
	Mail      MailConfig      `koanf:"mail"`
	Trending  TrendingConfig  `koanf:"trending"`
	Log       LogConfig       `koanf:"log"`
}

type ServerConfig struct {
	Addr         string        `koanf:"addr"`
	CORSOrigins  []string      `koanf:"cors_origins"`
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
}

type DatabaseConfig struct {
	URL          string `koanf:"url"`
	MaxOpenConns int    `koanf:"max_open_conns"`
	MaxIdleConns int    `koanf:"max_idle_conns"`
}

type AuthConfig struct {
	JWTSecret string        `koanf:"jwt_secret"`
	Issuer    string        `koanf:"issuer"`
	TokenTTL  time.Duration `koanf:"token_ttl"`
}

type RateLimitConfig struct {
	RequestsPerMinute int  `koanf:"requests_per_minute"`
	Burst             int  `koanf:"burst"`
	MaxClients        int  `koanf:"max_clients"`
	Enabled           bool `koanf:"enabled"`
}

// MailConfig holds the SMTP settings. With Enabled false emails are only logged.
type MailConfig struct {
	Host             string        `koanf:"host"`
	Username         string        `koanf:"username"`
	Password         string        `koanf:"password"`
	From             string        `koanf:"from"`
	SenderName       string        `koanf:"sender_name"`
	Port             int           `koanf:"port"`
	Timeout          time.Duration `koanf:"timeout"`
	OpenTimeout      time.Duration `koanf:"open_timeout"`
	FailureThreshold uint32        `koanf:"failure_threshold"`
	Enabled          bool          `koanf:"enabled"`
}

// SMTP converts the section into mailer settings
func (m MailConfig) SMTP() mail.Config {
	return mail.Config{
		Host:             m.Host,
		Username:         m.Username,
		Password:         m.Password,
		From:             m.From,
		SenderName:       m.SenderName,
		Port:             m.Port,
		Timeout:          m.Timeout,
		FailureThreshold: m.FailureThreshold,
		OpenTimeout:      m.OpenTimeout,
	}
}

type TrendingConfig struct {
	CacheTTL time.Duration `koanf:"cache_ttl"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// Default returns the configuration used when nothing overrides it
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:         ":3000",
			CORSOrigins:  []string{"http://localhost:5173"},
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
		},
		Database: DatabaseConfig{
			MaxOpenConns: 25,
			MaxIdleConns: 5,
		},
		Auth: AuthConfig{
			Issuer:   "blogger",
			TokenTTL: 7 * 24 * time.Hour,
		},
		RateLimit: RateLimitConfig{
			Enabled:           true,
			RequestsPerMinute: 100,
			Burst:             20,
			MaxClients:        10000,
		},
		Mail: MailConfig{
			Port:             587,
			SenderName:       "Blogger",
			Timeout:          10 * time.Second,
			FailureThreshold: 5,
			OpenTimeout:      30 * time.Second,
		},
		Trending: TrendingConfig{CacheTTL: time.Minute},
		Log:      LogConfig{Level: "info", Format: "json"},
	}
}

// sliceKeys are read from comma-separated env values
var sliceKeys = []string{"server.cors_origins"}

// Load reads the configuration and validates it
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := os.Getenv(FileEnvVar); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := splitSliceKeys(k); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// envKey maps BLOG_SECTION_SOME_KEY to section.some_key
func envKey(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
	section, rest, found := strings.Cut(key, "_")
	if !found {
		return section
	}
	return section + "." + rest
}

func splitSliceKeys(k *koanf.Koanf) error {
	for _, key := range sliceKeys {
		s, ok := k.Get(key).(string)
		if !ok {
			continue
		}
		var parts []string
		for _, p := range strings.Split(s, ",") {
			if p = strings.TrimSpace(p); p != "" {
				parts = append(parts, p)
			}
		}
		if err := k.Set(key, parts); err != nil {
			return fmt.Errorf("failed to set %s: %w", key, err)
		}
	}
	return nil
}

// Validate rejects configurations the server cannot run with
func (c *Config) Validate() error {
	var errs []error

	if c.Database.URL == "" {
		errs = append(errs, errors.New("database.url is required"))
	}
	if len(c.Auth.JWTSecret) < minJWTSecretLength {
		errs = append(errs, fmt.Errorf("auth.jwt_secret must be at least %d bytes", minJWTSecretLength))
	}
	if c.Auth.TokenTTL <= 0 {
		errs = append(errs, errors.New("auth.token_ttl must be positive"))
	}
	if c.Server.Addr == "" {
		errs = append(errs, errors.New("server.addr is required"))
	}
	if c.Database.MaxOpenConns <= 0 {
		errs = append(errs, errors.New("database.max_open_conns must be positive"))
	}
	if c.RateLimit.Enabled {
		if c.RateLimit.RequestsPerMinute <= 0 || c.RateLimit.Burst <= 0 || c.RateLimit.MaxClients <= 0 {
			errs = append(errs, errors.New("ratelimit values must be positive"))
		}
	}
	if c.Mail.Enabled && (c.Mail.Host == "" || c.Mail.Port <= 0) {
		errs = append(errs, errors.New("mail.host and mail.port are required when mail is enabled"))
	}
	switch strings.ToLower(c.Log.Format) {
	case "json", "text":
	default:
		errs = append(errs, fmt.Errorf("log.format must be json or text, got %q", c.Log.Format))
	}

	return errors.Join(errs...)
}
