package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// MaxContentLength mirrors the upload cap enforced by the serving layer.
const MaxContentLength = 16 << 20

type Config struct {
	Host string
	Port string

	GeminiAPIKey string
	GeminiModel  string

	UploadFolder     string
	MaxContentLength int64

	TelegramBotToken string

	LogLevel        string
	ShutdownTimeout time.Duration
}

// GeminiConfigured reports whether a credential was found at load time.
func (c *Config) GeminiConfigured() bool {
	return strings.TrimSpace(c.GeminiAPIKey) != ""
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return c.Host + ":" + c.Port
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("PORT", "5000")
	v.SetDefault("GEMINI_API_KEY", "")
	v.SetDefault("GEMINI_MODEL", "gemini-1.5-flash")
	v.SetDefault("UPLOAD_FOLDER", "uploads")
	v.SetDefault("MAX_CONTENT_LENGTH", MaxContentLength)
	v.SetDefault("TELEGRAM_BOT_TOKEN", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("SHUTDOWN_TIMEOUT", 10*time.Second)
}

// Load reads configuration from the environment, an optional .env file in the
// working directory, and an optional explicit config file (path may be empty).
// Environment variables win over both files.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if err := mergeFile(v, ".env", "env", true); err != nil {
		return nil, err
	}
	if path != "" {
		if err := mergeFile(v, path, "", false); err != nil {
			return nil, err
		}
	}

	v.AutomaticEnv()

	cfg := &Config{
		Host:             v.GetString("SERVER_HOST"),
		Port:             v.GetString("PORT"),
		GeminiAPIKey:     strings.TrimSpace(v.GetString("GEMINI_API_KEY")),
		GeminiModel:      strings.TrimSpace(v.GetString("GEMINI_MODEL")),
		UploadFolder:     v.GetString("UPLOAD_FOLDER"),
		MaxContentLength: v.GetInt64("MAX_CONTENT_LENGTH"),
		TelegramBotToken: strings.TrimSpace(v.GetString("TELEGRAM_BOT_TOKEN")),
		LogLevel:         v.GetString("LOG_LEVEL"),
		ShutdownTimeout:  v.GetDuration("SHUTDOWN_TIMEOUT"),
	}
	if cfg.MaxContentLength <= 0 {
		cfg.MaxContentLength = MaxContentLength
	}
	if cfg.GeminiModel == "" {
		cfg.GeminiModel = "gemini-1.5-flash"
	}

	return cfg, nil
}

func mergeFile(v *viper.Viper, path, typ string, optional bool) error {
	if _, err := os.Stat(path); err != nil {
		if optional && errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config file %s: %w", path, err)
	}
	if typ == "" {
		typ = strings.TrimPrefix(filepath.Ext(path), ".")
	}
	if typ == "" {
		typ = "yaml"
	}
	v.SetConfigFile(path)
	v.SetConfigType(typ)
	if err := v.MergeInConfig(); err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	return nil
}
