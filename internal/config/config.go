package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"go.uber.org/fx"
)

// Config holds all configuration from environment variables.
type Config struct {
	Token   string `envconfig:"BOT_TOKEN" required:"true"`
	APIKey  string `envconfig:"OPENAI_API_KEY" required:"true"`
	BaseURL string `envconfig:"OPENAI_BASE_URL" default:"https://api.openai.com/v1"`
	Model   string `envconfig:"OPENAI_MODEL" default:"gpt-3.5-turbo"`
	Port    int    `envconfig:"PORT" default:"8080"`
	Debug   bool   `envconfig:"DEBUG" default:"false"`

	CompletionTimeout time.Duration `envconfig:"COMPLETION_TIMEOUT" default:"60s"`
	DropTimeout       time.Duration `envconfig:"DROP_TIMEOUT" default:"30s"`

	// Path to config.toml file
	ConfigFile string `envconfig:"CONFIG_FILE" default:"config.toml"`

	// Texts loaded from config.toml
	Messages Messages
}

// Messages holds the fixed user-facing texts.
type Messages struct {
	Greeting string `toml:"greeting"`
	Fallback string `toml:"fallback"`
	Health   string `toml:"health"`
}

// FileConfig represents the structure of config.toml.
type FileConfig struct {
	Messages Messages `toml:"messages"`
}

// DefaultMessages provides fallback texts if config.toml is not found.
var DefaultMessages = Messages{
	Greeting: "Assalomu alaykum! Men AI yordamchiman. Menga savolingizni yuboring.",
	Fallback: "Xatolik yuz berdi. Iltimos, keyinroq urinib ko'ring.",
	Health:   "Bot ishlayapti!",
}

// LoadEnv loads the configuration from environment variables. A .env file in
// the working directory is read first when present; it never overrides
// variables already set in the environment.
func (c Config) LoadEnv() (Config, error) {
	cfg := c

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return c, fmt.Errorf("failed to load .env: %w", err)
	}

	if err := envconfig.Process("", &cfg); err != nil {
		return c, err
	}

	return cfg, nil
}

// LoadFile loads messages from config.toml file.
func (c *Config) LoadFile() error {
	configPath := c.ConfigFile
	if !filepath.IsAbs(configPath) {
		// Try current directory first
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			// Try executable directory
			execPath, err := os.Executable()
			if err == nil {
				configPath = filepath.Join(filepath.Dir(execPath), c.ConfigFile)
			}
		}
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		c.Messages = DefaultMessages
		return nil
	}

	var fileConfig FileConfig
	if _, err := toml.DecodeFile(configPath, &fileConfig); err != nil {
		return fmt.Errorf("failed to decode %s: %w", configPath, err)
	}

	c.Messages = fileConfig.Messages

	// Use defaults for empty texts
	if c.Messages.Greeting == "" {
		c.Messages.Greeting = DefaultMessages.Greeting
	}
	if c.Messages.Fallback == "" {
		c.Messages.Fallback = DefaultMessages.Fallback
	}
	if c.Messages.Health == "" {
		c.Messages.Health = DefaultMessages.Health
	}

	return nil
}

// Validate rejects credentials that are set but empty.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Token) == "" {
		return errors.New("BOT_TOKEN must not be empty")
	}
	if strings.TrimSpace(c.APIKey) == "" {
		return errors.New("OPENAI_API_KEY must not be empty")
	}
	return nil
}

func NewConfig() (*Config, error) {
	var cfg Config
	loadedCfg, err := cfg.LoadEnv()
	if err != nil {
		return nil, fmt.Errorf("invalid environment: %w", err)
	}

	if err := loadedCfg.Validate(); err != nil {
		return nil, err
	}

	if err := loadedCfg.LoadFile(); err != nil {
		return nil, err
	}

	return &loadedCfg, nil
}

func Module() fx.Option {
	return fx.Module(
		"config",
		fx.Provide(
			NewConfig,
		),
	)
}
