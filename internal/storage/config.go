package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/Lin-Jiong-HDU/aicmd/internal/core/security"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

const (
	ConfigFileName = "config"
	ConfigFileType = "yaml"
	AppDirName     = ".aicmd"
	EnvPrefix      = "AICMD"
)

var config *Config

// Config holds the application configuration
type Config struct {
	AI       AIConfig                `mapstructure:"ai" yaml:"ai"`
	Voice    VoiceConfig             `mapstructure:"voice" yaml:"voice"`
	Security security.SecurityPolicy `mapstructure:"security" yaml:"security"`
	Shell    ShellConfig             `mapstructure:"shell" yaml:"shell"`
	Log      LogConfig               `mapstructure:"log" yaml:"log"`
}

// AIConfig holds the command translator configuration
type AIConfig struct {
	Provider string `mapstructure:"provider" yaml:"provider"`
	APIKey   string `mapstructure:"api_key" yaml:"api_key"`
	Model    string `mapstructure:"model" yaml:"model"`
	BaseURL  string `mapstructure:"base_url" yaml:"base_url"`
	Timeout  int    `mapstructure:"timeout" yaml:"timeout"`
	Referer  string `mapstructure:"referer" yaml:"referer"`
	Title    string `mapstructure:"title" yaml:"title"`
	// Confirm asks before each translated command runs.
	Confirm bool `mapstructure:"confirm" yaml:"confirm"`
}

// VoiceConfig holds the speech-to-text configuration
type VoiceConfig struct {
	APIKey  string `mapstructure:"api_key" yaml:"api_key"`
	Model   string `mapstructure:"model" yaml:"model"`
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`
	Timeout int    `mapstructure:"timeout" yaml:"timeout"`
}

// ShellConfig overrides the host shell. Empty fields keep the platform
// default.
type ShellConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
	Flag string `mapstructure:"flag" yaml:"flag"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level   string `mapstructure:"level" yaml:"level"`
	Dir     string `mapstructure:"dir" yaml:"dir"`
	Console bool   `mapstructure:"console" yaml:"console"`
}

// GetConfigDir returns the aicmd config directory path
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, AppDirName), nil
}

// LoadDotEnv loads KEY=VALUE pairs from path into the environment.
// Variables already set win, and a missing file is not an error.
func LoadDotEnv(path string) error {
	if err := gotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

func setDefaults(v *viper.Viper, configDir string) {
	// AI defaults
	v.SetDefault("ai.provider", "openrouter")
	v.SetDefault("ai.model", "meta-llama/llama-3.3-70b-instruct:free")
	v.SetDefault("ai.base_url", "https://openrouter.ai/api/v1")
	v.SetDefault("ai.timeout", 30)
	v.SetDefault("ai.referer", "https://github.com/Lin-Jiong-HDU/aicmd")
	v.SetDefault("ai.title", "aicmd")
	v.SetDefault("ai.confirm", false)

	// Voice defaults
	v.SetDefault("voice.model", "scribe_v1")
	v.SetDefault("voice.base_url", "https://api.elevenlabs.io")
	v.SetDefault("voice.timeout", 60)

	// Security defaults
	v.SetDefault("security.blocked_commands", []string{})
	v.SetDefault("security.blocked_patterns", []string{})

	v.SetDefault("shell.path", "")
	v.SetDefault("shell.flag", "")

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.dir", filepath.Join(configDir, "logs"))
	v.SetDefault("log.console", false)
}

func bindEnv(v *viper.Viper) error {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Provider-standard names are accepted next to the prefixed ones.
	if err := v.BindEnv("ai.api_key", EnvPrefix+"_AI_API_KEY", "OPENROUTER_API_KEY"); err != nil {
		return err
	}
	return v.BindEnv("voice.api_key", EnvPrefix+"_VOICE_API_KEY", "ELEVENLABS_API_KEY")
}

// InitConfig initializes the configuration
func InitConfig() (*Config, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return nil, err
	}

	// Create config directory if not exists
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigName(ConfigFileName)
	v.SetConfigType(ConfigFileType)
	v.AddConfigPath(configDir)

	setDefaults(v, configDir)
	if err := bindEnv(v); err != nil {
		return nil, fmt.Errorf("failed to bind environment: %w", err)
	}

	// Read config file (ignore if not exists)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config = &cfg
	return config, nil
}

// GetConfig returns the loaded config
func GetConfig() *Config {
	return config
}

// SaveConfig saves the current config to file
func SaveConfig(cfg *Config) error {
	configDir, err := GetConfigDir()
	if err != nil {
		return err
	}

	// Create config directory if not exists
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigName(ConfigFileName)
	v.SetConfigType(ConfigFileType)
	v.AddConfigPath(configDir)

	v.Set("ai.provider", cfg.AI.Provider)
	v.Set("ai.api_key", cfg.AI.APIKey)
	v.Set("ai.model", cfg.AI.Model)
	v.Set("ai.base_url", cfg.AI.BaseURL)
	v.Set("ai.timeout", cfg.AI.Timeout)
	v.Set("ai.referer", cfg.AI.Referer)
	v.Set("ai.title", cfg.AI.Title)
	v.Set("ai.confirm", cfg.AI.Confirm)

	v.Set("voice.api_key", cfg.Voice.APIKey)
	v.Set("voice.model", cfg.Voice.Model)
	v.Set("voice.base_url", cfg.Voice.BaseURL)
	v.Set("voice.timeout", cfg.Voice.Timeout)

	// Save security config
	v.Set("security.blocked_commands", cfg.Security.BlockedCommands)
	v.Set("security.blocked_patterns", cfg.Security.BlockedPatterns)

	v.Set("shell.path", cfg.Shell.Path)
	v.Set("shell.flag", cfg.Shell.Flag)

	v.Set("log.level", cfg.Log.Level)
	v.Set("log.dir", cfg.Log.Dir)
	v.Set("log.console", cfg.Log.Console)

	configPath := filepath.Join(configDir, ConfigFileName+"."+ConfigFileType)
	return v.WriteConfigAs(configPath)
}

// Redacted returns a copy of cfg with API keys masked.
func (c Config) Redacted() Config {
	c.AI.APIKey = redact(c.AI.APIKey)
	c.Voice.APIKey = redact(c.Voice.APIKey)
	return c
}

func redact(secret string) string {
	if secret == "" {
		return ""
	}
	if len(secret) <= 8 {
		return "****"
	}
	return secret[:4] + "****"
}
