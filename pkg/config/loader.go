package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// Load loads configuration from file with the following priority:
// 1. Explicit path via configPath parameter
// 2. ./mailprobe.yaml (current directory)
// 3. ./config/mailprobe.yaml
// 4. ~/.mailprobe/mailprobe.yaml (user home)
// 5. /etc/mailprobe/mailprobe.yaml (system-wide)
// Falls back to defaults if no config file is found
func Load(configPath string, logger zerolog.Logger) (*Config, error) {
	return LoadWithViper(viper.New(), configPath, logger)
}

// LoadWithViper is Load on a caller supplied viper instance, so command line
// flags bound to it override file values.
func LoadWithViper(v *viper.Viper, configPath string, logger zerolog.Logger) (*Config, error) {
	v.SetConfigName("mailprobe")
	v.SetConfigType("yaml")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".mailprobe"))
		}
		v.AddConfigPath("/etc/mailprobe")
	}

	// Environment variables use MAILPROBE_ prefix and underscore separators
	// Example: MAILPROBE_SMTP_TIMEOUT=10s, MAILPROBE_LOGGING_LEVEL_GLOBAL=debug
	v.SetEnvPrefix("MAILPROBE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvKeys(v)

	configFileUsed := ""
	foundConfigFile := false
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			logger.Debug().
				Str("searchPaths", "., ./config, ~/.mailprobe, /etc/mailprobe").
				Msg("No config file found in search paths, using defaults")
		} else {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	} else {
		configFileUsed = v.ConfigFileUsed()
		foundConfigFile = true
		logger.Debug().
			Str("configFile", configFileUsed).
			Msg("Config file found and loaded by viper")
	}

	// Unmarshal on top of defaults
	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	logger.Info().
		Bool("configFileFound", foundConfigFile).
		Str("configFile", configFileUsed).
		Interface("logging", cfg.Logging).
		Interface("ui", cfg.UI).
		Interface("outbox", cfg.Outbox).
		Interface("smtp", cfg.SMTP).
		Interface("plan", cfg.Plan).
		Msg("Complete effective configuration")

	applyLogLevelInheritance(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// bindEnvKeys registers every known key so AutomaticEnv also applies to keys that
// are not present in the config file.
func bindEnvKeys(v *viper.Viper) {
	for _, key := range []string{
		"logging.level.global",
		"logging.level.sender",
		"logging.level.ui",
		"logging.timestamp_format",
		"logging.color",
		"logging.file.enabled",
		"logging.file.path",
		"ui.theme",
		"ui.history.max_entries",
		"ui.history.max_log_lines",
		"ui.layout.default_view",
		"outbox.directory",
		"outbox.mailbox",
		"smtp.timeout",
		"smtp.helo_name",
		"plan.path",
	} {
		_ = v.BindEnv(key)
	}
}

// applyLogLevelInheritance fills empty component levels from the global level
func applyLogLevelInheritance(cfg *Config) {
	if cfg.Logging.Level.Sender == "" {
		cfg.Logging.Level.Sender = cfg.Logging.Level.Global
	}
	if cfg.Logging.Level.UI == "" {
		cfg.Logging.Level.UI = cfg.Logging.Level.Global
	}
}

// ParseLevel returns the zerolog level for a validated level name, defaulting to info.
func ParseLevel(level string) zerolog.Level {
	l, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		return zerolog.InfoLevel
	}
	return l
}
