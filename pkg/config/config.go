package config

import (
	"time"
)

// Config represents the complete mailprobe configuration
type Config struct {
	Logging LoggingConfig `mapstructure:"logging"`
	UI      UIConfig      `mapstructure:"ui"`
	Outbox  OutboxConfig  `mapstructure:"outbox"`
	SMTP    SMTPConfig    `mapstructure:"smtp"`
	Plan    PlanConfig    `mapstructure:"plan"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level           LogLevelConfig `mapstructure:"level"`
	TimestampFormat string         `mapstructure:"timestamp_format"`
	Color           bool           `mapstructure:"color"`
	File            LogFileConfig  `mapstructure:"file"`
}

// LogLevelConfig contains log levels for each component
type LogLevelConfig struct {
	Global string `mapstructure:"global"`
	Sender string `mapstructure:"sender"`
	UI     string `mapstructure:"ui"`
}

// LogFileConfig contains file logging settings
type LogFileConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// UIConfig contains UI preferences
type UIConfig struct {
	Theme   string        `mapstructure:"theme"`
	History HistoryConfig `mapstructure:"history"`
	Layout  LayoutConfig  `mapstructure:"layout"`
	Editor  EditorConfig  `mapstructure:"editor"`
	Filter  FilterConfig  `mapstructure:"filter"`
}

// HistoryConfig contains history limits
type HistoryConfig struct {
	MaxEntries  int `mapstructure:"max_entries"`
	MaxLogLines int `mapstructure:"max_log_lines"`
}

// LayoutConfig contains layout preferences
type LayoutConfig struct {
	DefaultView string           `mapstructure:"default_view"`
	Outbox      ViewLayoutConfig `mapstructure:"outbox"`
}

// ViewLayoutConfig contains split ratios for a view
type ViewLayoutConfig struct {
	TableWidthPercent int `mapstructure:"table_width_percent"`
	WrapWidth         int `mapstructure:"wrap_width"` // 0 = no wrap
}

// EditorConfig contains header editor sizes
type EditorConfig struct {
	NameWidth  int `mapstructure:"name_width"`
	ValueWidth int `mapstructure:"value_width"`
}

// FilterConfig contains filter settings
type FilterConfig struct {
	CharLimit int `mapstructure:"char_limit"`
	Width     int `mapstructure:"width"`
}

// OutboxConfig contains the dry-run mailbox location
type OutboxConfig struct {
	Directory string `mapstructure:"directory"`
	Mailbox   string `mapstructure:"mailbox"`
}

// SMTPConfig contains transport defaults
type SMTPConfig struct {
	Timeout  time.Duration `mapstructure:"timeout"`
	HeloName string        `mapstructure:"helo_name"`
}

// PlanConfig contains test plan settings
type PlanConfig struct {
	Path string `mapstructure:"path"`
}
