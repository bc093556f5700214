package config

import "time"

// DefaultConfig returns a Config with the defaults used when no file is found
func DefaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level: LogLevelConfig{
				Global: "info",
				Sender: "", // inherits global
				UI:     "", // inherits global
			},
			TimestampFormat: "15:04:05",
			Color:           true,
			File: LogFileConfig{
				Enabled: false,
				Path:    "mailprobe.log",
			},
		},
		UI: UIConfig{
			Theme: "monokai",
			History: HistoryConfig{
				MaxEntries:  500,
				MaxLogLines: 10000,
			},
			Layout: LayoutConfig{
				DefaultView: "sampler",
				Outbox: ViewLayoutConfig{
					TableWidthPercent: 45,
					WrapWidth:         0,
				},
			},
			Editor: EditorConfig{
				NameWidth:  24,
				ValueWidth: 40,
			},
			Filter: FilterConfig{
				CharLimit: 100,
				Width:     50,
			},
		},
		Outbox: OutboxConfig{
			Directory: "outbox",
			Mailbox:   "Outbox",
		},
		SMTP: SMTPConfig{
			Timeout:  30 * time.Second,
			HeloName: "localhost",
		},
		Plan: PlanConfig{
			Path: "smtp-plan.yaml",
		},
	}
}
