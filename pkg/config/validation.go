package config

import (
	"fmt"
	"strings"
)

// validate validates the configuration
func validate(cfg *Config) error {
	if err := validateLogLevels(cfg.Logging.Level); err != nil {
		return err
	}

	if err := validateUI(cfg.UI); err != nil {
		return err
	}

	if err := validateOutbox(cfg.Outbox); err != nil {
		return err
	}

	if err := validateSMTP(cfg.SMTP); err != nil {
		return err
	}

	return nil
}

// validateLogLevels validates log level settings
func validateLogLevels(levels LogLevelConfig) error {
	validLevels := map[string]bool{
		"trace": true,
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
		"fatal": true,
	}

	checkLevel := func(level, component string) error {
		if level == "" {
			return nil // Empty is valid (inherits)
		}
		if !validLevels[strings.ToLower(level)] {
			return fmt.Errorf("invalid log level '%s' for %s: must be one of: trace, debug, info, warn, error, fatal", level, component)
		}
		return nil
	}

	if err := checkLevel(levels.Global, "global"); err != nil {
		return err
	}
	if err := checkLevel(levels.Sender, "sender"); err != nil {
		return err
	}
	if err := checkLevel(levels.UI, "ui"); err != nil {
		return err
	}

	return nil
}

// validateUI validates UI configuration
func validateUI(ui UIConfig) error {
	validViews := map[string]bool{
		"sampler": true,
		"outbox":  true,
		"logs":    true,
	}
	if !validViews[ui.Layout.DefaultView] {
		return fmt.Errorf("invalid default view '%s': must be one of: sampler, outbox, logs", ui.Layout.DefaultView)
	}

	if ui.Layout.Outbox.TableWidthPercent < 0 || ui.Layout.Outbox.TableWidthPercent > 100 {
		return fmt.Errorf("invalid outbox table width percent: must be between 0 and 100")
	}
	if ui.Layout.Outbox.WrapWidth < 0 {
		return fmt.Errorf("wrap_width must not be negative")
	}

	if ui.History.MaxEntries < 1 {
		return fmt.Errorf("max_entries must be at least 1")
	}
	if ui.History.MaxLogLines < 1 {
		return fmt.Errorf("max_log_lines must be at least 1")
	}

	if ui.Editor.NameWidth < 4 || ui.Editor.ValueWidth < 4 {
		return fmt.Errorf("header editor widths must be at least 4")
	}

	return nil
}

// validateOutbox validates the dry-run outbox settings
func validateOutbox(outbox OutboxConfig) error {
	if strings.TrimSpace(outbox.Directory) == "" {
		return fmt.Errorf("outbox directory must not be empty")
	}
	return nil
}

// validateSMTP validates transport defaults
func validateSMTP(smtp SMTPConfig) error {
	if smtp.Timeout < 0 {
		return fmt.Errorf("invalid smtp timeout %s: must not be negative", smtp.Timeout)
	}
	if strings.ContainsAny(smtp.HeloName, " \t\r\n") {
		return fmt.Errorf("invalid helo_name '%s': must not contain whitespace", smtp.HeloName)
	}
	return nil
}
