package config

import (
	"fmt"
	"log/slog"
	"strings"
)

const (
	fmtErrInvalidConfigOption = "config field '%s' is invalid: %s"
	fmtErrEmptyConfigOption   = "config field '%s' cannot be empty"
)

func validateConfig(config *Config) error {
	if err := validateGeneral(&config.General); err != nil {
		return err
	}
	if err := validateNotifications(&config.Notifications); err != nil {
		return err
	}
	if err := validateHistory(&config.History); err != nil {
		return err
	}
	return validateUI(&config.UI)
}

func validateGeneral(general *GeneralConfig) error {
	if general.HealthCheckInterval <= 0 {
		return fmt.Errorf(fmtErrInvalidConfigOption, "general.health_check_interval", "must be a positive number of seconds")
	}
	if general.LogLevel == "" {
		return fmt.Errorf(fmtErrEmptyConfigOption, "general.log_level")
	}
	if _, err := general.Level(); err != nil {
		return fmt.Errorf(fmtErrInvalidConfigOption, "general.log_level", err.Error())
	}
	return nil
}

func validateNotifications(notifications *NotificationsConfig) error {
	if notifications.Port < 1 || notifications.Port > 65535 {
		return fmt.Errorf(fmtErrInvalidConfigOption, "notifications.port", "must be between 1 and 65535")
	}
	if notifications.Broker != "" && notifications.Topic == "" {
		return fmt.Errorf(fmtErrEmptyConfigOption, "notifications.topic")
	}
	return nil
}

func validateHistory(history *HistoryConfig) error {
	if history.RetentionDays < 0 {
		return fmt.Errorf(fmtErrInvalidConfigOption, "history.retention_days", "cannot be negative")
	}
	return nil
}

func validateUI(ui *UIConfig) error {
	if ui.Port < 1 || ui.Port > 65535 {
		return fmt.Errorf(fmtErrInvalidConfigOption, "ui.port", "must be between 1 and 65535")
	}
	return nil
}

// Level maps the configured log level onto slog. The vocabulary follows the
// config file convention (DEBUG, INFO, WARNING, ERROR), case-insensitive.
func (g GeneralConfig) Level() (slog.Level, error) {
	switch strings.ToUpper(g.LogLevel) {
	case "DEBUG":
		return slog.LevelDebug, nil
	case "INFO":
		return slog.LevelInfo, nil
	case "WARNING", "WARN":
		return slog.LevelWarn, nil
	case "ERROR":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", g.LogLevel)
	}
}
