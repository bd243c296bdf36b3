package config

import "time"

type Config struct {
	General       GeneralConfig       `yaml:"general"`
	Monitoring    MonitoringConfig    `yaml:"monitoring"`
	Notifications NotificationsConfig `yaml:"notifications"`
	History       HistoryConfig       `yaml:"history"`
	UI            UIConfig            `yaml:"ui"`
}

type GeneralConfig struct {
	HealthCheckInterval int    `yaml:"health_check_interval"`
	LogLevel            string `yaml:"log_level"`
}

var DefaultGeneralConfig = GeneralConfig{
	HealthCheckInterval: 60,
	LogLevel:            "INFO",
}

// Interval returns the health check cadence as a duration.
func (g GeneralConfig) Interval() time.Duration {
	return time.Duration(g.HealthCheckInterval) * time.Second
}

type MonitoringConfig struct {
	EnableNotifications bool `yaml:"enable_notifications"`
}

var DefaultMonitoringConfig = MonitoringConfig{
	EnableNotifications: true,
}

// NotificationsConfig describes the MQTT broker health events are published
// to. An empty broker disables publishing regardless of
// monitoring.enable_notifications.
type NotificationsConfig struct {
	Broker string `yaml:"broker"`
	Port   int    `yaml:"port"`
	Topic  string `yaml:"topic"`
}

var DefaultNotificationsConfig = NotificationsConfig{
	Port:  1883,
	Topic: "ad-setup/events",
}

type HistoryConfig struct {
	Enabled       bool `yaml:"enabled"`
	RetentionDays int  `yaml:"retention_days"`
}

var DefaultHistoryConfig = HistoryConfig{
	Enabled:       true,
	RetentionDays: 7,
}

type UIConfig struct {
	Port int `yaml:"port"`
}

var DefaultUIConfig = UIConfig{
	Port: 8080,
}
