package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	xdgAppName = "donna"
	configFile = "config.json"
)

// OllamaConfig selects the language model.
type OllamaConfig struct {
	Host  string `json:"host,omitempty"` // default http://localhost:11434
	Model string `json:"model"`
}

// SMTPConfig configures outbound email.
type SMTPConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
	From     string `json:"from"`
}

// SchedulerConfig tunes the reminder loop.
type SchedulerConfig struct {
	ReminderLookaheadHours int    `json:"reminder_lookahead_hours,omitempty"` // default 24
	DigestHour             int    `json:"digest_hour,omitempty"`              // default 9
	DigestRecipient        string `json:"digest_recipient,omitempty"`         // empty: digest is only logged
}

type Config struct {
	CalendarID string          `json:"calendar_id,omitempty"` // default "primary"
	UserEmail  string          `json:"user_email,omitempty"`
	Timezone   string          `json:"timezone,omitempty"` // workday location, default UTC
	Ollama     OllamaConfig    `json:"ollama"`
	SMTP       SMTPConfig      `json:"smtp"`
	Scheduler  SchedulerConfig `json:"scheduler"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		CalendarID: "primary",
		Ollama:     OllamaConfig{Model: "llama3.1"},
		Scheduler:  SchedulerConfig{ReminderLookaheadHours: 24, DigestHour: 9},
	}
}

func GetConfigPath() (string, error) {
	xdgHome, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(xdgHome, ".config", xdgAppName, configFile), nil
}

func Load() (*Config, error) {
	path, err := GetConfigPath()
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}
	defer f.Close()

	cfg := Default()
	if err := json.NewDecoder(f).Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if cfg.CalendarID == "" {
		cfg.CalendarID = "primary"
	}
	return cfg, nil
}

func Save(cfg *Config) error {
	path, err := GetConfigPath()
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to open config file for writing: %w", err)
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ")
	return encoder.Encode(cfg)
}

// Location resolves the configured timezone, falling back to UTC.
func (c *Config) Location() *time.Location {
	if c.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
