package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/BaiMeow/serialxfer/serialport"
	"github.com/BurntSushi/toml"
)

// Settings are the values shared by every command. Flags set explicitly on
// the command line are applied after Load.
type Settings struct {
	Serial      serialport.Config
	LogLevel    string
	LogEncoding string
}

type fileConfig struct {
	Port          string `toml:"port"`
	Baud          int    `toml:"baud"`
	OpenAttempts  int    `toml:"open_attempts"`
	RetryInterval string `toml:"retry_interval"`
	LogLevel      string `toml:"log_level"`
	LogEncoding   string `toml:"log_encoding"`
}

func Default(baud int) Settings {
	return Settings{
		Serial: serialport.Config{
			Port:          serialport.DefaultPort,
			BaudRate:      baud,
			OpenAttempts:  1,
			RetryInterval: serialport.DefaultRetryInterval,
		},
		LogLevel:    "info",
		LogEncoding: "json",
	}
}

// Load overlays the keys defined in the TOML file at path onto base. An
// empty path returns base unchanged.
func Load(path string, base Settings) (Settings, error) {
	if path == "" {
		return base, nil
	}
	cfg := base

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Settings{}, fmt.Errorf("load config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Settings{}, fmt.Errorf("load config: unknown key %q", undecoded[0].String())
	}

	if meta.IsDefined("port") {
		cfg.Serial.Port = strings.TrimSpace(raw.Port)
	}
	if meta.IsDefined("baud") {
		cfg.Serial.BaudRate = raw.Baud
	}
	if meta.IsDefined("open_attempts") {
		cfg.Serial.OpenAttempts = raw.OpenAttempts
	}
	if meta.IsDefined("retry_interval") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.RetryInterval))
		if err != nil {
			return Settings{}, fmt.Errorf("parse retry_interval: %w", err)
		}
		cfg.Serial.RetryInterval = d
	}
	if meta.IsDefined("log_level") {
		cfg.LogLevel = strings.TrimSpace(raw.LogLevel)
	}
	if meta.IsDefined("log_encoding") {
		cfg.LogEncoding = strings.TrimSpace(raw.LogEncoding)
	}

	if err := Validate(cfg); err != nil {
		return Settings{}, err
	}
	return cfg, nil
}

func Validate(cfg Settings) error {
	if strings.TrimSpace(cfg.Serial.Port) == "" {
		return fmt.Errorf("config missing port")
	}
	if cfg.Serial.BaudRate <= 0 {
		return fmt.Errorf("invalid baud %d", cfg.Serial.BaudRate)
	}
	if cfg.Serial.OpenAttempts < 1 {
		return fmt.Errorf("open_attempts must be at least 1")
	}
	if cfg.Serial.RetryInterval <= 0 {
		return fmt.Errorf("retry_interval must be positive")
	}
	switch cfg.LogEncoding {
	case "json", "console":
	default:
		return fmt.Errorf("unknown log_encoding %q", cfg.LogEncoding)
	}
	return nil
}
