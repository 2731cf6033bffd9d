package config

import (
	"flag"

	"go.uber.org/zap/zapcore"
)

// Flags are the command line options every command shares.
type Flags struct {
	fs       *flag.FlagSet
	defBaud  int
	path     string
	baud     int
	attempts int
	level    zapcore.Level
}

func RegisterFlags(fs *flag.FlagSet, defaultBaud int) *Flags {
	f := &Flags{fs: fs, defBaud: defaultBaud, level: zapcore.InfoLevel}
	fs.StringVar(&f.path, "config", "", "toml config file")
	fs.IntVar(&f.baud, "baud", defaultBaud, "baud rate")
	fs.IntVar(&f.attempts, "retries", 1, "attempts to open the port")
	fs.Var(&f.level, "log", "log level")
	return f
}

// Resolve layers defaults, the config file and the flags that were set
// explicitly, in that order. A non-empty port argument wins over all of them.
func (f *Flags) Resolve(port string) (Settings, error) {
	cfg, err := Load(f.path, Default(f.defBaud))
	if err != nil {
		return Settings{}, err
	}
	f.fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "baud":
			cfg.Serial.BaudRate = f.baud
		case "retries":
			cfg.Serial.OpenAttempts = f.attempts
		case "log":
			cfg.LogLevel = f.level.String()
		}
	})
	if port != "" {
		cfg.Serial.Port = port
	}
	if err := Validate(cfg); err != nil {
		return Settings{}, err
	}
	return cfg, nil
}

// Level parses LogLevel.
func (s Settings) Level() (zapcore.Level, error) {
	return zapcore.ParseLevel(s.LogLevel)
}
