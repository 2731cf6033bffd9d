package serialport

import (
	"context"
	"fmt"
	"github.com/BaiMeow/serialxfer/utils"
	"github.com/BaiMeow/serialxfer/xfer"
	"go.bug.st/serial"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"io"
	"time"
)

const (
	DefaultPort          = "/dev/ttyACM0"
	DefaultBaudRate      = 57600
	DefaultRetryInterval = 500 * time.Millisecond
)

type Config struct {
	Port     string
	BaudRate int

	// OpenAttempts bounds how often Opener tries the device, at most one
	// attempt per RetryInterval.
	OpenAttempts  int
	RetryInterval time.Duration
}

func (c Config) withDefaults() Config {
	if c.Port == "" {
		c.Port = DefaultPort
	}
	if c.BaudRate == 0 {
		c.BaudRate = DefaultBaudRate
	}
	if c.OpenAttempts < 1 {
		c.OpenAttempts = 1
	}
	if c.RetryInterval <= 0 {
		c.RetryInterval = DefaultRetryInterval
	}
	return c
}

// Port is an open serial device in 8N1 mode.
type Port struct {
	serial.Port
	name string
}

func Open(cfg Config) (*Port, error) {
	cfg = cfg.withDefaults()
	mode := &serial.Mode{
		BaudRate: cfg.BaudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	p, err := serial.Open(cfg.Port, mode)
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", cfg.Port, err)
	}
	zap.L().Debug("serial port open", zap.String("port", cfg.Port), zap.Int("baud", cfg.BaudRate))
	return &Port{Port: p, name: cfg.Port}, nil
}

func (p *Port) Name() string {
	return p.name
}

func (p *Port) Close() error {
	zap.L().Debug("serial port close", zap.String("port", p.name))
	return p.Port.Close()
}

// Opener returns an xfer.Opener for cfg that retries a failing open up to
// cfg.OpenAttempts times.
func Opener(cfg Config) xfer.Opener {
	cfg = cfg.withDefaults()
	return func(ctx context.Context) (io.ReadWriteCloser, error) {
		limiter := rate.NewLimiter(rate.Every(cfg.RetryInterval), 1)
		var port *Port
		err := utils.Retry(ctx, limiter, func() error {
			var err error
			port, err = Open(cfg)
			return err
		}, cfg.OpenAttempts)
		if err != nil {
			return nil, err
		}
		return port, nil
	}
}
