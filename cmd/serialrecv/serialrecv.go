package main

import (
	"context"
	"flag"
	"fmt"
	"github.com/BaiMeow/serialxfer/config"
	"github.com/BaiMeow/serialxfer/log"
	"github.com/BaiMeow/serialxfer/serialport"
	"github.com/BaiMeow/serialxfer/xfer"
	"go.uber.org/zap"
	"io"
	"os"
)

const DefaultMaxLen = 64 << 20

func main() {
	os.Exit(run(os.Args[1:], serialport.Opener, os.Stdout, os.Stderr))
}

// run receives one transfer from the port and writes the payload to -o, or
// to stdout when -o is empty.
func run(args []string, newOpener func(serialport.Config) xfer.Opener, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("serialrecv", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: serialrecv [flags] [PORT]")
		fs.PrintDefaults()
	}
	flags := config.RegisterFlags(fs, serialport.DefaultBaudRate)
	out := fs.String("o", "", "output file")
	maxLen := fs.Int("max", DefaultMaxLen, "largest accepted payload in bytes")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	settings, err := flags.Resolve(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	level, err := settings.Level()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	if err := log.Init(level, settings.LogEncoding); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	defer zap.L().Sync()

	ch, err := newOpener(settings.Serial)(context.Background())
	if err != nil {
		zap.L().Error("open channel", zap.String("port", settings.Serial.Port), zap.Error(err))
		fmt.Fprintln(stderr, "open failed:", err)
		return 1
	}
	defer ch.Close()

	payload, err := xfer.Receive(ch, *maxLen)
	if err != nil {
		zap.L().Error("receive failed", zap.Error(err))
		fmt.Fprintln(stderr, "receive failed:", err)
		return 1
	}
	zap.L().Info("transfer received", zap.Int("len", len(payload)))

	if *out == "" {
		if _, err := stdout.Write(payload); err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		return 0
	}
	if err := os.WriteFile(*out, payload, 0o644); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	return 0
}
