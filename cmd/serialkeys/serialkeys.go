package main

import (
	"context"
	"flag"
	"fmt"
	"github.com/BaiMeow/serialxfer/config"
	"github.com/BaiMeow/serialxfer/forward"
	"github.com/BaiMeow/serialxfer/log"
	"github.com/BaiMeow/serialxfer/serialport"
	"github.com/BaiMeow/serialxfer/xfer"
	"go.uber.org/zap"
	"io"
	"os"
)

const DefaultBaudRate = 9600

func main() {
	os.Exit(run(os.Args[1:], serialport.Opener, os.Stdin, os.Stderr))
}

// run forwards stdin to the port until the sentinel byte has been sent.
func run(args []string, newOpener func(serialport.Config) xfer.Opener, stdin io.Reader, stderr io.Writer) int {
	fs := flag.NewFlagSet("serialkeys", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: serialkeys [flags] [PORT]")
		fs.PrintDefaults()
	}
	flags := config.RegisterFlags(fs, DefaultBaudRate)
	sentinel := fs.String("sentinel", "q", "byte that is forwarded last, empty to forward until EOF")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	stop := forward.NoSentinel
	switch len(*sentinel) {
	case 0:
	case 1:
		stop = int((*sentinel)[0])
	default:
		fmt.Fprintf(stderr, "sentinel must be a single byte, got %q\n", *sentinel)
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

	zap.L().Info("forwarding input", zap.String("port", settings.Serial.Port), zap.Int("baud", settings.Serial.BaudRate))
	n, err := forward.Bytes(stdin, ch, stop)
	if err != nil {
		zap.L().Error("forward failed", zap.Int("forwarded", n), zap.Error(err))
		fmt.Fprintln(stderr, "forward failed:", err)
		return 1
	}
	zap.L().Info("forwarding done", zap.Int("forwarded", n))
	return 0
}
