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

const (
	exitOK    = 0
	exitFail  = 1
	exitUsage = 2
)

func main() {
	os.Exit(run(os.Args[1:], serialport.Opener, os.Stdout, os.Stderr))
}

// run sends FILE over the channel built by newOpener and returns the exit code.
func run(args []string, newOpener func(serialport.Config) xfer.Opener, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("serialsend", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: serialsend [flags] FILE [PORT]")
		fs.PrintDefaults()
	}
	flags := config.RegisterFlags(fs, serialport.DefaultBaudRate)
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(stderr, "Pass a filename to transfer over serial")
		fs.Usage()
		return exitUsage
	}

	settings, err := flags.Resolve(fs.Arg(1))
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}
	level, err := settings.Level()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}
	if err := log.Init(level, settings.LogEncoding); err != nil {
		fmt.Fprintln(stderr, err)
		return exitFail
	}
	defer zap.L().Sync()

	file := fs.Arg(0)
	zap.L().Info("send file",
		zap.String("file", file),
		zap.String("port", settings.Serial.Port),
		zap.Int("baud", settings.Serial.BaudRate))
	if err := xfer.SendFile(context.Background(), file, newOpener(settings.Serial)); err != nil {
		zap.L().Error("transfer failed", zap.Error(err))
		fmt.Fprintln(stderr, "transfer failed:", err)
		return exitFail
	}
	fmt.Fprintln(stdout, "File uploaded")
	return exitOK
}
