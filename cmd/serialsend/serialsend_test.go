package main

import (
	"bytes"
	"errors"
	"github.com/BaiMeow/serialxfer/serialport"
	"github.com/BaiMeow/serialxfer/xfer"
	"go.uber.org/zap"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type harness struct {
	port   *serialport.MockPort
	cfg    *serialport.Config
	stdout bytes.Buffer
	stderr bytes.Buffer
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	t.Cleanup(zap.ReplaceGlobals(zap.NewNop()))
	return &harness{port: &serialport.MockPort{}}
}

func (h *harness) run(args ...string) int {
	return run(args, func(cfg serialport.Config) xfer.Opener {
		h.cfg = &cfg
		return h.port.Open
	}, &h.stdout, &h.stderr)
}

func payloadFile(t *testing.T, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prog.bin")
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("write payload: %v", err)
	}
	return path
}

func TestRun_MissingFileArgument(t *testing.T) {
	h := newHarness(t)
	if code := h.run(); code == exitOK {
		t.Fatalf("exit code: got %d, want non-zero", code)
	}
	if !strings.Contains(h.stderr.String(), "Pass a filename") {
		t.Errorf("diagnostic missing: %q", h.stderr.String())
	}
	if h.cfg != nil || h.port.Opens != 0 {
		t.Error("channel opened without a file argument")
	}
}

func TestRun_Upload(t *testing.T) {
	h := newHarness(t)
	path := payloadFile(t, "hello")
	if code := h.run("-log", "error", path, "/dev/ttyUSB3"); code != exitOK {
		t.Fatalf("exit code: got %d, stderr %q", code, h.stderr.String())
	}
	if got := h.stdout.String(); got != "File uploaded\n" {
		t.Errorf("stdout: got %q", got)
	}
	if string(h.port.WriteData) != "5\rhello" {
		t.Errorf("wire: got %q", h.port.WriteData)
	}
	if h.cfg.Port != "/dev/ttyUSB3" || h.cfg.BaudRate != serialport.DefaultBaudRate {
		t.Errorf("channel config: got %+v", *h.cfg)
	}
	if !h.port.Closed {
		t.Error("channel not released")
	}
}

func TestRun_DefaultPortAndBaudFlag(t *testing.T) {
	h := newHarness(t)
	if code := h.run("-log", "error", "-baud", "115200", payloadFile(t, "")); code != exitOK {
		t.Fatalf("exit code: got %d, stderr %q", code, h.stderr.String())
	}
	if h.cfg.Port != serialport.DefaultPort || h.cfg.BaudRate != 115200 {
		t.Errorf("channel config: got %+v", *h.cfg)
	}
	if string(h.port.WriteData) != "0\r" {
		t.Errorf("wire: got %q", h.port.WriteData)
	}
}

func TestRun_WriteFailure(t *testing.T) {
	h := newHarness(t)
	h.port.FailWrite = 2
	h.port.WriteErr = errors.New("device unplugged")
	if code := h.run("-log", "error", payloadFile(t, "hello")); code != exitFail {
		t.Fatalf("exit code: got %d, want %d", code, exitFail)
	}
	if !strings.Contains(h.stderr.String(), "transfer failed") {
		t.Errorf("diagnostic missing: %q", h.stderr.String())
	}
	if h.stdout.Len() != 0 {
		t.Errorf("confirmation printed on failure: %q", h.stdout.String())
	}
	if string(h.port.WriteData) != "5\r" || !h.port.Closed {
		t.Errorf("wire %q closed %v", h.port.WriteData, h.port.Closed)
	}
}

func TestRun_OpenFailure(t *testing.T) {
	h := newHarness(t)
	h.port.OpenErr = errors.New("no such file or directory")
	if code := h.run("-log", "error", payloadFile(t, "x")); code != exitFail {
		t.Fatalf("exit code: got %d, want %d", code, exitFail)
	}
}

func TestRun_UnreadableFileNeverOpens(t *testing.T) {
	h := newHarness(t)
	missing := filepath.Join(t.TempDir(), "missing.bin")
	if code := h.run("-log", "error", missing); code != exitFail {
		t.Fatalf("exit code: got %d, want %d", code, exitFail)
	}
	if h.port.Opens != 0 {
		t.Error("channel opened for an unreadable file")
	}
}

func TestRun_BadFlag(t *testing.T) {
	h := newHarness(t)
	if code := h.run("-nope", "file"); code != exitUsage {
		t.Errorf("exit code: got %d, want %d", code, exitUsage)
	}
}
