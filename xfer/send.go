package xfer

import (
	"context"
	"errors"
	"go.uber.org/zap"
	"os"
)

// SendFile loads path and sends it over a channel acquired from open. The
// input is validated and loaded before open is called, and the channel is
// closed on every return path after a successful open.
func SendFile(ctx context.Context, path string, open Opener) error {
	if path == "" {
		return errors.Join(ErrInvalidInput, errors.New("no file to transfer"))
	}
	payload, err := os.ReadFile(path)
	if err != nil {
		return errors.Join(ErrInvalidInput, err)
	}
	zap.L().Debug("payload loaded", zap.String("file", path), zap.Int("len", len(payload)))

	ch, err := open(ctx)
	if err != nil {
		return errors.Join(ErrChannelOpen, err)
	}
	defer func() {
		if err := ch.Close(); err != nil {
			zap.L().Warn("close channel", zap.Error(err))
		}
	}()

	if err := Send(payload, ch); err != nil {
		return err
	}
	zap.L().Info("transfer complete", zap.String("file", path), zap.Int("len", len(payload)))
	return nil
}
