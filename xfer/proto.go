package xfer

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
)

const (
	Delimiter = '\r'

	// MaxHeaderDigits fits any int64 length.
	MaxHeaderDigits = 19
)

// Header returns the length prefix for an n byte payload: decimal ASCII
// followed by one carriage return.
func Header(n int) []byte {
	buf := make([]byte, 0, MaxHeaderDigits+1)
	buf = strconv.AppendInt(buf, int64(n), 10)
	return append(buf, Delimiter)
}

// Send writes Header(len(payload)) and then payload to w. Nothing is
// written after the payload.
func Send(payload []byte, w io.Writer) error {
	if err := writeAll(w, Header(len(payload))); err != nil {
		return err
	}
	if len(payload) == 0 {
		return nil
	}
	return writeAll(w, payload)
}

func writeAll(w io.Writer, buf []byte) error {
	n, err := w.Write(buf)
	if err != nil {
		return errors.Join(ErrChannelWrite, err)
	}
	if n != len(buf) {
		return errors.Join(ErrChannelWrite, fmt.Errorf("short write: %d of %d bytes", n, len(buf)))
	}
	return nil
}

// Receive reads one transfer from r. A positive limit bounds the accepted
// payload length.
func Receive(r io.Reader, limit int) ([]byte, error) {
	n, err := readHeader(r)
	if err != nil {
		return nil, err
	}
	if limit > 0 && n > int64(limit) {
		return nil, errors.Join(ErrBadHeader, fmt.Errorf("length %d exceeds limit %d", n, limit))
	}
	var payload bytes.Buffer
	if _, err := io.CopyN(&payload, r, n); err != nil {
		return nil, errors.Join(ErrTruncated, err)
	}
	return payload.Bytes(), nil
}

func readHeader(r io.Reader) (int64, error) {
	var (
		digits = make([]byte, 0, MaxHeaderDigits)
		b      [1]byte
	)
	for {
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return 0, errors.Join(ErrBadHeader, err)
		}
		if b[0] == Delimiter {
			break
		}
		if b[0] < '0' || b[0] > '9' {
			return 0, errors.Join(ErrBadHeader, fmt.Errorf("unexpected byte %#02x", b[0]))
		}
		if len(digits) == MaxHeaderDigits {
			return 0, errors.Join(ErrBadHeader, errors.New("header too long"))
		}
		digits = append(digits, b[0])
	}
	if len(digits) == 0 {
		return 0, errors.Join(ErrBadHeader, errors.New("empty header"))
	}
	n, err := strconv.ParseInt(string(digits), 10, 64)
	if err != nil {
		return 0, errors.Join(ErrBadHeader, err)
	}
	return n, nil
}
