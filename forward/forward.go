package forward

import (
	"errors"
	"github.com/BaiMeow/serialxfer/xfer"
	"go.uber.org/zap"
	"io"
)

// NoSentinel disables the stop byte; forwarding then runs until r ends.
const NoSentinel = -1

// Bytes copies r to w one byte per write so every byte reaches the device as
// soon as it is read. The sentinel byte is forwarded like any other byte and
// ends forwarding. It returns the number of bytes forwarded.
func Bytes(r io.Reader, w io.Writer, sentinel int) (int, error) {
	var (
		b         [1]byte
		forwarded int
	)
	for {
		n, err := r.Read(b[:])
		if n == 1 {
			if _, werr := w.Write(b[:]); werr != nil {
				return forwarded, errors.Join(xfer.ErrChannelWrite, werr)
			}
			forwarded++
			zap.L().Debug("->serial", zap.Int("byte", int(b[0])))
			if int(b[0]) == sentinel {
				zap.L().Debug("sentinel forwarded, stop")
				return forwarded, nil
			}
		}
		if errors.Is(err, io.EOF) {
			return forwarded, nil
		}
		if err != nil {
			return forwarded, err
		}
	}
}
