package serialport

import (
	"context"
	"io"
	"sync"
)

// MockPort is an in-memory channel for tests.
type MockPort struct {
	mu sync.Mutex

	ReadData []byte

	// WriteData holds every accepted byte, Chunks the same bytes split the
	// way a device driver would hand them over, at most MaxChunk each.
	WriteData []byte
	Chunks    [][]byte
	MaxChunk  int
	Writes    int

	// FailWrite makes the Nth Write call (1-based) return WriteErr.
	// Zero with a non-nil WriteErr fails every write.
	FailWrite int
	WriteErr  error

	Opens    int
	OpenErr  error
	Closed   bool
	CloseErr error
}

func (m *MockPort) Read(p []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.ReadData) == 0 {
		return 0, io.EOF
	}
	n := copy(p, m.ReadData)
	m.ReadData = m.ReadData[n:]
	return n, nil
}

func (m *MockPort) Write(p []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Writes++
	if m.WriteErr != nil && (m.FailWrite == 0 || m.FailWrite == m.Writes) {
		return 0, m.WriteErr
	}
	m.WriteData = append(m.WriteData, p...)
	for rest := p; len(rest) > 0; {
		n := len(rest)
		if m.MaxChunk > 0 && n > m.MaxChunk {
			n = m.MaxChunk
		}
		m.Chunks = append(m.Chunks, append([]byte(nil), rest[:n]...))
		rest = rest[n:]
	}
	return len(p), nil
}

func (m *MockPort) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Closed = true
	return m.CloseErr
}

// Open counts the call and hands out m itself, or OpenErr.
func (m *MockPort) Open(context.Context) (io.ReadWriteCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Opens++
	if m.OpenErr != nil {
		return nil, m.OpenErr
	}
	return m, nil
}
