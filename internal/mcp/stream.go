package mcp

import (
	"context"
	"io"
	"sync"
)

// StdioStream implements jsonrpc2.Dialer over a reader/writer pair such as a
// process's stdin/stdout or a child process's pipes.
type StdioStream struct {
	reader io.Reader
	writer io.WriteCloser

	closeOnce sync.Once
	closeErr  error
}

func NewStdioStream(r io.Reader, w io.WriteCloser) *StdioStream {
	return &StdioStream{reader: r, writer: w}
}

func (s *StdioStream) Read(p []byte) (int, error) {
	return s.reader.Read(p)
}

func (s *StdioStream) Write(p []byte) (int, error) {
	return s.writer.Write(p)
}

func (s *StdioStream) Close() error {
	s.closeOnce.Do(func() {
		if err := s.writer.Close(); err != nil {
			s.closeErr = err
			return
		}
		if closer, ok := s.reader.(io.Closer); ok {
			s.closeErr = closer.Close()
		}
	})
	return s.closeErr
}

// Dial returns the stream itself; a StdioStream carries exactly one
// connection.
func (s *StdioStream) Dial(ctx context.Context) (io.ReadWriteCloser, error) {
	return s, nil
}
