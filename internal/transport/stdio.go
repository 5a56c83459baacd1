// ABOUTME: Local stream transport: newline-delimited JSON-RPC over stdin/stdout
// ABOUTME: One record per line in, one response per line out, flushed immediately

package transport

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/daybook/daybook/internal/mcp"
)

// maxLineSize bounds a single stdio record (10MB).
const maxLineSize = 10 << 20

// StdioServer frames the protocol over a line-delimited local stream.
type StdioServer struct {
	dispatcher *mcp.Dispatcher
	logger     *slog.Logger
	in         io.Reader
	out        io.Writer
}

// NewStdioServer creates a stdio transport over the given streams.
func NewStdioServer(d *mcp.Dispatcher, in io.Reader, out io.Writer, logger *slog.Logger) (*StdioServer, error) {
	if d == nil {
		return nil, errors.New("dispatcher is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &StdioServer{
		dispatcher: d,
		logger:     logger.With("component", "stdio"),
		in:         in,
		out:        out,
	}, nil
}

// Serve reads records until the input stream closes or ctx is cancelled.
// Records that don't yield usable bytes are skipped; nothing in the loop
// terminates the process. Each response is written as one line and
// flushed before the next record is read.
func (s *StdioServer) Serve(ctx context.Context) error {
	scanner := bufio.NewScanner(s.in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	writer := bufio.NewWriter(s.out)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		resp := s.dispatcher.Handle(ctx, line)
		if resp == nil {
			continue
		}

		if _, err := writer.Write(resp); err != nil {
			return fmt.Errorf("writing response: %w", err)
		}
		if err := writer.WriteByte('\n'); err != nil {
			return fmt.Errorf("writing response: %w", err)
		}
		if err := writer.Flush(); err != nil {
			return fmt.Errorf("flushing response: %w", err)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	s.logger.Info("input stream closed")
	return nil
}
