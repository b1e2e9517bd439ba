// Copyright 2025.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package process

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/Adembc/eicproxy/internal/core/ports"
)

type closeWriter interface {
	CloseWrite() error
}

type tcpRelay struct {
	logger  *zap.SugaredLogger
	timeout time.Duration
	in      io.Reader
	out     io.Writer
}

// NewTCPRelay returns a StreamRelay that connects stdin and stdout to a TCP
// address, the way ssh expects from a ProxyCommand.
func NewTCPRelay(logger *zap.SugaredLogger, dialTimeout time.Duration) ports.StreamRelay {
	return &tcpRelay{logger: logger, timeout: dialTimeout, in: os.Stdin, out: os.Stdout}
}

// Relay returns once the remote side closes the connection or ctx is done.
func (r *tcpRelay) Relay(ctx context.Context, address string) error {
	dialer := net.Dialer{Timeout: r.timeout}
	conn, err := dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		return fmt.Errorf("dial %s: %w", address, err)
	}
	defer func() { _ = conn.Close() }()

	r.logger.Debugw("relay connected", "address", address, "local", conn.LocalAddr().String())

	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	go func() {
		if _, err := io.Copy(conn, r.in); err != nil && !errors.Is(err, net.ErrClosed) {
			r.logger.Debugw("relay upstream copy ended", "error", err)
		}
		if cw, ok := conn.(closeWriter); ok {
			_ = cw.CloseWrite()
		}
	}()

	_, copyErr := io.Copy(r.out, conn)
	// The upstream goroutine may be blocked reading stdin; it ends with the
	// process.
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if copyErr != nil && !errors.Is(copyErr, net.ErrClosed) {
		return fmt.Errorf("relay from %s: %w", address, copyErr)
	}
	r.logger.Debugw("relay closed", "address", address)
	return nil
}
