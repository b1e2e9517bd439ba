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
	"os"
	"os/exec"

	"go.uber.org/zap"

	"github.com/Adembc/eicproxy/internal/core/domain"
	"github.com/Adembc/eicproxy/internal/core/ports"
)

type execRunner struct {
	logger     *zap.SugaredLogger
	newCommand func(ctx context.Context, program string, args ...string) *exec.Cmd
}

// NewExecRunner returns a CommandRunner that runs the client binary with the
// proxy's own stdin, stdout and stderr.
func NewExecRunner(logger *zap.SugaredLogger) ports.CommandRunner {
	return &execRunner{
		logger: logger,
		newCommand: func(ctx context.Context, program string, args ...string) *exec.Cmd {
			cmd := exec.CommandContext(ctx, program, args...)
			cmd.Stdin = os.Stdin
			cmd.Stdout = os.Stdout
			cmd.Stderr = os.Stderr
			return cmd
		},
	}
}

// Run returns the child's exit code. An error means the child could not be
// started or did not exit normally.
func (r *execRunner) Run(ctx context.Context, invocation domain.ProxyInvocation) (int, error) {
	cmd := r.newCommand(ctx, invocation.Program, invocation.Args...)
	if cmd == nil {
		return 0, fmt.Errorf("no command for %s", invocation.Program)
	}
	if cmd.Err != nil {
		return 0, cmd.Err
	}

	r.logger.Debugw("starting client", "path", cmd.Path, "args", invocation.Args)
	err := cmd.Run()
	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if code := exitErr.ExitCode(); code >= 0 {
			return code, nil
		}
		return 0, fmt.Errorf("%s terminated: %w", invocation.Program, err)
	}
	return 0, err
}
