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

package services

import (
	"context"
	"fmt"
	"net"
	"net/netip"
	"strconv"

	"go.uber.org/zap"

	"github.com/Adembc/eicproxy/internal/core/domain"
	"github.com/Adembc/eicproxy/internal/core/ports"
)

// InvocationPlan is what the proxy does last: run a client, or relay the
// stream itself when it is the ProxyCommand and there is nothing to hop
// through.
type InvocationPlan struct {
	Invocation   *domain.ProxyInvocation
	RelayAddress string
}

// BuildPlan selects an address for every hop and builds the final command
// line. Address selection happens here, not during resolution.
func BuildPlan(mode domain.Mode, chain domain.JumpChain, key domain.KeyMaterial, usePrivate bool, passThrough []string) (InvocationPlan, error) {
	jumps := make([]domain.Hop, 0, len(chain.Jumps))
	for _, bundle := range chain.Jumps {
		hop, err := hopFor(bundle, usePrivate)
		if err != nil {
			return InvocationPlan{}, err
		}
		jumps = append(jumps, hop)
	}
	target, err := hopFor(chain.Target, usePrivate)
	if err != nil {
		return InvocationPlan{}, err
	}

	fragments := NestProxyCommand(jumps, target, key.PrivateKeyPath)

	switch mode {
	case domain.ModeProxy:
		if len(fragments) == 0 {
			return InvocationPlan{RelayAddress: net.JoinHostPort(target.Address, strconv.Itoa(target.Port))}, nil
		}
		outer := fragments[len(fragments)-1]
		outer.Args = insertBeforeDestination(outer.Args, passThrough)
		return InvocationPlan{Invocation: &outer}, nil

	case domain.ModeSSH, domain.ModeSFTP:
		portFlag, destination := "-p", target.User+"@"+target.Address
		if mode == domain.ModeSFTP {
			// sftp takes -P for the port and needs brackets around IPv6 hosts.
			portFlag = "-P"
			if addr, err := netip.ParseAddr(target.Address); err == nil && addr.Is6() {
				destination = target.User + "@[" + target.Address + "]"
			}
		}

		args := identityArgs(key.PrivateKeyPath)
		args = append(args, portFlag, strconv.Itoa(target.Port))
		if len(fragments) > 0 {
			args = append(args, "-o", "ProxyCommand="+ProxyCommandString(fragments[len(fragments)-1]))
		}
		args = append(args, passThrough...)
		args = append(args, destination)
		return InvocationPlan{Invocation: &domain.ProxyInvocation{Program: string(mode), Args: args}}, nil
	}

	return InvocationPlan{}, fmt.Errorf("unknown mode %q", mode)
}

func hopFor(bundle *domain.InstanceBundle, usePrivate bool) (domain.Hop, error) {
	if !bundle.Resolved() {
		return domain.Hop{}, fmt.Errorf("target %s is not resolved", bundle.Label())
	}
	addr, err := SelectAddress(*bundle.Endpoint, usePrivate)
	if err != nil {
		return domain.Hop{}, err
	}
	return domain.Hop{User: bundle.User, Address: addr, Port: bundle.Port}, nil
}

// insertBeforeDestination places extra flags ahead of the trailing
// user@host argument.
func insertBeforeDestination(args, extra []string) []string {
	if len(extra) == 0 || len(args) == 0 {
		return args
	}
	out := make([]string, 0, len(args)+len(extra))
	out = append(out, args[:len(args)-1]...)
	out = append(out, extra...)
	return append(out, args[len(args)-1])
}

// ProxyInvoker executes an invocation plan.
type ProxyInvoker struct {
	runner ports.CommandRunner
	relay  ports.StreamRelay
	logger *zap.SugaredLogger
}

// NewProxyInvoker creates a new instance of ProxyInvoker.
func NewProxyInvoker(logger *zap.SugaredLogger, runner ports.CommandRunner, relay ports.StreamRelay) *ProxyInvoker {
	return &ProxyInvoker{runner: runner, relay: relay, logger: logger}
}

// Invoke runs the plan and returns the exit code to propagate.
func (i *ProxyInvoker) Invoke(ctx context.Context, plan InvocationPlan) (int, error) {
	if plan.Invocation == nil {
		i.logger.Infow("relaying stream", "address", plan.RelayAddress)
		if err := i.relay.Relay(ctx, plan.RelayAddress); err != nil {
			return domain.ExitGeneralError, fmt.Errorf("relay to %s: %w", plan.RelayAddress, err)
		}
		return domain.ExitSuccess, nil
	}

	i.logger.Infow("invoking client", "program", plan.Invocation.Program, "args", plan.Invocation.Args)
	code, err := i.runner.Run(ctx, *plan.Invocation)
	if err != nil {
		i.logger.Errorw("client invocation failed", "program", plan.Invocation.Program, "error", err)
		return domain.ExitSubprocessFailure, domain.WrapError(domain.ErrSubprocessInvocation,
			fmt.Sprintf("unable to run %s", plan.Invocation.Program), err)
	}

	i.logger.Infow("client exited", "program", plan.Invocation.Program, "exit_code", code)
	return code, nil
}
