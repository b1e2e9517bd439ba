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
	"strconv"
	"strings"

	"github.com/kballard/go-shellquote"
	"go.uber.org/zap"

	"github.com/Adembc/eicproxy/internal/core/domain"
)

const sshProgram = "ssh"

// ChainBuilder assembles the jump chain for an invocation.
type ChainBuilder struct {
	resolver *TargetResolver
	logger   *zap.SugaredLogger
}

// NewChainBuilder creates a new instance of ChainBuilder.
func NewChainBuilder(logger *zap.SugaredLogger, resolver *TargetResolver) *ChainBuilder {
	return &ChainBuilder{resolver: resolver, logger: logger}
}

// Build parses every jump descriptor, then resolves the hops in input order,
// target last. The first failure aborts the chain; later hops are never
// touched.
func (b *ChainBuilder) Build(ctx context.Context, target *domain.InstanceBundle, opts domain.Options) (domain.JumpChain, error) {
	chain := domain.JumpChain{Target: target}

	for _, raw := range opts.JumpHosts {
		desc, err := ParseConnectionString(raw)
		if err != nil {
			return domain.JumpChain{}, fmt.Errorf("jump host %q: %w", raw, err)
		}
		bundle, err := NewBundle(desc, opts, false)
		if err != nil {
			return domain.JumpChain{}, fmt.Errorf("jump host %q: %w", raw, err)
		}
		chain.Jumps = append(chain.Jumps, bundle)
	}

	for i, hop := range chain.Hops() {
		if err := b.resolver.Resolve(ctx, hop); err != nil {
			b.logger.Errorw("hop resolution failed", "hop", i+1, "target", hop.Label(), "error", err)
			return domain.JumpChain{}, fmt.Errorf("hop %d (%s): %w", i+1, hop.Label(), err)
		}
	}
	return chain, nil
}

// NestProxyCommand folds the jump list, first to last, into ssh fragments.
// Fragment i tunnels through jump i to the next hop and carries fragment i-1
// as its ProxyCommand, so the first jump ends up innermost and the returned
// last fragment is the one that reaches target.
func NestProxyCommand(jumps []domain.Hop, target domain.Hop, identity string) []domain.ProxyInvocation {
	fragments := make([]domain.ProxyInvocation, 0, len(jumps))
	for i, jump := range jumps {
		next := target
		if i+1 < len(jumps) {
			next = jumps[i+1]
		}

		args := identityArgs(identity)
		args = append(args,
			"-p", strconv.Itoa(jump.Port),
			"-W", net.JoinHostPort(next.Address, strconv.Itoa(next.Port)),
		)
		if i > 0 {
			args = append(args, "-o", "ProxyCommand="+ProxyCommandString(fragments[i-1]))
		}
		args = append(args, jump.User+"@"+jump.Address)

		fragments = append(fragments, domain.ProxyInvocation{Program: sshProgram, Args: args})
	}
	return fragments
}

// ProxyCommandString renders a fragment for use as an ssh ProxyCommand value.
// ssh hands the value to a shell after expanding % tokens, so the argv is
// shell quoted and literal percent signs are doubled.
func ProxyCommandString(fragment domain.ProxyInvocation) string {
	return strings.ReplaceAll(shellquote.Join(fragment.Argv()...), "%", "%%")
}

func identityArgs(identity string) []string {
	if identity == "" {
		return []string{}
	}
	return []string{"-i", identity}
}
