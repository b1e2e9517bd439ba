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

	"go.uber.org/zap"

	"github.com/Adembc/eicproxy/internal/core/domain"
	"github.com/Adembc/eicproxy/internal/core/ports"
)

type proxyService struct {
	chains    *ChainBuilder
	keys      *KeyManager
	publisher *KeyPublisher
	invoker   *ProxyInvoker
	keyDir    string
	logger    *zap.SugaredLogger
}

// NewProxyService creates a new instance of proxyService.
func NewProxyService(logger *zap.SugaredLogger, chains *ChainBuilder, keys *KeyManager, publisher *KeyPublisher, invoker *ProxyInvoker, keyDir string) ports.ProxyService {
	return &proxyService{
		chains:    chains,
		keys:      keys,
		publisher: publisher,
		invoker:   invoker,
		keyDir:    keyDir,
		logger:    logger,
	}
}

// Run executes one invocation: parse, resolve every hop, pick the key,
// publish it to every hop and hand over to the client. It returns the exit
// code to terminate with.
func (s *proxyService) Run(ctx context.Context, req domain.Request) (int, error) {
	desc, err := ParseConnectionString(req.Descriptor)
	if err != nil {
		return domain.ExitCode(err), err
	}

	target, err := NewBundle(desc, req.Options, true)
	if err != nil {
		return domain.ExitCode(err), err
	}

	s.logger.Infow("connection start", "mode", req.Mode, "user", desc.User, "target", target.Label(),
		"port", desc.Port, "jump_hosts", len(req.Options.JumpHosts))

	chain, err := s.chains.Build(ctx, target, req.Options)
	if err != nil {
		return domain.ExitCode(err), err
	}

	key, err := s.keys.Acquire(domain.KeyOptions{
		GenerateKeyPath: req.Options.GenerateKeyPath,
		PublicKeyFile:   req.Options.PublicKeyFile,
		KeyDirectory:    s.keyDir,
	})
	if err != nil {
		return domain.ExitCode(err), err
	}

	plan, err := BuildPlan(req.Mode, chain, key, req.Options.UsePrivateIP, req.PassThrough)
	if err != nil {
		return domain.ExitCode(err), err
	}
	if plan.Invocation == nil && len(req.PassThrough) > 0 {
		s.logger.Warnw("ignoring pass-through flags while relaying directly", "flags", req.PassThrough)
	}

	for i, hop := range chain.Hops() {
		if err := s.publisher.Publish(ctx, hop, key); err != nil {
			err = fmt.Errorf("hop %d (%s): %w", i+1, hop.Label(), err)
			return domain.ExitCode(err), err
		}
	}

	return s.invoker.Invoke(ctx, plan)
}
