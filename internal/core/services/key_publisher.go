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
	"strings"

	"go.uber.org/zap"

	"github.com/Adembc/eicproxy/internal/core/domain"
	"github.com/Adembc/eicproxy/internal/core/ports"
)

// KeyPublisher pushes the session public key to resolved instances.
type KeyPublisher struct {
	pusher ports.KeyPusher
	policy RetryPolicy
	logger *zap.SugaredLogger
}

// NewKeyPublisher creates a new instance of KeyPublisher.
func NewKeyPublisher(logger *zap.SugaredLogger, pusher ports.KeyPusher, policy RetryPolicy) *KeyPublisher {
	return &KeyPublisher{pusher: pusher, policy: policy, logger: logger}
}

// Publish registers key with the bundle's instance for the bundle's user.
// Pushed keys expire quickly, so callers publish right before connecting.
func (p *KeyPublisher) Publish(ctx context.Context, bundle *domain.InstanceBundle, key domain.KeyMaterial) error {
	if !bundle.Resolved() {
		return fmt.Errorf("cannot publish key for unresolved target %s", bundle.Label())
	}

	req := domain.KeyPushRequest{
		InstanceID:       bundle.Endpoint.InstanceID,
		OSUser:           bundle.User,
		AvailabilityZone: bundle.Endpoint.AvailabilityZone,
		PublicKey:        strings.TrimSpace(string(key.PublicKey)),
	}

	err := p.policy.do(ctx, func(ctx context.Context) error {
		return p.pusher.SendSSHPublicKey(ctx, bundle.Scope(), req)
	})
	if err != nil {
		p.logger.Errorw("key publish failed", "instance_id", req.InstanceID, "user", req.OSUser, "error", err)
		return domain.WrapError(domain.ErrKeyPublish,
			fmt.Sprintf("unable to publish key to %s as %s", req.InstanceID, req.OSUser), err)
	}

	p.logger.Infow("key published", "instance_id", req.InstanceID, "user", req.OSUser, "zone", req.AvailabilityZone)
	return nil
}
