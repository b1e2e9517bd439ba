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

package cloud

import (
	"context"
	"fmt"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2instanceconnect"
	"go.uber.org/zap"

	"github.com/Adembc/eicproxy/internal/core/domain"
)

// Sessions loads one AWS configuration per profile and region and hands out
// service clients built from it. Retries are left to the caller, so the SDK
// retryer is limited to a single attempt.
type Sessions struct {
	mu       sync.Mutex
	defaults domain.CloudScope
	configs  map[domain.CloudScope]aws.Config
	logger   *zap.SugaredLogger

	load func(ctx context.Context, scope domain.CloudScope) (aws.Config, error)
}

// NewSessions creates a session cache. defaults fills in a profile or region
// missing from a call's scope. appID is reported in the SDK user agent.
func NewSessions(logger *zap.SugaredLogger, defaults domain.CloudScope, appID string) *Sessions {
	return &Sessions{
		defaults: defaults,
		configs:  make(map[domain.CloudScope]aws.Config),
		logger:   logger,
		load: func(ctx context.Context, scope domain.CloudScope) (aws.Config, error) {
			return config.LoadDefaultConfig(ctx, loadOptions(scope, appID)...)
		},
	}
}

func loadOptions(scope domain.CloudScope, appID string) []func(*config.LoadOptions) error {
	opts := []func(*config.LoadOptions) error{
		config.WithRetryMaxAttempts(1),
	}
	if appID != "" {
		opts = append(opts, config.WithAppID(appID))
	}
	if scope.Profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(scope.Profile))
	}
	if scope.Region != "" {
		opts = append(opts, config.WithRegion(scope.Region))
	}
	return opts
}

func (s *Sessions) config(ctx context.Context, scope domain.CloudScope) (aws.Config, error) {
	if scope.Profile == "" {
		scope.Profile = s.defaults.Profile
	}
	if scope.Region == "" {
		scope.Region = s.defaults.Region
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if cfg, ok := s.configs[scope]; ok {
		return cfg, nil
	}
	cfg, err := s.load(ctx, scope)
	if err != nil {
		return aws.Config{}, fmt.Errorf("load aws config (profile %q, region %q): %w", scope.Profile, scope.Region, err)
	}
	s.logger.Debugw("aws config loaded", "profile", scope.Profile, "region", cfg.Region)
	s.configs[scope] = cfg
	return cfg, nil
}

// EC2 returns an EC2 client for scope.
func (s *Sessions) EC2(ctx context.Context, scope domain.CloudScope) (*ec2.Client, error) {
	cfg, err := s.config(ctx, scope)
	if err != nil {
		return nil, err
	}
	return ec2.NewFromConfig(cfg), nil
}

// InstanceConnect returns an EC2 Instance Connect client for scope.
func (s *Sessions) InstanceConnect(ctx context.Context, scope domain.CloudScope) (*ec2instanceconnect.Client, error) {
	cfg, err := s.config(ctx, scope)
	if err != nil {
		return nil, err
	}
	return ec2instanceconnect.NewFromConfig(cfg), nil
}
