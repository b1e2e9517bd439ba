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
	"errors"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/Adembc/eicproxy/internal/core/domain"
)

// RetryPolicy bounds every cloud call: Timeout applies per attempt and only
// throttling errors are retried, at most Attempts times.
type RetryPolicy struct {
	Attempts  int
	BaseDelay time.Duration
	Timeout   time.Duration
}

// RetryPolicyFromConfig builds the policy described by the config file.
func RetryPolicyFromConfig(cfg domain.Config) RetryPolicy {
	return RetryPolicy{
		Attempts:  cfg.RetryAttempts,
		BaseDelay: cfg.RetryBaseDelay(),
		Timeout:   cfg.Timeout(),
	}
}

func (p RetryPolicy) normalized() RetryPolicy {
	if p.Attempts < 0 {
		p.Attempts = 0
	}
	if p.BaseDelay <= 0 {
		p.BaseDelay = domain.DefaultRetryBaseDelayMS * time.Millisecond
	}
	if p.Timeout <= 0 {
		p.Timeout = domain.DefaultTimeoutSeconds * time.Second
	}
	return p
}

func (p RetryPolicy) do(ctx context.Context, op func(ctx context.Context) error) error {
	p = p.normalized()

	b := retry.NewExponential(p.BaseDelay)
	b = retry.WithJitterPercent(20, b)
	b = retry.WithMaxRetries(uint64(p.Attempts), b)

	return retry.Do(ctx, b, func(ctx context.Context) error {
		callCtx, cancel := context.WithTimeout(ctx, p.Timeout)
		defer cancel()

		err := op(callCtx)
		if errors.Is(err, domain.ErrThrottled) {
			return retry.RetryableError(err)
		}
		return err
	})
}
