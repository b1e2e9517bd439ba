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

package domain

import (
	"path/filepath"
	"time"
)

const (
	DefaultTimeoutSeconds   = 15
	DefaultRetryAttempts    = 3
	DefaultRetryBaseDelayMS = 250
	DefaultLogMaxSizeMB     = 10
	DefaultLogMaxBackups    = 5
)

// Config represents the application configuration
type Config struct {
	// Region and Profile are used when -r/-u are not given. Empty values defer
	// to the AWS SDK's own resolution chain.
	Region  string `yaml:"region"`
	Profile string `yaml:"profile"`

	// TimeoutSeconds bounds every describe and key-push call
	TimeoutSeconds int `yaml:"timeout_seconds"`

	// RetryAttempts is the retry budget for throttled calls
	RetryAttempts    int `yaml:"retry_attempts"`
	RetryBaseDelayMS int `yaml:"retry_base_delay_ms"`

	// KeyDirectory is scanned for default keys and receives generated ones
	KeyDirectory string `yaml:"key_directory"`

	LogMaxSizeMB  int `yaml:"log_max_size_mb"`
	LogMaxBackups int `yaml:"log_max_backups"`
}

// DefaultConfig returns the default configuration for the given home directory
func DefaultConfig(homeDir string) Config {
	keyDir := "~/.ssh"
	if homeDir != "" {
		keyDir = filepath.Join(homeDir, ".ssh")
	}

	return Config{
		TimeoutSeconds:   DefaultTimeoutSeconds,
		RetryAttempts:    DefaultRetryAttempts,
		RetryBaseDelayMS: DefaultRetryBaseDelayMS,
		KeyDirectory:     keyDir,
		LogMaxSizeMB:     DefaultLogMaxSizeMB,
		LogMaxBackups:    DefaultLogMaxBackups,
	}
}

// Normalize replaces out-of-range values with defaults.
func (c Config) Normalize(homeDir string) Config {
	def := DefaultConfig(homeDir)
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = def.TimeoutSeconds
	}
	if c.RetryAttempts < 0 {
		c.RetryAttempts = 0
	}
	if c.RetryBaseDelayMS <= 0 {
		c.RetryBaseDelayMS = def.RetryBaseDelayMS
	}
	if c.KeyDirectory == "" {
		c.KeyDirectory = def.KeyDirectory
	}
	if c.LogMaxSizeMB <= 0 {
		c.LogMaxSizeMB = def.LogMaxSizeMB
	}
	if c.LogMaxBackups <= 0 {
		c.LogMaxBackups = def.LogMaxBackups
	}
	return c
}

// Timeout returns the per-call timeout.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// RetryBaseDelay returns the first backoff interval.
func (c Config) RetryBaseDelay() time.Duration {
	return time.Duration(c.RetryBaseDelayMS) * time.Millisecond
}
