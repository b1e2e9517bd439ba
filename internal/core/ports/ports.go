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

package ports

import (
	"context"

	"github.com/Adembc/eicproxy/internal/core/domain"
)

// InstanceDescriber queries the cloud for instances matching a filter.
type InstanceDescriber interface {
	DescribeInstances(ctx context.Context, scope domain.CloudScope, filter domain.InstanceFilter) ([]domain.InstanceEndpoint, error)
}

// KeyPusher registers a short-lived public key with one instance.
type KeyPusher interface {
	SendSSHPublicKey(ctx context.Context, scope domain.CloudScope, req domain.KeyPushRequest) error
}

// HostLookup resolves a DNS name to IP addresses.
type HostLookup interface {
	LookupHost(ctx context.Context, host string) ([]string, error)
}

// KeyStore is the on-disk key collaborator. Snapshot returns the entry names
// of dir, or an error wrapping fs.ErrNotExist when dir is missing.
type KeyStore interface {
	Snapshot(dir string) ([]string, error)
	Join(dir, name string) (string, error)
	Exists(path string) bool
	ReadPublicKey(path string) ([]byte, error)
	EnsureDir(dir string) error
	// GenerateKeyPair writes a new pair at privatePath and privatePath.pub
	// and returns the public key in authorized_keys format.
	GenerateKeyPair(privatePath string) ([]byte, error)
}

// CommandRunner executes the final client process with inherited stdio and
// returns its exit code.
type CommandRunner interface {
	Run(ctx context.Context, invocation domain.ProxyInvocation) (int, error)
}

// StreamRelay pipes stdin/stdout to a TCP address.
type StreamRelay interface {
	Relay(ctx context.Context, address string) error
}

// ConfigRepository loads and stores the application configuration.
type ConfigRepository interface {
	Load() (domain.Config, error)
	Save(config domain.Config) error
}

// ConfigProvider exposes OS level paths and environment.
type ConfigProvider interface {
	HomeDir() string
	ConfigPath(elems ...string) string
	LogPath(filename string) string
	GetEnvOrDefault(envVar, defaultValue string) string
}

// FlagsProvider exposes parsed command-line flags.
type FlagsProvider interface {
	IsDebug() bool
	ConfigDir() string
	Options() (domain.Options, error)
}

// ProxyService runs one eicproxy invocation and returns its exit code.
type ProxyService interface {
	Run(ctx context.Context, req domain.Request) (int, error)
}
