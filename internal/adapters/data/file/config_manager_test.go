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

package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adembc/eicproxy/internal/core/domain"
)

func TestConfigRepositoryMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "eicproxy", "config.yaml")
	repo := NewConfigRepository(path, "/home/dev")

	cfg, err := repo.Load()
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultConfig("/home/dev"), cfg)

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "load must not create the file")
}

func TestConfigRepositoryRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "eicproxy", "config.yaml")
	repo := NewConfigRepository(path, "/home/dev")

	want := domain.DefaultConfig("/home/dev")
	want.Region = "eu-central-1"
	want.Profile = "ops"
	want.RetryAttempts = 5
	require.NoError(t, repo.Save(want))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	got, err := repo.Load()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestConfigRepositoryPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("region: us-west-2\nkey_directory: ~/keys\ntimeout_seconds: 0\n"), 0o600))

	cfg, err := NewConfigRepository(path, "/home/dev").Load()
	require.NoError(t, err)

	assert.Equal(t, "us-west-2", cfg.Region)
	assert.Equal(t, "/home/dev/keys", cfg.KeyDirectory)
	assert.Equal(t, domain.DefaultTimeoutSeconds, cfg.TimeoutSeconds)
	assert.Equal(t, domain.DefaultRetryAttempts, cfg.RetryAttempts)
}

func TestConfigRepositoryInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("region: [unterminated\n"), 0o600))

	cfg, err := NewConfigRepository(path, "/home/dev").Load()
	assert.Error(t, err)
	assert.Equal(t, domain.DefaultConfig("/home/dev"), cfg)
}

func TestExpandHome(t *testing.T) {
	assert.Equal(t, "/home/dev", expandHome("~", "/home/dev"))
	assert.Equal(t, "/home/dev/.ssh", expandHome("~/.ssh", "/home/dev"))
	assert.Equal(t, "/etc/keys", expandHome("/etc/keys", "/home/dev"))
	assert.Equal(t, "~other/keys", expandHome("~other/keys", "/home/dev"))
	assert.Equal(t, "~/.ssh", expandHome("~/.ssh", ""))
}
