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

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Adembc/eicproxy/internal/core/ports"
)

// ConfigDirEnv overrides the configuration directory.
const ConfigDirEnv = "EICPROXY_CONFIG_DIR"

type OSConfig struct {
	homeDir   string
	configDir string
}

// NewOSConfig resolves the configuration directory from, in order, the
// configDir argument, $EICPROXY_CONFIG_DIR and ~/.config/eicproxy.
func NewOSConfig(configDir string) (ports.ConfigProvider, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	c := &OSConfig{homeDir: home}
	if configDir == "" {
		configDir = c.GetEnvOrDefault(ConfigDirEnv, filepath.Join(home, ".config", "eicproxy"))
	}
	c.configDir = c.expand(configDir)
	return c, nil
}

func (c *OSConfig) expand(path string) string {
	switch {
	case path == "~":
		return c.homeDir
	case strings.HasPrefix(path, "~/"):
		return filepath.Join(c.homeDir, path[2:])
	}
	return path
}

func (c *OSConfig) HomeDir() string {
	return c.homeDir
}

func (c *OSConfig) ConfigPath(elems ...string) string {
	return filepath.Join(c.configDir, filepath.Join(elems...))
}

func (c *OSConfig) LogPath(filename string) string {
	return c.ConfigPath("logs", filename)
}

func (c *OSConfig) GetEnvOrDefault(envVar, defaultValue string) string {
	if value := os.Getenv(envVar); value != "" {
		return value
	}
	return defaultValue
}
