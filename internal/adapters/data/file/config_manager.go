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
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/Adembc/eicproxy/internal/core/domain"
	"github.com/Adembc/eicproxy/internal/core/ports"
)

type configManager struct {
	filePath string
	homeDir  string
}

// NewConfigRepository returns a ConfigRepository stored as YAML at filePath.
func NewConfigRepository(filePath, homeDir string) ports.ConfigRepository {
	return &configManager{
		filePath: filePath,
		homeDir:  homeDir,
	}
}

// Load reads the config file. A missing file yields the defaults and is not
// created.
func (cm *configManager) Load() (domain.Config, error) {
	data, err := os.ReadFile(cm.filePath)
	if errors.Is(err, fs.ErrNotExist) {
		return domain.DefaultConfig(cm.homeDir), nil
	}
	if err != nil {
		return domain.DefaultConfig(cm.homeDir), fmt.Errorf("read config %s: %w", cm.filePath, err)
	}

	config := domain.DefaultConfig(cm.homeDir)
	if err := yaml.Unmarshal(data, &config); err != nil {
		return domain.DefaultConfig(cm.homeDir), fmt.Errorf("parse config %s: %w", cm.filePath, err)
	}

	config.KeyDirectory = expandHome(config.KeyDirectory, cm.homeDir)
	return config.Normalize(cm.homeDir), nil
}

func (cm *configManager) Save(config domain.Config) error {
	if err := cm.ensureDirectory(); err != nil {
		return err
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return err
	}

	return os.WriteFile(cm.filePath, data, 0o600)
}

func (cm *configManager) ensureDirectory() error {
	dir := filepath.Dir(cm.filePath)
	return os.MkdirAll(dir, 0o700)
}

// expandHome resolves a leading "~/" against home.
func expandHome(path, home string) string {
	if home == "" {
		return path
	}
	if path == "~" {
		return home
	}
	if len(path) > 1 && path[0] == '~' && path[1] == '/' {
		return filepath.Join(home, path[2:])
	}
	return path
}
