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
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/ssh"

	"github.com/Adembc/eicproxy/internal/core/domain"
	"github.com/Adembc/eicproxy/internal/core/ports"
)

const (
	publicKeySuffix     = ".pub"
	defaultGeneratedKey = "id_rsa"
)

// DefaultKeyTypes is the order in which default keys are accepted.
var DefaultKeyTypes = []string{"id_rsa", "id_ed25519", "id_ecdsa", "id_dsa"}

// FindFirst returns the first key type whose public key is among existing.
// existing is a snapshot of a directory's entry names.
func FindFirst(existing []string, keyTypes []string) (string, bool) {
	present := make(map[string]struct{}, len(existing))
	for _, name := range existing {
		present[name] = struct{}{}
	}
	for _, keyType := range keyTypes {
		if _, ok := present[keyType+publicKeySuffix]; ok {
			return keyType, true
		}
	}
	return "", false
}

// keySource is one step of the key precedence list. ok=false means the step
// does not apply and the next one is tried.
type keySource func(opts domain.KeyOptions) (key domain.KeyMaterial, ok bool, err error)

// KeyManager picks or creates the key pair for an invocation.
type KeyManager struct {
	store  ports.KeyStore
	logger *zap.SugaredLogger
}

// NewKeyManager creates a new instance of KeyManager.
func NewKeyManager(logger *zap.SugaredLogger, store ports.KeyStore) *KeyManager {
	return &KeyManager{store: store, logger: logger}
}

// Acquire walks the precedence list: generate path, explicit public key,
// first default key, freshly generated default key.
func (m *KeyManager) Acquire(opts domain.KeyOptions) (domain.KeyMaterial, error) {
	sources := []keySource{
		m.fromGeneratePath,
		m.fromPublicKeyFile,
		m.fromKeyDirectory,
		m.generateDefault,
	}
	for _, source := range sources {
		key, ok, err := source(opts)
		if err != nil {
			return domain.KeyMaterial{}, err
		}
		if ok {
			m.logger.Infow("using key", "private_key", key.PrivateKeyPath, "ephemeral", key.Ephemeral)
			return key, nil
		}
	}
	return domain.KeyMaterial{}, domain.NewError(domain.ErrKeyGeneration, "no usable key source")
}

func (m *KeyManager) fromGeneratePath(opts domain.KeyOptions) (domain.KeyMaterial, bool, error) {
	path := opts.GenerateKeyPath
	if path == "" {
		return domain.KeyMaterial{}, false, nil
	}

	if m.store.Exists(path) {
		if !m.store.Exists(path + publicKeySuffix) {
			return domain.KeyMaterial{}, false, domain.NewError(domain.ErrKeyGeneration,
				fmt.Sprintf("refusing to overwrite existing key %s", path))
		}
		// A pair generated by an earlier run is reused as is.
		pub, err := m.readPublicKey(path + publicKeySuffix)
		if err != nil {
			return domain.KeyMaterial{}, false, err
		}
		m.logger.Debugw("reusing previously generated key", "path", path)
		return domain.KeyMaterial{PrivateKeyPath: path, PublicKey: pub}, true, nil
	}

	pub, err := m.generate(path)
	if err != nil {
		return domain.KeyMaterial{}, false, err
	}
	return domain.KeyMaterial{PrivateKeyPath: path, PublicKey: pub, Ephemeral: true}, true, nil
}

func (m *KeyManager) fromPublicKeyFile(opts domain.KeyOptions) (domain.KeyMaterial, bool, error) {
	path := opts.PublicKeyFile
	if path == "" {
		return domain.KeyMaterial{}, false, nil
	}

	pub, err := m.readPublicKey(path)
	if err != nil {
		return domain.KeyMaterial{}, false, err
	}

	key := domain.KeyMaterial{PublicKey: pub}
	if private := strings.TrimSuffix(path, publicKeySuffix); private != path && m.store.Exists(private) {
		key.PrivateKeyPath = private
	}
	return key, true, nil
}

func (m *KeyManager) fromKeyDirectory(opts domain.KeyOptions) (domain.KeyMaterial, bool, error) {
	entries, err := m.store.Snapshot(opts.KeyDirectory)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.KeyMaterial{}, false, nil
		}
		return domain.KeyMaterial{}, false, domain.WrapError(domain.ErrKeyRead,
			fmt.Sprintf("unable to list %s", opts.KeyDirectory), err)
	}

	keyType, found := FindFirst(entries, DefaultKeyTypes)
	if !found {
		return domain.KeyMaterial{}, false, nil
	}

	private, err := m.store.Join(opts.KeyDirectory, keyType)
	if err != nil {
		return domain.KeyMaterial{}, false, domain.WrapError(domain.ErrKeyRead, "invalid key path", err)
	}
	pub, err := m.readPublicKey(private + publicKeySuffix)
	if err != nil {
		return domain.KeyMaterial{}, false, err
	}

	key := domain.KeyMaterial{PublicKey: pub}
	if m.store.Exists(private) {
		key.PrivateKeyPath = private
	}
	return key, true, nil
}

func (m *KeyManager) generateDefault(opts domain.KeyOptions) (domain.KeyMaterial, bool, error) {
	if err := m.store.EnsureDir(opts.KeyDirectory); err != nil {
		return domain.KeyMaterial{}, false, domain.WrapError(domain.ErrKeyGeneration,
			fmt.Sprintf("unable to create %s", opts.KeyDirectory), err)
	}

	path, err := m.store.Join(opts.KeyDirectory, defaultGeneratedKey)
	if err != nil {
		return domain.KeyMaterial{}, false, domain.WrapError(domain.ErrKeyGeneration, "invalid key path", err)
	}
	if m.store.Exists(path) {
		return domain.KeyMaterial{}, false, domain.NewError(domain.ErrKeyGeneration,
			fmt.Sprintf("refusing to overwrite existing key %s", path))
	}

	pub, err := m.generate(path)
	if err != nil {
		return domain.KeyMaterial{}, false, err
	}
	return domain.KeyMaterial{PrivateKeyPath: path, PublicKey: pub, Ephemeral: true}, true, nil
}

func (m *KeyManager) generate(path string) ([]byte, error) {
	m.logger.Infow("generating key pair", "path", path)
	pub, err := m.store.GenerateKeyPair(path)
	if err != nil {
		return nil, domain.WrapError(domain.ErrKeyGeneration,
			fmt.Sprintf("unable to generate key at %s", path), err)
	}
	return pub, nil
}

// readPublicKey reads a public key and checks it is a single authorized_keys
// line. Any failure here is fatal.
func (m *KeyManager) readPublicKey(path string) ([]byte, error) {
	data, err := m.store.ReadPublicKey(path)
	if err != nil {
		return nil, domain.WrapError(domain.ErrKeyRead, fmt.Sprintf("unable to read %s", path), err)
	}
	if _, _, _, _, err := ssh.ParseAuthorizedKey(data); err != nil {
		return nil, domain.WrapError(domain.ErrKeyRead, fmt.Sprintf("%s is not a valid public key", path), err)
	}
	return data, nil
}
