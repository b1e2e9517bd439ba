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
	"crypto/rand"
	"crypto/rsa"
	"encoding/pem"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	securejoin "github.com/cyphar/filepath-securejoin"
	"go.uber.org/zap"
	"golang.org/x/crypto/ssh"

	"github.com/Adembc/eicproxy/internal/core/ports"
)

const (
	rsaKeyBits = 2048

	keyDirPerm     = 0o700
	privateKeyPerm = 0o600
	publicKeyPerm  = 0o644
)

type keyStore struct {
	logger *zap.SugaredLogger
}

// NewKeyStore returns a KeyStore backed by the local filesystem.
func NewKeyStore(logger *zap.SugaredLogger) ports.KeyStore {
	return &keyStore{logger: logger}
}

func (k *keyStore) Snapshot(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list key directory %s: %w", dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		// Symlinks are followed; dangling ones are kept and fail on read.
		if entry.Type()&fs.ModeSymlink != 0 {
			if info, err := os.Stat(filepath.Join(dir, entry.Name())); err == nil && info.IsDir() {
				continue
			}
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names, nil
}

// Join keeps name inside dir even when it carries ".." or symlinks.
func (k *keyStore) Join(dir, name string) (string, error) {
	return securejoin.SecureJoin(dir, name)
}

func (k *keyStore) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (k *keyStore) ReadPublicKey(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func (k *keyStore) EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, keyDirPerm); err != nil {
		return fmt.Errorf("create key directory %s: %w", dir, err)
	}
	return nil
}

func (k *keyStore) GenerateKeyPair(privatePath string) ([]byte, error) {
	publicPath := privatePath + ".pub"
	for _, path := range []string{privatePath, publicPath} {
		if _, err := os.Lstat(path); err == nil {
			return nil, fmt.Errorf("refusing to overwrite %s: %w", path, fs.ErrExist)
		}
	}

	if err := k.EnsureDir(filepath.Dir(privatePath)); err != nil {
		return nil, err
	}

	key, err := rsa.GenerateKey(rand.Reader, rsaKeyBits)
	if err != nil {
		return nil, fmt.Errorf("generate rsa key: %w", err)
	}
	block, err := ssh.MarshalPrivateKey(key, "")
	if err != nil {
		return nil, fmt.Errorf("marshal private key: %w", err)
	}
	pub, err := ssh.NewPublicKey(&key.PublicKey)
	if err != nil {
		return nil, fmt.Errorf("marshal public key: %w", err)
	}
	authorized := ssh.MarshalAuthorizedKey(pub)

	if err := writeExclusive(privatePath, pem.EncodeToMemory(block), privateKeyPerm); err != nil {
		return nil, err
	}
	if err := writeExclusive(publicPath, authorized, publicKeyPerm); err != nil {
		// Leave no half-written pair behind.
		_ = os.Remove(privatePath)
		return nil, err
	}

	k.logger.Infow("generated key pair", "private_key", privatePath, "public_key", publicPath)
	return authorized, nil
}

func writeExclusive(path string, data []byte, perm os.FileMode) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("refusing to overwrite %s: %w", path, err)
		}
		return fmt.Errorf("create %s: %w", path, err)
	}
	return finishWrite(f, path, data)
}

// finishWrite writes data to f and closes it. The file at path is removed
// when either step fails.
func finishWrite(f *os.File, path string, data []byte) error {
	_, err := f.Write(data)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
