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
	"crypto/ed25519"
	"crypto/rand"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"golang.org/x/crypto/ssh"

	"github.com/Adembc/eicproxy/internal/core/domain"
)

var fastPolicy = RetryPolicy{Attempts: 2, BaseDelay: time.Millisecond, Timeout: time.Second}

func testAuthorizedKey(t *testing.T) []byte {
	t.Helper()
	pub, _, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	sshPub, err := ssh.NewPublicKey(pub)
	if err != nil {
		t.Fatalf("ssh public key: %v", err)
	}
	return ssh.MarshalAuthorizedKey(sshPub)
}

func endpoint(id, publicIP, privateIP string) domain.InstanceEndpoint {
	return domain.InstanceEndpoint{
		InstanceID:       id,
		PublicIP:         publicIP,
		PrivateIP:        privateIP,
		AvailabilityZone: "us-east-1a",
	}
}

type fakeDescriber struct {
	calls   []domain.InstanceFilter
	scopes  []domain.CloudScope
	respond func(filter domain.InstanceFilter) ([]domain.InstanceEndpoint, error)
}

func (f *fakeDescriber) DescribeInstances(_ context.Context, scope domain.CloudScope, filter domain.InstanceFilter) ([]domain.InstanceEndpoint, error) {
	f.calls = append(f.calls, filter)
	f.scopes = append(f.scopes, scope)
	if f.respond == nil {
		return nil, nil
	}
	return f.respond(filter)
}

// describeByID answers instance id queries from a fixed inventory.
func describeByID(inventory ...domain.InstanceEndpoint) *fakeDescriber {
	return &fakeDescriber{
		respond: func(filter domain.InstanceFilter) ([]domain.InstanceEndpoint, error) {
			var out []domain.InstanceEndpoint
			for _, id := range filter.InstanceIDs {
				for _, ep := range inventory {
					if ep.InstanceID == id {
						out = append(out, ep)
					}
				}
			}
			return out, nil
		},
	}
}

func (f *fakeDescriber) requestedIDs() []string {
	var ids []string
	for _, call := range f.calls {
		ids = append(ids, call.InstanceIDs...)
	}
	return ids
}

type fakeLookup struct {
	hosts map[string][]string
	calls []string
}

func (f *fakeLookup) LookupHost(_ context.Context, host string) ([]string, error) {
	f.calls = append(f.calls, host)
	addrs, ok := f.hosts[host]
	if !ok {
		return nil, fmt.Errorf("lookup %s: no such host", host)
	}
	return addrs, nil
}

type fakePusher struct {
	requests []domain.KeyPushRequest
	errs     []error
}

func (f *fakePusher) SendSSHPublicKey(_ context.Context, _ domain.CloudScope, req domain.KeyPushRequest) error {
	f.requests = append(f.requests, req)
	if len(f.errs) == 0 {
		return nil
	}
	err := f.errs[0]
	f.errs = f.errs[1:]
	return err
}

func (f *fakePusher) instanceIDs() []string {
	ids := make([]string, 0, len(f.requests))
	for _, req := range f.requests {
		ids = append(ids, req.InstanceID)
	}
	return ids
}

// memKeyStore is an in-memory KeyStore.
type memKeyStore struct {
	t         *testing.T
	files     map[string][]byte
	dirs      map[string]bool
	generated []string
	genErr    error
}

func newMemKeyStore(t *testing.T, dirs ...string) *memKeyStore {
	s := &memKeyStore{t: t, files: map[string][]byte{}, dirs: map[string]bool{}}
	for _, dir := range dirs {
		s.dirs[dir] = true
	}
	return s
}

func (s *memKeyStore) put(path string, data []byte) {
	s.dirs[filepath.Dir(path)] = true
	s.files[path] = data
}

func (s *memKeyStore) Snapshot(dir string) ([]string, error) {
	if !s.dirs[dir] {
		return nil, fmt.Errorf("list %s: %w", dir, fs.ErrNotExist)
	}
	var names []string
	for path := range s.files {
		if filepath.Dir(path) == dir {
			names = append(names, filepath.Base(path))
		}
	}
	sort.Strings(names)
	return names, nil
}

func (s *memKeyStore) Join(dir, name string) (string, error) {
	return filepath.Join(dir, name), nil
}

func (s *memKeyStore) Exists(path string) bool {
	_, ok := s.files[path]
	return ok || s.dirs[path]
}

func (s *memKeyStore) ReadPublicKey(path string) ([]byte, error) {
	data, ok := s.files[path]
	if !ok {
		return nil, fmt.Errorf("read %s: %w", path, fs.ErrNotExist)
	}
	return data, nil
}

func (s *memKeyStore) EnsureDir(dir string) error {
	s.dirs[dir] = true
	return nil
}

func (s *memKeyStore) GenerateKeyPair(privatePath string) ([]byte, error) {
	if s.genErr != nil {
		return nil, s.genErr
	}
	if s.Exists(privatePath) || s.Exists(privatePath+".pub") {
		return nil, fmt.Errorf("refusing to overwrite %s: %w", privatePath, fs.ErrExist)
	}
	pub := testAuthorizedKey(s.t)
	s.put(privatePath, []byte("PRIVATE"))
	s.put(privatePath+".pub", pub)
	s.generated = append(s.generated, privatePath)
	return pub, nil
}

type fakeRunner struct {
	invocations []domain.ProxyInvocation
	code        int
	err         error
}

func (f *fakeRunner) Run(_ context.Context, inv domain.ProxyInvocation) (int, error) {
	f.invocations = append(f.invocations, inv)
	return f.code, f.err
}

type fakeRelay struct {
	addresses []string
	err       error
}

func (f *fakeRelay) Relay(_ context.Context, address string) error {
	f.addresses = append(f.addresses, address)
	return f.err
}
