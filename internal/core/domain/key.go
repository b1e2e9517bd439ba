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

// KeyMaterial is the key pair used for one invocation.
type KeyMaterial struct {
	// PrivateKeyPath may be empty when only a public key was supplied; the
	// ssh client then falls back to its own identity resolution.
	PrivateKeyPath string
	PublicKey      []byte
	// Ephemeral is true when this run generated the pair.
	Ephemeral bool
}

// KeyOptions are the key related command-line inputs.
type KeyOptions struct {
	GenerateKeyPath string
	PublicKeyFile   string
	// KeyDirectory is scanned for default keys, usually ~/.ssh.
	KeyDirectory string
}
