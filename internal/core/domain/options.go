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

// Options are the command-line flags consumed by the proxy.
type Options struct {
	Region  string
	Zone    string
	Profile string

	InstanceID string

	PublicKeyFile   string
	GenerateKeyPath string

	UsePrivateIP    bool
	UseTagName      bool
	ResolveHostname bool

	JumpHosts []string
}

// Request is one invocation of the proxy.
type Request struct {
	Mode       Mode
	Descriptor string
	Options    Options
	// PassThrough holds client flags given after the descriptor.
	PassThrough []string
}
