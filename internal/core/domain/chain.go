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

// JumpChain is the ordered list of jump hosts followed by the final target.
// Order is outer to inner as seen from the invoking client.
type JumpChain struct {
	Jumps  []*InstanceBundle
	Target *InstanceBundle
}

// Hops returns every bundle in connection order, target last.
func (c JumpChain) Hops() []*InstanceBundle {
	hops := make([]*InstanceBundle, 0, len(c.Jumps)+1)
	hops = append(hops, c.Jumps...)
	if c.Target != nil {
		hops = append(hops, c.Target)
	}
	return hops
}

// Hop is a resolved connection point inside a proxy command.
type Hop struct {
	User    string
	Address string
	Port    int
}

// ProxyInvocation is the final command line handed to the ssh or sftp binary.
type ProxyInvocation struct {
	Program string
	Args    []string
}

// Argv returns the program followed by its arguments.
func (p ProxyInvocation) Argv() []string {
	argv := make([]string, 0, len(p.Args)+1)
	argv = append(argv, p.Program)
	return append(argv, p.Args...)
}
