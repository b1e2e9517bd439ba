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

import "strconv"

// ConnectionDescriptor is the parsed form of the user@target:port string
// handed to the proxy by the SSH client.
type ConnectionDescriptor struct {
	User      string
	HostToken string
	Port      int
}

// String re-serializes the descriptor into its user@target:port form.
func (d ConnectionDescriptor) String() string {
	return d.User + "@" + d.HostToken + ":" + strconv.Itoa(d.Port)
}

// HostTokenType classifies the target part of a descriptor.
type HostTokenType string

const (
	HostTokenInstanceID  HostTokenType = "instance_id"
	HostTokenIPv4        HostTokenType = "ipv4"
	HostTokenIPv6        HostTokenType = "ipv6"
	HostTokenDNSHostname HostTokenType = "dns_hostname"
)

// IsIP reports whether the token is an IPv4 or IPv6 literal.
func (t HostTokenType) IsIP() bool {
	return t == HostTokenIPv4 || t == HostTokenIPv6
}

// ResolutionMode selects how a host token is mapped to an instance.
type ResolutionMode string

const (
	ResolveByInstanceID     ResolutionMode = "instance_id"
	ResolveByTagName        ResolutionMode = "tag_name"
	ResolveByHostnameLookup ResolutionMode = "hostname_lookup"
)

// Mode is the program the proxy ends up driving.
type Mode string

const (
	// ModeProxy runs as an ssh ProxyCommand; stdio carries the SSH stream.
	ModeProxy Mode = "proxy"
	ModeSSH   Mode = "ssh"
	ModeSFTP  Mode = "sftp"
)
