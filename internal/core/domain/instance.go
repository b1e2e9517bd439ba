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

import "fmt"

// InstanceEndpoint holds the resolved facts about one EC2 instance. Empty
// strings mean the instance has no such address.
type InstanceEndpoint struct {
	InstanceID       string
	PublicDNS        string
	PrivateDNS       string
	PublicIP         string
	PrivateIP        string
	AvailabilityZone string
}

// HasAddress reports whether at least one connectable address is known.
func (e InstanceEndpoint) HasAddress() bool {
	return e.PublicDNS != "" || e.PrivateDNS != "" || e.PublicIP != "" || e.PrivateIP != ""
}

// CloudScope carries the credential profile and region a call runs under.
type CloudScope struct {
	Profile string
	Region  string
}

// InstanceFilter is a describe-instances query. Exactly one of InstanceIDs or
// Filters is expected to be set.
type InstanceFilter struct {
	InstanceIDs []string
	// Filters maps an EC2 filter name (e.g. "tag:Name") to accepted values.
	Filters map[string][]string
}

// KeyPushRequest is the input of one key publication.
type KeyPushRequest struct {
	InstanceID       string
	OSUser           string
	AvailabilityZone string
	PublicKey        string
}

// InstanceBundle is one hop's connection intent: the request hints taken from
// the command line and, after resolution, the endpoint they resolved to.
type InstanceBundle struct {
	Profile string
	Region  string
	Zone    string

	Mode      ResolutionMode
	HostToken string
	TokenType HostTokenType
	// ExplicitInstanceID is set by -t/--instance_id and wins over HostToken.
	ExplicitInstanceID string

	User string
	Port int

	Endpoint *InstanceEndpoint
}

// Scope returns the cloud scope the bundle resolves under.
func (b *InstanceBundle) Scope() CloudScope {
	return CloudScope{Profile: b.Profile, Region: b.Region}
}

// Resolved reports whether an endpoint has been attached.
func (b *InstanceBundle) Resolved() bool {
	return b.Endpoint != nil
}

// Attach sets the resolved endpoint. A bundle is resolved exactly once.
func (b *InstanceBundle) Attach(endpoint InstanceEndpoint) error {
	if b.Endpoint != nil {
		return fmt.Errorf("bundle %s already resolved to %s", b.HostToken, b.Endpoint.InstanceID)
	}
	b.Endpoint = &endpoint
	return nil
}

// Label is a short human readable name for logs and messages.
func (b *InstanceBundle) Label() string {
	if b.ExplicitInstanceID != "" {
		return b.ExplicitInstanceID
	}
	return b.HostToken
}
