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

import "testing"

func TestInstanceBundleAttachOnce(t *testing.T) {
	bundle := &InstanceBundle{HostToken: "i-0abc", Region: "us-east-1", Profile: "dev"}
	if bundle.Resolved() {
		t.Fatalf("new bundle should not be resolved")
	}
	if err := bundle.Attach(InstanceEndpoint{InstanceID: "i-0abc"}); err != nil {
		t.Fatalf("first attach: %v", err)
	}
	if err := bundle.Attach(InstanceEndpoint{InstanceID: "i-0def"}); err == nil {
		t.Fatalf("expected second attach to fail")
	}
	if bundle.Endpoint.InstanceID != "i-0abc" {
		t.Fatalf("endpoint replaced: %+v", bundle.Endpoint)
	}
	if scope := bundle.Scope(); scope != (CloudScope{Profile: "dev", Region: "us-east-1"}) {
		t.Fatalf("unexpected scope %+v", scope)
	}
}

func TestInstanceBundleLabel(t *testing.T) {
	bundle := &InstanceBundle{HostToken: "db.example.com"}
	if bundle.Label() != "db.example.com" {
		t.Fatalf("unexpected label %q", bundle.Label())
	}
	bundle.ExplicitInstanceID = "i-0abc"
	if bundle.Label() != "i-0abc" {
		t.Fatalf("explicit id should win, got %q", bundle.Label())
	}
}

func TestJumpChainHops(t *testing.T) {
	a, b, c := &InstanceBundle{HostToken: "a"}, &InstanceBundle{HostToken: "b"}, &InstanceBundle{HostToken: "c"}
	hops := JumpChain{Jumps: []*InstanceBundle{a, b}, Target: c}.Hops()
	if len(hops) != 3 || hops[0] != a || hops[1] != b || hops[2] != c {
		t.Fatalf("unexpected hop order: %v", hops)
	}
}

func TestEndpointHasAddress(t *testing.T) {
	if (InstanceEndpoint{InstanceID: "i-0abc"}).HasAddress() {
		t.Fatalf("endpoint without addresses reported one")
	}
	if !(InstanceEndpoint{PrivateDNS: "ip-10-0-0-1.ec2.internal"}).HasAddress() {
		t.Fatalf("private dns should count as an address")
	}
}
