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
	"testing"

	"github.com/Adembc/eicproxy/internal/core/domain"
)

func TestProxyCommandLine(t *testing.T) {
	tests := []struct {
		name string
		opts domain.Options
		want string
	}{
		{"no options", domain.Options{}, "/usr/local/bin/eicproxy %r@%h:%p"},
		{
			name: "all options",
			opts: domain.Options{
				Region:          "eu-west-1",
				Zone:            "eu-west-1b",
				Profile:         "prod",
				PublicKeyFile:   "/home/dev/.ssh/id_ed25519.pub",
				UsePrivateIP:    true,
				UseTagName:      true,
				ResolveHostname: true,
				JumpHosts:       []string{"admin@i-0aaa:22", "ubuntu@i-0bbb:22"},
			},
			want: "/usr/local/bin/eicproxy -r eu-west-1 -z eu-west-1b -u prod -k /home/dev/.ssh/id_ed25519.pub" +
				" --use-private-ip --use-tag-name --resolve-hostname --jumphosts admin@i-0aaa:22,ubuntu@i-0bbb:22 %r@%h:%p",
		},
		{
			name: "values are quoted and percent signs doubled",
			opts: domain.Options{GenerateKeyPath: "/tmp/my keys/100%"},
			want: "/usr/local/bin/eicproxy -g '/tmp/my keys/100%%' %r@%h:%p",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ProxyCommandLine("/usr/local/bin/eicproxy", tt.opts); got != tt.want {
				t.Fatalf("ProxyCommandLine() =\n%s\nwant\n%s", got, tt.want)
			}
		})
	}
}

func TestSSHHostEntries(t *testing.T) {
	entries, err := SSHHostEntries("eicproxy", []string{"i-*", "web-*"}, "ec2-user", domain.Options{Region: "us-east-2"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	for _, entry := range entries {
		if entry.User != "ec2-user" {
			t.Fatalf("unexpected user %q", entry.User)
		}
		if entry.ProxyCommand != "eicproxy -r us-east-2 %r@%h:%p" {
			t.Fatalf("unexpected proxy command %q", entry.ProxyCommand)
		}
	}
	if entries[0].Pattern != "i-*" || entries[1].Pattern != "web-*" {
		t.Fatalf("patterns out of order: %+v", entries)
	}
}

func TestSSHHostEntriesRejects(t *testing.T) {
	if _, err := SSHHostEntries("eicproxy", nil, "", domain.Options{}); !errors.Is(err, domain.ErrMissingTarget) {
		t.Fatalf("expected ErrMissingTarget, got %v", err)
	}
	if _, err := SSHHostEntries("eicproxy", []string{"two words"}, "", domain.Options{}); !errors.Is(err, domain.ErrInvalidTarget) {
		t.Fatalf("expected ErrInvalidTarget, got %v", err)
	}
}
