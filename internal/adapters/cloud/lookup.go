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

package cloud

import (
	"context"
	"net"

	"github.com/Adembc/eicproxy/internal/core/ports"
)

type dnsLookup struct {
	resolver *net.Resolver
}

// NewDNSLookup returns a HostLookup using the system resolver.
func NewDNSLookup() ports.HostLookup {
	return &dnsLookup{resolver: net.DefaultResolver}
}

func (l *dnsLookup) LookupHost(ctx context.Context, host string) ([]string, error) {
	return l.resolver.LookupHost(ctx, host)
}
