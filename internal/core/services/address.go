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
	"fmt"

	"github.com/Adembc/eicproxy/internal/core/domain"
)

// SelectAddress picks the address to connect to. With usePrivate the private
// forms come first; otherwise public forms come first. Either way the other
// family is the fallback, so an instance with only private addresses is
// reachable without the flag.
func SelectAddress(endpoint domain.InstanceEndpoint, usePrivate bool) (string, error) {
	private := []string{endpoint.PrivateIP, endpoint.PrivateDNS}
	public := []string{endpoint.PublicIP, endpoint.PublicDNS}

	order := append(public, private...)
	if usePrivate {
		order = append(private, public...)
	}

	for _, addr := range order {
		if addr != "" {
			return addr, nil
		}
	}
	return "", domain.NewError(domain.ErrNoAddress,
		fmt.Sprintf("no hostname or IPs found for %s", endpoint.InstanceID))
}
