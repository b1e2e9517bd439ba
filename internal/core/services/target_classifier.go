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
	"net/netip"
	"regexp"
	"strings"

	"github.com/Adembc/eicproxy/internal/core/domain"
)

var (
	instanceIDRe    = regexp.MustCompile(`^i-[0-9a-f]+$`)
	hostnameLabelRe = regexp.MustCompile(`^[A-Za-z0-9]([A-Za-z0-9-]*[A-Za-z0-9])?$`)
	allNumericRe    = regexp.MustCompile(`^[0-9]+$`)
)

// ClassifyTarget decides what kind of host token it was given. The checks run
// from the most specific grammar to the most permissive one.
func ClassifyTarget(token string) (domain.HostTokenType, error) {
	switch {
	case isInstanceID(token):
		return domain.HostTokenInstanceID, nil
	case isIPv4(token):
		return domain.HostTokenIPv4, nil
	case isIPv6(token):
		return domain.HostTokenIPv6, nil
	case isDNSHostname(token):
		return domain.HostTokenDNSHostname, nil
	}
	return "", domain.NewError(domain.ErrInvalidTarget, fmt.Sprintf("invalid target %q", token))
}

func isInstanceID(token string) bool {
	return instanceIDRe.MatchString(token)
}

// isIPv4 accepts canonical dotted quads only; netip rejects leading zeros
// and short forms such as "10.1".
func isIPv4(token string) bool {
	addr, err := netip.ParseAddr(token)
	return err == nil && addr.Is4()
}

func isIPv6(token string) bool {
	if !strings.Contains(token, ":") {
		return false
	}
	addr, err := netip.ParseAddr(token)
	return err == nil && addr.Is6() && addr.Zone() == ""
}

func isDNSHostname(hostname string) bool {
	hostname = strings.TrimSuffix(hostname, ".")
	if len(hostname) < 1 || len(hostname) > 253 {
		return false
	}

	labels := strings.Split(hostname, ".")
	if allNumericRe.MatchString(labels[len(labels)-1]) {
		return false
	}
	for _, label := range labels {
		if len(label) > 63 || !hostnameLabelRe.MatchString(label) {
			return false
		}
	}
	return true
}
