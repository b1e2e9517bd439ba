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
	"regexp"
	"strconv"
	"strings"

	"github.com/Adembc/eicproxy/internal/core/domain"
)

const (
	unixUserPattern = `[a-z_][a-z0-9_-]{0,31}`
	hostCharsMax    = `.{0,255}`
	tcpPortPattern  = `[1-9]|[1-5]?[0-9]{2,4}|6[1-4][0-9]{3}|65[1-4][0-9]{2}|655[1-2][0-9]|6553[1-5]`
)

var connectionStringRe = regexp.MustCompile(
	`^(` + unixUserPattern + `)@(` + hostCharsMax + `):(` + tcpPortPattern + `)$`,
)

// ParseConnectionString splits a user@target:port descriptor. The target part
// is returned raw; classification happens later.
func ParseConnectionString(raw string) (domain.ConnectionDescriptor, error) {
	if strings.TrimSpace(raw) == "" {
		return domain.ConnectionDescriptor{}, domain.NewError(domain.ErrMissingTarget, "missing target")
	}

	m := connectionStringRe.FindStringSubmatch(raw)
	if m == nil {
		return domain.ConnectionDescriptor{}, domain.NewError(domain.ErrInvalidConnectionString,
			fmt.Sprintf("received invalid connection string: %q", raw))
	}

	port, err := strconv.Atoi(m[3])
	if err != nil || port < 1 || port > 65535 {
		return domain.ConnectionDescriptor{}, domain.NewError(domain.ErrInvalidConnectionString,
			fmt.Sprintf("port out of range in connection string: %q", raw))
	}

	return domain.ConnectionDescriptor{
		User:      m[1],
		HostToken: m[2],
		Port:      port,
	}, nil
}
