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
	"strings"

	"github.com/kballard/go-shellquote"

	"github.com/Adembc/eicproxy/internal/core/domain"
)

// ProxyCommandLine renders an ssh_config ProxyCommand value that runs program
// for the connecting host with the given options.
func ProxyCommandLine(program string, opts domain.Options) string {
	args := []string{program}
	str := func(flag, value string) {
		if value != "" {
			args = append(args, flag, value)
		}
	}
	boolean := func(flag string, set bool) {
		if set {
			args = append(args, flag)
		}
	}

	str("-r", opts.Region)
	str("-z", opts.Zone)
	str("-u", opts.Profile)
	str("-t", opts.InstanceID)
	str("-k", opts.PublicKeyFile)
	str("-g", opts.GenerateKeyPath)
	boolean("--use-private-ip", opts.UsePrivateIP)
	boolean("--use-tag-name", opts.UseTagName)
	boolean("--resolve-hostname", opts.ResolveHostname)
	if len(opts.JumpHosts) > 0 {
		args = append(args, "--jumphosts", strings.Join(opts.JumpHosts, ","))
	}

	return strings.ReplaceAll(shellquote.Join(args...), "%", "%%") + " %r@%h:%p"
}

// SSHHostEntries builds one Host block per pattern, all routed through
// program.
func SSHHostEntries(program string, patterns []string, user string, opts domain.Options) ([]domain.SSHHostEntry, error) {
	if len(patterns) == 0 {
		return nil, domain.NewError(domain.ErrMissingTarget, "at least one host pattern is required")
	}

	proxyCommand := ProxyCommandLine(program, opts)
	entries := make([]domain.SSHHostEntry, 0, len(patterns))
	for _, pattern := range patterns {
		if pattern == "" || strings.ContainsAny(pattern, " \t\r\n#") {
			return nil, domain.NewError(domain.ErrInvalidTarget, fmt.Sprintf("invalid host pattern %q", pattern))
		}
		entries = append(entries, domain.SSHHostEntry{
			Pattern:      pattern,
			User:         user,
			ProxyCommand: proxyCommand,
		})
	}
	return entries, nil
}
