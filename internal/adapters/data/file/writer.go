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

package file

import (
	"bufio"
	"fmt"
	"io"

	"github.com/Adembc/eicproxy/internal/core/domain"
)

const ManagedByComment = "# Managed by eicproxy"

// SSHConfigWriter renders Host blocks in ssh_config syntax.
type SSHConfigWriter struct{}

func (w *SSHConfigWriter) Write(writer io.Writer, entries []domain.SSHHostEntry) error {
	bufWriter := bufio.NewWriter(writer)

	fmt.Fprintf(bufWriter, "%s\n\n", ManagedByComment)

	for i, entry := range entries {
		if i > 0 {
			bufWriter.WriteString("\n")
		}
		w.writeEntry(bufWriter, entry)
	}

	return bufWriter.Flush()
}

func (w *SSHConfigWriter) writeEntry(writer *bufio.Writer, entry domain.SSHHostEntry) {
	fmt.Fprintf(writer, "Host %s\n", entry.Pattern)

	if entry.User != "" {
		fmt.Fprintf(writer, "    User %s\n", entry.User)
	}

	fmt.Fprintf(writer, "    ProxyCommand %s\n", entry.ProxyCommand)
}
