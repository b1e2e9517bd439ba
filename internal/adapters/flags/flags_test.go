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

package flags

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adembc/eicproxy/internal/core/domain"
	"github.com/Adembc/eicproxy/internal/core/ports"
)

func parse(t *testing.T, args ...string) (ports.FlagsProvider, []string) {
	t.Helper()

	var positional []string
	cmd := &cobra.Command{
		Use:  "eicproxy",
		Args: cobra.ArbitraryArgs,
		RunE: func(_ *cobra.Command, args []string) error {
			positional = args
			return nil
		},
	}
	provider := NewCobraFlags(cmd)
	cmd.SetArgs(args)
	require.NoError(t, cmd.Execute())
	return provider, positional
}

func TestOptionsDefaults(t *testing.T) {
	provider, _ := parse(t, "ec2-user@i-0abc:22")

	opts, err := provider.Options()
	require.NoError(t, err)
	assert.Equal(t, domain.Options{JumpHosts: []string{}}, opts)
	assert.False(t, provider.IsDebug())
	assert.Empty(t, provider.ConfigDir())
}

func TestOptionsFromFlags(t *testing.T) {
	provider, positional := parse(t,
		"-r", "eu-west-1",
		"-z", "eu-west-1b",
		"-u", "work",
		"-t", "i-0abc",
		"-k", "/keys/id.pub",
		"-g", "/keys/generated",
		"--use-private-ip",
		"--use-tag-name",
		"--resolve-hostname",
		"--jumphosts", "ec2-user@bastion:22,admin@i-0def",
		"--jumphosts", "root@10.0.0.5:2222",
		"-d",
		"--config-dir", "/etc/eicproxy",
		"ec2-user@web:22",
	)

	opts, err := provider.Options()
	require.NoError(t, err)
	assert.Equal(t, domain.Options{
		Region:          "eu-west-1",
		Zone:            "eu-west-1b",
		Profile:         "work",
		InstanceID:      "i-0abc",
		PublicKeyFile:   "/keys/id.pub",
		GenerateKeyPath: "/keys/generated",
		UsePrivateIP:    true,
		UseTagName:      true,
		ResolveHostname: true,
		JumpHosts:       []string{"ec2-user@bastion:22", "admin@i-0def", "root@10.0.0.5:2222"},
	}, opts)
	assert.True(t, provider.IsDebug())
	assert.Equal(t, "/etc/eicproxy", provider.ConfigDir())
	assert.Equal(t, []string{"ec2-user@web:22"}, positional)
}

func TestPassThroughAfterDoubleDash(t *testing.T) {
	_, positional := parse(t, "-r", "us-east-1", "ec2-user@web", "--", "-v", "-o", "StrictHostKeyChecking=no")

	assert.Equal(t, []string{"ec2-user@web", "-v", "-o", "StrictHostKeyChecking=no"}, positional)
}

func splitArgs(t *testing.T, args ...string) (domain.Options, Positional, error) {
	t.Helper()

	var (
		pos      Positional
		splitErr error
	)
	cmd := &cobra.Command{
		Use:  "eicproxy",
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pos, splitErr = SplitPositional(cmd, args)
			return nil
		},
	}
	provider := NewCobraFlags(cmd)
	cmd.SetArgs(args)
	require.NoError(t, cmd.Execute())

	opts, err := provider.Options()
	require.NoError(t, err)
	return opts, pos, splitErr
}

func TestSplitPositional(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		wantFlags []string
		want      Positional
	}{
		{
			name:      "space separated jump hosts",
			args:      []string{"--jumphosts", "a@i-0aaa:22", "b@i-0bbb:22", "ec2-user@i-0ccc:22"},
			wantFlags: []string{"a@i-0aaa:22"},
			want: Positional{
				Descriptor:  "ec2-user@i-0ccc:22",
				JumpHosts:   []string{"b@i-0bbb:22"},
				PassThrough: []string{},
			},
		},
		{
			name:      "space separated with pass-through",
			args:      []string{"--jumphosts", "a@i-0aaa", "b@i-0bbb", "c@i-0ccc", "ec2-user@i-0ddd", "--", "-v"},
			wantFlags: []string{"a@i-0aaa"},
			want: Positional{
				Descriptor:  "ec2-user@i-0ddd",
				JumpHosts:   []string{"b@i-0bbb", "c@i-0ccc"},
				PassThrough: []string{"-v"},
			},
		},
		{
			name:      "comma separated",
			args:      []string{"--jumphosts", "a@i-0aaa,b@i-0bbb", "ec2-user@i-0ccc"},
			wantFlags: []string{"a@i-0aaa", "b@i-0bbb"},
			want:      Positional{Descriptor: "ec2-user@i-0ccc", PassThrough: []string{}},
		},
		{
			name:      "target only",
			args:      []string{"ec2-user@i-0ccc:22"},
			wantFlags: []string{},
			want:      Positional{Descriptor: "ec2-user@i-0ccc:22", PassThrough: []string{}},
		},
		{
			name:      "nothing",
			args:      []string{},
			wantFlags: []string{},
			want:      Positional{PassThrough: []string{}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, pos, err := splitArgs(t, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.wantFlags, opts.JumpHosts)
			assert.Equal(t, tt.want, pos)
		})
	}
}

func TestSplitPositionalRejectsStrayArguments(t *testing.T) {
	_, _, err := splitArgs(t, "b@i-0bbb:22", "ec2-user@i-0ccc:22")
	require.ErrorIs(t, err, domain.ErrInvalidConnectionString)
	assert.Contains(t, err.Error(), "ec2-user@i-0ccc:22")
	assert.True(t, domain.IsUsageError(err))

	_, pos, err := splitArgs(t, "ec2-user@i-0ccc:22", "--", "-L", "8080:localhost:80")
	require.NoError(t, err)
	assert.Equal(t, "ec2-user@i-0ccc:22", pos.Descriptor)
	assert.Equal(t, []string{"-L", "8080:localhost:80"}, pos.PassThrough)
}
