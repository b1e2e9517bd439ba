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
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Adembc/eicproxy/internal/core/domain"
	"github.com/Adembc/eicproxy/internal/core/ports"
)

const (
	flagDebug           = "debug"
	flagConfigDir       = "config-dir"
	flagRegion          = "region"
	flagZone            = "zone"
	flagProfile         = "profile"
	flagInstanceID      = "instance_id"
	flagPublicKeyFile   = "public-key-file"
	flagGenerateKeyPath = "generate-key-path"
	flagUsePrivateIP    = "use-private-ip"
	flagUseTagName      = "use-tag-name"
	flagResolveHostname = "resolve-hostname"
	flagJumpHosts       = "jumphosts"
)

type CobraFlags struct {
	rootCmd *cobra.Command
}

func NewCobraFlags(rootCmd *cobra.Command) ports.FlagsProvider {
	g := &CobraFlags{rootCmd: rootCmd}
	g.globalFlags()
	return g
}

// globalFlags registers the flags shared by the proxy, ssh and sftp commands.
func (g *CobraFlags) globalFlags() {
	pf := g.rootCmd.PersistentFlags()

	pf.BoolP(flagDebug, "d", false, "Enable debug logging (also to stderr)")
	pf.String(flagConfigDir, "", "Config directory path (default: ~/.config/eicproxy)")

	pf.StringP(flagRegion, "r", "", "AWS region of the instances")
	pf.StringP(flagZone, "z", "", "Availability zone hint")
	pf.StringP(flagProfile, "u", "", "AWS credential profile")
	pf.StringP(flagInstanceID, "t", "", "Instance id of the target, when the target is not one")
	pf.StringP(flagPublicKeyFile, "k", "", "Public key to publish")
	pf.StringP(flagGenerateKeyPath, "g", "", "Generate a key pair at this path and publish it")
	pf.Bool(flagUsePrivateIP, false, "Connect to private addresses first")
	pf.Bool(flagUseTagName, false, "Treat the target as the value of the Name tag")
	pf.Bool(flagResolveHostname, false, "Resolve the target by matching its addresses")
	pf.StringSlice(flagJumpHosts, nil, "Jump hosts as user@host:port, first hop first")
}

func (c *CobraFlags) IsDebug() bool {
	flag, _ := c.rootCmd.PersistentFlags().GetBool(flagDebug)
	return flag
}

// ConfigDir returns the --config-dir value.
func (c *CobraFlags) ConfigDir() string {
	return c.GetFlag(flagConfigDir)
}

func (c *CobraFlags) GetFlag(name string) string {
	value, _ := c.rootCmd.PersistentFlags().GetString(name)
	return value
}

func (c *CobraFlags) Options() (domain.Options, error) {
	pf := c.rootCmd.PersistentFlags()

	var opts domain.Options
	var err error
	for name, dst := range map[string]*string{
		flagRegion:          &opts.Region,
		flagZone:            &opts.Zone,
		flagProfile:         &opts.Profile,
		flagInstanceID:      &opts.InstanceID,
		flagPublicKeyFile:   &opts.PublicKeyFile,
		flagGenerateKeyPath: &opts.GenerateKeyPath,
	} {
		if *dst, err = pf.GetString(name); err != nil {
			return domain.Options{}, err
		}
	}
	for name, dst := range map[string]*bool{
		flagUsePrivateIP:    &opts.UsePrivateIP,
		flagUseTagName:      &opts.UseTagName,
		flagResolveHostname: &opts.ResolveHostname,
	} {
		if *dst, err = pf.GetBool(name); err != nil {
			return domain.Options{}, err
		}
	}
	if opts.JumpHosts, err = pf.GetStringSlice(flagJumpHosts); err != nil {
		return domain.Options{}, err
	}
	return opts, nil
}

// Positional is the split of a connect command's arguments.
type Positional struct {
	Descriptor string
	// JumpHosts are extra hops written space separated after --jumphosts.
	JumpHosts   []string
	PassThrough []string
}

// SplitPositional separates the target from the client flags that follow
// "--". With --jumphosts, words before the target are further jump hosts;
// otherwise only the target may appear before "--".
func SplitPositional(cmd *cobra.Command, args []string) (Positional, error) {
	before, after := args, []string{}
	if dash := cmd.ArgsLenAtDash(); dash >= 0 {
		before, after = args[:dash], args[dash:]
	}

	var p Positional
	p.PassThrough = after
	if len(before) == 0 {
		return p, nil
	}
	p.Descriptor = before[len(before)-1]
	extra := before[:len(before)-1]
	if len(extra) == 0 {
		return p, nil
	}

	if f := cmd.Flag(flagJumpHosts); f == nil || !f.Changed {
		return Positional{}, domain.NewError(domain.ErrInvalidConnectionString,
			fmt.Sprintf("unexpected argument %q; client flags go after --", before[1]))
	}
	p.JumpHosts = append([]string(nil), extra...)
	return p, nil
}
