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

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/Adembc/eicproxy/internal/adapters/cloud"
	"github.com/Adembc/eicproxy/internal/adapters/config"
	"github.com/Adembc/eicproxy/internal/adapters/data/file"
	"github.com/Adembc/eicproxy/internal/adapters/flags"
	"github.com/Adembc/eicproxy/internal/adapters/process"
	"github.com/Adembc/eicproxy/internal/core/domain"
	"github.com/Adembc/eicproxy/internal/core/ports"
	"github.com/Adembc/eicproxy/internal/core/services"
	"github.com/Adembc/eicproxy/internal/logger"
)

const (
	appName        = "eicproxy"
	configFileName = "config.yaml"
	logFileName    = "eicproxy.log"
)

var (
	version   = "develop"
	gitCommit = "unknown"
)

// app holds what every command needs once flags are parsed.
type app struct {
	osConfig ports.ConfigProvider
	repo     ports.ConfigRepository
	config   domain.Config
	log      *zap.SugaredLogger
}

func newApp(fp ports.FlagsProvider) (*app, error) {
	osConfig, err := config.NewOSConfig(fp.ConfigDir())
	if err != nil {
		return nil, err
	}

	repo := file.NewConfigRepository(osConfig.ConfigPath(configFileName), osConfig.HomeDir())
	cfg, cfgErr := repo.Load()

	var console io.Writer
	if fp.IsDebug() {
		console = os.Stderr
	}
	log, err := logger.New(appName, logger.Options{
		File:       osConfig.LogPath(logFileName),
		Debug:      fp.IsDebug(),
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		Console:    console,
	})
	if err != nil {
		return nil, err
	}
	if cfgErr != nil {
		log.Warnw("failed to load configuration, using defaults", "error", cfgErr)
	}

	return &app{osConfig: osConfig, repo: repo, config: cfg, log: log}, nil
}

func (a *app) proxyService() ports.ProxyService {
	policy := services.RetryPolicyFromConfig(a.config)
	sessions := cloud.NewSessions(a.log, domain.CloudScope{Profile: a.config.Profile, Region: a.config.Region},
		appName+"-"+version)

	resolver := services.NewTargetResolver(a.log, cloud.NewEC2Describer(a.log, sessions), cloud.NewDNSLookup(), policy)
	chains := services.NewChainBuilder(a.log, resolver)
	keys := services.NewKeyManager(a.log, file.NewKeyStore(a.log))
	publisher := services.NewKeyPublisher(a.log, cloud.NewInstanceConnect(a.log, sessions), policy)
	invoker := services.NewProxyInvoker(a.log, process.NewExecRunner(a.log), process.NewTCPRelay(a.log, a.config.Timeout()))

	return services.NewProxyService(a.log, chains, keys, publisher, invoker, a.config.KeyDirectory)
}

func main() {
	os.Exit(execute())
}

func execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	exitCode := domain.ExitSuccess

	rootCmd := &cobra.Command{
		Use:   appName + " <user@host:port> [-- ssh flags]",
		Short: "SSH ProxyCommand that pushes a temporary key with EC2 Instance Connect",
		Long: `eicproxy resolves an EC2 instance, publishes a public key to it through
EC2 Instance Connect and then carries the SSH stream to it. Use it as
ProxyCommand, or through the ssh and sftp subcommands.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	fp := flags.NewCobraFlags(rootCmd)

	connect := func(mode domain.Mode) func(cmd *cobra.Command, args []string) error {
		return func(cmd *cobra.Command, args []string) error {
			a, err := newApp(fp)
			if err != nil {
				return err
			}
			//nolint:errcheck // log.Sync may return an error which is safe to ignore here
			defer a.log.Sync()

			opts, err := fp.Options()
			if err != nil {
				return err
			}
			pos, err := flags.SplitPositional(cmd, args)
			if err != nil {
				exitCode = domain.ExitCode(err)
				return err
			}
			opts.JumpHosts = append(opts.JumpHosts, pos.JumpHosts...)

			req := domain.Request{Mode: mode, Options: opts, Descriptor: pos.Descriptor, PassThrough: pos.PassThrough}

			code, err := a.proxyService().Run(cmd.Context(), req)
			exitCode = code
			if err != nil {
				a.log.Errorw("connection failed", "mode", mode, "descriptor", req.Descriptor, "exit_code", code, "error", err)
			}
			return err
		}
	}
	rootCmd.RunE = connect(domain.ModeProxy)

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "ssh <user@host:port> [-- ssh flags]",
			Short: "Publish a key and open an interactive ssh session",
			Args:  cobra.ArbitraryArgs,
			RunE:  connect(domain.ModeSSH),
		},
		&cobra.Command{
			Use:   "sftp <user@host:port> [-- sftp flags]",
			Short: "Publish a key and open an sftp session",
			Args:  cobra.ArbitraryArgs,
			RunE:  connect(domain.ModeSFTP),
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the version",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, _ []string) {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s (commit %s)\n", appName, version, gitCommit)
			},
		},
		configCommand(fp),
	)

	cmd, err := rootCmd.ExecuteContextC(ctx)
	if err == nil {
		return exitCode
	}

	_, _ = fmt.Fprintf(os.Stderr, "%s: %v\n", appName, err)
	if domain.IsUsageError(err) {
		_, _ = fmt.Fprint(os.Stderr, cmd.UsageString())
	}
	if exitCode == domain.ExitSuccess {
		exitCode = domain.ExitCode(err)
	}
	return exitCode
}

func configCommand(fp ports.FlagsProvider) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the configuration file",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "init",
			Short: "Write the default configuration file",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				a, err := newApp(fp)
				if err != nil {
					return err
				}
				//nolint:errcheck // log.Sync may return an error which is safe to ignore here
				defer a.log.Sync()

				path := a.osConfig.ConfigPath(configFileName)
				if _, err := os.Stat(path); err == nil {
					return fmt.Errorf("%s already exists: %w", path, fs.ErrExist)
				} else if !errors.Is(err, fs.ErrNotExist) {
					return err
				}
				if err := a.repo.Save(domain.DefaultConfig(a.osConfig.HomeDir())); err != nil {
					return fmt.Errorf("write %s: %w", path, err)
				}

				a.log.Infow("default configuration written", "path", path)
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), path)
				return nil
			},
		},
		&cobra.Command{
			Use:   "show",
			Short: "Print the effective configuration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				a, err := newApp(fp)
				if err != nil {
					return err
				}
				//nolint:errcheck // log.Sync may return an error which is safe to ignore here
				defer a.log.Sync()

				out, err := yaml.Marshal(a.config)
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(out)
				return err
			},
		},
		sshConfigCommand(fp),
	)
	return cmd
}

// sshConfigCommand prints Host blocks that route the given patterns through
// this binary, carrying over the proxy flags given alongside.
func sshConfigCommand(fp ports.FlagsProvider) *cobra.Command {
	var sshUser string

	cmd := &cobra.Command{
		Use:   "ssh-config <host pattern>...",
		Short: "Print an ssh_config snippet using eicproxy as ProxyCommand",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, patterns []string) error {
			opts, err := fp.Options()
			if err != nil {
				return err
			}

			program, err := os.Executable()
			if err != nil {
				program = appName
			}

			entries, err := services.SSHHostEntries(program, patterns, sshUser, opts)
			if err != nil {
				return err
			}
			writer := &file.SSHConfigWriter{}
			return writer.Write(cmd.OutOrStdout(), entries)
		},
	}
	cmd.Flags().StringVar(&sshUser, "ssh-user", "", "User line for the generated Host blocks")
	return cmd
}
