package main

import (
	"os"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"git.sr.ht/~taiite/servercaps"
)

func newProbeCmd(opts *outputOptions) *cobra.Command {
	var (
		configPath string
		address    string
		nick       string
		noTLS      bool
		timeout    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Connect to an IRC server and show its capabilities",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath, address)
			if err != nil {
				return err
			}
			if address != "" {
				cfg.Addr = address
			}
			if nick != "" {
				cfg.Nick = nick
				cfg.User = nick
				cfg.Real = nick
			}
			if noTLS {
				cfg.TLS = false
			}
			if timeout != 0 {
				cfg.Timeout = timeout
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			cfg.Debug = cfg.Debug || opts.debug
			if cfg.Debug {
				opts.debug = true
			}

			logger, err := opts.logger()
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			app := servercaps.NewApp(cfg, logger)
			caps, err := app.Probe(cmd.Context())
			if caps != nil {
				if werr := opts.writeReport(cmd.OutOrStdout(), servercaps.NewReport(caps)); werr != nil {
					return werr
				}
			}
			return err
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "path to the configuration file")
	cmd.Flags().StringVar(&address, "address", "", "server address, overrides the configuration file")
	cmd.Flags().StringVar(&nick, "nick", "", "nickname to register with")
	cmd.Flags().BoolVar(&noTLS, "no-tls", false, "connect without TLS")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "how long to wait for capabilities")
	return cmd
}

// loadConfig reads the configuration file.  A missing default file is not an
// error when the address is given on the command line.
func loadConfig(configPath, address string) (servercaps.Config, error) {
	explicit := configPath != ""
	if !explicit {
		configDir, err := os.UserConfigDir()
		if err != nil {
			return servercaps.Config{}, errors.Wrap(err, "locating configuration directory")
		}
		configPath = filepath.Join(configDir, "servercaps", "servercaps.scfg")
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) && !explicit && address != "" {
		return servercaps.Defaults(), nil
	}

	cfg, err := servercaps.LoadConfigFile(configPath)
	if err != nil {
		return cfg, errors.Wrapf(err, "failed to load the configuration file at %q", configPath)
	}
	return cfg, nil
}
