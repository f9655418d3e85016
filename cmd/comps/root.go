package main

import (
	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/the-maldridge/ncomps/pkg/config"
	"github.com/the-maldridge/ncomps/pkg/types"
)

var (
	configPath string
	logLevel   string
	arches     string

	appLogger hclog.Logger

	rootCmd = &cobra.Command{
		Use:           "comps",
		Short:         "Inspect and drive installer component selection",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			appLogger = hclog.New(&hclog.LoggerOptions{
				Name:   "comps",
				Level:  hclog.LevelFromString(logLevel),
				Output: cmd.ErrOrStderr(),
			})
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a JSON config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "WARN", "log level")
	rootCmd.PersistentFlags().StringVar(&arches, "arches", "", "colon separated arch list, best first")
}

// loadConfig returns the defaults overlaid with the config file, if
// one was given, and then the flags.
func loadConfig() (*config.Config, error) {
	cfg := config.NewConfig()
	if configPath != "" {
		if err := cfg.LoadFromFile(configPath); err != nil {
			return nil, err
		}
	}
	if arches != "" {
		cfg.ArchList = types.ArchListFromString(arches)
	}
	return cfg, nil
}
