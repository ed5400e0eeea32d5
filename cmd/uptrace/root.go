// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/z5labs/uptrace"
	"github.com/z5labs/uptrace/pipeline"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type rootOptions struct {
	configFile string
	verbose    bool

	// transport overrides the OTLP transport, used by tests
	transport pipeline.Transport
}

func newRootCommand(out io.Writer, opts ...func(*rootOptions)) *cobra.Command {
	var ro rootOptions
	for _, opt := range opts {
		opt(&ro)
	}

	v := viper.New()
	v.SetEnvPrefix("UPTRACE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "uptrace",
		Short:         "Inspect Uptrace DSNs and send test telemetry",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if ro.configFile == "" {
				return nil
			}
			v.SetConfigFile(ro.configFile)
			if err := v.ReadInConfig(); err != nil {
				return fmt.Errorf("error reading config file %s: %w", ro.configFile, err)
			}
			return nil
		},
	}
	cmd.SetOut(out)

	flags := cmd.PersistentFlags()
	flags.StringVarP(&ro.configFile, "config", "c", "", "Path to a yaml config file")
	flags.BoolVarP(&ro.verbose, "verbose", "v", false, "Enable development logging")
	flags.String("dsn", "", "Uptrace DSN, defaults to the UPTRACE_DSN env var")
	v.BindPFlag("dsn", flags.Lookup("dsn"))

	cmd.AddCommand(
		newInspectCommand(v),
		newEmitCommand(v, &ro),
	)
	return cmd
}

func (ro *rootOptions) logger() (*zap.Logger, error) {
	if ro.verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// loadConfig merges flags, UPTRACE_* env vars and the config file.
func loadConfig(v *viper.Viper) (uptrace.Config, error) {
	cfg, err := uptrace.DecodeConfig(v.AllSettings())
	if err != nil {
		return cfg, fmt.Errorf("error decoding config: %w", err)
	}
	return cfg, nil
}
