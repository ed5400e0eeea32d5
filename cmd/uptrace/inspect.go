// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/z5labs/uptrace"
	"github.com/z5labs/uptrace/dsn"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newInspectCommand(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [DSN]",
		Short: "Print the endpoints derived from a DSN",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw := v.GetString("dsn")
			if len(args) > 0 {
				raw = args[0]
			}
			if raw == "" {
				return uptrace.ErrMissingDSN
			}

			d, err := dsn.Parse(raw)
			if err != nil {
				return err
			}
			return printDSN(cmd.OutOrStdout(), d)
		},
	}
}

func printDSN(out io.Writer, d dsn.DSN) error {
	port := "-"
	if p, ok := d.Port(); ok {
		port = strconv.Itoa(int(p))
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	rows := [][2]string{
		{"scheme", d.Scheme()},
		{"host", d.Host()},
		{"port", port},
		{"project id", d.ProjectID()},
		{"otlp host", d.OTLPHost()},
		{"otlp grpc addr", d.OTLPGrpcAddr()},
		{"app addr", d.AppAddr()},
		{"disabled", strconv.FormatBool(d.IsDisabled())},
	}
	var errs []error
	for _, row := range rows {
		_, err := fmt.Fprintf(w, "%s:\t%s\n", row[0], row[1])
		errs = append(errs, err)
	}
	errs = append(errs, w.Flush())
	return errors.Join(errs...)
}
