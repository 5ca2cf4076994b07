// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
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

package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/systemd-amp/pkg/amp/systemd"
	"github.com/NVIDIA/systemd-amp/pkg/defaults"
	"github.com/NVIDIA/systemd-amp/pkg/serializer"
)

func checkCmd() *cli.Command {
	return &cli.Command{
		Name:                  "check",
		EnableShellCompletion: true,
		Usage:                 "Run the systemd AMP once and print its report",
		Description: `Run the configured status command once, count units per LOAD and
ACTIVE state and print the report.

The text format prints the report as the AMP stores it; json and yaml
include the individual counts.

# Examples

  amp-systemd check
  amp-systemd check --systemctl-cmd "/usr/bin/systemctl --plain" --one-line=false
  amp-systemd check --source dbus --format json
  amp-systemd check --config /etc/amp/amps.yaml --output report.txt`,
		Flags: []cli.Flag{
			configFlag(),
			systemctlCmdFlag(),
			sourceFlag(),
			&cli.BoolFlag{
				Name:  "one-line",
				Usage: "join report lines with the separator (overrides one_line)",
			},
			&cli.StringFlag{
				Name:  "separator",
				Usage: "separator replacing newlines in a one-line report",
				Value: defaults.ResultSeparator,
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   fmt.Sprintf("output format (%s)", strings.Join(serializer.SupportedFormats(), ", ")),
				Value:   string(serializer.FormatText),
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "output file (default: stdout)",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runCheck(ctx, cmd)
		},
	}
}

func runCheck(ctx context.Context, cmd *cli.Command, opts ...systemd.Option) error {
	format, err := parseOutputFormat(cmd)
	if err != nil {
		return err
	}

	cfg, err := loadSystemdConfig(cmd)
	if err != nil {
		return err
	}
	if !cfg.Enable {
		return fmt.Errorf("%s AMP is disabled in configuration", systemd.Name)
	}
	// a one-shot check always runs
	cfg.Refresh = 0

	opts = append([]systemd.Option{systemd.WithSeparator(cmd.String("separator"))}, opts...)
	collector, err := systemd.NewCollector(cfg, opts...)
	if err != nil {
		return err
	}

	collector.Update(ctx)
	if collector.Counts() == nil {
		return fmt.Errorf("%s AMP produced no report, run with --log-level debug for details", systemd.Name)
	}

	w := serializer.NewFileWriterOrStdout(format, cmd.String("output"))
	defer w.Close()

	if format == serializer.FormatText {
		return w.Serialize(ctx, collector.Result())
	}
	return w.Serialize(ctx, collector.Report())
}
