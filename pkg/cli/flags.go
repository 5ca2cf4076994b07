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
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/systemd-amp/pkg/amp"
	"github.com/NVIDIA/systemd-amp/pkg/amp/systemd"
	"github.com/NVIDIA/systemd-amp/pkg/serializer"
)

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "AMP configuration file (YAML)",
		Sources: cli.EnvVars("AMP_CONFIG"),
	}
}

func systemctlCmdFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "systemctl-cmd",
		Usage:   "status command, split on whitespace (overrides systemctl_cmd)",
		Sources: cli.EnvVars("AMP_SYSTEMCTL_CMD"),
	}
}

func sourceFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "source",
		Usage: fmt.Sprintf("unit status source (%s, %s)", systemd.SourceSystemctl, systemd.SourceDBus),
	}
}

// loadSystemdConfig builds the systemd AMP configuration from the optional
// config file and the command flags, flags taking precedence.
func loadSystemdConfig(cmd *cli.Command) (*amp.Config, error) {
	cfg := amp.NewConfig(systemd.Name)

	if path := cmd.String("config"); path != "" {
		f, err := amp.LoadFile(path)
		if err != nil {
			return nil, err
		}
		cfg = f.Lookup(systemd.Name)
	}

	if cmd.IsSet("systemctl-cmd") {
		cfg.Set(systemd.OptionCommand, cmd.String("systemctl-cmd"))
	}
	if cmd.IsSet("source") {
		cfg.Set(systemd.OptionSource, cmd.String("source"))
	}
	if cmd.IsSet("one-line") {
		cfg.OneLine = cmd.Bool("one-line")
	}

	return cfg, nil
}

// parseOutputFormat reads and validates the format flag.
func parseOutputFormat(cmd *cli.Command) (serializer.Format, error) {
	f := serializer.Format(strings.ToLower(strings.TrimSpace(cmd.String("format"))))
	if f.IsUnknown() {
		return "", fmt.Errorf("unknown output format %q, supported: %s",
			cmd.String("format"), strings.Join(serializer.SupportedFormats(), ", "))
	}
	return f, nil
}
