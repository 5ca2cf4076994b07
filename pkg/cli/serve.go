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

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/systemd-amp/pkg/amp/systemd"
	"github.com/NVIDIA/systemd-amp/pkg/defaults"
	"github.com/NVIDIA/systemd-amp/pkg/server"
)

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:                  "serve",
		EnableShellCompletion: true,
		Usage:                 "Poll the systemd AMP and serve its result over HTTP",
		Description: `Poll the systemd AMP and expose its result.

The AMP is asked to update every poll interval; it only runs the status
command once per configured refresh interval (60s by default) and keeps its
previous result when the command fails.

Endpoints: /v1/amps, /v1/amps/{name}, /health, /ready, /metrics`,
		Flags: []cli.Flag{
			configFlag(),
			systemctlCmdFlag(),
			sourceFlag(),
			&cli.BoolFlag{
				Name:  "one-line",
				Usage: "join report lines with a space (overrides one_line)",
			},
			&cli.StringFlag{
				Name:  "address",
				Usage: "address to listen on",
			},
			&cli.IntFlag{
				Name:    "port",
				Usage:   "port to listen on",
				Value:   8080,
				Sources: cli.EnvVars("PORT"),
			},
			&cli.DurationFlag{
				Name:  "poll-interval",
				Usage: "how often the AMP is asked to update",
				Value: defaults.AMPPollInterval,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadSystemdConfig(cmd)
			if err != nil {
				return err
			}

			collector, err := systemd.NewCollector(cfg)
			if err != nil {
				return err
			}

			srvCfg := server.NewConfig()
			srvCfg.Address = cmd.String("address")
			srvCfg.Port = cmd.Int("port")
			srvCfg.PollInterval = cmd.Duration("poll-interval")

			s := server.New(
				server.WithName(name),
				server.WithVersion(version),
				server.WithConfig(srvCfg),
				server.WithAMPs(collector),
			)

			return s.Run(ctx)
		},
	}
}
