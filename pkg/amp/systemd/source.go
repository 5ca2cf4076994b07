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

package systemd

import (
	"context"
	stderrors "errors"
	"io/fs"
	"os/exec"

	"github.com/NVIDIA/systemd-amp/pkg/errors"
)

// Source produces unit status counts.
type Source interface {
	// Name identifies the source in logs.
	Name() string
	// Fetch returns fresh counts or an error when none could be obtained.
	Fetch(ctx context.Context) (*StatusCounts, error)
}

// Runner executes a command and returns its standard output.
type Runner interface {
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner runs commands with os/exec, without a shell.
type ExecRunner struct{}

// Output runs name with args and captures stdout. The child is killed when
// ctx is done.
func (ExecRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// SystemctlSource runs a status command and parses its tabular output.
type SystemctlSource struct {
	// Command is the full command line, split with SplitCommand.
	Command string
	// Runner executes the command. ExecRunner is used when nil.
	Runner Runner
}

// Name implements Source.
func (s *SystemctlSource) Name() string {
	return "systemctl"
}

// Fetch implements Source.
func (s *SystemctlSource) Fetch(ctx context.Context) (*StatusCounts, error) {
	argv := SplitCommand(s.Command)
	if len(argv) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "status command is empty")
	}

	runner := s.Runner
	if runner == nil {
		runner = ExecRunner{}
	}

	out, err := runner.Output(ctx, argv[0], argv[1:]...)
	if err != nil {
		return nil, classifyExecError(ctx, s.Command, err)
	}

	return ParseStatus(string(out)), nil
}

func classifyExecError(ctx context.Context, command string, err error) error {
	errCtx := map[string]any{"command": command}

	if ctxErr := ctx.Err(); ctxErr != nil {
		if stderrors.Is(ctxErr, context.DeadlineExceeded) {
			return errors.WrapWithContext(errors.ErrCodeTimeout, "status command timed out", err, errCtx)
		}
		return errors.WrapWithContext(errors.ErrCodeUnavailable, "status command canceled", err, errCtx)
	}

	if stderrors.Is(err, exec.ErrNotFound) || stderrors.Is(err, fs.ErrNotExist) {
		return errors.WrapWithContext(errors.ErrCodeNotFound, "status command not found", err, errCtx)
	}

	var exitErr *exec.ExitError
	if stderrors.As(err, &exitErr) {
		errCtx["exitCode"] = exitErr.ExitCode()
		return errors.WrapWithContext(errors.ErrCodeUnavailable, "status command failed", err, errCtx)
	}

	return errors.WrapWithContext(errors.ErrCodeUnavailable, "failed to run status command", err, errCtx)
}
