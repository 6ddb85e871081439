// Package sysops wraps the OS mechanisms the setting providers drive:
// process execution, the user registry hive, the user language list and
// the desktop shell. Everything is behind small interfaces so providers
// stay testable with fakes.
package sysops

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
)

// Runner executes an external command and captures its output.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr []byte, exitCode int, err error)
}

// ExecRunner runs commands via os/exec. The returned error is non-nil
// only when the process could not be started or was killed; a process
// that ran to completion with a non-zero status yields err == nil and
// the status in exitCode.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, int, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return stdout.Bytes(), stderr.Bytes(), exitErr.ExitCode(), nil
		}
		return stdout.Bytes(), stderr.Bytes(), -1, err
	}
	return stdout.Bytes(), stderr.Bytes(), 0, nil
}
