package sysops

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrPackageNotFound is returned when the package manager has no
// installed package with the requested identifier.
var ErrPackageNotFound = errors.New("sysops: package not installed")

// PackageManager queries and installs packages by identifier.
// Install is best effort: it reports success when the installer run was
// launched and finished without an invocation failure, it does not
// confirm the post-install state.
type PackageManager interface {
	Installed(ctx context.Context, id string) (string, error)
	Install(ctx context.Context, id string, userScope bool) error
}

// WingetManager drives winget through a Runner.
type WingetManager struct {
	runner Runner
}

// NewWingetManager creates a winget adapter backed by the runner.
func NewWingetManager(runner Runner) *WingetManager {
	return &WingetManager{runner: runner}
}

// Installed reports the matching installed-package line for id, or
// ErrPackageNotFound.
func (m *WingetManager) Installed(ctx context.Context, id string) (string, error) {
	stdout, _, code, err := m.runner.Run(ctx, "winget.exe", "list", "--id", id, "--exact", "--disable-interactivity")
	if err != nil {
		return "", fmt.Errorf("sysops: winget list %s: %w", id, err)
	}
	// winget exits non-zero when no installed package matches.
	if code != 0 {
		return "", ErrPackageNotFound
	}

	for _, line := range strings.Split(string(stdout), "\n") {
		if strings.Contains(line, id) {
			return strings.TrimSpace(strings.TrimRight(line, "\r")), nil
		}
	}
	return "", ErrPackageNotFound
}

// Install launches a silent winget install for id.
func (m *WingetManager) Install(ctx context.Context, id string, userScope bool) error {
	args := []string{
		"install", "--id", id, "--exact", "--silent",
		"--accept-package-agreements", "--accept-source-agreements",
	}
	if userScope {
		args = append(args, "--scope", "user")
	}

	_, stderr, code, err := m.runner.Run(ctx, "winget.exe", args...)
	if err != nil {
		return fmt.Errorf("sysops: winget install %s: %w", id, err)
	}
	if code != 0 {
		return fmt.Errorf("sysops: winget install %s: exit %d: %s", id, code, strings.TrimSpace(string(stderr)))
	}
	return nil
}
