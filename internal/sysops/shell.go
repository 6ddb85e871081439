package sysops

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
)

// Shell exposes the desktop-shell actions the reconciler needs: a
// restart to make visual settings take effect, and opening the
// interactive default-apps surface (user default associations cannot be
// written programmatically, so that remediation is invoke-only).
type Shell interface {
	RestartExplorer(ctx context.Context) error
	OpenDefaultAppsSettings(ctx context.Context) error
}

// ExplorerShell drives the Windows shell through a Runner.
type ExplorerShell struct {
	runner Runner
}

// NewExplorerShell creates a shell adapter backed by the runner.
func NewExplorerShell(runner Runner) *ExplorerShell {
	return &ExplorerShell{runner: runner}
}

// RestartExplorer kills and relaunches the explorer process.
func (s *ExplorerShell) RestartExplorer(ctx context.Context) error {
	log.Info().Msg("Restarting desktop shell to apply visual settings")

	_, stderr, code, err := s.runner.Run(ctx, "taskkill.exe", "/f", "/im", "explorer.exe")
	if err != nil {
		return fmt.Errorf("sysops: taskkill explorer: %w", err)
	}
	if code != 0 {
		return fmt.Errorf("sysops: taskkill explorer: exit %d: %s", code, strings.TrimSpace(string(stderr)))
	}

	if _, _, _, err := s.runner.Run(ctx, "cmd.exe", "/c", "start", "explorer.exe"); err != nil {
		return fmt.Errorf("sysops: relaunch explorer: %w", err)
	}
	return nil
}

// OpenDefaultAppsSettings launches the interactive default-apps page.
// Success means the surface was invoked, nothing more.
func (s *ExplorerShell) OpenDefaultAppsSettings(ctx context.Context) error {
	_, stderr, code, err := s.runner.Run(ctx, "cmd.exe", "/c", "start", "ms-settings:defaultapps")
	if err != nil {
		return fmt.Errorf("sysops: open default apps settings: %w", err)
	}
	if code != 0 {
		return fmt.Errorf("sysops: open default apps settings: exit %d: %s", code, strings.TrimSpace(string(stderr)))
	}
	return nil
}
