package pkgmgr

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/tradeops/botstrap/internal/system"
)

// ErrInstall indicates the package index refresh or a package install
// failed. Downstream components assume the full toolchain is present, so
// there is no partial-install tolerance.
var ErrInstall = errors.New("pkgmgr: package installation failed")

// Apt installs system packages through apt-get. Installation is idempotent
// at the package-manager level; requesting an installed package is a no-op.
type Apt struct {
	runner system.Runner
	logger *slog.Logger
}

// New returns an Apt provisioner using the given runner.
func New(runner system.Runner, logger *slog.Logger) *Apt {
	return &Apt{runner: runner, logger: logger}
}

// EnsureInstalled refreshes the package index, then requests installation
// of every named package in one invocation. Any failure is fatal.
func (a *Apt) EnsureInstalled(ctx context.Context, packages []string) error {
	if len(packages) == 0 {
		return nil
	}
	a.logger.Info("refreshing package index")
	if _, err := a.runner.Run(ctx, "apt-get", "update"); err != nil {
		return fmt.Errorf("%w: %v", ErrInstall, err)
	}

	a.logger.Info("installing system packages", "packages", packages)
	args := append([]string{"install", "-y"}, packages...)
	if _, err := a.runner.Run(ctx, "apt-get", args...); err != nil {
		return fmt.Errorf("%w: %v", ErrInstall, err)
	}
	return nil
}
