package layout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/tradeops/botstrap/internal/system"
)

// ErrProvision indicates a directory could not be created or its
// ownership could not be applied.
var ErrProvision = errors.New("layout: filesystem provisioning failed")

// Provisioner materializes the fixed directory tree the service needs.
// Creation is create-if-missing; a pre-existing directory never errors.
type Provisioner struct {
	accounts *system.Accounts
	logger   *slog.Logger
}

// New returns a filesystem layout provisioner.
func New(accounts *system.Accounts, logger *slog.Logger) *Provisioner {
	return &Provisioner{accounts: accounts, logger: logger}
}

// Ensure creates every directory in topLevel and subdirs, then hands the
// top-level paths to owner recursively. An empty owner (development mode,
// where the invoking account already owns its own tree) skips the chown.
func (p *Provisioner) Ensure(ctx context.Context, topLevel, subdirs []string, owner string) error {
	for _, dir := range append(append([]string{}, topLevel...), subdirs...) {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("%w: create %s: %v", ErrProvision, dir, err)
		}
		p.logger.Debug("directory ensured", "path", dir)
	}
	if owner == "" {
		return nil
	}
	for _, dir := range topLevel {
		if err := p.accounts.Chown(ctx, owner, dir); err != nil {
			return fmt.Errorf("%w: chown %s: %v", ErrProvision, dir, err)
		}
	}
	return nil
}
